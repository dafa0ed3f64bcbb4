package db_test

import (
	"testing"

	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/db"
)

func TestOperatorImplementsInterface(t *testing.T) {
	var _ db.Operator = iodb.NewOperator()
}
