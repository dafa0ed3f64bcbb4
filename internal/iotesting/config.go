// Package iotesting provides shared test utilities for I/O packages.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/iofs"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/stretchr/testify/require"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration
	// tests. Tests never touch a production database.
	TestDatabaseName = "pokedex_test"
)

// Config returns default configuration with HomeDir, the SQLite file and
// the output directory inside a temporary directory.
func Config(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptDatabasePath(filepath.Join(home, "pokedex.db")),
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptExportOutputDir(filepath.Join(home, "out")),
		config.OptDatabaseBatchSize(2),
	})
	return cfg
}

// Catalog parses the catalog embedded into the binary.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Parse([]byte(iofs.CatalogYAML))
	require.NoError(t, err)
	return cat
}

// OpenSQLite connects to the SQLite file of cfg and creates the schema.
// The connection is closed when the test finishes.
func OpenSQLite(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()

	op := iodb.NewOperator()
	require.NoError(t, op.Connect(context.Background(), &cfg.Database))
	t.Cleanup(func() { op.Close() })

	require.NoError(t, schema.Migrate(op.DB()))
	return op
}

// WriteFile writes content to name inside dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
