// Package db defines the contract for database connections.
package db

import (
	"context"

	"github.com/pokedexdb/pokedexdb/pkg/config"
	"gorm.io/gorm"
)

// Operator manages a connection to the pokedex database. Both SQLite and
// PostgreSQL backends expose the same GORM handle, lifecycle components
// run their queries through it.
type Operator interface {
	// Connect opens the database described by the config.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the connection.
	Close() error

	// DB returns the GORM handle of the open connection, or nil.
	DB() *gorm.DB

	// Driver returns "sqlite" or "postgres".
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops every table of the database.
	DropAllTables(ctx context.Context) error
}
