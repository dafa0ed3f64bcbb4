// Package lifecycle defines the stages of the pokedex database life:
// schema creation, imports, exports and checks. Implementations live in
// internal/io* packages.
package lifecycle

import (
	"context"

	"github.com/pokedexdb/pokedexdb/pkg/config"
)

// SchemaManager creates and updates the database schema with GORM
// AutoMigrate. Both operations are idempotent.
type SchemaManager interface {
	// Create creates every table of the schema.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate brings existing tables to the current schema.
	Migrate(ctx context.Context, cfg *config.Config) error
}
