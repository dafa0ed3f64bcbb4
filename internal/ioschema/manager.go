// Package ioschema implements SchemaManager with GORM AutoMigrate on
// either database backend.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
)

type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates all tables of the pokedex schema.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	slog.Info("Schema created",
		"driver", m.operator.Driver(),
		"tables", len(schema.TableNames()),
	)
	return nil
}

// Migrate updates existing tables to the current models.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	slog.Info("Schema migrated", "driver", m.operator.Driver())
	return nil
}
