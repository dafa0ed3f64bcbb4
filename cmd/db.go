package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}

// connect opens the configured database. With needTables it fails on a
// database without tables.
func connect(ctx context.Context, needTables bool) (db.Operator, error) {
	op := iodb.NewOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	announce()

	if !needTables {
		return op, nil
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		return nil, &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'pokedexdb create'</em> first to initialize the schema.`,
			Err: errors.New("database has no tables"),
		}
	}
	return op, nil
}

func announce() {
	if cfg.Database.Driver == "sqlite" {
		gn.Info("Connected to database: <em>%s</em>", cfg.Database.Path)
		return
	}
	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)
}
