// Package iooptimize implements the Optimizer interface. It removes rows
// that no import refers to any more and refreshes database statistics.
// This is an impure I/O package.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
)

// optimizer implements the Optimizer interface.
type optimizer struct {
	operator db.Operator
	retry    iodb.Retry
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(op db.Operator) lifecycle.Optimizer {
	return &optimizer{
		operator: op,
		retry:    iodb.DefaultRetry,
	}
}

// Optimize executes 2 sequential steps:
//  1. Remove orphaned rows
//  2. Reclaim space and update planner statistics
func (o *optimizer) Optimize(
	ctx context.Context,
) (*lifecycle.OptimizeStats, error) {
	if o.operator.DB() == nil {
		return nil, NotConnectedError()
	}

	startTime := time.Now()
	slog.Info("Starting database optimization")
	gn.Info("Optimization in progress, <em>it might take a while</em>...")

	slog.Info("Step 1/2: Removing orphaned rows")
	removed, err := o.removeOrphans(ctx)
	if err != nil {
		return nil, err
	}
	stats := &lifecycle.OptimizeStats{Orphans: removed}
	if removed == 0 {
		gn.Info("<em>No orphaned rows found</em>")
	} else {
		gn.Info("<em>Removed %s orphaned rows</em>", humanize.Comma(removed))
	}

	slog.Info("Step 2/2: Updating statistics")
	if err = o.vacuum(ctx); err != nil {
		return stats, err
	}

	duration := gnfmt.TimeString(time.Since(startTime).Seconds())
	slog.Info("Database optimization completed",
		"orphans", removed, "duration", duration)
	gn.Info("Optimization complete. Elapsed time: <em>%s</em>", duration)
	return stats, nil
}
