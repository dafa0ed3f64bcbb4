package iooptimize

import (
	"context"
	"log/slog"
	"time"
)

// vacuumStatements returns statements that reclaim space and update
// query planner statistics. None of them can run inside a transaction.
func vacuumStatements(driver string) []string {
	if driver == "postgres" {
		return []string{"VACUUM ANALYZE"}
	}
	return []string{"VACUUM", "ANALYZE"}
}

func (o *optimizer) vacuum(ctx context.Context) error {
	timeStart := time.Now()
	gdb := o.operator.DB().WithContext(ctx)
	for _, stmt := range vacuumStatements(o.operator.Driver()) {
		if err := gdb.Exec(stmt).Error; err != nil {
			slog.Error("Failed to update statistics", "statement", stmt, "error", err)
			return VacuumError(stmt, err)
		}
	}
	slog.Info("Statistics updated",
		"driver", o.operator.Driver(),
		"duration", time.Since(timeStart).String())
	return nil
}
