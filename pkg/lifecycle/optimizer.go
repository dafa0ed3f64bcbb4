package lifecycle

import "context"

// OptimizeStats summarizes an optimization run.
type OptimizeStats struct {
	// Orphans is the number of deleted rows that nothing referred to.
	Orphans int64
}

// Optimizer removes orphaned rows and refreshes storage and query
// planner statistics. It is safe to run after every import.
type Optimizer interface {
	Optimize(ctx context.Context) (*OptimizeStats, error)
}
