// Package ioexport implements the Exporter interface. It writes
// reconciled version files and the description map out of the
// database. This is an impure I/O package.
package ioexport

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/reconcile"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// exporter implements the Exporter interface.
type exporter struct {
	cfg *config.Config
	cat *catalog.Catalog
	op  db.Operator
	now func() time.Time
}

// New creates a new Exporter.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	op db.Operator,
) lifecycle.Exporter {
	return &exporter{cfg: cfg, cat: cat, op: op, now: time.Now}
}

// versionResult is the outcome of one version export.
type versionResult struct {
	version string
	path    string
	entries int
	err     error
}

// Export reconciles and writes versions concurrently, one worker per
// version up to JobsNumber workers. A failed version does not stop the
// others.
func (e *exporter) Export(ctx context.Context) (*lifecycle.ExportStats, error) {
	gdb := e.op.DB()
	if gdb == nil {
		return nil, NotConnectedError()
	}
	store := iodb.NewStore(gdb)

	versions, err := e.versions(ctx, store)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	slog.Info("Starting export", "versions", versions)
	engine := reconcile.New(e.cat, store)

	workerCount := e.cfg.JobsNumber
	if workerCount <= 0 {
		workerCount = 1
	}
	workerCount = min(workerCount, len(versions))

	g, gCtx := errgroup.WithContext(ctx)
	chIn := make(chan string)
	chOut := make(chan versionResult)

	g.Go(func() error {
		defer close(chIn)
		for _, v := range versions {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- v:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range workerCount {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for v := range chIn {
				res := e.exportVersion(gCtx, engine, store, v)
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case chOut <- res:
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(chOut)
	}()

	stats := &lifecycle.ExportStats{}
	for res := range chOut {
		if res.err != nil {
			stats.Failed++
			slog.Error("Failed to export version",
				"version", res.version, "error", res.err)
			gn.Warn("Skipped version <em>%s</em>: %s", res.version, res.err)
			continue
		}
		stats.Versions++
		stats.Entries += res.entries
		stats.Files = append(stats.Files, res.path)
		gn.Info("Exported <em>%s</em> (%s entries)",
			res.path, humanize.Comma(int64(res.entries)))
	}

	if err = g.Wait(); err != nil {
		return stats, CancelledError(err)
	}
	if err = ctx.Err(); err != nil {
		return stats, CancelledError(err)
	}
	slices.Sort(stats.Files)

	duration := time.Since(startTime)
	slog.Info("Export complete",
		"versions", stats.Versions,
		"failed", stats.Failed,
		"entries", stats.Entries,
		"duration", gnfmt.TimeString(duration.Seconds()),
	)
	gn.Info(`Export complete
Versions exported: %d, failed: %d, entries: %s.
Elapsed time: <em>%s</em>
`,
		stats.Versions,
		stats.Failed,
		humanize.Comma(int64(stats.Entries)),
		gnfmt.TimeString(duration.Seconds()),
	)

	if stats.Versions == 0 {
		return stats, AllVersionsFailedError(stats.Failed)
	}
	return stats, nil
}

// versions returns normalized versions to export: the configured ones,
// or every version of the database.
func (e *exporter) versions(
	ctx context.Context,
	store *iodb.Store,
) ([]string, error) {
	var res []string
	seen := make(map[string]struct{})
	for _, v := range e.cfg.Export.Versions {
		v = catalog.Normalize(strings.TrimSpace(v))
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	if len(res) > 0 {
		return res, nil
	}

	res, err := store.Versions(ctx)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, NoVersionsError()
	}
	return res, nil
}

// exportVersion builds the whole tree of a version before anything is
// written.
func (e *exporter) exportVersion(
	ctx context.Context,
	engine *reconcile.Engine,
	store *iodb.Store,
	version string,
) versionResult {
	res := versionResult{version: version}
	path := VersionPath(e.cfg.Export.OutputDir, version)

	rec, err := engine.ReconcileVersion(ctx, version)
	if err != nil {
		res.err = ReconcileError(version, err)
		return res
	}

	update := e.now().Format("20060102")
	data, err := encodeVersion(update, rec)
	if err != nil {
		res.err = WriteError(path, err)
		return res
	}
	if err = writeAtomic(path, data); err != nil {
		res.err = err
		return res
	}

	entry := &schema.ExportLog{
		Version:     version,
		Updated:     update,
		Path:        path,
		Fingerprint: gnuuid.New(string(data)).String(),
		Entries:     rec.Count(),
		CreatedAt:   e.now(),
	}
	err = iodb.DefaultRetry.Do(ctx, "export log "+version, func() error {
		return store.LogExport(ctx, entry)
	})
	if err != nil {
		res.err = LogError(path, err)
		return res
	}

	res.path = path
	res.entries = rec.Count()
	slog.Info("Version exported",
		"version", version,
		"path", path,
		"entries", res.entries,
		"collisions", rec.Collisions(),
		"fingerprint", entry.Fingerprint,
	)
	return res
}

// VersionPath returns the file a version is exported to.
func VersionPath(outputDir, version string) string {
	return filepath.Join(outputDir, version, version+".json")
}
