// Package iocheck implements the Checker interface. It verifies that
// identifiers used in regional JSON files exist in the national
// pokedex table. This is an impure I/O package.
package iocheck

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/iofs"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
)

// checker implements the Checker interface.
type checker struct {
	op  db.Operator
	enc gnfmt.GNjson
}

// New creates a new Checker.
func New(op db.Operator) lifecycle.Checker {
	return &checker{op: op}
}

// Check collects every string "id" field of the JSON files under paths
// and reports those the pokedex table does not have. Files that cannot
// be parsed are reported and skipped. The report is returned together
// with an error when identifiers are missing.
func (c *checker) Check(
	ctx context.Context,
	paths []string,
) (*lifecycle.CheckReport, error) {
	gdb := c.op.DB()
	if gdb == nil {
		return nil, NotConnectedError()
	}
	if err := ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	var files []string
	for _, path := range paths {
		found, err := iofs.JSONFiles(path)
		if err != nil {
			return nil, ReadError(path, err)
		}
		files = append(files, found...)
	}

	known, err := iodb.NewStore(gdb).FormIDs(ctx)
	if err != nil {
		return nil, err
	}
	master := make(map[string]struct{}, len(known))
	for _, id := range known {
		master[id] = struct{}{}
	}
	gn.Info("National pokedex has <em>%s</em> identifiers",
		humanize.Comma(int64(len(master))))

	report := &lifecycle.CheckReport{Missing: make(map[string][]string)}
	checked := make(map[string]struct{})
	for _, path := range files {
		if err = ctx.Err(); err != nil {
			return report, CancelledError(err)
		}

		ids, err := c.fileIDs(path)
		if err != nil {
			slog.Warn("Cannot check file", "path", path, "error", err)
			gn.Warn("Skipped <em>%s</em>: %s", filepath.Base(path), err)
			continue
		}
		report.Files++

		var missing int
		for _, id := range ids {
			checked[id] = struct{}{}
			if _, ok := master[id]; ok {
				continue
			}
			missing++
			report.Missing[id] = append(report.Missing[id], path)
		}
		slog.Info("File checked", "path", path, "ids", len(ids), "missing", missing)
		if missing == 0 {
			gn.Info("<em>%s</em>: %d identifiers, all present",
				filepath.Base(path), len(ids))
			continue
		}
		gn.Warn("<em>%s</em>: %d identifiers, %d missing",
			filepath.Base(path), len(ids), missing)
	}
	report.Checked = len(checked)

	if len(report.Missing) > 0 {
		ids := make([]string, 0, len(report.Missing))
		for id := range report.Missing {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return report, MissingIDsError(ids)
	}
	return report, nil
}

// fileIDs returns distinct identifiers of a file. Only the pokedex member is searched when the file has one.
func (c *checker) fileIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}

	var doc any
	if err = c.enc.Decode(data, &doc); err != nil {
		return nil, ReadError(path, err)
	}
	if m, ok := doc.(map[string]any); ok {
		if dex, ok := m["pokedex"]; ok {
			doc = dex
		}
	}

	var res []string
	seen := make(map[string]struct{})
	collectIDs(doc, func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		res = append(res, id)
	})
	return res, nil
}

func collectIDs(v any, add func(string)) {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t["id"].(string); ok {
			add(id)
		}
		for _, child := range t {
			collectIDs(child, add)
		}
	case []any:
		for _, child := range t {
			collectIDs(child, add)
		}
	}
}
