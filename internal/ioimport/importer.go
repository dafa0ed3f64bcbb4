// Package ioimport implements the Importer interface for loading pokedex
// JSON files into the database. This is an impure I/O package.
package ioimport

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/iofs"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
)

// classificationLanguage is the language of classifications in global
// files, they only come in Japanese.
const classificationLanguage = "jpn"

// importer implements the Importer interface.
type importer struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	op    db.Operator
	codec *formid.Codec
	retry iodb.Retry
	enc   gnfmt.GNjson
}

// New creates a new Importer.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	op db.Operator,
) lifecycle.Importer {
	return &importer{
		cfg:   cfg,
		cat:   cat,
		op:    op,
		codec: formid.NewCodec(cat),
		retry: iodb.DefaultRetry,
	}
}

// Import loads every JSON file found in paths. A file that fails is
// reported and skipped, the import fails only when every file failed.
func (im *importer) Import(
	ctx context.Context,
	paths []string,
) (*lifecycle.ImportStats, error) {
	if im.op.DB() == nil {
		return nil, NotConnectedError()
	}

	files, err := jsonFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, NoFilesError(paths)
	}

	startTime := time.Now()
	slog.Info("Starting import", "files", len(files))

	stats := &lifecycle.ImportStats{}
	for _, path := range files {
		select {
		case <-ctx.Done():
			return stats, CancelledError(ctx.Err())
		default:
		}

		fileStart := time.Now()
		gn.Info("Importing <em>%s</em>", filepath.Base(path))
		if err = im.importFile(ctx, path, stats); err != nil {
			stats.Failed++
			slog.Error("Failed to import file", "path", path, "error", err)
			gn.Warn("Skipped <em>%s</em>: %s", filepath.Base(path), err)
			continue
		}
		stats.Files++
		slog.Info("File imported",
			"path", path,
			"duration", gnfmt.TimeString(time.Since(fileStart).Seconds()),
		)
	}

	duration := time.Since(startTime)
	slog.Info("Import complete",
		"files", stats.Files,
		"failed", stats.Failed,
		"forms", stats.Forms,
		"entries", stats.Entries,
		"duration", gnfmt.TimeString(duration.Seconds()),
	)
	gn.Info(`Import complete
Files imported: %d, failed: %d.
Forms: %s, regional entries: %s, descriptions: %s.
Elapsed time: <em>%s</em>
`,
		stats.Files,
		stats.Failed,
		humanize.Comma(int64(stats.Forms)),
		humanize.Comma(int64(stats.Entries)),
		humanize.Comma(int64(stats.Descriptions)),
		gnfmt.TimeString(duration.Seconds()),
	)

	if stats.Files == 0 {
		return stats, AllFilesFailedError(stats.Failed)
	}
	return stats, nil
}

func (im *importer) importFile(
	ctx context.Context,
	path string,
	stats *lifecycle.ImportStats,
) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReadError(path, err)
	}

	var p probe
	if err = im.enc.Decode(data, &p); err != nil {
		return DecodeError(path, err)
	}

	raw := bytes.TrimSpace(p.Pokedex)
	switch {
	case len(raw) > 0 && raw[0] == '[':
		var f globalFile
		if err = im.enc.Decode(data, &f); err != nil {
			return DecodeError(path, err)
		}
		return im.importGlobal(ctx, path, &f, stats)
	case len(raw) > 0 && raw[0] == '{':
		var f regionalFile
		if err = im.enc.Decode(data, &f); err != nil {
			return DecodeError(path, err)
		}
		if strings.TrimSpace(f.GameVersion) == "" {
			return NoGameVersionError(path)
		}
		return im.importRegional(ctx, path, &f, stats)
	default:
		return DecodeError(path, fmt.Errorf("pokedex field is missing"))
	}
}

func (im *importer) batchSize() int {
	if im.cfg.Database.BatchSize < 1 {
		return 1
	}
	return im.cfg.Database.BatchSize
}

// jsonFiles expands directories of paths to the JSON files they
// contain.
func jsonFiles(paths []string) ([]string, error) {
	var res []string
	for _, path := range paths {
		found, err := iofs.JSONFiles(path)
		if err != nil {
			return nil, ReadError(path, err)
		}
		res = append(res, found...)
	}
	return res, nil
}
