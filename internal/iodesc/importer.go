// Package iodesc implements the DescriptionImporter interface. It loads
// description texts and verID groups exported from the description
// spreadsheet as CSV files. This is an impure I/O package.
package iodesc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/pokedexdb/pokedexdb/pkg/verid"
	"gorm.io/gorm"
)

const (
	colID    = "ID"
	colVerID = "verID"
)

// importer implements the DescriptionImporter interface.
type importer struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	op    db.Operator
	retry iodb.Retry
}

// New creates a new DescriptionImporter.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	op db.Operator,
) lifecycle.DescriptionImporter {
	return &importer{cfg: cfg, cat: cat, op: op, retry: iodb.DefaultRetry}
}

// textKey addresses texts of one verID of a record.
type textKey struct {
	id, globalNo, verID string
}

// ImportDescriptions replaces description tables with the content of
// dex.csv and map.csv.
func (im *importer) ImportDescriptions(
	ctx context.Context,
	dexPath, mapPath string,
) (*lifecycle.DescriptionStats, error) {
	if im.op.DB() == nil {
		return nil, NotConnectedError()
	}

	startTime := time.Now()
	stats := &lifecycle.DescriptionStats{}

	dexTable, err := readCSV(dexPath)
	if err != nil {
		return nil, err
	}
	mapTable, err := readCSV(mapPath)
	if err != nil {
		return nil, err
	}

	descs, err := im.descriptions(dexTable, stats)
	if err != nil {
		return nil, err
	}
	ix, err := im.groupIndex(mapTable, stats)
	if err != nil {
		return nil, err
	}
	groups := groupRows(ix)
	dexMap := dexMapRows(ix, groups, descs)

	stats.Groups = len(groups)
	stats.Conflicts = len(ix.Conflicts())
	stats.DexMap = len(dexMap)

	err = im.save(ctx, descs, groups, dexMap)
	if err != nil {
		return nil, err
	}
	stats.Inserted = len(descs) + len(groups)

	duration := time.Since(startTime)
	slog.Info("Descriptions imported",
		"processed", stats.Processed,
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"groups", stats.Groups,
		"conflicts", stats.Conflicts,
		"dex_map", stats.DexMap,
		"duration", gnfmt.TimeString(duration.Seconds()),
	)
	gn.Info(`Descriptions imported
Rows processed: %s, inserted: %s, skipped: %s.
VerID groups: %s, texts attached to groups: %s.
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(stats.Processed)),
		humanize.Comma(int64(stats.Inserted)),
		humanize.Comma(int64(stats.Skipped)),
		humanize.Comma(int64(stats.Groups)),
		humanize.Comma(int64(stats.DexMap)),
		gnfmt.TimeString(duration.Seconds()),
	)
	return stats, nil
}

// descriptions converts dex.csv rows to one row per non-empty text.
func (im *importer) descriptions(
	t *table,
	stats *lifecycle.DescriptionStats,
) ([]schema.PokedexDescription, error) {
	for _, col := range []string{colID, colVerID} {
		if !t.has(col) {
			return nil, ColumnError(t.path, col)
		}
	}

	var langs []catalog.Language
	var missing []string
	for _, v := range im.cat.Languages() {
		if t.has(v.Column) {
			langs = append(langs, v)
		} else {
			missing = append(missing, v.Column)
		}
	}
	if len(missing) > 0 {
		slog.Warn("Missing language columns", "path", t.path, "columns", missing)
		gn.Warn("Missing columns in <em>%s</em>: %s",
			t.path, strings.Join(missing, ", "))
	}

	bar := pb.Full.Start(len(t.rows))
	bar.Set("prefix", "Reading descriptions: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var res []schema.PokedexDescription
	for _, row := range t.rows {
		bar.Increment()
		stats.Processed++
		id := t.get(row, colID)
		verID := t.get(row, colVerID)
		if id == "" || verID == "" {
			stats.Skipped++
			continue
		}

		var inserted int
		for _, lang := range langs {
			text := t.raw(row, lang.Column)
			if strings.TrimSpace(text) == "" {
				continue
			}
			res = append(res, schema.PokedexDescription{
				ID:       id,
				GlobalNo: formid.GlobalNo(id),
				VerID:    verID,
				Language: lang.Code,
				Dex:      text,
			})
			inserted++
		}
		if inserted == 0 {
			stats.Skipped++
		}
	}
	return res, nil
}

// groupIndex builds verID groups out of map.csv rows.
func (im *importer) groupIndex(
	t *table,
	stats *lifecycle.DescriptionStats,
) (*verid.Index, error) {
	if !t.has(colID) {
		return nil, ColumnError(t.path, colID)
	}

	slots := verid.SlotColumns()
	rows := make([]verid.Row, 0, len(t.rows))
	for _, row := range t.rows {
		stats.Processed++
		id := t.get(row, colID)
		if id == "" {
			stats.Skipped++
			continue
		}

		var verIDs []string
		for _, col := range slots {
			if v := t.get(row, col); v != "" {
				verIDs = append(verIDs, v)
			}
		}
		if len(verIDs) == 0 {
			stats.Skipped++
			continue
		}
		rows = append(rows, verid.Row{
			ID:       id,
			GlobalNo: formid.GlobalNo(id),
			VerIDs:   verIDs,
		})
	}
	return verid.Build(rows, im.cat.Grouping()), nil
}

// groupRows lists groups of every record in first-seen order.
func groupRows(ix *verid.Index) []schema.PokedexDescriptionMap {
	var res []schema.PokedexDescriptionMap
	for _, id := range ix.IDs() {
		for _, g := range ix.Groups(id) {
			res = append(res, schema.PokedexDescriptionMap{
				ID:       id,
				GlobalNo: ix.GlobalNo(id),
				VerID:    g,
			})
		}
	}
	return res
}

// dexMapRows attaches texts of the first verID of every group to the
// group as a whole.
func dexMapRows(
	ix *verid.Index,
	groups []schema.PokedexDescriptionMap,
	descs []schema.PokedexDescription,
) []schema.PokedexDexMap {
	texts := make(map[textKey][]schema.PokedexDescription)
	for _, v := range descs {
		k := textKey{id: v.ID, globalNo: v.GlobalNo, verID: v.VerID}
		texts[k] = append(texts[k], v)
	}

	var res []schema.PokedexDexMap
	for _, g := range groups {
		k := textKey{id: g.ID, globalNo: g.GlobalNo, verID: ix.FirstVerID(g.VerID)}
		for _, v := range texts[k] {
			res = append(res, schema.PokedexDexMap{
				ID:       g.ID,
				GlobalNo: g.GlobalNo,
				VerID:    g.VerID,
				Language: v.Language,
				Dex:      v.Dex,
			})
		}
	}
	return res
}

// save replaces description tables in one transaction.
func (im *importer) save(
	ctx context.Context,
	descs []schema.PokedexDescription,
	groups []schema.PokedexDescriptionMap,
	dexMap []schema.PokedexDexMap,
) error {
	n := im.cfg.Database.BatchSize
	if n < 1 {
		n = 1
	}

	return im.retry.Do(ctx, "import descriptions", func() error {
		return im.op.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			batches := []struct {
				table string
				rows  any
				size  int
			}{
				{schema.PokedexDescription{}.TableName(), &descs, len(descs)},
				{schema.PokedexDescriptionMap{}.TableName(), &groups, len(groups)},
				{schema.PokedexDexMap{}.TableName(), &dexMap, len(dexMap)},
			}
			for _, b := range batches {
				if err := tx.Exec("DELETE FROM " + b.table).Error; err != nil {
					return InsertError(b.table, err)
				}
			}
			for _, b := range batches {
				if b.size == 0 {
					continue
				}
				if err := tx.CreateInBatches(b.rows, n).Error; err != nil {
					return InsertError(b.table, err)
				}
			}
			return nil
		})
	})
}
