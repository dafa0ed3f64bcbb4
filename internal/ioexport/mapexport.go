package ioexport

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/gnuuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/pokedexdb/pokedexdb/pkg/verid"
)

// MapFile is the default name of the description map.
const MapFile = "description_map.json"

// groupText addresses texts of one verID group of a record.
type groupText struct {
	id, group string
}

// mapRecord is a form with its groups of localized texts.
type mapRecord struct {
	globalNo string
	id       string
	groups   []mapGroup
}

type mapGroup struct {
	key   string
	texts map[string]string
}

// ExportMap writes {update, data: {globalNo: {id: {group: {lang: text}}}}}.
// Groups are named after the display name of their last verID,
// languages follow the catalog order, every language is present.
func (e *exporter) ExportMap(ctx context.Context, path string) (int, error) {
	gdb := e.op.DB()
	if gdb == nil {
		return 0, NotConnectedError()
	}
	store := iodb.NewStore(gdb)

	records, err := e.mapRecords(ctx, store)
	if err != nil {
		return 0, err
	}

	update := e.now().Format("200601021504")
	data, err := e.encodeMap(update, records)
	if err != nil {
		return 0, WriteError(path, err)
	}
	if err = writeAtomic(path, data); err != nil {
		return 0, err
	}

	entry := &schema.ExportLog{
		Version:     "description_map",
		Updated:     update,
		Path:        path,
		Fingerprint: gnuuid.New(string(data)).String(),
		Entries:     len(records),
		CreatedAt:   e.now(),
	}
	err = iodb.DefaultRetry.Do(ctx, "export log map", func() error {
		return store.LogExport(ctx, entry)
	})
	if err != nil {
		return 0, LogError(path, err)
	}

	slog.Info("Description map exported",
		"path", path, "records", len(records))
	gn.Info("Exported <em>%s</em> (%d records)", path, len(records))
	return len(records), nil
}

func (e *exporter) mapRecords(
	ctx context.Context,
	store *iodb.Store,
) ([]mapRecord, error) {
	stored, err := store.DescriptionGroups(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]verid.Row, len(stored))
	for i, v := range stored {
		rows[i] = verid.Row{
			ID:       v.ID,
			GlobalNo: v.GlobalNo,
			VerIDs:   verid.Split(v.VerID),
		}
	}
	ix := verid.Build(rows, e.cat.Grouping())

	dexMap, err := store.DexMap(ctx)
	if err != nil {
		return nil, err
	}
	texts := make(map[groupText]map[string]string)
	for _, v := range dexMap {
		k := groupText{id: v.ID, group: v.VerID}
		if _, ok := texts[k]; !ok {
			texts[k] = make(map[string]string)
		}
		texts[k][v.Language] = v.Dex
	}

	formIDs, err := store.FormIDs(ctx)
	if err != nil {
		return nil, err
	}
	bySheet := make(map[string][]string)
	for _, id := range formIDs {
		sheet := formid.SheetID(id)
		bySheet[sheet] = append(bySheet[sheet], id)
	}

	var res []mapRecord
	for _, sheetID := range ix.IDs() {
		var groups []mapGroup
		for _, g := range ix.ExportKeys(sheetID, e.cat.DisplayName) {
			t, ok := texts[groupText{id: sheetID, group: g.Group}]
			if !ok {
				continue
			}
			groups = append(groups, mapGroup{key: g.Key, texts: t})
		}
		if len(groups) == 0 {
			continue
		}

		// Records that are not in the national pokedex are left out.
		for _, id := range bySheet[sheetID] {
			res = append(res, mapRecord{
				globalNo: ix.GlobalNo(sheetID),
				id:       id,
				groups:   groups,
			})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		a, b := numeric(res[i].globalNo), numeric(res[j].globalNo)
		if a != b {
			return a < b
		}
		return res[i].id < res[j].id
	})
	return res, nil
}

func (e *exporter) encodeMap(update string, records []mapRecord) ([]byte, error) {
	langs := e.cat.Languages()

	s := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(s)

	s.WriteObjectStart()
	s.WriteObjectField("update")
	s.WriteString(update)
	s.WriteMore()
	s.WriteObjectField("data")
	s.WriteObjectStart()
	start := 0
	for start < len(records) {
		if start > 0 {
			s.WriteMore()
		}
		globalNo := records[start].globalNo
		end := start
		for end < len(records) && records[end].globalNo == globalNo {
			end++
		}

		s.WriteObjectField(globalNo)
		s.WriteObjectStart()
		for i, r := range records[start:end] {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(r.id)
			writeGroups(s, r.groups, langs)
		}
		s.WriteObjectEnd()
		start = end
	}
	s.WriteObjectEnd()
	s.WriteObjectEnd()

	if s.Error != nil {
		return nil, s.Error
	}
	return append([]byte(nil), s.Buffer()...), nil
}

func writeGroups(
	s *jsoniter.Stream,
	groups []mapGroup,
	langs []catalog.Language,
) {
	s.WriteObjectStart()
	for i, g := range groups {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(g.key)
		s.WriteObjectStart()
		for j, l := range langs {
			if j > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(l.Code)
			s.WriteString(g.texts[l.Code])
		}
		s.WriteObjectEnd()
	}
	s.WriteObjectEnd()
}

func numeric(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}
