package ioexport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	jsoniter "github.com/json-iterator/go"
	"github.com/pokedexdb/pokedexdb/internal/iotesting"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC)
}

func newExporter(t *testing.T) (*exporter, db.Operator, *config.Config) {
	t.Helper()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	e := &exporter{cfg: cfg, cat: iotesting.Catalog(t), op: op, now: fixedNow}
	return e, op, cfg
}

func scope(globalNo string) schema.FormScope {
	return schema.FormScope{GlobalNo: globalNo}
}

func seedVersion(t *testing.T, op db.Operator) {
	t.Helper()
	local := []schema.LocalPokedex{
		{No: "10", FormScope: scope("0006"), Version: "x_y",
			Pokedex: "セントラルカロス図鑑"},
		{No: "2", FormScope: scope("0002"), Version: "x_y",
			Pokedex: "セントラルカロス図鑑"},
		{No: "1", FormScope: scope("0650"), Version: "x_y",
			Pokedex: "コーストカロス図鑑"},
	}
	require.NoError(t, op.DB().Create(&local).Error)

	types := []schema.LocalPokedexType{
		{FormScope: scope("0006"), Version: "x_y", Type1: "ひこう", Type2: "ほのお"},
	}
	require.NoError(t, op.DB().Create(&types).Error)

	descs := []schema.PokedexDescription{
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_02",
			Language: "jpn", Dex: "text y"},
	}
	require.NoError(t, op.DB().Create(&descs).Error)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	e, op, cfg := newExporter(t)
	seedVersion(t, op)

	stats, err := e.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Versions)
	assert.Equal(t, 3, stats.Entries)
	path := filepath.Join(cfg.Export.OutputDir, "x_y", "x_y.json")
	assert.Equal(t, []string{path}, stats.Files)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, jsoniter.Unmarshal(data, &res))
	assert.Equal(t, "20250304", res["update"])
	assert.Equal(t, "x_y", res["game_version"])

	dexes := res["pokedex"].(map[string]any)
	central := dexes["セントラルカロス図鑑"].(map[string]any)
	entry := central["10"].(map[string]any)["0006_00000000_0_000_0"].(map[string]any)
	assert.Equal(t, "ほのお", entry["type1"], "types are in canonical order")
	assert.Equal(t, "ひこう", entry["type2"])
	assert.Equal(t, map[string]any{"x": "", "y": "text y"}, entry["description"])

	text := string(data)
	assert.Less(t, strings.Index(text, `"2"`), strings.Index(text, `"10"`),
		"dex numbers are in numeric order")
	assert.Less(t, strings.Index(text, "セントラルカロス図鑑"),
		strings.Index(text, "コーストカロス図鑑"), "pokedexes keep import order")

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1, "no temporary files are left")

	var logs []schema.ExportLog
	require.NoError(t, op.DB().Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "x_y", logs[0].Version)
	assert.Equal(t, 3, logs[0].Entries)
	assert.Len(t, logs[0].Fingerprint, 36)
}

func TestExportRepeatable(t *testing.T) {
	ctx := context.Background()
	e, op, cfg := newExporter(t)
	seedVersion(t, op)
	path := VersionPath(cfg.Export.OutputDir, "x_y")

	_, err := e.Export(ctx)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = e.Export(ctx)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var logs []schema.ExportLog
	require.NoError(t, op.DB().Order("row_id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, logs[0].Fingerprint, logs[1].Fingerprint)
}

func TestExportVersions(t *testing.T) {
	ctx := context.Background()
	e, op, cfg := newExporter(t)
	seedVersion(t, op)
	cfg.Update([]config.Option{
		config.OptExportVersions([]string{"X_Y", "x_y", "LegendsZA"}),
		config.OptJobsNumber(2),
	})

	stats, err := e.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Versions)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, stats.Files, 2)
	assert.Equal(t,
		filepath.Join(cfg.Export.OutputDir, "legendsza", "legendsza.json"),
		stats.Files[0])

	data, err := os.ReadFile(stats.Files[0])
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, jsoniter.Unmarshal(data, &res))
	assert.Empty(t, res["pokedex"])
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newExporter(t)

	_, err := e.Export(ctx)
	require.Error(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.ExportNoVersionsError, gnErr.Code)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	e.cfg.Update([]config.Option{config.OptExportVersions([]string{"x_y"})})
	_, err = e.Export(cancelled)
	require.Error(t, err)
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.CancelledError, gnErr.Code)
}

func TestExportMap(t *testing.T) {
	ctx := context.Background()
	e, op, cfg := newExporter(t)

	forms := []schema.Pokedex{
		{ID: "0006_00000000_0_000_0", FormScope: scope("0006")},
		{ID: "0006_00000000_1_000_0", FormScope: scope("0006")},
		{ID: "0025_00000000_0_000_0", FormScope: scope("0025")},
		{ID: "0010_00000000_0_000_0", FormScope: scope("0010")},
	}
	require.NoError(t, op.DB().Create(&forms).Error)

	groups := []schema.PokedexDescriptionMap{
		{ID: "0025_00000000", GlobalNo: "0025", VerID: "06_01,06_02"},
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_01,06_02"},
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_03"},
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_04,06_02"},
		{ID: "0010_00000000", GlobalNo: "0010", VerID: "99_99"},
		{ID: "0999_00000000", GlobalNo: "0999", VerID: "06_01"},
	}
	require.NoError(t, op.DB().Create(&groups).Error)

	dexMap := []schema.PokedexDexMap{
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_01,06_02",
			Language: "jpn", Dex: "text xy"},
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_01,06_02",
			Language: "eng", Dex: "eng xy"},
		{ID: "0006_00000000", GlobalNo: "0006", VerID: "06_04,06_02",
			Language: "jpn", Dex: "text oras"},
		{ID: "0025_00000000", GlobalNo: "0025", VerID: "06_01,06_02",
			Language: "jpn", Dex: "pika"},
		{ID: "0010_00000000", GlobalNo: "0010", VerID: "99_99",
			Language: "jpn", Dex: "unknown verID"},
		{ID: "0999_00000000", GlobalNo: "0999", VerID: "06_01",
			Language: "jpn", Dex: "not in pokedex"},
	}
	require.NoError(t, op.DB().Create(&dexMap).Error)

	path := filepath.Join(cfg.Export.OutputDir, MapFile)
	n, err := e.ExportMap(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var res struct {
		Update string                                             `json:"update"`
		Data   map[string]map[string]map[string]map[string]string `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(data, &res))
	assert.Equal(t, "202503040506", res.Update)
	assert.Len(t, res.Data, 3)
	assert.NotContains(t, res.Data, "0999")

	charizard := res.Data["0006"]["0006_00000000_1_000_0"]
	require.Len(t, charizard, 2, "group without texts is left out")
	assert.Equal(t, "text xy", charizard["Y"]["jpn"])
	assert.Equal(t, "eng xy", charizard["Y"]["eng"])
	assert.Equal(t, "", charizard["Y"]["fra"])
	assert.Len(t, charizard["Y"], 12)
	assert.Equal(t, "text oras", charizard["Y_2"]["jpn"])
	assert.Equal(t, "unknown verID", res.Data["0010"]["0010_00000000_0_000_0"]["99_99"]["jpn"])

	text := string(data)
	assert.Less(t, strings.Index(text, `"0006"`), strings.Index(text, `"0010"`))
	assert.Less(t, strings.Index(text, `"0010"`), strings.Index(text, `"0025"`))
	assert.Less(t, strings.Index(text, `"jpn"`), strings.Index(text, `"eng"`),
		"languages follow the catalog")
}
