package ioimport_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/ioimport"
	"github.com/pokedexdb/pokedexdb/internal/iotesting"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const globalJSON = `{
  "update": "2025-01-01",
  "pokedex": [
    {
      "no": "0006",
      "name": {"jpn": "リザードン", "eng": "Charizard"},
      "form": [
        {"form": "", "region": "", "mega_evolution": "", "gigantamax": "",
         "height": "1.7", "weight": "90.5", "classification": "かえんポケモン"},
        {"form": "メガリザードンX", "region": "", "mega_evolution": "メガシンカ",
         "gigantamax": "", "height": 1.7, "weight": 110.5,
         "classification": "かえんポケモン",
         "name": {"jpn": "メガリザードンX"}},
        {"form": "メガリザードンY", "region": "", "mega_evolution": "メガシンカ",
         "gigantamax": "", "height": "1.7", "weight": "100.5",
         "classification": "かえんポケモン"}
      ]
    },
    {
      "no": 26,
      "name": {"jpn": "ライチュウ"},
      "form": [
        {"form": "", "region": "アローラのすがた", "mega_evolution": null,
         "gigantamax": false, "height": "0.7", "weight": "21.0",
         "classification": "ねずみポケモン", "id": "0026_99000000_0_000_0"}
      ]
    }
  ]
}`

const regionalJSON = `{
  "update": "2025-01-02",
  "game_version": "X_Y",
  "pokedex": {
    "セントラルカロス図鑑": [
      {"no": "10", "globalNo": "0006", "status": [
        {"form": "", "region": "", "mega_evolution": "", "gigantamax": "",
         "type1": "ほのお", "type2": "ひこう",
         "ability1": "もうか", "ability2": "", "dream_ability": "サンパワー",
         "hp": "78", "attack": 84, "defense": 78, "special_attack": 109,
         "special_defense": 85, "speed": 100,
         "description": {"x": "text x", "y": "text y"}}
      ]}
    ],
    "コーストカロス図鑑": [
      {"no": 1, "globalNo": "0006", "status": [
        {"form": "", "region": "", "mega_evolution": "", "gigantamax": "",
         "type1": "ほのお", "type2": "ひこう", "hp": 78}
      ]},
      {"no": 2, "globalNo": "0026", "status": [
        {"form": "", "region": "", "mega_evolution": "", "gigantamax": "",
         "type1": "でんき", "type2": "", "hp": ""}
      ]}
    ]
  }
}`

func setup(t *testing.T) (lifecycle.Importer, *iodb.Store, string) {
	t.Helper()
	cfg := iotesting.Config(t)
	cat := iotesting.Catalog(t)
	op := iotesting.OpenSQLite(t, cfg)
	return ioimport.New(cfg, cat, op), iodb.NewStore(op.DB()), cfg.HomeDir
}

func TestImportGlobal(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	im := ioimport.New(cfg, iotesting.Catalog(t), op)
	path := iotesting.WriteFile(t, cfg.HomeDir, "pokedex.json", globalJSON)

	stats, err := im.Import(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 3, stats.Forms, "named forms share one identifier")

	var forms []schema.Pokedex
	require.NoError(t, op.DB().Order("id").Find(&forms).Error)
	require.Len(t, forms, 3)
	assert.Equal(t, "0006_00000000_0_000_0", forms[0].ID)
	assert.Equal(t, "0006_00000101_0_000_0", forms[1].ID)
	assert.Equal(t, "110.5", forms[1].Weight)
	assert.Equal(t, "0026_01000000_0_000_0", forms[2].ID)
	assert.Equal(t, "", forms[2].Gigantamax)

	var names []schema.PokedexName
	require.NoError(t, op.DB().Order("row_id").Find(&names).Error)
	require.Len(t, names, 6)
	assert.Equal(t, "リザードン", names[0].Name)
	assert.Equal(t, "eng", names[1].Language)
	assert.Equal(t, "メガリザードンX", names[2].Name)

	var classes int64
	require.NoError(t, op.DB().Model(&schema.PokedexClassification{}).
		Where("language = ?", "jpn").Count(&classes).Error)
	assert.Equal(t, int64(4), classes)

	// a second import replaces the tables
	_, err = im.Import(ctx, []string{path})
	require.NoError(t, err)
	var count int64
	require.NoError(t, op.DB().Model(&schema.PokedexName{}).Count(&count).Error)
	assert.Equal(t, int64(6), count)
}

func TestImportRegional(t *testing.T) {
	ctx := context.Background()
	im, store, home := setup(t)
	path := iotesting.WriteFile(t, home, "x_y/x_y.json", regionalJSON)

	stats, err := im.Import(ctx, []string{home})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 2, stats.Descriptions)

	versions, err := store.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x_y"}, versions)

	dexes, err := store.Pokedexes(ctx, "x_y")
	require.NoError(t, err)
	assert.Equal(t, []string{"セントラルカロス図鑑", "コーストカロス図鑑"}, dexes)

	entries, err := store.Entries(ctx, "x_y", "コーストカロス図鑑")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].No)
	assert.Equal(t, "0026", entries[1].GlobalNo)

	// reimport of the same version does not duplicate rows
	_, err = im.Import(ctx, []string{path})
	require.NoError(t, err)
	entries, err = store.Entries(ctx, "x_y", "セントラルカロス図鑑")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestImportRegionalCategories(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	im := ioimport.New(cfg, iotesting.Catalog(t), op)
	path := iotesting.WriteFile(t, cfg.HomeDir, "x_y.json", regionalJSON)

	_, err := im.Import(ctx, []string{path})
	require.NoError(t, err)

	var stats []schema.LocalPokedexStatus
	require.NoError(t, op.DB().Order("row_id").Find(&stats).Error)
	require.Len(t, stats, 2, "one row per form of the version")
	assert.Equal(t, 78, stats[0].HP)
	assert.Equal(t, 100, stats[0].Speed)
	assert.Equal(t, 0, stats[1].HP)
	assert.Equal(t, "x_y", stats[0].Version)

	var descs []schema.LocalPokedexDescription
	require.NoError(t, op.DB().Order("row_id").Find(&descs).Error)
	require.Len(t, descs, 2)
	assert.Equal(t, "x", descs[0].VersionName)
	assert.Equal(t, "text y", descs[1].Description)
	assert.Equal(t, "jpn", descs[0].Language)

	var local []schema.LocalPokedex
	require.NoError(t, op.DB().Order("seq").Find(&local).Error)
	require.Len(t, local, 3)
	assert.Equal(t, "0006_00000000_0_000_0", local[0].ID)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	im, _, home := setup(t)
	bad := iotesting.WriteFile(t, home, "bad.json", `{"pokedex": 12}`)
	broken := iotesting.WriteFile(t, home, "broken.json", `{"pokedex": [`)
	noVersion := iotesting.WriteFile(t, home, "nover.json", `{"pokedex": {}}`)
	good := iotesting.WriteFile(t, home, "good.json", regionalJSON)

	tests := []struct {
		msg   string
		paths []string
		code  gn.ErrorCode
		files int
	}{
		{"missing path", []string{filepath.Join(home, "none.json")},
			errcode.ImportReadError, 0},
		{"empty dir", []string{t.TempDir()}, errcode.ImportReadError, 0},
		{"all failed", []string{bad, broken, noVersion},
			errcode.ImportAllFilesFailedError, 0},
		{"some failed", []string{bad, good}, 0, 1},
	}

	for _, v := range tests {
		stats, err := im.Import(ctx, v.paths)
		if v.code == 0 {
			require.NoError(t, err, v.msg)
			assert.Equal(t, v.files, stats.Files, v.msg)
			assert.Equal(t, 1, stats.Failed, v.msg)
			continue
		}
		require.Error(t, err, v.msg)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}

func TestImportCancelled(t *testing.T) {
	im, _, home := setup(t)
	path := iotesting.WriteFile(t, home, "x_y.json", regionalJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := im.Import(ctx, []string{path})
	require.Error(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.CancelledError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, context.Canceled)
}
