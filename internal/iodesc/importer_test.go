package iodesc_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/iodesc"
	"github.com/pokedexdb/pokedexdb/internal/iotesting"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/pokedexdb/pokedexdb/pkg/reconcile"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dexCSV has a byte order mark, CRLF line endings and no FRA column.
const dexCSV = "\xEF\xBB\xBFID,verID,JPN,ENG\r\n" +
	"0006_00000000,06_01,リザードンX,Charizard X\r\n" +
	"0006_00000000,06_02,リザードンY,\r\n" +
	"0006_00000000,07_01,,\r\n" +
	",06_01,orphan,\r\n" +
	"0025_00000000,06_01,\"ピカチュウ, でんき\",Pikachu\r\n"

// mapCSV uses CR line endings.
const mapCSV = "ID,verID01,verID02,verID03\r" +
	"0006_00000000,06_01,06_03,\r" +
	"0006_00000000,06_02,06_04,\r" +
	"0006_00000000,06_03,,\r" +
	"0025_00000000,,,\r" +
	"0025_00000000,06_01,06_02,06_03\r"

func TestImportDescriptions(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	dexPath := iotesting.WriteFile(t, cfg.HomeDir, "dex.csv", dexCSV)
	mapPath := iotesting.WriteFile(t, cfg.HomeDir, "map.csv", mapCSV)
	im := iodesc.New(cfg, iotesting.Catalog(t), op)

	stats, err := im.ImportDescriptions(ctx, dexPath, mapPath)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Processed)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 9, stats.Inserted)
	assert.Equal(t, 4, stats.Groups)
	assert.Equal(t, 1, stats.Conflicts)
	assert.Equal(t, 5, stats.DexMap)

	var descs []schema.PokedexDescription
	require.NoError(t, op.DB().Order("row_id").Find(&descs).Error)
	require.Len(t, descs, 5)
	assert.Equal(t, "0006", descs[0].GlobalNo)
	assert.Equal(t, "eng", descs[1].Language)
	assert.Equal(t, "ピカチュウ, でんき", descs[3].Dex)

	var groups []schema.PokedexDescriptionMap
	require.NoError(t, op.DB().Order("row_id").Find(&groups).Error)
	require.Len(t, groups, 4)
	assert.Equal(t, "06_01,06_03", groups[0].VerID)
	assert.Equal(t, "06_02,06_04", groups[1].VerID)
	assert.Equal(t, "0025", groups[3].GlobalNo)

	var dexMap []schema.PokedexDexMap
	require.NoError(t, op.DB().Order("row_id").Find(&dexMap).Error)
	require.Len(t, dexMap, 5)
	assert.Equal(t, "06_01,06_03", dexMap[0].VerID)
	assert.Equal(t, "リザードンX", dexMap[0].Dex)
	assert.Equal(t, "06_02,06_04", dexMap[2].VerID)
	assert.Equal(t, "リザードンY", dexMap[2].Dex)
	assert.Equal(t, "06_01,06_02,06_03", dexMap[3].VerID)

	text, ok, err := iodb.NewStore(op.DB()).Description(ctx,
		reconcile.DescriptionQuery{
			GlobalNo: "0006",
			SheetID:  "0006_00000000",
			VerID:    "06_02",
			Language: "jpn",
		})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "リザードンY", text)

	// import replaces previous rows
	_, err = im.ImportDescriptions(ctx, dexPath, mapPath)
	require.NoError(t, err)
	var count int64
	require.NoError(t, op.DB().Model(&schema.PokedexDexMap{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestImportDescriptionsErrors(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	im := iodesc.New(cfg, iotesting.Catalog(t), op)
	dexPath := iotesting.WriteFile(t, cfg.HomeDir, "dex.csv", dexCSV)
	mapPath := iotesting.WriteFile(t, cfg.HomeDir, "map.csv", mapCSV)
	noVerID := iotesting.WriteFile(t, cfg.HomeDir, "nover.csv", "ID,JPN\n1,a\n")
	noID := iotesting.WriteFile(t, cfg.HomeDir, "noid.csv", "verID01\n06_01\n")

	tests := []struct {
		msg, dex, mapPath string
		code              gn.ErrorCode
	}{
		{"no dex file", filepath.Join(cfg.HomeDir, "none.csv"), mapPath,
			errcode.DescriptionsReadError},
		{"no map file", dexPath, filepath.Join(cfg.HomeDir, "none.csv"),
			errcode.DescriptionsReadError},
		{"no verID column", noVerID, mapPath, errcode.DescriptionsColumnError},
		{"no ID column in map", dexPath, noID, errcode.DescriptionsColumnError},
	}

	for _, v := range tests {
		_, err := im.ImportDescriptions(ctx, v.dex, v.mapPath)
		require.Error(t, err, v.msg)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}
