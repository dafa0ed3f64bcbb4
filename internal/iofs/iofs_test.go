package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	// repeated calls must succeed
	for range 3 {
		require.NoError(t, EnsureDirs(home))
	}

	for _, v := range []string{
		filepath.Join(home, ".config", "pokedexdb"),
		filepath.Join(home, ".cache", "pokedexdb"),
		filepath.Join(home, ".local", "share", "pokedexdb", "logs"),
	} {
		info, err := os.Stat(v)
		require.NoError(t, err, v)
		assert.True(t, info.IsDir(), v)
	}
}

func TestTouchDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, touchDir(dir))
	require.NoError(t, touchDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureFiles(t *testing.T) {
	tests := []struct {
		name    string
		ensure  func(string) error
		path    func(string) string
		content string
	}{
		{"config", EnsureConfigFile, config.ConfigFilePath, ConfigYAML},
		{"catalog", EnsureCatalogFile, config.CatalogFilePath, CatalogYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			require.NoError(t, EnsureDirs(home))
			require.NoError(t, tt.ensure(home))

			path := tt.path(home)
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(content))

			custom := "# edited by user\n"
			require.NoError(t, os.WriteFile(path, []byte(custom), 0644))
			require.NoError(t, tt.ensure(home))

			content, err = os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, custom, string(content),
				"existing file is not overwritten")
		})
	}
}

func TestEnsureConfigFileNoDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "missing")
	err := EnsureConfigFile(home)

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
}

func TestEmbeddedCatalog(t *testing.T) {
	cat, err := catalog.Parse([]byte(CatalogYAML))
	require.NoError(t, err)

	assert.Len(t, cat.Types(), 18)
	assert.Equal(t, "01", cat.RegionCode("アローラのすがた"))
	assert.Equal(t, "00", cat.RegionCode(""))
	assert.Equal(t,
		[]string{"scarlet_violet", "sword_shield", "ultrasun_ultramoon", "x_y",
			"legendsza"},
		cat.FallbackChain(catalog.CategoryType, "LegendsZA"))

	verID, ok := cat.VerIDFor("x_y", "y")
	require.True(t, ok)
	assert.Equal(t, "06_02", verID)

	dex, ok := cat.Pokedex("central_kalos")
	require.True(t, ok)
	assert.Equal(t, "セントラルカロス図鑑", dex.Name)
	assert.Equal(t, catalog.GroupPerRow, cat.Grouping())
	assert.Equal(t, "jpn", cat.DescriptionLanguage())
	assert.Len(t, cat.Languages(), 12)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(good, []byte(CatalogYAML), 0644))
	cat, err := LoadCatalog(good)
	require.NoError(t, err)
	assert.NotNil(t, cat)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("types: [a]\n"), 0644))
	_, err = LoadCatalog(bad)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CatalogInvalidError, gnErr.Code)
	assert.Equal(t, "default_region_value", gnErr.Vars[1])

	_, err = LoadCatalog(filepath.Join(dir, "none.yaml"))
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}

func TestJSONFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "x_y")
	require.NoError(t, os.MkdirAll(sub, 0755))
	for _, v := range []string{
		filepath.Join(sub, "x_y.json"),
		filepath.Join(dir, "pokedex.JSON"),
		filepath.Join(dir, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(v, []byte("{}"), 0644))
	}

	res, err := JSONFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "pokedex.JSON"),
		filepath.Join(sub, "x_y.json"),
	}, res)

	file := filepath.Join(dir, "notes.txt")
	res, err = JSONFiles(file)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, res)

	_, err = JSONFiles(filepath.Join(dir, "none"))
	assert.Error(t, err)
}
