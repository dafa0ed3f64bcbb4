package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{"config dir", config.ConfigDir,
			filepath.Join(home, ".config", "pokedexdb")},
		{"cache dir", config.CacheDir,
			filepath.Join(home, ".cache", "pokedexdb")},
		{"log dir", config.LogDir,
			filepath.Join(home, ".local", "share", "pokedexdb", "logs")},
		{"config file", config.ConfigFilePath,
			filepath.Join(home, ".config", "pokedexdb", "config.yaml")},
		{"catalog file", config.CatalogFilePath,
			filepath.Join(home, ".config", "pokedexdb", "catalog.yaml")},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.fn(home), v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "pokedex.db", cfg.Database.Path)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pokedex", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 1_000, cfg.Database.BatchSize)
	assert.Equal(t, "pokedex", cfg.Export.OutputDir)
	assert.Empty(t, cfg.Export.Versions)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name, input, expected string
	}{
		{"sets postgres", "postgres", "postgres"},
		{"normalizes case", " SQLite ", "sqlite"},
		{"ignores unknown driver", "mysql", "sqlite"},
		{"ignores empty", "", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionStrings(t *testing.T) {
	tests := []struct {
		name     string
		opt      func(string) config.Option
		get      func(*config.Config) string
		input    string
		expected string
	}{
		{
			name:     "database path",
			opt:      config.OptDatabasePath,
			get:      func(c *config.Config) string { return c.Database.Path },
			input:    "  /data/pokedex.db ",
			expected: "/data/pokedex.db",
		},
		{
			name:     "empty database path is ignored",
			opt:      config.OptDatabasePath,
			get:      func(c *config.Config) string { return c.Database.Path },
			input:    "   ",
			expected: "pokedex.db",
		},
		{
			name:     "database host",
			opt:      config.OptDatabaseHost,
			get:      func(c *config.Config) string { return c.Database.Host },
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "output dir",
			opt:      config.OptExportOutputDir,
			get:      func(c *config.Config) string { return c.Export.OutputDir },
			input:    "out",
			expected: "out",
		},
		{
			name:     "invalid ssl mode is ignored",
			opt:      config.OptDatabaseSSLMode,
			get:      func(c *config.Config) string { return c.Database.SSLMode },
			input:    "sometimes",
			expected: "disable",
		},
		{
			name:     "log destination",
			opt:      config.OptLogDestination,
			get:      func(c *config.Config) string { return c.Log.Destination },
			input:    "STDERR",
			expected: "stderr",
		},
		{
			name:     "invalid log level is ignored",
			opt:      config.OptLogLevel,
			get:      func(c *config.Config) string { return c.Log.Level },
			input:    "trace",
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestOptionInts(t *testing.T) {
	tests := []struct {
		name     string
		opt      func(int) config.Option
		get      func(*config.Config) int
		input    int
		expected int
	}{
		{"port", config.OptDatabasePort,
			func(c *config.Config) int { return c.Database.Port }, 5433, 5433},
		{"zero port ignored", config.OptDatabasePort,
			func(c *config.Config) int { return c.Database.Port }, 0, 5432},
		{"batch size", config.OptDatabaseBatchSize,
			func(c *config.Config) int { return c.Database.BatchSize }, 500, 500},
		{"negative jobs ignored", config.OptJobsNumber,
			func(c *config.Config) int { return c.JobsNumber }, -1, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestOptionExportVersions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptExportVersions([]string{" X_Y ", "", "LegendsZA"}),
	})
	assert.Equal(t, []string{"X_Y", "LegendsZA"}, cfg.Export.Versions)

	cfg = config.New()
	cfg.Update([]config.Option{config.OptExportVersions(nil)})
	assert.Nil(t, cfg.Export.Versions)
}

func TestToOptions(t *testing.T) {
	t.Run("round trip of persistent fields", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptDatabaseDriver("postgres"),
			config.OptDatabasePath("other.db"),
			config.OptDatabaseHost("db.local"),
			config.OptDatabasePort(6543),
			config.OptDatabaseUser("ash"),
			config.OptDatabasePassword("pikachu"),
			config.OptDatabaseDatabase("dex"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseBatchSize(250),
			config.OptExportOutputDir("/tmp/out"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(3),
		})

		cfg := config.New()
		cfg.Update(original.ToOptions())
		assert.Equal(t, original, cfg)
	})

	t.Run("runtime fields are excluded", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptHomeDir("/home/ash"),
			config.OptExportVersions([]string{"x_y"}),
		})

		cfg := config.New()
		cfg.Update(original.ToOptions())
		assert.Equal(t, "", cfg.HomeDir)
		assert.Nil(t, cfg.Export.Versions)
	})
}
