/*
Copyright © 2025 The PokedexDB Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/pokedexdb/pokedexdb/internal/iofs"
	"github.com/pokedexdb/pokedexdb/internal/iologger"
	app "github.com/pokedexdb/pokedexdb/pkg"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	cat     *catalog.Catalog
)

// getRootCmd returns the root command with every subcommand attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "pokedexdb",
		Short:   "PokedexDB manages the lifecycle of a Pokédex database",
		Long: `PokedexDB manages the lifecycle of a Pokédex database on SQLite
or PostgreSQL.

Features:
  - Schema Management: create and migrate tables
  - Data Import: national and regional pokedex JSON files,
    description spreadsheets exported to CSV
  - Export: one reconciled JSON file per game version, and the
    description map grouped by verID groups
  - Optimization: orphaned rows removal, database statistics
  - Checks: identifiers of JSON files against the national pokedex

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (POKEDEXDB_*), also read from ./.env
  3. Config file (~/.config/pokedexdb/config.yaml)
  4. Built-in defaults

Versions, regions and fallback rules are read from
~/.config/pokedexdb/catalog.yaml.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "pokedexdb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for pokedexdb")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportCmd(),
		getDescriptionsCmd(),
		getOptimizeCmd(),
		getExportCmd(),
		getExportMapCmd(),
		getCheckCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Logging with defaults until the config is read.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureCatalogFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	if err = loadDotEnv(); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	catPath := config.CatalogFilePath(homeDir)
	if cat, err = iofs.LoadCatalog(catPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"catalog_file", catPath,
		"driver", cfg.Database.Driver,
	)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads .env of the working directory into the environment.
// A missing file is not an error.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return iofs.ReadFileError(".env", err)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds the environment variables that may override
// config.yaml. They match the persistent fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("POKEDEXDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "POKEDEXDB_DATABASE_DRIVER")
	v.BindEnv("database.path", "POKEDEXDB_DATABASE_PATH")
	v.BindEnv("database.host", "POKEDEXDB_DATABASE_HOST")
	v.BindEnv("database.port", "POKEDEXDB_DATABASE_PORT")
	v.BindEnv("database.user", "POKEDEXDB_DATABASE_USER")
	v.BindEnv("database.password", "POKEDEXDB_DATABASE_PASSWORD")
	v.BindEnv("database.database", "POKEDEXDB_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "POKEDEXDB_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "POKEDEXDB_DATABASE_BATCH_SIZE")

	// Export configuration
	v.BindEnv("export.output_dir", "POKEDEXDB_EXPORT_OUTPUT_DIR")

	// Log configuration
	v.BindEnv("log.level", "POKEDEXDB_LOG_LEVEL")
	v.BindEnv("log.format", "POKEDEXDB_LOG_FORMAT")
	v.BindEnv("log.destination", "POKEDEXDB_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "POKEDEXDB_JOBS_NUMBER")

	v.AutomaticEnv()
}
