package cmd

import (
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/spf13/cobra"
)

// exportFlags are flags shared by the export commands.
type exportFlags struct {
	versions  []string
	outputDir string
	jobs      int
}

func (f *exportFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&f.outputDir, "output-dir", "o", "",
		"directory for exported files (default from config)",
	)
	cmd.Flags().IntVarP(
		&f.jobs, "jobs", "j", 0,
		"number of versions exported concurrently",
	)
}

// options converts flags set on the command line to config options, so
// flags take precedence over environment and config.yaml.
func (f *exportFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("versions") {
		res = append(res, config.OptExportVersions(f.versions))
	}
	if cmd.Flags().Changed("output-dir") {
		res = append(res, config.OptExportOutputDir(f.outputDir))
	}
	if cmd.Flags().Changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	return res
}
