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
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/ioexport"
	"github.com/spf13/cobra"
)

// getExportMapCmd returns the export-map command.
func getExportMapCmd() *cobra.Command {
	var (
		flags  exportFlags
		output string
	)

	exportMapCmd := &cobra.Command{
		Use:   "export-map",
		Short: "Export the description map",
		Long: `Export descriptions grouped by verID groups.

Every form of the national pokedex gets its description groups, a group
is named after the display name of its last verID. Every language of
the catalog is present, missing texts are empty strings.

The map is written to <output-dir>/description_map.json unless
--output is given.

Examples:
  pokedexdb export-map
  pokedexdb export-map --output build/description_map.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExportMap(cmd, &flags, output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportMapCmd.Flags().StringVar(&output, "output", "",
		"path of the description map")
	flags.add(exportMapCmd)

	return exportMapCmd
}

func runExportMap(
	cmd *cobra.Command,
	flags *exportFlags,
	output string,
) error {
	cfg.Update(flags.options(cmd))
	if output == "" {
		output = filepath.Join(cfg.Export.OutputDir, ioexport.MapFile)
	}

	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	ex := ioexport.New(cfg, cat, op)
	_, err = ex.ExportMap(ctx, output)
	return err
}
