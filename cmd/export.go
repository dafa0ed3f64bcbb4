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
	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/ioexport"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var flags exportFlags

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export reconciled version files",
		Long: `Export one JSON file per game version.

This command:
  1. Connects to the database using configuration settings
  2. Takes versions from --versions, or every imported version
  3. Reconciles every entry of a version: types, abilities, stats
     and descriptions fall back to related versions when the
     version has none
  4. Writes <output-dir>/<version>/<version>.json, a file is replaced
     only after it was written completely

Versions are exported concurrently by --jobs workers. A version that
fails is reported and the others go on.

Examples:
  pokedexdb export
  pokedexdb export --versions x_y,sun_moon
  pokedexdb export -v x_y -o build -j 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(cmd, &flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringSliceVarP(
		&flags.versions, "versions", "v", []string{},
		"game versions to export (empty = all)",
	)
	flags.add(exportCmd)

	return exportCmd
}

func runExport(cmd *cobra.Command, flags *exportFlags) error {
	cfg.Update(flags.options(cmd))

	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	ex := ioexport.New(cfg, cat, op)
	_, err = ex.Export(ctx)
	return err
}
