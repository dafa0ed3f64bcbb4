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
	"github.com/pokedexdb/pokedexdb/internal/ioimport"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <file|dir>...",
		Short: "Import pokedex JSON files into the database",
		Long: `Import national and regional pokedex JSON files.

This command:
  1. Connects to the database using configuration settings
  2. Finds *.json files in the given files and directories
  3. Imports every file in its own transaction:
     - the national pokedex (pokedex.json) replaces forms, names
       and classifications
     - a regional file replaces every row of its game version
  4. Reports files that could not be imported and goes on

The import fails only when no file could be imported.

Examples:
  pokedexdb import pokedex/pokedex.json
  pokedexdb import pokedex/
  pokedexdb import pokedex/pokedex.json pokedex/x_y/x_y.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return importCmd
}

func runImport(paths []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	im := ioimport.New(cfg, cat, op)
	if _, err = im.Import(ctx, paths); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>pokedexdb check</em>' to verify identifiers of regional files
  - Run '<em>pokedexdb export</em>' to write version files
`)
	return nil
}
