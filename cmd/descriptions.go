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
	"github.com/pokedexdb/pokedexdb/internal/iodesc"
	"github.com/spf13/cobra"
)

// getDescriptionsCmd returns the descriptions command.
func getDescriptionsCmd() *cobra.Command {
	var dexPath, mapPath string

	descCmd := &cobra.Command{
		Use:   "descriptions",
		Short: "Import description spreadsheets (dex.csv, map.csv)",
		Long: `Import pokedex descriptions exported from the description
spreadsheet.

This command:
  1. Reads dex.csv: one description per row, keyed by ID and verID,
     with a column per language (JPN, ENG, FRA, ...)
  2. Reads map.csv: verID groups of every ID (verID01, verID02, ...)
  3. Attaches texts to verID groups, the text of the first verID of
     a group is used for the whole group
  4. Replaces the description tables in one transaction

A verID claimed by more than one group is reported, the grouping mode
of catalog.yaml decides how such groups are kept.

Examples:
  pokedexdb descriptions
  pokedexdb descriptions --dex data/dex.csv --map data/map.csv
  pokedexdb descriptions -d data/dex.csv -m data/map.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDescriptions(dexPath, mapPath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	descCmd.Flags().StringVarP(&dexPath, "dex", "d", "dex.csv",
		"CSV file with description texts")
	descCmd.Flags().StringVarP(&mapPath, "map", "m", "map.csv",
		"CSV file with verID groups")

	return descCmd
}

func runDescriptions(dexPath, mapPath string) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	im := iodesc.New(cfg, cat, op)
	if _, err = im.ImportDescriptions(ctx, dexPath, mapPath); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>pokedexdb export-map</em>' to write the description map
`)
	return nil
}
