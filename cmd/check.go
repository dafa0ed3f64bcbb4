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
	"slices"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/iocheck"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getCheckCmd returns the check command.
func getCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Check identifiers of JSON files against the national pokedex",
		Long: `Check that every "id" of regional pokedex files exists in the
national pokedex table.

Directories are searched for *.json files recursively. Missing
identifiers are listed with the files they were found in, the command
exits with an error when any identifier is missing.

Examples:
  pokedexdb check pokedex/x_y/x_y.json
  pokedexdb check pokedex/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCheck(args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return checkCmd
}

func runCheck(paths []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	report, err := iocheck.New(op).Check(ctx, paths)
	if report != nil {
		printReport(report)
	}
	return err
}

func printReport(report *lifecycle.CheckReport) {
	ids := make([]string, 0, len(report.Missing))
	for id := range report.Missing {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		gn.Warn("<warn>%s</warn> is missing (%s)", id, report.Missing[id][0])
	}
	gn.Info("Files checked: %d, identifiers: %d, missing: <em>%d</em>",
		report.Files, report.Checked, len(ids))
}
