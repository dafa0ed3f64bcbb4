package lifecycle

import "context"

// ExportStats summarizes an export of version files.
type ExportStats struct {
	// Versions is the number of versions exported successfully.
	Versions int

	// Failed is the number of versions that could not be exported.
	Failed int

	// Entries is the number of merged entries in all files.
	Entries int

	// Files are paths of the written files.
	Files []string
}

// Exporter writes reconciled JSON files out of the database.
type Exporter interface {
	// Export writes one file per game version. Versions are taken from
	// the configuration, or from the database when none are configured.
	Export(ctx context.Context) (*ExportStats, error)

	// ExportMap writes descriptions grouped by verID groups to path and
	// returns the number of exported records.
	ExportMap(ctx context.Context, path string) (int, error)
}

// CheckReport is the outcome of an identifier check.
type CheckReport struct {
	// Files is the number of JSON files read.
	Files int

	// Checked is the number of distinct identifiers found in the files.
	Checked int

	// Missing maps identifiers absent from the pokedex table to the
	// files they were found in.
	Missing map[string][]string
}

// Checker verifies that identifiers used in JSON files exist in the
// national pokedex table.
type Checker interface {
	Check(ctx context.Context, paths []string) (*CheckReport, error)
}
