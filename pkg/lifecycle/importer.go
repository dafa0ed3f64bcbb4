package lifecycle

import "context"

// ImportStats summarizes an import of JSON files.
type ImportStats struct {
	// Files is the number of files imported successfully.
	Files int

	// Failed is the number of files that could not be imported.
	Failed int

	// Forms is the number of forms read from global pokedex files.
	Forms int

	// Entries is the number of regional pokedex rows.
	Entries int

	// Descriptions is the number of description rows of regional files.
	Descriptions int
}

// Importer loads pokedex JSON files into the database. A global file
// (pokedex.json) replaces the national pokedex tables, a regional file
// replaces every row of its game version. Each file is imported in its
// own transaction, a failed file leaves the database untouched.
type Importer interface {
	// Import reads files and directories given by paths. Directories are
	// searched for *.json files recursively.
	Import(ctx context.Context, paths []string) (*ImportStats, error)
}

// DescriptionStats summarizes an import of description spreadsheets.
type DescriptionStats struct {
	// Processed is the number of data rows read from both files.
	Processed int

	// Inserted is the number of rows written to the database.
	Inserted int

	// Skipped is the number of rows without an ID or a verID.
	Skipped int

	// Groups is the number of verID groups found in the map file.
	Groups int

	// Conflicts is the number of verIDs claimed by more than one group.
	Conflicts int

	// DexMap is the number of texts attached to verID groups.
	DexMap int
}

// DescriptionImporter loads description texts (dex.csv) and verID groups
// (map.csv) exported from the description spreadsheet, then rebuilds the
// table that attaches texts to verID groups.
type DescriptionImporter interface {
	ImportDescriptions(
		ctx context.Context,
		dexPath, mapPath string,
	) (*DescriptionStats, error)
}
