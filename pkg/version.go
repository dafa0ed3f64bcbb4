// Package pokedexdb keeps the application version information.
package pokedexdb

var (
	// Version of the app. Set by a linker flag during the build.
	Version = "v0.1.0"

	// Build timestamp. Set by a linker flag during the build.
	Build = "n/a"
)
