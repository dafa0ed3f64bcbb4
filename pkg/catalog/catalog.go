// Package catalog holds the static knowledge about game versions, regions,
// regional pokedexes and fallback rules.
//
// A Catalog is built once from a catalog.yaml file (see Parse) and is
// immutable afterwards, so it can be shared by concurrent exporters.
// This package has no I/O dependencies.
package catalog

import (
	"slices"
	"sort"
	"strings"
)

// Category names a family of per-version data that can be borrowed from
// other versions.
type Category string

const (
	CategoryType        Category = "type"
	CategoryAbility     Category = "ability"
	CategoryStatus      Category = "status"
	CategoryDescription Category = "description"
)

// Categories returns all known categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryType, CategoryAbility, CategoryStatus, CategoryDescription,
	}
}

// GroupingMode determines how verID groups are built from map.csv rows.
type GroupingMode string

const (
	// GroupPerRow treats every row as its own group. A verID that shows up
	// in several rows of the same record keeps its first group.
	GroupPerRow GroupingMode = "per_row"

	// GroupTransitive merges rows of the same record that share at least
	// one verID.
	GroupTransitive GroupingMode = "transitive"
)

// Version describes one verID entry of the version mapping.
type Version struct {
	// VerID is the spreadsheet identifier of a single game release.
	VerID string `yaml:"-"`

	// Version is the normalized version key the release belongs to,
	// for example "x_y".
	Version string `yaml:"version"`

	// NameEng is the sub-version token, for example "x".
	NameEng string `yaml:"name_eng"`

	// Name is a human-readable label used for export keys.
	Name string `yaml:"name,omitempty"`
}

// Pokedex describes a regional pokedex.
type Pokedex struct {
	Key         string   `yaml:"-"`
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	SubVersions []string `yaml:"subversions"`
}

// Language maps a column of description CSV files to a language code.
type Language struct {
	Column string `yaml:"column"`
	Code   string `yaml:"code"`
}

// Data is the serialized form of a Catalog.
type Data struct {
	DefaultRegionValue string                         `yaml:"default_region_value"`
	RegionMapping      map[string]string              `yaml:"region_mapping"`
	VersionMapping     map[string]Version             `yaml:"version_mapping"`
	Fallbacks          map[string]map[string][]string `yaml:"fallbacks"`
	Types              []string                       `yaml:"types"`
	Languages          []Language                     `yaml:"languages"`
	Pokedexes          map[string]Pokedex             `yaml:"pokedexes"`
	VerIDGrouping      string                         `yaml:"verid_grouping"`
	DescriptionLang    string                         `yaml:"description_language"`
}

// Catalog is the immutable lookup structure built from Data.
type Catalog struct {
	defaultRegion string
	regions       map[string]string
	versions      map[string]Version
	verIDs        map[string]map[string]string
	fallbacks     map[Category]map[string][]string
	types         []string
	languages     []Language
	pokedexes     map[string]Pokedex
	grouping      GroupingMode
	descLang      string
}

// Normalize converts a raw version label to its database key.
// Underscores are kept, CamelCase boundaries get no separator:
// "Legends_Arceus" becomes "legends_arceus" while "LegendsArceus"
// becomes "legendsarceus". Existing databases use both spellings, so
// the rule must not change.
func Normalize(raw string) string {
	return strings.ToLower(raw)
}

// RegionCode returns the two-character code of a regional form name.
// Unknown names get the default region value.
func (c *Catalog) RegionCode(name string) string {
	if code, ok := c.regions[name]; ok {
		return code
	}
	return c.defaultRegion
}

// FallbackChain returns the ordered list of versions to consult for a
// category. The requested version is always included, duplicates are
// removed keeping their first position.
func (c *Catalog) FallbackChain(cat Category, version string) []string {
	version = Normalize(version)
	override := c.fallbacks[cat][version]
	res := make([]string, 0, len(override)+1)
	seen := make(map[string]struct{}, len(override)+1)
	for _, v := range append(slices.Clone(override), version) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

// VerIDFor returns the verID of a sub-version token of a version.
func (c *Catalog) VerIDFor(version, subVersion string) (string, bool) {
	res, ok := c.verIDs[Normalize(version)][subVersion]
	return res, ok
}

// VersionInfo returns the version mapping entry of a verID.
func (c *Catalog) VersionInfo(verID string) (Version, bool) {
	res, ok := c.versions[verID]
	return res, ok
}

// DisplayName returns a label for a verID, or an empty string when the
// verID is not configured.
func (c *Catalog) DisplayName(verID string) string {
	v, ok := c.versions[verID]
	if !ok {
		return ""
	}
	if v.Name != "" {
		return v.Name
	}
	return v.NameEng
}

// Pokedex returns a regional pokedex by its key.
func (c *Catalog) Pokedex(key string) (Pokedex, bool) {
	res, ok := c.pokedexes[key]
	return res, ok
}

// Pokedexes returns all regional pokedexes sorted by key.
func (c *Catalog) Pokedexes() []Pokedex {
	res := make([]Pokedex, 0, len(c.pokedexes))
	for _, v := range c.pokedexes {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Key < res[j].Key
	})
	return res
}

// Types returns the canonical order of elemental types.
func (c *Catalog) Types() []string {
	return slices.Clone(c.types)
}

// Languages returns language columns of description CSV files.
func (c *Catalog) Languages() []Language {
	return slices.Clone(c.languages)
}

// Grouping returns the verID grouping mode.
func (c *Catalog) Grouping() GroupingMode {
	return c.grouping
}

// DescriptionLanguage is the language of descriptions in exported
// version files.
func (c *Catalog) DescriptionLanguage() string {
	return c.descLang
}
