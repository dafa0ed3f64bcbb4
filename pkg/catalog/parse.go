package catalog

import (
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// ConfigError reports an invalid or missing catalog key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog key %q: %s", e.Key, e.Reason)
}

// Parse reads catalog YAML and builds a validated Catalog.
func Parse(data []byte) (*Catalog, error) {
	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &ConfigError{Key: "(root)", Reason: err.Error()}
	}
	return New(d)
}

// New validates Data and builds a Catalog from it.
func New(d Data) (*Catalog, error) {
	if d.DefaultRegionValue == "" {
		return nil, &ConfigError{Key: "default_region_value", Reason: "is required"}
	}
	if len(d.Types) == 0 {
		return nil, &ConfigError{Key: "types", Reason: "list of types is empty"}
	}
	for i, v := range d.Types {
		if v == "" {
			return nil, &ConfigError{
				Key:    fmt.Sprintf("types[%d]", i),
				Reason: "type name is empty",
			}
		}
		if slices.Index(d.Types, v) != i {
			return nil, &ConfigError{
				Key:    fmt.Sprintf("types[%d]", i),
				Reason: fmt.Sprintf("duplicate type %q", v),
			}
		}
	}

	res := &Catalog{
		defaultRegion: d.DefaultRegionValue,
		regions:       make(map[string]string, len(d.RegionMapping)),
		versions:      make(map[string]Version, len(d.VersionMapping)),
		verIDs:        make(map[string]map[string]string),
		fallbacks:     make(map[Category]map[string][]string),
		types:         slices.Clone(d.Types),
		languages:     slices.Clone(d.Languages),
		pokedexes:     make(map[string]Pokedex, len(d.Pokedexes)),
		grouping:      GroupPerRow,
		descLang:      "jpn",
	}

	for k, v := range d.RegionMapping {
		res.regions[k] = v
	}

	if err := res.addVersions(d.VersionMapping); err != nil {
		return nil, err
	}

	if err := res.addFallbacks(d.Fallbacks); err != nil {
		return nil, err
	}

	for i, v := range d.Languages {
		if v.Column == "" || v.Code == "" {
			return nil, &ConfigError{
				Key:    fmt.Sprintf("languages[%d]", i),
				Reason: "both column and code are required",
			}
		}
	}

	for k, v := range d.Pokedexes {
		if v.Name == "" || v.Version == "" {
			return nil, &ConfigError{
				Key:    "pokedexes." + k,
				Reason: "both name and version are required",
			}
		}
		v.Key = k
		v.Version = Normalize(v.Version)
		v.SubVersions = slices.Clone(v.SubVersions)
		res.pokedexes[k] = v
	}

	switch GroupingMode(d.VerIDGrouping) {
	case "":
	case GroupPerRow, GroupTransitive:
		res.grouping = GroupingMode(d.VerIDGrouping)
	default:
		return nil, &ConfigError{
			Key: "verid_grouping",
			Reason: fmt.Sprintf("unknown mode %q, use %q or %q",
				d.VerIDGrouping, GroupPerRow, GroupTransitive),
		}
	}

	if d.DescriptionLang != "" {
		res.descLang = d.DescriptionLang
	}

	return res, nil
}

func (c *Catalog) addVersions(vm map[string]Version) error {
	ids := make([]string, 0, len(vm))
	for k := range vm {
		ids = append(ids, k)
	}
	sort.Strings(ids)

	for _, id := range ids {
		v := vm[id]
		if v.Version == "" {
			return &ConfigError{
				Key:    "version_mapping." + id + ".version",
				Reason: "is required",
			}
		}
		if v.NameEng == "" {
			return &ConfigError{
				Key:    "version_mapping." + id + ".name_eng",
				Reason: "is required",
			}
		}
		v.VerID = id
		v.Version = Normalize(v.Version)
		c.versions[id] = v

		subs, ok := c.verIDs[v.Version]
		if !ok {
			subs = make(map[string]string)
			c.verIDs[v.Version] = subs
		}
		// the lowest verID wins when a sub-version is listed twice
		if _, ok := subs[v.NameEng]; !ok {
			subs[v.NameEng] = id
		}
	}
	return nil
}

func (c *Catalog) addFallbacks(fb map[string]map[string][]string) error {
	for cat, versions := range fb {
		category := Category(cat)
		if !slices.Contains(Categories(), category) {
			return &ConfigError{
				Key:    "fallbacks." + cat,
				Reason: "unknown category",
			}
		}
		byVersion := make(map[string][]string, len(versions))
		for version, chain := range versions {
			normalized := make([]string, len(chain))
			for i := range chain {
				normalized[i] = Normalize(chain[i])
			}
			byVersion[Normalize(version)] = normalized
		}
		c.fallbacks[category] = byVersion
	}
	return nil
}
