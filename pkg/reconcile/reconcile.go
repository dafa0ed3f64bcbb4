// Package reconcile merges regional pokedex entries with their types,
// abilities, stats and descriptions into one view per game version.
//
// For every entry the engine resolves, in this order, the type pair,
// abilities, base stats and one description per sub-version, then
// emits a merged entry keyed by its form identifier. Category rows may
// come from other versions according to the catalog fallback rules.
// The engine itself does no I/O, all data comes from a Source.
package reconcile

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/fallback"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/typeorder"
)

// Entry is a row of a regional pokedex.
type Entry struct {
	// Seq is the position of the row in its source.
	Seq int

	No            string
	GlobalNo      string
	Form          string
	Region        string
	MegaEvolution bool
	Gigantamax    bool

	// MegaLabel and GigantamaxLabel keep the source text of the flags
	// for output.
	MegaLabel       string
	GigantamaxLabel string
}

// DescriptionQuery asks for the text of one verID.
type DescriptionQuery struct {
	GlobalNo string
	SheetID  string
	VerID    string
	Language string
}

// Source provides everything the engine reads.
type Source interface {
	fallback.Store

	// Pokedexes returns names of regional pokedexes of a version.
	Pokedexes(ctx context.Context, version string) ([]string, error)

	// Entries returns rows of a pokedex in source order.
	Entries(ctx context.Context, version, pokedex string) ([]Entry, error)

	// Description returns a description text, preferring the one of the
	// exact form over the species-wide one.
	Description(ctx context.Context, q DescriptionQuery) (string, bool, error)
}

// MergedEntry is the reconciled view of one form.
type MergedEntry struct {
	ID             string            `json:"id"`
	Form           string            `json:"form"`
	Region         string            `json:"region"`
	MegaEvolution  string            `json:"mega_evolution"`
	Gigantamax     string            `json:"gigantamax"`
	Type1          string            `json:"type1"`
	Type2          string            `json:"type2"`
	HP             int               `json:"hp"`
	Attack         int               `json:"attack"`
	Defense        int               `json:"defense"`
	SpecialAttack  int               `json:"special_attack"`
	SpecialDefense int               `json:"special_defense"`
	Speed          int               `json:"speed"`
	Ability1       string            `json:"ability1"`
	Ability2       string            `json:"ability2"`
	DreamAbility   string            `json:"dream_ability"`
	Description    map[string]string `json:"description"`

	No       string `json:"-"`
	GlobalNo string `json:"-"`

	// Origins records the version each category was taken from.
	// Categories that were not found are absent.
	Origins map[catalog.Category]string `json:"-"`
}

// Dex is the reconciled content of a regional pokedex.
type Dex struct {
	Name    string
	Entries []MergedEntry

	// Collisions counts entries dropped because an earlier entry had
	// the same dex number and form identifier.
	Collisions int
}

// Result is the reconciled content of a version.
type Result struct {
	Version string
	Dexes   []Dex
}

// Tree returns the result as pokedex name, dex number and form
// identifier nested maps.
func (r *Result) Tree() map[string]map[string]map[string]MergedEntry {
	res := make(map[string]map[string]map[string]MergedEntry, len(r.Dexes))
	for _, dex := range r.Dexes {
		byNo := make(map[string]map[string]MergedEntry)
		for _, e := range dex.Entries {
			if _, ok := byNo[e.No]; !ok {
				byNo[e.No] = make(map[string]MergedEntry)
			}
			byNo[e.No][e.ID] = e
		}
		res[dex.Name] = byNo
	}
	return res
}

// Collisions returns the number of dropped entries in all pokedexes.
func (r *Result) Collisions() int {
	var res int
	for _, v := range r.Dexes {
		res += v.Collisions
	}
	return res
}

// Count returns the number of merged entries in all pokedexes.
func (r *Result) Count() int {
	var res int
	for _, v := range r.Dexes {
		res += len(v.Entries)
	}
	return res
}

// Engine reconciles versions read from a Source.
type Engine struct {
	cat      *catalog.Catalog
	codec    *formid.Codec
	resolver *fallback.Resolver
	types    *typeorder.Canonicalizer
	src      Source
}

// New creates an Engine.
func New(cat *catalog.Catalog, src Source) *Engine {
	return &Engine{
		cat:      cat,
		codec:    formid.NewCodec(cat),
		resolver: fallback.New(cat),
		types:    typeorder.New(cat.Types()),
		src:      src,
	}
}

// ReconcileVersion reconciles every pokedex of a version. Pokedexes are
// processed one after another in the order the source returns them.
func (e *Engine) ReconcileVersion(
	ctx context.Context,
	version string,
) (*Result, error) {
	version = catalog.Normalize(version)
	names, err := e.src.Pokedexes(ctx, version)
	if err != nil {
		return nil, err
	}

	res := &Result{Version: version, Dexes: make([]Dex, 0, len(names))}
	for _, name := range names {
		entries, collisions, err := e.reconcile(ctx, version, name)
		if err != nil {
			return nil, err
		}
		res.Dexes = append(res.Dexes, Dex{
			Name:       name,
			Entries:    entries,
			Collisions: collisions,
		})
	}

	if len(names) == 0 {
		slog.Warn("Version has no pokedexes", "version", version)
	}
	return res, nil
}

// Reconcile merges all entries of one pokedex of a version. When two
// entries share a dex number and a form identifier, the first one is
// kept.
func (e *Engine) Reconcile(
	ctx context.Context,
	version, pokedex string,
) ([]MergedEntry, error) {
	res, _, err := e.reconcile(ctx, version, pokedex)
	return res, err
}

type slotKey struct {
	no, id string
}

func (e *Engine) reconcile(
	ctx context.Context,
	version, pokedex string,
) ([]MergedEntry, int, error) {
	version = catalog.Normalize(version)
	entries, err := e.src.Entries(ctx, version, pokedex)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		slog.Warn("Pokedex has no entries",
			"version", version, "pokedex", pokedex)
		return []MergedEntry{}, 0, nil
	}

	entries = Dedup(entries)
	SortByNo(entries)

	var collisions int
	seen := make(map[slotKey]string, len(entries))
	res := make([]MergedEntry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		merged, err := e.merge(ctx, version, entry)
		if err != nil {
			return nil, 0, err
		}

		k := slotKey{no: merged.No, id: merged.ID}
		if kept, ok := seen[k]; ok {
			collisions++
			slog.Warn("Repeated form identifier, keeping the first",
				"version", version,
				"pokedex", pokedex,
				"no", merged.No,
				"id", merged.ID,
				"kept", kept,
				"dropped", merged.Form,
			)
			continue
		}
		seen[k] = merged.Form
		res = append(res, merged)
	}
	return res, collisions, nil
}

func (e *Engine) merge(
	ctx context.Context,
	version string,
	entry Entry,
) (MergedEntry, error) {
	key := fallback.Key{
		GlobalNo:      entry.GlobalNo,
		Form:          entry.Form,
		Region:        entry.Region,
		MegaEvolution: entry.MegaEvolution,
		Gigantamax:    entry.Gigantamax,
	}
	id := e.codec.Encode(formid.Inputs{
		No:            entry.GlobalNo,
		Region:        entry.Region,
		Gigantamax:    entry.Gigantamax,
		MegaEvolution: entry.MegaEvolution,
		Form:          entry.Form,
	})

	res := MergedEntry{
		ID:            id,
		No:            entry.No,
		GlobalNo:      entry.GlobalNo,
		Form:          entry.Form,
		Region:        entry.Region,
		MegaEvolution: entry.MegaLabel,
		Gigantamax:    entry.GigantamaxLabel,
		Origins:       make(map[catalog.Category]string),
	}

	typ, err := e.resolver.Type(ctx, e.src, version, key)
	if err != nil {
		return res, err
	}
	if typ.Found {
		res.Type1, res.Type2 = e.types.Canonicalize(typ.Row.Type1, typ.Row.Type2)
		res.Origins[catalog.CategoryType] = typ.Version
	}

	ability, err := e.resolver.Ability(ctx, e.src, version, key)
	if err != nil {
		return res, err
	}
	if ability.Found {
		res.Ability1 = ability.Row.Ability1
		res.Ability2 = ability.Row.Ability2
		res.DreamAbility = ability.Row.DreamAbility
		res.Origins[catalog.CategoryAbility] = ability.Version
	}

	status, err := e.resolver.Status(ctx, e.src, version, key)
	if err != nil {
		return res, err
	}
	if status.Found {
		res.HP = status.Row.HP
		res.Attack = status.Row.Attack
		res.Defense = status.Row.Defense
		res.SpecialAttack = status.Row.SpecialAttack
		res.SpecialDefense = status.Row.SpecialDefense
		res.Speed = status.Row.Speed
		res.Origins[catalog.CategoryStatus] = status.Version
	}

	res.Description, err = e.descriptions(ctx, version, entry.GlobalNo, id)
	if err != nil {
		return res, err
	}
	return res, nil
}

// descriptions returns one text per sub-version token of the version
// ("x_y" gives "x" and "y"). Missing texts are empty strings.
func (e *Engine) descriptions(
	ctx context.Context,
	version, globalNo, id string,
) (map[string]string, error) {
	subs := strings.Split(version, "_")
	res := make(map[string]string, len(subs))
	for _, sub := range subs {
		found, err := fallback.Resolve(ctx, e.resolver,
			catalog.CategoryDescription, version,
			func(ctx context.Context, v string) (string, bool, error) {
				verID, ok := e.cat.VerIDFor(v, sub)
				if !ok {
					return "", false, nil
				}
				return e.src.Description(ctx, DescriptionQuery{
					GlobalNo: globalNo,
					SheetID:  formid.SheetID(id),
					VerID:    verID,
					Language: e.cat.DescriptionLanguage(),
				})
			})
		if err != nil {
			return nil, err
		}
		res[sub] = found.Row
	}
	return res, nil
}

type dedupKey struct {
	globalNo, form, region string
	mega, gmax             bool
}

// Dedup removes repeated forms. A repeated form keeps the position of
// its first row and the data of its last row.
func Dedup(entries []Entry) []Entry {
	idx := make(map[dedupKey]int, len(entries))
	res := make([]Entry, 0, len(entries))
	for _, v := range entries {
		k := dedupKey{
			globalNo: v.GlobalNo,
			form:     v.Form,
			region:   v.Region,
			mega:     v.MegaEvolution,
			gmax:     v.Gigantamax,
		}
		if i, ok := idx[k]; ok {
			seq := res[i].Seq
			res[i] = v
			res[i].Seq = seq
			continue
		}
		idx[k] = len(res)
		res = append(res, v)
	}
	return res
}

// SortByNo orders entries by numeric dex number, then by source order.
// Numbers that are not integers sort as 0.
func SortByNo(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := dexNo(entries[i].No), dexNo(entries[j].No)
		if ni != nj {
			return ni < nj
		}
		return entries[i].Seq < entries[j].Seq
	})
}

func dexNo(s string) int {
	res, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return res
}
