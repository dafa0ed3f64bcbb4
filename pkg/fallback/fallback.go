// Package fallback finds per-version rows for an entry, borrowing them
// from other versions when the catalog says so.
package fallback

import (
	"context"
	"fmt"

	"github.com/pokedexdb/pokedexdb/pkg/catalog"
)

// Key identifies the form a row is looked up for.
type Key struct {
	GlobalNo      string
	Form          string
	Region        string
	MegaEvolution bool
	Gigantamax    bool
}

// Scope is the form description stored with a category row. Blank
// fields apply to every form of the species.
type Scope struct {
	GlobalNo      string
	Form          string
	Region        string
	MegaEvolution string
	Gigantamax    string
}

// Matches reports if a stored row applies to the key.
func (k Key) Matches(s Scope) bool {
	if s.GlobalNo != k.GlobalNo {
		return false
	}
	if s.Form != "" && s.Form != k.Form {
		return false
	}
	if s.Region != "" && s.Region != k.Region {
		return false
	}
	if s.MegaEvolution != "" && !k.MegaEvolution {
		return false
	}
	if s.Gigantamax != "" && !k.Gigantamax {
		return false
	}
	return true
}

// TypeRow holds elemental types of a form.
type TypeRow struct {
	Type1 string
	Type2 string
}

// AbilityRow holds abilities of a form.
type AbilityRow struct {
	Ability1     string
	Ability2     string
	DreamAbility string
}

// StatusRow holds base stats of a form.
type StatusRow struct {
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

// Store finds category rows of exactly one version. A missing row is
// reported with false and a nil error.
type Store interface {
	Type(ctx context.Context, key Key, version string) (TypeRow, bool, error)
	Ability(ctx context.Context, key Key, version string) (AbilityRow, bool, error)
	Status(ctx context.Context, key Key, version string) (StatusRow, bool, error)
}

// Lookup finds a row in one version.
type Lookup[T any] func(ctx context.Context, version string) (T, bool, error)

// Result is the outcome of a resolution. Version is the version the
// row came from.
type Result[T any] struct {
	Row     T
	Version string
	Found   bool
}

// Resolver walks fallback chains of a catalog. It keeps no state
// between calls.
type Resolver struct {
	cat *catalog.Catalog
}

// New creates a Resolver.
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Chain returns versions consulted for a category, in order.
func (r *Resolver) Chain(cat catalog.Category, version string) []string {
	return r.cat.FallbackChain(cat, version)
}

// Resolve returns the first row found along the chain. The whole row
// comes from a single version. Lookup errors stop the walk.
func Resolve[T any](
	ctx context.Context,
	r *Resolver,
	cat catalog.Category,
	version string,
	lookup Lookup[T],
) (Result[T], error) {
	var res Result[T]
	for _, v := range r.Chain(cat, version) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		row, ok, err := lookup(ctx, v)
		if err != nil {
			return res, fmt.Errorf("%s lookup in %s: %w", cat, v, err)
		}
		if ok {
			return Result[T]{Row: row, Version: v, Found: true}, nil
		}
	}
	return res, nil
}

// Type resolves the types of a form.
func (r *Resolver) Type(
	ctx context.Context,
	s Store,
	version string,
	key Key,
) (Result[TypeRow], error) {
	return Resolve(ctx, r, catalog.CategoryType, version,
		func(ctx context.Context, v string) (TypeRow, bool, error) {
			return s.Type(ctx, key, v)
		})
}

// Ability resolves the abilities of a form.
func (r *Resolver) Ability(
	ctx context.Context,
	s Store,
	version string,
	key Key,
) (Result[AbilityRow], error) {
	return Resolve(ctx, r, catalog.CategoryAbility, version,
		func(ctx context.Context, v string) (AbilityRow, bool, error) {
			return s.Ability(ctx, key, v)
		})
}

// Status resolves the base stats of a form.
func (r *Resolver) Status(
	ctx context.Context,
	s Store,
	version string,
	key Key,
) (Result[StatusRow], error) {
	return Resolve(ctx, r, catalog.CategoryStatus, version,
		func(ctx context.Context, v string) (StatusRow, bool, error) {
			return s.Status(ctx, key, v)
		})
}
