package iodb

import (
	"context"
	"strings"

	"github.com/pokedexdb/pokedexdb/pkg/fallback"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/reconcile"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// specificity puts rows written for the exact form before rows that
// apply to the whole species.
const specificity = `(CASE WHEN COALESCE(form, '') <> '' THEN 8 ELSE 0 END +
 CASE WHEN COALESCE(region, '') <> '' THEN 4 ELSE 0 END +
 CASE WHEN COALESCE(mega_evolution, '') <> '' THEN 2 ELSE 0 END +
 CASE WHEN COALESCE(gigantamax, '') <> '' THEN 1 ELSE 0 END) DESC`

// Store reads reconciliation input from the database.
type Store struct {
	db *gorm.DB
}

var _ reconcile.Source = (*Store)(nil)

// NewStore creates a Store on top of an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Versions returns normalized versions present in local_pokedex.
func (s *Store) Versions(ctx context.Context) ([]string, error) {
	var res []string
	table := schema.LocalPokedex{}.TableName()
	err := s.db.WithContext(ctx).
		Table(table).
		Distinct("version").
		Order("version").
		Pluck("version", &res).Error
	if err != nil {
		return nil, QueryError(table, err)
	}
	return res, nil
}

// Pokedexes returns regional pokedexes of a version in the order they
// were imported.
func (s *Store) Pokedexes(
	ctx context.Context,
	version string,
) ([]string, error) {
	type dexRow struct {
		Pokedex string
	}
	var rows []dexRow
	table := schema.LocalPokedex{}.TableName()
	err := s.db.WithContext(ctx).
		Table(table).
		Select("pokedex, MIN(seq) AS first_seq").
		Where("LOWER(version) = ?", strings.ToLower(version)).
		Group("pokedex").
		Order("first_seq").
		Scan(&rows).Error
	if err != nil {
		return nil, QueryError(table, err)
	}

	res := make([]string, len(rows))
	for i := range rows {
		res[i] = rows[i].Pokedex
	}
	return res, nil
}

// Entries returns rows of a regional pokedex in import order.
func (s *Store) Entries(
	ctx context.Context,
	version, pokedex string,
) ([]reconcile.Entry, error) {
	var rows []schema.LocalPokedex
	table := schema.LocalPokedex{}.TableName()
	err := s.db.WithContext(ctx).
		Where("LOWER(version) = ? AND pokedex = ?",
			strings.ToLower(version), pokedex).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, QueryError(table, err)
	}

	res := make([]reconcile.Entry, len(rows))
	for i, v := range rows {
		res[i] = reconcile.Entry{
			Seq:             int(v.Seq),
			No:              v.No,
			GlobalNo:        v.GlobalNo,
			Form:            v.Form,
			Region:          v.Region,
			MegaEvolution:   formid.Flag(v.MegaEvolution),
			Gigantamax:      formid.Flag(v.Gigantamax),
			MegaLabel:       v.MegaEvolution,
			GigantamaxLabel: v.Gigantamax,
		}
	}
	return res, nil
}

// Type finds the type row of a form in a version.
func (s *Store) Type(
	ctx context.Context,
	key fallback.Key,
	version string,
) (fallback.TypeRow, bool, error) {
	row, ok, err := findScoped[schema.LocalPokedexType](ctx, s.db, key, version)
	if err != nil || !ok {
		return fallback.TypeRow{}, false, err
	}
	return fallback.TypeRow{Type1: row.Type1, Type2: row.Type2}, true, nil
}

// Ability finds the ability row of a form in a version.
func (s *Store) Ability(
	ctx context.Context,
	key fallback.Key,
	version string,
) (fallback.AbilityRow, bool, error) {
	row, ok, err := findScoped[schema.LocalPokedexAbility](ctx, s.db, key, version)
	if err != nil || !ok {
		return fallback.AbilityRow{}, false, err
	}
	return fallback.AbilityRow{
		Ability1:     row.Ability1,
		Ability2:     row.Ability2,
		DreamAbility: row.DreamAbility,
	}, true, nil
}

// Status finds base stats of a form in a version.
func (s *Store) Status(
	ctx context.Context,
	key fallback.Key,
	version string,
) (fallback.StatusRow, bool, error) {
	row, ok, err := findScoped[schema.LocalPokedexStatus](ctx, s.db, key, version)
	if err != nil || !ok {
		return fallback.StatusRow{}, false, err
	}
	return fallback.StatusRow{
		HP:             row.HP,
		Attack:         row.Attack,
		Defense:        row.Defense,
		SpecialAttack:  row.SpecialAttack,
		SpecialDefense: row.SpecialDefense,
		Speed:          row.Speed,
	}, true, nil
}

// Description finds a non-empty description of a verID. A row of the
// exact sheet ID is preferred over other rows of the species.
func (s *Store) Description(
	ctx context.Context,
	q reconcile.DescriptionQuery,
) (string, bool, error) {
	var res []string
	table := schema.PokedexDescription{}.TableName()
	err := s.db.WithContext(ctx).
		Table(table).
		Where(`"globalNo" = ? AND "verID" = ? AND language = ? AND dex <> ''`,
			q.GlobalNo, q.VerID, q.Language).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN id = ? THEN 0 ELSE 1 END, row_id",
			Vars: []any{q.SheetID},
		}}).
		Limit(1).
		Pluck("dex", &res).Error
	if err != nil {
		return "", false, QueryError(table, err)
	}
	if len(res) == 0 {
		return "", false, nil
	}
	return res[0], true, nil
}

// tabler is implemented by every schema model.
type tabler interface {
	TableName() string
}

// findScoped returns the most specific row of a category table that
// applies to the key. Blank scope columns are wildcards. Rows marked as
// mega or gigantamax only apply to keys with that flag.
func findScoped[T tabler](
	ctx context.Context,
	db *gorm.DB,
	key fallback.Key,
	version string,
) (T, bool, error) {
	var zero T
	var rows []T
	where, args := scopeClause(key)
	args = append(args, strings.ToLower(version))

	err := db.WithContext(ctx).
		Where(where+" AND LOWER(version) = ?", args...).
		Order(specificity).
		Order("row_id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return zero, false, QueryError(zero.TableName(), err)
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	return rows[0], true, nil
}

func scopeClause(key fallback.Key) (string, []any) {
	clauses := []string{
		`"globalNo" = ?`,
		`(form = ? OR COALESCE(form, '') = '')`,
		`(region = ? OR COALESCE(region, '') = '')`,
	}
	args := []any{key.GlobalNo, key.Form, key.Region}

	if !key.MegaEvolution {
		clauses = append(clauses, `COALESCE(mega_evolution, '') = ''`)
	}
	if !key.Gigantamax {
		clauses = append(clauses, `COALESCE(gigantamax, '') = ''`)
	}
	return strings.Join(clauses, " AND "), args
}

// FormIDs returns identifiers of all forms of the national pokedex.
func (s *Store) FormIDs(ctx context.Context) ([]string, error) {
	var res []string
	table := schema.Pokedex{}.TableName()
	err := s.db.WithContext(ctx).
		Table(table).
		Order("id").
		Pluck("id", &res).Error
	if err != nil {
		return nil, QueryError(table, err)
	}
	return res, nil
}

// DescriptionGroups returns stored verID groups in import order.
func (s *Store) DescriptionGroups(
	ctx context.Context,
) ([]schema.PokedexDescriptionMap, error) {
	var res []schema.PokedexDescriptionMap
	err := s.db.WithContext(ctx).Order("row_id").Find(&res).Error
	if err != nil {
		return nil, QueryError(schema.PokedexDescriptionMap{}.TableName(), err)
	}
	return res, nil
}

// DexMap returns texts attached to verID groups.
func (s *Store) DexMap(ctx context.Context) ([]schema.PokedexDexMap, error) {
	var res []schema.PokedexDexMap
	err := s.db.WithContext(ctx).Order("row_id").Find(&res).Error
	if err != nil {
		return nil, QueryError(schema.PokedexDexMap{}.TableName(), err)
	}
	return res, nil
}

// LogExport records an exported file.
func (s *Store) LogExport(ctx context.Context, entry *schema.ExportLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return QueryError(entry.TableName(), err)
	}
	return nil
}
