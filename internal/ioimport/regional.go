package ioimport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/pokedexdb/pokedexdb/pkg/catalog"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"gorm.io/gorm"
)

type regionalRows struct {
	entries      []schema.LocalPokedex
	types        []schema.LocalPokedexType
	abilities    []schema.LocalPokedexAbility
	statuses     []schema.LocalPokedexStatus
	descriptions []schema.LocalPokedexDescription
}

// importRegional replaces every row of the file's game version.
func (im *importer) importRegional(
	ctx context.Context,
	path string,
	f *regionalFile,
	stats *lifecycle.ImportStats,
) error {
	version := catalog.Normalize(strings.TrimSpace(f.GameVersion))
	rows := im.regionalRows(f, version)

	err := im.retry.Do(ctx, "import "+path, func() error {
		return im.op.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, table := range schema.LocalTables() {
				err := tx.Exec("DELETE FROM "+table+" WHERE LOWER(version) = ?",
					version).Error
				if err != nil {
					return InsertError(path, table, err)
				}
			}

			n := im.batchSize()
			batches := []struct {
				table string
				rows  any
				size  int
			}{
				{schema.LocalPokedex{}.TableName(), &rows.entries, len(rows.entries)},
				{schema.LocalPokedexType{}.TableName(), &rows.types, len(rows.types)},
				{schema.LocalPokedexAbility{}.TableName(), &rows.abilities, len(rows.abilities)},
				{schema.LocalPokedexStatus{}.TableName(), &rows.statuses, len(rows.statuses)},
				{schema.LocalPokedexDescription{}.TableName(), &rows.descriptions, len(rows.descriptions)},
			}
			for _, b := range batches {
				if b.size == 0 {
					continue
				}
				if err := tx.CreateInBatches(b.rows, n).Error; err != nil {
					return InsertError(path, b.table, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	stats.Entries += len(rows.entries)
	stats.Descriptions += len(rows.descriptions)
	slog.Info("Regional pokedex imported",
		"path", path,
		"version", version,
		"update", f.Update,
		"pokedexes", len(f.Pokedex),
		"entries", len(rows.entries),
	)
	return nil
}

func (im *importer) regionalRows(f *regionalFile, version string) regionalRows {
	var res regionalRows
	var total int
	for _, dex := range f.Pokedex {
		for _, sp := range dex.Value {
			total += len(sp.Status)
		}
	}

	bar := pb.Full.Start(total)
	bar.Set("prefix", "Reading "+version+": ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	descLang := im.cat.DescriptionLanguage()
	// A form listed in several pokedexes of the version gets its
	// category rows once.
	seen := make(map[schema.FormScope]struct{})
	for _, dex := range f.Pokedex {
		for _, sp := range dex.Value {
			for _, form := range sp.Status {
				bar.Increment()
				scope := schema.FormScope{
					GlobalNo:      sp.GlobalNo.String(),
					Form:          form.Form.String(),
					Region:        form.Region.String(),
					MegaEvolution: form.MegaEvolution.String(),
					Gigantamax:    form.Gigantamax.String(),
				}
				res.entries = append(res.entries, schema.LocalPokedex{
					ID:        im.formID(scope, form.ID.String()),
					No:        sp.No.String(),
					FormScope: scope,
					Version:   version,
					Pokedex:   dex.Key,
				})

				if _, ok := seen[scope]; ok {
					continue
				}
				seen[scope] = struct{}{}
				im.addCategoryRows(&res, scope, version, descLang, form)
			}
		}
	}
	return res
}

func (im *importer) addCategoryRows(
	res *regionalRows,
	scope schema.FormScope,
	version, descLang string,
	form regionalForm,
) {
	res.types = append(res.types, schema.LocalPokedexType{
		FormScope: scope,
		Version:   version,
		Type1:     form.Type1.String(),
		Type2:     form.Type2.String(),
	})
	res.abilities = append(res.abilities, schema.LocalPokedexAbility{
		FormScope:    scope,
		Version:      version,
		Ability1:     form.Ability1.String(),
		Ability2:     form.Ability2.String(),
		DreamAbility: form.DreamAbility.String(),
	})
	res.statuses = append(res.statuses, schema.LocalPokedexStatus{
		FormScope:      scope,
		Version:        version,
		HP:             int(form.HP),
		Attack:         int(form.Attack),
		Defense:        int(form.Defense),
		SpecialAttack:  int(form.SpecialAttack),
		SpecialDefense: int(form.SpecialDefense),
		Speed:          int(form.Speed),
	})
	for _, v := range form.Description {
		res.descriptions = append(res.descriptions, schema.LocalPokedexDescription{
			FormScope:   scope,
			Version:     version,
			VersionName: v.Key,
			Language:    descLang,
			Description: v.Value,
		})
	}
}
