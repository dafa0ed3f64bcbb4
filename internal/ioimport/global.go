package ioimport

import (
	"context"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/pokedexdb/pokedexdb/pkg/formid"
	"github.com/pokedexdb/pokedexdb/pkg/lifecycle"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type globalRows struct {
	forms           []schema.Pokedex
	names           []schema.PokedexName
	classifications []schema.PokedexClassification
}

// importGlobal replaces national pokedex tables with the content of a
// global file.
func (im *importer) importGlobal(
	ctx context.Context,
	path string,
	f *globalFile,
	stats *lifecycle.ImportStats,
) error {
	rows := im.globalRows(f)

	err := im.retry.Do(ctx, "import "+path, func() error {
		return im.op.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			tables := []string{
				schema.Pokedex{}.TableName(),
				schema.PokedexName{}.TableName(),
				schema.PokedexClassification{}.TableName(),
			}
			for _, table := range tables {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return InsertError(path, table, err)
				}
			}

			n := im.batchSize()
			// Distinct named forms of a species share an identifier, the
			// first one keeps the row.
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				CreateInBatches(&rows.forms, n).Error
			if err != nil {
				return InsertError(path, schema.Pokedex{}.TableName(), err)
			}
			if len(rows.names) > 0 {
				if err = tx.CreateInBatches(&rows.names, n).Error; err != nil {
					return InsertError(path, schema.PokedexName{}.TableName(), err)
				}
			}
			if len(rows.classifications) > 0 {
				err = tx.CreateInBatches(&rows.classifications, n).Error
				if err != nil {
					return InsertError(path,
						schema.PokedexClassification{}.TableName(), err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	stats.Forms += len(rows.forms)
	slog.Info("Global pokedex imported",
		"path", path,
		"update", f.Update,
		"forms", len(rows.forms),
		"names", len(rows.names),
	)
	return nil
}

func (im *importer) globalRows(f *globalFile) globalRows {
	var res globalRows
	var total int
	for _, sp := range f.Pokedex {
		total += len(sp.Forms)
	}

	bar := pb.Full.Start(total)
	bar.Set("prefix", "Reading forms: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	seen := make(map[string]struct{}, total)
	for _, sp := range f.Pokedex {
		for _, form := range sp.Forms {
			bar.Increment()
			scope := schema.FormScope{
				GlobalNo:      sp.No.String(),
				Form:          form.Form.String(),
				Region:        form.Region.String(),
				MegaEvolution: form.MegaEvolution.String(),
				Gigantamax:    form.Gigantamax.String(),
			}
			id := im.formID(scope, form.ID.String())

			if _, ok := seen[id]; ok {
				slog.Warn("Duplicate form identifier, keeping the first form",
					"id", id, "form", scope.Form)
			} else {
				seen[id] = struct{}{}
				res.forms = append(res.forms, schema.Pokedex{
					ID:        id,
					FormScope: scope,
					Height:    form.Height.String(),
					Weight:    form.Weight.String(),
				})
			}

			res.classifications = append(res.classifications,
				schema.PokedexClassification{
					ID:             id,
					FormScope:      scope,
					Language:       classificationLanguage,
					Classification: form.Classification.String(),
				})

			// A form without its own names takes the species names.
			names := form.Name
			if len(names) == 0 {
				names = sp.Name
			}
			for _, v := range names {
				res.names = append(res.names, schema.PokedexName{
					ID:        id,
					FormScope: scope,
					Language:  v.Key,
					Name:      v.Value,
				})
			}
		}
	}
	return res
}

// formID computes the identifier of a form. An identifier given by the
// file is only compared with the computed one.
func (im *importer) formID(scope schema.FormScope, given string) string {
	res := im.codec.Encode(formid.Inputs{
		No:            scope.GlobalNo,
		Region:        scope.Region,
		Gigantamax:    formid.Flag(scope.Gigantamax),
		MegaEvolution: formid.Flag(scope.MegaEvolution),
		Form:          scope.Form,
	})
	if given != "" && given != res {
		slog.Warn("Identifier in file differs from computed one",
			"given", given, "computed", res)
	}
	return res
}
