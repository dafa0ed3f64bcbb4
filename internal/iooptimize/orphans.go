package iooptimize

import (
	"context"
	"log/slog"

	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"gorm.io/gorm"
)

// orphanRule deletes rows of a table that have nothing to refer to.
type orphanRule struct {
	table string
	where string
}

// orphanRules lists rules in the order they are applied. Category rows
// of a version without regional entries are left by a regional file
// that no longer carries a category, names and classifications outlive
// their forms when the national pokedex is reimported without them.
func orphanRules() []orphanRule {
	versionGone := `version NOT IN (SELECT DISTINCT version FROM local_pokedex)`
	formGone := `id NOT IN (SELECT id FROM pokedex)`

	res := []orphanRule{
		{schema.PokedexName{}.TableName(), formGone},
		{schema.PokedexClassification{}.TableName(), formGone},
	}
	for _, v := range schema.LocalTables()[1:] {
		res = append(res, orphanRule{v, versionGone})
	}
	return res
}

// removeOrphans applies every orphan rule and returns the number of
// deleted rows.
func (o *optimizer) removeOrphans(ctx context.Context) (int64, error) {
	rules := orphanRules()
	bar := newProgressBar(len(rules), "orphans: ")
	defer bar.Finish()

	var total int64
	for _, rule := range rules {
		var count int64
		err := o.retry.Do(ctx, "orphans "+rule.table, func() error {
			return o.operator.DB().WithContext(ctx).
				Transaction(func(tx *gorm.DB) error {
					res := tx.Exec("DELETE FROM " + rule.table + " WHERE " + rule.where)
					count = res.RowsAffected
					return res.Error
				})
		})
		if err != nil {
			return total, OrphanRemovalError(rule.table, err)
		}
		if count > 0 {
			slog.Info("Orphaned rows removed", "table", rule.table, "rows", count)
		}
		total += count
		bar.Increment()
	}
	return total, nil
}
