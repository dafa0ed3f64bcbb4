package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Pokedex{},
		&PokedexName{},
		&PokedexClassification{},
		&LocalPokedex{},
		&LocalPokedexType{},
		&LocalPokedexAbility{},
		&LocalPokedexStatus{},
		&LocalPokedexDescription{},
		&PokedexDescription{},
		&PokedexDescriptionMap{},
		&PokedexDexMap{},
		&ExportLog{},
	}
}

// TableNames returns names of all tables in migration order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, 0, len(models))
	for _, v := range models {
		if t, ok := v.(interface{ TableName() string }); ok {
			res = append(res, t.TableName())
		}
	}
	return res
}

// LocalTables returns tables that hold per-version data of regional
// files.
func LocalTables() []string {
	return []string{
		LocalPokedex{}.TableName(),
		LocalPokedexType{}.TableName(),
		LocalPokedexAbility{}.TableName(),
		LocalPokedexStatus{}.TableName(),
		LocalPokedexDescription{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
