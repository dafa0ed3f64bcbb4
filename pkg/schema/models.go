// Package schema provides database models of the pokedex database.
//
// Table and column names follow the historical pokedex.db layout, so
// that existing readers of the database keep working. Columns with
// camelCase names (globalNo, verID) must be double-quoted in raw SQL.
package schema

import "time"

// FormScope identifies the form a row describes. Blank fields of
// category rows mean the row applies to every form of the species.
type FormScope struct {
	GlobalNo      string `gorm:"column:globalNo;index"`
	Form          string `gorm:"column:form"`
	Region        string `gorm:"column:region"`
	MegaEvolution string `gorm:"column:mega_evolution"`
	Gigantamax    string `gorm:"column:gigantamax"`
}

// Pokedex is a form of the national pokedex.
type Pokedex struct {
	// ID is the form identifier, for example "0006_01000000_0_000_0".
	ID string `gorm:"column:id;primaryKey"`

	FormScope `gorm:"embedded"`

	Height string `gorm:"column:height"`
	Weight string `gorm:"column:weight"`
}

func (Pokedex) TableName() string { return "pokedex" }

// PokedexName is the name of a form in one language.
type PokedexName struct {
	RowID     uint   `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID        string `gorm:"column:id;index"`
	FormScope `gorm:"embedded"`
	Language  string `gorm:"column:language"`
	Name      string `gorm:"column:name"`
}

func (PokedexName) TableName() string { return "pokedex_name" }

// PokedexClassification is the species classification of a form.
type PokedexClassification struct {
	RowID          uint   `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID             string `gorm:"column:id;index"`
	FormScope      `gorm:"embedded"`
	Language       string `gorm:"column:language"`
	Classification string `gorm:"column:classification"`
}

func (PokedexClassification) TableName() string { return "pokedex_classification" }

// LocalPokedex is an entry of a regional pokedex. Seq keeps the order
// of entries in the imported file.
type LocalPokedex struct {
	Seq       uint   `gorm:"column:seq;primaryKey;autoIncrement"`
	ID        string `gorm:"column:id"`
	No        string `gorm:"column:no"`
	FormScope `gorm:"embedded"`
	Version   string `gorm:"column:version;index:idx_local_pokedex_version_dex"`
	Pokedex   string `gorm:"column:pokedex;index:idx_local_pokedex_version_dex"`
}

func (LocalPokedex) TableName() string { return "local_pokedex" }

// LocalPokedexType holds types of a form in a version.
type LocalPokedexType struct {
	RowID     uint `gorm:"column:row_id;primaryKey;autoIncrement"`
	FormScope `gorm:"embedded"`
	Version   string `gorm:"column:version;index"`
	Type1     string `gorm:"column:type1"`
	Type2     string `gorm:"column:type2"`
}

func (LocalPokedexType) TableName() string { return "local_pokedex_type" }

// LocalPokedexAbility holds abilities of a form in a version.
type LocalPokedexAbility struct {
	RowID        uint `gorm:"column:row_id;primaryKey;autoIncrement"`
	FormScope    `gorm:"embedded"`
	Version      string `gorm:"column:version;index"`
	Ability1     string `gorm:"column:ability1"`
	Ability2     string `gorm:"column:ability2"`
	DreamAbility string `gorm:"column:dream_ability"`
}

func (LocalPokedexAbility) TableName() string { return "local_pokedex_ability" }

// LocalPokedexStatus holds base stats of a form in a version.
type LocalPokedexStatus struct {
	RowID          uint `gorm:"column:row_id;primaryKey;autoIncrement"`
	FormScope      `gorm:"embedded"`
	Version        string `gorm:"column:version;index"`
	HP             int    `gorm:"column:hp"`
	Attack         int    `gorm:"column:attack"`
	Defense        int    `gorm:"column:defense"`
	SpecialAttack  int    `gorm:"column:special_attack"`
	SpecialDefense int    `gorm:"column:special_defense"`
	Speed          int    `gorm:"column:speed"`
}

func (LocalPokedexStatus) TableName() string { return "local_pokedex_status" }

// LocalPokedexDescription is the description of a form in a
// sub-version, as given by a regional file.
type LocalPokedexDescription struct {
	RowID       uint `gorm:"column:row_id;primaryKey;autoIncrement"`
	FormScope   `gorm:"embedded"`
	Version     string `gorm:"column:version;index"`
	VersionName string `gorm:"column:version_name"`
	Language    string `gorm:"column:language"`
	Description string `gorm:"column:description"`
}

func (LocalPokedexDescription) TableName() string { return "local_pokedex_description" }

// PokedexDescription is a description text of one verID, imported from
// the description spreadsheet.
type PokedexDescription struct {
	RowID    uint   `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID       string `gorm:"column:id;index"`
	GlobalNo string `gorm:"column:globalNo;index:idx_pokedex_description_lookup"`
	VerID    string `gorm:"column:verID;index:idx_pokedex_description_lookup"`
	Language string `gorm:"column:language;index:idx_pokedex_description_lookup"`
	Dex      string `gorm:"column:dex"`
}

func (PokedexDescription) TableName() string { return "pokedex_description" }

// PokedexDescriptionMap stores a verID group of a record. VerID holds
// the comma-joined members of the group.
type PokedexDescriptionMap struct {
	RowID    uint   `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID       string `gorm:"column:id;index"`
	GlobalNo string `gorm:"column:globalNo"`
	VerID    string `gorm:"column:verID"`
}

func (PokedexDescriptionMap) TableName() string { return "pokedex_description_map" }

// PokedexDexMap attaches description texts to verID groups.
type PokedexDexMap struct {
	RowID    uint   `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID       string `gorm:"column:id;index"`
	GlobalNo string `gorm:"column:globalNo;index"`
	VerID    string `gorm:"column:verID"`
	Language string `gorm:"column:language"`
	Dex      string `gorm:"column:dex"`
}

func (PokedexDexMap) TableName() string { return "pokedex_dex_map" }

// ExportLog records every exported file.
type ExportLog struct {
	RowID       uint      `gorm:"column:row_id;primaryKey;autoIncrement"`
	Version     string    `gorm:"column:version;index"`
	Updated     string    `gorm:"column:updated"`
	Path        string    `gorm:"column:path"`
	Fingerprint string    `gorm:"column:fingerprint"`
	Entries     int       `gorm:"column:entries"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (ExportLog) TableName() string { return "export_log" }
