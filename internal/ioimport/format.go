package ioimport

import (
	"bytes"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// probe reads only what is needed to tell global files from regional
// ones.
type probe struct {
	GameVersion string              `json:"game_version"`
	Pokedex     jsoniter.RawMessage `json:"pokedex"`
}

// globalFile is the national pokedex (pokedex.json).
type globalFile struct {
	Update  string          `json:"update"`
	Pokedex []globalSpecies `json:"pokedex"`
}

type globalSpecies struct {
	No    flexString      `json:"no"`
	Name  ordered[string] `json:"name"`
	Forms []globalForm    `json:"form"`
}

type globalForm struct {
	ID             flexString      `json:"id"`
	Form           flexString      `json:"form"`
	Region         flexString      `json:"region"`
	MegaEvolution  flexString      `json:"mega_evolution"`
	Gigantamax     flexString      `json:"gigantamax"`
	Height         flexString      `json:"height"`
	Weight         flexString      `json:"weight"`
	Classification flexString      `json:"classification"`
	Name           ordered[string] `json:"name"`
}

// regionalFile holds regional pokedexes of one game version.
type regionalFile struct {
	Update      string                     `json:"update"`
	GameVersion string                     `json:"game_version"`
	Pokedex     ordered[[]regionalSpecies] `json:"pokedex"`
}

type regionalSpecies struct {
	No       flexString     `json:"no"`
	GlobalNo flexString     `json:"globalNo"`
	Status   []regionalForm `json:"status"`
}

type regionalForm struct {
	ID             flexString      `json:"id"`
	Form           flexString      `json:"form"`
	Region         flexString      `json:"region"`
	MegaEvolution  flexString      `json:"mega_evolution"`
	Gigantamax     flexString      `json:"gigantamax"`
	Type1          flexString      `json:"type1"`
	Type2          flexString      `json:"type2"`
	Ability1       flexString      `json:"ability1"`
	Ability2       flexString      `json:"ability2"`
	DreamAbility   flexString      `json:"dream_ability"`
	HP             flexInt         `json:"hp"`
	Attack         flexInt         `json:"attack"`
	Defense        flexInt         `json:"defense"`
	SpecialAttack  flexInt         `json:"special_attack"`
	SpecialDefense flexInt         `json:"special_defense"`
	Speed          flexInt         `json:"speed"`
	Description    ordered[string] `json:"description"`
}

// pair is a member of a JSON object.
type pair[T any] struct {
	Key   string
	Value T
}

// ordered is a JSON object that keeps the order of its members.
type ordered[T any] []pair[T]

func (o *ordered[T]) UnmarshalJSON(data []byte) error {
	iter := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(data)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(iter)

	res := make(ordered[T], 0)
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		var v T
		it.ReadVal(&v)
		res = append(res, pair[T]{Key: key, Value: v})
		return it.Error == nil
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return iter.Error
	}
	*o = res
	return nil
}

// flexString accepts strings, numbers, booleans and null. False and null
// become an empty string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, string(data) == "null", string(data) == "false":
		*s = ""
	case data[0] == '"':
		var v string
		if err := jsoniter.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		*s = flexString(data)
	}
	return nil
}

func (s flexString) String() string {
	return string(s)
}

// flexInt accepts numbers and numeric strings. Null and empty strings
// are zero.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := jsoniter.Unmarshal(data, &v); err != nil {
			return err
		}
		data = bytes.TrimSpace([]byte(v))
	}
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}
