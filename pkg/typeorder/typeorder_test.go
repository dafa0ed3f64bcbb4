package typeorder_test

import (
	"testing"

	"github.com/pokedexdb/pokedexdb/pkg/typeorder"
	"github.com/stretchr/testify/assert"
)

var types = []string{
	"ノーマル", "ほのお", "みず", "でんき", "くさ", "こおり",
	"かくとう", "どく", "じめん", "ひこう", "エスパー", "むし",
	"いわ", "ゴースト", "ドラゴン", "あく", "はがね", "フェアリー",
}

func TestCanonicalize(t *testing.T) {
	c := typeorder.New(types)

	tests := []struct {
		msg        string
		t1, t2     string
		res1, res2 string
	}{
		{"swapped", "みず", "ほのお", "ほのお", "みず"},
		{"already ordered", "ほのお", "ひこう", "ほのお", "ひこう"},
		{"last and first", "フェアリー", "ノーマル", "ノーマル", "フェアリー"},
		{"single type", "でんき", "", "でんき", ""},
		{"empty first", "", "でんき", "", "でんき"},
		{"same type", "くさ", "くさ", "くさ", "くさ"},
		{"unknown second", "みず", "ステラ", "みず", "ステラ"},
		{"unknown first", "ステラ", "ほのお", "ステラ", "ほのお"},
	}

	for _, v := range tests {
		r1, r2 := c.Canonicalize(v.t1, v.t2)
		assert.Equal(t, v.res1, r1, v.msg)
		assert.Equal(t, v.res2, r2, v.msg)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	c := typeorder.New(types)
	for _, a := range types {
		for _, b := range types {
			r1, r2 := c.Canonicalize(a, b)
			s1, s2 := c.Canonicalize(r1, r2)
			assert.Equal(t, r1, s1)
			assert.Equal(t, r2, s2)
			assert.ElementsMatch(t, []string{a, b}, []string{r1, r2})
		}
	}
}

func TestKnown(t *testing.T) {
	c := typeorder.New(types)
	assert.True(t, c.Known("はがね"))
	assert.False(t, c.Known("ステラ"))
}
