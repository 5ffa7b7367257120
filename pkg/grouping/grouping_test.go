package grouping

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/bisegni/sds/pkg/parser"
)

func records() []parser.Record {
	return []parser.Record{
		{"name": "apple", "kind": "fruit"},
		{"name": "beet", "kind": "veg"},
		{"name": "cherry", "kind": "fruit"},
		{"name": "rock"},
	}
}

func TestByField(t *testing.T) {
	groups := By(records(), Options{Field: "kind"})

	assert.Equal(t, len(groups), 3)
	assert.Equal(t, groups[0].Name, "fruit")
	assert.Equal(t, len(groups[0].Records), 2)
	assert.Equal(t, groups[1].Name, "veg")
	assert.Equal(t, groups[2].Name, "")
	assert.Equal(t, groups[2].Records[0]["name"], "rock")
}

func TestByNoField(t *testing.T) {
	groups := By(records(), Options{})
	assert.Equal(t, len(groups), 1)
	assert.Equal(t, len(groups[0].Records), 4)
}

func TestIndexTitle(t *testing.T) {
	tests := map[string]string{
		"fruit":  "F",
		" veg":   "V",
		"":       "#",
		"42":     "#",
		"éclair": "É",
	}
	for in, want := range tests {
		assert.Equal(t, IndexTitle(in), want)
	}
}

func TestBuild(t *testing.T) {
	a := Build(records(), Options{Field: "kind", IndexTitles: true})

	assert.Equal(t, a.NumberOfSections(), 3)
	assert.Equal(t, a.NumberOfItems(0), 2)
	sections := a.Sections()
	assert.Equal(t, sections[1].Name(), "veg")
	title, ok := sections[1].IndexTitle()
	assert.Equal(t, ok, true)
	assert.Equal(t, title, "V")
}
