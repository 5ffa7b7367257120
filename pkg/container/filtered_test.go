package container

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFilteredView(t *testing.T) {
	a := NewArray(WithObjects([]string{"apple", "banana", "avocado"}, Named("fruit").WithIndexTitle("F")))
	assert.Equal(t, a.AppendSection([]string{"beet"}, Named("veg")), nil)

	f := NewFiltered[string](a)
	rec := &Recorder{}
	f.SetDelegate(rec)
	assert.Equal(t, f.FetchedObjects(), a.FetchedObjects())
	assert.Equal(t, f.Active(), false)

	f.Filter(func(s string) bool { return strings.HasPrefix(s, "a") })

	assert.Equal(t, f.Active(), true)
	assert.Equal(t, f.FetchedObjects(), []string{"apple", "avocado"})
	assert.Equal(t, f.NumberOfSections(), 2)
	assert.Equal(t, f.NumberOfItems(1), 0)
	assert.Equal(t, f.Sections()[1].Name(), "veg")
	title, _ := f.Sections()[0].IndexTitle()
	assert.Equal(t, title, "F")

	got, ok := f.Object(pos(0, 1))
	assert.Equal(t, ok, true)
	assert.Equal(t, got, "avocado")

	assert.Equal(t, rec.Kinds(), bracket(ObjectChanged))
	assert.Equal(t, rec.Changes()[0].Change, ReloadAll)

	f.Filter(nil)
	assert.Equal(t, f.FetchedObjects(), a.FetchedObjects())
}

func TestFilteredRefreshFollowsSource(t *testing.T) {
	a := NewArray(WithObjects([]string{"a1"}, Named("")))
	f := NewFiltered[string](a)
	f.Filter(func(s string) bool { return strings.HasPrefix(s, "a") })

	assert.Equal(t, a.AppendObjects([]string{"b1", "a2"}, 0, Named("")), nil)
	assert.Equal(t, f.FetchedObjects(), []string{"a1"})

	f.Refresh()
	assert.Equal(t, f.FetchedObjects(), []string{"a1", "a2"})

	p, ok := f.Search(func(_ Position, s string) bool { return s == "a2" })
	assert.Equal(t, ok, true)
	assert.Equal(t, p, pos(0, 1))
}
