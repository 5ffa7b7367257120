package selection

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/bisegni/sds/pkg/container"
)

func eq(a, b string) bool { return a == b }

func fruits() *container.Array[string] {
	return container.NewArray(
		container.WithObjects([]string{"apple", "banana"}, container.Named("a")),
		container.WithObjects([]string{"cherry"}, container.Named("c")),
	)
}

func TestSingleSelectionReplaces(t *testing.T) {
	var fired []string
	l := New[string](fruits(), eq, false)
	l.OnSelect = func(s string) { fired = append(fired, s) }

	l.Select("apple")
	l.Select("cherry")
	l.Select("cherry")

	assert.Equal(t, l.Selected(), []string{"cherry"})
	assert.Equal(t, fired, []string{"apple", "cherry"})
}

func TestMultiSelection(t *testing.T) {
	var deselected []string
	l := New[string](fruits(), eq, true, "banana")
	l.OnDeselect = func(s string) { deselected = append(deselected, s) }

	assert.Equal(t, l.IsSelected("banana"), true)
	assert.Equal(t, l.Toggle("apple"), true)
	assert.Equal(t, l.Toggle("banana"), false)
	assert.Equal(t, l.Selected(), []string{"apple"})
	assert.Equal(t, deselected, []string{"banana"})

	l.Deselect("nope")
	assert.Equal(t, len(deselected), 1)
}

func TestSelectAll(t *testing.T) {
	l := New[string](fruits(), eq, true)

	l.SelectAll()
	assert.Equal(t, l.AllSelected(), true)
	assert.Equal(t, l.Selected(), []string{"apple", "banana", "cherry"})

	l.DeselectAll()
	assert.Equal(t, len(l.Selected()), 0)
	assert.Equal(t, l.AllSelected(), false)
}

func TestSelectedPositionsFollowContainer(t *testing.T) {
	a := fruits()
	l := New[string](a, eq, true, "cherry", "gone")

	assert.Equal(t, l.SelectedPositions(), []container.Position{{Section: 1, Row: 0}})

	assert.Equal(t, a.Insert("avocado", container.Position{Section: 1, Row: 0}), nil)
	assert.Equal(t, l.SelectedPositions(), []container.Position{{Section: 1, Row: 1}})
}

func TestSelectAtAndDone(t *testing.T) {
	l := New[string](fruits(), eq, true)
	var done []string
	l.OnDone = func(s []string) { done = s }

	assert.Equal(t, l.SelectAt(container.Position{Section: 0, Row: 1}), true)
	assert.Equal(t, l.SelectAt(container.Position{Section: 4, Row: 0}), false)
	l.Done()
	assert.Equal(t, done, []string{"banana"})
}

func TestPruneDropsRemovedObjects(t *testing.T) {
	a := fruits()
	var deselected []string
	l := New[string](a, eq, true, "apple", "cherry")
	l.OnDeselect = func(s string) { deselected = append(deselected, s) }

	assert.Equal(t, a.Remove(container.Position{Section: 0, Row: 0}), nil)
	// only banana and cherry remain and banana is not selected
	assert.Equal(t, l.AllSelected(), false)

	assert.Equal(t, a.RemoveSection(0), nil)
	assert.Equal(t, l.AllSelected(), true)

	assert.Equal(t, l.Prune(), 1)
	assert.Equal(t, l.Selected(), []string{"cherry"})
	assert.Equal(t, len(deselected), 0)

	assert.Equal(t, a.RemoveSection(0), nil)
	assert.Equal(t, l.Prune(), 1)
	assert.Equal(t, len(l.Selected()), 0)
	assert.Equal(t, l.Prune(), 0)
}
