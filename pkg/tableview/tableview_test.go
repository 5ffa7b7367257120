package tableview

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-playground/assert/v2"

	"github.com/bisegni/sds/pkg/container"
)

func pos(s, r int) container.Position {
	return container.Position{Section: s, Row: r}
}

func rowTexts[T any](v *TableView[T], section int) []string {
	var out []string
	for i := 0; i < v.NumberOfRows(section); i++ {
		r, _ := v.Row(pos(section, i))
		out = append(out, r.Text)
	}
	return out
}

func seeded() (*container.Array[string], *TableView[string]) {
	a := container.NewArray(
		container.WithObjects([]string{"apple", "cherry"}, container.Named("fruit").WithIndexTitle("F")),
		container.WithObjects([]string{"beet"}, container.Named("veg").WithIndexTitle("V")),
	)
	return a, New[string](a)
}

func TestMirrorFollowsMutations(t *testing.T) {
	a, v := seeded()
	redraws := 0
	v.OnRedraw = func() { redraws++ }

	assert.Equal(t, a.Insert("banana", pos(0, 1)), nil)
	assert.Equal(t, rowTexts(v, 0), []string{"apple", "banana", "cherry"})

	assert.Equal(t, a.Remove(pos(0, 0)), nil)
	assert.Equal(t, a.Replace("BEET", pos(1, 0), false), nil)
	assert.Equal(t, a.AppendSection([]string{"rock"}, container.Named("")), nil)
	assert.Equal(t, a.AppendObjects([]string{"x", "y"}, 2, container.SectionOptions{}), nil)
	assert.Equal(t, a.RemoveSection(0), nil)

	assert.Equal(t, v.Err(), nil)
	assert.Equal(t, v.NumberOfSections(), 2)
	assert.Equal(t, rowTexts(v, 0), []string{"BEET"})
	assert.Equal(t, rowTexts(v, 1), []string{"rock", "x", "y"})
	assert.Equal(t, v.Batches(), 6)
	assert.Equal(t, redraws, 6)

	a.RemoveAll()
	assert.Equal(t, v.NumberOfSections(), 0)
	assert.Equal(t, v.Err(), nil)
}

func TestLegacyReplaceAppliesImmediately(t *testing.T) {
	a := container.NewArray(
		container.WithObjects([]string{"a"}, container.SectionOptions{}),
		container.WithLegacyReplaceBracketing[string](),
	)
	v := New[string](a)

	assert.Equal(t, a.Replace("b", pos(0, 0), true), nil)
	assert.Equal(t, rowTexts(v, 0), []string{"b"})
	assert.Equal(t, v.Batches(), 1)
	assert.Equal(t, v.Err(), nil)
}

func TestInconsistentBatchResyncs(t *testing.T) {
	a, v := seeded()

	v.WillChangeContent(a)
	v.DidChangeObject(a, "ghost", nil, container.Insert, pos(0, 0).Ptr())
	v.DidChangeContent(a)

	assert.Equal(t, errors.Is(v.Err(), ErrInconsistentUpdate), true)
	assert.Equal(t, rowTexts(v, 0), []string{"apple", "cherry"})
}

func TestMoveAndReload(t *testing.T) {
	a, v := seeded()

	v.WillChangeContent(a)
	v.DidChangeObject(a, "cherry", pos(0, 1).Ptr(), container.Move, pos(1, 0).Ptr())
	v.DidChangeObject(a, "beet", pos(1, 1).Ptr(), container.Move, pos(0, 1).Ptr())
	v.DidChangeContent(a)

	assert.Equal(t, v.Err(), nil)
	assert.Equal(t, rowTexts(v, 0), []string{"apple", "beet"})
	assert.Equal(t, rowTexts(v, 1), []string{"cherry"})
}

func TestUpdateKeepsExpansionReloadResets(t *testing.T) {
	a, v := seeded()

	assert.Equal(t, v.ToggleExpanded(pos(0, 1)), true)
	assert.Equal(t, a.Insert("avocado", pos(0, 0)), nil)
	r, _ := v.Row(pos(0, 2))
	assert.Equal(t, r.Expanded, true)

	assert.Equal(t, a.Replace("CHERRY", pos(0, 2), false), nil)
	r, _ = v.Row(pos(0, 2))
	assert.Equal(t, r.Text, "CHERRY")
	assert.Equal(t, r.Expanded, true)

	assert.Equal(t, a.Replace("cherry", pos(0, 2), true), nil)
	r, _ = v.Row(pos(0, 2))
	assert.Equal(t, r.Expanded, false)
}

func TestFilteredReloadAll(t *testing.T) {
	a := container.NewArray(container.WithObjects([]string{"apple", "beet", "banana"}, container.SectionOptions{}))
	f := container.NewFiltered[string](a)
	v := New[string](f)

	f.Filter(func(s string) bool { return strings.HasPrefix(s, "b") })
	assert.Equal(t, rowTexts(v, 0), []string{"beet", "banana"})
	assert.Equal(t, v.Err(), nil)
}

func TestRowPositions(t *testing.T) {
	a := container.NewArray(
		container.WithObjects([]int{1, 2, 3}, container.SectionOptions{}),
		container.WithObjects([]int{4}, container.SectionOptions{}),
	)
	v := New[int](a)

	tests := []struct {
		at   container.Position
		want RowPosition
	}{
		{pos(0, 0), First},
		{pos(0, 1), Middle},
		{pos(0, 2), Last},
		{pos(1, 0), OnlyOne},
	}
	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			got, ok := v.Position(tt.at)
			assert.Equal(t, ok, true)
			assert.Equal(t, got, tt.want)
		})
	}
	_, ok := v.Position(pos(0, 3))
	assert.Equal(t, ok, false)
}

func TestHeadersAndIndexTitles(t *testing.T) {
	a := container.NewArray(
		container.WithObjects([]string{"a"}, container.Named("")),
		container.WithObjects([]string{"b"}, container.Named("veg").WithIndexTitle("V")),
	)
	v := New[string](a)

	_, ok := v.HeaderTitle(0)
	assert.Equal(t, ok, false)
	v.RemoveEmptyHeaders = false
	title, ok := v.HeaderTitle(0)
	assert.Equal(t, ok, true)
	assert.Equal(t, title, "")

	v.Header = func(s container.SectionInfo, index int) (string, bool) {
		return strings.ToUpper(s.Name()), s.Name() != ""
	}
	title, _ = v.HeaderTitle(1)
	assert.Equal(t, title, "VEG")

	assert.Equal(t, v.SectionIndexTitles(), []string{"V"})
	idx, ok := v.SectionForIndexTitle("V")
	assert.Equal(t, ok, true)
	assert.Equal(t, idx, 1)
}

func TestEmptyAndRefreshingText(t *testing.T) {
	a := container.NewArray[string]()
	v := New[string](a)

	assert.Equal(t, v.Lines(), []Line{{Kind: MessageLine, Text: "no data"}})
	v.BeginRefreshing()
	assert.Equal(t, v.Lines()[0].Text, "refreshing...")
	v.EndRefreshing()

	assert.Equal(t, a.Insert("x", pos(0, 0)), nil)
	assert.Equal(t, v.Lines()[0].Kind, RowLine)
}

func TestSelect(t *testing.T) {
	_, v := seeded()
	var got string
	v.OnSelect = func(obj string, at container.Position) { got = obj }

	assert.Equal(t, v.Select(pos(1, 0)), true)
	assert.Equal(t, got, "beet")
	assert.Equal(t, v.Select(pos(5, 0)), false)
}

func screenLine(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " \x00")
}

func TestRender(t *testing.T) {
	_, v := seeded()
	v.ShowIndexTitles = true
	v.Detail = func(s string) []string { return []string{"len " + string(rune('0'+len(s)))} }
	v.ToggleExpanded(pos(1, 0))

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(30, 8)

	nearEnd := false
	v.OnNearEnd = func() { nearEnd = true }
	v.Render(screen, 0, 1)

	assert.Equal(t, screenLine(screen, 0), "fruit                        F")
	assert.Equal(t, screenLine(screen, 1), "┌ apple                      V")
	assert.Equal(t, screenLine(screen, 2), "└ cherry")
	assert.Equal(t, screenLine(screen, 3), "veg")
	assert.Equal(t, screenLine(screen, 4), "─ beet")
	assert.Equal(t, screenLine(screen, 5), "│     len 4")
	assert.Equal(t, nearEnd, true)

	_, _, style, _ := screen.GetContent(0, 1)
	assert.Equal(t, style, tcell.StyleDefault.Reverse(true))
	_, _, style, _ = screen.GetContent(0, 0)
	assert.Equal(t, style, tcell.StyleDefault.Bold(true))
}

func TestFormatTree(t *testing.T) {
	a := container.NewArray(
		container.WithObjects([]string{"apple"}, container.Named("fruit").WithIndexTitle("F")),
		container.WithObjects([]string{}, container.Named("veg")),
	)

	want := `└─ sections: 2
   ├─ [0] "fruit" (F) rows: 1
   │  └─ apple
   └─ [1] "veg" rows: 0
`
	assert.Equal(t, FormatTree(a, nil), want)
}
