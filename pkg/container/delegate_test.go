package container

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestMulticast(t *testing.T) {
	first, second := &Recorder{}, &titler{}
	a := NewArray(WithDelegate[string](Multicast{first, second}))

	assert.Equal(t, a.AppendSection([]string{"x"}, Named("s")), nil)
	assert.Equal(t, a.Insert("y", pos(0, 1)), nil)

	assert.Equal(t, first.Kinds(), second.Kinds())
	assert.Equal(t, len(first.Changes()), 2)
	title, ok := a.Sections()[0].IndexTitle()
	assert.Equal(t, ok, true)
	assert.Equal(t, title, "s")
}

func TestDelegateFuncsSkipsNil(t *testing.T) {
	var kinds []ChangeType
	a := NewArray(WithDelegate[string](DelegateFuncs{
		ObjectChanged: func(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position) {
			kinds = append(kinds, kind)
		},
	}))

	assert.Equal(t, a.Insert("a", pos(0, 0)), nil)
	assert.Equal(t, a.Insert("b", pos(0, 1)), nil)
	assert.Equal(t, a.Remove(pos(0, 0)), nil)
	assert.Equal(t, kinds, []ChangeType{Insert, Delete})
}
