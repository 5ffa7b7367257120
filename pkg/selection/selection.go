// Package selection tracks which objects of a container the user picked.
package selection

import "github.com/bisegni/sds/pkg/container"

// List is a single or multiple selection over a container. Selected objects
// are held by value and matched with the equality func, so they survive
// re-filtering and reordering of the container.
type List[T any] struct {
	source container.Container[T]
	equal  func(a, b T) bool
	multi  bool

	selected []T

	OnSelect   func(T)
	OnDeselect func(T)
	// OnDone receives the final selection.
	OnDone func([]T)
}

// New creates a selection over c. With multi unset, selecting replaces the
// current selection.
func New[T any](c container.Container[T], equal func(a, b T) bool, multi bool, initial ...T) *List[T] {
	return &List[T]{
		source:   c,
		equal:    equal,
		multi:    multi,
		selected: append([]T(nil), initial...),
	}
}

func (l *List[T]) Multi() bool {
	return l.multi
}

func (l *List[T]) IsSelected(obj T) bool {
	return l.indexOf(obj) >= 0
}

func (l *List[T]) indexOf(obj T) int {
	for i, s := range l.selected {
		if l.equal(s, obj) {
			return i
		}
	}
	return -1
}

// Select adds obj, firing OnSelect when it was not already selected.
func (l *List[T]) Select(obj T) {
	if !l.IsSelected(obj) {
		if l.OnSelect != nil {
			l.OnSelect(obj)
		}
		l.selected = append(l.selected, obj)
	}
	if !l.multi {
		l.selected = []T{obj}
	}
}

// Deselect removes obj, firing OnDeselect when it was selected.
func (l *List[T]) Deselect(obj T) {
	i := l.indexOf(obj)
	if i < 0 {
		return
	}
	l.selected = append(l.selected[:i], l.selected[i+1:]...)
	if l.OnDeselect != nil {
		l.OnDeselect(obj)
	}
}

// Toggle flips obj and returns its new state.
func (l *List[T]) Toggle(obj T) bool {
	if l.IsSelected(obj) {
		l.Deselect(obj)
		return false
	}
	l.Select(obj)
	return true
}

// SelectAt selects the object at p; false when p is out of range.
func (l *List[T]) SelectAt(p container.Position) bool {
	obj, ok := l.source.Object(p)
	if ok {
		l.Select(obj)
	}
	return ok
}

func (l *List[T]) SelectAll() {
	l.source.Enumerate(func(_ container.Position, obj T) {
		l.Select(obj)
	})
}

func (l *List[T]) DeselectAll() {
	l.source.Enumerate(func(_ container.Position, obj T) {
		l.Deselect(obj)
	})
}

// AllSelected reports whether the selection covers every fetched object.
// Selected objects the container no longer holds do not count.
func (l *List[T]) AllSelected() bool {
	n := 0
	for _, s := range l.selected {
		if l.contains(s) {
			n++
		}
	}
	return n == len(l.source.FetchedObjects())
}

// Prune drops selected objects that were removed from the container and
// returns how many went. OnDeselect is not called for them.
func (l *List[T]) Prune() int {
	kept := l.selected[:0]
	for _, s := range l.selected {
		if l.contains(s) {
			kept = append(kept, s)
		}
	}
	dropped := len(l.selected) - len(kept)
	for i := len(kept); i < len(l.selected); i++ {
		var zero T
		l.selected[i] = zero
	}
	l.selected = kept
	return dropped
}

func (l *List[T]) contains(obj T) bool {
	_, ok := l.locate(obj)
	return ok
}

func (l *List[T]) locate(obj T) (container.Position, bool) {
	return l.source.Search(func(_ container.Position, o T) bool {
		return l.equal(o, obj)
	})
}

// Selected returns a copy of the selection in selection order.
func (l *List[T]) Selected() []T {
	return append([]T(nil), l.selected...)
}

// SelectedPositions resolves the selection against the current container
// content. Objects no longer present are skipped.
func (l *List[T]) SelectedPositions() []container.Position {
	var out []container.Position
	for _, s := range l.selected {
		if p, ok := l.locate(s); ok {
			out = append(out, p)
		}
	}
	return out
}

// Done hands the selection to OnDone.
func (l *List[T]) Done() {
	if l.OnDone != nil {
		l.OnDone(l.Selected())
	}
}
