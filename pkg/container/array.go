package container

import "fmt"

// Array is the in-memory Container. It owns its sections and is the only
// variant with mutation operations.
//
// Array does not implement IdentityIndexer: an array has no identity index,
// so callers locate objects with Search (or wrap the array in Keyed).
type Array[T any] struct {
	sections []*Section[T]
	delegate Delegate

	// legacyReplace skips the bracket around an in-place Replace.
	legacyReplace bool
	notifying     bool
	// mutations counts applied mutations; Keyed uses it to invalidate its index.
	mutations uint64
}

// ArrayOption configures an Array at construction.
type ArrayOption[T any] func(*Array[T])

// WithObjects seeds the array with one section holding objects.
func WithObjects[T any](objects []T, opts SectionOptions) ArrayOption[T] {
	return func(a *Array[T]) {
		a.sections = append(a.sections, NewSection(objects, opts))
	}
}

// WithDelegate sets the initial observer.
func WithDelegate[T any](d Delegate) ArrayOption[T] {
	return func(a *Array[T]) {
		a.delegate = d
	}
}

// WithLegacyReplaceBracketing makes an in-place Replace report its single
// Update/Reload event without the WillChangeContent/DidChangeContent pair.
func WithLegacyReplaceBracketing[T any]() ArrayOption[T] {
	return func(a *Array[T]) {
		a.legacyReplace = true
	}
}

// NewArray creates an empty array container.
func NewArray[T any](opts ...ArrayOption[T]) *Array[T] {
	a := &Array[T]{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Array[T]) Sections() []SectionInfo {
	out := make([]SectionInfo, len(a.sections))
	for i, s := range a.sections {
		out[i] = s
	}
	return out
}

// Section returns the typed section at index.
func (a *Array[T]) Section(index int) (*Section[T], bool) {
	if index < 0 || index >= len(a.sections) {
		return nil, false
	}
	return a.sections[index], true
}

func (a *Array[T]) FetchedObjects() []T {
	out := []T{}
	for _, s := range a.sections {
		out = append(out, s.objects...)
	}
	return out
}

func (a *Array[T]) Object(at Position) (T, bool) {
	s, ok := a.Section(at.Section)
	if !ok {
		var zero T
		return zero, false
	}
	return s.at(at.Row)
}

func (a *Array[T]) NumberOfSections() int {
	return len(a.sections)
}

func (a *Array[T]) NumberOfItems(section int) int {
	s, ok := a.Section(section)
	if !ok {
		return 0
	}
	return len(s.objects)
}

func (a *Array[T]) Search(match func(Position, T) bool) (Position, bool) {
	for si, s := range a.sections {
		for ri, obj := range s.objects {
			p := Position{Section: si, Row: ri}
			if match(p, obj) {
				return p, true
			}
		}
	}
	return Position{}, false
}

func (a *Array[T]) Enumerate(visit func(Position, T)) {
	for si, s := range a.sections {
		for ri, obj := range s.objects {
			visit(Position{Section: si, Row: ri}, obj)
		}
	}
}

func (a *Array[T]) Delegate() Delegate {
	return a.delegate
}

func (a *Array[T]) SetDelegate(d Delegate) {
	a.delegate = d
}

// Insert puts obj at p. Inserting at row 0 of the section just past the last
// one creates that section. Row len(section) appends.
func (a *Array[T]) Insert(obj T, at Position) error {
	a.enter()
	if at.Row < 0 || at.Section < 0 {
		return fmt.Errorf("insert at %s: %w", at, ErrInvalidPosition)
	}
	s, ok := a.Section(at.Section)
	if !ok {
		if at.Row != 0 {
			return fmt.Errorf("insert at %s: %w", at, ErrInvalidPosition)
		}
		return a.insertSection([]T{obj}, at.Section, SectionOptions{})
	}
	if at.Row > len(s.objects) {
		return fmt.Errorf("insert at %s: %w", at, ErrInvalidPosition)
	}
	a.perform(true, func(b batch) {
		s.insert(obj, at.Row)
		b.object(obj, nil, Insert, at.Ptr())
	})
	return nil
}

// Remove deletes the object at p.
func (a *Array[T]) Remove(at Position) error {
	a.enter()
	s, ok := a.Section(at.Section)
	if !ok || at.Row < 0 || at.Row >= len(s.objects) {
		return fmt.Errorf("remove at %s: %w", at, ErrInvalidPosition)
	}
	a.perform(true, func(b batch) {
		obj := s.remove(at.Row)
		b.object(obj, at.Ptr(), Delete, nil)
	})
	return nil
}

// Replace overwrites the object at p and reports Update, or Reload when
// reload is set. A missing section is created; a row past the end of the
// section degrades to Insert.
func (a *Array[T]) Replace(obj T, at Position, reload bool) error {
	a.enter()
	if at.Row < 0 || at.Section < 0 {
		return fmt.Errorf("replace at %s: %w", at, ErrInvalidPosition)
	}
	s, ok := a.Section(at.Section)
	if !ok {
		return a.insertSection([]T{obj}, at.Section, SectionOptions{})
	}
	if at.Row >= len(s.objects) {
		return a.Insert(obj, at)
	}
	kind := Update
	if reload {
		kind = Reload
	}
	a.perform(!a.legacyReplace, func(b batch) {
		s.replace(obj, at.Row)
		b.object(obj, at.Ptr(), kind, at.Ptr())
	})
	return nil
}

// ReplaceSection swaps the content and metadata of the section at index. An
// index equal to the section count appends a new section instead.
func (a *Array[T]) ReplaceSection(objects []T, index int, opts SectionOptions) error {
	a.enter()
	if index < 0 || index > len(a.sections) {
		return fmt.Errorf("replace section %d: %w", index, ErrInvalidPosition)
	}
	if index == len(a.sections) {
		return a.insertSection(objects, index, opts)
	}
	s := a.newSection(objects, opts)
	a.perform(true, func(b batch) {
		a.sections[index] = s
		b.section(s, index, Update)
	})
	return nil
}

// InsertSection adds a new section at index (0..NumberOfSections()).
func (a *Array[T]) InsertSection(objects []T, index int, opts SectionOptions) error {
	a.enter()
	return a.insertSection(objects, index, opts)
}

// AppendSection adds a new section after the last one.
func (a *Array[T]) AppendSection(objects []T, opts SectionOptions) error {
	a.enter()
	return a.insertSection(objects, len(a.sections), opts)
}

// AppendObjects adds objects to the end of the section at index, one Insert
// event each inside a single batch. A missing section is created with opts;
// opts is ignored for an existing section.
func (a *Array[T]) AppendObjects(objects []T, index int, opts SectionOptions) error {
	a.enter()
	s, ok := a.Section(index)
	if !ok {
		return a.insertSection(objects, index, opts)
	}
	a.perform(true, func(b batch) {
		for _, obj := range objects {
			row := len(s.objects)
			s.insert(obj, row)
			b.object(obj, nil, Insert, &Position{Section: index, Row: row})
		}
	})
	return nil
}

// RemoveAll drops every section, reporting one section Delete per removed
// section in original order.
func (a *Array[T]) RemoveAll() {
	a.enter()
	removed := a.sections
	a.perform(true, func(b batch) {
		a.sections = nil
		for i, s := range removed {
			b.section(s, i, Delete)
		}
	})
}

// RemoveSection drops the section at index.
func (a *Array[T]) RemoveSection(index int) error {
	a.enter()
	if index < 0 || index >= len(a.sections) {
		return fmt.Errorf("remove section %d: %w", index, ErrInvalidPosition)
	}
	a.perform(true, func(b batch) {
		s := a.sections[index]
		copy(a.sections[index:], a.sections[index+1:])
		a.sections[len(a.sections)-1] = nil
		a.sections = a.sections[:len(a.sections)-1]
		b.section(s, index, Delete)
	})
	return nil
}

func (a *Array[T]) insertSection(objects []T, index int, opts SectionOptions) error {
	if index < 0 || index > len(a.sections) {
		return fmt.Errorf("insert section %d: %w", index, ErrInvalidPosition)
	}
	s := a.newSection(objects, opts)
	a.perform(true, func(b batch) {
		a.sections = append(a.sections, nil)
		copy(a.sections[index+1:], a.sections[index:])
		a.sections[index] = s
		b.section(s, index, Insert)
	})
	return nil
}

// newSection builds a section, asking the delegate for an index title when
// none is given.
func (a *Array[T]) newSection(objects []T, opts SectionOptions) *Section[T] {
	if opts.IndexTitle == nil {
		if titler, ok := a.delegate.(SectionIndexTitler); ok {
			if title, ok := a.indexTitle(titler, opts.Name); ok {
				opts = opts.WithIndexTitle(title)
			}
		}
	}
	return NewSection(objects, opts)
}

func (a *Array[T]) indexTitle(titler SectionIndexTitler, name string) (string, bool) {
	a.notifying = true
	defer func() { a.notifying = false }()
	return titler.SectionIndexTitle(a, name)
}

// enter rejects mutations issued from inside a delegate callback.
func (a *Array[T]) enter() {
	if a.notifying {
		panic("container: mutation from inside a delegate callback")
	}
}

// perform applies one mutation and delivers its events. body mutates storage
// and reports each change through b right after applying it.
func (a *Array[T]) perform(bracketed bool, body func(b batch)) {
	a.mutations++
	b := batch{c: a, d: a.delegate}
	a.notifying = true
	defer func() { a.notifying = false }()
	if bracketed && b.d != nil {
		b.d.WillChangeContent(a)
	}
	body(b)
	if bracketed && b.d != nil {
		b.d.DidChangeContent(a)
	}
}

// batch forwards events to a possibly nil delegate.
type batch struct {
	c ContainerInfo
	d Delegate
}

func (b batch) object(obj any, from *Position, kind ChangeType, to *Position) {
	if b.d != nil {
		b.d.DidChangeObject(b.c, obj, from, kind, to)
	}
}

func (b batch) section(s SectionInfo, index int, kind ChangeType) {
	if b.d != nil {
		b.d.DidChangeSection(b.c, s, index, kind)
	}
}
