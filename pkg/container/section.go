package container

// SectionInfo describes one section of a container.
type SectionInfo interface {
	// Name is the grouping label, also used as the default header title.
	Name() string
	// IndexTitle returns the short jump-index label, if any.
	IndexTitle() (string, bool)
	NumberOfObjects() int
	// Objects returns a copy of the section members in display order.
	Objects() []any
}

// SectionOptions carries the metadata of a section created or replaced by a
// mutation. A nil IndexTitle means "no index title".
type SectionOptions struct {
	Name       string
	IndexTitle *string
}

// Named is shorthand for SectionOptions{Name: name}.
func Named(name string) SectionOptions {
	return SectionOptions{Name: name}
}

// WithIndexTitle returns a copy of o carrying title.
func (o SectionOptions) WithIndexTitle(title string) SectionOptions {
	o.IndexTitle = &title
	return o
}

// Section is the array-backed SectionInfo. Sections are owned by the
// container that created them; the exported accessors never hand out the
// backing slice.
type Section[T any] struct {
	name       string
	indexTitle *string
	objects    []T
}

// NewSection builds a detached section holding a copy of objects.
func NewSection[T any](objects []T, opts SectionOptions) *Section[T] {
	s := &Section[T]{
		name:    opts.Name,
		objects: make([]T, len(objects)),
	}
	copy(s.objects, objects)
	if opts.IndexTitle != nil {
		title := *opts.IndexTitle
		s.indexTitle = &title
	}
	return s
}

func (s *Section[T]) Name() string {
	return s.name
}

func (s *Section[T]) IndexTitle() (string, bool) {
	if s.indexTitle == nil {
		return "", false
	}
	return *s.indexTitle, true
}

func (s *Section[T]) NumberOfObjects() int {
	return len(s.objects)
}

func (s *Section[T]) Objects() []any {
	out := make([]any, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

// Items returns a typed copy of the section members.
func (s *Section[T]) Items() []T {
	out := make([]T, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Section[T]) at(row int) (T, bool) {
	if row < 0 || row >= len(s.objects) {
		var zero T
		return zero, false
	}
	return s.objects[row], true
}

func (s *Section[T]) insert(obj T, row int) {
	s.objects = append(s.objects, obj)
	copy(s.objects[row+1:], s.objects[row:])
	s.objects[row] = obj
}

func (s *Section[T]) remove(row int) T {
	obj := s.objects[row]
	copy(s.objects[row:], s.objects[row+1:])
	var zero T
	s.objects[len(s.objects)-1] = zero
	s.objects = s.objects[:len(s.objects)-1]
	return obj
}

func (s *Section[T]) replace(obj T, row int) {
	s.objects[row] = obj
}
