package container

// Filtered presents the objects of a source container that satisfy a
// predicate. Sections keep their metadata even when the filter empties them,
// so section indices line up with the source.
//
// Filtered is a snapshot: it re-reads the source only on Filter and Refresh,
// and reports each re-read as a single ReloadAll inside one batch.
type Filtered[T any] struct {
	source   Container[T]
	match    func(T) bool
	sections []*Section[T]
	delegate Delegate
}

// NewFiltered creates an unfiltered view of source.
func NewFiltered[T any](source Container[T]) *Filtered[T] {
	f := &Filtered[T]{source: source}
	f.load()
	return f
}

// Filter installs match (nil shows everything) and reloads.
func (f *Filtered[T]) Filter(match func(T) bool) {
	f.match = match
	f.Refresh()
}

// Active reports whether a predicate is installed.
func (f *Filtered[T]) Active() bool {
	return f.match != nil
}

// Refresh re-reads the source under the current predicate.
func (f *Filtered[T]) Refresh() {
	f.load()
	if d := f.delegate; d != nil {
		d.WillChangeContent(f)
		d.DidChangeObject(f, nil, nil, ReloadAll, nil)
		d.DidChangeContent(f)
	}
}

func (f *Filtered[T]) load() {
	infos := f.source.Sections()
	if infos == nil {
		f.sections = nil
		return
	}
	sections := make([]*Section[T], len(infos))
	for i, info := range infos {
		var kept []T
		for _, o := range info.Objects() {
			obj, ok := o.(T)
			if !ok {
				continue
			}
			if f.match == nil || f.match(obj) {
				kept = append(kept, obj)
			}
		}
		opts := Named(info.Name())
		if title, ok := info.IndexTitle(); ok {
			opts = opts.WithIndexTitle(title)
		}
		sections[i] = NewSection(kept, opts)
	}
	f.sections = sections
}

func (f *Filtered[T]) Sections() []SectionInfo {
	if f.sections == nil {
		return nil
	}
	out := make([]SectionInfo, len(f.sections))
	for i, s := range f.sections {
		out[i] = s
	}
	return out
}

func (f *Filtered[T]) FetchedObjects() []T {
	if f.sections == nil {
		return nil
	}
	out := []T{}
	for _, s := range f.sections {
		out = append(out, s.objects...)
	}
	return out
}

func (f *Filtered[T]) Object(at Position) (T, bool) {
	if at.Section < 0 || at.Section >= len(f.sections) {
		var zero T
		return zero, false
	}
	return f.sections[at.Section].at(at.Row)
}

func (f *Filtered[T]) NumberOfSections() int {
	return len(f.sections)
}

func (f *Filtered[T]) NumberOfItems(section int) int {
	if section < 0 || section >= len(f.sections) {
		return 0
	}
	return len(f.sections[section].objects)
}

func (f *Filtered[T]) Search(match func(Position, T) bool) (Position, bool) {
	for si, s := range f.sections {
		for ri, obj := range s.objects {
			p := Position{Section: si, Row: ri}
			if match(p, obj) {
				return p, true
			}
		}
	}
	return Position{}, false
}

func (f *Filtered[T]) Enumerate(visit func(Position, T)) {
	for si, s := range f.sections {
		for ri, obj := range s.objects {
			visit(Position{Section: si, Row: ri}, obj)
		}
	}
}

func (f *Filtered[T]) Delegate() Delegate {
	return f.delegate
}

func (f *Filtered[T]) SetDelegate(d Delegate) {
	f.delegate = d
}
