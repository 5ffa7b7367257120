package container

// Delegate receives the change notifications of one container. Every object
// and section event is delivered after storage already reflects it, and
// always between WillChangeContent and DidChangeContent.
type Delegate interface {
	WillChangeContent(c ContainerInfo)
	// DidChangeObject reports an object-level change. from is nil for
	// inserts, to is nil for deletes; obj is nil for ReloadAll.
	DidChangeObject(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position)
	DidChangeSection(c ContainerInfo, section SectionInfo, index int, kind ChangeType)
	DidChangeContent(c ContainerInfo)
}

// SectionIndexTitler is an optional Delegate extension mapping a section name
// to its jump-index title. Containers consult it when a section is created
// without an explicit index title.
type SectionIndexTitler interface {
	SectionIndexTitle(c ContainerInfo, sectionName string) (string, bool)
}

// DelegateFuncs adapts plain functions to Delegate; nil fields are skipped.
type DelegateFuncs struct {
	WillChange     func(c ContainerInfo)
	ObjectChanged  func(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position)
	SectionChanged func(c ContainerInfo, section SectionInfo, index int, kind ChangeType)
	DidChange      func(c ContainerInfo)
}

func (f DelegateFuncs) WillChangeContent(c ContainerInfo) {
	if f.WillChange != nil {
		f.WillChange(c)
	}
}

func (f DelegateFuncs) DidChangeObject(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position) {
	if f.ObjectChanged != nil {
		f.ObjectChanged(c, obj, from, kind, to)
	}
}

func (f DelegateFuncs) DidChangeSection(c ContainerInfo, section SectionInfo, index int, kind ChangeType) {
	if f.SectionChanged != nil {
		f.SectionChanged(c, section, index, kind)
	}
}

func (f DelegateFuncs) DidChangeContent(c ContainerInfo) {
	if f.DidChange != nil {
		f.DidChange(c)
	}
}

// EventKind tells which Delegate callback produced an Event.
type EventKind int

const (
	WillChange EventKind = iota
	ObjectChanged
	SectionChanged
	DidChange
)

func (k EventKind) String() string {
	switch k {
	case WillChange:
		return "willChange"
	case ObjectChanged:
		return "object"
	case SectionChanged:
		return "section"
	case DidChange:
		return "didChange"
	default:
		return "unknown"
	}
}

// Event is one recorded Delegate callback.
type Event struct {
	Kind         EventKind
	Change       ChangeType
	Object       any
	From, To     *Position
	Section      SectionInfo
	SectionIndex int
}

// Recorder is a Delegate that keeps every callback in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) WillChangeContent(c ContainerInfo) {
	r.Events = append(r.Events, Event{Kind: WillChange})
}

func (r *Recorder) DidChangeObject(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position) {
	r.Events = append(r.Events, Event{Kind: ObjectChanged, Change: kind, Object: obj, From: from, To: to})
}

func (r *Recorder) DidChangeSection(c ContainerInfo, section SectionInfo, index int, kind ChangeType) {
	r.Events = append(r.Events, Event{Kind: SectionChanged, Change: kind, Section: section, SectionIndex: index})
}

func (r *Recorder) DidChangeContent(c ContainerInfo) {
	r.Events = append(r.Events, Event{Kind: DidChange})
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// Kinds returns the callback sequence, handy for asserting bracketing.
func (r *Recorder) Kinds() []EventKind {
	out := make([]EventKind, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}

// Changes returns only the object and section events.
func (r *Recorder) Changes() []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == ObjectChanged || e.Kind == SectionChanged {
			out = append(out, e)
		}
	}
	return out
}

// Multicast fans every callback out to several delegates in order. The first
// member implementing SectionIndexTitler answers index title queries.
type Multicast []Delegate

func (m Multicast) WillChangeContent(c ContainerInfo) {
	for _, d := range m {
		d.WillChangeContent(c)
	}
}

func (m Multicast) DidChangeObject(c ContainerInfo, obj any, from *Position, kind ChangeType, to *Position) {
	for _, d := range m {
		d.DidChangeObject(c, obj, from, kind, to)
	}
}

func (m Multicast) DidChangeSection(c ContainerInfo, section SectionInfo, index int, kind ChangeType) {
	for _, d := range m {
		d.DidChangeSection(c, section, index, kind)
	}
}

func (m Multicast) DidChangeContent(c ContainerInfo) {
	for _, d := range m {
		d.DidChangeContent(c)
	}
}

func (m Multicast) SectionIndexTitle(c ContainerInfo, sectionName string) (string, bool) {
	for _, d := range m {
		if t, ok := d.(SectionIndexTitler); ok {
			return t.SectionIndexTitle(c, sectionName)
		}
	}
	return "", false
}
