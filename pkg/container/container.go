package container

import "errors"

// ErrInvalidPosition is returned by every mutation whose position or section
// index does not address a valid target for that operation.
var ErrInvalidPosition = errors.New("invalid position for this operation")

// ContainerInfo is the type-erased read view handed to delegates.
type ContainerInfo interface {
	// Sections returns the current sections, or nil when nothing is loaded.
	Sections() []SectionInfo
	NumberOfSections() int
	// NumberOfItems returns 0 for a section that does not exist, so views
	// can ask with stale indices while an update is in flight.
	NumberOfItems(section int) int
}

// Container is a sectioned, ordered collection of T with lookup and change
// notification.
type Container[T any] interface {
	ContainerInfo

	// FetchedObjects flattens all sections in section-then-row order.
	FetchedObjects() []T
	// Object returns the object at p; ok is false when p is out of range.
	Object(at Position) (obj T, ok bool)
	// Search returns the first position, in section-then-row order, whose
	// object satisfies match. The scan stops at the first hit.
	Search(match func(Position, T) bool) (Position, bool)
	// Enumerate visits every object in section-then-row order. visit must
	// not mutate the container.
	Enumerate(visit func(Position, T))

	Delegate() Delegate
	// SetDelegate replaces the observer. The current content is not replayed.
	SetDelegate(d Delegate)
}

// IdentityIndexer is implemented by containers that can resolve an object to
// its position through an identity index. Plain arrays do not implement it;
// use Search there.
type IdentityIndexer[T any] interface {
	IndexPath(of T) (Position, bool)
}

// Identifiable objects carry a comparable identity.
type Identifiable[K comparable] interface {
	ID() K
}

// IndexPathForID finds the first object whose ID equals id.
func IndexPathForID[T Identifiable[K], K comparable](c Container[T], id K) (Position, bool) {
	return c.Search(func(_ Position, obj T) bool {
		return obj.ID() == id
	})
}

var (
	_ Container[int]       = (*Array[int])(nil)
	_ Container[int]       = (*Filtered[int])(nil)
	_ Container[int]       = (*Keyed[int, int])(nil)
	_ IdentityIndexer[int] = (*Keyed[int, int])(nil)
)
