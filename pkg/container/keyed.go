package container

// Keyed is an Array with an identity index. It embeds the array, so every
// read and mutation operation is available, and adds IndexPath.
type Keyed[K comparable, T any] struct {
	*Array[T]

	key   func(T) K
	index map[K]Position
	built uint64
	valid bool
}

// NewKeyed wraps a (possibly populated) array. key must be stable for the
// lifetime of an object inside the container.
func NewKeyed[K comparable, T any](a *Array[T], key func(T) K) *Keyed[K, T] {
	return &Keyed[K, T]{Array: a, key: key}
}

// IndexPath resolves obj by key. When several objects share a key the first
// in section-then-row order wins.
func (k *Keyed[K, T]) IndexPath(of T) (Position, bool) {
	k.rebuild()
	p, ok := k.index[k.key(of)]
	return p, ok
}

// IndexPathForKey resolves a raw key.
func (k *Keyed[K, T]) IndexPathForKey(key K) (Position, bool) {
	k.rebuild()
	p, ok := k.index[key]
	return p, ok
}

func (k *Keyed[K, T]) rebuild() {
	if k.valid && k.built == k.Array.mutations {
		return
	}
	k.index = make(map[K]Position, len(k.Array.sections))
	k.Array.Enumerate(func(p Position, obj T) {
		key := k.key(obj)
		if _, seen := k.index[key]; !seen {
			k.index[key] = p
		}
	})
	k.built = k.Array.mutations
	k.valid = true
}
