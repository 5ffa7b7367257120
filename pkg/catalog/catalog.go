// Package catalog keeps the named containers of a session.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned for unknown names.
var ErrNotFound = errors.New("not found")

// Catalog manages a collection of named entries. It is safe for concurrent
// use; the entries themselves are not.
type Catalog[V any] struct {
	entries map[string]V
	current string
	mu      sync.RWMutex
}

// New creates a new empty catalog
func New[V any]() *Catalog[V] {
	return &Catalog[V]{
		entries: make(map[string]V),
	}
}

// Register adds or replaces an entry. The first entry becomes current.
func (c *Catalog[V]) Register(name string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = v
	if c.current == "" {
		c.current = name
	}
}

// Get retrieves an entry by name
func (c *Catalog[V]) Get(name string) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[name]
	if !ok {
		return v, fmt.Errorf("container '%s': %w", name, ErrNotFound)
	}
	return v, nil
}

// Remove drops an entry; removing the current one leaves no current entry.
func (c *Catalog[V]) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; !ok {
		return fmt.Errorf("container '%s': %w", name, ErrNotFound)
	}
	delete(c.entries, name)
	if c.current == name {
		c.current = ""
	}
	return nil
}

// Use makes name the current entry.
func (c *Catalog[V]) Use(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; !ok {
		return fmt.Errorf("container '%s': %w", name, ErrNotFound)
	}
	c.current = name
	return nil
}

// Current returns the current entry and its name.
func (c *Catalog[V]) Current() (string, V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[c.current]
	return c.current, v, ok
}

// Names lists entry names in sorted order.
func (c *Catalog[V]) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
