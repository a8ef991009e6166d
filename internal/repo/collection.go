package repo

import (
	"sort"
	"sync"
)

// Collection is an in-memory map of entities keyed by id.
//
// Reads return copies and writes store copies, so a caller can only change
// stored state through Put or Delete.
type Collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	idOf  func(T) string
	clone func(T) T
}

func newCollection[T any](idOf func(T) string, clone func(T) T) *Collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Collection[T]{
		items: map[string]T{},
		idOf:  idOf,
		clone: clone,
	}
}

// Get returns the entity with id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(v), true
}

// Has reports whether id exists.
func (c *Collection[T]) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// Put inserts or replaces v under its id.
func (c *Collection[T]) Put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[c.idOf(v)] = c.clone(v)
}

// Delete removes id and reports whether it existed.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

// All returns every entity ordered by id.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.clone(c.items[k]))
	}
	return out
}

// Filter returns the entities matching keep, ordered by id.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, v := range c.All() {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) snapshot() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]T, len(c.items))
	for k, v := range c.items {
		out[k] = c.clone(v)
	}
	return out
}

func (c *Collection[T]) replace(items map[string]T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]T, len(items))
	for _, v := range items {
		c.items[c.idOf(v)] = c.clone(v)
	}
}
