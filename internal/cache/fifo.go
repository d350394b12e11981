// Package cache provides a small bounded key/value store with
// oldest-inserted-first eviction.
package cache

import "sync"

// DefaultCapacity is the capacity used for path resolution.
const DefaultCapacity = 128

// FIFO is a bounded map that evicts the oldest inserted key when full.
// Reading a key does not refresh its position. Safe for concurrent use.
type FIFO[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]V
	order    []K // insertion order, oldest first
}

// New returns a FIFO holding at most capacity entries. A capacity below 1
// is treated as 1.
func New[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &FIFO[K, V]{
		capacity: capacity,
		items:    make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
	}
}

// Get returns the cached value for k.
func (c *FIFO[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[k]
	return v, ok
}

// Put stores v under k. Overwriting an existing key keeps its original
// insertion position.
func (c *FIFO[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[k]; ok {
		c.items[k] = v
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[k] = v
	c.order = append(c.order, k)
}

// Len returns the number of cached entries.
func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear drops every entry.
func (c *FIFO[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V, c.capacity)
	c.order = c.order[:0]
}
