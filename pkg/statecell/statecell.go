// Package statecell provides a mutex-guarded cell holding the latest value of
// a state snapshot, written by a single producer and read by any number of
// consumers.
package statecell

import "sync"

// Cell holds the most recently published value of T. Values are stored and
// returned by value, so a Snapshot never observes a partially written update.
// The lock is held only for the duration of the copy.
type Cell[T any] struct {
	mu    sync.RWMutex
	value T
}

// New returns a cell seeded with an initial value, so Snapshot is defined
// before the first Publish.
func New[T any](seed T) *Cell[T] {
	return &Cell[T]{value: seed}
}

// Publish replaces the stored value wholesale.
func (c *Cell[T]) Publish(v T) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// Snapshot returns a copy of the most recently published value.
func (c *Cell[T]) Snapshot() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}
