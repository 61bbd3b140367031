package reactive

import (
	"github.com/vango-dev/livetree/internal/errors"
)

// Cache is a memoized computation. It recomputes on Value only when a
// tag consumed by its previous run was dirtied after that run finished.
type Cache[T any] struct {
	fn        func() T
	value     T
	snapshot  *Snapshot
	computing bool
}

// NewCache creates a cache for fn. Nothing is computed until Value.
func NewCache[T any](fn func() T) *Cache[T] {
	return &Cache[T]{fn: fn}
}

// Value returns the cached value, recomputing if necessary. The tags the
// value depends on are consumed by the active frame either way.
func (c *Cache[T]) Value() T {
	if c.computing {
		panic(errors.New(errors.CodeCircularDerived).WithDetail("value read during its own computation"))
	}

	if c.snapshot.Valid() {
		c.snapshot.Consume()
		return c.value
	}

	c.computing = true
	defer func() { c.computing = false }()

	var v T
	snap := Track(func() { v = c.fn() })
	c.value = v
	c.snapshot = snap
	return v
}

// Computed reports whether the cache has run at least once.
func (c *Cache[T]) Computed() bool {
	return c.snapshot != nil
}

// Constant reports whether the last computation consumed no tags.
func (c *Cache[T]) Constant() bool {
	return c.snapshot.Constant()
}

// Snapshot returns the snapshot of the last computation, or nil.
func (c *Cache[T]) Snapshot() *Snapshot {
	return c.snapshot
}
