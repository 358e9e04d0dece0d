// Package cell provides the value-cell primitive: a mutable slot holding a
// single value behind a stable reference.
//
// Render pipelines diff buffers by cell version instead of comparing payloads,
// so updating a cell in place avoids the allocation churn of rebuilding whole
// render objects. Cells follow a single-writer discipline and are not safe for
// concurrent mutation; the state engine serializes all writers.
package cell

import "slices"

// Cell holds a single value of type T and a version counter that is bumped on
// every observable change. Downstream consumers compare versions to decide
// whether derived resources (GPU buffers, textures) must be refreshed.
type Cell[T any] struct {
	value   T
	version uint64
}

// New creates a fresh cell holding v. The initial version is 1 so that a
// zero-valued consumer mark (0) always reads as stale.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, version: 1}
}

// Value returns the currently held value.
func (c *Cell[T]) Value() T {
	return c.value
}

// Version returns the current version counter.
func (c *Cell[T]) Version() uint64 {
	return c.version
}

// Set replaces the held value unconditionally and marks the cell changed.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.version++
}

// SetIfChanged replaces the held value only when eq reports the new value as
// different, avoiding spurious downstream invalidation. It returns whether the
// cell changed. A nil eq panics: callers must state how equality is decided.
func (c *Cell[T]) SetIfChanged(v T, eq func(a, b T) bool) bool {
	if eq == nil {
		panic("cell: SetIfChanged requires an equality function")
	}
	if eq(c.value, v) {
		return false
	}
	c.Set(v)
	return true
}

// Equal is the equality function for comparable value types.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// SlicesEqual is the equality function for slices of comparable elements.
// It is the intended eq argument for render-buffer cells ([]float32, []uint32).
func SlicesEqual[T comparable](a, b []T) bool {
	return slices.Equal(a, b)
}
