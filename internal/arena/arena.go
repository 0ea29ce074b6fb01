// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package arena implements a growable, slice-backed store addressed
// by integer handles.
//
// It replaces the pointer graphs typically used for mesh topology
// (faces pointing at edges, edges pointing at faces) with a single
// contiguous allocation per element type. Ownership and lifetime
// questions collapse to "is this handle still referenced anywhere",
// which the Go garbage collector already answers; there is no
// refcounting and no way to double free a handle.
package arena

// Handle identifies an element in an Arena.
// Handles are assigned from 0 in append order, so the zero value names
// the first element; use None to test for absence.
type Handle int32

// None is the handle value that denotes "no element".
const None Handle = -1

// Arena is a growable store of T, addressed by Handle.
type Arena[T any] struct {
	items []T
}

// New returns an empty Arena with the given initial capacity.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of elements currently in a (elements removed
// by PopLast are not counted).
func (a *Arena[T]) Len() int { return len(a.items) }

// Append adds v to the arena and returns its handle.
func (a *Arena[T]) Append(v T) Handle {
	h := Handle(len(a.items))
	a.items = append(a.items, v)
	return h
}

// Get returns a pointer to the element identified by h.
// It panics if h is out of range, matching slice-indexing semantics.
func (a *Arena[T]) Get(h Handle) *T { return &a.items[h] }

// PopLast removes the most recently appended element.
// It is only valid to call this immediately after the matching
// Append, before any other handle could have been taken from it;
// callers that violate this invalidate the last handle they hold.
func (a *Arena[T]) PopLast() {
	a.items = a.items[:len(a.items)-1]
}
