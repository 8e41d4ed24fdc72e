// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "fmt"

// Ref is a reference into a Table: the slot index plus the generation
// of the slot at the time the entry was added. A Ref whose generation
// no longer matches its slot is stale. The zero Ref is nil.
type Ref struct {
	Index uint32
	Gen   uint32
}

// IsNil returns true for the zero Ref
func (rf Ref) IsNil() bool {
	return rf.Gen == 0
}

func (rf Ref) String() string {
	return fmt.Sprintf("%d:%d", rf.Index, rf.Gen)
}

type slot[T any] struct {
	val  T
	gen  uint32
	refs int32
}

// Table is an arena of reference counted resources.
// Entries are added with one reference; the destroy function is
// called when the last reference is released, and the slot is reused
// under a new generation.
type Table[T any] struct {
	slots   []slot[T]
	free    []uint32
	live    int
	destroy func(T)
}

// NewTable returns a new table calling destroy on released entries
func NewTable[T any](destroy func(T)) *Table[T] {
	return &Table[T]{destroy: destroy}
}

// Add adds v with a reference count of 1.
func (tb *Table[T]) Add(v T) Ref {
	var idx uint32
	if n := len(tb.free); n > 0 {
		idx = tb.free[n-1]
		tb.free = tb.free[:n-1]
	} else {
		idx = uint32(len(tb.slots))
		tb.slots = append(tb.slots, slot[T]{gen: 1})
	}
	sl := &tb.slots[idx]
	sl.val = v
	sl.refs = 1
	tb.live++
	return Ref{Index: idx, Gen: sl.gen}
}

func (tb *Table[T]) lookup(rf Ref) (*slot[T], error) {
	if rf.IsNil() || int(rf.Index) >= len(tb.slots) {
		return nil, ErrStaleRef
	}
	sl := &tb.slots[rf.Index]
	if sl.gen != rf.Gen || sl.refs <= 0 {
		return nil, ErrStaleRef
	}
	return sl, nil
}

// Get returns the entry for rf, or ErrStaleRef.
func (tb *Table[T]) Get(rf Ref) (T, error) {
	sl, err := tb.lookup(rf)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.val, nil
}

// Retain adds a reference to the entry.
func (tb *Table[T]) Retain(rf Ref) error {
	sl, err := tb.lookup(rf)
	if err != nil {
		return err
	}
	sl.refs++
	return nil
}

// Release drops a reference, destroying the entry on the last one.
func (tb *Table[T]) Release(rf Ref) error {
	sl, err := tb.lookup(rf)
	if err != nil {
		return err
	}
	sl.refs--
	if sl.refs > 0 {
		return nil
	}
	tb.remove(rf.Index)
	return nil
}

func (tb *Table[T]) remove(idx uint32) {
	sl := &tb.slots[idx]
	v := sl.val
	var zero T
	sl.val = zero
	sl.refs = 0
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	tb.free = append(tb.free, idx)
	tb.live--
	if tb.destroy != nil {
		tb.destroy(v)
	}
}

// Refs returns the reference count of the entry, 0 if stale.
func (tb *Table[T]) Refs(rf Ref) int {
	sl, err := tb.lookup(rf)
	if err != nil {
		return 0
	}
	return int(sl.refs)
}

// Live returns the number of live entries.
func (tb *Table[T]) Live() int {
	return tb.live
}

// DestroyAll destroys every live entry regardless of its references.
func (tb *Table[T]) DestroyAll() {
	for i := range tb.slots {
		if tb.slots[i].refs > 0 {
			tb.remove(uint32(i))
		}
	}
}
