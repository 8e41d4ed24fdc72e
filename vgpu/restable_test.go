// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableGenerations(t *testing.T) {
	var destroyed []string
	tb := NewTable(func(s string) { destroyed = append(destroyed, s) })

	a := tb.Add("a")
	b := tb.Add("b")
	assert.Equal(t, 2, tb.Live())
	assert.False(t, a.IsNil())
	assert.True(t, Ref{}.IsNil())

	v, err := tb.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, tb.Release(a))
	assert.Equal(t, []string{"a"}, destroyed)
	_, err = tb.Get(a)
	assert.ErrorIs(t, err, ErrStaleRef)
	assert.ErrorIs(t, tb.Release(a), ErrStaleRef)

	c := tb.Add("c")
	assert.Equal(t, a.Index, c.Index, "slot reused")
	assert.NotEqual(t, a.Gen, c.Gen, "under a new generation")
	_, err = tb.Get(a)
	assert.ErrorIs(t, err, ErrStaleRef)
	v, err = tb.Get(c)
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	_, err = tb.Get(Ref{Index: 99, Gen: 1})
	assert.ErrorIs(t, err, ErrStaleRef)
	_, err = tb.Get(Ref{})
	assert.ErrorIs(t, err, ErrStaleRef)
}

func TestTableRefCounts(t *testing.T) {
	n := 0
	tb := NewTable(func(int) { n++ })
	r := tb.Add(7)
	require.NoError(t, tb.Retain(r))
	assert.Equal(t, 2, tb.Refs(r))

	require.NoError(t, tb.Release(r))
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, tb.Live())

	require.NoError(t, tb.Release(r))
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, tb.Live())
	assert.Equal(t, 0, tb.Refs(r))
	assert.ErrorIs(t, tb.Retain(r), ErrStaleRef)
}

func TestTableDestroyAll(t *testing.T) {
	n := 0
	tb := NewTable(func(int) { n++ })
	r := tb.Add(1)
	tb.Add(2)
	tb.Retain(r)
	tb.DestroyAll()
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, tb.Live())
	_, err := tb.Get(r)
	assert.ErrorIs(t, err, ErrStaleRef)
}
