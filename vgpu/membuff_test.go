// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vapi/vstub"
)

func TestFindMemoryType(t *testing.T) {
	dv := &Device{MemTypes: []vapi.MemoryType{
		{Flags: vapi.MemoryDeviceLocal},
		{Flags: vapi.MemoryHostVisible},
		{Flags: vapi.MemoryHostVisible | vapi.MemoryHostCoherent | vapi.MemoryHostCached},
		{Flags: vapi.MemoryHostVisible | vapi.MemoryHostCoherent},
	}}
	idx, err := dv.FindMemoryType(0xf, HostMemory)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), idx, "first type with all flags")

	idx, err = dv.FindMemoryType(0x8|0x1, HostMemory)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), idx, "type bits exclude 2")

	idx, err = dv.FindMemoryType(0xf, vapi.MemoryDeviceLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), idx)

	_, err = dv.FindMemoryType(0x1, HostMemory)
	var re *ResourceError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, ErrNoMemoryType)
	assert.Contains(t, err.Error(), "couldn't find suitable memory type")
}

func TestBufferUpload(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	ref, err := NewBuffer(dv, data, VertexUsage)
	require.NoError(t, err)
	bf, err := dv.Buffer(ref)
	require.NoError(t, err)
	assert.Equal(t, 8, bf.N)
	assert.Equal(t, 4, bf.ElemSize)
	assert.Equal(t, 32, bf.Size())

	mem := d.Memory(bf.Memory)
	assert.Equal(t, bytesOf(data), mem[:32])
	info := d.Info(uint64(bf.Buffer)).(*vapi.BufferInfo)
	assert.Equal(t, vapi.BufferUsageVertexBuffer|vapi.BufferUsageIndexBuffer, info.Usage)
	assert.Equal(t, bf.Memory, d.BoundMemory(uint64(bf.Buffer)))

	require.NoError(t, UpdateBuffer(bf, []float32{8, 7, 6, 5, 4, 3, 2, 1}))
	assert.Equal(t, float32(8), *(*float32)(unsafe.Pointer(&d.Memory(bf.Memory)[0])))
	assert.Empty(t, d.Errors())
}

func TestBufferUpdateLength(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	data := []float32{1, 2, 3, 4}
	ref, err := NewBuffer(dv, data, UniformUsage)
	require.NoError(t, err)
	bf, _ := dv.Buffer(ref)
	before := append([]byte(nil), d.Memory(bf.Memory)...)
	calls := d.Calls()

	assert.ErrorIs(t, UpdateBuffer(bf, []float32{1, 2, 3}), ErrBufferLength)
	assert.ErrorIs(t, UpdateBuffer(bf, []float32{1, 2, 3, 4, 5}), ErrBufferLength)
	assert.ErrorIs(t, UpdateBuffer(bf, []float64{1, 2, 3, 4}), ErrBufferLength, "element size")
	assert.Equal(t, before, d.Memory(bf.Memory), "nothing written")
	assert.Equal(t, calls, d.Calls(), "no driver calls")

	info := d.Info(uint64(bf.Buffer)).(*vapi.BufferInfo)
	assert.Equal(t, vapi.BufferUsageUniformBuffer, info.Usage)
}

func TestBufferRelease(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	base := d.Live()
	ref, err := NewBuffer(dv, []uint32{1, 2, 3}, VertexUsage)
	require.NoError(t, err)
	assert.Equal(t, base+2, d.Live(), "buffer and memory")
	require.NoError(t, dv.Buffers.Release(ref))
	assert.Equal(t, base, d.Live())
	_, err = dv.Buffer(ref)
	assert.ErrorIs(t, err, ErrStaleRef)

	_, err = NewBuffer(dv, []uint32{}, VertexUsage)
	var re *ResourceError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, base, d.Live())
}

func TestBufferNoMemoryType(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{TypeBits: 0x1})
	base := d.Live()
	_, err := NewBuffer(dv, []float32{1}, VertexUsage)
	assert.ErrorIs(t, err, ErrNoMemoryType)
	assert.Equal(t, base, d.Live(), "buffer destroyed on failure")
}
