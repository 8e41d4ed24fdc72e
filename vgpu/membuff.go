// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"errors"
	"unsafe"

	"goki.dev/vsprite/vapi"
)

// HostMemory is the memory property mask for all buffers and linear images:
// mapped and written directly by the CPU.
const HostMemory = vapi.MemoryHostVisible | vapi.MemoryHostCoherent

// Buffer is a vertex or uniform buffer in host-visible, host-coherent
// memory. The element count and size are fixed at creation; the contents
// are updated in place.
type Buffer struct {
	Dev      *Device           `desc:"device the buffer lives on"`
	Usage    Usage             `desc:"usage class"`
	Buffer   vapi.Buffer       `desc:"buffer handle"`
	Memory   vapi.DeviceMemory `desc:"memory bound to the buffer"`
	N        int               `desc:"number of elements"`
	ElemSize int               `desc:"size of one element in bytes"`
}

// Size returns the size of the buffer contents in bytes
func (bf *Buffer) Size() int {
	return bf.N * bf.ElemSize
}

// NewBuffer makes a buffer holding data, adds it to the device buffer
// table and returns its reference, which carries one reference count.
func NewBuffer[T any](dv *Device, data []T, usage Usage) (Ref, error) {
	bf, err := MakeBuffer(dv, data, usage)
	if err != nil {
		return Ref{}, err
	}
	return dv.Buffers.Add(bf), nil
}

// MakeBuffer makes a buffer holding data, not managed by a table.
func MakeBuffer[T any](dv *Device, data []T, usage Usage) (*Buffer, error) {
	var zero T
	bf := &Buffer{Dev: dv, Usage: usage, N: len(data), ElemSize: int(unsafe.Sizeof(zero))}
	if bf.Size() == 0 {
		return nil, &ResourceError{Op: "buffer", Err: errors.New("empty buffer")}
	}
	if err := bf.alloc(); err != nil {
		bf.Destroy()
		return nil, err
	}
	if err := bf.write(bytesOf(data)); err != nil {
		bf.Destroy()
		return nil, err
	}
	return bf, nil
}

func (bf *Buffer) alloc() error {
	dv := bf.Dev
	api := dv.API
	buf, res := api.CreateBuffer(dv.Device, &vapi.BufferInfo{Size: uint64(bf.Size()), Usage: bf.Usage.BufferUsage()})
	if err := resErr("buffer", res); err != nil {
		return err
	}
	bf.Buffer = buf
	mem, err := dv.AllocMemory(api.BufferMemoryRequirements(dv.Device, buf), HostMemory)
	if err != nil {
		return err
	}
	bf.Memory = mem
	return resErr("bind buffer memory", api.BindBufferMemory(dv.Device, buf, mem))
}

// write maps the memory, copies b and unmaps
func (bf *Buffer) write(b []byte) error {
	dv := bf.Dev
	ptr, res := dv.API.MapMemory(dv.Device, bf.Memory, 0, uint64(len(b)))
	if err := resErr("map buffer", res); err != nil {
		return err
	}
	copy(ptr, b)
	dv.API.UnmapMemory(dv.Device, bf.Memory)
	return nil
}

// UpdateBuffer writes data into the buffer in place. The data must have
// the same element count and element size as the buffer, otherwise
// ErrBufferLength is returned and nothing is written.
func UpdateBuffer[T any](bf *Buffer, data []T) error {
	var zero T
	if len(data) != bf.N || int(unsafe.Sizeof(zero)) != bf.ElemSize {
		return ErrBufferLength
	}
	return bf.write(bytesOf(data))
}

// Destroy destroys the buffer and frees its memory
func (bf *Buffer) Destroy() {
	dv := bf.Dev
	if bf.Buffer != 0 {
		dv.API.DestroyBuffer(dv.Device, bf.Buffer)
		bf.Buffer = 0
	}
	if bf.Memory != 0 {
		dv.API.FreeMemory(dv.Device, bf.Memory)
		bf.Memory = 0
	}
}

// Buffer returns the buffer for rf from the device buffer table
func (dv *Device) Buffer(rf Ref) (*Buffer, error) {
	return dv.Buffers.Get(rf)
}

/////////////////////////////////////////////////////////////////////
// Memory

// FindMemoryType returns the first memory type index allowed by typeBits
// whose flags include all of props.
func (dv *Device) FindMemoryType(typeBits uint32, props vapi.MemoryProperty) (uint32, error) {
	for i, mt := range dv.MemTypes {
		if i >= 32 {
			break
		}
		if typeBits&(1<<uint(i)) != 0 && mt.Flags&props == props {
			return uint32(i), nil
		}
	}
	return 0, &ResourceError{Op: "memory type", Err: ErrNoMemoryType}
}

// AllocMemory allocates memory for the given requirements and properties
func (dv *Device) AllocMemory(req vapi.MemoryRequirements, props vapi.MemoryProperty) (vapi.DeviceMemory, error) {
	idx, err := dv.FindMemoryType(req.TypeBits, props)
	if err != nil {
		return 0, err
	}
	mem, res := dv.API.AllocateMemory(dv.Device, req.Size, idx)
	if err := resErr("allocate memory", res); err != nil {
		return 0, err
	}
	return mem, nil
}

// bytesOf returns the bytes of data without copying
func bytesOf[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*int(unsafe.Sizeof(zero)))
}
