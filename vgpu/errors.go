// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"errors"
	"fmt"

	"goki.dev/vsprite/vapi"
)

var (
	// ErrNoMemoryType is the cause of a ResourceError when no memory type
	// satisfies both the resource and the requested properties.
	ErrNoMemoryType = errors.New("couldn't find suitable memory type")

	// ErrBufferLength is returned when a buffer update does not match the
	// element count and size the buffer was created with.
	ErrBufferLength = errors.New("vgpu: buffer update length differs from allocation")

	// ErrPixelLength is returned when texture pixels are not width*height*4 bytes.
	ErrPixelLength = errors.New("vgpu: texture pixel data length differs from width*height*4")

	// ErrStaleRef is returned for a reference to a released table entry.
	ErrStaleRef = errors.New("vgpu: stale or invalid resource reference")

	// ErrUnsupportedSurface is the cause of an InitError for surface kinds
	// that cannot be created on this platform.
	ErrUnsupportedSurface = errors.New("vgpu: unsupported surface kind")

	// ErrNoPresentQueue is the cause of an InitError when no queue family
	// supports both graphics and presentation to the surface.
	ErrNoPresentQueue = errors.New("vgpu: no queue family supports graphics and presentation")
)

// InitError is a failure to bring up the driver, device or swapchain.
// There is no degraded mode: callers should treat it as fatal.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return "vgpu: init " + e.Op + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// ResourceError is a failure to allocate or create a GPU resource.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return "vgpu: resource " + e.Op + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }

// MismatchedVertexCount is returned when the buffers of a shape do not
// agree on their number of vertices.
type MismatchedVertexCount struct {
	Counts []int
}

func (e *MismatchedVertexCount) Error() string {
	return fmt.Sprintf("vgpu: mismatched vertex count: %v", e.Counts)
}

// TransientPresentError is an out-of-date swapchain reported by image
// acquisition. The frame renderer recovers from it by retrying.
type TransientPresentError struct {
	Result vapi.Result
}

func (e *TransientPresentError) Error() string {
	return "vgpu: transient present error: " + e.Result.String()
}

func (e *TransientPresentError) Unwrap() error { return e.Result }

// initErr wraps a failing result as an InitError
func initErr(op string, res vapi.Result) error {
	if err := Check(res); err != nil {
		return &InitError{Op: op, Err: err}
	}
	return nil
}

// resErr wraps a failing result as a ResourceError
func resErr(op string, res vapi.Result) error {
	if err := Check(res); err != nil {
		return &ResourceError{Op: op, Err: err}
	}
	return nil
}

// CheckVertexCounts returns a MismatchedVertexCount error if the counts
// are not all equal.
func CheckVertexCounts(counts ...int) error {
	if len(counts) < 2 {
		return nil
	}
	for _, c := range counts[1:] {
		if c != counts[0] {
			return &MismatchedVertexCount{Counts: counts}
		}
	}
	return nil
}
