// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vstub

import "goki.dev/vsprite/vapi"

// Surface is a window-less surface provider for tests.
// It works with any vapi.API backend that accepts SurfaceStub windows.
type Surface struct {

	// window width in pixels
	W int

	// window height in pixels
	H int
}

// Kind returns vapi.SurfaceStub.
func (sf *Surface) Kind() vapi.SurfaceKind {
	return vapi.SurfaceStub
}

// InstanceExtensions returns the instance extensions needed for the surface.
func (sf *Surface) InstanceExtensions() []string {
	return nil
}

// CreateSurface creates the surface on the given instance.
func (sf *Surface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	s, res := api.CreateSurface(inst, &vapi.NativeWindow{Kind: vapi.SurfaceStub})
	return s, res.Err()
}

// Size returns the current window size.
func (sf *Surface) Size() (int, int) {
	return sf.W, sf.H
}

// SetSize simulates a window resize.
func (sf *Surface) SetSize(w, h int) {
	sf.W, sf.H = w, h
}
