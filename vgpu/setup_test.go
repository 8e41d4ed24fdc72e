// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi/vstub"
)

// spirv is the smallest code accepted as a shader module: the SPIR-V magic number
var spirv = []byte{0x03, 0x02, 0x23, 0x07}

// needChecks skips tests that depend on driver results being checked
func needChecks(t *testing.T) {
	t.Helper()
	if !ChecksEnabled {
		t.Skip("driver result checks disabled")
	}
}

// newTestDevice makes a device on the software driver with a 640x360 window
func newTestDevice(t *testing.T, cfg vstub.Config) (*vstub.Driver, *Device) {
	t.Helper()
	d := vstub.New(cfg)
	dv, err := NewDevice(d, &vstub.Surface{W: 640, H: 360}, &DeviceOpts{AppName: "vgpu test"})
	require.NoError(t, err)
	t.Cleanup(dv.Destroy)
	return d, dv
}

// newTestSwapchain makes a device and its swapchain
func newTestSwapchain(t *testing.T, cfg vstub.Config) (*vstub.Driver, *Device, *Swapchain) {
	t.Helper()
	d, dv := newTestDevice(t, cfg)
	sc, err := NewSwapchain(dv)
	require.NoError(t, err)
	t.Cleanup(sc.Destroy)
	return d, dv, sc
}

// solidStyle makes an opaque uniform-only style with one vertex buffer
func solidStyle(t *testing.T, dv *Device, sc *Swapchain) *Style {
	t.Helper()
	st, err := NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv, Textures: NoTexture, VertexBuffers: 1})
	require.NoError(t, err)
	t.Cleanup(st.Destroy)
	return st
}
