// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vapi/vstub"
)

func TestDeviceLifecycle(t *testing.T) {
	d := vstub.New(vstub.Config{})
	dv, err := NewDevice(d, &vstub.Surface{W: 640, H: 360}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), dv.QueueIndex, "first family with graphics and present")
	assert.NotZero(t, dv.Queue)
	assert.NotZero(t, dv.CmdPool.Buff)
	assert.NotZero(t, dv.Sampler)
	assert.Len(t, dv.MemTypes, 3)
	assert.False(t, dv.LinearSampling)

	si := d.Info(uint64(dv.Sampler)).(*vapi.SamplerInfo)
	assert.Equal(t, vapi.FilterLinear, si.MagFilter)
	assert.Equal(t, vapi.AddressRepeat, si.AddressMode)
	di := d.Info(uint64(dv.Device)).(*vapi.DeviceInfo)
	assert.Equal(t, []string{vapi.SwapchainExtension}, di.Extensions)

	_, err = NewBuffer(dv, []float32{1, 2}, VertexUsage)
	require.NoError(t, err)
	dv.Destroy()
	assert.Zero(t, d.Live(), "leaked: %v", d.LiveKinds())
	assert.Empty(t, d.Errors())
}

func TestDeviceLinearSampling(t *testing.T) {
	_, dv := newTestDevice(t, vstub.Config{LinearSampling: true})
	assert.True(t, dv.LinearSampling)
}

func TestDeviceInitErrors(t *testing.T) {
	needChecks(t)
	var ie *InitError

	d := vstub.New(vstub.Config{FailLoad: true})
	_, err := NewDevice(d, &vstub.Surface{W: 1, H: 1}, nil)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "load driver", ie.Op)
	assert.ErrorIs(t, err, vstub.ErrNoLoader)

	d = vstub.New(vstub.Config{NoPresent: true})
	_, err = NewDevice(d, &vstub.Surface{W: 1, H: 1}, nil)
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, ErrNoPresentQueue)
	assert.Zero(t, d.Live(), "partial device destroyed: %v", d.LiveKinds())

	d = vstub.New(vstub.Config{})
	_, err = NewDevice(d, &WaylandSurface{W: 1, H: 1}, nil)
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, ErrUnsupportedSurface)
	assert.Zero(t, d.Live(), "partial device destroyed: %v", d.LiveKinds())
}

func TestOneShot(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	submits := d.Submits
	ran := false
	require.NoError(t, dv.OneShot(func(cmd vapi.CommandBuffer) {
		ran = true
		assert.Equal(t, dv.CmdPool.Buff, cmd)
	}))
	assert.True(t, ran)
	assert.Equal(t, submits+1, d.Submits)
	assert.True(t, d.LastFenceSignaled)
	assert.Zero(t, d.LiveByKind()["Fence"])
	assert.Empty(t, d.Errors())
}
