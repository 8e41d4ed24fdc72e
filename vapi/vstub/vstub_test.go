// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi"
)

func newDevice(t *testing.T, d *Driver) vapi.Device {
	require.NoError(t, d.Load())
	inst, res := d.CreateInstance(&vapi.InstanceInfo{AppName: "test"})
	require.Equal(t, vapi.Success, res)
	gpus, res := d.EnumeratePhysicalDevices(inst)
	require.Equal(t, vapi.Success, res)
	require.Len(t, gpus, 1)
	dev, res := d.CreateDevice(gpus[0], &vapi.DeviceInfo{QueueFamily: 1})
	require.Equal(t, vapi.Success, res)
	return dev
}

func TestLoadFailure(t *testing.T) {
	d := New(Config{FailLoad: true})
	assert.ErrorIs(t, d.Load(), ErrNoLoader)
	_, res := d.CreateInstance(&vapi.InstanceInfo{})
	assert.True(t, res.IsError())
	assert.NotEmpty(t, d.Errors())
}

func TestHandleAccounting(t *testing.T) {
	d := New(Config{})
	dev := newDevice(t, d)
	base := d.Live()

	buf, res := d.CreateBuffer(dev, &vapi.BufferInfo{Size: 100, Usage: vapi.BufferUsageVertexBuffer})
	require.Equal(t, vapi.Success, res)
	req := d.BufferMemoryRequirements(dev, buf)
	assert.Equal(t, uint64(256), req.Size)
	assert.Equal(t, uint32(0x7), req.TypeBits)

	mem, res := d.AllocateMemory(dev, req.Size, 1)
	require.Equal(t, vapi.Success, res)
	require.Equal(t, vapi.Success, d.BindBufferMemory(dev, buf, mem))
	assert.Equal(t, base+2, d.Live())
	assert.Equal(t, mem, d.BoundMemory(uint64(buf)))

	d.DestroyBuffer(dev, buf)
	d.FreeMemory(dev, mem)
	assert.Equal(t, base, d.Live())
	assert.Empty(t, d.Errors())

	d.DestroyBuffer(dev, buf)
	assert.Len(t, d.Errors(), 1)
}

func TestMapMemory(t *testing.T) {
	d := New(Config{})
	dev := newDevice(t, d)
	mem, _ := d.AllocateMemory(dev, 16, 1)

	b, res := d.MapMemory(dev, mem, 4, 8)
	require.Equal(t, vapi.Success, res)
	assert.Len(t, b, 8)
	copy(b, []byte{1, 2, 3})
	_, res = d.MapMemory(dev, mem, 0, vapi.WholeSize)
	assert.Equal(t, vapi.ErrorMemoryMapFailed, res)
	d.UnmapMemory(dev, mem)

	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 0}, d.Memory(mem)[:8])
	assert.Len(t, d.Errors(), 1, "double map")
}

func TestImageRowPitch(t *testing.T) {
	d := New(Config{})
	dev := newDevice(t, d)
	img, _ := d.CreateImage(dev, &vapi.ImageInfo{Width: 3, Height: 2, Format: vapi.FormatR8G8B8A8Srgb, Tiling: vapi.TilingLinear})
	lay := d.ImageSubresourceLayout(dev, img, vapi.AspectColor)
	assert.Equal(t, uint64(64), lay.RowPitch)
	assert.Equal(t, uint64(128), lay.Size)
}

func TestFenceSignaling(t *testing.T) {
	d := New(Config{})
	dev := newDevice(t, d)
	f, _ := d.CreateFence(dev, false)
	assert.Equal(t, vapi.Timeout, d.WaitForFence(dev, f, vapi.MaxTimeout))
	assert.Equal(t, 1, d.FenceTimeouts)

	assert.Equal(t, vapi.Success, d.QueueSubmit(0, nil, f))
	assert.True(t, d.FenceSignaled(f))
	assert.Equal(t, vapi.Success, d.WaitForFence(dev, f, vapi.MaxTimeout))
	assert.True(t, d.LastFenceSignaled)

	d.ResetFence(dev, f)
	assert.False(t, d.FenceSignaled(f))
	d.DestroyFence(dev, f)
	assert.Empty(t, d.Errors())
}

func TestRecordAndSubmit(t *testing.T) {
	d := New(Config{})
	dev := newDevice(t, d)
	pool, _ := d.CreateCommandPool(dev, 1)
	cmd, _ := d.AllocateCommandBuffer(dev, pool)

	d.CmdDraw(cmd, 3, 1, 0, 0)
	assert.Len(t, d.Errors(), 1, "recording outside begin/end")

	d.BeginCommandBuffer(cmd, true)
	d.CmdSetViewport(cmd, vapi.Viewport{Width: 10, Height: 10})
	d.CmdDraw(cmd, 3, 1, 0, 0)
	d.CmdDraw(cmd, 4, 1, 3, 0)
	d.EndCommandBuffer(cmd)
	d.QueueSubmit(0, []vapi.SubmitInfo{{CommandBuffers: []vapi.CommandBuffer{cmd}}}, 0)

	assert.Equal(t, []Op{OpSetViewport, OpDraw, OpDraw}, Ops(d.LastSubmit()))
	assert.Equal(t, 2, d.Draws)
	assert.Equal(t, uint32(3), d.LastSubmit()[2].FirstVertex)
}

func TestSwapchainAcquire(t *testing.T) {
	d := New(Config{OutOfDate: 1})
	dev := newDevice(t, d)
	sf := &Surface{W: 64, H: 32}
	inst := vapi.Instance(1)
	surf, err := sf.CreateSurface(d, inst)
	require.NoError(t, err)

	caps, _ := d.SurfaceCapabilities(gpuHandle, surf)
	assert.Equal(t, vapi.UndefinedExtent, caps.CurrentExtent.Width)

	sc, res := d.CreateSwapchain(dev, &vapi.SwapchainInfo{Surface: surf, MinImageCount: caps.MinImageCount,
		Format: vapi.FormatB8G8R8A8Unorm, Extent: vapi.Extent2D{Width: 64, Height: 32}})
	require.Equal(t, vapi.Success, res)
	imgs, _ := d.SwapchainImages(dev, sc)
	assert.Len(t, imgs, 2)

	_, res = d.AcquireNextImage(dev, sc, vapi.MaxTimeout, 0, 0)
	assert.Equal(t, vapi.ErrorOutOfDate, res)
	idx, res := d.AcquireNextImage(dev, sc, vapi.MaxTimeout, 0, 0)
	assert.Equal(t, vapi.Success, res)
	assert.Equal(t, uint32(0), idx)
	idx, _ = d.AcquireNextImage(dev, sc, vapi.MaxTimeout, 0, 0)
	assert.Equal(t, uint32(1), idx)
	assert.Equal(t, 1, d.OutOfDates)
	assert.Empty(t, d.Errors())
}

func TestWaylandUnsupported(t *testing.T) {
	d := New(Config{})
	newDevice(t, d)
	_, res := d.CreateSurface(vapi.Instance(1), &vapi.NativeWindow{Kind: vapi.SurfaceWayland})
	assert.Equal(t, vapi.ErrorExtensionNotPresent, res)
}
