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

func dists(ds []Draw) []float32 {
	var r []float32
	for _, d := range ds {
		r = append(r, d.Dist)
	}
	return r
}

func TestZSort(t *testing.T) {
	dl := &DrawList{}
	for _, z := range []float32{1, 5, 3} {
		dl.Opaque = append(dl.Opaque, Draw{Dist: z})
		dl.Alpha = append(dl.Alpha, Draw{Dist: z})
		dl.Overlay = append(dl.Overlay, Draw{Dist: z})
	}
	dl.ZSort()
	assert.Equal(t, []float32{1, 3, 5}, dists(dl.Opaque))
	assert.Equal(t, []float32{5, 3, 1}, dists(dl.Alpha))
	assert.Equal(t, []float32{1, 5, 3}, dists(dl.Overlay), "insertion order")
	assert.Equal(t, 9, dl.Len())
}

func TestZSortStable(t *testing.T) {
	a, b := &Sprite{}, &Sprite{}
	dl := &DrawList{Opaque: []Draw{{Sprite: a, Dist: 2}, {Sprite: b, Dist: 2}, {Dist: 1}}}
	dl.ZSort()
	assert.Same(t, a, dl.Opaque[1].Sprite)
	assert.Same(t, b, dl.Opaque[2].Sprite)
}

func TestBarrierMasks(t *testing.T) {
	assert.Equal(t, vapi.StageTopOfPipe, PresentToColor.SrcStage)
	assert.Equal(t, vapi.StageTopOfPipe|vapi.StageColorAttachmentOutput, PresentToColor.DstStage)
	assert.Equal(t, vapi.AccessMemoryRead, PresentToColor.SrcAccess)
	assert.Equal(t, vapi.AccessColorAttachmentRead|vapi.AccessColorAttachmentWrite, PresentToColor.DstAccess)

	assert.Equal(t, vapi.StageAllCommands, ColorToPresent.SrcStage)
	assert.Equal(t, vapi.StageBottomOfPipe, ColorToPresent.DstStage)
	assert.Equal(t, vapi.AccessColorAttachmentWrite, ColorToPresent.SrcAccess)
	assert.Equal(t, vapi.AccessMemoryRead, ColorToPresent.DstAccess)

	assert.Equal(t, vapi.StageTopOfPipe, UndefinedToPresent.SrcStage)
	assert.Equal(t, vapi.StageTopOfPipe, UndefinedToPresent.DstStage)
	assert.Equal(t, vapi.StageEarlyFragmentTests, UndefinedToDepth.DstStage)
}

// triangle returns a draw of one 3-vertex fan with a solid sprite
func triangle(t *testing.T, dv *Device, st *Style) Draw {
	t.Helper()
	ref, err := NewBuffer(dv, [][4]float32{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}, VertexUsage)
	require.NoError(t, err)
	bf, _ := dv.Buffer(ref)
	sp, err := NewSprite(dv, st, make([]byte, 64), Ref{})
	require.NoError(t, err)
	t.Cleanup(sp.Destroy)
	return Draw{Sprite: sp, Buffers: []vapi.Buffer{bf.Buffer}, Fans: []Fan{{First: 0, Count: 3}}}
}

func TestFrame(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st := solidStyle(t, dv, sc)
	dr := triangle(t, dv, st)
	dv.SetClearColor(0.25, 0.5, 0.75)
	rn := NewRenderer(dv, sc)
	live := d.Live()

	require.NoError(t, rn.Frame(&DrawList{Opaque: []Draw{dr}}))
	assert.Equal(t, FrameIdle, rn.State())
	assert.True(t, d.LastFenceSignaled, "frame fence signaled")
	assert.Equal(t, 1, d.Presents)
	assert.Equal(t, 1, d.Draws)
	assert.Equal(t, live, d.Live(), "fence and semaphore destroyed")

	cmds := d.LastSubmit()
	require.Equal(t, []vstub.Op{vstub.OpBarrier, vstub.OpBeginRenderPass, vstub.OpSetViewport, vstub.OpSetScissor,
		vstub.OpBindVertexBuffers, vstub.OpBindPipeline, vstub.OpBindDescriptorSet, vstub.OpDraw,
		vstub.OpEndRenderPass, vstub.OpBarrier}, vstub.Ops(cmds))
	assert.Equal(t, sc.Images[0], cmds[0].Barriers[0].Image)
	assert.Equal(t, vapi.LayoutPresentSrc, cmds[0].Barriers[0].OldLayout)
	assert.Equal(t, vapi.LayoutColorAttachmentOptimal, cmds[0].Barriers[0].NewLayout)
	assert.Equal(t, sc.Framebuffers[0], cmds[1].Framebuffer)
	assert.Equal(t, []vapi.ClearValue{vapi.ClearColor(0.25, 0.5, 0.75, 1), vapi.ClearDepthStencil(1, 0)}, cmds[1].Clears)
	assert.Equal(t, float32(640), cmds[2].Viewport.Width)
	assert.Equal(t, sc.Extent, cmds[3].Scissor.Extent)
	assert.Equal(t, uint32(3), cmds[7].VertexCount)
	assert.Equal(t, uint32(1), cmds[7].InstanceCount)
	assert.Equal(t, vapi.LayoutPresentSrc, cmds[9].Barriers[0].NewLayout)

	require.NoError(t, rn.Frame(&DrawList{Opaque: []Draw{dr}}))
	assert.Equal(t, sc.Framebuffers[1], d.LastSubmit()[1].Framebuffer, "next image")
	assert.Equal(t, 2, d.Presents)
	assert.Empty(t, d.Errors())
}

func TestFrameOrder(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st := solidStyle(t, dv, sc)
	o, a, v := triangle(t, dv, st), triangle(t, dv, st), triangle(t, dv, st)
	v.Fans = []Fan{{0, 1}, {1, 2}}
	rn := NewRenderer(dv, sc)
	require.NoError(t, rn.Frame(&DrawList{Overlay: []Draw{v}, Alpha: []Draw{a}, Opaque: []Draw{o}}))

	var sets []vapi.DescriptorSet
	var counts []uint32
	for _, c := range d.LastSubmit() {
		switch c.Op {
		case vstub.OpBindDescriptorSet:
			sets = append(sets, c.Set)
		case vstub.OpDraw:
			counts = append(counts, c.VertexCount)
		}
	}
	assert.Equal(t, []vapi.DescriptorSet{o.Sprite.Set, a.Sprite.Set, v.Sprite.Set}, sets)
	assert.Equal(t, []uint32{3, 3, 1, 2}, counts, "one draw per fan")
}

func TestFrameAcquireRetry(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{OutOfDate: 2})
	rn := NewRenderer(dv, sc)
	require.NoError(t, rn.Frame(&DrawList{}))
	assert.Equal(t, 2, d.OutOfDates)
	assert.Equal(t, 3, d.Acquires)
	assert.Equal(t, 1, d.Presents)
	assert.Empty(t, d.Errors())
}

func TestFrameAcquireExhausted(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	old := MaxAcquireRetries
	MaxAcquireRetries = 3
	defer func() { MaxAcquireRetries = old }()
	d.OutOfDate = 10
	live := d.Live()

	rn := NewRenderer(dv, sc)
	err := rn.Frame(&DrawList{})
	var te *TransientPresentError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, vapi.ErrorOutOfDate, te.Result)
	assert.True(t, IsTransient(err))
	assert.Equal(t, FrameIdle, rn.State())
	assert.Equal(t, 4, d.Acquires)
	assert.Zero(t, d.Presents)
	assert.Equal(t, live, d.Live())

	d.OutOfDate = 0
	require.NoError(t, rn.Frame(&DrawList{}))
	assert.Equal(t, 1, d.Presents)
}

func TestFrameAfterResize(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st := solidStyle(t, dv, sc)
	dr := triangle(t, dv, st)
	rn := NewRenderer(dv, sc)
	require.NoError(t, rn.Frame(&DrawList{Opaque: []Draw{dr}}))

	require.NoError(t, sc.Resize(1280, 720))
	require.NoError(t, st.Rebuild(sc.RenderPass))
	require.NoError(t, rn.Frame(&DrawList{Opaque: []Draw{dr}}))
	cmds := d.LastSubmit()
	assert.Equal(t, sc.Extent, cmds[1].Area.Extent)
	assert.Equal(t, float32(720), cmds[2].Viewport.Height)
	assert.Equal(t, st.Pipeline, cmds[5].Pipeline)
	assert.Equal(t, 2, d.Draws)
	assert.Empty(t, d.Errors())
}
