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

func TestSwapchainBuild(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	assert.Equal(t, 2, sc.ImageCount)
	assert.Len(t, sc.Images, 2)
	assert.Len(t, sc.Views, 2)
	assert.Len(t, sc.Framebuffers, 2)
	assert.Equal(t, vapi.Extent2D{Width: 640, Height: 360}, sc.Extent)
	assert.Equal(t, sc.Extent, dv.Extent)
	assert.Equal(t, vapi.FormatB8G8R8A8Unorm, sc.Format, "first surface format")
	assert.Equal(t, d.Images(sc.Swapchain), sc.Images)

	si := d.Info(uint64(sc.Swapchain)).(*vapi.SwapchainInfo)
	assert.Equal(t, vapi.PresentModeFifo, si.PresentMode)
	assert.Equal(t, vapi.CompositeAlphaOpaque, si.CompositeAlpha)
	assert.Equal(t, vapi.SurfaceTransformIdentity, si.PreTransform)
	assert.True(t, si.Clipped)
	assert.Zero(t, si.OldSwapchain)

	di := d.Info(uint64(sc.Depth.Image)).(*vapi.ImageInfo)
	assert.Equal(t, DepthFormat, di.Format)
	assert.Equal(t, SampleCount, di.Samples)
	assert.Equal(t, vapi.LayoutDepthStencilAttachmentOptimal, sc.Depth.Current)
	dvi := d.Info(uint64(sc.Depth.View)).(*vapi.ImageViewInfo)
	assert.Equal(t, vapi.AspectDepth, dvi.Aspect)
	assert.Equal(t, [4]vapi.ComponentSwizzle{}, dvi.Swizzle)

	mi := d.Info(uint64(sc.Multisample.Image)).(*vapi.ImageInfo)
	assert.Equal(t, sc.Format, mi.Format)
	assert.Equal(t, vapi.ImageUsageTransientAttachment|vapi.ImageUsageColorAttachment, mi.Usage)
	mvi := d.Info(uint64(sc.Multisample.View)).(*vapi.ImageViewInfo)
	assert.Equal(t, [4]vapi.ComponentSwizzle{vapi.SwizzleR, vapi.SwizzleG, vapi.SwizzleB, vapi.SwizzleA}, mvi.Swizzle)

	fi := d.Info(uint64(sc.Framebuffers[1])).(*vapi.FramebufferInfo)
	assert.Equal(t, []vapi.ImageView{sc.Multisample.View, sc.Depth.View, sc.Views[1]}, fi.Attachments)
	assert.Empty(t, d.Errors())
}

func TestRenderPassLayout(t *testing.T) {
	ri := RenderPassInfo(vapi.FormatB8G8R8A8Unorm)
	require.Len(t, ri.Attachments, 3)
	ms := ri.Attachments[MultisampleAttachment]
	assert.Equal(t, SampleCount, ms.Samples)
	assert.Equal(t, vapi.LoadOpClear, ms.LoadOp)
	assert.Equal(t, vapi.StoreOpDontCare, ms.StoreOp)
	assert.Equal(t, vapi.LayoutColorAttachmentOptimal, ms.FinalLayout)

	depth := ri.Attachments[DepthAttachment]
	assert.Equal(t, DepthFormat, depth.Format)
	assert.Equal(t, vapi.LayoutDepthStencilAttachmentOptimal, depth.InitialLayout)
	assert.Equal(t, vapi.LayoutDepthStencilAttachmentOptimal, depth.FinalLayout)

	pr := ri.Attachments[PresentAttachment]
	assert.Equal(t, vapi.Samples1, pr.Samples)
	assert.Equal(t, vapi.LoadOpDontCare, pr.LoadOp)
	assert.Equal(t, vapi.StoreOpStore, pr.StoreOp)
	assert.Equal(t, vapi.LayoutPresentSrc, pr.FinalLayout)

	require.Len(t, ri.Subpasses, 1)
	sp := ri.Subpasses[0]
	assert.Equal(t, uint32(0), sp.Color[0].Attachment)
	assert.Equal(t, uint32(1), sp.Depth.Attachment)
	assert.Equal(t, uint32(2), sp.Resolve[0].Attachment)

	require.Len(t, ri.Dependencies, 1)
	dep := ri.Dependencies[0]
	assert.Equal(t, vapi.SubpassExternal, dep.SrcSubpass)
	assert.Equal(t, vapi.StageColorAttachmentOutput, dep.SrcStage)
	assert.Equal(t, vapi.StageColorAttachmentOutput, dep.DstStage)
	assert.Equal(t, vapi.AccessColorAttachmentWrite, dep.SrcAccess)
	assert.Equal(t, vapi.AccessColorAttachmentRead|vapi.AccessColorAttachmentWrite, dep.DstAccess)
}

func TestSwapchainResize(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	require.NoError(t, sc.Resize(1280, 720))
	live := d.Live()
	count := sc.ImageCount

	require.NoError(t, sc.Resize(1280, 720))
	assert.Equal(t, live, d.Live(), "resize leaks nothing: %v", d.LiveKinds())
	assert.Equal(t, count, sc.ImageCount)
	assert.Equal(t, vapi.Extent2D{Width: 1280, Height: 720}, sc.Extent)
	assert.Equal(t, sc.Extent, dv.Extent)

	si := d.Info(uint64(sc.Swapchain)).(*vapi.SwapchainInfo)
	assert.NotZero(t, si.OldSwapchain, "rebuilt from the previous swapchain")
	assert.False(t, d.IsLive(uint64(si.OldSwapchain)), "previous swapchain destroyed")
	assert.Equal(t, 1, d.LiveByKind()["Swapchain"])
	assert.Empty(t, d.Errors())
}

func TestSwapchainCurrentExtent(t *testing.T) {
	_, _, sc := newTestSwapchain(t, vstub.Config{CurrentExtent: vapi.Extent2D{Width: 800, Height: 600}})
	assert.Equal(t, vapi.Extent2D{Width: 800, Height: 600}, sc.Extent, "surface extent wins")
	require.NoError(t, sc.Resize(100, 100))
	assert.Equal(t, vapi.Extent2D{Width: 800, Height: 600}, sc.Extent)

	caps := &vapi.SurfaceCaps{CurrentExtent: vapi.Extent2D{Width: vapi.UndefinedExtent, Height: vapi.UndefinedExtent},
		MinExtent: vapi.Extent2D{Width: 16, Height: 16}, MaxExtent: vapi.Extent2D{Width: 1024, Height: 1024}}
	sc.Requested = vapi.Extent2D{Width: 4000, Height: 8}
	assert.Equal(t, vapi.Extent2D{Width: 1024, Height: 16}, sc.extent(caps), "clamped")
}

func TestSwapchainImageCount(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{MinImageCount: 3})
	base := d.Live()
	_, err := NewSwapchain(dv)
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "swapchain", ie.Op)
	assert.Equal(t, base, d.Live())

	assert.Error(t, (&Swapchain{Dev: dv}).Resize(0, 10))
}
