// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "goki.dev/vsprite/vapi"

// Attachment indexes of the render pass
const (
	// MultisampleAttachment is the multisampled color target, cleared each frame
	MultisampleAttachment = 0

	// DepthAttachment is the multisampled depth buffer, cleared each frame
	DepthAttachment = 1

	// PresentAttachment is the presentable image the color target resolves into
	PresentAttachment = 2
)

// RenderPassInfo returns the single-subpass render pass used for all
// drawing: a multisampled color and depth target resolved into the
// presentable image.
func RenderPassInfo(format vapi.Format) *vapi.RenderPassInfo {
	return &vapi.RenderPassInfo{
		Attachments: []vapi.AttachmentInfo{
			MultisampleAttachment: {
				Format:         format,
				Samples:        SampleCount,
				LoadOp:         vapi.LoadOpClear,
				StoreOp:        vapi.StoreOpDontCare,
				StencilLoadOp:  vapi.LoadOpDontCare,
				StencilStoreOp: vapi.StoreOpDontCare,
				InitialLayout:  vapi.LayoutUndefined,
				FinalLayout:    vapi.LayoutColorAttachmentOptimal,
			},
			DepthAttachment: {
				Format:         DepthFormat,
				Samples:        SampleCount,
				LoadOp:         vapi.LoadOpClear,
				StoreOp:        vapi.StoreOpDontCare,
				StencilLoadOp:  vapi.LoadOpDontCare,
				StencilStoreOp: vapi.StoreOpDontCare,
				InitialLayout:  vapi.LayoutDepthStencilAttachmentOptimal,
				FinalLayout:    vapi.LayoutDepthStencilAttachmentOptimal,
			},
			PresentAttachment: {
				Format:         format,
				Samples:        vapi.Samples1,
				LoadOp:         vapi.LoadOpDontCare,
				StoreOp:        vapi.StoreOpStore,
				StencilLoadOp:  vapi.LoadOpDontCare,
				StencilStoreOp: vapi.StoreOpDontCare,
				InitialLayout:  vapi.LayoutUndefined,
				FinalLayout:    vapi.LayoutPresentSrc,
			},
		},
		Subpasses: []vapi.SubpassInfo{{
			Color:   []vapi.AttachmentRef{{Attachment: MultisampleAttachment, Layout: vapi.LayoutColorAttachmentOptimal}},
			Depth:   &vapi.AttachmentRef{Attachment: DepthAttachment, Layout: vapi.LayoutDepthStencilAttachmentOptimal},
			Resolve: []vapi.AttachmentRef{{Attachment: PresentAttachment, Layout: vapi.LayoutColorAttachmentOptimal}},
		}},
		Dependencies: []vapi.SubpassDependency{{
			SrcSubpass: vapi.SubpassExternal,
			DstSubpass: 0,
			SrcStage:   vapi.StageColorAttachmentOutput,
			DstStage:   vapi.StageColorAttachmentOutput,
			SrcAccess:  vapi.AccessColorAttachmentWrite,
			DstAccess:  vapi.AccessColorAttachmentRead | vapi.AccessColorAttachmentWrite,
		}},
	}
}

// makeRenderPass makes the render pass for the swapchain format
func (sc *Swapchain) makeRenderPass() error {
	dv := sc.Dev
	rp, res := dv.API.CreateRenderPass(dv.Device, RenderPassInfo(sc.Format))
	if err := initErr("render pass", res); err != nil {
		return err
	}
	sc.RenderPass = rp
	return nil
}

// makeTargets makes the multisampled color and depth images shared by
// all framebuffers. The depth image is transitioned to its attachment
// layout before first use.
func (sc *Swapchain) makeTargets() error {
	dv := sc.Dev
	ms, err := NewImage(dv, ImageOpts{Width: sc.Extent.Width, Height: sc.Extent.Height,
		Format: sc.Format, Tiling: vapi.TilingOptimal,
		Usage:   vapi.ImageUsageTransientAttachment | vapi.ImageUsageColorAttachment,
		Layout:  vapi.LayoutUndefined,
		Props:   vapi.MemoryDeviceLocal,
		Samples: SampleCount})
	if err != nil {
		return err
	}
	sc.Multisample = ms

	depth, err := NewImage(dv, ImageOpts{Width: sc.Extent.Width, Height: sc.Extent.Height,
		Format: DepthFormat, Tiling: vapi.TilingOptimal,
		Usage:   vapi.ImageUsageDepthStencilAttachment,
		Layout:  vapi.LayoutUndefined,
		Props:   vapi.MemoryDeviceLocal,
		Samples: SampleCount})
	if err != nil {
		return err
	}
	sc.Depth = depth
	return depth.Transition(UndefinedToDepth)
}

// makeFramebuffers makes one framebuffer per presentable image:
// multisample color, depth, and the image's own view.
func (sc *Swapchain) makeFramebuffers() error {
	dv := sc.Dev
	sc.Framebuffers = make([]vapi.Framebuffer, len(sc.Views))
	for i, view := range sc.Views {
		fb, res := dv.API.CreateFramebuffer(dv.Device, &vapi.FramebufferInfo{
			RenderPass:  sc.RenderPass,
			Attachments: []vapi.ImageView{sc.Multisample.View, sc.Depth.View, view},
			Width:       sc.Extent.Width,
			Height:      sc.Extent.Height,
		})
		if err := initErr("framebuffer", res); err != nil {
			return err
		}
		sc.Framebuffers[i] = fb
	}
	return nil
}

// destroyFramebuffers destroys the framebuffers, if any
func (sc *Swapchain) destroyFramebuffers() {
	dv := sc.Dev
	for _, fb := range sc.Framebuffers {
		if fb != 0 {
			dv.API.DestroyFramebuffer(dv.Device, fb)
		}
	}
	sc.Framebuffers = nil
}
