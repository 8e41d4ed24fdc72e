// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkdrv

import (
	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

func rect(r vapi.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.X, Y: r.Y},
		Extent: vk.Extent2D{Width: r.Extent.Width, Height: r.Extent.Height},
	}
}

func (d *Driver) CmdPipelineBarrier(cmd vapi.CommandBuffer, src, dst vapi.PipelineStage, barriers []vapi.ImageBarrier) {
	vb := make([]vk.ImageMemoryBarrier, len(barriers))
	for i, b := range barriers {
		vb[i] = vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessFlags(b.SrcAccess),
			DstAccessMask:       vk.AccessFlags(b.DstAccess),
			OldLayout:           vk.ImageLayout(b.OldLayout),
			NewLayout:           vk.ImageLayout(b.NewLayout),
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               d.images.get(uint64(b.Image)),
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(b.Aspect),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
	}
	vk.CmdPipelineBarrier(d.cmdBufs.get(uint64(cmd)), vk.PipelineStageFlags(src), vk.PipelineStageFlags(dst), 0, 0, nil, 0, nil, uint32(len(vb)), vb)
}

func (d *Driver) CmdBeginRenderPass(cmd vapi.CommandBuffer, rp vapi.RenderPass, fb vapi.Framebuffer, area vapi.Rect2D, clears []vapi.ClearValue) {
	vc := make([]vk.ClearValue, len(clears))
	for i, c := range clears {
		if c.IsDepth {
			vc[i] = vk.NewClearDepthStencil(c.Depth, c.Stencil)
		} else {
			vc[i] = vk.NewClearValue(c.Color[:])
		}
	}
	vk.CmdBeginRenderPass(d.cmdBufs.get(uint64(cmd)), &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      d.renderPasses.get(uint64(rp)),
		Framebuffer:     d.framebuffers.get(uint64(fb)),
		RenderArea:      rect(area),
		ClearValueCount: uint32(len(vc)),
		PClearValues:    vc,
	}, vk.SubpassContentsInline)
}

func (d *Driver) CmdEndRenderPass(cmd vapi.CommandBuffer) {
	vk.CmdEndRenderPass(d.cmdBufs.get(uint64(cmd)))
}

func (d *Driver) CmdSetViewport(cmd vapi.CommandBuffer, vp vapi.Viewport) {
	vk.CmdSetViewport(d.cmdBufs.get(uint64(cmd)), 0, 1, []vk.Viewport{{
		X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height,
		MinDepth: vp.MinDepth, MaxDepth: vp.MaxDepth,
	}})
}

func (d *Driver) CmdSetScissor(cmd vapi.CommandBuffer, r vapi.Rect2D) {
	vk.CmdSetScissor(d.cmdBufs.get(uint64(cmd)), 0, 1, []vk.Rect2D{rect(r)})
}

func (d *Driver) CmdBindPipeline(cmd vapi.CommandBuffer, p vapi.Pipeline) {
	vk.CmdBindPipeline(d.cmdBufs.get(uint64(cmd)), vk.PipelineBindPointGraphics, d.pipelines.get(uint64(p)))
}

func (d *Driver) CmdBindVertexBuffers(cmd vapi.CommandBuffer, bufs []vapi.Buffer) {
	vb := make([]vk.Buffer, len(bufs))
	offs := make([]vk.DeviceSize, len(bufs))
	for i, b := range bufs {
		vb[i] = d.buffers.get(uint64(b))
	}
	vk.CmdBindVertexBuffers(d.cmdBufs.get(uint64(cmd)), 0, uint32(len(vb)), vb, offs)
}

func (d *Driver) CmdBindDescriptorSet(cmd vapi.CommandBuffer, layout vapi.PipelineLayout, set vapi.DescriptorSet) {
	vk.CmdBindDescriptorSets(d.cmdBufs.get(uint64(cmd)), vk.PipelineBindPointGraphics, d.pipeLayouts.get(uint64(layout)), 0, 1, []vk.DescriptorSet{d.descSets.get(uint64(set))}, 0, nil)
}

func (d *Driver) CmdDraw(cmd vapi.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(d.cmdBufs.get(uint64(cmd)), vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Driver) CmdCopyImage(cmd vapi.CommandBuffer, src vapi.Image, srcLayout vapi.ImageLayout, dst vapi.Image, dstLayout vapi.ImageLayout, width, height uint32) {
	layers := vk.ImageSubresourceLayers{
		AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		LayerCount: 1,
	}
	vk.CmdCopyImage(d.cmdBufs.get(uint64(cmd)), d.images.get(uint64(src)), vk.ImageLayout(srcLayout), d.images.get(uint64(dst)), vk.ImageLayout(dstLayout), 1, []vk.ImageCopy{{
		SrcSubresource: layers,
		DstSubresource: layers,
		Extent:         vk.Extent3D{Width: width, Height: height, Depth: 1},
	}})
}
