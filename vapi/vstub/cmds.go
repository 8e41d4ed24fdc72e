// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vstub

import "goki.dev/vsprite/vapi"

// Op identifies a recorded command.
type Op int32

const (
	OpBarrier Op = iota
	OpBeginRenderPass
	OpEndRenderPass
	OpSetViewport
	OpSetScissor
	OpBindPipeline
	OpBindVertexBuffers
	OpBindDescriptorSet
	OpDraw
	OpCopyImage
)

var opNames = [...]string{"Barrier", "BeginRenderPass", "EndRenderPass", "SetViewport", "SetScissor",
	"BindPipeline", "BindVertexBuffers", "BindDescriptorSet", "Draw", "CopyImage"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(?)"
	}
	return opNames[op]
}

// Command is one recorded command. Only the fields relevant to Op are set.
type Command struct {
	Op Op

	// Barrier
	SrcStage vapi.PipelineStage
	DstStage vapi.PipelineStage
	Barriers []vapi.ImageBarrier

	// BeginRenderPass
	RenderPass  vapi.RenderPass
	Framebuffer vapi.Framebuffer
	Area        vapi.Rect2D
	Clears      []vapi.ClearValue

	// SetViewport, SetScissor
	Viewport vapi.Viewport
	Scissor  vapi.Rect2D

	// BindPipeline, BindDescriptorSet, BindVertexBuffers
	Pipeline vapi.Pipeline
	Layout   vapi.PipelineLayout
	Set      vapi.DescriptorSet
	Buffers  []vapi.Buffer

	// Draw
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32

	// CopyImage
	Src, Dst             vapi.Image
	SrcLayout, DstLayout vapi.ImageLayout
	Width                uint32
	Height               uint32
}

// Ops returns the ops of a command list, for compact assertions.
func Ops(cmds []Command) []Op {
	ops := make([]Op, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	return ops
}

// record appends c to the command buffer, which must be recording.
func (d *Driver) record(cmd vapi.CommandBuffer, c Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	cs, ok := d.cmds[cmd]
	if !ok || !cs.recording {
		d.errorf("%v recorded into command buffer %d not recording", c.Op, cmd)
		return
	}
	cs.cmds = append(cs.cmds, c)
}

func (d *Driver) CmdPipelineBarrier(cmd vapi.CommandBuffer, src, dst vapi.PipelineStage, barriers []vapi.ImageBarrier) {
	d.record(cmd, Command{Op: OpBarrier, SrcStage: src, DstStage: dst,
		Barriers: append([]vapi.ImageBarrier(nil), barriers...)})
}

func (d *Driver) CmdBeginRenderPass(cmd vapi.CommandBuffer, rp vapi.RenderPass, fb vapi.Framebuffer, area vapi.Rect2D, clears []vapi.ClearValue) {
	d.record(cmd, Command{Op: OpBeginRenderPass, RenderPass: rp, Framebuffer: fb, Area: area,
		Clears: append([]vapi.ClearValue(nil), clears...)})
}

func (d *Driver) CmdEndRenderPass(cmd vapi.CommandBuffer) {
	d.record(cmd, Command{Op: OpEndRenderPass})
}

func (d *Driver) CmdSetViewport(cmd vapi.CommandBuffer, vp vapi.Viewport) {
	d.record(cmd, Command{Op: OpSetViewport, Viewport: vp})
}

func (d *Driver) CmdSetScissor(cmd vapi.CommandBuffer, rect vapi.Rect2D) {
	d.record(cmd, Command{Op: OpSetScissor, Scissor: rect})
}

func (d *Driver) CmdBindPipeline(cmd vapi.CommandBuffer, p vapi.Pipeline) {
	d.record(cmd, Command{Op: OpBindPipeline, Pipeline: p})
}

func (d *Driver) CmdBindVertexBuffers(cmd vapi.CommandBuffer, bufs []vapi.Buffer) {
	d.record(cmd, Command{Op: OpBindVertexBuffers, Buffers: append([]vapi.Buffer(nil), bufs...)})
}

func (d *Driver) CmdBindDescriptorSet(cmd vapi.CommandBuffer, layout vapi.PipelineLayout, set vapi.DescriptorSet) {
	d.record(cmd, Command{Op: OpBindDescriptorSet, Layout: layout, Set: set})
}

func (d *Driver) CmdDraw(cmd vapi.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	d.record(cmd, Command{Op: OpDraw, VertexCount: vertexCount, InstanceCount: instanceCount, FirstVertex: firstVertex})
}

func (d *Driver) CmdCopyImage(cmd vapi.CommandBuffer, src vapi.Image, srcLayout vapi.ImageLayout, dst vapi.Image, dstLayout vapi.ImageLayout, width, height uint32) {
	d.record(cmd, Command{Op: OpCopyImage, Src: src, Dst: dst,
		SrcLayout: srcLayout, DstLayout: dstLayout, Width: width, Height: height})
}
