// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "goki.dev/vsprite/vapi"

// CmdPool is a command pool and its single, reset-each-use buffer
type CmdPool struct {
	Pool vapi.CommandPool
	Buff vapi.CommandBuffer
}

// Init makes the pool on the device queue family and allocates the buffer
func (cp *CmdPool) Init(dv *Device) error {
	pool, res := dv.API.CreateCommandPool(dv.Device, dv.QueueIndex)
	if err := initErr("command pool", res); err != nil {
		return err
	}
	cp.Pool = pool
	return cp.MakeBuff(dv)
}

// MakeBuff allocates the primary command buffer in the pool
func (cp *CmdPool) MakeBuff(dv *Device) error {
	buf, res := dv.API.AllocateCommandBuffer(dv.Device, cp.Pool)
	if err := initErr("command buffer", res); err != nil {
		return err
	}
	cp.Buff = buf
	return nil
}

// Destroy frees the buffer and destroys the pool
func (cp *CmdPool) Destroy(dv *Device) {
	if cp.Pool == 0 {
		return
	}
	if cp.Buff != 0 {
		dv.API.FreeCommandBuffer(dv.Device, cp.Pool, cp.Buff)
		cp.Buff = 0
	}
	dv.API.DestroyCommandPool(dv.Device, cp.Pool)
	cp.Pool = 0
}

// OneShot records fn into the command buffer, submits it guarded by a
// fence, waits for the fence, then resets the fence and the buffer.
func (dv *Device) OneShot(fn func(cmd vapi.CommandBuffer)) error {
	api := dv.API
	cmd := dv.CmdPool.Buff
	if err := resErr("begin commands", api.BeginCommandBuffer(cmd, true)); err != nil {
		return err
	}
	fn(cmd)
	if err := resErr("end commands", api.EndCommandBuffer(cmd)); err != nil {
		return err
	}
	fence, res := api.CreateFence(dv.Device, false)
	if err := resErr("fence", res); err != nil {
		return err
	}
	defer api.DestroyFence(dv.Device, fence)
	res = api.QueueSubmit(dv.Queue, []vapi.SubmitInfo{{CommandBuffers: []vapi.CommandBuffer{cmd}}}, fence)
	if err := resErr("submit", res); err != nil {
		return err
	}
	if err := resErr("wait fence", api.WaitForFence(dv.Device, fence, vapi.MaxTimeout)); err != nil {
		return err
	}
	if err := resErr("reset fence", api.ResetFence(dv.Device, fence)); err != nil {
		return err
	}
	return resErr("reset commands", api.ResetCommandBuffer(cmd))
}

// Transition describes an image layout transition
type Transition struct {
	Old, New             vapi.ImageLayout
	SrcStage, DstStage   vapi.PipelineStage
	SrcAccess, DstAccess vapi.Access
}

// Barrier records a pipeline barrier applying the transition to img
func Barrier(api vapi.API, cmd vapi.CommandBuffer, img vapi.Image, aspect vapi.ImageAspect, tr Transition) {
	api.CmdPipelineBarrier(cmd, tr.SrcStage, tr.DstStage, []vapi.ImageBarrier{{
		Image:     img,
		OldLayout: tr.Old,
		NewLayout: tr.New,
		SrcAccess: tr.SrcAccess,
		DstAccess: tr.DstAccess,
		Aspect:    aspect,
	}})
}

// TransitionImage applies the transition to img with a one-shot command.
func (dv *Device) TransitionImage(img vapi.Image, aspect vapi.ImageAspect, tr Transition) error {
	return dv.OneShot(func(cmd vapi.CommandBuffer) {
		Barrier(dv.API, cmd, img, aspect, tr)
	})
}

// standard transitions
var (
	// swapchain images, before first use
	UndefinedToPresent = Transition{Old: vapi.LayoutUndefined, New: vapi.LayoutPresentSrc,
		SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageTopOfPipe,
		DstAccess: vapi.AccessMemoryRead}

	// depth buffer, before first use
	UndefinedToDepth = Transition{Old: vapi.LayoutUndefined, New: vapi.LayoutDepthStencilAttachmentOptimal,
		SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageEarlyFragmentTests,
		DstAccess: vapi.AccessDepthStencilAttachmentRead | vapi.AccessDepthStencilAttachmentWrite}

	// acquired image, before the render pass
	PresentToColor = Transition{Old: vapi.LayoutPresentSrc, New: vapi.LayoutColorAttachmentOptimal,
		SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageTopOfPipe | vapi.StageColorAttachmentOutput,
		SrcAccess: vapi.AccessMemoryRead, DstAccess: vapi.AccessColorAttachmentRead | vapi.AccessColorAttachmentWrite}

	// rendered image, before present
	ColorToPresent = Transition{Old: vapi.LayoutColorAttachmentOptimal, New: vapi.LayoutPresentSrc,
		SrcStage: vapi.StageAllCommands, DstStage: vapi.StageBottomOfPipe,
		SrcAccess: vapi.AccessColorAttachmentWrite, DstAccess: vapi.AccessMemoryRead}
)
