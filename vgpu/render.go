// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"errors"
	"log/slog"
	"sort"

	"goki.dev/vsprite/vapi"
)

// MaxAcquireRetries is the number of times image acquisition is retried
// on an out-of-date swapchain before the frame gives up with a
// TransientPresentError.
var MaxAcquireRetries = 64

// FrameState is the stage of the frame being rendered
type FrameState int32

const (
	// FrameIdle is between frames
	FrameIdle FrameState = iota

	// FrameAcquiring is waiting for the next presentable image
	FrameAcquiring

	// FrameRecording is recording the draw commands
	FrameRecording

	// FrameSubmitted is waiting for the submitted commands
	FrameSubmitted

	// FramePresenting is presenting the image and waiting for the device
	FramePresenting
)

var frameStateNames = [...]string{"Idle", "Acquiring", "Recording", "Submitted", "Presenting"}

func (fs FrameState) String() string {
	if fs < 0 || int(fs) >= len(frameStateNames) {
		return "FrameState(?)"
	}
	return frameStateNames[fs]
}

// Fan is a range of vertices drawn as one triangle fan
type Fan struct {
	First uint32
	Count uint32
}

// Draw is one sprite drawn with its vertex buffers
type Draw struct {
	Sprite  *Sprite       `desc:"sprite: style pipeline and descriptor set"`
	Buffers []vapi.Buffer `desc:"vertex buffers, one per style vertex stream"`
	Fans    []Fan         `desc:"triangle fans in the vertex buffers"`

	// distance from the camera, for sorting
	Dist float32 `desc:"distance from the camera, for sorting"`
}

// DrawList is the set of draws for one frame, in three buckets drawn
// in order: opaque, alpha, overlay.
type DrawList struct {
	Opaque  []Draw `desc:"depth tested and written, drawn nearest first"`
	Alpha   []Draw `desc:"blended, drawn farthest first after all opaque draws"`
	Overlay []Draw `desc:"screen space, drawn last in insertion order"`
}

// Len returns the total number of draws
func (dl *DrawList) Len() int {
	return len(dl.Opaque) + len(dl.Alpha) + len(dl.Overlay)
}

// ZSort sorts opaque draws nearest first and alpha draws farthest first.
// The sort is stable, and overlay draws keep their order.
func (dl *DrawList) ZSort() {
	sort.SliceStable(dl.Opaque, func(i, j int) bool {
		return dl.Opaque[i].Dist < dl.Opaque[j].Dist
	})
	sort.SliceStable(dl.Alpha, func(i, j int) bool {
		return dl.Alpha[i].Dist > dl.Alpha[j].Dist
	})
}

// Renderer renders frames of a DrawList into the swapchain, with
// exactly one frame in flight.
type Renderer struct {
	Dev   *Device    `desc:"device"`
	Swap  *Swapchain `desc:"swapchain rendered into"`
	state FrameState
}

// NewRenderer returns a renderer for the swapchain
func NewRenderer(dv *Device, sc *Swapchain) *Renderer {
	return &Renderer{Dev: dv, Swap: sc}
}

// State returns the current frame state
func (rn *Renderer) State() FrameState {
	return rn.state
}

// Frame renders and presents one frame of the draw list, which must
// already be sorted. It returns once the device is idle again.
func (rn *Renderer) Frame(dl *DrawList) error {
	defer func() { rn.state = FrameIdle }()
	dv := rn.Dev
	api := dv.API
	sem, res := api.CreateSemaphore(dv.Device)
	if err := resErr("semaphore", res); err != nil {
		return err
	}
	defer api.DestroySemaphore(dv.Device, sem)
	fence, res := api.CreateFence(dv.Device, false)
	if err := resErr("fence", res); err != nil {
		return err
	}
	defer api.DestroyFence(dv.Device, fence)

	rn.state = FrameAcquiring
	idx, err := rn.acquire(fence)
	if err != nil {
		return err
	}

	rn.state = FrameRecording
	cmd := dv.CmdPool.Buff
	if err := resErr("begin frame", api.BeginCommandBuffer(cmd, true)); err != nil {
		return err
	}
	rn.record(cmd, idx, dl)
	if err := resErr("end frame", api.EndCommandBuffer(cmd)); err != nil {
		return err
	}

	rn.state = FrameSubmitted
	res = api.QueueSubmit(dv.Queue, []vapi.SubmitInfo{{
		CommandBuffers:   []vapi.CommandBuffer{cmd},
		SignalSemaphores: []vapi.Semaphore{sem},
	}}, fence)
	if err := resErr("submit frame", res); err != nil {
		return err
	}
	if err := resErr("wait frame", api.WaitForFence(dv.Device, fence, vapi.MaxTimeout)); err != nil {
		return err
	}

	rn.state = FramePresenting
	res = api.QueuePresent(dv.Queue, &vapi.PresentInfo{WaitSemaphores: []vapi.Semaphore{sem},
		Swapchain: rn.Swap.Swapchain, ImageIndex: idx})
	if res == vapi.ErrorOutOfDate || res == vapi.Suboptimal {
		slog.Debug("vgpu: present", "result", res)
	} else if err := resErr("present", res); err != nil {
		return err
	}
	return dv.WaitIdle()
}

// acquire gets the next presentable image, retrying while the swapchain
// is out of date, and waits for it to be available.
func (rn *Renderer) acquire(fence vapi.Fence) (uint32, error) {
	dv := rn.Dev
	api := dv.API
	var idx uint32
	for try := 0; ; try++ {
		var res vapi.Result
		idx, res = api.AcquireNextImage(dv.Device, rn.Swap.Swapchain, vapi.MaxTimeout, 0, fence)
		if res != vapi.ErrorOutOfDate {
			if res != vapi.Suboptimal {
				if err := resErr("acquire image", res); err != nil {
					return 0, err
				}
			}
			break
		}
		terr := &TransientPresentError{Result: res}
		if try >= MaxAcquireRetries {
			return 0, terr
		}
		slog.Debug("vgpu: retrying image acquisition", "err", terr, "try", try+1)
	}
	if err := resErr("wait image", api.WaitForFence(dv.Device, fence, vapi.MaxTimeout)); err != nil {
		return 0, err
	}
	return idx, resErr("reset fence", api.ResetFence(dv.Device, fence))
}

// record records the frame commands for image idx
func (rn *Renderer) record(cmd vapi.CommandBuffer, idx uint32, dl *DrawList) {
	dv := rn.Dev
	api := dv.API
	sc := rn.Swap
	img := sc.Images[idx]
	Barrier(api, cmd, img, vapi.AspectColor, PresentToColor)
	area := vapi.Rect2D{Extent: sc.Extent}
	cc := dv.ClearColor
	api.CmdBeginRenderPass(cmd, sc.RenderPass, sc.Framebuffers[idx], area,
		[]vapi.ClearValue{vapi.ClearColor(cc[0], cc[1], cc[2], 1), vapi.ClearDepthStencil(1, 0)})
	api.CmdSetViewport(cmd, vapi.Viewport{Width: float32(sc.Extent.Width), Height: float32(sc.Extent.Height), MaxDepth: 1})
	api.CmdSetScissor(cmd, area)
	for _, bucket := range [][]Draw{dl.Opaque, dl.Alpha, dl.Overlay} {
		for i := range bucket {
			rn.draw(cmd, &bucket[i])
		}
	}
	api.CmdEndRenderPass(cmd)
	Barrier(api, cmd, img, vapi.AspectColor, ColorToPresent)
}

func (rn *Renderer) draw(cmd vapi.CommandBuffer, d *Draw) {
	api := rn.Dev.API
	api.CmdBindVertexBuffers(cmd, d.Buffers)
	d.Sprite.Draw(cmd)
	for _, fn := range d.Fans {
		api.CmdDraw(cmd, fn.Count, 1, fn.First, 0)
	}
}

// IsTransient returns true if err is a TransientPresentError, which is
// recovered from by resizing and rendering the next frame.
func IsTransient(err error) bool {
	var te *TransientPresentError
	return errors.As(err, &te)
}
