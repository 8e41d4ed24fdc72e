// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"log/slog"

	"goki.dev/vsprite/vapi"
)

// Swapchain holds the presentable images of the device surface, their
// views and framebuffers, plus the multisampled color and depth targets
// and the render pass they are drawn with. It is always built and
// destroyed as a whole.
type Swapchain struct {
	Dev        *Device         `desc:"device for the surface"`
	Swapchain  vapi.Swapchain  `desc:"swapchain handle"`
	Format     vapi.Format     `desc:"format of the presentable images: the first surface format"`
	ColorSpace vapi.ColorSpace `desc:"color space of the presentable images"`
	Extent     vapi.Extent2D   `desc:"size of all images"`

	// number of presentable images, from the surface MinImageCount
	ImageCount int `desc:"number of presentable images, from the surface MinImageCount"`

	Images       []vapi.Image       `desc:"presentable images, owned by the swapchain"`
	Views        []vapi.ImageView   `desc:"one color view per presentable image"`
	Multisample  *Image             `desc:"multisampled color target, resolved into the presentable image"`
	Depth        *Image             `desc:"multisampled depth buffer"`
	RenderPass   vapi.RenderPass    `desc:"render pass for all drawing"`
	Framebuffers []vapi.Framebuffer `desc:"one framebuffer per presentable image"`

	// size requested by the last Resize, used when the surface leaves
	// the extent to the swapchain
	Requested vapi.Extent2D `desc:"size requested by the last Resize, used when the surface leaves the extent to the swapchain"`
}

// NewSwapchain builds the swapchain for the device surface.
func NewSwapchain(dv *Device) (*Swapchain, error) {
	sc := &Swapchain{Dev: dv}
	if err := sc.build(0); err != nil {
		sc.Destroy()
		return nil, err
	}
	return sc, nil
}

// Resize sets the requested size and rebuilds the swapchain.
func (sc *Swapchain) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return &InitError{Op: "swapchain", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}
	sc.Requested = vapi.Extent2D{Width: uint32(width), Height: uint32(height)}
	return sc.Rebuild()
}

// Rebuild destroys everything built from the swapchain and builds it
// again from the current surface capabilities, handing the old
// swapchain to the new one before destroying it.
func (sc *Swapchain) Rebuild() error {
	if err := sc.Dev.WaitIdle(); err != nil {
		return err
	}
	sc.destroyTargets()
	old := sc.Swapchain
	sc.Swapchain = 0
	err := sc.build(old)
	if old != 0 {
		sc.Dev.API.DestroySwapchain(sc.Dev.Device, old)
	}
	if err != nil {
		sc.Destroy()
	}
	return err
}

// extent returns the swapchain extent for the capabilities
func (sc *Swapchain) extent(caps *vapi.SurfaceCaps) vapi.Extent2D {
	if caps.CurrentExtent.Width != vapi.UndefinedExtent {
		return caps.CurrentExtent
	}
	ext := sc.Requested
	if ext.Width == 0 || ext.Height == 0 {
		w, h := sc.Dev.Provider.Size()
		ext = vapi.Extent2D{Width: uint32(max(w, 1)), Height: uint32(max(h, 1))}
	}
	ext.Width = min(max(ext.Width, caps.MinExtent.Width), caps.MaxExtent.Width)
	ext.Height = min(max(ext.Height, caps.MinExtent.Height), caps.MaxExtent.Height)
	return ext
}

func (sc *Swapchain) build(old vapi.Swapchain) error {
	dv := sc.Dev
	api := dv.API
	caps, res := api.SurfaceCapabilities(dv.GPU, dv.Surface)
	if err := initErr("surface capabilities", res); err != nil {
		return err
	}
	if caps.MinImageCount > MaxImageCount {
		return &InitError{Op: "swapchain", Err: fmt.Errorf("surface needs %d images, at most %d supported", caps.MinImageCount, MaxImageCount)}
	}
	formats, res := api.SurfaceFormats(dv.GPU, dv.Surface)
	if err := initErr("surface formats", res); err != nil {
		return err
	}
	if len(formats) == 0 {
		return &InitError{Op: "swapchain", Err: fmt.Errorf("surface has no pixel formats")}
	}
	sc.Format = formats[0].Format
	sc.ColorSpace = formats[0].ColorSpace
	sc.Extent = sc.extent(&caps)

	swc, res := api.CreateSwapchain(dv.Device, &vapi.SwapchainInfo{
		Surface:        dv.Surface,
		MinImageCount:  caps.MinImageCount,
		Format:         sc.Format,
		ColorSpace:     sc.ColorSpace,
		Extent:         sc.Extent,
		Usage:          vapi.ImageUsageColorAttachment,
		PreTransform:   vapi.SurfaceTransformIdentity,
		CompositeAlpha: vapi.CompositeAlphaOpaque,
		PresentMode:    vapi.PresentModeFifo,
		Clipped:        true,
		OldSwapchain:   old,
	})
	if err := initErr("swapchain", res); err != nil {
		return err
	}
	sc.Swapchain = swc

	imgs, res := api.SwapchainImages(dv.Device, sc.Swapchain)
	if err := initErr("swapchain images", res); err != nil {
		return err
	}
	sc.Images = imgs
	sc.ImageCount = len(imgs)
	sc.Views = make([]vapi.ImageView, 0, len(imgs))
	for _, img := range imgs {
		if err := dv.TransitionImage(img, vapi.AspectColor, UndefinedToPresent); err != nil {
			return err
		}
		view, err := MakeView(dv, img, sc.Format)
		if err != nil {
			return err
		}
		sc.Views = append(sc.Views, view)
	}
	if err := sc.makeTargets(); err != nil {
		return err
	}
	if err := sc.makeRenderPass(); err != nil {
		return err
	}
	if err := sc.makeFramebuffers(); err != nil {
		return err
	}
	dv.Extent = sc.Extent
	slog.Info("vgpu: swapchain built", "width", sc.Extent.Width, "height", sc.Extent.Height, "images", sc.ImageCount, "format", int(sc.Format))
	return nil
}

// destroyTargets destroys everything but the swapchain handle:
// framebuffers, views, depth and multisample images, render pass.
func (sc *Swapchain) destroyTargets() {
	dv := sc.Dev
	sc.destroyFramebuffers()
	for _, view := range sc.Views {
		dv.API.DestroyImageView(dv.Device, view)
	}
	sc.Views = nil
	sc.Images = nil
	if sc.Depth != nil {
		sc.Depth.Destroy()
		sc.Depth = nil
	}
	if sc.Multisample != nil {
		sc.Multisample.Destroy()
		sc.Multisample = nil
	}
	if sc.RenderPass != 0 {
		dv.API.DestroyRenderPass(dv.Device, sc.RenderPass)
		sc.RenderPass = 0
	}
}

// Destroy destroys framebuffers, views, depth and multisample images,
// render pass and swapchain, in that order.
func (sc *Swapchain) Destroy() {
	sc.destroyTargets()
	if sc.Swapchain != 0 {
		sc.Dev.API.DestroySwapchain(sc.Dev.Device, sc.Swapchain)
		sc.Swapchain = 0
	}
	slog.Debug("vgpu: swapchain destroyed")
}
