// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "goki.dev/vsprite/vapi"

// ImageOpts configure a new Image
type ImageOpts struct {
	Width   uint32              `desc:"width in pixels"`
	Height  uint32              `desc:"height in pixels"`
	Format  vapi.Format         `desc:"pixel format"`
	Tiling  vapi.ImageTiling    `desc:"optimal for device-only images, linear for host-written ones"`
	Usage   vapi.ImageUsage     `desc:"usage flags"`
	Layout  vapi.ImageLayout    `desc:"initial layout: Undefined, or Preinitialized for host-written images"`
	Props   vapi.MemoryProperty `desc:"required memory properties"`
	Samples vapi.SampleCount    `desc:"sample count, 1 if zero"`
}

// Aspect returns the aspect of images with the format
func (io *ImageOpts) Aspect() vapi.ImageAspect {
	if io.Format.IsDepth() {
		return vapi.AspectDepth
	}
	return vapi.AspectColor
}

// Image is an image with its own memory and a 2D view.
type Image struct {
	ImageOpts
	Dev    *Device           `desc:"device the image lives on"`
	Image  vapi.Image        `desc:"image handle"`
	View   vapi.ImageView    `desc:"2D view of the whole image"`
	Memory vapi.DeviceMemory `desc:"memory bound to the image"`

	// current layout, tracked across transitions
	Current vapi.ImageLayout `desc:"current layout, tracked across transitions"`
}

// NewImage makes an image, allocates and binds its memory, and makes
// its view. Color images get an R,G,B,A swizzle; depth images Identity.
func NewImage(dv *Device, opts ImageOpts) (*Image, error) {
	if opts.Samples == 0 {
		opts.Samples = vapi.Samples1
	}
	im := &Image{ImageOpts: opts, Dev: dv, Current: opts.Layout}
	if err := im.alloc(); err != nil {
		im.Destroy()
		return nil, err
	}
	return im, nil
}

func (im *Image) alloc() error {
	dv := im.Dev
	api := dv.API
	img, res := api.CreateImage(dv.Device, &vapi.ImageInfo{Width: im.Width, Height: im.Height,
		Format: im.Format, Tiling: im.Tiling, Usage: im.Usage, InitialLayout: im.Layout, Samples: im.Samples})
	if err := resErr("image", res); err != nil {
		return err
	}
	im.Image = img
	mem, err := dv.AllocMemory(api.ImageMemoryRequirements(dv.Device, img), im.Props)
	if err != nil {
		return err
	}
	im.Memory = mem
	if err := resErr("bind image memory", api.BindImageMemory(dv.Device, img, mem)); err != nil {
		return err
	}
	view, err := MakeView(dv, img, im.Format)
	if err != nil {
		return err
	}
	im.View = view
	return nil
}

// MakeView makes a 2D view of the whole image, for an image owned elsewhere.
func MakeView(dv *Device, img vapi.Image, format vapi.Format) (vapi.ImageView, error) {
	info := &vapi.ImageViewInfo{Image: img, Format: format, Aspect: vapi.AspectColor,
		Swizzle: [4]vapi.ComponentSwizzle{vapi.SwizzleR, vapi.SwizzleG, vapi.SwizzleB, vapi.SwizzleA}}
	if format.IsDepth() {
		info.Aspect = vapi.AspectDepth
		info.Swizzle = [4]vapi.ComponentSwizzle{}
	}
	view, res := dv.API.CreateImageView(dv.Device, info)
	if err := resErr("image view", res); err != nil {
		return 0, err
	}
	return view, nil
}

// Transition applies a layout transition with a one-shot command,
// recording the new layout.
func (im *Image) Transition(tr Transition) error {
	tr.Old = im.Current
	if err := im.Dev.TransitionImage(im.Image, im.Aspect(), tr); err != nil {
		return err
	}
	im.Current = tr.New
	return nil
}

// RowPitch returns the bytes per row of a linear image
func (im *Image) RowPitch() uint64 {
	lay := im.Dev.API.ImageSubresourceLayout(im.Dev.Device, im.Image, im.Aspect())
	return lay.RowPitch
}

// WritePixels writes tightly packed rows of bpp-byte pixels into the
// memory of a linear host-visible image, honoring the row pitch.
func (im *Image) WritePixels(pix []byte, bpp int) error {
	dv := im.Dev
	lay := dv.API.ImageSubresourceLayout(dv.Device, im.Image, im.Aspect())
	ptr, res := dv.API.MapMemory(dv.Device, im.Memory, lay.Offset, lay.Size)
	if err := resErr("map image", res); err != nil {
		return err
	}
	defer dv.API.UnmapMemory(dv.Device, im.Memory)
	row := int(im.Width) * bpp
	pitch := int(lay.RowPitch)
	if pitch == row {
		copy(ptr, pix)
		return nil
	}
	for y := 0; y < int(im.Height); y++ {
		copy(ptr[y*pitch:y*pitch+row], pix[y*row:(y+1)*row])
	}
	return nil
}

// Destroy destroys the view and image and frees the memory
func (im *Image) Destroy() {
	dv := im.Dev
	if im.View != 0 {
		dv.API.DestroyImageView(dv.Device, im.View)
		im.View = 0
	}
	if im.Image != 0 {
		dv.API.DestroyImage(dv.Device, im.Image)
		im.Image = 0
	}
	if im.Memory != 0 {
		dv.API.FreeMemory(dv.Device, im.Memory)
		im.Memory = 0
	}
}
