// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	"goki.dev/vsprite/vapi"
)

// Texture is an RGBA texture sampled by sprites with the device sampler.
// If the device can sample linear images, the texture is one host-visible
// linear image written directly. Otherwise pixels are written to a linear
// staging image and copied into an optimal device-local image.
// Either way the sampled image ends in the General layout.
type Texture struct {
	Width   int    `desc:"width in pixels"`
	Height  int    `desc:"height in pixels"`
	Image   *Image `desc:"sampled image"`
	Staging *Image `desc:"host-visible staging image, nil when sampling linear images directly"`
}

// NewTexture makes a texture of the given size from packed RGBA pixels,
// adds it to the device texture table and returns its reference.
func NewTexture(dv *Device, width, height int, pixels []byte) (Ref, error) {
	tx, err := MakeTexture(dv, width, height, pixels)
	if err != nil {
		return Ref{}, err
	}
	return dv.Textures.Add(tx), nil
}

// MakeTexture makes a texture not managed by a table.
func MakeTexture(dv *Device, width, height int, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, &ResourceError{Op: "texture", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}
	tx := &Texture{Width: width, Height: height}
	if err := tx.alloc(dv); err != nil {
		tx.Destroy()
		return nil, err
	}
	if err := tx.Set(pixels); err != nil {
		tx.Destroy()
		return nil, err
	}
	return tx, nil
}

func (tx *Texture) alloc(dv *Device) error {
	opts := ImageOpts{Width: uint32(tx.Width), Height: uint32(tx.Height), Format: TextureFormat}
	if dv.LinearSampling {
		opts.Tiling = vapi.TilingLinear
		opts.Usage = vapi.ImageUsageSampled
		opts.Layout = vapi.LayoutPreinitialized
		opts.Props = HostMemory
		img, err := NewImage(dv, opts)
		if err != nil {
			return err
		}
		tx.Image = img
		return nil
	}
	stg := opts
	stg.Tiling = vapi.TilingLinear
	stg.Usage = vapi.ImageUsageTransferSrc
	stg.Layout = vapi.LayoutPreinitialized
	stg.Props = HostMemory
	img, err := NewImage(dv, stg)
	if err != nil {
		return err
	}
	tx.Staging = img

	opts.Tiling = vapi.TilingOptimal
	opts.Usage = vapi.ImageUsageTransferDst | vapi.ImageUsageSampled
	opts.Layout = vapi.LayoutUndefined
	opts.Props = vapi.MemoryDeviceLocal
	img, err = NewImage(dv, opts)
	if err != nil {
		return err
	}
	tx.Image = img
	return nil
}

// View returns the view bound into descriptor sets
func (tx *Texture) View() vapi.ImageView {
	return tx.Image.View
}

// Set replaces the texture contents with pixels, which must be exactly
// Width * Height * 4 bytes of RGBA.
func (tx *Texture) Set(pixels []byte) error {
	if len(pixels) != tx.Width*tx.Height*4 {
		return ErrPixelLength
	}
	if tx.Staging == nil {
		if err := tx.Image.WritePixels(pixels, 4); err != nil {
			return err
		}
		if tx.Image.Current == vapi.LayoutGeneral {
			return nil
		}
		return tx.Image.Transition(Transition{New: vapi.LayoutGeneral,
			SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageFragmentShader,
			SrcAccess: vapi.AccessHostWrite, DstAccess: vapi.AccessShaderRead})
	}
	if err := tx.Staging.WritePixels(pixels, 4); err != nil {
		return err
	}
	return tx.upload()
}

// upload copies the staging image into the sampled image with one
// one-shot command, leaving both images in General. The staging image
// stays in General so the host may write it again.
func (tx *Texture) upload() error {
	stg := tx.Staging
	img := tx.Image
	dv := img.Dev
	toSrc := Transition{Old: stg.Current, New: vapi.LayoutGeneral,
		SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageTransfer,
		SrcAccess: vapi.AccessHostWrite, DstAccess: vapi.AccessTransferRead}
	toDst := Transition{Old: img.Current, New: vapi.LayoutTransferDstOptimal,
		SrcStage: vapi.StageTopOfPipe, DstStage: vapi.StageTransfer,
		DstAccess: vapi.AccessTransferWrite}
	toRead := Transition{Old: vapi.LayoutTransferDstOptimal, New: vapi.LayoutGeneral,
		SrcStage: vapi.StageTransfer, DstStage: vapi.StageFragmentShader,
		SrcAccess: vapi.AccessTransferWrite, DstAccess: vapi.AccessShaderRead}
	err := dv.OneShot(func(cmd vapi.CommandBuffer) {
		Barrier(dv.API, cmd, stg.Image, vapi.AspectColor, toSrc)
		Barrier(dv.API, cmd, img.Image, vapi.AspectColor, toDst)
		dv.API.CmdCopyImage(cmd, stg.Image, vapi.LayoutGeneral, img.Image, vapi.LayoutTransferDstOptimal,
			uint32(tx.Width), uint32(tx.Height))
		Barrier(dv.API, cmd, img.Image, vapi.AspectColor, toRead)
	})
	if err != nil {
		return err
	}
	stg.Current = vapi.LayoutGeneral
	img.Current = vapi.LayoutGeneral
	return nil
}

// Destroy destroys the images
func (tx *Texture) Destroy() {
	if tx.Staging != nil {
		tx.Staging.Destroy()
		tx.Staging = nil
	}
	if tx.Image != nil {
		tx.Image.Destroy()
		tx.Image = nil
	}
}

// Texture returns the texture for rf from the device texture table
func (dv *Device) Texture(rf Ref) (*Texture, error) {
	return dv.Textures.Get(rf)
}
