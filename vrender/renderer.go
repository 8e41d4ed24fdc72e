// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vrender draws solid, gradient, textured, faded, tinted and
// complex shapes with vgpu: the client side of the sprite renderer.
//
// A Renderer owns the device, swapchain and one Style per shape kind
// and blending mode. Models, texture coordinates, gradients and
// textures are made once and shared by any number of Shapes. Update
// draws and presents one frame of all shapes.
package vrender

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"goki.dev/mat32/v2"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vgpu"
)

// Options are options for New
type Options struct {

	// application name passed to the driver
	AppName string `desc:"application name passed to the driver"`

	// driver layers to enable, e.g., VK_LAYER_KHRONOS_validation
	Layers []string `desc:"driver layers to enable, e.g., VK_LAYER_KHRONOS_validation"`

	// vertical field of view in degrees, DefaultFov if 0
	Fov float32 `desc:"vertical field of view in degrees, DefaultFov if 0"`

	// shader code, ShaderSource if nil
	Shaders fs.FS `desc:"shader code, ShaderSource if nil"`
}

// maxFog is the fog range when there is no fog
const maxFog = math32.MaxFloat32

// FogRange is the view depth range over which fog goes from none to full
type FogRange struct {
	Near float32 `toml:"near" yaml:"near"`
	Far  float32 `toml:"far" yaml:"far"`
}

// Renderer is a window of shapes. It is not safe for concurrent use.
type Renderer struct {
	Dev    *vgpu.Device    `desc:"device"`
	Swap   *vgpu.Swapchain `desc:"swapchain of the window"`
	Frames *vgpu.Renderer  `desc:"frame renderer"`

	// vertical field of view in degrees
	Fov float32 `desc:"vertical field of view in degrees"`

	// projection for the current aspect ratio
	Projection mat32.Mat4 `desc:"projection for the current aspect ratio"`

	CameraPos mat32.Vec3 `desc:"camera position"`
	CameraRot mat32.Vec3 `desc:"camera euler rotation, radians"`

	camera mat32.Mat4
	fog    [2]float32
	styles [KindsN][2]*vgpu.Style
	shapes [3][]*Shape
	last   time.Time
}

// New makes the device, swapchain and styles for the window surface
func New(api vapi.API, sp vgpu.SurfaceProvider, opts *Options) (*Renderer, error) {
	if opts == nil {
		opts = &Options{}
	}
	dv, err := vgpu.NewDevice(api, sp, &vgpu.DeviceOpts{AppName: opts.AppName, Layers: opts.Layers})
	if err != nil {
		return nil, err
	}
	rn := &Renderer{Dev: dv, Fov: opts.Fov}
	if rn.Fov == 0 {
		rn.Fov = DefaultFov
	}
	if err := rn.init(opts); err != nil {
		rn.Destroy()
		return nil, err
	}
	return rn, nil
}

func (rn *Renderer) init(opts *Options) error {
	sc, err := vgpu.NewSwapchain(rn.Dev)
	if err != nil {
		return err
	}
	rn.Swap = sc
	rn.Frames = vgpu.NewRenderer(rn.Dev, sc)
	src := opts.Shaders
	if src == nil {
		src = ShaderSource
	}
	if err := rn.makeStyles(src); err != nil {
		return err
	}
	rn.fog = [2]float32{maxFog, maxFog}
	rn.setProjection()
	rn.last = time.Now()
	return nil
}

// makeStyles makes an opaque and a blended style for each kind,
// except faded shapes which are always blended.
func (rn *Renderer) makeStyles(src fs.FS) error {
	shaders := map[string]Shaders{}
	for k := KindSolid; k < KindsN; k++ {
		ks := kindStyles[k]
		sh, ok := shaders[ks.shader]
		if !ok {
			var err error
			sh, err = LoadShaders(src, ks.shader)
			if err != nil {
				return err
			}
			shaders[ks.shader] = sh
		}
		for a, alpha := range []bool{false, true} {
			if k == KindFaded && !alpha {
				continue
			}
			st, err := vgpu.NewStyle(rn.Dev, rn.Swap.RenderPass, vgpu.StyleOpts{Vert: sh.Vert, Frag: sh.Frag,
				Textures: ks.textures, VertexBuffers: ks.buffers, Alpha: alpha})
			if err != nil {
				return err
			}
			rn.styles[k][a] = st
		}
	}
	return nil
}

// Style returns the style shapes of the kind are drawn with
func (rn *Renderer) Style(k Kind, alpha bool) *vgpu.Style {
	if alpha || k == KindFaded {
		return rn.styles[k][1]
	}
	return rn.styles[k][0]
}

// setProjection updates the projection for the swapchain aspect
// ratio, and the camera matrix with it.
func (rn *Renderer) setProjection() {
	ext := rn.Swap.Extent
	rn.Projection = Projection(float32(ext.Width)/float32(ext.Height), rn.Fov)
	rn.camera = CameraMatrix(rn.Projection, rn.CameraPos, rn.CameraRot)
}

// CameraMatrix returns the current camera and projection transform
func (rn *Renderer) CameraMatrix() mat32.Mat4 {
	return rn.camera
}

// scene sets the camera and fog of the uniform
func (rn *Renderer) scene(un *Uniform) {
	cc := rn.Dev.ClearColor
	un.Camera = rn.camera
	un.FogColor = [4]float32{cc[0], cc[1], cc[2], 1}
	un.FogRange = rn.fog
}

// refresh rewrites the uniforms of all shapes after a change of
// camera, fog or clear color.
func (rn *Renderer) refresh() error {
	var errs []error
	for _, list := range rn.shapes {
		for _, sh := range list {
			rn.scene(&sh.Uniform)
			if err := sh.Sprite.SetUniform(sh.Uniform.Bytes()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Color sets the background color, which is also the fog color
func (rn *Renderer) Color(r, g, b float32) error {
	rn.Dev.SetClearColor(r, g, b)
	return rn.refresh()
}

// Camera sets the camera position and euler rotation in radians
func (rn *Renderer) Camera(pos, rot mat32.Vec3) error {
	rn.CameraPos = pos
	rn.CameraRot = rot
	rn.camera = CameraMatrix(rn.Projection, pos, rot)
	return rn.refresh()
}

// Fog sets the fog range of shapes made with fog, nil for no fog
func (rn *Renderer) Fog(fr *FogRange) error {
	if fr == nil {
		rn.fog = [2]float32{maxFog, maxFog}
	} else {
		rn.fog = [2]float32{fr.Near, fr.Far}
	}
	return rn.refresh()
}

// Resize rebuilds the swapchain at the new window size, and the styles
// against its render pass. Shapes are kept as they are.
func (rn *Renderer) Resize(width, height int) error {
	if err := rn.Swap.Resize(width, height); err != nil {
		return err
	}
	return rn.rebuilt()
}

// rebuilt updates everything that depends on the swapchain after a rebuild
func (rn *Renderer) rebuilt() error {
	for _, sts := range rn.styles {
		for _, st := range sts {
			if st == nil {
				continue
			}
			if err := st.Rebuild(rn.Swap.RenderPass); err != nil {
				return err
			}
		}
	}
	rn.setProjection()
	return rn.refresh()
}

// DrawList returns the draw list of all shapes, depth sorted
func (rn *Renderer) DrawList() (*vgpu.DrawList, error) {
	dl := &vgpu.DrawList{}
	for bk, list := range rn.shapes {
		for _, sh := range list {
			d := vgpu.Draw{Sprite: sh.Sprite, Fans: sh.Fans}
			for _, ref := range sh.Buffers {
				bf, err := rn.Dev.Buffer(ref)
				if err != nil {
					return nil, err
				}
				d.Buffers = append(d.Buffers, bf.Buffer)
			}
			switch Bucket(bk) {
			case Opaque:
				d.Dist = Dist(&sh.Uniform.Model, rn.CameraPos)
				dl.Opaque = append(dl.Opaque, d)
			case Alpha:
				d.Dist = Dist(&sh.Uniform.Model, rn.CameraPos)
				dl.Alpha = append(dl.Alpha, d)
			default:
				dl.Overlay = append(dl.Overlay, d)
			}
		}
	}
	dl.ZSort()
	return dl, nil
}

// Update draws and presents one frame of all shapes, and returns the
// time in seconds since the previous Update. A swapchain that stays out
// of date is rebuilt and the frame rendered again.
func (rn *Renderer) Update() (float32, error) {
	now := time.Now()
	dt := float32(now.Sub(rn.last).Seconds())
	rn.last = now
	dl, err := rn.DrawList()
	if err != nil {
		return dt, err
	}
	err = rn.Frames.Frame(dl)
	if vgpu.IsTransient(err) {
		slog.Debug("vrender: rebuilding out of date swapchain", "err", err)
		if err = rn.Swap.Rebuild(); err != nil {
			return dt, err
		}
		if err = rn.rebuilt(); err != nil {
			return dt, err
		}
		err = rn.Frames.Frame(dl)
	}
	return dt, err
}

// Destroy drops all shapes and destroys the styles, swapchain and device
func (rn *Renderer) Destroy() {
	if rn.Dev == nil {
		return
	}
	rn.Dev.WaitIdle()
	for bk, list := range rn.shapes {
		for _, sh := range list {
			sh.destroy(rn.Dev)
		}
		rn.shapes[bk] = nil
	}
	for k := range rn.styles {
		for a, st := range rn.styles[k] {
			if st != nil {
				st.Destroy()
				rn.styles[k][a] = nil
			}
		}
	}
	if rn.Swap != nil {
		rn.Swap.Destroy()
		rn.Swap = nil
	}
	rn.Dev.Destroy()
	rn.Dev = nil
}

// Must returns v, panicking if err is not nil
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
