// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"errors"
	"log/slog"
	"unsafe"

	"goki.dev/mat32/v2"
	"goki.dev/vsprite/vgpu"
)

// ErrDropped is returned for operations on a shape that was dropped
var ErrDropped = errors.New("vrender: shape was dropped")

// Kind is the kind of a shape, selecting its shaders and buffers
type Kind int32

const (
	// KindSolid shapes are one uniform color
	KindSolid Kind = iota

	// KindGradient shapes have a color per vertex
	KindGradient

	// KindTexture shapes sample a texture
	KindTexture

	// KindFaded shapes sample a texture with its alpha scaled by a fade factor
	KindFaded

	// KindTinted shapes sample a texture multiplied by a tint color
	KindTinted

	// KindComplex shapes have texture coordinates and a color per vertex
	KindComplex

	KindsN
)

var kindNames = [KindsN]string{"Solid", "Gradient", "Texture", "Faded", "Tinted", "Complex"}

func (k Kind) String() string {
	if k < 0 || k >= KindsN {
		return "Kind(?)"
	}
	return kindNames[k]
}

// kindStyle is the shader and layout of one shape kind
type kindStyle struct {
	shader   string
	textures vgpu.TextureCount
	buffers  int
}

var kindStyles = [KindsN]kindStyle{
	KindSolid:    {"solid", vgpu.NoTexture, 1},
	KindGradient: {"gradient", vgpu.NoTexture, 2},
	KindTexture:  {"texture", vgpu.OneTexture, 2},
	KindFaded:    {"faded", vgpu.OneTexture, 2},
	KindTinted:   {"tinted", vgpu.OneTexture, 2},
	KindComplex:  {"gradient", vgpu.OneTexture, 3},
}

// Bucket is the draw list bucket of a shape
type Bucket int32

const (
	// Opaque shapes are depth sorted nearest first
	Opaque Bucket = iota

	// Alpha shapes are blended, drawn farthest first after opaque shapes
	Alpha

	// Overlay shapes use neither camera nor fog, drawn last in order
	Overlay
)

func (bk Bucket) String() string {
	switch bk {
	case Opaque:
		return "Opaque"
	case Alpha:
		return "Alpha"
	case Overlay:
		return "Overlay"
	}
	return "Bucket(?)"
}

// Flags bits of the uniform
const (
	// FlagCamera applies the camera transform
	FlagCamera uint32 = 1 << iota

	// FlagFog applies fog
	FlagFog
)

// Uniform is the per-shape uniform block read by every shader
type Uniform struct {
	Model    mat32.Mat4 `desc:"model transform"`
	Camera   mat32.Mat4 `desc:"camera and projection transform"`
	Color    [4]float32 `desc:"solid color or tint"`
	FogColor [4]float32 `desc:"fog color: the clear color, alpha 1"`
	FogRange [2]float32 `desc:"fog near and far view depth"`
	Fade     float32    `desc:"alpha factor of faded shapes"`
	Flags    uint32     `desc:"FlagCamera and FlagFog bits"`
}

// Bytes returns the uniform as it is laid out in the uniform buffer
func (un *Uniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(un)), unsafe.Sizeof(*un))
}

// ShapeOpts are the options common to all shape kinds
type ShapeOpts struct {

	// alpha blend the shape
	Alpha bool `desc:"alpha blend the shape"`

	// apply fog to the shape
	Fog bool `desc:"apply fog to the shape"`

	// transform the shape by the camera
	Camera bool `desc:"transform the shape by the camera"`
}

// Bucket returns the bucket of a shape with these options: overlay
// without camera or fog, then alpha if blended, else opaque.
func (so ShapeOpts) Bucket() Bucket {
	switch {
	case !so.Camera && !so.Fog:
		return Overlay
	case so.Alpha:
		return Alpha
	}
	return Opaque
}

// Shape is a sprite drawn from 1 to 3 vertex buffers
type Shape struct {
	Kind    Kind         `desc:"kind of shape"`
	Opts    ShapeOpts    `desc:"options the shape was made with"`
	Bucket  Bucket       `desc:"draw list bucket"`
	Sprite  *vgpu.Sprite `desc:"sprite: descriptor set, uniform buffer, texture"`
	Buffers []vgpu.Ref   `desc:"vertex buffers, retained while the shape lives"`
	Fans    []vgpu.Fan   `desc:"triangle fans of the model"`
	Uniform Uniform      `desc:"current uniform contents"`
	dropped bool
}

// Transform returns the model transform of the shape
func (sh *Shape) Transform() mat32.Mat4 {
	return sh.Uniform.Model
}

// shapeInput is the data of a new shape, checked before any driver call
type shapeInput struct {
	kind    Kind
	opts    ShapeOpts
	model   *Model
	tc      *TexCoords
	grad    *Gradient
	tex     *Texture
	xform   mat32.Mat4
	color   [4]float32
	fade    float32
	buffers []vgpu.Ref
}

// check validates the handles and vertex counts of the input
func (in *shapeInput) check(dv *vgpu.Device) error {
	if in.model == nil {
		return ErrVertexData
	}
	counts := []int{in.model.Count}
	in.buffers = []vgpu.Ref{in.model.Buffer}
	if in.tc != nil {
		counts = append(counts, in.tc.Count)
		in.buffers = append(in.buffers, in.tc.Buffer)
	}
	if in.grad != nil {
		counts = append(counts, in.grad.Count)
		in.buffers = append(in.buffers, in.grad.Buffer)
	}
	if err := vgpu.CheckVertexCounts(counts...); err != nil {
		return err
	}
	for _, ref := range in.buffers {
		if _, err := dv.Buffer(ref); err != nil {
			return err
		}
	}
	if in.tex != nil {
		if _, err := dv.Texture(in.tex.Ref); err != nil {
			return err
		}
	}
	return nil
}

// ShapeSolid makes a shape of one color
func (rn *Renderer) ShapeSolid(md *Model, xf mat32.Mat4, color [4]float32, opts ShapeOpts) (*Shape, error) {
	return rn.newShape(&shapeInput{kind: KindSolid, opts: opts, model: md, xform: xf, color: color})
}

// ShapeGradient makes a shape with a color per vertex
func (rn *Renderer) ShapeGradient(md *Model, gr *Gradient, xf mat32.Mat4, opts ShapeOpts) (*Shape, error) {
	if gr == nil {
		return nil, ErrVertexData
	}
	return rn.newShape(&shapeInput{kind: KindGradient, opts: opts, model: md, grad: gr, xform: xf})
}

// ShapeTexture makes a textured shape
func (rn *Renderer) ShapeTexture(md *Model, tx *Texture, tc *TexCoords, xf mat32.Mat4, opts ShapeOpts) (*Shape, error) {
	if tx == nil || tc == nil {
		return nil, ErrVertexData
	}
	return rn.newShape(&shapeInput{kind: KindTexture, opts: opts, model: md, tex: tx, tc: tc, xform: xf})
}

// ShapeFaded makes a textured shape with its alpha scaled by fade.
// Faded shapes are always blended.
func (rn *Renderer) ShapeFaded(md *Model, tx *Texture, tc *TexCoords, xf mat32.Mat4, fade float32, opts ShapeOpts) (*Shape, error) {
	if tx == nil || tc == nil {
		return nil, ErrVertexData
	}
	opts.Alpha = true
	return rn.newShape(&shapeInput{kind: KindFaded, opts: opts, model: md, tex: tx, tc: tc, xform: xf, fade: fade})
}

// ShapeTinted makes a textured shape multiplied by the tint color
func (rn *Renderer) ShapeTinted(md *Model, tx *Texture, tc *TexCoords, xf mat32.Mat4, tint [4]float32, opts ShapeOpts) (*Shape, error) {
	if tx == nil || tc == nil {
		return nil, ErrVertexData
	}
	return rn.newShape(&shapeInput{kind: KindTinted, opts: opts, model: md, tex: tx, tc: tc, xform: xf, color: tint})
}

// ShapeComplex makes a textured shape that also has a color per vertex
func (rn *Renderer) ShapeComplex(md *Model, tx *Texture, tc *TexCoords, gr *Gradient, xf mat32.Mat4, opts ShapeOpts) (*Shape, error) {
	if tx == nil || tc == nil || gr == nil {
		return nil, ErrVertexData
	}
	return rn.newShape(&shapeInput{kind: KindComplex, opts: opts, model: md, tex: tx, tc: tc, grad: gr, xform: xf})
}

func (rn *Renderer) newShape(in *shapeInput) (*Shape, error) {
	dv := rn.Dev
	if err := in.check(dv); err != nil {
		return nil, err
	}
	sh := &Shape{Kind: in.kind, Opts: in.opts, Bucket: in.opts.Bucket(), Fans: in.model.Fans}
	sh.Uniform = Uniform{Model: in.xform, Color: in.color, Fade: in.fade}
	if in.opts.Camera {
		sh.Uniform.Flags |= FlagCamera
	}
	if in.opts.Fog {
		sh.Uniform.Flags |= FlagFog
	}
	rn.scene(&sh.Uniform)

	var tex vgpu.Ref
	if in.tex != nil {
		tex = in.tex.Ref
	}
	sp, err := vgpu.NewSprite(dv, rn.Style(in.kind, in.opts.Alpha), sh.Uniform.Bytes(), tex)
	if err != nil {
		return nil, err
	}
	sh.Sprite = sp
	for _, ref := range in.buffers {
		dv.Buffers.Retain(ref)
	}
	sh.Buffers = in.buffers
	rn.shapes[sh.Bucket] = append(rn.shapes[sh.Bucket], sh)
	slog.Debug("vrender: shape", "kind", sh.Kind, "bucket", sh.Bucket)
	return sh, nil
}

// DropShape removes the shape from the scene and releases its sprite
// and buffers. The style it was drawn with is untouched.
func (rn *Renderer) DropShape(sh *Shape) error {
	if sh.dropped {
		return ErrDropped
	}
	list := rn.shapes[sh.Bucket]
	for i, s := range list {
		if s == sh {
			rn.shapes[sh.Bucket] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	sh.destroy(rn.Dev)
	return nil
}

func (sh *Shape) destroy(dv *vgpu.Device) {
	sh.dropped = true
	sh.Sprite.Destroy()
	for _, ref := range sh.Buffers {
		dv.Buffers.Release(ref)
	}
	sh.Buffers = nil
}

// Transform sets the model transform of the shape
func (rn *Renderer) Transform(sh *Shape, xf mat32.Mat4) error {
	if sh.dropped {
		return ErrDropped
	}
	sh.Uniform.Model = xf
	return sh.Sprite.SetUniform(sh.Uniform.Bytes())
}

// Shapes returns the shapes of the bucket, in insertion order
func (rn *Renderer) Shapes(bk Bucket) []*Shape {
	return rn.shapes[bk]
}
