// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"errors"
	"fmt"

	"goki.dev/vsprite/vgpu"
)

// ErrVertexData is returned for vertex data that is not a whole number
// of 4 float vertices, or fans outside of the vertices.
var ErrVertexData = errors.New("vrender: invalid vertex data")

// Model is vertex positions plus the triangle fans drawn from them
type Model struct {
	Buffer vgpu.Ref   `desc:"vertex buffer of vec4 positions"`
	Count  int        `desc:"number of vertices"`
	Fans   []vgpu.Fan `desc:"triangle fans drawn from the vertices"`
}

// TexCoords is per-vertex texture coordinates
type TexCoords struct {
	Buffer vgpu.Ref `desc:"vertex buffer of vec4 coordinates: u, v, 1, 1"`
	Count  int      `desc:"number of vertices"`
}

// Gradient is per-vertex colors
type Gradient struct {
	Buffer vgpu.Ref `desc:"vertex buffer of vec4 rgba colors"`
	Count  int      `desc:"number of vertices"`
}

// Texture is an RGBA texture. SetTexture with a new size replaces Ref.
type Texture struct {
	Ref    vgpu.Ref `desc:"texture in the device texture table"`
	Width  int      `desc:"width in pixels"`
	Height int      `desc:"height in pixels"`
}

// vertexCount returns the number of 4 float vertices in data
func vertexCount(data []float32) (int, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return 0, fmt.Errorf("%w: %d floats is not a whole number of vec4 vertices", ErrVertexData, len(data))
	}
	return len(data) / 4, nil
}

// vec4s packs data into vec4 vertices
func vec4s(data []float32) [][4]float32 {
	vs := make([][4]float32, len(data)/4)
	for i := range vs {
		copy(vs[i][:], data[i*4:])
	}
	return vs
}

// Model makes a model from vertices, 4 floats (x, y, z, w) each, drawn as
// the given fans. With no fans the vertices are drawn as one fan.
func (rn *Renderer) Model(vertices []float32, fans []vgpu.Fan) (*Model, error) {
	n, err := vertexCount(vertices)
	if err != nil {
		return nil, err
	}
	if len(fans) == 0 {
		fans = []vgpu.Fan{{First: 0, Count: uint32(n)}}
	}
	for _, fn := range fans {
		if fn.Count < 3 || fn.First > uint32(n) || fn.Count > uint32(n)-fn.First {
			return nil, fmt.Errorf("%w: fan %d+%d outside %d vertices", ErrVertexData, fn.First, fn.Count, n)
		}
	}
	ref, err := vgpu.NewBuffer(rn.Dev, vec4s(vertices), vgpu.VertexUsage)
	if err != nil {
		return nil, err
	}
	return &Model{Buffer: ref, Count: n, Fans: append([]vgpu.Fan(nil), fans...)}, nil
}

// TexCoords makes texture coordinates, 4 floats (u, v, 1, 1) per vertex
func (rn *Renderer) TexCoords(coords []float32) (*TexCoords, error) {
	n, err := vertexCount(coords)
	if err != nil {
		return nil, err
	}
	ref, err := vgpu.NewBuffer(rn.Dev, vec4s(coords), vgpu.VertexUsage)
	if err != nil {
		return nil, err
	}
	return &TexCoords{Buffer: ref, Count: n}, nil
}

// TexCoordsUV makes texture coordinates from (u, v) pairs
func (rn *Renderer) TexCoordsUV(uv [][2]float32) (*TexCoords, error) {
	coords := make([]float32, 0, len(uv)*4)
	for _, c := range uv {
		coords = append(coords, c[0], c[1], 1, 1)
	}
	return rn.TexCoords(coords)
}

// Gradient makes per-vertex colors, 4 floats (r, g, b, a) per vertex
func (rn *Renderer) Gradient(colors []float32) (*Gradient, error) {
	n, err := vertexCount(colors)
	if err != nil {
		return nil, err
	}
	ref, err := vgpu.NewBuffer(rn.Dev, vec4s(colors), vgpu.VertexUsage)
	if err != nil {
		return nil, err
	}
	return &Gradient{Buffer: ref, Count: n}, nil
}

// Texture makes a width x height texture from RGBA pixels
func (rn *Renderer) Texture(width, height int, pixels []byte) (*Texture, error) {
	ref, err := vgpu.NewTexture(rn.Dev, width, height, pixels)
	if err != nil {
		return nil, err
	}
	return &Texture{Ref: ref, Width: width, Height: height}, nil
}

// SetTexture replaces the texture pixels. If the size differs the
// texture is re-created: shapes made before keep drawing the old image,
// shapes made after use the new one.
func (rn *Renderer) SetTexture(tx *Texture, width, height int, pixels []byte) error {
	t, err := rn.Dev.Texture(tx.Ref)
	if err != nil {
		return err
	}
	if width == tx.Width && height == tx.Height {
		return t.Set(pixels)
	}
	ref, err := vgpu.NewTexture(rn.Dev, width, height, pixels)
	if err != nil {
		return err
	}
	if err := rn.Dev.Textures.Release(tx.Ref); err != nil {
		rn.Dev.Textures.Release(ref)
		return err
	}
	tx.Ref = ref
	tx.Width, tx.Height = width, height
	return nil
}

// DropModel releases the model. Its buffer lives on while shapes use it;
// the model itself can no longer make shapes.
func (rn *Renderer) DropModel(md *Model) error {
	err := rn.Dev.Buffers.Release(md.Buffer)
	md.Buffer = vgpu.Ref{}
	return err
}

// DropTexCoords releases the texture coordinates
func (rn *Renderer) DropTexCoords(tc *TexCoords) error {
	err := rn.Dev.Buffers.Release(tc.Buffer)
	tc.Buffer = vgpu.Ref{}
	return err
}

// DropGradient releases the gradient
func (rn *Renderer) DropGradient(gr *Gradient) error {
	err := rn.Dev.Buffers.Release(gr.Buffer)
	gr.Buffer = vgpu.Ref{}
	return err
}

// DropTexture releases the texture. Its image lives on while shapes use
// it; the texture itself can no longer be set or make shapes.
func (rn *Renderer) DropTexture(tx *Texture) error {
	err := rn.Dev.Textures.Release(tx.Ref)
	tx.Ref = vgpu.Ref{}
	return err
}
