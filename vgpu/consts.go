// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "goki.dev/vsprite/vapi"

const (
	// SampleCount is the multisample count of the color and depth attachments
	SampleCount = vapi.Samples8

	// DepthFormat is the format of the depth buffer
	DepthFormat = vapi.FormatD16Unorm

	// TextureFormat is the format of all textures: 8 bit sRGB RGBA
	TextureFormat = vapi.FormatR8G8B8A8Srgb

	// VertexFormat is the format of every vertex attribute: 4 x float32
	VertexFormat = vapi.FormatR32G32B32A32Sfloat

	// VertexStride is the stride of every vertex buffer
	VertexStride = 16

	// MaxVertexBuffers is the number of vertex streams: position, texcoord, color
	MaxVertexBuffers = 3

	// MaxImageCount is the largest surface MinImageCount supported
	MaxImageCount = 2
)

// TextureCount is the number of textures bound by a Style
type TextureCount int32

const (
	// NoTexture styles bind only a uniform buffer
	NoTexture TextureCount = 0

	// OneTexture styles bind a uniform buffer and one sampled texture
	OneTexture TextureCount = 1

	// AllTextures styles bind only a sampled texture, no uniform
	AllTextures TextureCount = -1
)

func (tc TextureCount) String() string {
	switch tc {
	case NoTexture:
		return "NoTexture"
	case OneTexture:
		return "OneTexture"
	case AllTextures:
		return "AllTextures"
	}
	return "TextureCount(?)"
}

// HasUniform returns true if a uniform buffer is bound at binding 0
func (tc TextureCount) HasUniform() bool {
	return tc != AllTextures
}

// HasTexture returns true if a texture sampler is bound
func (tc TextureCount) HasTexture() bool {
	return tc != NoTexture
}

// Usage is the usage class of a Buffer
type Usage int32

const (
	// VertexUsage buffers hold vertex attributes
	VertexUsage Usage = iota

	// UniformUsage buffers hold per-sprite uniform data
	UniformUsage
)

func (us Usage) String() string {
	if us == UniformUsage {
		return "Uniform"
	}
	return "Vertex"
}

// BufferUsage returns the driver usage flags for the usage class
func (us Usage) BufferUsage() vapi.BufferUsage {
	if us == UniformUsage {
		return vapi.BufferUsageUniformBuffer
	}
	return vapi.BufferUsageVertexBuffer | vapi.BufferUsageIndexBuffer
}
