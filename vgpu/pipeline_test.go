// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vapi/vstub"
)

func TestStyleBindings(t *testing.T) {
	tests := []struct {
		tc    TextureCount
		types []vapi.DescriptorType
		nums  []uint32
	}{
		{NoTexture, []vapi.DescriptorType{vapi.DescriptorUniformBuffer}, []uint32{0}},
		{OneTexture, []vapi.DescriptorType{vapi.DescriptorUniformBuffer, vapi.DescriptorCombinedImageSampler}, []uint32{0, 1}},
		{AllTextures, []vapi.DescriptorType{vapi.DescriptorCombinedImageSampler}, []uint32{0}},
	}
	for _, tt := range tests {
		t.Run(tt.tc.String(), func(t *testing.T) {
			st := &Style{StyleOpts: StyleOpts{Textures: tt.tc}}
			bs := st.Bindings()
			require.Len(t, bs, len(tt.types))
			for i, b := range bs {
				assert.Equal(t, tt.types[i], b.Type)
				assert.Equal(t, tt.nums[i], b.Binding)
				assert.Equal(t, uint32(1), b.Count)
				if b.Type == vapi.DescriptorUniformBuffer {
					assert.Equal(t, vapi.ShaderVertex|vapi.ShaderFragment, b.Stages)
				} else {
					assert.Equal(t, vapi.ShaderFragment, b.Stages)
					assert.Equal(t, b.Binding, st.TextureBinding())
				}
			}
			assert.Len(t, st.PoolSizes(), len(tt.types))
		})
	}
}

func TestStylePipeline(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	base := d.Live()
	st, err := NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv, Textures: OneTexture, VertexBuffers: 2, Alpha: true})
	require.NoError(t, err)
	assert.Equal(t, base+3, d.Live(), "pipeline and layouts, shader modules destroyed: %v", d.LiveKinds())
	assert.Zero(t, d.LiveByKind()["ShaderModule"])

	pi := d.Info(uint64(st.Pipeline)).(*vapi.GraphicsPipelineInfo)
	assert.Equal(t, vapi.TopologyTriangleFan, pi.Topology)
	assert.Equal(t, vapi.CullBack, pi.CullMode)
	assert.Equal(t, vapi.FrontFaceCounterClockwise, pi.FrontFace)
	assert.Equal(t, SampleCount, pi.Samples)
	assert.True(t, pi.DepthTest)
	assert.True(t, pi.DepthWrite)
	assert.Equal(t, vapi.CompareLessOrEqual, pi.DepthCompare)
	assert.Equal(t, []vapi.DynamicState{vapi.DynamicViewport, vapi.DynamicScissor}, pi.DynamicStates)
	require.Len(t, pi.Bindings, 2)
	assert.Equal(t, uint32(VertexStride), pi.Bindings[1].Stride)
	assert.Equal(t, VertexFormat, pi.Attributes[1].Format)
	assert.Equal(t, uint32(1), pi.Attributes[1].Location)
	assert.True(t, pi.Blend.Enable)
	assert.Equal(t, vapi.BlendSrcAlpha, pi.Blend.SrcColor)
	assert.Equal(t, vapi.BlendOneMinusSrcAlpha, pi.Blend.DstColor)
	assert.Equal(t, vapi.BlendOne, pi.Blend.DstAlpha)
	assert.Equal(t, vapi.ColorRGBA, pi.Blend.WriteMask)

	opaque := solidStyle(t, dv, sc)
	oi := d.Info(uint64(opaque.Pipeline)).(*vapi.GraphicsPipelineInfo)
	assert.False(t, oi.Blend.Enable)
	assert.Equal(t, vapi.ColorRGB, oi.Blend.WriteMask)

	st.Destroy()
	opaque.Destroy()
	assert.Equal(t, base, d.Live())
	assert.Empty(t, d.Errors())
}

func TestStyleErrors(t *testing.T) {
	_, dv, sc := newTestSwapchain(t, vstub.Config{})
	var re *ResourceError
	_, err := NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv, VertexBuffers: 4})
	assert.ErrorAs(t, err, &re)
	_, err = NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv})
	assert.ErrorAs(t, err, &re)

	needChecks(t)
	_, err = NewStyle(dv, sc.RenderPass, StyleOpts{Vert: []byte{1, 2, 3}, Frag: spirv, VertexBuffers: 1})
	assert.ErrorAs(t, err, &re)
}

func TestStyleRebuild(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st := solidStyle(t, dv, sc)
	sp, err := NewSprite(dv, st, make([]byte, 64), Ref{})
	require.NoError(t, err)
	defer sp.Destroy()
	layout := st.SetLayout
	live := d.Live()

	require.NoError(t, sc.Resize(1280, 720))
	require.NoError(t, st.Rebuild(sc.RenderPass))
	assert.Equal(t, layout, st.SetLayout, "set layout kept")
	assert.True(t, d.IsLive(uint64(sp.Set)), "sprite descriptor set kept")
	pi := d.Info(uint64(st.Pipeline)).(*vapi.GraphicsPipelineInfo)
	assert.Equal(t, sc.RenderPass, pi.RenderPass)
	assert.Equal(t, live, d.Live())
	assert.Empty(t, d.Errors())
}

func TestStyleSurvivesSprite(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st, err := NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv, Textures: OneTexture, VertexBuffers: 2})
	require.NoError(t, err)
	defer st.Destroy()
	tex, err := NewTexture(dv, 2, 2, make([]byte, 16))
	require.NoError(t, err)
	base := d.Live()

	sp, err := NewSprite(dv, st, make([]byte, 80), tex)
	require.NoError(t, err)
	assert.Equal(t, 2, dv.Textures.Refs(tex), "sprite retains texture")
	assert.Equal(t, 1, dv.Buffers.Live())

	writes := d.Writes(sp.Set)
	require.Len(t, writes, 2)
	assert.Equal(t, vapi.DescriptorUniformBuffer, writes[0].Type)
	assert.Equal(t, vapi.WholeSize, writes[0].Range)
	assert.Equal(t, uint32(1), writes[1].Binding)
	assert.Equal(t, vapi.LayoutGeneral, writes[1].ImageLayout)
	assert.Equal(t, dv.Sampler, writes[1].Sampler)

	pool := d.PoolInfo(sp.Pool)
	require.NotNil(t, pool)
	assert.Equal(t, uint32(1), pool.MaxSets)

	sp.Destroy()
	assert.Equal(t, base, d.Live(), "sprite released everything it made: %v", d.LiveKinds())
	assert.Equal(t, 1, dv.Textures.Refs(tex))
	assert.True(t, d.IsLive(uint64(st.Pipeline)), "style untouched")

	sp, err = NewSprite(dv, st, make([]byte, 80), tex)
	require.NoError(t, err)
	require.NoError(t, sp.SetUniform(make([]byte, 80)))
	assert.ErrorIs(t, sp.SetUniform(make([]byte, 8)), ErrBufferLength)
	sp.Destroy()

	require.NoError(t, dv.Textures.Release(tex))
	assert.Zero(t, dv.Textures.Live())
	assert.Empty(t, d.Errors())
}

func TestSpriteTextureOnly(t *testing.T) {
	d, dv, sc := newTestSwapchain(t, vstub.Config{})
	st, err := NewStyle(dv, sc.RenderPass, StyleOpts{Vert: spirv, Frag: spirv, Textures: AllTextures, VertexBuffers: 2})
	require.NoError(t, err)
	defer st.Destroy()

	_, err = NewSprite(dv, st, nil, Ref{Index: 3, Gen: 9})
	assert.ErrorIs(t, err, ErrStaleRef)

	tex, err := NewTexture(dv, 1, 1, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	sp, err := NewSprite(dv, st, nil, tex)
	require.NoError(t, err)
	assert.True(t, sp.Uniform.IsNil())
	writes := d.Writes(sp.Set)
	require.Len(t, writes, 1)
	assert.Equal(t, uint32(0), writes[0].Binding)
	assert.Equal(t, vapi.DescriptorCombinedImageSampler, writes[0].Type)
	sp.Destroy()
	dv.Textures.Release(tex)
	assert.Empty(t, d.Errors())
}
