// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	"goki.dev/vsprite/vapi"
)

// StyleOpts configure a Style
type StyleOpts struct {
	Vert []byte `desc:"vertex shader SPIR-V code"`
	Frag []byte `desc:"fragment shader SPIR-V code"`

	// textures bound: none (uniform only), one (uniform + texture), or all (texture only)
	Textures TextureCount `desc:"textures bound: none (uniform only), one (uniform + texture), or all (texture only)"`

	// number of vertex buffers, 1 to MaxVertexBuffers, each a stream of vec4
	VertexBuffers int `desc:"number of vertex buffers, 1 to MaxVertexBuffers, each a stream of vec4"`

	// alpha blend, and write destination alpha
	Alpha bool `desc:"alpha blend, and write destination alpha"`
}

// Style is a graphics pipeline plus its layouts: the shared, immutable
// part of drawing a class of sprites. Sprites allocate their descriptor
// sets against SetLayout, which survives Rebuild.
type Style struct {
	StyleOpts
	Dev       *Device                  `desc:"device the style lives on"`
	Pipeline  vapi.Pipeline            `desc:"graphics pipeline"`
	Layout    vapi.PipelineLayout      `desc:"pipeline layout: the single descriptor set, no push constants"`
	SetLayout vapi.DescriptorSetLayout `desc:"descriptor set layout for the sprites of this style"`
}

// NewStyle makes the descriptor set layout, pipeline layout and
// pipeline for the render pass.
func NewStyle(dv *Device, rp vapi.RenderPass, opts StyleOpts) (*Style, error) {
	if opts.VertexBuffers < 1 || opts.VertexBuffers > MaxVertexBuffers {
		return nil, &ResourceError{Op: "style", Err: fmt.Errorf("%d vertex buffers, must be 1 to %d", opts.VertexBuffers, MaxVertexBuffers)}
	}
	st := &Style{StyleOpts: opts, Dev: dv}
	if err := st.makeLayouts(); err != nil {
		st.Destroy()
		return nil, err
	}
	if err := st.makePipeline(rp); err != nil {
		st.Destroy()
		return nil, err
	}
	return st, nil
}

// Bindings returns the descriptor set layout bindings for the texture count
func (st *Style) Bindings() []vapi.DescriptorBinding {
	uniform := vapi.DescriptorBinding{Type: vapi.DescriptorUniformBuffer, Count: 1,
		Stages: vapi.ShaderVertex | vapi.ShaderFragment}
	sampler := vapi.DescriptorBinding{Type: vapi.DescriptorCombinedImageSampler, Count: 1,
		Stages: vapi.ShaderFragment}
	switch st.Textures {
	case NoTexture:
		return []vapi.DescriptorBinding{uniform}
	case AllTextures:
		return []vapi.DescriptorBinding{sampler}
	}
	sampler.Binding = 1
	return []vapi.DescriptorBinding{uniform, sampler}
}

// PoolSizes returns the descriptor pool sizes for one sprite
func (st *Style) PoolSizes() []vapi.DescriptorPoolSize {
	var sz []vapi.DescriptorPoolSize
	for _, b := range st.Bindings() {
		sz = append(sz, vapi.DescriptorPoolSize{Type: b.Type, Count: 1})
	}
	return sz
}

// TextureBinding returns the binding of the texture sampler
func (st *Style) TextureBinding() uint32 {
	if st.Textures == AllTextures {
		return 0
	}
	return 1
}

func (st *Style) makeLayouts() error {
	dv := st.Dev
	sl, res := dv.API.CreateDescriptorSetLayout(dv.Device, st.Bindings())
	if err := resErr("descriptor set layout", res); err != nil {
		return err
	}
	st.SetLayout = sl
	pl, res := dv.API.CreatePipelineLayout(dv.Device, []vapi.DescriptorSetLayout{sl})
	if err := resErr("pipeline layout", res); err != nil {
		return err
	}
	st.Layout = pl
	return nil
}

// PipelineInfo returns the pipeline configuration, without stages
func (st *Style) PipelineInfo(rp vapi.RenderPass) *vapi.GraphicsPipelineInfo {
	pi := &vapi.GraphicsPipelineInfo{
		Topology:      vapi.TopologyTriangleFan,
		CullMode:      vapi.CullBack,
		FrontFace:     vapi.FrontFaceCounterClockwise,
		Samples:       SampleCount,
		DepthTest:     true,
		DepthWrite:    true,
		DepthCompare:  vapi.CompareLessOrEqual,
		DynamicStates: []vapi.DynamicState{vapi.DynamicViewport, vapi.DynamicScissor},
		Layout:        st.Layout,
		RenderPass:    rp,
	}
	for i := 0; i < st.VertexBuffers; i++ {
		pi.Bindings = append(pi.Bindings, vapi.VertexBinding{Binding: uint32(i), Stride: VertexStride})
		pi.Attributes = append(pi.Attributes, vapi.VertexAttribute{Location: uint32(i), Binding: uint32(i), Format: VertexFormat})
	}
	if st.Alpha {
		pi.Blend = vapi.BlendState{Enable: true,
			SrcColor: vapi.BlendSrcAlpha, DstColor: vapi.BlendOneMinusSrcAlpha,
			SrcAlpha: vapi.BlendSrcAlpha, DstAlpha: vapi.BlendOne,
			WriteMask: vapi.ColorRGBA}
	} else {
		pi.Blend = vapi.BlendState{WriteMask: vapi.ColorRGB}
	}
	return pi
}

// makePipeline makes the shader modules, the pipeline, and destroys the
// modules again.
func (st *Style) makePipeline(rp vapi.RenderPass) error {
	dv := st.Dev
	api := dv.API
	vert, res := api.CreateShaderModule(dv.Device, st.Vert)
	if err := resErr("vertex shader", res); err != nil {
		return err
	}
	defer api.DestroyShaderModule(dv.Device, vert)
	frag, res := api.CreateShaderModule(dv.Device, st.Frag)
	if err := resErr("fragment shader", res); err != nil {
		return err
	}
	defer api.DestroyShaderModule(dv.Device, frag)

	pi := st.PipelineInfo(rp)
	pi.Stages = []vapi.ShaderStageInfo{
		{Stage: vapi.ShaderVertex, Module: vert, Entry: "main"},
		{Stage: vapi.ShaderFragment, Module: frag, Entry: "main"},
	}
	pl, res := api.CreateGraphicsPipeline(dv.Device, pi)
	if err := resErr("pipeline", res); err != nil {
		return err
	}
	st.Pipeline = pl
	return nil
}

// Rebuild remakes the pipeline for a new render pass. The layouts are
// kept, so descriptor sets of existing sprites stay valid.
func (st *Style) Rebuild(rp vapi.RenderPass) error {
	dv := st.Dev
	if st.Pipeline != 0 {
		dv.API.DestroyPipeline(dv.Device, st.Pipeline)
		st.Pipeline = 0
	}
	return st.makePipeline(rp)
}

// Destroy destroys the pipeline and layouts
func (st *Style) Destroy() {
	dv := st.Dev
	if st.Pipeline != 0 {
		dv.API.DestroyPipeline(dv.Device, st.Pipeline)
		st.Pipeline = 0
	}
	if st.Layout != 0 {
		dv.API.DestroyPipelineLayout(dv.Device, st.Layout)
		st.Layout = 0
	}
	if st.SetLayout != 0 {
		dv.API.DestroyDescriptorSetLayout(dv.Device, st.SetLayout)
		st.SetLayout = 0
	}
}
