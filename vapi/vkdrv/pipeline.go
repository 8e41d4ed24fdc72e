// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkdrv

import (
	"encoding/binary"

	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

////////////////////////////////////////////////////////////
// render pass and framebuffer

func attachRefs(refs []vapi.AttachmentRef) []vk.AttachmentReference {
	if len(refs) == 0 {
		return nil
	}
	vr := make([]vk.AttachmentReference, len(refs))
	for i, r := range refs {
		vr[i] = vk.AttachmentReference{Attachment: r.Attachment, Layout: vk.ImageLayout(r.Layout)}
	}
	return vr
}

func (d *Driver) CreateRenderPass(dev vapi.Device, info *vapi.RenderPassInfo) (vapi.RenderPass, vapi.Result) {
	atts := make([]vk.AttachmentDescription, len(info.Attachments))
	for i, at := range info.Attachments {
		atts[i] = vk.AttachmentDescription{
			Format:         vk.Format(at.Format),
			Samples:        vk.SampleCountFlagBits(at.Samples),
			LoadOp:         vk.AttachmentLoadOp(at.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(at.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOp(at.StencilLoadOp),
			StencilStoreOp: vk.AttachmentStoreOp(at.StencilStoreOp),
			InitialLayout:  vk.ImageLayout(at.InitialLayout),
			FinalLayout:    vk.ImageLayout(at.FinalLayout),
		}
	}
	subs := make([]vk.SubpassDescription, len(info.Subpasses))
	for i, sp := range info.Subpasses {
		subs[i] = vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: uint32(len(sp.Color)),
			PColorAttachments:    attachRefs(sp.Color),
			PResolveAttachments:  attachRefs(sp.Resolve),
		}
		if sp.Depth != nil {
			subs[i].PDepthStencilAttachment = &vk.AttachmentReference{Attachment: sp.Depth.Attachment, Layout: vk.ImageLayout(sp.Depth.Layout)}
		}
	}
	deps := make([]vk.SubpassDependency, len(info.Dependencies))
	for i, dp := range info.Dependencies {
		deps[i] = vk.SubpassDependency{
			SrcSubpass:    dp.SrcSubpass,
			DstSubpass:    dp.DstSubpass,
			SrcStageMask:  vk.PipelineStageFlags(dp.SrcStage),
			DstStageMask:  vk.PipelineStageFlags(dp.DstStage),
			SrcAccessMask: vk.AccessFlags(dp.SrcAccess),
			DstAccessMask: vk.AccessFlags(dp.DstAccess),
		}
	}
	var rp vk.RenderPass
	ret := vk.CreateRenderPass(d.devices.get(uint64(dev)), &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(atts)),
		PAttachments:    atts,
		SubpassCount:    uint32(len(subs)),
		PSubpasses:      subs,
		DependencyCount: uint32(len(deps)),
		PDependencies:   deps,
	}, nil, &rp)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.RenderPass(d.renderPasses.add(rp)), vapi.Success
}

func (d *Driver) DestroyRenderPass(dev vapi.Device, rp vapi.RenderPass) {
	if vr, ok := d.renderPasses.del(uint64(rp)); ok {
		vk.DestroyRenderPass(d.devices.get(uint64(dev)), vr, nil)
	}
}

func (d *Driver) CreateFramebuffer(dev vapi.Device, info *vapi.FramebufferInfo) (vapi.Framebuffer, vapi.Result) {
	views := make([]vk.ImageView, len(info.Attachments))
	for i, v := range info.Attachments {
		views[i] = d.views.get(uint64(v))
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(d.devices.get(uint64(dev)), &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      d.renderPasses.get(uint64(info.RenderPass)),
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           info.Width,
		Height:          info.Height,
		Layers:          1,
	}, nil, &fb)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Framebuffer(d.framebuffers.add(fb)), vapi.Success
}

func (d *Driver) DestroyFramebuffer(dev vapi.Device, fb vapi.Framebuffer) {
	if vf, ok := d.framebuffers.del(uint64(fb)); ok {
		vk.DestroyFramebuffer(d.devices.get(uint64(dev)), vf, nil)
	}
}

////////////////////////////////////////////////////////////
// shaders and layouts

// CreateShaderModule copies the SPIR-V words out of code, which need
// not be 4-byte aligned.
func (d *Driver) CreateShaderModule(dev vapi.Device, code []byte) (vapi.ShaderModule, vapi.Result) {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[4*i:])
	}
	var mod vk.ShaderModule
	ret := vk.CreateShaderModule(d.devices.get(uint64(dev)), &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(words) * 4),
		PCode:    words,
	}, nil, &mod)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.ShaderModule(d.shaders.add(mod)), vapi.Success
}

func (d *Driver) DestroyShaderModule(dev vapi.Device, mod vapi.ShaderModule) {
	if vm, ok := d.shaders.del(uint64(mod)); ok {
		vk.DestroyShaderModule(d.devices.get(uint64(dev)), vm, nil)
	}
}

func (d *Driver) CreateDescriptorSetLayout(dev vapi.Device, bindings []vapi.DescriptorBinding) (vapi.DescriptorSetLayout, vapi.Result) {
	vb := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		vb[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  vk.DescriptorType(b.Type),
			DescriptorCount: b.Count,
			StageFlags:      vk.ShaderStageFlags(b.Stages),
		}
	}
	var lay vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(d.devices.get(uint64(dev)), &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(vb)),
		PBindings:    vb,
	}, nil, &lay)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.DescriptorSetLayout(d.setLayouts.add(lay)), vapi.Success
}

func (d *Driver) DestroyDescriptorSetLayout(dev vapi.Device, layout vapi.DescriptorSetLayout) {
	if vl, ok := d.setLayouts.del(uint64(layout)); ok {
		vk.DestroyDescriptorSetLayout(d.devices.get(uint64(dev)), vl, nil)
	}
}

func (d *Driver) CreatePipelineLayout(dev vapi.Device, sets []vapi.DescriptorSetLayout) (vapi.PipelineLayout, vapi.Result) {
	vs := make([]vk.DescriptorSetLayout, len(sets))
	for i, s := range sets {
		vs[i] = d.setLayouts.get(uint64(s))
	}
	var lay vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.devices.get(uint64(dev)), &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(vs)),
		PSetLayouts:    vs,
	}, nil, &lay)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.PipelineLayout(d.pipeLayouts.add(lay)), vapi.Success
}

func (d *Driver) DestroyPipelineLayout(dev vapi.Device, layout vapi.PipelineLayout) {
	if vl, ok := d.pipeLayouts.del(uint64(layout)); ok {
		vk.DestroyPipelineLayout(d.devices.get(uint64(dev)), vl, nil)
	}
}

////////////////////////////////////////////////////////////
// graphics pipeline

func (d *Driver) CreateGraphicsPipeline(dev vapi.Device, info *vapi.GraphicsPipelineInfo) (vapi.Pipeline, vapi.Result) {
	stages := make([]vk.PipelineShaderStageCreateInfo, len(info.Stages))
	for i, st := range info.Stages {
		entry := st.Entry
		if entry == "" {
			entry = "main"
		}
		stages[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(st.Stage),
			Module: d.shaders.get(uint64(st.Module)),
			PName:  cstr(entry),
		}
	}
	binds := make([]vk.VertexInputBindingDescription, len(info.Bindings))
	for i, b := range info.Bindings {
		binds[i] = vk.VertexInputBindingDescription{Binding: b.Binding, Stride: b.Stride, InputRate: vk.VertexInputRateVertex}
	}
	attrs := make([]vk.VertexInputAttributeDescription, len(info.Attributes))
	for i, a := range info.Attributes {
		attrs[i] = vk.VertexInputAttributeDescription{Location: a.Location, Binding: a.Binding, Format: vk.Format(a.Format), Offset: a.Offset}
	}
	dyn := make([]vk.DynamicState, len(info.DynamicStates))
	for i, ds := range info.DynamicStates {
		dyn[i] = vk.DynamicState(ds)
	}
	bl := info.Blend
	pinfo := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(binds)),
			PVertexBindingDescriptions:      binds,
			VertexAttributeDescriptionCount: uint32(len(attrs)),
			PVertexAttributeDescriptions:    attrs,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopology(info.Topology),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(info.CullMode),
			FrontFace:   vk.FrontFace(info.FrontFace),
			LineWidth:   1,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCountFlagBits(info.Samples),
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  b32(info.DepthTest),
			DepthWriteEnable: b32(info.DepthWrite),
			DepthCompareOp:   vk.CompareOp(info.DepthCompare),
			MaxDepthBounds:   1,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				BlendEnable:         b32(bl.Enable),
				SrcColorBlendFactor: vk.BlendFactor(bl.SrcColor),
				DstColorBlendFactor: vk.BlendFactor(bl.DstColor),
				ColorBlendOp:        vk.BlendOpAdd,
				SrcAlphaBlendFactor: vk.BlendFactor(bl.SrcAlpha),
				DstAlphaBlendFactor: vk.BlendFactor(bl.DstAlpha),
				AlphaBlendOp:        vk.BlendOpAdd,
				ColorWriteMask:      vk.ColorComponentFlags(bl.WriteMask),
			}},
		},
		Layout:     d.pipeLayouts.get(uint64(info.Layout)),
		RenderPass: d.renderPasses.get(uint64(info.RenderPass)),
		Subpass:    info.Subpass,
	}
	if len(dyn) > 0 {
		pinfo.PDynamicState = &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(dyn)),
			PDynamicStates:    dyn,
		}
	}
	pipes := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(d.devices.get(uint64(dev)), vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{pinfo}, nil, pipes)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Pipeline(d.pipelines.add(pipes[0])), vapi.Success
}

func (d *Driver) DestroyPipeline(dev vapi.Device, p vapi.Pipeline) {
	if vp, ok := d.pipelines.del(uint64(p)); ok {
		vk.DestroyPipeline(d.devices.get(uint64(dev)), vp, nil)
	}
}

////////////////////////////////////////////////////////////
// descriptors

func (d *Driver) CreateDescriptorPool(dev vapi.Device, info *vapi.DescriptorPoolInfo) (vapi.DescriptorPool, vapi.Result) {
	sizes := make([]vk.DescriptorPoolSize, len(info.Sizes))
	for i, sz := range info.Sizes {
		sizes[i] = vk.DescriptorPoolSize{Type: vk.DescriptorType(sz.Type), DescriptorCount: sz.Count}
	}
	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(d.devices.get(uint64(dev)), &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       info.MaxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.DescriptorPool(d.descPools.add(pool)), vapi.Success
}

// DestroyDescriptorPool also forgets the sets allocated from the pool.
func (d *Driver) DestroyDescriptorPool(dev vapi.Device, pool vapi.DescriptorPool) {
	for _, id := range d.poolSets[uint64(pool)] {
		d.descSets.del(id)
	}
	delete(d.poolSets, uint64(pool))
	if vp, ok := d.descPools.del(uint64(pool)); ok {
		vk.DestroyDescriptorPool(d.devices.get(uint64(dev)), vp, nil)
	}
}

func (d *Driver) AllocateDescriptorSet(dev vapi.Device, pool vapi.DescriptorPool, layout vapi.DescriptorSetLayout) (vapi.DescriptorSet, vapi.Result) {
	var set vk.DescriptorSet
	ret := vk.AllocateDescriptorSets(d.devices.get(uint64(dev)), &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.descPools.get(uint64(pool)),
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{d.setLayouts.get(uint64(layout))},
	}, &set)
	if ret != vk.Success {
		return 0, result(ret)
	}
	id := d.descSets.add(set)
	d.poolSets[uint64(pool)] = append(d.poolSets[uint64(pool)], id)
	return vapi.DescriptorSet(id), vapi.Success
}

func (d *Driver) UpdateDescriptorSets(dev vapi.Device, writes []vapi.DescriptorWrite) {
	vw := make([]vk.WriteDescriptorSet, len(writes))
	for i, w := range writes {
		vw[i] = vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.descSets.get(uint64(w.Set)),
			DstBinding:      w.Binding,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorType(w.Type),
		}
		switch w.Type {
		case vapi.DescriptorUniformBuffer:
			vw[i].PBufferInfo = []vk.DescriptorBufferInfo{{
				Buffer: d.buffers.get(uint64(w.Buffer)),
				Offset: vk.DeviceSize(w.Offset),
				Range:  vk.DeviceSize(w.Range),
			}}
		default:
			vw[i].PImageInfo = []vk.DescriptorImageInfo{{
				Sampler:     d.samplers.get(uint64(w.Sampler)),
				ImageView:   d.views.get(uint64(w.View)),
				ImageLayout: vk.ImageLayout(w.ImageLayout),
			}}
		}
	}
	vk.UpdateDescriptorSets(d.devices.get(uint64(dev)), uint32(len(vw)), vw, 0, nil)
}

////////////////////////////////////////////////////////////
// synchronization

func (d *Driver) CreateFence(dev vapi.Device, signaled bool) (vapi.Fence, vapi.Result) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var f vk.Fence
	ret := vk.CreateFence(d.devices.get(uint64(dev)), &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &f)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Fence(d.fences.add(f)), vapi.Success
}

func (d *Driver) DestroyFence(dev vapi.Device, f vapi.Fence) {
	if vf, ok := d.fences.del(uint64(f)); ok {
		vk.DestroyFence(d.devices.get(uint64(dev)), vf, nil)
	}
}

func (d *Driver) WaitForFence(dev vapi.Device, f vapi.Fence, timeout uint64) vapi.Result {
	return result(vk.WaitForFences(d.devices.get(uint64(dev)), 1, []vk.Fence{d.fences.get(uint64(f))}, vk.True, timeout))
}

func (d *Driver) ResetFence(dev vapi.Device, f vapi.Fence) vapi.Result {
	return result(vk.ResetFences(d.devices.get(uint64(dev)), 1, []vk.Fence{d.fences.get(uint64(f))}))
}

func (d *Driver) CreateSemaphore(dev vapi.Device) (vapi.Semaphore, vapi.Result) {
	var s vk.Semaphore
	ret := vk.CreateSemaphore(d.devices.get(uint64(dev)), &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &s)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Semaphore(d.semaphores.add(s)), vapi.Success
}

func (d *Driver) DestroySemaphore(dev vapi.Device, s vapi.Semaphore) {
	if vs, ok := d.semaphores.del(uint64(s)); ok {
		vk.DestroySemaphore(d.devices.get(uint64(dev)), vs, nil)
	}
}
