// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vapi

// API is the table of driver entry points used by the renderer.
// An implementation is created once, when the device context is made,
// and is shared read-only by every component for the lifetime of the
// device. Methods mirror the Vulkan calls of the same name, with
// count/pointer pairs folded into slices.
type API interface {
	// Load resolves the driver entry points. It must be called before
	// any other method.
	Load() error

	// instance and physical device

	CreateInstance(info *InstanceInfo) (Instance, Result)
	DestroyInstance(inst Instance)
	EnumeratePhysicalDevices(inst Instance) ([]PhysicalDevice, Result)
	QueueFamilies(gpu PhysicalDevice) []QueueFamily
	MemoryTypes(gpu PhysicalDevice) []MemoryType
	FormatProperties(gpu PhysicalDevice, format Format) FormatProperties

	// surface

	CreateSurface(inst Instance, win *NativeWindow) (Surface, Result)
	DestroySurface(inst Instance, surf Surface)
	SurfaceSupport(gpu PhysicalDevice, family uint32, surf Surface) (bool, Result)
	SurfaceCapabilities(gpu PhysicalDevice, surf Surface) (SurfaceCaps, Result)
	SurfaceFormats(gpu PhysicalDevice, surf Surface) ([]SurfaceFormat, Result)

	// device and queue

	CreateDevice(gpu PhysicalDevice, info *DeviceInfo) (Device, Result)
	DestroyDevice(dev Device)
	DeviceQueue(dev Device, family, index uint32) Queue
	DeviceWaitIdle(dev Device) Result
	QueueSubmit(q Queue, submits []SubmitInfo, fence Fence) Result
	QueuePresent(q Queue, info *PresentInfo) Result

	// commands

	CreateCommandPool(dev Device, family uint32) (CommandPool, Result)
	DestroyCommandPool(dev Device, pool CommandPool)
	AllocateCommandBuffer(dev Device, pool CommandPool) (CommandBuffer, Result)
	FreeCommandBuffer(dev Device, pool CommandPool, cmd CommandBuffer)
	BeginCommandBuffer(cmd CommandBuffer, oneTimeSubmit bool) Result
	EndCommandBuffer(cmd CommandBuffer) Result
	ResetCommandBuffer(cmd CommandBuffer) Result

	// sampler

	CreateSampler(dev Device, info *SamplerInfo) (Sampler, Result)
	DestroySampler(dev Device, s Sampler)

	// swapchain

	CreateSwapchain(dev Device, info *SwapchainInfo) (Swapchain, Result)
	DestroySwapchain(dev Device, sc Swapchain)
	SwapchainImages(dev Device, sc Swapchain) ([]Image, Result)
	AcquireNextImage(dev Device, sc Swapchain, timeout uint64, sem Semaphore, fence Fence) (uint32, Result)

	// memory, buffers, images

	AllocateMemory(dev Device, size uint64, typeIndex uint32) (DeviceMemory, Result)
	FreeMemory(dev Device, mem DeviceMemory)
	// MapMemory returns a byte slice aliasing the mapped range; it is
	// only valid until UnmapMemory.
	MapMemory(dev Device, mem DeviceMemory, offset, size uint64) ([]byte, Result)
	UnmapMemory(dev Device, mem DeviceMemory)

	CreateBuffer(dev Device, info *BufferInfo) (Buffer, Result)
	DestroyBuffer(dev Device, buf Buffer)
	BufferMemoryRequirements(dev Device, buf Buffer) MemoryRequirements
	BindBufferMemory(dev Device, buf Buffer, mem DeviceMemory) Result

	CreateImage(dev Device, info *ImageInfo) (Image, Result)
	DestroyImage(dev Device, img Image)
	ImageMemoryRequirements(dev Device, img Image) MemoryRequirements
	BindImageMemory(dev Device, img Image, mem DeviceMemory) Result
	ImageSubresourceLayout(dev Device, img Image, aspect ImageAspect) SubresourceLayout

	CreateImageView(dev Device, info *ImageViewInfo) (ImageView, Result)
	DestroyImageView(dev Device, view ImageView)

	// render pass and framebuffer

	CreateRenderPass(dev Device, info *RenderPassInfo) (RenderPass, Result)
	DestroyRenderPass(dev Device, rp RenderPass)
	CreateFramebuffer(dev Device, info *FramebufferInfo) (Framebuffer, Result)
	DestroyFramebuffer(dev Device, fb Framebuffer)

	// pipelines and descriptors

	CreateShaderModule(dev Device, code []byte) (ShaderModule, Result)
	DestroyShaderModule(dev Device, mod ShaderModule)
	CreateDescriptorSetLayout(dev Device, bindings []DescriptorBinding) (DescriptorSetLayout, Result)
	DestroyDescriptorSetLayout(dev Device, layout DescriptorSetLayout)
	CreatePipelineLayout(dev Device, sets []DescriptorSetLayout) (PipelineLayout, Result)
	DestroyPipelineLayout(dev Device, layout PipelineLayout)
	CreateGraphicsPipeline(dev Device, info *GraphicsPipelineInfo) (Pipeline, Result)
	DestroyPipeline(dev Device, p Pipeline)
	CreateDescriptorPool(dev Device, info *DescriptorPoolInfo) (DescriptorPool, Result)
	DestroyDescriptorPool(dev Device, pool DescriptorPool)
	AllocateDescriptorSet(dev Device, pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, Result)
	UpdateDescriptorSets(dev Device, writes []DescriptorWrite)

	// synchronization

	CreateFence(dev Device, signaled bool) (Fence, Result)
	DestroyFence(dev Device, f Fence)
	WaitForFence(dev Device, f Fence, timeout uint64) Result
	ResetFence(dev Device, f Fence) Result
	CreateSemaphore(dev Device) (Semaphore, Result)
	DestroySemaphore(dev Device, s Semaphore)

	// command recording

	CmdPipelineBarrier(cmd CommandBuffer, src, dst PipelineStage, barriers []ImageBarrier)
	CmdBeginRenderPass(cmd CommandBuffer, rp RenderPass, fb Framebuffer, area Rect2D, clears []ClearValue)
	CmdEndRenderPass(cmd CommandBuffer)
	CmdSetViewport(cmd CommandBuffer, vp Viewport)
	CmdSetScissor(cmd CommandBuffer, rect Rect2D)
	CmdBindPipeline(cmd CommandBuffer, p Pipeline)
	CmdBindVertexBuffers(cmd CommandBuffer, bufs []Buffer)
	CmdBindDescriptorSet(cmd CommandBuffer, layout PipelineLayout, set DescriptorSet)
	CmdDraw(cmd CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CmdCopyImage(cmd CommandBuffer, src Image, srcLayout ImageLayout, dst Image, dstLayout ImageLayout, width, height uint32)
}
