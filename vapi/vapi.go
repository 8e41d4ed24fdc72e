// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vapi is the device API used by vgpu.

It defines opaque handles, the subset of Vulkan enums and create-info
structs that the renderer needs, and the API interface that a driver
backend implements. A backend is constructed once and passed by
reference everywhere: vkdrv wraps the real Vulkan loader through
github.com/goki/vulkan, and vstub is a software stand-in that keeps a
handle table for tests.

Enum values match the Vulkan values so backends can convert them
directly.
*/
package vapi

// Handles are opaque to everything except the backend that issued them.
// The zero value is the null handle for every type.
type (
	Instance            uint64
	PhysicalDevice      uint64
	Device              uint64
	Queue               uint64
	CommandPool         uint64
	CommandBuffer       uint64
	Sampler             uint64
	Surface             uint64
	Swapchain           uint64
	Image               uint64
	ImageView           uint64
	DeviceMemory        uint64
	Buffer              uint64
	RenderPass          uint64
	Framebuffer         uint64
	ShaderModule        uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	PipelineLayout      uint64
	Pipeline            uint64
	Fence               uint64
	Semaphore           uint64
)

// MaxTimeout is the "wait forever" timeout for fence waits and image acquisition.
const MaxTimeout = ^uint64(0)

// WholeSize selects the whole remaining range of a buffer.
const WholeSize = ^uint64(0)

// SubpassExternal refers to commands outside of the render pass in a dependency.
const SubpassExternal = ^uint32(0)

// UndefinedExtent is reported as the current surface extent when the
// swapchain extent determines the surface size.
const UndefinedExtent = ^uint32(0)

// Standard extension names.
const (
	SurfaceExtension   = "VK_KHR_surface"
	SwapchainExtension = "VK_KHR_swapchain"
)

// Extent2D is a width and height in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// Rect2D is a pixel rectangle.
type Rect2D struct {
	X, Y   int32
	Extent Extent2D
}

// Viewport is the viewport transform for rasterization.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}
