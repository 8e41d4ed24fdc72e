// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vapi

// InstanceInfo configures instance creation.
type InstanceInfo struct {
	AppName    string
	Extensions []string
	Layers     []string
}

// NativeWindow carries the native handles a surface is created from.
// The meaning of Connection and Window depends on Kind:
// Xcb: connection and window id; Win32: hinstance and hwnd;
// Android: the ANativeWindow pointer in Window.
type NativeWindow struct {
	Kind       SurfaceKind
	Connection uintptr
	Window     uintptr
}

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// MemoryType is one entry of the physical device memory types.
type MemoryType struct {
	Flags MemoryProperty
	Heap  uint32
}

// MemoryRequirements of a buffer or image.
type MemoryRequirements struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

// FormatProperties lists the features supported by a format per tiling.
type FormatProperties struct {
	Linear  FormatFeature
	Optimal FormatFeature
}

// SurfaceCaps are the surface capabilities used to build a swapchain.
type SurfaceCaps struct {
	MinImageCount uint32
	MaxImageCount uint32
	CurrentExtent Extent2D
	MinExtent     Extent2D
	MaxExtent     Extent2D
}

// SurfaceFormat is a supported swapchain format.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// DeviceInfo configures logical device creation with a single queue.
type DeviceInfo struct {
	QueueFamily uint32
	Extensions  []string
}

// SamplerInfo configures a texture sampler.
type SamplerInfo struct {
	MagFilter   Filter
	MinFilter   Filter
	AddressMode AddressMode
}

// SwapchainInfo configures a swapchain.
type SwapchainInfo struct {
	Surface        Surface
	MinImageCount  uint32
	Format         Format
	ColorSpace     ColorSpace
	Extent         Extent2D
	Usage          ImageUsage
	PreTransform   SurfaceTransform
	CompositeAlpha CompositeAlpha
	PresentMode    PresentMode
	Clipped        bool
	OldSwapchain   Swapchain
}

// BufferInfo configures an exclusive-sharing buffer.
type BufferInfo struct {
	Size  uint64
	Usage BufferUsage
}

// ImageInfo configures a 2D image with one mip level and one layer.
type ImageInfo struct {
	Width         uint32
	Height        uint32
	Format        Format
	Tiling        ImageTiling
	Usage         ImageUsage
	InitialLayout ImageLayout
	Samples       SampleCount
}

// ImageViewInfo configures a 2D image view.
type ImageViewInfo struct {
	Image   Image
	Format  Format
	Aspect  ImageAspect
	Swizzle [4]ComponentSwizzle
}

// SubresourceLayout of a linear image.
type SubresourceLayout struct {
	Offset   uint64
	Size     uint64
	RowPitch uint64
}

// AttachmentInfo describes one render pass attachment.
type AttachmentInfo struct {
	Format         Format
	Samples        SampleCount
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

// AttachmentRef references an attachment from a subpass.
type AttachmentRef struct {
	Attachment uint32
	Layout     ImageLayout
}

// SubpassInfo describes a graphics subpass.
type SubpassInfo struct {
	Color   []AttachmentRef
	Depth   *AttachmentRef
	Resolve []AttachmentRef
}

// SubpassDependency is an execution and memory dependency between subpasses.
type SubpassDependency struct {
	SrcSubpass uint32
	DstSubpass uint32
	SrcStage   PipelineStage
	DstStage   PipelineStage
	SrcAccess  Access
	DstAccess  Access
}

// RenderPassInfo configures a render pass.
type RenderPassInfo struct {
	Attachments  []AttachmentInfo
	Subpasses    []SubpassInfo
	Dependencies []SubpassDependency
}

// FramebufferInfo configures a framebuffer.
type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       uint32
	Height      uint32
}

// DescriptorBinding is one binding of a descriptor set layout.
type DescriptorBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
	Stages  ShaderStage
}

// DescriptorPoolSize is the number of descriptors of one type in a pool.
type DescriptorPoolSize struct {
	Type  DescriptorType
	Count uint32
}

// DescriptorPoolInfo configures a descriptor pool.
type DescriptorPoolInfo struct {
	MaxSets uint32
	Sizes   []DescriptorPoolSize
}

// DescriptorWrite updates one binding of a descriptor set, either with a
// buffer (UniformBuffer) or with a sampler + image view (CombinedImageSampler).
type DescriptorWrite struct {
	Set         DescriptorSet
	Binding     uint32
	Type        DescriptorType
	Buffer      Buffer
	Offset      uint64
	Range       uint64
	Sampler     Sampler
	View        ImageView
	ImageLayout ImageLayout
}

// ShaderStageInfo is one programmable stage of a pipeline.
type ShaderStageInfo struct {
	Stage  ShaderStage
	Module ShaderModule
	Entry  string
}

// VertexBinding describes a vertex buffer binding.
type VertexBinding struct {
	Binding uint32
	Stride  uint32
}

// VertexAttribute describes one vertex attribute.
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

// BlendState is the color blend state of the single color attachment.
type BlendState struct {
	Enable    bool
	SrcColor  BlendFactor
	DstColor  BlendFactor
	SrcAlpha  BlendFactor
	DstAlpha  BlendFactor
	WriteMask ColorComponent
}

// GraphicsPipelineInfo configures a graphics pipeline.
type GraphicsPipelineInfo struct {
	Stages        []ShaderStageInfo
	Bindings      []VertexBinding
	Attributes    []VertexAttribute
	Topology      PrimitiveTopology
	CullMode      CullMode
	FrontFace     FrontFace
	Samples       SampleCount
	DepthTest     bool
	DepthWrite    bool
	DepthCompare  CompareOp
	Blend         BlendState
	DynamicStates []DynamicState
	Layout        PipelineLayout
	RenderPass    RenderPass
	Subpass       uint32
}

// ImageBarrier is an image memory barrier over the whole image.
type ImageBarrier struct {
	Image     Image
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcAccess Access
	DstAccess Access
	Aspect    ImageAspect
}

// ClearValue clears either a color or a depth/stencil attachment.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
	IsDepth bool
}

// ClearColor returns a color clear value.
func ClearColor(r, g, b, a float32) ClearValue {
	return ClearValue{Color: [4]float32{r, g, b, a}}
}

// ClearDepthStencil returns a depth/stencil clear value.
func ClearDepthStencil(depth float32, stencil uint32) ClearValue {
	return ClearValue{Depth: depth, Stencil: stencil, IsDepth: true}
}

// SubmitInfo is one queue submission batch.
type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitStages       []PipelineStage
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
}

// PresentInfo presents one swapchain image.
type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchain      Swapchain
	ImageIndex     uint32
}
