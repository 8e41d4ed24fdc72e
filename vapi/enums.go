// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vapi

// Format is a pixel or vertex attribute format.
type Format int32

const (
	FormatUndefined          Format = 0
	FormatR8G8B8A8Unorm      Format = 37
	FormatR8G8B8A8Srgb       Format = 43
	FormatB8G8R8A8Unorm      Format = 44
	FormatB8G8R8A8Srgb       Format = 50
	FormatR32G32B32A32Sfloat Format = 109
	FormatD16Unorm           Format = 124
	FormatD32Sfloat          Format = 126
)

// IsDepth returns true for depth formats.
func (f Format) IsDepth() bool {
	return f == FormatD16Unorm || f == FormatD32Sfloat
}

// ColorSpace of a surface format.
type ColorSpace int32

const ColorSpaceSrgbNonlinear ColorSpace = 0

// ImageLayout is the memory layout of an image.
type ImageLayout int32

const (
	LayoutUndefined                     ImageLayout = 0
	LayoutGeneral                       ImageLayout = 1
	LayoutColorAttachmentOptimal        ImageLayout = 2
	LayoutDepthStencilAttachmentOptimal ImageLayout = 3
	LayoutShaderReadOnlyOptimal         ImageLayout = 5
	LayoutTransferSrcOptimal            ImageLayout = 6
	LayoutTransferDstOptimal            ImageLayout = 7
	LayoutPreinitialized                ImageLayout = 8
	LayoutPresentSrc                    ImageLayout = 1000001002
)

// ImageTiling is the texel arrangement of an image.
type ImageTiling int32

const (
	TilingOptimal ImageTiling = 0
	TilingLinear  ImageTiling = 1
)

// ImageUsage flags.
type ImageUsage uint32

const (
	ImageUsageTransferSrc            ImageUsage = 0x1
	ImageUsageTransferDst            ImageUsage = 0x2
	ImageUsageSampled                ImageUsage = 0x4
	ImageUsageStorage                ImageUsage = 0x8
	ImageUsageColorAttachment        ImageUsage = 0x10
	ImageUsageDepthStencilAttachment ImageUsage = 0x20
	ImageUsageTransientAttachment    ImageUsage = 0x40
)

// BufferUsage flags.
type BufferUsage uint32

const (
	BufferUsageTransferSrc   BufferUsage = 0x1
	BufferUsageTransferDst   BufferUsage = 0x2
	BufferUsageUniformBuffer BufferUsage = 0x10
	BufferUsageIndexBuffer   BufferUsage = 0x40
	BufferUsageVertexBuffer  BufferUsage = 0x80
)

// MemoryProperty flags of a memory type.
type MemoryProperty uint32

const (
	MemoryDeviceLocal  MemoryProperty = 0x1
	MemoryHostVisible  MemoryProperty = 0x2
	MemoryHostCoherent MemoryProperty = 0x4
	MemoryHostCached   MemoryProperty = 0x8
)

// SampleCount is a multisample count (a single bit).
type SampleCount uint32

const (
	Samples1 SampleCount = 0x1
	Samples2 SampleCount = 0x2
	Samples4 SampleCount = 0x4
	Samples8 SampleCount = 0x8
)

// PipelineStage flags.
type PipelineStage uint32

const (
	StageTopOfPipe             PipelineStage = 0x1
	StageVertexShader          PipelineStage = 0x8
	StageFragmentShader        PipelineStage = 0x80
	StageEarlyFragmentTests    PipelineStage = 0x100
	StageLateFragmentTests     PipelineStage = 0x200
	StageColorAttachmentOutput PipelineStage = 0x400
	StageTransfer              PipelineStage = 0x1000
	StageBottomOfPipe          PipelineStage = 0x2000
	StageAllCommands           PipelineStage = 0x10000
)

// Access flags for memory dependencies.
type Access uint32

const (
	AccessShaderRead                  Access = 0x20
	AccessColorAttachmentRead         Access = 0x80
	AccessColorAttachmentWrite        Access = 0x100
	AccessDepthStencilAttachmentRead  Access = 0x200
	AccessDepthStencilAttachmentWrite Access = 0x400
	AccessTransferRead                Access = 0x800
	AccessTransferWrite               Access = 0x1000
	AccessHostWrite                   Access = 0x4000
	AccessMemoryRead                  Access = 0x8000
	AccessMemoryWrite                 Access = 0x10000
)

// ImageAspect flags.
type ImageAspect uint32

const (
	AspectColor ImageAspect = 0x1
	AspectDepth ImageAspect = 0x2
)

// ComponentSwizzle of an image view.
type ComponentSwizzle int32

const (
	SwizzleIdentity ComponentSwizzle = 0
	SwizzleR        ComponentSwizzle = 3
	SwizzleG        ComponentSwizzle = 4
	SwizzleB        ComponentSwizzle = 5
	SwizzleA        ComponentSwizzle = 6
)

// DescriptorType of a descriptor binding.
type DescriptorType int32

const (
	DescriptorSampler              DescriptorType = 0
	DescriptorCombinedImageSampler DescriptorType = 1
	DescriptorUniformBuffer        DescriptorType = 6
)

// ShaderStage flags.
type ShaderStage uint32

const (
	ShaderVertex   ShaderStage = 0x1
	ShaderFragment ShaderStage = 0x10
)

// AttachmentLoadOp for render pass attachments.
type AttachmentLoadOp int32

const (
	LoadOpLoad     AttachmentLoadOp = 0
	LoadOpClear    AttachmentLoadOp = 1
	LoadOpDontCare AttachmentLoadOp = 2
)

// AttachmentStoreOp for render pass attachments.
type AttachmentStoreOp int32

const (
	StoreOpStore    AttachmentStoreOp = 0
	StoreOpDontCare AttachmentStoreOp = 1
)

// PresentMode of a swapchain.
type PresentMode int32

const (
	PresentModeImmediate PresentMode = 0
	PresentModeMailbox   PresentMode = 1
	PresentModeFifo      PresentMode = 2
)

// SurfaceTransform flags.
type SurfaceTransform uint32

const SurfaceTransformIdentity SurfaceTransform = 0x1

// CompositeAlpha flags.
type CompositeAlpha uint32

const CompositeAlphaOpaque CompositeAlpha = 0x1

// PrimitiveTopology of pipeline input assembly.
type PrimitiveTopology int32

const (
	TopologyTriangleList  PrimitiveTopology = 3
	TopologyTriangleStrip PrimitiveTopology = 4
	TopologyTriangleFan   PrimitiveTopology = 5
)

// CullMode flags.
type CullMode uint32

const (
	CullNone  CullMode = 0
	CullFront CullMode = 0x1
	CullBack  CullMode = 0x2
)

// FrontFace winding.
type FrontFace int32

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

// CompareOp for depth testing.
type CompareOp int32

const (
	CompareNever       CompareOp = 0
	CompareLess        CompareOp = 1
	CompareLessOrEqual CompareOp = 3
	CompareAlways      CompareOp = 7
)

// BlendFactor for color blending.
type BlendFactor int32

const (
	BlendZero             BlendFactor = 0
	BlendOne              BlendFactor = 1
	BlendSrcAlpha         BlendFactor = 6
	BlendOneMinusSrcAlpha BlendFactor = 7
)

// ColorComponent write mask flags.
type ColorComponent uint32

const (
	ColorR ColorComponent = 0x1
	ColorG ColorComponent = 0x2
	ColorB ColorComponent = 0x4
	ColorA ColorComponent = 0x8

	ColorRGB  = ColorR | ColorG | ColorB
	ColorRGBA = ColorRGB | ColorA
)

// DynamicState of a pipeline.
type DynamicState int32

const (
	DynamicViewport DynamicState = 0
	DynamicScissor  DynamicState = 1
)

// Filter for samplers.
type Filter int32

const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

// AddressMode for samplers.
type AddressMode int32

const (
	AddressRepeat        AddressMode = 0
	AddressMirrorRepeat  AddressMode = 1
	AddressClampToEdge   AddressMode = 2
	AddressClampToBorder AddressMode = 3
)

// FormatFeature flags.
type FormatFeature uint32

const (
	FeatureSampledImage           FormatFeature = 0x1
	FeatureColorAttachment        FormatFeature = 0x80
	FeatureDepthStencilAttachment FormatFeature = 0x200
)

// QueueFlags of a queue family.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 0x1
	QueueCompute  QueueFlags = 0x2
	QueueTransfer QueueFlags = 0x4
)

// SurfaceKind identifies the native window system behind a surface.
type SurfaceKind int32

const (
	SurfaceXcb SurfaceKind = iota
	SurfaceWin32
	SurfaceAndroid
	SurfaceWayland
	SurfaceGlfw
	SurfaceStub
)

var surfaceKindNames = [...]string{"Xcb", "Win32", "Android", "Wayland", "Glfw", "Stub"}

func (sk SurfaceKind) String() string {
	if sk < 0 || int(sk) >= len(surfaceKindNames) {
		return "SurfaceKind(?)"
	}
	return surfaceKindNames[sk]
}
