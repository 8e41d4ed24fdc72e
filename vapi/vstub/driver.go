// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vstub

import (
	"errors"

	"goki.dev/vsprite/vapi"
)

var _ vapi.API = (*Driver)(nil)

// ErrNoLoader is returned by Load when FailLoad is set.
var ErrNoLoader = errors.New("vstub: vulkan loader not available")

// the single simulated physical device
const gpuHandle = vapi.PhysicalDevice(1 << 32)

func (d *Driver) Load() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailLoad {
		return ErrNoLoader
	}
	d.loaded = true
	return nil
}

func (d *Driver) CreateInstance(info *vapi.InstanceInfo) (vapi.Instance, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.loaded {
		d.errorf("CreateInstance before Load")
		return 0, vapi.ErrorInitializationFailed
	}
	ci := *info
	return vapi.Instance(d.alloc("Instance", &ci)), vapi.Success
}

func (d *Driver) DestroyInstance(inst vapi.Instance) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(inst), "Instance")
}

func (d *Driver) EnumeratePhysicalDevices(inst vapi.Instance) ([]vapi.PhysicalDevice, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(inst), "Instance") {
		return nil, vapi.ErrorInitializationFailed
	}
	return []vapi.PhysicalDevice{gpuHandle}, vapi.Success
}

// QueueFamilies reports a transfer-only family followed by a graphics family.
func (d *Driver) QueueFamilies(gpu vapi.PhysicalDevice) []vapi.QueueFamily {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	return []vapi.QueueFamily{
		{Flags: vapi.QueueTransfer, Count: 1},
		{Flags: vapi.QueueGraphics | vapi.QueueCompute | vapi.QueueTransfer, Count: 1},
	}
}

func (d *Driver) MemoryTypes(gpu vapi.PhysicalDevice) []vapi.MemoryType {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	return append([]vapi.MemoryType(nil), d.MemTypes...)
}

func (d *Driver) FormatProperties(gpu vapi.PhysicalDevice, format vapi.Format) vapi.FormatProperties {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	fp := vapi.FormatProperties{Optimal: vapi.FeatureSampledImage}
	if format.IsDepth() {
		fp.Optimal |= vapi.FeatureDepthStencilAttachment
	} else {
		fp.Optimal |= vapi.FeatureColorAttachment
		if d.LinearSampling {
			fp.Linear = vapi.FeatureSampledImage
		}
	}
	return fp
}

////////////////////////////////////////////////////////
// Surface

func (d *Driver) CreateSurface(inst vapi.Instance, win *vapi.NativeWindow) (vapi.Surface, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(inst), "Instance") {
		return 0, vapi.ErrorInitializationFailed
	}
	if win.Kind == vapi.SurfaceWayland {
		return 0, vapi.ErrorExtensionNotPresent
	}
	nw := *win
	return vapi.Surface(d.alloc("Surface", &nw)), vapi.Success
}

func (d *Driver) DestroySurface(inst vapi.Instance, surf vapi.Surface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(surf), "Surface")
}

func (d *Driver) SurfaceSupport(gpu vapi.PhysicalDevice, family uint32, surf vapi.Surface) (bool, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(surf), "Surface") {
		return false, vapi.ErrorSurfaceLost
	}
	return family == 1 && !d.NoPresent, vapi.Success
}

func (d *Driver) SurfaceCapabilities(gpu vapi.PhysicalDevice, surf vapi.Surface) (vapi.SurfaceCaps, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(surf), "Surface") {
		return vapi.SurfaceCaps{}, vapi.ErrorSurfaceLost
	}
	caps := vapi.SurfaceCaps{
		MinImageCount: d.MinImageCount,
		MaxImageCount: 3,
		CurrentExtent: d.CurrentExtent,
		MinExtent:     vapi.Extent2D{Width: 1, Height: 1},
		MaxExtent:     vapi.Extent2D{Width: 16384, Height: 16384},
	}
	if caps.CurrentExtent.Width == 0 {
		caps.CurrentExtent = vapi.Extent2D{Width: vapi.UndefinedExtent, Height: vapi.UndefinedExtent}
	}
	return caps, vapi.Success
}

func (d *Driver) SurfaceFormats(gpu vapi.PhysicalDevice, surf vapi.Surface) ([]vapi.SurfaceFormat, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(surf), "Surface") {
		return nil, vapi.ErrorSurfaceLost
	}
	return []vapi.SurfaceFormat{
		{Format: vapi.FormatB8G8R8A8Unorm, ColorSpace: vapi.ColorSpaceSrgbNonlinear},
		{Format: vapi.FormatR8G8B8A8Unorm, ColorSpace: vapi.ColorSpaceSrgbNonlinear},
	}, vapi.Success
}

////////////////////////////////////////////////////////
// Device and Queue

func (d *Driver) CreateDevice(gpu vapi.PhysicalDevice, info *vapi.DeviceInfo) (vapi.Device, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if gpu != gpuHandle {
		d.errorf("CreateDevice on unknown physical device %d", gpu)
		return 0, vapi.ErrorInitializationFailed
	}
	di := *info
	return vapi.Device(d.alloc("Device", &di)), vapi.Success
}

func (d *Driver) DestroyDevice(dev vapi.Device) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(dev), "Device")
}

// DeviceQueue returns the queue as a derived handle: queues are owned by
// the device and are not counted as live handles.
func (d *Driver) DeviceQueue(dev vapi.Device, family, index uint32) vapi.Queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.check(uint64(dev), "Device")
	return vapi.Queue(uint64(dev)<<16 | uint64(family)<<8 | uint64(index))
}

func (d *Driver) DeviceWaitIdle(dev vapi.Device) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(dev), "Device") {
		return vapi.ErrorDeviceLost
	}
	d.WaitIdles++
	return vapi.Success
}

func (d *Driver) QueueSubmit(q vapi.Queue, submits []vapi.SubmitInfo, fence vapi.Fence) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.Submits++
	d.submit = nil
	for _, si := range submits {
		if len(si.WaitSemaphores) != len(si.WaitStages) {
			d.errorf("QueueSubmit: %d wait semaphores with %d wait stages", len(si.WaitSemaphores), len(si.WaitStages))
		}
		for _, cmd := range si.CommandBuffers {
			cs, ok := d.cmds[cmd]
			if !ok {
				d.errorf("QueueSubmit of unknown command buffer %d", cmd)
				continue
			}
			if cs.recording {
				d.errorf("QueueSubmit of command buffer %d still recording", cmd)
			}
			for _, c := range cs.cmds {
				if c.Op == OpDraw {
					d.Draws++
				}
			}
			d.submit = append(d.submit, cs.cmds...)
		}
	}
	if fence != 0 {
		if !d.check(uint64(fence), "Fence") {
			return vapi.ErrorDeviceLost
		}
		if d.fences[fence] {
			d.errorf("QueueSubmit with fence %d already signaled", fence)
		}
		d.fences[fence] = true
	}
	return vapi.Success
}

func (d *Driver) QueuePresent(q vapi.Queue, info *vapi.PresentInfo) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(info.Swapchain), "Swapchain") {
		return vapi.ErrorSurfaceLost
	}
	if int(info.ImageIndex) >= len(d.chains[info.Swapchain]) {
		d.errorf("QueuePresent of image %d out of range", info.ImageIndex)
		return vapi.ErrorOutOfDate
	}
	d.Presents++
	return vapi.Success
}

////////////////////////////////////////////////////////
// Commands

func (d *Driver) CreateCommandPool(dev vapi.Device, family uint32) (vapi.CommandPool, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	return vapi.CommandPool(d.alloc("CommandPool", nil)), vapi.Success
}

func (d *Driver) DestroyCommandPool(dev vapi.Device, pool vapi.CommandPool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(pool), "CommandPool")
}

func (d *Driver) AllocateCommandBuffer(dev vapi.Device, pool vapi.CommandPool) (vapi.CommandBuffer, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(pool), "CommandPool") {
		return 0, vapi.ErrorOutOfHostMemory
	}
	cmd := vapi.CommandBuffer(d.alloc("CommandBuffer", nil))
	d.cmds[cmd] = &cmdState{}
	return cmd, vapi.Success
}

func (d *Driver) FreeCommandBuffer(dev vapi.Device, pool vapi.CommandPool, cmd vapi.CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(cmd), "CommandBuffer")
	delete(d.cmds, cmd)
}

// BeginCommandBuffer implicitly resets the buffer, as a buffer from a
// resettable pool does.
func (d *Driver) BeginCommandBuffer(cmd vapi.CommandBuffer, oneTimeSubmit bool) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	cs, ok := d.cmds[cmd]
	if !ok {
		d.errorf("BeginCommandBuffer of unknown command buffer %d", cmd)
		return vapi.ErrorOutOfHostMemory
	}
	if cs.recording {
		d.errorf("BeginCommandBuffer of command buffer %d already recording", cmd)
	}
	cs.recording = true
	cs.oneTime = oneTimeSubmit
	cs.cmds = nil
	return vapi.Success
}

func (d *Driver) EndCommandBuffer(cmd vapi.CommandBuffer) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	cs, ok := d.cmds[cmd]
	if !ok || !cs.recording {
		d.errorf("EndCommandBuffer of command buffer %d not recording", cmd)
		return vapi.ErrorOutOfHostMemory
	}
	cs.recording = false
	return vapi.Success
}

func (d *Driver) ResetCommandBuffer(cmd vapi.CommandBuffer) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	cs, ok := d.cmds[cmd]
	if !ok {
		d.errorf("ResetCommandBuffer of unknown command buffer %d", cmd)
		return vapi.ErrorOutOfHostMemory
	}
	cs.recording = false
	cs.cmds = nil
	return vapi.Success
}

////////////////////////////////////////////////////////
// Sampler

func (d *Driver) CreateSampler(dev vapi.Device, info *vapi.SamplerInfo) (vapi.Sampler, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	si := *info
	return vapi.Sampler(d.alloc("Sampler", &si)), vapi.Success
}

func (d *Driver) DestroySampler(dev vapi.Device, s vapi.Sampler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(s), "Sampler")
}

////////////////////////////////////////////////////////
// Swapchain

// CreateSwapchain issues MinImageCount presentable images. The images
// belong to the swapchain and are not counted as live handles.
func (d *Driver) CreateSwapchain(dev vapi.Device, info *vapi.SwapchainInfo) (vapi.Swapchain, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(info.Surface), "Surface") {
		return 0, vapi.ErrorSurfaceLost
	}
	if info.OldSwapchain != 0 {
		d.check(uint64(info.OldSwapchain), "Swapchain")
	}
	if info.Extent.Width == 0 || info.Extent.Height == 0 {
		d.errorf("CreateSwapchain with empty extent %v", info.Extent)
		return 0, vapi.ErrorInitializationFailed
	}
	si := *info
	sc := vapi.Swapchain(d.alloc("Swapchain", &si))
	imgs := make([]vapi.Image, info.MinImageCount)
	for i := range imgs {
		d.next++
		imgs[i] = vapi.Image(d.next)
		d.infos[d.next] = &vapi.ImageInfo{Width: info.Extent.Width, Height: info.Extent.Height,
			Format: info.Format, Usage: info.Usage, Samples: vapi.Samples1}
	}
	d.chains[sc] = imgs
	return sc, vapi.Success
}

func (d *Driver) DestroySwapchain(dev vapi.Device, sc vapi.Swapchain) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	for _, img := range d.chains[sc] {
		delete(d.infos, uint64(img))
	}
	delete(d.chains, sc)
	delete(d.acquire, sc)
	d.free(uint64(sc), "Swapchain")
}

func (d *Driver) SwapchainImages(dev vapi.Device, sc vapi.Swapchain) ([]vapi.Image, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(sc), "Swapchain") {
		return nil, vapi.ErrorSurfaceLost
	}
	return append([]vapi.Image(nil), d.chains[sc]...), vapi.Success
}

// AcquireNextImage cycles through the swapchain images. The first
// Config.OutOfDate calls report ErrorOutOfDate.
func (d *Driver) AcquireNextImage(dev vapi.Device, sc vapi.Swapchain, timeout uint64, sem vapi.Semaphore, fence vapi.Fence) (uint32, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(sc), "Swapchain") {
		return 0, vapi.ErrorSurfaceLost
	}
	d.Acquires++
	if d.OutOfDate > 0 {
		d.OutOfDate--
		d.OutOfDates++
		return 0, vapi.ErrorOutOfDate
	}
	idx := d.acquire[sc]
	d.acquire[sc] = (idx + 1) % uint32(len(d.chains[sc]))
	if fence != 0 && d.check(uint64(fence), "Fence") {
		d.fences[fence] = true
	}
	return idx, vapi.Success
}

////////////////////////////////////////////////////////
// Memory

func (d *Driver) AllocateMemory(dev vapi.Device, size uint64, typeIndex uint32) (vapi.DeviceMemory, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if int(typeIndex) >= len(d.MemTypes) {
		d.errorf("AllocateMemory with memory type %d out of range", typeIndex)
		return 0, vapi.ErrorOutOfDeviceMemory
	}
	mem := vapi.DeviceMemory(d.alloc("DeviceMemory", nil))
	d.memory[mem] = make([]byte, size)
	return mem, vapi.Success
}

func (d *Driver) FreeMemory(dev vapi.Device, mem vapi.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if d.mapped[mem] {
		d.errorf("FreeMemory of mapped memory %d", mem)
	}
	delete(d.memory, mem)
	delete(d.mapped, mem)
	d.free(uint64(mem), "DeviceMemory")
}

func (d *Driver) MapMemory(dev vapi.Device, mem vapi.DeviceMemory, offset, size uint64) ([]byte, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	buf, ok := d.memory[mem]
	if !ok {
		d.errorf("MapMemory of unknown memory %d", mem)
		return nil, vapi.ErrorMemoryMapFailed
	}
	if d.mapped[mem] {
		d.errorf("MapMemory of memory %d already mapped", mem)
		return nil, vapi.ErrorMemoryMapFailed
	}
	end := uint64(len(buf))
	if size != vapi.WholeSize {
		end = offset + size
	}
	if offset > end || end > uint64(len(buf)) {
		d.errorf("MapMemory range [%d:%d] beyond allocation of %d", offset, end, len(buf))
		return nil, vapi.ErrorMemoryMapFailed
	}
	d.mapped[mem] = true
	return buf[offset:end], vapi.Success
}

func (d *Driver) UnmapMemory(dev vapi.Device, mem vapi.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.mapped[mem] {
		d.errorf("UnmapMemory of memory %d not mapped", mem)
	}
	delete(d.mapped, mem)
}

// typeBits returns the allowed memory types for all requirements.
func (d *Driver) typeBits() uint32 {
	if d.TypeBits != 0 {
		return d.TypeBits
	}
	return uint32(1)<<len(d.MemTypes) - 1
}

////////////////////////////////////////////////////////
// Buffer

func (d *Driver) CreateBuffer(dev vapi.Device, info *vapi.BufferInfo) (vapi.Buffer, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if info.Size == 0 {
		d.errorf("CreateBuffer with zero size")
		return 0, vapi.ErrorOutOfDeviceMemory
	}
	bi := *info
	return vapi.Buffer(d.alloc("Buffer", &bi)), vapi.Success
}

func (d *Driver) DestroyBuffer(dev vapi.Device, buf vapi.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	delete(d.bound, uint64(buf))
	d.free(uint64(buf), "Buffer")
}

func (d *Driver) BufferMemoryRequirements(dev vapi.Device, buf vapi.Buffer) vapi.MemoryRequirements {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	bi, _ := d.infos[uint64(buf)].(*vapi.BufferInfo)
	if bi == nil {
		d.errorf("BufferMemoryRequirements of unknown buffer %d", buf)
		return vapi.MemoryRequirements{}
	}
	return vapi.MemoryRequirements{Size: alignUp(bi.Size, 256), Alignment: 256, TypeBits: d.typeBits()}
}

func (d *Driver) BindBufferMemory(dev vapi.Device, buf vapi.Buffer, mem vapi.DeviceMemory) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(buf), "Buffer") || !d.check(uint64(mem), "DeviceMemory") {
		return vapi.ErrorOutOfDeviceMemory
	}
	d.bound[uint64(buf)] = mem
	return vapi.Success
}

////////////////////////////////////////////////////////
// Image

func (d *Driver) CreateImage(dev vapi.Device, info *vapi.ImageInfo) (vapi.Image, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if info.Width == 0 || info.Height == 0 {
		d.errorf("CreateImage with empty size %dx%d", info.Width, info.Height)
		return 0, vapi.ErrorOutOfDeviceMemory
	}
	ii := *info
	return vapi.Image(d.alloc("Image", &ii)), vapi.Success
}

func (d *Driver) DestroyImage(dev vapi.Device, img vapi.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	delete(d.bound, uint64(img))
	d.free(uint64(img), "Image")
}

func (d *Driver) ImageMemoryRequirements(dev vapi.Device, img vapi.Image) vapi.MemoryRequirements {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	ii, _ := d.infos[uint64(img)].(*vapi.ImageInfo)
	if ii == nil {
		d.errorf("ImageMemoryRequirements of unknown image %d", img)
		return vapi.MemoryRequirements{}
	}
	lay := imageLayout(ii)
	size := lay.Size
	if ii.Samples > 1 {
		size *= uint64(ii.Samples)
	}
	return vapi.MemoryRequirements{Size: alignUp(size, 4096), Alignment: 4096, TypeBits: d.typeBits()}
}

func (d *Driver) BindImageMemory(dev vapi.Device, img vapi.Image, mem vapi.DeviceMemory) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(img), "Image") || !d.check(uint64(mem), "DeviceMemory") {
		return vapi.ErrorOutOfDeviceMemory
	}
	d.bound[uint64(img)] = mem
	return vapi.Success
}

// ImageSubresourceLayout pads rows to a multiple of 64 bytes, so callers
// must honor RowPitch when writing linear images.
func (d *Driver) ImageSubresourceLayout(dev vapi.Device, img vapi.Image, aspect vapi.ImageAspect) vapi.SubresourceLayout {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	ii, _ := d.infos[uint64(img)].(*vapi.ImageInfo)
	if ii == nil {
		d.errorf("ImageSubresourceLayout of unknown image %d", img)
		return vapi.SubresourceLayout{}
	}
	return imageLayout(ii)
}

func imageLayout(ii *vapi.ImageInfo) vapi.SubresourceLayout {
	bpp := uint64(4)
	if ii.Format == vapi.FormatD16Unorm {
		bpp = 2
	} else if ii.Format == vapi.FormatR32G32B32A32Sfloat {
		bpp = 16
	}
	pitch := alignUp(uint64(ii.Width)*bpp, 64)
	return vapi.SubresourceLayout{Offset: 0, Size: pitch * uint64(ii.Height), RowPitch: pitch}
}

func (d *Driver) CreateImageView(dev vapi.Device, info *vapi.ImageViewInfo) (vapi.ImageView, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if _, ok := d.infos[uint64(info.Image)].(*vapi.ImageInfo); !ok {
		d.errorf("CreateImageView of unknown image %d", info.Image)
		return 0, vapi.ErrorOutOfDeviceMemory
	}
	vi := *info
	return vapi.ImageView(d.alloc("ImageView", &vi)), vapi.Success
}

func (d *Driver) DestroyImageView(dev vapi.Device, view vapi.ImageView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(view), "ImageView")
}

////////////////////////////////////////////////////////
// RenderPass and Framebuffer

func (d *Driver) CreateRenderPass(dev vapi.Device, info *vapi.RenderPassInfo) (vapi.RenderPass, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	for _, sp := range info.Subpasses {
		refs := append(append([]vapi.AttachmentRef(nil), sp.Color...), sp.Resolve...)
		if sp.Depth != nil {
			refs = append(refs, *sp.Depth)
		}
		for _, r := range refs {
			if int(r.Attachment) >= len(info.Attachments) {
				d.errorf("CreateRenderPass: attachment ref %d out of range", r.Attachment)
				return 0, vapi.ErrorInitializationFailed
			}
		}
	}
	ri := *info
	return vapi.RenderPass(d.alloc("RenderPass", &ri)), vapi.Success
}

func (d *Driver) DestroyRenderPass(dev vapi.Device, rp vapi.RenderPass) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(rp), "RenderPass")
}

func (d *Driver) CreateFramebuffer(dev vapi.Device, info *vapi.FramebufferInfo) (vapi.Framebuffer, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	rp, _ := d.infos[uint64(info.RenderPass)].(*vapi.RenderPassInfo)
	if rp == nil {
		d.errorf("CreateFramebuffer with unknown render pass %d", info.RenderPass)
		return 0, vapi.ErrorInitializationFailed
	}
	if len(rp.Attachments) != len(info.Attachments) {
		d.errorf("CreateFramebuffer: %d views for %d attachments", len(info.Attachments), len(rp.Attachments))
		return 0, vapi.ErrorInitializationFailed
	}
	for _, v := range info.Attachments {
		d.check(uint64(v), "ImageView")
	}
	fi := *info
	fi.Attachments = append([]vapi.ImageView(nil), info.Attachments...)
	return vapi.Framebuffer(d.alloc("Framebuffer", &fi)), vapi.Success
}

func (d *Driver) DestroyFramebuffer(dev vapi.Device, fb vapi.Framebuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(fb), "Framebuffer")
}

////////////////////////////////////////////////////////
// Pipelines and Descriptors

// CreateShaderModule requires SPIR-V sized code: a non-empty multiple of 4 bytes.
func (d *Driver) CreateShaderModule(dev vapi.Device, code []byte) (vapi.ShaderModule, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if len(code) == 0 || len(code)%4 != 0 {
		d.errorf("CreateShaderModule with %d bytes of code", len(code))
		return 0, vapi.ErrorInitializationFailed
	}
	return vapi.ShaderModule(d.alloc("ShaderModule", nil)), vapi.Success
}

func (d *Driver) DestroyShaderModule(dev vapi.Device, mod vapi.ShaderModule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(mod), "ShaderModule")
}

func (d *Driver) CreateDescriptorSetLayout(dev vapi.Device, bindings []vapi.DescriptorBinding) (vapi.DescriptorSetLayout, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	bs := append([]vapi.DescriptorBinding(nil), bindings...)
	return vapi.DescriptorSetLayout(d.alloc("DescriptorSetLayout", bs)), vapi.Success
}

func (d *Driver) DestroyDescriptorSetLayout(dev vapi.Device, layout vapi.DescriptorSetLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(layout), "DescriptorSetLayout")
}

func (d *Driver) CreatePipelineLayout(dev vapi.Device, sets []vapi.DescriptorSetLayout) (vapi.PipelineLayout, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	for _, s := range sets {
		d.check(uint64(s), "DescriptorSetLayout")
	}
	ss := append([]vapi.DescriptorSetLayout(nil), sets...)
	return vapi.PipelineLayout(d.alloc("PipelineLayout", ss)), vapi.Success
}

func (d *Driver) DestroyPipelineLayout(dev vapi.Device, layout vapi.PipelineLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(layout), "PipelineLayout")
}

func (d *Driver) CreateGraphicsPipeline(dev vapi.Device, info *vapi.GraphicsPipelineInfo) (vapi.Pipeline, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	for _, st := range info.Stages {
		if !d.check(uint64(st.Module), "ShaderModule") {
			return 0, vapi.ErrorInitializationFailed
		}
	}
	if !d.check(uint64(info.Layout), "PipelineLayout") || !d.check(uint64(info.RenderPass), "RenderPass") {
		return 0, vapi.ErrorInitializationFailed
	}
	pi := *info
	return vapi.Pipeline(d.alloc("Pipeline", &pi)), vapi.Success
}

func (d *Driver) DestroyPipeline(dev vapi.Device, p vapi.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(p), "Pipeline")
}

type poolState struct {
	info vapi.DescriptorPoolInfo
	sets []vapi.DescriptorSet
}

func (d *Driver) CreateDescriptorPool(dev vapi.Device, info *vapi.DescriptorPoolInfo) (vapi.DescriptorPool, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	ps := &poolState{info: *info}
	return vapi.DescriptorPool(d.alloc("DescriptorPool", ps)), vapi.Success
}

// DestroyDescriptorPool frees the sets allocated from the pool.
func (d *Driver) DestroyDescriptorPool(dev vapi.Device, pool vapi.DescriptorPool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if ps, ok := d.infos[uint64(pool)].(*poolState); ok {
		for _, s := range ps.sets {
			d.free(uint64(s), "DescriptorSet")
		}
	}
	d.free(uint64(pool), "DescriptorPool")
}

func (d *Driver) AllocateDescriptorSet(dev vapi.Device, pool vapi.DescriptorPool, layout vapi.DescriptorSetLayout) (vapi.DescriptorSet, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	ps, _ := d.infos[uint64(pool)].(*poolState)
	if ps == nil || !d.check(uint64(layout), "DescriptorSetLayout") {
		d.errorf("AllocateDescriptorSet from invalid pool %d or layout %d", pool, layout)
		return 0, vapi.ErrorOutOfHostMemory
	}
	if uint32(len(ps.sets)) >= ps.info.MaxSets {
		return 0, vapi.ErrorOutOfHostMemory
	}
	set := vapi.DescriptorSet(d.alloc("DescriptorSet", &setState{layout: layout}))
	ps.sets = append(ps.sets, set)
	return set, vapi.Success
}

type setState struct {
	layout vapi.DescriptorSetLayout
	writes []vapi.DescriptorWrite
}

func (d *Driver) UpdateDescriptorSets(dev vapi.Device, writes []vapi.DescriptorWrite) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	for _, w := range writes {
		ss, _ := d.infos[uint64(w.Set)].(*setState)
		if ss == nil {
			d.errorf("UpdateDescriptorSets of unknown set %d", w.Set)
			continue
		}
		bs, _ := d.infos[uint64(ss.layout)].([]vapi.DescriptorBinding)
		found := false
		for _, b := range bs {
			if b.Binding == w.Binding {
				found = true
				if b.Type != w.Type {
					d.errorf("UpdateDescriptorSets: binding %d is %d, written as %d", w.Binding, b.Type, w.Type)
				}
			}
		}
		if !found {
			d.errorf("UpdateDescriptorSets: no binding %d in layout", w.Binding)
		}
		switch w.Type {
		case vapi.DescriptorUniformBuffer:
			d.check(uint64(w.Buffer), "Buffer")
		case vapi.DescriptorCombinedImageSampler:
			d.check(uint64(w.Sampler), "Sampler")
			d.check(uint64(w.View), "ImageView")
		}
		ss.writes = append(ss.writes, w)
	}
}

// Writes returns the descriptor writes applied to a set.
func (d *Driver) Writes(set vapi.DescriptorSet) []vapi.DescriptorWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ss, ok := d.infos[uint64(set)].(*setState); ok {
		return append([]vapi.DescriptorWrite(nil), ss.writes...)
	}
	return nil
}

// Bindings returns the bindings of a descriptor set layout.
func (d *Driver) Bindings(layout vapi.DescriptorSetLayout) []vapi.DescriptorBinding {
	d.mu.Lock()
	defer d.mu.Unlock()
	bs, _ := d.infos[uint64(layout)].([]vapi.DescriptorBinding)
	return bs
}

// PoolInfo returns the create info of a descriptor pool.
func (d *Driver) PoolInfo(pool vapi.DescriptorPool) *vapi.DescriptorPoolInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ps, ok := d.infos[uint64(pool)].(*poolState); ok {
		pi := ps.info
		return &pi
	}
	return nil
}

////////////////////////////////////////////////////////
// Synchronization

func (d *Driver) CreateFence(dev vapi.Device, signaled bool) (vapi.Fence, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	f := vapi.Fence(d.alloc("Fence", nil))
	d.fences[f] = signaled
	return f, vapi.Success
}

func (d *Driver) DestroyFence(dev vapi.Device, f vapi.Fence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	delete(d.fences, f)
	d.free(uint64(f), "Fence")
}

// WaitForFence returns Timeout for an unsignaled fence, since nothing
// else could ever signal it.
func (d *Driver) WaitForFence(dev vapi.Device, f vapi.Fence, timeout uint64) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(f), "Fence") {
		return vapi.ErrorDeviceLost
	}
	d.FenceWaits++
	d.LastFence = f
	d.LastFenceSignaled = d.fences[f]
	if !d.fences[f] {
		d.FenceTimeouts++
		return vapi.Timeout
	}
	return vapi.Success
}

func (d *Driver) ResetFence(dev vapi.Device, f vapi.Fence) vapi.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	if !d.check(uint64(f), "Fence") {
		return vapi.ErrorDeviceLost
	}
	d.fences[f] = false
	return vapi.Success
}

func (d *Driver) CreateSemaphore(dev vapi.Device) (vapi.Semaphore, vapi.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	return vapi.Semaphore(d.alloc("Semaphore", nil)), vapi.Success
}

func (d *Driver) DestroySemaphore(dev vapi.Device, s vapi.Semaphore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.call()
	d.free(uint64(s), "Semaphore")
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) / align * align
}
