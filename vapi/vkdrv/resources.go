// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkdrv

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

////////////////////////////////////////////////////////////
// commands

func (d *Driver) CreateCommandPool(dev vapi.Device, family uint32) (vapi.CommandPool, vapi.Result) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.devices.get(uint64(dev)), &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}, nil, &pool)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.CommandPool(d.cmdPools.add(pool)), vapi.Success
}

func (d *Driver) DestroyCommandPool(dev vapi.Device, pool vapi.CommandPool) {
	if cp, ok := d.cmdPools.del(uint64(pool)); ok {
		vk.DestroyCommandPool(d.devices.get(uint64(dev)), cp, nil)
	}
}

func (d *Driver) AllocateCommandBuffer(dev vapi.Device, pool vapi.CommandPool) (vapi.CommandBuffer, vapi.Result) {
	cmds := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(d.devices.get(uint64(dev)), &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.cmdPools.get(uint64(pool)),
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmds)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.CommandBuffer(d.cmdBufs.add(cmds[0])), vapi.Success
}

func (d *Driver) FreeCommandBuffer(dev vapi.Device, pool vapi.CommandPool, cmd vapi.CommandBuffer) {
	if cb, ok := d.cmdBufs.del(uint64(cmd)); ok {
		vk.FreeCommandBuffers(d.devices.get(uint64(dev)), d.cmdPools.get(uint64(pool)), 1, []vk.CommandBuffer{cb})
	}
}

func (d *Driver) BeginCommandBuffer(cmd vapi.CommandBuffer, oneTimeSubmit bool) vapi.Result {
	var flags vk.CommandBufferUsageFlags
	if oneTimeSubmit {
		flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	return result(vk.BeginCommandBuffer(d.cmdBufs.get(uint64(cmd)), &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}))
}

func (d *Driver) EndCommandBuffer(cmd vapi.CommandBuffer) vapi.Result {
	return result(vk.EndCommandBuffer(d.cmdBufs.get(uint64(cmd))))
}

func (d *Driver) ResetCommandBuffer(cmd vapi.CommandBuffer) vapi.Result {
	return result(vk.ResetCommandBuffer(d.cmdBufs.get(uint64(cmd)), 0))
}

////////////////////////////////////////////////////////////
// sampler

func (d *Driver) CreateSampler(dev vapi.Device, info *vapi.SamplerInfo) (vapi.Sampler, vapi.Result) {
	am := vk.SamplerAddressMode(info.AddressMode)
	var s vk.Sampler
	ret := vk.CreateSampler(d.devices.get(uint64(dev)), &vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.Filter(info.MagFilter),
		MinFilter:    vk.Filter(info.MinFilter),
		MipmapMode:   vk.SamplerMipmapModeLinear,
		AddressModeU: am,
		AddressModeV: am,
		AddressModeW: am,
		MaxLod:       1,
		BorderColor:  vk.BorderColorIntOpaqueBlack,
	}, nil, &s)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Sampler(d.samplers.add(s)), vapi.Success
}

func (d *Driver) DestroySampler(dev vapi.Device, s vapi.Sampler) {
	if vs, ok := d.samplers.del(uint64(s)); ok {
		vk.DestroySampler(d.devices.get(uint64(dev)), vs, nil)
	}
}

////////////////////////////////////////////////////////////
// swapchain

func (d *Driver) CreateSwapchain(dev vapi.Device, info *vapi.SwapchainInfo) (vapi.Swapchain, vapi.Result) {
	var sc vk.Swapchain
	ret := vk.CreateSwapchain(d.devices.get(uint64(dev)), &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surfaces.get(uint64(info.Surface)),
		MinImageCount:    info.MinImageCount,
		ImageFormat:      vk.Format(info.Format),
		ImageColorSpace:  vk.ColorSpace(info.ColorSpace),
		ImageExtent:      vk.Extent2D{Width: info.Extent.Width, Height: info.Extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(info.Usage),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:   vk.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:      vk.PresentMode(info.PresentMode),
		Clipped:          b32(info.Clipped),
		OldSwapchain:     d.swapchains.get(uint64(info.OldSwapchain)),
	}, nil, &sc)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Swapchain(d.swapchains.add(sc)), vapi.Success
}

func (d *Driver) DestroySwapchain(dev vapi.Device, sc vapi.Swapchain) {
	for _, id := range d.swapImages[uint64(sc)] {
		d.images.del(id)
	}
	delete(d.swapImages, uint64(sc))
	if vs, ok := d.swapchains.del(uint64(sc)); ok {
		vk.DestroySwapchain(d.devices.get(uint64(dev)), vs, nil)
	}
}

// SwapchainImages registers the images of the swapchain. They are owned
// by the swapchain and their handles are released with it.
func (d *Driver) SwapchainImages(dev vapi.Device, sc vapi.Swapchain) ([]vapi.Image, vapi.Result) {
	vd := d.devices.get(uint64(dev))
	vs := d.swapchains.get(uint64(sc))
	var n uint32
	ret := vk.GetSwapchainImages(vd, vs, &n, nil)
	if ret != vk.Success {
		return nil, result(ret)
	}
	imgs := make([]vk.Image, n)
	ret = vk.GetSwapchainImages(vd, vs, &n, imgs)
	if ret != vk.Success && ret != vk.Incomplete {
		return nil, result(ret)
	}
	for _, id := range d.swapImages[uint64(sc)] {
		d.images.del(id)
	}
	ids := make([]uint64, n)
	hs := make([]vapi.Image, n)
	for i, img := range imgs[:n] {
		ids[i] = d.images.add(img)
		hs[i] = vapi.Image(ids[i])
	}
	d.swapImages[uint64(sc)] = ids
	return hs, vapi.Success
}

func (d *Driver) AcquireNextImage(dev vapi.Device, sc vapi.Swapchain, timeout uint64, sem vapi.Semaphore, fence vapi.Fence) (uint32, vapi.Result) {
	var idx uint32
	ret := vk.AcquireNextImage(d.devices.get(uint64(dev)), d.swapchains.get(uint64(sc)), timeout, d.semaphores.get(uint64(sem)), d.fences.get(uint64(fence)), &idx)
	return idx, result(ret)
}

////////////////////////////////////////////////////////////
// memory

func (d *Driver) AllocateMemory(dev vapi.Device, size uint64, typeIndex uint32) (vapi.DeviceMemory, vapi.Result) {
	var mem vk.DeviceMemory
	ret := vk.AllocateMemory(d.devices.get(uint64(dev)), &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}, nil, &mem)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.DeviceMemory(d.mems.add(memory{mem: mem, size: size})), vapi.Success
}

func (d *Driver) FreeMemory(dev vapi.Device, mem vapi.DeviceMemory) {
	if m, ok := d.mems.del(uint64(mem)); ok {
		vk.FreeMemory(d.devices.get(uint64(dev)), m.mem, nil)
	}
}

func (d *Driver) MapMemory(dev vapi.Device, mem vapi.DeviceMemory, offset, size uint64) ([]byte, vapi.Result) {
	m := d.mems.get(uint64(mem))
	if size == vapi.WholeSize {
		size = m.size - offset
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(d.devices.get(uint64(dev)), m.mem, vk.DeviceSize(offset), vk.DeviceSize(size), 0, &ptr)
	if ret != vk.Success {
		return nil, result(ret)
	}
	return unsafe.Slice((*byte)(ptr), size), vapi.Success
}

func (d *Driver) UnmapMemory(dev vapi.Device, mem vapi.DeviceMemory) {
	vk.UnmapMemory(d.devices.get(uint64(dev)), d.mems.get(uint64(mem)).mem)
}

func memReqs(mr vk.MemoryRequirements) vapi.MemoryRequirements {
	mr.Deref()
	return vapi.MemoryRequirements{Size: uint64(mr.Size), Alignment: uint64(mr.Alignment), TypeBits: mr.MemoryTypeBits}
}

////////////////////////////////////////////////////////////
// buffers

func (d *Driver) CreateBuffer(dev vapi.Device, info *vapi.BufferInfo) (vapi.Buffer, vapi.Result) {
	var buf vk.Buffer
	ret := vk.CreateBuffer(d.devices.get(uint64(dev)), &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(info.Size),
		Usage:       vk.BufferUsageFlags(info.Usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buf)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Buffer(d.buffers.add(buf)), vapi.Success
}

func (d *Driver) DestroyBuffer(dev vapi.Device, buf vapi.Buffer) {
	if vb, ok := d.buffers.del(uint64(buf)); ok {
		vk.DestroyBuffer(d.devices.get(uint64(dev)), vb, nil)
	}
}

func (d *Driver) BufferMemoryRequirements(dev vapi.Device, buf vapi.Buffer) vapi.MemoryRequirements {
	var mr vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.devices.get(uint64(dev)), d.buffers.get(uint64(buf)), &mr)
	return memReqs(mr)
}

func (d *Driver) BindBufferMemory(dev vapi.Device, buf vapi.Buffer, mem vapi.DeviceMemory) vapi.Result {
	return result(vk.BindBufferMemory(d.devices.get(uint64(dev)), d.buffers.get(uint64(buf)), d.mems.get(uint64(mem)).mem, 0))
}

////////////////////////////////////////////////////////////
// images

func (d *Driver) CreateImage(dev vapi.Device, info *vapi.ImageInfo) (vapi.Image, vapi.Result) {
	var img vk.Image
	ret := vk.CreateImage(d.devices.get(uint64(dev)), &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        vk.Format(info.Format),
		Extent:        vk.Extent3D{Width: info.Width, Height: info.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCountFlagBits(info.Samples),
		Tiling:        vk.ImageTiling(info.Tiling),
		Usage:         vk.ImageUsageFlags(info.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayout(info.InitialLayout),
	}, nil, &img)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Image(d.images.add(img)), vapi.Success
}

func (d *Driver) DestroyImage(dev vapi.Device, img vapi.Image) {
	if vi, ok := d.images.del(uint64(img)); ok {
		vk.DestroyImage(d.devices.get(uint64(dev)), vi, nil)
	}
}

func (d *Driver) ImageMemoryRequirements(dev vapi.Device, img vapi.Image) vapi.MemoryRequirements {
	var mr vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.devices.get(uint64(dev)), d.images.get(uint64(img)), &mr)
	return memReqs(mr)
}

func (d *Driver) BindImageMemory(dev vapi.Device, img vapi.Image, mem vapi.DeviceMemory) vapi.Result {
	return result(vk.BindImageMemory(d.devices.get(uint64(dev)), d.images.get(uint64(img)), d.mems.get(uint64(mem)).mem, 0))
}

func (d *Driver) ImageSubresourceLayout(dev vapi.Device, img vapi.Image, aspect vapi.ImageAspect) vapi.SubresourceLayout {
	var lay vk.SubresourceLayout
	vk.GetImageSubresourceLayout(d.devices.get(uint64(dev)), d.images.get(uint64(img)), &vk.ImageSubresource{
		AspectMask: vk.ImageAspectFlags(aspect),
	}, &lay)
	lay.Deref()
	return vapi.SubresourceLayout{Offset: uint64(lay.Offset), Size: uint64(lay.Size), RowPitch: uint64(lay.RowPitch)}
}

func (d *Driver) CreateImageView(dev vapi.Device, info *vapi.ImageViewInfo) (vapi.ImageView, vapi.Result) {
	var view vk.ImageView
	ret := vk.CreateImageView(d.devices.get(uint64(dev)), &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    d.images.get(uint64(info.Image)),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzle(info.Swizzle[0]),
			G: vk.ComponentSwizzle(info.Swizzle[1]),
			B: vk.ComponentSwizzle(info.Swizzle[2]),
			A: vk.ComponentSwizzle(info.Swizzle[3]),
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(info.Aspect),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.ImageView(d.views.add(view)), vapi.Success
}

func (d *Driver) DestroyImageView(dev vapi.Device, view vapi.ImageView) {
	if vv, ok := d.views.del(uint64(view)); ok {
		vk.DestroyImageView(d.devices.get(uint64(dev)), vv, nil)
	}
}
