// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkdrv

import (
	"log/slog"

	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

// DebugReportExtension must be enabled on the instance for Options.Debug
const DebugReportExtension = "VK_EXT_debug_report"

func (d *Driver) CreateInstance(info *vapi.InstanceInfo) (vapi.Instance, vapi.Result) {
	exts := mergeExts(info.Extensions, platformInstanceExts)
	if d.Opts.Debug {
		exts = mergeExts(exts, []string{DebugReportExtension})
	}
	app := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   cstr(info.AppName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        cstr("vsprite"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 0, 0),
	}
	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		Flags:                   platformInstanceFlags,
		PApplicationInfo:        app,
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: cstrs(exts),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     cstrs(info.Layers),
	}, nil, &inst)
	if ret != vk.Success {
		return 0, result(ret)
	}
	if err := vk.InitInstance(inst); err != nil {
		vk.DestroyInstance(inst, nil)
		return 0, vapi.ErrorInitializationFailed
	}
	if d.Opts.Debug {
		var cb vk.DebugReportCallback
		ret = vk.CreateDebugReportCallback(inst, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: debugReport,
		}, nil, &cb)
		if ret == vk.Success {
			d.debugCbs[inst] = cb
		} else {
			slog.Warn("vkdrv: debug report callback not installed", "result", vapi.Result(ret))
		}
	}
	return vapi.Instance(d.instances.add(inst)), vapi.Success
}

func (d *Driver) DestroyInstance(inst vapi.Instance) {
	vi, ok := d.instances.del(uint64(inst))
	if !ok {
		return
	}
	if cb, ok := d.debugCbs[vi]; ok {
		vk.DestroyDebugReportCallback(vi, cb, nil)
		delete(d.debugCbs, vi)
	}
	vk.DestroyInstance(vi, nil)
}

func (d *Driver) EnumeratePhysicalDevices(inst vapi.Instance) ([]vapi.PhysicalDevice, vapi.Result) {
	vi := d.instances.get(uint64(inst))
	var n uint32
	ret := vk.EnumeratePhysicalDevices(vi, &n, nil)
	if ret != vk.Success {
		return nil, result(ret)
	}
	gpus := make([]vk.PhysicalDevice, n)
	ret = vk.EnumeratePhysicalDevices(vi, &n, gpus)
	if ret != vk.Success && ret != vk.Incomplete {
		return nil, result(ret)
	}
	hs := make([]vapi.PhysicalDevice, 0, n)
	for _, gp := range gpus[:n] {
		hs = append(hs, vapi.PhysicalDevice(d.gpus.add(gp)))
	}
	return hs, vapi.Success
}

func (d *Driver) QueueFamilies(gpu vapi.PhysicalDevice) []vapi.QueueFamily {
	gp := d.gpus.get(uint64(gpu))
	var n uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gp, &n, nil)
	props := make([]vk.QueueFamilyProperties, n)
	vk.GetPhysicalDeviceQueueFamilyProperties(gp, &n, props)
	fams := make([]vapi.QueueFamily, n)
	for i := range props[:n] {
		props[i].Deref()
		fams[i] = vapi.QueueFamily{Flags: vapi.QueueFlags(props[i].QueueFlags), Count: props[i].QueueCount}
	}
	return fams
}

func (d *Driver) MemoryTypes(gpu vapi.PhysicalDevice) []vapi.MemoryType {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.gpus.get(uint64(gpu)), &props)
	props.Deref()
	mts := make([]vapi.MemoryType, props.MemoryTypeCount)
	for i := range mts {
		props.MemoryTypes[i].Deref()
		mts[i] = vapi.MemoryType{Flags: vapi.MemoryProperty(props.MemoryTypes[i].PropertyFlags), Heap: props.MemoryTypes[i].HeapIndex}
	}
	return mts
}

func (d *Driver) FormatProperties(gpu vapi.PhysicalDevice, format vapi.Format) vapi.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(d.gpus.get(uint64(gpu)), vk.Format(format), &props)
	props.Deref()
	return vapi.FormatProperties{
		Linear:  vapi.FormatFeature(props.LinearTilingFeatures),
		Optimal: vapi.FormatFeature(props.OptimalTilingFeatures),
	}
}

////////////////////////////////////////////////////////////
// surface

func (d *Driver) CreateSurface(inst vapi.Instance, win *vapi.NativeWindow) (vapi.Surface, vapi.Result) {
	surf, res := nativeSurface(d.instances.get(uint64(inst)), win)
	if res != vapi.Success {
		return 0, res
	}
	return d.AddSurface(surf), vapi.Success
}

func (d *Driver) DestroySurface(inst vapi.Instance, surf vapi.Surface) {
	if sf, ok := d.surfaces.del(uint64(surf)); ok {
		vk.DestroySurface(d.instances.get(uint64(inst)), sf, nil)
	}
}

func (d *Driver) SurfaceSupport(gpu vapi.PhysicalDevice, family uint32, surf vapi.Surface) (bool, vapi.Result) {
	var sup vk.Bool32
	ret := vk.GetPhysicalDeviceSurfaceSupport(d.gpus.get(uint64(gpu)), family, d.surfaces.get(uint64(surf)), &sup)
	return sup.B(), result(ret)
}

func (d *Driver) SurfaceCapabilities(gpu vapi.PhysicalDevice, surf vapi.Surface) (vapi.SurfaceCaps, vapi.Result) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(d.gpus.get(uint64(gpu)), d.surfaces.get(uint64(surf)), &caps)
	if ret != vk.Success {
		return vapi.SurfaceCaps{}, result(ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return vapi.SurfaceCaps{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		CurrentExtent: extent(caps.CurrentExtent),
		MinExtent:     extent(caps.MinImageExtent),
		MaxExtent:     extent(caps.MaxImageExtent),
	}, vapi.Success
}

func (d *Driver) SurfaceFormats(gpu vapi.PhysicalDevice, surf vapi.Surface) ([]vapi.SurfaceFormat, vapi.Result) {
	gp := d.gpus.get(uint64(gpu))
	sf := d.surfaces.get(uint64(surf))
	var n uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(gp, sf, &n, nil)
	if ret != vk.Success {
		return nil, result(ret)
	}
	formats := make([]vk.SurfaceFormat, n)
	ret = vk.GetPhysicalDeviceSurfaceFormats(gp, sf, &n, formats)
	if ret != vk.Success && ret != vk.Incomplete {
		return nil, result(ret)
	}
	fs := make([]vapi.SurfaceFormat, n)
	for i := range formats[:n] {
		formats[i].Deref()
		fs[i] = vapi.SurfaceFormat{Format: vapi.Format(formats[i].Format), ColorSpace: vapi.ColorSpace(formats[i].ColorSpace)}
	}
	return fs, vapi.Success
}

func extent(ex vk.Extent2D) vapi.Extent2D {
	return vapi.Extent2D{Width: ex.Width, Height: ex.Height}
}

////////////////////////////////////////////////////////////
// device and queue

func (d *Driver) CreateDevice(gpu vapi.PhysicalDevice, info *vapi.DeviceInfo) (vapi.Device, vapi.Result) {
	exts := mergeExts(info.Extensions, platformDeviceExts)
	var dev vk.Device
	ret := vk.CreateDevice(d.gpus.get(uint64(gpu)), &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: info.QueueFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: cstrs(exts),
	}, nil, &dev)
	if ret != vk.Success {
		return 0, result(ret)
	}
	return vapi.Device(d.devices.add(dev)), vapi.Success
}

func (d *Driver) DestroyDevice(dev vapi.Device) {
	if vd, ok := d.devices.del(uint64(dev)); ok {
		vk.DestroyDevice(vd, nil)
	}
}

func (d *Driver) DeviceQueue(dev vapi.Device, family, index uint32) vapi.Queue {
	var q vk.Queue
	vk.GetDeviceQueue(d.devices.get(uint64(dev)), family, index, &q)
	return vapi.Queue(d.queues.add(q))
}

func (d *Driver) DeviceWaitIdle(dev vapi.Device) vapi.Result {
	return result(vk.DeviceWaitIdle(d.devices.get(uint64(dev))))
}

func (d *Driver) QueueSubmit(q vapi.Queue, submits []vapi.SubmitInfo, fence vapi.Fence) vapi.Result {
	vs := make([]vk.SubmitInfo, len(submits))
	for i, si := range submits {
		stages := make([]vk.PipelineStageFlags, len(si.WaitStages))
		for j, st := range si.WaitStages {
			stages[j] = vk.PipelineStageFlags(st)
		}
		vs[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(si.WaitSemaphores)),
			PWaitSemaphores:      d.semaphoreList(si.WaitSemaphores),
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(si.CommandBuffers)),
			PCommandBuffers:      d.cmdBufList(si.CommandBuffers),
			SignalSemaphoreCount: uint32(len(si.SignalSemaphores)),
			PSignalSemaphores:    d.semaphoreList(si.SignalSemaphores),
		}
	}
	return result(vk.QueueSubmit(d.queues.get(uint64(q)), uint32(len(vs)), vs, d.fences.get(uint64(fence))))
}

func (d *Driver) QueuePresent(q vapi.Queue, info *vapi.PresentInfo) vapi.Result {
	return result(vk.QueuePresent(d.queues.get(uint64(q)), &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(info.WaitSemaphores)),
		PWaitSemaphores:    d.semaphoreList(info.WaitSemaphores),
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{d.swapchains.get(uint64(info.Swapchain))},
		PImageIndices:      []uint32{info.ImageIndex},
	}))
}

func (d *Driver) semaphoreList(hs []vapi.Semaphore) []vk.Semaphore {
	if len(hs) == 0 {
		return nil
	}
	vs := make([]vk.Semaphore, len(hs))
	for i, h := range hs {
		vs[i] = d.semaphores.get(uint64(h))
	}
	return vs
}

func (d *Driver) cmdBufList(hs []vapi.CommandBuffer) []vk.CommandBuffer {
	vs := make([]vk.CommandBuffer, len(hs))
	for i, h := range hs {
		vs[i] = d.cmdBufs.get(uint64(h))
	}
	return vs
}
