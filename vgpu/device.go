// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"log/slog"

	"goki.dev/vsprite/vapi"
)

// DeviceOpts are options for creating a Device
type DeviceOpts struct {

	// application name passed to the instance
	AppName string `desc:"application name passed to the instance"`

	// instance layers to enable, e.g., VK_LAYER_KHRONOS_validation
	Layers []string `desc:"instance layers to enable, e.g., VK_LAYER_KHRONOS_validation"`
}

// Device holds the instance, physical and logical device, the present
// queue, the command pool and sampler shared by all rendering, and the
// resource tables. It is created once per window and destroyed last.
type Device struct {
	API        vapi.API            `desc:"driver entry points, shared read-only"`
	Provider   SurfaceProvider     `desc:"platform window layer"`
	Instance   vapi.Instance       `desc:"vulkan instance"`
	GPU        vapi.PhysicalDevice `desc:"physical device"`
	Device     vapi.Device         `desc:"logical device"`
	QueueIndex uint32              `desc:"queue family index for device"`
	Queue      vapi.Queue          `desc:"present and graphics queue for device"`
	Surface    vapi.Surface        `desc:"native window surface"`
	CmdPool    CmdPool             `desc:"command pool and the single command buffer"`
	Sampler    vapi.Sampler        `desc:"linear filtering, repeat wrapping sampler for all textures"`
	MemTypes   []vapi.MemoryType   `desc:"memory types of the physical device"`

	// true if linear tiled RGBA images can be sampled, so textures are
	// written directly instead of through a staging image
	LinearSampling bool `desc:"true if linear tiled RGBA images can be sampled, so textures are written directly instead of through a staging image"`

	// background color cleared at the start of each frame
	ClearColor [3]float32 `desc:"background color cleared at the start of each frame"`

	// extent of the current swapchain
	Extent vapi.Extent2D `desc:"extent of the current swapchain"`

	Buffers  *Table[*Buffer]  `desc:"all vertex and uniform buffers"`
	Textures *Table[*Texture] `desc:"all textures"`
}

// NewDevice loads the driver, creates the instance and surface, selects
// a queue family that supports both graphics and presentation, and makes
// the logical device, command pool and sampler. On error everything made
// so far is destroyed.
func NewDevice(api vapi.API, sp SurfaceProvider, opts *DeviceOpts) (*Device, error) {
	if opts == nil {
		opts = &DeviceOpts{}
	}
	dv := &Device{API: api, Provider: sp}
	dv.Buffers = NewTable(func(bf *Buffer) { bf.Destroy() })
	dv.Textures = NewTable(func(tx *Texture) { tx.Destroy() })
	if err := dv.init(opts); err != nil {
		dv.Destroy()
		return nil, err
	}
	return dv, nil
}

func (dv *Device) init(opts *DeviceOpts) error {
	api := dv.API
	if err := api.Load(); err != nil {
		return &InitError{Op: "load driver", Err: err}
	}
	exts := append([]string{vapi.SurfaceExtension}, dv.Provider.InstanceExtensions()...)
	inst, res := api.CreateInstance(&vapi.InstanceInfo{AppName: opts.AppName, Extensions: exts, Layers: opts.Layers})
	if err := initErr("instance", res); err != nil {
		return err
	}
	dv.Instance = inst

	surf, err := dv.Provider.CreateSurface(api, dv.Instance)
	if err != nil {
		return err
	}
	dv.Surface = surf

	if err := dv.FindQueue(); err != nil {
		return err
	}
	if err := dv.MakeDevice(); err != nil {
		return err
	}
	if err := dv.CmdPool.Init(dv); err != nil {
		return err
	}
	smp, res := api.CreateSampler(dv.Device, &vapi.SamplerInfo{MagFilter: vapi.FilterLinear,
		MinFilter: vapi.FilterLinear, AddressMode: vapi.AddressRepeat})
	if err := initErr("sampler", res); err != nil {
		return err
	}
	dv.Sampler = smp

	dv.MemTypes = api.MemoryTypes(dv.GPU)
	fp := api.FormatProperties(dv.GPU, TextureFormat)
	dv.LinearSampling = fp.Linear&vapi.FeatureSampledImage != 0
	slog.Debug("vgpu: device ready", "surface", dv.Provider.Kind(), "queue", dv.QueueIndex, "linearSampling", dv.LinearSampling)
	return nil
}

// FindQueue selects the physical device and the first queue family that
// supports graphics and presentation to the surface, setting GPU and
// QueueIndex.
func (dv *Device) FindQueue() error {
	api := dv.API
	gpus, res := api.EnumeratePhysicalDevices(dv.Instance)
	if err := initErr("physical devices", res); err != nil {
		return err
	}
	for _, gpu := range gpus {
		for i, qf := range api.QueueFamilies(gpu) {
			if qf.Flags&vapi.QueueGraphics == 0 {
				continue
			}
			ok, res := api.SurfaceSupport(gpu, uint32(i), dv.Surface)
			if err := initErr("surface support", res); err != nil {
				return err
			}
			if ok {
				dv.GPU = gpu
				dv.QueueIndex = uint32(i)
				return nil
			}
		}
	}
	return &InitError{Op: "queue", Err: ErrNoPresentQueue}
}

// MakeDevice makes the logical device and gets its queue, based on QueueIndex
func (dv *Device) MakeDevice() error {
	dev, res := dv.API.CreateDevice(dv.GPU, &vapi.DeviceInfo{QueueFamily: dv.QueueIndex,
		Extensions: []string{vapi.SwapchainExtension}})
	if err := initErr("device", res); err != nil {
		return err
	}
	dv.Device = dev
	dv.Queue = dv.API.DeviceQueue(dv.Device, dv.QueueIndex, 0)
	return nil
}

// WaitIdle waits until the device has finished all submitted work.
func (dv *Device) WaitIdle() error {
	return resErr("wait idle", dv.API.DeviceWaitIdle(dv.Device))
}

// SetClearColor sets the background color
func (dv *Device) SetClearColor(r, g, b float32) {
	dv.ClearColor = [3]float32{r, g, b}
}

// Destroy releases everything left in the resource tables, then
// destroys sampler, command pool, surface, device and instance, in that order.
func (dv *Device) Destroy() {
	api := dv.API
	if dv.Device != 0 {
		api.DeviceWaitIdle(dv.Device)
	}
	dv.Textures.DestroyAll()
	dv.Buffers.DestroyAll()
	if dv.Sampler != 0 {
		api.DestroySampler(dv.Device, dv.Sampler)
		dv.Sampler = 0
	}
	dv.CmdPool.Destroy(dv)
	if dv.Surface != 0 {
		api.DestroySurface(dv.Instance, dv.Surface)
		dv.Surface = 0
	}
	if dv.Device != 0 {
		api.DestroyDevice(dv.Device)
		dv.Device = 0
	}
	if dv.Instance != 0 {
		api.DestroyInstance(dv.Instance)
		dv.Instance = 0
	}
	slog.Debug("vgpu: device destroyed")
}
