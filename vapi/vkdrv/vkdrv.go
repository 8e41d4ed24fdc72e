// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vkdrv implements vapi.API on the system Vulkan loader through
github.com/goki/vulkan.

Vulkan handles are cgo pointer types, so the Driver keeps one table per
handle type that maps the opaque vapi handles it hands out to the real
Vulkan handles. Every handle issued by a Driver is only meaningful to
that Driver.
*/
package vkdrv

import (
	"log/slog"
	"strings"
	"unsafe"

	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/logx"
	"goki.dev/vsprite/vapi"
)

// Options configure a Driver
type Options struct {

	// vkGetInstanceProcAddr to load entry points from, e.g., from glfw.
	// If nil, the Vulkan loader library is opened directly.
	ProcAddr unsafe.Pointer `desc:"vkGetInstanceProcAddr to load entry points from, e.g., from glfw. If nil, the Vulkan loader library is opened directly."`

	// install a debug report callback that logs validation messages
	// through logx.Driver. Requires the VK_EXT_debug_report extension.
	Debug bool `desc:"install a debug report callback that logs validation messages through logx.Driver"`
}

// table maps issued handle ids to Vulkan handles of one type
type table[T comparable] struct {
	ids  *uint64
	vals map[uint64]T
}

func newTable[T comparable](ids *uint64) table[T] {
	return table[T]{ids: ids, vals: make(map[uint64]T)}
}

// add registers v and returns its id. The null Vulkan handle maps to 0.
func (tb *table[T]) add(v T) uint64 {
	var zero T
	if v == zero {
		return 0
	}
	*tb.ids++
	tb.vals[*tb.ids] = v
	return *tb.ids
}

// get returns the handle for id, or the null handle
func (tb *table[T]) get(id uint64) T {
	return tb.vals[id]
}

// del removes id and returns its handle, if it was registered
func (tb *table[T]) del(id uint64) (T, bool) {
	v, ok := tb.vals[id]
	delete(tb.vals, id)
	return v, ok
}

// memory is an allocation along with its size, for whole-range mapping
type memory struct {
	mem  vk.DeviceMemory
	size uint64
}

// Driver is the Vulkan implementation of vapi.API.
// It is not safe for concurrent use.
type Driver struct {
	Opts Options

	ids      uint64
	loaded   bool
	debugCbs map[vk.Instance]vk.DebugReportCallback

	// image ids of each swapchain
	swapImages map[uint64][]uint64

	// descriptor set ids of each pool
	poolSets map[uint64][]uint64

	instances    table[vk.Instance]
	gpus         table[vk.PhysicalDevice]
	devices      table[vk.Device]
	queues       table[vk.Queue]
	cmdPools     table[vk.CommandPool]
	cmdBufs      table[vk.CommandBuffer]
	samplers     table[vk.Sampler]
	surfaces     table[vk.Surface]
	swapchains   table[vk.Swapchain]
	images       table[vk.Image]
	views        table[vk.ImageView]
	mems         table[memory]
	buffers      table[vk.Buffer]
	renderPasses table[vk.RenderPass]
	framebuffers table[vk.Framebuffer]
	shaders      table[vk.ShaderModule]
	setLayouts   table[vk.DescriptorSetLayout]
	descPools    table[vk.DescriptorPool]
	descSets     table[vk.DescriptorSet]
	pipeLayouts  table[vk.PipelineLayout]
	pipelines    table[vk.Pipeline]
	fences       table[vk.Fence]
	semaphores   table[vk.Semaphore]
}

var _ vapi.API = (*Driver)(nil)

// New returns a Driver with the given options. Entry points are not
// resolved until Load.
func New(opts Options) *Driver {
	d := &Driver{Opts: opts, debugCbs: make(map[vk.Instance]vk.DebugReportCallback), swapImages: make(map[uint64][]uint64), poolSets: make(map[uint64][]uint64)}
	d.instances = newTable[vk.Instance](&d.ids)
	d.gpus = newTable[vk.PhysicalDevice](&d.ids)
	d.devices = newTable[vk.Device](&d.ids)
	d.queues = newTable[vk.Queue](&d.ids)
	d.cmdPools = newTable[vk.CommandPool](&d.ids)
	d.cmdBufs = newTable[vk.CommandBuffer](&d.ids)
	d.samplers = newTable[vk.Sampler](&d.ids)
	d.surfaces = newTable[vk.Surface](&d.ids)
	d.swapchains = newTable[vk.Swapchain](&d.ids)
	d.images = newTable[vk.Image](&d.ids)
	d.views = newTable[vk.ImageView](&d.ids)
	d.mems = newTable[memory](&d.ids)
	d.buffers = newTable[vk.Buffer](&d.ids)
	d.renderPasses = newTable[vk.RenderPass](&d.ids)
	d.framebuffers = newTable[vk.Framebuffer](&d.ids)
	d.shaders = newTable[vk.ShaderModule](&d.ids)
	d.setLayouts = newTable[vk.DescriptorSetLayout](&d.ids)
	d.descPools = newTable[vk.DescriptorPool](&d.ids)
	d.descSets = newTable[vk.DescriptorSet](&d.ids)
	d.pipeLayouts = newTable[vk.PipelineLayout](&d.ids)
	d.pipelines = newTable[vk.Pipeline](&d.ids)
	d.fences = newTable[vk.Fence](&d.ids)
	d.semaphores = newTable[vk.Semaphore](&d.ids)
	return d
}

// Load resolves the global entry points, through Opts.ProcAddr if set
// and otherwise by opening the Vulkan loader library.
func (d *Driver) Load() error {
	if d.loaded {
		return nil
	}
	if d.Opts.ProcAddr != nil {
		vk.SetGetInstanceProcAddr(d.Opts.ProcAddr)
		if err := vk.Init(); err != nil {
			return err
		}
	} else if err := loadLibrary(); err != nil {
		return err
	}
	d.loaded = true
	slog.Debug("vkdrv: loaded vulkan entry points")
	return nil
}

// Instance returns the Vulkan instance for the handle, for window
// libraries that create surfaces themselves.
func (d *Driver) Instance(inst vapi.Instance) vk.Instance {
	return d.instances.get(uint64(inst))
}

// AddSurface registers a surface created outside of the Driver
// and returns its handle. It is destroyed by DestroySurface.
func (d *Driver) AddSurface(surf vk.Surface) vapi.Surface {
	return vapi.Surface(d.surfaces.add(surf))
}

// cstr returns s with the terminating null byte the C API expects
func cstr(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func cstrs(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	cs := make([]string, len(ss))
	for i, s := range ss {
		cs[i] = cstr(s)
	}
	return cs
}

// mergeExts returns exts plus those of add it does not already name
func mergeExts(exts, add []string) []string {
	out := append([]string{}, exts...)
outer:
	for _, a := range add {
		for _, e := range exts {
			if e == a {
				continue outer
			}
		}
		out = append(out, a)
	}
	return out
}

func b32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

func result(r vk.Result) vapi.Result {
	return vapi.Result(r)
}

// debugReport is the debug report callback: it routes validation
// messages to the log.
func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
	logx.Driver(severity(flags), layerPrefix, message)
	return vk.False
}

func severity(flags vk.DebugReportFlags) logx.Severity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return logx.SeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return logx.SeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return logx.SeverityInfo
	}
	return logx.SeverityVerbose
}
