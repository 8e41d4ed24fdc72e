// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vstub is a software implementation of vapi.API.
// It renders nothing: it issues handles from a table, backs device
// memory with Go byte slices, records command buffers, and signals
// fences on submit. Every live handle is accounted for, so tests can
// check for leaks and misuse without a GPU.
package vstub

import (
	"fmt"
	"sort"
	"sync"

	"goki.dev/vsprite/vapi"
)

// Config sets the simulated device and surface properties.
type Config struct {

	// MinImageCount reported by the surface (default 2)
	MinImageCount uint32

	// CurrentExtent reported by the surface; zero means the surface
	// follows the swapchain extent (vapi.UndefinedExtent)
	CurrentExtent vapi.Extent2D

	// memory types of the physical device; nil gets a device-local
	// type followed by a host-visible coherent type
	MemTypes []vapi.MemoryType

	// memory type bits returned in all memory requirements; zero allows every type
	TypeBits uint32

	// linear tiled RGBA images support sampling (direct textures)
	LinearSampling bool

	// no queue family supports presentation
	NoPresent bool

	// Load fails, as if the Vulkan loader was missing
	FailLoad bool

	// number of upcoming image acquisitions that report ErrorOutOfDate
	OutOfDate int
}

// Stats counts queue-level events.
type Stats struct {
	Submits       int
	Presents      int
	Acquires      int
	OutOfDates    int
	WaitIdles     int
	FenceWaits    int
	FenceTimeouts int
	Draws         int

	// the last fence waited on, and whether it was signaled at the time
	LastFence         vapi.Fence
	LastFenceSignaled bool
}

// Driver is the software device API.
type Driver struct {
	Config
	Stats

	mu      sync.Mutex
	loaded  bool
	next    uint64
	calls   int
	live    map[uint64]string
	infos   map[uint64]any
	errs    []string
	memory  map[vapi.DeviceMemory][]byte
	mapped  map[vapi.DeviceMemory]bool
	bound   map[uint64]vapi.DeviceMemory
	fences  map[vapi.Fence]bool
	chains  map[vapi.Swapchain][]vapi.Image
	acquire map[vapi.Swapchain]uint32
	cmds    map[vapi.CommandBuffer]*cmdState
	submit  []Command
}

type cmdState struct {
	recording bool
	oneTime   bool
	cmds      []Command
}

// New returns a new software driver with the given config.
func New(cfg Config) *Driver {
	if cfg.MinImageCount == 0 {
		cfg.MinImageCount = 2
	}
	if cfg.MemTypes == nil {
		cfg.MemTypes = []vapi.MemoryType{
			{Flags: vapi.MemoryDeviceLocal, Heap: 0},
			{Flags: vapi.MemoryHostVisible | vapi.MemoryHostCoherent, Heap: 1},
			{Flags: vapi.MemoryHostVisible | vapi.MemoryHostCoherent | vapi.MemoryHostCached, Heap: 1},
		}
	}
	return &Driver{
		Config:  cfg,
		live:    make(map[uint64]string),
		infos:   make(map[uint64]any),
		memory:  make(map[vapi.DeviceMemory][]byte),
		mapped:  make(map[vapi.DeviceMemory]bool),
		bound:   make(map[uint64]vapi.DeviceMemory),
		fences:  make(map[vapi.Fence]bool),
		chains:  make(map[vapi.Swapchain][]vapi.Image),
		acquire: make(map[vapi.Swapchain]uint32),
		cmds:    make(map[vapi.CommandBuffer]*cmdState),
	}
}

// alloc issues a new handle of the given kind.
func (d *Driver) alloc(kind string, info any) uint64 {
	d.next++
	h := d.next
	d.live[h] = kind
	if info != nil {
		d.infos[h] = info
	}
	return h
}

// free releases a handle, recording misuse.
func (d *Driver) free(h uint64, kind string) {
	if h == 0 {
		return
	}
	k, ok := d.live[h]
	switch {
	case !ok:
		d.errorf("destroy of unknown or already destroyed %s %d", kind, h)
		return
	case k != kind:
		d.errorf("destroy of %s %d as %s", k, h, kind)
		return
	}
	delete(d.live, h)
	delete(d.infos, h)
}

// check verifies that h is a live handle of the given kind.
func (d *Driver) check(h uint64, kind string) bool {
	if k, ok := d.live[h]; !ok || k != kind {
		d.errorf("use of invalid %s %d", kind, h)
		return false
	}
	return true
}

func (d *Driver) errorf(format string, args ...any) {
	d.errs = append(d.errs, fmt.Sprintf(format, args...))
}

func (d *Driver) call() {
	d.calls++
}

// Calls returns the number of driver calls made so far.
func (d *Driver) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Live returns the total number of live handles.
func (d *Driver) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// LiveByKind returns the number of live handles per kind.
func (d *Driver) LiveByKind() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := make(map[string]int)
	for _, k := range d.live {
		m[k]++
	}
	return m
}

// LiveKinds returns a sorted list of "kind=count" for all live handles,
// useful in test failure messages.
func (d *Driver) LiveKinds() []string {
	m := d.LiveByKind()
	var s []string
	for k, n := range m {
		s = append(s, fmt.Sprintf("%s=%d", k, n))
	}
	sort.Strings(s)
	return s
}

// IsLive returns true if the handle is live.
func (d *Driver) IsLive(h uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.live[h]
	return ok
}

// Errors returns the list of API misuse detected so far.
func (d *Driver) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.errs...)
}

// Info returns the create info stored for a handle, or nil.
func (d *Driver) Info(h uint64) any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.infos[h]
}

// Memory returns the backing bytes of a device memory allocation.
func (d *Driver) Memory(mem vapi.DeviceMemory) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.memory[mem]
}

// BoundMemory returns the memory bound to a buffer or image.
func (d *Driver) BoundMemory(h uint64) vapi.DeviceMemory {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound[h]
}

// FenceSignaled reports the current state of a fence.
func (d *Driver) FenceSignaled(f vapi.Fence) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fences[f]
}

// LastSubmit returns the commands of the most recent queue submission.
func (d *Driver) LastSubmit() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.submit...)
}

// Images returns the images of a live swapchain.
func (d *Driver) Images(sc vapi.Swapchain) []vapi.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]vapi.Image(nil), d.chains[sc]...)
}
