// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package vkdrv

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vgpu"
)

// ErrNotVkdrv is the cause of the InitError when a GlfwSurface is
// created on an API that is not a *Driver.
var ErrNotVkdrv = errors.New("vkdrv: glfw surfaces need the vkdrv driver")

// NewGlfw initializes glfw and returns a Driver that loads its entry
// points through glfw. Call glfw.Terminate as the last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func NewGlfw(opts Options) (*Driver, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("vkdrv: glfw reports no vulkan support")
	}
	opts.ProcAddr = glfw.GetVulkanGetInstanceProcAddress()
	return New(opts), nil
}

// GlfwSurface is a surface provider for a glfw window, which must have
// been created with the glfw.ClientAPI hint set to glfw.NoAPI.
type GlfwSurface struct {
	Window *glfw.Window
}

func (sf *GlfwSurface) Kind() vapi.SurfaceKind { return vapi.SurfaceGlfw }

func (sf *GlfwSurface) InstanceExtensions() []string {
	return sf.Window.GetRequiredInstanceExtensions()
}

func (sf *GlfwSurface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	d, ok := api.(*Driver)
	if !ok {
		return 0, &vgpu.InitError{Op: "surface Glfw", Err: ErrNotVkdrv}
	}
	surfPtr, err := sf.Window.CreateWindowSurface(d.Instance(inst), nil)
	if err != nil {
		return 0, &vgpu.InitError{Op: "surface Glfw", Err: err}
	}
	return d.AddSurface(vk.SurfaceFromPointer(surfPtr)), nil
}

// Size returns the framebuffer size, which is the swapchain extent
// on high-DPI displays.
func (sf *GlfwSurface) Size() (int, int) {
	return sf.Window.GetFramebufferSize()
}
