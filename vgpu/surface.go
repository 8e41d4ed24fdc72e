// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"runtime"

	"goki.dev/vsprite/vapi"
)

// SurfaceProvider is the platform window layer as seen by the device:
// it names the instance extensions its surface needs, creates the
// native surface on an instance, and reports the window size in pixels.
type SurfaceProvider interface {
	// Kind is the window system of the surface
	Kind() vapi.SurfaceKind

	// InstanceExtensions returns the instance extensions required to
	// create the surface, in addition to vapi.SurfaceExtension
	InstanceExtensions() []string

	// CreateSurface creates the native surface on the given instance
	CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error)

	// Size returns the window size in pixels
	Size() (int, int)
}

// XcbSurface is an X11 window reached through an XCB connection.
type XcbSurface struct {

	// xcb_connection_t pointer
	Connection uintptr

	// xcb_window_t id
	Window uintptr

	// window width in pixels
	W int

	// window height in pixels
	H int
}

func (sf *XcbSurface) Kind() vapi.SurfaceKind { return vapi.SurfaceXcb }

func (sf *XcbSurface) InstanceExtensions() []string {
	return []string{"VK_KHR_xcb_surface"}
}

func (sf *XcbSurface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	return createNative(api, inst, &vapi.NativeWindow{Kind: vapi.SurfaceXcb, Connection: sf.Connection, Window: sf.Window})
}

func (sf *XcbSurface) Size() (int, int) { return sf.W, sf.H }

// Win32Surface is a Windows window.
type Win32Surface struct {
	HInstance uintptr
	HWnd      uintptr
	W, H      int
}

func (sf *Win32Surface) Kind() vapi.SurfaceKind { return vapi.SurfaceWin32 }

func (sf *Win32Surface) InstanceExtensions() []string {
	return []string{"VK_KHR_win32_surface"}
}

func (sf *Win32Surface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	return createNative(api, inst, &vapi.NativeWindow{Kind: vapi.SurfaceWin32, Connection: sf.HInstance, Window: sf.HWnd})
}

func (sf *Win32Surface) Size() (int, int) { return sf.W, sf.H }

// AndroidSurface is an ANativeWindow.
type AndroidSurface struct {
	Window uintptr
	W, H   int
}

func (sf *AndroidSurface) Kind() vapi.SurfaceKind { return vapi.SurfaceAndroid }

func (sf *AndroidSurface) InstanceExtensions() []string {
	return []string{"VK_KHR_android_surface"}
}

func (sf *AndroidSurface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	return createNative(api, inst, &vapi.NativeWindow{Kind: vapi.SurfaceAndroid, Window: sf.Window})
}

func (sf *AndroidSurface) Size() (int, int) { return sf.W, sf.H }

// WaylandSurface is a Wayland window. Wayland surfaces are not
// supported: CreateSurface always fails with an InitError.
type WaylandSurface struct {
	Display uintptr
	Surface uintptr
	W, H    int
}

func (sf *WaylandSurface) Kind() vapi.SurfaceKind { return vapi.SurfaceWayland }

func (sf *WaylandSurface) InstanceExtensions() []string { return nil }

func (sf *WaylandSurface) CreateSurface(api vapi.API, inst vapi.Instance) (vapi.Surface, error) {
	return 0, &InitError{Op: "surface", Err: ErrUnsupportedSurface}
}

func (sf *WaylandSurface) Size() (int, int) { return sf.W, sf.H }

func createNative(api vapi.API, inst vapi.Instance, win *vapi.NativeWindow) (vapi.Surface, error) {
	surf, res := api.CreateSurface(inst, win)
	if err := initErr("surface "+win.Kind.String(), res); err != nil {
		return 0, err
	}
	return surf, nil
}

// NativeHandles are the raw window handles supplied by a platform
// window layer, interpreted according to the operating system.
type NativeHandles struct {

	// xcb connection, win32 hinstance, or wayland display
	Connection uintptr

	// xcb window id, win32 hwnd, ANativeWindow, or wayland surface
	Window uintptr

	// set on linux when the window system is wayland
	Wayland bool

	// window size in pixels
	Width, Height int
}

// ProviderForPlatform returns the surface provider for the given GOOS.
func ProviderForPlatform(goos string, nh NativeHandles) (SurfaceProvider, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if nh.Wayland {
			return &WaylandSurface{Display: nh.Connection, Surface: nh.Window, W: nh.Width, H: nh.Height}, nil
		}
		return &XcbSurface{Connection: nh.Connection, Window: nh.Window, W: nh.Width, H: nh.Height}, nil
	case "windows":
		return &Win32Surface{HInstance: nh.Connection, HWnd: nh.Window, W: nh.Width, H: nh.Height}, nil
	case "android":
		return &AndroidSurface{Window: nh.Window, W: nh.Width, H: nh.Height}, nil
	}
	return nil, &InitError{Op: "surface " + goos, Err: ErrUnsupportedSurface}
}

// NativeProvider returns the surface provider for the running platform.
func NativeProvider(nh NativeHandles) (SurfaceProvider, error) {
	return ProviderForPlatform(runtime.GOOS, nh)
}
