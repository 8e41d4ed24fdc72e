// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (linux && cgo && !android) || (darwin && cgo && !ios) || (freebsd && cgo)

package vkdrv

// #cgo LDFLAGS: -ldl
// #include <stdlib.h>
// #include <dlfcn.h>
import "C"
import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// loadLibrary opens the Vulkan loader named by LibName and resolves
// vkGetInstanceProcAddr from it.
func loadLibrary() error {
	clibnm := C.CString(LibName)
	defer C.free(unsafe.Pointer(clibnm))
	handle := C.dlopen(clibnm, C.RTLD_LAZY)
	if handle == nil {
		return fmt.Errorf("vkdrv: vulkan library %s not found", LibName)
	}
	cpAddr := C.CString("vkGetInstanceProcAddr")
	defer C.free(unsafe.Pointer(cpAddr))
	pAddr := C.dlsym(handle, cpAddr)
	if pAddr == nil {
		return fmt.Errorf("vkdrv: vkGetInstanceProcAddr not found in %s", LibName)
	}
	vk.SetGetInstanceProcAddr(pAddr)
	return vk.Init()
}
