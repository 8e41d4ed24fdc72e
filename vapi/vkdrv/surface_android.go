// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build android

package vkdrv

import (
	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

func nativeSurface(inst vk.Instance, win *vapi.NativeWindow) (vk.Surface, vapi.Result) {
	if win.Kind != vapi.SurfaceAndroid {
		return vk.NullSurface, vapi.ErrorExtensionNotPresent
	}
	var surf vk.Surface
	ret := vk.CreateWindowSurface(inst, win.Window, nil, &surf)
	return surf, result(ret)
}
