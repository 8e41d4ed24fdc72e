// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !android

package vkdrv

import (
	vk "github.com/goki/vulkan"
	"goki.dev/vsprite/vapi"
)

// nativeSurface fails for every kind: github.com/goki/vulkan only
// exposes native surface creation on mobile, so desktop windows go
// through GlfwSurface.
func nativeSurface(inst vk.Instance, win *vapi.NativeWindow) (vk.Surface, vapi.Result) {
	return vk.NullSurface, vapi.ErrorExtensionNotPresent
}
