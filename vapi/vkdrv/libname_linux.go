// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (linux && !android) || freebsd

package vkdrv

// LibName is the Vulkan loader library opened by Load
var LibName = "libvulkan.so.1"
