// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !((linux && cgo && !android) || (darwin && cgo && !ios) || (freebsd && cgo))

package vkdrv

import vk "github.com/goki/vulkan"

// loadLibrary uses the loader that github.com/goki/vulkan links against
func loadLibrary() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return err
	}
	return vk.Init()
}
