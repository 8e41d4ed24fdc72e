// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !nochecks

package vgpu

import "goki.dev/vsprite/vapi"

// ChecksEnabled is false when built with the nochecks tag,
// in which case all driver results are trusted to succeed.
const ChecksEnabled = true

// Check returns the result as an error if it is a failure code.
func Check(res vapi.Result) error {
	return res.Err()
}
