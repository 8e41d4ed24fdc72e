// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"goki.dev/mat32/v2"
)

// depth returns the normalized depth and clip w of the world point
func depth(m *mat32.Mat4, p mat32.Vec3) (float32, float32) {
	c := mat32.V4FromV3(p, 1).MulMat4(m)
	return c.Z / c.W, c.W
}

func TestProjection(t *testing.T) {
	pj := Projection(16.0/9.0, DefaultFov)
	d, w := depth(&pj, mat32.V3(0, 0, Near))
	assert.InDelta(t, 0, d, 1e-5, "near plane")
	assert.InDelta(t, Near, w, 1e-6)
	d, w = depth(&pj, mat32.V3(0, 0, Far))
	assert.InDelta(t, 1, d, 1e-5, "far plane")
	assert.InDelta(t, Far, w, 1e-4, "w is view depth")
	d, _ = depth(&pj, mat32.V3(0, 0, 1))
	assert.True(t, d > 0 && d < 1)

	up := mat32.V4(0, 1, 1, 1).MulMat4(&pj)
	assert.Less(t, up.Y, float32(0), "y up is toward the top of the framebuffer")
	right := mat32.V4(1, 0, 1, 1).MulMat4(&pj)
	assert.Greater(t, right.X, float32(0))
}

func TestCameraMatrix(t *testing.T) {
	pj := Projection(1, DefaultFov)
	cm := CameraMatrix(pj, mat32.V3(0, 0, -4), mat32.V3(0, 0, 0))
	_, w := depth(&cm, mat32.V3(0, 0, 1))
	assert.InDelta(t, 5, w, 1e-5, "moved back 4")

	assert.Equal(t, pj, CameraMatrix(pj, mat32.V3(0, 0, 0), mat32.V3(0, 0, 0)))
}

func TestDist(t *testing.T) {
	xf := Translate(3, 4, 0)
	assert.InDelta(t, 5, Dist(&xf, mat32.V3(0, 0, 0)), 1e-6)
	id := Identity()
	assert.Equal(t, mat32.V3(0, 0, 0), Origin(&id))
}
