// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"github.com/chewxy/math32"
	"goki.dev/mat32/v2"
)

const (
	// Near is the distance of the near clipping plane
	Near = 0.1

	// Far is the distance of the far clipping plane
	Far = 100

	// DefaultFov is the default vertical field of view, in degrees
	DefaultFov = 90
)

// Projection returns the perspective projection for the aspect ratio
// (width / height) and vertical field of view in degrees. World space
// is y up with +z pointing into the screen; depth maps Near..Far to 0..1.
func Projection(aspect, fov float32) mat32.Mat4 {
	var pj mat32.Mat4
	pj.SetVkPerspective(fov, aspect, Near, Far)
	var zflip mat32.Mat4
	zflip.SetScale(1, 1, -1)
	return *pj.Mul(&zflip)
}

// CameraMatrix returns proj * rotate(-rot) * translate(-pos): the
// world to clip transform for a camera at pos with euler rotation rot.
func CameraMatrix(proj mat32.Mat4, pos, rot mat32.Vec3) mat32.Mat4 {
	var tr, ro mat32.Mat4
	tr.SetTranslation(-pos.X, -pos.Y, -pos.Z)
	ro.SetRotationFromEuler(rot.Negate())
	return *proj.Mul(ro.Mul(&tr))
}

// Origin returns the point the transform moves the model origin to
func Origin(xf *mat32.Mat4) mat32.Vec3 {
	return xf.Pos()
}

// Dist returns the distance from the camera at pos to the origin of a
// shape with transform xf, used for depth sorting.
func Dist(xf *mat32.Mat4, pos mat32.Vec3) float32 {
	return Origin(xf).DistTo(pos)
}

// Translate returns a translation transform
func Translate(x, y, z float32) mat32.Mat4 {
	var m mat32.Mat4
	m.SetTranslation(x, y, z)
	return m
}

// Identity returns the identity transform
func Identity() mat32.Mat4 {
	return *mat32.NewMat4()
}

// Spin returns the transform rotating by angle radians about the z axis
// and then moving to (x, y, z), as used for 2D overlay shapes.
func Spin(angle, x, y, z float32) mat32.Mat4 {
	var ro mat32.Mat4
	ro.SetRotationZ(math32.Mod(angle, 2*math32.Pi))
	tr := Translate(x, y, z)
	return *tr.Mul(&ro)
}
