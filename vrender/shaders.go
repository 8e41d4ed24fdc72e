// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

//go:generate sh -c "cd shaders && for f in *.vert *.frag; do glslc -O --target-env=vulkan1.0 -o $(echo $f | tr . _).spv $f; done"

import (
	"embed"
	"fmt"
	"io/fs"

	"goki.dev/vsprite/vgpu"
)

//go:embed shaders/*.spv
var content embed.FS

// ShaderSource is the filesystem the shader code is read from, holding
// <name>_vert.spv and <name>_frag.spv for each shader name. It defaults
// to the shaders embedded at build time, and must be set before New.
var ShaderSource fs.FS = mustSub(content, "shaders")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Shaders is a vertex and fragment shader pair
type Shaders struct {
	Vert []byte
	Frag []byte
}

// LoadShaders reads the shader pair of the given name from src
func LoadShaders(src fs.FS, name string) (Shaders, error) {
	var sh Shaders
	var err error
	sh.Vert, err = fs.ReadFile(src, name+"_vert.spv")
	if err != nil {
		return sh, &vgpu.ResourceError{Op: fmt.Sprintf("shader %s vert", name), Err: err}
	}
	sh.Frag, err = fs.ReadFile(src, name+"_frag.spv")
	if err != nil {
		return sh, &vgpu.ResourceError{Op: fmt.Sprintf("shader %s frag", name), Err: err}
	}
	return sh, nil
}
