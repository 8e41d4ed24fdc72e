// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vgpu"
)

func TestEmbeddedShaders(t *testing.T) {
	for k := KindSolid; k < KindsN; k++ {
		sh, err := LoadShaders(ShaderSource, kindStyles[k].shader)
		require.NoError(t, err, "%v", k)
		for _, code := range [][]byte{sh.Vert, sh.Frag} {
			require.Greater(t, len(code), 20)
			assert.Zero(t, len(code)%4, "whole words")
			assert.Equal(t, uint32(0x07230203), binary.LittleEndian.Uint32(code), "SPIR-V magic")
		}
	}
}

func TestLoadShadersMissing(t *testing.T) {
	_, err := LoadShaders(ShaderSource, "nosuch")
	var re *vgpu.ResourceError
	assert.ErrorAs(t, err, &re)
}
