// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/grows"
	"goki.dev/mat32/v2"
	"goki.dev/vsprite/vapi/vstub"
)

const tomlConfig = `
title = "demo"
width = 1280
height = 720
background = "#204060"
fov = 60.0
camera_pos = [0.0, 1.0, -5.0]

[fog]
near = 2.0
far = 30.0
`

const yamlConfig = `
title: demo
width: 1280
height: 720
background: midnightblue
camera_rot: [0, 0.5, 0]
`

func TestDefaultConfig(t *testing.T) {
	cf := DefaultConfig()
	assert.Equal(t, "vsprite", cf.Title)
	assert.Equal(t, 640, cf.Width)
	assert.Equal(t, 360, cf.Height)
	assert.Equal(t, "black", cf.Background)
	assert.Equal(t, float32(DefaultFov), cf.Fov)
	assert.Nil(t, cf.Fog)
	assert.False(t, cf.Validation)
}

func TestConfigTOML(t *testing.T) {
	df, err := DecoderForFile("vsprite.toml")
	require.NoError(t, err)
	cf := DefaultConfig()
	require.NoError(t, grows.Read(cf, strings.NewReader(tomlConfig), df))
	assert.Equal(t, "demo", cf.Title)
	assert.Equal(t, 1280, cf.Width)
	assert.Equal(t, 720, cf.Height)
	assert.Equal(t, float32(60), cf.Fov)
	assert.Equal(t, [3]float32{0, 1, -5}, cf.CameraPos)
	require.NotNil(t, cf.Fog)
	assert.Equal(t, FogRange{Near: 2, Far: 30}, *cf.Fog)
}

func TestConfigYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "vsprite.yml")
	require.NoError(t, os.WriteFile(fn, []byte(yamlConfig), 0o644))
	cf, err := OpenConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, "midnightblue", cf.Background)
	assert.Equal(t, [3]float32{0, 0.5, 0}, cf.CameraRot)
	assert.Nil(t, cf.Fog)
	assert.Equal(t, float32(DefaultFov), cf.Fov, "default kept")

	// Open reads over the current values
	cf.Title = "kept"
	require.NoError(t, os.WriteFile(fn, []byte("width: 99\n"), 0o644))
	require.NoError(t, cf.Open(fn))
	assert.Equal(t, "kept", cf.Title)
	assert.Equal(t, 99, cf.Width)

	_, err = OpenConfig(filepath.Join(t.TempDir(), "vsprite.json"))
	assert.Error(t, err)
	_, err = OpenConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		s    string
		want [3]float32
	}{
		{"#ff0000", [3]float32{1, 0, 0}},
		{"#0f0", [3]float32{0, 1, 0}},
		{" #000000 ", [3]float32{0, 0, 0}},
		{"white", [3]float32{1, 1, 1}},
		{"Blue", [3]float32{0, 0, 1}},
		{"rgb(0,0,255)", [3]float32{0, 0, 1}},
		{"#ffffffff", [3]float32{1, 1, 1}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.s)
		require.NoError(t, err, tt.s)
		assert.Equal(t, tt.want, c, tt.s)
	}
	for _, s := range []string{"#12", "#gggggg", "#12345", "nocolor", "", "  "} {
		_, err := ParseColor(s)
		assert.ErrorIs(t, err, ErrColor, s)
	}
}

func TestApply(t *testing.T) {
	_, rn := newTestRenderer(t, vstub.Config{})
	sh := Must(rn.ShapeSolid(Must(rn.Model(triangle, nil)), Identity(), [4]float32{1, 1, 1, 1}, ShapeOpts{Camera: true, Fog: true}))
	cf := DefaultConfig()
	cf.Background = "#ff8000"
	cf.Fov = 60
	cf.Fog = &FogRange{Near: 1, Far: 10}
	cf.CameraPos = [3]float32{0, 0, -2}
	require.NoError(t, rn.Apply(cf))

	assert.Equal(t, [3]float32{1, float32(0x80) / 255, 0}, rn.Dev.ClearColor)
	assert.Equal(t, float32(60), rn.Fov)
	assert.Equal(t, mat32.V3(0, 0, -2), rn.CameraPos)
	assert.Equal(t, [2]float32{1, 10}, sh.Uniform.FogRange)
	assert.Equal(t, rn.CameraMatrix(), sh.Uniform.Camera)
	assert.Equal(t, rn.Dev.ClearColor[0], sh.Uniform.FogColor[0])

	cf.Fog = nil
	cf.Background = "nocolor"
	assert.Error(t, rn.Apply(cf))
	cf.Background = ""
	require.NoError(t, rn.Apply(cf))
	assert.Equal(t, [2]float32{math32.MaxFloat32, math32.MaxFloat32}, sh.Uniform.FogRange)
}
