// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/grease"
	"goki.dev/vsprite/vrender"
)

func TestCheckerboard(t *testing.T) {
	pix := checkerboard(16, 2)
	require.Len(t, pix, 16*16*4)
	at := func(x, y int) []byte { return pix[(y*16+x)*4 : (y*16+x)*4+4] }
	assert.Equal(t, []byte{230, 230, 220, 255}, at(0, 0))
	assert.Equal(t, []byte{40, 40, 48, 255}, at(8, 0))
	assert.Equal(t, []byte{230, 230, 220, 255}, at(15, 15))
}

func TestPolygon(t *testing.T) {
	vs := polygon(6, 1)
	require.Len(t, vs, (1+7)*4, "center plus closing vertex")
	assert.Equal(t, []float32{0, 0, 0, 1}, vs[:4])
	assert.InDelta(t, 1, vs[4], 1e-6)
	assert.InDelta(t, vs[4], vs[len(vs)-4], 1e-5, "closed")
}

func TestLoadImage(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(fn)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 10, 20))))
	require.NoError(t, f.Close())

	img, err := loadImage(fn)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, textureSize, textureSize), img.Bounds())
	assert.Equal(t, byte(255), img.Pix[3], "opaque")

	_, err = loadImage(filepath.Join(t.TempDir(), "none.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "vsprite.toml")
	require.NoError(t, os.WriteFile(fn, []byte("title = \"one\"\n"), 0o644))
	cw, err := watchConfig(fn)
	require.NoError(t, err)
	defer cw.Close()

	require.NoError(t, os.WriteFile(fn, []byte("title = \"two\"\nfov = 45.0\n"), 0o644))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cf := <-cw.Configs:
			// a reload may see the truncated file first
			if cf.Title != "two" {
				continue
			}
			assert.Equal(t, float32(45), cf.Fov)
			return
		case <-timeout:
			t.Fatal("no config reload")
		}
	}
}

func TestConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(fn, []byte(`title = "file"
width = 800
texture = "a.png"
background = "#102030"

[fog]
near = 1.0
far = 9.0
`), 0o644))
	args := os.Args
	defer func() { os.Args = args }()
	os.Args = []string{"vsprite", "-config", fn, "-height", "480", "-validation", "-texture", "b.png"}

	cf := &Config{}
	_, err := grease.Config(newOptions(), cf)
	require.NoError(t, err)
	assert.Equal(t, []string{fn}, grease.ConfigFiles)
	assert.Equal(t, "file", cf.Title)
	assert.Equal(t, 800, cf.Width)
	assert.Equal(t, 480, cf.Height, "flag")
	assert.Equal(t, "b.png", cf.Texture, "flags override the file")
	assert.True(t, cf.Validation)
	assert.Equal(t, "#102030", cf.Background)
	assert.Equal(t, float32(vrender.DefaultFov), cf.Fov, "default tag")
	require.NotNil(t, cf.Fog)
	assert.Equal(t, vrender.FogRange{Near: 1, Far: 9}, *cf.Fog)
}

func TestConfigDefaults(t *testing.T) {
	args := os.Args
	defer func() { os.Args = args }()
	os.Args = []string{"vsprite", "-width", "100"}

	opts := newOptions()
	opts.DefaultFiles = nil
	cf := &Config{}
	_, err := grease.Config(opts, cf)
	require.NoError(t, err)
	assert.Empty(t, grease.ConfigFiles)
	want := vrender.DefaultConfig()
	want.Width = 100
	assert.Equal(t, *want, cf.Scene)
	assert.Empty(t, cf.Texture)
}
