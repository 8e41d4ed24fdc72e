// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/vsprite/vapi"
	"goki.dev/vsprite/vapi/vstub"
)

// checker returns w x h RGBA pixels where pixel i has all bytes = i
func checker(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = byte(i / 4)
	}
	return pix
}

func TestTextureStaged(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	base := d.Live()
	ref, err := NewTexture(dv, 3, 2, checker(3, 2))
	require.NoError(t, err)
	tx, err := dv.Texture(ref)
	require.NoError(t, err)
	require.NotNil(t, tx.Staging)

	si := d.Info(uint64(tx.Staging.Image)).(*vapi.ImageInfo)
	assert.Equal(t, vapi.TilingLinear, si.Tiling)
	assert.Equal(t, vapi.ImageUsageTransferSrc, si.Usage)
	assert.Equal(t, vapi.LayoutPreinitialized, si.InitialLayout)
	ii := d.Info(uint64(tx.Image.Image)).(*vapi.ImageInfo)
	assert.Equal(t, vapi.TilingOptimal, ii.Tiling)
	assert.Equal(t, vapi.ImageUsageTransferDst|vapi.ImageUsageSampled, ii.Usage)
	assert.Equal(t, TextureFormat, ii.Format)
	assert.Equal(t, vapi.LayoutGeneral, tx.Image.Current)
	assert.Equal(t, vapi.LayoutGeneral, tx.Staging.Current, "host writable between uploads")

	// rows are padded to 64 bytes
	mem := d.Memory(tx.Staging.Memory)
	assert.Equal(t, []byte{2, 2, 2, 2}, mem[8:12])
	assert.Equal(t, []byte{3, 3, 3, 3}, mem[64:68])
	assert.Equal(t, byte(0), mem[12], "padding untouched")

	cmds := d.LastSubmit()
	assert.Equal(t, []vstub.Op{vstub.OpBarrier, vstub.OpBarrier, vstub.OpCopyImage, vstub.OpBarrier}, vstub.Ops(cmds))
	assert.Equal(t, vapi.LayoutPreinitialized, cmds[0].Barriers[0].OldLayout)
	assert.Equal(t, vapi.LayoutGeneral, cmds[0].Barriers[0].NewLayout)
	assert.Equal(t, tx.Staging.Image, cmds[2].Src)
	assert.Equal(t, vapi.LayoutGeneral, cmds[2].SrcLayout)
	assert.Equal(t, tx.Image.Image, cmds[2].Dst)
	assert.Equal(t, vapi.LayoutTransferDstOptimal, cmds[2].DstLayout)
	assert.Equal(t, uint32(3), cmds[2].Width)
	assert.Equal(t, vapi.LayoutGeneral, cmds[3].Barriers[0].NewLayout)

	// the second upload writes the staging image while it is in General
	require.NoError(t, tx.Set(checker(3, 2)))
	cmds = d.LastSubmit()
	assert.Equal(t, []vstub.Op{vstub.OpBarrier, vstub.OpBarrier, vstub.OpCopyImage, vstub.OpBarrier}, vstub.Ops(cmds))
	assert.Equal(t, tx.Staging.Image, cmds[0].Barriers[0].Image)
	assert.Equal(t, vapi.LayoutGeneral, cmds[0].Barriers[0].OldLayout)
	assert.Equal(t, vapi.LayoutGeneral, cmds[0].Barriers[0].NewLayout)
	assert.Equal(t, vapi.LayoutGeneral, cmds[1].Barriers[0].OldLayout, "sampled image")
	assert.Equal(t, vapi.LayoutGeneral, cmds[2].SrcLayout)
	assert.Equal(t, vapi.LayoutGeneral, tx.Staging.Current)

	assert.ErrorIs(t, tx.Set(make([]byte, 3*2*4-1)), ErrPixelLength)
	require.NoError(t, dv.Textures.Release(ref))
	assert.Equal(t, base, d.Live())
	assert.Empty(t, d.Errors())
}

func TestTextureDirect(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{LinearSampling: true})
	ref, err := NewTexture(dv, 16, 1, checker(16, 1))
	require.NoError(t, err)
	tx, _ := dv.Texture(ref)
	assert.Nil(t, tx.Staging)
	ii := d.Info(uint64(tx.Image.Image)).(*vapi.ImageInfo)
	assert.Equal(t, vapi.TilingLinear, ii.Tiling)
	assert.Equal(t, vapi.ImageUsageSampled, ii.Usage)
	assert.Equal(t, vapi.LayoutGeneral, tx.Image.Current)
	assert.Equal(t, checker(16, 1), d.Memory(tx.Image.Memory)[:64])

	submits := d.Submits
	require.NoError(t, tx.Set(make([]byte, 64)))
	assert.Equal(t, submits, d.Submits, "no transition once General")
	assert.Equal(t, make([]byte, 64), d.Memory(tx.Image.Memory)[:64])
	assert.Empty(t, d.Errors())
}

func TestTextureErrors(t *testing.T) {
	d, dv := newTestDevice(t, vstub.Config{})
	base := d.Live()
	_, err := NewTexture(dv, 0, 4, nil)
	var re *ResourceError
	assert.ErrorAs(t, err, &re)
	_, err = NewTexture(dv, 2, 2, make([]byte, 15))
	assert.ErrorIs(t, err, ErrPixelLength)
	assert.Equal(t, base, d.Live(), "failed textures destroyed")
	assert.Zero(t, dv.Textures.Live())
}
