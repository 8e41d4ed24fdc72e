// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "goki.dev/vsprite/vapi"

// Sprite is one drawable instance of a Style: a descriptor set bound to
// its own uniform buffer and texture.
type Sprite struct {
	Dev     *Device             `desc:"device the sprite lives on"`
	Style   *Style              `desc:"style the sprite is drawn with, not owned"`
	Pool    vapi.DescriptorPool `desc:"descriptor pool holding the single set"`
	Set     vapi.DescriptorSet  `desc:"descriptor set for the style's layout"`
	Uniform Ref                 `desc:"uniform buffer in the device buffer table, nil for texture-only styles"`
	Texture Ref                 `desc:"texture in the device texture table, retained while the sprite lives"`
}

// NewSprite makes a sprite for the style. The uniform data is copied to
// a new uniform buffer unless the style binds no uniform. The texture is
// retained, and must be non-nil unless the style binds no texture.
func NewSprite(dv *Device, st *Style, uniform []byte, tex Ref) (*Sprite, error) {
	sp := &Sprite{Dev: dv, Style: st}
	if err := sp.init(uniform, tex); err != nil {
		sp.Destroy()
		return nil, err
	}
	return sp, nil
}

func (sp *Sprite) init(uniform []byte, tex Ref) error {
	dv := sp.Dev
	api := dv.API
	st := sp.Style
	pool, res := api.CreateDescriptorPool(dv.Device, &vapi.DescriptorPoolInfo{MaxSets: 1, Sizes: st.PoolSizes()})
	if err := resErr("descriptor pool", res); err != nil {
		return err
	}
	sp.Pool = pool
	set, res := api.AllocateDescriptorSet(dv.Device, pool, st.SetLayout)
	if err := resErr("descriptor set", res); err != nil {
		return err
	}
	sp.Set = set

	var writes []vapi.DescriptorWrite
	if st.Textures.HasUniform() {
		ref, err := NewBuffer(dv, uniform, UniformUsage)
		if err != nil {
			return err
		}
		sp.Uniform = ref
		bf, _ := dv.Buffer(ref)
		writes = append(writes, vapi.DescriptorWrite{Set: set, Binding: 0, Type: vapi.DescriptorUniformBuffer,
			Buffer: bf.Buffer, Offset: 0, Range: vapi.WholeSize})
	}
	if st.Textures.HasTexture() {
		tx, err := dv.Texture(tex)
		if err != nil {
			return &ResourceError{Op: "sprite texture", Err: err}
		}
		dv.Textures.Retain(tex)
		sp.Texture = tex
		writes = append(writes, vapi.DescriptorWrite{Set: set, Binding: st.TextureBinding(),
			Type: vapi.DescriptorCombinedImageSampler, Sampler: dv.Sampler, View: tx.View(),
			ImageLayout: vapi.LayoutGeneral})
	}
	api.UpdateDescriptorSets(dv.Device, writes)
	return nil
}

// SetUniform writes new uniform data, which must be the same size as
// the data the sprite was made with.
func (sp *Sprite) SetUniform(uniform []byte) error {
	bf, err := sp.Dev.Buffer(sp.Uniform)
	if err != nil {
		return err
	}
	return UpdateBuffer(bf, uniform)
}

// Draw binds the style pipeline and the sprite descriptor set
func (sp *Sprite) Draw(cmd vapi.CommandBuffer) {
	api := sp.Dev.API
	api.CmdBindPipeline(cmd, sp.Style.Pipeline)
	api.CmdBindDescriptorSet(cmd, sp.Style.Layout, sp.Set)
}

// Destroy destroys the descriptor pool and releases the uniform buffer
// and texture. The style is untouched.
func (sp *Sprite) Destroy() {
	dv := sp.Dev
	if sp.Pool != 0 {
		dv.API.DestroyDescriptorPool(dv.Device, sp.Pool)
		sp.Pool = 0
		sp.Set = 0
	}
	if !sp.Uniform.IsNil() {
		dv.Buffers.Release(sp.Uniform)
		sp.Uniform = Ref{}
	}
	if !sp.Texture.IsNil() {
		dv.Textures.Release(sp.Texture)
		sp.Texture = Ref{}
	}
}
