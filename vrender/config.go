// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrender

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"goki.dev/colors"
	"goki.dev/grows"
	"goki.dev/grows/tomls"
	"goki.dev/grr"
	"goki.dev/laser"
	"goki.dev/mat32/v2"
	"gopkg.in/yaml.v3"
)

// Config is the window and scene settings of a renderer, read from
// a TOML or YAML file. Defaults are in the def tags.
type Config struct {

	// window title
	Title string `toml:"title" yaml:"title" def:"vsprite" desc:"window title"`

	// window width in pixels
	Width int `toml:"width" yaml:"width" def:"640" desc:"window width in pixels"`

	// window height in pixels
	Height int `toml:"height" yaml:"height" def:"360" desc:"window height in pixels"`

	// background and fog color: a color name such as "midnightblue", #rgb, #rrggbb, rgb(r,g,b) or hsl(h,s,l)
	Background string `toml:"background" yaml:"background" def:"black" desc:"background and fog color: a color name such as \"midnightblue\", #rgb, #rrggbb, rgb(r,g,b) or hsl(h,s,l)"`

	// fog range, none if not set
	Fog *FogRange `toml:"fog" yaml:"fog" desc:"fog range, none if not set"`

	// camera position
	CameraPos [3]float32 `toml:"camera_pos" yaml:"camera_pos" desc:"camera position"`

	// camera euler rotation in radians
	CameraRot [3]float32 `toml:"camera_rot" yaml:"camera_rot" desc:"camera euler rotation in radians"`

	// vertical field of view in degrees
	Fov float32 `toml:"fov" yaml:"fov" def:"90" desc:"vertical field of view in degrees"`

	// enable the driver validation layer
	Validation bool `toml:"validation" yaml:"validation" desc:"enable the driver validation layer"`
}

// DefaultConfig returns the default settings
func DefaultConfig() *Config {
	cf := &Config{}
	grr.Log(laser.SetFromDefaultTags(cf))
	return cf
}

// DecoderForFile returns the decoder for the file extension:
// .toml, or .yaml / .yml.
func DecoderForFile(filename string) (grows.DecoderFunc, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomls.NewDecoder, nil
	case ".yaml", ".yml":
		return grows.NewDecoderFunc(yaml.NewDecoder), nil
	}
	return nil, fmt.Errorf("vrender: no config format for file %q", filename)
}

// Open reads the config file over the current values
func (cf *Config) Open(filename string) error {
	df, err := DecoderForFile(filename)
	if err != nil {
		return err
	}
	return grows.Open(cf, filename, df)
}

// OpenConfig reads the config file over the defaults
func OpenConfig(filename string) (*Config, error) {
	cf := DefaultConfig()
	if err := cf.Open(filename); err != nil {
		return nil, fmt.Errorf("vrender: reading config %q: %w", filename, err)
	}
	return cf, nil
}

// ErrColor is returned for colors that cannot be parsed
var ErrColor = errors.New("vrender: invalid color")

// ParseColor returns the 0..1 rgb of a color string in any form
// colors.FromString accepts. Alpha is dropped.
func ParseColor(s string) ([3]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return [3]float32{}, ErrColor
	}
	// FromHex reads invalid digits as zero
	if hex, ok := strings.CutPrefix(s, "#"); ok && strings.Trim(hex, "0123456789abcdefABCDEF") != "" {
		return [3]float32{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	c, err := colors.FromString(s)
	if err != nil {
		return [3]float32{}, fmt.Errorf("%w: %w", ErrColor, err)
	}
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, nil
}

// Apply sets the background color, fog, field of view and camera of
// the renderer from the config.
func (rn *Renderer) Apply(cf *Config) error {
	if cf.Background != "" {
		rgb, err := ParseColor(cf.Background)
		if err != nil {
			return err
		}
		rn.Dev.SetClearColor(rgb[0], rgb[1], rgb[2])
	}
	if cf.Fov > 0 {
		rn.Fov = cf.Fov
		rn.setProjection()
	}
	if cf.Fog == nil {
		rn.fog = [2]float32{maxFog, maxFog}
	} else {
		rn.fog = [2]float32{cf.Fog.Near, cf.Fog.Far}
	}
	pos := mat32.V3(cf.CameraPos[0], cf.CameraPos[1], cf.CameraPos[2])
	rot := mat32.V3(cf.CameraRot[0], cf.CameraRot[1], cf.CameraRot[2])
	return rn.Camera(pos, rot)
}
