// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package main

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/chewxy/math32"
	"goki.dev/grr"
	"goki.dev/vsprite/vrender"
	"golang.org/x/image/draw"
)

// textureSize is the side of the square texture images are scaled to
const textureSize = 256

// scene is the demo scene: a spinning overlay fan, a gradient quad and
// a textured quad behind it.
type scene struct {
	rn    *vrender.Renderer
	fan   *vrender.Shape
	angle float32
}

// quadUV maps the corners of a quad to the texture corners
var quadUV = [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

func quad(size float32) []float32 {
	return []float32{
		-size, -size, 0, 1,
		size, -size, 0, 1,
		size, size, 0, 1,
		-size, size, 0, 1,
	}
}

// polygon is a fan of n outer vertices around the center
func polygon(n int, radius float32) []float32 {
	vs := []float32{0, 0, 0, 1}
	for i := 0; i <= n; i++ {
		a := 2 * math32.Pi * float32(i) / float32(n)
		vs = append(vs, radius*math32.Cos(a), radius*math32.Sin(a), 0, 1)
	}
	return vs
}

func newScene(rn *vrender.Renderer, texFile string) (*scene, error) {
	sc := &scene{rn: rn}

	hex, err := rn.Model(polygon(6, 0.2), nil)
	if err != nil {
		return nil, err
	}
	sc.fan, err = rn.ShapeSolid(hex, vrender.Spin(0, -0.7, -0.7, 0.1), [4]float32{1, 0.8, 0.2, 1}, vrender.ShapeOpts{})
	if err != nil {
		return nil, err
	}

	sq, err := rn.Model(quad(1), nil)
	if err != nil {
		return nil, err
	}
	gr, err := rn.Gradient([]float32{
		1, 0, 0, 1,
		0, 1, 0, 1,
		0, 0, 1, 1,
		1, 1, 1, 1,
	})
	if err != nil {
		return nil, err
	}
	if _, err := rn.ShapeGradient(sq, gr, vrender.Translate(-1.2, 0, 4), vrender.ShapeOpts{Camera: true, Fog: true}); err != nil {
		return nil, err
	}

	pix := checkerboard(textureSize, 8)
	if texFile != "" {
		if img := grr.Log1(loadImage(texFile)); img != nil {
			pix = img.Pix
		}
	}
	tx, err := rn.Texture(textureSize, textureSize, pix)
	if err != nil {
		return nil, err
	}
	tc, err := rn.TexCoordsUV(quadUV)
	if err != nil {
		return nil, err
	}
	if _, err := rn.ShapeTexture(sq, tx, tc, vrender.Translate(1.2, 0, 6), vrender.ShapeOpts{Camera: true, Fog: true}); err != nil {
		return nil, err
	}
	return sc, nil
}

// step advances the animation by dt seconds
func (sc *scene) step(dt float32) error {
	sc.angle += dt
	return sc.rn.Transform(sc.fan, vrender.Spin(sc.angle, -0.7, -0.7, 0.1))
}

// checkerboard returns the RGBA pixels of a size x size image of
// n x n squares
func checkerboard(size, n int) []byte {
	small := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := color.RGBA{40, 40, 48, 255}
			if (x+y)%2 == 0 {
				c = color.RGBA{230, 230, 220, 255}
			}
			small.SetRGBA(x, y, c)
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst.Pix
}

// loadImage decodes an image file and scales it to the texture size
func loadImage(file string) (*image.RGBA, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded texture", "file", file, "format", format, "size", img.Bounds().Size())
	dst := image.NewRGBA(image.Rect(0, 0, textureSize, textureSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// fps logs the frame rate every few seconds at debug level
type fps struct {
	frames  int
	elapsed float32
}

func newFPS() *fps { return &fps{} }

func (fp *fps) frame(dt float32) {
	fp.frames++
	fp.elapsed += dt
	if fp.elapsed < 5 {
		return
	}
	slog.Debug("frame rate", "fps", float32(fp.frames)/fp.elapsed)
	fp.frames = 0
	fp.elapsed = 0
}
