// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

// Command vsprite opens a window and draws a small animated scene of
// solid, gradient and textured shapes. The scene background, fog and
// camera come from vsprite.toml (or the file given with -config) and
// command line flags. The config file is re-applied whenever it changes
// on disk.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"goki.dev/grease"
	"goki.dev/grr"
	"goki.dev/vsprite/logx"
	"goki.dev/vsprite/vapi/vkdrv"
	"goki.dev/vsprite/vrender"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

// Scene is the window and scene part of the config
type Scene = vrender.Config

// Config is the vsprite command configuration. -v, -vv, -q and -config
// are handled by grease itself.
type Config struct {
	Scene

	// image file for the textured quad, a checkerboard if empty
	Texture string `toml:"texture" desc:"image file for the textured quad, a checkerboard if empty"`
}

func newOptions() *grease.Options {
	opts := grease.DefaultOptions("vsprite", "vsprite", "vsprite draws a small animated scene of solid, gradient and textured shapes with Vulkan.")
	opts.PrintSuccess = false
	// "" lets -config name an absolute path
	opts.IncludePaths = []string{"", "configs"}
	return opts
}

func main() {
	grease.Run(newOptions(), &Config{}, &grease.Cmd[*Config]{
		Func: run,
		Name: "run",
		Doc:  "open the window and draw the scene until it is closed",
		Root: true,
	})
}

func run(cf *Config) error {
	logx.SetDefaultLogger(os.Stderr)
	logx.UseGrogLevel()

	drv, err := vkdrv.NewGlfw(vkdrv.Options{Debug: cf.Validation})
	if err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(cf.Width, cf.Height, cf.Title, nil, nil)
	if err != nil {
		return err
	}
	defer win.Destroy()

	opts := &vrender.Options{AppName: cf.Title, Fov: cf.Fov}
	if cf.Validation {
		opts.Layers = []string{"VK_LAYER_KHRONOS_validation"}
	}
	rn, err := vrender.New(drv, &vkdrv.GlfwSurface{Window: win}, opts)
	if err != nil {
		return err
	}
	defer rn.Destroy()
	if err := rn.Apply(&cf.Scene); err != nil {
		return err
	}

	sc, err := newScene(rn, cf.Texture)
	if err != nil {
		return err
	}

	var reload <-chan *vrender.Config
	file := ""
	if n := len(grease.ConfigFiles); n > 0 {
		// the last file read wins
		file = grease.ConfigFiles[n-1]
		wt, err := watchConfig(file)
		if err != nil {
			slog.Warn("config will not be reloaded", "err", err)
		} else {
			defer wt.Close()
			reload = wt.Configs
		}
	}

	resized := false
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		resized = true
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	slog.Info(logx.Title("vsprite"), "width", cf.Width, "height", cf.Height, "config", file)
	fps := newFPS()
	for !win.ShouldClose() {
		glfw.PollEvents()
		select {
		case ncf := <-reload:
			grr.Log(rn.Apply(ncf))
		default:
		}
		if resized {
			w, h := win.GetFramebufferSize()
			if w == 0 || h == 0 {
				// minimized: nothing to draw into
				glfw.WaitEvents()
				continue
			}
			resized = false
			if err := rn.Resize(w, h); err != nil {
				return fmt.Errorf("resize to %dx%d: %w", w, h, err)
			}
		}
		dt, err := rn.Update()
		if err != nil {
			return err
		}
		if err := sc.step(dt); err != nil {
			return err
		}
		fps.frame(dt)
	}
	return nil
}
