// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"goki.dev/grr"
	"goki.dev/vsprite/vrender"
)

// configWatcher re-reads a config file when it is written and delivers
// it on Configs, to be applied by the render loop.
type configWatcher struct {
	Configs chan *vrender.Config

	file    string
	watcher *fsnotify.Watcher
}

// watchConfig watches the directory of the config file, so that editors
// that replace the file on save are seen too.
func watchConfig(file string) (*configWatcher, error) {
	file, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		watcher.Close()
		return nil, err
	}
	cw := &configWatcher{Configs: make(chan *vrender.Config, 1), file: file, watcher: watcher}
	go cw.run()
	return cw, nil
}

func (cw *configWatcher) run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.file || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cf, err := vrender.OpenConfig(cw.file)
			if grr.Log(err) != nil {
				continue
			}
			slog.Info("config reloaded", "file", cw.file)
			// only the newest config matters
			select {
			case <-cw.Configs:
			default:
			}
			cw.Configs <- cf
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error: " + err.Error())
		}
	}
}

// Close stops watching
func (cw *configWatcher) Close() error {
	return cw.watcher.Close()
}
