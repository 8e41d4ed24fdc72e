// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"goki.dev/grog"
)

func TestDefaultLogger(t *testing.T) {
	old := slog.Default()
	oldLevel := UserLevel
	defer func() {
		slog.SetDefault(old)
		UserLevel = oldLevel
	}()

	var buf bytes.Buffer
	SetDefaultLogger(&buf)
	assert.False(t, grog.UseColor, "no color on a buffer")

	UserLevel = slog.LevelWarn
	slog.Info("hidden")
	slog.Warn("shown", "n", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "n=3")

	buf.Reset()
	oldGrog := grog.UserLevel
	defer func() { grog.UserLevel = oldGrog }()
	grog.UserLevel = grog.LevelFromFlags(true, false, true)
	UseGrogLevel()
	assert.Equal(t, slog.LevelDebug, UserLevel)
	Driver(SeverityVerbose, "validation", "loader message")
	assert.Contains(t, buf.String(), "loader message")
	assert.Contains(t, buf.String(), "layer=validation")

	grog.UserLevel = grog.LevelFromFlags(false, false, true)
	UseGrogLevel()
	assert.Equal(t, slog.LevelError, UserLevel)
	buf.Reset()
	Driver(SeverityWarning, "validation", "dropped")
	assert.Empty(t, buf.String())
	Driver(SeverityError, "validation", "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSeverityLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, SeverityVerbose.Level())
	assert.Equal(t, slog.LevelInfo, SeverityInfo.Level())
	assert.Equal(t, slog.LevelWarn, SeverityWarning.Level())
	assert.Equal(t, slog.LevelError, SeverityError.Level())
}

func TestTitle(t *testing.T) {
	old := grog.UseColor
	defer func() { grog.UseColor = old }()
	grog.UseColor = false
	assert.Equal(t, "vsprite", Title("vsprite"))
}
