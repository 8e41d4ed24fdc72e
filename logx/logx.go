// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx sets up structured logging for vsprite programs: the
// default slog logger is a grog handler at UserLevel, colored only on
// terminals that support it.
package logx

import (
	"context"
	"io"
	"log/slog"

	"github.com/muesli/termenv"
	"goki.dev/grog"
)

// UserLevel is the level at and above which messages are logged. It is
// slog.LevelInfo by default, slog.LevelDebug with the "debug" build tag
// and slog.LevelWarn with the "release" build tag.
var UserLevel = defaultUserLevel

// SetDefaultLogger makes the default logger a grog handler writing to w
// at UserLevel. Later changes to UserLevel take effect immediately.
func SetDefaultLogger(w io.Writer) {
	out := termenv.NewOutput(w)
	grog.UseColor = out.Profile != termenv.Ascii && !out.EnvNoColor()
	slog.SetDefault(slog.New(grog.NewHandler(w, &slog.HandlerOptions{Level: &UserLevel})))
}

// UseGrogLevel sets UserLevel to grog.UserLevel, which grease sets
// from the -vv, -v and -q flags.
func UseGrogLevel() {
	UserLevel = grog.UserLevel
}

// Severity is the severity of a driver validation message
type Severity int32

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// Level returns the log level for messages of the severity
func (sv Severity) Level() slog.Level {
	switch sv {
	case SeverityVerbose:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Driver logs a message from the driver validation layer
func Driver(sv Severity, layer, msg string) {
	slog.Log(context.Background(), sv.Level(), msg, "layer", layer)
}

// Title returns s in bold when color is in use
func Title(s string) string {
	if !grog.UseColor {
		return s
	}
	return termenv.String(s).Bold().String()
}
