// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag provides the diagnostics sink used by mesh editing and
// pathfinding. Carve traces are emitted at [slog.LevelDebug], recovered
// inconsistencies at [slog.LevelWarn] and failures at [slog.LevelError].
//
// [Logger] writes through a [logx.Handler] that tracks [logx.UserLevel],
// so the debug and release build tags of logx select the default level.
package diag

import (
	"io"
	"log/slog"
	"os"

	"cogentcore.org/core/base/logx"
)

// Output is where [Logger] writes.
var Output io.Writer = os.Stderr

// SetLevel sets the minimum level reported by [Logger].
// It changes [logx.UserLevel], which also governs the default logger.
func SetLevel(l slog.Level) {
	logx.UserLevel = l
}

// Level returns the minimum level reported by [Logger].
func Level() slog.Level {
	return logx.UserLevel
}

// Logger returns a logger writing to [Output] at [logx.UserLevel].
// Later changes of the level apply to loggers already returned.
func Logger() *slog.Logger {
	return slog.New(logx.NewHandler(Output, &slog.HandlerOptions{Level: &logx.UserLevel}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(logx.NewHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Or returns l, or [Logger] if l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
