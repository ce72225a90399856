// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package orrery

import (
	"log/slog"

	"github.com/orrery/orrery/internal/logging"
	"github.com/orrery/orrery/render"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

var logger logging.Holder

// SetLogger configures the logger for orrery and all its sub-packages.
// By default, orrery produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by orrery:
//   - [slog.LevelDebug]: cache misses, atlas rebuilds, skipped frames
//   - [slog.LevelInfo]: lifecycle events (engine created, disposed)
//   - [slog.LevelWarn]: degraded paths (shader failures, per-object errors)
//
// Example:
//
//	orrery.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	l = logger.Load()
	shader.SetLogger(l)
	render.SetLogger(l)
	text.SetLogger(l)
	for _, hook := range loggerHooks {
		hook(l)
	}
}

// Logger returns the current logger used by orrery.
func Logger() *slog.Logger {
	return logger.Load()
}

// loggerHooks are extra SetLogger targets registered by backends that the
// root package cannot import without a cycle.
var loggerHooks []func(*slog.Logger)

// RegisterLoggerHook adds a logger target. Backends call it from init so
// SetLogger reaches them. The hook is invoked at once with the current logger.
func RegisterLoggerHook(hook func(*slog.Logger)) {
	loggerHooks = append(loggerHooks, hook)
	hook(logger.Load())
}
