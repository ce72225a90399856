// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"log/slog"

	"github.com/orrery/orrery"
	"github.com/orrery/orrery/internal/logging"
)

var logger logging.Holder

func init() {
	orrery.RegisterLoggerHook(SetLogger)
}

// SetLogger sets the logger for the wgpu device. orrery.SetLogger calls it.
func SetLogger(l *slog.Logger) { logger.Store(l) }

func slogger() *slog.Logger { return logger.Load() }
