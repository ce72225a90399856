// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"log/slog"

	"github.com/orrery/orrery/internal/logging"
)

var logger logging.Holder

// SetLogger sets the logger for atlas diagnostics. Pass nil to disable.
func SetLogger(l *slog.Logger) { logger.Store(l) }

func slogger() *slog.Logger { return logger.Load() }
