// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package logging holds the silent-by-default slog plumbing shared by the
// orrery sub-packages.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// Holder stores a package logger. Accessed atomically so that SetLogger can
// be called concurrently with logging from any goroutine. The zero value
// logs nothing.
type Holder struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the current logger, never nil.
func (h *Holder) Load() *slog.Logger {
	if l := h.p.Load(); l != nil {
		return l
	}
	return nopLogger
}

// Store replaces the logger. Nil restores the silent default.
func (h *Holder) Store(l *slog.Logger) {
	if l == nil {
		l = nopLogger
	}
	h.p.Store(l)
}

var nopLogger = Nop()
