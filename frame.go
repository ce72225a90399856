// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package orrery

import (
	"context"
	"time"
)

// FrameFunc builds and renders one frame, typically by calling
// Engine.Render with the current scene and camera.
type FrameFunc func(now time.Time)

// Frame runs build when at least the frame interval has passed since the
// last executed frame and reports whether it ran. Early frames are dropped,
// not queued. The first call always runs.
func (e *Engine) Frame(now time.Time, build FrameFunc) bool {
	if e.disposed {
		panic(ErrDisposed)
	}
	if !e.lastFrame.IsZero() && now.Sub(e.lastFrame) < e.interval {
		e.dropped++
		Logger().Debug("orrery: frame dropped", "since", now.Sub(e.lastFrame))
		return false
	}
	e.lastFrame = now
	build(now)
	return true
}

// Run drives Frame from ticks, usually a vsync or time.Ticker channel,
// until ctx is canceled or ticks is closed. It returns ctx.Err() on
// cancellation and nil when ticks closes.
func (e *Engine) Run(ctx context.Context, ticks <-chan time.Time, build FrameFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			if e.disposed {
				return ErrDisposed
			}
			e.Frame(now, build)
		}
	}
}
