// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package orrery

import (
	"log/slog"
	"time"

	"github.com/orrery/orrery/render"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

// DefaultFrameInterval is the minimum time between two executed frames.
const DefaultFrameInterval = 16600 * time.Microsecond

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := orrery.New(dev,
//		orrery.WithBufferCacheSize(256),
//		orrery.WithFrameInterval(33*time.Millisecond),
//	)
type Option func(*options)

type options struct {
	bufferCacheSize int
	metricCacheSize int
	frameInterval   time.Duration
	logger          *slog.Logger
	rasterizer      text.Rasterizer
	cullMargin      float64
	cull            bool
	compiler        shader.Compiler
	clearColor      [4]float32
}

func defaultOptions() options {
	return options{
		bufferCacheSize: render.DefaultBufferCacheSize,
		metricCacheSize: text.DefaultMetricsCapacity,
		frameInterval:   DefaultFrameInterval,
		clearColor:      [4]float32{0, 0, 0, 1},
	}
}

// WithBufferCacheSize bounds the number of cached static vertex buffers.
// Non-positive values keep the default of 100.
func WithBufferCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferCacheSize = n
		}
	}
}

// WithTextMetricCacheSize bounds the memoized label measurements.
// Non-positive values keep the default of 1000.
func WithTextMetricCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.metricCacheSize = n
		}
	}
}

// WithFrameInterval sets the frame gate interval. Zero disables gating.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.frameInterval = d
		}
	}
}

// WithLogger installs l through SetLogger when the engine is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRasterizer replaces the default Go Regular label rasterizer.
func WithRasterizer(r text.Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = r
	}
}

// WithCullMargin enables view culling; objects whose bounds lie further
// than marginPx screen pixels outside the viewport are not drawn.
func WithCullMargin(marginPx float64) Option {
	return func(o *options) {
		o.cull = true
		o.cullMargin = marginPx
	}
}

// WithShaderCompiler replaces the naga WGSL compiler.
func WithShaderCompiler(c shader.Compiler) Option {
	return func(o *options) {
		o.compiler = c
	}
}

// WithClearColor sets the frame clear color.
func WithClearColor(r, g, b, a float32) Option {
	return func(o *options) {
		o.clearColor = [4]float32{r, g, b, a}
	}
}
