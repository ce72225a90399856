// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package orrery

import (
	"fmt"
	"time"

	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/render"
	"github.com/orrery/orrery/scene"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

// HitSlopPx is the pointer tolerance of HitTest in screen pixels.
const HitSlopPx = 4

// Engine owns the GPU resources of one rendering surface: compiled
// programs, the static buffer cache, the resident text atlas and the
// device itself.
//
// Engine is not safe for concurrent use.
type Engine struct {
	dev        gpucore.Device
	programs   *shader.Registry
	buffers    *render.BufferCache
	atlas      *text.AtlasCache
	batches    *render.BatchRenderer
	dispatcher *render.Dispatcher

	interval   time.Duration
	lastFrame  time.Time
	clearColor [4]float32
	frames     int
	dropped    int

	disposed bool
}

// New creates an engine on dev and compiles the built-in programs.
// Programs that fail to compile are logged and their object kinds are
// skipped at draw time; New only fails without a device or when the
// label rasterizer cannot be loaded.
func New(dev gpucore.Device, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	atlasOpts := []text.AtlasOption{text.WithMetricsCapacity(o.metricCacheSize)}
	if o.rasterizer != nil {
		atlasOpts = append(atlasOpts, text.WithRasterizer(o.rasterizer))
	}
	atlas, err := text.NewAtlasCache(dev, atlasOpts...)
	if err != nil {
		return nil, fmt.Errorf("orrery: text atlas: %w", err)
	}

	var regOpts []shader.Option
	if o.compiler != nil {
		regOpts = append(regOpts, shader.WithCompiler(o.compiler))
	}
	programs := shader.NewRegistry(dev, regOpts...)
	ok := programs.CompileBuiltins()

	buffers := render.NewBufferCache(dev, o.bufferCacheSize)
	batches := render.NewBatchRenderer(dev, buffers, programs)
	var dispOpts []render.DispatcherOption
	if o.cull {
		dispOpts = append(dispOpts, render.WithCulling(o.cullMargin))
	}

	e := &Engine{
		dev:        dev,
		programs:   programs,
		buffers:    buffers,
		atlas:      atlas,
		batches:    batches,
		dispatcher: render.NewDispatcher(dev, programs, buffers, atlas, batches, dispOpts...),
		interval:   o.frameInterval,
		clearColor: o.clearColor,
	}
	Logger().Info("orrery: engine created",
		"programs", ok,
		"unavailable", programs.Unavailable(),
		"instancing", batches.Supported())
	return e, nil
}

// Render draws sc through cam as one device frame and returns the
// interactive regions of the drawn objects.
//
// Render never fails: device frame errors and per-object errors are
// logged and reflected in the returned counters. Render panics with
// ErrDisposed after Dispose.
func (e *Engine) Render(sc *scene.Scene, cam *camera.Camera) render.Result {
	if e.disposed {
		panic(ErrDisposed)
	}
	var desc gpucore.FrameDesc
	if cam != nil {
		w, h := cam.Viewport()
		desc.Width, desc.Height = int(w), int(h)
	}
	desc.ClearColor = e.clearColor
	if err := e.dev.BeginFrame(desc); err != nil {
		Logger().Warn("orrery: begin frame failed", "err", err)
		return render.Result{}
	}
	res, err := e.dispatcher.Render(sc, cam)
	if err != nil {
		Logger().Warn("orrery: render failed", "err", err)
	}
	if err := e.dev.EndFrame(); err != nil {
		Logger().Warn("orrery: end frame failed", "err", err)
	}
	e.frames++
	return res
}

// HitTest maps screen point (sx, sy) into the world through cam and
// returns the topmost region under it.
func (e *Engine) HitTest(regions []scene.Region, cam *camera.Camera, sx, sy float64) (scene.Region, bool) {
	if cam == nil {
		return scene.Region{}, false
	}
	wx, wy := cam.ScreenToWorld(sx, sy)
	return scene.HitTest(regions, wx, wy, HitSlopPx/cam.PixelsPerUnit())
}

// Programs returns the shader registry.
func (e *Engine) Programs() *shader.Registry { return e.programs }

// Buffers returns the static buffer cache.
func (e *Engine) Buffers() *render.BufferCache { return e.buffers }

// Atlas returns the text atlas cache.
func (e *Engine) Atlas() *text.AtlasCache { return e.atlas }

// Stats reports executed and gated frames.
func (e *Engine) Stats() (frames, dropped int) { return e.frames, e.dropped }

// Disposed reports whether Dispose was called.
func (e *Engine) Disposed() bool { return e.disposed }

// Dispose releases every GPU resource the engine owns and the device.
// It is idempotent.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.programs.Destroy()
	e.buffers.Clear()
	e.atlas.Destroy()
	e.dev.Destroy()
	Logger().Info("orrery: engine disposed", "frames", e.frames, "dropped", e.dropped)
}
