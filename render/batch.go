// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

// ErrBatchLength is returned when parallel batch slices differ in length.
var ErrBatchLength = errors.New("render: batch attribute lengths differ")

// ErrRectIndex is returned for a text instance whose atlas rect is missing.
var ErrRectIndex = errors.New("render: atlas rect index out of range")

// TextInstance is one label of an instanced text draw, in world units.
type TextInstance struct {
	// X, Y is the top-left corner and W, H the size of the label quad.
	X, Y, W, H float32

	// Rect indexes the atlas rect holding the label.
	Rect  int
	Color [4]float32
}

// BatchRenderer issues one instanced draw for a homogeneous set of
// objects. It requires hardware instancing; without it every call is a
// no-op that reports false.
type BatchRenderer struct {
	dev      gpucore.Device
	buffers  *BufferCache
	programs *shader.Registry
	scratch  []byte
	warned   bool
}

// NewBatchRenderer creates a batch renderer. Base quads come from buffers.
func NewBatchRenderer(dev gpucore.Device, buffers *BufferCache, programs *shader.Registry) *BatchRenderer {
	return &BatchRenderer{dev: dev, buffers: buffers, programs: programs}
}

// Supported reports whether the device can draw instanced batches.
func (b *BatchRenderer) Supported() bool {
	return b.dev.Capabilities().Instancing
}

func (b *BatchRenderer) usable(name string) (*shader.Program, bool) {
	if !b.Supported() {
		if !b.warned {
			b.warned = true
			slogger().Debug("render: instancing unsupported, batch draws disabled")
		}
		return nil, false
	}
	p := b.programs.Get(name)
	return p, p.Available()
}

// DrawPointBatch draws len(positions) markers with one call. Sizes are
// diameters in world units. It reports whether a draw was issued.
func (b *BatchRenderer) DrawPointBatch(f Frame, positions [][2]float32, colors [][4]float32, sizes []float32) (bool, error) {
	if len(colors) != len(positions) || len(sizes) != len(positions) {
		return false, fmt.Errorf("%w: %d positions, %d colors, %d sizes",
			ErrBatchLength, len(positions), len(colors), len(sizes))
	}
	if len(positions) == 0 {
		return false, nil
	}
	prog, ok := b.usable(shader.PointBatch)
	if !ok {
		return false, nil
	}

	data := b.scratch[:0]
	for i, p := range positions {
		data = appendF32(data, p[0], p[1], sizes[i])
		data = appendF32(data, colors[i][:]...)
	}
	b.scratch = data

	return true, b.drawInstanced(f, prog, pointQuad, data, uint32(len(positions)), gpucore.InvalidID)
}

// DrawTextBatch draws every label with one call, sampling atlas.
func (b *BatchRenderer) DrawTextBatch(f Frame, labels []TextInstance, atlas *text.Atlas) (bool, error) {
	if len(labels) == 0 || atlas.Empty() {
		return false, nil
	}
	prog, ok := b.usable(shader.TextBatch)
	if !ok {
		return false, nil
	}

	data := b.scratch[:0]
	for i := range labels {
		l := &labels[i]
		if l.Rect < 0 || l.Rect >= len(atlas.Rects) {
			return false, fmt.Errorf("%w: label %d rect %d of %d", ErrRectIndex, i, l.Rect, len(atlas.Rects))
		}
		r := atlas.Rects[l.Rect]
		data = appendF32(data, l.X, l.Y, l.W, l.H, r.U0, r.V0, r.U1, r.V1)
		data = appendF32(data, l.Color[:]...)
	}
	b.scratch = data

	return true, b.drawInstanced(f, prog, glyphQuad, data, uint32(len(labels)), atlas.Texture)
}

// drawInstanced draws the cached base quad once per instance. The
// instance buffer is released as soon as the draw is issued.
func (b *BatchRenderer) drawInstanced(f Frame, prog *shader.Program, quad []float32, instances []byte, n uint32, tex gpucore.TextureID) error {
	base, err := b.buffers.GetOrCreate(quad)
	if err != nil {
		return err
	}
	inst, err := UploadDynamic(b.dev, prog.Name+"-instances", instances, gpucore.BufferUsageVertex)
	if err != nil {
		return err
	}
	defer b.dev.DestroyBuffer(inst)

	u := uniformsFor(&f)
	return b.dev.Draw(&gpucore.DrawCommand{
		Program:       prog.ID,
		VertexBuffers: []gpucore.BufferID{base, inst},
		VertexCount:   uint32(len(quad) / 2),
		InstanceCount: n,
		Uniforms:      u.Bytes(),
		Texture:       tex,
	})
}

func appendF32(dst []byte, v ...float32) []byte {
	for _, f := range v {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
