// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/shader"
)

// Frame carries the camera-derived state shared by every draw of a frame.
type Frame struct {
	Projection mgl64.Mat4
	View       mgl64.Mat4

	// PixelsPerUnit converts screen pixel sizes to world units.
	PixelsPerUnit float64
}

// FrameFor captures the camera matrices for one frame.
func FrameFor(cam *camera.Camera) Frame {
	return Frame{
		Projection:    cam.Projection(),
		View:          cam.View(),
		PixelsPerUnit: cam.PixelsPerUnit(),
	}
}

// Uniforms is the uniform block of the built-in programs. Matrices are
// written column-major, matching WGSL mat4x4 layout.
type Uniforms struct {
	Projection mgl64.Mat4
	View       mgl64.Mat4
	Model      mgl64.Mat4
	Color      [4]float32

	// Params.y is the glow exponent of glowPoint.
	Params [4]float32

	// Light.xyz is the light direction and Light.w the ambient term of body.
	Light [4]float32
}

// uniformsFor starts a uniform block for f with an identity model.
func uniformsFor(f *Frame) Uniforms {
	return Uniforms{Projection: f.Projection, View: f.View, Model: mgl64.Ident4()}
}

// AppendBytes appends the std140 image of u to dst.
func (u *Uniforms) AppendBytes(dst []byte) []byte {
	for _, m := range [...]*mgl64.Mat4{&u.Projection, &u.View, &u.Model} {
		for _, v := range m {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
		}
	}
	for _, v := range [...]*[4]float32{&u.Color, &u.Params, &u.Light} {
		for _, f := range v {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
	}
	return dst
}

// Bytes returns the uniform block.
func (u *Uniforms) Bytes() []byte {
	return u.AppendBytes(make([]byte, 0, shader.UniformSize))
}
