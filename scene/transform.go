// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "github.com/go-gl/mathgl/mgl64"

// Transform is an optional per-object model transform, applied as
// scale, then rotation, then translation.
type Transform struct {
	TranslateX, TranslateY float64
	Rotation               float64 // radians, counter-clockwise
	ScaleX, ScaleY         float64 // zero means 1
}

// Translate returns a pure translation.
func Translate(x, y float64) *Transform {
	return &Transform{TranslateX: x, TranslateY: y}
}

// Matrix returns the model matrix. A nil transform is the identity.
func (t *Transform) Matrix() mgl64.Mat4 {
	if t == nil {
		return mgl64.Ident4()
	}
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return mgl64.Translate3D(t.TranslateX, t.TranslateY, 0).
		Mul4(mgl64.HomogRotate3DZ(t.Rotation)).
		Mul4(mgl64.Scale3D(sx, sy, 1))
}

// Apply maps a local point to world space.
func (t *Transform) Apply(x, y float64) (float64, float64) {
	if t == nil {
		return x, y
	}
	v := t.Matrix().Mul4x1(mgl64.Vec4{x, y, 0, 1})
	return v[0], v[1]
}

// ApplyRect returns the world bounds of a local rectangle.
func (t *Transform) ApplyRect(r Rect) Rect {
	if t == nil || r.IsEmpty() {
		return r
	}
	m := t.Matrix()
	out := EmptyRect()
	for _, c := range [4][2]float64{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MinX, r.MaxY}, {r.MaxX, r.MaxY},
	} {
		v := m.Mul4x1(mgl64.Vec4{c[0], c[1], 0, 1})
		out = out.Extend(v[0], v[1])
	}
	return out
}
