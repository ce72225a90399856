// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"fmt"
	"strconv"
)

// Kind is the type tag of an Object.
type Kind uint8

// Object kinds.
const (
	KindPoint Kind = iota + 1
	KindGlowPoint
	KindLine
	KindPolygon
	KindText
	KindPointBatch
	KindTextBatch
	KindBody
)

var kindNames = [...]string{
	KindPoint:      "point",
	KindGlowPoint:  "glowPoint",
	KindLine:       "line",
	KindPolygon:    "polygon",
	KindText:       "text",
	KindPointBatch: "pointBatch",
	KindTextBatch:  "textBatch",
	KindBody:       "body",
}

// String returns the kind name, which is also the name of the program
// that draws it.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Color is a straight-alpha RGBA color, 0-1 normalized.
type Color [4]float32

// RGBA returns a Color.
func RGBA(r, g, b, a float32) Color { return Color{r, g, b, a} }

// Common holds the fields shared by every object.
type Common struct {
	Color Color

	// Model is an optional transform applied before the camera.
	Model *Transform

	// Handle identifies the object to the application. A non-nil Handle
	// makes the object interactive.
	Handle any
}

func (c *Common) common() *Common { return c }

// Object is a drawable record. The set of implementations is closed.
type Object interface {
	Kind() Kind

	// Bounds returns the world-space bounding box, model transform applied.
	Bounds() Rect

	common() *Common
}

// CommonOf returns the shared fields of o.
func CommonOf(o Object) *Common { return o.common() }

// Point is a filled circle marker of diameter Size.
type Point struct {
	Common
	X, Y float64
	Size float64
}

// Kind implements Object.
func (*Point) Kind() Kind { return KindPoint }

// Bounds implements Object.
func (p *Point) Bounds() Rect {
	return p.Model.ApplyRect(RectAround(p.X, p.Y, p.Size/2))
}

// GlowPoint is a point with a soft halo. Size is the halo diameter; Glow
// is the falloff exponent, larger values give a tighter halo.
type GlowPoint struct {
	Common
	X, Y float64
	Size float64
	Glow float64
}

// Kind implements Object.
func (*GlowPoint) Kind() Kind { return KindGlowPoint }

// Bounds implements Object.
func (p *GlowPoint) Bounds() Rect {
	return p.Model.ApplyRect(RectAround(p.X, p.Y, p.Size/2))
}

// Line is a polyline through Points. Closed connects the last point back
// to the first.
type Line struct {
	Common
	Points [][2]float64
	Closed bool
}

// Kind implements Object.
func (*Line) Kind() Kind { return KindLine }

// Bounds implements Object.
func (l *Line) Bounds() Rect {
	return l.Model.ApplyRect(pointsBounds(l.Points))
}

// Polygon is a filled simple polygon. When Indices is nil the renderer
// triangulates Points; otherwise Indices lists triangles into Points.
type Polygon struct {
	Common
	Points  [][2]float64
	Indices []uint32
}

// Kind implements Object.
func (*Polygon) Kind() Kind { return KindPolygon }

// Bounds implements Object.
func (p *Polygon) Bounds() Rect {
	return p.Model.ApplyRect(pointsBounds(p.Points))
}

// Text is a label centered on (X, Y). Size is the font size in screen
// pixels; labels keep their on-screen size at every zoom level.
type Text struct {
	Common
	X, Y float64
	Text string
	Size float64
}

// Kind implements Object.
func (*Text) Kind() Kind { return KindText }

// Bounds implements Object. The label extent depends on the camera, so
// only the anchor is reported.
func (t *Text) Bounds() Rect {
	x, y := t.Model.Apply(t.X, t.Y)
	return RectAround(x, y, 0)
}

// PointBatch draws many markers with a single instanced call. Positions,
// Colors and Sizes are parallel slices. Common.Color and Common.Model are
// ignored.
type PointBatch struct {
	Common
	Positions [][2]float32
	Colors    [][4]float32
	Sizes     []float32
}

// Kind implements Object.
func (*PointBatch) Kind() Kind { return KindPointBatch }

// Bounds implements Object.
func (b *PointBatch) Bounds() Rect {
	r := EmptyRect()
	for i, p := range b.Positions {
		half := 0.0
		if i < len(b.Sizes) {
			half = float64(b.Sizes[i]) / 2
		}
		r = r.Union(RectAround(float64(p[0]), float64(p[1]), half))
	}
	return r
}

// TextItem is one label of a TextBatch.
type TextItem struct {
	X, Y  float64
	Text  string
	Size  float64
	Color Color
}

// TextBatch draws many labels with a single instanced call. Items with a
// zero Color use Common.Color. Common.Model is ignored.
type TextBatch struct {
	Common
	Items []TextItem
}

// Kind implements Object.
func (*TextBatch) Kind() Kind { return KindTextBatch }

// Bounds implements Object.
func (b *TextBatch) Bounds() Rect {
	r := EmptyRect()
	for _, it := range b.Items {
		r = r.Extend(it.X, it.Y)
	}
	return r
}

// Body is a sphere of the given radius, shaded by a directional light.
type Body struct {
	Common
	X, Y   float64
	Radius float64

	// Light is the direction towards the light source. Zero means
	// top-left, towards the viewer.
	Light [3]float32

	// Ambient is the minimum brightness of the unlit side, 0-1.
	Ambient float32
}

// Kind implements Object.
func (*Body) Kind() Kind { return KindBody }

// Bounds implements Object.
func (b *Body) Bounds() Rect {
	return b.Model.ApplyRect(RectAround(b.X, b.Y, b.Radius))
}

func pointsBounds(pts [][2]float64) Rect {
	r := EmptyRect()
	for _, p := range pts {
		r = r.Extend(p[0], p[1])
	}
	return r
}

// IsNil reports whether o is nil or a nil pointer of one of the object
// types.
func IsNil(o Object) bool {
	switch v := o.(type) {
	case nil:
		return true
	case *Point:
		return v == nil
	case *GlowPoint:
		return v == nil
	case *Line:
		return v == nil
	case *Polygon:
		return v == nil
	case *Text:
		return v == nil
	case *PointBatch:
		return v == nil
	case *TextBatch:
		return v == nil
	case *Body:
		return v == nil
	}
	return false
}

// Describe returns a short description of o for diagnostics.
func Describe(o Object) string {
	if IsNil(o) {
		if o == nil {
			return "<nil>"
		}
		return fmt.Sprintf("(%T)(nil)", o)
	}
	switch v := o.(type) {
	case *Point:
		return fmt.Sprintf("point at (%g, %g) size %g", v.X, v.Y, v.Size)
	case *GlowPoint:
		return fmt.Sprintf("glowPoint at (%g, %g) size %g glow %g", v.X, v.Y, v.Size, v.Glow)
	case *Line:
		return fmt.Sprintf("line with %d points closed=%t", len(v.Points), v.Closed)
	case *Polygon:
		return fmt.Sprintf("polygon with %d points %d indices", len(v.Points), len(v.Indices))
	case *Text:
		return fmt.Sprintf("text %q at (%g, %g) size %g", v.Text, v.X, v.Y, v.Size)
	case *PointBatch:
		return fmt.Sprintf("pointBatch of %d", len(v.Positions))
	case *TextBatch:
		return fmt.Sprintf("textBatch of %d", len(v.Items))
	case *Body:
		return fmt.Sprintf("body at (%g, %g) radius %g", v.X, v.Y, v.Radius)
	default:
		return fmt.Sprintf("%T", o)
	}
}
