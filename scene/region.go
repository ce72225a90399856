// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "math"

// Shape selects the hit test used for a Region.
type Shape uint8

// Region shapes.
const (
	ShapeRect Shape = iota
	ShapeCircle
)

// Region is the interactive footprint of a drawn object, in world units.
type Region struct {
	Handle any
	Kind   Kind
	Index  int // position of the object in its scene
	Shape  Shape
	Bounds Rect

	// CenterX, CenterY and Radius are set for ShapeCircle.
	CenterX, CenterY float64
	Radius           float64
}

// Contains reports whether world point (x, y) hits the region, allowing
// slop extra world units around it.
func (r *Region) Contains(x, y, slop float64) bool {
	if r.Shape == ShapeCircle {
		return math.Hypot(x-r.CenterX, y-r.CenterY) <= r.Radius+slop
	}
	return r.Bounds.Inset(-slop).Contains(x, y)
}

// RegionOf returns the interactive region of o and whether o is
// interactive.
func RegionOf(o Object, index int) (Region, bool) {
	c := o.common()
	if c.Handle == nil {
		return Region{}, false
	}
	reg := Region{Handle: c.Handle, Kind: o.Kind(), Index: index, Bounds: o.Bounds()}
	var x, y, r float64
	switch v := o.(type) {
	case *Point:
		x, y, r = v.X, v.Y, v.Size/2
	case *GlowPoint:
		x, y, r = v.X, v.Y, v.Size/2
	case *Body:
		x, y, r = v.X, v.Y, v.Radius
	default:
		return reg, true
	}
	if v := c.Model; v != nil {
		x, y = v.Apply(x, y)
		r = reg.Bounds.Width() / 2
	}
	reg.Shape = ShapeCircle
	reg.CenterX, reg.CenterY, reg.Radius = x, y, r
	return reg, true
}

// HitTest returns the topmost region containing world point (x, y).
// Regions are in paint order, so later regions win.
func HitTest(regions []Region, x, y, slop float64) (Region, bool) {
	for i := len(regions) - 1; i >= 0; i-- {
		if regions[i].Contains(x, y, slop) {
			return regions[i], true
		}
	}
	return Region{}, false
}
