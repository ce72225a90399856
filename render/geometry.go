// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"math"
)

// ErrDegenerate is returned for geometry that cannot be drawn.
var ErrDegenerate = errors.New("render: degenerate geometry")

// Base quads of the instanced programs, two triangles each.
var (
	// pointQuad spans [-1, 1]; the shader scales it by half the size.
	pointQuad = []float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}
	// glyphQuad spans [0, 1]; the shader stretches it over the label.
	glyphQuad = []float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
)

// quadCorners lists the two triangles of a quad as (sx, sy) corner signs.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// appendDisc appends a quad of half-size r around (x, y) with local
// coordinates in [-1, 1], for the circle programs.
func appendDisc(dst []float32, x, y, r float64) []float32 {
	for _, c := range quadCorners {
		dst = append(dst,
			float32(x+float64(c[0])*r), float32(y+float64(c[1])*r),
			c[0], c[1])
	}
	return dst
}

// appendLabel appends a w x h quad with top-left (x, y) carrying texture
// coordinates from (u0, v0) to (u1, v1).
func appendLabel(dst []float32, x, y, w, h float64, u0, v0, u1, v1 float32) []float32 {
	for _, c := range quadCorners {
		px, u := x, u0
		if c[0] > 0 {
			px, u = x+w, u1
		}
		py, v := y, v0
		if c[1] > 0 {
			py, v = y+h, v1
		}
		dst = append(dst, float32(px), float32(py), u, v)
	}
	return dst
}

// appendPolyline appends the vertices of a line strip through pts.
func appendPolyline(dst []float32, pts [][2]float64, closed bool) []float32 {
	for _, p := range pts {
		dst = append(dst, float32(p[0]), float32(p[1]))
	}
	if closed && len(pts) > 2 {
		dst = append(dst, float32(pts[0][0]), float32(pts[0][1]))
	}
	return dst
}

// triangulate returns triangle indices for a simple polygon by ear
// clipping. Winding may be either direction. Repeated consecutive
// vertices are skipped.
func triangulate(pts [][2]float64) ([]uint32, error) {
	n := len(pts)
	if n < 3 {
		return nil, ErrDegenerate
	}
	area := signedArea(pts)
	if math.Abs(area) < 1e-12 || math.IsNaN(area) {
		return nil, ErrDegenerate
	}
	ccw := area > 0

	idx := make([]int, 0, n)
	for i, p := range pts {
		if len(idx) > 0 && pts[idx[len(idx)-1]] == p {
			continue
		}
		idx = append(idx, i)
	}
	for len(idx) > 1 && pts[idx[0]] == pts[idx[len(idx)-1]] {
		idx = idx[:len(idx)-1]
	}
	if len(idx) < 3 {
		return nil, ErrDegenerate
	}
	out := make([]uint32, 0, 3*(n-2))
	for guard := 0; len(idx) > 3; guard++ {
		if guard > n*n {
			return nil, ErrDegenerate
		}
		clipped := false
		for i := range idx {
			a := idx[(i+len(idx)-1)%len(idx)]
			b := idx[i]
			c := idx[(i+1)%len(idx)]
			if !isEar(pts, idx, a, b, c, ccw) {
				continue
			}
			out = append(out, uint32(a), uint32(b), uint32(c))
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, ErrDegenerate
		}
	}
	return append(out, uint32(idx[0]), uint32(idx[1]), uint32(idx[2])), nil
}

func signedArea(pts [][2]float64) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

func cross(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func isEar(pts [][2]float64, idx []int, a, b, c int, ccw bool) bool {
	turn := cross(pts[a], pts[b], pts[c])
	if (ccw && turn <= 0) || (!ccw && turn >= 0) {
		return false
	}
	for _, j := range idx {
		if p := pts[j]; p == pts[a] || p == pts[b] || p == pts[c] {
			continue
		}
		if inTriangle(pts[j], pts[a], pts[b], pts[c]) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c [2]float64) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}
