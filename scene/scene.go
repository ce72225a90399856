// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

// Scene is an ordered list of objects. Order is paint order.
type Scene struct {
	Objects []Object
}

// New returns an empty scene with room for n objects.
func New(n int) *Scene {
	return &Scene{Objects: make([]Object, 0, n)}
}

// Add appends objects in paint order.
func (s *Scene) Add(objs ...Object) *Scene {
	s.Objects = append(s.Objects, objs...)
	return s
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Objects)
}

// Reset empties the scene, keeping its capacity for the next frame.
func (s *Scene) Reset() {
	clear(s.Objects)
	s.Objects = s.Objects[:0]
}

// Bounds returns the union of every object's bounds.
func (s *Scene) Bounds() Rect {
	r := EmptyRect()
	if s == nil {
		return r
	}
	for _, o := range s.Objects {
		if !IsNil(o) {
			r = r.Union(o.Bounds())
		}
	}
	return r
}
