// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package camera

import (
	"math"
	"testing"
)

func TestPinchTrackerIgnoresDegenerateStart(t *testing.T) {
	c := newCamera(t, DefaultConfig(Planar))
	var p PinchTracker

	if p.Begin(100, 100, 100, 100) {
		t.Fatal("Begin accepted zero distance")
	}
	if p.Move(c, 0, 0, 300, 300) {
		t.Error("Move applied after ignored Begin")
	}
	if st := c.State(); st.Scale != 1 || st.OffsetX != 0 {
		t.Errorf("camera changed: %+v", st)
	}
	if p.Ignored() != 1 {
		t.Errorf("Ignored = %d, want 1", p.Ignored())
	}
}

func TestPinchTrackerZoomsAroundMidpoint(t *testing.T) {
	for _, m := range modes() {
		t.Run(m.String(), func(t *testing.T) {
			c := newCamera(t, DefaultConfig(m))
			var p PinchTracker
			if !p.Begin(300, 300, 500, 300) {
				t.Fatal("Begin rejected")
			}
			wx, wy := c.ScreenToWorld(400, 300)

			if !p.Move(c, 200, 300, 600, 300) {
				t.Fatal("Move rejected")
			}
			if got := c.Scale(); !near(got, 2, eps) {
				t.Errorf("Scale = %g, want 2", got)
			}
			sx, sy := c.WorldToScreen(wx, wy)
			if !near(sx, 400, 1e-6) || !near(sy, 300, 1e-6) {
				t.Errorf("midpoint drifted to (%g, %g)", sx, sy)
			}

			// Collapsing fingers must not divide by zero.
			if p.Move(c, 400, 300, 401, 300) {
				t.Error("Move accepted degenerate distance")
			}
			if s := c.Scale(); math.IsNaN(s) || math.IsInf(s, 0) {
				t.Errorf("Scale = %g", s)
			}
			p.End()
			if p.Active() {
				t.Error("Active after End")
			}
		})
	}
}

func TestPinchTrackerPansWithMidpoint(t *testing.T) {
	c := newCamera(t, DefaultConfig(Planar))
	var p PinchTracker
	p.Begin(100, 100, 200, 100)
	wx, wy := c.ScreenToWorld(150, 100)
	p.Move(c, 130, 140, 230, 140)
	sx, sy := c.WorldToScreen(wx, wy)
	if !near(sx, 180, eps) || !near(sy, 140, eps) {
		t.Errorf("grabbed point at (%g, %g), want (180, 140)", sx, sy)
	}
}

func TestDragTracker(t *testing.T) {
	c := newCamera(t, DefaultConfig(Planar))
	var d DragTracker

	d.Begin(10, 10)
	d.Move(c, 12, 11)
	if d.Dragging() {
		t.Error("Dragging within threshold")
	}
	if !d.End() {
		t.Error("short press not reported as click")
	}

	d.Begin(10, 10)
	d.Move(c, 40, 50)
	d.Move(c, 60, 50)
	if !d.Dragging() {
		t.Error("not Dragging after long move")
	}
	if d.End() {
		t.Error("drag reported as click")
	}
	if st := c.State(); st.OffsetX != 52 || st.OffsetY != 41 {
		t.Errorf("offset = (%g, %g), want (52, 41)", st.OffsetX, st.OffsetY)
	}

	d.Move(c, 500, 500)
	if st := c.State(); st.OffsetX != 52 {
		t.Error("Move without Begin panned")
	}
}
