// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package camera

import "math"

// MinPinchDistance is the smallest touch separation, in pixels, a pinch
// may start from or measure against. Closer touches are ignored.
const MinPinchDistance = 10.0

// DragThreshold is the pointer travel, in pixels, after which a press is
// treated as a drag rather than a click.
const DragThreshold = 4.0

// Pinch zooms by ratio around the two-touch midpoint (midX, midY).
// Degenerate ratios are ignored.
func (c *Camera) Pinch(midX, midY, ratio float64) {
	c.ZoomAt(midX, midY, ratio)
}

// PinchTracker turns a stream of two-touch positions into camera pans and
// anchored zooms.
type PinchTracker struct {
	active   bool
	lastDist float64
	lastMidX float64
	lastMidY float64
	ignored  int
}

// Begin starts a gesture. It returns false, and the gesture is ignored
// until the next Begin, when the touches are closer than MinPinchDistance.
func (t *PinchTracker) Begin(x1, y1, x2, y2 float64) bool {
	d := math.Hypot(x2-x1, y2-y1)
	if !(d >= MinPinchDistance) {
		t.active = false
		t.ignored++
		return false
	}
	t.active = true
	t.lastDist = d
	t.lastMidX, t.lastMidY = (x1+x2)/2, (y1+y2)/2
	return true
}

// Move applies the change since the previous position: the midpoint
// travel pans the camera, then the distance ratio zooms around the new
// midpoint. It reports whether the camera changed.
func (t *PinchTracker) Move(c *Camera, x1, y1, x2, y2 float64) bool {
	if !t.active {
		return false
	}
	d := math.Hypot(x2-x1, y2-y1)
	if !(d >= MinPinchDistance) {
		t.ignored++
		return false
	}
	midX, midY := (x1+x2)/2, (y1+y2)/2
	c.Pan(midX-t.lastMidX, midY-t.lastMidY)
	c.Pinch(midX, midY, d/t.lastDist)
	t.lastDist = d
	t.lastMidX, t.lastMidY = midX, midY
	return true
}

// End finishes the gesture.
func (t *PinchTracker) End() { t.active = false }

// Active reports whether a gesture is in progress.
func (t *PinchTracker) Active() bool { return t.active }

// Ignored returns how many degenerate samples were dropped.
func (t *PinchTracker) Ignored() int { return t.ignored }

// DragTracker turns pointer motion into camera pans.
type DragTracker struct {
	active         bool
	startX, startY float64
	lastX, lastY   float64
	dragged        bool
}

// Begin records the press position.
func (t *DragTracker) Begin(x, y float64) {
	t.active = true
	t.dragged = false
	t.startX, t.startY = x, y
	t.lastX, t.lastY = x, y
}

// Move pans the camera by the pointer travel since the last position.
func (t *DragTracker) Move(c *Camera, x, y float64) {
	if !t.active {
		return
	}
	c.Pan(x-t.lastX, y-t.lastY)
	t.lastX, t.lastY = x, y
	if math.Hypot(x-t.startX, y-t.startY) > DragThreshold {
		t.dragged = true
	}
}

// End releases the pointer. It reports whether the press was a click,
// that is, it never travelled beyond DragThreshold.
func (t *DragTracker) End() (click bool) {
	click = t.active && !t.dragged
	t.active = false
	return click
}

// Dragging reports whether the current press has become a drag.
func (t *DragTracker) Dragging() bool { return t.active && t.dragged }
