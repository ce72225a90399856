// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the mutable pan and zoom state of a camera.
type State struct {
	OffsetX, OffsetY float64
	Scale            float64
}

// Rect is an axis-aligned world rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Camera maps between screen and world coordinates.
//
// Camera is not safe for concurrent use.
type Camera struct {
	cfg   Config
	state State

	width, height float64
}

// New creates a camera for a width x height pixel viewport with offset
// (0, 0) and the scale clamped from 1 into the zoom limits.
func New(cfg Config, width, height float64) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidViewport, width, height)
	}
	c := &Camera{cfg: cfg, width: width, height: height}
	c.state.Scale = c.clampScale(1)
	return c, nil
}

// Mode returns the projection mode.
func (c *Camera) Mode() Mode { return c.cfg.Mode }

// Config returns the camera configuration.
func (c *Camera) Config() Config { return c.cfg }

// State returns the current pan and zoom.
func (c *Camera) State() State { return c.state }

// SetState replaces pan and zoom. Scale is clamped to the zoom limits and
// the offset to the pan bounds.
func (c *Camera) SetState(s State) {
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		s.Scale = c.state.Scale
	}
	c.state.Scale = c.clampScale(s.Scale)
	if finite(s.OffsetX) && finite(s.OffsetY) {
		c.state.OffsetX, c.state.OffsetY = s.OffsetX, s.OffsetY
	}
	c.clampOffset()
}

// Scale returns the zoom factor.
func (c *Camera) Scale() float64 { return c.state.Scale }

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (width, height float64) { return c.width, c.height }

// SetViewport resizes the viewport. Non-positive sizes are ignored.
func (c *Camera) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		c.width, c.height = width, height
	}
}

func (c *Camera) clampScale(s float64) float64 {
	return math.Min(math.Max(s, c.cfg.ZoomMin), c.cfg.ZoomMax)
}

// clampOffset pulls the offset back onto the bounds disc.
func (c *Camera) clampOffset() {
	b := c.cfg.Bounds
	if b.Radius <= 0 {
		return
	}
	dx := c.state.OffsetX - b.CenterX
	dy := c.state.OffsetY - b.CenterY
	dist := math.Hypot(dx, dy)
	if dist <= b.Radius {
		return
	}
	c.state.OffsetX = b.CenterX + dx/dist*b.Radius
	c.state.OffsetY = b.CenterY + dy/dist*b.Radius
}

// baseDistance returns the view distance at scale 1.
func (c *Camera) baseDistance() float64 {
	if d := c.cfg.Perspective.BaseDistance; d > 0 {
		return d
	}
	return c.height / (2 * math.Tan(c.cfg.Perspective.FOV/2))
}

// Distance returns the simulated view distance. It is 0 in Planar mode.
func (c *Camera) Distance() float64 {
	if c.cfg.Mode != Perspective {
		return 0
	}
	p := c.cfg.Perspective
	return math.Min(math.Max(c.baseDistance()/c.state.Scale, p.MinDistance), p.MaxDistance)
}

// halfExtents returns the half width and height of the view plane at the
// current distance.
func (c *Camera) halfExtents() (float64, float64) {
	halfH := c.Distance() * math.Tan(c.cfg.Perspective.FOV/2)
	return halfH * c.width / c.height, halfH
}

// screenToView maps a screen point to offset units.
func (c *Camera) screenToView(sx, sy float64) (float64, float64) {
	if c.cfg.Mode != Perspective {
		return sx, sy
	}
	halfW, halfH := c.halfExtents()
	return (2*sx/c.width - 1) * halfW, (2*sy/c.height - 1) * halfH
}

func (c *Camera) viewToScreen(vx, vy float64) (float64, float64) {
	if c.cfg.Mode != Perspective {
		return vx, vy
	}
	halfW, halfH := c.halfExtents()
	return (vx/halfW + 1) * c.width / 2, (vy/halfH + 1) * c.height / 2
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	vx, vy := c.screenToView(sx, sy)
	return (vx - c.state.OffsetX) / c.state.Scale, (vy - c.state.OffsetY) / c.state.Scale
}

// WorldToScreen converts a world point to screen coordinates. It is the
// exact inverse of ScreenToWorld.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.viewToScreen(wx*c.state.Scale+c.state.OffsetX, wy*c.state.Scale+c.state.OffsetY)
}

// PixelsPerUnit returns how many screen pixels one world unit spans.
func (c *Camera) PixelsPerUnit() float64 {
	if c.cfg.Mode != Perspective {
		return c.state.Scale
	}
	_, halfH := c.halfExtents()
	return c.state.Scale * c.height / (2 * halfH)
}

// Pan moves the view by a screen-space delta, then clamps the offset to
// the pan bounds.
func (c *Camera) Pan(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	if c.cfg.Mode == Perspective {
		halfW, halfH := c.halfExtents()
		dx *= 2 * halfW / c.width
		dy *= 2 * halfH / c.height
	}
	c.state.OffsetX += dx
	c.state.OffsetY += dy
	c.clampOffset()
}

// ZoomAt multiplies the scale by factor, clamped to the zoom limits, and
// keeps the world point under (sx, sy) fixed on screen. Non-positive and
// non-finite factors are ignored.
//
// The pan bounds are not applied, since clamping would move the anchor.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) || !finite(sx) || !finite(sy) {
		return
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	c.state.Scale = c.clampScale(c.state.Scale * factor)
	vx, vy := c.screenToView(sx, sy)
	c.state.OffsetX = vx - wx*c.state.Scale
	c.state.OffsetY = vy - wy*c.state.Scale
}

// CenterOn pans so that world point (wx, wy) is at the viewport center,
// subject to the pan bounds.
func (c *Camera) CenterOn(wx, wy float64) {
	vx, vy := c.screenToView(c.width/2, c.height/2)
	c.state.OffsetX = vx - wx*c.state.Scale
	c.state.OffsetY = vy - wy*c.state.Scale
	c.clampOffset()
}

// VisibleRect returns the world rectangle covered by the viewport.
func (c *Camera) VisibleRect() Rect {
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(c.width, c.height)
	return Rect{
		MinX: math.Min(x0, x1), MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1), MaxY: math.Max(y0, y1),
	}
}

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	if c.cfg.Mode != Perspective {
		return mgl64.Ortho(0, c.width, c.height, 0, -1, 1)
	}
	p := c.cfg.Perspective
	return mgl64.Perspective(p.FOV, c.width/c.height, p.Near, p.Far)
}

// View returns the view matrix. Projection().Mul4(View()) maps a world
// point to the clip position of WorldToScreen.
func (c *Camera) View() mgl64.Mat4 {
	pan := mgl64.Translate3D(c.state.OffsetX, c.state.OffsetY, 0).
		Mul4(mgl64.Scale3D(c.state.Scale, c.state.Scale, 1))
	if c.cfg.Mode != Perspective {
		return pan
	}
	// View plane y grows downwards; camera space y grows upwards.
	return mgl64.Translate3D(0, 0, -c.Distance()).
		Mul4(mgl64.Scale3D(1, -1, 1)).
		Mul4(pan)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
