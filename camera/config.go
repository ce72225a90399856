// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package camera

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors.
var (
	ErrInvalidZoom        = errors.New("camera: invalid zoom limits")
	ErrInvalidPerspective = errors.New("camera: invalid perspective parameters")
	ErrInvalidViewport    = errors.New("camera: invalid viewport")
	ErrInvalidMode        = errors.New("camera: invalid mode")
)

// Mode is the projection model of a camera.
type Mode uint8

// Projection modes.
const (
	Planar Mode = iota
	Perspective
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Planar:
		return "planar"
	case Perspective:
		return "perspective"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Bounds limits panning to a disc around a center point, in offset units.
// A zero radius disables the limit.
type Bounds struct {
	CenterX, CenterY float64
	Radius           float64
}

// PerspectiveConfig holds the parameters of the Perspective mode.
type PerspectiveConfig struct {
	// FOV is the vertical field of view in radians.
	FOV float64

	// MinDistance and MaxDistance clamp the simulated view distance.
	MinDistance, MaxDistance float64

	// BaseDistance is the view distance at scale 1. Zero derives it from
	// the viewport height so that scale 1 maps one world unit to one pixel.
	BaseDistance float64

	// Near and Far are the clip planes of the projection matrix.
	Near, Far float64
}

// Config is the fixed configuration of a camera.
type Config struct {
	Mode             Mode
	ZoomMin, ZoomMax float64
	Bounds           Bounds
	Perspective      PerspectiveConfig
}

// DefaultConfig returns a configuration with zoom limits [0.1, 10], no pan
// bounds and a 45 degree field of view.
func DefaultConfig(mode Mode) Config {
	return Config{
		Mode:    mode,
		ZoomMin: 0.1,
		ZoomMax: 10,
		Perspective: PerspectiveConfig{
			FOV:         math.Pi / 4,
			MinDistance: 10,
			MaxDistance: 50000,
			Near:        0.1,
			Far:         100000,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !(c.ZoomMin > 0) || !(c.ZoomMax >= c.ZoomMin) || math.IsInf(c.ZoomMax, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidZoom, c.ZoomMin, c.ZoomMax)
	}
	if c.Bounds.Radius < 0 || math.IsNaN(c.Bounds.Radius) {
		return fmt.Errorf("camera: negative pan radius %g", c.Bounds.Radius)
	}
	switch c.Mode {
	case Planar:
		return nil
	case Perspective:
		p := c.Perspective
		switch {
		case !(p.FOV > 0 && p.FOV < math.Pi):
			return fmt.Errorf("%w: field of view %g", ErrInvalidPerspective, p.FOV)
		case !(p.MinDistance > 0) || !(p.MaxDistance >= p.MinDistance):
			return fmt.Errorf("%w: distance [%g, %g]", ErrInvalidPerspective, p.MinDistance, p.MaxDistance)
		case p.BaseDistance < 0:
			return fmt.Errorf("%w: base distance %g", ErrInvalidPerspective, p.BaseDistance)
		case !(p.Near > 0) || !(p.Far > p.Near) || p.Near >= p.MinDistance || p.Far <= p.MaxDistance:
			return fmt.Errorf("%w: clip planes [%g, %g] must enclose distance [%g, %g]",
				ErrInvalidPerspective, p.Near, p.Far, p.MinDistance, p.MaxDistance)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, c.Mode)
	}
}
