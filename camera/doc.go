// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package camera converts between screen pixels and world units.
//
// A [Camera] holds pan and zoom state ([State]) and one of two projection
// modes, fixed at construction:
//
//   - [Planar]: screen = world*scale + offset. Offset is in pixels.
//   - [Perspective]: a simulated 3D camera. The zoom scale selects a view
//     distance (BaseDistance/scale, clamped), the field of view turns that
//     distance into the half extents of a view plane, and screen points map
//     linearly onto that plane. Offset is in view-plane units.
//
// The same formulas drive rendering ([Camera.Projection], [Camera.View]) and
// input handling ([Camera.ScreenToWorld], [Camera.Pan], [Camera.ZoomAt]), so
// a point drawn at a world position is hit by a click on that position in
// both modes.
//
// Screen and world y axes both grow downwards.
package camera
