// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene defines the drawable records consumed by the renderer.
//
// A [Scene] is an ordered list of [Object] values; order is paint order.
// Object is a closed set: every variant lives in this package and the
// renderer handles each one explicitly.
//
//	Point       filled circle marker
//	GlowPoint   circle with an exponential halo
//	Line        polyline, optionally closed
//	Polygon     filled polygon, explicit or computed triangulation
//	Text        single label rendered from the text atlas
//	PointBatch  many markers drawn with one instanced call
//	TextBatch   many labels drawn with one instanced call
//	Body        shaded sphere (planets, moons, stars)
//
// Scenes are rebuilt by the caller every frame. The renderer never mutates
// or retains objects, so a cached slice of static objects can be appended
// to every frame's scene.
//
// Objects whose Common.Handle is non-nil are interactive: rendering them
// yields a [Region] that [HitTest] resolves screen clicks against.
package scene
