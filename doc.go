// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package orrery renders pannable, zoomable 2D and pseudo-3D scenes of
// points, glowing points, lines, polygons, labels and lit bodies on a GPU
// device.
//
// # Quick Start
//
//	dev, _ := wgpu.NewFromProvider(provider) // or recording.NewDevice() in tests
//	eng, err := orrery.New(dev)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Dispose()
//
//	cam, _ := camera.New(camera.DefaultConfig(camera.Planar), 800, 600)
//	sc := scene.New(2).Add(
//		&scene.Point{Common: scene.Common{Color: scene.RGBA(1, 1, 1, 1)}, X: 10, Y: 20, Size: 4},
//		&scene.Text{Common: scene.Common{Color: scene.RGBA(1, 1, 1, 1)}, X: 10, Y: 30, Text: "Sol", Size: 12},
//	)
//	res := eng.Render(sc, cam)
//	if r, ok := eng.HitTest(res.Regions, cam, mouseX, mouseY); ok {
//		fmt.Println("clicked", r.Handle)
//	}
//
// # Architecture
//
// The engine composes:
//   - shader: WGSL program registry compiled through naga
//   - render: buffer cache, instanced batches and the scene dispatcher
//   - text: label rasterization and the single resident text atlas
//   - camera: planar and perspective view state plus gestures
//   - gpucore: the device abstraction implemented by backend/wgpu and recording
//
// # Threading
//
// An Engine is driven from a single goroutine. The frame gate in [Engine.Frame]
// drops frames that arrive too early instead of queueing them.
package orrery
