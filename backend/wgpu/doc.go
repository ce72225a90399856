// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpucore.Device on the gogpu/wgpu HAL.
//
// The device records every frame into a single render pass targeting the
// texture view set with SetTarget, usually the current surface texture of
// the host window:
//
//	dev, err := wgpu.NewFromProvider(app.GPUContextProvider())
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng, err := orrery.New(dev)
//	...
//	dev.SetTarget(surfaceView)
//	eng.Render(sc, cam)
//
// Programs arrive as naga SPIR-V and become one render pipeline each.
// Per-draw uniform buffers and bind groups, and buffers destroyed while a
// frame is open, are released after the frame's fence signals.
//
// Build with the nogpu tag to exclude the package from GPU-less builds.
package wgpu
