// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package recording provides an in-memory gpucore.Device that records every
// GPU call as a typed command instead of talking to a graphics API.
//
// The recording device follows the same lifecycle rules as a real backend:
// IDs are unique and never reused, destroying a dead ID is a no-op, and draws
// are only accepted inside a frame. It keeps counters for every resource kind
// so tests can assert on uploads, live handles and destructions, and it lets
// callers inject failures to exercise degraded paths.
//
// # Basic Usage
//
//	dev := recording.NewDevice()
//	eng, err := orrery.New(dev)
//	...
//	eng.Render(scene, cam)
//
//	fmt.Println(dev.Stats().Draws, dev.LiveBuffers())
//
// # Failure Injection
//
//	dev.FailProgram = func(desc *gpucore.ProgramDesc) error { ... }
//	dev.FailDraw = func(n int, cmd *gpucore.DrawCommand) error { ... }
//
// A Device is not safe for concurrent use.
package recording
