// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns scenes into draw calls on a gpucore.Device.
//
// The package has three parts:
//
//   - [BufferCache] keeps static vertex data, such as the unit quad every
//     instanced draw starts from, on the GPU across frames. It is keyed by
//     content and bounded with FIFO eviction.
//   - [BatchRenderer] draws N markers or N labels with one instanced draw.
//     Without hardware instancing its calls do nothing.
//   - [Dispatcher] walks a scene in paint order, routes each object to its
//     program and isolates per-object failures so one bad object never
//     drops the whole frame.
//
// Per-object geometry and per-instance data are uploaded as dynamic
// buffers and released right after their draw.
package render
