// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore defines the GPU abstraction the orrery engine renders through.
//
// The engine never talks to a graphics API directly. Every GPU object it
// creates (programs, vertex buffers, textures) is represented by an opaque
// ID handed out by a [Device]. Backends translate those IDs into real
// resources:
//
//	               +------------------+
//	               |  orrery engine   |
//	               | (render, text,   |
//	               |  shader)         |
//	               +--------+---------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  backend/wgpu   |          |   recording     |
//	|  (hal.Device)   |          | (in-memory log) |
//	+-----------------+          +-----------------+
//
// # Resource Management
//
// Resources are created via Create* methods and must be destroyed exactly
// once via the matching Destroy* method. IDs are never reused by a device, so
// a destroyed ID can be detected by a backend. [InvalidID] (zero) is never a
// valid resource.
//
// # Frames
//
// Draw commands are only accepted between [Device.BeginFrame] and
// [Device.EndFrame]. A backend may defer releasing buffers destroyed during a
// frame until the frame has been submitted; callers only see the ID go away.
package gpucore
