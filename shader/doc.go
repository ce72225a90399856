// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader owns the lifecycle of the engine's GPU programs.
//
// A [Registry] compiles a fixed set of named WGSL programs once, at engine
// start. Sources are compiled to SPIR-V with naga, then linked by the
// gpucore.Device. A program whose compilation or link fails is stored as
// unavailable instead of failing the engine: lookups return a [Program]
// whose Available method reports false, and every draw path checks that
// before issuing a draw. There is no hot reload.
//
// The built-in program set (see [Builtins]) covers every render object kind:
//
//	point, glowPoint, line, polygon, text, body  generic per-object path
//	pointBatch, textBatch                        instanced batch path
package shader
