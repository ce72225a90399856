// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides the bounded cache used for GPU buffers and text
// metrics.
//
// # FIFO[K, V]
//
// A first-in first-out cache with a hard entry bound. Eviction order is
// insertion order only, so eviction is deterministic regardless of access
// pattern:
//
//	c := cache.New[string, int](100)
//	c.OnEvict(func(k string, v int) { release(v) })
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// FIFO is owned by a single render loop and is not safe for concurrent use.
package cache
