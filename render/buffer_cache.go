// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/internal/cache"
)

// DefaultBufferCacheSize is the entry bound used when none is given.
const DefaultBufferCacheSize = 100

// ErrEmptyPayload is returned for zero-length buffer contents.
var ErrEmptyPayload = errors.New("render: empty buffer payload")

// BufferCache maps vertex payloads to static GPU buffers.
//
// The key is the exact byte image of the payload, so equal payloads share
// one buffer regardless of which slice holds them. Only use it for small,
// repeated geometry; per-frame data belongs in UploadDynamic.
//
// BufferCache is not safe for concurrent use.
type BufferCache struct {
	dev     gpucore.Device
	entries *cache.FIFO[string, gpucore.BufferID]
	scratch []byte
}

// NewBufferCache creates a cache of at most capacity buffers. Values <= 0
// select DefaultBufferCacheSize.
func NewBufferCache(dev gpucore.Device, capacity int) *BufferCache {
	if capacity <= 0 {
		capacity = DefaultBufferCacheSize
	}
	c := &BufferCache{
		dev:     dev,
		entries: cache.New[string, gpucore.BufferID](capacity),
	}
	c.entries.OnEvict(func(_ string, id gpucore.BufferID) {
		dev.DestroyBuffer(id)
	})
	return c
}

// GetOrCreate returns the buffer holding payload, uploading it on a miss.
// A miss on a full cache destroys the oldest buffer before uploading.
func (c *BufferCache) GetOrCreate(payload []float32) (gpucore.BufferID, error) {
	if len(payload) == 0 {
		return gpucore.InvalidID, ErrEmptyPayload
	}
	c.scratch = appendF32(c.scratch[:0], payload...)
	key := string(c.scratch)
	return c.entries.GetOrCreate(key, func() (gpucore.BufferID, error) {
		id, err := c.dev.CreateBuffer("cached-vertices", c.scratch,
			gpucore.BufferUsageVertex|gpucore.BufferUsageStatic)
		if err != nil {
			return gpucore.InvalidID, fmt.Errorf("render: cached buffer upload: %w", err)
		}
		slogger().Debug("render: buffer cache miss", "floats", len(payload), "id", uint64(id))
		return id, nil
	})
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int { return c.entries.Len() }

// Capacity returns the entry bound.
func (c *BufferCache) Capacity() int { return c.entries.Capacity() }

// Stats returns hit, miss and eviction counters.
func (c *BufferCache) Stats() cache.Stats { return c.entries.Stats() }

// Clear destroys every cached buffer.
func (c *BufferCache) Clear() { c.entries.Clear() }

// UploadDynamic uploads data for a single draw. The caller destroys the
// returned buffer once the draw is issued.
func UploadDynamic(dev gpucore.Device, label string, data []byte, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if len(data) == 0 {
		return gpucore.InvalidID, ErrEmptyPayload
	}
	id, err := dev.CreateBuffer(label, data, usage|gpucore.BufferUsageDynamic)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("render: %s upload: %w", label, err)
	}
	return id, nil
}

func appendUint32s(dst []byte, v []uint32) []byte {
	for _, u := range v {
		dst = binary.LittleEndian.AppendUint32(dst, u)
	}
	return dst
}
