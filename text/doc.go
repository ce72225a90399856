// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text builds the single label texture the renderer draws text
// from.
//
// [AtlasCache.GetAtlas] takes an ordered batch of (string, font size)
// entries and returns an [Atlas]: one GPU texture holding every string,
// laid out left to right with fixed padding, plus one UV rectangle per
// entry in batch order. The atlas is keyed by the batch signature. Asking
// again for the same batch returns the resident atlas without touching the
// GPU, so unchanged labels cost nothing per frame. A different batch builds
// a new texture and releases the previous one.
//
// Per-string pixel metrics are memoized in a bounded FIFO cache. The
// default [FontRasterizer] measures with HarfBuzz shaping from
// go-text/typesetting and draws with golang.org/x/image/font/opentype,
// using the Go Regular font unless another TrueType font is supplied.
package text
