// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/internal/cache"
	"golang.org/x/text/unicode/norm"
)

// Atlas size floors and defaults.
const (
	MinAtlasWidth  = 64
	MinAtlasHeight = 16

	DefaultPadding         = 4
	DefaultMetricsCapacity = 1000
)

// ErrNoImage is returned by WritePNG for atlases without a bitmap.
var ErrNoImage = errors.New("text: atlas has no image")

// Entry is one string of an atlas batch.
type Entry struct {
	Text string
	Size float64
}

// UVRect locates one entry inside the atlas.
type UVRect struct {
	// U0, V0 is the top-left and U1, V1 the bottom-right texture coordinate.
	U0, V0, U1, V1 float32

	// X, Y, Width and Height are the pixel cell of the entry.
	X, Y          int
	Width, Height int
}

// Atlas is a packed label texture. Rects[i] belongs to entry i of the
// batch that produced Signature.
type Atlas struct {
	Signature string
	Texture   gpucore.TextureID
	Width     int
	Height    int
	Rects     []UVRect

	img *image.RGBA
}

// Empty reports whether the atlas holds no texture.
func (a *Atlas) Empty() bool {
	return a == nil || a.Texture == gpucore.InvalidID
}

// Image returns the CPU copy of the atlas bitmap.
func (a *Atlas) Image() *image.RGBA {
	if a == nil {
		return nil
	}
	return a.img
}

// WritePNG encodes the atlas bitmap as PNG.
func (a *Atlas) WritePNG(w io.Writer) error {
	if a.Image() == nil {
		return ErrNoImage
	}
	return png.Encode(w, a.img)
}

// Signature returns the order-sensitive identity of a batch. Each entry
// is written as len:text@size; so label text cannot forge a boundary.
func Signature(batch []Entry) string {
	var sb strings.Builder
	for _, e := range batch {
		sb.WriteString(strconv.Itoa(len(e.Text)))
		sb.WriteByte(':')
		sb.WriteString(e.Text)
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatFloat(e.Size, 'g', -1, 64))
		sb.WriteByte(';')
	}
	return sb.String()
}

type metricKey struct {
	text string
	size float64
}

// AtlasCache owns the resident atlas texture and the metrics cache.
//
// AtlasCache is not safe for concurrent use.
type AtlasCache struct {
	dev      gpucore.Device
	raster   Rasterizer
	padding  int
	metrics  *cache.FIFO[metricKey, Metrics]
	resident *Atlas
	uploads  int
}

type atlasOptions struct {
	metricsCap int
	padding    int
	raster     Rasterizer
}

// AtlasOption configures an AtlasCache.
type AtlasOption func(*atlasOptions)

// WithMetricsCapacity bounds the metrics cache. Values <= 0 select the
// default of 1000.
func WithMetricsCapacity(n int) AtlasOption {
	return func(o *atlasOptions) { o.metricsCap = n }
}

// WithPadding sets the horizontal gap between entries, in pixels.
func WithPadding(px int) AtlasOption {
	return func(o *atlasOptions) { o.padding = px }
}

// WithRasterizer replaces the default Go Regular rasterizer.
func WithRasterizer(r Rasterizer) AtlasOption {
	return func(o *atlasOptions) { o.raster = r }
}

// NewAtlasCache creates an atlas cache on dev.
func NewAtlasCache(dev gpucore.Device, opts ...AtlasOption) (*AtlasCache, error) {
	o := atlasOptions{
		metricsCap: DefaultMetricsCapacity,
		padding:    DefaultPadding,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metricsCap <= 0 {
		o.metricsCap = DefaultMetricsCapacity
	}
	if o.padding < 0 {
		o.padding = 0
	}
	if o.raster == nil {
		r, err := DefaultRasterizer()
		if err != nil {
			return nil, err
		}
		o.raster = r
	}
	return &AtlasCache{
		dev:     dev,
		raster:  o.raster,
		padding: o.padding,
		metrics: cache.New[metricKey, Metrics](o.metricsCap),
	}, nil
}

// Measure returns the memoized pixel metrics of s at size.
func (c *AtlasCache) Measure(s string, size float64) Metrics {
	key := metricKey{text: norm.NFC.String(s), size: size}
	if m, ok := c.metrics.Get(key); ok {
		return m
	}
	m := c.raster.Measure(key.text, size)
	c.metrics.Set(key, m)
	return m
}

// MetricsStats returns statistics of the metrics cache.
func (c *AtlasCache) MetricsStats() cache.Stats { return c.metrics.Stats() }

// Resident returns the current atlas, or nil.
func (c *AtlasCache) Resident() *Atlas { return c.resident }

// Uploads returns how many textures the cache has uploaded.
func (c *AtlasCache) Uploads() int { return c.uploads }

// GetAtlas returns an atlas for batch. When batch matches the resident
// atlas the resident atlas is returned without GPU work. An empty batch
// returns an empty atlas and leaves the resident atlas alone.
func (c *AtlasCache) GetAtlas(batch []Entry) (*Atlas, error) {
	if len(batch) == 0 {
		return &Atlas{}, nil
	}
	sig := Signature(batch)
	if c.resident != nil && c.resident.Signature == sig {
		return c.resident, nil
	}

	atlas, err := c.build(sig, batch)
	if err != nil {
		return nil, err
	}
	if old := c.resident; old != nil {
		c.dev.DestroyTexture(old.Texture)
	}
	c.resident = atlas
	slogger().Debug("text: atlas rebuilt",
		"entries", len(batch), "width", atlas.Width, "height", atlas.Height)
	return atlas, nil
}

// build measures, lays out, rasterizes and uploads batch. Entries are
// placed on one row; a row that would exceed the device texture limit
// continues on a new shelf below.
func (c *AtlasCache) build(sig string, batch []Entry) (*Atlas, error) {
	maxSize := c.dev.Capabilities().MaxTextureSize
	rects := make([]UVRect, len(batch))

	x, y, rowH, width := 0, 0, 0, 0
	for i, e := range batch {
		m := c.Measure(e.Text, e.Size)
		cellW := m.Width + c.padding
		if maxSize > 0 && cellW > maxSize {
			return nil, fmt.Errorf("text: entry %d (%q) is %d px wide, texture limit is %d",
				i, e.Text, m.Width, maxSize)
		}
		if maxSize > 0 && x+cellW > maxSize && x > 0 {
			x, y = 0, y+rowH
			rowH = 0
		}
		rects[i] = UVRect{X: x, Y: y, Width: m.Width, Height: m.Height}
		x += cellW
		width = max(width, x)
		rowH = max(rowH, m.Height)
	}
	height := y + rowH

	width = max(width, MinAtlasWidth)
	height = max(height, MinAtlasHeight)
	if maxSize > 0 && height > maxSize {
		return nil, fmt.Errorf("text: atlas height %d exceeds texture limit %d", height, maxSize)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, e := range batch {
		r := &rects[i]
		c.raster.Draw(img, norm.NFC.String(e.Text), e.Size, r.X, r.Y)
		r.U0 = float32(r.X) / float32(width)
		r.V0 = float32(r.Y) / float32(height)
		r.U1 = float32(r.X+r.Width) / float32(width)
		r.V1 = float32(r.Y+r.Height) / float32(height)
	}

	tex, err := c.dev.CreateTexture(&gpucore.TextureDesc{
		Label:  "text-atlas",
		Width:  width,
		Height: height,
		Format: gpucore.TextureFormatRGBA8Unorm,
	}, img.Pix)
	if err != nil {
		return nil, fmt.Errorf("text: atlas upload: %w", err)
	}
	c.uploads++

	return &Atlas{
		Signature: sig,
		Texture:   tex,
		Width:     width,
		Height:    height,
		Rects:     rects,
		img:       img,
	}, nil
}

// Destroy releases the resident texture. The cache stays usable.
func (c *AtlasCache) Destroy() {
	if c.resident != nil {
		c.dev.DestroyTexture(c.resident.Texture)
		c.resident = nil
	}
	c.metrics.Clear()
}
