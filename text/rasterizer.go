// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-text/typesetting/di"
	gotextfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Metrics is the pixel extent of a rendered string.
type Metrics struct {
	Width, Height int
}

// Rasterizer measures and draws single-line strings.
type Rasterizer interface {
	// Measure returns the pixel box Draw fills for s at size.
	Measure(s string, size float64) Metrics

	// Draw renders s with its top-left corner at (x, y). Coverage goes to
	// the alpha channel over white.
	Draw(dst *image.RGBA, s string, size float64, x, y int)
}

// FontRasterizer is the default Rasterizer over a TrueType font.
//
// FontRasterizer is not safe for concurrent use.
type FontRasterizer struct {
	otf    *opentype.Font
	shaped *gotextfont.Face
	shaper shaping.HarfbuzzShaper
	faces  map[float64]font.Face
}

// NewFontRasterizer parses ttf for both drawing and shaping.
func NewFontRasterizer(ttf []byte) (*FontRasterizer, error) {
	otf, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	gt, err := gotextfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}
	return &FontRasterizer{
		otf:    otf,
		shaped: gotextfont.NewFace(gt.Font),
		faces:  make(map[float64]font.Face),
	}, nil
}

// DefaultRasterizer returns a FontRasterizer using Go Regular.
func DefaultRasterizer() (*FontRasterizer, error) {
	return NewFontRasterizer(goregular.TTF)
}

func (r *FontRasterizer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// advance returns the shaped advance width of s in pixels, kerning
// included.
func (r *FontRasterizer) advance(s string, size float64) fixed.Int26_6 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	out := r.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      r.shaped,
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.Advance
	}
	return adv
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Measure implements Rasterizer.
func (r *FontRasterizer) Measure(s string, size float64) Metrics {
	if !(size > 0) || math.IsInf(size, 0) {
		return Metrics{}
	}
	f, err := r.face(size)
	if err != nil {
		slogger().Warn("text: face creation failed", "size", size, "error", err)
		return Metrics{}
	}
	m := f.Metrics()
	return Metrics{
		Width:  r.advance(norm.NFC.String(s), size).Ceil(),
		Height: (m.Ascent + m.Descent).Ceil(),
	}
}

// Draw implements Rasterizer.
func (r *FontRasterizer) Draw(dst *image.RGBA, s string, size float64, x, y int) {
	if s == "" || !(size > 0) {
		return
	}
	f, err := r.face(size)
	if err != nil {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: f,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + f.Metrics().Ascent},
	}
	d.DrawString(norm.NFC.String(s))
}

// Close releases the cached font faces.
func (r *FontRasterizer) Close() error {
	for size, f := range r.faces {
		_ = f.Close()
		delete(r.faces, size)
	}
	return nil
}
