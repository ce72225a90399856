// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/scene"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

// Dispatch errors.
var (
	// ErrNoCamera is returned by Render without a camera.
	ErrNoCamera = errors.New("render: nil camera")

	// ErrObjectPanic wraps a panic raised while drawing one object.
	ErrObjectPanic = errors.New("render: object draw panicked")

	// ErrNilObject is reported for nil scene entries.
	ErrNilObject = errors.New("render: nil object")

	// ErrNoAtlas is reported for labels when the atlas could not be built.
	ErrNoAtlas = errors.New("render: text atlas unavailable")
)

// Defaults for objects that leave optional fields zero.
var defaultLight = [4]float32{-0.5, -0.5, 0.7, 0.15}

const defaultGlow = 2

// Result summarizes one Render call.
type Result struct {
	// Regions are the interactive objects that were drawn, in paint order.
	Regions []scene.Region

	// Drawn counts objects that issued a draw.
	Drawn int

	// Skipped counts objects whose program is unavailable or whose batch
	// path is disabled.
	Skipped int

	// Failed counts objects whose draw returned an error or panicked.
	Failed int

	// Culled counts objects outside the visible area plus margin.
	Culled int
}

// Dispatcher routes scene objects to programs and batch paths.
//
// Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	dev      gpucore.Device
	programs *shader.Registry
	buffers  *BufferCache
	atlas    *text.AtlasCache
	batches  *BatchRenderer

	cull       bool
	cullMargin float64

	// Reused across frames.
	entries   []text.Entry
	firstRect []int
	labels    []TextInstance
	verts     []float32
	bytes     []byte
	skipped   mapset.Set[string]
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCulling skips objects whose bounds lie entirely outside the
// viewport grown by marginPx screen pixels.
func WithCulling(marginPx float64) DispatcherOption {
	return func(d *Dispatcher) {
		d.cull = marginPx >= 0
		d.cullMargin = marginPx
	}
}

// NewDispatcher creates a dispatcher over the engine's shared resources.
func NewDispatcher(dev gpucore.Device, programs *shader.Registry, buffers *BufferCache,
	atlas *text.AtlasCache, batches *BatchRenderer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		dev:      dev,
		programs: programs,
		buffers:  buffers,
		atlas:    atlas,
		batches:  batches,
		skipped:  mapset.New[string](),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render draws sc in order through cam. The caller brackets it with the
// device's BeginFrame and EndFrame.
//
// Per-object errors and panics are logged and counted; they never stop
// the remaining objects. Render itself only fails without a camera.
func (d *Dispatcher) Render(sc *scene.Scene, cam *camera.Camera) (Result, error) {
	var res Result
	if cam == nil {
		return res, ErrNoCamera
	}
	if sc.Len() == 0 {
		return res, nil
	}
	f := FrameFor(cam)
	atlas, atlasErr := d.prepareLabels(sc)

	var view scene.Rect
	if d.cull {
		vr := cam.VisibleRect()
		m := d.cullMargin / f.PixelsPerUnit
		view = scene.Rect{MinX: vr.MinX - m, MinY: vr.MinY - m, MaxX: vr.MaxX + m, MaxY: vr.MaxY + m}
	}

	for i, o := range sc.Objects {
		if scene.IsNil(o) {
			res.Failed++
			d.logFailure(i, o, ErrNilObject)
			continue
		}
		out, err := d.renderIsolated(i, o, &f, view, atlas, atlasErr)
		switch {
		case err != nil:
			res.Failed++
			d.logFailure(i, o, err)
		case out.culled:
			res.Culled++
		case !out.drawn:
			res.Skipped++
		default:
			res.Drawn++
			if out.interactive {
				res.Regions = append(res.Regions, out.region)
			}
		}
	}
	return res, nil
}

// outcome is what rendering one object produced.
type outcome struct {
	culled      bool
	drawn       bool
	interactive bool
	region      scene.Region
}

func (d *Dispatcher) logFailure(i int, o scene.Object, err error) {
	kind := "nil"
	if !scene.IsNil(o) {
		kind = o.Kind().String()
	}
	slogger().Warn("render: object skipped after error",
		"index", i, "kind", kind, "object", scene.Describe(o), "error", err)
}

// prepareLabels requests one atlas holding every label of the scene and
// records where each object's labels start.
func (d *Dispatcher) prepareLabels(sc *scene.Scene) (*text.Atlas, error) {
	d.entries = d.entries[:0]
	d.firstRect = d.firstRect[:0]
	for _, o := range sc.Objects {
		d.firstRect = append(d.firstRect, len(d.entries))
		if scene.IsNil(o) {
			continue
		}
		switch v := o.(type) {
		case *scene.Text:
			d.entries = append(d.entries, text.Entry{Text: v.Text, Size: v.Size})
		case *scene.TextBatch:
			for _, it := range v.Items {
				d.entries = append(d.entries, text.Entry{Text: it.Text, Size: it.Size})
			}
		}
	}
	if len(d.entries) == 0 || d.atlas == nil {
		return nil, nil
	}
	atlas, err := d.atlas.GetAtlas(d.entries)
	if err != nil {
		slogger().Warn("render: text atlas build failed", "labels", len(d.entries), "error", err)
		return nil, err
	}
	return atlas, nil
}

// renderIsolated culls, draws and builds the region of one object,
// turning a panic into an error.
func (d *Dispatcher) renderIsolated(i int, o scene.Object, f *Frame, view scene.Rect, atlas *text.Atlas, atlasErr error) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{}
			err = fmt.Errorf("%w: %v", ErrObjectPanic, r)
		}
	}()
	if d.cull && !o.Bounds().Intersects(view) {
		out.culled = true
		return out, nil
	}
	out.drawn, err = d.draw(i, o, f, atlas, atlasErr)
	if err != nil || !out.drawn {
		return outcome{}, err
	}
	if reg, ok := scene.RegionOf(o, i); ok {
		d.fitLabelRegion(&reg, o, i, atlas, f.PixelsPerUnit)
		out.region, out.interactive = reg, true
	}
	return out, nil
}

// program resolves the program of kind, logging once per name when it is
// unavailable.
func (d *Dispatcher) program(k scene.Kind) (*shader.Program, bool) {
	p := d.programs.Get(k.String())
	if p.Available() {
		return p, true
	}
	if !d.skipped.Has(p.Name) {
		d.skipped.Put(p.Name)
		slogger().Warn("render: objects skipped, program unavailable", "program", p.Name, "error", p.Err)
	}
	return nil, false
}

func (d *Dispatcher) draw(i int, o scene.Object, f *Frame, atlas *text.Atlas, atlasErr error) (bool, error) {
	switch v := o.(type) {
	case *scene.PointBatch:
		return d.batches.DrawPointBatch(*f, v.Positions, v.Colors, v.Sizes)
	case *scene.TextBatch:
		return d.drawTextBatch(i, v, f, atlas, atlasErr)
	}

	prog, ok := d.program(o.Kind())
	if !ok {
		return false, nil
	}
	c := scene.CommonOf(o)
	u := uniformsFor(f)
	u.Model = c.Model.Matrix()
	u.Color = c.Color

	verts := d.verts[:0]
	defer func() { d.verts = verts[:0] }()

	switch v := o.(type) {
	case *scene.Point:
		verts = appendDisc(verts, v.X, v.Y, v.Size/2)
		return true, d.drawVertices(prog, verts, nil, &u, gpucore.InvalidID)

	case *scene.GlowPoint:
		u.Params[1] = defaultGlow
		if v.Glow > 0 {
			u.Params[1] = float32(v.Glow)
		}
		verts = appendDisc(verts, v.X, v.Y, v.Size/2)
		return true, d.drawVertices(prog, verts, nil, &u, gpucore.InvalidID)

	case *scene.Body:
		u.Light = defaultLight
		if v.Light != ([3]float32{}) {
			u.Light = [4]float32{v.Light[0], v.Light[1], v.Light[2], v.Ambient}
		}
		verts = appendDisc(verts, v.X, v.Y, v.Radius)
		return true, d.drawVertices(prog, verts, nil, &u, gpucore.InvalidID)

	case *scene.Line:
		if len(v.Points) < 2 {
			return false, fmt.Errorf("%w: line needs 2 points, has %d", ErrDegenerate, len(v.Points))
		}
		verts = appendPolyline(verts, v.Points, v.Closed)
		return true, d.drawVertices(prog, verts, nil, &u, gpucore.InvalidID)

	case *scene.Polygon:
		idx, err := polygonIndices(v)
		if err != nil {
			return false, err
		}
		verts = appendPolyline(verts, v.Points, false)
		return true, d.drawVertices(prog, verts, idx, &u, gpucore.InvalidID)

	case *scene.Text:
		if atlas == nil {
			return false, noAtlas(atlasErr)
		}
		r := atlas.Rects[d.firstRect[i]]
		w := float64(r.Width) / f.PixelsPerUnit
		h := float64(r.Height) / f.PixelsPerUnit
		verts = appendLabel(verts, v.X-w/2, v.Y-h/2, w, h, r.U0, r.V0, r.U1, r.V1)
		return true, d.drawVertices(prog, verts, nil, &u, atlas.Texture)

	default:
		return false, fmt.Errorf("render: unhandled object kind %v", o.Kind())
	}
}

func (d *Dispatcher) drawTextBatch(i int, v *scene.TextBatch, f *Frame, atlas *text.Atlas, atlasErr error) (bool, error) {
	if len(v.Items) == 0 {
		return false, nil
	}
	if atlas == nil {
		return false, noAtlas(atlasErr)
	}
	first := d.firstRect[i]
	labels := d.labels[:0]
	for j, it := range v.Items {
		r := atlas.Rects[first+j]
		w := float32(float64(r.Width) / f.PixelsPerUnit)
		h := float32(float64(r.Height) / f.PixelsPerUnit)
		col := [4]float32(it.Color)
		if col == ([4]float32{}) {
			col = v.Color
		}
		labels = append(labels, TextInstance{
			X: float32(it.X) - w/2, Y: float32(it.Y) - h/2, W: w, H: h,
			Rect:  first + j,
			Color: col,
		})
	}
	d.labels = labels
	return d.batches.DrawTextBatch(*f, labels, atlas)
}

// drawVertices uploads per-object geometry, draws it and releases the
// buffers again.
func (d *Dispatcher) drawVertices(prog *shader.Program, verts []float32, idx []uint32, u *Uniforms, tex gpucore.TextureID) error {
	d.bytes = appendF32(d.bytes[:0], verts...)
	vb, err := UploadDynamic(d.dev, prog.Name+"-vertices", d.bytes, gpucore.BufferUsageVertex)
	if err != nil {
		return err
	}
	defer d.dev.DestroyBuffer(vb)

	stride := uint32(4 * 2)
	if len(prog.Layout.Buffers) > 0 {
		stride = prog.Layout.Buffers[0].Stride
	}
	cmd := &gpucore.DrawCommand{
		Program:       prog.ID,
		VertexBuffers: []gpucore.BufferID{vb},
		VertexCount:   uint32(len(d.bytes)) / stride,
		Uniforms:      u.Bytes(),
		Texture:       tex,
	}
	if len(idx) > 0 {
		d.bytes = appendUint32s(d.bytes[:0], idx)
		ib, err := UploadDynamic(d.dev, prog.Name+"-indices", d.bytes, gpucore.BufferUsageIndex)
		if err != nil {
			return err
		}
		defer d.dev.DestroyBuffer(ib)
		cmd.IndexBuffer = ib
		cmd.IndexCount = uint32(len(idx))
	}
	return d.dev.Draw(cmd)
}

func noAtlas(cause error) error {
	if cause == nil {
		return ErrNoAtlas
	}
	return fmt.Errorf("%w: %w", ErrNoAtlas, cause)
}

func polygonIndices(p *scene.Polygon) ([]uint32, error) {
	if p.Indices == nil {
		idx, err := triangulate(p.Points)
		if err != nil {
			return nil, fmt.Errorf("polygon with %d points: %w", len(p.Points), err)
		}
		return idx, nil
	}
	if len(p.Indices) == 0 || len(p.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a triangle list", ErrDegenerate, len(p.Indices))
	}
	for _, ix := range p.Indices {
		if int(ix) >= len(p.Points) {
			return nil, fmt.Errorf("%w: index %d out of %d points", ErrDegenerate, ix, len(p.Points))
		}
	}
	return p.Indices, nil
}

// fitLabelRegion replaces the anchor-only bounds of a label with its drawn
// extent.
func (d *Dispatcher) fitLabelRegion(reg *scene.Region, o scene.Object, i int, atlas *text.Atlas, ppu float64) {
	t, ok := o.(*scene.Text)
	if !ok || atlas == nil {
		return
	}
	r := atlas.Rects[d.firstRect[i]]
	w := float64(r.Width) / ppu
	h := float64(r.Height) / ppu
	local := scene.Rect{MinX: t.X - w/2, MinY: t.Y - h/2, MaxX: t.X + w/2, MaxY: t.Y + h/2}
	reg.Bounds = t.Model.ApplyRect(local)
}
