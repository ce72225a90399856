// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/recording"
	"github.com/orrery/orrery/scene"
	"github.com/orrery/orrery/shader"
	"github.com/orrery/orrery/text"
)

func fakeCompile(src string) ([]byte, error) {
	if strings.Contains(src, "broken") {
		return nil, errors.New("parse error")
	}
	return []byte{0x03, 0x02, 0x23, 0x07}, nil
}

type boxRaster struct{}

func (boxRaster) Measure(s string, size float64) text.Metrics {
	return text.Metrics{Width: 8 * len(s), Height: int(size)}
}

func (boxRaster) Draw(*image.RGBA, string, float64, int, int) {}

type env struct {
	dev      *recording.Device
	programs *shader.Registry
	buffers  *BufferCache
	atlas    *text.AtlasCache
	batches  *BatchRenderer
	disp     *Dispatcher
	cam      *camera.Camera
}

func newEnv(tb testing.TB, devOpts []recording.Option, opts ...DispatcherOption) *env {
	tb.Helper()
	e := &env{dev: recording.NewDevice(devOpts...)}
	e.programs = shader.NewRegistry(e.dev, shader.WithCompiler(fakeCompile))
	e.programs.CompileBuiltins()
	e.buffers = NewBufferCache(e.dev, 0)
	atlas, err := text.NewAtlasCache(e.dev, text.WithRasterizer(boxRaster{}))
	if err != nil {
		tb.Fatal(err)
	}
	e.atlas = atlas
	e.batches = NewBatchRenderer(e.dev, e.buffers, e.programs)
	e.disp = NewDispatcher(e.dev, e.programs, e.buffers, e.atlas, e.batches, opts...)
	e.cam, err = camera.New(camera.DefaultConfig(camera.Planar), 800, 600)
	if err != nil {
		tb.Fatal(err)
	}
	return e
}

func (e *env) render(t *testing.T, sc *scene.Scene) Result {
	t.Helper()
	if err := e.dev.BeginFrame(gpucore.FrameDesc{Width: 800, Height: 600}); err != nil {
		t.Fatal(err)
	}
	res, err := e.disp.Render(sc, e.cam)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := e.dev.EndFrame(); err != nil {
		t.Fatal(err)
	}
	return res
}

// uniformColor decodes the color field of a draw's uniform block.
func uniformColor(cmd gpucore.DrawCommand) [4]float32 {
	var c [4]float32
	for i := range c {
		c[i] = math.Float32frombits(binary.LittleEndian.Uint32(cmd.Uniforms[192+4*i:]))
	}
	return c
}

// peakDevice records the most buffers alive right after an upload.
type peakDevice struct {
	*recording.Device
	peak int
}

func (p *peakDevice) CreateBuffer(label string, data []byte, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	id, err := p.Device.CreateBuffer(label, data, usage)
	p.peak = max(p.peak, p.LiveBuffers())
	return id, err
}

func TestBufferCacheBound(t *testing.T) {
	dev := &peakDevice{Device: recording.NewDevice()}
	const capacity, extra = 5, 3
	c := NewBufferCache(dev, capacity)

	for i := 0; i < capacity+extra; i++ {
		if _, err := c.GetOrCreate([]float32{float32(i), 1, 2}); err != nil {
			t.Fatalf("GetOrCreate(%d): %v", i, err)
		}
		if dev.LiveBuffers() > capacity {
			t.Fatalf("after insert %d: %d live buffers, cap %d", i, dev.LiveBuffers(), capacity)
		}
	}
	if dev.peak > capacity {
		t.Errorf("peak live buffers = %d, cap %d", dev.peak, capacity)
	}

	if c.Len() != capacity {
		t.Errorf("Len = %d, want %d", c.Len(), capacity)
	}
	if got := dev.Stats().BuffersDestroyed; got != extra {
		t.Errorf("BuffersDestroyed = %d, want %d", got, extra)
	}
	if got := c.Stats().Evictions; got != extra {
		t.Errorf("Evictions = %d, want %d", got, extra)
	}
}

func TestBufferCacheHitByContent(t *testing.T) {
	dev := recording.NewDevice()
	c := NewBufferCache(dev, 0)
	if c.Capacity() != DefaultBufferCacheSize {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), DefaultBufferCacheSize)
	}

	a, _ := c.GetOrCreate([]float32{1, 2, 3})
	payload := []float32{1, 2, 3}
	b, _ := c.GetOrCreate(payload)
	if a != b {
		t.Errorf("equal payloads got buffers %d and %d", a, b)
	}
	if other, _ := c.GetOrCreate([]float32{1, 2, 3, 0}); other == a {
		t.Error("longer payload shared a buffer")
	}
	if got := dev.Stats().StaticUploads; got != 2 {
		t.Errorf("StaticUploads = %d, want 2", got)
	}
	data, ok := dev.BufferData(a)
	if !ok || len(data) != 12 || math.Float32frombits(binary.LittleEndian.Uint32(data[4:])) != 2 {
		t.Errorf("buffer data = %v", data)
	}
}

func TestBufferCacheFIFOOrder(t *testing.T) {
	dev := recording.NewDevice()
	c := NewBufferCache(dev, 2)
	first, _ := c.GetOrCreate([]float32{1})
	_, _ = c.GetOrCreate([]float32{2})
	_, _ = c.GetOrCreate([]float32{1}) // a hit does not refresh the entry
	_, _ = c.GetOrCreate([]float32{3})

	if _, ok := dev.BufferData(first); ok {
		t.Error("oldest insertion still live after eviction")
	}
	again, _ := c.GetOrCreate([]float32{1})
	if again == first {
		t.Error("evicted payload returned a destroyed handle")
	}
}

func TestBufferCacheClearAndErrors(t *testing.T) {
	dev := recording.NewDevice()
	c := NewBufferCache(dev, 10)
	for i := range 4 {
		_, _ = c.GetOrCreate([]float32{float32(i)})
	}
	c.Clear()
	if c.Len() != 0 || dev.LiveBuffers() != 0 {
		t.Errorf("after Clear: Len %d, live %d", c.Len(), dev.LiveBuffers())
	}
	if _, err := c.GetOrCreate(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("GetOrCreate(nil) = %v, want ErrEmptyPayload", err)
	}
	if _, err := UploadDynamic(dev, "x", nil, gpucore.BufferUsageVertex); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("UploadDynamic(nil) = %v, want ErrEmptyPayload", err)
	}
}

func TestUniformBytes(t *testing.T) {
	e := newEnv(t, nil)
	u := uniformsFor(&Frame{Projection: e.cam.Projection(), View: e.cam.View()})
	u.Color = [4]float32{0.1, 0.2, 0.3, 0.4}
	b := u.Bytes()
	if len(b) != shader.UniformSize {
		t.Fatalf("len = %d, want %d", len(b), shader.UniformSize)
	}
	if got := uniformColor(gpucore.DrawCommand{Uniforms: b}); got != u.Color {
		t.Errorf("color = %v, want %v", got, u.Color)
	}
	// Model is identity: element [0][0] of the third matrix.
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[128:])); got != 1 {
		t.Errorf("model[0] = %g, want 1", got)
	}
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name    string
		pts     [][2]float64
		wantTri int
		wantErr bool
	}{
		{"triangle", [][2]float64{{0, 0}, {1, 0}, {0, 1}}, 1, false},
		{"square ccw", [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 2, false},
		{"square cw", [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, 2, false},
		{"concave L", [][2]float64{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}, 4, false},
		{"repeated vertex", [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 4}}, 2, false},
		{"closing vertex repeated", [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}, 2, false},
		{"repeated concave", [][2]float64{{0, 0}, {2, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 1}, {1, 2}, {0, 2}}, 4, false},
		{"all one point", [][2]float64{{1, 1}, {1, 1}, {1, 1}}, 0, true},
		{"two points", [][2]float64{{0, 0}, {1, 1}}, 0, true},
		{"collinear", [][2]float64{{0, 0}, {1, 0}, {2, 0}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := triangulate(tt.pts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
			}
			if len(idx) != 3*tt.wantTri {
				t.Fatalf("indices = %d, want %d", len(idx), 3*tt.wantTri)
			}
			var area float64
			for i := 0; i < len(idx); i += 3 {
				a, b, c := tt.pts[idx[i]], tt.pts[idx[i+1]], tt.pts[idx[i+2]]
				area += math.Abs(cross(a, b, c)) / 2
			}
			if want := math.Abs(signedArea(tt.pts)); !tt.wantErr && math.Abs(area-want) > 1e-9 {
				t.Errorf("triangle area %g, polygon area %g", area, want)
			}
		})
	}
}

func uniformFloat(u []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(u[off:]))
}
