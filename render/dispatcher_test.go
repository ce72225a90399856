// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/recording"
	"github.com/orrery/orrery/scene"
	"github.com/orrery/orrery/shader"
)

func fivePoints() *scene.Scene {
	sc := scene.New(5)
	for i := range 5 {
		sc.Add(&scene.Point{
			Common: scene.Common{Color: scene.RGBA(float32(i+1)/10, 0, 0, 1)},
			X:      float64(10 * i),
			Y:      10,
			Size:   4,
		})
	}
	return sc
}

func TestRenderEveryKind(t *testing.T) {
	e := newEnv(t, nil)
	sc := scene.New(8).Add(
		&scene.Point{X: 1, Y: 1, Size: 2},
		&scene.GlowPoint{X: 2, Y: 2, Size: 8},
		&scene.Line{Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}}, Closed: true},
		&scene.Polygon{Points: [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}},
		&scene.Text{X: 100, Y: 100, Text: "Sol", Size: 12},
		&scene.PointBatch{Positions: [][2]float32{{0, 0}, {1, 1}}, Colors: make([][4]float32, 2), Sizes: []float32{1, 1}},
		&scene.TextBatch{Items: []scene.TextItem{{X: 5, Y: 5, Text: "a", Size: 10}, {X: 6, Y: 6, Text: "b", Size: 10}}},
		&scene.Body{X: 50, Y: 50, Radius: 5},
	)
	res := e.render(t, sc)

	if res.Drawn != 8 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want 8 drawn", res)
	}
	want := []string{"point", "glowPoint", "line", "polygon", "text", "pointBatch", "textBatch", "body"}
	draws := e.dev.Draws()
	for i, name := range want {
		if got := e.dev.ProgramLabel(draws[i].Program); got != name {
			t.Errorf("draw %d program = %q, want %q", i, got, name)
		}
	}
	if d := draws[2]; d.VertexCount != 4 {
		t.Errorf("closed line vertices = %d, want 4", d.VertexCount)
	}
	if d := draws[3]; d.IndexCount != 6 || d.IndexBuffer == gpucore.InvalidID {
		t.Errorf("polygon indices = %d", d.IndexCount)
	}
	if draws[4].Texture == gpucore.InvalidID || draws[4].Texture != draws[6].Texture {
		t.Error("text and textBatch do not share one atlas texture")
	}
	if got := e.dev.Stats().TexturesCreated; got != 1 {
		t.Errorf("TexturesCreated = %d, want 1 atlas per frame", got)
	}
	for i, d := range draws {
		if len(d.Uniforms) != shader.UniformSize {
			t.Errorf("draw %d uniforms = %d bytes", i, len(d.Uniforms))
		}
	}
	// Only the cached batch quads survive the frame.
	if live := e.dev.LiveBuffers(); live != 2 {
		t.Errorf("LiveBuffers = %d, want 2 cached quads", live)
	}
}

func TestRenderReusesAtlasAcrossFrames(t *testing.T) {
	e := newEnv(t, nil)
	sc := scene.New(2).Add(
		&scene.Text{Text: "Sol", Size: 12},
		&scene.Text{Text: "Vega", Size: 12},
	)
	for range 3 {
		e.render(t, sc)
	}
	if got := e.dev.Stats().TexturesCreated; got != 1 {
		t.Errorf("TexturesCreated = %d over 3 identical frames, want 1", got)
	}
}

// A program that fails to compile must drop its objects without a panic
// and without draw calls.
func TestRenderSkipsUnavailableProgram(t *testing.T) {
	dev := recording.NewDevice()
	programs := shader.NewRegistry(dev)
	def := shader.Builtins()[0]
	programs.Compile(shader.Point, def.VertexSource, "@fragment fn fs_main( -> { broken", def.Layout)

	buffers := NewBufferCache(dev, 0)
	disp := NewDispatcher(dev, programs, buffers, nil, NewBatchRenderer(dev, buffers, programs))
	cam, _ := camera.New(camera.DefaultConfig(camera.Planar), 800, 600)

	sc := scene.New(1).Add(&scene.Point{Common: scene.Common{Handle: "x"}, X: 1, Y: 1, Size: 2})
	_ = dev.BeginFrame(gpucore.FrameDesc{})
	res, err := disp.Render(sc, cam)
	_ = dev.EndFrame()

	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Skipped != 1 || res.Drawn != 0 || res.Failed != 0 {
		t.Errorf("result = %+v, want 1 skipped", res)
	}
	if n := len(dev.Draws()); n != 0 {
		t.Errorf("draws = %d, want 0", n)
	}
	if len(res.Regions) != 0 {
		t.Error("undrawn object produced a region")
	}
}

func TestRenderIsolatesFailures(t *testing.T) {
	tests := []struct {
		name string
		fail func(n int, _ *gpucore.DrawCommand) error
	}{
		{"error", func(n int, _ *gpucore.DrawCommand) error {
			if n == 2 {
				return errors.New("device rejected draw")
			}
			return nil
		}},
		{"panic", func(n int, _ *gpucore.DrawCommand) error {
			if n == 2 {
				panic("corrupt vertex data")
			}
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, nil)
			e.dev.FailDraw = tt.fail
			res := e.render(t, fivePoints())

			if res.Drawn != 4 || res.Failed != 1 {
				t.Fatalf("result = %+v, want 4 drawn 1 failed", res)
			}
			var got []float32
			for _, d := range e.dev.Draws() {
				got = append(got, uniformColor(d)[0])
			}
			want := []float32{0.1, 0.2, 0.4, 0.5}
			if len(got) != len(want) {
				t.Fatalf("drawn objects = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("drawn objects = %v, want %v", got, want)
					break
				}
			}
			if live := e.dev.LiveBuffers(); live != 0 {
				t.Errorf("LiveBuffers = %d after failed draw, want 0", live)
			}
		})
	}
}

func TestRenderBadObjects(t *testing.T) {
	tests := []struct {
		name string
		opts []DispatcherOption
	}{
		{"no culling", nil},
		{"culling", []DispatcherOption{WithCulling(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, nil, tt.opts...)
			sc := scene.New(8).Add(
				nil,
				(*scene.Point)(nil),
				&scene.Line{Points: [][2]float64{{0, 0}}},
				(*scene.Text)(nil),
				&scene.Polygon{Points: [][2]float64{{0, 0}, {1, 0}, {1, 1}}, Indices: []uint32{0, 1, 7}},
				(*scene.TextBatch)(nil),
				&scene.PointBatch{Positions: make([][2]float32, 2), Colors: make([][4]float32, 1), Sizes: make([]float32, 2)},
				&scene.Point{Common: scene.Common{Handle: "ok"}, Size: 1},
			)
			res := e.render(t, sc)
			if res.Failed != 7 || res.Drawn != 1 {
				t.Errorf("result = %+v, want 7 failed 1 drawn", res)
			}
			if len(res.Regions) != 1 || res.Regions[0].Index != 7 {
				t.Errorf("regions = %+v, want only index 7", res.Regions)
			}
		})
	}
}

func TestRenderRegions(t *testing.T) {
	e := newEnv(t, nil)
	sc := scene.New(3).Add(
		&scene.Body{Common: scene.Common{Handle: "earth"}, X: 100, Y: 100, Radius: 10},
		&scene.Point{X: 5, Y: 5, Size: 2},
		&scene.Text{Common: scene.Common{Handle: "label"}, X: 300, Y: 300, Text: "Earth", Size: 10},
	)
	res := e.render(t, sc)
	if len(res.Regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(res.Regions))
	}
	if r := res.Regions[0]; r.Handle != "earth" || r.Index != 0 || r.Shape != scene.ShapeCircle {
		t.Errorf("region 0 = %+v", r)
	}
	// boxRaster: 8 px per rune, 10 px tall, at scale 1.
	lb := res.Regions[1].Bounds
	if lb.Width() != 40 || lb.Height() != 10 || lb.MinX != 280 {
		t.Errorf("label bounds = %+v, want 40x10 centered on (300, 300)", lb)
	}
	if hit, ok := scene.HitTest(res.Regions, 315, 302, 0); !ok || hit.Handle != "label" {
		t.Errorf("HitTest on label = %v, %t", hit.Handle, ok)
	}
}

func TestRenderCulling(t *testing.T) {
	e := newEnv(t, nil, WithCulling(10))
	sc := scene.New(3).Add(
		&scene.Point{X: 400, Y: 300, Size: 2},
		&scene.Point{X: -5, Y: 300, Size: 2},   // inside the margin
		&scene.Point{X: 5000, Y: 300, Size: 2}, // off screen
	)
	res := e.render(t, sc)
	if res.Drawn != 2 || res.Culled != 1 {
		t.Errorf("result = %+v, want 2 drawn 1 culled", res)
	}

	noCull := newEnv(t, nil)
	if res := noCull.render(t, sc); res.Culled != 0 || res.Drawn != 3 {
		t.Errorf("without culling result = %+v", res)
	}
}

func TestRenderWithoutInstancingSkipsBatches(t *testing.T) {
	e := newEnv(t, []recording.Option{recording.WithoutInstancing()})
	sc := scene.New(2).Add(
		&scene.PointBatch{Positions: make([][2]float32, 3), Colors: make([][4]float32, 3), Sizes: make([]float32, 3)},
		&scene.Point{Size: 1},
	)
	res := e.render(t, sc)
	if res.Skipped != 1 || res.Drawn != 1 || res.Failed != 0 {
		t.Errorf("result = %+v, want batch skipped and point drawn", res)
	}
}

func TestRenderNilInputs(t *testing.T) {
	e := newEnv(t, nil)
	if _, err := e.disp.Render(fivePoints(), nil); !errors.Is(err, ErrNoCamera) {
		t.Errorf("nil camera = %v, want ErrNoCamera", err)
	}
	res, err := e.disp.Render(nil, e.cam)
	if err != nil || res.Drawn != 0 {
		t.Errorf("nil scene = %+v, %v", res, err)
	}
}

func TestRenderModelTransform(t *testing.T) {
	e := newEnv(t, nil)
	sc := scene.New(1).Add(&scene.Point{
		Common: scene.Common{Model: scene.Translate(100, 50)},
		Size:   2,
	})
	e.render(t, sc)
	u := e.dev.Draws()[0].Uniforms
	// Translation lives in column 3 of the model matrix (offset 128 + 48).
	if x := uniformFloat(u, 128+48); x != 100 {
		t.Errorf("model translate x = %g, want 100", x)
	}
}

func BenchmarkRenderPoints(b *testing.B) {
	e := newEnv(b, nil)
	sc := scene.New(1000)
	for i := range 1000 {
		sc.Add(&scene.Point{X: float64(i % 800), Y: float64(i % 600), Size: 2})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.dev.BeginFrame(gpucore.FrameDesc{})
		_, _ = e.disp.Render(sc, e.cam)
		_ = e.dev.EndFrame()
		e.dev.Reset()
	}
}
