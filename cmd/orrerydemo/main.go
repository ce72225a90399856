// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command orrerydemo renders a generated star map headlessly on the
// recording device and prints a frame and cache report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gookit/color"

	"github.com/orrery/orrery"
	"github.com/orrery/orrery/camera"
	"github.com/orrery/orrery/recording"
	"github.com/orrery/orrery/render"
	"github.com/orrery/orrery/scene"
)

var (
	styleTitle = color.Style{color.FgCyan, color.OpBold}
	styleKey   = color.Style{color.FgGray}
	styleGood  = color.Style{color.FgGreen}
	styleWarn  = color.Style{color.FgYellow, color.OpBold}
	styleBad   = color.Style{color.FgRed, color.OpBold}
)

func main() {
	var (
		width       = flag.Int("width", 1280, "viewport width")
		height      = flag.Int("height", 720, "viewport height")
		stars       = flag.Int("stars", 2000, "background stars (one instanced batch)")
		systems     = flag.Int("systems", 40, "named star systems")
		frames      = flag.Int("frames", 120, "vsync ticks to simulate")
		perspective = flag.Bool("perspective", false, "use the perspective camera")
		noInstance  = flag.Bool("no-instancing", false, "simulate a device without instancing")
		atlasOut    = flag.String("atlas", "", "write the final text atlas to this PNG file")
		seed        = flag.Uint64("seed", 1, "star map seed")
		verbose     = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		orrery.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var devOpts []recording.Option
	if *noInstance {
		devOpts = append(devOpts, recording.WithoutInstancing())
	}
	dev := recording.NewDevice(devOpts...)
	eng, err := orrery.New(dev, orrery.WithCullMargin(64), orrery.WithClearColor(0.01, 0.01, 0.04, 1))
	if err != nil {
		log.Fatalf("orrerydemo: %v", err)
	}
	defer eng.Dispose()

	mode := camera.Planar
	if *perspective {
		mode = camera.Perspective
	}
	cfg := camera.DefaultConfig(mode)
	cfg.Bounds = camera.Bounds{Radius: 4000}
	cam, err := camera.New(cfg, float64(*width), float64(*height))
	if err != nil {
		log.Fatalf("orrerydemo: %v", err)
	}
	cam.CenterOn(0, 0)

	sc := buildStarMap(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), *stars, *systems)

	ticks := make(chan time.Time, *frames)
	start := time.Now()
	for i := range *frames {
		ticks <- start.Add(time.Duration(i) * time.Second / 60)
	}
	close(ticks)

	var (
		last    render.Result
		failed  int
		skipped int
	)
	err = eng.Run(context.Background(), ticks, func(now time.Time) {
		t := now.Sub(start).Seconds()
		cam.ZoomAt(float64(*width)/2, float64(*height)/2, 1+0.01*math.Sin(t))
		cam.Pan(math.Cos(t), math.Sin(t))
		last = eng.Render(sc, cam)
		failed += last.Failed
		skipped += last.Skipped
	})
	if err != nil {
		log.Fatalf("orrerydemo: %v", err)
	}

	if *atlasOut != "" {
		if err := writeAtlas(eng, *atlasOut); err != nil {
			log.Fatalf("orrerydemo: %v", err)
		}
	}

	report(eng, dev, cam, last, failed, skipped)
}

// buildStarMap lays out a background star batch, systems with glowing
// stars and labels on orbit rings, constellation outlines and one lit
// planet.
func buildStarMap(rng *rand.Rand, stars, systems int) *scene.Scene {
	sc := scene.New(systems*3 + 8)

	bg := &scene.PointBatch{
		Common:    scene.Common{Color: scene.RGBA(0.8, 0.8, 1, 1)},
		Positions: make([][2]float32, stars),
		Colors:    make([][4]float32, stars),
		Sizes:     make([]float32, stars),
	}
	for i := range stars {
		bg.Positions[i] = [2]float32{float32(rng.NormFloat64() * 1500), float32(rng.NormFloat64() * 1500)}
		b := float32(0.3 + 0.7*rng.Float64())
		bg.Colors[i] = [4]float32{b, b, b, 1}
		bg.Sizes[i] = float32(1 + 2*rng.Float64())
	}
	sc.Add(bg)

	names := &scene.TextBatch{Common: scene.Common{Color: scene.RGBA(0.6, 0.7, 0.9, 1)}}
	for i := range systems {
		a := rng.Float64() * 2 * math.Pi
		r := 200 + rng.Float64()*2500
		x, y := r*math.Cos(a), r*math.Sin(a)
		name := fmt.Sprintf("HD %d", 1000+i*37)

		sc.Add(&scene.Line{
			Common: scene.Common{Color: scene.RGBA(0.2, 0.3, 0.5, 0.6)},
			Points: ring(x, y, 30, 24),
			Closed: true,
		})
		sc.Add(&scene.GlowPoint{
			Common: scene.Common{Color: scene.RGBA(1, 0.85, 0.5, 1), Handle: name},
			X:      x, Y: y, Size: 14, Glow: 2,
		})
		if i%4 == 0 {
			sc.Add(&scene.Text{
				Common: scene.Common{Color: scene.RGBA(1, 1, 1, 1), Handle: name},
				X:      x, Y: y - 20, Text: name, Size: 13,
			})
		} else {
			names.Items = append(names.Items, scene.TextItem{X: x, Y: y - 20, Text: name, Size: 11})
		}
	}
	sc.Add(names)

	sc.Add(&scene.Polygon{
		Common: scene.Common{Color: scene.RGBA(0.3, 0.1, 0.4, 0.25), Handle: "nebula"},
		Points: [][2]float64{{-600, -300}, {-200, -450}, {100, -250}, {-50, 0}, {-400, 50}},
	})
	sc.Add(&scene.Body{
		Common:  scene.Common{Color: scene.RGBA(0.3, 0.5, 0.9, 1), Handle: "planet"},
		X:       0,
		Y:       0,
		Radius:  60,
		Light:   [3]float32{-0.6, -0.4, 0.7},
		Ambient: 0.1,
	})
	sc.Add(&scene.Point{
		Common: scene.Common{Color: scene.RGBA(1, 1, 1, 1), Handle: "moon", Model: scene.Translate(120, 0)},
		Size:   8,
	})
	return sc
}

func ring(cx, cy, r float64, n int) [][2]float64 {
	pts := make([][2]float64, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

func writeAtlas(eng *orrery.Engine, path string) error {
	a := eng.Atlas().Resident()
	if a == nil {
		return fmt.Errorf("no resident atlas to write")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func report(eng *orrery.Engine, dev *recording.Device, cam *camera.Camera, last render.Result, failed, skipped int) {
	frames, dropped := eng.Stats()
	ds := dev.Stats()
	bs := eng.Buffers().Stats()
	ms := eng.Atlas().MetricsStats()

	fmt.Println(styleTitle.Sprint("orrery frame report"))
	row("camera", fmt.Sprintf("%s, scale %.3f", cam.Mode(), cam.Scale()))
	row("frames", fmt.Sprintf("%d rendered, %d gated", frames, dropped))
	row("last frame", fmt.Sprintf("%d drawn, %d culled, %d regions", last.Drawn, last.Culled, len(last.Regions)))
	row("draw calls", fmt.Sprintf("%d (%d instanced, %d instances)", ds.Draws, ds.InstancedDraws, ds.Instances))
	row("buffer cache", fmt.Sprintf("%d/%d, hit rate %.2f, %d evictions", bs.Len, bs.Capacity, bs.HitRate, bs.Evictions))
	row("text metrics", fmt.Sprintf("%d/%d, hit rate %.2f", ms.Len, ms.Capacity, ms.HitRate))
	row("atlas uploads", fmt.Sprint(eng.Atlas().Uploads()))

	if u := eng.Programs().Unavailable(); len(u) > 0 {
		row("programs", styleWarn.Sprintf("unavailable: %v", u))
	} else {
		row("programs", styleGood.Sprint("all available"))
	}
	switch {
	case failed > 0:
		row("objects", styleBad.Sprintf("%d failed draws", failed))
	case skipped > 0:
		row("objects", styleWarn.Sprintf("%d skipped draws", skipped))
	default:
		row("objects", styleGood.Sprint("no failures"))
	}

	w, h := cam.Viewport()
	if r, ok := eng.HitTest(last.Regions, cam, w/2, h/2); ok {
		row("center pick", styleGood.Sprintf("%v (%s)", r.Handle, r.Kind))
	} else {
		row("center pick", styleKey.Sprint("nothing"))
	}
}

func row(key, value string) {
	fmt.Printf("  %s %s\n", styleKey.Sprintf("%-14s", key), value)
}
