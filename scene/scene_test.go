// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"
	"strings"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPoint, "point"},
		{KindGlowPoint, "glowPoint"},
		{KindLine, "line"},
		{KindPolygon, "polygon"},
		{KindText, "text"},
		{KindPointBatch, "pointBatch"},
		{KindTextBatch, "textBatch"},
		{KindBody, "body"},
		{Kind(0), "Kind(0)"},
		{Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestObjectBounds(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want Rect
	}{
		{"point", &Point{X: 10, Y: 20, Size: 4}, Rect{8, 18, 12, 22}},
		{"glow", &GlowPoint{X: 0, Y: 0, Size: 10}, Rect{-5, -5, 5, 5}},
		{"body", &Body{X: 1, Y: 1, Radius: 2}, Rect{-1, -1, 3, 3}},
		{"line", &Line{Points: [][2]float64{{0, 5}, {3, -1}, {2, 2}}}, Rect{0, -1, 3, 5}},
		{"polygon", &Polygon{Points: [][2]float64{{0, 0}, {4, 0}, {4, 4}}}, Rect{0, 0, 4, 4}},
		{"text", &Text{X: 7, Y: 8, Text: "Sol"}, Rect{7, 8, 7, 8}},
		{"point batch", &PointBatch{
			Positions: [][2]float32{{0, 0}, {10, 10}},
			Sizes:     []float32{2, 4},
		}, Rect{-1, -1, 12, 12}},
		{"text batch", &TextBatch{Items: []TextItem{{X: -1, Y: 2}, {X: 3, Y: -4}}}, Rect{-1, -4, 3, 2}},
		{"translated", &Point{Common: Common{Model: Translate(100, 0)}, Size: 2}, Rect{99, -1, 101, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.obj.Bounds()
			if !near(got.MinX, tt.want.MinX) || !near(got.MinY, tt.want.MinY) ||
				!near(got.MaxX, tt.want.MaxX) || !near(got.MaxY, tt.want.MaxY) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	var nilT *Transform
	if x, y := nilT.Apply(3, 4); x != 3 || y != 4 {
		t.Errorf("nil Apply = (%g, %g)", x, y)
	}

	tr := &Transform{TranslateX: 10, Rotation: math.Pi / 2, ScaleX: 2, ScaleY: 2}
	x, y := tr.Apply(1, 0)
	if !near(x, 10) || !near(y, 2) {
		t.Errorf("Apply(1, 0) = (%g, %g), want (10, 2)", x, y)
	}

	r := tr.ApplyRect(Rect{0, 0, 1, 1})
	if !near(r.MinX, 8) || !near(r.MaxX, 10) || !near(r.MinY, 0) || !near(r.MaxY, 2) {
		t.Errorf("ApplyRect = %+v", r)
	}
}

func TestRect(t *testing.T) {
	e := EmptyRect()
	if !e.IsEmpty() {
		t.Error("EmptyRect not empty")
	}
	p := RectAround(1, 1, 0)
	if p.IsEmpty() {
		t.Error("point rect reported empty")
	}
	if got := e.Union(p); got != p {
		t.Errorf("EmptyRect().Union(p) = %+v", got)
	}
	a := Rect{0, 0, 10, 10}
	if !a.Intersects(p) || !a.Intersects(Rect{10, 10, 20, 20}) {
		t.Error("Intersects missed touching rects")
	}
	if a.Intersects(Rect{11, 0, 12, 1}) || a.Intersects(e) {
		t.Error("Intersects reported disjoint rects")
	}
	if !a.Inset(-1).Contains(-1, 11) {
		t.Error("Inset(-1) did not grow")
	}
}

func TestSceneAddReset(t *testing.T) {
	static := []Object{&Point{X: 1}, &Point{X: 2}}
	s := New(4).Add(static...).Add(&Body{Radius: 1})
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	c := cap(s.Objects)
	s.Reset()
	if s.Len() != 0 || cap(s.Objects) != c {
		t.Errorf("Reset: len %d cap %d, want 0 cap %d", s.Len(), cap(s.Objects), c)
	}
	if static[0] == nil {
		t.Error("Reset cleared the caller's slice")
	}
	var nilScene *Scene
	if nilScene.Len() != 0 || !nilScene.Bounds().IsEmpty() {
		t.Error("nil scene not empty")
	}
	withNil := New(2).Add((*Point)(nil), &Point{X: 3, Y: 4, Size: 2})
	if b := withNil.Bounds(); b.MinX != 2 || b.MaxX != 4 {
		t.Errorf("Bounds with nil object = %+v, want x from 2 to 4", b)
	}
}

func TestRegionOf(t *testing.T) {
	if _, ok := RegionOf(&Point{Size: 2}, 0); ok {
		t.Error("object without handle is interactive")
	}

	reg, ok := RegionOf(&Body{Common: Common{Handle: "earth"}, X: 5, Y: 5, Radius: 3}, 7)
	if !ok {
		t.Fatal("body with handle not interactive")
	}
	if reg.Shape != ShapeCircle || reg.Radius != 3 || reg.Index != 7 || reg.Kind != KindBody {
		t.Errorf("region = %+v", reg)
	}

	reg, _ = RegionOf(&Polygon{Common: Common{Handle: 1}, Points: [][2]float64{{0, 0}, {2, 0}, {2, 2}}}, 0)
	if reg.Shape != ShapeRect {
		t.Errorf("polygon region shape = %d, want rect", reg.Shape)
	}
}

func TestHitTest(t *testing.T) {
	var regions []Region
	for i, o := range []Object{
		&Body{Common: Common{Handle: "star"}, X: 0, Y: 0, Radius: 10},
		&Point{Common: Common{Handle: "top"}, X: 5, Y: 0, Size: 4},
		&Point{X: 0, Y: 0, Size: 100},
	} {
		if reg, ok := RegionOf(o, i); ok {
			regions = append(regions, reg)
		}
	}

	tests := []struct {
		name   string
		x, y   float64
		slop   float64
		want   any
		wantOK bool
	}{
		{"topmost wins", 5, 0, 0, "top", true},
		{"underneath", -5, 0, 0, "star", true},
		{"edge", 10, 0, 0, "star", true},
		{"miss", 11, 0, 0, nil, false},
		{"slop", 11, 0, 1.5, "star", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(regions, tt.x, tt.y, tt.slop)
			if ok != tt.wantOK || (ok && got.Handle != tt.want) {
				t.Errorf("HitTest = %v, %t; want %v, %t", got.Handle, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{&Point{X: 1, Y: 2, Size: 3}, "point at (1, 2)"},
		{&Text{Text: "Vega"}, `text "Vega"`},
		{&PointBatch{Positions: make([][2]float32, 3)}, "pointBatch of 3"},
		{nil, "<nil>"},
		{(*Point)(nil), "(*scene.Point)(nil)"},
		{(*TextBatch)(nil), "(*scene.TextBatch)(nil)"},
	}
	for _, tt := range tests {
		if got := Describe(tt.obj); !strings.Contains(got, tt.want) {
			t.Errorf("Describe = %q, want it to contain %q", got, tt.want)
		}
	}
}

func TestIsNil(t *testing.T) {
	tests := []struct {
		obj  Object
		want bool
	}{
		{nil, true},
		{(*Point)(nil), true},
		{(*GlowPoint)(nil), true},
		{(*Line)(nil), true},
		{(*Polygon)(nil), true},
		{(*Text)(nil), true},
		{(*PointBatch)(nil), true},
		{(*TextBatch)(nil), true},
		{(*Body)(nil), true},
		{&Point{}, false},
		{&TextBatch{}, false},
	}
	for _, tt := range tests {
		if got := IsNil(tt.obj); got != tt.want {
			t.Errorf("IsNil(%T) = %t, want %t", tt.obj, got, tt.want)
		}
	}
}
