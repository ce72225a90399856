// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/recording"
)

// fakeCompile accepts any source without the word "broken".
func fakeCompile(src string) ([]byte, error) {
	if strings.Contains(src, "broken") {
		return nil, errors.New("parse error")
	}
	return []byte{0x03, 0x02, 0x23, 0x07, 1, 0, 0, 0}, nil
}

func TestRegistryCompile(t *testing.T) {
	dev := recording.NewDevice()
	r := NewRegistry(dev, WithCompiler(fakeCompile))

	p := r.Compile("dot", "vs", "fs", Layout{Topology: gpucore.TopologyTriangleList})
	if !p.Available() {
		t.Fatalf("program unavailable: %v", p.Err)
	}
	if got := dev.ProgramLabel(p.ID); got != "dot" {
		t.Errorf("device label = %q, want %q", got, "dot")
	}
	if again := r.Compile("dot", "other", "other", Layout{}); again != p {
		t.Error("second Compile of the same name returned a new program")
	}
	if got := r.Get("dot"); got != p {
		t.Error("Get returned a different program")
	}
	if got := dev.Stats().ProgramsCreated; got != 1 {
		t.Errorf("ProgramsCreated = %d, want 1", got)
	}
}

func TestRegistryCompileFailures(t *testing.T) {
	tests := []struct {
		name     string
		vs, fs   string
		linkFail bool
	}{
		{"vertex compile", "broken", "fs", false},
		{"fragment compile", "vs", "broken", false},
		{"empty vertex", "", "fs", false},
		{"empty fragment", "vs", "", false},
		{"link", "vs", "fs", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := recording.NewDevice()
			if tt.linkFail {
				dev.FailProgram = func(*gpucore.ProgramDesc) error { return errors.New("link") }
			}
			r := NewRegistry(dev, WithCompiler(fakeCompile))
			p := r.Compile("x", tt.vs, tt.fs, Layout{})
			if p.Available() {
				t.Fatal("program available")
			}
			if !errors.Is(p.Err, ErrUnavailable) {
				t.Errorf("Err = %v, want ErrUnavailable", p.Err)
			}
			if p.ID != gpucore.InvalidID {
				t.Errorf("ID = %d, want invalid", p.ID)
			}
			if got := r.Unavailable(); len(got) != 1 || got[0] != "x" {
				t.Errorf("Unavailable = %v", got)
			}
		})
	}
}

func TestRegistryCompilerPanic(t *testing.T) {
	r := NewRegistry(recording.NewDevice(), WithCompiler(func(string) ([]byte, error) {
		panic("boom")
	}))
	if p := r.Compile("x", "vs", "fs", Layout{}); p.Available() {
		t.Error("program available after compiler panic")
	}
}

// Real naga rejects a malformed fragment stage; the program must end up
// unavailable without a panic.
func TestRegistryNagaRejectsInvalidSource(t *testing.T) {
	dev := recording.NewDevice()
	r := NewRegistry(dev)
	def := Builtins()[0]
	p := r.Compile("bad", def.VertexSource, "fn fs_main( -> {", def.Layout)
	if p.Available() {
		t.Fatal("invalid source compiled")
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms = %d, want 0", dev.LivePrograms())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(recording.NewDevice(), WithCompiler(fakeCompile))
	p := r.Get("missing")
	if p.Available() {
		t.Fatal("unknown program available")
	}
	if !errors.Is(p.Err, ErrUnknownProgram) {
		t.Errorf("Err = %v, want ErrUnknownProgram", p.Err)
	}
}

func TestCompileBuiltins(t *testing.T) {
	dev := recording.NewDevice()
	dev.FailProgram = func(desc *gpucore.ProgramDesc) error {
		if desc.Label == GlowPoint {
			return errors.New("link")
		}
		return nil
	}
	r := NewRegistry(dev, WithCompiler(fakeCompile))

	n := r.CompileBuiltins()
	defs := Builtins()
	if n != len(defs)-1 {
		t.Errorf("CompileBuiltins = %d, want %d", n, len(defs)-1)
	}
	if got := r.Unavailable(); len(got) != 1 || got[0] != GlowPoint {
		t.Errorf("Unavailable = %v, want [%s]", got, GlowPoint)
	}
	if got := len(r.Names()); got != len(defs) {
		t.Errorf("Names = %d, want %d", got, len(defs))
	}
	for _, def := range defs {
		for _, l := range def.Layout.Buffers {
			var stride uint32
			for _, a := range l.Attributes {
				if end := a.Offset + a.Format.Size(); end > stride {
					stride = end
				}
			}
			if stride != l.Stride {
				t.Errorf("%s: layout stride %d, attributes span %d", def.Name, l.Stride, stride)
			}
		}
	}
	if !r.Get(TextBatch).Layout.Textured {
		t.Error("textBatch is not textured")
	}
}

func TestRegistryDestroy(t *testing.T) {
	dev := recording.NewDevice()
	r := NewRegistry(dev, WithCompiler(fakeCompile))
	r.CompileBuiltins()

	r.Destroy()
	r.Destroy()

	if got := dev.LivePrograms(); got != 0 {
		t.Errorf("LivePrograms = %d, want 0", got)
	}
	if got := dev.Stats().ProgramsDestroyed; got != len(Builtins()) {
		t.Errorf("ProgramsDestroyed = %d, want %d", got, len(Builtins()))
	}
	if r.Get(Point).Available() {
		t.Error("program available after Destroy")
	}
	if r.Compile("late", "vs", "fs", Layout{}).Available() {
		t.Error("program compiled after Destroy")
	}
}

func TestSpirvWords(t *testing.T) {
	got := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 0xff, 0, 0, 0, 9})
	want := []uint32{0x07230203, 0xff}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}
