// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/naga"
	"github.com/zyedidia/generic/mapset"

	"github.com/orrery/orrery/gpucore"
	"github.com/orrery/orrery/internal/logging"
)

// Registry errors.
var (
	// ErrUnknownProgram is the Err of programs looked up by a name that was
	// never compiled.
	ErrUnknownProgram = errors.New("shader: unknown program")

	// ErrUnavailable wraps every compile or link failure.
	ErrUnavailable = errors.New("shader: program unavailable")

	// ErrEmptySource is returned for a stage without source.
	ErrEmptySource = errors.New("shader: empty source")
)

var logger logging.Holder

// SetLogger sets the logger used for compile diagnostics.
// Pass nil to disable logging.
func SetLogger(l *slog.Logger) { logger.Store(l) }

func slogger() *slog.Logger { return logger.Load() }

// Compiler compiles one WGSL module to SPIR-V bytes.
type Compiler func(wgsl string) ([]byte, error)

// Layout describes the fixed pipeline state of a program.
type Layout struct {
	Topology gpucore.Topology
	Buffers  []gpucore.VertexLayout
	Textured bool
}

// Program is a named, linked GPU program. Programs are never mutated after
// the registry creates them.
type Program struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Layout         Layout

	// ID is the device handle, gpucore.InvalidID when unavailable.
	ID gpucore.ProgramID

	// Err holds the reason the program is unavailable.
	Err error
}

// Available reports whether draws may use the program.
func (p *Program) Available() bool {
	return p != nil && p.ID != gpucore.InvalidID && p.Err == nil
}

// Registry compiles and owns named programs.
//
// Registry is not safe for concurrent use.
type Registry struct {
	dev      gpucore.Device
	compile  Compiler
	programs map[string]*Program
	order    []string
	failed   mapset.Set[string]
	closed   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithCompiler replaces the naga compiler.
func WithCompiler(c Compiler) Option {
	return func(r *Registry) {
		if c != nil {
			r.compile = c
		}
	}
}

// NewRegistry creates an empty registry on dev.
func NewRegistry(dev gpucore.Device, opts ...Option) *Registry {
	r := &Registry{
		dev:      dev,
		compile:  naga.Compile,
		programs: make(map[string]*Program),
		failed:   mapset.New[string](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile compiles and links a program under name. A name is compiled at
// most once: later calls return the stored program, available or not.
// Failures are logged and produce an unavailable program; Compile never
// panics on bad sources.
func (r *Registry) Compile(name, vertexSource, fragmentSource string, layout Layout) *Program {
	if p, ok := r.programs[name]; ok {
		return p
	}

	p := &Program{
		Name:           name,
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Layout:         layout,
	}
	r.programs[name] = p
	r.order = append(r.order, name)

	if r.closed {
		p.Err = fmt.Errorf("%w: %s: registry destroyed", ErrUnavailable, name)
		r.failed.Put(name)
		return p
	}

	id, err := r.link(p)
	if err != nil {
		p.Err = fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
		r.failed.Put(name)
		slogger().Warn("shader: program unavailable", "program", name, "error", err)
		return p
	}
	p.ID = id
	slogger().Debug("shader: program linked", "program", name, "id", uint64(id))
	return p
}

func (r *Registry) link(p *Program) (gpucore.ProgramID, error) {
	vs, err := r.compileStage("vertex", p.VertexSource)
	if err != nil {
		return gpucore.InvalidID, err
	}
	fs, err := r.compileStage("fragment", p.FragmentSource)
	if err != nil {
		return gpucore.InvalidID, err
	}
	return r.dev.CreateProgram(&gpucore.ProgramDesc{
		Label:          p.Name,
		VertexSource:   p.VertexSource,
		FragmentSource: p.FragmentSource,
		VertexSPIRV:    vs,
		FragmentSPIRV:  fs,
		Topology:       p.Layout.Topology,
		Layouts:        p.Layout.Buffers,
		Textured:       p.Layout.Textured,
	})
}

// compileStage runs the compiler and converts the result to SPIR-V words.
// A panicking compiler is treated as a compile failure.
func (r *Registry) compileStage(stage, src string) (words []uint32, err error) {
	if src == "" {
		return nil, fmt.Errorf("%s stage: %w", stage, ErrEmptySource)
	}
	defer func() {
		if rec := recover(); rec != nil {
			words = nil
			err = fmt.Errorf("%s stage: compiler panic: %v", stage, rec)
		}
	}()
	spirvBytes, err := r.compile(src)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", stage, err)
	}
	return spirvWords(spirvBytes), nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// Get returns the program registered under name. Unknown names return an
// unavailable program carrying ErrUnknownProgram.
func (r *Registry) Get(name string) *Program {
	if p, ok := r.programs[name]; ok {
		return p
	}
	return &Program{Name: name, Err: fmt.Errorf("%w: %s", ErrUnknownProgram, name)}
}

// Names returns registered names in compile order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Unavailable returns the sorted names of programs that failed.
func (r *Registry) Unavailable() []string {
	names := make([]string, 0, r.failed.Size())
	r.failed.Each(func(name string) { names = append(names, name) })
	slices.Sort(names)
	return names
}

// Destroy releases every linked program exactly once. Later calls are
// no-ops, and programs compiled afterwards are unavailable.
func (r *Registry) Destroy() {
	if r.closed {
		return
	}
	r.closed = true
	for _, name := range r.order {
		p := r.programs[name]
		if p.ID != gpucore.InvalidID {
			r.dev.DestroyProgram(p.ID)
			p.ID = gpucore.InvalidID
			p.Err = fmt.Errorf("%w: %s: registry destroyed", ErrUnavailable, name)
		}
	}
}
