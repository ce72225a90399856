// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"
	"slices"

	"github.com/orrery/orrery/gpucore"
)

// Device is a gpucore.Device that records calls in memory.
type Device struct {
	// FailProgram, when set, is consulted by CreateProgram. A non-nil error
	// is returned as the link failure.
	FailProgram func(desc *gpucore.ProgramDesc) error

	// FailDraw, when set, is consulted by Draw with the zero-based index of
	// the draw in the current frame. A non-nil error fails the draw.
	FailDraw func(n int, cmd *gpucore.DrawCommand) error

	// KeepCommands enables the command log returned by Commands.
	KeepCommands bool

	caps gpucore.Capabilities

	nextID uint64

	programs map[gpucore.ProgramID]*gpucore.ProgramDesc
	buffers  map[gpucore.BufferID]bufferInfo
	textures map[gpucore.TextureID]gpucore.TextureDesc

	inFrame    bool
	frameDraws int
	destroyed  bool

	stats    Stats
	commands []Command
	draws    []gpucore.DrawCommand
}

type bufferInfo struct {
	label string
	usage gpucore.BufferUsage
	data  []byte
}

// Option configures a Device.
type Option func(*Device)

// WithoutInstancing makes the device report no instancing support.
func WithoutInstancing() Option {
	return func(d *Device) { d.caps.Instancing = false }
}

// WithMaxTextureSize sets the reported maximum texture edge.
func WithMaxTextureSize(n int) Option {
	return func(d *Device) { d.caps.MaxTextureSize = n }
}

// NewDevice creates a recording device with instancing support and an
// 8192 pixel texture limit.
func NewDevice(opts ...Option) *Device {
	d := &Device{
		caps: gpucore.Capabilities{
			Instancing:     true,
			MaxTextureSize: 8192,
		},
		nextID:   1,
		programs: make(map[gpucore.ProgramID]*gpucore.ProgramDesc),
		buffers:  make(map[gpucore.BufferID]bufferInfo),
		textures: make(map[gpucore.TextureID]gpucore.TextureDesc),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) newID() uint64 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *Device) record(c Command) {
	if d.KeepCommands {
		d.commands = append(d.commands, c)
	}
}

// Capabilities implements gpucore.Device.
func (d *Device) Capabilities() gpucore.Capabilities { return d.caps }

// CreateProgram implements gpucore.Device.
func (d *Device) CreateProgram(desc *gpucore.ProgramDesc) (gpucore.ProgramID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("recording: nil program descriptor")
	}
	if d.FailProgram != nil {
		if err := d.FailProgram(desc); err != nil {
			return gpucore.InvalidID, err
		}
	}
	id := gpucore.ProgramID(d.newID())
	cp := *desc
	d.programs[id] = &cp
	d.stats.ProgramsCreated++
	d.record(Command{Type: CmdCreateProgram, ID: uint64(id), Label: desc.Label})
	return id, nil
}

// DestroyProgram implements gpucore.Device.
func (d *Device) DestroyProgram(id gpucore.ProgramID) {
	if _, ok := d.programs[id]; !ok {
		return
	}
	delete(d.programs, id)
	d.stats.ProgramsDestroyed++
	d.record(Command{Type: CmdDestroyProgram, ID: uint64(id)})
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(label string, data []byte, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if len(data) == 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: empty buffer %q", label)
	}
	id := gpucore.BufferID(d.newID())
	d.buffers[id] = bufferInfo{label: label, usage: usage, data: slices.Clone(data)}
	d.stats.BuffersCreated++
	switch {
	case usage.Has(gpucore.BufferUsageStatic):
		d.stats.StaticUploads++
	case usage.Has(gpucore.BufferUsageDynamic):
		d.stats.DynamicUploads++
	}
	d.record(Command{Type: CmdCreateBuffer, ID: uint64(id), Label: label, Usage: usage, Size: len(data)})
	return id, nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	d.stats.BuffersDestroyed++
	d.record(Command{Type: CmdDestroyBuffer, ID: uint64(id)})
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc *gpucore.TextureDesc, pixels []byte) (gpucore.TextureID, error) {
	if desc == nil || desc.Width <= 0 || desc.Height <= 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: invalid texture descriptor")
	}
	if desc.Width > d.caps.MaxTextureSize || desc.Height > d.caps.MaxTextureSize {
		return gpucore.InvalidID, fmt.Errorf("recording: texture %dx%d exceeds limit %d",
			desc.Width, desc.Height, d.caps.MaxTextureSize)
	}
	if want := desc.Width * desc.Height * desc.Format.BytesPerPixel(); len(pixels) != want {
		return gpucore.InvalidID, fmt.Errorf("recording: texture data is %d bytes, want %d", len(pixels), want)
	}
	id := gpucore.TextureID(d.newID())
	d.textures[id] = *desc
	d.stats.TexturesCreated++
	d.record(Command{Type: CmdCreateTexture, ID: uint64(id), Label: desc.Label, Size: len(pixels)})
	return id, nil
}

// DestroyTexture implements gpucore.Device.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	if _, ok := d.textures[id]; !ok {
		return
	}
	delete(d.textures, id)
	d.stats.TexturesDestroyed++
	d.record(Command{Type: CmdDestroyTexture, ID: uint64(id)})
}

// BeginFrame implements gpucore.Device.
func (d *Device) BeginFrame(desc gpucore.FrameDesc) error {
	if d.inFrame {
		return fmt.Errorf("recording: frame already in progress")
	}
	d.inFrame = true
	d.frameDraws = 0
	d.stats.Frames++
	d.record(Command{Type: CmdBeginFrame})
	return nil
}

// Draw implements gpucore.Device.
func (d *Device) Draw(cmd *gpucore.DrawCommand) error {
	if !d.inFrame {
		return gpucore.ErrNoFrame
	}
	n := d.frameDraws
	d.frameDraws++
	if d.FailDraw != nil {
		if err := d.FailDraw(n, cmd); err != nil {
			return err
		}
	}
	if _, ok := d.programs[cmd.Program]; !ok {
		return fmt.Errorf("%w: program %d", gpucore.ErrUnknownResource, cmd.Program)
	}
	for _, b := range cmd.VertexBuffers {
		if _, ok := d.buffers[b]; !ok {
			return fmt.Errorf("%w: vertex buffer %d", gpucore.ErrUnknownResource, b)
		}
	}
	if cmd.IndexBuffer != gpucore.InvalidID {
		if _, ok := d.buffers[cmd.IndexBuffer]; !ok {
			return fmt.Errorf("%w: index buffer %d", gpucore.ErrUnknownResource, cmd.IndexBuffer)
		}
	}
	if cmd.Texture != gpucore.InvalidID {
		if _, ok := d.textures[cmd.Texture]; !ok {
			return fmt.Errorf("%w: texture %d", gpucore.ErrUnknownResource, cmd.Texture)
		}
	}
	if cmd.Instances() > 1 {
		if !d.caps.Instancing {
			return gpucore.ErrInstancingUnsupported
		}
		d.stats.InstancedDraws++
	}
	d.stats.Draws++
	d.stats.Instances += int(cmd.Instances())

	cp := *cmd
	cp.VertexBuffers = slices.Clone(cmd.VertexBuffers)
	cp.Uniforms = slices.Clone(cmd.Uniforms)
	d.draws = append(d.draws, cp)
	d.record(Command{Type: CmdDraw, Draw: &cp})
	return nil
}

// EndFrame implements gpucore.Device.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return gpucore.ErrNoFrame
	}
	d.inFrame = false
	d.record(Command{Type: CmdEndFrame})
	return nil
}

// Destroy implements gpucore.Device.
func (d *Device) Destroy() {
	d.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (d *Device) Destroyed() bool { return d.destroyed }

// Stats returns the call counters.
func (d *Device) Stats() Stats { return d.stats }

// Commands returns the command log (empty unless KeepCommands is set).
func (d *Device) Commands() []Command { return d.commands }

// Draws returns every successful draw call in order.
func (d *Device) Draws() []gpucore.DrawCommand { return d.draws }

// DrawsFor returns the successful draws issued with program id.
func (d *Device) DrawsFor(id gpucore.ProgramID) []gpucore.DrawCommand {
	var out []gpucore.DrawCommand
	for _, c := range d.draws {
		if c.Program == id {
			out = append(out, c)
		}
	}
	return out
}

// ProgramLabel returns the label a live program was created with.
func (d *Device) ProgramLabel(id gpucore.ProgramID) string {
	if p, ok := d.programs[id]; ok {
		return p.Label
	}
	return ""
}

// BufferData returns a copy of a live buffer's contents.
func (d *Device) BufferData(id gpucore.BufferID) ([]byte, bool) {
	b, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(b.data), true
}

// LivePrograms returns the number of programs not yet destroyed.
func (d *Device) LivePrograms() int { return len(d.programs) }

// LiveBuffers returns the number of buffers not yet destroyed.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int { return len(d.textures) }

// Reset clears the draw list and counters but keeps live resources.
func (d *Device) Reset() {
	d.stats = Stats{}
	d.commands = nil
	d.draws = nil
}

var _ gpucore.Device = (*Device)(nil)
