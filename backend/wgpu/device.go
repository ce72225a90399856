// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/orrery/orrery/gpucore"
)

// Device errors.
var (
	// ErrNoHAL is returned when a provider does not expose HAL types.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrNoTarget is returned by BeginFrame before SetTarget.
	ErrNoTarget = errors.New("wgpu: no render target")

	// ErrFrameInProgress is returned by BeginFrame inside a frame.
	ErrFrameInProgress = errors.New("wgpu: frame already in progress")

	// ErrGPUTimeout is returned when a frame fence does not signal in time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)

// fenceTimeout bounds the wait for one submitted frame.
const fenceTimeout = 5 * time.Second

// Option configures a Device.
type Option func(*Device)

// WithTargetFormat sets the color format of render targets. The default is
// BGRA8Unorm, the usual surface format.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(d *Device) { d.format = f }
}

// WithMaxTextureSize sets the reported maximum texture edge (default 8192).
func WithMaxTextureSize(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.caps.MaxTextureSize = n
		}
	}
}

type texture struct {
	tex  hal.Texture
	view hal.TextureView
}

// frame holds the open encoder and the resources released after submit.
type frame struct {
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder

	uniforms   []hal.Buffer
	bindGroups []hal.BindGroup
	buffers    []hal.Buffer
	textures   []texture
}

// Device is a gpucore.Device backed by a hal.Device and hal.Queue.
//
// Device is not safe for concurrent use.
type Device struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	caps   gpucore.Capabilities

	sampler hal.Sampler

	nextID   uint64
	programs map[gpucore.ProgramID]*pipeline
	buffers  map[gpucore.BufferID]hal.Buffer
	textures map[gpucore.TextureID]texture

	target        hal.TextureView
	width, height uint32

	frame     *frame
	destroyed bool
}

// New wraps an existing HAL device and queue. The device does not own them;
// Destroy releases only the resources created through it.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	d := &Device{
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatBGRA8Unorm,
		caps: gpucore.Capabilities{
			Instancing:     true,
			MaxTextureSize: 8192,
		},
		nextID:   1,
		programs: make(map[gpucore.ProgramID]*pipeline),
		buffers:  make(map[gpucore.BufferID]hal.Buffer),
		textures: make(map[gpucore.TextureID]texture),
	}
	for _, opt := range opts {
		opt(d)
	}
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "orrery_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.sampler = sampler
	slogger().Info("wgpu: device ready", "format", d.format, "maxTexture", d.caps.MaxTextureSize)
	return d, nil
}

// NewFromProvider wraps the HAL device of a host window framework. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Its surface format becomes the target format
// unless opts override it.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return New(device, queue, opts...)
}

// SetTarget sets the texture view the next frames render into, with its
// size in pixels. The view stays owned by the caller.
func (d *Device) SetTarget(view hal.TextureView, width, height uint32) {
	d.target = view
	d.width, d.height = width, height
}

func (d *Device) newID() uint64 {
	id := d.nextID
	d.nextID++
	return id
}

// Capabilities implements gpucore.Device.
func (d *Device) Capabilities() gpucore.Capabilities { return d.caps }

// CreateProgram implements gpucore.Device.
func (d *Device) CreateProgram(desc *gpucore.ProgramDesc) (gpucore.ProgramID, error) {
	if desc == nil || len(desc.VertexSPIRV) == 0 || len(desc.FragmentSPIRV) == 0 {
		return gpucore.InvalidID, errors.New("wgpu: program needs vertex and fragment SPIR-V")
	}
	p, err := newPipeline(d.device, desc, d.format)
	if err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.ProgramID(d.newID())
	d.programs[id] = p
	slogger().Debug("wgpu: program linked", "label", desc.Label, "id", id)
	return id, nil
}

// DestroyProgram implements gpucore.Device.
func (d *Device) DestroyProgram(id gpucore.ProgramID) {
	if p, ok := d.programs[id]; ok {
		delete(d.programs, id)
		p.destroy(d.device)
	}
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(label string, data []byte, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if len(data) == 0 {
		return gpucore.InvalidID, errors.New("wgpu: empty buffer")
	}
	buf, err := d.upload(label, data, bufferUsage(usage))
	if err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.BufferID(d.newID())
	d.buffers[id] = buf
	return id, nil
}

func (d *Device) upload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	data = padded(data)
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// DestroyBuffer implements gpucore.Device. Buffers destroyed while a frame
// is open are released after the frame is submitted.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	buf, ok := d.buffers[id]
	if !ok {
		return
	}
	delete(d.buffers, id)
	if d.frame != nil {
		d.frame.buffers = append(d.frame.buffers, buf)
		return
	}
	d.device.DestroyBuffer(buf)
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc *gpucore.TextureDesc, pixels []byte) (gpucore.TextureID, error) {
	if desc == nil || desc.Width <= 0 || desc.Height <= 0 {
		return gpucore.InvalidID, errors.New("wgpu: invalid texture size")
	}
	if desc.Width > d.caps.MaxTextureSize || desc.Height > d.caps.MaxTextureSize {
		return gpucore.InvalidID, fmt.Errorf("wgpu: texture %dx%d exceeds %d", desc.Width, desc.Height, d.caps.MaxTextureSize)
	}
	bpp := desc.Format.BytesPerPixel()
	if len(pixels) != desc.Width*desc.Height*bpp {
		return gpucore.InvalidID, fmt.Errorf("wgpu: texture data is %d bytes, want %d", len(pixels), desc.Width*desc.Height*bpp)
	}
	w, h := uint32(desc.Width), uint32(desc.Height) //nolint:gosec // bounded by MaxTextureSize
	format := textureFormat(desc.Format)
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture %s: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture view %s: %w", desc.Label, err)
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * uint32(bpp), RowsPerImage: h}, //nolint:gosec // bpp is 1 or 4
		&size,
	)
	id := gpucore.TextureID(d.newID())
	d.textures[id] = texture{tex: tex, view: view}
	return id, nil
}

// DestroyTexture implements gpucore.Device.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	if d.frame != nil {
		d.frame.textures = append(d.frame.textures, t)
		return
	}
	d.releaseTexture(t)
}

func (d *Device) releaseTexture(t texture) {
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
}

// BeginFrame implements gpucore.Device. It opens one render pass on the
// current target, cleared to desc.ClearColor.
func (d *Device) BeginFrame(desc gpucore.FrameDesc) error {
	if d.frame != nil {
		return ErrFrameInProgress
	}
	if d.target == nil {
		return ErrNoTarget
	}
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "orrery_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("orrery_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	c := desc.ClearColor
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "orrery_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       d.target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])},
		}},
	})
	d.frame = &frame{encoder: encoder, pass: pass}
	return nil
}

// Draw implements gpucore.Device.
func (d *Device) Draw(cmd *gpucore.DrawCommand) error {
	f := d.frame
	if f == nil {
		return gpucore.ErrNoFrame
	}
	p, ok := d.programs[cmd.Program]
	if !ok {
		return fmt.Errorf("%w: program %d", gpucore.ErrUnknownResource, cmd.Program)
	}
	if len(cmd.VertexBuffers) != p.slots {
		return fmt.Errorf("wgpu: program %s takes %d vertex buffers, got %d", p.label, p.slots, len(cmd.VertexBuffers))
	}
	vbufs := make([]hal.Buffer, len(cmd.VertexBuffers))
	for i, id := range cmd.VertexBuffers {
		b, ok := d.buffers[id]
		if !ok {
			return fmt.Errorf("%w: vertex buffer %d", gpucore.ErrUnknownResource, id)
		}
		vbufs[i] = b
	}
	var ibuf hal.Buffer
	if cmd.IndexBuffer != gpucore.InvalidID {
		if ibuf, ok = d.buffers[cmd.IndexBuffer]; !ok {
			return fmt.Errorf("%w: index buffer %d", gpucore.ErrUnknownResource, cmd.IndexBuffer)
		}
	}
	var tex texture
	if p.textured {
		if tex, ok = d.textures[cmd.Texture]; !ok {
			return fmt.Errorf("%w: texture %d", gpucore.ErrUnknownResource, cmd.Texture)
		}
	}

	bg, err := d.bindGroup(p, cmd.Uniforms, tex)
	if err != nil {
		return err
	}

	rp := f.pass
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bg, nil)
	for i, b := range vbufs {
		rp.SetVertexBuffer(uint32(i), b, 0) //nolint:gosec // slot count is tiny
	}
	if ibuf != nil {
		rp.SetIndexBuffer(ibuf, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(cmd.IndexCount, cmd.Instances(), 0, 0, 0)
	} else {
		rp.Draw(cmd.VertexCount, cmd.Instances(), 0, 0)
	}
	return nil
}

// bindGroup uploads the uniform block and binds it with the texture view
// and sampler of textured programs. Both live until the frame is submitted.
func (d *Device) bindGroup(p *pipeline, uniforms []byte, tex texture) (hal.BindGroup, error) {
	if len(uniforms) == 0 {
		return nil, errors.New("wgpu: draw without uniforms")
	}
	ub, err := d.upload(p.label+"_uniforms", uniforms, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	d.frame.uniforms = append(d.frame.uniforms, ub)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: alignedSize(len(uniforms)),
		}},
	}
	if p.textured {
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()}},
			gputypes.BindGroupEntry{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: d.sampler.NativeHandle()}},
		)
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.label + "_bind",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group for %s: %w", p.label, err)
	}
	d.frame.bindGroups = append(d.frame.bindGroups, bg)
	return bg, nil
}

// EndFrame implements gpucore.Device. It submits the pass, waits for the
// fence and releases the frame's transient resources.
func (d *Device) EndFrame() error {
	f := d.frame
	if f == nil {
		return gpucore.ErrNoFrame
	}
	d.frame = nil
	defer d.release(f)

	f.pass.End()
	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}
	return nil
}

func (d *Device) release(f *frame) {
	for _, bg := range f.bindGroups {
		d.device.DestroyBindGroup(bg)
	}
	for _, b := range f.uniforms {
		d.device.DestroyBuffer(b)
	}
	for _, b := range f.buffers {
		d.device.DestroyBuffer(b)
	}
	for _, t := range f.textures {
		d.releaseTexture(t)
	}
}

// Destroy implements gpucore.Device. It releases every resource created
// through the device; the HAL device and queue stay with their owner.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if d.frame != nil {
		if err := d.EndFrame(); err != nil {
			slogger().Warn("wgpu: end frame on destroy", "err", err)
		}
	}
	for id, p := range d.programs {
		p.destroy(d.device)
		delete(d.programs, id)
	}
	for id, b := range d.buffers {
		d.device.DestroyBuffer(b)
		delete(d.buffers, id)
	}
	for id, t := range d.textures {
		d.releaseTexture(t)
		delete(d.textures, id)
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	slogger().Info("wgpu: device destroyed")
}

var _ gpucore.Device = (*Device)(nil)
