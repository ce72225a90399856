// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "errors"

// Device errors.
var (
	// ErrNoFrame is returned by Draw outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("gpucore: draw outside of frame")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("gpucore: unknown resource")

	// ErrInstancingUnsupported is returned for instanced draws on devices
	// without instancing support.
	ErrInstancingUnsupported = errors.New("gpucore: instancing not supported")
)

// Device abstracts over different GPU backend implementations.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying an unknown or already destroyed ID is a no-op
//   - IDs become invalid after destruction and are never reused
//
// A Device is used from the render loop goroutine only.
type Device interface {
	// Capabilities reports optional features of the device.
	Capabilities() Capabilities

	// CreateProgram links a program from compiled stages.
	CreateProgram(desc *ProgramDesc) (ProgramID, error)

	// DestroyProgram releases a program.
	DestroyProgram(id ProgramID)

	// CreateBuffer creates a buffer initialized with data.
	CreateBuffer(label string, data []byte, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a buffer.
	DestroyBuffer(id BufferID)

	// CreateTexture creates a texture initialized with pixels
	// (tightly packed rows, desc.Format layout).
	CreateTexture(desc *TextureDesc, pixels []byte) (TextureID, error)

	// DestroyTexture releases a texture.
	DestroyTexture(id TextureID)

	// BeginFrame starts recording a frame.
	BeginFrame(desc FrameDesc) error

	// Draw records a draw call into the current frame.
	Draw(cmd *DrawCommand) error

	// EndFrame submits the frame.
	EndFrame() error

	// Destroy releases the device itself. Resources still alive are leaked
	// to the backend's own teardown.
	Destroy()
}
