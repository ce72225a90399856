// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"

	"github.com/orrery/orrery/gpucore"
)

// CommandType identifies the type of a recorded GPU call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateProgram  CommandType = iota // Link a program
	CmdDestroyProgram                    // Release a program
	CmdCreateBuffer                      // Create and upload a buffer
	CmdDestroyBuffer                     // Release a buffer
	CmdCreateTexture                     // Create and upload a texture
	CmdDestroyTexture                    // Release a texture

	// Frame commands
	CmdBeginFrame // Start a frame
	CmdDraw       // Record a draw call
	CmdEndFrame   // Submit a frame
)

// String returns a human-readable name for the command type.
func (t CommandType) String() string {
	switch t {
	case CmdCreateProgram:
		return "CreateProgram"
	case CmdDestroyProgram:
		return "DestroyProgram"
	case CmdCreateBuffer:
		return "CreateBuffer"
	case CmdDestroyBuffer:
		return "DestroyBuffer"
	case CmdCreateTexture:
		return "CreateTexture"
	case CmdDestroyTexture:
		return "DestroyTexture"
	case CmdBeginFrame:
		return "BeginFrame"
	case CmdDraw:
		return "Draw"
	case CmdEndFrame:
		return "EndFrame"
	default:
		return fmt.Sprintf("CommandType(%d)", t)
	}
}

// Command is a single recorded GPU call.
type Command struct {
	Type CommandType

	// ID is the resource the command created or destroyed.
	ID uint64

	// Label is the debug label passed on creation.
	Label string

	// Usage is set for buffer creation.
	Usage gpucore.BufferUsage

	// Size is the uploaded byte count for buffers and textures.
	Size int

	// Draw is a copy of the draw command for CmdDraw.
	Draw *gpucore.DrawCommand
}

// Stats counts recorded calls by kind.
type Stats struct {
	ProgramsCreated   int
	ProgramsDestroyed int
	BuffersCreated    int
	BuffersDestroyed  int
	StaticUploads     int
	DynamicUploads    int
	TexturesCreated   int
	TexturesDestroyed int
	Frames            int
	Draws             int
	InstancedDraws    int
	Instances         int
}
