// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each device implementation
// maintains a mapping between IDs and actual backend resources.

// ProgramID is an opaque handle to a linked vertex+fragment program.
type ProgramID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageVertex indicates the buffer holds vertex attributes.
	BufferUsageVertex BufferUsage = 1 << 0

	// BufferUsageIndex indicates the buffer holds uint32 indices.
	BufferUsageIndex BufferUsage = 1 << 1

	// BufferUsageUniform indicates the buffer holds uniform data.
	BufferUsageUniform BufferUsage = 1 << 2

	// BufferUsageStatic hints that the contents are uploaded once and drawn
	// many times across frames.
	BufferUsageStatic BufferUsage = 1 << 3

	// BufferUsageDynamic hints that the contents are uploaded for a single
	// draw and released right after.
	BufferUsageDynamic BufferUsage = 1 << 4
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag == flag }

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatR8Unorm is 8-bit red channel only, normalized unsigned integer.
	TextureFormatR8Unorm
)

// BytesPerPixel returns the pixel size of the format.
func (f TextureFormat) BytesPerPixel() int {
	if f == TextureFormatR8Unorm {
		return 1
	}
	return 4
}

// Topology is the primitive assembly mode of a program.
type Topology uint8

// Primitive topologies.
const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
	TopologyLineStrip
	TopologyPointList
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangleList:
		return "triangle-list"
	case TopologyTriangleStrip:
		return "triangle-strip"
	case TopologyLineList:
		return "line-list"
	case TopologyLineStrip:
		return "line-strip"
	case TopologyPointList:
		return "point-list"
	default:
		return "unknown"
	}
}

// StepMode selects whether a vertex buffer advances per vertex or per instance.
type StepMode uint8

// Vertex step modes.
const (
	StepVertex StepMode = iota
	StepInstance
)

// AttributeFormat is the component layout of a single vertex attribute.
type AttributeFormat uint8

// Vertex attribute formats. All attributes are float32 based.
const (
	Float32 AttributeFormat = iota + 1
	Float32x2
	Float32x3
	Float32x4
)

// Size returns the attribute size in bytes.
func (f AttributeFormat) Size() uint32 {
	switch f {
	case Float32:
		return 4
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	default:
		return 0
	}
}

// VertexAttribute describes one attribute inside a vertex buffer.
type VertexAttribute struct {
	Format   AttributeFormat
	Offset   uint32
	Location uint32
}

// VertexLayout describes one vertex buffer slot of a program.
type VertexLayout struct {
	Stride     uint32
	StepMode   StepMode
	Attributes []VertexAttribute
}

// ProgramDesc describes a program to link from compiled shader stages.
type ProgramDesc struct {
	// Label is an optional debug label (the registry uses the program name).
	Label string

	// VertexSource and FragmentSource are the WGSL sources of both stages.
	VertexSource   string
	FragmentSource string

	// VertexSPIRV and FragmentSPIRV hold the naga output for both stages.
	VertexSPIRV   []uint32
	FragmentSPIRV []uint32

	// Topology is the primitive mode every draw with this program uses.
	Topology Topology

	// Layouts are the vertex buffer slots, in slot order.
	Layouts []VertexLayout

	// Textured programs bind a sampled texture and sampler at group 0,
	// bindings 1 and 2.
	Textured bool
}

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	Format TextureFormat
}

// Capabilities describes optional device features.
type Capabilities struct {
	// Instancing reports hardware instanced drawing support.
	Instancing bool

	// MaxTextureSize is the largest supported texture edge in pixels.
	MaxTextureSize int
}

// FrameDesc describes the target of one frame.
type FrameDesc struct {
	Width, Height int

	// ClearColor is the RGBA clear color, 0-1 normalized.
	ClearColor [4]float32
}

// DrawCommand is a single draw call.
type DrawCommand struct {
	Program ProgramID

	// VertexBuffers are bound to slots in order.
	VertexBuffers []BufferID

	// IndexBuffer is optional; when set IndexCount indices are drawn.
	IndexBuffer BufferID
	IndexCount  uint32

	// VertexCount is used for non-indexed draws.
	VertexCount uint32

	// InstanceCount is the number of instances; 0 is treated as 1.
	InstanceCount uint32

	// Uniforms is the raw uniform block bound at group 0, binding 0.
	Uniforms []byte

	// Texture is bound for textured programs.
	Texture TextureID
}

// Instances returns the effective instance count.
func (c *DrawCommand) Instances() uint32 {
	if c.InstanceCount == 0 {
		return 1
	}
	return c.InstanceCount
}
