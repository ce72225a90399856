// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/orrery/orrery/gpucore"
)

func topology(t gpucore.Topology) gputypes.PrimitiveTopology {
	switch t {
	case gpucore.TopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	case gpucore.TopologyLineList:
		return gputypes.PrimitiveTopologyLineList
	case gpucore.TopologyLineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case gpucore.TopologyPointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func vertexFormat(f gpucore.AttributeFormat) gputypes.VertexFormat {
	switch f {
	case gpucore.Float32:
		return gputypes.VertexFormatFloat32
	case gpucore.Float32x3:
		return gputypes.VertexFormatFloat32x3
	case gpucore.Float32x4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32x2
	}
}

func stepMode(m gpucore.StepMode) gputypes.VertexStepMode {
	if m == gpucore.StepInstance {
		return gputypes.VertexStepModeInstance
	}
	return gputypes.VertexStepModeVertex
}

func vertexLayouts(in []gpucore.VertexLayout) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(in))
	for i, l := range in {
		attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
		for j, a := range l.Attributes {
			attrs[j] = gputypes.VertexAttribute{
				Format:         vertexFormat(a.Format),
				Offset:         uint64(a.Offset),
				ShaderLocation: a.Location,
			}
		}
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(l.Stride),
			StepMode:    stepMode(l.StepMode),
			Attributes:  attrs,
		}
	}
	return out
}

func bufferUsage(u gpucore.BufferUsage) gputypes.BufferUsage {
	usage := gputypes.BufferUsageCopyDst
	if u.Has(gpucore.BufferUsageVertex) {
		usage |= gputypes.BufferUsageVertex
	}
	if u.Has(gpucore.BufferUsageIndex) {
		usage |= gputypes.BufferUsageIndex
	}
	if u.Has(gpucore.BufferUsageUniform) {
		usage |= gputypes.BufferUsageUniform
	}
	return usage
}

func textureFormat(f gpucore.TextureFormat) gputypes.TextureFormat {
	if f == gpucore.TextureFormatR8Unorm {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// alignedSize rounds n up to the 4 byte multiple queue writes require.
func alignedSize(n int) uint64 {
	return uint64((n + 3) &^ 3)
}

// padded returns data extended with zeros to alignedSize.
func padded(data []byte) []byte {
	n := alignedSize(len(data))
	if uint64(len(data)) == n {
		return data
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}
