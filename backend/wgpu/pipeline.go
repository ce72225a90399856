// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/orrery/orrery/gpucore"
)

// pipeline is the HAL side of one linked program.
type pipeline struct {
	label    string
	slots    int
	textured bool

	vertex     hal.ShaderModule
	fragment   hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// bindLayoutEntries returns the group 0 layout:
//
//	binding 0: uniform block (vertex+fragment)
//	binding 1: texture_2d (fragment, textured programs)
//	binding 2: sampler (fragment, textured programs)
func bindLayoutEntries(textured bool) []gputypes.BindGroupLayoutEntry {
	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}}
	if !textured {
		return entries
	}
	return append(entries,
		gputypes.BindGroupLayoutEntry{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		gputypes.BindGroupLayoutEntry{
			Binding:    2,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	)
}

// newPipeline creates shader modules, layouts and the render pipeline of
// desc. Partially created objects are released on failure.
func newPipeline(device hal.Device, desc *gpucore.ProgramDesc, format gputypes.TextureFormat) (_ *pipeline, err error) {
	p := &pipeline{label: desc.Label, slots: len(desc.Layouts), textured: desc.Textured}
	defer func() {
		if err != nil {
			p.destroy(device)
		}
	}()

	if p.vertex, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_vs",
		Source: hal.ShaderSource{SPIRV: desc.VertexSPIRV},
	}); err != nil {
		return nil, fmt.Errorf("wgpu: vertex module %s: %w", desc.Label, err)
	}
	if p.fragment, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_fs",
		Source: hal.ShaderSource{SPIRV: desc.FragmentSPIRV},
	}); err != nil {
		return nil, fmt.Errorf("wgpu: fragment module %s: %w", desc.Label, err)
	}
	if p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bind_layout",
		Entries: bindLayoutEntries(desc.Textured),
	}); err != nil {
		return nil, fmt.Errorf("wgpu: bind group layout %s: %w", desc.Label, err)
	}
	if p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	}); err != nil {
		return nil, fmt.Errorf("wgpu: pipeline layout %s: %w", desc.Label, err)
	}

	blend := gputypes.BlendStatePremultiplied()
	if p.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertex,
			EntryPoint: "vs_main",
			Buffers:    vertexLayouts(desc.Layouts),
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragment,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology(desc.Topology),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}); err != nil {
		return nil, fmt.Errorf("wgpu: render pipeline %s: %w", desc.Label, err)
	}
	return p, nil
}

// destroy releases the pipeline objects in reverse creation order.
func (p *pipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.fragment != nil {
		device.DestroyShaderModule(p.fragment)
		p.fragment = nil
	}
	if p.vertex != nil {
		device.DestroyShaderModule(p.vertex)
		p.vertex = nil
	}
}
