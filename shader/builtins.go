// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "github.com/orrery/orrery/gpucore"

// Built-in program names.
const (
	Point      = "point"
	GlowPoint  = "glowPoint"
	Line       = "line"
	Polygon    = "polygon"
	Text       = "text"
	PointBatch = "pointBatch"
	TextBatch  = "textBatch"
	Body       = "body"
)

// UniformSize is the size in bytes of the uniform block shared by every
// built-in program: projection, view, model, color, params, light.
const UniformSize = 3*64 + 3*16

// Vertex strides of the built-in layouts, in bytes.
const (
	StridePosition      = 8  // pos.xy
	StridePositionLocal = 16 // pos.xy, local.xy (or uv.xy)
	StridePointInstance = 28 // center.xy, size, color.rgba
	StrideTextInstance  = 48 // pos.xy, size.wh, uv.rect, color.rgba
)

// Definition is a named program source plus its pipeline layout.
type Definition struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Layout         Layout
}

const uniformBlock = `struct Uniforms {
    projection: mat4x4<f32>,
    view: mat4x4<f32>,
    model: mat4x4<f32>,
    color: vec4<f32>,
    params: vec4<f32>,
    light: vec4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
`

const textureBindings = `
@group(0) @binding(1) var atlas: texture_2d<f32>;
@group(0) @binding(2) var atlas_sampler: sampler;
`

// local.xy spans [-1, 1] across a quad; it drives circle and sphere shading.
const localVertex = uniformBlock + `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) local: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) local: vec2<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = u.projection * u.view * u.model * vec4<f32>(input.position, 0.0, 1.0);
    out.local = input.local;
    return out;
}
`

const pointFragment = uniformBlock + `
struct FragmentInput {
    @location(0) local: vec2<f32>,
}

@fragment
fn fs_main(input: FragmentInput) -> @location(0) vec4<f32> {
    let d = length(input.local);
    let edge = 1.0 - smoothstep(0.85, 1.0, d);
    let a = u.color.a * edge;
    return vec4<f32>(u.color.rgb * a, a);
}
`

// params.y is the glow falloff exponent.
const glowFragment = uniformBlock + `
struct FragmentInput {
    @location(0) local: vec2<f32>,
}

@fragment
fn fs_main(input: FragmentInput) -> @location(0) vec4<f32> {
    let d = clamp(length(input.local), 0.0, 1.0);
    let core = 1.0 - smoothstep(0.25, 0.35, d);
    let halo = pow(1.0 - d, max(u.params.y, 1.0));
    let a = u.color.a * max(core, halo);
    return vec4<f32>(u.color.rgb * a, a);
}
`

// light.xyz is the light direction, light.w the ambient term.
const bodyFragment = uniformBlock + `
struct FragmentInput {
    @location(0) local: vec2<f32>,
}

@fragment
fn fs_main(input: FragmentInput) -> @location(0) vec4<f32> {
    let r2 = dot(input.local, input.local);
    let edge = 1.0 - smoothstep(0.96, 1.0, r2);
    let normal = vec3<f32>(input.local, sqrt(max(1.0 - r2, 0.0)));
    let diffuse = max(dot(normal, normalize(u.light.xyz)), 0.0);
    let shade = clamp(u.light.w + diffuse * (1.0 - u.light.w), 0.0, 1.0);
    let a = u.color.a * edge;
    return vec4<f32>(u.color.rgb * shade * a, a);
}
`

const positionVertex = uniformBlock + `
@vertex
fn vs_main(@location(0) position: vec2<f32>) -> @builtin(position) vec4<f32> {
    return u.projection * u.view * u.model * vec4<f32>(position, 0.0, 1.0);
}
`

const solidFragment = uniformBlock + `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(u.color.rgb * u.color.a, u.color.a);
}
`

const textVertex = uniformBlock + `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = u.projection * u.view * u.model * vec4<f32>(input.position, 0.0, 1.0);
    out.uv = input.uv;
    out.color = u.color;
    return out;
}
`

// Atlas texels carry coverage in alpha; color comes from the vertex stage.
const textFragment = textureBindings + `
struct FragmentInput {
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@fragment
fn fs_main(input: FragmentInput) -> @location(0) vec4<f32> {
    let coverage = textureSample(atlas, atlas_sampler, input.uv).a;
    let a = input.color.a * coverage;
    return vec4<f32>(input.color.rgb * a, a);
}
`

// The base quad spans [-1, 1]; instance size is a diameter in world units.
const pointBatchVertex = uniformBlock + `
struct VertexInput {
    @location(0) corner: vec2<f32>,
    @location(1) center: vec2<f32>,
    @location(2) size: f32,
    @location(3) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) local: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = input.center + input.corner * (input.size * 0.5);
    out.clip = u.projection * u.view * vec4<f32>(world, 0.0, 1.0);
    out.local = input.corner;
    out.color = input.color;
    return out;
}
`

const pointBatchFragment = `
struct FragmentInput {
    @location(0) local: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@fragment
fn fs_main(input: FragmentInput) -> @location(0) vec4<f32> {
    let d = length(input.local);
    let a = input.color.a * (1.0 - smoothstep(0.85, 1.0, d));
    return vec4<f32>(input.color.rgb * a, a);
}
`

// The base quad spans [0, 1] and is stretched over each glyph run.
const textBatchVertex = uniformBlock + `
struct VertexInput {
    @location(0) corner: vec2<f32>,
    @location(1) origin: vec2<f32>,
    @location(2) size: vec2<f32>,
    @location(3) uv_rect: vec4<f32>,
    @location(4) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = input.origin + input.corner * input.size;
    out.clip = u.projection * u.view * vec4<f32>(world, 0.0, 1.0);
    out.uv = mix(input.uv_rect.xy, input.uv_rect.zw, input.corner);
    out.color = input.color;
    return out;
}
`

var (
	positionLayout = gpucore.VertexLayout{
		Stride:   StridePosition,
		StepMode: gpucore.StepVertex,
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.Float32x2, Offset: 0, Location: 0},
		},
	}
	positionLocalLayout = gpucore.VertexLayout{
		Stride:   StridePositionLocal,
		StepMode: gpucore.StepVertex,
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.Float32x2, Offset: 0, Location: 0},
			{Format: gpucore.Float32x2, Offset: 8, Location: 1},
		},
	}
	pointInstanceLayout = gpucore.VertexLayout{
		Stride:   StridePointInstance,
		StepMode: gpucore.StepInstance,
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.Float32x2, Offset: 0, Location: 1},
			{Format: gpucore.Float32, Offset: 8, Location: 2},
			{Format: gpucore.Float32x4, Offset: 12, Location: 3},
		},
	}
	textInstanceLayout = gpucore.VertexLayout{
		Stride:   StrideTextInstance,
		StepMode: gpucore.StepInstance,
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.Float32x2, Offset: 0, Location: 1},
			{Format: gpucore.Float32x2, Offset: 8, Location: 2},
			{Format: gpucore.Float32x4, Offset: 16, Location: 3},
			{Format: gpucore.Float32x4, Offset: 32, Location: 4},
		},
	}
)

// Builtins returns the engine's built-in program definitions.
func Builtins() []Definition {
	quad := func(topology gpucore.Topology, layouts ...gpucore.VertexLayout) Layout {
		return Layout{Topology: topology, Buffers: layouts}
	}
	return []Definition{
		{Point, localVertex, pointFragment, quad(gpucore.TopologyTriangleList, positionLocalLayout)},
		{GlowPoint, localVertex, glowFragment, quad(gpucore.TopologyTriangleList, positionLocalLayout)},
		{Line, positionVertex, solidFragment, quad(gpucore.TopologyLineStrip, positionLayout)},
		{Polygon, positionVertex, solidFragment, quad(gpucore.TopologyTriangleList, positionLayout)},
		{Text, textVertex, textFragment, Layout{
			Topology: gpucore.TopologyTriangleList,
			Buffers:  []gpucore.VertexLayout{positionLocalLayout},
			Textured: true,
		}},
		{PointBatch, pointBatchVertex, pointBatchFragment,
			quad(gpucore.TopologyTriangleList, positionLayout, pointInstanceLayout)},
		{TextBatch, textBatchVertex, textFragment, Layout{
			Topology: gpucore.TopologyTriangleList,
			Buffers:  []gpucore.VertexLayout{positionLayout, textInstanceLayout},
			Textured: true,
		}},
		{Body, localVertex, bodyFragment, quad(gpucore.TopologyTriangleList, positionLocalLayout)},
	}
}

// CompileBuiltins compiles every built-in program and returns the number
// that are available.
func (r *Registry) CompileBuiltins() int {
	n := 0
	for _, def := range Builtins() {
		if r.Compile(def.Name, def.VertexSource, def.FragmentSource, def.Layout).Available() {
			n++
		}
	}
	return n
}
