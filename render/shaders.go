package render

// Shader sources are embedded as Go string constants rather than routed
// through the teacher's reflected shader/bind_group_provider pipeline for
// the same reason simulation's compute shaders are: the binding layout
// here is small and fixed, known at compile time, and does not need
// per-material reflection.

// nodeShaderSource draws each live node slot as an instanced SDF-circle
// quad: 6 vertices per instance (two triangles), one instance per node
// slot, reading position/radius/color straight out of the buffer
// substrate's storage buffers instead of a per-object model matrix.
const nodeShaderSource = `
struct ViewportUniforms {
    graphToClip: mat3x3<f32>,
    screenW: f32,
    screenH: f32,
    scale: f32,
    invScale: f32,
    dpr: f32,
}

@group(0) @binding(0) var<uniform> viewport: ViewportUniforms;
@group(0) @binding(1) var<storage, read> posX: array<f32>;
@group(0) @binding(2) var<storage, read> posY: array<f32>;
@group(0) @binding(3) var<storage, read> nodeAttrs: array<f32>;

struct VertexOut {
    @builtin(position) clipPos: vec4<f32>,
    @location(0) localPos: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) selected: f32,
}

const CORNERS: array<vec2<f32>, 6> = array<vec2<f32>, 6>(
    vec2<f32>(-1.0, -1.0), vec2<f32>(1.0, -1.0), vec2<f32>(-1.0, 1.0),
    vec2<f32>(-1.0, 1.0), vec2<f32>(1.0, -1.0), vec2<f32>(1.0, 1.0),
);

@vertex
fn vs_main(@builtin(vertex_index) vertexIndex: u32, @builtin(instance_index) instanceIndex: u32) -> VertexOut {
    let base = instanceIndex * 6u;
    let radius = nodeAttrs[base + 0u];
    let r = nodeAttrs[base + 1u];
    let g = nodeAttrs[base + 2u];
    let b = nodeAttrs[base + 3u];
    let selected = nodeAttrs[base + 4u];

    let corner = CORNERS[vertexIndex % 6u];
    let worldPos = vec2<f32>(posX[instanceIndex], posY[instanceIndex]) + corner * radius;
    let clip = viewport.graphToClip * vec3<f32>(worldPos, 1.0);

    var out: VertexOut;
    out.clipPos = vec4<f32>(clip.xy, 0.0, 1.0);
    out.localPos = corner;
    out.color = vec3<f32>(r, g, b);
    out.selected = selected;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let dist = length(in.localPos);
    let alpha = 1.0 - smoothstep(0.9, 1.0, dist);
    if (alpha <= 0.0) {
        discard;
    }
    var color = in.color;
    if (in.selected > 0.5) {
        color = mix(color, vec3<f32>(1.0, 1.0, 1.0), 0.3);
    }
    return vec4<f32>(color, alpha);
}
`

// edgeShaderSource draws each live edge as an instanced thick line quad
// between its endpoint positions. The fragment stage outputs the edge's
// color at its opacity; it applies no animated flow term and does not
// bind EdgeFlowUniforms.
const edgeShaderSource = `
struct ViewportUniforms {
    graphToClip: mat3x3<f32>,
    screenW: f32,
    screenH: f32,
    scale: f32,
    invScale: f32,
    dpr: f32,
}

@group(0) @binding(0) var<uniform> viewport: ViewportUniforms;
@group(0) @binding(1) var<storage, read> posX: array<f32>;
@group(0) @binding(2) var<storage, read> posY: array<f32>;
@group(0) @binding(3) var<storage, read> edgeSources: array<u32>;
@group(0) @binding(4) var<storage, read> edgeTargets: array<u32>;
@group(0) @binding(5) var<storage, read> edgeAttrs: array<f32>;

struct VertexOut {
    @builtin(position) clipPos: vec4<f32>,
    @location(0) lengthFraction: f32,
    @location(1) color: vec3<f32>,
    @location(2) opacity: f32,
}

const SIDE: array<f32, 6> = array<f32, 6>(-1.0, -1.0, 1.0, 1.0, -1.0, 1.0);
const ALONG: array<f32, 6> = array<f32, 6>(0.0, 1.0, 0.0, 0.0, 1.0, 1.0);

@vertex
fn vs_main(@builtin(vertex_index) vertexIndex: u32, @builtin(instance_index) instanceIndex: u32) -> VertexOut {
    let a = edgeSources[instanceIndex];
    let b = edgeTargets[instanceIndex];
    let base = instanceIndex * 8u;
    let width = edgeAttrs[base + 0u];
    let r = edgeAttrs[base + 1u];
    let g = edgeAttrs[base + 2u];
    let bcol = edgeAttrs[base + 3u];
    let opacity = edgeAttrs[base + 7u];

    let pa = vec2<f32>(posX[a], posY[a]);
    let pb = vec2<f32>(posX[b], posY[b]);
    let dir = normalize(pb - pa);
    let normal = vec2<f32>(-dir.y, dir.x);

    let idx = vertexIndex % 6u;
    let along = ALONG[idx];
    let side = SIDE[idx];
    let worldPos = mix(pa, pb, along) + normal * side * width * 0.5 * viewport.invScale;
    let clip = viewport.graphToClip * vec3<f32>(worldPos, 1.0);

    var out: VertexOut;
    out.clipPos = vec4<f32>(clip.xy, 0.0, 1.0);
    out.lengthFraction = along;
    out.color = vec3<f32>(r, g, bcol);
    out.opacity = opacity;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, in.opacity);
}
`
