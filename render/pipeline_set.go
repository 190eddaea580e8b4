// Package render implements the node and edge render pipelines spec.md
// §4.6 describes: instanced SDF-quad nodes and instanced thick-line
// edges, drawn straight out of the buffer substrate's storage buffers
// instead of per-object vertex data. Generalized from the teacher's
// engine/renderer/pipeline package (topology, vertex layout, blend state
// configuration) onto a fixed two-pipeline set rather than an arbitrary
// per-material registry.
package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineSet owns the compiled node and edge render pipelines and their
// shared bind group layout (viewport uniforms + position/attribute
// storage buffers).
type PipelineSet struct {
	device *wgpu.Device

	nodeLayout *wgpu.BindGroupLayout
	nodePipe   *wgpu.RenderPipeline

	edgeLayout *wgpu.BindGroupLayout
	edgePipe   *wgpu.RenderPipeline
}

// NewPipelineSet compiles the node and edge shaders against the given
// surface format, with alpha blending enabled on both (nodes and edges
// both render with soft anti-aliased edges via fragment discard/alpha).
func NewPipelineSet(device *wgpu.Device, surfaceFormat wgpu.TextureFormat) (*PipelineSet, error) {
	ps := &PipelineSet{device: device}

	var err error
	ps.nodeLayout, ps.nodePipe, err = compileRenderPipeline(device, "node", nodeShaderSource, surfaceFormat, 4, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, fmt.Errorf("render: compiling node pipeline: %w", err)
	}
	ps.edgeLayout, ps.edgePipe, err = compileRenderPipeline(device, "edge", edgeShaderSource, surfaceFormat, 6, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, fmt.Errorf("render: compiling edge pipeline: %w", err)
	}
	return ps, nil
}

func compileRenderPipeline(device *wgpu.Device, label, source string, surfaceFormat wgpu.TextureFormat, bindingCount int, topology wgpu.PrimitiveTopology) (*wgpu.BindGroupLayout, *wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      label + "_shader",
		WGSLSource: source,
	})
	if err != nil {
		return nil, nil, err
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, bindingCount)
	for i := 0; i < bindingCount; i++ {
		kind := wgpu.BufferBindingTypeStorage
		if i == 0 {
			kind = wgpu.BufferBindingTypeUniform
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: kind},
		})
	}
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + "_bgl",
		Entries: entries,
	})
	if err != nil {
		return nil, nil, err
	}
	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, nil, err
	}

	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    surfaceFormat,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return layout, pipeline, nil
}

// EncodeNodePass records the node draw call into pass: one 6-vertex
// instance per live node slot, binding the viewport uniform buffer and
// the position/attribute storage buffers.
func (ps *PipelineSet) EncodeNodePass(pass *wgpu.RenderPassEncoder, viewportUniform, posX, posY, nodeAttrs *wgpu.Buffer, nodeHighWater int) {
	if nodeHighWater <= 0 {
		return
	}
	bg, _ := ps.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "node_bg",
		Layout: ps.nodeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: viewportUniform, Size: viewportUniform.GetSize()},
			{Binding: 1, Buffer: posX, Size: posX.GetSize()},
			{Binding: 2, Buffer: posY, Size: posY.GetSize()},
			{Binding: 3, Buffer: nodeAttrs, Size: nodeAttrs.GetSize()},
		},
	})
	pass.SetPipeline(ps.nodePipe)
	pass.SetBindGroup(0, bg, nil)
	pass.Draw(6, uint32(nodeHighWater), 0, 0)
}

// EncodeEdgePass records the edge draw call into pass: one 6-vertex
// instance per live edge.
func (ps *PipelineSet) EncodeEdgePass(pass *wgpu.RenderPassEncoder, viewportUniform, posX, posY, edgeSources, edgeTargets, edgeAttrs *wgpu.Buffer, edgeCount int) {
	if edgeCount <= 0 {
		return
	}
	bg, _ := ps.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "edge_bg",
		Layout: ps.edgeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: viewportUniform, Size: viewportUniform.GetSize()},
			{Binding: 1, Buffer: posX, Size: posX.GetSize()},
			{Binding: 2, Buffer: posY, Size: posY.GetSize()},
			{Binding: 3, Buffer: edgeSources, Size: edgeSources.GetSize()},
			{Binding: 4, Buffer: edgeTargets, Size: edgeTargets.GetSize()},
			{Binding: 5, Buffer: edgeAttrs, Size: edgeAttrs.GetSize()},
		},
	})
	pass.SetPipeline(ps.edgePipe)
	pass.SetBindGroup(0, bg, nil)
	pass.Draw(6, uint32(edgeCount), 0, 0)
}

// Release frees both render pipelines' GPU objects.
func (ps *PipelineSet) Release() {
	ps.nodePipe.Release()
	ps.edgePipe.Release()
}
