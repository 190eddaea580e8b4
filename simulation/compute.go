package simulation

import (
	"fmt"

	"github.com/Carmen-Shannon/heroinegraph/buffers"
	"github.com/cogentcore/webgpu/wgpu"
)

// Passes owns the four compute pipelines (repulsion, spring, gravity,
// integration), the scratch force/velocity/grid buffers they share, and
// encodes one tick's dispatch sequence into a command encoder. Grounded
// on the adapter/device/pipeline acquisition dance in the teacher's
// engine/renderer/wgpu_renderer_backend.go RegisterComputePipeline, but
// built directly against wgpu rather than through the reflected
// shader/bind_group_provider machinery, since the binding layout here is
// fixed and known at compile time.
type Passes struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	repulsion   *wgpu.ComputePipeline
	spring      *wgpu.ComputePipeline
	gravity     *wgpu.ComputePipeline
	integration *wgpu.ComputePipeline

	repulsionLayout   *wgpu.BindGroupLayout
	springLayout      *wgpu.BindGroupLayout
	gravityLayout     *wgpu.BindGroupLayout
	integrationLayout *wgpu.BindGroupLayout

	forceX, forceY *wgpu.Buffer
	velX, velY     *wgpu.Buffer
	gridCellStart  *wgpu.Buffer
	gridCellNodes  *wgpu.Buffer

	capacity int
}

// NewPasses compiles the four simulation shaders and allocates the
// scratch buffers sized for initialCapacity nodes.
func NewPasses(device *wgpu.Device, queue *wgpu.Queue, initialCapacity int) (*Passes, error) {
	p := &Passes{device: device, queue: queue}

	var err error
	p.repulsionLayout, p.repulsion, err = compileComputePipeline(device, "repulsion", repulsionShaderSource, 7)
	if err != nil {
		return nil, fmt.Errorf("simulation: compiling repulsion pass: %w", err)
	}
	p.springLayout, p.spring, err = compileComputePipeline(device, "spring", springShaderSource, 7)
	if err != nil {
		return nil, fmt.Errorf("simulation: compiling spring pass: %w", err)
	}
	p.gravityLayout, p.gravity, err = compileComputePipeline(device, "gravity", gravityShaderSource, 5)
	if err != nil {
		return nil, fmt.Errorf("simulation: compiling gravity pass: %w", err)
	}
	p.integrationLayout, p.integration, err = compileComputePipeline(device, "integration", integrationShaderSource, 10)
	if err != nil {
		return nil, fmt.Errorf("simulation: compiling integration pass: %w", err)
	}

	p.allocateScratch(initialCapacity)
	return p, nil
}

func compileComputePipeline(device *wgpu.Device, label, source string, bindingCount int) (*wgpu.BindGroupLayout, *wgpu.ComputePipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + "_shader",
		WGSLSource:     source,
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
			Visibility: wgpu.ShaderStageCompute,
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
	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return layout, pipeline, nil
}

func (p *Passes) allocateScratch(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	p.forceX = mustCreateScratchBuffer(p.device, "force_x", uint64(capacity*4), usage)
	p.forceY = mustCreateScratchBuffer(p.device, "force_y", uint64(capacity*4), usage)
	p.velX = mustCreateScratchBuffer(p.device, "vel_x", uint64(capacity*4), usage)
	p.velY = mustCreateScratchBuffer(p.device, "vel_y", uint64(capacity*4), usage)
	gridCells := uint64(64 * 64)
	p.gridCellStart = mustCreateScratchBuffer(p.device, "grid_cell_start", (gridCells+1)*4, usage)
	p.gridCellNodes = mustCreateScratchBuffer(p.device, "grid_cell_nodes", uint64(capacity*4), usage)
	p.capacity = capacity
}

func mustCreateScratchBuffer(device *wgpu.Device, label string, size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		panic(fmt.Sprintf("simulation: creating scratch buffer %s: %v", label, err))
	}
	return buf
}

// EnsureCapacity grows the scratch buffers to at least capacity nodes,
// matching the growth the buffer substrate applies to position/attribute
// arrays.
func (p *Passes) EnsureCapacity(capacity int) {
	if capacity <= p.capacity {
		return
	}
	newCap := p.capacity
	for newCap < capacity {
		newCap *= 2
	}
	p.forceX.Release()
	p.forceY.Release()
	p.velX.Release()
	p.velY.Release()
	p.gridCellNodes.Release()
	p.allocateScratch(newCap)
}

// BuildUniformGrid rebuilds the CPU-side bucket assignment for the
// uniform-grid repulsion cutoff and uploads it. Cell layout matches
// cellIndex in repulsionShaderSource: a fixed 64x64 grid over graph
// space, bucketed at a 100-unit cell size.
func (p *Passes) BuildUniformGrid(xs, ys []float32, nodeHighWater int) {
	const gridDim = 64
	cellOf := func(x, y float32) int {
		cx := int(x*0.01 + gridDim*0.5)
		cy := int(y*0.01 + gridDim*0.5)
		if cx < 0 {
			cx = 0
		}
		if cx >= gridDim {
			cx = gridDim - 1
		}
		if cy < 0 {
			cy = 0
		}
		if cy >= gridDim {
			cy = gridDim - 1
		}
		return cy*gridDim + cx
	}

	counts := make([]uint32, gridDim*gridDim+1)
	cellOfNode := make([]int, nodeHighWater)
	for i := 0; i < nodeHighWater; i++ {
		c := cellOf(xs[i], ys[i])
		cellOfNode[i] = c
		counts[c+1]++
	}
	for i := 0; i < gridDim*gridDim; i++ {
		counts[i+1] += counts[i]
	}
	cursor := make([]uint32, gridDim*gridDim)
	copy(cursor, counts[:gridDim*gridDim])
	nodes := make([]uint32, nodeHighWater)
	for i := 0; i < nodeHighWater; i++ {
		c := cellOfNode[i]
		nodes[cursor[c]] = uint32(i)
		cursor[c]++
	}

	p.queue.WriteBuffer(p.gridCellStart, 0, uint32SliceToBytes(counts))
	if nodeHighWater > 0 {
		p.queue.WriteBuffer(p.gridCellNodes, 0, uint32SliceToBytes(nodes))
	}
}

func uint32SliceToBytes(data []uint32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		out[i*4+0] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	return out
}

// Release frees every scratch buffer and the compute pipelines' layouts.
func (p *Passes) Release() {
	p.forceX.Release()
	p.forceY.Release()
	p.velX.Release()
	p.velY.Release()
	p.gridCellStart.Release()
	p.gridCellNodes.Release()
}

// Encode records the repulsion, spring, gravity and integration compute
// dispatches for one tick into encoder, reading node count/edge count
// from the given graph sizes, the ping-pong position buffers and the flat
// edge endpoint buffers from the buffer substrate. pinnedBuf is the
// GPU-resident copy of the pin
// bitset.
func (p *Passes) Encode(
	encoder *wgpu.CommandEncoder,
	uniformBuf *wgpu.Buffer,
	positions *buffers.PositionBufferManager,
	endpoints *buffers.EndpointBuffer,
	pinnedBuf *wgpu.Buffer,
	nodeCount, edgeCount int,
) {
	readX, readY := positions.GetReadBuffers()
	writeX, writeY := positions.GetWriteBuffers()
	sources, targets := endpoints.Buffers()

	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "simulation_tick"})

	repulsionBG, _ := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "repulsion_bg",
		Layout: p.repulsionLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: uniformBuf.GetSize()},
			{Binding: 1, Buffer: readX, Size: readX.GetSize()},
			{Binding: 2, Buffer: readY, Size: readY.GetSize()},
			{Binding: 3, Buffer: p.forceX, Size: p.forceX.GetSize()},
			{Binding: 4, Buffer: p.forceY, Size: p.forceY.GetSize()},
			{Binding: 5, Buffer: p.gridCellStart, Size: p.gridCellStart.GetSize()},
			{Binding: 6, Buffer: p.gridCellNodes, Size: p.gridCellNodes.GetSize()},
		},
	})
	pass.SetPipeline(p.repulsion)
	pass.SetBindGroup(0, repulsionBG, nil)
	pass.DispatchWorkgroups(DispatchCounts(nodeCount), 1, 1)

	if edgeCount > 0 {
		springBG, _ := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "spring_bg",
			Layout: p.springLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: uniformBuf, Size: uniformBuf.GetSize()},
				{Binding: 1, Buffer: readX, Size: readX.GetSize()},
				{Binding: 2, Buffer: readY, Size: readY.GetSize()},
				{Binding: 3, Buffer: p.forceX, Size: p.forceX.GetSize()},
				{Binding: 4, Buffer: p.forceY, Size: p.forceY.GetSize()},
				{Binding: 5, Buffer: sources, Size: sources.GetSize()},
				{Binding: 6, Buffer: targets, Size: targets.GetSize()},
			},
		})
		pass.SetPipeline(p.spring)
		pass.SetBindGroup(0, springBG, nil)
		pass.DispatchWorkgroups(DispatchCounts(edgeCount), 1, 1)
	}

	gravityBG, _ := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "gravity_bg",
		Layout: p.gravityLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: uniformBuf.GetSize()},
			{Binding: 1, Buffer: readX, Size: readX.GetSize()},
			{Binding: 2, Buffer: readY, Size: readY.GetSize()},
			{Binding: 3, Buffer: p.forceX, Size: p.forceX.GetSize()},
			{Binding: 4, Buffer: p.forceY, Size: p.forceY.GetSize()},
		},
	})
	pass.SetPipeline(p.gravity)
	pass.SetBindGroup(0, gravityBG, nil)
	pass.DispatchWorkgroups(DispatchCounts(nodeCount), 1, 1)

	integrationBG, _ := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "integration_bg",
		Layout: p.integrationLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: uniformBuf.GetSize()},
			{Binding: 1, Buffer: readX, Size: readX.GetSize()},
			{Binding: 2, Buffer: readY, Size: readY.GetSize()},
			{Binding: 3, Buffer: writeX, Size: writeX.GetSize()},
			{Binding: 4, Buffer: writeY, Size: writeY.GetSize()},
			{Binding: 5, Buffer: p.forceX, Size: p.forceX.GetSize()},
			{Binding: 6, Buffer: p.forceY, Size: p.forceY.GetSize()},
			{Binding: 7, Buffer: p.velX, Size: p.velX.GetSize()},
			{Binding: 8, Buffer: p.velY, Size: p.velY.GetSize()},
			{Binding: 9, Buffer: pinnedBuf, Size: pinnedBuf.GetSize()},
		},
	})
	pass.SetPipeline(p.integration)
	pass.SetBindGroup(0, integrationBG, nil)
	pass.DispatchWorkgroups(DispatchCounts(nodeCount), 1, 1)

	pass.End()
}
