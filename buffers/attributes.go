package buffers

import (
	"github.com/Carmen-Shannon/heroinegraph/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// AttributeBuffer is a single GPU storage buffer holding a flat
// float32 array (node or edge attribute records), re-uploaded in full
// whenever the CPU-side shadow array changes. Unlike PositionBufferManager
// it is not ping-ponged: attribute writes are rare relative to position
// integration, so a single buffer with a full-range upload is simpler and
// matches the teacher's plain create-then-queue.WriteBuffer flow in
// wgpuRendererBackendImpl rather than needing double-buffering.
type AttributeBuffer struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	label  string
	buf    *wgpu.Buffer
	size   uint64
}

// NewAttributeBuffer allocates a storage buffer sized for
// initialElementCount float32 elements.
func NewAttributeBuffer(device *wgpu.Device, queue *wgpu.Queue, label string, initialElementCount int) *AttributeBuffer {
	if initialElementCount < 1 {
		initialElementCount = 1
	}
	size := uint64(initialElementCount * 4)
	return &AttributeBuffer{
		device: device,
		queue:  queue,
		label:  label,
		buf:    mustCreateBuffer(device, label, size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst),
		size:   size,
	}
}

// Upload writes data in full, growing the backing buffer geometrically
// first if data no longer fits.
func (a *AttributeBuffer) Upload(data []float32) {
	needed := uint64(len(data) * 4)
	if needed > a.size {
		newSize := a.size
		for newSize < needed {
			newSize = uint64(float64(newSize) * 2)
		}
		a.buf.Release()
		a.buf = mustCreateBuffer(a.device, a.label, newSize, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
		a.size = newSize
	}
	if len(data) == 0 {
		return
	}
	a.queue.WriteBuffer(a.buf, 0, common.SliceToBytes(data))
}

// Buffer returns the current GPU buffer.
func (a *AttributeBuffer) Buffer() *wgpu.Buffer {
	return a.buf
}

// Release frees the GPU buffer.
func (a *AttributeBuffer) Release() {
	a.buf.Release()
}

// EndpointBuffer holds the flat per-edge source/target slot arrays (as
// opposed to EdgeBufferManager's CSR, which is adjacency-indexed). Both
// the spring compute pass and the edge render pipeline address edges
// directly by edge index, so they read this flat representation rather
// than the CSR.
type EndpointBuffer struct {
	device  *wgpu.Device
	queue   *wgpu.Queue
	sources *wgpu.Buffer
	targets *wgpu.Buffer
	size    uint64
}

// NewEndpointBuffer allocates flat source/target buffers sized for
// initialEdgeCount edges.
func NewEndpointBuffer(device *wgpu.Device, queue *wgpu.Queue, initialEdgeCount int) *EndpointBuffer {
	if initialEdgeCount < 1 {
		initialEdgeCount = 1
	}
	size := uint64(initialEdgeCount * 4)
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	return &EndpointBuffer{
		device:  device,
		queue:   queue,
		sources: mustCreateBuffer(device, "edge_sources_flat", size, usage),
		targets: mustCreateBuffer(device, "edge_targets_flat", size, usage),
		size:    size,
	}
}

// Upload writes the flat source/target slot arrays in full, growing the
// backing buffers geometrically first if needed.
func (e *EndpointBuffer) Upload(sources, targets []int32) {
	needed := uint64(len(sources) * 4)
	if needed > e.size {
		newSize := e.size
		for newSize < needed {
			newSize = uint64(float64(newSize) * 2)
		}
		usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		e.sources.Release()
		e.targets.Release()
		e.sources = mustCreateBuffer(e.device, "edge_sources_flat", newSize, usage)
		e.targets = mustCreateBuffer(e.device, "edge_targets_flat", newSize, usage)
		e.size = newSize
	}
	if len(sources) == 0 {
		return
	}
	e.queue.WriteBuffer(e.sources, 0, common.SliceToBytes(int32ToUint32(sources)))
	e.queue.WriteBuffer(e.targets, 0, common.SliceToBytes(int32ToUint32(targets)))
}

func int32ToUint32(data []int32) []uint32 {
	out := make([]uint32, len(data))
	for i, v := range data {
		out[i] = uint32(v)
	}
	return out
}

// Buffers returns the current flat source/target GPU buffers.
func (e *EndpointBuffer) Buffers() (sources, targets *wgpu.Buffer) {
	return e.sources, e.targets
}

// Release frees both GPU buffers.
func (e *EndpointBuffer) Release() {
	e.sources.Release()
	e.targets.Release()
}
