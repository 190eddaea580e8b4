package buffers

import (
	"github.com/Carmen-Shannon/heroinegraph/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// CSR is a compressed-sparse-row adjacency representation:
// offsets[n+1] and targets[edgeCount], with targets[offsets[i]:offsets[i+1]]
// the neighbors of node i. Held both as a CPU shadow (exposed through
// EdgeBufferManager.ForwardCSR) and, once uploaded, as GPU storage
// buffers.
type CSR struct {
	Offsets []uint32
	Targets []uint32
	Weights []float32
}

// RebuildCSR is a pure function of (sources, targets, nodeHighWater): it
// produces the forward CSR deterministically from the dense edge arrays.
// Building it twice from the same inputs yields identical arrays, the
// property spec.md §8 requires.
func RebuildCSR(sources, targets []int32, nodeHighWater int) CSR {
	offsets := make([]uint32, nodeHighWater+1)
	for _, s := range sources {
		offsets[s+1]++
	}
	for i := 0; i < nodeHighWater; i++ {
		offsets[i+1] += offsets[i]
	}

	cursor := make([]uint32, nodeHighWater)
	copy(cursor, offsets[:nodeHighWater])

	out := make([]uint32, len(targets))
	for i, s := range sources {
		pos := cursor[s]
		out[pos] = uint32(targets[i])
		cursor[s]++
	}
	return CSR{Offsets: offsets, Targets: out}
}

// RebuildInverseCSR derives the inverse CSR (indexed by target, listing
// incident sources) deterministically from the same dense edge arrays.
func RebuildInverseCSR(sources, targets []int32, nodeHighWater int) CSR {
	return RebuildCSR(targets, sources, nodeHighWater)
}

// EdgeBufferManager holds the forward and inverse CSR as GPU storage
// buffers plus their CPU shadow copies, growing geometrically as the
// edge/node capacity grows. Mirrors the teacher's vertex/index buffer
// pair in InitMeshBuffers, generalized to two independently-sized CSR
// arrays instead of one mesh's vertex/index pair.
type EdgeBufferManager struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	forward CSR
	inverse CSR

	offsetsBuf        *wgpu.Buffer
	targetsBuf        *wgpu.Buffer
	invOffsetsBuf     *wgpu.Buffer
	invTargetsBuf     *wgpu.Buffer
	offsetsCapacity   int
	targetsCapacity   int
}

// NewEdgeBufferManager allocates empty CSR GPU buffers sized for the
// given initial node/edge capacities.
func NewEdgeBufferManager(device *wgpu.Device, queue *wgpu.Queue, nodeCapacity, edgeCapacity int) *EdgeBufferManager {
	m := &EdgeBufferManager{device: device, queue: queue}
	m.offsetsCapacity = nodeCapacity + 1
	m.targetsCapacity = edgeCapacity
	m.offsetsBuf = mustCreateBuffer(device, "csr-offsets", uint64(m.offsetsCapacity)*4, storageUsage())
	m.targetsBuf = mustCreateBuffer(device, "csr-targets", uint64(m.targetsCapacity)*4, storageUsage())
	m.invOffsetsBuf = mustCreateBuffer(device, "csr-inv-offsets", uint64(m.offsetsCapacity)*4, storageUsage())
	m.invTargetsBuf = mustCreateBuffer(device, "csr-inv-targets", uint64(m.targetsCapacity)*4, storageUsage())
	return m
}

func storageUsage() wgpu.BufferUsage {
	return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
}

// Rebuild recomputes forward and inverse CSR from the current dense edge
// arrays and node high-water mark, growing GPU buffers if necessary, then
// uploads both to the GPU. Called by the orchestrator's begin-frame step
// whenever graphstate.DirtyRanges.CSRDirty is set.
func (m *EdgeBufferManager) Rebuild(sources, targets []int32, nodeHighWater int) {
	m.forward = RebuildCSR(sources, targets, nodeHighWater)
	m.inverse = RebuildInverseCSR(sources, targets, nodeHighWater)

	m.ensureCapacity(nodeHighWater+1, len(targets))

	m.queue.WriteBuffer(m.offsetsBuf, 0, common.SliceToBytes(m.forward.Offsets))
	m.queue.WriteBuffer(m.targetsBuf, 0, common.SliceToBytes(m.forward.Targets))
	m.queue.WriteBuffer(m.invOffsetsBuf, 0, common.SliceToBytes(m.inverse.Offsets))
	m.queue.WriteBuffer(m.invTargetsBuf, 0, common.SliceToBytes(m.inverse.Targets))
}

// ensureCapacity grows the backing GPU buffers geometrically (>= 1.5x)
// when required exceeds the current allocation. Never shrinks.
func (m *EdgeBufferManager) ensureCapacity(requiredOffsets, requiredTargets int) {
	if requiredOffsets > m.offsetsCapacity {
		newCap := growTo(m.offsetsCapacity, requiredOffsets)
		m.offsetsBuf.Release()
		m.invOffsetsBuf.Release()
		m.offsetsBuf = mustCreateBuffer(m.device, "csr-offsets", uint64(newCap)*4, storageUsage())
		m.invOffsetsBuf = mustCreateBuffer(m.device, "csr-inv-offsets", uint64(newCap)*4, storageUsage())
		m.offsetsCapacity = newCap
	}
	if requiredTargets > m.targetsCapacity {
		newCap := growTo(m.targetsCapacity, requiredTargets)
		m.targetsBuf.Release()
		m.invTargetsBuf.Release()
		m.targetsBuf = mustCreateBuffer(m.device, "csr-targets", uint64(newCap)*4, storageUsage())
		m.invTargetsBuf = mustCreateBuffer(m.device, "csr-inv-targets", uint64(newCap)*4, storageUsage())
		m.targetsCapacity = newCap
	}
}

func growTo(current, required int) int {
	if current < 1 {
		current = 1
	}
	for current < required {
		grown := current * 3 / 2
		if grown <= current {
			grown = required
		}
		current = grown
	}
	return current
}

// ForwardBuffers returns the (offsets, targets) GPU buffers of the
// forward CSR. The simulation passes do not bind them; the spring pass
// reads the flat EndpointBuffer instead.
func (m *EdgeBufferManager) ForwardBuffers() (offsets, targets *wgpu.Buffer) {
	return m.offsetsBuf, m.targetsBuf
}

// InverseBuffers returns the (offsets, sources) GPU buffers of the
// inverse CSR, indexed by target.
func (m *EdgeBufferManager) InverseBuffers() (offsets, sources *wgpu.Buffer) {
	return m.invOffsetsBuf, m.invTargetsBuf
}

// ForwardCSR returns the CPU shadow of the forward CSR, for CPU-side
// readback.
func (m *EdgeBufferManager) ForwardCSR() CSR { return m.forward }

// Release destroys all four underlying GPU buffers.
func (m *EdgeBufferManager) Release() {
	m.offsetsBuf.Release()
	m.targetsBuf.Release()
	m.invOffsetsBuf.Release()
	m.invTargetsBuf.Release()
}
