package buffers

import (
	"github.com/Carmen-Shannon/heroinegraph/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// PositionBufferManager owns two PingPongPairs — X and Y are kept in
// separate buffers (SoA) for cache-friendly access inside the repulsion
// and spring compute kernels, which in the reference layout stride
// sequentially over one axis per pass. Resizable, never shrinks.
type PositionBufferManager struct {
	device   *wgpu.Device
	queue    *wgpu.Queue
	capacity int
	x, y     *PingPongPair
}

// NewPositionBufferManager allocates X/Y ping-pong pairs sized for
// initialCapacity float32 positions each.
func NewPositionBufferManager(device *wgpu.Device, queue *wgpu.Queue, initialCapacity int) *PositionBufferManager {
	byteSize := uint64(initialCapacity) * 4
	return &PositionBufferManager{
		device:   device,
		queue:    queue,
		capacity: initialCapacity,
		x:        NewPingPongPair(device, "positions-x", byteSize, 0),
		y:        NewPingPongPair(device, "positions-y", byteSize, 0),
	}
}

// Upload overwrites the full X/Y buffers. xs and ys must have identical
// length; nothing here checks it. The orchestrator passes graphstate's
// own X/Y position arrays, which always have equal length.
func (m *PositionBufferManager) Upload(xs, ys []float32) {
	m.x.WriteToRead(m.queue, common.SliceToBytes(xs))
	m.y.WriteToRead(m.queue, common.SliceToBytes(ys))
	// Mirror onto the write side too so a swap before the next mutation
	// doesn't momentarily expose stale data.
	m.queue.WriteBuffer(m.x.GetWrite(), 0, common.SliceToBytes(xs))
	m.queue.WriteBuffer(m.y.GetWrite(), 0, common.SliceToBytes(ys))
}

// PatchRange uploads a partial update for incremental mutations,
// starting at node slot offset, to both ping-pong sides of both axes.
func (m *PositionBufferManager) PatchRange(offset int, xs, ys []float32) {
	byteOffset := uint64(offset) * 4
	m.x.PatchRange(m.queue, byteOffset, common.SliceToBytes(xs))
	m.y.PatchRange(m.queue, byteOffset, common.SliceToBytes(ys))
}

// Swap advances both the X and Y pairs together, after the integration
// compute pass has finished writing this tick's new positions.
func (m *PositionBufferManager) Swap() {
	m.x.Swap()
	m.y.Swap()
}

// GetReadBuffers returns the (x, y) buffers pipelines should bind as
// read-only input this pass.
func (m *PositionBufferManager) GetReadBuffers() (x, y *wgpu.Buffer) {
	return m.x.GetRead(), m.y.GetRead()
}

// GetWriteBuffers returns the (x, y) buffers the integration pass should
// bind as its write target this pass.
func (m *PositionBufferManager) GetWriteBuffers() (x, y *wgpu.Buffer) {
	return m.x.GetWrite(), m.y.GetWrite()
}

// Capacity returns the current node-slot capacity backing the buffers.
func (m *PositionBufferManager) Capacity() int { return m.capacity }

// Resize grows capacity (never shrinks) using copy=true to preserve
// existing contents via a GPU buffer-to-buffer copy, or copy=false to
// skip the copy when the caller is about to re-upload everything anyway
// (e.g. immediately after a `load` replace-all).
func (m *PositionBufferManager) Resize(encoder *wgpu.CommandEncoder, newCapacity int, copy bool) {
	if newCapacity <= m.capacity {
		return
	}
	newByteSize := uint64(newCapacity) * 4
	if copy {
		m.x.Resize(m.device, encoder, newByteSize)
		m.y.Resize(m.device, encoder, newByteSize)
	} else {
		m.x.Release()
		m.y.Release()
		m.x = NewPingPongPair(m.device, "positions-x", newByteSize, 0)
		m.y = NewPingPongPair(m.device, "positions-y", newByteSize, 0)
	}
	m.capacity = newCapacity
}

// Release destroys both underlying ping-pong pairs.
func (m *PositionBufferManager) Release() {
	m.x.Release()
	m.y.Release()
}
