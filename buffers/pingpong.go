// Package buffers implements the GPU buffer substrate: the ping-pong
// pair abstraction, the resizable SoA position manager, the resizable
// CSR edge manager, and dirty-flagged uniform buffer wrappers. Grounded
// on the teacher's buffer-creation/release discipline in
// engine/renderer/bind_group_provider and the InitMeshBuffers /
// queue.WriteBuffer flow in wgpu_renderer_backend.go, generalized from
// per-mesh vertex/index buffers into the position/CSR/uniform buffers a
// force-directed graph simulation needs.
package buffers

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PingPongPair is two storage buffers of identical layout with a
// selector naming which is the current "read" side. Used for node
// position buffers (and any other value the simulation engine writes
// one tick and reads the next) to avoid read/write hazards within a
// compute pass.
type PingPongPair struct {
	device *wgpu.Device
	label  string
	usage  wgpu.BufferUsage
	size   uint64
	bufs   [2]*wgpu.Buffer
	read   int
}

// NewPingPongPair allocates two buffers of byteSize bytes with the given
// usage flags (StorageUsage is OR'd in automatically).
func NewPingPongPair(device *wgpu.Device, label string, byteSize uint64, usage wgpu.BufferUsage) *PingPongPair {
	usage |= wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	p := &PingPongPair{device: device, label: label, usage: usage, size: byteSize}
	p.bufs[0] = mustCreateBuffer(device, label+"/0", byteSize, usage)
	p.bufs[1] = mustCreateBuffer(device, label+"/1", byteSize, usage)
	return p
}

func mustCreateBuffer(device *wgpu.Device, label string, size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(err)
	}
	return buf
}

// GetRead returns the buffer the next compute/render pass should bind as
// its read-only input.
func (p *PingPongPair) GetRead() *wgpu.Buffer { return p.bufs[p.read] }

// GetWrite returns the buffer the next compute pass should bind as its
// write target.
func (p *PingPongPair) GetWrite() *wgpu.Buffer { return p.bufs[1-p.read] }

// Swap flips which side is considered "read". Called once per
// simulation tick, after the integration pass has finished writing.
func (p *PingPongPair) Swap() { p.read = 1 - p.read }

// WriteToRead uploads bytes to the current read-side buffer, overwriting
// its full contents starting at offset 0. Used for full-graph loads.
func (p *PingPongPair) WriteToRead(queue *wgpu.Queue, bytes []byte) {
	queue.WriteBuffer(p.GetRead(), 0, bytes)
}

// PatchRange uploads bytes to both sides of the pair starting at
// byteOffset, so an incremental mutation's effect is visible regardless
// of which side the next pass reads — the position-edit flicker this
// avoids is called out explicitly in the data model's UpdateNode
// contract.
func (p *PingPongPair) PatchRange(queue *wgpu.Queue, byteOffset uint64, bytes []byte) {
	queue.WriteBuffer(p.bufs[0], byteOffset, bytes)
	queue.WriteBuffer(p.bufs[1], byteOffset, bytes)
}

// CopyReadToWrite records a GPU-side buffer-to-buffer copy from the
// current read side to the current write side, so the write side starts
// from the live contents without a CPU round-trip.
func (p *PingPongPair) CopyReadToWrite(encoder *wgpu.CommandEncoder) {
	encoder.CopyBufferToBuffer(p.GetRead(), 0, p.GetWrite(), 0, p.size)
}

// Resize grows the pair to newByteSize, preserving min(oldSize,
// newByteSize) bytes of both sides via a buffer-to-buffer copy issued
// through encoder before the old buffers are released. Never shrinks:
// a newByteSize smaller than the current size is a no-op.
func (p *PingPongPair) Resize(device *wgpu.Device, encoder *wgpu.CommandEncoder, newByteSize uint64) {
	if newByteSize <= p.size {
		return
	}
	keep := p.size

	newBufs := [2]*wgpu.Buffer{
		mustCreateBuffer(device, p.label+"/0", newByteSize, p.usage),
		mustCreateBuffer(device, p.label+"/1", newByteSize, p.usage),
	}
	for i := 0; i < 2; i++ {
		encoder.CopyBufferToBuffer(p.bufs[i], 0, newBufs[i], 0, keep)
	}
	for i := 0; i < 2; i++ {
		p.bufs[i].Release()
	}
	p.bufs = newBufs
	p.size = newByteSize
}

// ByteSize returns the current per-side allocation size in bytes.
func (p *PingPongPair) ByteSize() uint64 { return p.size }

// Release destroys both underlying GPU buffers.
func (p *PingPongPair) Release() {
	if p.bufs[0] != nil {
		p.bufs[0].Release()
	}
	if p.bufs[1] != nil {
		p.bufs[1].Release()
	}
}
