package graph

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// ReadbackPositions copies the current GPU-resident node positions back
// to the host, the one external operation spec.md §5 allows to await a
// queue submission and a map-async round trip rather than returning
// synchronously. Used by embedders that want to persist a snapshot of
// the settled layout without re-deriving it from graphstate's CPU-side
// mirror, which already tracks pre-upload values but not whatever the
// integration compute pass has since written GPU-side.
func (g *Graph) ReadbackPositions() ([]float32, []float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := g.state.NodeHighWater()
	if count == 0 {
		return nil, nil, nil
	}

	device, queue := g.gpu.Device(), g.gpu.Queue()
	byteSize := uint64(count) * 4
	readX, readY := g.positions.GetReadBuffers()

	stagingX, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback-positions-x",
		Size:  byteSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	defer stagingX.Release()

	stagingY, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback-positions-y",
		Size:  byteSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	defer stagingY.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	encoder.CopyBufferToBuffer(readX, 0, stagingX, 0, byteSize)
	encoder.CopyBufferToBuffer(readY, 0, stagingY, 0, byteSize)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	queue.Submit(cmd)

	xs, err := mapBufferFloats(device, stagingX, count)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	ys, err := mapBufferFloats(device, stagingY, count)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: readback positions: %w", err)
	}
	return xs, ys, nil
}

// mapBufferFloats maps buf for host reading, blocking on device.Poll
// until the async map callback fires, decodes count little-endian
// float32s out of the mapped range, and unmaps before returning.
func mapBufferFloats(device *wgpu.Device, buf *wgpu.Buffer, count int) ([]float32, error) {
	byteSize := uint64(count) * 4
	mapped := make(chan error, 1)
	buf.MapAsync(wgpu.MapModeRead, 0, byteSize, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapped <- fmt.Errorf("mapping buffer: status %v", status)
			return
		}
		mapped <- nil
	})
	device.Poll(true, nil)
	if err := <-mapped; err != nil {
		return nil, err
	}
	defer buf.Unmap()

	raw := buf.GetMappedRange(0, byteSize)
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out, nil
}
