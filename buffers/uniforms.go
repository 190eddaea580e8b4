package buffers

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// uniformBuffer is the shared dirty-flag-plus-lazy-upload wrapper every
// typed uniform block below embeds. Grounded directly on
// engine/renderer/bind_group_provider's BufferWrite pattern: a binding
// paired with raw bytes, uploaded through queue.WriteBuffer only when
// the value has actually changed since the last frame.
type uniformBuffer struct {
	buf   *wgpu.Buffer
	dirty bool
}

func newUniformBuffer(device *wgpu.Device, label string, byteSize uint64) uniformBuffer {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  byteSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return uniformBuffer{buf: buf, dirty: true}
}

// flush uploads bytes if dirty and clears the flag. Returns whether an
// upload happened.
func (u *uniformBuffer) flush(queue *wgpu.Queue, bytes []byte) bool {
	if !u.dirty {
		return false
	}
	queue.WriteBuffer(u.buf, 0, bytes)
	u.dirty = false
	return true
}

func (u *uniformBuffer) markDirty() { u.dirty = true }

func (u *uniformBuffer) Buffer() *wgpu.Buffer { return u.buf }

func (u *uniformBuffer) Release() { u.buf.Release() }

func putF32(b []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(b[offset:], math.Float32bits(v))
}

// SimulationUniforms mirrors the 12xf32 binary layout fixed by spec.md
// §6: repulsion, attraction, gravity, centerX, centerY, linkDistance,
// theta, alpha, velocityDecay, nodeCount, edgeCount, dt — padded to 48
// bytes total.
type SimulationUniforms struct {
	uniformBuffer
	Repulsion      float32
	Attraction     float32
	Gravity        float32
	CenterX        float32
	CenterY        float32
	LinkDistance   float32
	Theta          float32
	Alpha          float32
	VelocityDecay  float32
	NodeCount      float32
	EdgeCount      float32
	Dt             float32
}

// NewSimulationUniforms allocates the GPU-backed simulation uniform
// block.
func NewSimulationUniforms(device *wgpu.Device) *SimulationUniforms {
	return &SimulationUniforms{uniformBuffer: newUniformBuffer(device, "simulation-uniforms", 48)}
}

// Marshal writes the 48-byte little-endian layout, per spec.md §6.
func (s *SimulationUniforms) Marshal() []byte {
	out := make([]byte, 48)
	putF32(out, 0, s.Repulsion)
	putF32(out, 4, s.Attraction)
	putF32(out, 8, s.Gravity)
	putF32(out, 12, s.CenterX)
	putF32(out, 16, s.CenterY)
	putF32(out, 20, s.LinkDistance)
	putF32(out, 24, s.Theta)
	putF32(out, 28, s.Alpha)
	putF32(out, 32, s.VelocityDecay)
	putF32(out, 36, s.NodeCount)
	putF32(out, 40, s.EdgeCount)
	putF32(out, 44, s.Dt)
	return out
}

// MarkDirty flags the block for re-upload on the next Flush.
func (s *SimulationUniforms) MarkDirty() { s.markDirty() }

// Flush uploads the marshaled block if dirty.
func (s *SimulationUniforms) Flush(queue *wgpu.Queue) bool {
	return s.flush(queue, s.Marshal())
}

// ViewportUniforms mirrors spec.md §6's viewport layout: a 3x3
// graph→clip matrix (columns, 9xf32 = 36 bytes) followed by
// (screenW, screenH, scale, invScale, dpr, pad0, pad1, pad2) = 8xf32,
// totalling 48+20=... the spec's external-interfaces section describes
// this as "4x3 matrix columns" meaning the 3x3 matrix is stored with
// vec4 column padding for std140 alignment (4 floats/column x 3 columns
// = 48 bytes), followed by the 8xf32 scalar tail, for 80 bytes total.
type ViewportUniforms struct {
	uniformBuffer
	GraphToClip [9]float32
	ScreenW     float32
	ScreenH     float32
	Scale       float32
	InvScale    float32
	Dpr         float32
}

// NewViewportUniforms allocates the GPU-backed viewport uniform block.
func NewViewportUniforms(device *wgpu.Device) *ViewportUniforms {
	return &ViewportUniforms{uniformBuffer: newUniformBuffer(device, "viewport-uniforms", 80)}
}

// Marshal writes the std140-padded 3x3-matrix-plus-scalars layout.
func (v *ViewportUniforms) Marshal() []byte {
	out := make([]byte, 80)
	for col := 0; col < 3; col++ {
		base := col * 16
		putF32(out, base+0, v.GraphToClip[col*3+0])
		putF32(out, base+4, v.GraphToClip[col*3+1])
		putF32(out, base+8, v.GraphToClip[col*3+2])
		// out[base+12:base+16] is std140 column padding, left zero.
	}
	tail := 48
	putF32(out, tail+0, v.ScreenW)
	putF32(out, tail+4, v.ScreenH)
	putF32(out, tail+8, v.Scale)
	putF32(out, tail+12, v.InvScale)
	putF32(out, tail+16, v.Dpr)
	return out
}

// MarkDirty flags the block for re-upload on the next Flush.
func (v *ViewportUniforms) MarkDirty() { v.markDirty() }

// Flush uploads the marshaled block if dirty.
func (v *ViewportUniforms) Flush(queue *wgpu.Queue) bool {
	return v.flush(queue, v.Marshal())
}

// BorderConfig is the render-config's border sub-block.
type BorderConfig struct {
	Enabled bool
	Width   float32
	R, G, B float32
}

// RenderConfigUniforms mirrors spec.md §4.2's render config block:
// selection color + ring width, hover brightness, border
// {enabled,width,color}, animation clock and pulse parameters.
type RenderConfigUniforms struct {
	uniformBuffer
	SelectionR, SelectionG, SelectionB float32
	SelectionRingWidth                 float32
	HoverBrightness                    float32
	Border                             BorderConfig
	AnimationClock                     float32
	PulseSpeed                         float32
	PulseAmplitude                     float32
}

// NewRenderConfigUniforms allocates the GPU-backed render config block.
func NewRenderConfigUniforms(device *wgpu.Device) *RenderConfigUniforms {
	return &RenderConfigUniforms{uniformBuffer: newUniformBuffer(device, "render-config-uniforms", 48)}
}

// Marshal writes the render config layout.
func (r *RenderConfigUniforms) Marshal() []byte {
	out := make([]byte, 48)
	putF32(out, 0, r.SelectionR)
	putF32(out, 4, r.SelectionG)
	putF32(out, 8, r.SelectionB)
	putF32(out, 12, r.SelectionRingWidth)
	putF32(out, 16, r.HoverBrightness)
	borderEnabled := float32(0)
	if r.Border.Enabled {
		borderEnabled = 1
	}
	putF32(out, 20, borderEnabled)
	putF32(out, 24, r.Border.Width)
	putF32(out, 28, r.Border.R)
	putF32(out, 32, r.Border.G)
	putF32(out, 36, r.Border.B)
	putF32(out, 40, r.AnimationClock)
	putF32(out, 44, r.PulseSpeed)
	return out
}

// MarkDirty flags the block for re-upload on the next Flush.
func (r *RenderConfigUniforms) MarkDirty() { r.markDirty() }

// Flush uploads the marshaled block if dirty.
func (r *RenderConfigUniforms) Flush(queue *wgpu.Queue) bool {
	return r.flush(queue, r.Marshal())
}

// EdgeFlowLayer is one of the two independent PWM flow layers of the
// edge-flow uniform block: 12xf32 per spec.md §6. The edge shader in
// render does not bind this block.
type EdgeFlowLayer struct {
	Enabled    bool
	PulseWidth float32
	PulseCount float32
	Speed      float32
	WaveShape  float32 // 0=square, 1=triangle, 2=sine
	Brightness float32
	Fade       float32
	R, G, B    float32
	HasColor   bool
}

// EdgeFlowUniforms mirrors spec.md §6's edge-flow layout: two 12xf32
// layer blocks followed by a monotone time value plus padding (4xf32),
// 12*4*2 + 4*4 = 96 + 16 = 112 bytes of fields, padded with trailing
// zero floats to a 128-byte block.
type EdgeFlowUniforms struct {
	uniformBuffer
	Layers [2]EdgeFlowLayer
	Time   float32
}

// NewEdgeFlowUniforms allocates the GPU-backed edge-flow uniform block.
func NewEdgeFlowUniforms(device *wgpu.Device) *EdgeFlowUniforms {
	return &EdgeFlowUniforms{uniformBuffer: newUniformBuffer(device, "edge-flow-uniforms", 128)}
}

// Marshal writes the two-layer-plus-time layout.
func (e *EdgeFlowUniforms) Marshal() []byte {
	out := make([]byte, 128)
	for i, l := range e.Layers {
		base := i * 48
		enabled := float32(0)
		if l.Enabled {
			enabled = 1
		}
		hasColor := float32(0)
		if l.HasColor {
			hasColor = 1
		}
		putF32(out, base+0, enabled)
		putF32(out, base+4, l.PulseWidth)
		putF32(out, base+8, l.PulseCount)
		putF32(out, base+12, l.Speed)
		putF32(out, base+16, l.WaveShape)
		putF32(out, base+20, l.Brightness)
		putF32(out, base+24, l.Fade)
		putF32(out, base+28, l.R)
		putF32(out, base+32, l.G)
		putF32(out, base+36, l.B)
		putF32(out, base+40, hasColor)
	}
	putF32(out, 96, e.Time)
	return out
}

// MarkDirty flags the block for re-upload on the next Flush.
func (e *EdgeFlowUniforms) MarkDirty() { e.markDirty() }

// Flush uploads the marshaled block if dirty.
func (e *EdgeFlowUniforms) Flush(queue *wgpu.Queue) bool {
	return e.flush(queue, e.Marshal())
}
