// Package viewport implements the 2D pan/zoom viewport and the
// graph-space <-> screen-space <-> clip-space transforms the render
// pipeline set and interaction core both depend on. Generalized from the
// teacher's 3D orbit camera (engine/camera/camera_controller_impl.go) into
// a flat 2D affine viewport: no orbit, no perspective, just translation and
// uniform scale.
package viewport

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/heroinegraph/common"
)

const (
	defaultMinScale = 0.01
	defaultMaxScale = 100.0
	defaultPanSpeed = 1.0
	defaultZoomSpeed = 0.1
)

// ChangeListener is notified whenever the viewport's transform changes.
// The top-level graph package wires this to fire a viewport:change event.
type ChangeListener func()

// Viewport holds the pan/zoom state for a single graph surface, mirroring
// cameraControllerImpl's mutex-guarded field shape.
type Viewport struct {
	mu sync.RWMutex

	x, y  float32
	scale float32

	width, height int
	dpr           float32

	minScale, maxScale float32
	panSpeed, zoomSpeed float32

	onChange ChangeListener
}

// Option configures a Viewport at construction time.
type Option func(*Viewport)

// WithBounds sets the min/max allowed scale.
func WithBounds(minScale, maxScale float32) Option {
	return func(v *Viewport) {
		v.minScale = minScale
		v.maxScale = maxScale
	}
}

// WithSpeeds sets the pan and zoom sensitivity multipliers.
func WithSpeeds(panSpeed, zoomSpeed float32) Option {
	return func(v *Viewport) {
		v.panSpeed = panSpeed
		v.zoomSpeed = zoomSpeed
	}
}

// WithChangeListener registers a callback invoked after any mutation.
func WithChangeListener(fn ChangeListener) Option {
	return func(v *Viewport) { v.onChange = fn }
}

// New constructs a Viewport centered at the origin at unit scale for a
// surface of the given pixel size and device pixel ratio.
func New(width, height int, dpr float32, opts ...Option) *Viewport {
	v := &Viewport{
		scale:     1,
		width:     width,
		height:    height,
		dpr:       dpr,
		minScale:  defaultMinScale,
		maxScale:  defaultMaxScale,
		panSpeed:  defaultPanSpeed,
		zoomSpeed: defaultZoomSpeed,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Viewport) notify() {
	if v.onChange != nil {
		v.onChange()
	}
}

// Pan translates the viewport center by (dx, dy) screen pixels, scaled by
// panSpeed and the current zoom level.
func (v *Viewport) Pan(dx, dy float32) {
	v.mu.Lock()
	v.x -= dx * v.panSpeed / v.scale
	v.y -= dy * v.panSpeed / v.scale
	v.mu.Unlock()
	v.notify()
}

// ZoomAt multiplies the current scale by (1 + delta*zoomSpeed), clamped to
// [minScale, maxScale], keeping the graph-space point under (screenX,
// screenY) fixed on screen.
func (v *Viewport) ZoomAt(screenX, screenY, delta float32) {
	v.mu.Lock()
	beforeX, beforeY := v.screenToGraphLocked(screenX, screenY)

	newScale := v.scale * (1 + delta*v.zoomSpeed)
	if newScale < v.minScale {
		newScale = v.minScale
	}
	if newScale > v.maxScale {
		newScale = v.maxScale
	}
	v.scale = newScale

	afterX, afterY := v.screenToGraphLocked(screenX, screenY)
	v.x += beforeX - afterX
	v.y += beforeY - afterY
	v.mu.Unlock()
	v.notify()
}

// ZoomByFactor multiplies the current scale directly by factor (clamped to
// [minScale, maxScale]), keeping the graph-space point under (screenX,
// screenY) fixed on screen. Unlike ZoomAt — which scales a wheel delta by
// zoomSpeed for continuous gesture input — this takes the caller's factor
// literally, matching the external zoom(factor, cx?, cy?) operation.
func (v *Viewport) ZoomByFactor(screenX, screenY, factor float32) {
	v.mu.Lock()
	beforeX, beforeY := v.screenToGraphLocked(screenX, screenY)

	newScale := v.scale * factor
	if newScale < v.minScale {
		newScale = v.minScale
	}
	if newScale > v.maxScale {
		newScale = v.maxScale
	}
	v.scale = newScale

	afterX, afterY := v.screenToGraphLocked(screenX, screenY)
	v.x += beforeX - afterX
	v.y += beforeY - afterY
	v.mu.Unlock()
	v.notify()
}

// SetScale sets the absolute zoom scale, clamped to [minScale, maxScale].
func (v *Viewport) SetScale(scale float32) {
	v.mu.Lock()
	if scale < v.minScale {
		scale = v.minScale
	}
	if scale > v.maxScale {
		scale = v.maxScale
	}
	v.scale = scale
	v.mu.Unlock()
	v.notify()
}

// SetCenter sets the absolute graph-space point the viewport is centered
// on.
func (v *Viewport) SetCenter(x, y float32) {
	v.mu.Lock()
	v.x, v.y = x, y
	v.mu.Unlock()
	v.notify()
}

// Center returns the graph-space point the viewport is centered on.
func (v *Viewport) Center() (x, y float32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.x, v.y
}

// Scale returns the current zoom scale.
func (v *Viewport) Scale() float32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

// Resize updates the surface pixel size and device pixel ratio the
// viewport transforms against, called from the same resize path that
// reconfigures the gpucontext.Context.
func (v *Viewport) Resize(width, height int, dpr float32) {
	v.mu.Lock()
	v.width, v.height, v.dpr = width, height, dpr
	v.mu.Unlock()
	v.notify()
}

// GraphToClip computes the 3x3 column-major affine matrix mapping
// graph-space coordinates directly to WebGPU clip space ([-1, 1] on both
// axes, y flipped), replacing the teacher's LookAt+Perspective+Mul4 4x4
// pipeline with a single 2D affine composition.
func (v *Viewport) GraphToClip() [9]float32 {
	v.mu.RLock()
	x, y, scale, width, height := v.x, v.y, v.scale, v.width, v.height
	v.mu.RUnlock()

	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	var toOrigin, clipScale, flip, tmp, out [9]float32
	common.Identity3(toOrigin[:])
	toOrigin[6], toOrigin[7] = -x, -y

	common.Identity3(clipScale[:])
	clipScale[0] = 2 * scale / float32(width)
	clipScale[4] = 2 * scale / float32(height)

	common.Identity3(flip[:])
	flip[4] = -1

	common.Mul3(tmp[:], clipScale[:], toOrigin[:])
	common.Mul3(out[:], flip[:], tmp[:])
	return out
}

// ScreenToGraph converts a screen-space pixel coordinate (origin top-left)
// into graph space.
func (v *Viewport) ScreenToGraph(screenX, screenY float32) (x, y float32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.screenToGraphLocked(screenX, screenY)
}

func (v *Viewport) screenToGraphLocked(screenX, screenY float32) (x, y float32) {
	width, height := v.width, v.height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	ndcX := screenX/float32(width)*2 - 1
	ndcY := 1 - screenY/float32(height)*2

	clip := v.graphToClipLocked()
	var inv [9]float32
	if !common.Invert3(inv[:], clip[:]) {
		return v.x, v.y
	}
	return common.TransformPoint2D(inv[:], ndcX, ndcY)
}

func (v *Viewport) graphToClipLocked() [9]float32 {
	width, height := v.width, v.height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	var toOrigin, clipScale, flip, tmp, out [9]float32
	common.Identity3(toOrigin[:])
	toOrigin[6], toOrigin[7] = -v.x, -v.y

	common.Identity3(clipScale[:])
	clipScale[0] = 2 * v.scale / float32(width)
	clipScale[4] = 2 * v.scale / float32(height)

	common.Identity3(flip[:])
	flip[4] = -1

	common.Mul3(tmp[:], clipScale[:], toOrigin[:])
	common.Mul3(out[:], flip[:], tmp[:])
	return out
}

// GraphToScreen converts a graph-space coordinate into screen-space pixels
// (origin top-left), the inverse of ScreenToGraph.
func (v *Viewport) GraphToScreen(graphX, graphY float32) (screenX, screenY float32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	clip := v.graphToClipLocked()
	ndcX, ndcY := common.TransformPoint2D(clip[:], graphX, graphY)
	width, height := v.width, v.height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screenX = (ndcX + 1) / 2 * float32(width)
	screenY = (1 - ndcY) / 2 * float32(height)
	return screenX, screenY
}

// FitToBounds sets center and scale so that the axis-aligned graph-space
// box [minX,minY]-[maxX,maxY] is fully visible with the given pixel
// margin, used by the "fit view" external operation.
func (v *Viewport) FitToBounds(minX, minY, maxX, maxY float32, margin float32) {
	v.mu.Lock()
	width, height := v.width, v.height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	availW := float32(width) - 2*margin
	availH := float32(height) - 2*margin
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}
	scaleX := availW / spanX
	scaleY := availH / spanY
	scale := float32(math.Min(float64(scaleX), float64(scaleY)))
	if scale < v.minScale {
		scale = v.minScale
	}
	if scale > v.maxScale {
		scale = v.maxScale
	}
	v.scale = scale
	v.x = (minX + maxX) / 2
	v.y = (minY + maxY) / 2
	v.mu.Unlock()
	v.notify()
}
