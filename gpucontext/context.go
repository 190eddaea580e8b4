// Package gpucontext owns the logical GPU device, the swapchain surface
// configuration and the canvas-format agreement every other GPU-facing
// component builds against. Grounded on the adapter/device acquisition
// and ConfigureSurface dance in the teacher's
// engine/renderer/wgpu_renderer_backend.go, stripped of MSAA and the
// depth/shadow attachments (graph rendering is flat 2D: no depth buffer,
// no shadow pass).
package gpucontext

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Error kinds surfaced from CreateContext, per the error taxonomy.
var (
	ErrUnsupported   = errors.New("gpucontext: no supported GPU backend")
	ErrAdapterDenied = errors.New("gpucontext: adapter request denied")
	ErrDeviceLost    = errors.New("gpucontext: device lost")
)

// RecoveryFunc is invoked when the device reports itself lost. The
// context releases nothing before calling it; the callback is
// responsible for rebuilding pipelines and buffers from the mutable
// graph state snapshot.
type RecoveryFunc func(reason error)

// Context holds the logical device, queue, surface and format agreement
// used by every GPU-facing component (buffer substrate, simulation
// engine, render pipeline set, command orchestrator).
type Context struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	dpr           float32
	width, height int

	onDeviceLost RecoveryFunc
}

// Options configures CreateContext.
type Options struct {
	// ForceFallbackAdapter requests a software adapter instead of a
	// discrete/integrated GPU.
	ForceFallbackAdapter bool
	// DevicePixelRatio scales the surface configuration's pixel
	// resolution relative to the logical width/height passed to Resize.
	// Defaults to 1 when zero.
	DevicePixelRatio float32
	// OnDeviceLost is invoked from the device's uncaptured-error
	// callback when the device is lost. May be nil.
	OnDeviceLost RecoveryFunc
}

// CreateContext requests an adapter and device compatible with surface
// and configures the surface at the given initial width/height. Errors
// distinguish ErrUnsupported (no modern GPU API) and ErrAdapterDenied;
// a device lost later is reported through Options.OnDeviceLost.
func CreateContext(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, opts Options) (*Context, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("%w: nil surface descriptor", ErrUnsupported)
	}

	dpr := opts.DevicePixelRatio
	if dpr == 0 {
		dpr = 1
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, ErrUnsupported
	}

	surface := instance.CreateSurface(surfaceDescriptor)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterDenied, err)
	}

	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 8

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "HeroineGraph Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterDenied, err)
	}

	ctx := &Context{
		instance:     instance,
		adapter:      adapter,
		device:       device,
		queue:        device.GetQueue(),
		surface:      surface,
		dpr:          dpr,
		onDeviceLost: opts.OnDeviceLost,
	}

	device.SetUncapturedErrorCallback(func(t wgpu.ErrorType, message string) {
		if t != wgpu.ErrorTypeDeviceLost {
			return
		}
		if ctx.onDeviceLost != nil {
			ctx.onDeviceLost(fmt.Errorf("%w: %s", ErrDeviceLost, message))
		}
	})

	ctx.configureSurface(width, height)
	return ctx, nil
}

// configureSurface reconfigures the surface at width*dpr x height*dpr.
// Caller must hold ctx.mu.
func (c *Context) configureSurface(width, height int) {
	caps := c.surface.GetCapabilities(c.adapter)
	c.surfaceFormat = caps.Formats[0]

	pw := int(float32(width) * c.dpr)
	ph := int(float32(height) * c.dpr)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}

	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(pw),
		Height:      uint32(ph),
		PresentMode: wgpu.PresentModeImmediate,
		AlphaMode:   caps.AlphaModes[0],
	})
	c.width, c.height = pw, ph
}

// Resize reconfigures the surface at pixel resolution
// width*dpr x height*dpr, per spec.md §4.1.
func (c *Context) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configureSurface(width, height)
}

// Device returns the logical GPU device.
func (c *Context) Device() *wgpu.Device { return c.device }

// Queue returns the device's command queue.
func (c *Context) Queue() *wgpu.Queue { return c.queue }

// Surface returns the configured drawing surface.
func (c *Context) Surface() *wgpu.Surface { return c.surface }

// SurfaceFormat returns the negotiated swapchain color format.
func (c *Context) SurfaceFormat() wgpu.TextureFormat { return c.surfaceFormat }

// DevicePixelRatio returns the configured device pixel ratio.
func (c *Context) DevicePixelRatio() float32 { return c.dpr }

// PixelSize returns the current surface size in physical pixels.
func (c *Context) PixelSize() (width, height int) { return c.width, c.height }

// Destroy releases all device-owned resources.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device != nil {
		c.device.Destroy()
	}
}
