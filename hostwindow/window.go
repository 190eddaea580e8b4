// Package hostwindow provides the GLFW-backed host window that feeds a
// *graph.Graph with a surface descriptor and a normalized pointer event
// stream. Grounded on the teacher's engine/window package: the same
// functional-options builder, the same internalWindow/platform* split,
// generalized from the teacher's game-camera callback set (scroll ->
// zoom, WASD -> fly camera) down to the single interaction.PointerEvent
// shape the graph engine's interaction.Manager expects.
package hostwindow

import "github.com/cogentcore/webgpu/wgpu"

// Window is the platform windowing surface a host application drives a
// *graph.Graph from. Only GLFW is implemented (window_glfw.go); the
// interface exists so callers can substitute a test double without a
// real display.
type Window interface {
	// SetPointerCallback sets the function called for every pointer
	// event (move, button down/up, wheel), already normalized into the
	// interaction package's event shape.
	SetPointerCallback(callback func(ev PointerEvent))

	// SetResizeCallback sets the function called when the window's
	// framebuffer is resized, in pixels.
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns the wgpu.SurfaceDescriptor for this
	// window, suitable for graph.NewGraph.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	Close() error

	// PollEvents processes one iteration of the platform message queue
	// without blocking. Callers drive their own frame loop around it.
	PollEvents()

	// Width and Height report the current framebuffer size in pixels.
	Width() int
	Height() int
}

// PointerEvent mirrors interaction.PointerEvent's fields without
// importing the interaction package from here, so hostwindow stays
// usable by anything that wants raw pointer events without pulling in
// the whole graph engine. cmd/demo converts one to the other.
type PointerEvent struct {
	Kind       PointerEventKind
	X, Y       float32
	WheelDelta float32
	Shift      bool
	Control    bool
	Alt        bool
}

// PointerEventKind identifies what happened to the pointer.
type PointerEventKind int

const (
	PointerMove PointerEventKind = iota
	PointerDown
	PointerUp
	PointerWheel
)

// glfwWindow is the GLFW implementation of Window.
type glfwWindow struct {
	title         string
	width, height int
	minWidth      int
	minHeight     int
	maxWidth      int
	maxHeight     int

	internalWindow any

	onPointer func(ev PointerEvent)
	onResize  func(width, height int)

	shiftDown, controlDown, altDown bool
}

var _ Window = &glfwWindow{}

// New creates a GLFW-backed Window with the given options applied over
// the builder's defaults, then opens the platform window immediately
// (matching the teacher's NewWindow: construction and platform creation
// are not split into separate steps).
func New(opts ...Option) (Window, error) {
	w := &glfwWindow{
		title:     "HeroineGraph",
		width:     1280,
		height:    800,
		minWidth:  200,
		minHeight: 200,
		maxWidth:  7680,
		maxHeight: 4320,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *glfwWindow) SetPointerCallback(callback func(ev PointerEvent)) {
	w.onPointer = callback
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *glfwWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *glfwWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *glfwWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *glfwWindow) Width() int  { return w.width }
func (w *glfwWindow) Height() int { return w.height }

func (w *glfwWindow) modifiers() (shift, control, alt bool) {
	return w.shiftDown, w.controlDown, w.altDown
}
