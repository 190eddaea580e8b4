// Package interaction implements the pointer normalization and hit-test
// drag/pin semantics spec.md §4.9 describes. The host window
// (hostwindow.Window.SetPointerCallback, normalized from GLFW's per-button/
// per-axis callbacks in hostwindow) delivers one pointer stream, which the
// embedder converts into PointerEvent values for this package, rather than
// the several independent per-gesture callbacks the teacher wires directly
// into camera control.
package interaction

// PointerEventKind identifies what happened to the pointer.
type PointerEventKind int

const (
	PointerDown PointerEventKind = iota
	PointerMove
	PointerUp
	PointerWheel
)

// Modifier is a bitmask of keyboard modifiers held during a pointer
// event.
type Modifier uint8

const (
	ModifierShift Modifier = 1 << iota
	ModifierControl
	ModifierAlt
)

// PointerEvent is the single normalized event type every host pointer
// callback is translated into.
type PointerEvent struct {
	Kind      PointerEventKind
	PointerID int
	X, Y      float32
	WheelDelta float32
	Modifiers Modifier
}

// HitTester is implemented by anything that can resolve a screen-space
// point to a node slot: spatial.GridIndex, spatial.BruteForceHitTest
// wrapped in a closure, or an embedder-supplied equivalent.
type HitTester interface {
	HitTest(graphX, graphY, maxDistance float32) (slot int32, ok bool)
}

// ScreenToGrapher converts a screen-space pixel coordinate to graph
// space; satisfied by *viewport.Viewport.
type ScreenToGrapher interface {
	ScreenToGraph(screenX, screenY float32) (x, y float32)
}

// DragController receives drag lifecycle calls to reheat the simulation
// while a node is actively being repositioned; satisfied by
// *simulation.Controller.
type DragController interface {
	SetAlphaTarget(target float32)
}

// NodeMover applies a dragged node's new graph-space position; satisfied
// by *graphstate.State.
type NodeMover interface {
	SetNodePosition(id string, x, y float32) error
}

// NodePinner pins/unpins a node by external id; satisfied by
// *graphstate.State.
type NodePinner interface {
	PinNode(id string) error
	UnpinNode(id string) error
}

// SlotResolver resolves a node slot back to its external id; satisfied by
// *graphstate.State.
type SlotResolver interface {
	NodeIdOf(slot int32) (string, bool)
}

// dragAlphaTarget is the alpha target drag handling holds the simulation
// at while a node is being moved, per the Interaction Core spec.
const dragAlphaTarget = 0.3

// clickHitRadius is the maximum screen-pixel slop allowed between a
// pointer-down and pointer-up position for the gesture to still count as
// a click rather than a drag.
const clickHitRadius = 4.0

// Manager wires a normalized pointer stream to hit testing and
// drag/pin/click dispatch. Construct with NewManager and feed it
// PointerEvent values from the host window's callbacks.
type Manager struct {
	hitTester  HitTester
	screenToGraph ScreenToGrapher
	sim        DragController
	nodes      NodeMover
	pins       NodePinner
	slots      SlotResolver

	maxHitDistance float32

	dragging     bool
	dragSlot     int32
	dragID       string
	downX, downY float32

	onNodeClick func(id string)
	onNodeDragStart func(id string)
	onNodeDrag      func(id string, x, y float32)
	onNodeDragEnd   func(id string)
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithMaxHitDistance sets the maximum screen-space distance (converted to
// graph space via the current viewport scale by the caller) a pointer may
// be from a node's edge and still hit it.
func WithMaxHitDistance(d float32) Option {
	return func(m *Manager) { m.maxHitDistance = d }
}

// WithNodeClickHandler registers a callback fired on a click (down+up
// within clickHitRadius pixels with no intervening drag).
func WithNodeClickHandler(fn func(id string)) Option {
	return func(m *Manager) { m.onNodeClick = fn }
}

// WithNodeDragHandlers registers the three drag lifecycle callbacks.
func WithNodeDragHandlers(onStart func(id string), onDrag func(id string, x, y float32), onEnd func(id string)) Option {
	return func(m *Manager) {
		m.onNodeDragStart = onStart
		m.onNodeDrag = onDrag
		m.onNodeDragEnd = onEnd
	}
}

// NewManager constructs an interaction Manager wired to a hit tester,
// a screen<->graph transform, the simulation controller, and the node
// mutation/pin surfaces.
func NewManager(hitTester HitTester, screenToGraph ScreenToGrapher, sim DragController, nodes NodeMover, pins NodePinner, slots SlotResolver, opts ...Option) *Manager {
	m := &Manager{
		hitTester:      hitTester,
		screenToGraph:  screenToGraph,
		sim:            sim,
		nodes:          nodes,
		pins:           pins,
		slots:          slots,
		maxHitDistance: 4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleEvent dispatches one normalized pointer event, driving the
// click/drag/pin state machine.
func (m *Manager) HandleEvent(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		m.handleDown(ev)
	case PointerMove:
		m.handleMove(ev)
	case PointerUp:
		m.handleUp(ev)
	}
}

func (m *Manager) handleDown(ev PointerEvent) {
	gx, gy := m.screenToGraph.ScreenToGraph(ev.X, ev.Y)
	slot, ok := m.hitTester.HitTest(gx, gy, m.maxHitDistance)
	if !ok {
		return
	}
	id, ok := m.slots.NodeIdOf(slot)
	if !ok {
		return
	}
	m.dragging = true
	m.dragSlot = slot
	m.dragID = id
	m.downX, m.downY = ev.X, ev.Y
}

func (m *Manager) handleMove(ev PointerEvent) {
	if !m.dragging {
		return
	}
	dx := ev.X - m.downX
	dy := ev.Y - m.downY
	if dx*dx+dy*dy > clickHitRadius*clickHitRadius {
		if m.sim != nil {
			m.sim.SetAlphaTarget(dragAlphaTarget)
		}
		if m.onNodeDragStart != nil {
			m.onNodeDragStart(m.dragID)
		}
	}
	gx, gy := m.screenToGraph.ScreenToGraph(ev.X, ev.Y)
	_ = m.nodes.SetNodePosition(m.dragID, gx, gy)
	if m.onNodeDrag != nil {
		m.onNodeDrag(m.dragID, gx, gy)
	}
}

func (m *Manager) handleUp(ev PointerEvent) {
	if !m.dragging {
		return
	}
	dx := ev.X - m.downX
	dy := ev.Y - m.downY
	wasClick := dx*dx+dy*dy <= clickHitRadius*clickHitRadius

	if wasClick {
		if m.onNodeClick != nil {
			m.onNodeClick(m.dragID)
		}
	} else {
		if m.sim != nil {
			m.sim.SetAlphaTarget(0)
		}
		if m.onNodeDragEnd != nil {
			m.onNodeDragEnd(m.dragID)
		}
	}
	m.dragging = false
	m.dragID = ""
}

// Pin pins a node by external id.
func (m *Manager) Pin(id string) error {
	return m.pins.PinNode(id)
}

// Unpin unpins a node by external id.
func (m *Manager) Unpin(id string) error {
	return m.pins.UnpinNode(id)
}
