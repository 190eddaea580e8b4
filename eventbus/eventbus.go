// Package eventbus implements the typed publish/subscribe surface spec.md
// §4.10 and §9 require: a closed EventKind enum tying each kind to its own
// payload struct (delivered to handlers as an any value), with per-subscriber
// panic recovery so one misbehaving handler never aborts delivery to the
// rest. Grounded on engine.handleRender's top-level panic-recovery-and-log
// pattern, applied here per subscriber instead of per goroutine.
package eventbus

import "log"

// EventKind identifies which payload type accompanies a published event.
type EventKind int

const (
	EventNodeClick EventKind = iota
	EventNodeHover
	EventNodeDragStart
	EventNodeDrag
	EventNodeDragEnd
	EventEdgeClick
	EventSimulationTick
	EventSimulationEnd
	EventViewportChange
	EventLayerChange
)

// NodeEvent is the payload for node click/hover/drag events.
type NodeEvent struct {
	NodeID string
	X, Y   float32
}

// EdgeEvent is the payload for edge click events.
type EdgeEvent struct {
	EdgeID string
}

// SimulationTickEvent is the payload for a completed simulation tick.
type SimulationTickEvent struct {
	Alpha float32
	Tick  uint64
}

// SimulationEndEvent is the payload fired when the layout converges.
type SimulationEndEvent struct {
	Tick uint64
}

// ViewportChangeEvent is the payload fired on pan/zoom/resize.
type ViewportChangeEvent struct {
	CenterX, CenterY float32
	Scale            float32
}

// LayerChangeEvent is the payload fired when a layer is added, removed, or
// toggled.
type LayerChangeEvent struct {
	LayerID string
	Enabled bool
}

// Handler receives an event payload; its concrete type depends on the
// EventKind it was subscribed under (the payload struct named for that
// kind above).
type Handler func(payload any)

// Bus is a typed publisher/subscriber keyed by EventKind.
type Bus struct {
	subscribers map[EventKind]map[int]Handler
	nextID      int
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{subscribers: make(map[EventKind]map[int]Handler)}
}

// Subscribe registers handler for kind and returns an unsubscribe
// function.
func (b *Bus) Subscribe(kind EventKind, handler Handler) (unsubscribe func()) {
	if b.subscribers[kind] == nil {
		b.subscribers[kind] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subscribers[kind][id] = handler
	return func() {
		delete(b.subscribers[kind], id)
	}
}

// Publish delivers payload to every subscriber of kind. A subscriber that
// panics is recovered and logged; delivery continues to the remaining
// subscribers.
func (b *Bus) Publish(kind EventKind, payload any) {
	for id, handler := range b.subscribers[kind] {
		b.dispatch(kind, id, handler, payload)
	}
}

func (b *Bus) dispatch(kind EventKind, id int, handler Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("eventbus: subscriber %d for event kind %d panicked: %v", id, kind, r)
		}
	}()
	handler(payload)
}
