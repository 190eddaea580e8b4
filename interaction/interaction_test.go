package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHitTester struct {
	slot int32
	ok   bool
}

func (f fakeHitTester) HitTest(graphX, graphY, maxDistance float32) (int32, bool) {
	return f.slot, f.ok
}

type fakeScreenToGraph struct{}

func (fakeScreenToGraph) ScreenToGraph(x, y float32) (float32, float32) { return x, y }

type fakeSim struct{ lastTarget float32 }

func (f *fakeSim) SetAlphaTarget(target float32) { f.lastTarget = target }

type fakeNodes struct{ lastX, lastY float32 }

func (f *fakeNodes) SetNodePosition(id string, x, y float32) error {
	f.lastX, f.lastY = x, y
	return nil
}

type fakePins struct{ pinned map[string]bool }

func (f *fakePins) PinNode(id string) error   { f.pinned[id] = true; return nil }
func (f *fakePins) UnpinNode(id string) error { f.pinned[id] = false; return nil }

type fakeSlots struct{}

func (fakeSlots) NodeIdOf(slot int32) (string, bool) { return "n0", true }

func TestClickFiresOnSmallMovement(t *testing.T) {
	sim := &fakeSim{}
	nodes := &fakeNodes{}
	pins := &fakePins{pinned: map[string]bool{}}
	clicked := ""
	m := NewManager(fakeHitTester{slot: 0, ok: true}, fakeScreenToGraph{}, sim, nodes, pins, fakeSlots{},
		WithNodeClickHandler(func(id string) { clicked = id }))

	m.HandleEvent(PointerEvent{Kind: PointerDown, X: 10, Y: 10})
	m.HandleEvent(PointerEvent{Kind: PointerUp, X: 11, Y: 10})

	assert.Equal(t, "n0", clicked)
}

func TestDragReheatsSimulationAndMovesNode(t *testing.T) {
	sim := &fakeSim{}
	nodes := &fakeNodes{}
	pins := &fakePins{pinned: map[string]bool{}}
	dragStarted, dragEnded := false, false
	m := NewManager(fakeHitTester{slot: 0, ok: true}, fakeScreenToGraph{}, sim, nodes, pins, fakeSlots{},
		WithNodeDragHandlers(
			func(id string) { dragStarted = true },
			func(id string, x, y float32) {},
			func(id string) { dragEnded = true },
		))

	m.HandleEvent(PointerEvent{Kind: PointerDown, X: 0, Y: 0})
	m.HandleEvent(PointerEvent{Kind: PointerMove, X: 50, Y: 50})
	assert.True(t, dragStarted)
	assert.Equal(t, float32(0.3), sim.lastTarget)
	assert.Equal(t, float32(50), nodes.lastX)

	m.HandleEvent(PointerEvent{Kind: PointerUp, X: 50, Y: 50})
	assert.True(t, dragEnded)
	assert.Equal(t, float32(0), sim.lastTarget)
}

func TestNoHitIsIgnored(t *testing.T) {
	sim := &fakeSim{}
	nodes := &fakeNodes{}
	pins := &fakePins{pinned: map[string]bool{}}
	clicked := false
	m := NewManager(fakeHitTester{ok: false}, fakeScreenToGraph{}, sim, nodes, pins, fakeSlots{},
		WithNodeClickHandler(func(id string) { clicked = true }))

	m.HandleEvent(PointerEvent{Kind: PointerDown, X: 0, Y: 0})
	m.HandleEvent(PointerEvent{Kind: PointerUp, X: 0, Y: 0})
	assert.False(t, clicked)
}

func TestPinUnpin(t *testing.T) {
	pins := &fakePins{pinned: map[string]bool{}}
	m := NewManager(fakeHitTester{}, fakeScreenToGraph{}, &fakeSim{}, &fakeNodes{}, pins, fakeSlots{})
	require.NoError(t, m.Pin("n0"))
	assert.True(t, pins.pinned["n0"])
	require.NoError(t, m.Unpin("n0"))
	assert.False(t, pins.pinned["n0"])
}
