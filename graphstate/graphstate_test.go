package graphstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNodeIdempotent(t *testing.T) {
	s := New(4, 4)
	a := s.AddNode("a", NodeSpec{X: 1, Y: 2, Attrs: NodeAttrs{Radius: 5}})
	again := s.AddNode("a", NodeSpec{X: 99, Y: 99, Attrs: NodeAttrs{Radius: 99}})
	require.Equal(t, a, again)
	require.Equal(t, 1, s.NodeCount())
}

func TestNodeFreeListInvariant(t *testing.T) {
	s := New(4, 4)
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		s.AddNode(id, NodeSpec{Attrs: NodeAttrs{Radius: 1}})
	}
	require.NoError(t, s.RemoveNode("b"))
	require.NoError(t, s.RemoveNode("d"))

	require.Equal(t, s.NodeCount()+len(s.nodeFreeList), s.NodeHighWater())
}

func TestFreedSlotIsZeroed(t *testing.T) {
	s := New(4, 4)
	s.AddNode("a", NodeSpec{X: 10, Y: 20, Attrs: NodeAttrs{Radius: 7}})
	slot, _ := s.NodeSlotOf("a")
	require.NoError(t, s.RemoveNode("a"))

	x, y := s.PositionAt(slot)
	require.Zero(t, x)
	require.Zero(t, y)
	require.Zero(t, s.NodeAttrsAt(slot).Radius)
}

func TestHighWaterShrinksOnTrailingRemoval(t *testing.T) {
	s := New(4, 4)
	s.AddNode("a", NodeSpec{})
	s.AddNode("b", NodeSpec{})
	s.AddNode("c", NodeSpec{})
	require.Equal(t, 3, s.NodeHighWater())

	require.NoError(t, s.RemoveNode("c"))
	require.Equal(t, 2, s.NodeHighWater())

	require.NoError(t, s.RemoveNode("b"))
	require.Equal(t, 1, s.NodeHighWater())
}

func TestEdgeSwapRemoveAdjacency(t *testing.T) {
	s := New(8, 8)
	for _, id := range []string{"0", "1", "2", "3"} {
		s.AddNode(id, NodeSpec{})
	}
	slot0, _ := s.NodeSlotOf("0")
	slot1, _ := s.NodeSlotOf("1")
	slot2, _ := s.NodeSlotOf("2")
	slot3, _ := s.NodeSlotOf("3")

	_, err := s.AddEdge("e0", EdgeSpec{Source: slot0, Target: slot1})
	require.NoError(t, err)
	_, err = s.AddEdge("e1", EdgeSpec{Source: slot1, Target: slot2})
	require.NoError(t, err)
	_, err = s.AddEdge("e2", EdgeSpec{Source: slot2, Target: slot3})
	require.NoError(t, err)

	require.NoError(t, s.RemoveEdge("e0"))
	require.Equal(t, 2, s.EdgeCount())

	remaining := map[[2]NodeSlot]bool{}
	for i := 0; i < s.EdgeCount(); i++ {
		src, dst := s.Endpoints(EdgeSlot(i))
		remaining[[2]NodeSlot{src, dst}] = true
	}
	require.True(t, remaining[[2]NodeSlot{slot1, slot2}])
	require.True(t, remaining[[2]NodeSlot{slot2, slot3}])

	incident3 := s.IncidentEdges(slot3)
	require.Len(t, incident3, 1)
	src, dst := s.Endpoints(incident3[0])
	require.Equal(t, slot2, src)
	require.Equal(t, slot3, dst)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	s := New(8, 8)
	for _, id := range []string{"a", "b", "c"} {
		s.AddNode(id, NodeSpec{})
	}
	slotA, _ := s.NodeSlotOf("a")
	slotB, _ := s.NodeSlotOf("b")
	slotC, _ := s.NodeSlotOf("c")
	s.AddEdge("ab", EdgeSpec{Source: slotA, Target: slotB})
	s.AddEdge("bc", EdgeSpec{Source: slotB, Target: slotC})

	require.NoError(t, s.RemoveNode("b"))
	require.Equal(t, 0, s.EdgeCount())
	_, ok := s.EdgeSlotOf("ab")
	require.False(t, ok)
	_, ok = s.EdgeSlotOf("bc")
	require.False(t, ok)
}

func TestIdMapBidirectional(t *testing.T) {
	m := NewIdMap[NodeSlot]()
	m.Bind("x", 3)
	slot, ok := m.SlotOf("x")
	require.True(t, ok)
	require.Equal(t, NodeSlot(3), slot)

	id, ok := m.IdOf(slot)
	require.True(t, ok)
	require.Equal(t, "x", id)
}

func TestPinnedNodeSkipsIntegrationFlag(t *testing.T) {
	s := New(4, 4)
	s.AddNode("a", NodeSpec{})
	slot, _ := s.NodeSlotOf("a")
	require.False(t, s.IsPinned(slot))
	require.NoError(t, s.PinNode("a"))
	require.True(t, s.IsPinned(slot))
	require.NoError(t, s.UnpinNode("a"))
	require.False(t, s.IsPinned(slot))
}
