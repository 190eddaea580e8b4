package graphstate

import "fmt"

// NodeSpec carries the fields accepted by AddNode. Fields left at their
// zero value fall back to ingestion defaults applied by the caller; the
// mutable state itself performs no defaulting beyond zero.
type NodeSpec struct {
	X, Y     float32
	Attrs    NodeAttrs
	TypeTag  string
	Metadata MetadataToken
}

// AllocateNodeSlot reserves a slot for a new node: reused from the free
// list when available, otherwise extending the high-water mark. Grows
// backing capacity geometrically if the high-water mark would exceed it.
func (s *State) AllocateNodeSlot() NodeSlot {
	if n := len(s.nodeFreeList); n > 0 {
		slot := s.nodeFreeList[n-1]
		s.nodeFreeList = s.nodeFreeList[:n-1]
		return slot
	}
	slot := NodeSlot(s.nodeHighWater)
	s.growNodeCapacity(s.nodeHighWater + 1)
	s.nodeHighWater++
	return slot
}

// AddNode creates a node bound to the given external id. If id is
// already bound, it returns the existing slot unchanged: a duplicate add
// is idempotent, not a failure.
func (s *State) AddNode(id string, spec NodeSpec) NodeSlot {
	if existing, ok := s.nodeIds.SlotOf(id); ok {
		return existing
	}

	slot := s.AllocateNodeSlot()
	s.nodeIds.Bind(id, slot)
	s.writeNodeSlot(slot, spec)
	s.markPositionsDirty(int(slot), 1)
	s.markAttrsDirty(int(slot))
	return slot
}

// writeNodeSlot stores spec's fields into the backing arrays at slot.
func (s *State) writeNodeSlot(slot NodeSlot, spec NodeSpec) {
	s.positionsX[slot] = spec.X
	s.positionsY[slot] = spec.Y
	s.setNodeAttrs(slot, spec.Attrs)
	s.nodeTags[slot] = spec.TypeTag
	s.nodeMeta[slot] = spec.Metadata
}

// setNodeAttrs writes the 6-float interleaved attribute record for slot.
func (s *State) setNodeAttrs(slot NodeSlot, a NodeAttrs) {
	base := int(slot) * nodeAttrStride
	s.nodeAttrs[base+0] = a.Radius
	s.nodeAttrs[base+1] = a.R
	s.nodeAttrs[base+2] = a.G
	s.nodeAttrs[base+3] = a.B
	s.nodeAttrs[base+4] = a.Selected
	s.nodeAttrs[base+5] = a.Hovered
}

// NodeAttrsAt returns a copy of the attribute record stored for slot.
func (s *State) NodeAttrsAt(slot NodeSlot) NodeAttrs {
	base := int(slot) * nodeAttrStride
	return NodeAttrs{
		Radius:   s.nodeAttrs[base+0],
		R:        s.nodeAttrs[base+1],
		G:        s.nodeAttrs[base+2],
		B:        s.nodeAttrs[base+3],
		Selected: s.nodeAttrs[base+4],
		Hovered:  s.nodeAttrs[base+5],
	}
}

// PositionAt returns the current graph-space position of slot.
func (s *State) PositionAt(slot NodeSlot) (x, y float32) {
	return s.positionsX[slot], s.positionsY[slot]
}

// NodeSlotOf resolves an external node id to its slot.
func (s *State) NodeSlotOf(id string) (NodeSlot, bool) {
	return s.nodeIds.SlotOf(id)
}

// NodeIdOf resolves a node slot back to its external id.
func (s *State) NodeIdOf(slot NodeSlot) (string, bool) {
	return s.nodeIds.IdOf(slot)
}

// UpdateNode applies a partial patch to an existing node. Position edits
// mark the position range dirty so the next upload patches both ping-pong
// sides, avoiding a one-frame flicker; attribute edits mark the attribute
// range dirty.
func (s *State) UpdateNode(id string, patch func(cur *NodeSpec)) error {
	slot, ok := s.nodeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: node %q", ErrNotFound, id)
	}

	cur := NodeSpec{
		X:        s.positionsX[slot],
		Y:        s.positionsY[slot],
		Attrs:    s.NodeAttrsAt(slot),
		TypeTag:  s.nodeTags[slot],
		Metadata: s.nodeMeta[slot],
	}
	patch(&cur)
	s.writeNodeSlot(slot, cur)
	s.markPositionsDirty(int(slot), 1)
	s.markAttrsDirty(int(slot))
	return nil
}

// SetNodePosition is the fast path used by interaction-core drag
// handling: it writes only the position pair, skipping attribute
// re-encoding.
func (s *State) SetNodePosition(id string, x, y float32) error {
	slot, ok := s.nodeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: node %q", ErrNotFound, id)
	}
	s.positionsX[slot] = x
	s.positionsY[slot] = y
	s.markPositionsDirty(int(slot), 1)
	return nil
}

// PinNode marks a node's slot as pinned; the simulation engine's
// integration pass skips pinned slots entirely.
func (s *State) PinNode(id string) error {
	slot, ok := s.nodeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: node %q", ErrNotFound, id)
	}
	s.pinned.Set(int(slot))
	return nil
}

// UnpinNode clears a node's pinned flag.
func (s *State) UnpinNode(id string) error {
	slot, ok := s.nodeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: node %q", ErrNotFound, id)
	}
	s.pinned.Clear(int(slot))
	return nil
}

// IsPinned reports whether slot is pinned.
func (s *State) IsPinned(slot NodeSlot) bool {
	return s.pinned.IsSet(int(slot))
}

// FreeNodeSlot zeros slot's position and attributes, pushes it onto the
// free list, and walks the free list backwards from the tail to shrink
// the high-water mark while the tail is entirely dead. This is the only
// path by which nodeHighWater decreases.
func (s *State) FreeNodeSlot(slot NodeSlot) {
	s.positionsX[slot] = 0
	s.positionsY[slot] = 0
	s.setNodeAttrs(slot, NodeAttrs{})
	s.nodeTags[slot] = ""
	s.nodeMeta[slot] = 0
	s.pinned.Clear(int(slot))
	s.nodeFreeList = append(s.nodeFreeList, slot)
	s.markPositionsDirty(int(slot), 1)
	s.markAttrsDirty(int(slot))
	s.shrinkHighWater()
}

// shrinkHighWater removes trailing free-listed slots from the live range,
// reducing nodeHighWater while the highest slot is dead.
func (s *State) shrinkHighWater() {
	free := make(map[NodeSlot]struct{}, len(s.nodeFreeList))
	for _, slot := range s.nodeFreeList {
		free[slot] = struct{}{}
	}
	for s.nodeHighWater > 0 {
		top := NodeSlot(s.nodeHighWater - 1)
		if _, dead := free[top]; !dead {
			break
		}
		delete(free, top)
		s.nodeHighWater--
	}
	if len(free) == len(s.nodeFreeList) {
		return
	}
	kept := s.nodeFreeList[:0]
	for _, slot := range s.nodeFreeList {
		if int(slot) < s.nodeHighWater {
			kept = append(kept, slot)
		}
	}
	s.nodeFreeList = kept
}

// RemoveNode cascades: it collects the incident edge set, swap-removes
// each edge, then frees the node slot.
func (s *State) RemoveNode(id string) error {
	slot, ok := s.nodeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: node %q", ErrNotFound, id)
	}

	// Edge ids, not slots, are collected up front: RemoveEdge performs a
	// swap-remove that can reassign the slot of an unrelated edge, so
	// resolving ids eagerly (rather than re-deriving them from a slot
	// after earlier removals have shuffled the array) is required for
	// correctness.
	incidentIds := make([]string, 0, len(s.nodeEdges[slot]))
	for edgeSlot := range s.nodeEdges[slot] {
		if edgeID, ok := s.edgeIds.IdOf(edgeSlot); ok {
			incidentIds = append(incidentIds, edgeID)
		}
	}
	for _, edgeID := range incidentIds {
		_ = s.RemoveEdge(edgeID)
	}

	s.nodeIds.Unbind(id)
	delete(s.nodeEdges, slot)
	s.FreeNodeSlot(slot)
	return nil
}
