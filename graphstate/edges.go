package graphstate

import "fmt"

// EdgeSpec carries the fields accepted by AddEdge.
type EdgeSpec struct {
	Source, Target NodeSlot
	Attrs          EdgeAttrs
	TypeTag        string
	Metadata       MetadataToken
}

// AddEdge appends a new edge at the current edge count, binding it to id
// (auto-generated by the caller if the ingestion spec omitted one).
// Fails with ErrNotFound if either endpoint slot is not a currently live
// node.
func (s *State) AddEdge(id string, spec EdgeSpec) (EdgeSlot, error) {
	if !s.isLiveNodeSlot(spec.Source) {
		return 0, fmt.Errorf("%w: edge source slot %d", ErrNotFound, spec.Source)
	}
	if !s.isLiveNodeSlot(spec.Target) {
		return 0, fmt.Errorf("%w: edge target slot %d", ErrNotFound, spec.Target)
	}
	if _, exists := s.edgeIds.SlotOf(id); exists {
		return 0, fmt.Errorf("%w: edge %q", ErrDuplicateID, id)
	}

	slot := EdgeSlot(s.edgeCount)
	s.growEdgeCapacity(s.edgeCount + 1)
	s.edgeCount++

	s.writeEdgeSlot(slot, spec)
	s.edgeIds.Bind(id, slot)
	s.attachAdjacency(spec.Source, slot)
	s.attachAdjacency(spec.Target, slot)
	s.markEdgesDirty(int(slot))
	return slot, nil
}

// isLiveNodeSlot reports whether slot currently identifies a live node,
// i.e. it is within the allocated range and not present on the free list.
func (s *State) isLiveNodeSlot(slot NodeSlot) bool {
	if slot < 0 || int(slot) >= s.nodeHighWater {
		return false
	}
	for _, free := range s.nodeFreeList {
		if free == slot {
			return false
		}
	}
	return true
}

// writeEdgeSlot stores spec's fields into the backing arrays at slot.
func (s *State) writeEdgeSlot(slot EdgeSlot, spec EdgeSpec) {
	s.edgeSources[slot] = int32(spec.Source)
	s.edgeTargets[slot] = int32(spec.Target)
	s.setEdgeAttrs(slot, spec.Attrs)
	s.edgeTags[slot] = spec.TypeTag
	s.edgeMeta[slot] = spec.Metadata
}

// setEdgeAttrs writes the 8-float interleaved attribute record for slot.
func (s *State) setEdgeAttrs(slot EdgeSlot, a EdgeAttrs) {
	base := int(slot) * edgeAttrStride
	s.edgeAttrs[base+0] = a.Width
	s.edgeAttrs[base+1] = a.R
	s.edgeAttrs[base+2] = a.G
	s.edgeAttrs[base+3] = a.B
	s.edgeAttrs[base+4] = a.Selected
	s.edgeAttrs[base+5] = a.Hovered
	s.edgeAttrs[base+6] = a.Curvature
	s.edgeAttrs[base+7] = a.Opacity
}

// EdgeAttrsAt returns a copy of the attribute record stored for slot.
func (s *State) EdgeAttrsAt(slot EdgeSlot) EdgeAttrs {
	base := int(slot) * edgeAttrStride
	return EdgeAttrs{
		Width:     s.edgeAttrs[base+0],
		R:         s.edgeAttrs[base+1],
		G:         s.edgeAttrs[base+2],
		B:         s.edgeAttrs[base+3],
		Selected:  s.edgeAttrs[base+4],
		Hovered:   s.edgeAttrs[base+5],
		Curvature: s.edgeAttrs[base+6],
		Opacity:   s.edgeAttrs[base+7],
	}
}

// Endpoints returns the source and target node slots of edge slot.
func (s *State) Endpoints(slot EdgeSlot) (source, target NodeSlot) {
	return NodeSlot(s.edgeSources[slot]), NodeSlot(s.edgeTargets[slot])
}

// EdgeSlotOf resolves an external edge id to its slot.
func (s *State) EdgeSlotOf(id string) (EdgeSlot, bool) {
	return s.edgeIds.SlotOf(id)
}

// EdgeIdOf resolves an edge slot back to its external id.
func (s *State) EdgeIdOf(slot EdgeSlot) (string, bool) {
	return s.edgeIds.IdOf(slot)
}

// attachAdjacency records that edgeSlot is incident to node.
func (s *State) attachAdjacency(node NodeSlot, edgeSlot EdgeSlot) {
	set := s.nodeEdges[node]
	if set == nil {
		set = make(map[EdgeSlot]struct{})
		s.nodeEdges[node] = set
	}
	set[edgeSlot] = struct{}{}
}

// detachAdjacency removes the record that edgeSlot is incident to node.
func (s *State) detachAdjacency(node NodeSlot, edgeSlot EdgeSlot) {
	set := s.nodeEdges[node]
	if set == nil {
		return
	}
	delete(set, edgeSlot)
	if len(set) == 0 {
		delete(s.nodeEdges, node)
	}
}

// IncidentEdges returns the set of edge slots incident to node, as a
// freshly allocated slice (safe for the caller to mutate).
func (s *State) IncidentEdges(node NodeSlot) []EdgeSlot {
	set := s.nodeEdges[node]
	out := make([]EdgeSlot, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// UpdateEdge applies a partial patch to an existing edge.
func (s *State) UpdateEdge(id string, patch func(cur *EdgeSpec)) error {
	slot, ok := s.edgeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: edge %q", ErrNotFound, id)
	}

	source, target := s.Endpoints(slot)
	cur := EdgeSpec{
		Source:   source,
		Target:   target,
		Attrs:    s.EdgeAttrsAt(slot),
		TypeTag:  s.edgeTags[slot],
		Metadata: s.edgeMeta[slot],
	}
	patch(&cur)

	if cur.Source != source {
		s.detachAdjacency(source, slot)
		s.attachAdjacency(cur.Source, slot)
	}
	if cur.Target != target {
		s.detachAdjacency(target, slot)
		s.attachAdjacency(cur.Target, slot)
	}

	s.writeEdgeSlot(slot, cur)
	s.markEdgesDirty(int(slot))
	return nil
}

// RemoveEdge performs the swap-remove: overwrite slot i with the last
// live edge, shrink the count, then patch adjacency for both the removed
// edge's endpoints and the swapped-in edge's endpoints.
func (s *State) RemoveEdge(id string) error {
	slot, ok := s.edgeIds.SlotOf(id)
	if !ok {
		return fmt.Errorf("%w: edge %q", ErrNotFound, id)
	}

	source, target := s.Endpoints(slot)
	s.detachAdjacency(source, slot)
	s.detachAdjacency(target, slot)
	s.edgeIds.Unbind(id)

	last := EdgeSlot(s.edgeCount - 1)
	if slot != last {
		lastID, _ := s.edgeIds.IdOf(last)
		lastSource, lastTarget := s.Endpoints(last)

		s.edgeSources[slot] = s.edgeSources[last]
		s.edgeTargets[slot] = s.edgeTargets[last]
		copy(s.edgeAttrs[int(slot)*edgeAttrStride:(int(slot)+1)*edgeAttrStride],
			s.edgeAttrs[int(last)*edgeAttrStride:(int(last)+1)*edgeAttrStride])
		s.edgeTags[slot] = s.edgeTags[last]
		s.edgeMeta[slot] = s.edgeMeta[last]

		if lastID != "" {
			s.edgeIds.Bind(lastID, slot)
		}
		s.detachAdjacency(lastSource, last)
		s.attachAdjacency(lastSource, slot)
		if lastTarget != lastSource {
			s.detachAdjacency(lastTarget, last)
			s.attachAdjacency(lastTarget, slot)
		} else {
			s.attachAdjacency(lastTarget, slot)
		}
		s.markEdgesDirty(int(slot))
	}

	s.edgeCount--
	s.markEdgesDirty(int(last))
	return nil
}
