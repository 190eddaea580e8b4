package graphstate

// SnapshotEdge carries an edge to be loaded by external node id, mirroring
// ingest.ParsedGraph's EdgeRef so graphstate never needs to import the
// ingest package (only the reverse dependency is allowed).
type SnapshotEdge struct {
	ID             string
	Source, Target string
	Attrs          EdgeAttrs
	TypeTag        string
	Metadata       MetadataToken
}

// SnapshotNode carries a node to be loaded by external id.
type SnapshotNode struct {
	ID   string
	Spec NodeSpec
}

// LoadSnapshot replaces all graph state with the given nodes and edges,
// in one bulk pass. Used by the `load` external operation (replace-all
// ingestion). Existing state is discarded first: every live node and
// edge is removed before the new snapshot is added, so capacity growth
// during the load follows the same geometric-growth path as incremental
// mutation.
func (s *State) LoadSnapshot(nodes []SnapshotNode, edges []SnapshotEdge) {
	s.Clear()
	for _, n := range nodes {
		s.AddNode(n.ID, n.Spec)
	}
	for _, e := range edges {
		source, okS := s.NodeSlotOf(e.Source)
		target, okT := s.NodeSlotOf(e.Target)
		if !okS || !okT {
			continue
		}
		_, _ = s.AddEdge(e.ID, EdgeSpec{
			Source:   source,
			Target:   target,
			Attrs:    e.Attrs,
			TypeTag:  e.TypeTag,
			Metadata: e.Metadata,
		})
	}
}

// MarkEverythingDirty forces a full re-upload of every GPU-facing array
// on the next SnapshotForUpload, used by the device-loss recovery path
// once pipelines and buffers have been rebuilt against this state's
// existing CPU-side snapshot.
func (s *State) MarkEverythingDirty() {
	s.markPositionsDirty(0, len(s.positionsX))
	s.markAttrsDirty(0)
	s.dirty.AttrsDirty[len(s.dirty.AttrsDirty)-1].Length = len(s.nodeAttrs)
	s.dirty.EdgesDirty = append(s.dirty.EdgesDirty, Range{Offset: 0, Length: s.edgeCount})
	s.dirty.CSRDirty = true
}

// Clear discards every live node and edge without walking the cascading
// per-node removal path (there is nothing left to preserve once the
// whole graph is being replaced). Capacity itself is not shrunk, per the
// data model's never-shrink invariant; the backing arrays are zeroed so
// a freed slot's "radius=0, position=0" invariant holds immediately.
func (s *State) Clear() {
	for i := range s.positionsX {
		s.positionsX[i] = 0
		s.positionsY[i] = 0
	}
	for i := range s.nodeAttrs {
		s.nodeAttrs[i] = 0
	}
	for i := range s.nodeTags {
		s.nodeTags[i] = ""
		s.nodeMeta[i] = 0
	}
	s.nodeHighWater = 0
	s.nodeFreeList = s.nodeFreeList[:0]
	s.edgeCount = 0
	s.nodeIds = NewIdMap[NodeSlot]()
	s.edgeIds = NewIdMap[EdgeSlot]()
	s.nodeEdges = make(map[NodeSlot]map[EdgeSlot]struct{})
	s.pinned = NewBitset(s.nodeCapacity)
	s.markPositionsDirty(0, len(s.positionsX))
	s.dirty.CSRDirty = true
}
