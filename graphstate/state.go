package graphstate

const (
	nodeAttrStride = 6
	edgeAttrStride = 8

	// minGrowthFactor is the geometric growth factor applied to node and
	// edge arrays when a mutation would exceed current capacity. The data
	// model requires >= 1.5x; 2x keeps amortized reallocation count low
	// without over-committing memory at the 1M-node target.
	minGrowthFactor = 2.0
)

// MetadataToken is an opaque handle carried alongside a node or edge slot.
// The engine never reads into it; it exists purely so the embedder can
// resolve recoloring/styling metadata on demand, per the design note that
// arbitrary metadata maps must never be touched by the GPU-facing state.
type MetadataToken int64

// Range describes a contiguous span, in element units (not bytes), that
// must be re-uploaded to the GPU before the next pass that reads it.
type Range struct {
	Offset int
	Length int
}

// DirtyRanges is the minimal set of GPU uploads required before the next
// frame may safely run its simulation/render passes. Returned by
// SnapshotForUpload and consumed by the command orchestrator.
type DirtyRanges struct {
	PositionsDirty []Range
	AttrsDirty     []Range
	EdgesDirty     []Range
	CSRDirty       bool
}

// State is the mutable graph state: the hub described by the data model.
// It is the only place NodeSlot/EdgeSlot allocation, the free list, the
// swap-remove array and the adjacency index live. Every exported method
// either fully commits a mutation or returns an error leaving state
// untouched, per the error-handling design's "no partial mutation"
// policy.
type State struct {
	nodeIds *IdMap[NodeSlot]
	edgeIds *IdMap[EdgeSlot]

	positionsX []float32
	positionsY []float32
	nodeAttrs  []float32
	nodeTags   []string
	nodeMeta   []MetadataToken

	nodeCapacity  int
	nodeHighWater int
	nodeFreeList  []NodeSlot

	nodeEdges map[NodeSlot]map[EdgeSlot]struct{}

	edgeSources []int32
	edgeTargets []int32
	edgeAttrs   []float32
	edgeTags    []string
	edgeMeta    []MetadataToken
	edgeCapacity int
	edgeCount    int

	pinned *Bitset

	dirty DirtyRanges
}

// New constructs an empty State with the given initial node and edge
// capacity. Capacities below 1 are rounded up to 1.
func New(initialNodeCapacity, initialEdgeCapacity int) *State {
	if initialNodeCapacity < 1 {
		initialNodeCapacity = 1
	}
	if initialEdgeCapacity < 1 {
		initialEdgeCapacity = 1
	}
	return &State{
		nodeIds:      NewIdMap[NodeSlot](),
		edgeIds:      NewIdMap[EdgeSlot](),
		positionsX:   make([]float32, initialNodeCapacity),
		positionsY:   make([]float32, initialNodeCapacity),
		nodeAttrs:    make([]float32, initialNodeCapacity*nodeAttrStride),
		nodeTags:     make([]string, initialNodeCapacity),
		nodeMeta:     make([]MetadataToken, initialNodeCapacity),
		nodeCapacity: initialNodeCapacity,
		nodeEdges:    make(map[NodeSlot]map[EdgeSlot]struct{}),
		edgeSources:  make([]int32, initialEdgeCapacity),
		edgeTargets:  make([]int32, initialEdgeCapacity),
		edgeAttrs:    make([]float32, initialEdgeCapacity*edgeAttrStride),
		edgeTags:     make([]string, initialEdgeCapacity),
		edgeMeta:     make([]MetadataToken, initialEdgeCapacity),
		edgeCapacity: initialEdgeCapacity,
		pinned:       NewBitset(initialNodeCapacity),
	}
}

// NodeCount returns the number of currently live nodes.
func (s *State) NodeCount() int {
	return s.nodeIds.Len()
}

// EdgeCount returns the number of currently live edges.
func (s *State) EdgeCount() int {
	return s.edgeCount
}

// NodeHighWater returns one past the greatest live node slot; equal to
// the draw-instance count for the node render pipeline.
func (s *State) NodeHighWater() int {
	return s.nodeHighWater
}

// NodeCapacity returns the current allocated capacity of the node arrays.
func (s *State) NodeCapacity() int {
	return s.nodeCapacity
}

// EdgeCapacity returns the current allocated capacity of the edge arrays.
func (s *State) EdgeCapacity() int {
	return s.edgeCapacity
}

// growNodeCapacity reallocates the node-indexed arrays to at least
// required slots, copying existing contents. Never shrinks.
func (s *State) growNodeCapacity(required int) {
	if required <= s.nodeCapacity {
		return
	}
	newCap := s.nodeCapacity
	for newCap < required {
		newCap = int(float64(newCap) * minGrowthFactor)
		if newCap <= s.nodeCapacity {
			newCap = required
		}
	}

	px := make([]float32, newCap)
	py := make([]float32, newCap)
	attrs := make([]float32, newCap*nodeAttrStride)
	tags := make([]string, newCap)
	meta := make([]MetadataToken, newCap)
	copy(px, s.positionsX)
	copy(py, s.positionsY)
	copy(attrs, s.nodeAttrs)
	copy(tags, s.nodeTags)
	copy(meta, s.nodeMeta)

	s.positionsX = px
	s.positionsY = py
	s.nodeAttrs = attrs
	s.nodeTags = tags
	s.nodeMeta = meta
	s.nodeCapacity = newCap
	s.pinned.Grow(newCap)
}

// growEdgeCapacity reallocates the edge-indexed arrays to at least
// required slots, copying existing contents. Never shrinks.
func (s *State) growEdgeCapacity(required int) {
	if required <= s.edgeCapacity {
		return
	}
	newCap := s.edgeCapacity
	for newCap < required {
		newCap = int(float64(newCap) * minGrowthFactor)
		if newCap <= s.edgeCapacity {
			newCap = required
		}
	}

	srcs := make([]int32, newCap)
	dsts := make([]int32, newCap)
	attrs := make([]float32, newCap*edgeAttrStride)
	tags := make([]string, newCap)
	meta := make([]MetadataToken, newCap)
	copy(srcs, s.edgeSources)
	copy(dsts, s.edgeTargets)
	copy(attrs, s.edgeAttrs)
	copy(tags, s.edgeTags)
	copy(meta, s.edgeMeta)

	s.edgeSources = srcs
	s.edgeTargets = dsts
	s.edgeAttrs = attrs
	s.edgeTags = tags
	s.edgeMeta = meta
	s.edgeCapacity = newCap
}

// markPositionsDirty records that the position values in
// [offset, offset+length) must be re-uploaded before the next frame.
func (s *State) markPositionsDirty(offset, length int) {
	s.dirty.PositionsDirty = append(s.dirty.PositionsDirty, Range{Offset: offset, Length: length})
}

// markAttrsDirty records that node attribute slot `slot` must be
// re-uploaded before the next frame.
func (s *State) markAttrsDirty(slot int) {
	s.dirty.AttrsDirty = append(s.dirty.AttrsDirty, Range{Offset: slot * nodeAttrStride, Length: nodeAttrStride})
}

// markEdgesDirty records that edge slot `slot` must be re-uploaded before
// the next frame and marks the CSR derived from the edge arrays stale.
func (s *State) markEdgesDirty(slot int) {
	s.dirty.EdgesDirty = append(s.dirty.EdgesDirty, Range{Offset: slot, Length: 1})
	s.dirty.CSRDirty = true
}

// SnapshotForUpload returns the minimal set of GPU uploads required this
// frame and resets the internal dirty tracking. Safe to call once per
// frame from the command orchestrator's begin-frame step.
func (s *State) SnapshotForUpload() DirtyRanges {
	out := s.dirty
	s.dirty = DirtyRanges{}
	return out
}

// Positions returns the backing CPU-side position arrays (sized to
// nodeCapacity, valid through nodeHighWater), read by the buffer
// substrate's PositionBufferManager.Upload during the begin-frame step.
func (s *State) Positions() (x, y []float32) {
	return s.positionsX, s.positionsY
}

// NodeAttrsRaw returns the flat 6-float-per-slot node attribute array
// consumed by the node render pipeline's instance buffer.
func (s *State) NodeAttrsRaw() []float32 {
	return s.nodeAttrs
}

// EdgeSources and EdgeTargets return the raw per-edge endpoint arrays
// (valid through EdgeCount), the input to buffers.RebuildCSR.
func (s *State) EdgeSources() []int32 {
	return s.edgeSources[:s.edgeCount]
}

// EdgeTargets returns the raw per-edge target slot array.
func (s *State) EdgeTargets() []int32 {
	return s.edgeTargets[:s.edgeCount]
}

// EdgeAttrsRaw returns the flat 8-float-per-edge attribute array consumed
// by the edge render pipeline's instance buffer.
func (s *State) EdgeAttrsRaw() []float32 {
	return s.edgeAttrs
}

// PinnedBitset returns the pin bitset, read by the simulation engine's
// integration pass via Bitset.PackedWords.
func (s *State) PinnedBitset() *Bitset {
	return s.pinned
}
