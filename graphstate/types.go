// Package graphstate holds the single CPU-side source of truth for a
// HeroineGraph instance: the id↔slot mapping, the node free list, the
// edge swap-remove array and the node→edges adjacency index. Every other
// component (buffer substrate, simulation engine, render pipeline set)
// reads its working data through this package rather than owning a copy.
package graphstate

import "fmt"

// NodeId is the opaque external identifier for a node. Uniqueness is
// enforced per graph by the IdMap.
type NodeId string

// EdgeId is the opaque external identifier for an edge.
type EdgeId string

// NodeSlot is an internal densely-indexed integer. It is stable for the
// lifetime of a node and is reused only after the node has been removed.
// Slots are the only indices referenced by GPU buffers, shaders and CSR
// arrays.
type NodeSlot int32

// EdgeSlot is an internal integer index into the edge arrays. Unlike
// NodeSlot it is NOT stable across removals: swap-remove reuses the
// vacated index by moving the highest-index live edge into it.
type EdgeSlot int32

// invalidSlot marks a slot value that does not refer to a live node or
// edge (e.g. an edge endpoint that failed resolution before validation
// rejected it).
const invalidSlot = -1

// NodeAttrs mirrors the 6-float-per-slot node attribute record fixed by
// the external binary layout: (radius, r, g, b, selectedFlag, hoveredFlag).
// Radius <= 0 means the slot is dead / invisible, per the package
// invariant that a freed slot always holds a zeroed record.
type NodeAttrs struct {
	Radius    float32
	R, G, B   float32
	Selected  float32
	Hovered   float32
}

// EdgeAttrs mirrors the 8-float-per-edge attribute record:
// (width, r, g, b, selectedFlag, hoveredFlag, curvature, opacity).
type EdgeAttrs struct {
	Width     float32
	R, G, B   float32
	Selected  float32
	Hovered   float32
	Curvature float32
	Opacity   float32
}

// Err values name the taxonomy kinds from the ingestion/mutation error
// design (DUPLICATE_ID, NOT_FOUND, CAPACITY_EXCEEDED, INVALID_POSITIONS).
// Callers use errors.Is against these sentinels; wrapped context is added
// with fmt.Errorf("%w: ...").
var (
	ErrDuplicateID      = fmt.Errorf("graphstate: duplicate id")
	ErrNotFound         = fmt.Errorf("graphstate: not found")
	ErrCapacityExceeded = fmt.Errorf("graphstate: capacity exceeded")
	ErrInvalidPositions = fmt.Errorf("graphstate: invalid positions")
)
