// Package ingest validates and normalizes the two input shapes spec.md
// §4.3 accepts — an object-array form and a parallel-typed-arrays form —
// into a frozen ParsedGraph snapshot that seeds graphstate.State.
// Grounded on the teacher's sentinel-error style (propagated from
// katalvlaran-lvlath's core/types.go block, per DESIGN.md) and on
// graphstate's NodeSpec/EdgeSpec shapes, which ParsedGraph feeds
// directly.
package ingest

import (
	"errors"

	"github.com/Carmen-Shannon/heroinegraph/graphstate"
)

// ErrInvalidGraphData is returned for any ingestion failure: a missing
// id, a duplicate id, an edge referencing an unknown endpoint, or a
// typed-form array length mismatch.
var ErrInvalidGraphData = errors.New("ingest: invalid graph data")

// NodeSpec is the object-form input record for one node.
type NodeSpec struct {
	ID       string
	X, Y     *float32
	Radius   *float32
	Color    string
	Type     string
	Metadata any
}

// EdgeSpec is the object-form input record for one edge.
type EdgeSpec struct {
	ID       string
	Source   string
	Target   string
	Width    *float32
	Color    string
	Type     string
	Metadata any
}

// TypedGraphData is the parallel-typed-arrays input shape.
type TypedGraphData struct {
	NodeCount  int
	EdgeCount  int
	Positions  []float32 // interleaved x,y, length 2*NodeCount
	NodeRadii  []float32
	NodeColors [][3]float32
	EdgePairs  []int32 // interleaved source,target slot indices, length 2*EdgeCount
	EdgeWidths []float32
	EdgeColors [][3]float32
	NodeIds    []string
	EdgeIds    []string
}

// ParsedGraph is the frozen snapshot both ingestion paths produce,
// consumed by graphstate.LoadSnapshot to seed a MutableGraphState.
type ParsedGraph struct {
	NodeIds   []string
	NodeSpecs []graphstate.NodeSpec
	EdgeIds   []string
	EdgeSpecs []EdgeRef
}

// EdgeRef carries an edge's endpoints by NODE ID (not slot, since slots
// aren't assigned until graphstate.LoadSnapshot allocates them) plus its
// attributes.
type EdgeRef struct {
	Source, Target string
	Attrs          graphstate.EdgeAttrs
	TypeTag        string
	Metadata       graphstate.MetadataToken
}

// Options configures both ingestion paths.
type Options struct {
	// ValidateReferences, when true (the default), fails the whole parse
	// with ErrInvalidGraphData if any edge references an unknown
	// endpoint. When false, such edges are silently dropped instead.
	ValidateReferences bool
}

// DefaultOptions returns the default ingestion options
// (ValidateReferences=true).
func DefaultOptions() Options {
	return Options{ValidateReferences: true}
}
