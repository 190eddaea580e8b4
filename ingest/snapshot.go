package ingest

import "github.com/Carmen-Shannon/heroinegraph/graphstate"

// ToGraphStateSnapshot converts a ParsedGraph into the node/edge slices
// graphstate.State.LoadSnapshot consumes.
func (p *ParsedGraph) ToGraphStateSnapshot() ([]graphstate.SnapshotNode, []graphstate.SnapshotEdge) {
	nodes := make([]graphstate.SnapshotNode, len(p.NodeIds))
	for i, id := range p.NodeIds {
		nodes[i] = graphstate.SnapshotNode{ID: id, Spec: p.NodeSpecs[i]}
	}

	edges := make([]graphstate.SnapshotEdge, len(p.EdgeIds))
	for i, id := range p.EdgeIds {
		ref := p.EdgeSpecs[i]
		edges[i] = graphstate.SnapshotEdge{
			ID:      id,
			Source:  ref.Source,
			Target:  ref.Target,
			Attrs:   ref.Attrs,
			TypeTag: ref.TypeTag,
		}
	}
	return nodes, edges
}
