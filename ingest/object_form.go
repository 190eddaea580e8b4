package ingest

import (
	"fmt"

	"github.com/Carmen-Shannon/heroinegraph/graphstate"
)

const defaultNodeRadius = 6.0
const defaultEdgeWidth = 1.0

// ParseObjectForm validates and normalizes the object-array input shape:
// arrays of {id, x?, y?, radius?, color?, type?, metadata?} nodes and
// {source, target, id?, width?, color?, type?, metadata?} edges.
//
// Duplicate node ids fail with ErrInvalidGraphData. Edges referencing
// unknown endpoints fail the same way unless opts.ValidateReferences is
// false, in which case they are dropped instead.
func ParseObjectForm(nodes []NodeSpec, edges []EdgeSpec, opts Options) (*ParsedGraph, error) {
	out := &ParsedGraph{
		NodeIds:   make([]string, 0, len(nodes)),
		NodeSpecs: make([]graphstate.NodeSpec, 0, len(nodes)),
	}

	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node missing id", ErrInvalidGraphData)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraphData, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	// Id validation above is a cheap sequential pass over a shared map;
	// the per-node defaulting/color-parse work below has no cross-node
	// dependency, so large batches fan out across sharedNodePool.
	derived := deriveNodesParallel(nodes)
	for i, n := range nodes {
		d := derived[i]
		out.NodeIds = append(out.NodeIds, n.ID)
		out.NodeSpecs = append(out.NodeSpecs, graphstate.NodeSpec{
			X: d.x, Y: d.y,
			Attrs: graphstate.NodeAttrs{
				Radius: d.radius,
				R:      d.rgb[0], G: d.rgb[1], B: d.rgb[2],
			},
			TypeTag: n.Type,
		})
	}

	out.EdgeIds = make([]string, 0, len(edges))
	out.EdgeSpecs = make([]EdgeRef, 0, len(edges))
	for i, e := range edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("%w: edge missing source/target", ErrInvalidGraphData)
		}
		_, srcOK := seen[e.Source]
		_, dstOK := seen[e.Target]
		if !srcOK || !dstOK {
			if opts.ValidateReferences {
				return nil, fmt.Errorf("%w: edge references unknown node (%q -> %q)", ErrInvalidGraphData, e.Source, e.Target)
			}
			continue
		}

		id := e.ID
		if id == "" {
			id = fmt.Sprintf("__edge_%d", i)
		}
		width := float32(defaultEdgeWidth)
		if e.Width != nil {
			width = *e.Width
		}
		rgb := ParseColor(e.Color)

		out.EdgeIds = append(out.EdgeIds, id)
		out.EdgeSpecs = append(out.EdgeSpecs, EdgeRef{
			Source: e.Source,
			Target: e.Target,
			Attrs: graphstate.EdgeAttrs{
				Width: width,
				R:     rgb[0], G: rgb[1], B: rgb[2],
				Opacity: 1,
			},
			TypeTag: e.Type,
		})
	}

	return out, nil
}
