package ingest

import (
	"fmt"

	"github.com/Carmen-Shannon/heroinegraph/graphstate"
)

// ParseTypedForm validates and normalizes the parallel-typed-arrays
// input shape. Missing arrays are filled with defaults; array length
// mismatches fail with ErrInvalidGraphData.
func ParseTypedForm(data TypedGraphData, opts Options) (*ParsedGraph, error) {
	if data.NodeCount < 0 || data.EdgeCount < 0 {
		return nil, fmt.Errorf("%w: negative count", ErrInvalidGraphData)
	}
	if len(data.Positions) != 0 && len(data.Positions) != 2*data.NodeCount {
		return nil, fmt.Errorf("%w: positions length mismatch", ErrInvalidGraphData)
	}
	if len(data.NodeRadii) != 0 && len(data.NodeRadii) != data.NodeCount {
		return nil, fmt.Errorf("%w: nodeRadii length mismatch", ErrInvalidGraphData)
	}
	if len(data.NodeColors) != 0 && len(data.NodeColors) != data.NodeCount {
		return nil, fmt.Errorf("%w: nodeColors length mismatch", ErrInvalidGraphData)
	}
	if len(data.NodeIds) != 0 && len(data.NodeIds) != data.NodeCount {
		return nil, fmt.Errorf("%w: nodeIds length mismatch", ErrInvalidGraphData)
	}
	if data.EdgeCount > 0 && len(data.EdgePairs) != 2*data.EdgeCount {
		return nil, fmt.Errorf("%w: edgePairs length mismatch", ErrInvalidGraphData)
	}
	if len(data.EdgeWidths) != 0 && len(data.EdgeWidths) != data.EdgeCount {
		return nil, fmt.Errorf("%w: edgeWidths length mismatch", ErrInvalidGraphData)
	}
	if len(data.EdgeColors) != 0 && len(data.EdgeColors) != data.EdgeCount {
		return nil, fmt.Errorf("%w: edgeColors length mismatch", ErrInvalidGraphData)
	}
	if len(data.EdgeIds) != 0 && len(data.EdgeIds) != data.EdgeCount {
		return nil, fmt.Errorf("%w: edgeIds length mismatch", ErrInvalidGraphData)
	}

	out := &ParsedGraph{
		NodeIds:   make([]string, data.NodeCount),
		NodeSpecs: make([]graphstate.NodeSpec, data.NodeCount),
	}
	seen := make(map[string]struct{}, data.NodeCount)
	for i := 0; i < data.NodeCount; i++ {
		id := fmt.Sprintf("n%d", i)
		if len(data.NodeIds) != 0 {
			id = data.NodeIds[i]
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraphData, id)
		}
		seen[id] = struct{}{}

		var x, y float32
		if len(data.Positions) != 0 {
			x, y = data.Positions[2*i], data.Positions[2*i+1]
		}
		radius := float32(defaultNodeRadius)
		if len(data.NodeRadii) != 0 {
			radius = data.NodeRadii[i]
		}
		var r, g, b float32 = defaultColor[0], defaultColor[1], defaultColor[2]
		if len(data.NodeColors) != 0 {
			c := data.NodeColors[i]
			r, g, b = c[0], c[1], c[2]
		}

		out.NodeIds[i] = id
		out.NodeSpecs[i] = graphstate.NodeSpec{
			X: x, Y: y,
			Attrs: graphstate.NodeAttrs{Radius: radius, R: r, G: g, B: b},
		}
	}

	out.EdgeIds = make([]string, 0, data.EdgeCount)
	out.EdgeSpecs = make([]EdgeRef, 0, data.EdgeCount)
	for i := 0; i < data.EdgeCount; i++ {
		srcIdx, dstIdx := data.EdgePairs[2*i], data.EdgePairs[2*i+1]
		if int(srcIdx) < 0 || int(srcIdx) >= data.NodeCount || int(dstIdx) < 0 || int(dstIdx) >= data.NodeCount {
			if opts.ValidateReferences {
				return nil, fmt.Errorf("%w: edge pair out of range", ErrInvalidGraphData)
			}
			continue
		}

		id := fmt.Sprintf("e%d", i)
		if len(data.EdgeIds) != 0 {
			id = data.EdgeIds[i]
		}
		width := float32(defaultEdgeWidth)
		if len(data.EdgeWidths) != 0 {
			width = data.EdgeWidths[i]
		}
		var r, g, b float32 = defaultColor[0], defaultColor[1], defaultColor[2]
		if len(data.EdgeColors) != 0 {
			c := data.EdgeColors[i]
			r, g, b = c[0], c[1], c[2]
		}

		out.EdgeIds = append(out.EdgeIds, id)
		out.EdgeSpecs = append(out.EdgeSpecs, EdgeRef{
			Source: out.NodeIds[srcIdx],
			Target: out.NodeIds[dstIdx],
			Attrs:  graphstate.EdgeAttrs{Width: width, R: r, G: g, B: b, Opacity: 1},
		})
	}

	return out, nil
}
