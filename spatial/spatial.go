// Package spatial implements the hit-test engine spec.md §4.9 calls an
// "R-tree-equivalent provided externally": a uniform-grid nearest-neighbor
// index plus an always-available brute-force fallback. Grounded on the
// bucket idiom of simulation's uniform-grid repulsion cutoff, reused here
// for screen-space rather than force-space queries.
package spatial

import "math"

// Point is a single indexed entity: an external slot index plus its
// graph-space position and hit radius.
type Point struct {
	Slot   int32
	X, Y   float32
	Radius float32
}

// Index is implemented by any nearest-point query structure usable for hit
// testing. GridIndex is the built-in implementation, and graph.Graph
// holds a *GridIndex directly; other implementations (e.g. a real
// R-tree) can satisfy this interface.
type Index interface {
	// Nearest returns the indexed point closest to (x, y) within
	// maxDistance, or ok=false if none qualifies.
	Nearest(x, y, maxDistance float32) (p Point, ok bool)
	// Rebuild replaces the indexed point set.
	Rebuild(points []Point)
}

// GridIndex buckets points into a uniform grid of cellSize graph-space
// units, giving average O(1) nearest-neighbor queries for evenly
// distributed layouts.
type GridIndex struct {
	cellSize float32
	cells    map[int64][]Point
}

// NewGridIndex constructs an empty GridIndex with the given cell size.
// cellSize should track the viewport's current scale (larger cells at low
// zoom, smaller at high zoom) for a consistent query cost.
func NewGridIndex(cellSize float32) *GridIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &GridIndex{cellSize: cellSize, cells: make(map[int64][]Point)}
}

func (g *GridIndex) key(x, y float32) int64 {
	cx := int64(math.Floor(float64(x / g.cellSize)))
	cy := int64(math.Floor(float64(y / g.cellSize)))
	return cx<<32 ^ (cy & 0xffffffff)
}

// Rebuild discards the current bucket set and re-indexes points.
func (g *GridIndex) Rebuild(points []Point) {
	g.cells = make(map[int64][]Point, len(points))
	for _, p := range points {
		k := g.key(p.X, p.Y)
		g.cells[k] = append(g.cells[k], p)
	}
}

// SetCellSize updates the bucket size used by subsequent Rebuild calls.
func (g *GridIndex) SetCellSize(cellSize float32) {
	if cellSize <= 0 {
		cellSize = 1
	}
	g.cellSize = cellSize
}

// Nearest scans the 3x3 neighborhood of cells around (x, y) and returns
// the closest point whose hit radius (or maxDistance, whichever is
// larger) contains the query point.
func (g *GridIndex) Nearest(x, y, maxDistance float32) (Point, bool) {
	cx := int64(math.Floor(float64(x / g.cellSize)))
	cy := int64(math.Floor(float64(y / g.cellSize)))

	var best Point
	bestDistSq := float32(math.MaxFloat32)
	found := false

	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			key := (cx+dx)<<32 ^ ((cy + dy) & 0xffffffff)
			for _, p := range g.cells[key] {
				ddx := p.X - x
				ddy := p.Y - y
				distSq := ddx*ddx + ddy*ddy
				limit := p.Radius
				if maxDistance > limit {
					limit = maxDistance
				}
				if distSq > limit*limit {
					continue
				}
				if distSq < bestDistSq {
					bestDistSq = distSq
					best = p
					found = true
				}
			}
		}
	}
	return best, found
}

// BruteForceHitTest scans every point linearly and returns the closest one
// within maxDistance (or its own radius, whichever is larger). Always
// available regardless of which Index implementation (if any) is wired,
// satisfying spec.md seed test 5.
func BruteForceHitTest(points []Point, x, y, maxDistance float32) (Point, bool) {
	var best Point
	bestDistSq := float32(math.MaxFloat32)
	found := false
	for _, p := range points {
		ddx := p.X - x
		ddy := p.Y - y
		distSq := ddx*ddx + ddy*ddy
		limit := p.Radius
		if maxDistance > limit {
			limit = maxDistance
		}
		if distSq > limit*limit {
			continue
		}
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = p
			found = true
		}
	}
	return best, found
}
