package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/Carmen-Shannon/heroinegraph/eventbus"
	"github.com/Carmen-Shannon/heroinegraph/graphstate"
	"github.com/Carmen-Shannon/heroinegraph/ingest"
	"github.com/Carmen-Shannon/heroinegraph/interaction"
	"github.com/Carmen-Shannon/heroinegraph/layers"
	"github.com/Carmen-Shannon/heroinegraph/simulation"
	"github.com/Carmen-Shannon/heroinegraph/spatial"
)

// NodePatch carries the fields accepted by UpdateNode. A nil field leaves
// the corresponding attribute untouched, mirroring ingest.NodeSpec's
// optional-pointer shape for the mutation surface spec.md §6 describes.
type NodePatch struct {
	X, Y     *float32
	Radius   *float32
	Color    *string
	Selected *bool
	Hovered  *bool
	Type     *string
}

// EdgePatch carries the fields accepted by UpdateEdge.
type EdgePatch struct {
	Width     *float32
	Color     *string
	Selected  *bool
	Hovered   *bool
	Curvature *float32
	Opacity   *float32
	Type      *string
}

// Load replaces the entire graph with the object-array input shape,
// the `load` external operation's default ingestion path.
func (g *Graph) Load(nodes []ingest.NodeSpec, edges []ingest.EdgeSpec, opts ...ingest.Options) error {
	o := resolveIngestOptions(opts)
	parsed, err := ingest.ParseObjectForm(nodes, edges, o)
	if err != nil {
		return fmt.Errorf("graph: load: %w", err)
	}
	return g.loadParsed(parsed)
}

// LoadTyped replaces the entire graph with the parallel-typed-arrays
// input shape.
func (g *Graph) LoadTyped(data ingest.TypedGraphData, opts ...ingest.Options) error {
	o := resolveIngestOptions(opts)
	parsed, err := ingest.ParseTypedForm(data, o)
	if err != nil {
		return fmt.Errorf("graph: load: %w", err)
	}
	return g.loadParsed(parsed)
}

func resolveIngestOptions(opts []ingest.Options) ingest.Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return ingest.DefaultOptions()
}

func (g *Graph) loadParsed(parsed *ingest.ParsedGraph) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	nodes, edges := parsed.ToGraphStateSnapshot()
	g.state.LoadSnapshot(nodes, edges)
	g.clearSelectionLocked()
	return nil
}

// AddNode creates a single node from the object-form spec, failing with
// graphstate.ErrDuplicateID if the id is already bound — unlike the
// underlying graphstate.State.AddNode, which is idempotent on a
// duplicate id, the embedder-facing operation must reject duplicates
// outright per the error taxonomy's DUPLICATE_ID kind.
func (g *Graph) AddNode(spec ingest.NodeSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addNodeLocked(spec)
}

func (g *Graph) addNodeLocked(spec ingest.NodeSpec) error {
	if spec.ID == "" {
		return fmt.Errorf("%w: node missing id", ingest.ErrInvalidGraphData)
	}
	if _, ok := g.state.NodeSlotOf(spec.ID); ok {
		return fmt.Errorf("%w: node %q", graphstate.ErrDuplicateID, spec.ID)
	}
	g.state.AddNode(spec.ID, nodeSpecFromIngest(spec))
	return nil
}

func nodeSpecFromIngest(spec ingest.NodeSpec) graphstate.NodeSpec {
	radius := float32(6.0)
	if spec.Radius != nil {
		radius = *spec.Radius
	}
	var x, y float32
	if spec.X != nil {
		x = *spec.X
	}
	if spec.Y != nil {
		y = *spec.Y
	}
	rgb := ingest.ParseColor(spec.Color)
	return graphstate.NodeSpec{
		X: x, Y: y,
		Attrs:   graphstate.NodeAttrs{Radius: radius, R: rgb[0], G: rgb[1], B: rgb[2]},
		TypeTag: spec.Type,
	}
}

// AddNodes creates every node in specs, in order, stopping at the first
// failure. Nodes already added by a partial failure remain in the graph;
// callers wanting atomicity across the batch should pre-validate ids.
func (g *Graph) AddNodes(specs []ingest.NodeSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, spec := range specs {
		if err := g.addNodeLocked(spec); err != nil {
			return err
		}
	}
	return nil
}

// RemoveNode removes a node and cascades removal to every incident edge.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.state.RemoveNode(id); err != nil {
		return fmt.Errorf("graph: remove node: %w", err)
	}
	delete(g.selectedNodes, id)
	return nil
}

// UpdateNode applies a partial patch to an existing node.
func (g *Graph) UpdateNode(id string, patch NodePatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := g.state.UpdateNode(id, func(cur *graphstate.NodeSpec) {
		if patch.X != nil {
			cur.X = *patch.X
		}
		if patch.Y != nil {
			cur.Y = *patch.Y
		}
		if patch.Radius != nil {
			cur.Attrs.Radius = *patch.Radius
		}
		if patch.Color != nil {
			rgb := ingest.ParseColor(*patch.Color)
			cur.Attrs.R, cur.Attrs.G, cur.Attrs.B = rgb[0], rgb[1], rgb[2]
		}
		if patch.Selected != nil {
			cur.Attrs.Selected = boolToFlag(*patch.Selected)
		}
		if patch.Hovered != nil {
			cur.Attrs.Hovered = boolToFlag(*patch.Hovered)
		}
		if patch.Type != nil {
			cur.TypeTag = *patch.Type
		}
	})
	if err != nil {
		return fmt.Errorf("graph: update node: %w", err)
	}
	return nil
}

// AddEdge creates a single edge from the object-form spec. Fails with
// graphstate.ErrNotFound if either endpoint is not a live node.
func (g *Graph) AddEdge(spec ingest.EdgeSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdgeLocked(spec)
}

func (g *Graph) addEdgeLocked(spec ingest.EdgeSpec) error {
	source, ok := g.state.NodeSlotOf(spec.Source)
	if !ok {
		return fmt.Errorf("%w: edge source %q", graphstate.ErrNotFound, spec.Source)
	}
	target, ok := g.state.NodeSlotOf(spec.Target)
	if !ok {
		return fmt.Errorf("%w: edge target %q", graphstate.ErrNotFound, spec.Target)
	}
	width := float32(1.0)
	if spec.Width != nil {
		width = *spec.Width
	}
	rgb := ingest.ParseColor(spec.Color)
	id := spec.ID
	for n := g.state.EdgeCount(); id == ""; n++ {
		cand := fmt.Sprintf("__edge_%d", n)
		if _, taken := g.state.EdgeSlotOf(cand); !taken {
			id = cand
		}
	}
	_, err := g.state.AddEdge(id, graphstate.EdgeSpec{
		Source:  source,
		Target:  target,
		Attrs:   graphstate.EdgeAttrs{Width: width, R: rgb[0], G: rgb[1], B: rgb[2], Opacity: 1},
		TypeTag: spec.Type,
	})
	if err != nil {
		return fmt.Errorf("graph: add edge: %w", err)
	}
	return nil
}

// AddEdges creates every edge in specs, in order, stopping at the first
// failure.
func (g *Graph) AddEdges(specs []ingest.EdgeSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, spec := range specs {
		if err := g.addEdgeLocked(spec); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEdge removes a single edge by id.
func (g *Graph) RemoveEdge(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.state.RemoveEdge(id); err != nil {
		return fmt.Errorf("graph: remove edge: %w", err)
	}
	delete(g.selectedEdges, id)
	return nil
}

// UpdateEdge applies a partial patch to an existing edge.
func (g *Graph) UpdateEdge(id string, patch EdgePatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := g.state.UpdateEdge(id, func(cur *graphstate.EdgeSpec) {
		if patch.Width != nil {
			cur.Attrs.Width = *patch.Width
		}
		if patch.Color != nil {
			rgb := ingest.ParseColor(*patch.Color)
			cur.Attrs.R, cur.Attrs.G, cur.Attrs.B = rgb[0], rgb[1], rgb[2]
		}
		if patch.Selected != nil {
			cur.Attrs.Selected = boolToFlag(*patch.Selected)
		}
		if patch.Hovered != nil {
			cur.Attrs.Hovered = boolToFlag(*patch.Hovered)
		}
		if patch.Curvature != nil {
			cur.Attrs.Curvature = *patch.Curvature
		}
		if patch.Opacity != nil {
			cur.Attrs.Opacity = *patch.Opacity
		}
		if patch.Type != nil {
			cur.TypeTag = *patch.Type
		}
	})
	if err != nil {
		return fmt.Errorf("graph: update edge: %w", err)
	}
	return nil
}

// PinNode pins a node in place; the integration pass skips it entirely.
func (g *Graph) PinNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.PinNode(id)
}

// UnpinNode releases a previously pinned node.
func (g *Graph) UnpinNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.UnpinNode(id)
}

// SetNodePosition writes a node's graph-space position directly, used by
// drag handling and programmatic layout overrides alike.
func (g *Graph) SetNodePosition(id string, x, y float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.SetNodePosition(id, x, y)
}

// GetNodeCount returns the number of currently live nodes.
func (g *Graph) GetNodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.NodeCount()
}

// GetEdgeCount returns the number of currently live edges.
func (g *Graph) GetEdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.EdgeCount()
}

func boolToFlag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// --- Viewport ---

// Pan translates the viewport by (dx, dy) screen pixels.
func (g *Graph) Pan(dx, dy float32) {
	g.vp.Pan(dx, dy)
}

// Zoom multiplies the current scale by factor, keeping (cx, cy) fixed on
// screen if given, otherwise zooming around the viewport's own center in
// screen space.
func (g *Graph) Zoom(factor float32, cx, cy *float32) {
	screenX, screenY := float32(g.width)/2, float32(g.height)/2
	if cx != nil {
		screenX = *cx
	}
	if cy != nil {
		screenY = *cy
	}
	g.vp.ZoomByFactor(screenX, screenY, factor)
}

// FitToView frames every live node with the given pixel margin (0 if
// padding is nil).
func (g *Graph) FitToView(padding *float32) {
	g.mu.Lock()
	minX, minY, maxX, maxY, any := g.liveNodeBoundsLocked()
	g.mu.Unlock()
	if !any {
		return
	}
	margin := float32(0)
	if padding != nil {
		margin = *padding
	}
	g.vp.FitToBounds(minX, minY, maxX, maxY, margin)
}

func (g *Graph) liveNodeBoundsLocked() (minX, minY, maxX, maxY float32, any bool) {
	xs, ys := g.state.Positions()
	attrs := g.state.NodeAttrsRaw()
	highWater := g.state.NodeHighWater()
	for slot := 0; slot < highWater; slot++ {
		radius := attrs[slot*6]
		if radius <= 0 {
			continue
		}
		x, y := xs[slot], ys[slot]
		if !any {
			minX, minY, maxX, maxY = x, y, x, y
			any = true
			continue
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return minX, minY, maxX, maxY, any
}

// CenterOn recenters the viewport on a graph-space point without
// changing scale.
func (g *Graph) CenterOn(x, y float32) {
	g.vp.SetCenter(x, y)
}

// ScreenToGraph converts a screen-space pixel coordinate to graph space.
func (g *Graph) ScreenToGraph(x, y float32) (float32, float32) {
	return g.vp.ScreenToGraph(x, y)
}

// GraphToScreen converts a graph-space coordinate to screen-space pixels.
func (g *Graph) GraphToScreen(x, y float32) (float32, float32) {
	return g.vp.GraphToScreen(x, y)
}

// --- Selection ---

// SelectNodes marks ids as selected, additively if additive is true,
// replacing the prior selection otherwise. Unknown ids are skipped.
func (g *Graph) SelectNodes(ids []string, additive bool) {
	g.mu.Lock()
	if !additive {
		g.clearNodeAttrFlagLocked(g.selectedNodes)
		g.selectedNodes = make(map[string]struct{})
	}
	for _, id := range ids {
		if _, ok := g.state.NodeSlotOf(id); !ok {
			continue
		}
		g.selectedNodes[id] = struct{}{}
		_ = g.state.UpdateNode(id, func(cur *graphstate.NodeSpec) { cur.Attrs.Selected = 1 })
	}
	g.mu.Unlock()
	g.publishSelectionChange()
}

// SelectEdges marks ids as selected, additively if additive is true.
func (g *Graph) SelectEdges(ids []string, additive bool) {
	g.mu.Lock()
	if !additive {
		g.clearEdgeAttrFlagLocked(g.selectedEdges)
		g.selectedEdges = make(map[string]struct{})
	}
	for _, id := range ids {
		if _, ok := g.state.EdgeSlotOf(id); !ok {
			continue
		}
		g.selectedEdges[id] = struct{}{}
		_ = g.state.UpdateEdge(id, func(cur *graphstate.EdgeSpec) { cur.Attrs.Selected = 1 })
	}
	g.mu.Unlock()
	g.publishSelectionChange()
}

// ClearSelection deselects every node and edge.
func (g *Graph) ClearSelection() {
	g.mu.Lock()
	g.clearSelectionLocked()
	g.mu.Unlock()
	g.publishSelectionChange()
}

func (g *Graph) clearSelectionLocked() {
	g.clearNodeAttrFlagLocked(g.selectedNodes)
	g.clearEdgeAttrFlagLocked(g.selectedEdges)
	g.selectedNodes = make(map[string]struct{})
	g.selectedEdges = make(map[string]struct{})
}

func (g *Graph) clearNodeAttrFlagLocked(ids map[string]struct{}) {
	for id := range ids {
		_ = g.state.UpdateNode(id, func(cur *graphstate.NodeSpec) { cur.Attrs.Selected = 0 })
	}
}

func (g *Graph) clearEdgeAttrFlagLocked(ids map[string]struct{}) {
	for id := range ids {
		_ = g.state.UpdateEdge(id, func(cur *graphstate.EdgeSpec) { cur.Attrs.Selected = 0 })
	}
}

func (g *Graph) publishSelectionChange() {
	if g.bus == nil {
		return
	}
	g.bus.Publish(eventbus.EventLayerChange, eventbus.LayerChangeEvent{})
}

// GetSelectedNodes returns the currently selected node ids, sorted.
func (g *Graph) GetSelectedNodes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.selectedNodes))
	for id := range g.selectedNodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GetSelectedEdges returns the currently selected edge ids, sorted.
func (g *Graph) GetSelectedEdges() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.selectedEdges))
	for id := range g.selectedEdges {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// --- Simulation ---

// StartSimulation transitions stopped -> running without reheating.
func (g *Graph) StartSimulation() { g.controller.Start() }

// StopSimulation halts the simulation and resets alpha to zero.
func (g *Graph) StopSimulation() { g.controller.Stop() }

// PauseSimulation transitions running -> paused.
func (g *Graph) PauseSimulation() { g.controller.Pause() }

// ResumeSimulation transitions paused -> running.
func (g *Graph) ResumeSimulation() { g.controller.Resume() }

// RestartSimulation reheats alpha (1.0 if alpha is nil) and moves the
// controller to running from any state.
func (g *Graph) RestartSimulation(alpha *float32) {
	v := float32(1.0)
	if alpha != nil {
		v = *alpha
	}
	g.controller.Restart(v)
}

// GetSimulationStatus returns the controller's current state/alpha/tick.
func (g *Graph) GetSimulationStatus() simulation.Status {
	return g.controller.Status()
}

// SetForceConfig patches the force configuration in place.
func (g *Graph) SetForceConfig(patch func(cur *simulation.ForceConfig)) {
	g.controller.SetForceConfig(patch)
}

// GetForceConfig returns a copy of the current force configuration.
func (g *Graph) GetForceConfig() simulation.ForceConfig {
	return g.controller.ForceConfig()
}

// SetAlpha force-sets the current alpha value.
func (g *Graph) SetAlpha(v float32) { g.controller.SetAlpha(v) }

// TickSimulation drives one full frame (upload, simulate if due, render,
// submit) synchronously, used by headless callers and tests that don't
// run their own animation loop.
func (g *Graph) TickSimulation() error {
	_, err := g.loop.RunFrame()
	return err
}

// --- Hit testing ---

// GetNodeAtPosition resolves a screen-space point to a node id via the
// spatial index.
func (g *Graph) GetNodeAtPosition(x, y float32) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gx, gy := g.vp.ScreenToGraph(x, y)
	g.rebuildSpatialIndex()
	p, ok := g.spatialIdx.Nearest(gx, gy, 0)
	if !ok {
		return "", false
	}
	return g.state.NodeIdOf(graphstate.NodeSlot(p.Slot))
}

// GetEdgeAtPosition resolves a screen-space point to the closest edge
// within radius graph-space units via brute-force point-to-segment
// distance, per spec.md §4.9 (edge hit testing is never spatially
// indexed, only node hit testing is).
func (g *Graph) GetEdgeAtPosition(x, y float32, radius float32) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gx, gy := g.vp.ScreenToGraph(x, y)

	xs, ys := g.state.Positions()
	sources, targets := g.state.EdgeSources(), g.state.EdgeTargets()

	bestID := ""
	bestDist := radius
	found := false
	for slot := 0; slot < len(sources); slot++ {
		sx, sy := xs[sources[slot]], ys[sources[slot]]
		tx, ty := xs[targets[slot]], ys[targets[slot]]
		d := pointToSegmentDistance(gx, gy, sx, sy, tx, ty)
		if d > bestDist {
			continue
		}
		id, ok := g.state.EdgeIdOf(graphstate.EdgeSlot(slot))
		if !ok {
			continue
		}
		bestDist = d
		bestID = id
		found = true
	}
	return bestID, found
}

func pointToSegmentDistance(px, py, ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		ddx, ddy := px-ax, py-ay
		return float32(math.Sqrt(float64(ddx*ddx + ddy*ddy)))
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := ax+t*dx, ay+t*dy
	ddx, ddy := px-cx, py-cy
	return float32(math.Sqrt(float64(ddx*ddx + ddy*ddy)))
}

// GetNodesInRect returns every node id whose position falls within the
// axis-aligned screen-space rectangle [x1,y1]-[x2,y2].
func (g *Graph) GetNodesInRect(x1, y1, x2, y2 float32) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	gx1, gy1 := g.vp.ScreenToGraph(x1, y1)
	gx2, gy2 := g.vp.ScreenToGraph(x2, y2)
	if gx1 > gx2 {
		gx1, gx2 = gx2, gx1
	}
	if gy1 > gy2 {
		gy1, gy2 = gy2, gy1
	}

	xs, ys := g.state.Positions()
	attrs := g.state.NodeAttrsRaw()
	highWater := g.state.NodeHighWater()

	var out []string
	for slot := 0; slot < highWater; slot++ {
		if attrs[slot*6] <= 0 {
			continue
		}
		x, y := xs[slot], ys[slot]
		if x < gx1 || x > gx2 || y < gy1 || y > gy2 {
			continue
		}
		if id, ok := g.state.NodeIdOf(graphstate.NodeSlot(slot)); ok {
			out = append(out, id)
		}
	}
	return out
}

// GetNearestNode returns the node id closest to the screen-space point,
// within maxDist graph-space units (0 means "radius only").
func (g *Graph) GetNearestNode(x, y float32, maxDist float32) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gx, gy := g.vp.ScreenToGraph(x, y)

	xs, ys := g.state.Positions()
	attrs := g.state.NodeAttrsRaw()
	highWater := g.state.NodeHighWater()

	points := make([]spatial.Point, 0, highWater)
	for slot := 0; slot < highWater; slot++ {
		radius := attrs[slot*6]
		if radius <= 0 {
			continue
		}
		points = append(points, spatial.Point{Slot: int32(slot), X: xs[slot], Y: ys[slot], Radius: radius})
	}
	p, ok := spatial.BruteForceHitTest(points, gx, gy, maxDist)
	if !ok {
		return "", false
	}
	return g.state.NodeIdOf(graphstate.NodeSlot(p.Slot))
}

// --- Layers ---

// layerID gives every closed LayerKind a stable registration id; embedders
// register at most one layer per kind (LayerCustom excepted, which takes
// an explicit id via config).
func layerID(kind layers.LayerKind, config any) string {
	switch kind {
	case layers.LayerHeatmap:
		return "heatmap"
	case layers.LayerContour:
		return "contour"
	case layers.LayerMetaball:
		return "metaball"
	case layers.LayerLabels:
		return "labels"
	default:
		if id, ok := config.(interface{ LayerID() string }); ok {
			return id.LayerID()
		}
		return "custom"
	}
}

// EnableLayer registers (or re-enables) an overlay layer of the given
// kind with the given kind-specific config.
func (g *Graph) EnableLayer(kind layers.LayerKind, config any) error {
	id := layerID(kind, config)
	var render layers.CustomRenderFunc
	if fn, ok := config.(layers.CustomRenderFunc); ok {
		render = fn
	}
	err := g.layerMgr.Add(layers.Layer{
		ID:      id,
		Kind:    kind,
		Enabled: true,
		Config:  config,
		Render:  render,
	})
	if err != nil {
		return fmt.Errorf("graph: enable layer: %w", err)
	}
	g.publishLayerChange(id, true)
	return nil
}

// DisableLayer turns off a registered layer without removing it.
func (g *Graph) DisableLayer(kind layers.LayerKind) {
	id := layerID(kind, nil)
	g.layerMgr.SetEnabled(id, false)
	g.publishLayerChange(id, false)
}

// ToggleLayer flips a registered layer's enabled flag.
func (g *Graph) ToggleLayer(kind layers.LayerKind) {
	id := layerID(kind, nil)
	layer, ok := g.layerMgr.Get(id)
	if !ok {
		return
	}
	g.layerMgr.SetEnabled(id, !layer.Enabled)
	g.publishLayerChange(id, !layer.Enabled)
}

// SetLayerConfig replaces a registered layer's kind-specific config.
func (g *Graph) SetLayerConfig(kind layers.LayerKind, patch any) bool {
	return g.layerMgr.SetConfig(layerID(kind, nil), patch)
}

// SetLayerOrder updates a registered layer's draw order.
func (g *Graph) SetLayerOrder(kind layers.LayerKind, order int) bool {
	return g.layerMgr.SetOrder(layerID(kind, nil), order)
}

func (g *Graph) publishLayerChange(id string, enabled bool) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(eventbus.EventLayerChange, eventbus.LayerChangeEvent{LayerID: id, Enabled: enabled})
}

// --- Events ---

// On subscribes handler to kind, returning an unsubscribe function. This
// is the external `on` operation; Go's closure-returning idiom already
// covers what the JS source exposes as a paired on/off call.
func (g *Graph) On(kind eventbus.EventKind, handler eventbus.Handler) (unsubscribe func()) {
	return g.bus.Subscribe(kind, handler)
}

// Off is a convenience wrapper for embedders that stored the unsubscribe
// function returned by On and want a named call site instead of invoking
// it directly.
func (g *Graph) Off(unsubscribe func()) {
	if unsubscribe != nil {
		unsubscribe()
	}
}

// --- Pointer input ---

// HandlePointerEvent feeds one normalized pointer event into the
// interaction core, driving hit-test/drag/pin dispatch.
func (g *Graph) HandlePointerEvent(ev interaction.PointerEvent) {
	g.interaction.HandleEvent(ev)
}
