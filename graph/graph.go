// Package graph wires every other package into the single embedder-facing
// handle spec.md §6 describes, built the way the teacher's engine.Engine /
// engine.NewEngine constructor wires window, profiler and scene management
// together behind one builder call. NewGraph is the async createGraph
// operation (blocks on adapter/device acquisition exactly like
// newWGPURendererBackend); every other operation is synchronous per §5.
// Load stores the new graph in CPU-side graph state and returns without
// waiting for the GPU; the upload happens in the next frame's begin step.
// ReadbackPositions is the one call that waits on the GPU (a queue
// submit + map-async round trip).
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/heroinegraph/buffers"
	"github.com/Carmen-Shannon/heroinegraph/capability"
	"github.com/Carmen-Shannon/heroinegraph/eventbus"
	"github.com/Carmen-Shannon/heroinegraph/gpucontext"
	"github.com/Carmen-Shannon/heroinegraph/graphstate"
	"github.com/Carmen-Shannon/heroinegraph/ingest"
	"github.com/Carmen-Shannon/heroinegraph/interaction"
	"github.com/Carmen-Shannon/heroinegraph/layers"
	"github.com/Carmen-Shannon/heroinegraph/orchestrator"
	"github.com/Carmen-Shannon/heroinegraph/render"
	"github.com/Carmen-Shannon/heroinegraph/simulation"
	"github.com/Carmen-Shannon/heroinegraph/spatial"
	"github.com/Carmen-Shannon/heroinegraph/viewport"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInvalidConfig reports an out-of-range force or layer parameter,
// completing the error taxonomy's INVALID_CONFIG kind.
var ErrInvalidConfig = errors.New("graph: invalid config")

const (
	defaultNodeCapacity = 1024
	defaultEdgeCapacity = 2048
	defaultCellSize     = 64
)

// Config configures NewGraph.
type Config struct {
	ForceFallbackAdapter bool
	DevicePixelRatio     float32
	InitialNodeCapacity  int
	InitialEdgeCapacity  int
	ForceConfig          simulation.ForceConfig
	Debug                bool
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithForceFallbackAdapter requests a software adapter instead of a
// discrete/integrated GPU.
func WithForceFallbackAdapter() Option {
	return func(c *Config) { c.ForceFallbackAdapter = true }
}

// WithDevicePixelRatio sets the surface's device pixel ratio.
func WithDevicePixelRatio(dpr float32) Option {
	return func(c *Config) { c.DevicePixelRatio = dpr }
}

// WithInitialCapacity sets the initial node/edge array capacity.
func WithInitialCapacity(nodeCapacity, edgeCapacity int) Option {
	return func(c *Config) {
		c.InitialNodeCapacity = nodeCapacity
		c.InitialEdgeCapacity = edgeCapacity
	}
}

// WithForceConfig overrides the default force configuration.
func WithForceConfig(cfg simulation.ForceConfig) Option {
	return func(c *Config) { c.ForceConfig = cfg }
}

// WithDebug makes the graph print the reason to stdout when the device
// is lost.
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

// Graph is the embedder-facing handle: the single point of entry for
// every external operation spec.md §6 lists. It owns no exported fields;
// every mutation goes through a method so preconditions are checked
// before any state changes, per the error-handling design's no-partial-
// mutation policy.
type Graph struct {
	mu sync.Mutex

	cfg Config
	gpu *gpucontext.Context
	cap *capability.Capabilities

	state *graphstate.State

	positions        *buffers.PositionBufferManager
	edges            *buffers.EdgeBufferManager
	endpoints        *buffers.EndpointBuffer
	nodeAttrs        *buffers.AttributeBuffer
	edgeAttrs        *buffers.AttributeBuffer
	simUniforms      *buffers.SimulationUniforms
	viewportUniforms *buffers.ViewportUniforms

	controller *simulation.Controller
	passes     *simulation.Passes
	pipelines  *render.PipelineSet
	layerMgr   *layers.Manager

	vp          *viewport.Viewport
	spatialIdx  *spatial.GridIndex
	interaction *interaction.Manager
	bus         *eventbus.Bus
	loop        *orchestrator.FrameLoop

	selectedNodes map[string]struct{}
	selectedEdges map[string]struct{}

	width, height int

	recovering bool
}

// NewGraph is the createGraph external operation: it probes GPU
// capability, acquires a device/queue/surface, and wires every component
// together. Blocks on adapter/device acquisition. Of the resulting
// Graph's operations only ReadbackPositions waits on the GPU; Load
// returns before its upload has happened.
func NewGraph(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, opts ...Option) (*Graph, error) {
	cfg := Config{
		DevicePixelRatio:    1,
		InitialNodeCapacity: defaultNodeCapacity,
		InitialEdgeCapacity: defaultEdgeCapacity,
		ForceConfig:         simulation.DefaultForceConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.InitialNodeCapacity < 1 {
		cfg.InitialNodeCapacity = defaultNodeCapacity
	}
	if cfg.InitialEdgeCapacity < 1 {
		cfg.InitialEdgeCapacity = defaultEdgeCapacity
	}

	// capability.Probe intentionally does not retain the instance/surface
	// it's given; gpucontext.CreateContext below requests its own
	// adapter/device chain, exactly as capability's doc comment expects.
	probeInstance := wgpu.CreateInstance(nil)
	if probeInstance == nil {
		return nil, capability.ErrUnsupported
	}
	probeSurface := probeInstance.CreateSurface(surfaceDescriptor)
	caps, err := capability.Probe(probeInstance, probeSurface, capability.Options{ForceFallbackAdapter: cfg.ForceFallbackAdapter})
	if err != nil {
		return nil, fmt.Errorf("graph: probing capability: %w", err)
	}
	if !caps.SupportsWorkgroupSize(simulation.WorkgroupSize) {
		return nil, fmt.Errorf("%w: adapter %q cannot run a %d-thread compute workgroup", capability.ErrUnsupported, caps.AdapterName, simulation.WorkgroupSize)
	}

	g := &Graph{
		cfg:           cfg,
		cap:           caps,
		selectedNodes: make(map[string]struct{}),
		selectedEdges: make(map[string]struct{}),
		width:         width,
		height:        height,
	}

	ctx, err := gpucontext.CreateContext(surfaceDescriptor, width, height, gpucontext.Options{
		ForceFallbackAdapter: cfg.ForceFallbackAdapter,
		DevicePixelRatio:     cfg.DevicePixelRatio,
		OnDeviceLost:         g.handleDeviceLost,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: creating gpu context: %w", err)
	}
	g.gpu = ctx

	if err := g.buildComponents(); err != nil {
		ctx.Destroy()
		return nil, err
	}
	return g, nil
}

// buildComponents allocates every GPU-facing and CPU-facing component
// from the current graphstate snapshot. Called once at construction and
// again from Recover after a device loss.
func (g *Graph) buildComponents() error {
	device, queue := g.gpu.Device(), g.gpu.Queue()
	nodeCap, edgeCap := g.cfg.InitialNodeCapacity, g.cfg.InitialEdgeCapacity

	if g.state == nil {
		g.state = graphstate.New(nodeCap, edgeCap)
	}

	g.positions = buffers.NewPositionBufferManager(device, queue, nodeCap)
	g.edges = buffers.NewEdgeBufferManager(device, queue, nodeCap, edgeCap)
	g.endpoints = buffers.NewEndpointBuffer(device, queue, edgeCap)
	g.nodeAttrs = buffers.NewAttributeBuffer(device, queue, "node-attrs", nodeCap*6)
	g.edgeAttrs = buffers.NewAttributeBuffer(device, queue, "edge-attrs", edgeCap*8)
	g.simUniforms = buffers.NewSimulationUniforms(device)
	g.viewportUniforms = buffers.NewViewportUniforms(device)

	if g.controller == nil {
		g.controller = simulation.NewController(g.cfg.ForceConfig)
		g.controller.OnSimulationEnd(g.handleSimulationEnd)
	}

	passes, err := simulation.NewPasses(device, queue, nodeCap)
	if err != nil {
		return fmt.Errorf("graph: building simulation passes: %w", err)
	}
	g.passes = passes

	pipelines, err := render.NewPipelineSet(device, g.gpu.SurfaceFormat())
	if err != nil {
		return fmt.Errorf("graph: building render pipelines: %w", err)
	}
	g.pipelines = pipelines

	if g.layerMgr == nil {
		g.layerMgr = layers.NewManager()
	}
	if g.vp == nil {
		g.vp = viewport.New(g.width, g.height, g.cfg.DevicePixelRatio,
			viewport.WithSpeeds(1, 1),
			viewport.WithChangeListener(g.onViewportChange),
		)
	}
	if g.spatialIdx == nil {
		g.spatialIdx = spatial.NewGridIndex(defaultCellSize)
	}
	if g.bus == nil {
		g.bus = eventbus.New()
	}

	g.loop = orchestrator.New(
		device, queue, g.gpu.Surface(),
		g.state, g.positions, g.edges, g.endpoints, g.nodeAttrs, g.edgeAttrs,
		g.simUniforms, g.viewportUniforms,
		g.controller, g.passes, g.pipelines, g.layerMgr, g.bus,
	)

	if g.interaction == nil {
		g.interaction = interaction.NewManager(
			hitTesterAdapter{g},
			g.vp,
			g.controller,
			g.state,
			g.state,
			slotResolverAdapter{g.state},
			interaction.WithNodeClickHandler(g.handleNodeClick),
			interaction.WithNodeDragHandlers(g.handleDragStart, g.handleDrag, g.handleDragEnd),
		)
	}
	return nil
}

// handleDeviceLost is registered as the gpucontext recovery callback. It
// only records the loss and publishes an error-equivalent event; actual
// GPU object teardown/rebuild happens in Recover, which the host calls
// once it has stopped requesting frames, per §5's recovery path.
func (g *Graph) handleDeviceLost(reason error) {
	g.mu.Lock()
	g.recovering = true
	g.mu.Unlock()
	if g.bus != nil {
		g.bus.Publish(eventbus.EventSimulationEnd, eventbus.SimulationEndEvent{})
	}
	if g.cfg.Debug {
		fmt.Printf("graph: device lost: %v\n", reason)
	}
}

// Recover tears down every device-owned object and rebuilds it from the
// current graphstate.State snapshot, per §5's device-loss recovery path.
// The host must have stopped requesting frames before calling this.
func (g *Graph) Recover(surfaceDescriptor *wgpu.SurfaceDescriptor) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.releaseGPUObjects()
	ctx, err := gpucontext.CreateContext(surfaceDescriptor, g.width, g.height, gpucontext.Options{
		ForceFallbackAdapter: g.cfg.ForceFallbackAdapter,
		DevicePixelRatio:     g.cfg.DevicePixelRatio,
		OnDeviceLost:         g.handleDeviceLost,
	})
	if err != nil {
		return fmt.Errorf("graph: recovering gpu context: %w", err)
	}
	g.gpu = ctx
	if err := g.buildComponents(); err != nil {
		return err
	}
	g.state.MarkEverythingDirty()
	g.recovering = false
	return nil
}

func (g *Graph) releaseGPUObjects() {
	if g.positions != nil {
		g.positions.Release()
	}
	if g.edges != nil {
		g.edges.Release()
	}
	if g.endpoints != nil {
		g.endpoints.Release()
	}
	if g.nodeAttrs != nil {
		g.nodeAttrs.Release()
	}
	if g.edgeAttrs != nil {
		g.edgeAttrs.Release()
	}
	if g.passes != nil {
		g.passes.Release()
	}
	if g.pipelines != nil {
		g.pipelines.Release()
	}
	if g.loop != nil {
		g.loop.Release()
	}
}

// Destroy releases every GPU-owned resource. The Graph must not be used
// afterward.
func (g *Graph) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releaseGPUObjects()
	if g.gpu != nil {
		g.gpu.Destroy()
	}
}

// hitTesterAdapter adapts spatial.GridIndex's Point-returning Nearest
// into the interaction.HitTester shape (slot int32, ok bool), and keeps
// the index rebuilt against the live graph state before every query —
// spatial.GridIndex itself never reads graphstate.
type hitTesterAdapter struct{ g *Graph }

func (a hitTesterAdapter) HitTest(graphX, graphY, maxDistance float32) (int32, bool) {
	a.g.rebuildSpatialIndex()
	p, ok := a.g.spatialIdx.Nearest(graphX, graphY, maxDistance)
	if !ok {
		return 0, false
	}
	return p.Slot, true
}

// slotResolverAdapter narrows graphstate.State.NodeIdOf's NodeSlot
// parameter to the plain int32 interaction.SlotResolver expects, since a
// named integer type and its underlying type don't satisfy the same
// interface method set.
type slotResolverAdapter struct{ state *graphstate.State }

func (a slotResolverAdapter) NodeIdOf(slot int32) (string, bool) {
	return a.state.NodeIdOf(graphstate.NodeSlot(slot))
}

// rebuildSpatialIndex re-indexes every live node's position and radius.
// Called lazily before each hit-test query rather than once per frame;
// at the node counts this engine targets a full rebuild is cheap relative
// to the simulation's own per-tick cost, and this keeps hit testing
// correct without graphstate needing to track a separate "spatial dirty"
// flag alongside its GPU dirty-range tracking.
func (g *Graph) rebuildSpatialIndex() {
	xs, ys := g.state.Positions()
	attrs := g.state.NodeAttrsRaw()
	highWater := g.state.NodeHighWater()

	points := make([]spatial.Point, 0, highWater)
	for slot := 0; slot < highWater; slot++ {
		radius := attrs[slot*6]
		if radius <= 0 {
			continue
		}
		points = append(points, spatial.Point{
			Slot:   int32(slot),
			X:      xs[slot],
			Y:      ys[slot],
			Radius: radius,
		})
	}
	g.spatialIdx.Rebuild(points)
}

func (g *Graph) onViewportChange() {
	if g.bus == nil {
		return
	}
	cx, cy := g.vp.Center()
	g.bus.Publish(eventbus.EventViewportChange, eventbus.ViewportChangeEvent{
		CenterX: cx,
		CenterY: cy,
		Scale:   g.vp.Scale(),
	})

	clip := g.vp.GraphToClip()
	g.viewportUniforms.GraphToClip = clip
	w, h := g.width, g.height
	g.viewportUniforms.ScreenW = float32(w)
	g.viewportUniforms.ScreenH = float32(h)
	scale := g.vp.Scale()
	g.viewportUniforms.Scale = scale
	if scale != 0 {
		g.viewportUniforms.InvScale = 1 / scale
	}
	g.viewportUniforms.Dpr = g.cfg.DevicePixelRatio
	g.viewportUniforms.MarkDirty()
}

func (g *Graph) handleSimulationEnd() {
	if g.bus == nil {
		return
	}
	g.bus.Publish(eventbus.EventSimulationEnd, eventbus.SimulationEndEvent{Tick: g.controller.Status().Tick})
}

func (g *Graph) handleNodeClick(id string) {
	if g.bus == nil {
		return
	}
	if slot, ok := g.state.NodeSlotOf(id); ok {
		px, py := g.state.PositionAt(slot)
		g.bus.Publish(eventbus.EventNodeClick, eventbus.NodeEvent{NodeID: id, X: px, Y: py})
	}
}

func (g *Graph) handleDragStart(id string) {
	if g.bus != nil {
		g.bus.Publish(eventbus.EventNodeDragStart, eventbus.NodeEvent{NodeID: id})
	}
}

func (g *Graph) handleDrag(id string, x, y float32) {
	if g.bus != nil {
		g.bus.Publish(eventbus.EventNodeDrag, eventbus.NodeEvent{NodeID: id, X: x, Y: y})
	}
}

func (g *Graph) handleDragEnd(id string) {
	if g.bus != nil {
		g.bus.Publish(eventbus.EventNodeDragEnd, eventbus.NodeEvent{NodeID: id})
	}
}
