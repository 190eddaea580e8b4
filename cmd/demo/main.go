// Command demo is a minimal host harness: it opens a GLFW window,
// builds a *graph.Graph against its surface, seeds a small sample graph,
// starts the force simulation, and drives the frame loop until the
// window closes. It exists to give the GLFW-backed hostwindow package a
// real caller, the same role the teacher's cmd/ harness plays for
// engine.Engine.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/Carmen-Shannon/heroinegraph/graph"
	"github.com/Carmen-Shannon/heroinegraph/hostwindow"
	"github.com/Carmen-Shannon/heroinegraph/ingest"
	"github.com/Carmen-Shannon/heroinegraph/interaction"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	win, err := hostwindow.New(
		hostwindow.WithTitle("HeroineGraph demo"),
		hostwindow.WithSize(1280, 800),
	)
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}
	defer win.Close()

	g, err := graph.NewGraph(win.SurfaceDescriptor(), win.Width(), win.Height())
	if err != nil {
		return fmt.Errorf("creating graph: %w", err)
	}
	defer g.Destroy()

	nodes, edges := sampleGraph(64, 3)
	if err := g.Load(nodes, edges); err != nil {
		return fmt.Errorf("loading sample graph: %w", err)
	}

	win.SetPointerCallback(func(ev hostwindow.PointerEvent) {
		g.HandlePointerEvent(toInteractionEvent(ev))
	})
	win.SetResizeCallback(func(width, height int) {
		// Resizing the swapchain surface is out of scope for this
		// harness; the graph keeps rendering at its original size.
		_ = width
		_ = height
	})

	g.StartSimulation()

	for win.IsRunning() {
		win.PollEvents()
		if err := g.TickSimulation(); err != nil {
			return fmt.Errorf("ticking simulation: %w", err)
		}
	}
	return nil
}

func toInteractionEvent(ev hostwindow.PointerEvent) interaction.PointerEvent {
	var mods interaction.Modifier
	if ev.Shift {
		mods |= interaction.ModifierShift
	}
	if ev.Control {
		mods |= interaction.ModifierControl
	}
	if ev.Alt {
		mods |= interaction.ModifierAlt
	}

	var kind interaction.PointerEventKind
	switch ev.Kind {
	case hostwindow.PointerDown:
		kind = interaction.PointerDown
	case hostwindow.PointerUp:
		kind = interaction.PointerUp
	case hostwindow.PointerWheel:
		kind = interaction.PointerWheel
	default:
		kind = interaction.PointerMove
	}

	return interaction.PointerEvent{
		Kind:       kind,
		X:          ev.X,
		Y:          ev.Y,
		WheelDelta: ev.WheelDelta,
		Modifiers:  mods,
	}
}

// sampleGraph builds a small random graph for the demo window: nodeCount
// nodes scattered in a 800x600 box, each wired to ringSize earlier nodes
// to give the force simulation something to settle.
func sampleGraph(nodeCount, ringSize int) ([]ingest.NodeSpec, []ingest.EdgeSpec) {
	nodes := make([]ingest.NodeSpec, nodeCount)
	for i := range nodes {
		x := rand.Float32()*800 - 400
		y := rand.Float32()*600 - 300
		nodes[i] = ingest.NodeSpec{
			ID: fmt.Sprintf("n%d", i),
			X:  &x,
			Y:  &y,
		}
	}

	var edges []ingest.EdgeSpec
	for i := 1; i < nodeCount; i++ {
		for j := 1; j <= ringSize && i-j >= 0; j++ {
			edges = append(edges, ingest.EdgeSpec{
				Source: fmt.Sprintf("n%d", i),
				Target: fmt.Sprintf("n%d", i-j),
			})
		}
	}
	return nodes, edges
}
