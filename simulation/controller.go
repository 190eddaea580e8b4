package simulation

import (
	"math"
	"sync"
)

// Controller drives the alpha schedule and the
// stopped/running/paused state machine. It does not itself dispatch GPU
// compute passes — the command orchestrator calls ShouldStep once per
// frame and, when it reports true, encodes the repulsion/spring/gravity/
// integration passes before calling Controller.Advance to decay alpha
// and update the convergence detector.
type Controller struct {
	mu sync.Mutex

	cfg   ForceConfig
	state State

	alpha       float32
	alphaTarget float32
	tick        uint64

	convergence *ConvergenceDetector
	onEnd       func()
	ended       bool
}

// NewController constructs a stopped Controller with the given force
// config.
func NewController(cfg ForceConfig) *Controller {
	return &Controller{
		cfg:         cfg,
		state:       StateStopped,
		convergence: NewConvergenceDetector(60, 1e-6),
	}
}

// OnSimulationEnd registers a callback invoked when the convergence
// detector fires. Only one callback is retained; the command
// orchestrator wires this directly to the event bus's simulation:end
// publish.
func (c *Controller) OnSimulationEnd(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnd = fn
}

// Start transitions stopped -> running without reheating alpha. A no-op
// from any other state.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStopped {
		c.state = StateRunning
	}
}

// Stop transitions to stopped from any state and resets alpha to 0.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateStopped
	c.alpha = 0
	c.alphaTarget = 0
}

// Pause transitions running -> paused. A no-op from any other state.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// Resume transitions paused -> running. A no-op from any other state.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePaused {
		c.state = StateRunning
	}
}

// Restart moves from any state to running and reheats alpha to the
// given value (1.0 is conventional, per spec.md §4.5).
func (c *Controller) Restart(alpha float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateRunning
	c.alpha = alpha
	c.alphaTarget = 0
	c.convergence.Reset()
}

// SetAlphaTarget sets the alpha the decay schedule relaxes toward.
// Iteration pauses (in the sense of the next ShouldStep call reporting
// false) only when alpha < alphaMin AND alphaTarget == 0.
// Used by interaction-core drag handling to keep the layout responsive
// (typically 0.3) while a node is being dragged, reheating the
// simulation if it had already converged.
func (c *Controller) SetAlphaTarget(target float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alphaTarget = target
	if target > 0 && c.state != StateStopped {
		c.state = StateRunning
	}
}

// SetAlpha force-sets the current alpha value directly (the setAlpha
// external operation).
func (c *Controller) SetAlpha(v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alpha = v
}

// SetForceConfig patches the force configuration.
func (c *Controller) SetForceConfig(patch func(cur *ForceConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	patch(&c.cfg)
}

// ForceConfig returns a copy of the current force configuration.
func (c *Controller) ForceConfig() ForceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Status returns a read-only snapshot of state/alpha/tick.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Alpha: c.alpha, Tick: c.tick}
}

// ShouldStep reports whether the orchestrator should dispatch this
// frame's compute passes: the controller must be running, and either
// alpha is still above alphaMin or a non-zero alphaTarget keeps the
// layout "hot" (e.g. during a drag).
func (c *Controller) ShouldStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return false
	}
	return !(c.alpha < c.cfg.AlphaMin && c.alphaTarget == 0)
}

// Advance decays alpha toward alphaTarget by one tick's worth using the
// formula decay = 1 - alphaMin^(1/iterations), per spec.md §4.5, then
// feeds meanSquaredVelocity into the convergence detector. Fires the
// registered onEnd callback (at most once per converged episode) when
// the detector reports convergence.
//
// The decay rate is computed from alphaMin alone, not the running alpha
// (d3-force's alphaDecay is likewise a constant derived once from
// alphaMin): deriving it from the current alpha would drive the decay
// factor to zero once alpha settles at alphaMin, making a drag's
// SetAlphaTarget reheat unable to raise alpha back up.
func (c *Controller) Advance(meanSquaredVelocity float32) {
	c.mu.Lock()
	c.tick++
	decay := float32(1 - math.Pow(float64(c.cfg.AlphaMin), 1.0/float64(maxf(c.cfg.AlphaDecayIterations, 1))))
	c.alpha += (c.alphaTarget - c.alpha) * decay
	if c.alpha < 0 {
		c.alpha = 0
	}
	reached := c.convergence.Observe(meanSquaredVelocity)
	converged := reached && c.alphaTarget == 0 && !c.ended
	if converged {
		c.ended = true
	}
	if !reached {
		c.ended = false
	}
	cb := c.onEnd
	c.mu.Unlock()

	if converged && cb != nil {
		cb()
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
