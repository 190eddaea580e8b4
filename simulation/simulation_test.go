package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchCounts(t *testing.T) {
	assert.Equal(t, uint32(0), DispatchCounts(0))
	assert.Equal(t, uint32(1), DispatchCounts(1))
	assert.Equal(t, uint32(1), DispatchCounts(WorkgroupSize))
	assert.Equal(t, uint32(2), DispatchCounts(WorkgroupSize+1))
}

func TestControllerStateMachine(t *testing.T) {
	c := NewController(DefaultForceConfig())
	require.Equal(t, StateStopped, c.Status().State)

	c.Start()
	assert.Equal(t, StateRunning, c.Status().State)

	c.Pause()
	assert.Equal(t, StatePaused, c.Status().State)

	c.Resume()
	assert.Equal(t, StateRunning, c.Status().State)

	c.Stop()
	assert.Equal(t, StateStopped, c.Status().State)
	assert.Zero(t, c.Status().Alpha)
}

func TestControllerRestartReheatsAlpha(t *testing.T) {
	c := NewController(DefaultForceConfig())
	c.Restart(1.0)
	assert.Equal(t, StateRunning, c.Status().State)
	assert.Equal(t, float32(1.0), c.Status().Alpha)
}

func TestControllerShouldStepRespectsAlphaTarget(t *testing.T) {
	cfg := DefaultForceConfig()
	cfg.AlphaMin = 0.01
	c := NewController(cfg)
	c.Restart(0.005)
	assert.False(t, c.ShouldStep(), "alpha below min with no target should not step")

	c.SetAlphaTarget(0.3)
	assert.True(t, c.ShouldStep(), "a non-zero alpha target keeps the layout hot")
}

func TestControllerAdvanceDecaysTowardTarget(t *testing.T) {
	c := NewController(DefaultForceConfig())
	c.Restart(1.0)
	for i := 0; i < 10; i++ {
		c.Advance(1.0)
	}
	assert.Less(t, c.Status().Alpha, float32(1.0))
	assert.Equal(t, uint64(10), c.Status().Tick)
}

func TestControllerFiresOnSimulationEnd(t *testing.T) {
	cfg := DefaultForceConfig()
	c := NewController(cfg)
	fired := false
	c.OnSimulationEnd(func() { fired = true })
	c.Restart(1.0)

	for i := 0; i < 200; i++ {
		c.Advance(0)
	}
	assert.True(t, fired, "a sustained run of zero velocity should converge")
}

func TestConvergenceDetectorRequiresFullWindow(t *testing.T) {
	d := NewConvergenceDetector(4, 0.01)
	assert.False(t, d.Observe(0))
	assert.False(t, d.Observe(0))
	assert.False(t, d.Observe(0))
	assert.True(t, d.Observe(0))
}

func TestConvergenceDetectorResetClearsHistory(t *testing.T) {
	d := NewConvergenceDetector(2, 0.01)
	d.Observe(0)
	d.Observe(0)
	d.Reset()
	assert.False(t, d.Observe(0), "reset should require the window to refill")
}

func TestConvergenceDetectorRejectsHighVelocity(t *testing.T) {
	d := NewConvergenceDetector(2, 0.01)
	d.Observe(100)
	assert.False(t, d.Observe(100))
}

// TestControllerDragReheatRaisesAlpha covers spec.md §8 scenario 4: with
// the simulation settled at alphaMin, a drag's SetAlphaTarget must raise
// alpha back up, and releasing the drag (alphaTarget back to 0) must let
// alpha relax below alphaMin again. AlphaDecayIterations is set low
// (instead of the production default of 300) to keep both legs of the
// scenario observable in a handful of ticks.
func TestControllerDragReheatRaisesAlpha(t *testing.T) {
	cfg := DefaultForceConfig()
	cfg.AlphaDecayIterations = 40
	c := NewController(cfg)
	c.Restart(1.0)
	for i := 0; i < 2000; i++ {
		c.Advance(0)
	}
	require.Less(t, c.Status().Alpha, cfg.AlphaMin, "alpha should have settled below alphaMin")

	c.SetAlphaTarget(0.3)
	for i := 0; i < 3; i++ {
		c.Advance(0)
	}
	assert.Greater(t, c.Status().Alpha, float32(0.1), "drag reheat must raise alpha above 0.1 within three ticks")

	c.SetAlphaTarget(0)
	for i := 0; i < 2000; i++ {
		c.Advance(0)
	}
	assert.Less(t, c.Status().Alpha, cfg.AlphaMin, "releasing the drag must let alpha fall back below alphaMin")
}
