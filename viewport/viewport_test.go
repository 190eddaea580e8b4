package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenGraphRoundTrip(t *testing.T) {
	v := New(800, 600, 1.0)
	v.SetCenter(10, 20)
	v.SetScale(2)

	sx, sy := v.GraphToScreen(10, 20)
	gx, gy := v.ScreenToGraph(sx, sy)
	assert.InDelta(t, 10, gx, 1e-3)
	assert.InDelta(t, 20, gy, 1e-3)
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	v := New(800, 600, 1.0)
	beforeX, beforeY := v.ScreenToGraph(100, 100)

	v.ZoomAt(100, 100, 5)

	afterX, afterY := v.ScreenToGraph(100, 100)
	assert.InDelta(t, beforeX, afterX, 1e-3)
	assert.InDelta(t, beforeY, afterY, 1e-3)
	assert.NotEqual(t, float32(1), v.Scale())
}

func TestScaleClamped(t *testing.T) {
	v := New(800, 600, 1.0, WithBounds(0.5, 4))
	v.SetScale(100)
	assert.Equal(t, float32(4), v.Scale())
	v.SetScale(0.01)
	assert.Equal(t, float32(0.5), v.Scale())
}

func TestFitToBoundsCentersAndScales(t *testing.T) {
	v := New(800, 600, 1.0)
	v.FitToBounds(0, 0, 100, 100, 10)
	cx, cy := v.Center()
	assert.InDelta(t, 50, cx, 1e-3)
	assert.InDelta(t, 50, cy, 1e-3)
	assert.Greater(t, v.Scale(), float32(0))
}

func TestChangeListenerFiresOnMutation(t *testing.T) {
	calls := 0
	v := New(800, 600, 1.0, WithChangeListener(func() { calls++ }))
	v.Pan(1, 1)
	v.SetScale(2)
	assert.Equal(t, 2, calls)
}
