package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomLayerRequiresRenderCallback(t *testing.T) {
	m := NewManager()
	err := m.Add(Layer{ID: "c1", Kind: LayerCustom, Enabled: true})
	assert.ErrorIs(t, err, ErrInvalidLayer)
}

func TestLabelsLayerOrderIsForced(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(Layer{ID: "labels", Kind: LayerLabels, Order: 1, Enabled: true}))
	l, ok := m.Get("labels")
	require.True(t, ok)
	assert.Equal(t, labelsOrder, l.Order)
}

func TestOrderedSortsByOrderLabelsLast(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(Layer{ID: "labels", Kind: LayerLabels, Enabled: true}))
	require.NoError(t, m.Add(Layer{ID: "heatmap", Kind: LayerHeatmap, Order: 1, Enabled: true}))
	require.NoError(t, m.Add(Layer{ID: "contour", Kind: LayerContour, Order: 2, Enabled: true}))

	ordered := m.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "heatmap", ordered[0].ID)
	assert.Equal(t, "contour", ordered[1].ID)
	assert.Equal(t, "labels", ordered[2].ID)
}

func TestDisabledLayersExcludedFromOrdered(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(Layer{ID: "heatmap", Kind: LayerHeatmap, Enabled: false}))
	assert.Empty(t, m.Ordered())
}

func TestSetEnabledUnknownIDReturnsFalse(t *testing.T) {
	m := NewManager()
	assert.False(t, m.SetEnabled("missing", true))
}
