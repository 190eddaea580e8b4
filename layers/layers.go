// Package layers implements the overlay layer manager spec.md §4.6/§4.8
// and §9's redesign flag specify: a closed tagged-variant LayerKind enum
// instead of a per-layer dynamic-dispatch interface, since the source's
// vtable-per-layer design admits layer implementations this engine never
// needs (the layer set is closed: heatmap, contour, metaball, labels,
// and one escape hatch for embedder-supplied custom draws).
package layers

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// LayerKind identifies which overlay variant a Layer carries. Closed: no
// new kinds are added without a corresponding code path in LayerManager.
type LayerKind int

const (
	LayerHeatmap LayerKind = iota
	LayerContour
	LayerMetaball
	LayerLabels
	LayerCustom
)

// labelsOrder is the fixed Order every LayerLabels layer is forced to use,
// per spec.md §4.6: labels always render last, above every other overlay
// and above nodes/edges.
const labelsOrder = 100

// ErrInvalidLayer reports a Layer that violates the closed-variant
// contract (e.g. a LayerCustom with no Render callback).
var ErrInvalidLayer = fmt.Errorf("layers: invalid layer")

// CustomRenderFunc is the escape-hatch draw callback for LayerCustom
// layers: the embedder receives the active command encoder and the
// current color target view and may encode whatever render/compute work
// it needs.
type CustomRenderFunc func(encoder *wgpu.CommandEncoder, target *wgpu.TextureView)

// Layer is a single overlay entry. Only LayerCustom layers are drawn: the
// frame loop invokes their Render callback in Order. Layers of every
// other kind are stored, validated and ordered by the Manager, but no
// render code draws them.
type Layer struct {
	ID      string
	Kind    LayerKind
	Order   int
	Enabled bool
	Render  CustomRenderFunc
	// Config carries the layer-specific settings for the non-custom
	// kinds (e.g. a ContourBand for LayerContour, a color ramp for
	// LayerHeatmap). Neither the manager nor the render pipeline set
	// reads it.
	Config any
}

// Validate checks the closed-variant invariants: a LayerCustom layer must
// carry a Render callback, and a LayerLabels layer's Order is always
// forced to labelsOrder regardless of what was requested.
func (l *Layer) Validate() error {
	if l.Kind == LayerCustom && l.Render == nil {
		return fmt.Errorf("%w: layer %q is LayerCustom with no Render callback", ErrInvalidLayer, l.ID)
	}
	if l.Kind == LayerLabels {
		l.Order = labelsOrder
	}
	return nil
}

// Manager sorts layers by Order and exposes them to the command
// orchestrator's overlay-pass encode step in draw order.
type Manager struct {
	layers map[string]*Layer
}

// NewManager constructs an empty layer manager.
func NewManager() *Manager {
	return &Manager{layers: make(map[string]*Layer)}
}

// Add registers a layer, replacing any existing layer with the same ID.
// Returns ErrInvalidLayer if the layer fails Validate.
func (m *Manager) Add(layer Layer) error {
	if err := layer.Validate(); err != nil {
		return err
	}
	m.layers[layer.ID] = &layer
	return nil
}

// Remove deletes a layer by ID. A no-op if the ID is unknown.
func (m *Manager) Remove(id string) {
	delete(m.layers, id)
}

// SetEnabled toggles a layer's visibility without removing it.
func (m *Manager) SetEnabled(id string, enabled bool) bool {
	layer, ok := m.layers[id]
	if !ok {
		return false
	}
	layer.Enabled = enabled
	return true
}

// Ordered returns every enabled layer sorted by Order ascending, with
// LayerLabels layers always last (forced Order=100 in Validate already
// guarantees this as long as no other layer is registered at Order>=100).
func (m *Manager) Ordered() []Layer {
	out := make([]Layer, 0, len(m.layers))
	for _, l := range m.layers {
		if l.Enabled {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SetOrder updates a layer's draw order. A no-op returning false if id is
// unknown; re-validates afterward so a LayerLabels layer snaps back to
// labelsOrder regardless of what was requested.
func (m *Manager) SetOrder(id string, order int) bool {
	layer, ok := m.layers[id]
	if !ok {
		return false
	}
	layer.Order = order
	_ = layer.Validate()
	return true
}

// SetConfig replaces a layer's kind-specific configuration in place.
func (m *Manager) SetConfig(id string, config any) bool {
	layer, ok := m.layers[id]
	if !ok {
		return false
	}
	layer.Config = config
	return true
}

// Get returns the layer registered under id.
func (m *Manager) Get(id string) (Layer, bool) {
	l, ok := m.layers[id]
	if !ok {
		return Layer{}, false
	}
	return *l, true
}
