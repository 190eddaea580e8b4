// Package simulation implements the force-directed layout controller:
// the repulsion/spring/gravity/integration compute pass sequence, the
// alpha schedule, the convergence detector and the
// stopped→running→paused state machine. Compute dispatch sizing is
// grounded on the teacher's Forward+ light-culling compute pass
// (engine/light/light_cull.go's TileSize/TileCounts pattern), generalized
// from a 2D screen-tile grid into a 1D per-node-slot workgroup count.
package simulation

// WorkgroupSize is the fixed compute workgroup size used by every
// simulation pass, per spec.md §4.5.
const WorkgroupSize = 256

// DispatchCounts returns the number of workgroups required to cover
// nodeCount slots at WorkgroupSize threads/group.
func DispatchCounts(nodeCount int) uint32 {
	if nodeCount <= 0 {
		return 0
	}
	return uint32((nodeCount + WorkgroupSize - 1) / WorkgroupSize)
}

// ForceConfig holds the tunable force parameters exposed through
// getForceConfig/setForceConfig.
type ForceConfig struct {
	Repulsion     float32
	Attraction    float32
	Gravity       float32
	CenterX       float32
	CenterY       float32
	LinkDistance  float32
	Theta         float32
	VelocityDecay float32
	AlphaMin      float32
	AlphaDecayIterations float32
	Dt            float32
}

// DefaultForceConfig mirrors the reference implementation's defaults.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		Repulsion:            30,
		Attraction:           1,
		Gravity:              0.1,
		LinkDistance:         30,
		Theta:                0.9,
		VelocityDecay:        0.6,
		AlphaMin:             0.001,
		AlphaDecayIterations: 300,
		Dt:                   1,
	}
}

// State is the run-time phase of the controller, per spec.md §4.5's
// explicit state machine: stopped -> running -> paused -> running ->
// stopped.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

// Status is a read-only snapshot returned by getSimulationStatus.
type Status struct {
	State State
	Alpha float32
	Tick  uint64
}
