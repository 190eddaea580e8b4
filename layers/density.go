package layers

import "github.com/cogentcore/webgpu/wgpu"

// DensityProducer is implemented by any layer kind that consumes a
// rasterized node-density texture: heatmap, metaball and contour all read
// the same density texture rather than each maintaining their own copy.
// Shader source for the density rasterization pass itself is out of
// scope (spec.md §1 excludes shader authoring as a separate concern);
// this interface only fixes the texture's shape so the command
// orchestrator knows when to (re)produce it.
type DensityProducer interface {
	// DensityTexture returns the current density texture, producing it
	// lazily on first access at the given pixel dimensions.
	DensityTexture(width, height int) *wgpu.TextureView
	// InvalidateDensity marks the density texture stale, forcing the next
	// DensityTexture call to re-rasterize from the current node set.
	InvalidateDensity()
}

// ContourBand configures the fullscreen SDF-band extraction that
// resolves the contour layer (§9 Open Question: SDF band over the
// density texture, not marching squares — a compute-shader prefix-sum
// compaction pass for marching-squares segment output is out of scope
// for this specification). The band covers density values in
// [threshold-bandWidth, threshold+bandWidth]. No render pass in this
// repository reads a ContourBand; contour layers are not drawn.
type ContourBand struct {
	Threshold float32
	BandWidth float32
	R, G, B   float32
}

// DefaultContourBand mirrors a typical single-ring contour outline.
func DefaultContourBand() ContourBand {
	return ContourBand{Threshold: 0.5, BandWidth: 0.05, R: 1, G: 1, B: 1}
}
