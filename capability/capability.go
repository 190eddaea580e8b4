// Package capability probes whether the host supports a modern GPU
// compute+render API and reports the adapter's limits. Every other
// component in the engine depends on a successful Probe before it will
// touch the GPU.
package capability

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Error kinds distinguished during capability probing, per the error
// taxonomy: UNSUPPORTED (no modern GPU API at all) is fatal and surfaced
// from creation; ADAPTER_DENIED means an API exists but no adapter could
// be acquired for the given surface/options.
var (
	ErrUnsupported   = errors.New("capability: no supported GPU backend")
	ErrAdapterDenied = errors.New("capability: adapter request denied")
)

// Capabilities reports the subset of adapter/device limits the rest of
// the engine needs to size its buffers and compute dispatches.
type Capabilities struct {
	MaxStorageBufferBindingSize   uint64
	MaxComputeWorkgroupSizeX      uint32
	MaxComputeWorkgroupSizeY      uint32
	MaxComputeWorkgroupSizeZ      uint32
	MaxComputeInvocationsPerGroup uint32
	MaxBindGroups                 uint32
	SupportsTimestampQueries      bool
	AdapterName                   string
}

// Options configures adapter acquisition for Probe.
type Options struct {
	// ForceFallbackAdapter requests a software/CPU adapter instead of a
	// discrete/integrated GPU, mirroring the teacher's renderer builder
	// flag of the same name.
	ForceFallbackAdapter bool
}

// Probe requests an adapter compatible with surface and reports its
// capabilities. The instance is not retained; callers that go on to
// create a GPU context create their own instance/adapter/device chain
// (see gpucontext.CreateContext) since wgpu adapters are cheap to
// re-request and probing should never hold a device open.
func Probe(instance *wgpu.Instance, surface *wgpu.Surface, opts Options) (*Capabilities, error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrUnsupported)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterDenied, err)
	}

	limits := adapter.GetLimits()
	features := adapter.GetFeatures()
	props := adapter.GetProperties()

	caps := &Capabilities{
		MaxStorageBufferBindingSize:   uint64(limits.Limits.MaxStorageBufferBindingSize),
		MaxComputeWorkgroupSizeX:      limits.Limits.MaxComputeWorkgroupSizeX,
		MaxComputeWorkgroupSizeY:      limits.Limits.MaxComputeWorkgroupSizeY,
		MaxComputeWorkgroupSizeZ:      limits.Limits.MaxComputeWorkgroupSizeZ,
		MaxComputeInvocationsPerGroup: limits.Limits.MaxComputeInvocationsPerWorkgroup,
		MaxBindGroups:                 limits.Limits.MaxBindGroups,
		SupportsTimestampQueries:      hasFeature(features, wgpu.FeatureTimestampQuery),
		AdapterName:                   props.Name,
	}
	return caps, nil
}

func hasFeature(features []wgpu.FeatureName, want wgpu.FeatureName) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

// SupportsWorkgroupSize reports whether the probed capabilities can
// accommodate the simulation engine's fixed 256-thread workgroup
// (simulation.WorkgroupSize) along the X dimension, within the
// per-group invocation limit.
func (c *Capabilities) SupportsWorkgroupSize(size uint32) bool {
	return c.MaxComputeWorkgroupSizeX >= size && c.MaxComputeInvocationsPerGroup >= size
}
