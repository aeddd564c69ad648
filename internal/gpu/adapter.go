package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// powerRank orders device types from highest to lowest expected power.
func powerRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 4
	case gputypes.DeviceTypeIntegratedGPU:
		return 3
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeOther:
		return 1
	default:
		return 0
	}
}

// pickAdapter returns the index of the highest-power adapter that can
// present to surface, or -1 when none can. Ties keep enumeration order.
// A nil surface skips the presentation check.
func pickAdapter(adapters []hal.ExposedAdapter, surface hal.Surface) (int, *hal.SurfaceCapabilities) {
	var (
		best     = -1
		bestCaps *hal.SurfaceCapabilities
		bestRank = -1
	)
	for i, a := range adapters {
		if a.Adapter == nil {
			continue
		}
		var caps *hal.SurfaceCapabilities
		if surface != nil {
			caps = a.Adapter.SurfaceCapabilities(surface)
			if caps == nil {
				continue
			}
		}
		if r := powerRank(a.Info.DeviceType); r > bestRank {
			best, bestCaps, bestRank = i, caps, r
		}
	}
	return best, bestCaps
}

// releaseAdapters destroys every enumerated adapter except the one at keep.
func releaseAdapters(adapters []hal.ExposedAdapter, keep int) {
	for i, a := range adapters {
		if i != keep && a.Adapter != nil {
			a.Adapter.Destroy()
		}
	}
}

// adapterType maps a hal device type onto the gpucontext classification.
func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
