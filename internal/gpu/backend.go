//go:build !(js && wasm)

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// backendOrder is the lookup order within a backend family.
var backendOrder = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendBrowserWebGPU,
	gputypes.BackendGL,
}

// selectBackend returns the first registered hal backend in family.
// Backends register themselves from init, typically through a blank
// import of github.com/gogpu/wgpu/hal/allbackends.
func selectBackend(family gputypes.Backends) (hal.Backend, error) {
	for _, variant := range backendOrder {
		if !family.Contains(variant) {
			continue
		}
		if b, ok := hal.GetBackend(variant); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: family %#x, registered %v", ErrNoBackend, uint8(family), hal.AvailableBackends())
}
