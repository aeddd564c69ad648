//go:build js && wasm

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// selectBackend has no registry to consult in the browser; the host page
// must supply a backend with WithBackend.
func selectBackend(family gputypes.Backends) (hal.Backend, error) {
	return nil, fmt.Errorf("%w: family %#x requires WithBackend", ErrNoBackend, uint8(family))
}
