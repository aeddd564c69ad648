//go:build js && wasm

package gpu

import "github.com/gogpu/gputypes"

// Browser targets run on WebGL2 with downlevel limits.
const (
	defaultBackends   = gputypes.BackendsGL
	constrainedTarget = true
)
