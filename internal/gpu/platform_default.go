//go:build !(js && wasm)

package gpu

import "github.com/gogpu/gputypes"

const (
	defaultBackends   = gputypes.BackendsPrimary
	constrainedTarget = false
)
