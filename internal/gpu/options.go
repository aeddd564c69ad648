package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Context during creation.
//
// Example:
//
//	// Platform default: registered backends in the primary family.
//	ctx, err := gpu.New(win)
//
//	// Explicit backend (tests use the noop backend).
//	ctx, err := gpu.New(win, gpu.WithBackend(noop.API{}))
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	backend   hal.Backend
	backends  gputypes.Backends
	downlevel bool
	label     string
}

// defaultOptions returns the platform defaults.
func defaultOptions() options {
	return options{
		backends:  defaultBackends,
		downlevel: constrainedTarget,
		label:     "meshloop",
	}
}

// WithBackend forces a specific hal backend, bypassing registry lookup.
func WithBackend(b hal.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackends restricts registry lookup to the given backend family.
// Ignored when WithBackend is also given.
func WithBackends(b gputypes.Backends) Option {
	return func(o *options) {
		if b != gputypes.BackendsNone {
			o.backends = b
		}
	}
}

// WithDownlevelLimits requests a device with downlevel (WebGL2-class)
// limits instead of the defaults.
func WithDownlevelLimits() Option {
	return func(o *options) {
		o.downlevel = true
	}
}

// WithLabel sets the debug label prefix of created objects.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
