package scene

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/loov/hrtime"
)

// Option configures a scene.
type Option func(*options)

type options struct {
	cull  gputypes.CullMode
	cache bool
	clock func() time.Duration
}

func defaultOptions() options {
	return options{
		cull:  gputypes.CullModeBack,
		cache: true,
		clock: hrtime.Now,
	}
}

// WithCullMode sets which faces are culled. The default culls back faces.
func WithCullMode(mode gputypes.CullMode) Option {
	return func(o *options) {
		o.cull = mode
	}
}

// WithCache enables or disables the pipeline cache. With the cache off
// the pipeline is built and destroyed on every Render call.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithClock replaces the monotonic clock used for FrameUniform.Time.
func WithClock(clock func() time.Duration) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
