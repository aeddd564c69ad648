package meshloop

import (
	"log/slog"

	"github.com/gogpu/meshloop/scene"
)

// Option configures an App during creation.
//
// Example:
//
//	app, err := meshloop.New(ctx, win,
//	    meshloop.WithSceneName("pyramid"),
//	    meshloop.WithMaxFrames(120))
type Option func(*options)

// options holds optional configuration for App creation.
type options struct {
	scene     scene.Scene
	sceneName string
	sceneOpts []scene.Option
	logger    *slog.Logger
	cache     bool
	maxFrames int
}

// defaultOptions returns the default app options.
func defaultOptions() options {
	return options{
		cache: true,
	}
}

// WithScene renders s instead of a registered scene. Scene options given
// through other App options do not apply to s.
func WithScene(s scene.Scene) Option {
	return func(o *options) {
		o.scene = s
	}
}

// WithSceneName selects a scene from the scene registry. The empty name
// selects the registry default.
func WithSceneName(name string) Option {
	return func(o *options) {
		o.sceneName = name
	}
}

// WithSceneOptions passes options to the registered scene factory.
func WithSceneOptions(opts ...scene.Option) Option {
	return func(o *options) {
		o.sceneOpts = append(o.sceneOpts, opts...)
	}
}

// WithLogger installs l with SetLogger when the App is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPipelineCache enables or disables pipeline caching in the
// registered scene. Enabled by default.
func WithPipelineCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithMaxFrames stops the loop with ExitOK after n presented frames.
// Zero or less renders until the window closes.
func WithMaxFrames(n int) Option {
	return func(o *options) {
		o.maxFrames = n
	}
}
