package meshloop

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/scene"
)

// Process exit codes returned by App.Run.
const (
	// ExitOK is a normal close, an escape key or a reached frame limit.
	ExitOK = 0
	// ExitStartup is a failure before the loop started: no window, no
	// device or a scene that failed to initialize.
	ExitStartup = 1
	// ExitOutOfMemory is a device out-of-memory error during a frame.
	ExitOutOfMemory = 2
	// ExitRender is a frame error that can never recover, such as an
	// invalid shader.
	ExitRender = 3
	// ExitDeviceLost is a lost GPU device: a driver reset or a removed
	// adapter.
	ExitDeviceLost = 4
)

// App drives one scene on one window.
//
// An App is not safe for concurrent use. Run must be called from the
// goroutine that owns the window.
type App struct {
	ctx    *gpu.Context
	events EventSource
	scene  scene.Scene
	opts   options

	frames  int
	skipped int
}

// New creates an App rendering to ctx and reading events from events,
// and uploads the scene's buffers.
//
// The scene is the one given by WithScene, else the registered scene
// named by WithSceneName, else the registry default.
func New(ctx *gpu.Context, events EventSource, opts ...Option) (*App, error) {
	if ctx == nil {
		return nil, errors.New("meshloop: nil gpu context")
	}
	if events == nil {
		return nil, errors.New("meshloop: nil event source")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	s, err := resolveScene(o)
	if err != nil {
		return nil, err
	}
	if err := s.InitializeBuffers(ctx); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("meshloop: initialize %s: %w", s.Name(), err)
	}

	Logger().Info("meshloop: scene ready", "scene", s.Name(), "surface", ctx.Config().String())
	return &App{ctx: ctx, events: events, scene: s, opts: o}, nil
}

func resolveScene(o options) (scene.Scene, error) {
	if o.scene != nil {
		return o.scene, nil
	}
	sceneOpts := append([]scene.Option{scene.WithCache(o.cache)}, o.sceneOpts...)
	if o.sceneName == "" {
		s, err := scene.Default(sceneOpts...)
		if err != nil {
			return nil, fmt.Errorf("meshloop: %w", err)
		}
		return s, nil
	}
	s, err := scene.New(o.sceneName, sceneOpts...)
	if err != nil {
		return nil, fmt.Errorf("meshloop: %w", err)
	}
	return s, nil
}

// Scene returns the scene being rendered.
func (a *App) Scene() scene.Scene { return a.scene }

// Frames returns the number of presented frames.
func (a *App) Frames() int { return a.frames }

// Skipped returns the number of dropped frames.
func (a *App) Skipped() int { return a.skipped }

// Run processes events until the window closes, escape is pressed, the
// frame limit is reached or a frame fails fatally, and returns the
// process exit code.
//
// Each polled batch is handled in priority order: close, resize, key,
// redraw. At most one frame is rendered per batch, after every resize
// in it has been applied. A rendered frame requests the next one, so the
// scene redraws continuously.
func (a *App) Run() int {
	a.events.RequestRedraw()
	for {
		events := a.events.PollEvents()
		sortEvents(events)

		redraw := false
		for _, ev := range events {
			switch ev.Kind {
			case EventClose:
				return a.exit(ExitOK, "window closed")
			case EventResize:
				a.resize(ev.Width, ev.Height)
			case EventKey:
				if ev.Key == gpucontext.KeyEscape {
					return a.exit(ExitOK, "escape pressed")
				}
			case EventRedraw:
				redraw = true
			}
		}

		if redraw {
			if code, done := a.redraw(); done {
				return code
			}
		}
	}
}

// Close releases the scene's GPU resources. The gpu.Context stays open.
func (a *App) Close() {
	a.scene.Destroy()
}

func (a *App) exit(code int, reason string) int {
	Logger().Info("meshloop: exit", "reason", reason, "code", code,
		"frames", a.frames, "skipped", a.skipped)
	return code
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		Logger().Debug("meshloop: ignoring zero resize", "width", width, "height", height)
		return
	}
	if err := a.ctx.Resize(width, height); err != nil {
		Logger().Warn("meshloop: reconfigure failed", "width", width, "height", height, "err", err)
	}
	a.events.RequestRedraw()
}

// redraw ticks and renders one frame. done reports that the loop must
// stop with code.
func (a *App) redraw() (code int, done bool) {
	if !a.ctx.Configured() {
		// Minimized. The next non-zero resize requests a frame.
		return 0, false
	}

	err := a.scene.Tick(a.ctx)
	if err == nil {
		err = a.scene.Render(a.ctx)
	}

	switch outcome := scene.Classify(err); outcome {
	case scene.FrameOK:
		a.frames++
	case scene.FrameLost:
		a.skipped++
		w, h := a.ctx.Size()
		Logger().Debug("meshloop: surface lost, reconfiguring", "width", w, "height", h, "err", err)
		if rerr := a.ctx.Resize(w, h); rerr != nil {
			Logger().Warn("meshloop: reconfigure failed", "err", rerr)
		}
	case scene.FrameOutOfMemory:
		Logger().Error("meshloop: out of memory", "err", err)
		return a.exit(ExitOutOfMemory, "out of memory"), true
	case scene.FrameFatal:
		Logger().Error("meshloop: render failed", "err", err)
		return a.exit(ExitRender, "render failed"), true
	case scene.FrameDeviceLost:
		Logger().Error("meshloop: device lost", "err", err)
		return a.exit(ExitDeviceLost, "device lost"), true
	default:
		a.skipped++
		Logger().Warn("meshloop: frame skipped", "err", err)
	}

	if a.opts.maxFrames > 0 && a.frames >= a.opts.maxFrames {
		return a.exit(ExitOK, "frame limit reached"), true
	}
	a.events.RequestRedraw()
	return 0, false
}
