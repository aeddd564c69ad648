package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target is the window a Context presents to.
type Target interface {
	// Handles returns the platform display and window handles
	// (X11 Display*/Window, Win32 HINSTANCE/HWND, ...).
	Handles() (display, window uintptr, err error)

	// PhysicalSize returns the drawable size in pixels.
	PhysicalSize() (width, height int)
}

// Context owns the device, queue and presentation surface of one window.
//
// A Context is not safe for concurrent use. All calls must come from the
// goroutine that drives the event loop.
type Context struct {
	label string

	instance hal.Instance
	surface  hal.Surface
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue

	config     SurfaceConfig
	configured bool
	closed     bool
}

// New negotiates a device for target and configures its surface.
//
// The steps run once, before the event loop starts. Any failure is a
// startup failure: everything created so far is released and the error
// is returned.
func New(target Target, opts ...Option) (*Context, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{label: o.label}
	if err := c.init(target, o); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) init(target Target, o options) error {
	// Step 1: Backend and instance
	backend := o.backend
	if backend == nil {
		b, err := selectBackend(o.backends)
		if err != nil {
			return err
		}
		backend = b
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: o.backends,
	})
	if err != nil {
		return fmt.Errorf("create instance (%v): %w", backend.Variant(), err)
	}
	c.instance = instance

	// Step 2: Surface bound to the window
	display, window, err := target.Handles()
	if err != nil {
		return fmt.Errorf("window handles: %w", err)
	}
	surface, err := instance.CreateSurface(display, window)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	c.surface = surface

	// Step 3: Adapter (prefer high performance GPU)
	adapters := instance.EnumerateAdapters(surface)
	pick, caps := pickAdapter(adapters, surface)
	releaseAdapters(adapters, pick)
	if pick < 0 {
		return ErrNoAdapter
	}
	exposed := adapters[pick]
	c.adapter = exposed.Adapter
	c.info = exposed.Info
	slogger().Info("gpu: adapter selected",
		"name", exposed.Info.Name,
		"type", exposed.Info.DeviceType,
		"backend", exposed.Info.Backend,
		"driver", exposed.Info.Driver)

	// Step 4: Device and queue
	limits := gputypes.DefaultLimits()
	if o.downlevel {
		limits = gputypes.DownlevelLimits()
	}
	open, err := exposed.Adapter.Open(0, limits)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	c.device = open.Device
	c.queue = open.Queue

	// Step 5: Surface configuration
	w, h := target.PhysicalSize()
	cfg, err := chooseSurfaceConfig(caps, clampDim(w), clampDim(h))
	if err != nil {
		return err
	}
	c.config = cfg

	// Step 6: Configure now; a minimized window waits for its first resize.
	if cfg.Width == 0 || cfg.Height == 0 {
		slogger().Debug("gpu: zero-area window, surface configuration deferred")
		return nil
	}
	return c.configure()
}

// configure applies c.config to the surface.
func (c *Context) configure() error {
	if err := c.surface.Configure(c.device, c.config.descriptor()); err != nil {
		c.configured = false
		return &SurfaceError{Op: "configure", Err: err}
	}
	c.configured = true
	slogger().Debug("gpu: surface configured", "config", c.config.String())
	return nil
}

// Resize records the new drawable size and reconfigures the surface.
// A size with a zero (or negative) dimension is ignored: the previous
// configuration is kept and no reconfiguration is attempted.
func (c *Context) Resize(width, height int) error {
	if c.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	c.config.Width = uint32(width)
	c.config.Height = uint32(height)
	return c.configure()
}

// Size returns the last non-zero drawable size.
func (c *Context) Size() (width, height int) {
	return int(c.config.Width), int(c.config.Height)
}

// Config returns the current surface configuration.
func (c *Context) Config() SurfaceConfig { return c.config }

// Format returns the negotiated surface format.
func (c *Context) Format() gputypes.TextureFormat { return c.config.Format }

// Configured reports whether the surface can currently hand out frames.
func (c *Context) Configured() bool { return c.configured }

// Device returns the logical device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the command queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Surface returns the presentation surface.
func (c *Context) Surface() hal.Surface { return c.surface }

// Info returns the metadata of the selected adapter.
func (c *Context) Info() gputypes.AdapterInfo { return c.info }

// Label returns the debug label prefix.
func (c *Context) Label() string { return c.label }

// Close unconfigures the surface and releases the device, surface and
// instance in reverse order of creation. Safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if c.surface != nil && c.device != nil && c.configured {
		c.surface.Unconfigure(c.device)
		c.configured = false
	}
	if c.device != nil {
		if err := c.device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle before close", "err", err)
		}
		c.device.Destroy()
		c.device = nil
		c.queue = nil
	}
	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}
	if c.adapter != nil {
		c.adapter.Destroy()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}

// clampDim converts a window dimension to a surface dimension.
func clampDim(v int) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(v)
}
