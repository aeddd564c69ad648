package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame is one acquired surface texture and its render view.
// It must end with exactly one call to Present or Discard.
type Frame struct {
	ctx        *Context
	texture    hal.SurfaceTexture
	view       hal.TextureView
	suboptimal bool
	done       bool
}

// AcquireFrame acquires the next presentable texture and creates a view
// over it in the surface format.
//
// Acquisition is the only place a surface error originates. Errors are
// returned as *SurfaceError wrapping the hal sentinel.
func (c *Context) AcquireFrame() (*Frame, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if !c.configured {
		return nil, &SurfaceError{Op: "acquire", Err: hal.ErrZeroArea}
	}

	acquired, err := c.surface.AcquireTexture(nil)
	if err != nil {
		return nil, &SurfaceError{Op: "acquire", Err: err}
	}

	view, err := c.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           c.label + "_frame_view",
		Format:          c.config.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		c.surface.DiscardTexture(acquired.Texture)
		return nil, &SurfaceError{Op: "create view", Err: err}
	}

	if acquired.Suboptimal {
		slogger().Debug("gpu: suboptimal surface texture")
	}

	return &Frame{
		ctx:        c,
		texture:    acquired.Texture,
		view:       view,
		suboptimal: acquired.Suboptimal,
	}, nil
}

// View returns the render target view.
func (f *Frame) View() hal.TextureView { return f.view }

// Texture returns the acquired surface texture.
func (f *Frame) Texture() hal.SurfaceTexture { return f.texture }

// Suboptimal reports whether the surface asked to be reconfigured.
func (f *Frame) Suboptimal() bool { return f.suboptimal }

// Present queues the texture for display and releases the view.
func (f *Frame) Present() error {
	if f.done {
		return nil
	}
	f.done = true
	err := f.ctx.queue.Present(f.ctx.surface, f.texture, nil)
	f.ctx.device.DestroyTextureView(f.view)
	if err != nil {
		return &SurfaceError{Op: "present", Err: err}
	}
	return nil
}

// Discard releases the texture without presenting it.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.ctx.device.DestroyTextureView(f.view)
	f.ctx.surface.DiscardTexture(f.texture)
}
