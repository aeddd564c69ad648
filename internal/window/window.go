// Package window adapts a GLFW window to the meshloop event loop and to
// the gpu.Target a device context presents to.
//
// GLFW must be driven from the main OS thread. Callers lock it in an
// init function before creating a Window.
package window

import (
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshloop"
	"github.com/gogpu/meshloop/internal/gpu"
)

// ErrUnsupportedPlatform is returned by Handles where no native surface
// handles can be obtained.
var ErrUnsupportedPlatform = errors.New("window: native handles not supported on this platform")

var (
	_ meshloop.EventSource      = (*Window)(nil)
	_ gpu.Target                = (*Window)(nil)
	_ gpucontext.WindowProvider = (*Window)(nil)
)

// Window is a GLFW window without a client API. It queues window
// callbacks as meshloop events.
type Window struct {
	win    *glfw.Window
	queue  []meshloop.Event
	redraw bool
}

// New initializes GLFW and opens a resizable width x height window.
func New(title string, width, height int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create: %w", err)
	}

	w := &Window{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(meshloop.ResizeEvent(width, height))
	})
	win.SetCloseCallback(func(*glfw.Window) {
		w.push(meshloop.CloseEvent())
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		w.push(meshloop.KeyEvent(mapKey(key)))
	})
	win.SetRefreshCallback(func(*glfw.Window) {
		w.RequestRedraw()
	})
	return w, nil
}

func (w *Window) push(ev meshloop.Event) { w.queue = append(w.queue, ev) }

// PollEvents processes pending window events and returns them. With no
// redraw pending it blocks until an event arrives.
func (w *Window) PollEvents() []meshloop.Event {
	if w.redraw {
		glfw.PollEvents()
	} else {
		glfw.WaitEvents()
	}

	events := w.queue
	w.queue = nil
	if w.redraw {
		w.redraw = false
		events = append(events, meshloop.RedrawEvent())
	}
	return events
}

// RequestRedraw makes the next PollEvents return a redraw event.
func (w *Window) RequestRedraw() { w.redraw = true }

// PhysicalSize returns the framebuffer size in pixels.
func (w *Window) PhysicalSize() (width, height int) {
	return w.win.GetFramebufferSize()
}

// Size returns the client area size in screen coordinates.
func (w *Window) Size() (width, height int) {
	return w.win.GetSize()
}

// ScaleFactor returns the horizontal content scale of the window.
func (w *Window) ScaleFactor() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}
