//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Handles returns the X11 Display* and Window of w.
func (w *Window) Handles() (display, window uintptr, err error) {
	return uintptr(unsafe.Pointer(glfw.GetX11Display())), uintptr(w.win.GetX11Window()), nil
}
