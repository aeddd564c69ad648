//go:build windows

package window

import "unsafe"

// Handles returns the HWND of w. The module handle is left zero for the
// backend to resolve.
func (w *Window) Handles() (display, window uintptr, err error) {
	return 0, uintptr(unsafe.Pointer(w.win.GetWin32Window())), nil
}
