//go:build !windows && !((linux || freebsd || netbsd || openbsd) && !wayland)

package window

// Handles reports ErrUnsupportedPlatform.
func (w *Window) Handles() (display, window uintptr, err error) {
	return 0, 0, ErrUnsupportedPlatform
}
