package gpu

import (
	"errors"
	"fmt"
)

// Device context errors.
var (
	// ErrNoBackend is returned when no registered hal backend matches the
	// requested backend family.
	ErrNoBackend = errors.New("gpu: no backend available")

	// ErrNoAdapter is returned when the instance exposes no adapter
	// compatible with the surface.
	ErrNoAdapter = errors.New("gpu: no compatible adapter")

	// ErrNoDevice is returned when the adapter refuses to open a device.
	ErrNoDevice = errors.New("gpu: device request failed")

	// ErrSurfaceUnsupported is returned when the adapter reports no usable
	// format, present mode or alpha mode for the surface.
	ErrSurfaceUnsupported = errors.New("gpu: surface not supported by adapter")

	// ErrNilTarget is returned when New is called without a window target.
	ErrNilTarget = errors.New("gpu: nil target")

	// ErrClosed is returned when a closed Context is used.
	ErrClosed = errors.New("gpu: context closed")
)

// SurfaceError reports a failure while acquiring or preparing a frame.
// The wrapped error is one of the hal surface or device sentinels
// (hal.ErrSurfaceLost, hal.ErrDeviceOutOfMemory, ...) so callers can
// classify it with errors.Is.
type SurfaceError struct {
	Op  string
	Err error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("gpu: %s: %v", e.Op, e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }
