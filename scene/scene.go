package scene

import (
	"errors"

	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Scene is something the loop can render.
type Scene interface {
	// Name returns the registry name of the scene.
	Name() string

	// InitializeBuffers uploads the meshes and any uniform state to the
	// device of ctx. Calling it again is a no-op.
	InitializeBuffers(ctx *gpu.Context) error

	// Tick advances frame state. It runs once per redraw, before Render.
	Tick(ctx *gpu.Context) error

	// Render draws one frame and presents it.
	Render(ctx *gpu.Context) error

	// Destroy releases every GPU resource held by the scene.
	Destroy()
}

// Scene errors.
var (
	// ErrNotInitialized is returned by Tick and Render before
	// InitializeBuffers succeeded.
	ErrNotInitialized = errors.New("scene: buffers not initialized")

	// ErrPipeline wraps device failures while building a render pipeline.
	ErrPipeline = errors.New("scene: pipeline creation failed")

	// ErrInvalidShader is returned when WGSL source does not parse.
	ErrInvalidShader = errors.New("scene: invalid shader")

	// ErrMissingEntryPoint is returned when a shader lacks vs_main or
	// fs_main.
	ErrMissingEntryPoint = errors.New("scene: missing shader entry point")
)

// FrameOutcome is what the loop should do after a Render call.
type FrameOutcome int

const (
	// FrameOK means the frame was presented.
	FrameOK FrameOutcome = iota
	// FrameLost means the surface must be reconfigured at its current
	// size. The frame was not submitted.
	FrameLost
	// FrameOutOfMemory means the device ran out of memory. The program
	// should exit.
	FrameOutOfMemory
	// FrameSkipped means the frame was dropped. Rendering continues.
	FrameSkipped
	// FrameFatal means the scene cannot render at all.
	FrameFatal
	// FrameDeviceLost means the device is gone. The program should exit.
	FrameDeviceLost
)

func (o FrameOutcome) String() string {
	switch o {
	case FrameOK:
		return "ok"
	case FrameLost:
		return "lost"
	case FrameOutOfMemory:
		return "out of memory"
	case FrameSkipped:
		return "skipped"
	case FrameFatal:
		return "fatal"
	case FrameDeviceLost:
		return "device lost"
	default:
		return "unknown"
	}
}

// Classify maps a Render error to a FrameOutcome.
//
// Surface loss and outdated surfaces are recoverable by reconfiguring.
// Out of memory and device loss end the program. Shader errors and use
// before initialization can never succeed and are fatal. Everything else,
// including timeouts, zero-area surfaces and rejected pipelines, skips the
// frame.
func Classify(err error) FrameOutcome {
	switch {
	case err == nil:
		return FrameOK
	case errors.Is(err, hal.ErrSurfaceLost), errors.Is(err, hal.ErrSurfaceOutdated):
		return FrameLost
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return FrameOutOfMemory
	case errors.Is(err, hal.ErrDeviceLost):
		return FrameDeviceLost
	case errors.Is(err, ErrNotInitialized),
		errors.Is(err, ErrInvalidShader),
		errors.Is(err, ErrMissingEntryPoint):
		return FrameFatal
	default:
		return FrameSkipped
	}
}
