package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultFrameLatency is the desired maximum number of frames in flight.
const DefaultFrameLatency = 2

// SurfaceConfig is the negotiated presentation configuration.
type SurfaceConfig struct {
	Format      gputypes.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode gputypes.PresentMode
	AlphaMode   gputypes.CompositeAlphaMode

	// FrameLatency is the desired maximum frame latency. hal surfaces
	// manage their own swapchain depth, so the value is advisory and is
	// reported in logs only.
	FrameLatency uint32
}

// chooseSurfaceConfig picks the first sRGB format (falling back to the
// first reported format), the first present mode and the first alpha mode.
func chooseSurfaceConfig(caps *hal.SurfaceCapabilities, width, height uint32) (SurfaceConfig, error) {
	if caps == nil || len(caps.Formats) == 0 || len(caps.PresentModes) == 0 || len(caps.AlphaModes) == 0 {
		return SurfaceConfig{}, ErrSurfaceUnsupported
	}

	format := caps.Formats[0]
	for _, f := range caps.Formats {
		if f.IsSrgb() {
			format = f
			break
		}
	}

	return SurfaceConfig{
		Format:       format,
		Width:        width,
		Height:       height,
		PresentMode:  caps.PresentModes[0],
		AlphaMode:    caps.AlphaModes[0],
		FrameLatency: DefaultFrameLatency,
	}, nil
}

// descriptor converts the configuration into its hal form.
func (c SurfaceConfig) descriptor() *hal.SurfaceConfiguration {
	return &hal.SurfaceConfiguration{
		Width:       c.Width,
		Height:      c.Height,
		Format:      c.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: c.PresentMode,
		AlphaMode:   c.AlphaMode,
	}
}

// String returns a compact description for logs.
func (c SurfaceConfig) String() string {
	return fmt.Sprintf("%dx%d %v present=%v alpha=%v latency=%d",
		c.Width, c.Height, c.Format, c.PresentMode, c.AlphaMode, c.FrameLatency)
}
