package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Provider exposes the context through the gpucontext interfaces so other
// gogpu packages can share the device.
//
// Besides gpucontext.DeviceProvider, the returned value implements
// HalDevice() any and HalQueue() any for direct HAL access.
func (c *Context) Provider() gpucontext.DeviceProvider {
	return deviceProvider{c}
}

type deviceProvider struct{ c *Context }

func (p deviceProvider) Device() gpucontext.Device             { return p.c.device }
func (p deviceProvider) Queue() gpucontext.Queue               { return p.c.queue }
func (p deviceProvider) Adapter() gpucontext.Adapter           { return p.c.adapter }
func (p deviceProvider) SurfaceFormat() gputypes.TextureFormat { return p.c.config.Format }
func (p deviceProvider) HalDevice() any                        { return p.c.device }
func (p deviceProvider) HalQueue() any                         { return p.c.queue }

func (p deviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: p.c.info.Name,
		Type: adapterType(p.c.info.DeviceType),
	}
}
