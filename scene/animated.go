package scene

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/mesh"
	"github.com/gogpu/wgpu/hal"
)

// Animated draws meshes with AnimatedShader and a FrameUniform that is
// rewritten on every Tick.
type Animated struct {
	base

	start   time.Duration
	uniform FrameUniform

	uniformBuffer hal.Buffer
	bindLayout    hal.BindGroupLayout
	bindGroup     hal.BindGroup
}

// NewAnimated returns a scene drawing meshes with AnimatedShader. The
// animation clock starts here.
func NewAnimated(name string, meshes []*mesh.Mesh, opts ...Option) *Animated {
	a := &Animated{base: newBase(name, AnimatedShader, meshes, opts)}
	a.start = a.opts.clock()
	return a
}

// InitializeBuffers uploads the meshes and creates the uniform buffer and
// its bind group.
func (a *Animated) InitializeBuffers(ctx *gpu.Context) error {
	if a.initialized() {
		return nil
	}
	if err := a.upload(ctx); err != nil {
		return err
	}
	if err := a.createUniform(ctx.Device()); err != nil {
		a.destroy()
		return fmt.Errorf("scene %s: %w", a.name, err)
	}
	a.uniform = FrameUniform{}
	return nil
}

func (a *Animated) createUniform(device hal.Device) error {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: a.name + "_uniform",
		Size:  UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	a.uniformBuffer = buf

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: a.name + "_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		a.destroyUniform(device)
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = layout

	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  a.name + "_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{{
			Binding:  0,
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: UniformSize},
		}},
	})
	if err != nil {
		a.destroyUniform(device)
		return fmt.Errorf("create bind group: %w", err)
	}
	a.bindGroup = group
	return nil
}

// Tick sets FrameUniform.Time to the time elapsed since the scene was
// constructed and queues the uniform write. Destroying and initializing
// the scene again does not restart the clock.
func (a *Animated) Tick(ctx *gpu.Context) error {
	if !a.initialized() {
		return ErrNotInitialized
	}
	elapsed := a.opts.clock() - a.start
	a.uniform = FrameUniform{Time: float32(elapsed.Seconds())}
	if err := ctx.Queue().WriteBuffer(a.uniformBuffer, 0, a.uniform.Bytes()); err != nil {
		return fmt.Errorf("scene %s: write uniform: %w", a.name, err)
	}
	return nil
}

// Uniform returns the payload written by the last Tick.
func (a *Animated) Uniform() FrameUniform { return a.uniform }

// Render draws one frame with the uniform bound at group 0.
func (a *Animated) Render(ctx *gpu.Context) error {
	return a.render(ctx, a.bindLayout, a.bindGroup)
}

// Destroy releases the scene's GPU resources.
func (a *Animated) Destroy() {
	device := a.device
	a.destroy()
	if device != nil {
		a.destroyUniform(device)
	}
}

func (a *Animated) destroyUniform(device hal.Device) {
	if a.bindGroup != nil {
		device.DestroyBindGroup(a.bindGroup)
		a.bindGroup = nil
	}
	if a.bindLayout != nil {
		device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.uniformBuffer != nil {
		device.DestroyBuffer(a.uniformBuffer)
		a.uniformBuffer = nil
	}
}
