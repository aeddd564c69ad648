package scene

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/mesh"
	"github.com/gogpu/wgpu/hal"
)

// ClearColor is the background every frame is cleared to.
var ClearColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// base holds what every scene variant shares: meshes, their buffers and
// the pipeline state.
type base struct {
	name   string
	shader Shader
	opts   options

	meshes   []*mesh.Mesh
	buffered []*mesh.BufferedMesh
	device   hal.Device
	cache    *PipelineCache
	inflight []inflight
}

// inflight is a submitted frame. Its command buffer, and its pipeline when
// the cache is off, live until the queue reports the submission complete.
type inflight struct {
	index    uint64
	cmd      hal.CommandBuffer
	pipeline *Pipeline
}

func newBase(name string, shader Shader, meshes []*mesh.Mesh, opts []Option) base {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := base{
		name:   name,
		shader: shader,
		opts:   o,
		meshes: meshes,
	}
	if o.cache {
		b.cache = NewPipelineCache()
	}
	return b
}

// Name returns the scene name.
func (b *base) Name() string { return b.name }

// Meshes returns the meshes drawn by the scene, in draw order.
func (b *base) Meshes() []*mesh.Mesh { return b.meshes }

// CullMode returns the face culling mode of the scene's pipeline.
func (b *base) CullMode() gputypes.CullMode { return b.opts.cull }

// Cache returns the pipeline cache, or nil when caching is disabled.
func (b *base) Cache() *PipelineCache { return b.cache }

func (b *base) initialized() bool { return b.device != nil }

// upload uploads every mesh to the device of ctx.
func (b *base) upload(ctx *gpu.Context) error {
	device, queue := ctx.Device(), ctx.Queue()
	buffered := make([]*mesh.BufferedMesh, 0, len(b.meshes))
	for _, m := range b.meshes {
		bm, err := m.Upload(device, queue)
		if err != nil {
			for _, done := range buffered {
				done.Destroy()
			}
			return fmt.Errorf("scene %s: %w", b.name, err)
		}
		buffered = append(buffered, bm)
	}
	b.buffered = buffered
	b.device = device
	return nil
}

// render runs one frame: pipeline, acquire, encode, submit, present.
func (b *base) render(ctx *gpu.Context, bindLayout hal.BindGroupLayout, bindGroup hal.BindGroup) error {
	if !b.initialized() {
		return ErrNotInitialized
	}
	device, queue := ctx.Device(), ctx.Queue()
	b.reclaim(queue.PollCompleted())

	// owned is the per-frame pipeline built when caching is disabled.
	var pipeline, owned *Pipeline
	var err error
	if b.cache != nil {
		pipeline, err = b.cache.Get(device, b.shader, ctx.Format(), b.opts.cull, bindLayout)
	} else {
		pipeline, err = BuildPipeline(device, b.shader, ctx.Format(), b.opts.cull, bindLayout)
		owned = pipeline
	}
	if err != nil {
		return err
	}
	// Nothing below has reached the GPU until Submit succeeds.
	abandon := func() {
		if owned != nil {
			owned.destroy(device)
		}
	}

	frame, err := ctx.AcquireFrame()
	if err != nil {
		abandon()
		return err
	}

	cmd, err := encodeFrame(device, b.name, frame.View(), pipeline, bindGroup, b.buffered)
	if err != nil {
		frame.Discard()
		abandon()
		return err
	}

	index, err := queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		frame.Discard()
		device.FreeCommandBuffer(cmd)
		abandon()
		return fmt.Errorf("scene %s: submit: %w", b.name, err)
	}
	b.inflight = append(b.inflight, inflight{index: index, cmd: cmd, pipeline: owned})
	return frame.Present()
}

// reclaim releases the frames whose submission index is at most done.
func (b *base) reclaim(done uint64) {
	kept := b.inflight[:0]
	for _, f := range b.inflight {
		if f.index > done {
			kept = append(kept, f)
			continue
		}
		b.device.FreeCommandBuffer(f.cmd)
		if f.pipeline != nil {
			f.pipeline.destroy(b.device)
		}
	}
	clear(b.inflight[len(kept):])
	b.inflight = kept
}

// InFlight returns the number of submitted frames not yet reclaimed.
func (b *base) InFlight() int { return len(b.inflight) }

// encodeFrame records the single render pass of a frame.
func encodeFrame(device hal.Device, label string, view hal.TextureView, pipeline *Pipeline, bindGroup hal.BindGroup, meshes []*mesh.BufferedMesh) (hal.CommandBuffer, error) {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("scene %s: create command encoder: %w", label, err)
	}
	if err := encoder.BeginEncoding(label + "_frame"); err != nil {
		return nil, fmt.Errorf("scene %s: begin encoding: %w", label, err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: ClearColor,
		}},
	})
	pass.SetPipeline(pipeline.pipeline)
	if bindGroup != nil {
		pass.SetBindGroup(0, bindGroup, nil)
	}
	for _, m := range meshes {
		if err := m.Draw(pass); err != nil {
			pass.End()
			encoder.DiscardEncoding()
			return nil, fmt.Errorf("scene %s: %w", label, err)
		}
	}
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("scene %s: end encoding: %w", label, err)
	}
	return cmd, nil
}

// destroy waits for the GPU to go idle, then releases in-flight frames,
// pipelines and mesh buffers.
func (b *base) destroy() {
	if b.device != nil {
		if err := b.device.WaitIdle(); err != nil {
			slogger().Warn("scene: wait idle before destroy", "scene", b.name, "err", err)
		}
		b.reclaim(math.MaxUint64)
	}
	if b.cache != nil {
		b.cache.Destroy()
	}
	for _, bm := range b.buffered {
		bm.Destroy()
	}
	b.buffered = nil
	b.device = nil
}
