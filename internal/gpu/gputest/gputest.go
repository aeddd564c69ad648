// Package gputest provides a recording hal backend for tests.
//
// The backend wraps hal/noop: every object behaves like its noop
// counterpart (buffers keep their bytes, submissions always succeed) while
// the calls that matter to a frame are written to a shared Recorder.
// Individual failures can be injected through the Backend fields.
//
// With HoldCompletion set the queue behaves like a real GPU: submissions
// stay pending until Complete or Device.WaitIdle, and any resource released
// while work is pending is counted in Recorder.ReleasedWhilePending.
package gputest

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Write is one recorded Queue.WriteBuffer call.
type Write struct {
	Buffer hal.Buffer
	Offset uint64
	Data   []byte
}

// DrawIndexed is one recorded indexed draw.
type DrawIndexed struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Recorder collects the calls made through a Backend.
type Recorder struct {
	// Events is the ordered call log, e.g. "acquire", "begin_pass",
	// "draw_indexed", "submit", "present".
	Events []string

	Configures []hal.SurfaceConfiguration
	Acquires   int
	Discards   int
	Presents   int
	Submits    int

	Buffers            []hal.BufferDescriptor
	Writes             []Write
	ShaderModules      int
	BindGroups         int
	Pipelines          []hal.RenderPipelineDescriptor
	PipelinesDestroyed int
	Passes             []*Pass

	CommandBuffersFreed int
	BuffersDestroyed    int
	BindGroupsDestroyed int
	AdaptersDestroyed   int
	WaitIdles           int

	// ReleasedWhilePending counts command buffers, pipelines, buffers and
	// bind groups released while a submission was still executing.
	ReleasedWhilePending int
}

func (r *Recorder) event(name string) { r.Events = append(r.Events, name) }

// Count returns how many times the named event was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.Events {
		if e == name {
			n++
		}
	}
	return n
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() { *r = Recorder{} }

// Backend is a hal.Backend over noop with failure injection.
type Backend struct {
	noop.API

	Rec *Recorder

	// Adapters replaces the noop adapter list when non-nil.
	Adapters []hal.ExposedAdapter
	// Caps replaces the noop surface capabilities when non-nil.
	Caps *hal.SurfaceCapabilities
	// AcquireErrs is consumed one element per AcquireTexture call;
	// a nil element acquires normally.
	AcquireErrs []error
	// OpenErr fails Adapter.Open.
	OpenErr error
	// ConfigureErr fails Surface.Configure.
	ConfigureErr error
	// SurfaceErr fails Instance.CreateSurface.
	SurfaceErr error
	// HoldCompletion keeps submissions pending until Complete or WaitIdle.
	HoldCompletion bool

	submitted uint64
	completed uint64
}

// NewBackend returns a Backend with an empty Recorder.
func NewBackend() *Backend {
	return &Backend{Rec: &Recorder{}}
}

// Complete marks every submission so far as finished.
func (b *Backend) Complete() { b.completed = b.submitted }

// Pending reports whether submitted work has not finished yet.
func (b *Backend) Pending() bool {
	return b.HoldCompletion && b.completed < b.submitted
}

func (b *Backend) release() {
	if b.Pending() {
		b.Rec.ReleasedWhilePending++
	}
}

// CreateInstance wraps the noop instance.
func (b *Backend) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inst, err := b.API.CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &instance{Instance: inst, b: b}, nil
}

type instance struct {
	hal.Instance
	b *Backend
}

func (i *instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	if i.b.SurfaceErr != nil {
		return nil, i.b.SurfaceErr
	}
	s, err := i.Instance.CreateSurface(display, window)
	if err != nil {
		return nil, err
	}
	return &surface{Surface: s, b: i.b}, nil
}

func (i *instance) EnumerateAdapters(hint hal.Surface) []hal.ExposedAdapter {
	list := i.b.Adapters
	if list == nil {
		list = i.Instance.EnumerateAdapters(hint)
	}
	out := make([]hal.ExposedAdapter, len(list))
	for n, a := range list {
		a.Adapter = &adapter{Adapter: a.Adapter, b: i.b}
		out[n] = a
	}
	return out
}

type adapter struct {
	hal.Adapter
	b *Backend
}

func (a *adapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	if a.b.OpenErr != nil {
		return hal.OpenDevice{}, a.b.OpenErr
	}
	open, err := a.Adapter.Open(features, limits)
	if err != nil {
		return hal.OpenDevice{}, err
	}
	return hal.OpenDevice{
		Device: &Device{Device: open.Device, b: a.b},
		Queue:  &Queue{Queue: open.Queue, b: a.b},
	}, nil
}

func (a *adapter) Destroy() {
	a.b.Rec.AdaptersDestroyed++
	a.Adapter.Destroy()
}

func (a *adapter) SurfaceCapabilities(s hal.Surface) *hal.SurfaceCapabilities {
	if a.b.Caps != nil {
		return a.b.Caps
	}
	return a.Adapter.SurfaceCapabilities(s)
}

type surface struct {
	hal.Surface
	b *Backend
}

func (s *surface) Configure(device hal.Device, config *hal.SurfaceConfiguration) error {
	s.b.Rec.Configures = append(s.b.Rec.Configures, *config)
	s.b.Rec.event("configure")
	if s.b.ConfigureErr != nil {
		return s.b.ConfigureErr
	}
	return s.Surface.Configure(device, config)
}

func (s *surface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	s.b.Rec.Acquires++
	s.b.Rec.event("acquire")
	if len(s.b.AcquireErrs) > 0 {
		err := s.b.AcquireErrs[0]
		s.b.AcquireErrs = s.b.AcquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.Surface.AcquireTexture(fence)
}

func (s *surface) DiscardTexture(t hal.SurfaceTexture) {
	s.b.Rec.Discards++
	s.b.Rec.event("discard")
	s.Surface.DiscardTexture(t)
}

// Device records resource creation.
type Device struct {
	hal.Device
	b *Backend
}

func (d *Device) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.b.Rec.Buffers = append(d.b.Rec.Buffers, *desc)
	return d.Device.CreateBuffer(desc)
}

func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.b.Rec.ShaderModules++
	return d.Device.CreateShaderModule(desc)
}

func (d *Device) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	d.b.Rec.BindGroups++
	return d.Device.CreateBindGroup(desc)
}

func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.b.Rec.Pipelines = append(d.b.Rec.Pipelines, *desc)
	d.b.Rec.event("create_pipeline")
	return d.Device.CreateRenderPipeline(desc)
}

func (d *Device) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.b.Rec.PipelinesDestroyed++
	d.b.release()
	d.Device.DestroyRenderPipeline(p)
}

func (d *Device) DestroyBuffer(buf hal.Buffer) {
	d.b.Rec.BuffersDestroyed++
	d.b.release()
	d.Device.DestroyBuffer(buf)
}

func (d *Device) DestroyBindGroup(group hal.BindGroup) {
	d.b.Rec.BindGroupsDestroyed++
	d.b.release()
	d.Device.DestroyBindGroup(group)
}

func (d *Device) FreeCommandBuffer(cmd hal.CommandBuffer) {
	d.b.Rec.CommandBuffersFreed++
	d.b.release()
	d.Device.FreeCommandBuffer(cmd)
}

// WaitIdle finishes every pending submission.
func (d *Device) WaitIdle() error {
	d.b.Rec.WaitIdles++
	d.b.Rec.event("wait_idle")
	d.b.Complete()
	return d.Device.WaitIdle()
}

func (d *Device) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return &encoder{b: d.b}, nil
}

// Queue records submissions, writes and presentation.
type Queue struct {
	hal.Queue
	b *Backend
}

func (q *Queue) Submit(buffers []hal.CommandBuffer) (uint64, error) {
	q.b.Rec.Submits++
	q.b.Rec.event("submit")
	if _, err := q.Queue.Submit(buffers); err != nil {
		return 0, err
	}
	q.b.submitted++
	if !q.b.HoldCompletion {
		q.b.completed = q.b.submitted
	}
	return q.b.submitted, nil
}

// PollCompleted returns the last finished submission index.
func (q *Queue) PollCompleted() uint64 { return q.b.completed }

func (q *Queue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	q.b.Rec.Writes = append(q.b.Rec.Writes, Write{
		Buffer: buffer,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})
	q.b.Rec.event("write_buffer")
	return q.Queue.WriteBuffer(buffer, offset, data)
}

func (q *Queue) Present(s hal.Surface, t hal.SurfaceTexture, damage []image.Rectangle) error {
	q.b.Rec.Presents++
	q.b.Rec.event("present")
	return q.Queue.Present(s, t, damage)
}

type encoder struct {
	noop.CommandEncoder
	b *Backend
}

func (e *encoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &Pass{Desc: *desc, b: e.b}
	e.b.Rec.Passes = append(e.b.Rec.Passes, p)
	e.b.Rec.event("begin_pass")
	return p
}

func (e *encoder) EndEncoding() (hal.CommandBuffer, error) {
	e.b.Rec.event("end_encoding")
	return e.CommandEncoder.EndEncoding()
}

// Pass is a recorded render pass.
type Pass struct {
	noop.RenderPassEncoder
	b *Backend

	Desc        hal.RenderPassDescriptor
	Pipeline    hal.RenderPipeline
	BindGroups  []hal.BindGroup
	VertexSlots []uint32
	IndexFormat gputypes.IndexFormat
	Draws       []DrawIndexed
	Ended       bool
}

func (p *Pass) SetPipeline(pipeline hal.RenderPipeline) {
	p.Pipeline = pipeline
	p.b.Rec.event("set_pipeline")
}

func (p *Pass) SetBindGroup(_ uint32, group hal.BindGroup, _ []uint32) {
	p.BindGroups = append(p.BindGroups, group)
	p.b.Rec.event("set_bind_group")
}

func (p *Pass) SetVertexBuffer(slot uint32, _ hal.Buffer, _ uint64) {
	p.VertexSlots = append(p.VertexSlots, slot)
}

func (p *Pass) SetIndexBuffer(_ hal.Buffer, format gputypes.IndexFormat, _ uint64) {
	p.IndexFormat = format
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Draws = append(p.Draws, DrawIndexed{indexCount, instanceCount, firstIndex, baseVertex, firstInstance})
	p.b.Rec.event("draw_indexed")
}

func (p *Pass) End() {
	p.Ended = true
	p.b.Rec.event("end_pass")
}

// Triangles returns the number of triangles drawn in the pass.
func (p *Pass) Triangles() int {
	n := 0
	for _, d := range p.Draws {
		n += int(d.IndexCount/3) * int(d.InstanceCount)
	}
	return n
}

// Window is a fixed-size window target.
type Window struct {
	W, H int
	Err  error
}

// Handles returns zero handles, which noop surfaces accept.
func (w *Window) Handles() (display, window uintptr, err error) { return 0, 0, w.Err }

// PhysicalSize returns W and H.
func (w *Window) PhysicalSize() (width, height int) { return w.W, w.H }
