package scene

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/internal/gpu/gputest"
)

// newTestContext opens a gpu.Context on a recording noop backend.
func newTestContext(t *testing.T, w, h int) (*gpu.Context, *gputest.Backend) {
	t.Helper()
	b := gputest.NewBackend()
	ctx, err := gpu.New(&gputest.Window{W: w, H: h}, gpu.WithBackend(b))
	if err != nil {
		t.Fatalf("gpu.New: %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx, b
}

// initScene initializes s and clears the recorder.
func initScene(t *testing.T, ctx *gpu.Context, b *gputest.Backend, s Scene) {
	t.Helper()
	if err := s.InitializeBuffers(ctx); err != nil {
		t.Fatalf("InitializeBuffers: %v", err)
	}
	t.Cleanup(s.Destroy)
	b.Rec.Reset()
}

func TestStaticRenderProtocol(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon()
	initScene(t, ctx, b, s)

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []string{
		"create_pipeline",
		"acquire",
		"begin_pass",
		"set_pipeline",
		"draw_indexed",
		"end_pass",
		"end_encoding",
		"submit",
		"present",
	}
	if !slices.Equal(b.Rec.Events, want) {
		t.Errorf("events:\n got %v\nwant %v", b.Rec.Events, want)
	}
}

func TestAnimatedRenderProtocol(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pyramid()
	initScene(t, ctx, b, s)

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []string{
		"write_buffer",
		"create_pipeline",
		"acquire",
		"begin_pass",
		"set_pipeline",
		"set_bind_group",
		"draw_indexed",
		"end_pass",
		"end_encoding",
		"submit",
		"present",
	}
	if !slices.Equal(b.Rec.Events, want) {
		t.Errorf("events:\n got %v\nwant %v", b.Rec.Events, want)
	}
}

func TestPentagonFrame(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon()
	initScene(t, ctx, b, s)

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(b.Rec.Passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(b.Rec.Passes))
	}
	pass := b.Rec.Passes[0]

	att := pass.Desc.ColorAttachments
	if len(att) != 1 {
		t.Fatalf("color attachments = %d, want 1", len(att))
	}
	if att[0].LoadOp != gputypes.LoadOpClear || att[0].StoreOp != gputypes.StoreOpStore {
		t.Errorf("load/store = %v/%v, want clear/store", att[0].LoadOp, att[0].StoreOp)
	}
	if att[0].ClearValue != (gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}) {
		t.Errorf("clear = %+v", att[0].ClearValue)
	}
	if got := pass.Triangles(); got != 3 {
		t.Errorf("triangles = %d, want 3", got)
	}
	if len(pass.Draws) != 1 || pass.Draws[0] != (gputest.DrawIndexed{IndexCount: 9, InstanceCount: 1}) {
		t.Errorf("draws = %+v, want one DrawIndexed(9, 1, 0, 0, 0)", pass.Draws)
	}
	if !slices.Equal(pass.VertexSlots, []uint32{0}) {
		t.Errorf("vertex slots = %v, want [0]", pass.VertexSlots)
	}
	if pass.IndexFormat != gputypes.IndexFormatUint16 {
		t.Errorf("index format = %v, want Uint16", pass.IndexFormat)
	}
	if len(pass.BindGroups) != 0 {
		t.Errorf("static scene bound %d groups, want 0", len(pass.BindGroups))
	}
	if !pass.Ended {
		t.Error("pass not ended")
	}
}

func TestPyramidFrame(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pyramid()
	initScene(t, ctx, b, s)

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	pass := b.Rec.Passes[0]
	if got := pass.Triangles(); got != 6 {
		t.Errorf("triangles = %d, want 6", got)
	}
	if len(pass.BindGroups) != 1 {
		t.Errorf("bound %d groups, want 1", len(pass.BindGroups))
	}

	if len(b.Rec.Pipelines) != 1 {
		t.Fatalf("pipelines built = %d, want 1", len(b.Rec.Pipelines))
	}
	desc := b.Rec.Pipelines[0]
	if desc.Primitive.CullMode != gputypes.CullModeBack {
		t.Errorf("cull = %v, want back", desc.Primitive.CullMode)
	}
}

func TestPipelineState(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon(WithCullMode(gputypes.CullModeNone))
	initScene(t, ctx, b, s)

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	desc := b.Rec.Pipelines[0]

	if desc.Primitive.Topology != gputypes.PrimitiveTopologyTriangleList {
		t.Errorf("topology = %v, want triangle list", desc.Primitive.Topology)
	}
	if desc.Primitive.FrontFace != gputypes.FrontFaceCCW {
		t.Errorf("front face = %v, want CCW", desc.Primitive.FrontFace)
	}
	if desc.Primitive.CullMode != gputypes.CullModeNone {
		t.Errorf("cull = %v, want none", desc.Primitive.CullMode)
	}
	if desc.DepthStencil != nil {
		t.Error("pipeline must not use depth/stencil")
	}
	if desc.Multisample.Count != 1 || desc.Multisample.Mask != 0xFFFFFFFF {
		t.Errorf("multisample = %+v", desc.Multisample)
	}
	if desc.Vertex.EntryPoint != VertexEntryPoint || desc.Fragment.EntryPoint != FragmentEntryPoint {
		t.Errorf("entry points = %q/%q", desc.Vertex.EntryPoint, desc.Fragment.EntryPoint)
	}
	if len(desc.Vertex.Buffers) != 1 || desc.Vertex.Buffers[0].ArrayStride != 24 {
		t.Errorf("vertex buffers = %+v, want one layout with stride 24", desc.Vertex.Buffers)
	}
	targets := desc.Fragment.Targets
	if len(targets) != 1 {
		t.Fatalf("color targets = %d, want 1", len(targets))
	}
	if targets[0].Format != ctx.Format() {
		t.Errorf("target format = %v, want surface format %v", targets[0].Format, ctx.Format())
	}
	if targets[0].Blend == nil || *targets[0].Blend != gputypes.BlendStateReplace() {
		t.Errorf("blend = %+v, want replace", targets[0].Blend)
	}
	if targets[0].WriteMask != gputypes.ColorWriteMaskAll {
		t.Errorf("write mask = %v, want all", targets[0].WriteMask)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome FrameOutcome
	}{
		{"lost", hal.ErrSurfaceLost, FrameLost},
		{"outdated", hal.ErrSurfaceOutdated, FrameLost},
		{"out of memory", hal.ErrDeviceOutOfMemory, FrameOutOfMemory},
		{"timeout", hal.ErrTimeout, FrameSkipped},
		{"not ready", hal.ErrNotReady, FrameSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, b := newTestContext(t, 800, 600)
			s := Pentagon()
			initScene(t, ctx, b, s)
			b.AcquireErrs = []error{tt.err}

			err := s.Render(ctx)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Render = %v, want %v", err, tt.err)
			}
			if got := Classify(err); got != tt.outcome {
				t.Errorf("Classify = %v, want %v", got, tt.outcome)
			}
			if b.Rec.Submits != 0 || b.Rec.Presents != 0 {
				t.Errorf("submits=%d presents=%d after failed acquire, want 0/0",
					b.Rec.Submits, b.Rec.Presents)
			}

			// The next frame renders normally.
			if err := s.Render(ctx); err != nil {
				t.Fatalf("Render after %s: %v", tt.name, err)
			}
			if b.Rec.Presents != 1 {
				t.Errorf("presents = %d, want 1", b.Rec.Presents)
			}
		})
	}
}

func TestRenderBeforeInitialize(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	for _, s := range []Scene{Pentagon(), Pyramid()} {
		err := s.Render(ctx)
		if !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%s: Render = %v, want ErrNotInitialized", s.Name(), err)
		}
		if Classify(err) != FrameFatal {
			t.Errorf("%s: Classify = %v, want fatal", s.Name(), Classify(err))
		}
	}
	if b.Rec.Acquires != 0 {
		t.Errorf("acquired %d textures, want 0", b.Rec.Acquires)
	}

	if err := Pyramid().Tick(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Tick = %v, want ErrNotInitialized", err)
	}
}

func TestInitializeBuffersIdempotent(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pyramid()
	if err := s.InitializeBuffers(ctx); err != nil {
		t.Fatalf("InitializeBuffers: %v", err)
	}
	defer s.Destroy()

	// vertex, index, uniform
	if got := len(b.Rec.Buffers); got != 3 {
		t.Fatalf("buffers = %d, want 3", got)
	}
	if err := s.InitializeBuffers(ctx); err != nil {
		t.Fatalf("second InitializeBuffers: %v", err)
	}
	if got := len(b.Rec.Buffers); got != 3 {
		t.Errorf("buffers after second call = %d, want 3", got)
	}
	if b.Rec.BindGroups != 1 {
		t.Errorf("bind groups = %d, want 1", b.Rec.BindGroups)
	}
}

func TestDestroyThenInitialize(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon()
	initScene(t, ctx, b, s)
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}

	s.Destroy()
	if b.Rec.PipelinesDestroyed != 1 {
		t.Errorf("pipelines destroyed = %d, want 1", b.Rec.PipelinesDestroyed)
	}
	if err := s.Render(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Render after Destroy = %v, want ErrNotInitialized", err)
	}
	if err := s.InitializeBuffers(ctx); err != nil {
		t.Fatalf("InitializeBuffers after Destroy: %v", err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render after reinitialize: %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want FrameOutcome
	}{
		{nil, FrameOK},
		{hal.ErrSurfaceLost, FrameLost},
		{&gpu.SurfaceError{Op: "acquire", Err: hal.ErrSurfaceOutdated}, FrameLost},
		{fmt.Errorf("wrapped: %w", hal.ErrDeviceOutOfMemory), FrameOutOfMemory},
		{&gpu.SurfaceError{Op: "acquire", Err: hal.ErrZeroArea}, FrameSkipped},
		{hal.ErrDeviceLost, FrameDeviceLost},
		{&gpu.SurfaceError{Op: "acquire", Err: hal.ErrDeviceLost}, FrameDeviceLost},
		{fmt.Errorf("%w: render pipeline", ErrPipeline), FrameSkipped},
		{ErrMissingEntryPoint, FrameFatal},
		{ErrInvalidShader, FrameFatal},
		{ErrNotInitialized, FrameFatal},
		{errors.New("boom"), FrameSkipped},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestFrameOutcomeString(t *testing.T) {
	for o, want := range map[FrameOutcome]string{
		FrameOK:          "ok",
		FrameLost:        "lost",
		FrameOutOfMemory: "out of memory",
		FrameSkipped:     "skipped",
		FrameFatal:       "fatal",
		FrameDeviceLost:  "device lost",
		FrameOutcome(42): "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(o), got, want)
		}
	}
}
