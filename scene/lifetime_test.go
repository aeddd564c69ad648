package scene

import (
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRenderKeepsFrameUntilComplete(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon(WithCache(false)).(*Static)
	initScene(t, ctx, b, s)
	b.HoldCompletion = true

	for range 2 {
		if err := s.Render(ctx); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if b.Rec.CommandBuffersFreed != 0 || b.Rec.PipelinesDestroyed != 0 {
		t.Errorf("released freed=%d pipelines=%d while frames pending, want 0/0",
			b.Rec.CommandBuffersFreed, b.Rec.PipelinesDestroyed)
	}
	if s.InFlight() != 2 {
		t.Errorf("in flight = %d, want 2", s.InFlight())
	}

	b.Complete()
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b.Rec.CommandBuffersFreed != 2 || b.Rec.PipelinesDestroyed != 2 {
		t.Errorf("after completion freed=%d pipelines=%d, want 2/2",
			b.Rec.CommandBuffersFreed, b.Rec.PipelinesDestroyed)
	}
	if s.InFlight() != 1 {
		t.Errorf("in flight = %d, want 1", s.InFlight())
	}
	if b.Rec.ReleasedWhilePending != 0 {
		t.Errorf("released %d objects while the GPU was busy", b.Rec.ReleasedWhilePending)
	}
}

func TestDestroyWaitsForGPU(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pyramid().(*Animated)
	if err := s.InitializeBuffers(ctx); err != nil {
		t.Fatalf("InitializeBuffers: %v", err)
	}
	b.Rec.Reset()
	b.HoldCompletion = true

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !b.Pending() {
		t.Fatal("submission completed immediately")
	}

	s.Destroy()
	if b.Rec.ReleasedWhilePending != 0 {
		t.Errorf("released %d objects while the GPU was busy", b.Rec.ReleasedWhilePending)
	}
	if b.Rec.WaitIdles == 0 {
		t.Error("Destroy did not wait for the device")
	}
	wait := slices.Index(b.Rec.Events, "wait_idle")
	submit := slices.Index(b.Rec.Events, "submit")
	if wait < submit {
		t.Errorf("wait_idle must follow submit: %v", b.Rec.Events)
	}
	// vertex, index, uniform
	if b.Rec.BuffersDestroyed != 3 {
		t.Errorf("buffers destroyed = %d, want 3", b.Rec.BuffersDestroyed)
	}
	if b.Rec.CommandBuffersFreed != 1 || b.Rec.BindGroupsDestroyed != 1 {
		t.Errorf("freed=%d bind groups=%d, want 1/1", b.Rec.CommandBuffersFreed, b.Rec.BindGroupsDestroyed)
	}
	if s.InFlight() != 0 {
		t.Errorf("in flight after Destroy = %d, want 0", s.InFlight())
	}
}

func TestPipelineCacheInvalidateWaitsForGPU(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	c := NewPipelineCache()
	defer c.Destroy()

	if _, err := c.Get(ctx.Device(), StaticShader, gputypes.TextureFormatBGRA8Unorm, gputypes.CullModeBack, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	b.Rec.Reset()
	b.HoldCompletion = true
	if _, err := ctx.Queue().Submit(nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := c.Get(ctx.Device(), StaticShader, gputypes.TextureFormatRGBA8Unorm, gputypes.CullModeBack, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Rec.PipelinesDestroyed != 1 {
		t.Errorf("pipelines destroyed = %d, want 1", b.Rec.PipelinesDestroyed)
	}
	if b.Rec.WaitIdles != 1 || b.Rec.ReleasedWhilePending != 0 {
		t.Errorf("wait idles=%d released while pending=%d, want 1/0", b.Rec.WaitIdles, b.Rec.ReleasedWhilePending)
	}
}
