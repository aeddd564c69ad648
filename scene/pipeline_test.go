package scene

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPipelineCacheReuse(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon()
	initScene(t, ctx, b, s)

	for range 3 {
		if err := s.Render(ctx); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if got := b.Rec.Count("create_pipeline"); got != 1 {
		t.Errorf("pipelines built = %d, want 1", got)
	}
	if b.Rec.PipelinesDestroyed != 0 {
		t.Errorf("pipelines destroyed = %d, want 0", b.Rec.PipelinesDestroyed)
	}
	if b.Rec.Presents != 3 {
		t.Errorf("presents = %d, want 3", b.Rec.Presents)
	}
}

func TestPipelineCacheDisabled(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	s := Pentagon(WithCache(false))
	initScene(t, ctx, b, s)

	for range 2 {
		if err := s.Render(ctx); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if got := b.Rec.Count("create_pipeline"); got != 2 {
		t.Errorf("pipelines built = %d, want 2", got)
	}
	// The second frame reclaims the first; the last stays in flight.
	if b.Rec.PipelinesDestroyed != 1 {
		t.Errorf("pipelines destroyed = %d, want 1", b.Rec.PipelinesDestroyed)
	}
	s.Destroy()
	if b.Rec.PipelinesDestroyed != 2 {
		t.Errorf("pipelines destroyed after Destroy = %d, want 2", b.Rec.PipelinesDestroyed)
	}
}

func TestPipelineCacheInvalidatesOnFormatChange(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	b.Rec.Reset()
	device := ctx.Device()
	c := NewPipelineCache()
	defer c.Destroy()

	get := func(format gputypes.TextureFormat, cull gputypes.CullMode) *Pipeline {
		t.Helper()
		p, err := c.Get(device, StaticShader, format, cull, nil)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		return p
	}

	p := get(gputypes.TextureFormatBGRA8Unorm, gputypes.CullModeBack)
	get(gputypes.TextureFormatBGRA8Unorm, gputypes.CullModeBack)
	get(gputypes.TextureFormatBGRA8Unorm, gputypes.CullModeNone)
	if c.Len() != 2 || c.Builds() != 2 {
		t.Fatalf("len=%d builds=%d, want 2/2", c.Len(), c.Builds())
	}
	if p.Key().Format != gputypes.TextureFormatBGRA8Unorm || p.Key().Uniform {
		t.Errorf("key = %+v", p.Key())
	}

	get(gputypes.TextureFormatRGBA8Unorm, gputypes.CullModeBack)
	if c.Len() != 1 {
		t.Errorf("len after format change = %d, want 1", c.Len())
	}
	if c.Builds() != 3 {
		t.Errorf("builds = %d, want 3", c.Builds())
	}
	if b.Rec.PipelinesDestroyed != 2 {
		t.Errorf("pipelines destroyed = %d, want 2", b.Rec.PipelinesDestroyed)
	}
	if got := b.Rec.Pipelines[2].Fragment.Targets[0].Format; got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("rebuilt target format = %v, want RGBA8Unorm", got)
	}

	c.Destroy()
	if c.Len() != 0 || b.Rec.PipelinesDestroyed != 3 {
		t.Errorf("after Destroy len=%d destroyed=%d, want 0/3", c.Len(), b.Rec.PipelinesDestroyed)
	}
}

func TestBuildPipelineRejectsBadShader(t *testing.T) {
	ctx, b := newTestContext(t, 800, 600)
	b.Rec.Reset()

	bad := Shader{Name: "bad", Source: "this is not wgsl"}
	_, err := BuildPipeline(ctx.Device(), bad, ctx.Format(), gputypes.CullModeNone, nil)
	if !errors.Is(err, ErrInvalidShader) {
		t.Fatalf("BuildPipeline = %v, want ErrInvalidShader", err)
	}
	if Classify(err) != FrameFatal {
		t.Errorf("Classify = %v, want fatal", Classify(err))
	}
	if b.Rec.ShaderModules != 0 {
		t.Errorf("shader modules created = %d, want 0", b.Rec.ShaderModules)
	}
}
