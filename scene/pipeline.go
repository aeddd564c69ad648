package scene

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/meshloop/mesh"
	"github.com/gogpu/wgpu/hal"
)

// PipelineKey identifies the state a render pipeline was built for.
type PipelineKey struct {
	Shader  string
	Format  gputypes.TextureFormat
	Cull    gputypes.CullMode
	Uniform bool
}

// Pipeline is a render pipeline with the shader module and layout it
// was built from.
type Pipeline struct {
	key      PipelineKey
	module   hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

// Key returns the state p was built for.
func (p *Pipeline) Key() PipelineKey { return p.key }

// Handle returns the hal pipeline.
func (p *Pipeline) Handle() hal.RenderPipeline { return p.pipeline }

// BuildPipeline compiles shader into a mesh pipeline for the given surface
// format. bindLayout is the layout of group 0; nil means the shader uses
// no bind groups.
//
// The pipeline draws triangle lists with counter-clockwise front faces,
// no depth or stencil, one sample, and a single color target in format
// that replaces the destination.
func BuildPipeline(device hal.Device, shader Shader, format gputypes.TextureFormat, cull gputypes.CullMode, bindLayout hal.BindGroupLayout) (*Pipeline, error) {
	if err := shader.Validate(); err != nil {
		return nil, err
	}

	key := PipelineKey{Shader: shader.Name, Format: format, Cull: cull, Uniform: bindLayout != nil}
	p := &Pipeline{key: key}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  shader.Name + "_shader",
		Source: hal.ShaderSource{WGSL: shader.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: shader module %s: %w", ErrPipeline, shader.Name, err)
	}
	p.module = module

	var groups []hal.BindGroupLayout
	if bindLayout != nil {
		groups = []hal.BindGroupLayout{bindLayout}
	}
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            shader.Name + "_pipeline_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("%w: pipeline layout %s: %w", ErrPipeline, shader.Name, err)
	}
	p.layout = layout

	blend := gputypes.BlendStateReplace()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  shader.Name + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: VertexEntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{mesh.VertexLayout()},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("%w: render pipeline %s: %w", ErrPipeline, shader.Name, err)
	}
	p.pipeline = pipeline

	slogger().Debug("scene: pipeline built",
		"shader", shader.Name, "format", format.String(), "cull", int(cull), "uniform", key.Uniform)
	return p, nil
}

// destroy releases the pipeline objects in reverse order of creation.
func (p *Pipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
		p.module = nil
	}
}

// PipelineCache keeps built pipelines across frames.
//
// The cache holds pipelines for a single surface format. Asking for a
// different format drops everything built for the previous one, since a
// pipeline's color target must match the surface it renders to.
//
// A PipelineCache is owned by one scene and is not safe for concurrent use.
type PipelineCache struct {
	device    hal.Device
	format    gputypes.TextureFormat
	pipelines map[PipelineKey]*Pipeline
	builds    int
}

// NewPipelineCache returns an empty cache.
func NewPipelineCache() *PipelineCache {
	return &PipelineCache{pipelines: make(map[PipelineKey]*Pipeline)}
}

// Get returns the cached pipeline for the arguments, building it on a miss.
func (c *PipelineCache) Get(device hal.Device, shader Shader, format gputypes.TextureFormat, cull gputypes.CullMode, bindLayout hal.BindGroupLayout) (*Pipeline, error) {
	if c.device != nil && c.device != device {
		c.Invalidate()
	}
	if len(c.pipelines) > 0 && c.format != format {
		slogger().Debug("scene: surface format changed, dropping pipelines",
			"old", c.format.String(), "new", format.String())
		c.Invalidate()
	}

	key := PipelineKey{Shader: shader.Name, Format: format, Cull: cull, Uniform: bindLayout != nil}
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}

	p, err := BuildPipeline(device, shader, format, cull, bindLayout)
	if err != nil {
		return nil, err
	}
	c.device = device
	c.format = format
	c.pipelines[key] = p
	c.builds++
	return p, nil
}

// Invalidate waits for the device to go idle, since submitted frames may
// still reference the pipelines, then destroys every cached pipeline.
func (c *PipelineCache) Invalidate() {
	if len(c.pipelines) == 0 {
		return
	}
	if err := c.device.WaitIdle(); err != nil {
		slogger().Warn("scene: wait idle before dropping pipelines", "err", err)
	}
	for key, p := range c.pipelines {
		p.destroy(c.device)
		delete(c.pipelines, key)
	}
}

// Len returns the number of cached pipelines.
func (c *PipelineCache) Len() int { return len(c.pipelines) }

// Builds returns how many pipelines the cache has built in total.
func (c *PipelineCache) Builds() int { return c.builds }

// Destroy releases all pipelines. The cache stays usable.
func (c *PipelineCache) Destroy() {
	c.Invalidate()
	c.device = nil
}
