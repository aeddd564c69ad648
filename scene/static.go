package scene

import (
	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/mesh"
)

// Static draws meshes with their vertex colors and no frame state.
type Static struct {
	base
}

// NewStatic returns a scene drawing meshes with StaticShader.
func NewStatic(name string, meshes []*mesh.Mesh, opts ...Option) *Static {
	return &Static{base: newBase(name, StaticShader, meshes, opts)}
}

// InitializeBuffers uploads the meshes.
func (s *Static) InitializeBuffers(ctx *gpu.Context) error {
	if s.initialized() {
		return nil
	}
	return s.upload(ctx)
}

// Tick does nothing; a static scene has no frame state.
func (s *Static) Tick(*gpu.Context) error { return nil }

// Render draws one frame.
func (s *Static) Render(ctx *gpu.Context) error {
	return s.render(ctx, nil, nil)
}

// Destroy releases the scene's GPU resources.
func (s *Static) Destroy() { s.destroy() }
