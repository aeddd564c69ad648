package scene

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Entry point names every scene shader must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

//go:embed shaders/static.wgsl
var staticWGSL string

//go:embed shaders/animated.wgsl
var animatedWGSL string

// Shader is a named WGSL program.
type Shader struct {
	Name   string
	Source string
}

// Built-in shaders.
var (
	// StaticShader passes vertex colors through.
	StaticShader = Shader{Name: "static", Source: staticWGSL}

	// AnimatedShader rotates and pulses geometry using FrameUniform.
	AnimatedShader = Shader{Name: "animated", Source: animatedWGSL}
)

// Validate parses and lowers the shader and checks that both entry points
// exist with the right stages.
func (s Shader) Validate() error {
	ast, err := naga.Parse(s.Source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidShader, s.Name, err)
	}
	module, err := naga.LowerWithSource(ast, s.Source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidShader, s.Name, err)
	}

	want := map[string]ir.ShaderStage{
		VertexEntryPoint:   ir.StageVertex,
		FragmentEntryPoint: ir.StageFragment,
	}
	for _, ep := range module.EntryPoints {
		if stage, ok := want[ep.Name]; ok && stage == ep.Stage {
			delete(want, ep.Name)
		}
	}
	for name := range want {
		return fmt.Errorf("%w: %s: %s", ErrMissingEntryPoint, s.Name, name)
	}
	return nil
}
