// Package rendertest provides an in-memory ProgramFactory for tests that
// exercise drawing code without a GPU.
package rendertest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
)

type Program struct {
	Spec       renderer.ProgramSpec
	Uniforms   map[string]interface{}
	Attributes map[string][]mgl32.Vec3
	Draws      int
	Destroyed  bool
}

func (p *Program) SetUniform(name string, value interface{}) error {
	if p.Destroyed {
		return fmt.Errorf("program %s used after Destroy", p.Spec.Name)
	}
	p.Uniforms[name] = value
	return nil
}

func (p *Program) SetAttribute(name string, data []mgl32.Vec3) error {
	if p.Destroyed {
		return fmt.Errorf("program %s used after Destroy", p.Spec.Name)
	}
	p.Attributes[name] = append([]mgl32.Vec3(nil), data...)
	return nil
}

func (p *Program) Draw() error {
	if p.Destroyed {
		return fmt.Errorf("program %s used after Destroy", p.Spec.Name)
	}
	p.Draws++
	return nil
}

func (p *Program) Destroy() {
	p.Destroyed = true
}

// Factory records every program it creates. While FailNext is positive each
// NewProgram call fails and decrements it.
type Factory struct {
	FailNext int
	Attempts int
	Programs []*Program
}

func (f *Factory) NewProgram(spec *renderer.ProgramSpec) (renderer.Program, error) {
	f.Attempts++
	if f.FailNext > 0 {
		f.FailNext--
		return nil, fmt.Errorf("%w: %s: no context", core.ErrProgramUnavailable, spec.Name)
	}
	p := &Program{
		Spec:       *spec,
		Uniforms:   make(map[string]interface{}),
		Attributes: make(map[string][]mgl32.Vec3),
	}
	f.Programs = append(f.Programs, p)
	return p, nil
}

// Last returns the most recently created program, or nil.
func (f *Factory) Last() *Program {
	if len(f.Programs) == 0 {
		return nil
	}
	return f.Programs[len(f.Programs)-1]
}

// Context returns a fixed frame context with the given length scale.
func Context(lengthScale float32) *renderer.RenderContext {
	return &renderer.RenderContext{
		View:        mgl32.Ident4(),
		Projection:  mgl32.Ident4(),
		Eye:         mgl32.Vec3{0, 0, 3},
		LightCenter: mgl32.Vec3{},
		LengthScale: lengthScale,
	}
}
