// Package ribbon turns traced field lines into flat ribbons lying on the
// surface and draws them.
package ribbon

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/tracer"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultWidth float32 = 0.002

	// lift off the surface, relative to the length scale
	normalOffset float32 = 0.0005
)

type Artist struct {
	ID    uuid.UUID
	Name  string
	Width float32
	Color mgl32.Vec3

	factory renderer.ProgramFactory
	program renderer.Program

	positions []mgl32.Vec3
	sides     []mgl32.Vec3
	normals   []mgl32.Vec3
}

// NewArtist builds the ribbon triangles for trace. No GPU work happens until
// the first Draw.
func NewArtist(name string, trace *tracer.Trace, factory renderer.ProgramFactory, color mgl32.Vec3) *Artist {
	a := &Artist{
		ID:      uuid.New(),
		Name:    name,
		Width:   DefaultWidth,
		Color:   color,
		factory: factory,
	}
	for _, line := range trace.Lines {
		a.appendLine(line)
	}
	core.LogDebug("ribbon %s: %d lines, %d triangles", name, len(trace.Lines), a.NumTriangles())
	return a
}

func (a *Artist) NumTriangles() int {
	return len(a.positions) / 3
}

func (a *Artist) appendLine(line tracer.Line) {
	if len(line) < 2 {
		return
	}

	sides := make([]r3.Vec, len(line))
	for i := range line {
		prev, next := i-1, i+1
		if prev < 0 {
			prev = 0
		}
		if next >= len(line) {
			next = len(line) - 1
		}
		tangent := r3.Sub(line[next].Position, line[prev].Position)
		sides[i] = geometry.SafeUnit(r3.Cross(line[i].Normal, tangent))
	}

	for i := 0; i+1 < len(line); i++ {
		p0, p1 := renderer.Vec3(line[i].Position), renderer.Vec3(line[i+1].Position)
		s0, s1 := renderer.Vec3(sides[i]), renderer.Vec3(sides[i+1])
		n0, n1 := renderer.Vec3(line[i].Normal), renderer.Vec3(line[i+1].Normal)

		// two triangles per segment: (0-, 0+, 1+) and (0-, 1+, 1-)
		a.push(p0, s0.Mul(-1), n0)
		a.push(p0, s0, n0)
		a.push(p1, s1, n1)

		a.push(p0, s0.Mul(-1), n0)
		a.push(p1, s1, n1)
		a.push(p1, s1.Mul(-1), n1)
	}
}

func (a *Artist) push(p, side, n mgl32.Vec3) {
	a.positions = append(a.positions, p)
	a.sides = append(a.sides, side)
	a.normals = append(a.normals, n)
}

func (a *Artist) prepare() error {
	p, err := a.factory.NewProgram(&renderer.ProgramSpec{
		Name:           "ribbon_" + a.Name,
		VertexSource:   renderer.RibbonVertShader,
		FragmentSource: renderer.RibbonFragShader,
		Mode:           renderer.DrawModeTriangles,
	})
	if err != nil {
		return err
	}
	for name, data := range map[string][]mgl32.Vec3{
		"a_position": a.positions,
		"a_side":     a.sides,
		"a_normal":   a.normals,
	} {
		if err := p.SetAttribute(name, data); err != nil {
			p.Destroy()
			return fmt.Errorf("%w: ribbon %s: %v", core.ErrProgramUnavailable, a.Name, err)
		}
	}
	a.program = p
	return nil
}

// Draw allocates the program on first use. If allocation fails the error is
// returned and the next Draw tries again.
func (a *Artist) Draw(ctx *renderer.RenderContext) error {
	if a.program == nil {
		if err := a.prepare(); err != nil {
			return err
		}
	}
	if err := ctx.ApplyCamera(a.program); err != nil {
		return err
	}
	if err := a.program.SetUniform("u_width", a.Width*ctx.LengthScale); err != nil {
		return err
	}
	if err := a.program.SetUniform("u_offset", normalOffset*ctx.LengthScale); err != nil {
		return err
	}
	if err := a.program.SetUniform("u_color", a.Color); err != nil {
		return err
	}
	return a.program.Draw()
}

func (a *Artist) BuildParametersGUI(gui ui.GUI) {
	gui.SliderFloat("Ribbon width", &a.Width, 0, 0.05, "%.5f", 3)
	gui.ColorEdit3("Ribbon color", &a.Color)
}

func (a *Artist) Destroy() {
	if a.program != nil {
		a.program.Destroy()
		a.program = nil
	}
}
