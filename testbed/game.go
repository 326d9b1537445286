// Package testbed is the demo scene: a torus or a grid carrying one quantity
// of every kind.
package testbed

import (
	"fmt"
	m "math"

	"github.com/spaghettifunk/fieldscope/engine"
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/surface"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	surface *surface.Surface
	width   uint32
	height  uint32
	elapsed float64
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State:  &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize

	return tg
}

// Scene returns the demo mesh named by the config.
func Scene(name string) ([]r3.Vec, [][]int, error) {
	switch name {
	case "torus":
		positions, faces := geometry.Torus(48, 24, 1, 0.35)
		return positions, faces, nil
	case "grid":
		positions, faces := geometry.Grid(32, 32, 2, 2)
		return positions, faces, nil
	}
	return nil, nil, fmt.Errorf("unknown scene %q", name)
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")
	state := g.State.(*gameState)

	positions, faces, err := Scene(g.Config.Application.Scene)
	if err != nil {
		return err
	}
	s, err := e.AddSurface(g.Config.Application.Scene, positions, faces, surface.WithBaseColor(renderer.RGBTeal))
	if err != nil {
		return err
	}
	state.surface = s

	fields := NewFields(s)
	if _, err := s.AddVertexVectorQuantity("radial", fields.Radial(positions), surface.VectorAmbient); err != nil {
		return err
	}
	swirl, err := s.AddFaceVectorQuantity("swirl", fields.Swirl(), surface.VectorStandard)
	if err != nil {
		return err
	}
	if _, err := s.AddFaceIntrinsicVectorQuantity("cross field", fields.Cross(4), 4, surface.VectorStandard); err != nil {
		return err
	}
	if _, err := s.AddOneFormIntrinsicVectorQuantity("circulation", fields.Circulation(), surface.VectorStandard); err != nil {
		return err
	}
	swirl.SetEnabled(true)

	e.Select(s, surface.ElementRef{Element: surface.ElementFace, Index: 0})
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime
	return nil
}

func (g *TestGame) Render(gui ui.GUI, deltaTime float64) error {
	state := g.State.(*gameState)
	if gui.TreeNode("Help") {
		gui.TextUnformatted("drag: orbit, scroll: zoom, 1-9: toggle quantity, B: ribbons, F: frame, R: reset")
		gui.Text("running %.1fs at %dx%d", state.elapsed, state.width, state.height)
		gui.TreePop()
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

// Fields computes the demo data for a surface. Every field is a function of
// position so it looks the same on any mesh.
type Fields struct {
	s *surface.Surface
}

func NewFields(s *surface.Surface) *Fields {
	return &Fields{s: s}
}

// Radial points away from the scene axis, a tenth of the length scale long.
func (f *Fields) Radial(positions []r3.Vec) []r3.Vec {
	center := f.s.Center()
	scale := 0.1 * f.s.LengthScale()
	out := make([]r3.Vec, len(positions))
	for i, p := range positions {
		d := r3.Sub(p, center)
		d.Z = 0
		out[i] = r3.Scale(scale, geometry.SafeUnit(d))
	}
	return out
}

// swirlAt is the rotation about the z axis through the scene center.
func (f *Fields) swirlAt(p r3.Vec) r3.Vec {
	d := r3.Sub(p, f.s.Center())
	return r3.Vec{X: -d.Y, Y: d.X}
}

// Swirl is one vector per face, in external face order.
func (f *Fields) Swirl() []r3.Vec {
	geom, transfer := f.s.Geometry(), f.s.Transfer()
	out := make([]r3.Vec, transfer.ExternalFaceCount())
	for face := geometry.Face(0); face < geometry.Face(geom.Mesh.NFaces()); face++ {
		out[transfer.ExternalFace(face)] = f.swirlAt(geom.Barycenter(face))
	}
	return out
}

// Cross is an nSym-fold field aligned with the swirl, given as the n-th
// power of the tangent direction.
func (f *Fields) Cross(nSym int) []math.Complex {
	geom, transfer := f.s.Geometry(), f.s.Transfer()
	geom.RequireFaceBases()
	out := make([]math.Complex, transfer.ExternalFaceCount())
	for face := geometry.Face(0); face < geometry.Face(geom.Mesh.NFaces()); face++ {
		c := geom.ToIntrinsic(face, f.swirlAt(geom.Barycenter(face)))
		if c.Abs() == 0 {
			continue
		}
		out[transfer.ExternalFace(face)] = math.Polar(1, c.Arg()*float64(nSym))
	}
	return out
}

// Circulation integrates a swirl that decays away from the center.
func (f *Fields) Circulation() map[geometry.EdgeKey]float64 {
	ls := f.s.LengthScale()
	return geometry.IntegrateOneForm(f.s.Geometry(), f.s.Transfer(), func(p r3.Vec) r3.Vec {
		v := f.swirlAt(p)
		return r3.Scale(m.Exp(-r3.Norm2(v)/(ls*ls)), v)
	})
}
