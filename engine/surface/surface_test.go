package surface

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/renderer/rendertest"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func gridField(faces [][]int) []math.Complex {
	field := make([]math.Complex, len(faces))
	for i := range field {
		field[i] = math.NewComplex(1, 0.2)
	}
	return field
}

func TestDefaultsFollowVectorType(t *testing.T) {
	positions, faces := equilateral()
	s, _ := newTestSurface(t, positions, faces)

	std, err := s.AddVertexVectorQuantity("std", positions, VectorStandard)
	require.NoError(t, err)
	amb, err := s.AddVertexVectorQuantity("amb", positions, VectorAmbient)
	require.NoError(t, err)

	assert.Equal(t, float32(0.02), std.LengthMult())
	assert.Equal(t, float32(1.0), amb.LengthMult())
	assert.Equal(t, float32(0.0005), std.RadiusMult())
	assert.False(t, std.Enabled())

	// standard vectors are scaled so the longest has unit length
	assert.InDelta(t, 1, std.Mapper().Scale, 1e-12)
	assert.Equal(t, 1.0, amb.Mapper().Scale)
	assert.Equal(t, "[0, 1]", amb.Mapper().PrintBounds())

	assert.NotEqual(t, std.Color(), amb.Color())
	assert.NotEqual(t, std.ID(), amb.ID())
}

func TestDisplayOptionOverridesDefaults(t *testing.T) {
	positions, faces := equilateral()
	display := config.DefaultDisplay()
	display.LengthMult = 0.05
	display.RadiusMult = 0.001
	s, _ := newTestSurface(t, positions, faces, WithDisplay(display), WithBaseColor(renderer.RGBOrange))

	q, err := s.AddFaceVectorQuantity("face", []r3.Vec{{X: 1}}, VectorStandard)
	require.NoError(t, err)
	assert.Equal(t, float32(0.05), q.LengthMult())
	assert.Equal(t, float32(0.001), q.RadiusMult())
}

func TestGlyphDrawSetsUniforms(t *testing.T) {
	positions, faces := equilateral()
	s, factory := newTestSurface(t, positions, faces)

	q, err := s.AddVertexVectorQuantity("velocity", []r3.Vec{{X: 2}, {Y: 1}, {}}, VectorStandard)
	require.NoError(t, err)

	ctx := rendertest.Context(2)
	require.NoError(t, q.Draw(ctx))
	assert.Equal(t, 0, factory.Attempts, "disabled quantities allocate nothing")

	q.SetEnabled(true)
	require.NoError(t, q.Draw(ctx))
	require.NoError(t, q.Draw(ctx))

	require.Len(t, factory.Programs, 1)
	p := factory.Last()
	assert.Equal(t, renderer.DrawModePoints, p.Spec.Mode)
	assert.Equal(t, renderer.VectorGeomShader, p.Spec.GeometrySource)
	assert.Equal(t, 2, p.Draws)

	// one glyph per sample, vectors remapped, roots untouched
	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}, {0, 0.5, 0}, {0, 0, 0}}, p.Attributes["a_vector"])
	assert.Equal(t, renderer.Vec3Slice(positions), p.Attributes["a_position"])

	assert.Equal(t, q.LengthMult()*2, p.Uniforms["u_lengthMult"])
	assert.Equal(t, q.RadiusMult()*2, p.Uniforms["u_radius"])
	assert.Equal(t, q.Color(), p.Uniforms["u_color"])
	assert.Equal(t, float32(10), p.Uniforms["u_lightDist"])
	assert.Equal(t, ctx.Eye, p.Uniforms["u_eye"])
}

func TestAmbientLengthIsNeverScaled(t *testing.T) {
	positions, faces := equilateral()
	s, factory := newTestSurface(t, positions, faces)

	q, err := s.AddFaceVectorQuantity("wind", []r3.Vec{{X: 3, Z: 4}}, VectorAmbient)
	require.NoError(t, err)
	q.SetEnabled(true)
	q.SetLengthMult(0.5)
	assert.Equal(t, float32(1.0), q.LengthMult())

	for _, scale := range []float32{0.1, 1, 7} {
		require.NoError(t, q.Draw(rendertest.Context(scale)))
		assert.Equal(t, float32(1.0), factory.Last().Uniforms["u_lengthMult"])
	}
	// ambient vectors are uploaded at their true length
	assert.Equal(t, []mgl32.Vec3{{3, 0, 4}}, factory.Last().Attributes["a_vector"])

	var buf bytes.Buffer
	console := ui.NewConsole(&buf)
	console.Queue("wind (face vector)/Length", float32(0.09))
	console.Begin()
	q.DrawUI(console)
	frame, err := console.End()
	require.NoError(t, err)
	assert.NotContains(t, frame, "Length")
	assert.Contains(t, frame, "Radius")
	assert.Contains(t, frame, "[5, 5]")
	assert.Equal(t, float32(1.0), q.LengthMult())
}

func TestGlyphProgramIsRetriedAfterFailure(t *testing.T) {
	positions, faces := equilateral()
	s, factory := newTestSurface(t, positions, faces)
	factory.FailNext = 1

	q, err := s.AddFaceVectorQuantity("face", []r3.Vec{{X: 1}}, VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)

	err = q.Draw(rendertest.Context(1))
	assert.ErrorIs(t, err, core.ErrProgramUnavailable)
	assert.Nil(t, q.program)

	require.NoError(t, q.Draw(rendertest.Context(1)))
	assert.Equal(t, 2, factory.Attempts)
	assert.Equal(t, 1, factory.Last().Draws)
	// data is untouched by the failure
	assert.Equal(t, []r3.Vec{{X: 1}}, q.Vectors())
}

// bareFactory fails its first program with an error that carries no sentinel.
type bareFactory struct {
	rendertest.Factory
	failed bool
}

func (f *bareFactory) NewProgram(spec *renderer.ProgramSpec) (renderer.Program, error) {
	if !f.failed {
		f.failed = true
		return nil, errors.New("out of memory")
	}
	return f.Factory.NewProgram(spec)
}

func TestGlyphProgramFailureNamesQuantity(t *testing.T) {
	positions, faces := equilateral()
	factory := &bareFactory{}
	s, err := New("mesh", positions, faces, factory)
	require.NoError(t, err)

	q, err := s.AddFaceVectorQuantity("wind", []r3.Vec{{X: 1}}, VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)

	err = q.Draw(rendertest.Context(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProgramUnavailable)
	assert.Contains(t, err.Error(), "wind")
	assert.Contains(t, err.Error(), "out of memory")

	require.NoError(t, q.Draw(rendertest.Context(1)))
	assert.Len(t, factory.Programs, 1)
}

func TestNewRejectsInconsistentWinding(t *testing.T) {
	positions := []r3.Vec{{}, {X: 1}, {X: 0.5, Y: 1}, {X: 0.5, Y: -1}}
	_, err := New("mesh", positions, [][]int{{0, 1, 2}, {0, 1, 3}}, &rendertest.Factory{})
	assert.ErrorIs(t, err, core.ErrInconsistentOrientation)
}

func TestSurfaceDrawContinuesPastFailures(t *testing.T) {
	positions, faces := equilateral()
	s, factory := newTestSurface(t, positions, faces)

	a, err := s.AddFaceVectorQuantity("a", []r3.Vec{{X: 1}}, VectorStandard)
	require.NoError(t, err)
	b, err := s.AddFaceVectorQuantity("b", []r3.Vec{{Y: 1}}, VectorStandard)
	require.NoError(t, err)
	a.SetEnabled(true)
	b.SetEnabled(true)

	factory.FailNext = 1
	err = s.Draw(rendertest.Context(1))
	assert.ErrorIs(t, err, core.ErrProgramUnavailable)
	require.Len(t, factory.Programs, 1)
	assert.Equal(t, "vector_b", factory.Programs[0].Spec.Name)

	require.NoError(t, s.Draw(rendertest.Context(1)))
	assert.Len(t, factory.Programs, 2)
}

func TestDuplicateNamesAreRejected(t *testing.T) {
	positions, faces := equilateral()
	s, _ := newTestSurface(t, positions, faces)

	_, err := s.AddFaceVectorQuantity("q", []r3.Vec{{X: 1}}, VectorStandard)
	require.NoError(t, err)
	_, err = s.AddVertexVectorQuantity("q", positions, VectorStandard)
	assert.ErrorIs(t, err, core.ErrDuplicateQuantity)

	_, err = s.AddVertexVectorQuantity("short", positions[:2], VectorStandard)
	assert.ErrorIs(t, err, core.ErrSizeMismatch)
	assert.Len(t, s.Quantities(), 1)
}

func TestRemoveAndDestroyReleasePrograms(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	s, factory := newTestSurface(t, positions, faces)

	q, err := s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)
	ctx := rendertest.Context(1)

	require.NoError(t, q.Draw(ctx))
	q.Ribbon().SetEnabled(true)
	require.NoError(t, q.Draw(ctx))
	require.Len(t, factory.Programs, 2)

	assert.True(t, s.RemoveQuantity("field"))
	assert.False(t, s.RemoveQuantity("field"))
	for _, p := range factory.Programs {
		assert.True(t, p.Destroyed, p.Spec.Name)
	}
	_, ok := s.Quantity("field")
	assert.False(t, ok)

	// the name is free again
	_, err = s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)
	s.Destroy()
	assert.Empty(t, s.Quantities())
}

func TestRibbonIsBuiltOnce(t *testing.T) {
	positions, faces := geometry.Grid(6, 3, 3, 1.5)
	ct := &countingTracer{}
	s, factory := newTestSurface(t, positions, faces, WithTracer(ct))

	q, err := s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 2, VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)
	ctx := rendertest.Context(1)

	require.NoError(t, q.Draw(ctx))
	assert.Equal(t, 0, ct.calls, "no trace until ribbons are requested")
	assert.False(t, q.Ribbon().Built())

	for i := 0; i < 5; i++ {
		q.Ribbon().SetEnabled(true)
		require.NoError(t, q.Draw(ctx))
		require.NoError(t, q.Draw(ctx))
		q.Ribbon().SetEnabled(false)
		require.NoError(t, q.Draw(ctx))
		q.SetEnabled(i%2 == 0)
	}

	assert.Equal(t, 1, ct.calls)
	assert.Equal(t, 2, ct.nSym)
	assert.Equal(t, 2500, ct.maxLines)
	require.NotNil(t, q.Ribbon().Artist())
	assert.Greater(t, q.Ribbon().Artist().NumTriangles(), 0)

	var ribbonPrograms int
	for _, p := range factory.Programs {
		if p.Spec.Name == "ribbon_field" {
			ribbonPrograms++
		}
	}
	assert.Equal(t, 1, ribbonPrograms)
}

func TestRibbonModeHidesGlyphs(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	s, factory := newTestSurface(t, positions, faces)

	q, err := s.AddOneFormIntrinsicVectorQuantity("flow", geometry.IntegrateOneForm(s.Geometry(), s.Transfer(), func(r3.Vec) r3.Vec {
		return r3.Vec{X: 1}
	}), VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)
	q.Ribbon().SetEnabled(true)

	require.NoError(t, q.Draw(rendertest.Context(1)))
	require.Len(t, factory.Programs, 1)
	p := factory.Last()
	assert.Equal(t, "ribbon_flow", p.Spec.Name)
	assert.Equal(t, renderer.DrawModeTriangles, p.Spec.Mode)
	assert.Equal(t, 1, p.Draws)
}

func TestRibbonBuiltWhileDisabledButNotDrawn(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	ct := &countingTracer{}
	s, factory := newTestSurface(t, positions, faces, WithTracer(ct))

	q, err := s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)
	q.Ribbon().SetEnabled(true)

	require.NoError(t, q.Draw(rendertest.Context(1)))
	assert.Equal(t, 1, ct.calls)
	assert.NotNil(t, q.Ribbon().Artist())
	assert.Equal(t, 0, factory.Attempts)

	q.SetEnabled(true)
	require.NoError(t, q.Draw(rendertest.Context(1)))
	assert.Equal(t, 1, ct.calls)
	assert.Equal(t, 1, factory.Last().Draws)
}

func TestFailedTraceIsNotRetried(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	ct := &countingTracer{err: errors.New("stalled")}
	s, factory := newTestSurface(t, positions, faces, WithTracer(ct))

	q, err := s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)
	q.SetEnabled(true)
	q.Ribbon().SetEnabled(true)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Draw(rendertest.Context(1)))
	}
	assert.Equal(t, 1, ct.calls)
	assert.ErrorIs(t, q.Ribbon().Err(), core.ErrTraceFailed)
	assert.Nil(t, q.Ribbon().Artist())
	assert.Equal(t, 0, factory.Attempts)
}

func TestRibbonToggledFromUI(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	ct := &countingTracer{}
	s, _ := newTestSurface(t, positions, faces, WithTracer(ct))

	q, err := s.AddFaceIntrinsicVectorQuantity("field", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)

	var buf bytes.Buffer
	console := ui.NewConsole(&buf)
	frame := func() string {
		console.Begin()
		s.DrawUI(console)
		out, err := console.End()
		require.NoError(t, err)
		return out
	}

	out := frame()
	assert.Contains(t, out, "mesh")
	assert.Contains(t, out, "field (face vector)")
	assert.Contains(t, out, "Draw ribbon")
	assert.NotContains(t, out, "Ribbon width")

	console.Queue("mesh/field (face vector)/Enabled", true)
	console.Queue("mesh/field (face vector)/Draw ribbon", true)
	frame()
	assert.True(t, q.Enabled())
	assert.True(t, q.Ribbon().Enabled())

	require.NoError(t, s.Draw(rendertest.Context(1)))
	out = frame()
	assert.Contains(t, out, "Ribbon width")
	assert.Equal(t, 1, ct.calls)
}

func TestVertexAndFaceQuantitiesHaveNoRibbonControls(t *testing.T) {
	positions, faces := equilateral()
	s, _ := newTestSurface(t, positions, faces)
	_, err := s.AddVertexVectorQuantity("v", positions, VectorStandard)
	require.NoError(t, err)

	var buf bytes.Buffer
	console := ui.NewConsole(&buf)
	console.Begin()
	s.DrawUI(console)
	out, err := console.End()
	require.NoError(t, err)

	assert.Contains(t, out, "v (vertex vector)")
	assert.Contains(t, out, "Length")
	assert.NotContains(t, out, "Draw ribbon")
}

func TestInspection(t *testing.T) {
	positions, faces := equilateral()
	s, _ := newTestSurface(t, positions, faces)

	vq, err := s.AddVertexVectorQuantity("v", []r3.Vec{{X: 3, Y: 4}, {}, {}}, VectorStandard)
	require.NoError(t, err)
	fq, err := s.AddFaceVectorQuantity("f", []r3.Vec{{Z: 2}}, VectorStandard)
	require.NoError(t, err)
	iq, err := s.AddFaceIntrinsicVectorQuantity("i", []math.Complex{math.NewComplex(0, 2)}, 2, VectorStandard)
	require.NoError(t, err)
	oq, err := s.AddOneFormIntrinsicVectorQuantity("o", map[geometry.EdgeKey]float64{{From: 1, To: 2}: 0.25}, VectorStandard)
	require.NoError(t, err)

	info, ok := vq.Inspect(ElementRef{Element: ElementVertex, Index: 0})
	require.True(t, ok)
	assert.Equal(t, Inspection{Name: "v", Value: "<3, 4, 0>", Magnitude: 5, HasMagnitude: true}, info)

	_, ok = vq.Inspect(ElementRef{Element: ElementFace, Index: 0})
	assert.False(t, ok)
	_, ok = vq.Inspect(ElementRef{Element: ElementVertex, Index: 3})
	assert.False(t, ok)

	info, ok = fq.Inspect(ElementRef{Element: ElementFace, Index: 0})
	require.True(t, ok)
	assert.Equal(t, 2.0, info.Magnitude)

	info, ok = iq.Inspect(ElementRef{Element: ElementFace, Index: 0})
	require.True(t, ok)
	assert.Equal(t, "0+2i", info.Value)
	assert.Equal(t, 2.0, info.Magnitude)

	// the one-form reports the raw edge value, never a vector
	e, found := s.Geometry().Mesh.FindEdge(1, 2)
	require.True(t, found)
	info, ok = oq.Inspect(ElementRef{Element: ElementEdge, Index: int(e)})
	require.True(t, ok)
	assert.Equal(t, Inspection{Name: "o", Value: "0.25"}, info)
	_, ok = oq.Inspect(ElementRef{Element: ElementFace, Index: 0})
	assert.False(t, ok)

	var buf bytes.Buffer
	console := ui.NewConsole(&buf)
	console.Begin()
	shown := s.BuildInfoGUI(console, ElementRef{Element: ElementFace, Index: 0})
	out, err := console.End()
	require.NoError(t, err)

	assert.Equal(t, 2, shown)
	assert.Contains(t, out, "<0, 0, 2>")
	assert.Contains(t, out, "magnitude: 2")
	assert.Contains(t, out, "0+2i")
}

func TestSetDisplayAffectsNewQuantitiesOnly(t *testing.T) {
	positions, faces := geometry.Grid(4, 2, 2, 1)
	ct := &countingTracer{}
	s, _ := newTestSurface(t, positions, faces, WithTracer(ct))

	before, err := s.AddFaceVectorQuantity("before", make([]r3.Vec, len(faces)), VectorStandard)
	require.NoError(t, err)

	display := config.DefaultDisplay()
	display.LengthMult = 0.07
	display.RibbonMaxLines = 3
	display.RibbonMaxSteps = 55
	s.SetDisplay(display)
	assert.Equal(t, 55, ct.maxSteps)

	after, err := s.AddFaceIntrinsicVectorQuantity("after", gridField(faces), 1, VectorStandard)
	require.NoError(t, err)
	assert.Equal(t, float32(0.02), before.LengthMult())
	assert.Equal(t, float32(0.07), after.LengthMult())

	after.Ribbon().SetEnabled(true)
	require.NoError(t, after.Draw(rendertest.Context(1)))
	assert.Equal(t, 3, ct.maxLines)
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "vertex", ElementVertex.String())
	assert.Equal(t, "face", ElementFace.String())
	assert.Equal(t, "edge", ElementEdge.String())
	assert.Equal(t, "ambient", VectorAmbient.String())
	assert.Equal(t, "standard", VectorStandard.String())
}
