package ribbon

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/renderer/rendertest"
	"github.com/spaghettifunk/fieldscope/engine/tracer"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func straightTrace() *tracer.Trace {
	up := r3.Vec{Z: 1}
	return &tracer.Trace{
		NSym: 1,
		Lines: []tracer.Line{
			{{Position: r3.Vec{}, Normal: up}, {Position: r3.Vec{X: 1}, Normal: up}, {Position: r3.Vec{X: 2}, Normal: up}},
			{{Position: r3.Vec{Y: 1}, Normal: up}},
		},
	}
}

func TestArtistTriangles(t *testing.T) {
	a := NewArtist("field", straightTrace(), &rendertest.Factory{}, renderer.RGBOrange)

	// one-point lines produce nothing; two segments give four triangles
	assert.Equal(t, 4, a.NumTriangles())
	require.Len(t, a.sides, 12)
	for i, s := range a.sides {
		// the side vector lies in the surface, across the line
		assert.InDelta(t, 1, s.Len(), 1e-6, "side %d", i)
		assert.InDelta(t, 0, s.X(), 1e-6, "side %d", i)
		assert.InDelta(t, 0, s.Z(), 1e-6, "side %d", i)
	}
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, a.normals[0])
}

func TestArtistDrawRetriesFailedAllocation(t *testing.T) {
	factory := &rendertest.Factory{FailNext: 1}
	a := NewArtist("field", straightTrace(), factory, renderer.RGBOrange)
	ctx := rendertest.Context(2)

	err := a.Draw(ctx)
	assert.ErrorIs(t, err, core.ErrProgramUnavailable)
	assert.Nil(t, a.program)

	require.NoError(t, a.Draw(ctx))
	require.NoError(t, a.Draw(ctx))
	assert.Equal(t, 2, factory.Attempts)

	p := factory.Last()
	assert.Equal(t, renderer.DrawModeTriangles, p.Spec.Mode)
	assert.Equal(t, 2, p.Draws)
	assert.Len(t, p.Attributes["a_position"], 12)
	assert.Equal(t, DefaultWidth*2, p.Uniforms["u_width"])
	assert.Equal(t, renderer.RGBOrange, p.Uniforms["u_color"])
	assert.Equal(t, float32(10), p.Uniforms["u_lightDist"])

	a.Destroy()
	assert.True(t, p.Destroyed)
	assert.Nil(t, a.program)
}

func TestArtistParametersGUI(t *testing.T) {
	a := NewArtist("field", straightTrace(), &rendertest.Factory{}, renderer.RGBOrange)

	var buf bytes.Buffer
	console := ui.NewConsole(&buf)
	console.Queue("Ribbon width", float32(0.01))
	console.Begin()
	a.BuildParametersGUI(console)
	frame, err := console.End()
	require.NoError(t, err)

	assert.Equal(t, float32(0.01), a.Width)
	assert.Contains(t, frame, "Ribbon width")
	assert.Contains(t, frame, "Ribbon color")
}
