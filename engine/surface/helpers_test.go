package surface

import (
	m "math"
	"testing"

	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer/rendertest"
	"github.com/spaghettifunk/fieldscope/engine/tracer"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// equilateral is one unit triangle in the z=0 plane whose first side runs
// along +x, so its face basis is exactly (x, y).
func equilateral() ([]r3.Vec, [][]int) {
	return []r3.Vec{{}, {X: 1}, {X: 0.5, Y: m.Sqrt(3) / 2}}, [][]int{{0, 1, 2}}
}

func torus() ([]r3.Vec, [][]int) {
	return geometry.Torus(12, 8, 2, 0.6)
}

func newTestSurface(t *testing.T, positions []r3.Vec, faces [][]int, options ...Option) (*Surface, *rendertest.Factory) {
	t.Helper()
	factory := &rendertest.Factory{}
	s, err := New("mesh", positions, faces, factory, options...)
	require.NoError(t, err)
	return s, factory
}

type countingTracer struct {
	calls    int
	nSym     int
	maxLines int
	maxSteps int
	err      error
}

func (ct *countingTracer) SetMaxStepsPerLine(n int) { ct.maxSteps = n }

func (ct *countingTracer) TraceField(geom *geometry.Geometry, field []math.Complex, nSym, maxLines int) (*tracer.Trace, error) {
	ct.calls++
	ct.nSym = nSym
	ct.maxLines = maxLines
	if ct.err != nil {
		return nil, ct.err
	}
	return tracer.New(0).TraceField(geom, field, nSym, maxLines)
}

func assertFinite(t *testing.T, vs []r3.Vec) {
	t.Helper()
	for i, v := range vs {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			require.False(t, m.IsNaN(c) || m.IsInf(c, 0), "vector %d is %v", i, v)
		}
	}
}
