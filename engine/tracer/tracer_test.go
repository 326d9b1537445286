package tracer

import (
	m "math"
	"testing"

	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func gridGeometry(t *testing.T) *geometry.Geometry {
	t.Helper()
	geom, _, err := geometry.Build(geometry.Grid(8, 4, 2, 1))
	require.NoError(t, err)
	geom.RequireFaceBases()
	return geom
}

func constantField(geom *geometry.Geometry, v r3.Vec) []math.Complex {
	field := make([]math.Complex, geom.Mesh.NFaces())
	for f := range field {
		field[f] = geom.ToIntrinsic(geometry.Face(f), v)
	}
	return field
}

func TestTraceFieldValidation(t *testing.T) {
	geom := gridGeometry(t)
	tr := New(0)
	assert.Equal(t, DefaultMaxStepsPerLine, tr.MaxStepsPerLine)

	_, err := tr.TraceField(geom, make([]math.Complex, 3), 1, 10)
	assert.ErrorIs(t, err, core.ErrSizeMismatch)

	_, err = tr.TraceField(geom, make([]math.Complex, geom.Mesh.NFaces()), 0, 10)
	assert.ErrorIs(t, err, core.ErrInvalidSymmetry)
}

func TestTraceConstantFieldIsStraight(t *testing.T) {
	geom := gridGeometry(t)
	trace, err := New(100).TraceField(geom, constantField(geom, r3.Vec{X: 1}), 1, 0)
	require.NoError(t, err)
	require.NotEmpty(t, trace.Lines)
	assert.Equal(t, 1, trace.NSym)

	for _, line := range trace.Lines {
		require.GreaterOrEqual(t, len(line), 2)
		y := line[0].Position.Y
		for i, p := range line {
			assert.InDelta(t, y, p.Position.Y, 1e-9)
			assert.InDelta(t, 0.0, p.Position.Z, 1e-12)
			assert.InDelta(t, 1.0, p.Normal.Z, 1e-12)
			if i > 0 {
				assert.Greater(t, p.Position.X, line[i-1].Position.X, "lines follow the field")
			}
		}
		// a uniform field on a rectangle runs from wall to wall
		assert.InDelta(t, 0.0, line[0].Position.X, 1e-9)
		assert.InDelta(t, 2.0, line[len(line)-1].Position.X, 1e-9)
	}
}

func TestTraceRespectsLineBudget(t *testing.T) {
	geom := gridGeometry(t)
	trace, err := New(100).TraceField(geom, constantField(geom, r3.Vec{X: 1, Y: 0.3}), 1, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(trace.Lines), 3)
	assert.NotZero(t, trace.NumPoints())
}

func TestTraceZeroFieldHasNoLines(t *testing.T) {
	geom := gridGeometry(t)
	trace, err := New(100).TraceField(geom, make([]math.Complex, geom.Mesh.NFaces()), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, trace.Lines)
}

func TestTraceSymmetricField(t *testing.T) {
	geom := gridGeometry(t)
	// A line field along x is encoded by squaring the direction.
	field := constantField(geom, r3.Vec{X: 1})
	for i := range field {
		field[i] = field[i].Mul(field[i])
	}
	trace, err := New(100).TraceField(geom, field, 2, 0)
	require.NoError(t, err)
	require.NotEmpty(t, trace.Lines)
	assert.Equal(t, 2, trace.NSym)
	for _, line := range trace.Lines {
		for _, p := range line {
			assert.InDelta(t, line[0].Position.Y, p.Position.Y, 1e-9)
		}
	}
}

func TestTraceClosedSurfaceTerminates(t *testing.T) {
	geom, _, err := geometry.Build(geometry.Torus(24, 12, 2, 0.5))
	require.NoError(t, err)
	geom.RequireFaceBases()

	field := make([]math.Complex, geom.Mesh.NFaces())
	for f := range field {
		c := geom.Barycenter(geometry.Face(f))
		around := r3.Vec{X: -c.Y, Y: c.X}
		field[f] = geom.ToIntrinsic(geometry.Face(f), around)
	}

	trace, err := New(500).TraceField(geom, field, 1, 50)
	require.NoError(t, err)
	require.NotEmpty(t, trace.Lines)
	for _, line := range trace.Lines {
		for _, p := range line {
			assert.False(t, m.IsNaN(p.Position.X) || m.IsNaN(p.Position.Y) || m.IsNaN(p.Position.Z))
		}
	}
}

func TestSeedOrderVisitsEveryFace(t *testing.T) {
	for _, n := range []int{1, 2, 7, 10, 64} {
		q := seedOrder(n)
		seen := make(map[geometry.Face]bool)
		for !q.IsEmpty() {
			f, err := q.Dequeue()
			require.NoError(t, err)
			seen[f] = true
		}
		assert.Len(t, seen, n)
	}
}

func TestSetMaxStepsPerLine(t *testing.T) {
	ft := New(10)
	ft.SetMaxStepsPerLine(25)
	assert.Equal(t, 25, ft.MaxStepsPerLine)
	ft.SetMaxStepsPerLine(0)
	assert.Equal(t, DefaultMaxStepsPerLine, ft.MaxStepsPerLine)
}
