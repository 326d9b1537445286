// Package tracer integrates streamlines of a per-face tangent field across a
// surface mesh. Fields are given as one complex value per face in the face basis;
// n-fold symmetric fields are traced along whichever of their n directions best
// continues the incoming line.
package tracer

import (
	"fmt"
	m "math"

	"github.com/spaghettifunk/fieldscope/engine/containers"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultMaxStepsPerLine = 400

	zeroFieldTolerance = 1e-12
	edgeTolerance      = 1e-9
)

type Point struct {
	Position r3.Vec
	Normal   r3.Vec
}

// Line is a polyline on the surface, ordered along the field direction.
type Line []Point

type Trace struct {
	Lines []Line
	NSym  int
}

func (t *Trace) NumPoints() int {
	n := 0
	for _, l := range t.Lines {
		n += len(l)
	}
	return n
}

// FieldTracer seeds lines at face barycenters and walks them face to face.
type FieldTracer struct {
	// MaxStepsPerLine bounds the number of faces crossed in each direction.
	MaxStepsPerLine int
}

func New(maxStepsPerLine int) *FieldTracer {
	if maxStepsPerLine <= 0 {
		maxStepsPerLine = DefaultMaxStepsPerLine
	}
	return &FieldTracer{MaxStepsPerLine: maxStepsPerLine}
}

// SetMaxStepsPerLine changes the step budget of later traces. A non-positive n
// restores the default.
func (ft *FieldTracer) SetMaxStepsPerLine(n int) {
	if n <= 0 {
		n = DefaultMaxStepsPerLine
	}
	ft.MaxStepsPerLine = n
}

type fieldState struct {
	geom *geometry.Geometry
	// principal direction per face, unit length, zero where the field vanishes
	dirs []r3.Vec
	nSym int
}

// TraceField traces at most maxLines lines through field. A non-positive
// maxLines allows one line per face. Faces already crossed by a line are not
// used as seeds.
func (ft *FieldTracer) TraceField(geom *geometry.Geometry, field []math.Complex, nSym, maxLines int) (*Trace, error) {
	mesh := geom.Mesh
	if len(field) != mesh.NFaces() {
		return nil, fmt.Errorf("field has %d values for %d faces: %w", len(field), mesh.NFaces(), core.ErrSizeMismatch)
	}
	if nSym < 1 {
		return nil, fmt.Errorf("nSym=%d: %w", nSym, core.ErrInvalidSymmetry)
	}
	if maxLines <= 0 || maxLines > mesh.NFaces() {
		maxLines = mesh.NFaces()
	}

	geom.RequireFaceBases()
	fs := &fieldState{
		geom: geom,
		dirs: make([]r3.Vec, mesh.NFaces()),
		nSym: nSym,
	}
	for f := range field {
		if !field[f].IsFinite() || field[f].Abs() < zeroFieldTolerance {
			continue
		}
		fs.dirs[f] = geometry.SafeUnit(geom.ToAmbient(geometry.Face(f), field[f].Pow(1.0/float64(nSym))))
	}

	seeds := seedOrder(mesh.NFaces())
	covered := make([]bool, mesh.NFaces())
	trace := &Trace{NSym: nSym}

	for !seeds.IsEmpty() && len(trace.Lines) < maxLines {
		f, _ := seeds.Dequeue()
		if covered[f] || fs.dirs[f] == (r3.Vec{}) {
			continue
		}

		visited := map[geometry.Face]bool{f: true}
		start := geom.Barycenter(f)
		forward := ft.walk(fs, f, start, fs.dirs[f], 1, visited)
		backward := ft.walk(fs, f, start, r3.Scale(-1, fs.dirs[f]), -1, visited)

		line := make(Line, 0, len(forward)+len(backward)-1)
		for i := len(backward) - 1; i > 0; i-- {
			line = append(line, backward[i])
		}
		line = append(line, forward...)

		for face := range visited {
			covered[face] = true
		}
		if len(line) < 2 {
			continue
		}
		trace.Lines = append(trace.Lines, line)
	}

	return trace, nil
}

// seedOrder visits every face once, striding through the index range so that
// consecutive seeds land far apart on typical meshes.
func seedOrder(n int) *containers.RingQueue[geometry.Face] {
	q := containers.NewRingQueue[geometry.Face](n)
	if n == 0 {
		return q
	}
	stride := int(0.618*float64(n)) | 1
	for gcd(stride, n) != 1 {
		stride++
	}
	for i := 0; i < n; i++ {
		_ = q.Enqueue(geometry.Face((i * stride) % n))
	}
	return q
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// walk follows the field from start in face f until it leaves the mesh, reaches a
// vanishing field, re-enters a face of this line, or runs out of steps. The first
// point is start itself.
func (ft *FieldTracer) walk(fs *fieldState, f geometry.Face, start, dir r3.Vec, sign float64, visited map[geometry.Face]bool) []Point {
	geom := fs.geom
	mesh := geom.Mesh

	points := []Point{{Position: start, Normal: geom.FaceNormal(f)}}
	p := start
	d := dir
	entry := geometry.InvalidHalfedge

	for step := 0; step < ft.MaxStepsPerLine; step++ {
		exit, q, ok := exitPoint(geom, f, p, d, entry)
		if !ok {
			break
		}
		points = append(points, Point{Position: q, Normal: geom.FaceNormal(f)})

		twin := mesh.Twin(exit)
		if twin == geometry.InvalidHalfedge {
			break
		}
		next := mesh.HalfedgeFace(twin)
		if visited[next] {
			break
		}
		nd, ok := fs.alignedDirection(next, d, sign)
		if !ok {
			break
		}
		visited[next] = true
		p, d, f, entry = q, nd, next, twin
	}
	return points
}

// exitPoint intersects the ray p + t·d with the boundary of f, ignoring the edge
// the ray entered through. Coordinates are taken in the face basis.
func exitPoint(geom *geometry.Geometry, f geometry.Face, p, d r3.Vec, entry geometry.Halfedge) (geometry.Halfedge, r3.Vec, bool) {
	mesh := geom.Mesh
	b := geom.FaceBasis(f)
	proj := func(v r3.Vec) (float64, float64) { return r3.Dot(v, b[0]), r3.Dot(v, b[1]) }
	cross := func(ax, ay, bx, by float64) float64 { return ax*by - ay*bx }

	dx, dy := proj(d)
	best := geometry.InvalidHalfedge
	bestT := m.Inf(1)
	var bestQ r3.Vec

	for _, he := range mesh.FaceHalfedges(f) {
		if he == entry {
			continue
		}
		a3 := geom.Position(mesh.Vertex(he))
		c3 := geom.Position(mesh.TipVertex(he))
		ax, ay := proj(r3.Sub(a3, p))
		cx, cy := proj(r3.Sub(c3, p))
		ex, ey := cx-ax, cy-ay

		denom := cross(dx, dy, ex, ey)
		if m.Abs(denom) < 1e-15 {
			continue
		}
		t := cross(ax, ay, ex, ey) / denom
		s := cross(ax, ay, dx, dy) / denom
		if t <= edgeTolerance || s < -edgeTolerance || s > 1+edgeTolerance {
			continue
		}
		if t < bestT {
			s = math.Clamp(s, 0, 1)
			bestT = t
			best = he
			bestQ = r3.Add(a3, r3.Scale(s, r3.Sub(c3, a3)))
		}
	}
	return best, bestQ, best != geometry.InvalidHalfedge
}

// alignedDirection picks the field direction in f that continues incoming. Plain
// vector fields are followed with the walk's sign; symmetric fields pick the
// closest of their n directions.
func (fs *fieldState) alignedDirection(f geometry.Face, incoming r3.Vec, sign float64) (r3.Vec, bool) {
	principal := fs.dirs[f]
	if principal == (r3.Vec{}) {
		return r3.Vec{}, false
	}
	if fs.nSym == 1 {
		return r3.Scale(sign, principal), true
	}

	n := fs.geom.FaceNormal(f)
	in := r3.Sub(incoming, r3.Scale(r3.Dot(incoming, n), n))
	c := fs.geom.ToIntrinsic(f, principal)
	best := principal
	bestDot := m.Inf(-1)
	for k := 0; k < fs.nSym; k++ {
		v := fs.geom.ToAmbient(f, c.Rotate(float64(k)*math.K_PI_2/float64(fs.nSym)))
		if dot := r3.Dot(v, in); dot > bestDot {
			bestDot = dot
			best = v
		}
	}
	return best, true
}
