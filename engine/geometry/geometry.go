package geometry

import (
	"fmt"
	m "math"

	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry attaches vertex positions to a SurfaceMesh and caches derived
// quantities. Derived quantities are computed on demand: call the matching
// Require* method before reading them.
type Geometry struct {
	Mesh *SurfaceMesh

	positions []r3.Vec

	faceNormals     []r3.Vec
	faceBases       [][2]r3.Vec
	halfedgeVectors []r3.Vec
}

func NewGeometry(mesh *SurfaceMesh, positions []r3.Vec) (*Geometry, error) {
	if len(positions) != mesh.NVertices() {
		return nil, fmt.Errorf("%d positions for %d vertices: %w", len(positions), mesh.NVertices(), core.ErrSizeMismatch)
	}
	return &Geometry{
		Mesh:      mesh,
		positions: positions,
	}, nil
}

func (g *Geometry) Position(v Vertex) r3.Vec {
	return g.positions[v]
}

// Barycenter is the mean of the face's corner positions.
func (g *Geometry) Barycenter(f Face) r3.Vec {
	var sum r3.Vec
	n := 0
	for _, v := range g.Mesh.FaceVertices(f) {
		sum = r3.Add(sum, g.positions[v])
		n++
	}
	return r3.Scale(1.0/float64(n), sum)
}

// RequireHalfedgeVectors caches tip minus tail for every half-edge.
func (g *Geometry) RequireHalfedgeVectors() {
	if g.halfedgeVectors != nil {
		return
	}
	g.halfedgeVectors = make([]r3.Vec, g.Mesh.NHalfedges())
	for he := Halfedge(0); he < Halfedge(g.Mesh.NHalfedges()); he++ {
		g.halfedgeVectors[he] = r3.Sub(g.positions[g.Mesh.TipVertex(he)], g.positions[g.Mesh.Vertex(he)])
	}
}

// RequireFaceNormals caches unit face normals (Newell's method, so non-planar
// polygons get their best-fit normal). Zero-area faces get a zero normal.
func (g *Geometry) RequireFaceNormals() {
	if g.faceNormals != nil {
		return
	}
	g.faceNormals = make([]r3.Vec, g.Mesh.NFaces())
	for f := Face(0); f < Face(g.Mesh.NFaces()); f++ {
		var n r3.Vec
		for _, he := range g.Mesh.FaceHalfedges(f) {
			p := g.positions[g.Mesh.Vertex(he)]
			q := g.positions[g.Mesh.TipVertex(he)]
			n = r3.Add(n, r3.Cross(p, q))
		}
		g.faceNormals[f] = SafeUnit(n)
	}
}

// RequireFaceBases caches an orthonormal tangent frame per face. The first basis
// vector follows the face's first half-edge, the second is normal × first.
func (g *Geometry) RequireFaceBases() {
	if g.faceBases != nil {
		return
	}
	g.RequireFaceNormals()
	g.faceBases = make([][2]r3.Vec, g.Mesh.NFaces())
	for f := Face(0); f < Face(g.Mesh.NFaces()); f++ {
		he := g.Mesh.FaceHalfedge(f)
		e := r3.Sub(g.positions[g.Mesh.TipVertex(he)], g.positions[g.Mesh.Vertex(he)])
		n := g.faceNormals[f]
		// drop any out-of-plane component for non-planar polygons
		bx := SafeUnit(r3.Sub(e, r3.Scale(r3.Dot(e, n), n)))
		g.faceBases[f] = [2]r3.Vec{bx, r3.Cross(n, bx)}
	}
}

func (g *Geometry) HalfedgeVector(he Halfedge) r3.Vec {
	if g.halfedgeVectors == nil {
		panic("geometry: halfedge vectors read before RequireHalfedgeVectors")
	}
	return g.halfedgeVectors[he]
}

func (g *Geometry) FaceNormal(f Face) r3.Vec {
	if g.faceNormals == nil {
		panic("geometry: face normals read before RequireFaceNormals")
	}
	return g.faceNormals[f]
}

func (g *Geometry) FaceBasis(f Face) [2]r3.Vec {
	if g.faceBases == nil {
		panic("geometry: face bases read before RequireFaceBases")
	}
	return g.faceBases[f]
}

// ToAmbient converts a face-basis complex value into a 3D tangent vector.
func (g *Geometry) ToAmbient(f Face, c math.Complex) r3.Vec {
	b := g.FaceBasis(f)
	return r3.Add(r3.Scale(c.Real(), b[0]), r3.Scale(c.Imag(), b[1]))
}

// ToIntrinsic projects a 3D vector onto the face basis.
func (g *Geometry) ToIntrinsic(f Face, v r3.Vec) math.Complex {
	b := g.FaceBasis(f)
	return math.NewComplex(r3.Dot(v, b[0]), r3.Dot(v, b[1]))
}

// BoundingBox returns the axis-aligned bounds of the vertex positions.
func (g *Geometry) BoundingBox() (r3.Vec, r3.Vec) {
	if len(g.positions) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	lo, hi := g.positions[0], g.positions[0]
	for _, p := range g.positions[1:] {
		lo = r3.Vec{X: m.Min(lo.X, p.X), Y: m.Min(lo.Y, p.Y), Z: m.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: m.Max(hi.X, p.X), Y: m.Max(hi.Y, p.Y), Z: m.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// LengthScale is the bounding box diagonal, used to size glyphs and ribbons.
func (g *Geometry) LengthScale() float64 {
	lo, hi := g.BoundingBox()
	return r3.Norm(r3.Sub(hi, lo))
}

func (g *Geometry) Center() r3.Vec {
	lo, hi := g.BoundingBox()
	return r3.Scale(0.5, r3.Add(lo, hi))
}

// SafeUnit normalizes v, returning the zero vector for zero or non-finite input.
func SafeUnit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || m.IsNaN(n) || m.IsInf(n, 0) {
		return r3.Vec{}
	}
	return r3.Scale(1.0/n, v)
}
