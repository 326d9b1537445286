package geometry

import (
	"fmt"

	"github.com/spaghettifunk/fieldscope/engine/core"
)

// Element handles are plain indices into the mesh arrays.
type (
	Vertex   int
	Face     int
	Edge     int
	Halfedge int
)

const (
	InvalidVertex   Vertex   = -1
	InvalidFace     Face     = -1
	InvalidEdge     Edge     = -1
	InvalidHalfedge Halfedge = -1
)

type edgeKey struct {
	a, b Vertex
}

func newEdgeKey(a, b Vertex) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// SurfaceMesh is a manifold half-edge mesh of polygonal faces. Half-edges of a face
// are stored contiguously and in boundary order, so face f owns the half-edges
// [faceStart[f], faceStart[f+1]).
//
// Every edge has one canonical half-edge: the first half-edge created for it while
// walking the faces in input order. One-form values are stored against the
// direction of the canonical half-edge.
type SurfaceMesh struct {
	nVertices int

	heVertex []Vertex // tail vertex
	heNext   []Halfedge
	heTwin   []Halfedge
	heFace   []Face
	heEdge   []Edge

	faceStart    []Halfedge
	edgeHalfedge []Halfedge

	edgeLookup map[edgeKey]Edge
}

// NewSurfaceMesh builds the connectivity for faces given as vertex index loops.
func NewSurfaceMesh(nVertices int, faces [][]int) (*SurfaceMesh, error) {
	sm := &SurfaceMesh{
		nVertices:  nVertices,
		faceStart:  make([]Halfedge, 0, len(faces)+1),
		edgeLookup: make(map[edgeKey]Edge),
	}

	for f, loop := range faces {
		if len(loop) < 3 {
			return nil, fmt.Errorf("face %d: %w", f, core.ErrDegenerateFace)
		}
		seen := make(map[int]bool, len(loop))
		for _, vi := range loop {
			if vi < 0 || vi >= nVertices {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", f, vi, nVertices)
			}
			if seen[vi] {
				return nil, fmt.Errorf("face %d repeats vertex %d: %w", f, vi, core.ErrDegenerateFace)
			}
			seen[vi] = true
		}

		base := Halfedge(len(sm.heVertex))
		sm.faceStart = append(sm.faceStart, base)
		for i, vi := range loop {
			tail := Vertex(vi)
			tip := Vertex(loop[(i+1)%len(loop)])

			he := base + Halfedge(i)
			sm.heVertex = append(sm.heVertex, tail)
			sm.heNext = append(sm.heNext, base+Halfedge((i+1)%len(loop)))
			sm.heTwin = append(sm.heTwin, InvalidHalfedge)
			sm.heFace = append(sm.heFace, Face(f))

			key := newEdgeKey(tail, tip)
			e, found := sm.edgeLookup[key]
			if !found {
				e = Edge(len(sm.edgeHalfedge))
				sm.edgeLookup[key] = e
				sm.edgeHalfedge = append(sm.edgeHalfedge, he)
				sm.heEdge = append(sm.heEdge, e)
				continue
			}

			first := sm.edgeHalfedge[e]
			if sm.heTwin[first] != InvalidHalfedge {
				return nil, fmt.Errorf("edge %d-%d is shared by more than two faces", tail, tip)
			}
			// twins run in opposite directions
			if sm.heVertex[first] != tip {
				return nil, fmt.Errorf("faces %d and %d both walk %d→%d: %w",
					sm.heFace[first], f, tail, tip, core.ErrInconsistentOrientation)
			}
			sm.heTwin[first] = he
			sm.heTwin[he] = first
			sm.heEdge = append(sm.heEdge, e)
		}
	}
	sm.faceStart = append(sm.faceStart, Halfedge(len(sm.heVertex)))

	return sm, nil
}

func (sm *SurfaceMesh) NVertices() int  { return sm.nVertices }
func (sm *SurfaceMesh) NFaces() int     { return len(sm.faceStart) - 1 }
func (sm *SurfaceMesh) NEdges() int     { return len(sm.edgeHalfedge) }
func (sm *SurfaceMesh) NHalfedges() int { return len(sm.heVertex) }

// Vertex returns the tail vertex of he.
func (sm *SurfaceMesh) Vertex(he Halfedge) Vertex { return sm.heVertex[he] }

// TipVertex returns the vertex he points to.
func (sm *SurfaceMesh) TipVertex(he Halfedge) Vertex { return sm.heVertex[sm.heNext[he]] }

func (sm *SurfaceMesh) Next(he Halfedge) Halfedge { return sm.heNext[he] }

// Twin is InvalidHalfedge on the boundary.
func (sm *SurfaceMesh) Twin(he Halfedge) Halfedge { return sm.heTwin[he] }

func (sm *SurfaceMesh) HalfedgeFace(he Halfedge) Face { return sm.heFace[he] }
func (sm *SurfaceMesh) HalfedgeEdge(he Halfedge) Edge { return sm.heEdge[he] }

func (sm *SurfaceMesh) IsBoundary(he Halfedge) bool { return sm.heTwin[he] == InvalidHalfedge }

// EdgeHalfedge returns the canonical half-edge of e.
func (sm *SurfaceMesh) EdgeHalfedge(e Edge) Halfedge { return sm.edgeHalfedge[e] }

// IsCanonical reports whether he is its edge's canonical half-edge.
func (sm *SurfaceMesh) IsCanonical(he Halfedge) bool {
	return sm.edgeHalfedge[sm.heEdge[he]] == he
}

// OrientationSign is +1 for a canonical half-edge and -1 for its twin.
func (sm *SurfaceMesh) OrientationSign(he Halfedge) float64 {
	if sm.IsCanonical(he) {
		return 1.0
	}
	return -1.0
}

func (sm *SurfaceMesh) FaceHalfedge(f Face) Halfedge { return sm.faceStart[f] }

func (sm *SurfaceMesh) FaceDegree(f Face) int {
	return int(sm.faceStart[f+1] - sm.faceStart[f])
}

// FaceHalfedges lists the half-edges around f in boundary order.
func (sm *SurfaceMesh) FaceHalfedges(f Face) []Halfedge {
	hes := make([]Halfedge, 0, sm.FaceDegree(f))
	for he := sm.faceStart[f]; he < sm.faceStart[f+1]; he++ {
		hes = append(hes, he)
	}
	return hes
}

func (sm *SurfaceMesh) FaceVertices(f Face) []Vertex {
	vs := make([]Vertex, 0, sm.FaceDegree(f))
	for he := sm.faceStart[f]; he < sm.faceStart[f+1]; he++ {
		vs = append(vs, sm.heVertex[he])
	}
	return vs
}

// EdgeVertices returns the endpoints of e in canonical order.
func (sm *SurfaceMesh) EdgeVertices(e Edge) (Vertex, Vertex) {
	he := sm.edgeHalfedge[e]
	return sm.Vertex(he), sm.TipVertex(he)
}

// FindEdge looks up the edge joining a and b in either order.
func (sm *SurfaceMesh) FindEdge(a, b Vertex) (Edge, bool) {
	e, ok := sm.edgeLookup[newEdgeKey(a, b)]
	return e, ok
}
