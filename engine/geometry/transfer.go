package geometry

import (
	"fmt"

	"github.com/spaghettifunk/fieldscope/engine/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// EdgeKey names an oriented edge by its external vertex labels. A one-form value
// keyed by {From, To} is the circulation along From→To.
type EdgeKey struct {
	From, To int
}

// Transfer moves per-element data supplied against the caller's labels onto the
// internal mesh indices. The internal mesh drops vertices no face references, so
// vertex labels can differ from internal indices; faces keep their order.
type Transfer struct {
	mesh *SurfaceMesh

	vertexToExternal []int
	externalToVertex []Vertex
	faceToExternal   []int
	nExternalFaces   int
}

// Build compacts unreferenced vertices away and returns the mesh, its geometry and
// the transfer that maps external labels onto it.
func Build(positions []r3.Vec, faces [][]int) (*Geometry, *Transfer, error) {
	externalToVertex := make([]Vertex, len(positions))
	for i := range externalToVertex {
		externalToVertex[i] = InvalidVertex
	}
	var vertexToExternal []int
	internalFaces := make([][]int, len(faces))
	for f, loop := range faces {
		internalFaces[f] = make([]int, len(loop))
		for i, vi := range loop {
			if vi < 0 || vi >= len(positions) {
				return nil, nil, fmt.Errorf("face %d references vertex %d, only %d positions given", f, vi, len(positions))
			}
			if externalToVertex[vi] == InvalidVertex {
				externalToVertex[vi] = Vertex(len(vertexToExternal))
				vertexToExternal = append(vertexToExternal, vi)
			}
			internalFaces[f][i] = int(externalToVertex[vi])
		}
	}

	mesh, err := NewSurfaceMesh(len(vertexToExternal), internalFaces)
	if err != nil {
		return nil, nil, err
	}

	internalPositions := make([]r3.Vec, len(vertexToExternal))
	for v, ext := range vertexToExternal {
		internalPositions[v] = positions[ext]
	}
	geom, err := NewGeometry(mesh, internalPositions)
	if err != nil {
		return nil, nil, err
	}

	faceToExternal := make([]int, len(faces))
	for f := range faceToExternal {
		faceToExternal[f] = f
	}

	t := &Transfer{
		mesh:             mesh,
		vertexToExternal: vertexToExternal,
		externalToVertex: externalToVertex,
		faceToExternal:   faceToExternal,
		nExternalFaces:   len(faces),
	}
	if len(vertexToExternal) != len(positions) {
		core.LogDebug("mesh build dropped %d unreferenced vertices", len(positions)-len(vertexToExternal))
	}
	return geom, t, nil
}

func (t *Transfer) ExternalVertexCount() int { return len(t.externalToVertex) }
func (t *Transfer) ExternalFaceCount() int   { return t.nExternalFaces }

// ExternalVertex returns the caller label of an internal vertex.
func (t *Transfer) ExternalVertex(v Vertex) int { return t.vertexToExternal[v] }

func (t *Transfer) ExternalFace(f Face) int { return t.faceToExternal[f] }

// InternalVertex returns the internal vertex for a caller label, or false if the
// label is out of range or was dropped.
func (t *Transfer) InternalVertex(label int) (Vertex, bool) {
	if label < 0 || label >= len(t.externalToVertex) {
		return InvalidVertex, false
	}
	v := t.externalToVertex[label]
	return v, v != InvalidVertex
}

// EdgeKeyOf names e in caller labels, oriented along its canonical half-edge.
func (t *Transfer) EdgeKeyOf(e Edge) EdgeKey {
	a, b := t.mesh.EdgeVertices(e)
	return EdgeKey{From: t.vertexToExternal[a], To: t.vertexToExternal[b]}
}

// TransferVertexData reorders data indexed by external vertex label into internal
// vertex order.
func TransferVertexData[T any](t *Transfer, data []T) ([]T, error) {
	if len(data) != len(t.externalToVertex) {
		return nil, fmt.Errorf("vertex data has %d entries, mesh has %d vertex labels: %w", len(data), len(t.externalToVertex), core.ErrSizeMismatch)
	}
	out := make([]T, len(t.vertexToExternal))
	for v, ext := range t.vertexToExternal {
		out[v] = data[ext]
	}
	return out, nil
}

// TransferFaceData reorders data indexed by external face label into internal
// face order.
func TransferFaceData[T any](t *Transfer, data []T) ([]T, error) {
	if len(data) != t.nExternalFaces {
		return nil, fmt.Errorf("face data has %d entries, mesh has %d faces: %w", len(data), t.nExternalFaces, core.ErrSizeMismatch)
	}
	out := make([]T, len(t.faceToExternal))
	for f, ext := range t.faceToExternal {
		out[f] = data[ext]
	}
	return out, nil
}

// TransferOneForm stores each oriented value against its edge's canonical
// half-edge: the value is kept when the canonical half-edge runs From→To and
// negated otherwise. Edges without a value get zero. An edge given in both
// orientations must carry opposite values.
func TransferOneForm(t *Transfer, values map[EdgeKey]float64) ([]float64, error) {
	out := make([]float64, t.mesh.NEdges())
	seen := make([]bool, t.mesh.NEdges())
	for key, val := range values {
		a, okA := t.InternalVertex(key.From)
		b, okB := t.InternalVertex(key.To)
		if !okA || !okB {
			return nil, fmt.Errorf("edge %d→%d: %w", key.From, key.To, core.ErrUnknownEdge)
		}
		e, ok := t.mesh.FindEdge(a, b)
		if !ok {
			return nil, fmt.Errorf("edge %d→%d: %w", key.From, key.To, core.ErrUnknownEdge)
		}
		if t.mesh.Vertex(t.mesh.EdgeHalfedge(e)) != a {
			val = -val
		}
		if seen[e] && out[e] != val {
			return nil, fmt.Errorf("edge %d→%d given in both orientations with inconsistent values", key.From, key.To)
		}
		out[e] = val
		seen[e] = true
	}
	return out, nil
}
