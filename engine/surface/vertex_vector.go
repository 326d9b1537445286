package surface

import (
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

// VertexVectorQuantity draws one arrow per vertex, rooted at the vertex.
type VertexVectorQuantity struct {
	vectorQuantity
	// internal vertex order
	field []r3.Vec
}

func newVertexVectorQuantity(name string, parent *Surface, vectors []r3.Vec, vectorType VectorType) (*VertexVectorQuantity, error) {
	field, err := geometry.TransferVertexData(parent.transfer, vectors)
	if err != nil {
		return nil, err
	}

	q := &VertexVectorQuantity{
		vectorQuantity: newVectorQuantity(name, parent, ElementVertex, vectorType),
		field:          field,
	}
	for v := geometry.Vertex(0); v < geometry.Vertex(parent.geom.Mesh.NVertices()); v++ {
		q.roots = append(q.roots, parent.geom.Position(v))
		q.vectors = append(q.vectors, field[v])
	}
	q.finishConstructing()
	return q, nil
}

func (q *VertexVectorQuantity) Inspect(ref ElementRef) (Inspection, bool) {
	if ref.Element != ElementVertex || ref.Index < 0 || ref.Index >= len(q.field) {
		return Inspection{}, false
	}
	v := q.field[ref.Index]
	return Inspection{
		Name:         q.name,
		Value:        formatVector(v),
		Magnitude:    r3.Norm(v),
		HasMagnitude: true,
	}, true
}

func (q *VertexVectorQuantity) BuildInfoGUI(gui ui.GUI, ref ElementRef) bool {
	info, ok := q.Inspect(ref)
	return buildInspectionGUI(gui, info, ok)
}
