package surface

import (
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceVectorQuantity draws one arrow per face from its barycenter.
type FaceVectorQuantity struct {
	vectorQuantity
	field []r3.Vec
}

func newFaceVectorQuantity(name string, parent *Surface, vectors []r3.Vec, vectorType VectorType) (*FaceVectorQuantity, error) {
	field, err := geometry.TransferFaceData(parent.transfer, vectors)
	if err != nil {
		return nil, err
	}

	q := &FaceVectorQuantity{
		vectorQuantity: newVectorQuantity(name, parent, ElementFace, vectorType),
		field:          field,
	}
	for f := geometry.Face(0); f < geometry.Face(parent.geom.Mesh.NFaces()); f++ {
		q.roots = append(q.roots, parent.geom.Barycenter(f))
		q.vectors = append(q.vectors, field[f])
	}
	q.finishConstructing()
	return q, nil
}

func (q *FaceVectorQuantity) Inspect(ref ElementRef) (Inspection, bool) {
	if ref.Element != ElementFace || ref.Index < 0 || ref.Index >= len(q.field) {
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

func (q *FaceVectorQuantity) BuildInfoGUI(gui ui.GUI, ref ElementRef) bool {
	info, ok := q.Inspect(ref)
	return buildInspectionGUI(gui, info, ok)
}
