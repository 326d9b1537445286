package surface

import (
	"fmt"

	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/ui"
)

// FaceIntrinsicVectorQuantity is an n-fold symmetric tangent field given as
// one complex value per face, in the face basis. Each face gets nSym arrows
// sharing the barycenter as root.
type FaceIntrinsicVectorQuantity struct {
	vectorQuantity
	field []math.Complex
	nSym  int
}

func newFaceIntrinsicVectorQuantity(name string, parent *Surface, values []math.Complex, nSym int, vectorType VectorType) (*FaceIntrinsicVectorQuantity, error) {
	if nSym < 1 {
		return nil, fmt.Errorf("quantity %s has nSym %d: %w", name, nSym, core.ErrInvalidSymmetry)
	}
	field, err := geometry.TransferFaceData(parent.transfer, values)
	if err != nil {
		return nil, err
	}

	geom := parent.geom
	geom.RequireFaceBases()

	q := &FaceIntrinsicVectorQuantity{
		vectorQuantity: newVectorQuantity(name, parent, ElementFace, vectorType),
		field:          field,
		nSym:           nSym,
	}
	for f := geometry.Face(0); f < geometry.Face(geom.Mesh.NFaces()); f++ {
		root := geom.Barycenter(f)
		for _, d := range symmetricDirections(field[f], nSym) {
			q.roots = append(q.roots, root)
			q.vectors = append(q.vectors, geom.ToAmbient(f, d))
		}
	}
	q.ribbon = newRibbonState(field, nSym)
	q.finishConstructing()
	return q, nil
}

func (q *FaceIntrinsicVectorQuantity) NSym() int { return q.nSym }

// Field returns the per-face complex values in internal face order.
func (q *FaceIntrinsicVectorQuantity) Field() []math.Complex { return q.field }

func (q *FaceIntrinsicVectorQuantity) Ribbon() *RibbonState { return q.ribbon }

func (q *FaceIntrinsicVectorQuantity) Inspect(ref ElementRef) (Inspection, bool) {
	if ref.Element != ElementFace || ref.Index < 0 || ref.Index >= len(q.field) {
		return Inspection{}, false
	}
	c := q.field[ref.Index]
	return Inspection{
		Name:         q.name,
		Value:        c.String(),
		Magnitude:    c.Abs(),
		HasMagnitude: true,
	}, true
}

func (q *FaceIntrinsicVectorQuantity) BuildInfoGUI(gui ui.GUI, ref ElementRef) bool {
	info, ok := q.Inspect(ref)
	return buildInspectionGUI(gui, info, ok)
}
