package surface

import (
	"fmt"

	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/ui"
)

// OneFormIntrinsicVectorQuantity displays a discrete one-form through the face
// vectors that best reproduce its circulation. The one-form itself stays the
// authoritative data: picking an edge reports the raw value.
type OneFormIntrinsicVectorQuantity struct {
	vectorQuantity
	// per internal edge, along the canonical half-edge
	oneForm []float64
	field   []math.Complex
}

func newOneFormIntrinsicVectorQuantity(name string, parent *Surface, values map[geometry.EdgeKey]float64, vectorType VectorType) (*OneFormIntrinsicVectorQuantity, error) {
	oneForm, err := geometry.TransferOneForm(parent.transfer, values)
	if err != nil {
		return nil, fmt.Errorf("quantity %s: %w", name, err)
	}

	geom := parent.geom
	geom.RequireFaceBases()
	geom.RequireHalfedgeVectors()

	field := faceFieldFromOneForm(geom, oneForm)

	q := &OneFormIntrinsicVectorQuantity{
		vectorQuantity: newVectorQuantity(name, parent, ElementFace, vectorType),
		oneForm:        oneForm,
		field:          field,
	}
	for f := geometry.Face(0); f < geometry.Face(geom.Mesh.NFaces()); f++ {
		q.roots = append(q.roots, geom.Barycenter(f))
		q.vectors = append(q.vectors, geom.ToAmbient(f, field[f]))
	}
	q.ribbon = newRibbonState(field, 1)
	q.finishConstructing()
	return q, nil
}

// Field returns the reconstructed per-face values in internal face order.
func (q *OneFormIntrinsicVectorQuantity) Field() []math.Complex { return q.field }

func (q *OneFormIntrinsicVectorQuantity) OneForm() []float64 { return q.oneForm }

func (q *OneFormIntrinsicVectorQuantity) Ribbon() *RibbonState { return q.ribbon }

func (q *OneFormIntrinsicVectorQuantity) Inspect(ref ElementRef) (Inspection, bool) {
	if ref.Element != ElementEdge || ref.Index < 0 || ref.Index >= len(q.oneForm) {
		return Inspection{}, false
	}
	return Inspection{
		Name:  q.name,
		Value: fmt.Sprintf("%g", q.oneForm[ref.Index]),
	}, true
}

func (q *OneFormIntrinsicVectorQuantity) BuildInfoGUI(gui ui.GUI, ref ElementRef) bool {
	info, ok := q.Inspect(ref)
	return buildInspectionGUI(gui, info, ok)
}
