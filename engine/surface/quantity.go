package surface

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/tracer"
	"github.com/spaghettifunk/fieldscope/engine/ui"
)

type VectorType int

const (
	VectorStandard VectorType = iota
	// VectorAmbient vectors are already in world units. They are drawn at their
	// true length and never rescaled.
	VectorAmbient
)

func (t VectorType) String() string {
	switch t {
	case VectorStandard:
		return "standard"
	case VectorAmbient:
		return "ambient"
	}
	return "unknown"
}

type MeshElement int

const (
	ElementVertex MeshElement = iota
	ElementFace
	ElementEdge
)

func (e MeshElement) String() string {
	switch e {
	case ElementVertex:
		return "vertex"
	case ElementFace:
		return "face"
	case ElementEdge:
		return "edge"
	}
	return "unknown"
}

// ElementRef names one element of the internal mesh, typically the result of
// a pick.
type ElementRef struct {
	Element MeshElement
	Index   int
}

// Inspection is what a quantity reports for a single element.
type Inspection struct {
	Name         string
	Value        string
	Magnitude    float64
	HasMagnitude bool
}

type Quantity interface {
	ID() uuid.UUID
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Prepare allocates GPU resources. Draw calls it when needed.
	Prepare() error
	Draw(ctx *renderer.RenderContext) error
	DrawUI(gui ui.GUI)
	// Inspect reports the value at ref; false when the quantity is not defined
	// on that element.
	Inspect(ref ElementRef) (Inspection, bool)
	BuildInfoGUI(gui ui.GUI, ref ElementRef) bool
	Destroy()
}

// Tracer integrates streamlines through a per-face complex field.
type Tracer interface {
	TraceField(geom *geometry.Geometry, field []math.Complex, nSym, maxLines int) (*tracer.Trace, error)
}

func buildInspectionGUI(gui ui.GUI, info Inspection, ok bool) bool {
	if !ok {
		return false
	}
	gui.TextUnformatted(info.Name)
	gui.NextColumn()
	gui.TextUnformatted(info.Value)
	gui.NextColumn()
	if info.HasMagnitude {
		gui.NextColumn()
		gui.Text("magnitude: %g", info.Magnitude)
		gui.NextColumn()
	}
	return true
}
