package surface

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/ribbon"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

// vectorQuantity holds what every vector variant shares: the glyph samples,
// their remapper, display state and the GPU program. Variants fill roots and
// vectors and then call finishConstructing.
type vectorQuantity struct {
	id         uuid.UUID
	name       string
	parent     *Surface
	definedOn  MeshElement
	vectorType VectorType

	// roots[i] is where vectors[i] is drawn from
	roots   []r3.Vec
	vectors []r3.Vec
	mapper  math.AffineRemapper

	enabled    bool
	color      mgl32.Vec3
	lengthMult float32
	radiusMult float32

	program renderer.Program
	// nil for variants that cannot draw ribbons
	ribbon *RibbonState
}

func newVectorQuantity(name string, parent *Surface, definedOn MeshElement, vectorType VectorType) vectorQuantity {
	return vectorQuantity{
		id:         uuid.New(),
		name:       name,
		parent:     parent,
		definedOn:  definedOn,
		vectorType: vectorType,
	}
}

func (q *vectorQuantity) finishConstructing() {
	if q.vectorType == VectorAmbient {
		q.mapper = math.NewIdentityRemapper()
		q.mapper.SetMinMax(q.vectors)
		q.lengthMult = 1.0
	} else {
		q.mapper = math.NewMagnitudeRemapper(q.vectors)
		q.lengthMult = q.parent.display.LengthMult
	}
	q.radiusMult = q.parent.display.RadiusMult
	q.color = q.parent.colors.NextSubColor(q.name)
}

func (q *vectorQuantity) ID() uuid.UUID           { return q.id }
func (q *vectorQuantity) Name() string            { return q.name }
func (q *vectorQuantity) Enabled() bool           { return q.enabled }
func (q *vectorQuantity) SetEnabled(enabled bool) { q.enabled = enabled }
func (q *vectorQuantity) VectorType() VectorType  { return q.vectorType }
func (q *vectorQuantity) DefinedOn() MeshElement  { return q.definedOn }

// Roots and Vectors return the glyph samples; callers must not modify them.
func (q *vectorQuantity) Roots() []r3.Vec   { return q.roots }
func (q *vectorQuantity) Vectors() []r3.Vec { return q.vectors }

func (q *vectorQuantity) Mapper() math.AffineRemapper { return q.mapper }

func (q *vectorQuantity) Color() mgl32.Vec3         { return q.color }
func (q *vectorQuantity) SetColor(color mgl32.Vec3) { q.color = color }
func (q *vectorQuantity) LengthMult() float32       { return q.lengthMult }
func (q *vectorQuantity) RadiusMult() float32       { return q.radiusMult }

// SetLengthMult is ignored for ambient vectors, which always draw at their
// true length.
func (q *vectorQuantity) SetLengthMult(mult float32) {
	if q.vectorType == VectorAmbient {
		return
	}
	q.lengthMult = mult
}

func (q *vectorQuantity) SetRadiusMult(mult float32) { q.radiusMult = mult }

// effectiveLengthMult is the glyph scale handed to the shader.
func (q *vectorQuantity) effectiveLengthMult(lengthScale float32) float32 {
	if q.vectorType == VectorAmbient {
		return 1.0
	}
	return q.lengthMult * lengthScale
}

func (q *vectorQuantity) Prepare() error {
	if q.program != nil {
		q.program.Destroy()
		q.program = nil
	}

	p, err := q.parent.factory.NewProgram(&renderer.ProgramSpec{
		Name:           "vector_" + q.name,
		VertexSource:   renderer.PassthruVectorVertShader,
		GeometrySource: renderer.VectorGeomShader,
		FragmentSource: renderer.ShinyFragShader,
		Mode:           renderer.DrawModePoints,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrProgramUnavailable, q.name, err)
	}

	mapped := make([]mgl32.Vec3, len(q.vectors))
	for i, v := range q.vectors {
		mapped[i] = renderer.Vec3(q.mapper.Map(v))
	}
	if err := p.SetAttribute("a_vector", mapped); err != nil {
		p.Destroy()
		return fmt.Errorf("%w: %s: %v", core.ErrProgramUnavailable, q.name, err)
	}
	if err := p.SetAttribute("a_position", renderer.Vec3Slice(q.roots)); err != nil {
		p.Destroy()
		return fmt.Errorf("%w: %s: %v", core.ErrProgramUnavailable, q.name, err)
	}

	q.program = p
	return nil
}

func (q *vectorQuantity) Draw(ctx *renderer.RenderContext) error {
	if err := q.drawGlyphs(ctx); err != nil {
		return err
	}
	return q.drawRibbon(ctx)
}

func (q *vectorQuantity) drawGlyphs(ctx *renderer.RenderContext) error {
	if !q.enabled || q.ribbonEnabled() {
		return nil
	}

	if q.program == nil {
		if err := q.Prepare(); err != nil {
			return err
		}
	}

	if err := ctx.ApplyCamera(q.program); err != nil {
		return err
	}
	if err := q.program.SetUniform("u_radius", q.radiusMult*ctx.LengthScale); err != nil {
		return err
	}
	if err := q.program.SetUniform("u_color", q.color); err != nil {
		return err
	}
	if err := q.program.SetUniform("u_lengthMult", q.effectiveLengthMult(ctx.LengthScale)); err != nil {
		return err
	}
	return q.program.Draw()
}

func (q *vectorQuantity) DrawUI(gui ui.GUI) {
	if gui.TreeNode(fmt.Sprintf("%s (%s vector)", q.name, q.definedOn)) {
		gui.Checkbox("Enabled", &q.enabled)
		gui.SameLine()
		gui.ColorEdit3("Color", &q.color)

		// ambient vectors keep their true length
		if q.vectorType != VectorAmbient {
			gui.SliderFloat("Length", &q.lengthMult, 0.0, .1, "%.5f", 3.)
		}

		gui.SliderFloat("Radius", &q.radiusMult, 0.0, .1, "%.5f", 3.)

		gui.TextUnformatted(q.mapper.PrintBounds())

		q.drawSubUI(gui)

		gui.TreePop()
	}
}

func (q *vectorQuantity) drawSubUI(gui ui.GUI) {
	if q.ribbon == nil {
		return
	}
	gui.Checkbox("Draw ribbon", &q.ribbon.enabled)
	if q.ribbon.enabled && q.ribbon.artist != nil {
		q.ribbon.artist.BuildParametersGUI(gui)
	}
}

func (q *vectorQuantity) Destroy() {
	if q.program != nil {
		q.program.Destroy()
		q.program = nil
	}
	if q.ribbon != nil && q.ribbon.artist != nil {
		q.ribbon.artist.Destroy()
		q.ribbon.artist = nil
	}
}

func (q *vectorQuantity) ribbonEnabled() bool {
	return q.ribbon != nil && q.ribbon.enabled
}

// RibbonState is the lazily traced streamline display of a tangent field. The
// trace runs once, the first frame ribbons are requested, and is kept for the
// lifetime of the quantity. A failed trace is not retried.
type RibbonState struct {
	field []math.Complex
	nSym  int

	enabled bool
	built   bool
	artist  *ribbon.Artist
	err     error
}

func newRibbonState(field []math.Complex, nSym int) *RibbonState {
	return &RibbonState{field: field, nSym: nSym}
}

func (r *RibbonState) Enabled() bool           { return r.enabled }
func (r *RibbonState) SetEnabled(enabled bool) { r.enabled = enabled }
func (r *RibbonState) Built() bool             { return r.built }
func (r *RibbonState) Artist() *ribbon.Artist  { return r.artist }
func (r *RibbonState) Err() error              { return r.err }

func (q *vectorQuantity) ensureRibbon() {
	r := q.ribbon
	if r.built {
		return
	}
	r.built = true

	clock := core.NewClock()
	clock.Start()
	trace, err := q.parent.tracer.TraceField(q.parent.geom, r.field, r.nSym, q.parent.display.RibbonMaxLines)
	clock.Stop()
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %v", core.ErrTraceFailed, q.name, err)
		core.LogError("%s", r.err)
		return
	}

	r.artist = ribbon.NewArtist(q.name, trace, q.parent.factory, q.parent.colors.NextSubColor(q.name+" ribbon"))
	r.artist.Width = q.parent.display.RibbonWidth
	core.LogInfo("traced %d ribbon lines for %s in %.3fs", len(trace.Lines), q.name, clock.Elapsed())
}

// drawRibbon builds the ribbon on the first frame it is requested, even while
// the quantity is disabled, and draws it only when enabled.
func (q *vectorQuantity) drawRibbon(ctx *renderer.RenderContext) error {
	if !q.ribbonEnabled() {
		return nil
	}
	q.ensureRibbon()
	if !q.enabled || q.ribbon.artist == nil {
		return nil
	}
	return q.ribbon.artist.Draw(ctx)
}

func formatVector(v r3.Vec) string {
	return fmt.Sprintf("<%g, %g, %g>", v.X, v.Y, v.Z)
}
