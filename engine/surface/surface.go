// Package surface hosts vector quantities on a surface mesh: per-vertex and
// per-face vectors, n-fold symmetric intrinsic fields and one-forms. Each
// quantity draws as arrow glyphs and, for tangent fields, as streamline
// ribbons traced on demand.
package surface

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/tracer"
	"github.com/spaghettifunk/fieldscope/engine/ui"
	"gonum.org/v1/gonum/spatial/r3"
)

type Surface struct {
	Name string

	geom     *geometry.Geometry
	transfer *geometry.Transfer

	factory renderer.ProgramFactory
	tracer  Tracer
	display config.DisplayConfig
	colors  *renderer.SubColorManager

	quantities []Quantity
	byName     map[string]Quantity
}

type option struct {
	tracer    Tracer
	display   *config.DisplayConfig
	baseColor *mgl32.Vec3
}

type Option func(*option)

// WithTracer replaces the streamline tracer used for ribbons.
func WithTracer(t Tracer) Option {
	return func(o *option) {
		o.tracer = t
	}
}

func WithDisplay(d config.DisplayConfig) Option {
	return func(o *option) {
		o.display = &d
	}
}

// WithBaseColor sets the color quantity colors are derived from.
func WithBaseColor(c mgl32.Vec3) Option {
	return func(o *option) {
		o.baseColor = &c
	}
}

// New builds the mesh from positions and faces given in the caller's labels.
// Vertices no face references are dropped; data added later is still indexed
// by the caller's labels.
func New(name string, positions []r3.Vec, faces [][]int, factory renderer.ProgramFactory, options ...Option) (*Surface, error) {
	opts := &option{}
	for _, o := range options {
		o(opts)
	}

	geom, transfer, err := geometry.Build(positions, faces)
	if err != nil {
		return nil, fmt.Errorf("surface %s: %w", name, err)
	}

	s := &Surface{
		Name:     name,
		geom:     geom,
		transfer: transfer,
		factory:  factory,
		display:  config.DefaultDisplay(),
		byName:   make(map[string]Quantity),
	}
	if opts.display != nil {
		s.display = *opts.display
	}
	s.tracer = opts.tracer
	if s.tracer == nil {
		s.tracer = tracer.New(s.display.RibbonMaxSteps)
	}
	base := renderer.RGBSkyBlue
	if opts.baseColor != nil {
		base = *opts.baseColor
	}
	s.colors = renderer.NewSubColorManager(base)

	core.LogDebug("surface %s: %d vertices, %d faces, %d edges", name,
		geom.Mesh.NVertices(), geom.Mesh.NFaces(), geom.Mesh.NEdges())
	return s, nil
}

func (s *Surface) Geometry() *geometry.Geometry { return s.geom }
func (s *Surface) Transfer() *geometry.Transfer { return s.transfer }

func (s *Surface) LengthScale() float64 { return s.geom.LengthScale() }
func (s *Surface) Center() r3.Vec       { return s.geom.Center() }

func (s *Surface) Display() config.DisplayConfig { return s.display }

// stepLimiter is implemented by tracers whose per-line step budget can change
// after construction.
type stepLimiter interface {
	SetMaxStepsPerLine(n int)
}

// SetDisplay changes the defaults for quantities added from now on and the
// budget of ribbons not yet traced. Existing display settings are kept. The
// step budget reaches only tracers that implement SetMaxStepsPerLine.
func (s *Surface) SetDisplay(d config.DisplayConfig) {
	s.display = d
	if sl, ok := s.tracer.(stepLimiter); ok {
		sl.SetMaxStepsPerLine(d.RibbonMaxSteps)
	}
}

func (s *Surface) checkName(name string) error {
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("surface %s: %q: %w", s.Name, name, core.ErrDuplicateQuantity)
	}
	return nil
}

func (s *Surface) register(q Quantity) {
	s.quantities = append(s.quantities, q)
	s.byName[q.Name()] = q
	core.LogDebug("surface %s: added quantity %s (%s)", s.Name, q.Name(), q.ID())
}

// AddVertexVectorQuantity adds one vector per vertex label.
func (s *Surface) AddVertexVectorQuantity(name string, vectors []r3.Vec, vectorType VectorType) (*VertexVectorQuantity, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	q, err := newVertexVectorQuantity(name, s, vectors, vectorType)
	if err != nil {
		return nil, err
	}
	s.register(q)
	return q, nil
}

// AddFaceVectorQuantity adds one vector per face.
func (s *Surface) AddFaceVectorQuantity(name string, vectors []r3.Vec, vectorType VectorType) (*FaceVectorQuantity, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	q, err := newFaceVectorQuantity(name, s, vectors, vectorType)
	if err != nil {
		return nil, err
	}
	s.register(q)
	return q, nil
}

// AddFaceIntrinsicVectorQuantity adds an nSym-fold symmetric field given as
// one complex value per face in the face basis. For nSym > 1 the value is
// the n-th power of any of the represented directions.
func (s *Surface) AddFaceIntrinsicVectorQuantity(name string, values []math.Complex, nSym int, vectorType VectorType) (*FaceIntrinsicVectorQuantity, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	q, err := newFaceIntrinsicVectorQuantity(name, s, values, nSym, vectorType)
	if err != nil {
		return nil, err
	}
	s.register(q)
	return q, nil
}

// AddOneFormIntrinsicVectorQuantity adds a one-form given per oriented edge.
// Edges missing from values carry zero.
func (s *Surface) AddOneFormIntrinsicVectorQuantity(name string, values map[geometry.EdgeKey]float64, vectorType VectorType) (*OneFormIntrinsicVectorQuantity, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	q, err := newOneFormIntrinsicVectorQuantity(name, s, values, vectorType)
	if err != nil {
		return nil, err
	}
	s.register(q)
	return q, nil
}

func (s *Surface) Quantity(name string) (Quantity, bool) {
	q, ok := s.byName[name]
	return q, ok
}

// Quantities returns the quantities in the order they were added.
func (s *Surface) Quantities() []Quantity {
	return append([]Quantity(nil), s.quantities...)
}

// RemoveQuantity destroys the named quantity. It reports whether it existed.
func (s *Surface) RemoveQuantity(name string) bool {
	q, ok := s.byName[name]
	if !ok {
		return false
	}
	q.Destroy()
	delete(s.byName, name)
	for i, other := range s.quantities {
		if other == q {
			s.quantities = append(s.quantities[:i], s.quantities[i+1:]...)
			break
		}
	}
	return true
}

// Draw draws every quantity. A quantity that fails is skipped for this frame;
// the others still draw.
func (s *Surface) Draw(ctx *renderer.RenderContext) error {
	var errs []error
	for _, q := range s.quantities {
		if err := q.Draw(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", q.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Surface) DrawUI(gui ui.GUI) {
	if gui.TreeNode(s.Name) {
		for _, q := range s.quantities {
			q.DrawUI(gui)
		}
		gui.TreePop()
	}
}

// BuildInfoGUI lays out every quantity defined on ref as a two column table.
func (s *Surface) BuildInfoGUI(gui ui.GUI, ref ElementRef) int {
	shown := 0
	gui.Columns(2)
	for _, q := range s.quantities {
		if q.BuildInfoGUI(gui, ref) {
			shown++
		}
	}
	gui.Columns(1)
	return shown
}

func (s *Surface) Destroy() {
	for _, q := range s.quantities {
		q.Destroy()
	}
	s.quantities = nil
	s.byName = make(map[string]Quantity)
}
