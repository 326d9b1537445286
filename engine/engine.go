// Package engine runs the viewer: it owns the window, the camera and the
// surfaces, and draws one frame per loop iteration.
package engine

import (
	"errors"
	"fmt"
	m "math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/renderer/components"
	"github.com/spaghettifunk/fieldscope/engine/surface"
	"gonum.org/v1/gonum/spatial/r3"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const (
	// radians per dragged pixel
	orbitSpeed = 0.005
	// distance factor per scroll step
	zoomStep = 0.9
)

type selection struct {
	surface *surface.Surface
	ref     surface.ElementRef
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool

	platform   Platform
	newBackend NewBackend
	backend    Backend

	camera    *components.Camera
	surfaces  []*surface.Surface
	selection *selection

	panel         Panel
	panelEvery    uint64
	configUpdates <-chan *config.Config

	width       uint32
	height      uint32
	clock       *core.Clock
	metrics     *core.Metrics
	lastTime    float64
	frameNumber uint64
}

type option struct {
	panel      Panel
	panelEvery uint64
	updates    <-chan *config.Config
}

type Option func(*option)

// WithPanel draws the control panel every n-th frame.
func WithPanel(p Panel, every uint64) Option {
	return func(o *option) {
		o.panel = p
		o.panelEvery = every
	}
}

// WithConfigUpdates applies configs received on ch at the start of a frame.
func WithConfigUpdates(ch <-chan *config.Config) Option {
	return func(o *option) {
		o.updates = ch
	}
}

func New(g *Game, p Platform, newBackend NewBackend, options ...Option) (*Engine, error) {
	opts := &option{}
	for _, o := range options {
		o(opts)
	}

	if g.Config == nil {
		g.Config = config.Default()
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.panelEvery == 0 {
		opts.panelEvery = 1
	}

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		platform:      p,
		newBackend:    newBackend,
		camera:        components.NewCamera(),
		panel:         opts.panel,
		panelEvery:    opts.panelEvery,
		configUpdates: opts.updates,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		width:         g.Config.Application.StartWidth,
		height:        g.Config.Application.StartHeight,
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	app := e.gameInstance.Config.Application

	if err := e.applyLogLevel(e.gameInstance.Config.Log.Level); err != nil {
		return err
	}

	if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		return err
	}
	e.platform.SetInputHandler(e)

	backend, err := e.newBackend()
	if err != nil {
		return err
	}
	e.backend = backend

	if w, h := e.platform.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}
	e.camera.SetViewport(e.width, e.height)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	e.fitCamera()

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with %d surfaces", len(e.surfaces))
	return nil
}

// AddSurface creates a surface drawn by this engine. The current display
// config seeds the defaults of its quantities.
func (e *Engine) AddSurface(name string, positions []r3.Vec, faces [][]int, options ...surface.Option) (*surface.Surface, error) {
	if e.backend == nil {
		return nil, errors.New("engine is not initialized")
	}
	for _, s := range e.surfaces {
		if s.Name == name {
			return nil, fmt.Errorf("surface %q already exists", name)
		}
	}
	opts := append([]surface.Option{surface.WithDisplay(e.gameInstance.Config.Display)}, options...)
	s, err := surface.New(name, positions, faces, e.backend, opts...)
	if err != nil {
		return nil, err
	}
	e.surfaces = append(e.surfaces, s)
	return s, nil
}

func (e *Engine) Surfaces() []*surface.Surface {
	return e.surfaces
}

func (e *Engine) Camera() *components.Camera {
	return e.camera
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Select shows the values of every quantity of s at ref in the panel. A nil
// surface clears the selection.
func (e *Engine) Select(s *surface.Surface, ref surface.ElementRef) {
	if s == nil {
		e.selection = nil
		return
	}
	e.selection = &selection{surface: s, ref: ref}
}

// sceneBounds returns the light center and length scale of all surfaces.
func (e *Engine) sceneBounds() (mgl32.Vec3, float32) {
	if len(e.surfaces) == 0 {
		return mgl32.Vec3{}, 1
	}
	var center r3.Vec
	lengthScale := 0.0
	for _, s := range e.surfaces {
		center = r3.Add(center, s.Center())
		lengthScale = m.Max(lengthScale, s.LengthScale())
	}
	center = r3.Scale(1/float64(len(e.surfaces)), center)
	if lengthScale <= 0 {
		lengthScale = 1
	}
	return renderer.Vec3(center), float32(lengthScale)
}

func (e *Engine) fitCamera() {
	center, lengthScale := e.sceneBounds()
	e.camera.FitTo(center, lengthScale)
}

// Frame draws one frame. Draw failures of single quantities are logged and
// retried on the next frame; only update and panel failures are returned.
func (e *Engine) Frame(deltaTime float64) error {
	e.applyConfigUpdates()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(deltaTime); err != nil {
			return err
		}
	}

	e.backend.BeginFrame(int(e.width), int(e.height))
	center, lengthScale := e.sceneBounds()
	ctx := e.camera.RenderContext(center, lengthScale, e.frameNumber)
	for _, s := range e.surfaces {
		if err := s.Draw(ctx); err != nil {
			core.LogError("frame %d: %s", e.frameNumber, err)
		}
	}

	if e.panel != nil && e.frameNumber%e.panelEvery == 0 {
		if err := e.drawPanel(deltaTime); err != nil {
			return err
		}
	}

	e.frameNumber++
	return nil
}

func (e *Engine) drawPanel(deltaTime float64) error {
	p := e.panel
	p.Begin()

	fps, frameMS := e.metrics.Frame()
	p.Text("%.0f fps, %.2f ms", fps, frameMS)

	for _, s := range e.surfaces {
		s.DrawUI(p)
	}

	if sel := e.selection; sel != nil {
		label := fmt.Sprintf("%s %s %d", sel.surface.Name, sel.ref.Element, sel.ref.Index)
		if p.TreeNode(label) {
			if sel.surface.BuildInfoGUI(p, sel.ref) == 0 {
				p.TextUnformatted("no quantities")
			}
			p.TreePop()
		}
	}

	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(p, deltaTime); err != nil {
			return err
		}
	}

	_, err := p.End()
	return err
}

func (e *Engine) applyConfigUpdates() {
	for {
		select {
		case cfg, ok := <-e.configUpdates:
			if !ok {
				e.configUpdates = nil
				return
			}
			e.applyConfig(cfg)
		default:
			return
		}
	}
}

// applyConfig takes the display and log settings of cfg. Window settings
// only apply on the next start.
func (e *Engine) applyConfig(cfg *config.Config) {
	if err := e.applyLogLevel(cfg.Log.Level); err != nil {
		core.LogWarn("ignoring log level: %s", err)
	} else {
		e.gameInstance.Config.Log = cfg.Log
	}
	e.gameInstance.Config.Display = cfg.Display
	for _, s := range e.surfaces {
		s.SetDisplay(cfg.Display)
	}
	core.LogInfo("config reloaded")
}

func (e *Engine) applyLogLevel(level string) error {
	l, err := core.ParseLogLevel(level)
	if err != nil {
		return fmt.Errorf("%w: log level: %v", core.ErrInvalidConfig, err)
	}
	core.SetLogLevel(l)
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.Frame(delta); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}
		e.platform.SwapBuffers()

		e.clock.Update()
		e.metrics.Update(e.clock.Elapsed() - currentTime)

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// Stop ends Run after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	for _, s := range e.surfaces {
		s.Destroy()
	}
	e.surfaces = nil
	e.selection = nil
	return e.platform.Shutdown()
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) OnDrag(button core.Button, dx, dy float64) {
	switch button {
	case core.BUTTON_LEFT:
		e.camera.Orbit(float32(-dx*orbitSpeed), float32(dy*orbitSpeed))
	case core.BUTTON_RIGHT:
		e.camera.Zoom(float32(m.Pow(zoomStep, -dy*0.1)))
	}
}

func (e *Engine) OnScroll(dy float64) {
	e.camera.Zoom(float32(m.Pow(zoomStep, dy)))
}

// OnKey handles the viewer shortcuts: 1-9 toggle the n-th quantity, B toggles
// ribbons of every enabled quantity that has them, F frames the scene and R
// resets the camera.
func (e *Engine) OnKey(key core.KeyCode) {
	switch {
	case key >= core.KEY_1 && key <= core.KEY_9:
		qs := e.quantities()
		i := int(key - core.KEY_1)
		if i < len(qs) {
			qs[i].SetEnabled(!qs[i].Enabled())
			core.LogDebug("%s enabled: %t", qs[i].Name(), qs[i].Enabled())
		}
	case key == core.KEY_B:
		for _, q := range e.quantities() {
			if r, ok := q.(interface{ Ribbon() *surface.RibbonState }); ok && q.Enabled() {
				r.Ribbon().SetEnabled(!r.Ribbon().Enabled())
			}
		}
	case key == core.KEY_F:
		e.fitCamera()
	case key == core.KEY_R:
		e.camera.Reset()
		e.camera.SetViewport(e.width, e.height)
		e.fitCamera()
	}
}

func (e *Engine) OnResize(width, height uint32) {
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.camera.SetViewport(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
}

func (e *Engine) quantities() []surface.Quantity {
	var qs []surface.Quantity
	for _, s := range e.surfaces {
		qs = append(qs, s.Quantities()...)
	}
	return qs
}
