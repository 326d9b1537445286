package engine

import (
	"github.com/spaghettifunk/fieldscope/engine/config"
	"github.com/spaghettifunk/fieldscope/engine/ui"
)

type Game struct {
	Config       *config.Config
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
}

// Initialize registers the surfaces and quantities of the scene.
type Initialize func(e *Engine) error
type Update func(deltaTime float64) error

// Render adds the game's own widgets to the panel. It is only called on
// frames the panel is drawn.
type Render func(gui ui.GUI, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
