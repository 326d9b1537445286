package engine

import (
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/spaghettifunk/fieldscope/engine/ui"
)

// Platform owns the window and its GL context.
type Platform interface {
	Startup(applicationName string, x, y, width, height uint32) error
	SetInputHandler(h core.InputHandler)
	// PumpMessages returns false once the window wants to close.
	PumpMessages() bool
	SwapBuffers()
	FramebufferSize() (uint32, uint32)
	Shutdown() error
}

// Backend creates programs and prepares the framebuffer each frame.
type Backend interface {
	renderer.ProgramFactory
	BeginFrame(width, height int)
}

// NewBackend is called once the platform context is current.
type NewBackend func() (Backend, error)

// Panel is a GUI that is drawn as a whole frame at a time.
type Panel interface {
	ui.GUI
	Begin()
	End() (string, error)
}
