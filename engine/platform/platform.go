package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/fieldscope/engine/core"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window

	handler core.InputHandler

	dragging  [core.BUTTON_MAX_BUTTONS]bool
	lastX     float64
	lastY     float64
	hasCursor bool
}

func New() *Platform {
	return &Platform{
		Window: nil,
	}
}

// Startup opens the window with an OpenGL 4.1 core context and makes it
// current on the calling thread.
func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	startTime = glfw.GetTime()
	core.LogDebug("window %q opened at %dx%d", applicationName, width, height)

	return nil
}

func (p *Platform) SetInputHandler(h core.InputHandler) {
	p.handler = h
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// GetAbsoluteTime returns the seconds since the window was opened.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if p.handler == nil {
		return
	}
	// glfw uses ASCII codes for printable keys
	if key >= glfw.KeySpace && key <= glfw.KeyZ {
		p.handler.OnKey(core.KeyCode(key))
	}
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	p.dragging[b] = action == glfw.Press
	p.lastX, p.lastY = w.GetCursorPos()
	p.hasCursor = true
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if !p.hasCursor {
		p.lastX, p.lastY, p.hasCursor = xpos, ypos, true
		return
	}
	dx, dy := xpos-p.lastX, ypos-p.lastY
	p.lastX, p.lastY = xpos, ypos
	if p.handler == nil {
		return
	}
	for b, down := range p.dragging {
		if down {
			p.handler.OnDrag(core.Button(b), dx, dy)
		}
	}
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if p.handler != nil {
		p.handler.OnScroll(yoff)
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.handler != nil {
		p.handler.OnResize(uint32(width), uint32(height))
	}
}

func translateButton(button glfw.MouseButton) (core.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return core.BUTTON_LEFT, true
	case glfw.MouseButtonRight:
		return core.BUTTON_RIGHT, true
	case glfw.MouseButtonMiddle:
		return core.BUTTON_MIDDLE, true
	}
	return 0, false
}
