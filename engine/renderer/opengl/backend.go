// Package opengl implements renderer programs on an OpenGL 4.1 core context.
// Every call must happen on the thread that owns the context.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
)

type Backend struct {
	ClearColor mgl32.Vec3
	programs   int
}

// New loads the GL function pointers. A context must be current.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("OpenGL version %s, GLSL %s",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Backend{ClearColor: mgl32.Vec3{1, 1, 1}}, nil
}

func (b *Backend) BeginFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(b.ClearColor[0], b.ClearColor[1], b.ClearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// NewProgram compiles and links the stages of spec. Failures are wrapped in
// core.ErrProgramUnavailable so callers can retry on a later frame.
func (b *Backend) NewProgram(spec *renderer.ProgramSpec) (renderer.Program, error) {
	mode, err := glMode(spec.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrProgramUnavailable, spec.Name, err)
	}

	handle, err := linkProgram(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrProgramUnavailable, spec.Name, err)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)

	b.programs++
	core.LogDebug("created program %s (%s)", spec.Name, spec.Mode)

	return &program{
		name:    spec.Name,
		handle:  handle,
		vao:     vao,
		mode:    mode,
		buffers: make(map[string]uint32),
		lengths: make(map[string]int),
	}, nil
}

func glMode(mode renderer.DrawMode) (uint32, error) {
	switch mode {
	case renderer.DrawModePoints:
		return gl.POINTS, nil
	case renderer.DrawModeLines:
		return gl.LINES, nil
	case renderer.DrawModeTriangles:
		return gl.TRIANGLES, nil
	}
	return 0, fmt.Errorf("unsupported draw mode %d", mode)
}
