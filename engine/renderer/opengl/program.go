package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
)

type program struct {
	name    string
	handle  uint32
	vao     uint32
	mode    uint32
	buffers map[string]uint32
	lengths map[string]int
}

func (p *program) SetUniform(name string, value interface{}) error {
	gl.UseProgram(p.handle)
	// -1 means the compiler removed the uniform; GL ignores writes to it
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))

	switch v := value.(type) {
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	default:
		return fmt.Errorf("program %s: unsupported type %T for uniform %s", p.name, value, name)
	}
	return nil
}

func (p *program) SetAttribute(name string, data []mgl32.Vec3) error {
	loc := gl.GetAttribLocation(p.handle, gl.Str(name+"\x00"))
	if loc < 0 {
		return fmt.Errorf("program %s has no attribute %s", p.name, name)
	}

	gl.BindVertexArray(p.vao)
	defer gl.BindVertexArray(0)

	buffer, ok := p.buffers[name]
	if !ok {
		gl.GenBuffers(1, &buffer)
		p.buffers[name] = buffer
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*3*4, gl.Ptr(&data[0]), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), 3, gl.FLOAT, false, 0, 0)

	p.lengths[name] = len(data)
	return nil
}

func (p *program) count() (int, error) {
	n := -1
	for name, l := range p.lengths {
		if n >= 0 && l != n {
			return 0, fmt.Errorf("program %s: attribute %s has %d elements, expected %d", p.name, name, l, n)
		}
		n = l
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func (p *program) Draw() error {
	n, err := p.count()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	gl.UseProgram(p.handle)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(p.mode, 0, int32(n))
	gl.BindVertexArray(0)
	return nil
}

func (p *program) Destroy() {
	for _, b := range p.buffers {
		buffer := b
		gl.DeleteBuffers(1, &buffer)
	}
	p.buffers = map[string]uint32{}
	p.lengths = map[string]int{}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}

func linkProgram(spec *renderer.ProgramSpec) (uint32, error) {
	stages := []struct {
		source string
		kind   uint32
	}{
		{spec.VertexSource, gl.VERTEX_SHADER},
		{spec.GeometrySource, gl.GEOMETRY_SHADER},
		{spec.FragmentSource, gl.FRAGMENT_SHADER},
	}

	handle := gl.CreateProgram()
	shaders := []uint32{}
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, stage := range stages {
		if stage.source == "" {
			continue
		}
		s, err := compileShader(stage.source, stage.kind)
		if err != nil {
			gl.DeleteProgram(handle)
			return 0, err
		}
		gl.AttachShader(handle, s)
		shaders = append(shaders, s)
	}
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(handle)
		return 0, fmt.Errorf("failed to link program: %s", trimInfoLog(infoLog))
	}
	return handle, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %s", stageName(kind), trimInfoLog(infoLog))
	}
	return shader, nil
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return "unknown"
}

func trimInfoLog(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
