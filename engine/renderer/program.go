package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

/** @brief The primitive a program consumes from its attribute arrays. */
type DrawMode int

const (
	DrawModePoints DrawMode = iota
	DrawModeLines
	DrawModeTriangles
)

func (d DrawMode) String() string {
	switch d {
	case DrawModePoints:
		return "points"
	case DrawModeLines:
		return "lines"
	case DrawModeTriangles:
		return "triangles"
	}
	return "unknown"
}

/** @brief Sources and draw mode for a GPU program. GeometrySource may be empty. */
type ProgramSpec struct {
	Name           string
	VertexSource   string
	GeometrySource string
	FragmentSource string
	Mode           DrawMode
}

// Program is a compiled shader pipeline with its attribute buffers. Uniform
// values may be float32, int32, bool, mgl32.Vec3, mgl32.Vec4 or mgl32.Mat4.
type Program interface {
	SetUniform(name string, value interface{}) error
	// SetAttribute uploads one vec3 per element. All attributes of a program
	// must have the same length; that length is the element count drawn.
	SetAttribute(name string, data []mgl32.Vec3) error
	Draw() error
	Destroy()
}

// ProgramFactory allocates programs on the active GPU context.
type ProgramFactory interface {
	NewProgram(spec *ProgramSpec) (Program, error)
}

// Vec3 narrows a float64 vector to the GPU representation.
func Vec3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func Vec3Slice(vs []r3.Vec) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(vs))
	for i, v := range vs {
		out[i] = Vec3(v)
	}
	return out
}
