package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext carries the view state for one frame. It is produced by the
// viewer once per frame and is read-only for everything that draws.
type RenderContext struct {
	View        mgl32.Mat4
	Projection  mgl32.Mat4
	Eye         mgl32.Vec3
	LightCenter mgl32.Vec3
	// LengthScale is the characteristic size of the scene; glyph and ribbon
	// sizes are expressed as multiples of it.
	LengthScale float32
	FrameNumber uint64
}

// ApplyCamera sets the camera and lighting uniforms shared by every program.
func (ctx *RenderContext) ApplyCamera(p Program) error {
	uniforms := []struct {
		name  string
		value interface{}
	}{
		{"u_viewMatrix", ctx.View},
		{"u_projMatrix", ctx.Projection},
		{"u_eye", ctx.Eye},
		{"u_lightCenter", ctx.LightCenter},
		{"u_lightDist", 5 * ctx.LengthScale},
	}
	for _, u := range uniforms {
		if err := p.SetUniform(u.name, u.value); err != nil {
			return err
		}
	}
	return nil
}
