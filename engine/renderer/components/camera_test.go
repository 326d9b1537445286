package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraLooksAtTarget(t *testing.T) {
	c := NewCamera()
	c.FitTo(mgl32.Vec3{1, 2, 3}, 2)
	c.Orbit(0.7, 0.3)

	view := c.GetView()
	target := view.Mul4x1(c.Target.Vec4(1))
	// in eye space the target is straight ahead on -z
	assert.InDelta(t, 0, target.X(), 1e-4)
	assert.InDelta(t, 0, target.Y(), 1e-4)
	assert.InDelta(t, -3, target.Z(), 1e-4)

	assert.InDelta(t, 3, c.Position().Sub(c.Target).Len(), 1e-5)
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewCamera()
	c.Orbit(0, 10)
	assert.Equal(t, pitchLimit, c.Pitch)
	c.Orbit(0, -20)
	assert.Equal(t, -pitchLimit, c.Pitch)
}

func TestCameraZoom(t *testing.T) {
	c := NewCamera()
	c.Zoom(0.5)
	assert.InDelta(t, 1.5, c.Distance, 1e-6)
	c.Zoom(-1)
	assert.InDelta(t, 1.5, c.Distance, 1e-6)
	c.Zoom(1e-9)
	assert.Equal(t, minDistance, c.Distance)
}

func TestCameraRenderContext(t *testing.T) {
	c := NewCamera()
	c.SetViewport(800, 400)
	assert.InDelta(t, 2, c.Aspect, 1e-6)
	c.SetViewport(0, 400)
	assert.InDelta(t, 2, c.Aspect, 1e-6)

	ctx := c.RenderContext(mgl32.Vec3{0, 1, 0}, 4, 7)
	assert.Equal(t, c.GetView(), ctx.View)
	assert.Equal(t, c.Position(), ctx.Eye)
	assert.Equal(t, float32(4), ctx.LengthScale)
	assert.Equal(t, uint64(7), ctx.FrameNumber)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ctx.LightCenter)
}
