package components

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
)

/**
 * @brief An orbit camera looking at a target point. Yaw and pitch are in
 * radians; the eye sits Distance away from Target along the direction they
 * describe.
 */
type Camera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	/** @brief Vertical field of view, in radians. */
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	isDirty    bool
	viewMatrix mgl32.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// 89 degrees; keeps the up vector well defined.
const pitchLimit float32 = 1.55334306

const minDistance float32 = 1e-4

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Target = mgl32.Vec3{}
	c.Distance = 3
	c.Yaw = 0
	c.Pitch = 0
	c.FovY = mgl32.DegToRad(45)
	c.Aspect = 16.0 / 9.0
	c.Near = 0.01
	c.Far = 100
	c.isDirty = true
}

func (c *Camera) Position() mgl32.Vec3 {
	cp := float32(m.Cos(float64(c.Pitch)))
	dir := mgl32.Vec3{
		cp * float32(m.Sin(float64(c.Yaw))),
		float32(m.Sin(float64(c.Pitch))),
		cp * float32(m.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.isDirty {
		c.viewMatrix = mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
		c.isDirty = false
	}
	return c.viewMatrix
}

func (c *Camera) GetProjection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Orbit rotates the eye around the target.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = math.Clamp(c.Pitch+dPitch, -pitchLimit, pitchLimit)
	c.isDirty = true
}

// Zoom scales the eye distance; factors below one move closer.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = math.Clamp(c.Distance*factor, minDistance, c.Far*0.5)
	c.isDirty = true
}

func (c *Camera) SetViewport(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// FitTo frames a scene of the given center and characteristic length.
func (c *Camera) FitTo(center mgl32.Vec3, lengthScale float32) {
	if lengthScale <= 0 {
		lengthScale = 1
	}
	c.Target = center
	c.Distance = 1.5 * lengthScale
	c.Near = 0.005 * lengthScale
	c.Far = 20 * lengthScale
	c.isDirty = true
}

// RenderContext snapshots the camera for one frame.
func (c *Camera) RenderContext(lightCenter mgl32.Vec3, lengthScale float32, frame uint64) *renderer.RenderContext {
	return &renderer.RenderContext{
		View:        c.GetView(),
		Projection:  c.GetProjection(),
		Eye:         c.Position(),
		LightCenter: lightCenter,
		LengthScale: lengthScale,
		FrameNumber: frame,
	}
}
