package renderer

import (
	"hash/fnv"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	RGBTeal      = mgl32.Vec3{0., 178. / 255., 178. / 255.}
	RGBBlue      = mgl32.Vec3{150. / 255., 154. / 255., 255. / 255.}
	RGBSkyBlue   = mgl32.Vec3{152. / 255., 158. / 255., 200. / 255.}
	RGBOrange    = mgl32.Vec3{1., 0.5, 0.}
	RGBBlack     = mgl32.Vec3{0., 0., 0.}
	RGBWhite     = mgl32.Vec3{1., 1., 1.}
	RGBRed       = mgl32.Vec3{0.8, 0., 0.}
	RGBDarkGray  = mgl32.Vec3{.2, .2, .2}
	RGBLightGray = mgl32.Vec3{.8, .8, .8}
	RGBDarkRed   = mgl32.Vec3{.2, .0, .0}
)

// SubColorManager hands out colors related to a base color, one per name. Each
// new name moves the hue by the golden angle so neighbours stay distinguishable;
// asking for a name twice returns the same color.
type SubColorManager struct {
	base     colorful.Color
	assigned map[string]mgl32.Vec3
	count    int
}

func NewSubColorManager(base mgl32.Vec3) *SubColorManager {
	return &SubColorManager{
		base:     colorful.Color{R: float64(base[0]), G: float64(base[1]), B: float64(base[2])},
		assigned: make(map[string]mgl32.Vec3),
	}
}

func (cm *SubColorManager) NextSubColor(name string) mgl32.Vec3 {
	if c, ok := cm.assigned[name]; ok {
		return c
	}

	h, c, l := cm.base.Hcl()
	// name hash jitters chroma a little so equal slots across managers differ
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(name))
	jitter := float64(hasher.Sum32()%100)/1000.0 - 0.05

	cm.count++
	hue := h + 137.508*float64(cm.count)
	for hue >= 360 {
		hue -= 360
	}
	chroma := c + 0.25 + jitter
	if chroma < 0.2 {
		chroma = 0.2
	}
	out := colorful.Hcl(hue, chroma, l).Clamped()

	color := mgl32.Vec3{float32(out.R), float32(out.G), float32(out.B)}
	cm.assigned[name] = color
	return color
}
