package math

import (
	"fmt"
	m "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// AffineRemapper maps vectors through (v - Offset) * Scale for display. The bounds
// record the smallest and largest magnitude of the data it was built from; they are
// reported in the UI and never feed back into the mapping itself.
type AffineRemapper struct {
	Offset r3.Vec
	Scale  float64
	MinVal float64
	MaxVal float64
}

// NewIdentityRemapper returns a remapper that leaves vectors untouched.
func NewIdentityRemapper() AffineRemapper {
	return AffineRemapper{Scale: 1}
}

// NewMagnitudeRemapper scales data so that the longest vector maps to unit length.
// Directions are preserved. An all-zero data set keeps the identity scale.
func NewMagnitudeRemapper(data []r3.Vec) AffineRemapper {
	r := NewIdentityRemapper()
	r.SetMinMax(data)
	if r.MaxVal > 0 && !m.IsInf(r.MaxVal, 0) {
		r.Scale = 1.0 / r.MaxVal
	}
	return r
}

// SetMinMax records magnitude bounds without altering the mapping.
func (r *AffineRemapper) SetMinMax(data []r3.Vec) {
	r.MinVal, r.MaxVal = MagnitudeBounds(data)
}

func (r AffineRemapper) Map(v r3.Vec) r3.Vec {
	return r3.Scale(r.Scale, r3.Sub(v, r.Offset))
}

func (r AffineRemapper) PrintBounds() string {
	return fmt.Sprintf("[%g, %g]", r.MinVal, r.MaxVal)
}

// MagnitudeBounds returns the smallest and largest vector norm in data. Non-finite
// vectors are skipped. Empty data yields (0, 0).
func MagnitudeBounds(data []r3.Vec) (float64, float64) {
	lo, hi := m.Inf(1), m.Inf(-1)
	for _, v := range data {
		n := r3.Norm(v)
		if m.IsNaN(n) || m.IsInf(n, 0) {
			continue
		}
		lo = m.Min(lo, n)
		hi = m.Max(hi, n)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
