package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

const (
	K_PI   float64 = m.Pi
	K_PI_2 float64 = 2.0 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float64 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float64 = 180.0 / K_PI
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func DegToRad[T constraints.Float](degrees T) T {
	return degrees * T(K_DEG2RAD_MULTIPLIER)
}

func RadToDeg[T constraints.Float](radians T) T {
	return radians * T(K_RAD2DEG_MULTIPLIER)
}

// WrapAngle maps an angle in radians to [0, 2π).
func WrapAngle(radians float64) float64 {
	a := m.Mod(radians, K_PI_2)
	if a < 0 {
		a += K_PI_2
	}
	return a
}
