package math

import (
	"fmt"
	m "math"
	"math/cmplx"
)

// Complex is a tangent-plane vector expressed in a face basis: the real part is
// the coordinate along the first basis vector, the imaginary part along the second.
type Complex complex128

func NewComplex(re, im float64) Complex {
	return Complex(complex(re, im))
}

// Polar builds r·e^{iθ}.
func Polar(r, theta float64) Complex {
	return Complex(cmplx.Rect(r, theta))
}

// Rotation is the unit complex number e^{iθ}.
func Rotation(theta float64) Complex {
	return Polar(1, theta)
}

func (c Complex) Real() float64 {
	return real(c)
}

func (c Complex) Imag() float64 {
	return imag(c)
}

// Abs is the magnitude of c.
func (c Complex) Abs() float64 {
	return cmplx.Abs(complex128(c))
}

// Arg is the principal argument of c in (-π, π]. Arg of zero is zero.
func (c Complex) Arg() float64 {
	return cmplx.Phase(complex128(c))
}

func (c Complex) Mul(o Complex) Complex {
	return c * o
}

func (c Complex) Add(o Complex) Complex {
	return c + o
}

func (c Complex) Scale(s float64) Complex {
	return Complex(complex(real(c)*s, imag(c)*s))
}

func (c Complex) Conj() Complex {
	return Complex(cmplx.Conj(complex128(c)))
}

// Rotate turns c counter-clockwise by theta radians.
func (c Complex) Rotate(theta float64) Complex {
	return c * Rotation(theta)
}

// Pow raises c to a real power using the principal branch: |c|^p · e^{i·p·Arg(c)}.
// Zero stays zero for any p > 0, and a non-finite input maps to zero so it cannot
// spread NaN into later arithmetic.
func (c Complex) Pow(p float64) Complex {
	if !c.IsFinite() {
		return 0
	}
	r := c.Abs()
	if r == 0 {
		if p > 0 {
			return 0
		}
		return 1
	}
	return Polar(m.Pow(r, p), p*c.Arg())
}

// Roots returns the n nth roots of c, starting at the principal root and
// proceeding counter-clockwise in steps of 2π/n.
func (c Complex) Roots(n int) []Complex {
	if n < 1 {
		return nil
	}
	roots := make([]Complex, n)
	rot := Rotation(K_PI_2 / float64(n))
	angle := c.Pow(1.0 / float64(n))
	for i := 0; i < n; i++ {
		roots[i] = angle
		angle *= rot
	}
	return roots
}

func (c Complex) IsFinite() bool {
	return !cmplx.IsNaN(complex128(c)) && !cmplx.IsInf(complex128(c))
}

func (c Complex) String() string {
	return fmt.Sprintf("%g%+gi", real(c), imag(c))
}
