package geometry

import (
	m "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid triangulates an nx × ny cell rectangle in the z=0 plane. Each cell is split
// along its diagonal into two counter-clockwise triangles.
func Grid(nx, ny int, width, height float64) ([]r3.Vec, [][]int) {
	positions := make([]r3.Vec, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			positions = append(positions, r3.Vec{
				X: width * float64(i) / float64(nx),
				Y: height * float64(j) / float64(ny),
			})
		}
	}
	idx := func(i, j int) int { return j*(nx+1) + i }
	faces := make([][]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			faces = append(faces,
				[]int{idx(i, j), idx(i+1, j), idx(i+1, j+1)},
				[]int{idx(i, j), idx(i+1, j+1), idx(i, j+1)},
			)
		}
	}
	return positions, faces
}

// Torus builds a closed triangulated torus around the z axis.
func Torus(nMajor, nMinor int, majorRadius, minorRadius float64) ([]r3.Vec, [][]int) {
	positions := make([]r3.Vec, 0, nMajor*nMinor)
	for i := 0; i < nMajor; i++ {
		u := 2 * m.Pi * float64(i) / float64(nMajor)
		for j := 0; j < nMinor; j++ {
			v := 2 * m.Pi * float64(j) / float64(nMinor)
			ring := majorRadius + minorRadius*m.Cos(v)
			positions = append(positions, r3.Vec{
				X: ring * m.Cos(u),
				Y: ring * m.Sin(u),
				Z: minorRadius * m.Sin(v),
			})
		}
	}
	idx := func(i, j int) int { return (i%nMajor)*nMinor + j%nMinor }
	faces := make([][]int, 0, 2*nMajor*nMinor)
	for i := 0; i < nMajor; i++ {
		for j := 0; j < nMinor; j++ {
			faces = append(faces,
				[]int{idx(i, j), idx(i+1, j), idx(i+1, j+1)},
				[]int{idx(i, j), idx(i+1, j+1), idx(i, j+1)},
			)
		}
	}
	return positions, faces
}
