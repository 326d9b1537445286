package surface

import (
	m "math"

	"github.com/spaghettifunk/fieldscope/engine/geometry"
	"github.com/spaghettifunk/fieldscope/engine/math"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// rank cutoff for the fallback solve, relative to the largest singular value
const singularTolerance = 1e-12

// symmetricDirections expands an n-RoSy value into its n representatives,
// starting at the principal root. Anything non-finite collapses to zero so a
// single bad face stays local.
func symmetricDirections(value math.Complex, nSym int) []math.Complex {
	dirs := value.Roots(nSym)
	for i, d := range dirs {
		if !d.IsFinite() {
			dirs[i] = 0
		}
	}
	return dirs
}

// faceFieldFromOneForm finds, per face, the tangent vector whose circulation
// along each side best matches the one-form in the least squares sense. oneForm
// is indexed by edge and oriented along each edge's canonical half-edge. Face
// bases and half-edge vectors must be required on geom.
func faceFieldFromOneForm(geom *geometry.Geometry, oneForm []float64) []math.Complex {
	field := make([]math.Complex, geom.Mesh.NFaces())
	for f := range field {
		field[f] = fitFaceVector(geom, oneForm, geometry.Face(f))
	}
	return field
}

func fitFaceVector(geom *geometry.Geometry, oneForm []float64, f geometry.Face) math.Complex {
	mesh := geom.Mesh
	basis := geom.FaceBasis(f)
	hes := mesh.FaceHalfedges(f)

	a := mat.NewDense(len(hes), 2, nil)
	rhs := mat.NewVecDense(len(hes), nil)
	for i, he := range hes {
		hv := geom.HalfedgeVector(he)
		a.Set(i, 0, r3.Dot(hv, basis[0]))
		a.Set(i, 1, r3.Dot(hv, basis[1]))
		rhs.SetVec(i, oneForm[mesh.HalfedgeEdge(he)]*mesh.OrientationSign(he))
	}

	x0, x1 := solveLeastSquares(a, rhs)
	return math.NewComplex(x0, x1)
}

// solveLeastSquares solves min |a·x - b| for a two column a. QR handles the
// well conditioned case; otherwise the minimum norm solution from the SVD is
// used. Never fails: a zero system gives a zero answer.
func solveLeastSquares(a *mat.Dense, b *mat.VecDense) (float64, float64) {
	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err == nil && finite(x.AtVec(0), x.AtVec(1)) {
		return x.AtVec(0), x.AtVec(1)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return 0, 0
	}
	rank := svd.Rank(singularTolerance)
	if rank == 0 {
		return 0, 0
	}
	var y mat.VecDense
	svd.SolveVecTo(&y, b, rank)
	if !finite(y.AtVec(0), y.AtVec(1)) {
		return 0, 0
	}
	return y.AtVec(0), y.AtVec(1)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if m.IsNaN(v) || m.IsInf(v, 0) {
			return false
		}
	}
	return true
}
