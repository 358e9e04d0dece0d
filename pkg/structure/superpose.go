package structure

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/qqdb/molstar/pkg/geometry"
)

var (
	// ErrPointMismatch reports coordinate sets of different lengths.
	ErrPointMismatch = errors.New("structure: coordinate sets differ in length")
	// ErrTooFewPoints reports a superposition attempted on fewer than three
	// point pairs, which leaves the rotation underdetermined.
	ErrTooFewPoints = errors.New("structure: superposition needs at least three point pairs")
)

// Superposition is the result of aligning a mobile point set onto a
// reference: the affine transform mapping mobile coordinates into the
// reference frame and the RMSD after alignment.
type Superposition struct {
	Transform geometry.Mat4
	RMSD      float64
}

// RMSD computes the root mean square deviation between two equally sized
// coordinate sets, paired by index.
func RMSD(a, b []geometry.Vec3) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrPointMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range a {
		d := a[i].Sub(b[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(a))), nil
}

// Superpose computes the least-squares rigid alignment of mobile onto ref
// (Kabsch). The returned transform is a proper rotation plus translation;
// reflections are rejected by flipping the axis of least variance.
func Superpose(ref, mobile []geometry.Vec3) (Superposition, error) {
	if len(ref) != len(mobile) {
		return Superposition{}, ErrPointMismatch
	}
	if len(ref) < 3 {
		return Superposition{}, ErrTooFewPoints
	}

	cRef := geometry.Centroid(ref)
	cMob := geometry.Centroid(mobile)

	// Covariance of the centered pairs: H = sum of p*q^T with p mobile,
	// q reference.
	h := mat.NewDense(3, 3, nil)
	for i := range ref {
		p := mobile[i].Sub(cMob)
		q := ref[i].Sub(cRef)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+p[r]*q[c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDThin) {
		return Superposition{}, errors.New("structure: svd did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&v, u.T())
	if mat.Det(&r) < 0 {
		for row := 0; row < 3; row++ {
			v.Set(row, 2, -v.At(row, 2))
		}
		r.Mul(&v, u.T())
	}

	var rot [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rot[row*3+col] = r.At(row, col)
		}
	}
	rotated := geometry.Vec3{
		rot[0]*cMob[0] + rot[1]*cMob[1] + rot[2]*cMob[2],
		rot[3]*cMob[0] + rot[4]*cMob[1] + rot[5]*cMob[2],
		rot[6]*cMob[0] + rot[7]*cMob[1] + rot[8]*cMob[2],
	}
	m := geometry.FromRotationTranslation(rot, cRef.Sub(rotated))

	var sum float64
	for i := range ref {
		d := m.TransformPoint(mobile[i]).Sub(ref[i])
		sum += d.Dot(d)
	}
	return Superposition{
		Transform: m,
		RMSD:      math.Sqrt(sum / float64(len(ref))),
	}, nil
}

// SuperposeChains aligns the mobile chain onto the reference chain, pairing
// atoms by index. Both chains must have the same atom count.
func SuperposeChains(ref, mobile ChainLocation) (Superposition, error) {
	a, err := ref.Coordinates()
	if err != nil {
		return Superposition{}, err
	}
	b, err := mobile.Coordinates()
	if err != nil {
		return Superposition{}, err
	}
	return Superpose(a, b)
}
