// Package covariance rotates 6x6 pose covariances between frames.
//
// Rows and columns are ordered (x, y, z, roll, pitch, yaw). A frame rotation R acts on a pose
// covariance through the block diagonal matrix diag(R, R), which rotates the position block and
// the orientation block by the same 3x3 rotation.
package covariance

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/geonav/spatialmath"
)

// Size is the dimension of a pose covariance.
const Size = 6

// blockSize is the dimension of the position and orientation blocks.
const blockSize = 3

// ErrMissingRotation is returned when a covariance is rotated without a rotation.
var ErrMissingRotation = errors.New("covariance rotation requires an explicit rotation")

// BlockRotation returns the 6x6 block diagonal matrix carrying rot in both the position and the
// orientation blocks.
func BlockRotation(rot *spatialmath.RotationMatrix) *mat.Dense {
	r6 := mat.NewDense(Size, Size, nil)
	for r := 0; r < blockSize; r++ {
		for c := 0; c < blockSize; c++ {
			v := rot.At(r, c)
			r6.Set(r, c, v)
			r6.Set(r+blockSize, c+blockSize, v)
		}
	}
	return r6
}

// Rotate computes R6 * cov * R6ᵀ where R6 is the block rotation of rot. The result is explicitly
// symmetrised so rounding cannot make it drift away from a valid covariance.
func Rotate(cov mat.Symmetric, rot *spatialmath.RotationMatrix) (*mat.SymDense, error) {
	if rot == nil {
		return nil, ErrMissingRotation
	}
	if n := cov.SymmetricDim(); n != Size {
		return nil, errors.Errorf("covariance must be %dx%d, got %dx%d", Size, Size, n, n)
	}
	r6 := BlockRotation(rot)

	var tmp, out mat.Dense
	tmp.Mul(r6, cov)
	out.Mul(&tmp, r6.T())
	return symmetrize(&out), nil
}

// FromRowMajor builds a covariance from its 36 element row major wire form. Mirrored entries are
// averaged, so a slightly asymmetric input still yields a symmetric matrix.
func FromRowMajor(data [Size * Size]float64) *mat.SymDense {
	return symmetrize(mat.NewDense(Size, Size, data[:]))
}

// ToRowMajor flattens a covariance into its 36 element row major wire form.
func ToRowMajor(m mat.Symmetric) [Size * Size]float64 {
	var out [Size * Size]float64
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i*Size+j] = m.At(i, j)
		}
	}
	return out
}

// BlockTrace returns the trace of the given 3x3 diagonal block: 0 for position, 1 for orientation.
func BlockTrace(m mat.Matrix, block int) float64 {
	var tr float64
	for i := block * blockSize; i < (block+1)*blockSize; i++ {
		tr += m.At(i, i)
	}
	return tr
}

// IsSymmetric reports whether m is square and equal to its transpose within tol.
func IsSymmetric(m mat.Matrix, tol float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			d := m.At(i, j) - m.At(j, i)
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

func symmetrize(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return sym
}
