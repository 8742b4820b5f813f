package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"
)

type quaternion quat.Number

// NewQuaternion wraps a quaternion as an Orientation. The quaternion is stored as given; any
// conversion to another parameterization works on its normalized form.
func NewQuaternion(q quat.Number) Orientation {
	qq := quaternion(q)
	return &qq
}

// Quaternion returns orientation in quaternion representation.
func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// EulerAngles returns orientation in Euler angle representation.
func (q *quaternion) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(q.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(q.Quaternion())
}

// Normalize returns the unit quaternion in the direction of q. A zero quaternion carries no
// rotation information and normalizes to the identity.
func Normalize(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}

// IsZero reports whether every component of q is zero.
func IsZero(q quat.Number) bool {
	return q == quat.Number{}
}

// QuaternionAlmostEqual is an equality test for the rotations two quaternions represent. Since q and -q
// describe the same rotation, both signs are accepted.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	a, b = Normalize(a), Normalize(b)
	same := func(x, y quat.Number) bool {
		return scalar.EqualWithinAbs(x.Real, y.Real, tol) &&
			scalar.EqualWithinAbs(x.Imag, y.Imag, tol) &&
			scalar.EqualWithinAbs(x.Jmag, y.Jmag, tol) &&
			scalar.EqualWithinAbs(x.Kmag, y.Kmag, tol)
	}
	return same(a, b) || same(a, Flip(b))
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// RotateVector rotates v by the rotation that q represents.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	q = Normalize(q)
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}
