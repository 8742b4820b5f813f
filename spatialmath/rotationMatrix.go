package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of 9 values in row major order.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	rm := &RotationMatrix{}
	copy(rm.mat[:], m)
	return rm, nil
}

// IdentityRotationMatrix returns the matrix of the rotation that does nothing.
func IdentityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{mat: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the a 3 element vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns the a 3 element vector corresponding to the specified col.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.At(0, col), Y: rm.At(1, col), Z: rm.At(2, col)}
}

// Transpose returns the transposed matrix, which for a rotation is its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	t := &RotationMatrix{}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			t.mat[c*3+r] = rm.mat[r*3+c]
		}
	}
	return t
}

// Mul returns the product of the rotation matrix and the column vector v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// Dense returns a copy of the matrix as a gonum dense matrix.
func (rm *RotationMatrix) Dense() *mat.Dense {
	data := make([]float64, 9)
	copy(data, rm.mat[:])
	return mat.NewDense(3, 3, data)
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// Quaternion returns orientation in quaternion representation.
// reference: http://www.euclideanspace.com/maths/geometry/rotations/conversions/matrixToQuaternion/index.htm
func (rm *RotationMatrix) Quaternion() quat.Number {
	var q quat.Number
	m := rm.mat
	tr := m[0] + m[4] + m[8]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q.Real = 0.25 * s
		q.Imag = (m[7] - m[5]) / s
		q.Jmag = (m[2] - m[6]) / s
		q.Kmag = (m[3] - m[1]) / s
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2
		q.Real = (m[7] - m[5]) / s
		q.Imag = 0.25 * s
		q.Jmag = (m[1] + m[3]) / s
		q.Kmag = (m[2] + m[6]) / s
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2
		q.Real = (m[2] - m[6]) / s
		q.Imag = (m[1] + m[3]) / s
		q.Jmag = 0.25 * s
		q.Kmag = (m[5] + m[7]) / s
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2
		q.Real = (m[3] - m[1]) / s
		q.Imag = (m[2] + m[6]) / s
		q.Jmag = (m[5] + m[7]) / s
		q.Kmag = 0.25 * s
	}
	return q
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(rm.Quaternion())
}

// QuatToRotationMatrix converts a quat to a Rotation Matrix
// reference: https://github.com/go-gl/mathgl/blob/592312d8590acb0686c14740dcf60e2f32d9c618/mgl64/quat.go#L168
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	q = Normalize(q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	x2, y2, z2 := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return &RotationMatrix{[9]float64{
		1 - 2*y2 - 2*z2, 2*xy - 2*wz, 2*xz + 2*wy,
		2*xy + 2*wz, 1 - 2*x2 - 2*z2, 2*yz - 2*wx,
		2*xz - 2*wy, 2*yz + 2*wx, 1 - 2*x2 - 2*y2,
	}}
}
