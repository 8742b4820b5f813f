package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// dualQuaternion defines functions to perform rigid transformations in 3D. The real part is always a
// unit quaternion holding the rotation, and the dual part is half the translation times the rotation.
type dualQuaternion struct {
	dualquat.Number
}

// newDualQuaternion returns a pointer to a new dualQuaternion object whose Quaternion is an identity Quaternion.
// Since the real part of a dual quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &dualQuaternion{}.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// newDualQuaternionFromRotation returns a pointer to a new dualQuaternion object whose rotation
// quaternion is set from a provided orientation.
func newDualQuaternionFromRotation(o Orientation) *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: Normalize(o.Quaternion()),
		Dual: quat.Number{},
	}}
}

// newDualQuaternionFromPose takes any pose, checks if it is already a DualQuaternion and returns that if so, otherwise creates a
// new DualQuaternion from the Pose.
func newDualQuaternionFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q.Clone()
	}
	q := newDualQuaternionFromRotation(p.Orientation())
	q.SetTranslation(p.Point())
	return q
}

// Clone returns a dualQuaternion object identical to this one.
func (q *dualQuaternion) Clone() *dualQuaternion {
	// No need for deep copies here, dualquats are primitives all the way down
	return &dualQuaternion{q.Number}
}

// Point multiplies the dual quaternion by its own conjugate to give a dq where the real is the identity quat,
// and the dual is representative of the translation.
func (q *dualQuaternion) Point() r3.Vector {
	tQuat := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: tQuat.Imag, Y: tQuat.Jmag, Z: tQuat.Kmag}
}

// Orientation returns the rotation quaternion as an Orientation.
func (q *dualQuaternion) Orientation() Orientation {
	qq := quaternion(q.Real)
	return &qq
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *dualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Mul(quat.Number{Real: 0, Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, q.Real)
}

// Invert returns a dualQuaternion representing the opposite transformation. So if the input dualQuaternion
// would transform a -> b, then Invert() would transform b -> a. For a unit dual quaternion that is the
// quaternion conjugate of both parts.
func (q *dualQuaternion) Invert() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Conj(q.Real),
		Dual: quat.Conj(q.Dual),
	}}
}

// Transformation multiplies the dual quat contained in this dualQuaternion by another dual quat.
func (q *dualQuaternion) Transformation(by dualquat.Number) dualquat.Number {
	// Ensure we are multiplying by a unit dual quaternion
	if vecLen := quat.Abs(by.Real); vecLen != 1 && vecLen != 0 {
		by.Real = quat.Scale(1/vecLen, by.Real)
		by.Dual = quat.Scale(1/vecLen, by.Dual)
	}

	return dualquat.Mul(q.Number, by)
}
