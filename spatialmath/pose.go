package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z), and Orientation() returns the
// rotation. A Pose is also a rigid transform: applying it maps points of the child frame into
// the parent frame.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	q := newDualQuaternionFromRotation(o)
	q.SetTranslation(p)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose with no translation.
func NewPoseFromOrientation(o Orientation) Pose {
	return newDualQuaternionFromRotation(o)
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the transform and returns a new Pose.
// Composition does not commute in general, i.e. you cannot guarantee ABx == BAx.
func Compose(a, b Pose) Pose {
	aq := newDualQuaternionFromPose(a)
	bq := newDualQuaternionFromPose(b)
	return &dualQuaternion{aq.Transformation(bq.Number)}
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p) will give
// the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	return newDualQuaternionFromPose(p).Invert()
}

// PoseBetween returns the difference between two dualQuaternions, that is, the dq which if multiplied by one will give the other.
// Example: if PoseBetween(a, b) = c, then Compose(a, c) = b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies the rigid transform p to the point pt.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return Compose(p, NewPoseFromPoint(pt)).Point()
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same within the given
// tolerance, used for both the position (absolute) and the orientation quaternion components.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		OrientationAlmostEqualEps(a.Orientation(), b.Orientation(), epsilon)
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
func PoseAlmostCoincident(a, b Pose) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), 1e-6)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, epsilon) &&
		scalar.EqualWithinAbs(a.Y, b.Y, epsilon) &&
		scalar.EqualWithinAbs(a.Z, b.Z, epsilon)
}

// PrettyPrint returns a human readable string describing the pose, with the orientation as roll/pitch/yaw.
func PrettyPrint(p Pose) string {
	ea := p.Orientation().EulerAngles()
	return fmt.Sprintf("{X:%.6f Y:%.6f Z:%.6f Roll:%.6f Pitch:%.6f Yaw:%.6f}",
		p.Point().X, p.Point().Y, p.Point().Z, ea.Roll, ea.Pitch, ea.Yaw)
}
