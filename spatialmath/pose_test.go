package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestBasicPoseConstruction(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})
	test.That(t, OrientationAlmostEqual(p.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)

	p = NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, R3VectorAlmostEqual(p.Point(), r3.Vector{X: 1, Y: 2, Z: 3}, 1e-12), test.ShouldBeTrue)

	ea := &EulerAngles{Roll: 0.1, Pitch: -0.2, Yaw: 1.3}
	p = NewPose(r3.Vector{X: 483620.2, Y: 4983620.7, Z: 10}, ea)
	test.That(t, R3VectorAlmostEqual(p.Point(), r3.Vector{X: 483620.2, Y: 4983620.7, Z: 10}, 1e-8), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(p.Orientation(), ea), test.ShouldBeTrue)

	p = NewPoseFromOrientation(ea)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})

	p = NewPose(r3.Vector{X: 1, Y: 0, Z: 0}, nil)
	test.That(t, OrientationAlmostEqual(p.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)
}

func TestCompose(t *testing.T) {
	yaw90 := NewEulerAnglesFromYaw(math.Pi / 2)
	a := NewPose(r3.Vector{X: 10, Y: 0, Z: 0}, yaw90)
	b := NewPoseFromPoint(r3.Vector{X: 1, Y: 0, Z: 0})

	// b's x axis is a's y axis after the 90 degree yaw
	c := Compose(a, b)
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{X: 10, Y: 1, Z: 0}, 1e-12), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(c.Orientation(), yaw90), test.ShouldBeTrue)

	test.That(t, R3VectorAlmostEqual(TransformPoint(a, r3.Vector{X: 0, Y: 2, Z: 0}), r3.Vector{X: 8, Y: 0, Z: 0}, 1e-12), test.ShouldBeTrue)
}

func TestSelfInverseComposition(t *testing.T) {
	poses := []Pose{
		NewPose(r3.Vector{X: 500000, Y: 4982950.4, Z: 0}, NewZeroOrientation()),
		NewPose(r3.Vector{X: 351234.5, Y: 6123456.7, Z: 123.4}, &EulerAngles{Roll: 0.3, Pitch: -0.1, Yaw: 2.5}),
		NewPose(r3.Vector{X: -3, Y: 4, Z: -5}, NewQuaternion(quat.Number{Real: 0.2, Imag: 0.4, Jmag: -0.1, Kmag: 0.8})),
	}
	for _, p := range poses {
		identity := Compose(p, PoseInverse(p))
		test.That(t, PoseAlmostEqual(identity, NewZeroPose()), test.ShouldBeTrue)
		identity = Compose(PoseInverse(p), p)
		test.That(t, PoseAlmostEqual(identity, NewZeroPose()), test.ShouldBeTrue)
		test.That(t, PoseAlmostEqualEps(PoseInverse(PoseInverse(p)), p, 1e-7), test.ShouldBeTrue)
	}
}

func TestPoseBetween(t *testing.T) {
	a := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, &EulerAngles{Yaw: 0.7})
	b := NewPose(r3.Vector{X: -4, Y: 0, Z: 9}, &EulerAngles{Roll: 0.2, Yaw: -0.4})
	c := PoseBetween(a, b)
	test.That(t, PoseAlmostEqual(Compose(a, c), b), test.ShouldBeTrue)
}

func TestPoseAlmostCoincident(t *testing.T) {
	a := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, &EulerAngles{Yaw: 0.7})
	b := NewPose(r3.Vector{X: 1, Y: 2, Z: 3 + 1e-9}, &EulerAngles{Yaw: -0.7})
	test.That(t, PoseAlmostCoincident(a, b), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(a, b), test.ShouldBeFalse)
	test.That(t, PrettyPrint(NewZeroPose()), test.ShouldContainSubstring, "X:0.000000")
}
