package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.), Jmag: 0, Kmag: 0} // in quaternion representation
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}                                        // in euler angle representation
	rm45x = &RotationMatrix{[9]float64{
		1, 0, 0,
		0, math.Cos(th), -math.Sin(th),
		0, math.Sin(th), math.Cos(th),
	}} // in rotation matrix representation
)

func testOrientationConversions(t *testing.T, o Orientation) {
	t.Helper()
	test.That(t, QuaternionAlmostEqual(o.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)

	ea := o.EulerAngles()
	test.That(t, ea.Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, ea45x.Yaw)

	rm := o.RotationMatrix()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, rm.At(r, c), test.ShouldAlmostEqual, rm45x.At(r, c))
		}
	}
}

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1, Imag: 0, Jmag: 0, Kmag: 0})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
	test.That(t, zero.RotationMatrix(), test.ShouldResemble, IdentityRotationMatrix())
}

func TestQuaternions(t *testing.T) {
	testOrientationConversions(t, NewQuaternion(q45x))
}

func TestEulerAngles(t *testing.T) {
	testOrientationConversions(t, ea45x)
}

func TestRotationMatrix(t *testing.T) {
	testOrientationConversions(t, rm45x)

	_, err := NewRotationMatrix([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)

	rm, err := NewRotationMatrix([]float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rm.EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, rm.Transpose().EulerAngles().Yaw, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, R3VectorAlmostEqual(rm.Mul(r3.Vector{X: 1}), r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, rm.Row(0), test.ShouldResemble, r3.Vector{X: 0, Y: -1, Z: 0})
	test.That(t, rm.Col(0), test.ShouldResemble, r3.Vector{X: 0, Y: 1, Z: 0})
}

func TestYawOnlyEuler(t *testing.T) {
	for _, yaw := range []float64{-3, -1.2, 0, 0.3, 2.9} {
		q := NewEulerAnglesFromYaw(yaw).Quaternion()
		test.That(t, q.Imag, test.ShouldAlmostEqual, 0)
		test.That(t, q.Jmag, test.ShouldAlmostEqual, 0)
		test.That(t, QuatToEulerAngles(q).Yaw, test.ShouldAlmostEqual, yaw)
	}
}

func TestNormalize(t *testing.T) {
	test.That(t, Normalize(quat.Number{}), test.ShouldResemble, quat.Number{Real: 1})
	n := Normalize(quat.Number{Real: 2})
	test.That(t, n, test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, IsZero(quat.Number{}), test.ShouldBeTrue)
	test.That(t, IsZero(q45x), test.ShouldBeFalse)

	// a non unit quaternion converts like its normalized self
	scaled := NewQuaternion(quat.Scale(3, q45x))
	test.That(t, scaled.EulerAngles().Roll, test.ShouldAlmostEqual, th)
}

func TestQuaternionAlmostEqualSign(t *testing.T) {
	test.That(t, QuaternionAlmostEqual(q45x, Flip(q45x), 1e-12), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(q45x, quat.Number{Real: 1}, 1e-3), test.ShouldBeFalse)
}

func TestOrientationBetweenAndInverse(t *testing.T) {
	o1 := &EulerAngles{Yaw: 0.25}
	o2 := &EulerAngles{Yaw: 1.0}
	between := OrientationBetween(o1, o2)
	test.That(t, between.EulerAngles().Yaw, test.ShouldAlmostEqual, 0.75)

	inv := OrientationInverse(o2)
	test.That(t, inv.EulerAngles().Yaw, test.ShouldAlmostEqual, -1.0)
}

func TestRotateVector(t *testing.T) {
	rotated := RotateVector(NewEulerAnglesFromYaw(math.Pi/2).Quaternion(), r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(rotated, r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
}
