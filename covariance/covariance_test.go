package covariance

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/geonav/spatialmath"
)

func randomCovariance() *mat.SymDense {
	data := make([]float64, Size*Size)
	for i := range data {
		data[i] = math.Sin(float64(i*7+3)) * float64(i%5+1)
	}
	var c mat.SymDense
	c.SymOuterK(1, mat.NewDense(Size, Size, data))
	return &c
}

func testRotations() []*spatialmath.RotationMatrix {
	return []*spatialmath.RotationMatrix{
		spatialmath.IdentityRotationMatrix(),
		spatialmath.NewEulerAnglesFromYaw(math.Pi / 2).RotationMatrix(),
		(&spatialmath.EulerAngles{Roll: 0.3, Pitch: -1.1, Yaw: 2.7}).RotationMatrix(),
		spatialmath.NewQuaternion(quat.Number{Real: 1, Imag: 0.3, Jmag: 0.6, Kmag: 0.9}).RotationMatrix(),
	}
}

func TestBlockRotation(t *testing.T) {
	rot := (&spatialmath.EulerAngles{Roll: 0.1, Pitch: 0.2, Yaw: 0.3}).RotationMatrix()
	r6 := BlockRotation(rot)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, r6.At(r, c), test.ShouldEqual, rot.At(r, c))
			test.That(t, r6.At(r+3, c+3), test.ShouldEqual, rot.At(r, c))
			test.That(t, r6.At(r+3, c), test.ShouldEqual, 0.0)
			test.That(t, r6.At(r, c+3), test.ShouldEqual, 0.0)
		}
	}

	// orthonormal: R6 * R6ᵀ = I
	var prod mat.Dense
	prod.Mul(r6, r6.T())
	test.That(t, mat.EqualApprox(&prod, eye(Size), 1e-12), test.ShouldBeTrue)
}

func TestRotatePreservesStructure(t *testing.T) {
	cov := randomCovariance()
	for _, rot := range testRotations() {
		out, err := Rotate(cov, rot)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, IsSymmetric(out, 1e-12), test.ShouldBeTrue)
		test.That(t, BlockTrace(out, 0), test.ShouldAlmostEqual, BlockTrace(cov, 0), 1e-9)
		test.That(t, BlockTrace(out, 1), test.ShouldAlmostEqual, BlockTrace(cov, 1), 1e-9)

		// still positive semi-definite
		var eig mat.EigenSym
		test.That(t, eig.Factorize(out, false), test.ShouldBeTrue)
		for _, v := range eig.Values(nil) {
			test.That(t, v, test.ShouldBeGreaterThan, -1e-9)
		}

		// rotating back recovers the input
		back, err := Rotate(out, rot.Transpose())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.EqualApprox(back, cov, 1e-9), test.ShouldBeTrue)
	}
}

func TestRotateIdentity(t *testing.T) {
	cov := randomCovariance()
	out, err := Rotate(cov, spatialmath.IdentityRotationMatrix())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(out, cov, 1e-12), test.ShouldBeTrue)
}

func TestRotateQuarterTurn(t *testing.T) {
	var data [Size * Size]float64
	data[0*Size+0] = 4 // var x
	data[1*Size+1] = 1 // var y
	data[5*Size+5] = 0.5
	out, err := Rotate(FromRowMajor(data), spatialmath.NewEulerAnglesFromYaw(math.Pi/2).RotationMatrix())
	test.That(t, err, test.ShouldBeNil)

	// a quarter turn about z swaps the x and y variances and leaves yaw alone
	test.That(t, out.At(0, 0), test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, out.At(1, 1), test.ShouldAlmostEqual, 4.0, 1e-12)
	test.That(t, out.At(0, 1), test.ShouldAlmostEqual, 0.0, 1e-12)
	test.That(t, out.At(5, 5), test.ShouldAlmostEqual, 0.5, 1e-12)
}

func TestRotateErrors(t *testing.T) {
	_, err := Rotate(randomCovariance(), nil)
	test.That(t, errors.Is(err, ErrMissingRotation), test.ShouldBeTrue)

	_, err = Rotate(mat.NewSymDense(3, nil), spatialmath.IdentityRotationMatrix())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRowMajor(t *testing.T) {
	var data [Size * Size]float64
	for i := range data {
		data[i] = float64(i)
	}
	sym := FromRowMajor(data)
	test.That(t, IsSymmetric(sym, 0), test.ShouldBeTrue)
	// (0,1) holds 1 and (1,0) holds 6
	test.That(t, sym.At(0, 1), test.ShouldEqual, 3.5)
	test.That(t, sym.At(2, 2), test.ShouldEqual, 14.0)

	flat := ToRowMajor(sym)
	test.That(t, flat[1], test.ShouldEqual, 3.5)
	test.That(t, flat[6], test.ShouldEqual, 3.5)
	test.That(t, flat[35], test.ShouldEqual, 35.0)
}

func TestIsSymmetric(t *testing.T) {
	test.That(t, IsSymmetric(mat.NewDense(2, 3, nil), 1), test.ShouldBeFalse)
	test.That(t, IsSymmetric(mat.NewDense(2, 2, []float64{1, 2, 2.1, 1}), 0.01), test.ShouldBeFalse)
	test.That(t, IsSymmetric(mat.NewDense(2, 2, []float64{1, 2, 2.1, 1}), 0.2), test.ShouldBeTrue)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
