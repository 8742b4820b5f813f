package movementsensor

import (
	"errors"
	"testing"

	geo "github.com/kellydunn/golang-geo"
	"go.viam.com/test"
)

var (
	testPos  = geo.NewPoint(65.35996, -17.03663)
	testPos2 = geo.NewPoint(8.46696, -17.03663)
)

func TestGetHeading(t *testing.T) {
	// test case 1, standard bearing = 0, heading = 270
	bearing, heading, standardBearing := GetHeading(testPos2, testPos, 90)
	test.That(t, bearing, test.ShouldAlmostEqual, 0)
	test.That(t, heading, test.ShouldAlmostEqual, 270)
	test.That(t, standardBearing, test.ShouldAlmostEqual, 0)

	// test case 2, reversed test case 1.
	testPos2 = geo.NewPoint(65.35996, -17.03663)
	testPos = geo.NewPoint(8.46696, -17.03663)

	bearing, heading, standardBearing = GetHeading(testPos2, testPos, 90)
	test.That(t, bearing, test.ShouldAlmostEqual, 180)
	test.That(t, heading, test.ShouldAlmostEqual, 90)
	test.That(t, standardBearing, test.ShouldAlmostEqual, 180)

	// test case 2.5, changed yaw offsets
	testPos2 = geo.NewPoint(65.35996, -17.03663)
	testPos = geo.NewPoint(8.46696, -17.03663)

	bearing, heading, standardBearing = GetHeading(testPos2, testPos, 270)
	test.That(t, bearing, test.ShouldAlmostEqual, 180)
	test.That(t, heading, test.ShouldAlmostEqual, 270)
	test.That(t, standardBearing, test.ShouldAlmostEqual, 180)

	// test case 3
	testPos2 = geo.NewPoint(8.46696, -17.03663)
	testPos = geo.NewPoint(56.74367734077241, 29.369620000000015)

	bearing, heading, standardBearing = GetHeading(testPos2, testPos, 90)
	test.That(t, bearing, test.ShouldAlmostEqual, 27.2412, 1e-3)
	test.That(t, heading, test.ShouldAlmostEqual, 297.24126, 1e-3)
	test.That(t, standardBearing, test.ShouldAlmostEqual, 27.24126, 1e-3)

	// test case 4, reversed coordinates
	testPos2 = geo.NewPoint(56.74367734077241, 29.369620000000015)
	testPos = geo.NewPoint(8.46696, -17.03663)

	bearing, heading, standardBearing = GetHeading(testPos2, testPos, 90)
	test.That(t, bearing, test.ShouldAlmostEqual, 235.6498, 1e-3)
	test.That(t, heading, test.ShouldAlmostEqual, 145.6498, 1e-3)
	test.That(t, standardBearing, test.ShouldAlmostEqual, -124.3501, 1e-3)

	// test case 4.5, changed yaw Offset
	testPos2 = geo.NewPoint(56.74367734077241, 29.369620000000015)
	testPos = geo.NewPoint(8.46696, -17.03663)

	bearing, heading, standardBearing = GetHeading(testPos2, testPos, 270)
	test.That(t, bearing, test.ShouldAlmostEqual, 235.6498, 1e-3)
	test.That(t, heading, test.ShouldAlmostEqual, 325.6498, 1e-3)
	test.That(t, standardBearing, test.ShouldAlmostEqual, -124.3501, 1e-3)
}

func TestNoErrors(t *testing.T) {
	le := NewLastError(1, 1)
	test.That(t, le.Get(), test.ShouldBeNil)
}

func TestOneError(t *testing.T) {
	le := NewLastError(1, 1)

	le.Set(errors.New("it's a test error"))
	test.That(t, le.Get(), test.ShouldNotBeNil)
	// We got the error, so it shouldn't be in here any more.
	test.That(t, le.Get(), test.ShouldBeNil)
}

func TestTwoErrors(t *testing.T) {
	le := NewLastError(1, 1)

	le.Set(errors.New("first"))
	le.Set(errors.New("second"))

	err := le.Get()
	test.That(t, err.Error(), test.ShouldEqual, "second")
}

func TestSuppressRareErrors(t *testing.T) {
	le := NewLastError(2, 2) // Only report if 2 of the last 2 are non-nil errors

	test.That(t, le.Get(), test.ShouldBeNil)
	le.Set(nil)
	test.That(t, le.Get(), test.ShouldBeNil)
	le.Set(errors.New("one"))
	test.That(t, le.Get(), test.ShouldBeNil)
	le.Set(nil)
	test.That(t, le.Get(), test.ShouldBeNil)
	le.Set(errors.New("two"))
	test.That(t, le.Get(), test.ShouldBeNil)
	le.Set(errors.New("three")) // Two errors in a row!

	err := le.Get()
	test.That(t, err.Error(), test.ShouldEqual, "three")
	// and now that we've returned an error, the history is cleared out again.
	test.That(t, le.Get(), test.ShouldBeNil)
}

func TestErrorsAfterReport(t *testing.T) {
	le := NewLastError(2, 1)

	le.Set(errors.New("first"))
	test.That(t, le.Get().Error(), test.ShouldEqual, "first")

	// The history was wiped by the report and keeps its window.
	le.Set(nil)
	le.Set(errors.New("second"))
	test.That(t, le.Get().Error(), test.ShouldEqual, "second")
}

func TestAccuracyPoseCovariance(t *testing.T) {
	acc := &Accuracy{Hdop: 0.8, Vdop: 1.2, CompassDegreeError: 2}
	cov := acc.PoseCovariance(3)
	test.That(t, cov[0], test.ShouldAlmostEqual, 5.76, 1e-5)
	test.That(t, cov[7], test.ShouldAlmostEqual, 5.76, 1e-5)
	test.That(t, cov[14], test.ShouldAlmostEqual, 12.96, 1e-5)
	test.That(t, cov[21], test.ShouldEqual, UnknownVariance)
	test.That(t, cov[28], test.ShouldEqual, UnknownVariance)
	test.That(t, cov[35], test.ShouldAlmostEqual, 0.0012184, 1e-6)
	test.That(t, cov[1], test.ShouldEqual, 0)

	t.Run("defaults", func(t *testing.T) {
		acc := &Accuracy{Hdop: 1}
		cov := acc.PoseCovariance(0)
		test.That(t, cov[0], test.ShouldAlmostEqual, DefaultUERE*DefaultUERE)
		test.That(t, cov[14], test.ShouldAlmostEqual, DefaultUERE*DefaultUERE)
		test.That(t, cov[35], test.ShouldEqual, UnknownVariance)
	})
}
