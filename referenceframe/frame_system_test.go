package referenceframe

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/geonav/spatialmath"
)

func TestAppendPrefix(t *testing.T) {
	for _, tc := range []struct {
		prefix, frame, expected string
	}{
		{"", "odom", "odom"},
		{"", "/odom", "odom"},
		{"robot1", "odom", "robot1/odom"},
		{"/robot1", "/base_link", "robot1/base_link"},
		{"robot1/", "odom", "robot1/odom"},
		{"a/b", "odom", "a/b/odom"},
	} {
		test.That(t, AppendPrefix(tc.prefix, tc.frame), test.ShouldEqual, tc.expected)
	}
}

func TestFrameSystemTransform(t *testing.T) {
	ctx := context.Background()
	fs := NewFrameSystem()

	// utm is a child of odom, offset and turned a quarter about z
	datum := spatialmath.NewPose(r3.Vector{X: 100, Y: 200, Z: 3}, spatialmath.NewEulerAnglesFromYaw(math.Pi/2))
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "odom", Child: "utm", Pose: datum}), test.ShouldBeNil)
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "utm", Child: "gps", Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})}),
		test.ShouldBeNil)

	test.That(t, fs.FrameNames(), test.ShouldResemble, []string{"gps", "odom", "utm"})

	tf, ok := fs.Lookup("utm")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, tf.Parent, test.ShouldEqual, "odom")
	_, ok = fs.Lookup("odom")
	test.That(t, ok, test.ShouldBeFalse)

	got, err := fs.Transform("utm", "odom")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(got, datum), test.ShouldBeTrue)

	got, err = fs.Transform("odom", "utm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(got, spatialmath.PoseInverse(datum)), test.ShouldBeTrue)

	// the gps origin sits one meter along utm x, which is odom y
	pt, err := fs.TransformPoint(r3.Vector{}, "gps", "odom")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pt, r3.Vector{X: 100, Y: 201, Z: 3}, 1e-9), test.ShouldBeTrue)

	got, err = fs.Transform("gps", "gps")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(got, spatialmath.NewZeroPose()), test.ShouldBeTrue)
}

func TestFrameSystemErrors(t *testing.T) {
	ctx := context.Background()
	fs := NewFrameSystem()
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "", Child: "utm"}), test.ShouldEqual, ErrEmptyFrameName)
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "odom", Child: "utm"}), test.ShouldBeNil)
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "map", Child: "other"}), test.ShouldBeNil)

	// cycles are rejected
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "utm", Child: "odom"}), test.ShouldNotBeNil)
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "utm", Child: "utm"}), test.ShouldNotBeNil)

	_, err := fs.Transform("utm", "nowhere")
	test.That(t, err, test.ShouldBeError, NewFrameMissingError("nowhere"))
	_, err = fs.Transform("utm", "other")
	test.That(t, err, test.ShouldBeError, NewNoCommonRootError("utm", "other"))
}

func TestFrameSystemReplaceAndConcurrentRead(t *testing.T) {
	ctx := context.Background()
	fs := NewFrameSystem()
	test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "odom", Child: "utm"}), test.ShouldBeNil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := fs.Transform("utm", "odom")
				test.That(t, err, test.ShouldBeNil)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		p := spatialmath.NewPoseFromPoint(r3.Vector{X: float64(j)})
		test.That(t, fs.SendTransform(ctx, TransformStamped{Parent: "odom", Child: "utm", Pose: p}), test.ShouldBeNil)
	}
	wg.Wait()

	tf, ok := fs.Lookup("utm")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, tf.Pose.Point().X, test.ShouldEqual, 99.0)
}
