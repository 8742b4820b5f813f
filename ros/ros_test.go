package ros

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/spatialmath"
)

const navMessages = `{"meta":{"secs":1700000000,"nsecs":0},"data":{"header":{"seq":1,"stamp":{"secs":1700000000,"nsecs":500},"frame_id":"gps"},"child_frame_id":"",` +
	`"pose":{"pose":{"position":{"x":-93.0,"y":45.0,"z":10.0},"orientation":{"x":0,"y":0,"z":0,"w":1}},"covariance":[1,0,0,0,0,0,0,2,0,0,0,0,0,0,3,0,0,0,0,0,0,4,0,0,0,0,0,0,5,0,0,0,0,0,0,6]},` +
	`"twist":{"twist":{"linear":{"x":1,"y":0,"z":0},"angular":{"x":0,"y":0,"z":0.1}},"covariance":[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]}}}
{"meta":{"secs":1700000001,"nsecs":0},"data":{"header":{"seq":2,"frame_id":""},"pose":{"pose":{"position":{"x":-93.001,"y":45.001,"z":11.0},"orientation":{"x":0,"y":0,"z":0,"w":1}}}}}
`

func TestDecodeOdometryMessages(t *testing.T) {
	msgs, err := DecodeOdometryMessages(strings.NewReader(navMessages))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, msgs, test.ShouldHaveLength, 2)

	s := msgs[0].ToNavigationSample()
	// x carries the longitude and y the latitude
	test.That(t, s.Position, test.ShouldResemble, geonav.NewGeodeticPoint(45, -93, 10))
	test.That(t, s.Time, test.ShouldResemble, time.Unix(1700000000, 500))
	test.That(t, s.FrameID, test.ShouldEqual, "gps")
	test.That(t, s.Orientation, test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, s.PoseCovariance[7], test.ShouldEqual, 2.0)
	test.That(t, s.PoseCovariance[35], test.ShouldEqual, 6.0)
	test.That(t, s.Twist.Linear, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, s.Twist.Angular, test.ShouldResemble, spatialmath.AngularVelocity{Z: 0.1})

	// without a header stamp the record time is used
	s = msgs[1].ToNavigationSample()
	test.That(t, s.Time, test.ShouldResemble, time.Unix(1700000001, 0))
	test.That(t, s.Notes().EmptyFrameID, test.ShouldBeTrue)

	_, err = DecodeOdometryMessages(strings.NewReader(`{"meta":`))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromOdometry(t *testing.T) {
	o := geonav.Odometry{
		Time:         time.Unix(12, 34),
		FrameID:      "utm",
		ChildFrameID: "base_link",
		Position:     r3.Vector{X: 500000, Y: 4982950, Z: 3},
		Orientation:  quat.Number{Real: 0.5, Imag: 0.5, Jmag: 0.5, Kmag: 0.5},
		Twist:        geonav.Twist{Linear: r3.Vector{Y: 2}},
	}
	o.PoseCovariance[3] = 9

	msg := FromOdometry(o)
	test.That(t, msg.Data.Header.FrameID, test.ShouldEqual, "utm")
	test.That(t, msg.Data.Header.Stamp, test.ShouldResemble, Stamp{Secs: 12, Nsecs: 34})
	test.That(t, msg.Data.ChildFrameID, test.ShouldEqual, "base_link")
	test.That(t, msg.Data.Pose.Pose.Position, test.ShouldResemble, Vector3{X: 500000, Y: 4982950, Z: 3})
	test.That(t, msg.Data.Pose.Pose.Orientation, test.ShouldResemble, Quaternion{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5})
	test.That(t, msg.Data.Pose.Covariance[3], test.ShouldEqual, 9.0)
	test.That(t, msg.Data.Twist.Twist.Linear, test.ShouldResemble, Vector3{Y: 2})

	test.That(t, StampFromTime(time.Time{}), test.ShouldResemble, Stamp{})
	test.That(t, Stamp{}.Time().IsZero(), test.ShouldBeTrue)
}

func TestBagSourceReplay(t *testing.T) {
	msgs, err := DecodeOdometryMessages(strings.NewReader(navMessages))
	test.That(t, err, test.ShouldBeNil)
	src := NewBagSourceFromMessages(msgs)
	test.That(t, src.Samples(), test.ShouldHaveLength, 2)

	var got []geonav.NavigationSample
	n, err := src.Replay(context.Background(), time.Millisecond, func(s geonav.NavigationSample) {
		got = append(got, s)
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 2)
	test.That(t, got, test.ShouldResemble, src.Samples())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = src.Replay(ctx, 0, func(geonav.NavigationSample) {})
	test.That(t, err, test.ShouldEqual, context.Canceled)
	test.That(t, n, test.ShouldEqual, 0)

	// a cancel during the wait stops after the sample already submitted
	ctx, cancel = context.WithCancel(context.Background())
	n, err = src.Replay(ctx, time.Hour, func(geonav.NavigationSample) { cancel() })
	test.That(t, err, test.ShouldEqual, context.Canceled)
	test.That(t, n, test.ShouldEqual, 1)
}

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestJSONPublisher(t *testing.T) {
	var out closeRecorder
	pub := NewJSONPublisher(&out)
	ctx := context.Background()

	o := geonav.Odometry{FrameID: "odom", Position: r3.Vector{X: 1, Y: 2, Z: 3}, Orientation: quat.Number{Real: 1}}
	test.That(t, pub.Publish(ctx, "odometry/odom", o), test.ShouldBeNil)
	o.FrameID = "utm"
	test.That(t, pub.Publish(ctx, "odometry/utm", o), test.ShouldBeNil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)
	var first TopicMessage
	test.That(t, json.Unmarshal([]byte(lines[0]), &first), test.ShouldBeNil)
	test.That(t, first.Topic, test.ShouldEqual, "odometry/odom")
	test.That(t, first.Message.Data.Header.FrameID, test.ShouldEqual, "odom")
	test.That(t, first.Message.Data.Pose.Pose.Position, test.ShouldResemble, Vector3{X: 1, Y: 2, Z: 3})

	test.That(t, pub.Close(), test.ShouldBeNil)
	test.That(t, pub.Close(), test.ShouldBeNil)
	test.That(t, out.closed, test.ShouldEqual, 1)
	test.That(t, pub.Publish(ctx, "odometry/utm", o), test.ShouldNotBeNil)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	test.That(t, NewJSONPublisher(&bytes.Buffer{}).Publish(cancelled, "x", o), test.ShouldEqual, context.Canceled)
}

func TestReadBagMissingFile(t *testing.T) {
	_, err := ReadBag("does-not-exist.bag")
	test.That(t, err, test.ShouldNotBeNil)
}
