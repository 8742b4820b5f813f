package ros

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/spatialmath"
)

// Stamp is a ROS time.
type Stamp struct {
	Secs  int64
	Nsecs int64
}

// Time converts the stamp to a time.Time. A zero stamp is the zero time.
func (s Stamp) Time() time.Time {
	if s.Secs == 0 && s.Nsecs == 0 {
		return time.Time{}
	}
	return time.Unix(s.Secs, s.Nsecs)
}

// StampFromTime converts a time.Time to a stamp.
func StampFromTime(t time.Time) Stamp {
	if t.IsZero() {
		return Stamp{}
	}
	return Stamp{Secs: t.Unix(), Nsecs: int64(t.Nanosecond())}
}

// Header is std_msgs/Header.
type Header struct {
	Seq     uint32
	Stamp   Stamp
	FrameID string `json:"frame_id"`
}

// Vector3 is geometry_msgs/Vector3, also used for geometry_msgs/Point.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Quaternion is geometry_msgs/Quaternion.
type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

// PoseWithCovariance is geometry_msgs/PoseWithCovariance.
type PoseWithCovariance struct {
	Pose struct {
		Position    Vector3
		Orientation Quaternion
	}
	Covariance [geonav.CovarianceSize]float64
}

// TwistWithCovariance is geometry_msgs/TwistWithCovariance.
type TwistWithCovariance struct {
	Twist struct {
		Linear  Vector3
		Angular Vector3
	}
	Covariance [geonav.CovarianceSize]float64
}

// Odometry is nav_msgs/Odometry.
type Odometry struct {
	Header       Header
	ChildFrameID string `json:"child_frame_id"`
	Pose         PoseWithCovariance
	Twist        TwistWithCovariance
}

// OdometryMessage is a nav_msgs/Odometry message as it appears in a bag converted to JSON.
type OdometryMessage struct {
	Meta Stamp
	Data Odometry
}

// ToNavigationSample converts a navigation odometry message to a sample. Navigation messages carry
// the longitude in position x and the latitude in position y, with the altitude in z. The header stamp
// is used as the sample time, falling back to the bag record time when the header has none.
func (m OdometryMessage) ToNavigationSample() geonav.NavigationSample {
	d := m.Data
	stamp := d.Header.Stamp.Time()
	if stamp.IsZero() {
		stamp = m.Meta.Time()
	}
	pos := d.Pose.Pose.Position
	o := d.Pose.Pose.Orientation
	tw := d.Twist.Twist
	return geonav.NavigationSample{
		Time:           stamp,
		FrameID:        d.Header.FrameID,
		ChildFrameID:   d.ChildFrameID,
		Position:       geonav.NewGeodeticPoint(pos.Y, pos.X, pos.Z),
		Orientation:    quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z},
		PoseCovariance: d.Pose.Covariance,
		Twist: geonav.Twist{
			Linear:     r3.Vector(tw.Linear),
			Angular:    spatialmath.AngularVelocity(tw.Angular),
			Covariance: d.Twist.Covariance,
		},
	}
}

// FromOdometry converts an output of the transform chain to a message.
func FromOdometry(o geonav.Odometry) OdometryMessage {
	var msg OdometryMessage
	msg.Meta = StampFromTime(o.Time)
	msg.Data.Header = Header{Stamp: msg.Meta, FrameID: o.FrameID}
	msg.Data.ChildFrameID = o.ChildFrameID
	msg.Data.Pose.Pose.Position = Vector3(o.Position)
	msg.Data.Pose.Pose.Orientation = Quaternion{X: o.Orientation.Imag, Y: o.Orientation.Jmag, Z: o.Orientation.Kmag, W: o.Orientation.Real}
	msg.Data.Pose.Covariance = o.PoseCovariance
	msg.Data.Twist.Twist.Linear = Vector3(o.Twist.Linear)
	msg.Data.Twist.Twist.Angular = Vector3(o.Twist.Angular)
	msg.Data.Twist.Covariance = o.Twist.Covariance
	return msg
}
