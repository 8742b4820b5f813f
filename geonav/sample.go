package geonav

import (
	"math"
	"time"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/geonav/spatialmath"
)

// CovarianceSize is the number of entries of a row major 6x6 covariance.
const CovarianceSize = 36

// GeodeticPoint is a position on the WGS84 ellipsoid. Latitude and longitude are in degrees and
// altitude is in meters.
type GeodeticPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt"`
}

// NewGeodeticPoint returns a point from its latitude, longitude and altitude.
func NewGeodeticPoint(lat, lng, alt float64) GeodeticPoint {
	return GeodeticPoint{Lat: lat, Lng: lng, Alt: alt}
}

// Point returns the horizontal position as a geo.Point.
func (p GeodeticPoint) Point() *geo.Point {
	return geo.NewPoint(p.Lat, p.Lng)
}

// DistanceTo returns the great circle distance in meters between two points, ignoring altitude.
func (p GeodeticPoint) DistanceTo(other GeodeticPoint) float64 {
	return p.Point().GreatCircleDistance(other.Point()) * 1000
}

// Twist is a linear and angular velocity together with its covariance. It is carried through
// unchanged.
type Twist struct {
	Linear     r3.Vector
	Angular    spatialmath.AngularVelocity
	Covariance [CovarianceSize]float64
}

// NavigationSample is a single geodetic fix from the navigation sensor.
type NavigationSample struct {
	Time time.Time
	// FrameID names the frame the sensor reports in; ChildFrameID names the body frame, if any.
	FrameID      string
	ChildFrameID string

	Position    GeodeticPoint
	Orientation quat.Number
	// PoseCovariance is row major over (x, y, z, roll, pitch, yaw).
	PoseCovariance [CovarianceSize]float64
	Twist          Twist
}

// SampleNotes are informational findings about a sample that do not stop it from being processed.
type SampleNotes struct {
	// EmptyFrameID is set when the sample has no frame, meaning the sensor is assumed to sit at the
	// robot origin.
	EmptyFrameID bool
}

// Notes returns the informational findings for the sample.
func (s NavigationSample) Notes() SampleNotes {
	return SampleNotes{EmptyFrameID: s.FrameID == ""}
}

// ValidateSample checks that a sample can be projected. It returns an error wrapping
// ErrInvalidSample naming the first non finite position component.
func ValidateSample(s NavigationSample) error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"latitude", s.Position.Lat},
		{"longitude", s.Position.Lng},
		{"altitude", s.Position.Alt},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return errors.Wrapf(ErrInvalidSample, "%s is %v", c.name, c.value)
		}
	}
	return nil
}

// Odometry is a pose output in one of the derived frames.
type Odometry struct {
	Time         time.Time
	FrameID      string
	ChildFrameID string

	Position    r3.Vector
	Orientation quat.Number
	// PoseCovariance is row major over (x, y, z, roll, pitch, yaw).
	PoseCovariance [CovarianceSize]float64
	Twist          Twist
}

// Pose returns the position and orientation of the output as a Pose.
func (o Odometry) Pose() spatialmath.Pose {
	return spatialmath.NewPose(o.Position, spatialmath.NewQuaternion(o.Orientation))
}
