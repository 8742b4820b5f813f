package geonav

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/geonav/referenceframe"
	"go.viam.com/geonav/spatialmath"
	"go.viam.com/geonav/utm"
)

// UTMFrame is the frame name of the projection frame. It is never namespaced.
const UTMFrame = "utm"

// headingTolerance is the largest heading, in radians, that is quietly treated as zero.
const headingTolerance = 0.01

// DatumConfig is the reference point that anchors the world frame.
type DatumConfig struct {
	Point GeodeticPoint
	// Heading is the yaw of the world frame in radians, counterclockwise from east.
	Heading float64
	// ApplyHeading rotates the world frame by Heading. When false the heading is only reported.
	ApplyHeading bool
}

// HeadingIgnored reports whether a meaningful heading was configured but will not be applied.
func (c DatumConfig) HeadingIgnored() bool {
	return !c.ApplyHeading && math.Abs(c.Heading) > headingTolerance
}

func (c DatumConfig) orientation() spatialmath.Orientation {
	if !c.ApplyHeading {
		return spatialmath.NewZeroOrientation()
	}
	return spatialmath.NewEulerAnglesFromYaw(c.Heading)
}

// Datum is an established datum: the configuration it came from, its projection and the fixed
// transform between the projection frame and the world frame.
type Datum struct {
	Config     DatumConfig
	UTM        utm.Coordinate
	UTMToWorld spatialmath.Pose
}

// RPY returns the orientation of the world frame as roll, pitch and yaw.
func (d Datum) RPY() *spatialmath.EulerAngles {
	return d.UTMToWorld.Orientation().EulerAngles()
}

// BroadcastTransform returns the one time transform announcing the datum to a transform registry: the
// parent is the world frame and the child is the projection frame. With zeroAltitude the emitted copy
// has its z cleared; the session keeps the true altitude.
func (d Datum) BroadcastTransform(worldFrame string, zeroAltitude bool, stamp time.Time) referenceframe.TransformStamped {
	pose := d.UTMToWorld
	if zeroAltitude {
		pt := pose.Point()
		pose = spatialmath.NewPose(r3.Vector{X: pt.X, Y: pt.Y}, pose.Orientation())
	}
	return referenceframe.TransformStamped{
		Time:   stamp,
		Parent: worldFrame,
		Child:  UTMFrame,
		Pose:   pose,
	}
}

// EstablishDatum projects the datum and installs the fixed transform between the projection frame and
// the world frame in the session, moving it to the Active state. If the datum cannot be projected the
// session is returned unchanged along with the error. Calling it again replaces the previous datum.
func EstablishDatum(s Session, cfg DatumConfig) (Session, Datum, error) {
	coord, err := utm.Project(cfg.Point.Lat, cfg.Point.Lng)
	if err != nil {
		return s, Datum{}, err
	}
	utmToWorld := spatialmath.NewPose(
		r3.Vector{X: coord.Easting, Y: coord.Northing, Z: cfg.Point.Alt},
		cfg.orientation(),
	)

	s.utmToWorld = utmToWorld
	s.worldToUTM = spatialmath.PoseInverse(utmToWorld)
	s.datumZone = coord.Zone
	s.hasDatum = true
	return s, Datum{Config: cfg, UTM: coord, UTMToWorld: utmToWorld}, nil
}
