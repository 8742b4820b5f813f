// Package movementsensor defines the interface of a sensor reporting geodetic position, velocity
// and heading, and turns its readings into navigation samples.
package movementsensor

import (
	"context"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"

	"go.viam.com/geonav/spatialmath"
)

// A MovementSensor reports information about the robot's direction, position and speed.
type MovementSensor interface {
	Position(ctx context.Context, extra map[string]interface{}) (*geo.Point, float64, error)                // (lat, long), altitude (m)
	LinearVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)                    // m / sec
	AngularVelocity(ctx context.Context, extra map[string]interface{}) (spatialmath.AngularVelocity, error) // radians / sec
	CompassHeading(ctx context.Context, extra map[string]interface{}) (float64, error)                      // [0->360)
	Orientation(ctx context.Context, extra map[string]interface{}) (spatialmath.Orientation, error)
	Accuracy(ctx context.Context, extra map[string]interface{}) (*Accuracy, error)
	Close(ctx context.Context) error
}

// Reading is one pass over every method of a MovementSensor. Fields for methods the sensor does
// not implement are nil.
type Reading struct {
	Position        *geo.Point
	Altitude        float64
	LinearVelocity  *r3.Vector
	AngularVelocity *spatialmath.AngularVelocity
	CompassHeading  *float64
	Orientation     spatialmath.Orientation
	Accuracy        *Accuracy
}

// implemented reports whether a call succeeded. The sensor's unimplemented error is not an error
// here; any other error is returned.
func implemented(err, unimplemented error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unimplemented):
		return false, nil
	default:
		return false, err
	}
}

// Read queries every method of the sensor once. The first failure other than an unimplemented
// method is returned.
func Read(ctx context.Context, sensor MovementSensor, extra map[string]interface{}) (Reading, error) {
	var r Reading

	pos, alt, err := sensor.Position(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedPosition); err != nil {
		return Reading{}, errors.Wrap(err, "reading position")
	} else if ok {
		r.Position, r.Altitude = pos, alt
	}

	vel, err := sensor.LinearVelocity(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedLinearVelocity); err != nil {
		return Reading{}, errors.Wrap(err, "reading linear velocity")
	} else if ok {
		r.LinearVelocity = &vel
	}

	avel, err := sensor.AngularVelocity(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedAngularVelocity); err != nil {
		return Reading{}, errors.Wrap(err, "reading angular velocity")
	} else if ok {
		r.AngularVelocity = &avel
	}

	heading, err := sensor.CompassHeading(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedCompassHeading); err != nil {
		return Reading{}, errors.Wrap(err, "reading compass heading")
	} else if ok {
		r.CompassHeading = &heading
	}

	ori, err := sensor.Orientation(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedOrientation); err != nil {
		return Reading{}, errors.Wrap(err, "reading orientation")
	} else if ok {
		r.Orientation = ori
	}

	acc, err := sensor.Accuracy(ctx, extra)
	if ok, err := implemented(err, ErrMethodUnimplementedAccuracy); err != nil {
		return Reading{}, errors.Wrap(err, "reading accuracy")
	} else if ok {
		r.Accuracy = acc
	}

	return r, nil
}

// Fields returns the reading as alternating keys and values for structured logging.
func (r Reading) Fields() []interface{} {
	var fields []interface{}
	if r.Position != nil {
		fields = append(fields, "lat", r.Position.Lat(), "lng", r.Position.Lng(), "altitude", r.Altitude)
	}
	if r.LinearVelocity != nil {
		fields = append(fields, "linear_velocity", *r.LinearVelocity)
	}
	if r.AngularVelocity != nil {
		fields = append(fields, "angular_velocity", *r.AngularVelocity)
	}
	if r.CompassHeading != nil {
		fields = append(fields, "compass", *r.CompassHeading)
	}
	if r.Orientation != nil {
		fields = append(fields, "orientation", r.Orientation.Quaternion())
	}
	if r.Accuracy != nil {
		fields = append(fields, "hdop", r.Accuracy.Hdop, "vdop", r.Accuracy.Vdop)
	}
	return fields
}
