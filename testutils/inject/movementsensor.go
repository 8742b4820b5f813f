package inject

import (
	"context"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"

	"go.viam.com/geonav/components/movementsensor"
	"go.viam.com/geonav/spatialmath"
)

// MovementSensor is an injected MovementSensor.
type MovementSensor struct {
	movementsensor.MovementSensor
	PositionFunc        func(ctx context.Context, extra map[string]interface{}) (*geo.Point, float64, error)
	LinearVelocityFunc  func(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)
	AngularVelocityFunc func(ctx context.Context, extra map[string]interface{}) (spatialmath.AngularVelocity, error)
	CompassHeadingFunc  func(ctx context.Context, extra map[string]interface{}) (float64, error)
	OrientationFunc     func(ctx context.Context, extra map[string]interface{}) (spatialmath.Orientation, error)
	AccuracyFunc        func(ctx context.Context, extra map[string]interface{}) (*movementsensor.Accuracy, error)
	CloseFunc           func(ctx context.Context) error
}

// Close calls the injected Close or the real version.
func (i *MovementSensor) Close(ctx context.Context) error {
	if i.CloseFunc == nil {
		if i.MovementSensor == nil {
			return nil
		}
		return i.MovementSensor.Close(ctx)
	}
	return i.CloseFunc(ctx)
}

// Position func or passthrough.
func (i *MovementSensor) Position(ctx context.Context, extra map[string]interface{}) (*geo.Point, float64, error) {
	if i.PositionFunc == nil {
		return i.MovementSensor.Position(ctx, extra)
	}
	return i.PositionFunc(ctx, extra)
}

// LinearVelocity func or passthrough.
func (i *MovementSensor) LinearVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	if i.LinearVelocityFunc == nil {
		return i.MovementSensor.LinearVelocity(ctx, extra)
	}
	return i.LinearVelocityFunc(ctx, extra)
}

// AngularVelocity func or passthrough.
func (i *MovementSensor) AngularVelocity(ctx context.Context, extra map[string]interface{}) (spatialmath.AngularVelocity, error) {
	if i.AngularVelocityFunc == nil {
		return i.MovementSensor.AngularVelocity(ctx, extra)
	}
	return i.AngularVelocityFunc(ctx, extra)
}

// Orientation func or passthrough.
func (i *MovementSensor) Orientation(ctx context.Context, extra map[string]interface{}) (spatialmath.Orientation, error) {
	if i.OrientationFunc == nil {
		return i.MovementSensor.Orientation(ctx, extra)
	}
	return i.OrientationFunc(ctx, extra)
}

// CompassHeading func or passthrough.
func (i *MovementSensor) CompassHeading(ctx context.Context, extra map[string]interface{}) (float64, error) {
	if i.CompassHeadingFunc == nil {
		return i.MovementSensor.CompassHeading(ctx, extra)
	}
	return i.CompassHeadingFunc(ctx, extra)
}

// Accuracy func or passthrough.
func (i *MovementSensor) Accuracy(ctx context.Context, extra map[string]interface{}) (*movementsensor.Accuracy, error) {
	if i.AccuracyFunc == nil {
		return i.MovementSensor.Accuracy(ctx, extra)
	}
	return i.AccuracyFunc(ctx, extra)
}
