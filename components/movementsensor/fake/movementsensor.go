// Package fake is a fake MovementSensor for testing. It drives along its compass heading at a
// constant speed each time Move is called.
package fake

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"

	"go.viam.com/geonav/components/movementsensor"
	"go.viam.com/geonav/spatialmath"
)

// Config sets the starting state of the fake.
type Config struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Altitude float64 `json:"altitude"`
	// Heading is a compass heading in degrees.
	Heading float64 `json:"heading"`
	// Speed is in meters per second along Heading.
	Speed float64 `json:"speed"`
}

// MovementSensor is a fake movement sensor with a compass and no orientation.
type MovementSensor struct {
	mu       sync.Mutex
	position *geo.Point
	altitude float64
	heading  float64
	speed    float64
	closed   bool
}

// NewMovementSensor returns a fake at the configured start.
func NewMovementSensor(cfg Config) *MovementSensor {
	return &MovementSensor{
		position: geo.NewPoint(cfg.Lat, cfg.Lng),
		altitude: cfg.Altitude,
		heading:  cfg.Heading,
		speed:    cfg.Speed,
	}
}

// Move advances the fake along its heading by speed times seconds.
func (f *MovementSensor) Move(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = f.position.PointAtDistanceAndBearing(f.speed*seconds/1000, f.heading)
}

// SetHeading turns the fake to a new compass heading.
func (f *MovementSensor) SetHeading(heading float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heading = heading
}

// Position returns the current fix.
func (f *MovementSensor) Position(ctx context.Context, extra map[string]interface{}) (*geo.Point, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return geo.NewPoint(f.position.Lat(), f.position.Lng()), f.altitude, nil
}

// LinearVelocity returns the speed along the body's forward axis.
func (f *MovementSensor) LinearVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return r3.Vector{X: f.speed}, nil
}

// AngularVelocity is always zero.
func (f *MovementSensor) AngularVelocity(ctx context.Context, extra map[string]interface{}) (spatialmath.AngularVelocity, error) {
	return spatialmath.AngularVelocity{}, nil
}

// CompassHeading returns the heading in degrees.
func (f *MovementSensor) CompassHeading(ctx context.Context, extra map[string]interface{}) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heading, nil
}

// Orientation is unimplemented.
func (f *MovementSensor) Orientation(ctx context.Context, extra map[string]interface{}) (spatialmath.Orientation, error) {
	return nil, movementsensor.ErrMethodUnimplementedOrientation
}

// Accuracy returns a fixed RTK float quality.
func (f *MovementSensor) Accuracy(ctx context.Context, extra map[string]interface{}) (*movementsensor.Accuracy, error) {
	return &movementsensor.Accuracy{
		AccuracyMap:        map[string]float32{},
		Hdop:               0.8,
		Vdop:               1.2,
		NmeaFix:            5,
		CompassDegreeError: 2,
	}, nil
}

// Close marks the fake closed.
func (f *MovementSensor) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
