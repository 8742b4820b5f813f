package spatialmath

import (
	"github.com/golang/geo/r3"
)

// AngularVelocity contains angular velocity in rad/s across x/y/z axes.
type AngularVelocity r3.Vector

// Vector returns the angular velocity as a plain r3 vector.
func (av AngularVelocity) Vector() r3.Vector {
	return r3.Vector(av)
}
