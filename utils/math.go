// Package utils contains small helpers shared by the geonav packages.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ModAngDeg wraps an angle in degrees into [0, 360).
func ModAngDeg(ang float64) float64 {
	return math.Mod(math.Mod(ang, 360)+360, 360)
}

// CompassHeadingToYaw converts a compass heading, in degrees clockwise from north, to a yaw in radians
// counterclockwise from east, wrapped into (-pi, pi].
func CompassHeadingToYaw(heading float64) float64 {
	yaw := DegToRad(ModAngDeg(90 - heading))
	if yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	return yaw
}
