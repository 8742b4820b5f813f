package geonav

import (
	"go.viam.com/geonav/spatialmath"
	"go.viam.com/geonav/utm"
)

// State is the stage a Session is in.
type State int

const (
	// AwaitingDatum is the initial state; samples are refused until a datum is established.
	AwaitingDatum State = iota
	// Active is entered once a datum is established and is never left.
	Active
)

func (s State) String() string {
	switch s {
	case AwaitingDatum:
		return "awaiting_datum"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Session is the transform state threaded through EstablishDatum and Process. It is a value: each
// operation returns the next session and leaves its input untouched. The poses it holds are never
// mutated, so copies may be shared freely.
type Session struct {
	utmToWorld spatialmath.Pose
	worldToUTM spatialmath.Pose
	datumZone  int

	utmToNav spatialmath.Pose
	navToUTM spatialmath.Pose
	lastFix  utm.Coordinate

	hasDatum bool
}

// NewSession returns a session awaiting its datum.
func NewSession() Session {
	return Session{}
}

// State returns the stage the session is in.
func (s Session) State() State {
	if s.hasDatum {
		return Active
	}
	return AwaitingDatum
}

// HasDatum reports whether the datum has been established.
func (s Session) HasDatum() bool {
	return s.hasDatum
}

// UTMToWorld returns the datum transform, or nil before the datum is established.
func (s Session) UTMToWorld() spatialmath.Pose {
	return s.utmToWorld
}

// WorldToUTM returns the inverse of the datum transform, or nil before the datum is established.
func (s Session) WorldToUTM() spatialmath.Pose {
	return s.worldToUTM
}

// UTMToNav returns the transform of the last accepted sample, or nil if none has been accepted.
func (s Session) UTMToNav() spatialmath.Pose {
	return s.utmToNav
}

// NavToUTM returns the inverse of UTMToNav.
func (s Session) NavToUTM() spatialmath.Pose {
	return s.navToUTM
}

// DatumZone returns the UTM zone the datum was projected in, or 0 before the datum is established.
func (s Session) DatumZone() int {
	return s.datumZone
}

// LastFix returns the projection of the last accepted sample.
func (s Session) LastFix() utm.Coordinate {
	return s.lastFix
}
