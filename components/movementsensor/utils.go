package movementsensor

import (
	"errors"
	"math"
	"sync"

	geo "github.com/kellydunn/golang-geo"

	"go.viam.com/geonav/utils"
)

// GetHeading returns the bearing from gps1 to gps2 in [0, 360), the compass heading of the body
// once the antenna mounting yawOffset is removed, and the bearing as a signed angle in (-180, 180].
// 0 degrees indicate North, 90 degrees indicate East and so on.
func GetHeading(gps1, gps2 *geo.Point, yawOffset float64) (float64, float64, float64) {
	lat1, lat2 := utils.DegToRad(gps1.Lat()), utils.DegToRad(gps2.Lat())
	dLon := utils.DegToRad(gps2.Lng() - gps1.Lng())

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := utils.ModAngDeg(utils.RadToDeg(math.Atan2(y, x)))

	standardBearing := brng
	if brng > 180 {
		standardBearing = brng - 360
	}
	return brng, utils.ModAngDeg(brng - yawOffset), standardBearing
}

var (
	// ErrMethodUnimplementedAccuracy returns error if the Accuracy method is unimplemented.
	ErrMethodUnimplementedAccuracy = errors.New("Accuracy Unimplemented")
	// ErrMethodUnimplementedPosition returns error if the Position method is unimplemented.
	ErrMethodUnimplementedPosition = errors.New("Position Unimplemented")
	// ErrMethodUnimplementedOrientation returns error if the Orientation method is unimplemented.
	ErrMethodUnimplementedOrientation = errors.New("Orientation Unimplemented")
	// ErrMethodUnimplementedLinearVelocity returns error if the LinearVelocity method is unimplemented.
	ErrMethodUnimplementedLinearVelocity = errors.New("LinearVelocity Unimplemented")
	// ErrMethodUnimplementedAngularVelocity returns error if the AngularVelocity method is unimplemented.
	ErrMethodUnimplementedAngularVelocity = errors.New("AngularVelocity Unimplemented")
	// ErrMethodUnimplementedCompassHeading returns error if the CompassHeading method is unimplemented.
	ErrMethodUnimplementedCompassHeading = errors.New("CompassHeading Unimplemented")
)

// LastError remembers the outcome of the most recent reads. Get only reports an error once enough
// of them failed, which hides the occasional bad read from a flaky sensor.
type LastError struct {
	threshold int

	mu    sync.Mutex
	errs  []error // ring of recent outcomes, nil for success
	next  int     // slot the next outcome is written to
	count int     // non-nil entries in errs
}

// NewLastError returns a LastError that reports once at least threshold of the last size outcomes
// were errors.
func NewLastError(size, threshold int) *LastError {
	return &LastError{errs: make([]error, size), threshold: threshold}
}

// Set records the outcome of a read.
func (le *LastError) Set(err error) {
	le.mu.Lock()
	defer le.mu.Unlock()

	if le.errs[le.next] != nil {
		le.count--
	}
	if err != nil {
		le.count++
	}
	le.errs[le.next] = err
	le.next = (le.next + 1) % len(le.errs)
}

// Get returns the newest error if enough recent outcomes were errors, and nil otherwise. Reporting
// an error clears the history so the same failures are not reported twice.
func (le *LastError) Get() error {
	le.mu.Lock()
	defer le.mu.Unlock()

	if le.count < le.threshold {
		return nil
	}

	var newest error
	for i := 1; i <= len(le.errs); i++ {
		if err := le.errs[(le.next-i+len(le.errs))%len(le.errs)]; err != nil {
			newest = err
			break
		}
	}
	for i := range le.errs {
		le.errs[i] = nil
	}
	le.count = 0
	return newest
}
