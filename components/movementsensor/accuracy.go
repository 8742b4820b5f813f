package movementsensor

import (
	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/utils"
)

// DefaultUERE is the user equivalent range error, in meters, used to scale dilution of precision
// into a standard deviation.
const DefaultUERE = 3.0

// UnknownVariance marks a covariance diagonal entry the sensor does not observe.
const UnknownVariance = 99999.0

// Accuracy is the precision a sensor reports for its latest fix.
type Accuracy struct {
	AccuracyMap        map[string]float32
	Hdop               float32
	Vdop               float32
	NmeaFix            int32
	CompassDegreeError float32
}

// PoseCovariance builds a row major 6x6 pose covariance from the dilution of precision and the
// compass error. Horizontal variance is (hdop*uere)^2 on x and y and (vdop*uere)^2 on z. Roll and
// pitch are never observed; yaw is observed only when a compass error is reported.
func (a *Accuracy) PoseCovariance(uere float64) [geonav.CovarianceSize]float64 {
	var cov [geonav.CovarianceSize]float64
	if uere <= 0 {
		uere = DefaultUERE
	}
	horizontal := float64(a.Hdop) * uere
	vertical := float64(a.Vdop) * uere
	if a.Vdop == 0 {
		vertical = horizontal
	}
	cov[0] = horizontal * horizontal
	cov[7] = horizontal * horizontal
	cov[14] = vertical * vertical
	cov[21] = UnknownVariance
	cov[28] = UnknownVariance
	cov[35] = UnknownVariance
	if a.CompassDegreeError > 0 {
		yaw := utils.DegToRad(float64(a.CompassDegreeError))
		cov[35] = yaw * yaw
	}
	return cov
}
