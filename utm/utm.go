// Package utm implements the Universal Transverse Mercator projection on the WGS84 ellipsoid.
//
// The forward and inverse projections use the Krüger n-series to third order, which is
// accurate to about a millimeter within a zone (and well beyond the widened Norway and
// Svalbard zones).
package utm

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// WGS84 ellipsoid parameters.
const (
	wgs84A = 6378137.0           // semi-major axis (meters)
	wgs84F = 1.0 / 298.257223563 // flattening

	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only

	// MinLatitude and MaxLatitude bound the band UTM is defined for.
	MinLatitude = -80.0
	MaxLatitude = 84.0

	// MaxZoneOffset is how far, in degrees of longitude, ProjectInZone accepts a point from the
	// forced zone's central meridian: the zone itself plus one neighbouring zone.
	MaxZoneOffset = 9.0
)

var (
	// ErrLatitudeOutOfRange is returned when a latitude falls outside the UTM bands.
	ErrLatitudeOutOfRange = errors.New("latitude outside of the UTM band [-80, 84]")
	// ErrInvalidZone is returned for zone numbers or band letters that do not exist.
	ErrInvalidZone = errors.New("invalid UTM zone")
	// ErrOutsideZone is returned when a point is too far from a forced zone to be projected into it.
	ErrOutsideZone = errors.New("point too far from the UTM zone")
)

// bandLetters are the 8 degree latitude bands from -80 upwards; I and O are skipped and X is 12 degrees tall.
const bandLetters = "CDEFGHJKLMNPQRSTUVWX"

// Krüger series coefficients, computed once from the third flattening.
var (
	n      = wgs84F / (2 - wgs84F)
	rectA  = wgs84A / (1 + n) * (1 + n*n/4 + n*n*n*n/64)
	alpha  = [3]float64{n/2 - 2*n*n/3 + 5*n*n*n/16, 13*n*n/48 - 3*n*n*n/5, 61 * n * n * n / 240}
	beta   = [3]float64{n/2 - 2*n*n/3 + 37*n*n*n/96, n*n/48 + n*n*n/15, 17 * n * n * n / 480}
	delta  = [3]float64{2*n - 2*n*n/3 - 2*n*n*n, 7*n*n/3 - 8*n*n*n/5, 56 * n * n * n / 15}
	twoRtN = 2 * math.Sqrt(n) / (1 + n)
)

// Coordinate is a planar UTM coordinate together with the zone it belongs to.
type Coordinate struct {
	Easting  float64
	Northing float64
	Zone     int
	Band     byte
}

// Designator returns the zone designator, e.g. "15T".
func (c Coordinate) Designator() string {
	return fmt.Sprintf("%d%c", c.Zone, c.Band)
}

// North reports whether the coordinate is in the northern hemisphere.
func (c Coordinate) North() bool {
	return c.Band >= 'N'
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s %.3f %.3f", c.Designator(), c.Easting, c.Northing)
}

// NormalizeLongitude wraps a longitude into [-180, 180).
func NormalizeLongitude(lng float64) float64 {
	return lng + 180 - math.Floor((lng+180)/360)*360 - 180
}

// ZoneNumber returns the UTM zone for the given position, including the Norway and Svalbard exceptions.
func ZoneNumber(lat, lng float64) int {
	lng = NormalizeLongitude(lng)
	zone := int(math.Floor((lng+180)/6)) + 1

	// southwest Norway
	if lat >= 56.0 && lat < 64.0 && lng >= 3.0 && lng < 12.0 {
		zone = 32
	}

	// Svalbard
	if lat >= 72.0 && lat < 84.0 {
		switch {
		case lng >= 0.0 && lng < 9.0:
			zone = 31
		case lng >= 9.0 && lng < 21.0:
			zone = 33
		case lng >= 21.0 && lng < 33.0:
			zone = 35
		case lng >= 33.0 && lng < 42.0:
			zone = 37
		}
	}
	return zone
}

// BandLetter returns the latitude band letter for the given latitude.
func BandLetter(lat float64) (byte, error) {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return 0, errors.Wrapf(ErrLatitudeOutOfRange, "latitude %f", lat)
	}
	idx := int(math.Floor((lat - MinLatitude) / 8))
	if idx >= len(bandLetters) {
		idx = len(bandLetters) - 1
	}
	return bandLetters[idx], nil
}

// CentralMeridian returns the longitude, in degrees, of the center of the given zone.
func CentralMeridian(zone int) float64 {
	return float64(zone-1)*6 - 180 + 3
}

// Project converts a latitude and longitude in degrees to UTM.
func Project(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinate{}, errors.Errorf("longitude %f is not finite", lng)
	}
	band, err := BandLetter(lat)
	if err != nil {
		return Coordinate{}, err
	}
	zone := ZoneNumber(lat, lng)
	easting, northing := forward(lat, NormalizeLongitude(lng), CentralMeridian(zone))
	if lat < 0 {
		northing += falseNorthing
	}
	return Coordinate{Easting: easting, Northing: northing, Zone: zone, Band: band}, nil
}

// ProjectInZone converts a latitude and longitude to UTM in a given zone instead of the zone the
// point naturally falls in. This is useful for keeping a trajectory in one planar frame across a
// zone boundary. Points more than MaxZoneOffset degrees from the zone's central meridian are
// rejected with ErrOutsideZone.
func ProjectInZone(lat, lng float64, zone int) (Coordinate, error) {
	if zone < 1 || zone > 60 {
		return Coordinate{}, errors.Wrapf(ErrInvalidZone, "zone number %d", zone)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinate{}, errors.Errorf("longitude %f is not finite", lng)
	}
	band, err := BandLetter(lat)
	if err != nil {
		return Coordinate{}, err
	}
	cm := CentralMeridian(zone)
	dLng := NormalizeLongitude(lng - cm)
	if math.Abs(dLng) > MaxZoneOffset {
		return Coordinate{}, errors.Wrapf(ErrOutsideZone, "longitude %f is %.1f degrees from zone %d", lng, dLng, zone)
	}
	easting, northing := forward(lat, cm+dLng, cm)
	if lat < 0 {
		northing += falseNorthing
	}
	return Coordinate{Easting: easting, Northing: northing, Zone: zone, Band: band}, nil
}

// Unproject converts a UTM coordinate back to latitude and longitude in degrees.
func Unproject(c Coordinate) (float64, float64, error) {
	if c.Zone < 1 || c.Zone > 60 {
		return 0, 0, errors.Wrapf(ErrInvalidZone, "zone number %d", c.Zone)
	}
	if !validBand(c.Band) {
		return 0, 0, errors.Wrapf(ErrInvalidZone, "band letter %q", c.Band)
	}
	northing := c.Northing
	if !c.North() {
		northing -= falseNorthing
	}
	lat, lng := inverse(c.Easting, northing, CentralMeridian(c.Zone))
	return lat, NormalizeLongitude(lng), nil
}

// ParseDesignator splits a zone designator such as "33X" into its zone number and band letter.
func ParseDesignator(designator string) (int, byte, error) {
	var zone int
	var band byte
	if _, err := fmt.Sscanf(designator, "%d%c", &zone, &band); err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidZone, "cannot parse designator %q", designator)
	}
	if band >= 'a' && band <= 'z' {
		band -= 'a' - 'A'
	}
	if zone < 1 || zone > 60 || !validBand(band) {
		return 0, 0, errors.Wrapf(ErrInvalidZone, "designator %q", designator)
	}
	return zone, band, nil
}

func validBand(band byte) bool {
	for i := 0; i < len(bandLetters); i++ {
		if bandLetters[i] == band {
			return true
		}
	}
	return false
}

// forward projects to (easting, northing) relative to the central meridian lng0, without the
// southern false northing.
func forward(lat, lng, lng0 float64) (float64, float64) {
	phi := lat * math.Pi / 180
	dLambda := (lng - lng0) * math.Pi / 180

	sinPhi := math.Sin(phi)
	t := math.Sinh(math.Atanh(sinPhi) - twoRtN*math.Atanh(twoRtN*sinPhi))
	xiP := math.Atan2(t, math.Cos(dLambda))
	etaP := math.Atanh(math.Sin(dLambda) / math.Sqrt(1+t*t))

	xi, eta := xiP, etaP
	for j := 0; j < 3; j++ {
		k := 2 * float64(j+1)
		xi += alpha[j] * math.Sin(k*xiP) * math.Cosh(k*etaP)
		eta += alpha[j] * math.Cos(k*xiP) * math.Sinh(k*etaP)
	}
	return falseEasting + scaleFactor*rectA*eta, scaleFactor * rectA * xi
}

// inverse is the reverse of forward; northing must already have the false northing removed.
func inverse(easting, northing, lng0 float64) (float64, float64) {
	xi := northing / (scaleFactor * rectA)
	eta := (easting - falseEasting) / (scaleFactor * rectA)

	xiP, etaP := xi, eta
	for j := 0; j < 3; j++ {
		k := 2 * float64(j+1)
		xiP -= beta[j] * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= beta[j] * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j := 0; j < 3; j++ {
		phi += delta[j] * math.Sin(2*float64(j+1)*chi)
	}
	dLambda := math.Atan2(math.Sinh(etaP), math.Cos(xiP))
	return phi * 180 / math.Pi, lng0 + dLambda*180/math.Pi
}
