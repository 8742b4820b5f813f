// Package geonav turns geodetic navigation fixes into poses in the UTM projection frame and in a
// datum anchored world frame.
//
// The transform state lives in a Session value. EstablishDatum fixes the world frame once, then
// Process maps each NavigationSample to its two Odometry outputs and the next session.
package geonav

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/geonav/covariance"
	"go.viam.com/geonav/spatialmath"
	"go.viam.com/geonav/utm"
)

// CovarianceFrame selects the rotation applied to the sample covariance for the UTM output.
type CovarianceFrame string

const (
	// CovarianceFrameIdentity leaves the covariance as reported.
	CovarianceFrameIdentity CovarianceFrame = "identity"
	// CovarianceFrameDatum rotates by the rotation of the world to UTM transform.
	CovarianceFrameDatum CovarianceFrame = "datum"
	// CovarianceFrameSample rotates by the rotation of the current sample's nav to UTM transform.
	CovarianceFrameSample CovarianceFrame = "sample"
)

// Valid reports whether f is a known covariance frame. The empty value means identity.
func (f CovarianceFrame) Valid() bool {
	switch f {
	case "", CovarianceFrameIdentity, CovarianceFrameDatum, CovarianceFrameSample:
		return true
	default:
		return false
	}
}

// Default frame names.
const (
	DefaultWorldFrame    = "odom"
	DefaultBaseLinkFrame = "base_link"
)

// Options control how samples are turned into outputs.
type Options struct {
	// WorldFrame is the frame name of the world output, already namespaced.
	WorldFrame string
	// BaseLinkFrame is used as the output child frame when the sample has none.
	BaseLinkFrame string
	// ZeroAltitude clears z on both outputs.
	ZeroAltitude bool
	// CovarianceFrame selects the covariance rotation.
	CovarianceFrame CovarianceFrame
	// LockToDatumZone projects every sample in the datum's zone instead of its own, keeping the UTM
	// output continuous when the robot crosses a zone boundary.
	LockToDatumZone bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		WorldFrame:      DefaultWorldFrame,
		BaseLinkFrame:   DefaultBaseLinkFrame,
		CovarianceFrame: CovarianceFrameIdentity,
	}
}

// BuildNavTransform projects the sample and returns the transform from the projection frame to the
// sensor, its inverse and the projected coordinate. The sample orientation is used as the rotation; a
// zero quaternion carries no rotation and is treated as the identity.
func BuildNavTransform(sample NavigationSample) (spatialmath.Pose, spatialmath.Pose, utm.Coordinate, error) {
	coord, err := utm.Project(sample.Position.Lat, sample.Position.Lng)
	if err != nil {
		return nil, nil, utm.Coordinate{}, err
	}
	utmToNav, navToUTM := navTransform(sample, coord)
	return utmToNav, navToUTM, coord, nil
}

// BuildNavTransformInZone is BuildNavTransform with the projection forced into the given zone.
func BuildNavTransformInZone(sample NavigationSample, zone int) (spatialmath.Pose, spatialmath.Pose, utm.Coordinate, error) {
	coord, err := utm.ProjectInZone(sample.Position.Lat, sample.Position.Lng, zone)
	if err != nil {
		return nil, nil, utm.Coordinate{}, err
	}
	utmToNav, navToUTM := navTransform(sample, coord)
	return utmToNav, navToUTM, coord, nil
}

func navTransform(sample NavigationSample, coord utm.Coordinate) (spatialmath.Pose, spatialmath.Pose) {
	utmToNav := spatialmath.NewPose(
		r3.Vector{X: coord.Easting, Y: coord.Northing, Z: sample.Position.Alt},
		spatialmath.NewQuaternion(spatialmath.Normalize(sample.Orientation)),
	)
	return utmToNav, spatialmath.PoseInverse(utmToNav)
}

// covarianceRotation derives the covariance rotation from the session's current transforms.
func covarianceRotation(s Session, frame CovarianceFrame) (*spatialmath.RotationMatrix, error) {
	switch frame {
	case "", CovarianceFrameIdentity:
		return spatialmath.IdentityRotationMatrix(), nil
	case CovarianceFrameDatum:
		if s.worldToUTM == nil {
			return nil, ErrNoDatum
		}
		return s.worldToUTM.Orientation().RotationMatrix(), nil
	case CovarianceFrameSample:
		if s.navToUTM == nil {
			return nil, errors.New("no sample transform to rotate the covariance by")
		}
		return s.navToUTM.Orientation().RotationMatrix(), nil
	default:
		return nil, errors.Errorf("unknown covariance frame %q", frame)
	}
}

// ComposeOutputs builds the UTM and world outputs for a sample whose transform is already installed in
// the session. The UTM output is first and the world output second.
func ComposeOutputs(s Session, sample NavigationSample, opts Options) ([]Odometry, error) {
	if !s.hasDatum {
		return nil, ErrNoDatum
	}
	if s.utmToNav == nil {
		return nil, errors.New("no sample transform has been built")
	}

	rot, err := covarianceRotation(s, opts.CovarianceFrame)
	if err != nil {
		return nil, err
	}
	rotated, err := covariance.Rotate(covariance.FromRowMajor(sample.PoseCovariance), rot)
	if err != nil {
		return nil, err
	}

	childFrame := sample.ChildFrameID
	if childFrame == "" {
		childFrame = opts.BaseLinkFrame
	}

	utmOut := Odometry{
		Time:           sample.Time,
		FrameID:        UTMFrame,
		ChildFrameID:   childFrame,
		Position:       s.utmToNav.Point(),
		Orientation:    sample.Orientation,
		PoseCovariance: covariance.ToRowMajor(rotated),
		Twist:          sample.Twist,
	}

	worldToNav := spatialmath.Compose(s.worldToUTM, s.utmToNav)
	worldOut := utmOut
	worldOut.FrameID = opts.WorldFrame
	worldOut.Position = worldToNav.Point()
	worldOut.Orientation = worldToNav.Orientation().Quaternion()

	if opts.ZeroAltitude {
		utmOut.Position.Z = 0
		worldOut.Position.Z = 0
	}
	return []Odometry{utmOut, worldOut}, nil
}

// Process runs one sample through the transform chain. It returns the next session and the UTM and
// world outputs. When the session has no datum, or the sample is invalid or cannot be projected, the
// input session is returned unchanged with no outputs and the error.
func Process(s Session, sample NavigationSample, opts Options) (Session, []Odometry, error) {
	if !s.hasDatum {
		return s, nil, ErrNoDatum
	}
	if err := ValidateSample(sample); err != nil {
		return s, nil, err
	}

	var (
		utmToNav, navToUTM spatialmath.Pose
		coord              utm.Coordinate
		err                error
	)
	if opts.LockToDatumZone {
		utmToNav, navToUTM, coord, err = BuildNavTransformInZone(sample, s.datumZone)
	} else {
		utmToNav, navToUTM, coord, err = BuildNavTransform(sample)
	}
	if err != nil {
		return s, nil, err
	}

	next := s
	next.utmToNav = utmToNav
	next.navToUTM = navToUTM
	next.lastFix = coord
	outputs, err := ComposeOutputs(next, sample, opts)
	if err != nil {
		return s, nil, err
	}
	return next, outputs, nil
}
