package movementsensor

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/logging"
	"go.viam.com/geonav/spatialmath"
	"go.viam.com/geonav/utils"
)

const (
	// minHeadingDistance is how far, in meters, the sensor must move before a heading is derived
	// from two fixes.
	minHeadingDistance = 0.5

	errorWindow    = 5
	errorThreshold = 5

	// readingLogInterval is the minimum time between debug lines with the raw sensor reading.
	readingLogInterval = 2 * time.Second
)

// A Submitter accepts navigation samples, keeping only the latest.
type Submitter interface {
	Submit(sample geonav.NavigationSample)
}

// SamplerConfig describes how sensor readings are labeled and scaled.
type SamplerConfig struct {
	FrameID      string
	ChildFrameID string
	// UERE scales the reported dilution of precision into meters. Zero means DefaultUERE.
	UERE float64
	// YawOffset is the mounting offset, in degrees, applied to headings derived from successive
	// fixes.
	YawOffset float64
}

// Sampler polls a MovementSensor and builds navigation samples from its readings.
type Sampler struct {
	sensor  MovementSensor
	cfg     SamplerConfig
	clock   clock.Clock
	logger  logging.Logger
	lastErr *LastError

	readingLog *utils.Throttle

	mu      sync.Mutex
	lastFix *geo.Point
	lastYaw *float64
}

// NewSampler returns a sampler reading from sensor. A nil clock uses the wall clock.
func NewSampler(sensor MovementSensor, cfg SamplerConfig, clk clock.Clock, logger logging.Logger) *Sampler {
	if clk == nil {
		clk = clock.New()
	}
	return &Sampler{
		sensor:  sensor,
		cfg:     cfg,
		clock:   clk,
		logger:  logger.WithFields("frame", cfg.FrameID),
		lastErr: NewLastError(errorWindow, errorThreshold),

		readingLog: utils.NewThrottle(clk, readingLogInterval),
	}
}

// Sample reads the sensor once. Position is required; every other reading is used when the
// sensor implements it.
func (s *Sampler) Sample(ctx context.Context) (geonav.NavigationSample, error) {
	r, err := Read(ctx, s.sensor, nil)
	if err != nil {
		return geonav.NavigationSample{}, err
	}
	if r.Position == nil {
		return geonav.NavigationSample{}, errors.Wrap(ErrMethodUnimplementedPosition, "reading position")
	}
	if s.readingLog.Allow() {
		s.logger.Debugw("movement sensor reading", r.Fields()...)
	}

	sample := geonav.NavigationSample{
		Time:         s.clock.Now(),
		FrameID:      s.cfg.FrameID,
		ChildFrameID: s.cfg.ChildFrameID,
		Position:     geonav.NewGeodeticPoint(r.Position.Lat(), r.Position.Lng(), r.Altitude),
		Orientation:  s.orientation(r),
	}
	if r.LinearVelocity != nil {
		sample.Twist.Linear = *r.LinearVelocity
	}
	if r.AngularVelocity != nil {
		sample.Twist.Angular = *r.AngularVelocity
	}
	if r.Accuracy != nil {
		sample.PoseCovariance = r.Accuracy.PoseCovariance(s.cfg.UERE)
	}
	return sample, nil
}

// orientation prefers the sensor's own orientation, then its compass, then the bearing between
// this fix and the last one far enough away. Without any of those the last known yaw is reused,
// and identity is returned before any yaw is known.
func (s *Sampler) orientation(r Reading) quat.Number {
	if r.Orientation != nil {
		return r.Orientation.Quaternion()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.CompassHeading != nil:
		yaw := utils.CompassHeadingToYaw(*r.CompassHeading)
		s.lastYaw = &yaw
		s.lastFix = r.Position
	case s.lastFix == nil:
		s.lastFix = r.Position
	case s.lastFix.GreatCircleDistance(r.Position)*1000 >= minHeadingDistance:
		_, heading, _ := GetHeading(s.lastFix, r.Position, s.cfg.YawOffset)
		yaw := utils.CompassHeadingToYaw(heading)
		s.lastYaw = &yaw
		s.lastFix = r.Position
	}
	if s.lastYaw == nil {
		return quat.Number{Real: 1}
	}
	return spatialmath.NewEulerAnglesFromYaw(*s.lastYaw).Quaternion()
}

// Poll samples the sensor every interval and submits each sample until ctx is cancelled. A
// failed read is logged and skipped; once every read in a row of recent ones fails the last error
// is returned.
func (s *Sampler) Poll(ctx context.Context, interval time.Duration, submitter Submitter) error {
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		sample, err := s.Sample(ctx)
		s.lastErr.Set(err)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if repeated := s.lastErr.Get(); repeated != nil {
				return errors.Wrap(repeated, "movement sensor keeps failing")
			}
			s.logger.Warnw("failed to sample movement sensor", "error", err)
			continue
		}
		submitter.Submit(sample)
	}
}
