// Package config defines the configuration of the geonav node and how it is read.
package config

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/referenceframe"
)

// Defaults applied to fields left unset.
const (
	DefaultFrequency  = 10.0
	DefaultInputTopic = "odometry/nav"
	DefaultUTMTopic   = "odometry/utm"
	DefaultWorldTopic = "odometry/odom"
)

// Config describes how the node is set up.
type Config struct {
	// Frequency is the rate in Hz at which pending samples are drained.
	Frequency float64 `json:"frequency"`
	// BroadcastUTMTransform sends the world to UTM transform to the transform registry once the
	// datum is established.
	BroadcastUTMTransform bool `json:"broadcast_utm_transform"`
	ZeroAltitude          bool `json:"zero_altitude"`

	// Datum is the raw datum: latitude, longitude and yaw, either as a list or as a single string
	// of separated values. It is decoded by DatumConfig.
	Datum             interface{} `json:"datum,omitempty"`
	ApplyDatumHeading bool        `json:"apply_datum_heading"`

	TFPrefix        string `json:"tf_prefix"`
	WorldFrame      string `json:"world_frame"`
	BaseLinkFrame   string `json:"base_link_frame"`
	CovarianceFrame string `json:"covariance_frame"`
	LockToDatumZone bool   `json:"lock_to_datum_zone"`

	InputTopic string `json:"input_topic"`
	UTMTopic   string `json:"utm_topic"`
	WorldTopic string `json:"world_topic"`
}

// ApplyDefaults fills in every field that was left at its zero value.
func (c *Config) ApplyDefaults() {
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
	}
	if c.WorldFrame == "" {
		c.WorldFrame = geonav.DefaultWorldFrame
	}
	if c.BaseLinkFrame == "" {
		c.BaseLinkFrame = geonav.DefaultBaseLinkFrame
	}
	if c.CovarianceFrame == "" {
		c.CovarianceFrame = string(geonav.CovarianceFrameIdentity)
	}
	if c.InputTopic == "" {
		c.InputTopic = DefaultInputTopic
	}
	if c.UTMTopic == "" {
		c.UTMTopic = DefaultUTMTopic
	}
	if c.WorldTopic == "" {
		c.WorldTopic = DefaultWorldTopic
	}
}

// Validate ensures all parts of the config are valid. The datum is not checked here since a bad
// datum is not fatal; see Datum.
func (c *Config) Validate(path string) error {
	if math.IsNaN(c.Frequency) || math.IsInf(c.Frequency, 0) || c.Frequency <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("frequency must be positive and finite, got %v", c.Frequency))
	}
	if c.Interval() <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("frequency %v is too high to schedule", c.Frequency))
	}
	if !geonav.CovarianceFrame(c.CovarianceFrame).Valid() {
		return utils.NewConfigValidationError(path, errors.Errorf(
			"covariance_frame must be one of %q, %q or %q, got %q",
			geonav.CovarianceFrameIdentity, geonav.CovarianceFrameDatum, geonav.CovarianceFrameSample, c.CovarianceFrame))
	}
	for _, f := range []struct{ name, value string }{
		{"world_frame", c.WorldFrame},
		{"base_link_frame", c.BaseLinkFrame},
		{"input_topic", c.InputTopic},
		{"utm_topic", c.UTMTopic},
		{"world_topic", c.WorldTopic},
	} {
		if f.value == "" {
			return utils.NewConfigValidationFieldRequiredError(path, f.name)
		}
	}
	if c.UTMTopic == c.WorldTopic {
		return utils.NewConfigValidationError(path, errors.New("utm_topic and world_topic must differ"))
	}
	return nil
}

// Interval returns the period between drains of the pending sample.
func (c *Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.Frequency)
}

// Options returns the processing options, with the world and base link frames namespaced under
// TFPrefix. The UTM frame is never namespaced.
func (c *Config) Options() geonav.Options {
	return geonav.Options{
		WorldFrame:      referenceframe.AppendPrefix(c.TFPrefix, c.WorldFrame),
		BaseLinkFrame:   referenceframe.AppendPrefix(c.TFPrefix, c.BaseLinkFrame),
		ZeroAltitude:    c.ZeroAltitude,
		CovarianceFrame: geonav.CovarianceFrame(c.CovarianceFrame),
		LockToDatumZone: c.LockToDatumZone,
	}
}
