package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/logging"
)

// ErrMalformedDatum is returned when the datum cannot be read as latitude, longitude and yaw.
var ErrMalformedDatum = errors.New("malformed datum")

// Diagnostic is a message about the configuration that should be logged but does not stop the node.
type Diagnostic struct {
	Level   logging.Level
	Message string
}

// LogDiagnostics writes each diagnostic to the logger at its level.
func LogDiagnostics(logger logging.Logger, diags []Diagnostic) {
	for _, d := range diags {
		switch d.Level {
		case logging.DEBUG:
			logger.Debug(d.Message)
		case logging.INFO:
			logger.Info(d.Message)
		case logging.WARN:
			logger.Warn(d.Message)
		case logging.ERROR:
			logger.Error(d.Message)
		}
	}
}

// ParseDatum reads a datum of latitude and longitude in degrees followed by a yaw in radians. raw may
// be a list of numbers or strings, or one string of values separated by commas or spaces. Values after
// the third are ignored with a warning. The datum altitude is always 0.
func ParseDatum(raw interface{}) (geonav.DatumConfig, []Diagnostic, error) {
	var items []interface{}
	switch v := raw.(type) {
	case nil:
		return geonav.DatumConfig{}, nil, errors.Wrap(ErrMalformedDatum, "datum is empty")
	case []interface{}:
		items = v
	case []float64:
		items = lo.ToAnySlice(v)
	case []string:
		items = lo.ToAnySlice(v)
	case string:
		items = lo.ToAnySlice(strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}))
	default:
		return geonav.DatumConfig{}, nil, errors.Wrapf(ErrMalformedDatum, "datum must be a list, got %T", raw)
	}

	if len(items) < 3 {
		return geonav.DatumConfig{}, nil, errors.Wrapf(ErrMalformedDatum, "datum needs at least 3 values, got %d", len(items))
	}
	var diags []Diagnostic
	if len(items) > 3 {
		diags = append(diags, Diagnostic{
			Level: logging.WARN,
			Message: "deprecated datum parameter configuration detected; only the first three values " +
				"(latitude, longitude, yaw) will be used",
		})
	}

	var values [3]float64
	for i, name := range []string{"latitude", "longitude", "yaw"} {
		f, err := cast.ToFloat64E(items[i])
		if err != nil {
			return geonav.DatumConfig{}, nil, errors.Wrapf(ErrMalformedDatum, "datum %s: %v", name, err)
		}
		values[i] = f
	}
	return geonav.DatumConfig{
		Point:   geonav.NewGeodeticPoint(values[0], values[1], 0),
		Heading: values[2],
	}, diags, nil
}

// DatumConfig returns the datum to establish. A missing or malformed datum is not an error: it is
// replaced by (0, 0, 0) and reported in the diagnostics, as is a heading that will be ignored.
func (c *Config) DatumConfig() (geonav.DatumConfig, []Diagnostic) {
	datum, diags, err := ParseDatum(c.Datum)
	if err != nil {
		msg := "datum parameter is not supplied"
		if c.Datum != nil {
			msg = err.Error()
		}
		diags = append(diags,
			Diagnostic{Level: logging.ERROR, Message: msg},
			Diagnostic{Level: logging.ERROR, Message: "setting datum to 0,0,0 which is non-ideal"},
		)
		datum = geonav.DatumConfig{}
	}
	datum.ApplyHeading = c.ApplyDatumHeading
	if datum.HeadingIgnored() {
		diags = append(diags, Diagnostic{Level: logging.WARN, Message: "yaw of the datum is ignored"})
	}
	return datum, diags
}
