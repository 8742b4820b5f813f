package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go.viam.com/geonav/config"
	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/utm"
)

// ProjectAction prints the UTM coordinate of --lat and --lng, followed by the latitude and
// longitude recovered from it.
func ProjectAction(c *cli.Context) error {
	lat, lng := c.Float64(flagLat), c.Float64(flagLng)
	var (
		coord utm.Coordinate
		err   error
	)
	if c.IsSet(flagZone) {
		coord, err = utm.ProjectInZone(lat, lng, c.Int(flagZone))
	} else {
		coord, err = utm.Project(lat, lng)
	}
	if err != nil {
		return err
	}
	backLat, backLng, err := utm.Unproject(coord)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s\n", coord)
	fmt.Fprintf(c.App.Writer, "round trip: %.7f %.7f\n", backLat, backLng)
	return nil
}

// ValidateAction reads a config, logs its datum diagnostics and prints the datum it establishes.
func ValidateAction(c *cli.Context) error {
	logger := newLogger(c, "validate")
	cfg, err := config.Read(c.String(flagConfig))
	if err != nil {
		return err
	}
	datumCfg, diags := cfg.DatumConfig()
	config.LogDiagnostics(logger, diags)

	_, datum, err := geonav.EstablishDatum(geonav.NewSession(), datumCfg)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	rpy := datum.RPY()
	fmt.Fprintf(c.App.Writer, "datum: %s\n", datum.UTM)
	fmt.Fprintf(c.App.Writer, "datum yaw: %.6f\n", rpy.Yaw)
	fmt.Fprintf(c.App.Writer, "frames: %s -> %s\n", opts.WorldFrame, opts.BaseLinkFrame)
	fmt.Fprintf(c.App.Writer, "topics: %s -> %s, %s\n", cfg.InputTopic, cfg.UTMTopic, cfg.WorldTopic)
	return nil
}
