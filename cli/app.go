// Package cli contains the geonav command line: running the node against a recording or a fake
// sensor, projecting coordinates and checking configs.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig         = "config"
	flagDebug          = "debug"
	flagBag            = "bag"
	flagInput          = "input"
	flagTopic          = "topic"
	flagOutput         = "output"
	flagReplayInterval = "replay-interval"
	flagFake           = "fake"
	flagFakeSpeed      = "fake-speed"
	flagFakeHeading    = "fake-heading"
	flagDuration       = "duration"
	flagLat            = "lat"
	flagLng            = "lng"
	flagZone           = "zone"
)

var app = &cli.App{
	Name:            "geonav",
	Usage:           "transform geodetic navigation fixes into UTM and world frame odometry",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "run",
			Usage:     "run the transform node",
			UsageText: "geonav run --config <config> [--bag <bag> | --input <file> | --fake]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagConfig,
					Aliases:  []string{"c"},
					Usage:    "load configuration from `FILE`",
					Required: true,
				},
				&cli.PathFlag{
					Name:  flagBag,
					Usage: "replay navigation odometry from a rosbag `FILE`",
				},
				&cli.PathFlag{
					Name:  flagInput,
					Usage: "replay navigation odometry from a JSON lines `FILE`",
				},
				&cli.StringFlag{
					Name:  flagTopic,
					Usage: "bag topic to replay, defaults to the configured input topic",
				},
				&cli.PathFlag{
					Name:  flagOutput,
					Usage: "write outputs as JSON lines to `FILE` instead of stdout",
				},
				&cli.DurationFlag{
					Name:  flagReplayInterval,
					Usage: "time between replayed samples",
				},
				&cli.BoolFlag{
					Name:  flagFake,
					Usage: "drive a fake movement sensor starting at the datum",
				},
				&cli.Float64Flag{
					Name:  flagFakeSpeed,
					Value: 1,
					Usage: "fake sensor speed in meters per second",
				},
				&cli.Float64Flag{
					Name:  flagFakeHeading,
					Usage: "fake sensor compass heading in degrees",
				},
				&cli.DurationFlag{
					Name:  flagDuration,
					Usage: "stop after this long, zero runs until interrupted",
				},
			},
			Action: RunAction,
		},
		{
			Name:      "project",
			Usage:     "print the UTM coordinate of a latitude and longitude",
			UsageText: "geonav project --lat <degrees> --lng <degrees> [--zone <zone>]",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:     flagLat,
					Required: true,
				},
				&cli.Float64Flag{
					Name:     flagLng,
					Required: true,
				},
				&cli.IntFlag{
					Name:  flagZone,
					Usage: "project into this zone instead of the natural one",
				},
			},
			Action: ProjectAction,
		},
		{
			Name:      "validate",
			Usage:     "check a config and print the datum it establishes",
			UsageText: "geonav validate --config <config>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagConfig,
					Aliases:  []string{"c"},
					Usage:    "load configuration from `FILE`",
					Required: true,
				},
			},
			Action: ValidateAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
