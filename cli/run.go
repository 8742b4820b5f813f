package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"golang.org/x/sync/errgroup"

	"go.viam.com/geonav/components/movementsensor"
	"go.viam.com/geonav/components/movementsensor/fake"
	"go.viam.com/geonav/config"
	"go.viam.com/geonav/logging"
	"go.viam.com/geonav/node"
	"go.viam.com/geonav/referenceframe"
	"go.viam.com/geonav/ros"
)

// fakeSensorFrame is the frame the fake movement sensor reports in.
const fakeSensorFrame = "gps"

// writerOnly keeps the publisher from closing a writer it does not own.
type writerOnly struct {
	io.Writer
}

// newLogger logs to the app's error writer, at debug level when --debug is set.
func newLogger(c *cli.Context, name string) logging.Logger {
	logger := logging.NewBlankLogger(name)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if !c.Bool(flagDebug) {
		logger.SetLevel(logging.INFO)
	}
	return logger
}

// RunAction runs the node, feeding it from a recording or a fake sensor and writing its outputs as
// JSON lines.
func RunAction(c *cli.Context) (err error) {
	logger := newLogger(c, "geonav")

	sources := 0
	for _, f := range []string{flagBag, flagInput, flagFake} {
		if c.IsSet(f) {
			sources++
		}
	}
	if sources != 1 {
		return errors.Errorf("exactly one of --%s, --%s or --%s is required", flagBag, flagInput, flagFake)
	}

	cfg, err := config.Read(c.String(flagConfig))
	if err != nil {
		return err
	}

	var out io.Writer = writerOnly{c.App.Writer}
	if path := c.Path(flagOutput); path != "" {
		//nolint:gosec
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "cannot create output")
		}
		out = f
	}
	publisher := ros.NewJSONPublisher(out)
	defer func() {
		err = multierr.Combine(err, publisher.Close())
	}()

	ctx := c.Context
	if d := c.Duration(flagDuration); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	frames := referenceframe.NewFrameSystem()
	n := node.New(cfg, publisher, logger, node.WithBroadcaster(frames))
	datum, err := n.Start(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot broadcast datum transform")
	}
	for _, name := range frames.FrameNames() {
		logger.Debugw("frame known", "frame", name)
	}

	n.StartLoop(ctx)
	defer func() {
		err = multierr.Combine(err, n.Close(context.Background()))
		stats := n.Stats()
		logger.Infow("stopped",
			"submitted", stats.Submitted,
			"superseded", stats.Superseded,
			"processed", stats.Processed,
			"dropped", stats.Dropped)
	}()

	g, gctx := errgroup.WithContext(ctx)
	switch {
	case c.IsSet(flagFake):
		p := datum.Config.Point
		sensor := fake.NewMovementSensor(fake.Config{
			Lat:      p.Lat,
			Lng:      p.Lng,
			Altitude: p.Alt,
			Heading:  c.Float64(flagFakeHeading),
			Speed:    c.Float64(flagFakeSpeed),
		})
		interval := cfg.Interval()
		clk := clock.New()
		sampler := movementsensor.NewSampler(sensor, movementsensor.SamplerConfig{
			FrameID:      fakeSensorFrame,
			ChildFrameID: n.Options().BaseLinkFrame,
		}, clk, logger.Sublogger("sampler"))
		g.Go(func() error {
			return drive(gctx, clk, sensor, interval)
		})
		g.Go(func() error {
			return sampler.Poll(gctx, interval, n)
		})
	default:
		source, err := openSource(c, cfg)
		if err != nil {
			return err
		}
		g.Go(func() error {
			count, err := source.Replay(gctx, c.Duration(flagReplayInterval), n.Submit)
			logger.Infow("replay finished", "samples", count)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// drive moves the fake sensor along every interval until ctx is done.
func drive(ctx context.Context, clk clock.Clock, sensor *fake.MovementSensor, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("cannot drive the fake sensor every %v", interval)
	}
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		sensor.Move(interval.Seconds())
	}
}

// openSource loads the recording named by --bag or --input.
func openSource(c *cli.Context, cfg *config.Config) (*ros.BagSource, error) {
	if path := c.Path(flagBag); path != "" {
		topic := c.String(flagTopic)
		if topic == "" {
			topic = cfg.InputTopic
		}
		rb, err := ros.ReadBag(path)
		if err != nil {
			return nil, err
		}
		return ros.NewBagSource(rb, topic)
	}

	//nolint:gosec
	f, err := os.Open(c.Path(flagInput))
	if err != nil {
		return nil, errors.Wrap(err, "cannot open input")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	msgs, err := ros.DecodeOdometryMessages(f)
	if err != nil {
		return nil, err
	}
	return ros.NewBagSourceFromMessages(msgs), nil
}
