// Package node drives the geonav transform chain: it establishes the datum, keeps the latest
// submitted sample and, at a fixed rate, processes it and publishes the UTM and world outputs.
package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/geonav/config"
	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/logging"
	"go.viam.com/geonav/referenceframe"
	"go.viam.com/geonav/spatialmath"
	"go.viam.com/geonav/utils"
)

// debugInterval is the minimum time between debug lines about the latest fix.
const debugInterval = 2 * time.Second

// Publisher delivers outputs to their consumers.
type Publisher interface {
	Publish(ctx context.Context, topic string, odom geonav.Odometry) error
}

// Stats counts what happened to submitted samples.
type Stats struct {
	// Submitted is every sample handed to Submit.
	Submitted int64
	// Superseded samples were replaced by a newer one before they were drained.
	Superseded int64
	// Processed samples produced outputs.
	Processed int64
	// Dropped samples were drained but rejected.
	Dropped int64
}

// Node owns a geonav session. Submit may be called from any goroutine; processing happens on the
// goroutine running Run, one sample at a time.
type Node struct {
	cfg         *config.Config
	opts        geonav.Options
	publisher   Publisher
	broadcaster referenceframe.Broadcaster
	logger      logging.Logger
	clock       clock.Clock
	debug       *utils.Throttle

	mailboxMu sync.Mutex
	pending   *geonav.NavigationSample

	sessionMu sync.RWMutex
	session   geonav.Session
	datum     geonav.Datum

	// spinMu serializes SpinOnce so the session update and the empty frame warning are not raced
	// by a caller spinning alongside the background loop.
	spinMu           sync.Mutex
	warnedEmptyFrame bool

	workersMu sync.Mutex
	workers   utils.StoppableWorkers

	submitted  atomic.Int64
	superseded atomic.Int64
	processed  atomic.Int64
	dropped    atomic.Int64
}

// Option customizes a Node.
type Option func(*Node)

// WithClock sets the clock used for the loop and log throttling.
func WithClock(clk clock.Clock) Option {
	return func(n *Node) {
		n.clock = clk
	}
}

// WithBroadcaster sets where the datum transform is sent when broadcasting is enabled.
func WithBroadcaster(b referenceframe.Broadcaster) Option {
	return func(n *Node) {
		n.broadcaster = b
	}
}

// New returns a node that publishes to publisher. The config must already be validated.
func New(cfg *config.Config, publisher Publisher, logger logging.Logger, opts ...Option) *Node {
	n := &Node{
		cfg:       cfg,
		opts:      cfg.Options(),
		publisher: publisher,
		logger:    logger.WithFields("world_frame", cfg.Options().WorldFrame),
		clock:     clock.New(),
		session:   geonav.NewSession(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.debug = utils.NewThrottle(n.clock, debugInterval)
	return n
}

// Options returns the processing options derived from the config.
func (n *Node) Options() geonav.Options {
	return n.opts
}

// Start establishes the datum from the config and, if enabled, broadcasts the world to UTM transform.
// Configuration problems are logged and replaced by the default datum; Start only fails when the
// broadcast does.
func (n *Node) Start(ctx context.Context) (geonav.Datum, error) {
	datumCfg, diags := n.cfg.DatumConfig()
	config.LogDiagnostics(n.logger, diags)

	n.sessionMu.Lock()
	session, datum, err := geonav.EstablishDatum(n.session, datumCfg)
	if err != nil {
		n.logger.Errorw("cannot project datum", "error", err)
		n.logger.Error("setting datum to 0,0,0 which is non-ideal")
		session, datum, err = geonav.EstablishDatum(n.session, geonav.DatumConfig{})
		if err != nil {
			n.sessionMu.Unlock()
			return geonav.Datum{}, err
		}
	}
	n.session = session
	n.datum = datum
	n.sessionMu.Unlock()

	p := datum.Config.Point
	n.logger.Infof("datum (latitude, longitude, altitude) is (%f, %f, %f)", p.Lat, p.Lng, p.Alt)
	n.logger.Infof("datum UTM coordinate is (%f, %f) zone %s", datum.UTM.Easting, datum.UTM.Northing, datum.UTM.Designator())
	rpy := datum.RPY()
	n.logger.Infof("datum orientation roll, pitch, yaw is (%f, %f, %f)", rpy.Roll, rpy.Pitch, rpy.Yaw)

	if n.cfg.BroadcastUTMTransform && n.broadcaster != nil {
		tf := datum.BroadcastTransform(n.opts.WorldFrame, n.opts.ZeroAltitude, n.clock.Now())
		if err := n.broadcaster.SendTransform(ctx, tf); err != nil {
			return datum, err
		}
	}
	return datum, nil
}

// Submit hands a sample to the node. Only the latest sample is kept; one that has not been drained
// yet is replaced.
func (n *Node) Submit(sample geonav.NavigationSample) {
	n.submitted.Add(1)
	n.mailboxMu.Lock()
	defer n.mailboxMu.Unlock()
	if n.pending != nil {
		n.superseded.Add(1)
	}
	n.pending = &sample
}

func (n *Node) take() (geonav.NavigationSample, bool) {
	n.mailboxMu.Lock()
	defer n.mailboxMu.Unlock()
	if n.pending == nil {
		return geonav.NavigationSample{}, false
	}
	s := *n.pending
	n.pending = nil
	return s, true
}

// Run drains the mailbox at the configured frequency until ctx is cancelled. It fails right away if
// the frequency gives no usable interval.
func (n *Node) Run(ctx context.Context) error {
	interval := n.cfg.Interval()
	if interval <= 0 {
		return errors.Errorf("cannot run at frequency %v", n.cfg.Frequency)
	}
	ticker := n.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n.SpinOnce(ctx)
	}
}

// StartLoop runs Run in the background until Close is called or ctx is cancelled. Calling it
// again while the loop is running does nothing. If the loop cannot run, the error is logged.
func (n *Node) StartLoop(ctx context.Context) {
	n.workersMu.Lock()
	defer n.workersMu.Unlock()
	if n.workers != nil {
		return
	}
	n.workers = utils.NewStoppableWorkersWithContext(ctx, func(ctx context.Context) {
		if err := n.Run(ctx); err != nil {
			n.logger.Errorw("processing loop stopped", "error", err)
		}
	})
}

// Close stops the background loop, if any, and then drains a sample still waiting in the mailbox
// so the last submitted sample is not lost.
func (n *Node) Close(ctx context.Context) error {
	n.workersMu.Lock()
	if n.workers != nil {
		n.workers.Stop()
		n.workers = nil
	}
	n.workersMu.Unlock()
	n.SpinOnce(ctx)
	return nil
}

// SpinOnce processes the pending sample, if any, and publishes its outputs. It reports whether a
// sample was taken from the mailbox. It may be called while the background loop runs; calls are
// serialized.
func (n *Node) SpinOnce(ctx context.Context) bool {
	n.spinMu.Lock()
	defer n.spinMu.Unlock()

	sample, ok := n.take()
	if !ok {
		return false
	}

	if sample.Notes().EmptyFrameID && !n.warnedEmptyFrame {
		n.warnedEmptyFrame = true
		n.logger.Warn("odometry message has empty frame_id; assuming the navigation sensor is mounted at the robot's origin")
	}

	n.sessionMu.RLock()
	session := n.session
	n.sessionMu.RUnlock()

	next, outputs, err := geonav.Process(session, sample, n.opts)
	if err != nil {
		n.dropped.Add(1)
		n.logger.Warnw("bad navigation sample, not transforming", "error", err)
		return true
	}

	n.sessionMu.Lock()
	n.session = next
	n.sessionMu.Unlock()

	if n.debug.Allow() {
		p := sample.Position
		fix := next.LastFix()
		n.logger.Debugf("latest fix (latitude, longitude, altitude): %f, %f, %f", p.Lat, p.Lng, p.Alt)
		n.logger.Debugf("UTM of latest fix is (%f, %f) zone %s, %.1f m from the datum",
			fix.Easting, fix.Northing, fix.Designator(), p.DistanceTo(n.Datum().Config.Point))
	}

	if err := n.publish(ctx, outputs); err != nil {
		n.logger.Warnw("failed to publish outputs", "error", err)
	}
	n.processed.Add(1)
	return true
}

func (n *Node) publish(ctx context.Context, outputs []geonav.Odometry) error {
	var errs error
	for _, o := range outputs {
		topic := n.cfg.WorldTopic
		if o.FrameID == geonav.UTMFrame {
			topic = n.cfg.UTMTopic
		}
		errs = multierr.Combine(errs, n.publisher.Publish(ctx, topic, o))
	}
	return errs
}

// State returns the state of the node's session.
func (n *Node) State() geonav.State {
	n.sessionMu.RLock()
	defer n.sessionMu.RUnlock()
	return n.session.State()
}

// Datum returns the established datum.
func (n *Node) Datum() geonav.Datum {
	n.sessionMu.RLock()
	defer n.sessionMu.RUnlock()
	return n.datum
}

// UTMToWorld returns a snapshot of the datum transform, or nil before Start.
func (n *Node) UTMToWorld() spatialmath.Pose {
	n.sessionMu.RLock()
	defer n.sessionMu.RUnlock()
	return n.session.UTMToWorld()
}

// UTMToNav returns a snapshot of the transform of the last processed sample.
func (n *Node) UTMToNav() spatialmath.Pose {
	n.sessionMu.RLock()
	defer n.sessionMu.RUnlock()
	return n.session.UTMToNav()
}

// Stats returns the sample counters.
func (n *Node) Stats() Stats {
	return Stats{
		Submitted:  n.submitted.Load(),
		Superseded: n.superseded.Load(),
		Processed:  n.processed.Load(),
		Dropped:    n.dropped.Load(),
	}
}
