// Package ros bridges geonav and ROS: odometry messages as they appear in bags, replay of a recorded
// navigation topic and a JSON lines publisher for the outputs.
package ros

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/geonav/geonav"
)

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()

	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// OdometryMessagesForTopic returns all odometry messages for a specific topic in the ros bag, in
// recorded order.
func OdometryMessagesForTopic(rb *rosbag.RosBag, topic string) ([]OdometryMessage, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[topic]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}
	return DecodeOdometryMessages(msgs)
}

// DecodeOdometryMessages decodes newline separated JSON odometry messages until the reader is exhausted.
func DecodeOdometryMessages(r io.Reader) ([]OdometryMessage, error) {
	all := []OdometryMessage{}
	dec := json.NewDecoder(r)
	for {
		var message OdometryMessage
		if err := dec.Decode(&message); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, message)
	}
	return all, nil
}

// BagSource replays recorded navigation messages as samples.
type BagSource struct {
	samples []geonav.NavigationSample
}

// NewBagSource reads the odometry messages of topic from the bag.
func NewBagSource(rb *rosbag.RosBag, topic string) (*BagSource, error) {
	msgs, err := OdometryMessagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}
	return NewBagSourceFromMessages(msgs), nil
}

// NewBagSourceFromMessages replays already decoded messages.
func NewBagSourceFromMessages(msgs []OdometryMessage) *BagSource {
	return &BagSource{samples: lo.Map(msgs, func(m OdometryMessage, _ int) geonav.NavigationSample {
		return m.ToNavigationSample()
	})}
}

// Samples returns every sample of the source in order.
func (bs *BagSource) Samples() []geonav.NavigationSample {
	return bs.samples
}

// Replay hands each sample to submit in order, waiting interval between samples. It returns the number
// of samples submitted, stopping early with the context's error if it is cancelled.
func (bs *BagSource) Replay(ctx context.Context, interval time.Duration, submit func(geonav.NavigationSample)) (int, error) {
	for i, s := range bs.samples {
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		submit(s)
		if interval > 0 && i < len(bs.samples)-1 {
			if !utils.SelectContextOrWait(ctx, interval) {
				return i + 1, ctx.Err()
			}
		}
	}
	return len(bs.samples), nil
}
