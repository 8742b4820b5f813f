package ros

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/geonav/geonav"
)

// TopicMessage is one line written by a JSONPublisher.
type TopicMessage struct {
	Topic   string          `json:"topic"`
	Message OdometryMessage `json:"message"`
}

// JSONPublisher publishes outputs as JSON lines, one message per line tagged with its topic.
type JSONPublisher struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	closed bool
}

// NewJSONPublisher returns a publisher writing to w. If w is also an io.Closer it is closed by Close.
func NewJSONPublisher(w io.Writer) *JSONPublisher {
	p := &JSONPublisher{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// Publish writes the output under the given topic.
func (p *JSONPublisher) Publish(ctx context.Context, topic string, odom geonav.Odometry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("publisher is closed")
	}
	return p.enc.Encode(TopicMessage{Topic: topic, Message: FromOdometry(odom)})
}

// Close closes the underlying writer if it is closable. Publishing after Close fails.
func (p *JSONPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
