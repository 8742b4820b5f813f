// Package inject contains fakes whose behavior is set per test through function fields.
package inject

import (
	"context"

	"go.viam.com/geonav/geonav"
	"go.viam.com/geonav/node"
)

// Publisher is an injected node.Publisher.
type Publisher struct {
	node.Publisher
	PublishFunc func(ctx context.Context, topic string, odom geonav.Odometry) error
}

// Publish calls the injected Publish or the real version.
func (p *Publisher) Publish(ctx context.Context, topic string, odom geonav.Odometry) error {
	if p.PublishFunc == nil {
		return p.Publisher.Publish(ctx, topic, odom)
	}
	return p.PublishFunc(ctx, topic, odom)
}
