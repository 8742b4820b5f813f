package inject

import (
	"context"

	"go.viam.com/geonav/referenceframe"
)

// Broadcaster is an injected referenceframe.Broadcaster.
type Broadcaster struct {
	referenceframe.Broadcaster
	SendTransformFunc func(ctx context.Context, tf referenceframe.TransformStamped) error
}

// SendTransform calls the injected SendTransform or the real version.
func (b *Broadcaster) SendTransform(ctx context.Context, tf referenceframe.TransformStamped) error {
	if b.SendTransformFunc == nil {
		return b.Broadcaster.SendTransform(ctx, tf)
	}
	return b.SendTransformFunc(ctx, tf)
}
