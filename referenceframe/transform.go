// Package referenceframe holds the transform registry that the world to UTM datum is published to.
package referenceframe

import (
	"context"
	"strings"
	"time"

	"go.viam.com/geonav/spatialmath"
)

// TransformStamped is a rigid transform between two named frames at a point in time. Pose is the
// pose of Child expressed in Parent.
type TransformStamped struct {
	Time   time.Time
	Parent string
	Child  string
	Pose   spatialmath.Pose
}

// Broadcaster accepts transforms for consumption by anything that looks frames up.
type Broadcaster interface {
	SendTransform(ctx context.Context, tf TransformStamped) error
}

// AppendPrefix namespaces frameName under prefix the way tf2 does: leading slashes are dropped
// from both and the two are joined with a single "/". An empty prefix leaves the name alone.
func AppendPrefix(prefix, frameName string) string {
	frameName = strings.TrimLeft(frameName, "/")
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return frameName
	}
	return prefix + "/" + frameName
}
