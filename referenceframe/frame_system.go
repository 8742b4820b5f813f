package referenceframe

import (
	"context"
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/geonav/spatialmath"
)

type frameEntry struct {
	parent string
	tf     TransformStamped
}

// FrameSystem is an in memory tree of named frames built from broadcast transforms. Each frame has at
// most one parent; sending a transform for an existing child replaces its parent and pose. It is safe
// for one writer and any number of concurrent readers.
type FrameSystem struct {
	mu     sync.RWMutex
	frames map[string]frameEntry
}

// NewFrameSystem returns an empty frame system.
func NewFrameSystem() *FrameSystem {
	return &FrameSystem{frames: map[string]frameEntry{}}
}

// SendTransform records tf, making tf.Child a child of tf.Parent.
func (fs *FrameSystem) SendTransform(ctx context.Context, tf TransformStamped) error {
	if tf.Parent == "" || tf.Child == "" {
		return ErrEmptyFrameName
	}
	if tf.Pose == nil {
		tf.Pose = spatialmath.NewZeroPose()
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	// walking up from the new parent must not reach the child
	for name := tf.Parent; ; {
		if name == tf.Child {
			return NewParentFrameMissingError(tf.Child, tf.Parent)
		}
		entry, ok := fs.frames[name]
		if !ok {
			break
		}
		name = entry.parent
	}
	fs.frames[tf.Child] = frameEntry{parent: tf.Parent, tf: tf}
	return nil
}

// Lookup returns the most recent transform whose child is the given frame.
func (fs *FrameSystem) Lookup(child string) (TransformStamped, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	entry, ok := fs.frames[child]
	return entry.tf, ok
}

// FrameNames returns every frame known to the system, sorted.
func (fs *FrameSystem) FrameNames() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	parents := lo.MapToSlice(fs.frames, func(_ string, entry frameEntry) string { return entry.parent })
	names := lo.Uniq(append(lo.Keys(fs.frames), parents...))
	sort.Strings(names)
	return names
}

// Transform returns the pose of frame src expressed in frame dst.
func (fs *FrameSystem) Transform(src, dst string) (spatialmath.Pose, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	srcRoot, srcToRoot, err := fs.toRoot(src)
	if err != nil {
		return nil, err
	}
	dstRoot, dstToRoot, err := fs.toRoot(dst)
	if err != nil {
		return nil, err
	}
	if srcRoot != dstRoot {
		return nil, NewNoCommonRootError(src, dst)
	}
	return spatialmath.PoseBetween(dstToRoot, srcToRoot), nil
}

// TransformPoint expresses a point given in frame src in frame dst.
func (fs *FrameSystem) TransformPoint(point r3.Vector, src, dst string) (r3.Vector, error) {
	tf, err := fs.Transform(src, dst)
	if err != nil {
		return r3.Vector{}, err
	}
	return spatialmath.TransformPoint(tf, point), nil
}

// toRoot composes the transforms from name up to the root of its tree, returning the root's name and the
// pose of name in the root frame. Must be called with the lock held.
func (fs *FrameSystem) toRoot(name string) (string, spatialmath.Pose, error) {
	if !fs.known(name) {
		return "", nil, NewFrameMissingError(name)
	}
	pose := spatialmath.NewZeroPose()
	for {
		entry, ok := fs.frames[name]
		if !ok {
			return name, pose, nil
		}
		// parent transforms are added on the left
		pose = spatialmath.Compose(entry.tf.Pose, pose)
		name = entry.parent
	}
}

func (fs *FrameSystem) known(name string) bool {
	if _, ok := fs.frames[name]; ok {
		return true
	}
	for _, entry := range fs.frames {
		if entry.parent == name {
			return true
		}
	}
	return false
}
