package referenceframe

import "github.com/pkg/errors"

// ErrEmptyFrameName is returned when a transform names an empty parent or child frame.
var ErrEmptyFrameName = errors.New("frame name must not be empty")

// NewFrameMissingError returns an error indicating that the given frame is missing from the frame system.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in frame system", frameName)
}

// NewParentFrameMissingError returns an error indicating that a frame's parent would make the tree cyclic
// or is itself.
func NewParentFrameMissingError(frameName, parentName string) error {
	return errors.Errorf("frame %q cannot have %q as its parent", frameName, parentName)
}

// NewNoCommonRootError returns an error for two frames that are not connected in the frame system.
func NewNoCommonRootError(src, dst string) error {
	return errors.Errorf("frames %q and %q do not share a root frame", src, dst)
}
