package geonav

import "github.com/pkg/errors"

var (
	// ErrNoDatum is returned when a sample is processed before the datum has been established.
	ErrNoDatum = errors.New("no datum has been established")
	// ErrInvalidSample is returned for samples whose position is not finite.
	ErrInvalidSample = errors.New("invalid navigation sample")
)
