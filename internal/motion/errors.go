// Package motion holds the pure animation primitives shared by every
// composition: springs, range interpolation and easing curves.
package motion

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned for parameters that make an animation
// curve undefined. Such input is rejected, never clamped.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidRange is returned by Interpolate for malformed breakpoints.
// It matches ErrInvalidConfiguration under errors.Is.
var ErrInvalidRange = fmt.Errorf("%w: invalid range", ErrInvalidConfiguration)
