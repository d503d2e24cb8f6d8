package motion

import (
	"fmt"
	"math"
)

// Extrapolate decides what happens to inputs outside the input range.
type Extrapolate int

const (
	// Extend continues the slope of the nearest segment. It is the zero
	// value and therefore the default on both sides.
	Extend Extrapolate = iota
	// Clamp holds the boundary output value.
	Clamp
	// Identity returns the input unchanged.
	Identity
)

func (e Extrapolate) String() string {
	switch e {
	case Extend:
		return "extend"
	case Clamp:
		return "clamp"
	case Identity:
		return "identity"
	default:
		return fmt.Sprintf("Extrapolate(%d)", int(e))
	}
}

// InterpolateOptions controls boundary behavior and easing. The zero value
// extends on both sides with linear segments.
type InterpolateOptions struct {
	ExtrapolateLeft  Extrapolate
	ExtrapolateRight Extrapolate
	Easing           Easing
}

// ClampBoth is the option set used for progress-like values that must stay
// within the output range.
var ClampBoth = InterpolateOptions{ExtrapolateLeft: Clamp, ExtrapolateRight: Clamp}

// Interpolate maps x through the piecewise-linear function defined by the
// breakpoints in inputRange and outputRange.
func Interpolate(x float64, inputRange, outputRange []float64, opts InterpolateOptions) (float64, error) {
	if err := checkRanges(inputRange, outputRange); err != nil {
		return 0, err
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%w: input is NaN", ErrInvalidConfiguration)
	}

	// Segment whose upper bound is the first breakpoint >= x; inputs past the
	// ends fall into the outermost segments.
	i := 1
	for ; i < len(inputRange)-1; i++ {
		if inputRange[i] >= x {
			break
		}
	}

	return segment(x,
		inputRange[i-1], inputRange[i],
		outputRange[i-1], outputRange[i],
		opts), nil
}

func segment(x, inMin, inMax, outMin, outMax float64, opts InterpolateOptions) float64 {
	if x < inMin {
		switch opts.ExtrapolateLeft {
		case Identity:
			return x
		case Clamp:
			x = inMin
		}
	}
	if x > inMax {
		switch opts.ExtrapolateRight {
		case Identity:
			return x
		case Clamp:
			x = inMax
		}
	}

	if outMin == outMax {
		return outMin
	}

	t := (x - inMin) / (inMax - inMin)
	if opts.Easing != nil {
		t = opts.Easing(t)
	}
	return Lerp(outMin, outMax, t)
}

func checkRanges(inputRange, outputRange []float64) error {
	if len(inputRange) < 2 {
		return fmt.Errorf("%w: input range needs at least 2 breakpoints, got %d", ErrInvalidRange, len(inputRange))
	}
	if len(inputRange) != len(outputRange) {
		return fmt.Errorf("%w: input range has %d breakpoints, output range %d",
			ErrInvalidRange, len(inputRange), len(outputRange))
	}
	for i, v := range inputRange {
		if !finite(v) {
			return fmt.Errorf("%w: input breakpoint %d is not finite", ErrInvalidRange, i)
		}
		if i > 0 && v <= inputRange[i-1] {
			return fmt.Errorf("%w: input range must be strictly increasing (%g after %g)",
				ErrInvalidRange, v, inputRange[i-1])
		}
	}
	for i, v := range outputRange {
		if !finite(v) {
			return fmt.Errorf("%w: output breakpoint %d is not finite", ErrInvalidRange, i)
		}
	}
	return nil
}
