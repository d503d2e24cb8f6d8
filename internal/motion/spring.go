package motion

import (
	"fmt"
	"math"
)

// SpringConfig parameterizes a damped harmonic oscillator that starts at rest
// at 0 and settles at 1.
type SpringConfig struct {
	Damping   float64 `yaml:"damping" json:"damping"`
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	Mass      float64 `yaml:"mass" json:"mass"`
	// OvershootClamping caps progress at 1 instead of letting it bounce.
	OvershootClamping bool `yaml:"overshoot_clamping,omitempty" json:"overshootClamping,omitempty"`
}

// NewSpringConfig returns a config with unit mass.
func NewSpringConfig(damping, stiffness float64) SpringConfig {
	return SpringConfig{Damping: damping, Stiffness: stiffness, Mass: 1}
}

// DefaultSpringConfig matches the animation defaults used by the templates
// when only some parameters are given.
func DefaultSpringConfig() SpringConfig {
	return NewSpringConfig(10, 100)
}

// Validate reports whether the oscillator is well defined.
func (c SpringConfig) Validate() error {
	if !finite(c.Damping) || !finite(c.Stiffness) || !finite(c.Mass) {
		return fmt.Errorf("%w: spring parameters must be finite", ErrInvalidConfiguration)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: spring mass must be positive, got %g", ErrInvalidConfiguration, c.Mass)
	}
	if c.Stiffness <= 0 {
		return fmt.Errorf("%w: spring stiffness must be positive, got %g", ErrInvalidConfiguration, c.Stiffness)
	}
	if c.Damping <= 0 {
		return fmt.Errorf("%w: spring damping must be positive, got %g", ErrInvalidConfiguration, c.Damping)
	}
	return nil
}

// DampingRatio returns zeta = c / (2*sqrt(k*m)).
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Spring returns the progress of a spring triggered framesSinceTrigger frames
// ago. Negative values mean the trigger has not happened yet and yield 0.
// The result is computed in closed form from (frame, fps, cfg) alone.
func Spring(framesSinceTrigger, fps float64, cfg SpringConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if !finite(fps) || fps <= 0 {
		return 0, fmt.Errorf("%w: fps must be positive, got %g", ErrInvalidConfiguration, fps)
	}
	if math.IsNaN(framesSinceTrigger) {
		return 0, fmt.Errorf("%w: frame is NaN", ErrInvalidConfiguration)
	}
	if framesSinceTrigger <= 0 {
		return 0, nil
	}
	if math.IsInf(framesSinceTrigger, 1) {
		return 1, nil
	}

	x := position(framesSinceTrigger/fps, cfg)
	if cfg.OvershootClamping && x > 1 {
		x = 1
	}
	return x, nil
}

// position solves m*a + c*v + k*(x-1) = 0 starting at rest at x = 0.
func position(t float64, cfg SpringConfig) float64 {
	omega0 := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.DampingRatio()

	switch {
	case zeta < 1:
		omega1 := omega0 * math.Sqrt(1-zeta*zeta)
		envelope := math.Exp(-zeta * omega0 * t)
		return 1 - envelope*(math.Cos(omega1*t)+(zeta*omega0/omega1)*math.Sin(omega1*t))
	case zeta == 1:
		return 1 - math.Exp(-omega0*t)*(1+omega0*t)
	default:
		root := math.Sqrt(zeta*zeta - 1)
		r1 := -omega0 * (zeta - root)
		r2 := -omega0 * (zeta + root)
		return 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}
}

// maxSettleFrames bounds the search in SettleFrame.
const maxSettleFrames = 1 << 20

// SettleFrame returns the first frame from which the spring stays within
// threshold of 1 for good.
func SettleFrame(fps float64, cfg SpringConfig, threshold float64) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if !finite(fps) || fps <= 0 {
		return 0, fmt.Errorf("%w: fps must be positive, got %g", ErrInvalidConfiguration, fps)
	}
	if !finite(threshold) || threshold <= 0 {
		return 0, fmt.Errorf("%w: settle threshold must be positive, got %g", ErrInvalidConfiguration, threshold)
	}

	// The envelope bounds |1-x| from above, so once it drops under the
	// threshold no later frame can leave the band.
	lastOutside := -1
	for f := 0; f < maxSettleFrames; f++ {
		t := float64(f) / fps
		if math.Abs(1-position(t, cfg)) >= threshold {
			lastOutside = f
		}
		if envelope(t, cfg) < threshold {
			return lastOutside + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: spring does not settle within %d frames", ErrInvalidConfiguration, maxSettleFrames)
}

// envelope is an upper bound of |1 - position(t)|.
func envelope(t float64, cfg SpringConfig) float64 {
	omega0 := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.DampingRatio()

	switch {
	case zeta < 1:
		omega1 := omega0 * math.Sqrt(1-zeta*zeta)
		k := zeta * omega0 / omega1
		return math.Exp(-zeta*omega0*t) * math.Sqrt(1+k*k)
	case zeta == 1:
		return math.Exp(-omega0*t) * (1 + omega0*t)
	default:
		// Both exponentials are positive and the slow one dominates.
		return 1 - position(t, cfg)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
