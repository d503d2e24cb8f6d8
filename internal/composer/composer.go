// Package composer assembles render descriptors for the built-in video
// templates. Every function here is a pure function of its arguments.
package composer

import (
	"fmt"

	"github.com/ivlev/reelframe/internal/motion"
)

// springs evaluates many springs against one frame rate and keeps the first
// error, so element code can read progress values inline.
type springs struct {
	fps float64
	err error
}

func newSprings(fps int) *springs {
	return &springs{fps: float64(fps)}
}

// at returns the progress of a spring triggered at frame trigger, seen from
// frame.
func (s *springs) at(frame, trigger int, cfg motion.SpringConfig) float64 {
	if s.err != nil {
		return 0
	}
	v, err := motion.Spring(float64(frame-trigger), s.fps, cfg)
	if err != nil {
		s.err = fmt.Errorf("spring triggered at %d: %w", trigger, err)
		return 0
	}
	return v
}

// clamp01 bounds a spring value for use as an opacity; transforms keep the
// raw value so overshoot stays visible as motion.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// textWidth estimates the rendered width of s.
func textWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.5
}
