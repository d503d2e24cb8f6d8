package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVideoConfig is returned for non-positive durations, rates or
	// canvas sizes.
	ErrInvalidVideoConfig = errors.New("invalid video config")
	// ErrFrameOutOfRange is returned for frames outside [0, DurationInFrames).
	// Out-of-range frames are rejected rather than clamped.
	ErrFrameOutOfRange = errors.New("frame out of range")
)

// VideoConfig is the fixed context of a render.
type VideoConfig struct {
	ID               string `yaml:"id" json:"id"`
	DurationInFrames int    `yaml:"duration_in_frames" json:"durationInFrames"`
	FPS              int    `yaml:"fps" json:"fps"`
	Width            int    `yaml:"width" json:"width"`
	Height           int    `yaml:"height" json:"height"`
}

// Validate checks that every dimension is positive.
func (v VideoConfig) Validate() error {
	switch {
	case v.DurationInFrames <= 0:
		return fmt.Errorf("%w: %s: duration must be positive, got %d", ErrInvalidVideoConfig, v.ID, v.DurationInFrames)
	case v.FPS <= 0:
		return fmt.Errorf("%w: %s: fps must be positive, got %d", ErrInvalidVideoConfig, v.ID, v.FPS)
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: %s: canvas must be positive, got %dx%d", ErrInvalidVideoConfig, v.ID, v.Width, v.Height)
	}
	return nil
}

// CheckFrame validates the config and the frame index against it.
func (v VideoConfig) CheckFrame(frame int) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if frame < 0 || frame >= v.DurationInFrames {
		return fmt.Errorf("%w: %s: frame %d not in [0, %d)", ErrFrameOutOfRange, v.ID, frame, v.DurationInFrames)
	}
	return nil
}

// Seconds converts a frame index to seconds.
func (v VideoConfig) Seconds(frame int) float64 {
	return float64(frame) / float64(v.FPS)
}

// DurationSeconds returns the total length of the video.
func (v VideoConfig) DurationSeconds() float64 {
	return v.Seconds(v.DurationInFrames)
}
