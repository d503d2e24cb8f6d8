package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpringBeforeTrigger(t *testing.T) {
	cfg := NewSpringConfig(20, 150)
	for _, f := range []float64{-1000, -30, -1, -0.5, 0} {
		v, err := Spring(f, 30, cfg)
		require.NoError(t, err)
		assert.Zero(t, v, "frame %v", f)
	}
}

func TestSpringConverges(t *testing.T) {
	configs := []SpringConfig{
		NewSpringConfig(20, 150),
		NewSpringConfig(18, 100),
		NewSpringConfig(15, 80),
		NewSpringConfig(14, 70),
		NewSpringConfig(12, 50),
		NewSpringConfig(20, 100),
		{Damping: 12, Stiffness: 200, Mass: 0.8},
		NewSpringConfig(20, 100), // critically damped: zeta == 1
		NewSpringConfig(60, 100), // overdamped
	}

	for _, cfg := range configs {
		v, err := Spring(200, 30, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, v, 1e-3, "config %+v", cfg)
	}
}

func TestSpringOvershoot(t *testing.T) {
	cfg := SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.8}
	require.Less(t, cfg.DampingRatio(), 1.0)

	peakFrame, peak := -1, 0.0
	for f := 0; f <= 60; f++ {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		if v > peak {
			peak, peakFrame = v, f
		}
	}
	assert.Greater(t, peak, 1.0)

	tail, err := Spring(float64(peakFrame+90), 30, cfg)
	require.NoError(t, err)
	assert.Less(t, math.Abs(1-tail), peak-1)
}

func TestSpringOvershootClamping(t *testing.T) {
	cfg := SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.8, OvershootClamping: true}
	for f := 0; f <= 60; f++ {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSpringNoOvershootWhenOverdamped(t *testing.T) {
	cfg := NewSpringConfig(60, 100)
	prev := 0.0
	for f := 0; f <= 300; f++ {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, 1.0)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestSpringDeterministic(t *testing.T) {
	cfg := SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.8}
	first := make([]float64, 120)
	for f := range first {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		first[f] = v
	}
	// Reverse order must not matter.
	for f := len(first) - 1; f >= 0; f-- {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first[f]), math.Float64bits(v))
	}
}

func TestSpringInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  SpringConfig
		fps  float64
	}{
		{"zero mass", SpringConfig{Damping: 10, Stiffness: 100, Mass: 0}, 30},
		{"negative mass", SpringConfig{Damping: 10, Stiffness: 100, Mass: -1}, 30},
		{"zero stiffness", SpringConfig{Damping: 10, Stiffness: 0, Mass: 1}, 30},
		{"negative stiffness", SpringConfig{Damping: 10, Stiffness: -5, Mass: 1}, 30},
		{"zero damping", SpringConfig{Damping: 0, Stiffness: 100, Mass: 1}, 30},
		{"nan stiffness", SpringConfig{Damping: 10, Stiffness: math.NaN(), Mass: 1}, 30},
		{"zero fps", DefaultSpringConfig(), 0},
		{"negative fps", DefaultSpringConfig(), -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Spring(10, tt.fps, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestSettleFrame(t *testing.T) {
	cfg := SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.8}
	settle, err := SettleFrame(30, cfg, 0.005)
	require.NoError(t, err)
	require.Greater(t, settle, 0)
	require.Less(t, settle, 200)

	for f := settle; f < settle+300; f++ {
		v, err := Spring(float64(f), 30, cfg)
		require.NoError(t, err)
		assert.Less(t, math.Abs(1-v), 0.005, "frame %d", f)
	}

	_, err = SettleFrame(30, cfg, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestInterpolateClamp(t *testing.T) {
	in, out := []float64{0, 100}, []float64{0, 100}
	tests := []struct {
		x, want float64
	}{
		{-50, 0},
		{-0.001, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{100.5, 100},
		{1e6, 100},
	}

	for _, tt := range tests {
		got, err := Interpolate(tt.x, in, out, ClampBoth)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "x=%v", tt.x)
	}
}

func TestInterpolateExtendIsDefault(t *testing.T) {
	got, err := Interpolate(150, []float64{0, 100}, []float64{0, 10}, InterpolateOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-9)

	got, err = Interpolate(-100, []float64{0, 100}, []float64{0, 10}, InterpolateOptions{})
	require.NoError(t, err)
	assert.InDelta(t, -10.0, got, 1e-9)
}

func TestInterpolatePiecewise(t *testing.T) {
	in := []float64{0, 10, 30}
	out := []float64{0, 1, 0}

	tests := []struct {
		x, want float64
	}{
		{5, 0.5},
		{10, 1},
		{20, 0.5},
		{30, 0},
		{40, -0.5}, // extends the last segment's slope
	}
	for _, tt := range tests {
		got, err := Interpolate(tt.x, in, out, InterpolateOptions{})
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "x=%v", tt.x)
	}
}

func TestInterpolateIdentityAndEasing(t *testing.T) {
	got, err := Interpolate(-7, []float64{0, 1}, []float64{10, 20},
		InterpolateOptions{ExtrapolateLeft: Identity})
	require.NoError(t, err)
	assert.Equal(t, -7.0, got)

	got, err = Interpolate(0.25, []float64{0, 1}, []float64{0, 1},
		InterpolateOptions{Easing: EaseInOutCubic})
	require.NoError(t, err)
	assert.InDelta(t, 0.0625, got, 1e-9)
}

func TestInterpolateInvalidRange(t *testing.T) {
	tests := []struct {
		name    string
		in, out []float64
	}{
		{"too short", []float64{0}, []float64{0}},
		{"length mismatch", []float64{0, 1, 2}, []float64{0, 1}},
		{"not increasing", []float64{0, 0, 1}, []float64{0, 1, 2}},
		{"decreasing", []float64{10, 0}, []float64{0, 1}},
		{"infinite", []float64{0, math.Inf(1)}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpolate(0.5, tt.in, tt.out, InterpolateOptions{})
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear":     Linear,
		"inOutCubic": EaseInOutCubic,
		"outCubic":   EaseOutCubic,
		"inQuad":     EaseInQuad,
	} {
		assert.InDelta(t, 0.0, e(0), 1e-12, name)
		assert.InDelta(t, 1.0, e(1), 1e-12, name)
	}
}
