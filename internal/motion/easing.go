package motion

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear leaves progress untouched.
func Linear(t float64) float64 {
	return t
}

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EaseOutCubic starts fast and settles gently.
func EaseOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// EaseInQuad starts slowly.
func EaseInQuad(t float64) float64 {
	return t * t
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
