package preview

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// paintPattern finds the first color literal in a paint string. Gradients
// are previewed with their first stop.
var paintPattern = regexp.MustCompile(`#[0-9a-fA-F]{8}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|rgba?\([^)]*\)`)

// parsePaint converts a CSS-like paint value into a color. Accepted forms are
// #rgb, #rrggbb, #rrggbbaa, rgb(), rgba() and gradients containing any of
// those.
func parsePaint(s string) (color.NRGBA, error) {
	lit := paintPattern.FindString(s)
	if lit == "" {
		return color.NRGBA{}, fmt.Errorf("no color in %q", s)
	}

	if strings.HasPrefix(lit, "rgb") {
		return parseRGBA(lit)
	}

	alpha := uint8(255)
	if len(lit) == 9 {
		a, err := strconv.ParseUint(lit[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = uint8(a)
		lit = lit[:7]
	}

	c, err := colorful.Hex(lit)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseRGBA(lit string) (color.NRGBA, error) {
	open := strings.IndexByte(lit, '(')
	parts := strings.Split(strings.TrimSuffix(lit[open+1:], ")"), ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("malformed %q", lit)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("malformed %q", lit)
		}
		ch[i] = uint8(v)
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("malformed %q", lit)
		}
		alpha = clamp01(a)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(alpha*255 + 0.5)}, nil
}

// withOpacity scales the alpha of c by opacity.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A)*clamp01(opacity) + 0.5)
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
