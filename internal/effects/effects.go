// Package effects computes frame-driven backdrop motion: Ken Burns moves on
// scene images and the ambient glow and particle decor.
package effects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/reelframe/internal/motion"
	"github.com/ivlev/reelframe/internal/renderer"
)

// KenBurnsSeconds is how long a Ken Burns move takes before it holds.
const KenBurnsSeconds = 5.0

// Effect maps the progress of a Ken Burns move to an image transform.
type Effect interface {
	Name() string
	Transform(progress float64, box renderer.Box) renderer.Transform
}

// zoomEffect scales from Base to Base+Amount around the center.
type zoomEffect struct {
	name   string
	base   float64
	amount float64
}

func (e zoomEffect) Name() string { return e.name }

func (e zoomEffect) Transform(progress float64, _ renderer.Box) renderer.Transform {
	return renderer.Transform{Scale: e.base + progress*e.amount}
}

// panEffect holds a fixed zoom and slides by a fraction of the box size.
type panEffect struct {
	name  string
	scale float64
	dx    float64 // Fraction of width at full progress
	dy    float64 // Fraction of height at full progress
}

func (e panEffect) Name() string { return e.name }

func (e panEffect) Transform(progress float64, box renderer.Box) renderer.Transform {
	return renderer.Transform{
		Scale:      e.scale,
		TranslateX: progress * e.dx * box.W,
		TranslateY: progress * e.dy * box.H,
	}
}

var registry = map[string]Effect{
	"zoomin":     zoomEffect{name: "zoomIn", base: 1, amount: 0.15},
	"zoomslow":   zoomEffect{name: "zoomSlow", base: 1, amount: 0.1},
	"zoominslow": zoomEffect{name: "zoomInSlow", base: 1.05, amount: 0.1},
	"panright":   panEffect{name: "panRight", scale: 1.2, dx: -0.05},
	"panup":      panEffect{name: "panUp", scale: 1.15, dy: 0.03},
	"none":       zoomEffect{name: "none", base: 1},
}

// New returns the effect registered under name (case-insensitive).
// The empty name is a static image.
func New(name string) (Effect, error) {
	key := strings.ToLower(name)
	if key == "" {
		key = "none"
	}
	eff, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown effect %q", motion.ErrInvalidConfiguration, name)
	}
	return eff, nil
}

// Names lists the registered effects.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, eff := range registry {
		names = append(names, eff.Name())
	}
	sort.Strings(names)
	return names
}

// KenBurnsProgress returns the move progress localFrame frames into a scene:
// linear over KenBurnsSeconds, 0 before the scene and held at 1 after.
func KenBurnsProgress(localFrame, fps int) (float64, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("%w: fps must be positive, got %d", motion.ErrInvalidConfiguration, fps)
	}
	seconds := float64(localFrame) / float64(fps)
	return motion.Interpolate(seconds, []float64{0, KenBurnsSeconds}, []float64{0, 1}, motion.ClampBoth)
}
