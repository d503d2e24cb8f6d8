package director

import (
	"fmt"
	"math"

	"github.com/ivlev/reelframe/internal/motion"
)

// ErrInvalidTimeline is returned for malformed scene windows.
var ErrInvalidTimeline = fmt.Errorf("%w: invalid timeline", motion.ErrInvalidConfiguration)

// Timeline is an ordered list of scene windows on the global frame axis.
type Timeline []SceneWindow

// SceneSpec describes a scene by its length in seconds.
type SceneSpec struct {
	ID      string
	Seconds float64
	Asset   string
	Effect  string
}

// ActiveScene is a scene showing at some frame together with the frame
// offset inside its window.
type ActiveScene struct {
	Scene      SceneWindow
	LocalFrame int
}

// Sequential lays scenes end to end starting at frame 0, so scene N+1 starts
// exactly where scene N ends.
func Sequential(fps int, specs []SceneSpec) (Timeline, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidTimeline, fps)
	}

	timeline := make(Timeline, 0, len(specs))
	start := 0
	for _, spec := range specs {
		length := int(math.Round(spec.Seconds * float64(fps)))
		if length <= 0 {
			return nil, fmt.Errorf("%w: scene %q lasts %g s", ErrInvalidTimeline, spec.ID, spec.Seconds)
		}
		timeline = append(timeline, SceneWindow{
			ID:           spec.ID,
			StartFrame:   start,
			LengthFrames: length,
			Asset:        spec.Asset,
			Effect:       spec.Effect,
		})
		start += length
	}
	return timeline, nil
}

// ActiveScenes returns every window containing frame, in declaration order.
// Gaps yield no scenes; overlapping windows yield several.
func (t Timeline) ActiveScenes(frame int) []ActiveScene {
	var active []ActiveScene
	for _, w := range t {
		if w.Contains(frame) {
			active = append(active, ActiveScene{Scene: w, LocalFrame: frame - w.StartFrame})
		}
	}
	return active
}

// TotalFrames returns the end of the last window.
func (t Timeline) TotalFrames() int {
	end := 0
	for _, w := range t {
		if w.EndFrame() > end {
			end = w.EndFrame()
		}
	}
	return end
}

// Partitions reports whether the windows tile [0, total) with no gap and no
// overlap, in order.
func (t Timeline) Partitions(total int) bool {
	next := 0
	for _, w := range t {
		if w.StartFrame != next {
			return false
		}
		next = w.EndFrame()
	}
	return next == total
}

// Validate rejects windows that cannot contain any frame.
func (t Timeline) Validate() error {
	seen := make(map[string]bool, len(t))
	for i, w := range t {
		if w.StartFrame < 0 {
			return fmt.Errorf("%w: scene %d (%q) starts at frame %d", ErrInvalidTimeline, i, w.ID, w.StartFrame)
		}
		if w.LengthFrames <= 0 {
			return fmt.Errorf("%w: scene %d (%q) has length %d", ErrInvalidTimeline, i, w.ID, w.LengthFrames)
		}
		if w.ID != "" && seen[w.ID] {
			return fmt.Errorf("%w: duplicate scene id %q", ErrInvalidTimeline, w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}

// Find returns the window with the given id.
func (t Timeline) Find(id string) (SceneWindow, bool) {
	for _, w := range t {
		if w.ID == id {
			return w, true
		}
	}
	return SceneWindow{}, false
}
