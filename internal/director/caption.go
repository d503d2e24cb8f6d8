package director

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/reelframe/internal/motion"
)

// Stagger between words of a caption, in frames.
const (
	LineStagger = 4
	WordStagger = 2
)

// ErrInvalidCaption is returned for malformed caption segments.
var ErrInvalidCaption = fmt.Errorf("%w: invalid caption", motion.ErrInvalidConfiguration)

// RevealConfig controls the per-word entrance of a caption.
type RevealConfig struct {
	LineStagger int
	WordStagger int
	Spring      motion.SpringConfig
}

// DefaultRevealConfig returns the snappy kinetic-caption entrance.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{
		LineStagger: LineStagger,
		WordStagger: WordStagger,
		Spring:      motion.SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.8},
	}
}

// WordReveal is the entrance state of one word at one frame.
type WordReveal struct {
	Line      int
	Word      int
	Text      string
	Highlight bool
	// TriggerFrame is relative to the segment's first active frame.
	TriggerFrame int
	Progress     float64
}

// ActiveCaptions returns every segment active at t seconds, in declaration
// order. Overlapping segments are all returned.
func ActiveCaptions(t float64, segments []CaptionSegment) []CaptionSegment {
	var active []CaptionSegment
	for _, s := range segments {
		if s.Active(t) {
			active = append(active, s)
		}
	}
	return active
}

// WordReveals computes the spring progress of every word of seg at the given
// global frame. The result is indexed by line, then by word, in reading order.
func WordReveals(frame, fps int, seg CaptionSegment, rc RevealConfig) ([][]WordReveal, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %d", motion.ErrInvalidConfiguration, fps)
	}
	local := frame - seg.StartFrame(fps)

	lines := make([][]WordReveal, len(seg.Lines))
	for li, line := range seg.Lines {
		words := strings.Fields(line)
		reveals := make([]WordReveal, len(words))
		for wi, word := range words {
			trigger := li*rc.LineStagger + wi*rc.WordStagger
			progress, err := motion.Spring(float64(local-trigger), float64(fps), rc.Spring)
			if err != nil {
				return nil, fmt.Errorf("caption %q word %d:%d: %w", seg.ID, li, wi, err)
			}
			reveals[wi] = WordReveal{
				Line:         li,
				Word:         wi,
				Text:         word,
				Highlight:    seg.IsHighlight(li),
				TriggerFrame: trigger,
				Progress:     progress,
			}
		}
		lines[li] = reveals
	}
	return lines, nil
}

// ValidateCaptions rejects empty or inverted windows and highlight indexes
// pointing past the last line.
func ValidateCaptions(segments []CaptionSegment) error {
	for i, s := range segments {
		if math.IsNaN(s.Start) || math.IsNaN(s.End) || s.End <= s.Start {
			return fmt.Errorf("%w: segment %d (%q) window [%g, %g)", ErrInvalidCaption, i, s.ID, s.Start, s.End)
		}
		if s.Highlight != nil && (*s.Highlight < 0 || *s.Highlight >= len(s.Lines)) {
			return fmt.Errorf("%w: segment %d (%q) highlights line %d of %d",
				ErrInvalidCaption, i, s.ID, *s.Highlight, len(s.Lines))
		}
	}
	return nil
}

// Misalignment describes a caption whose window does not coincide with any
// scene window.
type Misalignment struct {
	Caption    string
	StartFrame int
	EndFrame   int
}

func (m Misalignment) String() string {
	return fmt.Sprintf("caption %q spans frames [%d, %d) which match no scene window", m.Caption, m.StartFrame, m.EndFrame)
}

// CheckAlignment lists captions that are not aligned with a scene window.
// Captions are scheduled independently of scenes, so a misalignment is a
// content warning rather than an error.
func CheckAlignment(timeline Timeline, segments []CaptionSegment, fps int) []Misalignment {
	var out []Misalignment
	for _, s := range segments {
		start := s.StartFrame(fps)
		end := int(math.Ceil(s.End * float64(fps)))

		aligned := false
		for _, w := range timeline {
			if w.StartFrame == start && w.EndFrame() == end {
				aligned = true
				break
			}
		}
		if !aligned {
			out = append(out, Misalignment{Caption: s.ID, StartFrame: start, EndFrame: end})
		}
	}
	return out
}
