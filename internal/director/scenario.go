package director

import "math"

// Scenario is the complete timing schedule of a composition: which scene is
// on screen and which caption is spoken at every frame.
type Scenario struct {
	Version  string           `yaml:"version" json:"version"`
	FPS      int              `yaml:"fps" json:"fps"`
	Scenes   []SceneWindow    `yaml:"scenes" json:"scenes"`
	Captions []CaptionSegment `yaml:"captions,omitempty" json:"captions,omitempty"`
}

// SceneWindow is the half-open frame interval [StartFrame, StartFrame+LengthFrames)
// during which a scene is shown.
type SceneWindow struct {
	ID           string `yaml:"id" json:"id"`
	StartFrame   int    `yaml:"start_frame" json:"startFrame"`
	LengthFrames int    `yaml:"length_frames" json:"lengthFrames"`
	Asset        string `yaml:"asset,omitempty" json:"asset,omitempty"`   // Backdrop image reference
	Effect       string `yaml:"effect,omitempty" json:"effect,omitempty"` // Ken Burns effect name
}

// EndFrame returns the first frame after the window.
func (w SceneWindow) EndFrame() int {
	return w.StartFrame + w.LengthFrames
}

// Contains reports whether frame falls inside the window.
func (w SceneWindow) Contains(frame int) bool {
	return frame >= w.StartFrame && frame < w.EndFrame()
}

// CaptionSegment is a block of text lines shown while
// Start <= t < End (seconds).
type CaptionSegment struct {
	ID        string   `yaml:"id" json:"id"`
	Lines     []string `yaml:"lines" json:"lines"`
	Highlight *int     `yaml:"highlight,omitempty" json:"highlight,omitempty"` // Index of the emphasized line
	Start     float64  `yaml:"start" json:"start"`
	End       float64  `yaml:"end" json:"end"`
}

// Active reports whether the segment is showing at t seconds.
func (s CaptionSegment) Active(t float64) bool {
	return s.Start <= t && t < s.End
}

// IsHighlight reports whether line i is the emphasized line.
func (s CaptionSegment) IsHighlight(i int) bool {
	return s.Highlight != nil && *s.Highlight == i
}

// StartFrame returns the first frame at which the segment is active.
func (s CaptionSegment) StartFrame(fps int) int {
	return int(math.Ceil(s.Start * float64(fps)))
}
