package composer

import (
	"fmt"

	"github.com/ivlev/reelframe/internal/director"
	"github.com/ivlev/reelframe/internal/effects"
	"github.com/ivlev/reelframe/internal/renderer"
)

const (
	storyFontFamily = "'Bebas Neue', sans-serif"
	storyFontSheet  = "https://fonts.googleapis.com/css2?family=Bebas+Neue&family=Montserrat:wght@600;800&display=swap"
	storyHighlight  = "#ccff00"
	storyMusic      = "music.mp3"
	storyVoiceover  = "voiceover.mp3"
	storyBottomPad  = 0.12 // Fraction of canvas height kept free under captions
	storyLineHeight = 0.85
	storyWordGap    = 16.0
)

var storyScenes = []director.SceneSpec{
	{ID: "hook", Seconds: 3, Effect: "zoomIn", Asset: "https://images.pexels.com/photos/2253275/pexels-photo-2253275.jpeg"},
	{ID: "fact1", Seconds: 5, Effect: "panRight", Asset: "https://images.pexels.com/photos/406014/pexels-photo-406014.jpeg"},
	{ID: "fact2", Seconds: 5, Effect: "zoomSlow", Asset: "https://images.pexels.com/photos/1633522/pexels-photo-1633522.jpeg"},
	{ID: "superpower", Seconds: 10, Effect: "panUp", Asset: "https://images.pexels.com/photos/2607544/pexels-photo-2607544.jpeg"},
	{ID: "conclusion", Seconds: 7, Effect: "zoomInSlow", Asset: "https://images.pexels.com/photos/39317/chihuahua-dog-puppy-cute-39317.jpeg"},
}

func storyCaptions() []director.CaptionSegment {
	second := 1
	return []director.CaptionSegment{
		{ID: "hook", Lines: []string{"Your dog knows when you're stressed", "before you do"}, Start: 0, End: 3},
		{ID: "fact1", Lines: []string{"Dogs have", "300 MILLION scent receptors"}, Highlight: &second, Start: 3, End: 8},
		{ID: "fact2", Lines: []string{"Humans?", "Only 6 MILLION"}, Highlight: &second, Start: 8, End: 13},
		{ID: "superpower", Lines: []string{"They can smell fear, anxiety,", "and even diseases like", "cancer and diabetes"}, Start: 13, End: 23},
		{ID: "conclusion", Lines: []string{"They're not just pets.", "They're biological sensors"}, Highlight: &second, Start: 23, End: 30},
	}
}

// StoryScenario returns the scene and caption schedule of the story
// template at fps.
func StoryScenario(fps int) (*director.Scenario, error) {
	timeline, err := director.Sequential(fps, storyScenes)
	if err != nil {
		return nil, err
	}
	return &director.Scenario{
		Version:  director.ScenarioVersion,
		FPS:      fps,
		Scenes:   timeline,
		Captions: storyCaptions(),
	}, nil
}

// Story composes the story template at frame. Scenes and captions are
// scheduled independently: a caption shows whenever its own window is
// active, over whichever scene is current.
func Story(frame int, vc renderer.VideoConfig) (*renderer.Frame, error) {
	if err := vc.CheckFrame(frame); err != nil {
		return nil, err
	}
	scenario, err := StoryScenario(vc.FPS)
	if err != nil {
		return nil, err
	}

	w, h := float64(vc.Width), float64(vc.Height)
	var elements []renderer.Element

	for _, active := range director.Timeline(scenario.Scenes).ActiveScenes(frame) {
		el, err := storyScene(active, vc.FPS, w, h)
		if err != nil {
			return nil, fmt.Errorf("%s frame %d: %w", vc.ID, frame, err)
		}
		elements = append(elements, el)
	}

	reveal := director.DefaultRevealConfig()
	for _, seg := range director.ActiveCaptions(vc.Seconds(frame), scenario.Captions) {
		lines, err := director.WordReveals(frame, vc.FPS, seg, reveal)
		if err != nil {
			return nil, fmt.Errorf("%s frame %d: %w", vc.ID, frame, err)
		}
		elements = append(elements, storyCaption(seg, lines, w, h))
	}

	return &renderer.Frame{
		Composition: vc.ID,
		Index:       frame,
		Time:        vc.Seconds(frame),
		Width:       vc.Width,
		Height:      vc.Height,
		FPS:         vc.FPS,
		Background:  "#000000",
		Fonts:       []string{storyFontSheet},
		Audio: []renderer.AudioTrack{
			{Asset: storyMusic, Volume: 0.12},
			{Asset: storyVoiceover, Volume: 1.0},
		},
		Elements: elements,
	}, nil
}

func storyScene(active director.ActiveScene, fps int, w, h float64) (renderer.Element, error) {
	eff, err := effects.New(active.Scene.Effect)
	if err != nil {
		return renderer.Element{}, err
	}
	progress, err := effects.KenBurnsProgress(active.LocalFrame, fps)
	if err != nil {
		return renderer.Element{}, err
	}

	canvas := renderer.Box{W: w, H: h}
	return renderer.Element{
		ID:        "scene-" + active.Scene.ID,
		Kind:      renderer.KindGroup,
		Box:       canvas,
		Opacity:   1,
		Transform: renderer.Identity(),
		Children: []renderer.Element{{
			ID:        "scene-" + active.Scene.ID + "-image",
			Kind:      renderer.KindImage,
			Box:       canvas,
			Opacity:   1,
			Transform: eff.Transform(progress, canvas),
			Asset:     active.Scene.Asset,
			Filter:    "brightness(0.5)",
		}},
	}, nil
}

func storyCaption(seg director.CaptionSegment, lines [][]director.WordReveal, w, h float64) renderer.Element {
	// Lines stack upward from the bottom padding.
	total := 0.0
	for li := range lines {
		total += storyFontSize(seg.IsHighlight(li)) * storyLineHeight
	}
	y := h*(1-storyBottomPad) - total

	children := make([]renderer.Element, len(lines))
	for li, words := range lines {
		hl := seg.IsHighlight(li)
		size := storyFontSize(hl)
		lineH := size * storyLineHeight

		lineW := 0.0
		for wi, word := range words {
			if wi > 0 {
				lineW += storyWordGap
			}
			lineW += textWidth(word.Text, size)
		}

		rotate := 0.0
		if hl {
			rotate = -1
		}

		x := (w - lineW) / 2
		wordEls := make([]renderer.Element, len(words))
		for wi, word := range words {
			ww := textWidth(word.Text, size)
			wordEls[wi] = storyWord(seg.ID, word, renderer.Box{X: x, Y: y, W: ww, H: lineH}, size)
			x += ww + storyWordGap
		}

		children[li] = renderer.Element{
			ID:        fmt.Sprintf("caption-%s-line-%d", seg.ID, li),
			Kind:      renderer.KindGroup,
			Box:       renderer.Box{X: (w - lineW) / 2, Y: y, W: lineW, H: lineH},
			Opacity:   1,
			Transform: renderer.Transform{Scale: 1, Rotate: rotate},
			Children:  wordEls,
		}
		y += lineH
	}

	return renderer.Element{
		ID:        "caption-" + seg.ID,
		Kind:      renderer.KindGroup,
		Box:       renderer.Box{Y: h*(1-storyBottomPad) - total, W: w, H: total},
		Opacity:   1,
		Transform: renderer.Identity(),
		Children:  children,
	}
}

func storyWord(caption string, word director.WordReveal, box renderer.Box, size float64) renderer.Element {
	s := word.Progress
	color, shadow := "#ffffff", "4px 4px 0 #000000"
	if word.Highlight {
		color, shadow = storyHighlight, "0 0 20px rgba(204, 255, 0, 0.4)"
	}
	return renderer.Element{
		ID:      fmt.Sprintf("caption-%s-word-%d-%d", caption, word.Line, word.Word),
		Kind:    renderer.KindText,
		Box:     box,
		Opacity: clamp01(s),
		Transform: renderer.Transform{
			Scale:      0.5 + s*0.5,
			TranslateY: (1 - s) * 60,
			Rotate:     (1 - s) * 10,
		},
		Color: color,
		Text:  word.Text,
		Font:  &renderer.Font{Family: storyFontFamily, Size: size, Shadow: shadow},
	}
}

func storyFontSize(highlight bool) float64 {
	if highlight {
		return 120
	}
	return 85
}
