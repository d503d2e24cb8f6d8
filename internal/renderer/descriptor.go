// Package renderer defines the render descriptor: the resolved, immutable
// snapshot of everything drawn and heard at one frame.
package renderer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Kind tells the rasterizer how to draw an element.
type Kind string

const (
	KindGroup    Kind = "group"
	KindBox      Kind = "box"
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindGlow     Kind = "glow"
	KindParticle Kind = "particle"
)

// Frame is the render descriptor of one frame. A Frame is built from scratch
// on every evaluation and shares no memory with any other Frame.
type Frame struct {
	Composition string       `yaml:"composition" json:"composition"`
	Index       int          `yaml:"frame" json:"frame"`
	Time        float64      `yaml:"time" json:"time"`
	Width       int          `yaml:"width" json:"width"`
	Height      int          `yaml:"height" json:"height"`
	FPS         int          `yaml:"fps" json:"fps"`
	Background  string       `yaml:"background" json:"background"`
	Fonts       []string     `yaml:"fonts,omitempty" json:"fonts,omitempty"`
	Audio       []AudioTrack `yaml:"audio,omitempty" json:"audio,omitempty"`
	Elements    []Element    `yaml:"elements" json:"elements"`
}

// AudioTrack is a sound asset playing during the frame.
type AudioTrack struct {
	Asset  string  `yaml:"asset" json:"asset"`
	Volume float64 `yaml:"volume" json:"volume"`
	// StartFrom is the offset into the asset, in frames, at frame 0.
	StartFrom int `yaml:"start_from" json:"startFrom"`
}

// Box is an element's layout rectangle in canvas pixels, before Transform.
type Box struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Center returns the midpoint of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Transform is applied around the box center: scale, then rotate, then
// translate (pixels).
type Transform struct {
	Scale      float64 `yaml:"scale" json:"scale"`
	TranslateX float64 `yaml:"translate_x" json:"translateX"`
	TranslateY float64 `yaml:"translate_y" json:"translateY"`
	Rotate     float64 `yaml:"rotate" json:"rotate"` // Degrees
}

// Identity is the transform that leaves an element in place.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Font describes text styling.
type Font struct {
	Family string  `yaml:"family,omitempty" json:"family,omitempty"`
	Size   float64 `yaml:"size,omitempty" json:"size,omitempty"`
	Weight int     `yaml:"weight,omitempty" json:"weight,omitempty"`
	Shadow string  `yaml:"shadow,omitempty" json:"shadow,omitempty"`
}

// Element is one node of the descriptor tree. Opacity and Transform are
// local; a child's effective opacity is multiplied by its ancestors'.
type Element struct {
	ID        string    `yaml:"id" json:"id"`
	Kind      Kind      `yaml:"kind" json:"kind"`
	Box       Box       `yaml:"box" json:"box"`
	Opacity   float64   `yaml:"opacity" json:"opacity"`
	Transform Transform `yaml:"transform" json:"transform"`
	Color     string    `yaml:"color,omitempty" json:"color,omitempty"`
	Fill      string    `yaml:"fill,omitempty" json:"fill,omitempty"`
	Text      string    `yaml:"text,omitempty" json:"text,omitempty"`
	Font      *Font     `yaml:"font,omitempty" json:"font,omitempty"`
	Asset     string    `yaml:"asset,omitempty" json:"asset,omitempty"`
	Filter    string    `yaml:"filter,omitempty" json:"filter,omitempty"`
	Children  []Element `yaml:"children,omitempty" json:"children,omitempty"`
}

// Find returns the first element with the given id, searching depth first.
func (f *Frame) Find(id string) (*Element, bool) {
	for i := range f.Elements {
		if el, ok := f.Elements[i].find(id); ok {
			return el, true
		}
	}
	return nil, false
}

func (e *Element) find(id string) (*Element, bool) {
	if e.ID == id {
		return e, true
	}
	for i := range e.Children {
		if el, ok := e.Children[i].find(id); ok {
			return el, true
		}
	}
	return nil, false
}

// Walk visits every element depth first in draw order, passing the
// accumulated opacity of its ancestors.
func (f *Frame) Walk(fn func(el *Element, parentOpacity float64)) {
	for i := range f.Elements {
		walk(&f.Elements[i], 1, fn)
	}
}

func walk(el *Element, parentOpacity float64, fn func(*Element, float64)) {
	fn(el, parentOpacity)
	for i := range el.Children {
		walk(&el.Children[i], parentOpacity*el.Opacity, fn)
	}
}

// Digest returns a stable hash of the descriptor. Two frames with the same
// digest draw identically.
func (f *Frame) Digest() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
