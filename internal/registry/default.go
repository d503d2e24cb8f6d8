package registry

import (
	"github.com/ivlev/reelframe/internal/composer"
	"github.com/ivlev/reelframe/internal/renderer"
)

// Identifiers of the built-in compositions.
const (
	NewsID  = "AiNewsVideo"
	StoryID = "DogStoryVideo"
)

// Default returns a registry with the built-in compositions.
func Default() *Registry {
	r := New()
	for _, c := range builtin() {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

func builtin() []Composition {
	return []Composition{
		{
			VideoConfig: renderer.VideoConfig{ID: NewsID, DurationInFrames: 450, FPS: 30, Width: 1080, Height: 1920},
			DefaultProps: map[string]any{
				"headline":    "Claude 4.5 ចេញហើយ!",
				"company":     "Anthropic",
				"mainBenefit": "ឥឡូវនេះអាចសរសេរកូដលឿនជាងមុន ១០ ដង",
				"bulletPoints": []any{
					"80.9% SWE-bench score (លេខ ១របស់ពិភពលោក)",
					"ប្រើប្រាស់ token តិចជាង ៧៦%",
					"Infinite Chats - សន្ទនាបានគ្មានដែនកំណត់",
					"សរសេរ code ស្វ័យប្រវត្តិបានពេញលេញ",
				},
				"impact":   "ការងារលឿនជាងមុន ១០ ដង",
				"hashtags": "#AIHunter #Claude #Anthropic #Coding",
			},
			Component: newsComponent,
		},
		{
			VideoConfig: renderer.VideoConfig{ID: StoryID, DurationInFrames: 900, FPS: 30, Width: 1080, Height: 1920},
			Component:   storyComponent,
		},
	}
}

func newsComponent(frame int, vc renderer.VideoConfig, props map[string]any) (*renderer.Frame, error) {
	p, err := composer.DecodeNewsProps(props)
	if err != nil {
		return nil, err
	}
	return composer.News(frame, vc, p)
}

// storyComponent ignores props: the story's content is fixed.
func storyComponent(frame int, vc renderer.VideoConfig, _ map[string]any) (*renderer.Frame, error) {
	return composer.Story(frame, vc)
}
