package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelframe/internal/renderer"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, NewsID, list[0].ID)
	assert.Equal(t, StoryID, list[1].ID)

	news, err := r.Lookup(NewsID)
	require.NoError(t, err)
	assert.Equal(t, 450, news.DurationInFrames)
	assert.Equal(t, 30, news.FPS)
	assert.Equal(t, 1080, news.Width)
	assert.Equal(t, 1920, news.Height)

	story, err := r.Lookup(StoryID)
	require.NoError(t, err)
	assert.Equal(t, 900, story.DurationInFrames)

	_, err = r.Lookup("Nope")
	assert.ErrorIs(t, err, ErrUnknownComposition)
}

func TestRenderUsesDefaultProps(t *testing.T) {
	news, err := Default().Lookup(NewsID)
	require.NoError(t, err)

	fr, err := news.Render(120, nil)
	require.NoError(t, err)
	company, ok := fr.Find("company")
	require.True(t, ok)
	assert.Equal(t, "Anthropic", company.Text)
	bullets, _ := fr.Find("bullets")
	assert.Len(t, bullets.Children, 4)

	fr, err = news.Render(120, map[string]any{"company": "Acme", "bulletPoints": []any{}})
	require.NoError(t, err)
	company, _ = fr.Find("company")
	assert.Equal(t, "Acme", company.Text)
	bullets, _ = fr.Find("bullets")
	assert.Len(t, bullets.Children, 0)

	// Defaults are not modified by overrides.
	assert.Equal(t, "Anthropic", news.DefaultProps["company"])
}

func TestRenderRejectsOutOfRange(t *testing.T) {
	story, err := Default().Lookup(StoryID)
	require.NoError(t, err)

	_, err = story.Render(-1, nil)
	assert.ErrorIs(t, err, renderer.ErrFrameOutOfRange)
	_, err = story.Render(900, nil)
	assert.ErrorIs(t, err, renderer.ErrFrameOutOfRange)
}

func TestRegisterValidation(t *testing.T) {
	r := New()
	noop := func(int, renderer.VideoConfig, map[string]any) (*renderer.Frame, error) {
		return &renderer.Frame{}, nil
	}

	err := r.Register(Composition{VideoConfig: renderer.VideoConfig{ID: "bad", DurationInFrames: 0, FPS: 30, Width: 1, Height: 1}, Component: noop})
	assert.ErrorIs(t, err, renderer.ErrInvalidVideoConfig)

	err = r.Register(Composition{VideoConfig: renderer.VideoConfig{ID: "nil", DurationInFrames: 1, FPS: 30, Width: 1, Height: 1}})
	assert.ErrorIs(t, err, renderer.ErrInvalidVideoConfig)

	ok := Composition{VideoConfig: renderer.VideoConfig{ID: "ok", DurationInFrames: 1, FPS: 30, Width: 1, Height: 1}, Component: noop}
	require.NoError(t, r.Register(ok))
	assert.Error(t, r.Register(ok))
}
