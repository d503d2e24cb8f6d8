package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelframe/internal/engine"
	"github.com/ivlev/reelframe/internal/logging"
	"github.com/ivlev/reelframe/internal/preview"
	"github.com/ivlev/reelframe/internal/registry"
	"github.com/ivlev/reelframe/internal/renderer"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	rast, err := preview.New(preview.Options{Scale: 0.1})
	require.NoError(t, err)

	s := &Server{
		Registry: registry.Default(),
		Metrics:  engine.NewMetrics(reg),
		Preview:  rast,
		Logger:   logging.NewNop(),
	}
	ts := httptest.NewServer(NewHandler(s, reg))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListCompositions(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/compositions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []CompositionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, registry.NewsID, list[0].ID)
	assert.Equal(t, 450, list[0].DurationInFrames)
	assert.Equal(t, 15.0, list[0].DurationSeconds)
	assert.Equal(t, registry.StoryID, list[1].ID)
}

func TestGetComposition(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/compositions/"+registry.StoryID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c CompositionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	assert.Equal(t, 900, c.DurationInFrames)

	resp = get(t, ts.URL+"/compositions/Missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderFrameStatus(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/compositions/AiNewsVideo/frames/0", http.StatusOK},
		{"/compositions/AiNewsVideo/frames/449", http.StatusOK},
		{"/compositions/AiNewsVideo/frames/450", http.StatusBadRequest},
		{"/compositions/AiNewsVideo/frames/-1", http.StatusBadRequest},
		{"/compositions/AiNewsVideo/frames/abc", http.StatusBadRequest},
		{"/compositions/Missing/frames/0", http.StatusNotFound},
		{"/compositions/DogStoryVideo/frames/95?format=yaml", http.StatusOK},
		{"/compositions/DogStoryVideo/frames/95?format=gif", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := get(t, ts.URL+tt.path)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}

func TestRenderFrameJSON(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/compositions/DogStoryVideo/frames/90")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var fr renderer.Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fr))
	assert.Equal(t, registry.StoryID, fr.Composition)
	assert.Equal(t, 90, fr.Index)
	_, ok := fr.Find("scene-fact1")
	assert.True(t, ok)
}

func TestRenderFramePostProps(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL + "/compositions/AiNewsVideo/frames/120"

	resp, err := http.Post(url, "application/json", strings.NewReader(`{"headline":"Hello"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fr renderer.Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fr))
	headline, ok := fr.Find("headline")
	require.True(t, ok)
	assert.Equal(t, "Hello", headline.Text)

	bad, err := http.Post(url, "application/json", strings.NewReader(`{"bulletPoints": 3}`))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	broken, err := http.Post(url, "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer broken.Body.Close()
	assert.Equal(t, http.StatusBadRequest, broken.StatusCode)
}

func TestRenderFramePNG(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/compositions/AiNewsVideo/frames/200?format=png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 108, img.Bounds().Dx())
	assert.Equal(t, 192, img.Bounds().Dy())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	get(t, ts.URL+"/compositions/AiNewsVideo/frames/1")
	get(t, ts.URL+"/compositions/AiNewsVideo/frames/999")

	resp := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `reelframe_frames_rendered_total{composition="AiNewsVideo"} 1`)
	assert.Contains(t, string(body), `reelframe_frame_failures_total{composition="AiNewsVideo"} 1`)
}
