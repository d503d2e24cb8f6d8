package director

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelframe/internal/motion"
)

func referenceTimeline(t *testing.T) Timeline {
	t.Helper()
	timeline, err := Sequential(30, []SceneSpec{
		{ID: "hook", Seconds: 3},
		{ID: "fact1", Seconds: 5},
		{ID: "fact2", Seconds: 5},
		{ID: "superpower", Seconds: 10},
		{ID: "conclusion", Seconds: 7},
	})
	require.NoError(t, err)
	return timeline
}

func highlight(i int) *int { return &i }

func TestSequentialPartitionsTimeline(t *testing.T) {
	timeline := referenceTimeline(t)

	require.NoError(t, timeline.Validate())
	assert.Equal(t, 900, timeline.TotalFrames())
	assert.True(t, timeline.Partitions(900))
	assert.False(t, timeline.Partitions(901))

	for f := 0; f < 900; f++ {
		active := timeline.ActiveScenes(f)
		require.Len(t, active, 1, "frame %d", f)
		assert.Equal(t, f-active[0].Scene.StartFrame, active[0].LocalFrame)
	}
}

func TestActiveScenesBoundaries(t *testing.T) {
	timeline := referenceTimeline(t)

	tests := []struct {
		frame int
		id    string
		local int
	}{
		{0, "hook", 0},
		{89, "hook", 89},
		{90, "fact1", 0},
		{239, "fact1", 149},
		{240, "fact2", 0},
		{390, "superpower", 0},
		{690, "conclusion", 0},
		{899, "conclusion", 209},
	}

	for _, tt := range tests {
		active := timeline.ActiveScenes(tt.frame)
		require.Len(t, active, 1, "frame %d", tt.frame)
		assert.Equal(t, tt.id, active[0].Scene.ID, "frame %d", tt.frame)
		assert.Equal(t, tt.local, active[0].LocalFrame, "frame %d", tt.frame)
	}

	assert.Empty(t, timeline.ActiveScenes(-1))
	assert.Empty(t, timeline.ActiveScenes(900))
}

func TestActiveScenesGapsAndOverlaps(t *testing.T) {
	timeline := Timeline{
		{ID: "a", StartFrame: 0, LengthFrames: 10},
		{ID: "b", StartFrame: 20, LengthFrames: 10},
		{ID: "c", StartFrame: 25, LengthFrames: 10},
	}
	require.NoError(t, timeline.Validate())
	assert.False(t, timeline.Partitions(35))

	assert.Empty(t, timeline.ActiveScenes(15))

	active := timeline.ActiveScenes(27)
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].Scene.ID)
	assert.Equal(t, 7, active[0].LocalFrame)
	assert.Equal(t, "c", active[1].Scene.ID)
	assert.Equal(t, 2, active[1].LocalFrame)
}

func TestTimelineValidation(t *testing.T) {
	_, err := Sequential(0, []SceneSpec{{ID: "a", Seconds: 1}})
	assert.ErrorIs(t, err, ErrInvalidTimeline)

	_, err = Sequential(30, []SceneSpec{{ID: "a", Seconds: 0}})
	assert.ErrorIs(t, err, motion.ErrInvalidConfiguration)

	err = Timeline{{ID: "a", StartFrame: -5, LengthFrames: 10}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidTimeline)

	err = Timeline{{ID: "a", LengthFrames: 10}, {ID: "a", StartFrame: 10, LengthFrames: 10}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidTimeline)
}

func TestCaptionActivity(t *testing.T) {
	seg := CaptionSegment{ID: "fact1", Lines: []string{"Dogs have"}, Start: 3, End: 8}
	segments := []CaptionSegment{seg}

	tests := []struct {
		frame  int
		active bool
	}{
		{89, false},
		{90, true},
		{239, true},
		{240, false},
	}
	for _, tt := range tests {
		got := ActiveCaptions(float64(tt.frame)/30, segments)
		if tt.active {
			assert.Len(t, got, 1, "frame %d", tt.frame)
		} else {
			assert.Empty(t, got, "frame %d", tt.frame)
		}
	}
}

func TestActiveCaptionsReturnsAllOverlapping(t *testing.T) {
	segments := []CaptionSegment{
		{ID: "first", Start: 0, End: 5},
		{ID: "second", Start: 4, End: 6},
		{ID: "third", Start: 6, End: 7},
	}

	got := ActiveCaptions(4.5, segments)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestWordRevealsOrderAndStagger(t *testing.T) {
	seg := CaptionSegment{
		ID:        "fact1",
		Lines:     []string{"Dogs have", "300 MILLION scent receptors"},
		Highlight: highlight(1),
		Start:     3,
		End:       8,
	}
	rc := DefaultRevealConfig()

	// First active frame: every word is at its trigger or before it.
	lines, err := WordReveals(90, 30, seg, rc)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Len(t, lines[0], 2)
	require.Len(t, lines[1], 4)

	assert.Equal(t, []string{"Dogs", "have"}, texts(lines[0]))
	assert.Equal(t, []string{"300", "MILLION", "scent", "receptors"}, texts(lines[1]))
	for _, w := range append(lines[0], lines[1]...) {
		assert.Zero(t, w.Progress)
		assert.Equal(t, w.Line*4+w.Word*2, w.TriggerFrame)
		assert.Equal(t, w.Line == 1, w.Highlight)
	}

	// A few frames in, earlier words lead later ones.
	lines, err = WordReveals(96, 30, seg, rc)
	require.NoError(t, err)
	assert.Greater(t, lines[0][0].Progress, lines[0][1].Progress)
	assert.Greater(t, lines[0][1].Progress, lines[1][0].Progress)
	assert.Greater(t, lines[1][0].Progress, lines[1][3].Progress)

	// Long after the trigger everything has settled.
	lines, err = WordReveals(230, 30, seg, rc)
	require.NoError(t, err)
	for _, line := range lines {
		for _, w := range line {
			assert.InDelta(t, 1.0, w.Progress, 1e-3)
		}
	}
}

func TestWordRevealsRejectsBadSpring(t *testing.T) {
	seg := CaptionSegment{ID: "x", Lines: []string{"a b"}, Start: 0, End: 1}
	rc := DefaultRevealConfig()
	rc.Spring.Mass = 0

	_, err := WordReveals(5, 30, seg, rc)
	assert.ErrorIs(t, err, motion.ErrInvalidConfiguration)
}

func TestCheckAlignment(t *testing.T) {
	timeline := referenceTimeline(t)
	segments := []CaptionSegment{
		{ID: "hook", Start: 0, End: 3},
		{ID: "fact1", Start: 3, End: 8},
		{ID: "drift", Start: 8.5, End: 13},
	}

	misaligned := CheckAlignment(timeline, segments, 30)
	require.Len(t, misaligned, 1)
	assert.Equal(t, "drift", misaligned[0].Caption)
	assert.Equal(t, 255, misaligned[0].StartFrame)
	assert.Equal(t, 390, misaligned[0].EndFrame)
}

func TestValidateCaptions(t *testing.T) {
	assert.NoError(t, ValidateCaptions([]CaptionSegment{{ID: "ok", Lines: []string{"a"}, Highlight: highlight(0), Start: 0, End: 1}}))
	assert.ErrorIs(t, ValidateCaptions([]CaptionSegment{{ID: "inverted", Start: 2, End: 1}}), ErrInvalidCaption)
	assert.ErrorIs(t, ValidateCaptions([]CaptionSegment{{ID: "hl", Lines: []string{"a"}, Highlight: highlight(3), Start: 0, End: 1}}), ErrInvalidCaption)
}

func TestScenarioWriteRead(t *testing.T) {
	scenario := &Scenario{
		Version: ScenarioVersion,
		FPS:     30,
		Scenes:  referenceTimeline(t),
		Captions: []CaptionSegment{
			{ID: "hook", Lines: []string{"Your dog knows"}, Start: 0, End: 3},
			{ID: "fact1", Lines: []string{"Dogs have", "300 MILLION"}, Highlight: highlight(1), Start: 3, End: 8},
		},
	}

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, WriteScenario(scenario, path))

	read, err := ReadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, scenario, read)

	var buf bytes.Buffer
	require.NoError(t, EncodeScenario(&buf, scenario))
	assert.Contains(t, buf.String(), "start_frame: 90")
}

func TestReadScenarioRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, WriteScenario(&Scenario{Version: ScenarioVersion, FPS: 30, Scenes: []SceneWindow{{ID: "a", LengthFrames: 0}}}, path))

	_, err := ReadScenario(path)
	assert.ErrorIs(t, err, ErrInvalidTimeline)
}

func texts(words []WordReveal) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
