package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const twoSpeakerPayload = `{"results": {
	"items": [
		{"type": "pronunciation", "start_time": "0.0", "end_time": "0.5",
			"speaker_label": "spk_0", "alternatives": [{"content": "Hello"}]},
		{"type": "pronunciation", "start_time": "0.5", "end_time": "1.0",
			"speaker_label": "spk_0", "alternatives": [{"content": "world"}]},
		{"type": "pronunciation", "start_time": "1.0", "end_time": "1.5",
			"speaker_label": "spk_1", "alternatives": [{"content": "Hi"}]}
	]}}`

func TestReconcileTwoSpeakers(t *testing.T) {
	names := NameMap{"spk_0": "Alice", "spk_1": "Bob"}
	res, err := Reconcile([]byte(twoSpeakerPayload), names)
	require.NoError(t, err)
	require.Equal(t, "Alice: Hello world\nBob: Hi", res.Text)
	require.Equal(t, 2, res.SpeakerCount)
}

func TestReconcileSingleSpeakerFallback(t *testing.T) {
	data := `{"results": {"items": [
		{"type": "pronunciation", "start_time": "0.0", "end_time": "0.5",
			"alternatives": [{"content": "just"}]},
		{"type": "pronunciation", "start_time": "0.5", "end_time": "1.0",
			"alternatives": [{"content": "me"}]}]}}`

	res, err := Reconcile([]byte(data), nil)
	require.NoError(t, err)
	require.Equal(t, "Speaker: just me", res.Text)
	require.Equal(t, 1, res.SpeakerCount)
	require.NotEmpty(t, res.Warnings)
}

func TestReconcileMissingResults(t *testing.T) {
	_, err := Reconcile([]byte(`{"status": "COMPLETED"}`), nil)
	require.ErrorIs(t, err, ErrInvalidPayload)
}

// Direct item labels group correctly even when no segment matching is
// possible because the segment list is empty.
func TestReconcileDirectLabelsWithoutSegments(t *testing.T) {
	data := `{"results": {
		"items": [
			{"type": "pronunciation", "speaker_label": "spk_0",
				"alternatives": [{"content": "no"}]},
			{"type": "pronunciation", "speaker_label": "spk_0",
				"alternatives": [{"content": "timing"}]},
			{"type": "pronunciation", "speaker_label": "spk_1",
				"alternatives": [{"content": "needed"}]}
		],
		"speaker_labels": {"speakers_count": 2, "segments": []}}}`

	res, err := Reconcile([]byte(data), NameMap{"spk_0": "A", "spk_1": "B"})
	require.NoError(t, err)
	require.Equal(t, "A: no timing\nB: needed", res.Text)
}

func TestReconcileSegmentMatching(t *testing.T) {
	data := `{"results": {
		"items": [
			{"type": "pronunciation", "start_time": "0.1", "end_time": "0.4",
				"alternatives": [{"content": "How"}]},
			{"type": "pronunciation", "start_time": "0.5", "end_time": "0.9",
				"alternatives": [{"content": "goes"}]},
			{"type": "punctuation", "alternatives": [{"content": "?"}]},
			{"type": "pronunciation", "start_time": "2.1", "end_time": "2.4",
				"alternatives": [{"content": "Fine"}]},
			{"type": "punctuation", "alternatives": [{"content": "."}]}
		],
		"speaker_labels": {"speakers_count": 2, "segments": [
			{"speaker_label": "spk_0", "start_time": "0.0", "end_time": "1.0"},
			{"speaker_label": "spk_1", "start_time": "2.0", "end_time": "3.0"}]}}}`

	res, err := Reconcile([]byte(data), NameMap{"spk_0": "Ana", "spk_1": "Ben"})
	require.NoError(t, err)
	require.Equal(t, "Ana: How goes?\nBen: Fine.", res.Text)
	require.Empty(t, res.Warnings)
}

func TestReconcileIdempotent(t *testing.T) {
	names := NameMap{"spk_0": "Alice", "spk_1": "Bob"}
	first, err := Reconcile([]byte(twoSpeakerPayload), names)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Reconcile([]byte(twoSpeakerPayload), names)
		require.NoError(t, err)
		require.Equal(t, first.Text, again.Text)
	}
}

func TestReconcileNoAdjacentDuplicateSpeakers(t *testing.T) {
	// Two raw labels mapped to the same display name collapse into one
	// block.
	names := NameMap{"spk_0": "Alice", "spk_1": "Alice"}
	res, err := Reconcile([]byte(twoSpeakerPayload), names)
	require.NoError(t, err)

	lines := strings.Split(res.Text, "\n")
	require.Equal(t, []string{"Alice: Hello world Hi"}, lines)
	for i := 1; i < len(lines); i++ {
		prev := strings.SplitN(lines[i-1], ":", 2)[0]
		cur := strings.SplitN(lines[i], ":", 2)[0]
		require.NotEqual(t, prev, cur)
	}
}

func TestReconcileUnmappedLabelFallsBackToRaw(t *testing.T) {
	res, err := Reconcile([]byte(twoSpeakerPayload), NameMap{"spk_0": "Alice"})
	require.NoError(t, err)
	require.Equal(t, "Alice: Hello world\nspk_1: Hi", res.Text)
}

func TestReconcileEmptyItems(t *testing.T) {
	res, err := Reconcile([]byte(`{"results": {"items": []}}`), nil)
	require.NoError(t, err)
	require.Empty(t, res.Text)
}

func TestReconcileAllWordsDropped(t *testing.T) {
	// Words with neither timing nor labels, while segments exist for a
	// different speaker universe: nothing can be attributed, so the output
	// degrades to a single generic block.
	data := `{"results": {
		"items": [
			{"type": "pronunciation", "alternatives": [{"content": "lost"}]},
			{"type": "pronunciation", "alternatives": [{"content": "words"}]}
		],
		"speaker_labels": {"speakers_count": 1, "segments": [
			{"speaker_label": "spk_0", "start_time": "0.0", "end_time": "1.0"}]}}}`

	res, err := Reconcile([]byte(data), nil)
	require.NoError(t, err)
	require.Equal(t, "Speaker: lost words", res.Text)
	require.NotEmpty(t, res.Warnings)
}

func TestAssembleOrdersByEarliestSegment(t *testing.T) {
	// spk_1 speaks first; block order follows segment time, not label
	// declaration order.
	n := &Normalized{
		Segments: []Segment{
			{Speaker: "spk_0", Start: 5.0, End: 6.0},
			{Speaker: "spk_1", Start: 1.0, End: 2.0},
		},
		Speakers:     []string{"spk_0", "spk_1"},
		SpeakerCount: 2,
	}
	matched := map[string][]string{
		"spk_0": {"later"},
		"spk_1": {"earlier"},
	}
	text, warnings := Assemble(n, matched, nil)
	require.Empty(t, warnings)
	require.Equal(t, "spk_1: earlier\nspk_0: later", text)
}
