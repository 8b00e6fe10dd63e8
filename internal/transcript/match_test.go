package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchDirectLabelWins(t *testing.T) {
	// Item label says spk_1 even though spk_0's segment contains the
	// midpoint; the direct label takes precedence.
	n := &Normalized{
		Words: []Word{
			{Content: "Hello", Start: 0.0, End: 0.5, Timed: true, Speaker: "spk_1"},
		},
		Segments: []Segment{
			{Speaker: "spk_0", Start: 0.0, End: 1.0},
		},
		Speakers:     []string{"spk_0", "spk_1"},
		SpeakerCount: 2,
	}
	matched := Match(n)
	require.Equal(t, []string{"Hello"}, matched["spk_1"])
	require.Empty(t, matched["spk_0"])
}

// A word whose timing falls strictly inside exactly one segment is always
// attributed to that segment's speaker.
func TestMatchContainment(t *testing.T) {
	n := &Normalized{
		Words: []Word{
			{Content: "one", Start: 0.1, End: 0.3, Timed: true},
			{Content: "two", Start: 1.2, End: 1.4, Timed: true},
			{Content: "three", Start: 0.6, End: 0.8, Timed: true},
		},
		Segments: []Segment{
			{Speaker: "spk_0", Start: 0.0, End: 1.0},
			{Speaker: "spk_1", Start: 1.0, End: 2.0},
		},
		Speakers:     []string{"spk_0", "spk_1"},
		SpeakerCount: 2,
	}
	matched := Match(n)
	require.Equal(t, []string{"one", "three"}, matched["spk_0"])
	require.Equal(t, []string{"two"}, matched["spk_1"])
}

// When overlapping segments from different speakers both contain the
// midpoint, the first segment in declaration order wins, on every run.
func TestMatchOverlapDeterminism(t *testing.T) {
	n := &Normalized{
		Words: []Word{
			{Content: "contested", Start: 0.4, End: 0.6, Timed: true},
		},
		Segments: []Segment{
			{Speaker: "spk_1", Start: 0.0, End: 1.0},
			{Speaker: "spk_0", Start: 0.2, End: 0.8},
		},
		Speakers:     []string{"spk_1", "spk_0"},
		SpeakerCount: 2,
	}
	for i := 0; i < 50; i++ {
		matched := Match(n)
		require.Equal(t, []string{"contested"}, matched["spk_1"])
		require.Empty(t, matched["spk_0"])
	}
}

func TestMatchNearestFallback(t *testing.T) {
	tests := []struct {
		name string
		word Word
		want string
	}{
		{"closer_to_first", Word{Content: "w", Start: 1.0, End: 1.2, Timed: true}, "spk_0"},
		{"closer_to_second", Word{Content: "w", Start: 2.6, End: 2.8, Timed: true}, "spk_1"},
		{"equidistant_first_seen_wins", Word{Content: "w", Start: 1.9, End: 2.1, Timed: true}, "spk_0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Normalized{
				Words: []Word{tt.word},
				Segments: []Segment{
					{Speaker: "spk_0", Start: 0.0, End: 1.0},
					{Speaker: "spk_1", Start: 3.0, End: 4.0},
				},
				Speakers:     []string{"spk_0", "spk_1"},
				SpeakerCount: 2,
			}
			matched := Match(n)
			require.Equal(t, []string{"w"}, matched[tt.want])
		})
	}
}

func TestMatchPunctuationAttachesToPreviousWord(t *testing.T) {
	n := &Normalized{
		Words: []Word{
			{Content: "Hello", Start: 0.0, End: 0.5, Timed: true, Speaker: "spk_0"},
			{Content: ",", Punct: true},
			{Content: "world", Start: 0.5, End: 1.0, Timed: true, Speaker: "spk_0"},
			{Content: ".", Punct: true},
		},
		Speakers:     []string{"spk_0"},
		SpeakerCount: 1,
	}
	matched := Match(n)
	require.Equal(t, []string{"Hello,", "world."}, matched["spk_0"])
}

func TestMatchLeadingPunctuationDropped(t *testing.T) {
	n := &Normalized{
		Words: []Word{
			{Content: ".", Punct: true},
			{Content: "Hello", Start: 0.0, End: 0.5, Timed: true, Speaker: "spk_0"},
		},
		Speakers:     []string{"spk_0"},
		SpeakerCount: 1,
	}
	matched := Match(n)
	require.Equal(t, []string{"Hello"}, matched["spk_0"])
}

func TestMatchDropsUntimedUnlabeledWord(t *testing.T) {
	n := &Normalized{
		Words: []Word{
			{Content: "placeable", Start: 0.0, End: 0.5, Timed: true},
			{Content: "orphan"},
		},
		Segments: []Segment{
			{Speaker: "spk_0", Start: 0.0, End: 1.0},
		},
		Speakers:     []string{"spk_0"},
		SpeakerCount: 1,
	}
	matched := Match(n)
	require.Equal(t, []string{"placeable"}, matched["spk_0"])
}
