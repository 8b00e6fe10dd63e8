package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidPayload reports a payload with no results structure at all.
// This is the only fatal condition; malformed diarization data inside an
// otherwise-present results block is degraded, never fatal.
var ErrInvalidPayload = errors.New("transcript: payload has no results")

// Payload is the raw decoded Transcribe output. SpeakerLabels is kept opaque
// until Normalize because it arrives in several shapes: a dict with an
// explicit count, a dict without one, or a list whose first element holds the
// segments.
type Payload struct {
	Results *rawResults `json:"results"`
}

type rawResults struct {
	Items         []rawItem       `json:"items"`
	SpeakerLabels json.RawMessage `json:"speaker_labels"`
}

type rawItem struct {
	Type         string           `json:"type"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	SpeakerLabel string           `json:"speaker_label"`
	Alternatives []rawAlternative `json:"alternatives"`
}

type rawAlternative struct {
	Content string `json:"content"`
}

// rawSpeakerLabels covers both the dict shape and a single element of the
// list shape. The count appears as "speakers_count" in older payloads and
// "speakers" in newer ones, as either a number or a numeric string.
type rawSpeakerLabels struct {
	SpeakersCount flexInt      `json:"speakers_count"`
	Speakers      flexInt      `json:"speakers"`
	Segments      []rawSegment `json:"segments"`
}

type rawSegment struct {
	SpeakerLabel string `json:"speaker_label"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// flexInt decodes a JSON number or a numeric string; anything else is zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.Atoi(string(b))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// Parse decodes a Transcribe result payload. A payload lacking the top-level
// results key fails with ErrInvalidPayload.
func Parse(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("transcript: decode payload: %w", err)
	}
	if p.Results == nil {
		return nil, ErrInvalidPayload
	}
	return &p, nil
}

// Normalize resolves whichever speaker_labels shape is present into one
// canonical Normalized form. Structural problems with the diarization data
// are downgraded to warnings and a single-speaker treatment; Normalize never
// fails.
func Normalize(p *Payload) (*Normalized, []string) {
	var warnings []string

	norm := &Normalized{Words: normalizeItems(p.Results.Items)}

	segments, count, ok := decodeSpeakerLabels(p.Results.SpeakerLabels)
	if !ok {
		warnings = append(warnings, "unrecognized speaker_labels structure, treating as single speaker")
	}
	norm.Segments = segments
	norm.SpeakerCount = count

	// Count missing but segments present: derive it from the distinct
	// labels across segments.
	if norm.SpeakerCount == 0 && len(norm.Segments) > 0 {
		norm.SpeakerCount = len(distinctSegmentSpeakers(norm.Segments))
	}

	// No usable speaker_labels at all, but the items themselves carry
	// labels: rebuild segments by grouping consecutive same-speaker words.
	if norm.SpeakerCount == 0 {
		if labeled := groupItemSegments(norm.Words); len(labeled) > 0 {
			warnings = append(warnings,
				"speaker_labels structure missing, reconstructed segments from item labels (may be less accurate)")
			norm.Segments = labeled
			norm.SpeakerCount = len(distinctSegmentSpeakers(labeled))
		}
	}

	// No speaker information anywhere: one synthetic speaker owns every
	// word.
	if norm.SpeakerCount == 0 {
		if len(norm.Words) > 0 && ok {
			warnings = append(warnings, "no speaker labels found, treating as single speaker")
		}
		norm.SpeakerCount = 1
		for i := range norm.Words {
			if !norm.Words[i].Punct {
				norm.Words[i].Speaker = FallbackSpeaker
			}
		}
	}

	norm.Speakers = collectSpeakers(norm)
	return norm, warnings
}

func normalizeItems(items []rawItem) []Word {
	words := make([]Word, 0, len(items))
	for _, it := range items {
		if len(it.Alternatives) == 0 {
			continue
		}
		w := Word{
			Content: it.Alternatives[0].Content,
			Speaker: it.SpeakerLabel,
			Punct:   it.Type == "punctuation",
		}
		if start, end, ok := parseSpan(it.StartTime, it.EndTime); ok {
			w.Start, w.End, w.Timed = start, end, true
		}
		words = append(words, w)
	}
	return words
}

// decodeSpeakerLabels tries the known shapes in order: absent, dict, list.
// ok is false only when the field is present but matches none of them.
func decodeSpeakerLabels(raw json.RawMessage) (segments []Segment, count int, ok bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, 0, true
	}
	var dict rawSpeakerLabels
	if err := json.Unmarshal(raw, &dict); err == nil {
		return normalizeSegments(dict.Segments), countFrom(dict), true
	}
	var list []rawSpeakerLabels
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil, 0, true
		}
		return normalizeSegments(list[0].Segments), countFrom(list[0]), true
	}
	return nil, 0, false
}

func countFrom(sl rawSpeakerLabels) int {
	if sl.SpeakersCount > 0 {
		return int(sl.SpeakersCount)
	}
	return int(sl.Speakers)
}

func normalizeSegments(raw []rawSegment) []Segment {
	segments := make([]Segment, 0, len(raw))
	for _, s := range raw {
		if s.SpeakerLabel == "" {
			continue
		}
		start, end, ok := parseSpan(s.StartTime, s.EndTime)
		if !ok {
			continue
		}
		segments = append(segments, Segment{Speaker: s.SpeakerLabel, Start: start, End: end})
	}
	return segments
}

// groupItemSegments derives synthetic segments from item-level labels by
// merging consecutive same-speaker pronunciation words, using the words' own
// timing as segment bounds.
func groupItemSegments(words []Word) []Segment {
	var segments []Segment
	for _, w := range words {
		if w.Punct || w.Speaker == "" || !w.Timed {
			continue
		}
		if n := len(segments); n > 0 && segments[n-1].Speaker == w.Speaker {
			segments[n-1].End = w.End
			continue
		}
		segments = append(segments, Segment{Speaker: w.Speaker, Start: w.Start, End: w.End})
	}
	return segments
}

// collectSpeakers gathers distinct labels in first-seen order, segments
// first, then item-level labels not covered by any segment.
func collectSpeakers(n *Normalized) []string {
	var speakers []string
	seen := make(map[string]bool)
	add := func(label string) {
		if label != "" && !seen[label] {
			seen[label] = true
			speakers = append(speakers, label)
		}
	}
	for _, s := range n.Segments {
		add(s.Speaker)
	}
	for _, w := range n.Words {
		add(w.Speaker)
	}
	return speakers
}

func distinctSegmentSpeakers(segments []Segment) map[string]bool {
	set := make(map[string]bool)
	for _, s := range segments {
		set[s.Speaker] = true
	}
	return set
}

func parseSpan(startRaw, endRaw string) (start, end float64, ok bool) {
	if startRaw == "" || endRaw == "" {
		return 0, 0, false
	}
	start, err := strconv.ParseFloat(startRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.ParseFloat(endRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
