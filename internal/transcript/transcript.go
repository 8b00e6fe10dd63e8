// Package transcript turns raw AWS Transcribe result payloads into readable
// speaker-attributed text. The payload's diarization metadata arrives in
// several historical shapes; this package resolves them into one canonical
// form, attributes every word to a speaker, and assembles ordered blocks.
package transcript

// FallbackSpeaker is the synthetic label used when the payload carries no
// usable speaker information at all.
const FallbackSpeaker = "Speaker"

// Word is a single transcribed item in reading order. Punctuation items have
// no timing and no speaker of their own.
type Word struct {
	Content string
	Start   float64
	End     float64
	Timed   bool
	Speaker string
	Punct   bool
}

// Segment is a continuous span attributed to one speaker. Segments for the
// same speaker may be non-contiguous, and segments for different speakers may
// overlap; overlap is an expected condition, not an error.
type Segment struct {
	Speaker string
	Start   float64
	End     float64
}

// NameMap maps raw speaker labels (e.g. spk_0) to display names.
type NameMap map[string]string

// Normalized is the canonical form every payload shape resolves to.
// Speakers holds the distinct labels in first-seen order; that order is the
// deterministic tie-break for both matching and assembly.
type Normalized struct {
	Words        []Word
	Segments     []Segment
	Speakers     []string
	SpeakerCount int
}

// Result is the outcome of a full reconciliation.
type Result struct {
	Text         string
	SpeakerCount int
	Speakers     []string
	Warnings     []string
}

// Reconcile parses data, attributes every word to a speaker, and assembles
// the final transcript using names to resolve display names (raw labels are
// used for unmapped speakers). It is a pure function of its inputs: the same
// payload and name map always produce byte-identical output.
func Reconcile(data []byte, names NameMap) (Result, error) {
	payload, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	norm, warnings := Normalize(payload)
	matched := Match(norm)
	text, assembleWarnings := Assemble(norm, matched, names)
	return Result{
		Text:         text,
		SpeakerCount: norm.SpeakerCount,
		Speakers:     norm.Speakers,
		Warnings:     append(warnings, assembleWarnings...),
	}, nil
}
