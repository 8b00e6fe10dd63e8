package transcript

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Assemble renders the matched words as ordered attribution blocks, one line
// per speaker in order of each speaker's earliest segment. Speakers with no
// segments sort first. Adjacent blocks resolving to the same display name are
// merged so no two consecutive blocks share a speaker.
func Assemble(n *Normalized, matched map[string][]string, names NameMap) (string, []string) {
	type block struct {
		name  string
		words []string
	}

	ordered := make([]string, 0, len(n.Speakers))
	for _, speaker := range n.Speakers {
		if len(matched[speaker]) > 0 {
			ordered = append(ordered, speaker)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return earliestStart(n, ordered[i]) < earliestStart(n, ordered[j])
	})

	var blocks []block
	for _, speaker := range ordered {
		name := displayName(names, speaker)
		if len(blocks) > 0 && blocks[len(blocks)-1].name == name {
			blocks[len(blocks)-1].words = append(blocks[len(blocks)-1].words, matched[speaker]...)
			continue
		}
		blocks = append(blocks, block{name: name, words: matched[speaker]})
	}

	var warnings []string

	// Every word fell through matching but the payload was not empty:
	// degrade to a single undifferentiated block rather than losing the
	// transcript entirely.
	if len(blocks) == 0 {
		if words := survivableWords(n.Words); len(words) > 0 {
			warnings = append(warnings, "could not attribute words to speakers, emitting a single block")
			blocks = append(blocks, block{name: displayName(names, FallbackSpeaker), words: words})
		}
	}

	if len(blocks) == 0 {
		if len(n.Words) > 0 {
			warnings = append(warnings, "no words survived attribution, transcript is empty")
		}
		return "", warnings
	}

	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", blk.name, strings.Join(blk.words, " "))
	}
	return strings.TrimSpace(b.String()), warnings
}

// earliestStart is the ordering key for a speaker's block. Speakers without
// any declared segment (the synthetic single-speaker case) sort before
// everyone else.
func earliestStart(n *Normalized, speaker string) float64 {
	earliest := math.Inf(-1)
	found := false
	for _, s := range n.Segments {
		if s.Speaker != speaker {
			continue
		}
		if !found || s.Start < earliest {
			earliest = s.Start
			found = true
		}
	}
	if !found {
		return math.Inf(-1)
	}
	return earliest
}

func displayName(names NameMap, speaker string) string {
	if name, ok := names[speaker]; ok && name != "" {
		return name
	}
	return speaker
}

// survivableWords rebuilds the word sequence in original item order,
// attaching punctuation to its preceding word.
func survivableWords(words []Word) []string {
	var out []string
	for _, w := range words {
		if w.Punct {
			if len(out) > 0 {
				out[len(out)-1] += w.Content
			}
			continue
		}
		out = append(out, w.Content)
	}
	return out
}
