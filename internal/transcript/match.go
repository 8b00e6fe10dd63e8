package transcript

// Match assigns every pronunciation word to exactly one speaker label and
// returns the words attributed to each speaker, in reading order. Three tiers
// apply per word, first match wins:
//
//  1. the word's own speaker label, verbatim;
//  2. the first declared segment containing the word's time midpoint — when
//     overlapping segments from different speakers both contain the midpoint,
//     declaration order is the documented, deterministic tie-break, not a
//     claim about diarization correctness;
//  3. the speaker whose nearest segment edge is closest to the midpoint,
//     ties broken by first-seen speaker order.
//
// Punctuation is appended to the previously attributed word with no
// separator, so it never creates or splits an attribution. A word with no
// timing and no label cannot be placed and is dropped.
func Match(n *Normalized) map[string][]string {
	matched := make(map[string][]string)
	lastSpeaker := ""
	for _, w := range n.Words {
		if w.Punct {
			if words := matched[lastSpeaker]; len(words) > 0 {
				words[len(words)-1] += w.Content
			}
			continue
		}
		speaker := assignSpeaker(n, w)
		if speaker == "" {
			continue
		}
		matched[speaker] = append(matched[speaker], w.Content)
		lastSpeaker = speaker
	}
	return matched
}

func assignSpeaker(n *Normalized, w Word) string {
	if w.Speaker != "" {
		return w.Speaker
	}
	if !w.Timed {
		return ""
	}
	mid := (w.Start + w.End) / 2
	for _, s := range n.Segments {
		if s.Start <= mid && mid <= s.End {
			return s.Speaker
		}
	}
	return nearestSpeaker(n, mid)
}

// nearestSpeaker picks the speaker with the smallest gap between mid and any
// of its segment intervals. Iteration follows n.Speakers so ties resolve to
// the first-seen speaker.
func nearestSpeaker(n *Normalized, mid float64) string {
	distances := make(map[string]float64, len(n.Speakers))
	for _, s := range n.Segments {
		d := 0.0
		switch {
		case mid < s.Start:
			d = s.Start - mid
		case mid > s.End:
			d = mid - s.End
		}
		if cur, ok := distances[s.Speaker]; !ok || d < cur {
			distances[s.Speaker] = d
		}
	}
	best := ""
	bestDist := 0.0
	for _, speaker := range n.Speakers {
		d, ok := distances[speaker]
		if !ok {
			continue
		}
		if best == "" || d < bestDist {
			best, bestDist = speaker, d
		}
	}
	return best
}
