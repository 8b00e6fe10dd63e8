// Package vtt cleans WebVTT caption files into plain speaker-attributed
// text: timing cues and voice tags are stripped, continuation lines are
// folded into their speaker line, and consecutive turns by the same speaker
// are combined.
package vtt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// timingRe matches cue timing lines like "00:00:01.234 --> 00:00:03.456".
	timingRe = regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{3} --> \d{2}:\d{2}:\d{2}\.\d{3}\r?\n`)

	// cueIDRe matches the uuid/NN-NN cue identifiers emitted by meeting
	// recorders (e.g. Teams) on their own line.
	cueIDRe = regexp.MustCompile(`[\da-f]{8}-[\da-f]{4}-[\da-f]{4}-[\da-f]{4}-[\da-f]{12}/\d+-\d+\r?\n`)

	// voiceOpenRe matches the opening of a <v Speaker> voice span.
	voiceOpenRe = regexp.MustCompile(`<v\s+`)

	blankRe = regexp.MustCompile(`\n\s*\n`)
)

// Clean converts raw WebVTT content to plain text. The WEBVTT header becomes
// "<title> transcript"; voice spans like "<v Alice>hello</v>" become
// "Alice: hello".
func Clean(content, title string) string {
	content = strings.Replace(content, "WEBVTT", title+" transcript", 1)
	content = timingRe.ReplaceAllString(content, "")
	content = cueIDRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "</v>", "")
	content = voiceOpenRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, ">", ":")
	content = combineSpeakerLines(content)
	content = blankRe.ReplaceAllString(content, "\n")
	return content
}

// CleanFile cleans the VTT file at path and writes the result next to it as
// <base>_cleaned.txt, returning the output path.
func CleanFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cleaned := Clean(string(raw), base)

	outPath := OutputPath(path)
	if err := os.WriteFile(outPath, []byte(cleaned), 0o644); err != nil {
		return "", fmt.Errorf("write cleaned transcript: %w", err)
	}
	return outPath, nil
}

// OutputPath derives the cleaned-file path for a VTT input.
func OutputPath(path string) string {
	if strings.HasSuffix(path, ".vtt") {
		return strings.TrimSuffix(path, ".vtt") + "_cleaned.txt"
	}
	return path + "_cleaned.txt"
}

// combineSpeakerLines runs two passes over the text: the first folds
// continuation lines (no "Name:" prefix) into the preceding speaker line, the
// second merges consecutive lines from the same speaker.
func combineSpeakerLines(content string) string {
	var combined []string
	current := ""
	flush := func() {
		if current != "" {
			combined = append(combined, current)
			current = ""
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case isSpeakerLine(line):
			flush()
			current = line
		case current != "":
			current += " " + line
		default:
			combined = append(combined, line)
		}
	}
	flush()

	var final []string
	speaker, text := "", ""
	emit := func() {
		if text != "" {
			final = append(final, speaker+": "+text)
			speaker, text = "", ""
		}
	}

	for _, line := range combined {
		if !isSpeakerLine(line) {
			emit()
			final = append(final, line)
			continue
		}
		name, rest, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		rest = strings.TrimSpace(rest)
		if name == speaker {
			text += " " + rest
			continue
		}
		emit()
		speaker, text = name, rest
	}
	emit()

	return strings.Join(final, "\n")
}

func isSpeakerLine(line string) bool {
	name, _, found := strings.Cut(line, ":")
	return found && strings.TrimSpace(name) != ""
}
