package ui

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/audioscribe/transcript-toolkit/internal/transcript"
)

// pointerIcons styles select menus with the toolkit's pointer.
func pointerIcons() survey.AskOpt {
	return survey.WithIcons(func(icons *survey.IconSet) {
		icons.SelectFocus.Text = "👉"
	})
}

// AskText prompts for a single line of input, returning it trimmed.
func AskText(msg, def string) (string, error) {
	var out string
	prompt := &survey.Input{Message: msg, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AskRequiredText re-prompts until a non-empty answer is given.
func AskRequiredText(msg string) (string, error) {
	var out string
	prompt := &survey.Input{Message: msg}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AskSelect prompts the user to pick one of options.
func AskSelect(msg string, options []string) (string, error) {
	var out string
	prompt := &survey.Select{Message: msg, Options: options}
	if err := survey.AskOne(prompt, &out, pointerIcons()); err != nil {
		return "", err
	}
	return out, nil
}

// AskConfirm asks a yes/no question.
func AskConfirm(msg string, def bool) (bool, error) {
	out := def
	prompt := &survey.Confirm{Message: msg, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, err
	}
	return out, nil
}

// SpeakerNames prompts for one non-empty display name per detected speaker
// label and returns the completed mapping. Label order is preserved so the
// prompts follow speaking order.
func SpeakerNames(p *Printer, count int, labels []string) (transcript.NameMap, error) {
	p.Info("Detected %d speaker(s) in the transcript.", count)
	p.Info("Provide a name for each speaker for better readability.")

	names := make(transcript.NameMap, len(labels))
	for i, label := range labels {
		name, err := AskRequiredText(fmt.Sprintf("Name for speaker %d (currently %s):", i+1, label))
		if err != nil {
			return nil, err
		}
		names[label] = name
	}
	return names, nil
}

// DefaultSpeakerNames maps every label to itself, for non-interactive runs.
func DefaultSpeakerNames(labels []string) transcript.NameMap {
	names := make(transcript.NameMap, len(labels))
	for _, label := range labels {
		names[label] = label
	}
	return names
}
