// Package ui is the toolkit's terminal surface: colored status lines,
// interactive prompts, progress spinners, and the path sanitization applied
// to everything users paste in.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	infoTag = color.New(color.FgBlue).Sprint("[info]")
	warnTag = color.New(color.FgYellow).Sprint("[warn]")
	okTag   = color.New(color.FgGreen).Sprint("[ok]")
	failTag = color.New(color.FgRed).Sprint("[error]")
)

// Printer writes level-tagged status lines to stderr. Verbosity is injected
// here instead of living in package state.
type Printer struct {
	Verbose bool
}

func NewPrinter(verbose bool) *Printer {
	return &Printer{Verbose: verbose}
}

func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintln(os.Stderr, infoTag, fmt.Sprintf(format, a...))
}

func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(os.Stderr, warnTag, fmt.Sprintf(format, a...))
}

func (p *Printer) Ok(format string, a ...any) {
	fmt.Fprintln(os.Stderr, okTag, fmt.Sprintf(format, a...))
}

func (p *Printer) Fail(format string, a ...any) {
	fmt.Fprintln(os.Stderr, failTag, fmt.Sprintf(format, a...))
}

func (p *Printer) Debugf(format string, a ...any) {
	if p.Verbose {
		fmt.Fprintln(os.Stderr, infoTag, fmt.Sprintf(format, a...))
	}
}

// Warnings prints each warning on its own line.
func (p *Printer) Warnings(warnings []string) {
	for _, w := range warnings {
		p.Warn("%s", w)
	}
}

// Step runs fn behind a spinner, replacing it with a check mark or the error
// when done.
func (p *Printer) Step(msg string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	err := fn()
	s.Stop()
	if err != nil {
		p.Fail("%s: %v", msg, err)
		return err
	}
	fmt.Fprintln(os.Stderr, color.GreenString("✓"), msg)
	return nil
}
