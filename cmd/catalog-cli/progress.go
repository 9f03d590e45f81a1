package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// RecordBar shows per-record progress on stderr. A nil RecordBar is silent.
type RecordBar struct {
	bar *progressbar.ProgressBar
}

// NewRecordBar creates a bar over total records. It returns nil when quiet.
func NewRecordBar(total int, description string, quiet bool) *RecordBar {
	if quiet || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &RecordBar{bar: bar}
}

// Set moves the bar to done.
func (b *RecordBar) Set(done int) {
	if b == nil {
		return
	}
	_ = b.bar.Set(done)
}

// Finish completes the bar.
func (b *RecordBar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}

// Spinner shows indeterminate progress on stderr. A nil Spinner is silent.
type Spinner struct {
	spinner *spinner.Spinner
}

// StartSpinner starts a spinner with message. It returns nil when quiet.
func StartSpinner(message string, quiet bool) *Spinner {
	if quiet {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	s.Start()
	return &Spinner{spinner: s}
}

// Update replaces the spinner message.
func (s *Spinner) Update(message string) {
	if s == nil {
		return
	}
	s.spinner.Suffix = " " + message
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.spinner.Stop()
}
