package console

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner shows progress on stderr. It does nothing when stderr is not a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner with the given message
func NewSpinner(message string) *Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	return &Spinner{s: s}
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop ends the animation and clears the line
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}

// SetMessage replaces the text shown next to the spinner
func (sp *Spinner) SetMessage(message string) {
	if sp.s != nil {
		sp.s.Suffix = " " + message
	}
}

// Enabled reports whether the spinner renders anything
func (sp *Spinner) Enabled() bool {
	return sp.s != nil
}
