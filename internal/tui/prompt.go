package tui

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user aborts a prompt (Ctrl+C or Esc).
var ErrCancelled = errors.New("prompt cancelled")

// Prompter collects answers from the user. Every call blocks until the user
// answers.
type Prompter interface {
	// Show displays informational text.
	Show(text string)

	// Ask reads a line of input. An empty answer yields def.
	Ask(label, def string) (string, error)

	// AskSecret reads a line of input without echoing it.
	AskSecret(label string) (string, error)

	// Confirm asks a yes/no question. An empty answer yields def.
	Confirm(label string, def bool) (bool, error)

	// Choose lets the user pick one of options and returns its index.
	Choose(label string, options []string) (int, error)
}

// ParseYesNo interprets a yes/no answer. ok is false for unrecognized input.
func ParseYesNo(answer string, def bool) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// yesNoHint returns the "[Y/n]" style hint for a confirmation default.
func yesNoHint(def bool) string {
	if def {
		return "[Y/n]"
	}
	return "[y/N]"
}

// Enumerate renders options as a 1-based numbered list.
func Enumerate(options []string) string {
	var b strings.Builder
	for i, o := range options {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, o)
	}
	return b.String()
}
