package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ScriptedPrompter answers prompts from a fixed list, in order.
// It is used by tests and by callers replaying recorded sessions.
type ScriptedPrompter struct {
	Answers []string

	// Transcript records every label asked and every text shown.
	Transcript []string
}

// NewScriptedPrompter creates a prompter answering with answers in order.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (s *ScriptedPrompter) next(label string) (string, error) {
	s.Transcript = append(s.Transcript, label)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q: %w", label, io.EOF)
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

// Remaining reports how many answers were not consumed.
func (s *ScriptedPrompter) Remaining() int {
	return len(s.Answers)
}

// Output returns the transcript joined by newlines.
func (s *ScriptedPrompter) Output() string {
	return strings.Join(s.Transcript, "\n")
}

func (s *ScriptedPrompter) Show(text string) {
	s.Transcript = append(s.Transcript, text)
}

func (s *ScriptedPrompter) Ask(label, def string) (string, error) {
	answer, err := s.next(label)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return def, nil
	}
	return answer, nil
}

func (s *ScriptedPrompter) AskSecret(label string) (string, error) {
	return s.next(label)
}

func (s *ScriptedPrompter) Confirm(label string, def bool) (bool, error) {
	answer, err := s.next(label)
	if err != nil {
		return false, err
	}
	v, ok := ParseYesNo(answer, def)
	if !ok {
		return false, fmt.Errorf("invalid answer %q to %q", answer, label)
	}
	return v, nil
}

// Choose expects a 1-based index answer.
func (s *ScriptedPrompter) Choose(label string, options []string) (int, error) {
	answer, err := s.next(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(options) {
		return 0, fmt.Errorf("invalid choice %q for %q", answer, label)
	}
	return n - 1, nil
}
