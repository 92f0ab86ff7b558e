// Package tui provides the interactive prompts used by bountybridge.
//
// Configuration sessions talk to the user exclusively through the Prompter
// interface so they can be driven by a terminal or by a script:
//
//	p := tui.NewTerminalPrompter()
//	name, err := p.Ask("Tracker name:", "")
//	token, err := p.AskSecret("Personal access token:")
//	ok, err := p.Confirm("Save configuration?", true)
//	idx, err := p.Choose("Tracker type:", []string{"github", "gitlab", "jira"})
//
// # Terminal Prompter
//
// When stdin is a TTY (golang.org/x/term), every question runs as a short
// Bubble Tea program:
//
//   - Ask/AskSecret use a bubbles textinput (password echo for secrets)
//   - Choose uses a bubbles list navigated with j/k or arrows
//   - Enter confirms, Esc or Ctrl+C returns ErrCancelled
//
// Piped input falls back to plain line reading.
//
// # Scripted Prompter
//
// ScriptedPrompter replays a fixed list of answers and records a transcript,
// which is how the editor tests exercise interactive flows.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
