package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	promptValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	promptDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)
)

// inputModel is a single-line question answered with Enter.
type inputModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newInputModel(label, def string, secret bool) inputModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 4096
	ti.Width = 60
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return inputModel{label: label, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return promptLabelStyle.Render(m.label) + " " + m.input.View() + "\n" +
		promptDimStyle.Render("Enter to confirm, Esc to cancel.") + "\n"
}

// choiceItem implements list.Item for option selection.
type choiceItem string

func (c choiceItem) Title() string       { return string(c) }
func (c choiceItem) Description() string { return "" }
func (c choiceItem) FilterValue() string { return string(c) }

// chooseModel picks one entry of a list.
type chooseModel struct {
	list      list.Model
	done      bool
	cancelled bool
}

func newChooseModel(label string, options []string) chooseModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = choiceItem(o)
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = selectedStyle

	l := list.New(items, delegate, 60, len(options)*2+6)
	l.Title = label
	l.Styles.Title = promptLabelStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return chooseModel{list: l}
}

func (m chooseModel) Init() tea.Cmd {
	return nil
}

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m chooseModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.list.View()
}

// TerminalPrompter asks questions on a terminal. When the input is a TTY each
// question runs as a small Bubble Tea program; otherwise answers are read
// line by line, which keeps piped sessions scriptable.
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	tty    bool
	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter on stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return NewTerminalPrompterWith(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewTerminalPrompterWith creates a prompter on the given streams. tty selects
// the interactive Bubble Tea mode.
func NewTerminalPrompterWith(in io.Reader, out io.Writer, tty bool) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, tty: tty, reader: bufio.NewReader(in)}
}

func (p *TerminalPrompter) Show(text string) {
	fmt.Fprintln(p.out, strings.TrimRight(text, "\n"))
}

func (p *TerminalPrompter) Ask(label, def string) (string, error) {
	answer, err := p.read(label, def, false)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *TerminalPrompter) AskSecret(label string) (string, error) {
	return p.read(label, "", true)
}

func (p *TerminalPrompter) Confirm(label string, def bool) (bool, error) {
	for {
		answer, err := p.read(label+" "+yesNoHint(def), "", false)
		if err != nil {
			return false, err
		}
		if v, ok := ParseYesNo(answer, def); ok {
			return v, nil
		}
		p.Show(promptDimStyle.Render("Please answer y or n."))
	}
}

func (p *TerminalPrompter) Choose(label string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("nothing to choose for %q", label)
	}
	if !p.tty {
		p.Show(label + "\n" + Enumerate(options))
		for {
			answer, err := p.read("Choice:", "", false)
			if err != nil {
				return 0, err
			}
			var n int
			if _, err := fmt.Sscanf(answer, "%d", &n); err == nil && n >= 1 && n <= len(options) {
				return n - 1, nil
			}
			p.Show(promptDimStyle.Render(fmt.Sprintf("Enter a number between 1 and %d.", len(options))))
		}
	}

	final, err := tea.NewProgram(newChooseModel(label, options), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(chooseModel)
	if m.cancelled {
		return 0, ErrCancelled
	}
	idx := m.list.Index()
	p.Show(promptLabelStyle.Render(label) + " " + promptValueStyle.Render(options[idx]))
	return idx, nil
}

func (p *TerminalPrompter) read(label, def string, secret bool) (string, error) {
	if !p.tty {
		prompt := label
		if def != "" {
			prompt += " " + promptDimStyle.Render("("+def+")")
		}
		fmt.Fprint(p.out, prompt+" ")
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("failed to read answer to %q: %w", label, err)
		}
		return strings.TrimSpace(line), nil
	}

	final, err := tea.NewProgram(newInputModel(label, def, secret), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	value := strings.TrimSpace(m.input.Value())
	shown := value
	if secret {
		shown = strings.Repeat("•", len(value))
	}
	p.Show(promptLabelStyle.Render(label) + " " + promptValueStyle.Render(shown))
	return value, nil
}
