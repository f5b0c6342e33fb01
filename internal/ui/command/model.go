package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/theme"
)

const maxHistory = 20

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Name returns the first word of the command, lowercased.
func (c CommandMsg) Name() string {
	fields := strings.Fields(string(c))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// Args returns the words after the command name.
func (c CommandMsg) Args() []string {
	fields := strings.Fields(string(c))
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// Model is the command palette view. Tab completes a command name and
// up/down recall earlier commands.
type Model struct {
	input   textinput.Model
	names   []string
	history []string
	histPos int
	width   int
	height  int
}

// New creates a command palette offering names for completion.
func New(names []string, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "guests, import ~/photos/a.jpg, checklist..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(names)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		names:  names,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			m.remember(line)
			return m, func() tea.Msg {
				return CommandMsg(line)
			}
		case "up":
			if m.histPos > 0 {
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if m.histPos < len(m.history)-1 {
				m.histPos++
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			} else {
				m.histPos = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.histPos = len(m.history)
}

// Matches returns the command names starting with the word being typed.
func (m Model) Matches() []string {
	prefix := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if strings.Contains(prefix, " ") {
		return nil
	}
	var out []string
	for _, n := range m.names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command Palette")

	parts := []string{title, m.input.View()}
	if matches := m.Matches(); len(matches) > 0 {
		parts = append(parts, "", theme.HelpStyle.Render(strings.Join(matches, "  ")))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
