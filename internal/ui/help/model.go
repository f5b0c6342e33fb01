package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/keys"
	"github.com/nhle/sarnrak/internal/theme"
)

// Command describes one command palette entry.
type Command struct {
	Name  string
	Usage string
	Desc  string
}

// Commands lists the command palette entries shown below the key help.
var Commands = []Command{
	{Name: "dashboard", Desc: "budget and guest overview"},
	{Name: "guests", Desc: "guest list and RSVPs"},
	{Name: "seating", Desc: "tables and seat assignment"},
	{Name: "budget", Desc: "budget items and payments"},
	{Name: "rituals", Desc: "ceremony checklist"},
	{Name: "catering", Desc: "menu by course"},
	{Name: "production", Desc: "production tasks"},
	{Name: "gallery", Desc: "mood board"},
	{Name: "import", Usage: "<file>...", Desc: "add engagement photos"},
	{Name: "checklist", Desc: "AI planning checklist"},
	{Name: "backdrop", Desc: "AI backdrop idea for the theme"},
	{Name: "ask", Usage: "[question]", Desc: "ask Sarn Rak"},
	{Name: "couple", Desc: "names, date and budget total"},
	{Name: "theme", Desc: "theme and production settings"},
	{Name: "settings", Desc: "configuration and API key"},
	{Name: "quit", Desc: "leave the planner"},
}

// CommandNames returns the names of all palette commands.
func CommandNames() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	return names
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the key bindings followed by the command reference.
func (m Model) View() string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4

	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		heading.Render("Commands (press :)"),
		renderCommands(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func renderCommands() string {
	lines := make([]string, len(Commands))
	for i, c := range Commands {
		name := strings.TrimSpace(c.Name + " " + c.Usage)
		lines[i] = fmt.Sprintf("%s %s", theme.LabelStyle.Render(name), theme.HelpStyle.Render(c.Desc))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
