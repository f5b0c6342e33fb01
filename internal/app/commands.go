package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/sarnrak/internal/ui/command"
	"github.com/nhle/sarnrak/internal/ui/section"
)

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	name := cmd.Name()

	if name == "dashboard" || name == "home" {
		m.tab = 0
		return nil
	}
	for i, kind := range section.Kinds {
		if strings.EqualFold(kind.String(), name) {
			m.tab = i + 1
			return nil
		}
	}

	switch name {
	case "quit", "q":
		m.feed.Stop()
		return tea.Quit
	case "import":
		return m.startImport(cmd.Args())
	case "checklist":
		return m.startChecklist()
	case "backdrop":
		mdl, c := m.startBackdrop()
		*m = mdl.(Model)
		return c
	case "couple", "budget-total":
		return m.enterForm(m.formView.StartCouple(m.record))
	case "theme", "production-settings":
		return m.enterForm(m.formView.StartTheme(m.record))
	case "ask", "advice":
		m.previousView = ViewMain
		m.currentView = ViewAI
		return m.aiView.Focus()
	case "settings", "config":
		m.previousView = ViewMain
		m.currentView = ViewConfig
		return m.configView.Init()
	case "help":
		m.previousView = ViewMain
		m.currentView = ViewHelp
		return nil
	case "":
		return nil
	default:
		m.setStatus("", unknownCommandError(name))
		return nil
	}
}

// enterForm switches to the form view for a form started by cmd.
func (m *Model) enterForm(cmd tea.Cmd) tea.Cmd {
	if !m.formView.Active() {
		return nil
	}
	m.previousView = ViewMain
	m.currentView = ViewForm
	return cmd
}

type unknownCommandError string

func (e unknownCommandError) Error() string {
	return "unknown command: " + string(e) + " (press ? for the list)"
}
