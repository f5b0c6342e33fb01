package ai

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/theme"
)

// adviceTimeout bounds a single advice request.
const adviceTimeout = 60 * time.Second

// PanelCloseMsg signals the parent to close the advice panel.
type PanelCloseMsg struct{}

// AdviceMsg carries the advisor's answer to the last question.
type AdviceMsg struct {
	Text string
}

// Model is the advice panel: a question box above the running
// conversation.
type Model struct {
	advisor  *aiservice.Advisor
	history  *aiservice.History
	summary  func() string
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	waiting  bool
	width    int
	height   int
}

// New creates an advice panel. summary is called on every question to
// describe the current plan. A nil advisor shows setup instructions.
func New(advisor *aiservice.Advisor, summary func() string, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "ถามเรื่องงานแต่งได้เลย... (ask about your wedding)"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000
	ta.Focus()

	vp := viewport.New(width-4, max(4, height-8))
	vp.Style = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorGold)

	return Model{
		advisor:  advisor,
		history:  aiservice.NewHistory(0),
		summary:  summary,
		input:    ta,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the panel.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Waiting reports whether a question is in flight.
func (m Model) Waiting() bool {
	return m.waiting
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AdviceMsg:
		m.waiting = false
		m.history.Add(aiservice.RoleAssistant, msg.Text)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return PanelCloseMsg{} }

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		if m.advisor == nil || m.waiting {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.history.Add(aiservice.RoleUser, text)
		m.waiting = true
		m.refreshViewport()
		return m, tea.Batch(m.ask(text), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask returns a command that requests advice for question. The advisor
// never fails; it answers with an apology instead.
func (m Model) ask(question string) tea.Cmd {
	advisor := m.advisor
	summary := ""
	if m.summary != nil {
		summary = m.summary()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()
		return AdviceMsg{Text: advisor.Advice(ctx, question, summary)}
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	msgs := m.history.Messages()
	if len(msgs) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Sarn Rak knows your budget, theme and guest count. " +
				"Ask about rituals, vendors, timing or etiquette.")
	}

	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	advisorStyle := roleStyle.Foreground(theme.ColorGold)
	contentStyle := lipgloss.NewStyle().
		Foreground(theme.ColorWhite).
		Width(max(20, m.width-8))

	var sections []string
	for _, msg := range msgs {
		label := advisorStyle.Render("Sarn Rak:")
		if msg.Role == aiservice.RoleUser {
			label = userStyle.Render("You:")
		}
		sections = append(sections, label, contentStyle.Render(msg.Content), "")
	}

	if m.waiting {
		sections = append(sections, m.spinner.View()+theme.DimmedStyle.Render(" thinking"))
	}

	return strings.Join(sections, "\n")
}

// View renders the panel.
func (m Model) View() string {
	if m.advisor == nil {
		return m.renderNoAPIKey()
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGold).
		MarginBottom(1).
		Render("Ask Sarn Rak")

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(0, min(m.width-6, 80))))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		separator,
		m.input.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

func (m Model) renderNoAPIKey() string {
	style := lipgloss.NewStyle().
		Width(m.width - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	msg := "Advice requires a Gemini API key.\n\n" +
		"Store it in the system keyring:\n" +
		"  sarnrak key set\n" +
		"  (key name: " + credential.GeminiKey + ")\n\n" +
		"Or set the " + credential.GeminiEnv + " environment variable.\n\n" +
		"Press Esc to go back."

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(style.Render(msg))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)
	m.viewport.Width = width - 4
	m.viewport.Height = max(4, height-8)
}

// Focus gives keyboard focus to the question box.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Reset clears the conversation.
func (m *Model) Reset() {
	m.history.Reset()
	m.waiting = false
	m.input.Reset()
	m.refreshViewport()
}
