package app

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	aiservice "github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/gallery"
	"github.com/nhle/sarnrak/internal/keys"
	"github.com/nhle/sarnrak/internal/model"
	appsync "github.com/nhle/sarnrak/internal/sync"
	"github.com/nhle/sarnrak/internal/theme"
	"github.com/nhle/sarnrak/internal/ui"
	aiview "github.com/nhle/sarnrak/internal/ui/ai"
	"github.com/nhle/sarnrak/internal/ui/command"
	configview "github.com/nhle/sarnrak/internal/ui/config"
	"github.com/nhle/sarnrak/internal/ui/dashboard"
	"github.com/nhle/sarnrak/internal/ui/form"
	helpview "github.com/nhle/sarnrak/internal/ui/help"
	"github.com/nhle/sarnrak/internal/ui/section"
	"github.com/nhle/sarnrak/internal/wedding"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMain ViewState = iota
	ViewHelp
	ViewCommand
	ViewForm
	ViewAI
	ViewChecklist
	ViewConfig
)

// Deps are the services the UI drives. Advisor may be nil when no API key
// is configured. NewAdvisor, when set, builds an advisor for a key entered
// on the settings screen.
type Deps struct {
	Store      *wedding.Store
	Advisor    *aiservice.Advisor
	NewAdvisor func(ctx context.Context, apiKey string) (*aiservice.Advisor, error)
	Importer   *gallery.Importer
	Config     *model.AppConfig
	ConfigPath string
	Logger     zerolog.Logger
}

// advisorReadyMsg carries an advisor built from a newly stored key.
type advisorReadyMsg struct {
	advisor *aiservice.Advisor
	err     error
}

// Model is the root Bubble Tea model that manages view routing, layout and
// dispatch of user actions to the wedding store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *wedding.Store
	feed         *appsync.Feed
	advisor      *aiservice.Advisor
	newAdvisor   func(ctx context.Context, apiKey string) (*aiservice.Advisor, error)
	importer     *gallery.Importer
	logger       zerolog.Logger
	keys         *keys.KeyMap

	record     model.WeddingRecord
	saveStatus appsync.SaveStatus
	tab        int
	dashboard  dashboard.Model
	sections   []section.Model

	helpView      helpview.Model
	commandView   command.Model
	formView      form.Model
	aiView        aiview.Model
	configView    configview.Model
	checklistView viewport.Model

	status    string
	statusErr bool
	busy      string
	ready     bool
}

// New creates the root model. The store should already be loaded.
func New(d Deps) Model {
	km := keys.DefaultKeyMap()
	rec := d.Store.Snapshot()
	cfg := d.Config
	if cfg == nil {
		cfg = &model.AppConfig{}
	}

	sections := make([]section.Model, len(section.Kinds))
	for i, kind := range section.Kinds {
		sections[i] = section.New(kind, rec, km, 80, 24)
	}

	m := Model{
		currentView:   ViewMain,
		store:         d.Store,
		feed:          appsync.New(d.Store),
		advisor:       d.Advisor,
		newAdvisor:    d.NewAdvisor,
		importer:      d.Importer,
		logger:        d.Logger.With().Str("component", "tui").Logger(),
		keys:          km,
		record:        rec,
		dashboard:     dashboard.New(rec, 80, 24),
		sections:      sections,
		helpView:      helpview.New(km, 80, 24),
		commandView:   command.New(helpview.CommandNames(), 80, 24),
		formView:      form.New(80, 24),
		configView:    configview.New(cfg, d.ConfigPath, d.Advisor != nil, km, 80, 24),
		checklistView: viewport.New(80, 20),
	}
	m.aiView = m.newAIView(80, 24)
	if err := d.Store.PersistErr(); err != nil {
		m.saveStatus = appsync.SaveStatus{State: appsync.SaveFailed, Error: err}
	}
	return m
}

// newAIView builds the advice panel around the current advisor.
func (m Model) newAIView(width, height int) aiview.Model {
	s := m.store
	return aiview.New(m.advisor, func() string {
		return aiservice.ContextSummary(s.Snapshot())
	}, width, height)
}

// Init starts listening for record changes.
func (m Model) Init() tea.Cmd {
	return m.feed.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		for i := range m.sections {
			m.sections[i].SetSize(w, h)
		}
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.aiView.SetSize(w, h)
		m.configView.SetSize(w, h)
		m.checklistView.Width = w - 4
		m.checklistView.Height = max(4, h-4)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.RecordMsg:
		m.record = msg.Record
		m.saveStatus = msg.Status
		m.dashboard.SetRecord(msg.Record)
		for i := range m.sections {
			m.sections[i].SetRecord(msg.Record)
		}
		return m, m.feed.WaitForNext()

	case section.ActionMsg:
		return m.handleAction(msg)

	case mutationResultMsg:
		m.setStatus(msg.done, msg.err)
		return m, nil

	case form.SubmitMsg:
		m.currentView = ViewMain
		return m, m.mutate(msg.Title+" saved", msg.Build)

	case form.CancelMsg:
		m.currentView = ViewMain
		return m, nil

	case backdropResultMsg:
		m.busy = ""
		switch {
		case msg.err != nil || msg.image.URL == "":
			m.setStatus("", errImageUnavailable)
		default:
			m.setStatus("Backdrop idea saved to gallery", nil)
		}
		return m, nil

	case checklistResultMsg:
		m.busy = ""
		m.checklistView.SetContent(renderChecklist(msg.items))
		m.checklistView.GotoTop()
		m.previousView = ViewMain
		m.currentView = ViewChecklist
		return m, nil

	case importResultMsg:
		m.busy = ""
		m.setStatus(importSummary(msg.results))
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case aiview.PanelCloseMsg:
		m.currentView = ViewMain
		return m, nil

	case configview.ConfigDoneMsg:
		m.currentView = ViewMain
		return m, nil

	case configview.KeySavedMsg:
		if m.newAdvisor == nil {
			return m, nil
		}
		build := m.newAdvisor
		apiKey := msg.Key
		return m, func() tea.Msg {
			advisor, err := build(context.Background(), apiKey)
			return advisorReadyMsg{advisor: advisor, err: err}
		}

	case configview.KeyDeletedMsg:
		if os.Getenv(credential.GeminiEnv) == "" {
			m.advisor = nil
			m.aiView = m.newAIView(m.layout.ContentWidth(), m.layout.ContentHeight())
		}
		return m, nil

	case advisorReadyMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("advisor unavailable")
			m.setStatus("", msg.err)
			return m, nil
		}
		m.advisor = msg.advisor
		m.aiView = m.newAIView(m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, nil

	case aiview.AdviceMsg:
		var cmd tea.Cmd
		m.aiView, cmd = m.aiView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.feed.Stop()
			return m, tea.Quit
		}
		if m.currentView == ViewMain {
			m.status = ""
			if mdl, cmd, ok := m.handleMainKey(msg); ok {
				return mdl, cmd
			}
		}
		switch m.currentView {
		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewChecklist:
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
				m.currentView = ViewMain
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// handleMainKey processes global keys on the main view. ok is false when
// the key belongs to the active tab.
func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.feed.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % m.tabCount()
		return m, nil, true

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + m.tabCount() - 1) % m.tabCount()
		return m, nil, true

	case key.Matches(msg, m.keys.JumpTabs):
		if n := int(msg.String()[0] - '1'); n >= 0 && n < m.tabCount() {
			m.tab = n
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Edit):
		var cmd tea.Cmd
		if kind, ok := m.activeKind(); ok && kind == section.Production {
			cmd = m.formView.StartTheme(m.record)
		} else {
			cmd = m.formView.StartCouple(m.record)
		}
		mdl, cmd := m.showForm(cmd, nil)
		return mdl, cmd, true

	case key.Matches(msg, m.keys.Settings):
		m.previousView = m.currentView
		m.currentView = ViewConfig
		return m, m.configView.Init(), true

	case key.Matches(msg, m.keys.AI):
		m.previousView = m.currentView
		m.currentView = ViewAI
		cmd := m.aiView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Backdrop):
		mdl, cmd := m.startBackdrop()
		return mdl, cmd, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMain:
		if m.tab == 0 {
			m.dashboard, cmd = m.dashboard.Update(msg)
		} else {
			i := m.tab - 1
			m.sections[i], cmd = m.sections[i].Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewAI:
		m.aiView, cmd = m.aiView.Update(msg)
	case ViewChecklist:
		m.checklistView, cmd = m.checklistView.Update(msg)
	case ViewConfig:
		m.configView, cmd = m.configView.Update(msg)
	}

	return m, cmd
}

func (m Model) tabCount() int {
	return len(m.sections) + 1
}

func (m Model) tabNames() []string {
	names := make([]string, 0, m.tabCount())
	names = append(names, "Dashboard")
	for _, s := range m.sections {
		names = append(names, s.Kind().String())
	}
	return names
}

// activeKind returns the kind of the visible section. ok is false on the
// dashboard.
func (m Model) activeKind() (section.Kind, bool) {
	if m.tab == 0 {
		return 0, false
	}
	return m.sections[m.tab-1].Kind(), true
}

func (m *Model) setStatus(done string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = done
	m.statusErr = false
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "สานรัก Sarn Rak"
	if names := m.record.CoupleNames; names.Groom != "" || names.Bride != "" {
		title = fmt.Sprintf("%s · %s ♥ %s", title, names.Groom, names.Bride)
	}
	header := m.layout.RenderHeader(title, m.saveLabel()) + "\n" +
		m.layout.RenderTabs(m.tabNames(), m.tab)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	case ViewAI:
		return m.aiView.View()
	case ViewConfig:
		return m.configView.View()
	case ViewChecklist:
		return theme.PanelStyle.Width(m.layout.ContentWidth() - 4).Render(m.checklistView.View())
	default:
		if m.tab == 0 {
			return m.dashboard.View()
		}
		return m.sections[m.tab-1].View()
	}
}

// saveLabel returns a short string describing the persistence state.
func (m Model) saveLabel() string {
	switch m.saveStatus.State {
	case appsync.SaveFailed:
		return "⚠ not saved, running from memory"
	case appsync.SaveOK:
		return "saved " + m.saveStatus.LastSave.Format("15:04:05")
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewAI:
		return "enter send | pgup/pgdown scroll | esc close"
	case ViewChecklist:
		return "j/k scroll | esc back"
	case ViewConfig:
		if m.configView.InForm() {
			return "enter submit | esc cancel"
		}
		return "k set key | x remove key | esc back"
	}

	if m.busy != "" {
		return m.busy
	}
	if m.status != "" {
		if m.statusErr {
			return theme.WarnStyle.Render(m.status)
		}
		return m.status
	}

	kind, ok := m.activeKind()
	if !ok {
		return "q quit | ? help | tab next | e edit couple | a ask | b backdrop | c settings | : command"
	}
	switch kind {
	case section.Guests:
		return "enter confirm | x decline | p plus-one | s seat | u unseat | n add | d delete"
	case section.Seating:
		return "enter/s fill table | n add table | d delete"
	case section.Budget:
		return "enter paid | n add | d delete | e budget total"
	case section.Rituals:
		return "enter done/undo"
	case section.Catering:
		return "n add dish | d delete"
	case section.Production:
		return "enter advance | n add | d delete | e theme & production"
	case section.Gallery:
		return "d delete | :import <file>... | b backdrop"
	}
	return "q quit | ? help"
}
