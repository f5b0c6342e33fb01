// Package config renders the settings screen: the active configuration and
// the stored Gemini API key.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/keys"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeOverview      ConfigMode = iota // Show settings
	ModeFormKey                         // Enter a new API key
	ModeConfirmDelete                   // Confirm key removal
)

// ConfigDoneMsg signals the settings view should close.
type ConfigDoneMsg struct{}

// KeySavedMsg is sent after a new API key was stored.
type KeySavedMsg struct {
	Key string
}

// KeyDeletedMsg is sent after the stored API key was removed.
type KeyDeletedMsg struct{}

// keyResultMsg is sent after a keyring operation finishes.
type keyResultMsg struct {
	saved   string
	deleted bool
	err     error
}

// Credentials stores the Gemini API key.
type Credentials interface {
	Set(key, value string) error
	Delete(key string) error
}

type keyring struct{}

func (keyring) Set(key, value string) error { return credential.Set(key, value) }
func (keyring) Delete(key string) error     { return credential.Delete(key) }

// formValues holds huh bindings on the heap so pointers survive model
// copies.
type formValues struct {
	apiKey  string
	confirm bool
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	mode       ConfigMode
	cfg        *model.AppConfig
	configPath string
	creds      Credentials
	hasKey     bool

	keyForm    *huh.Form
	deleteForm *huh.Form
	values     *formValues

	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a settings view for cfg loaded from configPath. hasKey reports
// whether the advisor currently has an API key.
func New(cfg *model.AppConfig, configPath string, hasKey bool, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:       ModeOverview,
		cfg:        cfg,
		configPath: configPath,
		creds:      keyring{},
		hasKey:     hasKey,
		values:     &formValues{},
		keys:       k,
		width:      width,
		height:     height,
	}
}

// WithCredentials replaces the keyring used to store the API key.
func (m Model) WithCredentials(c Credentials) Model {
	m.creds = c
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case keyResultMsg:
		m.mode = ModeOverview
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Keyring error: %v", msg.err)
			return m, nil
		}
		if msg.deleted {
			m.hasKey = false
			m.statusMsg = "API key removed"
			return m, func() tea.Msg { return KeyDeletedMsg{} }
		}
		m.hasKey = true
		m.statusMsg = "API key saved"
		saved := msg.saved
		return m, func() tea.Msg { return KeySavedMsg{Key: saved} }

	case tea.KeyMsg:
		if m.mode == ModeOverview {
			return m.handleOverviewKeys(msg)
		}
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleOverviewKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.statusMsg = ""
		return m, func() tea.Msg { return ConfigDoneMsg{} }

	case msg.String() == "k":
		m.values.apiKey = ""
		m.keyForm = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Stored in the system keyring as " + credential.GeminiKey).
				EchoMode(huh.EchoModePassword).
				Value(&m.values.apiKey).
				Validate(validateRequired("API key")),
		)).WithWidth(m.formWidth())
		m.mode = ModeFormKey
		return m, m.keyForm.Init()

	case msg.String() == "x":
		m.values.confirm = false
		m.deleteForm = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Remove the stored API key?").
				Value(&m.values.confirm),
		)).WithWidth(m.formWidth())
		m.mode = ModeConfirmDelete
		return m, m.deleteForm.Init()
	}
	return m, nil
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeFormKey:
		mdl, cmd := m.keyForm.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.keyForm = f
		}
		switch m.keyForm.State {
		case huh.StateCompleted:
			return m, m.saveKey(strings.TrimSpace(m.values.apiKey))
		case huh.StateAborted:
			m.mode = ModeOverview
			return m, nil
		}
		return m, cmd

	case ModeConfirmDelete:
		mdl, cmd := m.deleteForm.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.deleteForm = f
		}
		switch m.deleteForm.State {
		case huh.StateCompleted:
			if !m.values.confirm {
				m.mode = ModeOverview
				return m, nil
			}
			return m, m.deleteKey()
		case huh.StateAborted:
			m.mode = ModeOverview
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) saveKey(value string) tea.Cmd {
	creds := m.creds
	return func() tea.Msg {
		if err := creds.Set(credential.GeminiKey, value); err != nil {
			return keyResultMsg{err: err}
		}
		return keyResultMsg{saved: value}
	}
}

func (m Model) deleteKey() tea.Cmd {
	creds := m.creds
	return func() tea.Msg {
		if err := creds.Delete(credential.GeminiKey); err != nil {
			return keyResultMsg{err: err}
		}
		return keyResultMsg{deleted: true}
	}
}

// View renders the settings view.
func (m Model) View() string {
	switch m.mode {
	case ModeFormKey:
		return m.renderForm("Set API Key", m.keyForm)
	case ModeConfirmDelete:
		return m.renderForm("Remove API Key", m.deleteForm)
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGold).MarginBottom(1).Render("Settings")
	section := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	keyStatus := theme.WarnStyle.Render("not set")
	switch {
	case os.Getenv(credential.GeminiEnv) != "":
		keyStatus = theme.ValueStyle.Render("from " + credential.GeminiEnv)
	case m.hasKey:
		keyStatus = theme.ValueStyle.Render("stored in keyring")
	}

	c := m.cfg
	lines := []string{
		title,
		row("Config file", m.configPath),
		"",
		section.Render("Storage"),
		row("Driver", c.Storage.Driver),
		row("Path", c.Storage.Path),
		row("Record key", c.Storage.Key),
		"",
		section.Render("Gemini"),
		theme.LabelStyle.Render("API key") + keyStatus,
		row("Advice model", c.AI.Model),
		row("Image model", c.AI.ImageModel),
		row("Temperature", fmt.Sprintf("%.1f", c.AI.Temperature)),
		"",
		section.Render("Other"),
		row("Import workers", fmt.Sprintf("%d", c.Gallery.Workers)),
		row("Log", fmt.Sprintf("%s (%s)", c.Log.File, c.Log.Level)),
		"",
		theme.HelpStyle.Render("k set API key · x remove API key · esc back"),
	}
	if m.statusMsg != "" {
		lines = append(lines, "", theme.DimmedStyle.Render(m.statusMsg))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderForm(title string, f *huh.Form) string {
	if f == nil {
		return ""
	}
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGold).MarginBottom(1).Render(title)
	return lipgloss.NewStyle().Padding(1, 2).Render(heading + "\n" + f.View())
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InForm reports whether a form has keyboard focus.
func (m Model) InForm() bool {
	return m.mode != ModeOverview
}

func (m Model) formWidth() int {
	return max(40, min(80, m.width-4))
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
