package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTabs key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Row actions
	Toggle  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Seat    key.Binding
	Unseat  key.Binding
	PlusOne key.Binding
	Decline key.Binding

	// Plan settings
	Edit     key.Binding
	Settings key.Binding

	// AI
	AI       key.Binding
	Backdrop key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next section"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab", "previous section"),
		),
		JumpTabs: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "jump to section"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Seat: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "seat"),
		),
		Unseat: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unseat"),
		),
		PlusOne: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "plus-one"),
		),
		Decline: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "declined"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit plan"),
		),
		Settings: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settings"),
		),
		AI: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "ask Sarn Rak"),
		),
		Backdrop: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "backdrop idea"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.NextTab, k.Toggle,
		k.Add, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.JumpTabs},
		{k.Toggle, k.Add, k.Delete, k.Edit, k.Settings},
		{k.Seat, k.Unseat, k.PlusOne, k.Decline},
		{k.AI, k.Backdrop, k.Command, k.Help, k.Back, k.Quit},
	}
}
