// Package section renders one list tab of the planner (guests, tables,
// budget and so on) and turns key presses into ActionMsg values for the
// root model.
package section

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/sarnrak/internal/keys"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/theme"
)

// Kind identifies a section.
type Kind int

const (
	Guests Kind = iota
	Seating
	Budget
	Rituals
	Catering
	Production
	Gallery
)

// Kinds lists every section in tab order.
var Kinds = []Kind{Guests, Seating, Budget, Rituals, Catering, Production, Gallery}

// String returns the tab title.
func (k Kind) String() string {
	switch k {
	case Guests:
		return "Guests"
	case Seating:
		return "Seating"
	case Budget:
		return "Budget"
	case Rituals:
		return "Rituals"
	case Catering:
		return "Catering"
	case Production:
		return "Production"
	case Gallery:
		return "Gallery"
	}
	return "?"
}

// Action is a row operation requested by the user.
type Action int

const (
	ActionToggle Action = iota
	ActionAdd
	ActionDelete
	ActionSeat
	ActionUnseat
	ActionPlusOne
	ActionDecline
)

// ActionMsg asks the root model to perform an action on the selected row.
// ID is empty when the list has no selection.
type ActionMsg struct {
	Kind   Kind
	Action Action
	ID     string
}

// Model is a single section list.
type Model struct {
	kind   Kind
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a section list of kind showing rec.
func New(kind Kind, rec model.WeddingRecord, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, RowDelegate{}, width, height)
	l.Title = kind.String()
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	l.Styles.Title = theme.HeaderStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	// Letter paging keys collide with row actions and tab switching.
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "next page"))

	m := Model{
		kind:   kind,
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
	m.SetRecord(rec)
	return m
}

// Kind returns the section kind.
func (m Model) Kind() Kind {
	return m.kind
}

// SetRecord replaces the rows, keeping the cursor position where possible.
func (m *Model) SetRecord(rec model.WeddingRecord) {
	rows := Rows(m.kind, rec)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(min(idx, len(items)-1))
	}
}

// SelectedID returns the id of the highlighted row.
func (m Model) SelectedID() (string, bool) {
	r, ok := m.list.SelectedItem().(Row)
	if !ok {
		return "", false
	}
	return r.ID, true
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the section list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if action, ok := m.actionFor(msg); ok {
			id, _ := m.SelectedID()
			if id == "" && action != ActionAdd {
				return m, nil
			}
			kind := m.kind
			return m, func() tea.Msg {
				return ActionMsg{Kind: kind, Action: action, ID: id}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) actionFor(msg tea.KeyMsg) (Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return ActionToggle, true
	case key.Matches(msg, m.keys.Add):
		return ActionAdd, true
	case key.Matches(msg, m.keys.Delete):
		return ActionDelete, true
	case key.Matches(msg, m.keys.Seat):
		return ActionSeat, true
	case key.Matches(msg, m.keys.Unseat):
		return ActionUnseat, true
	case key.Matches(msg, m.keys.PlusOne):
		return ActionPlusOne, true
	case key.Matches(msg, m.keys.Decline):
		return ActionDecline, true
	}
	return 0, false
}

// View renders the list.
func (m Model) View() string {
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
