// Package form hosts the huh forms used to add entries and edit plan
// settings. A completed form emits a SubmitMsg whose Build function turns
// the latest record into a patch.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/planner"
	"github.com/nhle/sarnrak/internal/theme"
	"github.com/nhle/sarnrak/internal/wedding"
)

// SubmitMsg is dispatched when a form completes. Build runs against the
// record current at apply time.
type SubmitMsg struct {
	Title string
	Build func(model.WeddingRecord) (wedding.Patch, error)
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// bindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type bindings struct {
	name      string
	side      model.Side
	plusOne   bool
	dietary   string
	capacity  string
	category  string
	estimated string
	actual    string
	menuCat   model.MenuCategory
	notes     string
	choice    string
	bride     string
	groom     string
	date      string
	budget    string
	primary   string
	secondary string
	team      string
	projector string
}

// Model is the Bubble Tea model for the active form.
type Model struct {
	form   *huh.Form
	b      *bindings
	title  string
	submit func(*bindings) func(model.WeddingRecord) (wedding.Patch, error)
	width  int
	height int
}

// New creates an idle form model.
func New(width, height int) Model {
	return Model{b: &bindings{}, width: width, height: height}
}

// Active reports whether a form is being shown.
func (m Model) Active() bool {
	return m.form != nil
}

func (m *Model) start(title string, submit func(*bindings) func(model.WeddingRecord) (wedding.Patch, error), groups ...*huh.Group) tea.Cmd {
	m.title = title
	m.submit = submit
	m.form = huh.NewForm(groups...).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight()).
		WithShowHelp(true)
	return m.form.Init()
}

// StartGuest shows the new-guest form.
func (m *Model) StartGuest() tea.Cmd {
	*m.b = bindings{side: model.SideMutual}
	return m.start("New Guest", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		name, side, plusOne, dietary := b.name, b.side, b.plusOne, b.dietary
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			p, g, err := planner.AddGuest(rec, name, side, plusOne)
			if err != nil || dietary == "" {
				return p, err
			}
			return planner.SetDietaryNeeds(wedding.Apply(rec, p), g.ID, dietary)
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Name").Value(&m.b.name).Validate(required("Name")),
		huh.NewSelect[model.Side]().
			Title("Side").
			Options(
				huh.NewOption("Groom", model.SideGroom),
				huh.NewOption("Bride", model.SideBride),
				huh.NewOption("Mutual", model.SideMutual),
			).
			Value(&m.b.side),
		huh.NewConfirm().Title("Bringing a plus-one?").Value(&m.b.plusOne),
		huh.NewInput().Title("Dietary needs").Placeholder("optional").Value(&m.b.dietary),
	))
}

// StartTable shows the new-table form.
func (m *Model) StartTable() tea.Cmd {
	*m.b = bindings{capacity: "10"}
	return m.start("New Table", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		name := b.name
		capacity, _ := strconv.Atoi(strings.TrimSpace(b.capacity))
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			p, _, err := planner.AddTable(rec, name, capacity)
			return p, err
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Table name").Value(&m.b.name).Validate(required("Table name")),
		huh.NewInput().Title("Capacity").Value(&m.b.capacity).Validate(positiveInt),
	))
}

// StartBudgetItem shows the new-budget-line form.
func (m *Model) StartBudgetItem() tea.Cmd {
	*m.b = bindings{category: model.BudgetCategories[0], estimated: "0", actual: "0"}
	opts := make([]huh.Option[string], len(model.BudgetCategories))
	for i, c := range model.BudgetCategories {
		opts[i] = huh.NewOption(c, c)
	}
	return m.start("New Budget Item", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		category, item := b.category, b.name
		estimated, _ := parseAmount(b.estimated)
		actual, _ := parseAmount(b.actual)
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			p, _, err := planner.AddBudgetItem(rec, category, item, estimated, actual)
			return p, err
		}
	}, huh.NewGroup(
		huh.NewSelect[string]().Title("Category").Options(opts...).Value(&m.b.category),
		huh.NewInput().Title("Item").Value(&m.b.name).Validate(required("Item")),
		huh.NewInput().Title("Estimated (฿)").Value(&m.b.estimated).Validate(amount),
		huh.NewInput().Title("Actual (฿)").Value(&m.b.actual).Validate(amount),
	))
}

// StartMenuItem shows the new-dish form.
func (m *Model) StartMenuItem() tea.Cmd {
	*m.b = bindings{menuCat: model.MenuMain}
	opts := make([]huh.Option[model.MenuCategory], len(model.MenuCategories))
	for i, c := range model.MenuCategories {
		opts[i] = huh.NewOption(string(c), c)
	}
	return m.start("New Menu Item", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		name, cat, notes := b.name, b.menuCat, b.notes
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			p, _, err := planner.AddMenuItem(rec, name, cat, notes)
			return p, err
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Dish").Value(&m.b.name).Validate(required("Dish")),
		huh.NewSelect[model.MenuCategory]().Title("Category").Options(opts...).Value(&m.b.menuCat),
		huh.NewInput().Title("Notes").Placeholder("optional").Value(&m.b.notes),
	))
}

// StartProductionTask shows the new-production-task form.
func (m *Model) StartProductionTask() tea.Cmd {
	*m.b = bindings{}
	return m.start("New Production Task", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		item := b.name
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			p, _, err := planner.AddProductionTask(rec, item)
			return p, err
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Task").Placeholder("e.g. Pre-wedding video").Value(&m.b.name).Validate(required("Task")),
	))
}

// StartSeatGuest asks which table guestID should sit at.
func (m *Model) StartSeatGuest(rec model.WeddingRecord, guestID string) tea.Cmd {
	if len(rec.Tables) == 0 {
		return nil
	}
	*m.b = bindings{}
	opts := make([]huh.Option[string], len(rec.Tables))
	for i, t := range rec.Tables {
		label := fmt.Sprintf("%s (%d seats)", t.Name, t.Capacity)
		opts[i] = huh.NewOption(label, t.ID)
	}
	m.b.choice = rec.Tables[0].ID
	return m.start("Seat Guest", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		tableID := b.choice
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			return planner.AssignTable(rec, guestID, tableID)
		}
	}, huh.NewGroup(
		huh.NewSelect[string]().Title("Table").Options(opts...).Value(&m.b.choice),
	))
}

// StartFillTable asks which unseated confirmed guest should sit at tableID.
// It returns nil when there is nobody to seat.
func (m *Model) StartFillTable(rec model.WeddingRecord, tableID string) tea.Cmd {
	candidates := planner.UnseatedConfirmedGuests(rec)
	if len(candidates) == 0 {
		return nil
	}
	*m.b = bindings{}
	opts := make([]huh.Option[string], len(candidates))
	for i, g := range candidates {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", g.Name, g.Side), g.ID)
	}
	m.b.choice = candidates[0].ID
	return m.start("Fill Table", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		guestID := b.choice
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			return planner.AssignTable(rec, guestID, tableID)
		}
	}, huh.NewGroup(
		huh.NewSelect[string]().Title("Guest").Options(opts...).Value(&m.b.choice),
	))
}

// StartCouple edits names, date and total budget.
func (m *Model) StartCouple(rec model.WeddingRecord) tea.Cmd {
	*m.b = bindings{
		bride:  rec.CoupleNames.Bride,
		groom:  rec.CoupleNames.Groom,
		date:   rec.Date,
		budget: strconv.FormatFloat(rec.BudgetTotal, 'f', -1, 64),
	}
	return m.start("Couple & Budget", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		bride, groom, date := b.bride, b.groom, b.date
		total, _ := parseAmount(b.budget)
		return func(model.WeddingRecord) (wedding.Patch, error) {
			p, err := planner.SetBudgetTotal(total)
			if err != nil {
				return wedding.Patch{}, err
			}
			return p.Merge(planner.SetCoupleNames(bride, groom)).Merge(planner.SetDate(date)), nil
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Groom").Value(&m.b.groom),
		huh.NewInput().Title("Bride").Value(&m.b.bride),
		huh.NewInput().Title("Wedding date").Placeholder("free text, e.g. 2027-02-14").Value(&m.b.date),
		huh.NewInput().Title("Total budget (฿)").Value(&m.b.budget).Validate(amount),
	))
}

// StartTheme edits the decor theme and production settings.
func (m *Model) StartTheme(rec model.WeddingRecord) tea.Cmd {
	*m.b = bindings{
		name:      rec.Theme.Name,
		primary:   rec.Theme.PrimaryColor,
		secondary: rec.Theme.SecondaryColor,
		notes:     rec.Theme.BackdropNotes,
		team:      rec.Production.VideoTeam,
		projector: strconv.Itoa(rec.Production.Projectors),
	}
	return m.start("Theme & Production", func(b *bindings) func(model.WeddingRecord) (wedding.Patch, error) {
		t := model.Theme{
			Name:           strings.TrimSpace(b.name),
			PrimaryColor:   strings.TrimSpace(b.primary),
			SecondaryColor: strings.TrimSpace(b.secondary),
			BackdropNotes:  strings.TrimSpace(b.notes),
		}
		team := b.team
		projectors, _ := strconv.Atoi(strings.TrimSpace(b.projector))
		return func(rec model.WeddingRecord) (wedding.Patch, error) {
			rec = wedding.Apply(rec, planner.SetVideoTeam(rec, team))
			p, err := planner.SetProjectors(rec, projectors)
			if err != nil {
				return wedding.Patch{}, err
			}
			return planner.SetTheme(t).Merge(p), nil
		}
	}, huh.NewGroup(
		huh.NewInput().Title("Theme name").Value(&m.b.name).Validate(required("Theme name")),
		huh.NewInput().Title("Primary color").Value(&m.b.primary),
		huh.NewInput().Title("Secondary color").Value(&m.b.secondary),
		huh.NewText().Title("Backdrop notes").Value(&m.b.notes),
	), huh.NewGroup(
		huh.NewInput().Title("Video team").Value(&m.b.team),
		huh.NewInput().Title("Projectors").Value(&m.b.projector).Validate(nonNegativeInt),
	))
}

// Update handles messages for the active form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		out := SubmitMsg{Title: m.title, Build: m.submit(m.b)}
		m.form = nil
		return m, func() tea.Msg { return out }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGold).
		MarginBottom(1)

	content := titleStyle.Render(m.title) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return max(40, min(100, m.width-4))
}

func (m Model) formHeight() int {
	return max(10, m.height-4)
}

func required(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return v, nil
}

func amount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if v < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}
