package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/metrics"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/theme"
)

// Model is the overview shown on the first tab.
type Model struct {
	record  model.WeddingRecord
	summary metrics.Summary
	spend   []metrics.CategorySpend
	bar     progress.Model
	width   int
	height  int
}

// New creates a dashboard for rec.
func New(rec model.WeddingRecord, width, height int) Model {
	bar := progress.New(
		progress.WithSolidFill("#D4AF37"),
		progress.WithoutPercentage(),
	)
	m := Model{bar: bar}
	m.SetRecord(rec)
	m.SetSize(width, height)
	return m
}

// SetRecord recomputes the figures for rec.
func (m *Model) SetRecord(rec model.WeddingRecord) {
	m.record = rec
	m.summary = metrics.Summarize(rec)
	m.spend = metrics.SpendByCategory(rec.BudgetItems)
}

// Summary returns the figures currently displayed.
func (m Model) Summary() metrics.Summary {
	return m.summary
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard. It has no interaction of its
// own.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	s := m.summary
	rec := m.record

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGold).
		Render(fmt.Sprintf("%s ♥ %s", rec.CoupleNames.Groom, rec.CoupleNames.Bride))
	sub := rec.Theme.Name
	if rec.Date != "" {
		sub = rec.Date + " · " + sub
	}
	subtitle := theme.HelpStyle.Render(sub)

	remaining := theme.ValueStyle.Render(Baht(s.Remaining))
	if s.OverBudget {
		remaining = theme.WarnStyle.Render(Baht(s.Remaining) + " over budget")
	}

	rows := []string{
		title,
		subtitle,
		"",
		row("Budget", Baht(s.BudgetTotal)),
		row("Spent", fmt.Sprintf("%s (paid %s)", Baht(s.TotalActual), Baht(s.TotalPaid))),
		theme.LabelStyle.Render("Remaining") + remaining,
		theme.LabelStyle.Render("Budget used") + m.bar.ViewAs(float64(s.ProgressPercent)/100) +
			fmt.Sprintf(" %d%%", s.ProgressPercent),
		"",
		row("Guests", fmt.Sprintf("%d (%d confirmed, headcount %d)", s.Guests, s.Confirmed, s.Headcount)),
		theme.LabelStyle.Render("Seated") + theme.Bar(s.SeatingPercent, m.barWidth()) +
			fmt.Sprintf(" %d/%d", s.Seated, s.Guests),
		row("Tables", fmt.Sprintf("%d (capacity %d)", s.Tables, s.TableCapacity)),
		theme.LabelStyle.Render("Rituals") + theme.Bar(int(s.RitualRatio*100+0.5), m.barWidth()) +
			fmt.Sprintf(" %d/%d", s.RitualsDone, s.RitualsTotal),
		row("Production", fmt.Sprintf("%d open of %d, %d projector(s)", s.ProductionOpen, s.ProductionTotal, rec.Production.Projectors)),
		row("Menu / Gallery", fmt.Sprintf("%d dishes, %d images", s.MenuItems, s.GalleryImages)),
	}

	if len(m.spend) > 0 {
		rows = append(rows, "", lipgloss.NewStyle().Bold(true).Render("Spend by category"))
		for _, c := range m.spend {
			rows = append(rows, row(truncate(c.Category, 16), fmt.Sprintf("%s / est. %s", Baht(c.Actual), Baht(c.Estimated))))
		}
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value)
}

func (m Model) barWidth() int {
	return max(10, min(40, m.width-40))
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = m.barWidth()
}

// Baht formats an amount with thousands separators and the baht sign.
func Baht(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-฿" + string(out)
	}
	return "฿" + string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
