package section

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sarnrak/internal/metrics"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/planner"
	"github.com/nhle/sarnrak/internal/theme"
)

// Row is one line of a section list.
type Row struct {
	ID     string
	Label  string
	Detail string
	Chip   string
	Style  lipgloss.Style
	Done   bool
	Warn   bool
}

// FilterValue returns the string used for filtering.
func (r Row) FilterValue() string { return r.Label }

// Rows builds the list rows of kind from rec.
func Rows(kind Kind, rec model.WeddingRecord) []Row {
	switch kind {
	case Guests:
		return guestRows(rec)
	case Seating:
		return tableRows(rec)
	case Budget:
		return budgetRows(rec)
	case Rituals:
		return ritualRows(rec)
	case Catering:
		return menuRows(rec)
	case Production:
		return productionRows(rec)
	case Gallery:
		return galleryRows(rec)
	}
	return nil
}

func guestRows(rec model.WeddingRecord) []Row {
	rows := make([]Row, 0, len(rec.Guests))
	for _, g := range rec.Guests {
		detail := []string{theme.SideStyle(g.Side).Render(string(g.Side))}
		detail = append(detail, "table "+model.TableName(rec.Tables, g))
		if g.PlusOne {
			detail = append(detail, "+1")
		}
		if g.DietaryNeeds != "" {
			detail = append(detail, g.DietaryNeeds)
		}
		rows = append(rows, Row{
			ID:     g.ID,
			Label:  g.Name,
			Detail: strings.Join(detail, " · "),
			Chip:   string(g.Status),
			Style:  theme.GuestStatusStyle(g.Status),
			Done:   g.Status == model.GuestDeclined,
		})
	}
	return rows
}

func tableRows(rec model.WeddingRecord) []Row {
	rows := make([]Row, 0, len(rec.Tables))
	for _, t := range rec.Tables {
		seated := planner.GuestsAtTable(rec, t.ID)
		names := make([]string, len(seated))
		for i, g := range seated {
			names[i] = g.Name
		}
		occupancy := metrics.TableOccupancy(rec.Guests, t.ID)
		rows = append(rows, Row{
			ID:     t.ID,
			Label:  t.Name,
			Detail: strings.Join(names, ", "),
			Chip:   fmt.Sprintf("%d/%d", occupancy, t.Capacity),
			Style:  lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(theme.ColorGold),
			Warn:   occupancy > t.Capacity,
			Done:   metrics.IsTableFull(rec.Guests, t) && occupancy <= t.Capacity,
		})
	}
	return rows
}

func budgetRows(rec model.WeddingRecord) []Row {
	rows := make([]Row, 0, len(rec.BudgetItems))
	for _, b := range rec.BudgetItems {
		chip := "unpaid"
		style := theme.GuestStatusStyle(model.GuestPending)
		if b.IsPaid {
			chip = "paid"
			style = theme.GuestStatusStyle(model.GuestConfirmed)
		}
		rows = append(rows, Row{
			ID:     b.ID,
			Label:  b.Item,
			Detail: fmt.Sprintf("%s · est. %.0f · actual %.0f", b.Category, b.Estimated, b.Actual),
			Chip:   chip,
			Style:  style,
			Warn:   b.Actual > b.Estimated && b.Estimated > 0,
		})
	}
	return rows
}

func ritualRows(rec model.WeddingRecord) []Row {
	sorted := planner.SortedRituals(rec)
	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		chip := "○"
		if r.IsCompleted {
			chip = "✓"
		}
		rows = append(rows, Row{
			ID:     r.ID,
			Label:  fmt.Sprintf("%d. %s", r.Order, r.Title),
			Detail: r.Description,
			Chip:   chip,
			Style:  lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(theme.ColorGreen),
			Done:   r.IsCompleted,
		})
	}
	return rows
}

func menuRows(rec model.WeddingRecord) []Row {
	byCat := planner.MenuByCategory(rec)
	rows := make([]Row, 0, len(rec.Catering))
	for _, cat := range model.MenuCategories {
		for _, m := range byCat[cat] {
			rows = append(rows, Row{
				ID:     m.ID,
				Label:  m.Name,
				Detail: m.Notes,
				Chip:   string(m.Category),
				Style:  lipgloss.NewStyle().Padding(0, 1).Foreground(theme.ColorMagenta),
			})
		}
	}
	return rows
}

func productionRows(rec model.WeddingRecord) []Row {
	rows := make([]Row, 0, len(rec.Production.Tasks))
	for _, t := range rec.Production.Tasks {
		rows = append(rows, Row{
			ID:    t.ID,
			Label: t.Item,
			Chip:  string(t.Status),
			Style: theme.ProductionStatusStyle(t.Status),
			Done:  t.Status == model.ProductionDone,
		})
	}
	return rows
}

func galleryRows(rec model.WeddingRecord) []Row {
	rows := make([]Row, 0, len(rec.Gallery))
	for _, img := range rec.Gallery {
		label := img.Caption
		if label == "" {
			label = describeURL(img.URL)
		}
		rows = append(rows, Row{
			ID:     img.ID,
			Label:  label,
			Detail: img.Created().Format("2006-01-02 15:04"),
			Chip:   string(img.Type),
			Style:  lipgloss.NewStyle().Padding(0, 1).Foreground(theme.ColorRose),
		})
	}
	return rows
}

// describeURL shortens a gallery URL for display. Data URIs are reduced
// to their MIME type and size.
func describeURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "data:"); ok {
		mime, payload, _ := strings.Cut(rest, ",")
		mime = strings.TrimSuffix(mime, ";base64")
		return fmt.Sprintf("%s (%d KB)", mime, len(payload)*3/4/1024)
	}
	if len(url) > 60 {
		return url[:57] + "..."
	}
	return url
}

// RowDelegate implements list.ItemDelegate for section rows.
type RowDelegate struct{}

// Height returns the number of lines each item takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-item messages.
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(Row)
	if !ok {
		return
	}

	chip := r.Style.Render(r.Chip)
	if r.Warn {
		chip = theme.WarnStyle.Render(r.Chip)
	}

	label := r.Label
	if r.Done {
		label = theme.DimmedStyle.Render(label)
	}

	line := chip + " " + label
	if r.Detail != "" {
		line += "  " + theme.HelpStyle.Render(r.Detail)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
