package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	aiservice "github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/gallery"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/planner"
	"github.com/nhle/sarnrak/internal/theme"
	"github.com/nhle/sarnrak/internal/ui/dashboard"
	"github.com/nhle/sarnrak/internal/ui/section"
	"github.com/nhle/sarnrak/internal/wedding"
)

const (
	backdropTimeout  = 2 * time.Minute
	checklistTimeout = time.Minute
	importTimeout    = 5 * time.Minute
)

var (
	errImageUnavailable = errors.New("ไม่สามารถสร้างรูปภาพได้ในขณะนี้ กรุณาลองใหม่อีกครั้ง")
	errNoAdvisor        = errors.New("no Gemini API key configured, run `sarnrak key set`")
	errNoTables         = errors.New("add a table first")
	errNobodyToSeat     = errors.New("no confirmed guests are waiting for a seat")
)

// mutationResultMsg is sent after a planner change has been applied.
type mutationResultMsg struct {
	done string
	err  error
}

// backdropResultMsg is sent when backdrop generation finishes.
type backdropResultMsg struct {
	image model.GalleryImage
	err   error
}

// checklistResultMsg carries a generated checklist.
type checklistResultMsg struct {
	items []aiservice.ChecklistItem
}

// importResultMsg carries the outcome of a batch image import.
type importResultMsg struct {
	results []gallery.Result
}

// mutate returns a command that applies build to the latest record. The
// record change itself reaches the UI through the feed.
func (m Model) mutate(done string, build func(model.WeddingRecord) (wedding.Patch, error)) tea.Cmd {
	s := m.store
	logger := m.logger
	return func() tea.Msg {
		var err error
		s.Modify(context.Background(), func(rec model.WeddingRecord) wedding.Patch {
			var p wedding.Patch
			p, err = build(rec)
			if err != nil {
				return wedding.Patch{}
			}
			return p
		})
		if err != nil {
			logger.Debug().Err(err).Msg("change rejected")
		}
		return mutationResultMsg{done: done, err: err}
	}
}

// byID adapts a planner operation on a single item to a build function.
func byID(id string, fn func(model.WeddingRecord, string) (wedding.Patch, error)) func(model.WeddingRecord) (wedding.Patch, error) {
	return func(rec model.WeddingRecord) (wedding.Patch, error) {
		return fn(rec, id)
	}
}

// handleAction maps a row action of a section onto a planner operation or
// a form.
func (m Model) handleAction(msg section.ActionMsg) (tea.Model, tea.Cmd) {
	id := msg.ID

	switch msg.Kind {
	case section.Guests:
		switch msg.Action {
		case section.ActionToggle:
			return m, m.mutate("Guest updated", byID(id, planner.ToggleGuestConfirmed))
		case section.ActionAdd:
			cmd := m.formView.StartGuest()
			return m.showForm(cmd, nil)
		case section.ActionDelete:
			return m, m.mutate("Guest removed", byID(id, planner.RemoveGuest))
		case section.ActionSeat:
			cmd := m.formView.StartSeatGuest(m.record, id)
			return m.showForm(cmd, errNoTables)
		case section.ActionUnseat:
			return m, m.mutate("Guest unseated", byID(id, planner.UnassignTable))
		case section.ActionPlusOne:
			return m, m.mutate("Plus-one updated", byID(id, planner.TogglePlusOne))
		case section.ActionDecline:
			return m, m.mutate("Guest declined", func(rec model.WeddingRecord) (wedding.Patch, error) {
				return planner.SetGuestStatus(rec, id, model.GuestDeclined)
			})
		}

	case section.Seating:
		switch msg.Action {
		case section.ActionToggle, section.ActionSeat:
			cmd := m.formView.StartFillTable(m.record, id)
			return m.showForm(cmd, errNobodyToSeat)
		case section.ActionAdd:
			cmd := m.formView.StartTable()
			return m.showForm(cmd, nil)
		case section.ActionDelete:
			return m, m.mutate("Table removed", byID(id, planner.RemoveTable))
		}

	case section.Budget:
		switch msg.Action {
		case section.ActionToggle:
			return m, m.mutate("Payment updated", byID(id, planner.ToggleBudgetPaid))
		case section.ActionAdd:
			cmd := m.formView.StartBudgetItem()
			return m.showForm(cmd, nil)
		case section.ActionDelete:
			return m, m.mutate("Budget item removed", byID(id, planner.RemoveBudgetItem))
		}

	case section.Rituals:
		if msg.Action == section.ActionToggle {
			return m, m.mutate("Ritual updated", byID(id, planner.ToggleRitual))
		}

	case section.Catering:
		switch msg.Action {
		case section.ActionAdd:
			cmd := m.formView.StartMenuItem()
			return m.showForm(cmd, nil)
		case section.ActionDelete:
			return m, m.mutate("Dish removed", byID(id, planner.RemoveMenuItem))
		}

	case section.Production:
		switch msg.Action {
		case section.ActionToggle:
			return m, m.mutate("Task advanced", byID(id, planner.AdvanceProductionTask))
		case section.ActionAdd:
			cmd := m.formView.StartProductionTask()
			return m.showForm(cmd, nil)
		case section.ActionDelete:
			return m, m.mutate("Task removed", byID(id, planner.RemoveProductionTask))
		}

	case section.Gallery:
		switch msg.Action {
		case section.ActionAdd:
			m.setStatus("Use :import <file>... to add photos", nil)
			return m, nil
		case section.ActionDelete:
			return m, m.mutate("Image removed", byID(id, planner.RemoveGalleryImage))
		}
	}

	return m, nil
}

// showForm switches to the form view, or reports unavailable when the form
// could not be started. Start the form before calling it.
func (m *Model) showForm(cmd tea.Cmd, unavailable error) (tea.Model, tea.Cmd) {
	if !m.formView.Active() {
		if unavailable != nil {
			m.setStatus("", unavailable)
		}
		return *m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewForm
	return *m, cmd
}

// startBackdrop generates a backdrop for the current theme and saves it to
// the gallery as an Inspiration image.
func (m Model) startBackdrop() (tea.Model, tea.Cmd) {
	if m.advisor == nil {
		m.setStatus("", errNoAdvisor)
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}
	m.busy = "Generating backdrop for " + m.record.Theme.Name + "..."

	advisor := m.advisor
	s := m.store
	t := m.record.Theme
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backdropTimeout)
		defer cancel()

		url, err := advisor.BackdropIdea(ctx, t)
		if err != nil || url == "" {
			return backdropResultMsg{err: err}
		}
		img := gallery.SaveInspiration(ctx, s, url, "Backdrop: "+t.Name)
		return backdropResultMsg{image: img}
	}
}

// startChecklist requests a checklist sized to the current budget and guest
// list.
func (m *Model) startChecklist() tea.Cmd {
	if m.advisor == nil {
		m.setStatus("", errNoAdvisor)
		return nil
	}
	m.busy = "Preparing checklist..."

	advisor := m.advisor
	budget := m.record.BudgetTotal
	guests := len(m.record.Guests)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checklistTimeout)
		defer cancel()
		return checklistResultMsg{items: advisor.Checklist(ctx, budget, guests)}
	}
}

// startImport adds the files at paths to the gallery.
func (m *Model) startImport(paths []string) tea.Cmd {
	if len(paths) == 0 {
		m.setStatus("", errors.New("usage: import <file>..."))
		return nil
	}
	m.busy = fmt.Sprintf("Importing %d image(s)...", len(paths))

	im := m.importer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()
		return importResultMsg{results: im.Import(ctx, paths)}
	}
}

// importSummary condenses import results into a status line.
func importSummary(results []gallery.Result) (string, error) {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err.Error())
		}
	}
	ok := len(results) - len(failed)
	if len(failed) == 0 {
		return fmt.Sprintf("Imported %d image(s)", ok), nil
	}
	return "", fmt.Errorf("imported %d of %d image(s): %s", ok, len(results), failed[0])
}

// renderChecklist formats checklist items for the checklist viewport.
func renderChecklist(items []aiservice.ChecklistItem) string {
	title := theme.HeaderStyle.Render("Wedding checklist")
	if len(items) == 0 {
		return title + "\n\n" + theme.DimmedStyle.Render("No checklist could be prepared. Try again later.")
	}

	lines := []string{title, ""}
	for _, it := range items {
		priority := strings.ToLower(it.Priority)
		style := theme.DimmedStyle
		switch priority {
		case "high":
			style = theme.WarnStyle
		case "medium":
			style = theme.LabelStyle.Width(0)
		}
		line := fmt.Sprintf("%s %s  %s",
			style.Render(fmt.Sprintf("[%s]", priority)),
			it.Task,
			theme.HelpStyle.Render(dashboard.Baht(it.EstimatedCost)))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
