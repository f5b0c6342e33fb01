// Package planner turns user actions into record patches. Every function
// reads a snapshot, builds the complete replacement sequence for the field
// it touches, and returns it as a wedding.Patch; none modifies its input.
package planner

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/wedding"
)

var (
	// ErrNotFound is returned when no entity has the given id.
	ErrNotFound = errors.New("entity not found")

	// ErrUnknownTable is returned when seating a guest at a table that does
	// not exist.
	ErrUnknownTable = errors.New("unknown table")

	// ErrInvalidAmount is returned for negative or non-finite money and
	// negative count values.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrEmptyName is returned when a required name is blank.
	ErrEmptyName = errors.New("name is required")
)

// identified is satisfied by every entity stored in a record sequence.
type identified interface {
	model.Guest | model.Table | model.BudgetItem | model.RitualTask |
		model.GalleryImage | model.MenuItem | model.ProductionTask
}

func idOf[T identified](v T) string {
	switch e := any(v).(type) {
	case model.Guest:
		return e.ID
	case model.Table:
		return e.ID
	case model.BudgetItem:
		return e.ID
	case model.RitualTask:
		return e.ID
	case model.GalleryImage:
		return e.ID
	case model.MenuItem:
		return e.ID
	case model.ProductionTask:
		return e.ID
	}
	return ""
}

// appendItem returns a new sequence with v at the end.
func appendItem[T identified](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

// removeByID returns a new sequence without the element whose id matches.
// Order of the remaining elements is preserved.
func removeByID[T identified](items []T, id string) ([]T, error) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if idOf(it) == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return out, nil
}

// replaceByID returns a new sequence where the element with the given id is
// replaced by fn applied to it.
func replaceByID[T identified](items []T, id string, fn func(T) T) ([]T, error) {
	out := make([]T, len(items))
	found := false
	for i, it := range items {
		if idOf(it) == id {
			found = true
			out[i] = fn(it)
			continue
		}
		out[i] = it
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return out, nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// --- Guests ---

// AddGuest appends a new pending guest.
func AddGuest(rec model.WeddingRecord, name string, side model.Side, plusOne bool) (wedding.Patch, model.Guest, error) {
	name, err := requireName(name)
	if err != nil {
		return wedding.Patch{}, model.Guest{}, err
	}
	if side == "" {
		side = model.SideMutual
	}
	g := model.Guest{
		ID:      model.NewID(),
		Name:    name,
		Side:    side,
		Status:  model.GuestPending,
		PlusOne: plusOne,
	}
	guests := appendItem(rec.Guests, g)
	return wedding.Patch{Guests: &guests}, g, nil
}

// RemoveGuest drops the guest with id.
func RemoveGuest(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	guests, err := removeByID(rec.Guests, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Guests: &guests}, nil
}

func updateGuest(rec model.WeddingRecord, id string, fn func(model.Guest) model.Guest) (wedding.Patch, error) {
	guests, err := replaceByID(rec.Guests, id, fn)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Guests: &guests}, nil
}

// ToggleGuestConfirmed flips a guest between Confirmed and Pending. A
// declined guest becomes Confirmed.
func ToggleGuestConfirmed(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	return updateGuest(rec, id, func(g model.Guest) model.Guest {
		if g.Status == model.GuestConfirmed {
			g.Status = model.GuestPending
		} else {
			g.Status = model.GuestConfirmed
		}
		return g
	})
}

// SetGuestStatus sets the RSVP status of a guest.
func SetGuestStatus(rec model.WeddingRecord, id string, status model.GuestStatus) (wedding.Patch, error) {
	return updateGuest(rec, id, func(g model.Guest) model.Guest {
		g.Status = status
		return g
	})
}

// TogglePlusOne flips whether the guest brings a companion.
func TogglePlusOne(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	return updateGuest(rec, id, func(g model.Guest) model.Guest {
		g.PlusOne = !g.PlusOne
		return g
	})
}

// SetDietaryNeeds records a guest's dietary requirements.
func SetDietaryNeeds(rec model.WeddingRecord, id, needs string) (wedding.Patch, error) {
	return updateGuest(rec, id, func(g model.Guest) model.Guest {
		g.DietaryNeeds = strings.TrimSpace(needs)
		return g
	})
}

// AssignTable seats a guest at an existing table. Capacity is not enforced.
func AssignTable(rec model.WeddingRecord, guestID, tableID string) (wedding.Patch, error) {
	if _, ok := model.FindTable(rec.Tables, tableID); !ok {
		return wedding.Patch{}, fmt.Errorf("%s: %w", tableID, ErrUnknownTable)
	}
	return updateGuest(rec, guestID, func(g model.Guest) model.Guest {
		g.TableID = tableID
		return g
	})
}

// UnassignTable clears a guest's table reference.
func UnassignTable(rec model.WeddingRecord, guestID string) (wedding.Patch, error) {
	return updateGuest(rec, guestID, func(g model.Guest) model.Guest {
		g.TableID = ""
		return g
	})
}

// UnseatedConfirmedGuests lists confirmed guests without a resolvable table,
// the candidates offered when filling a table.
func UnseatedConfirmedGuests(rec model.WeddingRecord) []model.Guest {
	var out []model.Guest
	for _, g := range rec.Guests {
		if g.Status != model.GuestConfirmed {
			continue
		}
		if _, ok := model.FindTable(rec.Tables, g.TableID); ok {
			continue
		}
		out = append(out, g)
	}
	return out
}

// GuestsAtTable lists guests seated at tableID in record order.
func GuestsAtTable(rec model.WeddingRecord, tableID string) []model.Guest {
	var out []model.Guest
	for _, g := range rec.Guests {
		if tableID != "" && g.TableID == tableID {
			out = append(out, g)
		}
	}
	return out
}

// --- Tables ---

// AddTable appends a table. Capacity must be positive.
func AddTable(rec model.WeddingRecord, name string, capacity int) (wedding.Patch, model.Table, error) {
	name, err := requireName(name)
	if err != nil {
		return wedding.Patch{}, model.Table{}, err
	}
	if capacity <= 0 {
		return wedding.Patch{}, model.Table{}, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidAmount)
	}
	t := model.Table{ID: model.NewID(), Name: name, Capacity: capacity}
	tables := appendItem(rec.Tables, t)
	return wedding.Patch{Tables: &tables}, t, nil
}

// RemoveTable drops a table. Guests seated there keep their now-dangling
// reference.
func RemoveTable(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	tables, err := removeByID(rec.Tables, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Tables: &tables}, nil
}

// --- Budget ---

// validAmount reports whether v is a finite, non-negative amount of baht.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// SetBudgetTotal changes the overall budget.
func SetBudgetTotal(total float64) (wedding.Patch, error) {
	if !validAmount(total) {
		return wedding.Patch{}, fmt.Errorf("budget %.2f: %w", total, ErrInvalidAmount)
	}
	return wedding.Patch{BudgetTotal: &total}, nil
}

// AddBudgetItem appends an unpaid budget line.
func AddBudgetItem(rec model.WeddingRecord, category, item string, estimated, actual float64) (wedding.Patch, model.BudgetItem, error) {
	item, err := requireName(item)
	if err != nil {
		return wedding.Patch{}, model.BudgetItem{}, err
	}
	if !validAmount(estimated) || !validAmount(actual) {
		return wedding.Patch{}, model.BudgetItem{}, fmt.Errorf("estimated %.2f, actual %.2f: %w", estimated, actual, ErrInvalidAmount)
	}
	if category == "" {
		category = model.BudgetCategories[len(model.BudgetCategories)-1]
	}
	b := model.BudgetItem{
		ID:        model.NewID(),
		Category:  category,
		Item:      item,
		Estimated: estimated,
		Actual:    actual,
	}
	items := appendItem(rec.BudgetItems, b)
	return wedding.Patch{BudgetItems: &items}, b, nil
}

// RemoveBudgetItem drops a budget line, keeping the order of the rest.
func RemoveBudgetItem(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	items, err := removeByID(rec.BudgetItems, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{BudgetItems: &items}, nil
}

// ToggleBudgetPaid flips the paid flag of a budget line.
func ToggleBudgetPaid(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	items, err := replaceByID(rec.BudgetItems, id, func(b model.BudgetItem) model.BudgetItem {
		b.IsPaid = !b.IsPaid
		return b
	})
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{BudgetItems: &items}, nil
}

// SetBudgetActual records the actual cost of a budget line.
func SetBudgetActual(rec model.WeddingRecord, id string, actual float64) (wedding.Patch, error) {
	if !validAmount(actual) {
		return wedding.Patch{}, fmt.Errorf("actual %.2f: %w", actual, ErrInvalidAmount)
	}
	items, err := replaceByID(rec.BudgetItems, id, func(b model.BudgetItem) model.BudgetItem {
		b.Actual = actual
		return b
	})
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{BudgetItems: &items}, nil
}

// --- Rituals ---

// ToggleRitual flips the completion of a ritual step.
func ToggleRitual(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	rituals, err := replaceByID(rec.Rituals, id, func(r model.RitualTask) model.RitualTask {
		r.IsCompleted = !r.IsCompleted
		return r
	})
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Rituals: &rituals}, nil
}

// SortedRituals returns the rituals ordered by their fixed Order.
func SortedRituals(rec model.WeddingRecord) []model.RitualTask {
	out := slices.Clone(rec.Rituals)
	slices.SortStableFunc(out, func(a, b model.RitualTask) int { return a.Order - b.Order })
	return out
}

// --- Gallery ---

// AddGalleryImage appends an image created now.
func AddGalleryImage(rec model.WeddingRecord, url string, typ model.ImageType, caption string) (wedding.Patch, model.GalleryImage) {
	img := model.GalleryImage{
		ID:        model.NewID(),
		URL:       url,
		Caption:   caption,
		Type:      typ,
		CreatedAt: time.Now().UnixMilli(),
	}
	gallery := appendItem(rec.Gallery, img)
	return wedding.Patch{Gallery: &gallery}, img
}

// RemoveGalleryImage drops an image.
func RemoveGalleryImage(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	gallery, err := removeByID(rec.Gallery, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Gallery: &gallery}, nil
}

// --- Catering ---

// AddMenuItem appends a dish. An empty category defaults to Main.
func AddMenuItem(rec model.WeddingRecord, name string, category model.MenuCategory, notes string) (wedding.Patch, model.MenuItem, error) {
	name, err := requireName(name)
	if err != nil {
		return wedding.Patch{}, model.MenuItem{}, err
	}
	if category == "" {
		category = model.MenuMain
	}
	m := model.MenuItem{ID: model.NewID(), Name: name, Category: category, Notes: notes}
	catering := appendItem(rec.Catering, m)
	return wedding.Patch{Catering: &catering}, m, nil
}

// RemoveMenuItem drops a dish.
func RemoveMenuItem(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	catering, err := removeByID(rec.Catering, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	return wedding.Patch{Catering: &catering}, nil
}

// MenuByCategory groups the menu by category in display order.
func MenuByCategory(rec model.WeddingRecord) map[model.MenuCategory][]model.MenuItem {
	out := make(map[model.MenuCategory][]model.MenuItem, len(model.MenuCategories))
	for _, m := range rec.Catering {
		out[m.Category] = append(out[m.Category], m)
	}
	return out
}

// --- Production ---

func productionPatch(p model.Production) wedding.Patch {
	return wedding.Patch{Production: &p}
}

// AddProductionTask appends a pending production task.
func AddProductionTask(rec model.WeddingRecord, item string) (wedding.Patch, model.ProductionTask, error) {
	item, err := requireName(item)
	if err != nil {
		return wedding.Patch{}, model.ProductionTask{}, err
	}
	t := model.ProductionTask{ID: model.NewID(), Item: item, Status: model.ProductionPending}
	p := rec.Production
	p.Tasks = appendItem(p.Tasks, t)
	return productionPatch(p), t, nil
}

// RemoveProductionTask drops a production task.
func RemoveProductionTask(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	tasks, err := removeByID(rec.Production.Tasks, id)
	if err != nil {
		return wedding.Patch{}, err
	}
	p := rec.Production
	p.Tasks = tasks
	return productionPatch(p), nil
}

// nextProductionStatus cycles Pending → In Progress → Done → Pending.
func nextProductionStatus(s model.ProductionStatus) model.ProductionStatus {
	switch s {
	case model.ProductionPending:
		return model.ProductionInProgress
	case model.ProductionInProgress:
		return model.ProductionDone
	default:
		return model.ProductionPending
	}
}

// AdvanceProductionTask moves a task to its next status.
func AdvanceProductionTask(rec model.WeddingRecord, id string) (wedding.Patch, error) {
	tasks, err := replaceByID(rec.Production.Tasks, id, func(t model.ProductionTask) model.ProductionTask {
		t.Status = nextProductionStatus(t.Status)
		return t
	})
	if err != nil {
		return wedding.Patch{}, err
	}
	p := rec.Production
	p.Tasks = tasks
	return productionPatch(p), nil
}

// SetVideoTeam names the production team.
func SetVideoTeam(rec model.WeddingRecord, team string) wedding.Patch {
	p := rec.Production
	p.VideoTeam = strings.TrimSpace(team)
	p.Tasks = slices.Clone(p.Tasks)
	return productionPatch(p)
}

// SetProjectors sets the number of projectors.
func SetProjectors(rec model.WeddingRecord, n int) (wedding.Patch, error) {
	if n < 0 {
		return wedding.Patch{}, fmt.Errorf("projectors %d: %w", n, ErrInvalidAmount)
	}
	p := rec.Production
	p.Projectors = n
	p.Tasks = slices.Clone(p.Tasks)
	return productionPatch(p), nil
}

// --- Theme and couple ---

// SetTheme replaces the decor theme.
func SetTheme(theme model.Theme) wedding.Patch {
	return wedding.Patch{Theme: &theme}
}

// SetCoupleNames replaces the couple names.
func SetCoupleNames(bride, groom string) wedding.Patch {
	names := model.CoupleNames{Bride: strings.TrimSpace(bride), Groom: strings.TrimSpace(groom)}
	return wedding.Patch{CoupleNames: &names}
}

// SetDate records the wedding date as free text.
func SetDate(date string) wedding.Patch {
	date = strings.TrimSpace(date)
	return wedding.Patch{Date: &date}
}
