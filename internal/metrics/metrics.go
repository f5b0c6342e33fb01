// Package metrics derives dashboard figures from a wedding record snapshot.
// Everything here is pure and recomputed on each read.
package metrics

import (
	"math"
	"sort"

	"github.com/nhle/sarnrak/internal/model"
)

// TotalEstimated sums the estimated cost of all budget items.
func TotalEstimated(items []model.BudgetItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Estimated
	}
	return total
}

// TotalActual sums the actual cost of all budget items.
func TotalActual(items []model.BudgetItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Actual
	}
	return total
}

// TotalPaid sums the actual cost of paid budget items.
func TotalPaid(items []model.BudgetItem) float64 {
	var total float64
	for _, it := range items {
		if it.IsPaid {
			total += it.Actual
		}
	}
	return total
}

// Remaining is the budget left after actual spend. Negative means over
// budget.
func Remaining(rec model.WeddingRecord) float64 {
	return rec.BudgetTotal - TotalActual(rec.BudgetItems)
}

// ProgressPercent is the share of the budget already spent, rounded and
// clamped to [0, 100]. Budgets below 1 are treated as 1, so a zero budget
// with any spend reports 100.
func ProgressPercent(budgetTotal, totalActual float64) int {
	p := totalActual / math.Max(budgetTotal, 1) * 100
	p = math.Min(math.Max(p, 0), 100)
	return int(math.Round(p))
}

// ConfirmedGuestCount counts guests who confirmed attendance.
func ConfirmedGuestCount(guests []model.Guest) int {
	n := 0
	for _, g := range guests {
		if g.Status == model.GuestConfirmed {
			n++
		}
	}
	return n
}

// SeatedGuestCount counts guests with a non-empty table reference. A
// reference to a removed table still counts here; see TableOccupancy.
func SeatedGuestCount(guests []model.Guest) int {
	n := 0
	for _, g := range guests {
		if g.TableID != "" {
			n++
		}
	}
	return n
}

// SeatingPercent is the rounded share of guests that have a table, or 0
// with no guests.
func SeatingPercent(guests []model.Guest) int {
	if len(guests) == 0 {
		return 0
	}
	return int(math.Round(float64(SeatedGuestCount(guests)) / float64(len(guests)) * 100))
}

// RitualCompletionRatio is completed/total rituals, or 0 with no rituals.
func RitualCompletionRatio(rituals []model.RitualTask) float64 {
	if len(rituals) == 0 {
		return 0
	}
	done := 0
	for _, r := range rituals {
		if r.IsCompleted {
			done++
		}
	}
	return float64(done) / float64(len(rituals))
}

// RitualPercent is RitualCompletionRatio as a rounded percentage.
func RitualPercent(rituals []model.RitualTask) int {
	return int(math.Round(RitualCompletionRatio(rituals) * 100))
}

// TableOccupancy counts guests referencing tableID.
func TableOccupancy(guests []model.Guest, tableID string) int {
	if tableID == "" {
		return 0
	}
	n := 0
	for _, g := range guests {
		if g.TableID == tableID {
			n++
		}
	}
	return n
}

// IsTableFull reports whether the table has reached its capacity. Capacity
// is a soft limit: occupancy may exceed it.
func IsTableFull(guests []model.Guest, t model.Table) bool {
	return TableOccupancy(guests, t.ID) >= t.Capacity
}

// Headcount is the expected number of attendees: non-declined guests plus
// their plus-ones.
func Headcount(guests []model.Guest) int {
	n := 0
	for _, g := range guests {
		if g.Status == model.GuestDeclined {
			continue
		}
		n++
		if g.PlusOne {
			n++
		}
	}
	return n
}

// GuestsBySide counts guests per side.
func GuestsBySide(guests []model.Guest) map[model.Side]int {
	out := make(map[model.Side]int, 3)
	for _, g := range guests {
		out[g.Side]++
	}
	return out
}

// CategorySpend is the budget rolled up for one category.
type CategorySpend struct {
	Category  string
	Estimated float64
	Actual    float64
	Paid      float64
}

// SpendByCategory groups budget items by category, sorted by actual spend
// descending and then by name.
func SpendByCategory(items []model.BudgetItem) []CategorySpend {
	index := make(map[string]int)
	var out []CategorySpend
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategorySpend{Category: it.Category})
		}
		out[i].Estimated += it.Estimated
		out[i].Actual += it.Actual
		if it.IsPaid {
			out[i].Paid += it.Actual
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Actual != out[b].Actual {
			return out[a].Actual > out[b].Actual
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// Summary bundles every dashboard figure for one snapshot.
type Summary struct {
	BudgetTotal     float64
	TotalEstimated  float64
	TotalActual     float64
	TotalPaid       float64
	Remaining       float64
	ProgressPercent int
	OverBudget      bool

	Guests          int
	Confirmed       int
	Seated          int
	SeatingPercent  int
	Headcount       int
	Tables          int
	TableCapacity   int
	RitualsDone     int
	RitualsTotal    int
	RitualRatio     float64
	GalleryImages   int
	MenuItems       int
	ProductionOpen  int
	ProductionTotal int
}

// Summarize computes the Summary of rec.
func Summarize(rec model.WeddingRecord) Summary {
	actual := TotalActual(rec.BudgetItems)
	s := Summary{
		BudgetTotal:     rec.BudgetTotal,
		TotalEstimated:  TotalEstimated(rec.BudgetItems),
		TotalActual:     actual,
		TotalPaid:       TotalPaid(rec.BudgetItems),
		Remaining:       rec.BudgetTotal - actual,
		ProgressPercent: ProgressPercent(rec.BudgetTotal, actual),
		OverBudget:      actual > rec.BudgetTotal,

		Guests:          len(rec.Guests),
		Confirmed:       ConfirmedGuestCount(rec.Guests),
		Seated:          SeatedGuestCount(rec.Guests),
		SeatingPercent:  SeatingPercent(rec.Guests),
		Headcount:       Headcount(rec.Guests),
		Tables:          len(rec.Tables),
		RitualsTotal:    len(rec.Rituals),
		RitualRatio:     RitualCompletionRatio(rec.Rituals),
		GalleryImages:   len(rec.Gallery),
		MenuItems:       len(rec.Catering),
		ProductionTotal: len(rec.Production.Tasks),
	}
	for _, t := range rec.Tables {
		s.TableCapacity += t.Capacity
	}
	for _, r := range rec.Rituals {
		if r.IsCompleted {
			s.RitualsDone++
		}
	}
	for _, t := range rec.Production.Tasks {
		if t.Status != model.ProductionDone {
			s.ProductionOpen++
		}
	}
	return s
}
