package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/model"
)

func TestBudgetFigures(t *testing.T) {
	rec := model.DefaultRecord()
	rec.BudgetItems = []model.BudgetItem{
		{ID: "a", Category: "Venue", Item: "Hall", Estimated: 100000, Actual: 120000, IsPaid: true},
	}

	assert.Equal(t, 120000.0, TotalPaid(rec.BudgetItems))
	assert.Equal(t, 120000.0, TotalActual(rec.BudgetItems))
	assert.Equal(t, 100000.0, TotalEstimated(rec.BudgetItems))
	assert.Equal(t, 380000.0, Remaining(rec))
	assert.Equal(t, 24, ProgressPercent(rec.BudgetTotal, TotalActual(rec.BudgetItems)))
}

func TestRemainingWithoutItems(t *testing.T) {
	rec := model.DefaultRecord()
	assert.Equal(t, rec.BudgetTotal, Remaining(rec))
	assert.Equal(t, 0, ProgressPercent(rec.BudgetTotal, 0))
}

func TestTotalPaidIgnoresUnpaid(t *testing.T) {
	items := []model.BudgetItem{
		{Actual: 1000, IsPaid: true},
		{Actual: 2500},
	}
	assert.Equal(t, 1000.0, TotalPaid(items))
	assert.Equal(t, 3500.0, TotalActual(items))
}

func TestProgressPercentBounds(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
		actual float64
		want   int
	}{
		{"half", 1000, 500, 50},
		{"over budget clamps", 1000, 5000, 100},
		{"zero budget with spend", 0, 10, 100},
		{"zero budget no spend", 0, 0, 0},
		{"negative spend clamps", 1000, -50, 0},
		{"rounds", 3, 1, 33},
		{"rounds up", 3, 2, 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressPercent(tt.budget, tt.actual)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestRitualCompletion(t *testing.T) {
	rituals := model.InitialRituals()
	require.Len(t, rituals, 8)
	assert.Equal(t, 0.0, RitualCompletionRatio(rituals))

	rituals[0].IsCompleted = true
	rituals[5].IsCompleted = true
	assert.Equal(t, 0.25, RitualCompletionRatio(rituals))
	assert.Equal(t, 25, RitualPercent(rituals))

	assert.Equal(t, 0.0, RitualCompletionRatio(nil))
}

func TestGuestCounts(t *testing.T) {
	guests := []model.Guest{
		{ID: "1", Status: model.GuestConfirmed, TableID: "t1", Side: model.SideGroom},
		{ID: "2", Status: model.GuestConfirmed, PlusOne: true, Side: model.SideBride},
		{ID: "3", Status: model.GuestDeclined, PlusOne: true, TableID: "gone", Side: model.SideBride},
		{ID: "4", Status: model.GuestPending, Side: model.SideMutual},
	}

	assert.Equal(t, 2, ConfirmedGuestCount(guests))
	assert.Equal(t, 2, SeatedGuestCount(guests))
	assert.Equal(t, 50, SeatingPercent(guests))
	assert.Equal(t, 4, Headcount(guests))
	assert.Equal(t, map[model.Side]int{model.SideGroom: 1, model.SideBride: 2, model.SideMutual: 1}, GuestsBySide(guests))

	assert.Equal(t, 0, SeatingPercent(nil))
}

func TestTableOccupancy(t *testing.T) {
	table := model.Table{ID: "t1", Name: "Family", Capacity: 2}
	guests := []model.Guest{{TableID: "t1"}, {TableID: "t2"}, {}}

	assert.Equal(t, 1, TableOccupancy(guests, "t1"))
	assert.Equal(t, 0, TableOccupancy(guests, ""))
	assert.False(t, IsTableFull(guests, table))

	guests = append(guests, model.Guest{TableID: "t1"}, model.Guest{TableID: "t1"})
	assert.Equal(t, 3, TableOccupancy(guests, "t1"))
	assert.True(t, IsTableFull(guests, table))
}

func TestSpendByCategory(t *testing.T) {
	items := []model.BudgetItem{
		{Category: "Venue", Estimated: 100, Actual: 90, IsPaid: true},
		{Category: "Attire", Estimated: 50, Actual: 60},
		{Category: "Venue", Estimated: 20, Actual: 30},
		{Category: "Decor", Estimated: 40, Actual: 60, IsPaid: true},
	}

	got := SpendByCategory(items)
	assert.Equal(t, []CategorySpend{
		{Category: "Venue", Estimated: 120, Actual: 120, Paid: 90},
		{Category: "Attire", Estimated: 50, Actual: 60},
		{Category: "Decor", Estimated: 40, Actual: 60, Paid: 60},
	}, got)

	assert.Empty(t, SpendByCategory(nil))
}

func TestSummarize(t *testing.T) {
	rec := model.DefaultRecord()
	rec.BudgetTotal = 1000
	rec.BudgetItems = []model.BudgetItem{{Actual: 1200, IsPaid: true}}
	rec.Guests = []model.Guest{{Status: model.GuestConfirmed, TableID: "t1"}, {Status: model.GuestPending}}
	rec.Tables = []model.Table{{ID: "t1", Capacity: 8}, {ID: "t2", Capacity: 10}}
	rec.Rituals[0].IsCompleted = true
	rec.Production.Tasks = []model.ProductionTask{
		{ID: "p1", Status: model.ProductionDone},
		{ID: "p2", Status: model.ProductionInProgress},
	}

	s := Summarize(rec)
	assert.Equal(t, -200.0, s.Remaining)
	assert.True(t, s.OverBudget)
	assert.Equal(t, 100, s.ProgressPercent)
	assert.Equal(t, 2, s.Guests)
	assert.Equal(t, 1, s.Confirmed)
	assert.Equal(t, 1, s.Seated)
	assert.Equal(t, 50, s.SeatingPercent)
	assert.Equal(t, 18, s.TableCapacity)
	assert.Equal(t, 1, s.RitualsDone)
	assert.Equal(t, 8, s.RitualsTotal)
	assert.Equal(t, 1, s.ProductionOpen)
	assert.Equal(t, 2, s.ProductionTotal)
}
