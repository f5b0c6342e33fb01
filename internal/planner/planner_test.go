package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/metrics"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/wedding"
)

// apply folds a patch into rec, failing the test on error.
func apply(t *testing.T, rec model.WeddingRecord, p wedding.Patch, err error) model.WeddingRecord {
	t.Helper()
	require.NoError(t, err)
	return wedding.Apply(rec, p)
}

func TestSeatingScenario(t *testing.T) {
	rec := model.DefaultRecord()

	p, table, err := AddTable(rec, "Family", 10)
	rec = apply(t, rec, p, err)

	p, guest, err := AddGuest(rec, "Somchai", model.SideGroom, false)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.GuestPending, guest.Status)
	assert.Len(t, guest.ID, 9)

	before := metrics.SeatedGuestCount(rec.Guests)
	p, err = AssignTable(rec, guest.ID, table.ID)
	rec = apply(t, rec, p, err)
	assert.Equal(t, before+1, metrics.SeatedGuestCount(rec.Guests))
	assert.Equal(t, "Family", model.TableName(rec.Tables, rec.Guests[0]))

	p, err = RemoveTable(rec, table.ID)
	rec = apply(t, rec, p, err)
	assert.Empty(t, rec.Tables)
	assert.Equal(t, table.ID, rec.Guests[0].TableID)
	assert.Equal(t, "-", model.TableName(rec.Tables, rec.Guests[0]))
}

func TestAssignUnknownTable(t *testing.T) {
	rec := model.DefaultRecord()
	p, g, err := AddGuest(rec, "Nok", model.SideBride, true)
	rec = apply(t, rec, p, err)

	_, err = AssignTable(rec, g.ID, "missing")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestUnassignTable(t *testing.T) {
	rec := model.DefaultRecord()
	p, table, err := AddTable(rec, "A", 4)
	rec = apply(t, rec, p, err)
	p, g, err := AddGuest(rec, "Nok", model.SideBride, false)
	rec = apply(t, rec, p, err)
	p, err = AssignTable(rec, g.ID, table.ID)
	rec = apply(t, rec, p, err)

	p, err = UnassignTable(rec, g.ID)
	rec = apply(t, rec, p, err)
	assert.Equal(t, "", rec.Guests[0].TableID)
	assert.Equal(t, 0, metrics.SeatedGuestCount(rec.Guests))
}

func TestGuestStatusToggles(t *testing.T) {
	rec := model.DefaultRecord()
	p, g, err := AddGuest(rec, "Mali", "", false)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.SideMutual, rec.Guests[0].Side)

	p, err = ToggleGuestConfirmed(rec, g.ID)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.GuestConfirmed, rec.Guests[0].Status)

	p, err = ToggleGuestConfirmed(rec, g.ID)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.GuestPending, rec.Guests[0].Status)

	p, err = SetGuestStatus(rec, g.ID, model.GuestDeclined)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.GuestDeclined, rec.Guests[0].Status)

	p, err = ToggleGuestConfirmed(rec, g.ID)
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.GuestConfirmed, rec.Guests[0].Status)

	p, err = TogglePlusOne(rec, g.ID)
	rec = apply(t, rec, p, err)
	assert.True(t, rec.Guests[0].PlusOne)

	p, err = SetDietaryNeeds(rec, g.ID, "  vegetarian ")
	rec = apply(t, rec, p, err)
	assert.Equal(t, "vegetarian", rec.Guests[0].DietaryNeeds)
}

func TestUnseatedConfirmedGuests(t *testing.T) {
	rec := model.DefaultRecord()
	rec.Tables = []model.Table{{ID: "t1", Name: "A", Capacity: 4}}
	rec.Guests = []model.Guest{
		{ID: "1", Status: model.GuestConfirmed, TableID: "t1"},
		{ID: "2", Status: model.GuestConfirmed},
		{ID: "3", Status: model.GuestPending},
		{ID: "4", Status: model.GuestConfirmed, TableID: "removed"},
	}

	got := UnseatedConfirmedGuests(rec)
	ids := make([]string, 0, len(got))
	for _, g := range got {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"2", "4"}, ids)
	assert.Len(t, GuestsAtTable(rec, "t1"), 1)
	assert.Empty(t, GuestsAtTable(rec, ""))
}

func TestUnknownIDs(t *testing.T) {
	rec := model.DefaultRecord()

	_, err := RemoveGuest(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ToggleRitual(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = RemoveBudgetItem(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = RemoveGalleryImage(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = AdvanceProductionTask(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = RemoveTable(rec, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidation(t *testing.T) {
	rec := model.DefaultRecord()

	_, _, err := AddTable(rec, "A", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, _, err = AddTable(rec, "  ", 4)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, _, err = AddGuest(rec, "", model.SideGroom, false)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = SetBudgetTotal(-1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, _, err = AddBudgetItem(rec, "Venue", "Hall", -5, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = SetProjectors(rec, -2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNonFiniteAmountsRejected(t *testing.T) {
	rec := model.DefaultRecord()
	p, item, err := AddBudgetItem(rec, "Venue", "Hall", 1000, 0)
	rec = apply(t, rec, p, err)
	id := item.ID

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := SetBudgetTotal(v)
		assert.ErrorIs(t, err, ErrInvalidAmount, "total %v", v)
		_, _, err = AddBudgetItem(rec, "Venue", "Hall", v, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount, "estimated %v", v)
		_, _, err = AddBudgetItem(rec, "Venue", "Hall", 0, v)
		assert.ErrorIs(t, err, ErrInvalidAmount, "actual %v", v)
		_, err = SetBudgetActual(rec, id, v)
		assert.ErrorIs(t, err, ErrInvalidAmount, "set actual %v", v)
	}
}

func TestToggleRitualTwiceRestores(t *testing.T) {
	rec := model.DefaultRecord()
	id := rec.Rituals[2].ID
	orig := rec.Rituals[2].IsCompleted

	p, err := ToggleRitual(rec, id)
	rec = apply(t, rec, p, err)
	assert.Equal(t, !orig, rec.Rituals[2].IsCompleted)

	p, err = ToggleRitual(rec, id)
	rec = apply(t, rec, p, err)
	assert.Equal(t, orig, rec.Rituals[2].IsCompleted)
}

func TestSortedRituals(t *testing.T) {
	rec := model.DefaultRecord()
	rec.Rituals[0], rec.Rituals[7] = rec.Rituals[7], rec.Rituals[0]

	sorted := SortedRituals(rec)
	for i := 1; i < len(sorted); i++ {
		assert.Less(t, sorted[i-1].Order, sorted[i].Order)
	}
	assert.NotEqual(t, sorted[0].ID, rec.Rituals[0].ID)
}

func TestBudgetItems(t *testing.T) {
	rec := model.DefaultRecord()
	var ids []string
	for _, name := range []string{"Hall", "Dress", "Flowers"} {
		p, item, err := AddBudgetItem(rec, "", name, 1000, 0)
		rec = apply(t, rec, p, err)
		ids = append(ids, item.ID)
	}
	assert.Equal(t, model.BudgetCategories[len(model.BudgetCategories)-1], rec.BudgetItems[0].Category)

	p, err := RemoveBudgetItem(rec, ids[1])
	rec = apply(t, rec, p, err)
	require.Len(t, rec.BudgetItems, 2)
	assert.Equal(t, "Hall", rec.BudgetItems[0].Item)
	assert.Equal(t, "Flowers", rec.BudgetItems[1].Item)

	p, err = ToggleBudgetPaid(rec, ids[2])
	rec = apply(t, rec, p, err)
	assert.True(t, rec.BudgetItems[1].IsPaid)

	p, err = SetBudgetActual(rec, ids[2], 1500)
	rec = apply(t, rec, p, err)
	assert.Equal(t, 1500.0, metrics.TotalPaid(rec.BudgetItems))

	p, err = SetBudgetTotal(0)
	rec = apply(t, rec, p, err)
	assert.Equal(t, 0.0, rec.BudgetTotal)
}

func TestGalleryAndCatering(t *testing.T) {
	rec := model.DefaultRecord()
	p, img := AddGalleryImage(rec, "https://example.com/a.png", model.ImageInspiration, "")
	rec = wedding.Apply(rec, p)
	assert.NotZero(t, img.CreatedAt)
	require.Len(t, rec.Gallery, 1)

	p, err := RemoveGalleryImage(rec, img.ID)
	rec = apply(t, rec, p, err)
	assert.Empty(t, rec.Gallery)

	p, _, err = AddMenuItem(rec, "Tom Yum", model.MenuAppetizer, "")
	rec = apply(t, rec, p, err)
	p, soup, err := AddMenuItem(rec, "Green curry", "", "mild")
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.MenuMain, soup.Category)

	byCat := MenuByCategory(rec)
	assert.Len(t, byCat[model.MenuAppetizer], 1)
	assert.Len(t, byCat[model.MenuMain], 1)
	assert.Empty(t, byCat[model.MenuDessert])

	p, err = RemoveMenuItem(rec, soup.ID)
	rec = apply(t, rec, p, err)
	assert.Len(t, rec.Catering, 1)
}

func TestProductionCycle(t *testing.T) {
	rec := model.DefaultRecord()
	p, task, err := AddProductionTask(rec, "Pre-wedding video")
	rec = apply(t, rec, p, err)
	assert.Equal(t, model.DefaultProjectors, rec.Production.Projectors)

	want := []model.ProductionStatus{model.ProductionInProgress, model.ProductionDone, model.ProductionPending}
	for _, status := range want {
		p, err = AdvanceProductionTask(rec, task.ID)
		rec = apply(t, rec, p, err)
		assert.Equal(t, status, rec.Production.Tasks[0].Status)
	}

	rec = wedding.Apply(rec, SetVideoTeam(rec, "Lens Studio"))
	p, err = SetProjectors(rec, 3)
	rec = apply(t, rec, p, err)
	assert.Equal(t, "Lens Studio", rec.Production.VideoTeam)
	assert.Equal(t, 3, rec.Production.Projectors)
	assert.Len(t, rec.Production.Tasks, 1)

	p, err = RemoveProductionTask(rec, task.ID)
	rec = apply(t, rec, p, err)
	assert.Empty(t, rec.Production.Tasks)
}

func TestPatchesDoNotModifyInput(t *testing.T) {
	rec := model.DefaultRecord()
	snapshot := rec.Clone()

	_, _, _ = AddGuest(rec, "Somchai", model.SideGroom, false)
	_, _ = ToggleRitual(rec, rec.Rituals[0].ID)
	_, _, _ = AddProductionTask(rec, "Lights")

	assert.Equal(t, snapshot, rec)
}

func TestCoupleThemeAndDate(t *testing.T) {
	rec := model.DefaultRecord()
	rec = wedding.Apply(rec, SetCoupleNames(" Ploy ", "Tee"))
	rec = wedding.Apply(rec, SetDate("2027-02-14"))
	theme := model.Theme{Name: "Garden", PrimaryColor: "#88aa55", SecondaryColor: "#fff", BackdropNotes: "jasmine"}
	rec = wedding.Apply(rec, SetTheme(theme))

	assert.Equal(t, model.CoupleNames{Bride: "Ploy", Groom: "Tee"}, rec.CoupleNames)
	assert.Equal(t, "2027-02-14", rec.Date)
	assert.Equal(t, theme, rec.Theme)
}
