package wedding

import "github.com/nhle/sarnrak/internal/model"

// Patch is a partial record. Each non-nil field replaces the corresponding
// top-level field of the record wholesale; nil fields are left untouched.
// Sequences are never merged element by element: to add a guest, supply the
// entire new guest list.
type Patch struct {
	CoupleNames *model.CoupleNames
	Date        *string
	BudgetTotal *float64
	Guests      *[]model.Guest
	BudgetItems *[]model.BudgetItem
	Rituals     *[]model.RitualTask
	Gallery     *[]model.GalleryImage
	Theme       *model.Theme
	Tables      *[]model.Table
	Catering    *[]model.MenuItem
	Production  *model.Production
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Merge returns a patch equivalent to applying p and then next. Fields set
// in next win.
func (p Patch) Merge(next Patch) Patch {
	out := p
	if next.CoupleNames != nil {
		out.CoupleNames = next.CoupleNames
	}
	if next.Date != nil {
		out.Date = next.Date
	}
	if next.BudgetTotal != nil {
		out.BudgetTotal = next.BudgetTotal
	}
	if next.Guests != nil {
		out.Guests = next.Guests
	}
	if next.BudgetItems != nil {
		out.BudgetItems = next.BudgetItems
	}
	if next.Rituals != nil {
		out.Rituals = next.Rituals
	}
	if next.Gallery != nil {
		out.Gallery = next.Gallery
	}
	if next.Theme != nil {
		out.Theme = next.Theme
	}
	if next.Tables != nil {
		out.Tables = next.Tables
	}
	if next.Catering != nil {
		out.Catering = next.Catering
	}
	if next.Production != nil {
		out.Production = next.Production
	}
	return out
}

// Apply shallow-merges p onto rec and returns the result. rec is not
// modified and the result shares no sequence storage with p or rec.
func Apply(rec model.WeddingRecord, p Patch) model.WeddingRecord {
	out := rec
	if p.CoupleNames != nil {
		out.CoupleNames = *p.CoupleNames
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.BudgetTotal != nil {
		out.BudgetTotal = *p.BudgetTotal
	}
	if p.Guests != nil {
		out.Guests = *p.Guests
	}
	if p.BudgetItems != nil {
		out.BudgetItems = *p.BudgetItems
	}
	if p.Rituals != nil {
		out.Rituals = *p.Rituals
	}
	if p.Gallery != nil {
		out.Gallery = *p.Gallery
	}
	if p.Theme != nil {
		out.Theme = *p.Theme
	}
	if p.Tables != nil {
		out.Tables = *p.Tables
	}
	if p.Catering != nil {
		out.Catering = *p.Catering
	}
	if p.Production != nil {
		out.Production = *p.Production
	}
	return out.Clone()
}

// Replace returns a patch that sets every field of rec.
func Replace(rec model.WeddingRecord) Patch {
	rec = rec.Clone()
	return Patch{
		CoupleNames: &rec.CoupleNames,
		Date:        &rec.Date,
		BudgetTotal: &rec.BudgetTotal,
		Guests:      &rec.Guests,
		BudgetItems: &rec.BudgetItems,
		Rituals:     &rec.Rituals,
		Gallery:     &rec.Gallery,
		Theme:       &rec.Theme,
		Tables:      &rec.Tables,
		Catering:    &rec.Catering,
		Production:  &rec.Production,
	}
}
