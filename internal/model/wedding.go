package model

import "time"

// Side identifies which family a guest belongs to.
type Side string

const (
	SideGroom  Side = "Groom"
	SideBride  Side = "Bride"
	SideMutual Side = "Mutual"
)

// GuestStatus is the RSVP state of a guest.
type GuestStatus string

const (
	GuestPending   GuestStatus = "Pending"
	GuestConfirmed GuestStatus = "Confirmed"
	GuestDeclined  GuestStatus = "Declined"
)

// ImageType distinguishes uploaded photos from generated mood-board images.
type ImageType string

const (
	ImageEngagement  ImageType = "Engagement"
	ImageInspiration ImageType = "Inspiration"
)

// MenuCategory groups catering items.
type MenuCategory string

const (
	MenuAppetizer MenuCategory = "Appetizer"
	MenuMain      MenuCategory = "Main"
	MenuDessert   MenuCategory = "Dessert"
	MenuDrink     MenuCategory = "Drink"
)

// MenuCategories lists catering categories in display order.
var MenuCategories = []MenuCategory{MenuAppetizer, MenuMain, MenuDessert, MenuDrink}

// ProductionStatus is the progress of a production task.
type ProductionStatus string

const (
	ProductionPending    ProductionStatus = "Pending"
	ProductionInProgress ProductionStatus = "In Progress"
	ProductionDone       ProductionStatus = "Done"
)

// CoupleNames holds the names shown throughout the planner.
type CoupleNames struct {
	Bride string `json:"bride"`
	Groom string `json:"groom"`
}

// Guest is a single invitee.
//
// TableID is a weak reference: it may point at a table that has since been
// removed. Use FindTable to resolve it.
type Guest struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Side         Side        `json:"side"`
	Status       GuestStatus `json:"status"`
	PlusOne      bool        `json:"plusOne"`
	DietaryNeeds string      `json:"dietaryNeeds,omitempty"`
	TableID      string      `json:"tableId,omitempty"`
}

// Table is a reception table. Capacity is a soft limit.
type Table struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// BudgetItem is one line of the wedding budget.
type BudgetItem struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Item      string  `json:"item"`
	Estimated float64 `json:"estimated"`
	Actual    float64 `json:"actual"`
	IsPaid    bool    `json:"isPaid"`
}

// RitualTask is one step of the ceremony checklist. Order is fixed at
// creation and only used for sorting and numbering.
type RitualTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
	Order       int    `json:"order"`
}

// GalleryImage is a photo or generated image. URL is opaque: either a data
// URI or a remote URL.
type GalleryImage struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	Type      ImageType `json:"type"`
	CreatedAt int64     `json:"createdAt"` // Unix milliseconds
}

// Created returns CreatedAt as a time.Time.
func (g GalleryImage) Created() time.Time {
	return time.UnixMilli(g.CreatedAt)
}

// Theme is free-form styling metadata for decor and backdrop ideas.
type Theme struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	BackdropNotes  string `json:"backdropNotes"`
}

// MenuItem is a dish or drink on the catering menu.
type MenuItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category MenuCategory `json:"category"`
	Notes    string       `json:"notes,omitempty"`
}

// ProductionTask is a video/media production to-do.
type ProductionTask struct {
	ID     string           `json:"id"`
	Item   string           `json:"item"`
	Status ProductionStatus `json:"status"`
}

// Production groups the video team settings and their tasks.
type Production struct {
	VideoTeam  string           `json:"videoTeam"`
	Projectors int              `json:"projectors"`
	Tasks      []ProductionTask `json:"tasks"`
}

// WeddingRecord is the aggregate root holding all planning state for a
// session. Its JSON form is the persisted blob.
type WeddingRecord struct {
	CoupleNames CoupleNames    `json:"coupleNames"`
	Date        string         `json:"date,omitempty"`
	BudgetTotal float64        `json:"budgetTotal"`
	Guests      []Guest        `json:"guests"`
	BudgetItems []BudgetItem   `json:"budgetItems"`
	Rituals     []RitualTask   `json:"rituals"`
	Gallery     []GalleryImage `json:"gallery"`
	Theme       Theme          `json:"theme"`
	Tables      []Table        `json:"tables"`
	Catering    []MenuItem     `json:"catering"`
	Production  Production     `json:"production"`
}

// Clone returns a deep copy of the record. Sequences in the copy never share
// backing arrays with r.
func (r WeddingRecord) Clone() WeddingRecord {
	c := r
	c.Guests = cloneSlice(r.Guests)
	c.BudgetItems = cloneSlice(r.BudgetItems)
	c.Rituals = cloneSlice(r.Rituals)
	c.Gallery = cloneSlice(r.Gallery)
	c.Tables = cloneSlice(r.Tables)
	c.Catering = cloneSlice(r.Catering)
	c.Production.Tasks = cloneSlice(r.Production.Tasks)
	c.Normalize()
	return c
}

// Normalize replaces nil sequences with empty ones so the encoded record
// always carries [] rather than null.
func (r *WeddingRecord) Normalize() {
	r.Guests = nonNil(r.Guests)
	r.BudgetItems = nonNil(r.BudgetItems)
	r.Rituals = nonNil(r.Rituals)
	r.Gallery = nonNil(r.Gallery)
	r.Tables = nonNil(r.Tables)
	r.Catering = nonNil(r.Catering)
	r.Production.Tasks = nonNil(r.Production.Tasks)
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
