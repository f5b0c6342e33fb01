// Package testutil provides stores and fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/store"
	"github.com/nhle/sarnrak/internal/wedding"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewWeddingStore returns a loaded record store over a fresh in-memory
// SQLite blob store.
func NewWeddingStore(t *testing.T) *wedding.Store {
	t.Helper()

	ws := wedding.NewStore(NewTestStore(t), model.DefaultStorageKey, zerolog.Nop())
	if _, err := ws.Load(context.Background()); err != nil {
		t.Fatalf("loading wedding store: %v", err)
	}
	return ws
}

// NewSeededStore returns a loaded record store holding rec.
func NewSeededStore(t *testing.T, rec model.WeddingRecord) *wedding.Store {
	t.Helper()

	ws := NewWeddingStore(t)
	ws.Update(context.Background(), wedding.Replace(rec))
	if err := ws.PersistErr(); err != nil {
		t.Fatalf("seeding wedding store: %v", err)
	}
	return ws
}

// SampleRecord returns the default record with two tables, three guests
// and a paid budget item. Guest g1 is confirmed and seated at t1, g2 is
// confirmed without a seat and g3 is pending.
func SampleRecord() model.WeddingRecord {
	rec := model.DefaultRecord()
	rec.Tables = []model.Table{
		{ID: "t1", Name: "Family", Capacity: 8},
		{ID: "t2", Name: "Friends", Capacity: 10},
	}
	rec.Guests = []model.Guest{
		{ID: "g1", Name: "Somchai", Side: model.SideGroom, Status: model.GuestConfirmed, TableID: "t1"},
		{ID: "g2", Name: "Malee", Side: model.SideBride, Status: model.GuestConfirmed, PlusOne: true},
		{ID: "g3", Name: "Anan", Side: model.SideBride, Status: model.GuestPending},
	}
	rec.BudgetItems = []model.BudgetItem{
		{ID: "b1", Category: model.BudgetCategories[0], Item: "Hall", Estimated: 150000, Actual: 140000, IsPaid: true},
	}
	return rec
}
