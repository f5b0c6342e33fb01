package wedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/store"
)

// flakyBlobs wraps a MemoryStore and fails writes while failPut is set.
type flakyBlobs struct {
	*store.MemoryStore
	mu      sync.Mutex
	failPut bool
	puts    int
}

func (f *flakyBlobs) Put(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPut {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.Put(ctx, key, data)
}

func (f *flakyBlobs) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut = v
}

func newTestStore(t *testing.T, blobs store.BlobStore) *Store {
	t.Helper()
	s := NewStore(blobs, "", zerolog.Nop())
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func TestLoadWithoutBlobReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	s := NewStore(blobs, "", zerolog.Nop())

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(model.DefaultRecord(), rec); diff != "" {
		t.Fatalf("unexpected default record (-want +got):\n%s", diff)
	}

	_, err = blobs.Get(ctx, model.DefaultStorageKey)
	require.NoError(t, err, "load writes the normalized record back")
}

func TestUpdatePersistsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	s := newTestStore(t, blobs)

	want := model.DefaultRecord()
	want.Date = "2026-12-12"
	want.Guests = []model.Guest{{ID: "g1", Name: "Somchai", Side: model.SideGroom, Status: model.GuestPending, TableID: "t1"}}
	want.Tables = []model.Table{{ID: "t1", Name: "VIP 1", Capacity: 10}}
	want.BudgetItems = []model.BudgetItem{{ID: "b1", Category: model.BudgetCategories[0], Item: "Hall", Estimated: 100000, Actual: 120000, IsPaid: true}}
	want.Gallery = []model.GalleryImage{{ID: "i1", URL: "data:image/png;base64,AA==", Type: model.ImageEngagement, CreatedAt: 1700000000000}}
	want.Production.Tasks = []model.ProductionTask{{ID: "p1", Item: "Opening film", Status: model.ProductionInProgress}}

	got := s.Update(ctx, Replace(want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("update result (-want +got):\n%s", diff)
	}

	reloaded, err := NewStore(blobs, "", zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, reloaded); diff != "" {
		t.Fatalf("round trip lost data (-want +got):\n%s", diff)
	}
}

func TestUpdateSequenceEqualsLeftToRightMerge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, store.NewMemoryStore())

	initial := s.Snapshot()
	var patches []Patch
	for i := 0; i < 5; i++ {
		guests := make([]model.Guest, i+1)
		for j := range guests {
			guests[j] = model.Guest{ID: fmt.Sprintf("g%d", j), Name: fmt.Sprintf("Guest %d", j)}
		}
		total := float64(1000 * i)
		patches = append(patches, Patch{Guests: &guests}, Patch{BudgetTotal: &total})
	}

	want := initial
	for _, p := range patches {
		want = Apply(want, p)
		s.Update(ctx, p)
	}

	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Fatalf("store disagrees with merge fold (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t, store.NewMemoryStore())

	snap := s.Snapshot()
	snap.Rituals[0].IsCompleted = true
	snap.BudgetTotal = 1

	again := s.Snapshot()
	assert.False(t, again.Rituals[0].IsCompleted)
	assert.Equal(t, float64(model.DefaultBudgetTotal), again.BudgetTotal)
}

func TestLoadCorruptBlobFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.DefaultStorageKey, []byte(`{"guests": [`)))

	rec, err := NewStore(blobs, "", zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(model.DefaultRecord(), rec); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}

	saved, err := blobs.Get(ctx, model.DefaultStorageKey+".corrupt")
	require.NoError(t, err)
	assert.Equal(t, `{"guests": [`, string(saved))
}

func TestLoadCorruptBlobKeptWhenBackupFails(t *testing.T) {
	ctx := context.Background()
	blobs := &flakyBlobs{MemoryStore: store.NewMemoryStore()}
	require.NoError(t, blobs.MemoryStore.Put(ctx, model.DefaultStorageKey, []byte(`{"guests": [`)))
	blobs.setFail(true)

	s := NewStore(blobs, "", zerolog.Nop())
	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(model.DefaultBudgetTotal), rec.BudgetTotal)
	assert.ErrorContains(t, s.PersistErr(), "backup failed")

	original, err := blobs.Get(ctx, model.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"guests": [`, string(original))
	assert.Equal(t, 1, blobs.puts, "only the backup write is attempted")
}

func TestLoadPropagatesStorageErrors(t *testing.T) {
	s := NewStore(failingGet{store.NewMemoryStore()}, "", zerolog.Nop())
	_, err := s.Load(context.Background())
	require.Error(t, err)
}

type failingGet struct{ *store.MemoryStore }

func (failingGet) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	blobs := &flakyBlobs{MemoryStore: store.NewMemoryStore()}
	s := newTestStore(t, blobs)
	require.NoError(t, s.PersistErr())

	blobs.setFail(true)
	total := 42.0
	rec := s.Update(ctx, Patch{BudgetTotal: &total})

	assert.Equal(t, 42.0, rec.BudgetTotal)
	assert.Equal(t, 42.0, s.Snapshot().BudgetTotal)
	require.Error(t, s.PersistErr())

	blobs.setFail(false)
	total = 43
	s.Update(ctx, Patch{BudgetTotal: &total})
	require.NoError(t, s.PersistErr())

	reloaded, err := NewStore(blobs, "", zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 43.0, reloaded.BudgetTotal)
}

func TestEmptyPatchDoesNotWrite(t *testing.T) {
	blobs := &flakyBlobs{MemoryStore: store.NewMemoryStore()}
	s := newTestStore(t, blobs)

	before := blobs.puts
	s.Update(context.Background(), Patch{})
	assert.Equal(t, before, blobs.puts)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, store.NewMemoryStore())

	var got []float64
	unsubscribe := s.Subscribe(func(rec model.WeddingRecord) {
		got = append(got, rec.BudgetTotal)
	})

	one, two := 1.0, 2.0
	s.Update(ctx, Patch{BudgetTotal: &one})
	s.Update(ctx, Patch{BudgetTotal: &two})
	unsubscribe()
	s.Update(ctx, Patch{BudgetTotal: &one})

	assert.Equal(t, []float64{1, 2}, got)
}

func TestSubscriberEndsOnLatestRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, store.NewMemoryStore())

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu  sync.Mutex
		got []float64
	)
	s.Subscribe(func(rec model.WeddingRecord) {
		if rec.BudgetTotal == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		got = append(got, rec.BudgetTotal)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	one, two := 1.0, 2.0
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Update(ctx, Patch{BudgetTotal: &one})
	}()
	<-entered
	go func() {
		defer wg.Done()
		s.Update(ctx, Patch{BudgetTotal: &two})
	}()
	require.Eventually(t, func() bool { return s.Snapshot().BudgetTotal == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 2.0, s.Snapshot().BudgetTotal)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestNotifyDropsOlderRecords(t *testing.T) {
	s := newTestStore(t, store.NewMemoryStore())

	var got []float64
	s.Subscribe(func(rec model.WeddingRecord) { got = append(got, rec.BudgetTotal) })

	newer, older := model.DefaultRecord(), model.DefaultRecord()
	newer.BudgetTotal, older.BudgetTotal = 2, 1
	s.notify(s.notified+2, newer)
	s.notify(s.notified-1, older)

	assert.Equal(t, []float64{2}, got)
}

func TestModifyPanicReleasesStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, store.NewMemoryStore())

	assert.Panics(t, func() {
		s.Modify(ctx, func(model.WeddingRecord) Patch { panic("bad builder") })
	})

	done := make(chan model.WeddingRecord, 1)
	go func() {
		total := 7.0
		done <- s.Update(ctx, Patch{BudgetTotal: &total})
	}()
	select {
	case rec := <-done:
		assert.Equal(t, 7.0, rec.BudgetTotal)
	case <-time.After(time.Second):
		t.Fatal("store still locked after a panicking Modify")
	}
}

func TestModifySerializesConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, store.NewMemoryStore())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Modify(ctx, func(rec model.WeddingRecord) Patch {
				gallery := append(rec.Gallery, model.GalleryImage{ID: fmt.Sprintf("img%d", i)})
				return Patch{Gallery: &gallery}
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Gallery, n)
}

func TestClearResetsAndDeletesBlob(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	s := newTestStore(t, blobs)

	total := 1.0
	s.Update(ctx, Patch{BudgetTotal: &total})

	rec, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(model.DefaultBudgetTotal), rec.BudgetTotal)

	_, err = blobs.Get(ctx, model.DefaultStorageKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}
