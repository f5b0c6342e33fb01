// Package wedding holds the single wedding record of a session and persists
// it on every change.
package wedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/store"
)

// corruptSuffix is appended to the storage key when an unreadable blob is
// set aside during Load.
const corruptSuffix = ".corrupt"

// Listener is called with a snapshot of the record after every change.
type Listener func(model.WeddingRecord)

// Store owns the wedding record. All writes go through Update, Modify or
// Clear, which merge under a lock, persist the full record and notify
// subscribers. Readers get clones and can never write the record directly.
type Store struct {
	blobs  store.BlobStore
	key    string
	logger zerolog.Logger

	mu         sync.Mutex
	record     model.WeddingRecord
	persistErr error
	seq        uint64

	// notifyMu orders deliveries; notified is the seq last delivered.
	notifyMu sync.Mutex
	notified uint64

	subMu     sync.Mutex
	nextSubID int
	listeners map[int]Listener
}

// NewStore creates a record store persisting under key in blobs. The store
// starts with the default record; call Load to read persisted state.
func NewStore(blobs store.BlobStore, key string, logger zerolog.Logger) *Store {
	if key == "" {
		key = model.DefaultStorageKey
	}
	return &Store{
		blobs:     blobs,
		key:       key,
		logger:    logger.With().Str("component", "wedding_store").Str("key", key).Logger(),
		record:    model.DefaultRecord(),
		listeners: make(map[int]Listener),
	}
}

// Load reads the persisted record, replacing the in-memory one. A missing
// blob yields the default record. A blob that cannot be parsed is copied
// aside under "<key>.corrupt" and replaced by defaults; if that copy cannot
// be written the blob is left untouched and PersistErr reports why. Older
// blobs missing newer fields are backfilled. The loaded record is written
// back so the stored blob is normalized.
func (s *Store) Load(ctx context.Context) (model.WeddingRecord, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return model.WeddingRecord{}, err
	}

	rec := model.DefaultRecord()
	var backupErr error
	if err == nil {
		decoded, decErr := Decode(data)
		if decErr != nil {
			s.logger.Warn().Err(decErr).Int("bytes", len(data)).
				Msg("persisted record is unreadable, starting from defaults")
			if backupErr = s.blobs.Put(ctx, s.key+corruptSuffix, data); backupErr != nil {
				s.logger.Error().Err(backupErr).Msg("saving copy of unreadable record, leaving it in place")
			}
		} else {
			rec = decoded
		}
	}

	out, seq := s.commit(func() {
		s.record = rec
		if backupErr != nil {
			s.persistErr = fmt.Errorf("unreadable record left in place, backup failed: %w", backupErr)
			return
		}
		s.persistLocked(ctx)
	})
	s.notify(seq, out)
	return out, nil
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() model.WeddingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Update shallow-merges p into the record, persists the result and returns
// it. A failed write is logged and reported by PersistErr; the in-memory
// record is updated regardless.
func (s *Store) Update(ctx context.Context, p Patch) model.WeddingRecord {
	return s.Modify(ctx, func(model.WeddingRecord) Patch { return p })
}

// Modify computes a patch from the latest record and applies it atomically.
// Concurrent callers are serialized, so fn always sees every earlier change.
// fn must not call back into the store.
func (s *Store) Modify(ctx context.Context, fn func(model.WeddingRecord) Patch) model.WeddingRecord {
	changed := false
	out, seq := s.commit(func() {
		p := fn(s.record.Clone())
		if p.IsEmpty() {
			return
		}
		s.record = Apply(s.record, p)
		s.persistLocked(ctx)
		changed = true
	})
	if changed {
		s.notify(seq, out)
	}
	return out
}

// Clear deletes the persisted blob and resets the record to defaults.
func (s *Store) Clear(ctx context.Context) (model.WeddingRecord, error) {
	var err error
	out, seq := s.commit(func() {
		if err = s.blobs.Delete(ctx, s.key); err != nil {
			return
		}
		s.record = model.DefaultRecord()
		s.persistErr = nil
	})
	if err != nil {
		return model.WeddingRecord{}, err
	}

	s.logger.Info().Msg("wedding record cleared")
	s.notify(seq, out)
	return out, nil
}

// commit runs change under s.mu and returns the resulting record with a
// sequence number that increases with every commit. The lock is released
// even if change panics.
func (s *Store) commit(change func()) (model.WeddingRecord, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change()
	s.seq++
	return s.record.Clone(), s.seq
}

// PersistErr returns the error of the most recent failed write, or nil once
// a later write has succeeded. While it is non-nil the store is running
// from memory only.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Subscribe registers fn to receive the record after every change. A
// snapshot superseded while an earlier delivery was running is skipped, and
// an older snapshot never follows a newer one. fn may read the store but
// must not write to it. The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

// persistLocked writes the current record. s.mu must be held so writes land
// in merge order.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := Encode(s.record)
	if err == nil {
		err = s.blobs.Put(ctx, s.key, data)
	}
	if err != nil {
		if s.persistErr == nil {
			s.logger.Error().Err(err).Msg("persisting wedding record failed, continuing in memory")
		} else {
			s.logger.Debug().Err(err).Msg("persisting wedding record still failing")
		}
		s.persistErr = err
		return
	}
	if s.persistErr != nil {
		s.logger.Info().Msg("persisting wedding record recovered")
	}
	s.persistErr = nil
}

// notify delivers rec, committed as seq, to every listener. Deliveries are
// serialized and a record older than one already delivered is dropped, so
// listeners always end on the latest record.
func (s *Store) notify(seq uint64, rec model.WeddingRecord) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.notified {
		return
	}
	s.notified = seq

	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(rec.Clone())
	}
}
