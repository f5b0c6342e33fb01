// Package sync bridges wedding store changes into the Bubble Tea runtime.
package sync

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/wedding"
)

// SaveState describes whether the latest change reached storage.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveOK
	SaveFailed
)

// SaveStatus is the persistence state shown in the header.
type SaveStatus struct {
	State    SaveState
	LastSave time.Time
	Error    error
}

// RecordMsg is a tea.Msg carrying the record after a change.
type RecordMsg struct {
	Record model.WeddingRecord
	Status SaveStatus
}

// Feed subscribes to a record store and hands every change to the UI.
// Only the newest pending record is kept: a slow UI skips intermediate
// states but always ends on the latest one.
type Feed struct {
	store  *wedding.Store
	ch     chan model.WeddingRecord
	stopCh chan struct{}
	unsub  func()

	mu      gosync.Mutex
	status  SaveStatus
	running bool
}

// New creates a feed for s. Call Start to begin receiving changes.
func New(s *wedding.Store) *Feed {
	return &Feed{
		store:  s,
		ch:     make(chan model.WeddingRecord, 1),
		stopCh: make(chan struct{}),
	}
}

// Start subscribes to the store and returns a command that waits for the
// first change.
func (f *Feed) Start() tea.Cmd {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = true
	f.unsub = f.store.Subscribe(f.publish)
	f.mu.Unlock()

	return f.waitForRecord()
}

// Stop unsubscribes from the store and releases any waiting command.
func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	f.running = false
	f.unsub()
	close(f.stopCh)
}

// Status returns the current save status.
func (f *Feed) Status() SaveStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// publish replaces any undelivered record with rec.
func (f *Feed) publish(rec model.WeddingRecord) {
	f.setStatus(f.store.PersistErr())
	for {
		select {
		case f.ch <- rec:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *Feed) setStatus(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.status.Error = err
	if err != nil {
		f.status.State = SaveFailed
		return
	}
	f.status.State = SaveOK
	f.status.LastSave = time.Now()
}

// waitForRecord returns a tea.Cmd that blocks until the next change or
// until the feed is stopped.
func (f *Feed) waitForRecord() tea.Cmd {
	return func() tea.Msg {
		select {
		case rec := <-f.ch:
			return RecordMsg{Record: rec, Status: f.Status()}
		case <-f.stopCh:
			return nil
		}
	}
}

// WaitForNext returns a tea.Cmd that waits for the next change. Call it
// after handling each RecordMsg to keep listening.
func (f *Feed) WaitForNext() tea.Cmd {
	return f.waitForRecord()
}
