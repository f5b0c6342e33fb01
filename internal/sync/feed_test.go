package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sarnrak/internal/planner"
	"github.com/nhle/sarnrak/tests/testutil"
)

func TestFeedDeliversLatestRecord(t *testing.T) {
	ws := testutil.NewWeddingStore(t)
	f := New(ws)
	wait := f.Start()
	require.NotNil(t, wait)
	defer f.Stop()

	ctx := context.Background()
	ws.Update(ctx, planner.SetDate("2027-01-01"))
	ws.Update(ctx, planner.SetDate("2027-02-02"))

	msg, ok := wait().(RecordMsg)
	require.True(t, ok)
	assert.Equal(t, "2027-02-02", msg.Record.Date)
	assert.Equal(t, SaveOK, msg.Status.State)
	assert.NoError(t, msg.Status.Error)
	assert.False(t, msg.Status.LastSave.IsZero())
}

func TestFeedStartTwice(t *testing.T) {
	f := New(testutil.NewWeddingStore(t))
	require.NotNil(t, f.Start())
	assert.Nil(t, f.Start())
	f.Stop()
	f.Stop()
}

func TestFeedStopReleasesWaiter(t *testing.T) {
	f := New(testutil.NewWeddingStore(t))
	wait := f.Start()

	done := make(chan any)
	go func() { done <- wait() }()
	f.Stop()

	assert.Nil(t, <-done)
}
