package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/imgsearch-tui/internal/worker"
)

func TestTrackerLifecycle(t *testing.T) {
	var tr Tracker
	assert.Equal(t, Idle, tr.State())
	assert.False(t, tr.Busy())

	require.NoError(t, tr.Begin(7))
	assert.Equal(t, Querying, tr.State())
	assert.True(t, tr.Busy())

	assert.ErrorIs(t, tr.Begin(8), ErrBusy)
	assert.EqualValues(t, 7, tr.Current())

	assert.True(t, tr.Observe(worker.Queried{ID: 7, Page: 1, TotalPages: 2}))
	assert.Equal(t, ResultsStreaming, tr.State())
	assert.True(t, tr.Observe(worker.ImageLoaded{ID: 7}))
	assert.True(t, tr.Observe(worker.Failed{ID: 7}))
	assert.Equal(t, ResultsStreaming, tr.State())

	assert.True(t, tr.Observe(worker.Finished{ID: 7}))
	assert.Equal(t, Finished, tr.State())
	assert.False(t, tr.Busy())

	require.NoError(t, tr.Begin(8))
	assert.Equal(t, Querying, tr.State())
}

func TestTrackerIgnoresStaleEvents(t *testing.T) {
	var tr Tracker
	require.NoError(t, tr.Begin(1))
	require.True(t, tr.Finish(1))
	require.NoError(t, tr.Begin(2))

	tests := []struct {
		name string
		ev   worker.Event
	}{
		{name: "queried", ev: worker.Queried{ID: 1}},
		{name: "image", ev: worker.ImageLoaded{ID: 1}},
		{name: "error", ev: worker.Failed{ID: 1}},
		{name: "finished", ev: worker.Finished{ID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tr.Observe(tt.ev))
			assert.Equal(t, Querying, tr.State())
		})
	}
}

func TestTrackerFinishOnce(t *testing.T) {
	var tr Tracker
	assert.False(t, tr.Finish(0), "nothing to finish while idle")

	require.NoError(t, tr.Begin(3))
	assert.True(t, tr.Finish(3))
	assert.False(t, tr.Finish(3))
	assert.False(t, tr.Observe(worker.Finished{ID: 3}))
}
