package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"realty-agent-be/internal/mapper"
	"realty-agent-be/pkg/sensay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, gw sensay.API, interval time.Duration) ITrackerService {
	t.Helper()
	tracker := NewTrackerService(
		&fakeProvider{gw: gw, userID: "agent_test"},
		interval,
		nil,
		nil,
		mapper.NewKnowledgeMapper(),
		nopLogger{},
	)
	t.Cleanup(tracker.Stop)
	return tracker
}

func terminalItems() []sensay.KnowledgeItem {
	return []sensay.KnowledgeItem{
		{ID: 1, Type: "text", Status: sensay.StatusReady, Title: "Guide"},
		{ID: 2, Type: "file", Status: sensay.StatusUnprocessable, Title: "Broken upload"},
	}
}

func TestRefreshStopsWhenAllTerminal(t *testing.T) {
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			return terminalItems(), nil
		},
	}
	tracker := newTestTracker(t, gw, 10*time.Millisecond)

	snap, err := tracker.Refresh(context.Background(), "rep-1")
	require.NoError(t, err)
	assert.False(t, snap.Polling)

	// No poll timer may remain armed once every item is terminal.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), gw.listKnowledgeCalls.Load())
}

func TestRefreshPollsUntilTerminal(t *testing.T) {
	var calls atomic.Int64
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			if calls.Add(1) < 3 {
				return []sensay.KnowledgeItem{{ID: 1, Type: "text", Status: sensay.StatusNew, Title: "Guide"}}, nil
			}
			return []sensay.KnowledgeItem{{ID: 1, Type: "text", Status: sensay.StatusReady, Title: "Guide"}}, nil
		},
	}
	tracker := newTestTracker(t, gw, 5*time.Millisecond)

	snap, err := tracker.Refresh(context.Background(), "rep-1")
	require.NoError(t, err)
	assert.True(t, snap.Polling)

	// The timer chain must keep firing on its own until the item settles.
	require.Eventually(t, func() bool {
		current, ok := tracker.Snapshot("rep-1")
		return ok && !current.Polling
	}, time.Second, 5*time.Millisecond)

	settled := calls.Load()
	assert.GreaterOrEqual(t, settled, int64(3))

	// And then stop for good.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.Load())
}

func TestRefreshDegradedKeepsLastSnapshot(t *testing.T) {
	var fail atomic.Bool
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			if fail.Load() {
				return nil, &sensay.APIError{StatusCode: 503, Message: "down"}
			}
			return terminalItems(), nil
		},
	}
	tracker := newTestTracker(t, gw, 10*time.Millisecond)

	first, err := tracker.Refresh(context.Background(), "rep-1")
	require.NoError(t, err)

	fail.Store(true)
	degraded, err := tracker.Refresh(context.Background(), "rep-1")
	require.NoError(t, err, "a degraded read with history is not an error")
	assert.Equal(t, first.Items, degraded.Items)
	assert.Equal(t, first.RefreshedAt, degraded.RefreshedAt, "timestamp must reflect the last successful fetch")
}

func TestRefreshDegradedWithoutHistoryFails(t *testing.T) {
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			return nil, &sensay.APIError{StatusCode: 503, Message: "down"}
		},
	}
	tracker := newTestTracker(t, gw, 10*time.Millisecond)

	_, err := tracker.Refresh(context.Background(), "rep-1")
	assert.True(t, sensay.IsRemoteError(err))
}

func TestInvalidateDropsSnapshotAndTimer(t *testing.T) {
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			return []sensay.KnowledgeItem{{ID: 1, Type: "text", Status: sensay.StatusNew}}, nil
		},
	}
	tracker := newTestTracker(t, gw, 10*time.Millisecond)

	_, err := tracker.Refresh(context.Background(), "rep-1")
	require.NoError(t, err)

	tracker.Invalidate("rep-1")
	_, ok := tracker.Snapshot("rep-1")
	assert.False(t, ok)

	// The cancelled timer must not refetch on its own.
	settled := gw.listKnowledgeCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, gw.listKnowledgeCalls.Load())
}

func TestResetClearsEverything(t *testing.T) {
	gw := &fakeGateway{
		listKnowledgeFn: func(ctx context.Context, replicaID string) ([]sensay.KnowledgeItem, error) {
			return terminalItems(), nil
		},
	}
	tracker := newTestTracker(t, gw, 10*time.Millisecond)

	for _, id := range []string{"rep-1", "rep-2"} {
		_, err := tracker.Refresh(context.Background(), id)
		require.NoError(t, err)
	}

	tracker.Reset()
	for _, id := range []string{"rep-1", "rep-2"} {
		_, ok := tracker.Snapshot(id)
		assert.False(t, ok)
	}
}

func TestRefreshWithoutCredentials(t *testing.T) {
	tracker := NewTrackerService(
		&fakeProvider{err: sensay.ErrMissingSecret},
		10*time.Millisecond,
		nil,
		nil,
		mapper.NewKnowledgeMapper(),
		nopLogger{},
	)
	t.Cleanup(tracker.Stop)

	_, err := tracker.Refresh(context.Background(), "rep-1")
	assert.ErrorIs(t, err, sensay.ErrMissingSecret)
}
