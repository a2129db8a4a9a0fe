package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdeck/internal/logging"
	"eventdeck/internal/model"
)

type fakeBackend struct {
	events  []model.Event
	listErr error

	removeErr   error
	removedIDs  []int64
	listCalls   int
	removeCalls int
}

func (f *fakeBackend) SavedEvents(_ context.Context) ([]model.Event, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeBackend) RemoveEvent(_ context.Context, eventID int64) error {
	f.removeCalls++
	f.removedIDs = append(f.removedIDs, eventID)
	return f.removeErr
}

func newTestStore(backend *fakeBackend) *SavedEvents {
	return NewSavedEvents(backend, logging.Discard())
}

func TestRefresh_ReplacesWholeCollection(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{events: []model.Event{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two"},
	}}
	s := newTestStore(backend)

	got, err := s.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// A later fetch with a disjoint collection fully replaces the cache,
	// removed entries included.
	backend.events = []model.Event{{ID: 3, Title: "three"}}
	got, err = s.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestRefresh_FailureKeepsPreviousCache(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{events: []model.Event{{ID: 1, Title: "one"}}}
	s := newTestStore(backend)

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	backend.listErr = errors.New("boom")
	_, err = s.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, s.Len())
	ev, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", ev.Title)
}

func TestRefresh_DeduplicatesKeepingFirst(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{events: []model.Event{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "other"},
		{ID: 1, Title: "duplicate"},
	}}
	s := newTestStore(backend)

	got, err := s.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	ev, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "first", ev.Title)
}

func TestRemove_DeletesThenResynchronizes(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{events: []model.Event{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two"},
	}}
	s := newTestStore(backend)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	backend.events = []model.Event{{ID: 2, Title: "two"}}
	got, err := s.Remove(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, backend.removedIDs)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestRemove_RefreshesEvenWhenDeleteFails(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		events:    []model.Event{{ID: 1, Title: "one"}},
		removeErr: errors.New("404"),
	}
	s := newTestStore(backend)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	fetchesBefore := backend.listCalls

	// The failed delete still triggers a refresh, so the cache follows
	// whatever the server says rather than assuming the delete worked.
	got, err := s.Remove(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.removeCalls)
	assert.Equal(t, fetchesBefore+1, backend.listCalls)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestEvents_ReturnsIndependentSnapshot(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{events: []model.Event{{ID: 1, Title: "one"}}}
	s := newTestStore(backend)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	snap := s.Events()
	snap[0].Title = "mutated"

	ev, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", ev.Title)
}
