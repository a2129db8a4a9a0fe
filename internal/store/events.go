// Package store holds the client-side cache of the user's saved
// events. The cache is authoritative for rendering and is mutated only
// by full re-fetch: every mutation round-trips to the server and
// replaces the whole collection, so the views never show stale entries.
package store

import (
	"context"
	"log/slog"
	"sync"

	"eventdeck/internal/model"
)

// Backend is the slice of the API the saved-events store needs.
type Backend interface {
	SavedEvents(ctx context.Context) ([]model.Event, error)
	RemoveEvent(ctx context.Context, eventID int64) error
}

// SavedEvents caches the user's saved events. Safe for use from
// concurrent command goroutines; the UI only ever reads snapshots.
type SavedEvents struct {
	mu     sync.Mutex
	api    Backend
	logger *slog.Logger

	events []model.Event
	byID   map[int64]model.Event
}

// NewSavedEvents creates an empty saved-events cache.
func NewSavedEvents(api Backend, logger *slog.Logger) *SavedEvents {
	return &SavedEvents{
		api:    api,
		logger: logger,
		byID:   make(map[int64]model.Event),
	}
}

// Refresh re-fetches the full saved-events collection and replaces the
// cache. On failure the previous cache is left intact and the error is
// returned. The returned slice is a snapshot the caller may keep.
func (s *SavedEvents) Refresh(ctx context.Context) ([]model.Event, error) {
	events, err := s.api.SavedEvents(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = s.events[:0]
	s.byID = make(map[int64]model.Event, len(events))
	for _, ev := range events {
		// Ids are unique; keep the first occurrence in server order.
		if _, seen := s.byID[ev.ID]; seen {
			continue
		}
		s.byID[ev.ID] = ev
		s.events = append(s.events, ev)
	}

	return s.snapshotLocked(), nil
}

// Remove deletes a saved event and then resynchronizes. The refresh
// runs regardless of the delete outcome: a failed delete self-corrects
// by re-showing the still-present item instead of silently diverging
// from the server.
func (s *SavedEvents) Remove(ctx context.Context, eventID int64) ([]model.Event, error) {
	if err := s.api.RemoveEvent(ctx, eventID); err != nil {
		s.logger.Warn("removing saved event", "event_id", eventID, "error", err)
	}
	return s.Refresh(ctx)
}

// Events returns a snapshot of the cached collection in fetch order.
func (s *SavedEvents) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns a cached event by id.
func (s *SavedEvents) Get(eventID int64) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.byID[eventID]
	return ev, ok
}

// Len returns the number of cached events.
func (s *SavedEvents) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *SavedEvents) snapshotLocked() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}
