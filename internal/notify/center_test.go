package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdeck/internal/logging"
	"eventdeck/internal/model"
)

// fakeBackend serves a canned notification list and records which ids
// were marked read.
type fakeBackend struct {
	mu sync.Mutex

	notifications []model.Notification
	listErr       error

	markedIDs []int64
	markErr   map[int64]error
	markCalls int
}

func (f *fakeBackend) Notifications(_ context.Context) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out, nil
}

func (f *fakeBackend) MarkNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markCalls++
	f.markedIDs = append(f.markedIDs, id)
	if err, ok := f.markErr[id]; ok {
		return err
	}
	return nil
}

func (f *fakeBackend) marked() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int64, len(f.markedIDs))
	copy(out, f.markedIDs)
	return out
}

func unreadNotif(id int64, msg string) model.Notification {
	return model.Notification{
		ID:        id,
		Type:      model.NotificationUpcoming7,
		Message:   msg,
		CreatedAt: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
}

func readNotif(id int64, msg string, readAt time.Time) model.Notification {
	n := unreadNotif(id, msg)
	n.ReadAt = &readAt
	return n
}

func newTestCenter(backend *fakeBackend, now time.Time) *Center {
	c := NewCenter(backend, logging.Discard())
	c.now = func() time.Time { return now }
	return c
}

func TestOpen_MarksOnlyUnread(t *testing.T) {
	t.Parallel()

	already := time.Date(2024, time.February, 20, 8, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		notifications: []model.Notification{
			unreadNotif(1, "Event in 7 days"),
			readNotif(2, "Event in 14 days", already),
			unreadNotif(3, "Event has passed"),
		},
	}
	stamp := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)
	c := newTestCenter(backend, stamp)

	got, err := c.Open(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.ElementsMatch(t, []int64{1, 3}, backend.marked())

	for _, n := range got {
		require.NotNil(t, n.ReadAt, "notification %d", n.ID)
	}
	// The already-read timestamp is never overwritten.
	assert.Equal(t, already, *got[1].ReadAt)
	assert.Equal(t, stamp, *got[0].ReadAt)
	assert.Zero(t, c.UnreadCount())
}

func TestOpen_FetchFailureKeepsCache(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{unreadNotif(1, "first")},
	}
	c := newTestCenter(backend, time.Now())

	_, err := c.Open(context.Background())
	require.NoError(t, err)

	backend.mu.Lock()
	backend.listErr = errors.New("boom")
	backend.mu.Unlock()

	_, err = c.Open(context.Background())
	require.Error(t, err)

	// The previous snapshot survives a failed refresh.
	assert.Len(t, c.Notifications(), 1)
}

func TestMarkAllUnreadAsRead_StampsDespitePerItemFailures(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{
			unreadNotif(1, "a"),
			unreadNotif(2, "b"),
			unreadNotif(3, "c"),
		},
		markErr: map[int64]error{2: errors.New("500")},
	}
	c := newTestCenter(backend, time.Now())

	require.NoError(t, c.Refresh(context.Background()))
	c.MarkAllUnreadAsRead(context.Background())

	// All three were attempted and all three are stamped locally, the
	// failed one included.
	assert.Equal(t, 3, backend.markCalls)
	for _, n := range c.Notifications() {
		assert.NotNil(t, n.ReadAt, "notification %d", n.ID)
	}
	assert.Zero(t, c.UnreadCount())
}

func TestMarkAllUnreadAsRead_NoUnreadIssuesNoRequests(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{
			readNotif(1, "old", time.Now()),
		},
	}
	c := newTestCenter(backend, time.Now())

	require.NoError(t, c.Refresh(context.Background()))
	c.MarkAllUnreadAsRead(context.Background())

	assert.Zero(t, backend.markCalls)
}

func TestReopen_RefetchesFromScratch(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{unreadNotif(1, "first")},
	}
	c := newTestCenter(backend, time.Now())

	_, err := c.Open(context.Background())
	require.NoError(t, err)

	backend.mu.Lock()
	backend.notifications = []model.Notification{
		unreadNotif(1, "first"),
		unreadNotif(2, "second"),
	}
	backend.mu.Unlock()

	got, err := c.Open(context.Background())
	require.NoError(t, err)

	assert.Len(t, got, 2)
}

func TestRefreshCount_NeverMarksRead(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{
			unreadNotif(1, "a"),
			unreadNotif(2, "b"),
		},
	}
	c := newTestCenter(backend, time.Now())

	count, err := c.RefreshCount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Zero(t, backend.markCalls)
	assert.Equal(t, 2, c.UnreadCount())
}

func TestUnreadCount_DerivedFromCache(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		notifications: []model.Notification{
			unreadNotif(1, "a"),
			readNotif(2, "b", time.Now()),
			unreadNotif(3, "c"),
		},
	}
	c := newTestCenter(backend, time.Now())

	assert.Zero(t, c.UnreadCount())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 2, c.UnreadCount())

	c.MarkAllUnreadAsRead(context.Background())
	assert.Zero(t, c.UnreadCount())
}
