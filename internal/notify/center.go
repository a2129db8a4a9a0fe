// Package notify fetches notifications on demand and reconciles their
// read state with the server. Opening the notification surface marks
// everything unread as read: one request per item, issued in parallel,
// with no ordering or atomicity guarantee across the batch.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventdeck/internal/model"
)

// Backend is the slice of the API the notification center needs.
type Backend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

// Center owns the client-side notification cache. The unread count is
// always derived from the cache, never stored, so the two cannot
// drift apart.
type Center struct {
	mu     sync.Mutex
	api    Backend
	logger *slog.Logger

	notifications []model.Notification

	// now is swappable in tests.
	now func() time.Time
}

// NewCenter creates an empty notification center.
func NewCenter(api Backend, logger *slog.Logger) *Center {
	return &Center{api: api, logger: logger, now: time.Now}
}

// Open fetches the current notification collection, replaces the
// cache, and then marks everything unread in the fetched snapshot as
// read. Reopening always re-fetches from scratch.
func (c *Center) Open(ctx context.Context) ([]model.Notification, error) {
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.MarkAllUnreadAsRead(ctx)
	return c.Notifications(), nil
}

// Refresh re-fetches the notification collection and replaces the
// cache. On failure the previous cache is left intact.
func (c *Center) Refresh(ctx context.Context) error {
	notifications, err := c.api.Notifications(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.notifications = notifications
	c.mu.Unlock()
	return nil
}

// MarkAllUnreadAsRead issues one mark-read request per notification
// unread in the current cache, in parallel, then stamps every one of
// them read locally with the current time. The local stamp is
// optimistic: it is applied regardless of per-item request outcome
// (at-least-attempt, no rollback). Notifications already read at
// snapshot time are never touched.
func (c *Center) MarkAllUnreadAsRead(ctx context.Context) {
	c.mu.Lock()
	var unreadIDs []int64
	for _, n := range c.notifications {
		if n.Unread() {
			unreadIDs = append(unreadIDs, n.ID)
		}
	}
	c.mu.Unlock()

	if len(unreadIDs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, id := range unreadIDs {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := c.api.MarkNotificationRead(ctx, id); err != nil {
				c.logger.Warn("marking notification read",
					"notification_id", id, "error", err)
			}
		}(id)
	}
	wg.Wait()

	stamp := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		if c.notifications[i].ReadAt == nil {
			t := stamp
			c.notifications[i].ReadAt = &t
		}
	}
}

// Notifications returns a snapshot of the cached collection.
func (c *Center) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// UnreadCount derives the number of unread notifications from the
// cache.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.notifications {
		if n.Unread() {
			count++
		}
	}
	return count
}

// RefreshCount re-fetches the collection and returns the derived
// unread count. Used by the background badge poller; it never marks
// anything read.
func (c *Center) RefreshCount(ctx context.Context) (int, error) {
	if err := c.Refresh(ctx); err != nil {
		return 0, err
	}
	return c.UnreadCount(), nil
}
