package model

import (
	"strings"
	"time"
)

// Notification types generated by the server's daily reminder job.
const (
	NotificationUpcoming14 = "EVENT_UPCOMING_14"
	NotificationUpcoming7  = "EVENT_UPCOMING_7"
	NotificationUpcoming1  = "EVENT_UPCOMING_1"
	NotificationPast       = "EVENT_PAST"
)

// Notification represents a reminder surfaced to the user about one of
// their saved events.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID int64 `json:"id"`

	// Type is one of the Notification* constants.
	Type string `json:"type"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"createdAt"`

	// ReadAt is when the user saw this notification. Nil while unread.
	// Write-once: it only ever transitions from nil to a timestamp.
	ReadAt *time.Time `json:"readAt,omitempty"`

	// Event optionally links back to the originating saved event.
	Event *NotificationEvent `json:"event,omitempty"`
}

// NotificationEvent is the slim event association embedded in a
// notification payload.
type NotificationEvent struct {
	Title string `json:"title"`
}

// Unread reports whether the notification has not been read yet.
func (n Notification) Unread() bool {
	return n.ReadAt == nil
}

// TypeLabel returns a display label for the notification type, e.g.
// "UPCOMING 7" for EVENT_UPCOMING_7.
func (n Notification) TypeLabel() string {
	label := strings.TrimPrefix(n.Type, "EVENT_")
	return strings.ReplaceAll(label, "_", " ")
}
