package domain

import "time"

// NotificationKind groups header notifications for icon selection.
type NotificationKind string

const (
	NotificationUser    NotificationKind = "user"
	NotificationBooking NotificationKind = "booking"
	NotificationSystem  NotificationKind = "system"
)

// Notification is one entry of the portal header's notification list.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}
