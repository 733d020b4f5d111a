package domain

import (
	"context"

	"github.com/google/uuid"
)

// SubmitFunc is the caller-supplied creation or update callback. Its return value and
// failure behaviour belong to the caller; a non-nil error keeps the dialog open.
type SubmitFunc func(ctx context.Context, draft UserDraft) error

// VenueCatalog supplies the ordered, read-only venue list shown in the dialogs.
type VenueCatalog interface {
	Venues(ctx context.Context) ([]string, error)
}

// NotificationPublisher fans header notifications out to every portal instance.
type NotificationPublisher interface {
	// Publish delivers n to all subscribers, including the local one.
	Publish(ctx context.Context, n Notification) error

	// Subscribe calls handler for every published notification until ctx is done.
	Subscribe(ctx context.Context, handler func(n Notification)) error
}

// UserSink owns what happens to a submitted user. The portal ships a logging stand-in;
// real persistence lives behind this interface outside this module.
type UserSink interface {
	CreateUser(ctx context.Context, draft UserDraft) error
	UpdateUser(ctx context.Context, id uuid.UUID, draft UserDraft) error
}
