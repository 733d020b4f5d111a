package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/adapter/metrics"
	"github.com/V4T54L/venue-portal/internal/domain"
)

const defaultNotificationLimit = 50

// NotificationCenter keeps the header's notification list. New entries arrive through the
// publisher so every portal instance sees the same feed; read flags are local.
type NotificationCenter struct {
	publisher domain.NotificationPublisher
	metrics   *metrics.PortalMetrics
	logger    *slog.Logger
	limit     int

	mu        sync.RWMutex
	items     []domain.Notification // newest first
	listeners []func(domain.Notification)
}

// NewNotificationCenter creates a NotificationCenter seeded with initial entries,
// newest first. metrics may be nil.
func NewNotificationCenter(publisher domain.NotificationPublisher, initial []domain.Notification, m *metrics.PortalMetrics, logger *slog.Logger) *NotificationCenter {
	items := make([]domain.Notification, len(initial))
	copy(items, initial)
	return &NotificationCenter{
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("component", "notifications"),
		limit:     defaultNotificationLimit,
		items:     items,
	}
}

// OnNotification registers fn to be called for each notification received.
func (c *NotificationCenter) OnNotification(fn func(domain.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Announce builds a notification and publishes it.
func (c *NotificationCenter) Announce(ctx context.Context, kind domain.NotificationKind, title, message string) error {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.publisher.Publish(ctx, n); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	if c.metrics != nil {
		c.metrics.Notifications.Inc()
	}
	return nil
}

// Run consumes published notifications until ctx is done.
func (c *NotificationCenter) Run(ctx context.Context) error {
	c.logger.Info("subscribing to notifications")
	return c.publisher.Subscribe(ctx, c.receive)
}

func (c *NotificationCenter) receive(n domain.Notification) {
	n.Read = false

	c.mu.Lock()
	for _, existing := range c.items {
		if existing.ID == n.ID {
			c.mu.Unlock()
			return
		}
	}
	c.items = append([]domain.Notification{n}, c.items...)
	if len(c.items) > c.limit {
		c.items = c.items[:c.limit]
	}
	listeners := make([]func(domain.Notification), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
}

// List returns the notifications, newest first.
func (c *NotificationCenter) List() []domain.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount returns the badge number shown on the bell icon.
func (c *NotificationCenter) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification as read.
func (c *NotificationCenter) MarkRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// MarkAllRead flags every notification as read.
func (c *NotificationCenter) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}
