package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// Announcer publishes a header notification.
type Announcer interface {
	Announce(ctx context.Context, kind domain.NotificationKind, title, message string) error
}

// LoggingUserSink is the portal's stand-in backend for submitted users: it logs the
// payload and announces the change. Nothing is persisted.
type LoggingUserSink struct {
	logger    *slog.Logger
	announcer Announcer
}

// NewLoggingUserSink creates a new LoggingUserSink. announcer may be nil.
func NewLoggingUserSink(logger *slog.Logger, announcer Announcer) *LoggingUserSink {
	return &LoggingUserSink{
		logger:    logger.With("component", "user_sink"),
		announcer: announcer,
	}
}

// CreateUser logs a new user.
func (s *LoggingUserSink) CreateUser(ctx context.Context, d domain.UserDraft) error {
	s.logger.Info("user created",
		"name", d.FullName(),
		"email", strings.TrimSpace(d.Email),
		"role", d.Role,
		"venues", venueSummary(d.AssignedVenues),
	)
	s.announce(ctx, "New user added", fmt.Sprintf("%s was added as %s", d.FullName(), d.Role))
	return nil
}

// UpdateUser logs an edited user.
func (s *LoggingUserSink) UpdateUser(ctx context.Context, id uuid.UUID, d domain.UserDraft) error {
	s.logger.Info("user updated",
		"user_id", id.String(),
		"name", d.FullName(),
		"email", strings.TrimSpace(d.Email),
		"role", d.Role,
		"venues", venueSummary(d.AssignedVenues),
	)
	s.announce(ctx, "User updated", fmt.Sprintf("%s's details were updated", d.FullName()))
	return nil
}

// A failed announcement does not fail the submission.
func (s *LoggingUserSink) announce(ctx context.Context, title, message string) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.Announce(ctx, domain.NotificationUser, title, message); err != nil {
		s.logger.Warn("failed to announce user change", "error", err)
	}
}

func venueSummary(v domain.VenueSet) string {
	if v.IsAll() {
		return "All venues"
	}
	return strings.Join(v, ", ")
}
