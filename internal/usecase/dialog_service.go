package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/adapter/metrics"
	"github.com/V4T54L/venue-portal/internal/domain"
)

// DialogView is what the portal renders for an open dialog.
type DialogView struct {
	ID              string                  `json:"id"`
	Mode            DialogMode              `json:"mode"`
	State           DialogState             `json:"state"`
	Draft           domain.UserDraft        `json:"draft"`
	Errors          domain.ValidationErrors `json:"errors"`
	Dirty           bool                    `json:"dirty"`
	Venues          []domain.VenueOption    `json:"venues"`
	RoleDescription string                  `json:"roleDescription,omitempty"`
}

type dialogEntry struct {
	mu      sync.Mutex
	dialog  *UserDialog
	touched time.Time
}

// UserDialogService hosts the open add-user and edit-user dialogs of every portal session.
type UserDialogService struct {
	catalog   domain.VenueCatalog
	validator DraftValidator
	sink      domain.UserSink
	metrics   *metrics.PortalMetrics
	logger    *slog.Logger
	ttl       time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	dialogs map[string]*dialogEntry
}

// NewUserDialogService creates a new UserDialogService. metrics may be nil.
func NewUserDialogService(
	catalog domain.VenueCatalog,
	validator DraftValidator,
	sink domain.UserSink,
	m *metrics.PortalMetrics,
	logger *slog.Logger,
	ttl time.Duration,
) *UserDialogService {
	return &UserDialogService{
		catalog:   catalog,
		validator: validator,
		sink:      sink,
		metrics:   m,
		logger:    logger.With("component", "user_dialogs"),
		ttl:       ttl,
		now:       time.Now,
		dialogs:   make(map[string]*dialogEntry),
	}
}

// OpenCreate opens an add-user dialog with an empty draft.
func (s *UserDialogService) OpenCreate(ctx context.Context) (DialogView, error) {
	d := NewCreateDialog(s.validator, s.sink.CreateUser)
	return s.open(ctx, d)
}

// OpenEdit opens an edit-user dialog hydrated from user.
func (s *UserDialogService) OpenEdit(ctx context.Context, user domain.User) (DialogView, error) {
	if user.ID == uuid.Nil {
		return DialogView{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	id := user.ID
	d := NewEditDialog(user, s.validator, func(ctx context.Context, draft domain.UserDraft) error {
		return s.sink.UpdateUser(ctx, id, draft)
	})
	return s.open(ctx, d)
}

func (s *UserDialogService) open(ctx context.Context, d *UserDialog) (DialogView, error) {
	id := uuid.NewString()
	entry := &dialogEntry{dialog: d, touched: s.now()}

	s.mu.Lock()
	s.dialogs[id] = entry
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DialogsOpened.WithLabelValues(string(d.Mode())).Inc()
		s.metrics.DialogsOpen.Inc()
	}
	s.logger.Debug("dialog opened", "dialog_id", id, "mode", d.Mode())

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.view(ctx, id, d)
}

// View returns the current rendering of a dialog.
func (s *UserDialogService) View(ctx context.Context, id string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error { return nil })
}

// SetFields applies scalar field edits in field-name order, stopping at the first unknown field.
func (s *UserDialogService) SetFields(ctx context.Context, id string, fields map[string]string) (DialogView, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return s.with(ctx, id, func(d *UserDialog) error {
		for _, name := range names {
			if err := d.SetField(name, fields[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ToggleVenue applies a venue checkbox click.
func (s *UserDialogService) ToggleVenue(ctx context.Context, id, venue string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error {
		return d.ToggleVenue(venue)
	})
}

// Submit validates and forwards the draft. A view with errors means the dialog stayed open;
// a closed view means the sink accepted the user.
func (s *UserDialogService) Submit(ctx context.Context, id string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error {
		errs, err := d.Submit(ctx)
		if errors.Is(err, domain.ErrAwaitingConfirmation) || errors.Is(err, domain.ErrDialogClosed) {
			return err
		}

		outcome := "accepted"
		switch {
		case err != nil:
			outcome = "callback_error"
			s.logger.Error("user submit callback failed", "dialog_id", id, "mode", d.Mode(), "error", err)
		case !errs.Empty():
			outcome = "invalid"
			s.logger.Debug("dialog submit rejected", "dialog_id", id, "fields", errs.Fields())
		default:
			s.logger.Info("dialog submitted", "dialog_id", id, "mode", d.Mode())
		}

		if s.metrics != nil {
			s.metrics.DialogSubmissions.WithLabelValues(string(d.Mode()), outcome).Inc()
			for field := range errs {
				s.metrics.ValidationFailures.WithLabelValues(field).Inc()
			}
		}
		return err
	})
}

// RequestClose closes the dialog or moves it to awaiting confirmation.
func (s *UserDialogService) RequestClose(ctx context.Context, id string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error {
		_, err := d.RequestClose()
		return err
	})
}

// ConfirmClose discards the edits of a dialog awaiting confirmation.
func (s *UserDialogService) ConfirmClose(ctx context.Context, id string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error {
		return d.ConfirmClose()
	})
}

// CancelClose keeps a dialog awaiting confirmation open.
func (s *UserDialogService) CancelClose(ctx context.Context, id string) (DialogView, error) {
	return s.with(ctx, id, func(d *UserDialog) error {
		return d.CancelClose()
	})
}

// Discard drops a dialog without going through the close flow. Unknown ids are ignored.
func (s *UserDialogService) Discard(id string) {
	s.remove(id)
}

// OpenCount returns the number of dialogs currently hosted.
func (s *UserDialogService) OpenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dialogs)
}

// Sweep discards dialogs idle for longer than the TTL and returns how many were dropped.
// Dialogs busy with an operation are skipped until the next sweep.
func (s *UserDialogService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, entry := range s.dialogs {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.touched.Before(cutoff) {
			delete(s.dialogs, id)
			dropped++
		}
		entry.mu.Unlock()
	}

	if dropped > 0 {
		if s.metrics != nil {
			s.metrics.DialogsOpen.Sub(float64(dropped))
		}
		s.logger.Info("discarded idle dialogs", "count", dropped)
	}
	return dropped
}

// RunJanitor sweeps idle dialogs every interval until ctx is done.
func (s *UserDialogService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *UserDialogService) with(ctx context.Context, id string, fn func(d *UserDialog) error) (DialogView, error) {
	s.mu.RLock()
	entry, ok := s.dialogs[id]
	s.mu.RUnlock()
	if !ok {
		return DialogView{}, domain.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Closed between lookup and lock by a concurrent request.
	if entry.dialog.State() == StateClosed {
		return DialogView{}, domain.ErrNotFound
	}

	opErr := fn(entry.dialog)
	entry.touched = s.now()

	view, err := s.view(ctx, id, entry.dialog)
	if entry.dialog.State() == StateClosed {
		s.remove(id)
	}
	if opErr != nil {
		return view, opErr
	}
	return view, err
}

func (s *UserDialogService) remove(id string) {
	s.mu.Lock()
	_, ok := s.dialogs[id]
	delete(s.dialogs, id)
	s.mu.Unlock()

	if ok && s.metrics != nil {
		s.metrics.DialogsOpen.Dec()
	}
	s.logger.Debug("dialog closed", "dialog_id", id)
}

func (s *UserDialogService) view(ctx context.Context, id string, d *UserDialog) (DialogView, error) {
	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return DialogView{}, fmt.Errorf("failed to load venue catalogue: %w", err)
	}

	draft := d.Draft()
	return DialogView{
		ID:              id,
		Mode:            d.Mode(),
		State:           d.State(),
		Draft:           draft,
		Errors:          d.Errors(),
		Dirty:           d.Dirty(),
		Venues:          domain.Checklist(venues, draft.AssignedVenues),
		RoleDescription: draft.Role.Description(),
	}, nil
}
