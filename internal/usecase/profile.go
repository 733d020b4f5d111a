package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// ProfileValidator checks the profile settings form.
type ProfileValidator interface {
	ValidateProfile(p domain.Profile) domain.ValidationErrors
}

// ProfileUseCase backs the "my profile" settings page. The profile lives only in memory
// and a save is a simulated backend call.
type ProfileUseCase struct {
	validator ProfileValidator
	call      *SimulatedCall
	logger    *slog.Logger

	mu      sync.RWMutex
	profile domain.Profile
}

// NewProfileUseCase creates a new ProfileUseCase seeded with initial.
func NewProfileUseCase(initial domain.Profile, validator ProfileValidator, call *SimulatedCall, logger *slog.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		validator: validator,
		call:      call,
		logger:    logger.With("component", "profile"),
		profile:   initial,
	}
}

// Get returns the current profile.
func (uc *ProfileUseCase) Get() domain.Profile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.profile
}

// Saving reports whether a save is in flight.
func (uc *ProfileUseCase) Saving() bool {
	return uc.call.Busy()
}

// Save validates p and, after the simulated delay, makes it the current profile.
// Field errors come back as ValidationErrors with a nil error.
func (uc *ProfileUseCase) Save(ctx context.Context, p domain.Profile) (domain.Profile, domain.ValidationErrors, error) {
	if errs := uc.validator.ValidateProfile(p); !errs.Empty() {
		return uc.Get(), errs, nil
	}

	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)

	err := uc.call.Do(ctx, func() error {
		p.UpdatedAt = time.Now().UTC()
		uc.mu.Lock()
		uc.profile = p
		uc.mu.Unlock()
		return nil
	})
	if err != nil {
		return uc.Get(), nil, err
	}

	uc.logger.Info("profile saved", "email", p.Email)
	return p, domain.ValidationErrors{}, nil
}
