package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// DashboardPath is where a signed-in administrator lands.
const DashboardPath = "/dashboard"

// LoginValidator checks the sign-in form.
type LoginValidator interface {
	ValidateLogin(c domain.Credentials) domain.ValidationErrors
}

// LoginUseCase simulates the admin sign-in. Credentials are only checked for shape;
// there is no account lookup.
type LoginUseCase struct {
	validator LoginValidator
	call      *SimulatedCall
	logger    *slog.Logger
}

// NewLoginUseCase creates a new LoginUseCase.
func NewLoginUseCase(validator LoginValidator, call *SimulatedCall, logger *slog.Logger) *LoginUseCase {
	return &LoginUseCase{
		validator: validator,
		call:      call,
		logger:    logger.With("component", "login"),
	}
}

// Login validates the form, waits the simulated delay and returns where to navigate.
func (uc *LoginUseCase) Login(ctx context.Context, c domain.Credentials) (domain.Session, domain.ValidationErrors, error) {
	if errs := uc.validator.ValidateLogin(c); !errs.Empty() {
		return domain.Session{}, errs, nil
	}

	email := strings.TrimSpace(c.Email)
	if err := uc.call.Do(ctx, func() error { return nil }); err != nil {
		return domain.Session{}, nil, err
	}

	uc.logger.Info("admin signed in", "email", email)
	return domain.Session{Email: email, RedirectTo: DashboardPath}, domain.ValidationErrors{}, nil
}
