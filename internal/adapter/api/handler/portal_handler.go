package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

type roleResponse struct {
	Role        domain.UserRole `json:"role"`
	Description string          `json:"description"`
}

// PortalHandler serves the portal's reference data, the simulated sign-in and the
// profile page.
type PortalHandler struct {
	catalog      domain.VenueCatalog
	login        *usecase.LoginUseCase
	profile      *usecase.ProfileUseCase
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(
	catalog domain.VenueCatalog,
	login *usecase.LoginUseCase,
	profile *usecase.ProfileUseCase,
	logger *slog.Logger,
	maxBodyBytes int64,
) *PortalHandler {
	return &PortalHandler{
		catalog:      catalog,
		login:        login,
		profile:      profile,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// HealthCheck is a simple health check endpoint.
func (h *PortalHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Venues lists the venue catalogue.
// GET /api/venues
func (h *PortalHandler) Venues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.catalog.Venues(r.Context())
	if err != nil {
		h.logger.Error("failed to load venues", "error", err)
		respondWithError(h.logger, w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, venues)
}

// Roles lists the assignable roles with their descriptions.
// GET /api/roles
func (h *PortalHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles := make([]roleResponse, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		roles = append(roles, roleResponse{Role: role, Description: role.Description()})
	}
	respondWithJSON(h.logger, w, http.StatusOK, roles)
}

// Login runs the simulated admin sign-in.
// POST /api/login
func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &creds, false); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}

	session, errs, err := h.login.Login(r.Context(), creds)
	switch {
	case err != nil:
		respondWithError(h.logger, w, statusFor(err), err.Error())
	case !errs.Empty():
		respondWithValidation(h.logger, w, errs)
	default:
		respondWithJSON(h.logger, w, http.StatusOK, session)
	}
}

// GetProfile returns the administrator's profile.
// GET /api/profile
func (h *PortalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(h.logger, w, http.StatusOK, h.profile.Get())
}

// SaveProfile runs the simulated profile save.
// PUT /api/profile
func (h *PortalHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &p, false); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}

	saved, errs, err := h.profile.Save(r.Context(), p)
	switch {
	case err != nil:
		respondWithError(h.logger, w, statusFor(err), err.Error())
	case !errs.Empty():
		respondWithValidation(h.logger, w, errs)
	default:
		respondWithJSON(h.logger, w, http.StatusOK, saved)
	}
}
