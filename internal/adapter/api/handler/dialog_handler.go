package handler

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

// DialogHandler handles HTTP requests for the add-user and edit-user dialogs.
type DialogHandler struct {
	svc          *usecase.UserDialogService
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewDialogHandler creates a new DialogHandler.
func NewDialogHandler(svc *usecase.UserDialogService, logger *slog.Logger, maxBodyBytes int64) *DialogHandler {
	return &DialogHandler{svc: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// OpenCreate opens an add-user dialog.
// POST /api/dialogs/users
// The body may carry initial scalar field values.
func (h *DialogHandler) OpenCreate(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &fields, true); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}

	view, err := h.svc.OpenCreate(r.Context())
	if err != nil {
		h.fail(w, "failed to open create dialog", err)
		return
	}
	if len(fields) > 0 {
		id := view.ID
		if view, err = h.svc.SetFields(r.Context(), id, fields); err != nil {
			h.svc.Discard(id)
			h.fail(w, "failed to prefill create dialog", err)
			return
		}
	}
	respondWithJSON(h.logger, w, http.StatusCreated, view)
}

// OpenEdit opens an edit-user dialog hydrated from the user record in the body.
// POST /api/dialogs/users/edit
func (h *DialogHandler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &user, false); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}

	view, err := h.svc.OpenEdit(r.Context(), user)
	if err != nil {
		h.fail(w, "failed to open edit dialog", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, view)
}

// Get returns the current rendering of a dialog.
// GET /api/dialogs/{id}
func (h *DialogHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "failed to load dialog", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

// SetFields edits scalar fields.
// PATCH /api/dialogs/{id}/fields
func (h *DialogHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &fields, false); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}
	if len(fields) == 0 {
		respondWithError(h.logger, w, http.StatusBadRequest, "at least one field is required")
		return
	}

	view, err := h.svc.SetFields(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.fail(w, "failed to set fields", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

// ToggleVenue applies a venue checkbox click.
// POST /api/dialogs/{id}/venues/toggle
func (h *DialogHandler) ToggleVenue(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Venue string `json:"venue"`
	}
	if code, err := decodeJSON(w, r, h.maxBodyBytes, &payload, false); err != nil {
		respondWithError(h.logger, w, code, "invalid request body")
		return
	}
	if payload.Venue == "" {
		respondWithError(h.logger, w, http.StatusBadRequest, "venue is required")
		return
	}

	view, err := h.svc.ToggleVenue(r.Context(), r.PathValue("id"), payload.Venue)
	if err != nil {
		h.fail(w, "failed to toggle venue", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

// Submit validates the draft and forwards it.
// POST /api/dialogs/{id}/submit
func (h *DialogHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		if code := statusFor(err); code != http.StatusInternalServerError {
			respondWithError(h.logger, w, code, err.Error())
			return
		}
		h.logger.Error("user submission failed", "error", err)
		respondWithError(h.logger, w, http.StatusBadGateway, "user could not be saved")
		return
	}
	if len(view.Errors) > 0 {
		respondWithJSON(h.logger, w, http.StatusUnprocessableEntity, view)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

// RequestClose closes the dialog, or asks for confirmation when there are unsaved edits.
// POST /api/dialogs/{id}/close
func (h *DialogHandler) RequestClose(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.RequestClose(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "failed to close dialog", err)
		return
	}
	code := http.StatusOK
	if view.State == usecase.StateAwaitingConfirmation {
		code = http.StatusAccepted
	}
	respondWithJSON(h.logger, w, code, view)
}

// ConfirmClose discards unsaved edits and closes.
// POST /api/dialogs/{id}/close/confirm
func (h *DialogHandler) ConfirmClose(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ConfirmClose(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "failed to confirm close", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

// CancelClose keeps the dialog open.
// POST /api/dialogs/{id}/close/cancel
func (h *DialogHandler) CancelClose(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CancelClose(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "failed to cancel close", err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, view)
}

func (h *DialogHandler) fail(w http.ResponseWriter, msg string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
		respondWithError(h.logger, w, code, "Internal server error")
		return
	}
	respondWithError(h.logger, w, code, err.Error())
}
