package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/V4T54L/venue-portal/internal/domain"
)

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields domain.ValidationErrors `json:"fields,omitempty"`
}

func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(logger *slog.Logger, w http.ResponseWriter, code int, message string) {
	respondWithJSON(logger, w, code, errorResponse{Error: message})
}

func respondWithValidation(logger *slog.Logger, w http.ResponseWriter, errs domain.ValidationErrors) {
	respondWithJSON(logger, w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: errs})
}

// decodeJSON reads a size-limited JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}, allowEmpty bool) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return http.StatusRequestEntityTooLarge, err
		case errors.Is(err, io.EOF) && allowEmpty:
			return 0, nil
		default:
			return http.StatusBadRequest, err
		}
	}
	return 0, nil
}

// statusFor maps use case errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDialogClosed):
		return http.StatusGone
	case errors.Is(err, domain.ErrAwaitingConfirmation),
		errors.Is(err, domain.ErrNotAwaitingConfirmation),
		errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
