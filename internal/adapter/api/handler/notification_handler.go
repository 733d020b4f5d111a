package handler

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

type notificationsResponse struct {
	Items  []domain.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

// NotificationHandler serves the header's notification list.
type NotificationHandler struct {
	center *usecase.NotificationCenter
	logger *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(center *usecase.NotificationCenter, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{center: center, logger: logger}
}

// List returns the notifications and the unread badge count.
// GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w)
}

// MarkRead flags one notification as read.
// POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.center.MarkRead(r.PathValue("id")); err != nil {
		respondWithError(h.logger, w, statusFor(err), err.Error())
		return
	}
	h.respondWithList(w)
}

// MarkAllRead flags every notification as read.
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkAllRead()
	h.respondWithList(w)
}

func (h *NotificationHandler) respondWithList(w http.ResponseWriter) {
	respondWithJSON(h.logger, w, http.StatusOK, notificationsResponse{
		Items:  h.center.List(),
		Unread: h.center.UnreadCount(),
	})
}
