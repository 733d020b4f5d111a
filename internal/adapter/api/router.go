package api

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/venue-portal/internal/adapter/api/handler"
	"github.com/V4T54L/venue-portal/internal/adapter/api/middleware"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/pkg/config"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

// NewRouter creates and configures the HTTP router for the portal API.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	catalog domain.VenueCatalog,
	dialogs *usecase.UserDialogService,
	login *usecase.LoginUseCase,
	profile *usecase.ProfileUseCase,
	notifications *usecase.NotificationCenter,
	sseBroker *handler.SSEBroker,
	limiter *middleware.RateLimiter,
) http.Handler {
	portalHandler := handler.NewPortalHandler(catalog, login, profile, logger, cfg.MaxBodyBytes)
	dialogHandler := handler.NewDialogHandler(dialogs, logger, cfg.MaxBodyBytes)
	notificationHandler := handler.NewNotificationHandler(notifications, logger)

	apiMux := http.NewServeMux()

	// Reference data
	apiMux.HandleFunc("GET /api/venues", portalHandler.Venues)
	apiMux.HandleFunc("GET /api/roles", portalHandler.Roles)

	// User dialogs
	apiMux.HandleFunc("POST /api/dialogs/users", dialogHandler.OpenCreate)
	apiMux.HandleFunc("POST /api/dialogs/users/edit", dialogHandler.OpenEdit)
	apiMux.HandleFunc("GET /api/dialogs/{id}", dialogHandler.Get)
	apiMux.HandleFunc("PATCH /api/dialogs/{id}/fields", dialogHandler.SetFields)
	apiMux.HandleFunc("POST /api/dialogs/{id}/venues/toggle", dialogHandler.ToggleVenue)
	apiMux.HandleFunc("POST /api/dialogs/{id}/submit", dialogHandler.Submit)
	apiMux.HandleFunc("POST /api/dialogs/{id}/close", dialogHandler.RequestClose)
	apiMux.HandleFunc("POST /api/dialogs/{id}/close/confirm", dialogHandler.ConfirmClose)
	apiMux.HandleFunc("POST /api/dialogs/{id}/close/cancel", dialogHandler.CancelClose)

	// Sign-in and profile
	apiMux.HandleFunc("POST /api/login", portalHandler.Login)
	apiMux.HandleFunc("GET /api/profile", portalHandler.GetProfile)
	apiMux.HandleFunc("PUT /api/profile", portalHandler.SaveProfile)

	// Header notifications
	apiMux.HandleFunc("GET /api/notifications", notificationHandler.List)
	apiMux.HandleFunc("POST /api/notifications/{id}/read", notificationHandler.MarkRead)
	apiMux.HandleFunc("POST /api/notifications/read-all", notificationHandler.MarkAllRead)
	apiMux.Handle("GET /api/notifications/stream", sseBroker)

	mux := http.NewServeMux()
	mux.Handle("/api/", limiter.Middleware(apiMux))

	// Health check
	mux.HandleFunc("GET /health", portalHandler.HealthCheck)

	return middleware.Logging(logger)(mux)
}
