package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/V4T54L/venue-portal/internal/adapter/api/handler"
	"github.com/V4T54L/venue-portal/internal/adapter/api/middleware"
	"github.com/V4T54L/venue-portal/internal/adapter/catalog"
	"github.com/V4T54L/venue-portal/internal/adapter/validation"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/domain/mocks"
	"github.com/V4T54L/venue-portal/internal/pkg/config"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

func newTestRouter(t *testing.T, sink domain.UserSink, rps float64, burst int) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{MaxBodyBytes: 1 << 16}
	venues := catalog.NewStatic([]string{"Grand Ballroom", "Rooftop Terrace"})
	v := validation.MustNew()
	call := usecase.NewSimulatedCall("test", 0, nil)

	return NewRouter(
		cfg,
		logger,
		venues,
		usecase.NewUserDialogService(venues, v, sink, nil, logger, time.Hour),
		usecase.NewLoginUseCase(v, call, logger),
		usecase.NewProfileUseCase(domain.Profile{}, v, call, logger),
		usecase.NewNotificationCenter(&mocks.MockNotificationPublisher{}, nil, nil, logger),
		handler.NewSSEBroker(ctx, logger, time.Minute),
		middleware.NewRateLimiter(rps, burst, logger),
	)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, &mocks.MockUserSink{}, 1000, 1000)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"Health", http.MethodGet, "/health", http.StatusOK},
		{"Venues", http.MethodGet, "/api/venues", http.StatusOK},
		{"Roles", http.MethodGet, "/api/roles", http.StatusOK},
		{"Notifications", http.MethodGet, "/api/notifications", http.StatusOK},
		{"Profile", http.MethodGet, "/api/profile", http.StatusOK},
		{"Wrong method", http.MethodDelete, "/api/venues", http.StatusMethodNotAllowed},
		{"Unknown dialog", http.MethodGet, "/api/dialogs/nope", http.StatusNotFound},
		{"Unknown route", http.MethodGet, "/api/bookings", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestRouter_DialogRoundTrip(t *testing.T) {
	sink := &mocks.MockUserSink{}
	router := newTestRouter(t, sink, 1000, 1000)

	call := func(method, path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
		return rr
	}

	rr := call(http.MethodPost, "/api/dialogs/users",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","role":"staff"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("open: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var view usecase.DialogView
	json.Unmarshal(rr.Body.Bytes(), &view)

	base := "/api/dialogs/" + view.ID
	if rr = call(http.MethodPost, base+"/venues/toggle", `{"venue":"Rooftop Terrace"}`); rr.Code != http.StatusOK {
		t.Fatalf("toggle: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr = call(http.MethodPost, base+"/submit", ""); rr.Code != http.StatusOK {
		t.Fatalf("submit: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	if len(sink.Created) != 1 {
		t.Fatalf("expected one created user, got %d", len(sink.Created))
	}
	got := sink.Created[0]
	if got.Role != domain.RoleStaff || !got.AssignedVenues.Equal(domain.VenueSet{"Rooftop Terrace"}) {
		t.Errorf("unexpected submitted draft %+v", got)
	}
}

func TestRouter_RateLimitSparesHealth(t *testing.T) {
	router := newTestRouter(t, &mocks.MockUserSink{}, 0.001, 1)

	send := func(path string) int {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr.Code
	}

	if code := send("/api/roles"); code != http.StatusOK {
		t.Fatalf("first request: expected status %d, got %d", http.StatusOK, code)
	}
	if code := send("/api/roles"); code != http.StatusTooManyRequests {
		t.Errorf("second request: expected status %d, got %d", http.StatusTooManyRequests, code)
	}
	if code := send("/health"); code != http.StatusOK {
		t.Errorf("health: expected status %d, got %d", http.StatusOK, code)
	}
}
