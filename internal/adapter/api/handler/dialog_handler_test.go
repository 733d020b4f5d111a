package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/adapter/validation"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/domain/mocks"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

const testMaxBody = 1 << 16

func newTestDialogHandler(t *testing.T, sink *mocks.MockUserSink) *DialogHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := &mocks.MockVenueCatalog{List: []string{"Grand Ballroom", "Rooftop Terrace"}}
	svc := usecase.NewUserDialogService(catalog, validation.MustNew(), sink, nil, logger, time.Hour)
	return NewDialogHandler(svc, logger, testMaxBody)
}

func doRequest(h http.HandlerFunc, method, target, id, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if id != "" {
		req.SetPathValue("id", id)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) usecase.DialogView {
	t.Helper()
	var view usecase.DialogView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode dialog view %q: %v", rr.Body.String(), err)
	}
	return view
}

func TestDialogHandler_CreateFlow(t *testing.T) {
	sink := &mocks.MockUserSink{}
	h := newTestDialogHandler(t, sink)

	rr := doRequest(h.OpenCreate, http.MethodPost, "/api/dialogs/users", "", `{"firstName":"Ada"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("open: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	view := decodeView(t, rr)
	if view.Mode != usecase.ModeCreate || view.Draft.FirstName != "Ada" {
		t.Fatalf("unexpected opened view: %+v", view)
	}
	if len(view.Venues) != 3 || view.Venues[0].Name != domain.AllVenues {
		t.Fatalf("expected sentinel row plus two venues, got %+v", view.Venues)
	}
	id := view.ID

	rr = doRequest(h.Submit, http.MethodPost, "/api/dialogs/"+id+"/submit", id, "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty submit: expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
	view = decodeView(t, rr)
	for _, field := range []string{domain.FieldLastName, domain.FieldEmail, domain.FieldRole, domain.FieldAssignedVenues} {
		if _, ok := view.Errors[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, view.Errors)
		}
	}
	if _, ok := view.Errors[domain.FieldFirstName]; ok {
		t.Errorf("firstName was prefilled and should be valid")
	}

	rr = doRequest(h.SetFields, http.MethodPatch, "/api/dialogs/"+id+"/fields", id,
		`{"lastName":"Lovelace","email":"ada@example.com","role":"manager"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set fields: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if view = decodeView(t, rr); view.RoleDescription != "Can manage bookings and venues" {
		t.Errorf("unexpected role description %q", view.RoleDescription)
	}

	rr = doRequest(h.ToggleVenue, http.MethodPost, "/api/dialogs/"+id+"/venues/toggle", id, `{"venue":"all"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	view = decodeView(t, rr)
	if _, ok := view.Errors[domain.FieldAssignedVenues]; ok {
		t.Errorf("toggle should clear the venue error")
	}
	for _, opt := range view.Venues[1:] {
		if !opt.Checked || !opt.Disabled {
			t.Errorf("expected %q checked and disabled under all venues", opt.Name)
		}
	}

	rr = doRequest(h.Submit, http.MethodPost, "/api/dialogs/"+id+"/submit", id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("submit: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if view = decodeView(t, rr); view.State != usecase.StateClosed {
		t.Errorf("expected closed dialog, got %s", view.State)
	}
	if len(sink.Created) != 1 || !sink.Created[0].AssignedVenues.IsAll() {
		t.Fatalf("expected one created user with all venues, got %+v", sink.Created)
	}

	rr = doRequest(h.Get, http.MethodGet, "/api/dialogs/"+id, id, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("closed dialog: expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestDialogHandler_EditCloseConfirmation(t *testing.T) {
	h := newTestDialogHandler(t, &mocks.MockUserSink{})

	user := domain.User{
		ID:             uuid.New(),
		FirstName:      "Grace",
		LastName:       "Hopper",
		Email:          "grace@example.com",
		Role:           domain.RoleStaff,
		AssignedVenues: []string{"Grand Ballroom"},
	}
	body, _ := json.Marshal(user)

	rr := doRequest(h.OpenEdit, http.MethodPost, "/api/dialogs/users/edit", "", string(body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("open edit: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	id := decodeView(t, rr).ID

	doRequest(h.ToggleVenue, http.MethodPost, "/", id, `{"venue":"Rooftop Terrace"}`)

	rr = doRequest(h.RequestClose, http.MethodPost, "/", id, "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("close dirty: expected status %d, got %d", http.StatusAccepted, rr.Code)
	}

	rr = doRequest(h.SetFields, http.MethodPatch, "/", id, `{"firstName":"G"}`)
	if rr.Code != http.StatusConflict {
		t.Errorf("edit while awaiting: expected status %d, got %d", http.StatusConflict, rr.Code)
	}

	rr = doRequest(h.CancelClose, http.MethodPost, "/", id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if view := decodeView(t, rr); view.State != usecase.StateOpen || !view.Dirty {
		t.Errorf("cancel should keep the dirty dialog open, got %+v", view)
	}

	doRequest(h.RequestClose, http.MethodPost, "/", id, "")
	rr = doRequest(h.ConfirmClose, http.MethodPost, "/", id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if view := decodeView(t, rr); view.State != usecase.StateClosed {
		t.Errorf("expected closed dialog, got %s", view.State)
	}
}

func TestDialogHandler_SubmitCallbackFailure(t *testing.T) {
	sink := &mocks.MockUserSink{CreateErr: errors.New("backend down")}
	h := newTestDialogHandler(t, sink)

	rr := doRequest(h.OpenCreate, http.MethodPost, "/", "",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","role":"admin"}`)
	id := decodeView(t, rr).ID
	doRequest(h.ToggleVenue, http.MethodPost, "/", id, `{"venue":"Grand Ballroom"}`)

	rr = doRequest(h.Submit, http.MethodPost, "/", id, "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rr.Code)
	}

	rr = doRequest(h.Get, http.MethodGet, "/", id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dialog should stay open, got status %d", rr.Code)
	}
	if view := decodeView(t, rr); view.Draft.Email != "ada@example.com" {
		t.Errorf("draft should be kept, got %+v", view.Draft)
	}
}

func TestDialogHandler_BadRequests(t *testing.T) {
	h := newTestDialogHandler(t, &mocks.MockUserSink{})
	id := decodeView(t, doRequest(h.OpenCreate, http.MethodPost, "/", "", "")).ID

	tests := []struct {
		name           string
		handler        http.HandlerFunc
		id             string
		body           string
		expectedStatus int
	}{
		{"Unknown dialog", h.Get, "missing", "", http.StatusNotFound},
		{"Malformed fields", h.SetFields, id, `{"firstName":`, http.StatusBadRequest},
		{"Empty fields", h.SetFields, id, `{}`, http.StatusBadRequest},
		{"Unknown field", h.SetFields, id, `{"nickname":"x"}`, http.StatusBadRequest},
		{"Missing venue", h.ToggleVenue, id, `{"venue":""}`, http.StatusBadRequest},
		{"Unexpected key", h.ToggleVenue, id, `{"name":"Grand Ballroom"}`, http.StatusBadRequest},
		{"Edit without id", h.OpenEdit, "", `{"firstName":"Ada"}`, http.StatusBadRequest},
		{"Confirm without request", h.ConfirmClose, id, "", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(tt.handler, http.MethodPost, "/", tt.id, tt.body)
			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestDialogHandler_OversizedBody(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := usecase.NewUserDialogService(&mocks.MockVenueCatalog{}, validation.MustNew(), &mocks.MockUserSink{}, nil, logger, time.Hour)
	h := NewDialogHandler(svc, logger, 16)

	rr := doRequest(h.OpenCreate, http.MethodPost, "/", "", `{"firstName":"a very long first name indeed"}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
	if svc.OpenCount() != 0 {
		t.Errorf("no dialog should be opened for a rejected body")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrDialogClosed, http.StatusGone},
		{domain.ErrBusy, http.StatusConflict},
		{domain.ErrAwaitingConfirmation, http.StatusConflict},
		{domain.ErrUnknownField, http.StatusBadRequest},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDialogHandler_RejectedPrefillLeavesNoDialog(t *testing.T) {
	h := newTestDialogHandler(t, &mocks.MockUserSink{})

	for i := 0; i < 3; i++ {
		rr := doRequest(h.OpenCreate, http.MethodPost, "/api/dialogs/users", "", `{"nickname":"x"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
		}
	}
	if n := h.svc.OpenCount(); n != 0 {
		t.Errorf("expected no hosted dialogs after rejected prefills, got %d", n)
	}
}
