package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/adapter/validation"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

var testVenues = []string{"Grand Ballroom", "Rooftop Terrace"}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func press(f *UserForm, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.Update(k)
	}
	return cmd
}

// submitNow presses enter and delivers the submit result, as the program loop would.
func submitNow(t *testing.T, f *UserForm) tea.Cmd {
	t.Helper()
	press(f, keyEnter)
	if !f.submitting {
		t.Fatal("enter should start submitting")
	}
	_, cmd := f.Update(f.submit()())
	return cmd
}

func TestUserForm_CreateFlow(t *testing.T) {
	var got []domain.UserDraft
	dialog := usecase.NewCreateDialog(validation.MustNew(), func(ctx context.Context, d domain.UserDraft) error {
		got = append(got, d)
		return nil
	})
	f := NewUserForm(context.Background(), dialog, testVenues)

	submitNow(t, f)
	if len(got) != 0 {
		t.Fatal("empty form must not reach the callback")
	}
	view := f.View()
	for _, msg := range []string{"First name is required", "Role is required", "At least one venue must be assigned"} {
		if !strings.Contains(view, msg) {
			t.Errorf("view missing %q", msg)
		}
	}

	press(f, keyRunes("Ada"), keyTab, keyRunes("Lovelace"), keyTab, keyRunes("ada@example.com"), keyTab)
	if strings.Contains(f.View(), "First name is required") {
		t.Error("typing should clear the first name error")
	}

	press(f, keyRight, keyRight) // admin, then manager
	if role := dialog.Draft().Role; role != domain.RoleManager {
		t.Fatalf("expected manager, got %q", role)
	}

	press(f, keyTab, keyDown, keySpace) // toggle Grand Ballroom
	if !dialog.Draft().AssignedVenues.Equal(domain.VenueSet{"Grand Ballroom"}) {
		t.Fatalf("unexpected venues %v", dialog.Draft().AssignedVenues)
	}

	cmd := submitNow(t, f)
	if !f.Submitted() || cmd == nil {
		t.Fatalf("expected submitted form and quit, err=%v", f.Err())
	}
	if len(got) != 1 {
		t.Fatalf("expected one submission, got %d", len(got))
	}
	want := domain.UserDraft{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Role:           domain.RoleManager,
		AssignedVenues: domain.VenueSet{"Grand Ballroom"},
	}
	if got[0].FullName() != want.FullName() || got[0].Email != want.Email || got[0].Role != want.Role ||
		!got[0].AssignedVenues.Equal(want.AssignedVenues) {
		t.Errorf("submitted %+v, want %+v", got[0], want)
	}
}

func TestUserForm_AllVenuesDisablesRows(t *testing.T) {
	dialog := usecase.NewCreateDialog(validation.MustNew(), func(context.Context, domain.UserDraft) error { return nil })
	f := NewUserForm(context.Background(), dialog, testVenues)

	press(f, keyTab, keyTab, keyTab, keyTab) // venues
	press(f, keySpace)                       // all venues
	if !dialog.Draft().AssignedVenues.IsAll() {
		t.Fatalf("expected all venues, got %v", dialog.Draft().AssignedVenues)
	}

	view := f.View()
	for _, v := range testVenues {
		if !strings.Contains(view, "[x] "+v) {
			t.Errorf("%q should render checked under all venues", v)
		}
	}

	press(f, keyDown, keySpace) // disabled row, ignored
	if !dialog.Draft().AssignedVenues.IsAll() {
		t.Errorf("toggling a disabled row changed the selection to %v", dialog.Draft().AssignedVenues)
	}
}

func TestUserForm_EditDiscardConfirmation(t *testing.T) {
	user := domain.User{
		ID:             uuid.New(),
		FirstName:      "Grace",
		LastName:       "Hopper",
		Email:          "grace@example.com",
		Role:           domain.RoleStaff,
		AssignedVenues: []string{"Rooftop Terrace"},
	}
	dialog := usecase.NewEditDialog(user, validation.MustNew(), func(context.Context, domain.UserDraft) error { return nil })
	f := NewUserForm(context.Background(), dialog, testVenues)

	if !strings.Contains(f.View(), "Edit User") {
		t.Error("edit dialog should be titled Edit User")
	}

	press(f, keyRunes("!"))
	press(f, keyEsc)
	if !strings.Contains(f.View(), "Close without saving?") {
		t.Fatal("dirty edit dialog should ask before closing")
	}

	press(f, keyRunes("n"))
	if dialog.State() != usecase.StateOpen || dialog.Draft().FirstName != "Grace!" {
		t.Fatalf("cancel should keep edits, got state %s draft %+v", dialog.State(), dialog.Draft())
	}

	press(f, keyEsc)
	if cmd := press(f, keyRunes("y")); cmd == nil || !f.Closed() {
		t.Fatal("confirming should close the form")
	}
	if dialog.State() != usecase.StateClosed {
		t.Errorf("expected closed dialog, got %s", dialog.State())
	}
}

func TestUserForm_CleanEscCloses(t *testing.T) {
	dialog := usecase.NewCreateDialog(validation.MustNew(), func(context.Context, domain.UserDraft) error { return nil })
	f := NewUserForm(context.Background(), dialog, testVenues)

	press(f, keyRunes("x"))
	if cmd := press(f, keyEsc); cmd == nil || !f.Closed() {
		t.Error("create dialog should close without confirmation")
	}
}

func TestUserForm_CallbackErrorKeepsForm(t *testing.T) {
	dialog := usecase.NewCreateDialog(validation.MustNew(), func(context.Context, domain.UserDraft) error {
		return errors.New("backend unavailable")
	})
	f := NewUserForm(context.Background(), dialog, testVenues)

	press(f, keyRunes("Ada"), keyTab, keyRunes("Lovelace"), keyTab, keyRunes("ada@example.com"), keyTab, keyRight, keyTab, keySpace)
	submitNow(t, f)

	if f.Submitted() || f.Err() == nil {
		t.Fatal("callback failure should leave the form open with an error")
	}
	if !strings.Contains(f.View(), "backend unavailable") {
		t.Error("view should show the callback error")
	}
	if dialog.Draft().FirstName != "Ada" {
		t.Errorf("draft should be kept, got %+v", dialog.Draft())
	}
}
