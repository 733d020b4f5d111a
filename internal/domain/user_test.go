package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserRole(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
		if r.Description() == "" {
			t.Errorf("role %q has no description", r)
		}
	}
	if UserRole("owner").Valid() {
		t.Error("unknown role should not be valid")
	}
	if UserRole("").Description() != "" {
		t.Error("empty role should have no description")
	}
}

func TestDraftFromUser(t *testing.T) {
	u := User{
		ID:             uuid.New(),
		FirstName:      "Ann",
		LastName:       "Lee",
		Email:          "ann@x.com",
		Role:           RoleManager,
		AssignedVenues: []string{"Rooftop", "Garden", "Rooftop"},
	}

	d := DraftFromUser(u)
	if d.FirstName != "Ann" || d.LastName != "Lee" || d.Email != "ann@x.com" || d.Role != RoleManager {
		t.Errorf("unexpected scalar fields: %+v", d)
	}
	if !d.AssignedVenues.Equal(VenueSet{"Rooftop", "Garden"}) {
		t.Errorf("unexpected venues: %v", d.AssignedVenues)
	}

	d.AssignedVenues[0] = "Changed"
	if u.AssignedVenues[0] != "Rooftop" {
		t.Error("draft aliases the user record's venues")
	}
}

func TestUserDraft_Clone(t *testing.T) {
	d := UserDraft{AssignedVenues: VenueSet{"A"}}
	c := d.Clone()
	c.AssignedVenues[0] = "B"
	if d.AssignedVenues[0] != "A" {
		t.Error("clone shares venue storage")
	}
}

func TestValidationErrors_Fields(t *testing.T) {
	errs := ValidationErrors{
		FieldAssignedVenues: "x",
		FieldFirstName:      "y",
		FieldEmail:          "z",
	}
	got := errs.Fields()
	want := []string{FieldFirstName, FieldEmail, FieldAssignedVenues}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if !(ValidationErrors{}).Empty() {
		t.Error("expected empty")
	}
}
