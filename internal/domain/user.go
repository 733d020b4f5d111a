package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole defines the permission level of a portal user.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)

// Roles lists the assignable roles in display order.
var Roles = []UserRole{RoleAdmin, RoleManager, RoleStaff}

var roleDescriptions = map[UserRole]string{
	RoleAdmin:   "Full access to all features and settings",
	RoleManager: "Can manage bookings and venues",
	RoleStaff:   "Can view and manage bookings",
}

// Valid reports whether r is one of the assignable roles.
func (r UserRole) Valid() bool {
	_, ok := roleDescriptions[r]
	return ok
}

// Description returns the help text shown next to the role picker.
// Unknown roles have no description.
func (r UserRole) Description() string {
	return roleDescriptions[r]
}

// Form field names, as they appear in ValidationErrors and on the wire.
const (
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldEmail          = "email"
	FieldRole           = "role"
	FieldAssignedVenues = "assignedVenues"
)

// UserDraft is the in-progress, unsaved representation of a user being created or edited.
type UserDraft struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Role           UserRole `json:"role"`
	AssignedVenues VenueSet `json:"assignedVenues"`
}

// Clone returns a deep copy so callers can't alias the venue slice.
func (d UserDraft) Clone() UserDraft {
	d.AssignedVenues = d.AssignedVenues.Clone()
	return d
}

// User is an existing portal user as supplied by the hosting page when an edit dialog opens.
type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Role           UserRole  `json:"role"`
	AssignedVenues []string  `json:"assignedVenues"`
	Status         string    `json:"status,omitempty"`
	LastLogin      time.Time `json:"lastLogin,omitempty"`
}

// DraftFromUser hydrates a draft from an existing user record.
func DraftFromUser(u User) UserDraft {
	return UserDraft{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		AssignedVenues: NewVenueSet(u.AssignedVenues...),
	}
}

// FullName joins the first and last name the way the user table shows it.
func (d UserDraft) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

// ValidationErrors maps a field name to a human readable message.
// A missing key means the field is valid.
type ValidationErrors map[string]string

// Empty reports whether no field failed.
func (e ValidationErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in form order.
func (e ValidationErrors) Fields() []string {
	order := []string{FieldFirstName, FieldLastName, FieldEmail, FieldRole, FieldAssignedVenues}
	fields := make([]string, 0, len(e))
	for _, f := range order {
		if _, ok := e[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}
