package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// emailPattern is the deliberately loose text@text.text shape used by the portal forms.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	tagSimpleEmail    = "simple_email"
	tagPortalRole     = "portal_role"
	tagVenueSelection = "venue_selection"
)

// userForm is the trimmed view of a domain.UserDraft that the rules run against.
type userForm struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"required,simple_email"`
	Role           string   `json:"role" validate:"required,portal_role"`
	AssignedVenues []string `json:"assignedVenues" validate:"required,min=1,venue_selection"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,simple_email"`
	Password string `json:"password" validate:"required"`
}

type profileForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,simple_email"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	Company   string `json:"company"`
}

// messages maps "field.tag" to the inline text shown under an input.
var messages = map[string]string{
	"firstName.required":                  "First name is required",
	"lastName.required":                   "Last name is required",
	"email.required":                      "Email is required",
	"email." + tagSimpleEmail:             "Email is invalid",
	"role.required":                       "Role is required",
	"role." + tagPortalRole:               "Role must be one of admin, manager or staff",
	"assignedVenues.required":             "At least one venue must be assigned",
	"assignedVenues.min":                  "At least one venue must be assigned",
	"assignedVenues." + tagVenueSelection: "All venues cannot be combined with individual venues",
	"password.required":                   "Password is required",
	"phone.e164":                          "Phone number is invalid",
}

// Validator turns form structs into domain.ValidationErrors.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the portal's custom rules registered.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		tagSimpleEmail:    validateSimpleEmail,
		tagPortalRole:     validatePortalRole,
		tagVenueSelection: validateVenueSelection,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}

	return &Validator{validate: v}, nil
}

// MustNew is New for package-level wiring and tests; it panics on registration failure.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateDraft checks every field of the draft and reports all failures together.
func (v *Validator) ValidateDraft(d domain.UserDraft) domain.ValidationErrors {
	form := userForm{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.TrimSpace(d.Email),
		// Not trimmed: a padded role would reach the submit callback as is.
		Role: string(d.Role),
	}
	if len(d.AssignedVenues) > 0 {
		form.AssignedVenues = d.AssignedVenues.Clone()
	}
	return v.Struct(&form)
}

// ValidateLogin checks the sign-in form.
func (v *Validator) ValidateLogin(c domain.Credentials) domain.ValidationErrors {
	return v.Struct(&loginForm{
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	})
}

// ValidateProfile checks the profile settings form.
func (v *Validator) ValidateProfile(p domain.Profile) domain.ValidationErrors {
	return v.Struct(&profileForm{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.TrimSpace(p.Email),
		Phone:     strings.TrimSpace(p.Phone),
		Company:   p.Company,
	})
}

// Struct runs the tag rules on any form struct. The result is never nil.
func (v *Validator) Struct(form any) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	err := v.validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: a programming error, not user input.
		panic(err)
	}
	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if tag == "required" {
		return field + " is required"
	}
	return field + " is invalid"
}

func validateSimpleEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// validatePortalRole closes the role set; the form never offers anything else.
func validatePortalRole(fl validator.FieldLevel) bool {
	return domain.UserRole(fl.Field().String()).Valid()
}

func validateVenueSelection(fl validator.FieldLevel) bool {
	venues, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	return !domain.VenueSet(venues).Mixed()
}
