package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// DialogMode tells a create dialog from an edit dialog.
type DialogMode string

const (
	ModeCreate DialogMode = "create"
	ModeEdit   DialogMode = "edit"
)

// DialogState is the close lifecycle of a dialog:
// open -> awaiting_confirmation -> closed, or back to open when the discard is cancelled.
type DialogState string

const (
	StateOpen                 DialogState = "open"
	StateAwaitingConfirmation DialogState = "awaiting_confirmation"
	StateClosed               DialogState = "closed"
)

// DraftValidator is the validation rule set a dialog gates submission on.
type DraftValidator interface {
	ValidateDraft(d domain.UserDraft) domain.ValidationErrors
}

// UserDialog owns the form state of one add-user or edit-user dialog for its open lifetime.
// It is not safe for concurrent use; the host serialises access.
type UserDialog struct {
	mode      DialogMode
	state     DialogState
	initial   domain.UserDraft
	draft     domain.UserDraft
	errors    domain.ValidationErrors
	dirty     bool
	validator DraftValidator
	submit    domain.SubmitFunc
}

// NewCreateDialog opens a dialog with a fresh draft.
func NewCreateDialog(validator DraftValidator, submit domain.SubmitFunc) *UserDialog {
	return newDialog(ModeCreate, domain.UserDraft{AssignedVenues: domain.VenueSet{}}, validator, submit)
}

// NewEditDialog opens a dialog hydrated from an existing user record.
func NewEditDialog(user domain.User, validator DraftValidator, submit domain.SubmitFunc) *UserDialog {
	return newDialog(ModeEdit, domain.DraftFromUser(user), validator, submit)
}

func newDialog(mode DialogMode, initial domain.UserDraft, validator DraftValidator, submit domain.SubmitFunc) *UserDialog {
	d := &UserDialog{
		mode:      mode,
		initial:   initial,
		validator: validator,
		submit:    submit,
	}
	d.Reset()
	return d
}

// Mode returns whether the dialog creates or edits a user.
func (d *UserDialog) Mode() DialogMode { return d.mode }

// State returns the close lifecycle state.
func (d *UserDialog) State() DialogState { return d.state }

// Dirty reports whether any field changed since the dialog opened or was last reset.
func (d *UserDialog) Dirty() bool { return d.dirty }

// Draft returns a copy of the current draft.
func (d *UserDialog) Draft() domain.UserDraft { return d.draft.Clone() }

// Errors returns a copy of the errors from the last failed submit.
func (d *UserDialog) Errors() domain.ValidationErrors {
	out := make(domain.ValidationErrors, len(d.errors))
	for k, v := range d.errors {
		out[k] = v
	}
	return out
}

// Reset restores the draft the dialog opened with and clears errors and the dirty flag.
func (d *UserDialog) Reset() {
	d.draft = d.initial.Clone()
	d.errors = domain.ValidationErrors{}
	d.dirty = false
	if d.state != StateClosed {
		d.state = StateOpen
	}
}

func (d *UserDialog) checkEditable() error {
	switch d.state {
	case StateClosed:
		return domain.ErrDialogClosed
	case StateAwaitingConfirmation:
		return domain.ErrAwaitingConfirmation
	}
	return nil
}

// SetField updates one scalar field and clears that field's error.
func (d *UserDialog) SetField(field, value string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}

	switch field {
	case domain.FieldFirstName:
		d.draft.FirstName = value
	case domain.FieldLastName:
		d.draft.LastName = value
	case domain.FieldEmail:
		d.draft.Email = value
	case domain.FieldRole:
		d.draft.Role = domain.UserRole(strings.TrimSpace(value))
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}

	delete(d.errors, field)
	d.dirty = true
	return nil
}

// ToggleVenue applies a venue checkbox click. Any interaction with the venue list clears
// the assignedVenues error, since the user is correcting that field.
func (d *UserDialog) ToggleVenue(venue string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}

	d.draft.AssignedVenues = domain.ToggleVenue(d.draft.AssignedVenues, venue)
	delete(d.errors, domain.FieldAssignedVenues)
	d.dirty = true
	return nil
}

// Submit validates the draft. Failing fields are stored and the dialog stays open.
// A valid draft is handed to the submit callback; on success the dialog resets and closes.
// A callback error leaves the dialog open with the draft intact.
func (d *UserDialog) Submit(ctx context.Context) (domain.ValidationErrors, error) {
	if err := d.checkEditable(); err != nil {
		return nil, err
	}

	errs := d.validator.ValidateDraft(d.draft)
	if !errs.Empty() {
		d.errors = errs
		return d.Errors(), nil
	}

	if err := d.submit(ctx, d.draft.Clone()); err != nil {
		return nil, fmt.Errorf("submit callback failed: %w", err)
	}

	d.Reset()
	d.state = StateClosed
	return domain.ValidationErrors{}, nil
}

// RequestClose asks to close the dialog. An edit dialog with unsaved changes moves to
// awaiting confirmation; anything else closes and discards at once.
func (d *UserDialog) RequestClose() (DialogState, error) {
	if err := d.checkEditable(); err != nil {
		return d.state, err
	}

	if d.mode == ModeEdit && d.dirty {
		d.state = StateAwaitingConfirmation
		return d.state, nil
	}

	d.Reset()
	d.state = StateClosed
	return d.state, nil
}

// ConfirmClose accepts the pending discard and closes the dialog.
func (d *UserDialog) ConfirmClose() error {
	if d.state != StateAwaitingConfirmation {
		return domain.ErrNotAwaitingConfirmation
	}
	d.Reset()
	d.state = StateClosed
	return nil
}

// CancelClose rejects the pending discard; the dialog stays open with its edits.
func (d *UserDialog) CancelClose() error {
	if d.state != StateAwaitingConfirmation {
		return domain.ErrNotAwaitingConfirmation
	}
	d.state = StateOpen
	return nil
}
