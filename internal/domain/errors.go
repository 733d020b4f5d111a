package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrDialogClosed is returned for any mutation on a dialog that already closed.
	ErrDialogClosed = errors.New("dialog is closed")
	// ErrAwaitingConfirmation is returned when the dialog is waiting on a discard decision.
	ErrAwaitingConfirmation = errors.New("dialog is awaiting close confirmation")
	// ErrNotAwaitingConfirmation is returned when a discard decision arrives with no pending close.
	ErrNotAwaitingConfirmation = errors.New("dialog is not awaiting close confirmation")
	ErrUnknownField            = errors.New("unknown field")
	ErrInvalidInput            = errors.New("invalid input")
	ErrBusy                    = errors.New("operation already in progress")
)
