package domain

import "errors"

// Validation errors returned by the reminder service.
var (
	ErrEmptyMessage = errors.New("reminder message is empty")
	ErrInvalidDate  = errors.New("reminder date is invalid")
	ErrTooSoon      = errors.New("reminder date is too close or in the past")
	ErrNoIntent     = errors.New("no reminder found in text")
)

// ErrRecipientNotFound is returned by a notifier when the user cannot be reached.
var ErrRecipientNotFound = errors.New("recipient not found")
