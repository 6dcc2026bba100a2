package settings

import "errors"

var (
	// ErrNotFound is returned when the user has no saved settings.
	ErrNotFound = errors.New("transport settings not found")

	// ErrNotConfigured is returned when settings exist but are missing
	// the fields required to send mail.
	ErrNotConfigured = errors.New("smtp transport not configured")

	// ErrInvalidInput is wrapped around validation failures on save.
	ErrInvalidInput = errors.New("invalid settings input")
)
