package contact

import "errors"

// Sentinel errors for the contact service layer.
var (
	ErrNotFound       = errors.New("contact not found")
	ErrListNotFound   = errors.New("list not found")
	ErrDuplicateEmail = errors.New("a contact with this email already exists")
	ErrInvalidEmail   = errors.New("invalid email address")
)
