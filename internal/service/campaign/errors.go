package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound        = errors.New("campaign not found")
	ErrNotDraft        = errors.New("campaign is not editable after leaving draft")
	ErrAlreadySending  = errors.New("campaign is already sending or sent")
	ErrMissingList     = errors.New("campaign has no list")
	ErrInvalidSchedule = errors.New("scheduled time must be in the future")
	ErrInvalidInput    = errors.New("invalid campaign input")
)
