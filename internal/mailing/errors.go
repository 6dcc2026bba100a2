package mailing

import "errors"

var (
	// ErrCampaignNotFound is returned when the campaign id does not resolve
	// for the caller. No state is mutated.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrTransportNotConfigured is returned when the owner has no usable
	// SMTP settings. The campaign status is left untouched.
	ErrTransportNotConfigured = errors.New("smtp transport not configured")

	// ErrAlreadySending is returned when another dispatch holds the lease
	// or the campaign has already left the draft/scheduled states.
	ErrAlreadySending = errors.New("campaign send already in progress")
)
