// Package settings manages per-user transport configuration: SMTP
// credentials, sender defaults, and the footer appended to outgoing mail.
// It also exposes a connectivity check so users can verify credentials
// before a campaign depends on them.
package settings
