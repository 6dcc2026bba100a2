package domain

import "time"

// TransportSettings holds a user's SMTP credentials and sending defaults.
// Credentials never appear in JSON responses.
type TransportSettings struct {
	UserID             string    `json:"user_id" db:"user_id"`
	SMTPHost           string    `json:"smtp_host" db:"smtp_host"`
	SMTPPort           int       `json:"smtp_port" db:"smtp_port"`
	SMTPUser           string    `json:"-" db:"smtp_username"`
	SMTPPass           string    `json:"-" db:"smtp_password"`
	UseTLS             bool      `json:"use_tls" db:"use_tls"`
	FromName           string    `json:"from_name" db:"from_name"`
	FromEmail          string    `json:"from_email" db:"from_email"`
	FooterHTML         string    `json:"footer_html" db:"footer_html"`
	IncludeUnsubscribe bool      `json:"include_unsubscribe" db:"include_unsubscribe"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Configured reports whether the settings are usable for sending.
// A host is the minimum; everything else has a workable zero value.
func (s *TransportSettings) Configured() bool {
	return s.SMTPHost != ""
}
