package settings

import (
	"context"
	"fmt"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Verifier checks that a set of SMTP credentials can open a session.
type Verifier interface {
	Verify(ctx context.Context, s *domain.TransportSettings) error
}

// Service implements transport settings business logic.
type Service struct {
	repo     Repository
	verifier Verifier
}

// NewService creates a settings service. verifier may be nil, in which
// case Verify reports settings as unverifiable.
func NewService(repo Repository, verifier Verifier) *Service {
	return &Service{repo: repo, verifier: verifier}
}

// Get returns the user's settings.
func (s *Service) Get(ctx context.Context, userID string) (*domain.TransportSettings, error) {
	return s.repo.Get(ctx, userID)
}

// SaveInput holds the writable transport settings fields. An empty
// password keeps the previously stored one so updates need not resend it.
type SaveInput struct {
	SMTPHost           string `json:"smtp_host"`
	SMTPPort           int    `json:"smtp_port"`
	SMTPUser           string `json:"smtp_username"`
	SMTPPass           string `json:"smtp_password"`
	UseTLS             bool   `json:"use_tls"`
	FromName           string `json:"from_name"`
	FromEmail          string `json:"from_email"`
	FooterHTML         string `json:"footer_html"`
	IncludeUnsubscribe bool   `json:"include_unsubscribe"`
}

// Save validates and upserts the user's settings.
func (s *Service) Save(ctx context.Context, userID string, input SaveInput) (*domain.TransportSettings, error) {
	if input.SMTPHost == "" {
		return nil, fmt.Errorf("%w: smtp_host is required", ErrInvalidInput)
	}
	if input.SMTPPort <= 0 || input.SMTPPort > 65535 {
		return nil, fmt.Errorf("%w: smtp_port must be between 1 and 65535", ErrInvalidInput)
	}

	ts := &domain.TransportSettings{
		UserID:             userID,
		SMTPHost:           input.SMTPHost,
		SMTPPort:           input.SMTPPort,
		SMTPUser:           input.SMTPUser,
		SMTPPass:           input.SMTPPass,
		UseTLS:             input.UseTLS,
		FromName:           input.FromName,
		FromEmail:          input.FromEmail,
		FooterHTML:         input.FooterHTML,
		IncludeUnsubscribe: input.IncludeUnsubscribe,
	}

	if ts.SMTPPass == "" {
		prev, err := s.repo.Get(ctx, userID)
		if err == nil {
			ts.SMTPPass = prev.SMTPPass
		} else if err != ErrNotFound {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Verify opens and closes an SMTP session with the stored credentials.
func (s *Service) Verify(ctx context.Context, userID string) error {
	ts, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !ts.Configured() {
		return ErrNotConfigured
	}
	if s.verifier == nil {
		return fmt.Errorf("no transport verifier configured")
	}
	return s.verifier.Verify(ctx, ts)
}
