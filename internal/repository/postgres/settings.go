package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
)

// SettingsRepo implements settings.Repository against PostgreSQL.
// transport_settings is keyed by user_id; Save upserts.
type SettingsRepo struct{ db *sql.DB }

// NewSettingsRepo creates a Postgres-backed settings repository.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context, userID string) (*domain.TransportSettings, error) {
	s := &domain.TransportSettings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, smtp_host, smtp_port, COALESCE(smtp_username,''),
		       COALESCE(smtp_password,''), use_tls, COALESCE(from_name,''),
		       COALESCE(from_email,''), COALESCE(footer_html,''),
		       include_unsubscribe, updated_at
		FROM transport_settings
		WHERE user_id = $1
	`, userID).Scan(
		&s.UserID, &s.SMTPHost, &s.SMTPPort, &s.SMTPUser,
		&s.SMTPPass, &s.UseTLS, &s.FromName,
		&s.FromEmail, &s.FooterHTML,
		&s.IncludeUnsubscribe, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, settings.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transport settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s *domain.TransportSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transport_settings
			(user_id, smtp_host, smtp_port, smtp_username, smtp_password,
			 use_tls, from_name, from_email, footer_html, include_unsubscribe,
			 updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			smtp_host = EXCLUDED.smtp_host,
			smtp_port = EXCLUDED.smtp_port,
			smtp_username = EXCLUDED.smtp_username,
			smtp_password = EXCLUDED.smtp_password,
			use_tls = EXCLUDED.use_tls,
			from_name = EXCLUDED.from_name,
			from_email = EXCLUDED.from_email,
			footer_html = EXCLUDED.footer_html,
			include_unsubscribe = EXCLUDED.include_unsubscribe,
			updated_at = NOW()
	`, s.UserID, s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPass,
		s.UseTLS, s.FromName, s.FromEmail, s.FooterHTML, s.IncludeUnsubscribe)
	if err != nil {
		return fmt.Errorf("save transport settings: %w", err)
	}
	return nil
}
