package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/service/analytics"
)

// EventRepo persists the append-only campaign event log and serves the
// aggregate queries analytics computes its numbers from.
type EventRepo struct{ db *sql.DB }

// NewEventRepo creates a Postgres-backed event repository.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Insert(ctx context.Context, e *domain.CampaignEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaign_events
			(id, campaign_id, contact_id, event_type, link_url,
			 bounce_type, bounce_reason, ip_address, user_agent, event_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ID, e.CampaignID, e.ContactID, e.EventType, e.LinkURL,
		e.BounceType, e.BounceReason, e.IPAddress, e.UserAgent, e.EventAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepo) HasOpened(ctx context.Context, campaignID, contactID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM campaign_events
			WHERE campaign_id = $1 AND contact_id = $2 AND event_type = 'opened'
		)
	`, campaignID, contactID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check opened: %w", err)
	}
	return exists, nil
}

// ListEvents returns a campaign's events newest first, for the activity feed.
func (r *EventRepo) ListEvents(ctx context.Context, campaignID string, limit, offset int) ([]domain.CampaignEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, campaign_id, contact_id, event_type, COALESCE(link_url,''),
		       COALESCE(bounce_type,''), COALESCE(bounce_reason,''),
		       COALESCE(ip_address,''), COALESCE(user_agent,''), event_at
		FROM campaign_events
		WHERE campaign_id = $1
		ORDER BY event_at DESC LIMIT $2 OFFSET $3
	`, campaignID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignEvent
	for rows.Next() {
		var e domain.CampaignEvent
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.ContactID, &e.EventType, &e.LinkURL,
			&e.BounceType, &e.BounceReason, &e.IPAddress, &e.UserAgent, &e.EventAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepo) EventCounts(ctx context.Context, userID, campaignID string) (map[domain.EventType]int, error) {
	var owned bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1 AND user_id = $2)
	`, campaignID, userID).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("check campaign: %w", err)
	}
	if !owned {
		return nil, analytics.ErrCampaignNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT event_type, COUNT(*)
		FROM campaign_events
		WHERE campaign_id = $1
		GROUP BY event_type
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	return scanEventCounts(rows)
}

func (r *EventRepo) TotalEventCounts(ctx context.Context, userID string) (map[domain.EventType]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.event_type, COUNT(*)
		FROM campaign_events e
		JOIN campaigns c ON c.id = e.campaign_id
		WHERE c.user_id = $1
		GROUP BY e.event_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count total events: %w", err)
	}
	defer rows.Close()

	return scanEventCounts(rows)
}

func (r *EventRepo) ContactCounts(ctx context.Context, userID string) (total, active int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM contacts WHERE user_id = $1
	`, userID).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, active, nil
}

func (r *EventRepo) ListCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_lists WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count lists: %w", err)
	}
	return n, nil
}

func (r *EventRepo) CampaignCounts(ctx context.Context, userID string) (total, sent int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'sent')
		FROM campaigns WHERE user_id = $1
	`, userID).Scan(&total, &sent)
	if err != nil {
		return 0, 0, fmt.Errorf("count campaigns: %w", err)
	}
	return total, sent, nil
}

func scanEventCounts(rows *sql.Rows) (map[domain.EventType]int, error) {
	counts := make(map[domain.EventType]int)
	for rows.Next() {
		var t domain.EventType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
