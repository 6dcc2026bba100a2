package mailing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// EventRepository is the persistence contract for the append-only event log.
type EventRepository interface {
	// Insert appends one event. Events are never updated or deleted.
	Insert(ctx context.Context, e *domain.CampaignEvent) error

	// HasOpened reports whether an opened event already exists for the
	// (campaign, contact) pair.
	HasOpened(ctx context.Context, campaignID, contactID string) (bool, error)
}

// EventRecorder appends campaign events. Opened events saturate at one per
// (campaign, contact) pair; every other type appends unconditionally.
type EventRecorder struct {
	repo EventRepository
	now  func() time.Time
}

// NewEventRecorder creates a recorder backed by the given repository.
func NewEventRecorder(repo EventRepository) *EventRecorder {
	return &EventRecorder{repo: repo, now: time.Now}
}

func (r *EventRecorder) insert(ctx context.Context, e *domain.CampaignEvent) error {
	e.ID = uuid.New().String()
	e.EventAt = r.now().UTC()
	return r.repo.Insert(ctx, e)
}

// RecordSent appends a sent event for a successful delivery.
func (r *EventRecorder) RecordSent(ctx context.Context, campaignID, contactID string) error {
	return r.insert(ctx, &domain.CampaignEvent{
		CampaignID: campaignID,
		ContactID:  contactID,
		EventType:  domain.EventSent,
	})
}

// RecordBounced appends a bounced event carrying the delivery failure.
// Per-recipient SMTP failures are classified as soft bounces.
func (r *EventRecorder) RecordBounced(ctx context.Context, campaignID, contactID, reason string) error {
	return r.insert(ctx, &domain.CampaignEvent{
		CampaignID:   campaignID,
		ContactID:    contactID,
		EventType:    domain.EventBounced,
		BounceType:   "soft",
		BounceReason: reason,
	})
}

// RecordOpen appends an opened event unless one already exists for the
// pair, so pixel re-fetches never inflate open counts.
func (r *EventRecorder) RecordOpen(ctx context.Context, campaignID, contactID, ip, userAgent string) error {
	opened, err := r.repo.HasOpened(ctx, campaignID, contactID)
	if err != nil {
		return err
	}
	if opened {
		return nil
	}
	return r.insert(ctx, &domain.CampaignEvent{
		CampaignID: campaignID,
		ContactID:  contactID,
		EventType:  domain.EventOpened,
		IPAddress:  ip,
		UserAgent:  userAgent,
	})
}

// RecordClick appends a clicked event. Clicks are not deduplicated.
func (r *EventRecorder) RecordClick(ctx context.Context, campaignID, contactID, linkURL, ip, userAgent string) error {
	return r.insert(ctx, &domain.CampaignEvent{
		CampaignID: campaignID,
		ContactID:  contactID,
		EventType:  domain.EventClicked,
		LinkURL:    linkURL,
		IPAddress:  ip,
		UserAgent:  userAgent,
	})
}

// RecordUnsubscribed appends an unsubscribed event. Repeated unsubscribes
// append repeated events; the log records what happened, not state.
func (r *EventRecorder) RecordUnsubscribed(ctx context.Context, campaignID, contactID string) error {
	return r.insert(ctx, &domain.CampaignEvent{
		CampaignID: campaignID,
		ContactID:  contactID,
		EventType:  domain.EventUnsubscribed,
	})
}
