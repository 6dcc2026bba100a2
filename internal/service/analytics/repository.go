package analytics

import (
	"context"
	"errors"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// ErrCampaignNotFound is returned when stats are requested for a campaign
// the caller does not own.
var ErrCampaignNotFound = errors.New("campaign not found")

// Repository defines the aggregate queries over the event log and the
// owning tables. Implementations count at read time.
type Repository interface {
	// EventCounts returns per-type event counts for one campaign.
	// Returns ErrCampaignNotFound if the campaign is not the user's.
	EventCounts(ctx context.Context, userID, campaignID string) (map[domain.EventType]int, error)

	// TotalEventCounts returns per-type event counts across all of the
	// user's campaigns.
	TotalEventCounts(ctx context.Context, userID string) (map[domain.EventType]int, error)

	// ContactCounts returns the user's total and active contact counts.
	ContactCounts(ctx context.Context, userID string) (total, active int, err error)

	// ListCount returns the user's list count.
	ListCount(ctx context.Context, userID string) (int, error)

	// CampaignCounts returns the user's total and sent campaign counts.
	CampaignCounts(ctx context.Context, userID string) (total, sent int, err error)
}
