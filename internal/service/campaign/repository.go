package campaign

import (
	"context"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, userID, id string) (*domain.Campaign, error)

	// List returns campaigns matching the given filter, ordered by created_at DESC.
	List(ctx context.Context, userID string, filter ListFilter) ([]domain.Campaign, int, error)

	// Create inserts a new campaign and returns its ID.
	Create(ctx context.Context, c *domain.Campaign) (string, error)

	// Update modifies a campaign. Only non-nil fields in the update are applied.
	Update(ctx context.Context, userID, id string, u UpdateFields) error

	// Delete removes a campaign. Campaigns mid-send cannot be deleted.
	Delete(ctx context.Context, userID, id string) error

	// BeginSending atomically transitions draft or scheduled to sending.
	// Returns false when the campaign was in any other state, which means a
	// concurrent send won the race or the campaign already completed.
	BeginSending(ctx context.Context, id string) (bool, error)

	// MarkSent transitions a campaign to sent and stamps sent_at.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkFailed transitions a campaign to failed.
	MarkFailed(ctx context.Context, id string) error
}

// ListFilter controls pagination and filtering for campaign lists.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a campaign update.
// Nil fields are not applied.
type UpdateFields struct {
	Name        *string
	Subject     *string
	FromName    *string
	FromEmail   *string
	ReplyTo     *string
	HTMLContent *string
	ListID      *string
	TemplateID  *string
	ScheduledAt *time.Time
	Status      *domain.CampaignStatus
}
