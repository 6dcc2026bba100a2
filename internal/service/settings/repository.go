package settings

import (
	"context"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Repository defines the data access contract for transport settings.
// Each user has at most one row.
type Repository interface {
	// Get returns the user's settings. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID string) (*domain.TransportSettings, error)

	// Save inserts or replaces the user's settings.
	Save(ctx context.Context, s *domain.TransportSettings) error
}
