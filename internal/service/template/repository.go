package template

import (
	"context"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Repository defines the data access contract for templates.
type Repository interface {
	// Get returns a single template. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID, id string) (*domain.Template, error)

	// List returns the user's templates, newest first.
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Template, int, error)

	// Create inserts a template and returns its ID.
	Create(ctx context.Context, t *domain.Template) (string, error)

	// Update applies non-nil fields.
	Update(ctx context.Context, userID, id string, u UpdateFields) error

	// Delete removes a template. Campaigns created from it keep their copy.
	Delete(ctx context.Context, userID, id string) error
}

// UpdateFields holds the mutable fields for a template update.
// Nil fields are not applied.
type UpdateFields struct {
	Name        *string
	Subject     *string
	HTMLContent *string
}
