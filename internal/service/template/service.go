package template

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Service implements template business logic.
type Service struct {
	repo     Repository
	renderer *Renderer
}

// NewService creates a template service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, renderer: NewRenderer()}
}

// Get returns a single template.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Template, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns the user's templates.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.Template, int, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

// CreateInput holds the fields for creating a template.
type CreateInput struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"html_content"`
}

// Create validates and persists a new template. The content is parsed up
// front so authors learn about syntax errors before a campaign uses it.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Template, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.renderer.Validate(input.HTMLContent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	t := &domain.Template{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		Subject:     input.Subject,
		HTMLContent: input.HTMLContent,
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// Update modifies mutable template fields. Updated content is re-validated.
func (s *Service) Update(ctx context.Context, userID, id string, u UpdateFields) error {
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return err
	}
	if u.HTMLContent != nil {
		if err := s.renderer.Validate(*u.HTMLContent); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return s.repo.Update(ctx, userID, id, u)
}

// Delete removes a template. Campaigns created from it are unaffected
// because content is copied at campaign creation time.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Preview renders a stored template with sample data so authors can see
// the personalized output without sending anything.
func (s *Service) Preview(ctx context.Context, userID, id string, sample map[string]interface{}) (string, error) {
	t, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(t.HTMLContent, sample)
}

// PreviewContent renders arbitrary content with sample data. Used by the
// editor before the template is saved.
func (s *Service) PreviewContent(_ context.Context, content string, sample map[string]interface{}) (string, error) {
	return s.renderer.Render(content, sample)
}
