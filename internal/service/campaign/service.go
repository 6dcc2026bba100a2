package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// TemplateSource resolves templates when a campaign is created from one.
type TemplateSource interface {
	Get(ctx context.Context, userID, id string) (*domain.Template, error)
}

// Service implements campaign business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo      Repository
	templates TemplateSource
	now       func() time.Time
}

// NewService creates a campaign service backed by the given repository.
// templates may be nil when template-based creation is not needed.
func NewService(repo Repository, templates TemplateSource) *Service {
	return &Service{repo: repo, templates: templates, now: time.Now}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns campaigns matching the filter.
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]domain.Campaign, int, error) {
	return s.repo.List(ctx, userID, f)
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	FromName    string     `json:"from_name"`
	FromEmail   string     `json:"from_email"`
	ReplyTo     string     `json:"reply_to"`
	HTMLContent string     `json:"html_content"`
	ListID      string     `json:"list_id"`
	TemplateID  string     `json:"template_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// Create validates and persists a new campaign. Without a future schedule
// it lands in draft; with one it lands in scheduled. When a template id is
// given, empty subject/content are copied from the template at create time.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.ListID == "" {
		return nil, ErrMissingList
	}

	c := &domain.Campaign{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		Subject:     input.Subject,
		FromName:    input.FromName,
		FromEmail:   input.FromEmail,
		ReplyTo:     input.ReplyTo,
		HTMLContent: input.HTMLContent,
		Status:      domain.CampaignDraft,
	}
	listID := input.ListID
	c.ListID = &listID

	if input.TemplateID != "" {
		if s.templates == nil {
			return nil, fmt.Errorf("template source not configured")
		}
		tpl, err := s.templates.Get(ctx, userID, input.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("resolve template: %w", err)
		}
		templateID := tpl.ID
		c.TemplateID = &templateID
		if c.Subject == "" {
			c.Subject = tpl.Subject
		}
		if c.HTMLContent == "" {
			c.HTMLContent = tpl.HTMLContent
		}
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}

	if input.ScheduledAt != nil {
		if !input.ScheduledAt.After(s.now()) {
			return nil, ErrInvalidSchedule
		}
		c.ScheduledAt = input.ScheduledAt
		c.Status = domain.CampaignScheduled
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Update modifies mutable campaign fields. Only draft campaigns may be
// edited. Setting a future scheduled time moves the draft to scheduled.
func (s *Service) Update(ctx context.Context, userID, id string, u UpdateFields) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !c.Editable() {
		return ErrNotDraft
	}

	if u.ScheduledAt != nil {
		if !u.ScheduledAt.After(s.now()) {
			return ErrInvalidSchedule
		}
		scheduled := domain.CampaignScheduled
		u.Status = &scheduled
	}

	return s.repo.Update(ctx, userID, id, u)
}

// Delete removes a campaign. Campaigns mid-send cannot be deleted.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status == domain.CampaignSending {
		return ErrAlreadySending
	}
	return s.repo.Delete(ctx, userID, id)
}
