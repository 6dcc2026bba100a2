package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/pkg/logger"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
)

// EventRecorder appends unsubscribe events to the campaign event log.
type EventRecorder interface {
	RecordUnsubscribed(ctx context.Context, campaignID, contactID string) error
}

// CampaignOwnerSource resolves which account owns a campaign. Returns
// campaign.ErrNotFound for an unknown campaign id.
type CampaignOwnerSource interface {
	Owner(ctx context.Context, campaignID string) (string, error)
}

// Service implements contact and list business logic.
type Service struct {
	repo      Repository
	events    EventRecorder
	campaigns CampaignOwnerSource
}

// NewService creates a contact service. events and campaigns may be nil in
// contexts that never process unsubscribes (e.g. import tools).
func NewService(repo Repository, events EventRecorder, campaigns CampaignOwnerSource) *Service {
	return &Service{repo: repo, events: events, campaigns: campaigns}
}

// GetContact returns a single contact.
func (s *Service) GetContact(ctx context.Context, userID, id string) (*domain.Contact, error) {
	return s.repo.GetContact(ctx, userID, id)
}

// ListContacts returns the user's contacts matching the filter.
func (s *Service) ListContacts(ctx context.Context, userID string, f ListFilter) ([]domain.Contact, int, error) {
	return s.repo.ListContacts(ctx, userID, f)
}

// CreateContact validates and persists a new active contact.
func (s *Service) CreateContact(ctx context.Context, userID, email, name string) (*domain.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	c := &domain.Contact{
		ID:     uuid.New().String(),
		UserID: userID,
		Email:  email,
		Name:   name,
		Status: domain.ContactActive,
	}
	id, err := s.repo.CreateContact(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// UpdateContact applies non-nil fields to a contact.
func (s *Service) UpdateContact(ctx context.Context, userID, id string, u UpdateFields) error {
	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		if !ValidEmail(email) {
			return ErrInvalidEmail
		}
		u.Email = &email
	}
	return s.repo.UpdateContact(ctx, userID, id, u)
}

// DeleteContact removes a contact and its list memberships.
func (s *Service) DeleteContact(ctx context.Context, userID, id string) error {
	return s.repo.DeleteContact(ctx, userID, id)
}

// GetList returns a single list.
func (s *Service) GetList(ctx context.Context, userID, id string) (*domain.List, error) {
	return s.repo.GetList(ctx, userID, id)
}

// ListLists returns the user's lists matching the filter.
func (s *Service) ListLists(ctx context.Context, userID string, f ListFilter) ([]domain.List, int, error) {
	return s.repo.ListLists(ctx, userID, f)
}

// CreateList validates and persists a new list.
func (s *Service) CreateList(ctx context.Context, userID, name, description string) (*domain.List, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	l := &domain.List{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	id, err := s.repo.CreateList(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// UpdateList applies non-nil name/description fields.
func (s *Service) UpdateList(ctx context.Context, userID, id string, name, description *string) error {
	return s.repo.UpdateList(ctx, userID, id, name, description)
}

// DeleteList removes a list. Contacts survive list deletion.
func (s *Service) DeleteList(ctx context.Context, userID, id string) error {
	return s.repo.DeleteList(ctx, userID, id)
}

// AddToList adds a contact to a list after checking both belong to the user.
// Adding an existing member is a no-op.
func (s *Service) AddToList(ctx context.Context, userID, listID, contactID string) error {
	if _, err := s.repo.GetList(ctx, userID, listID); err != nil {
		return err
	}
	if _, err := s.repo.GetContact(ctx, userID, contactID); err != nil {
		return err
	}
	return s.repo.AddToList(ctx, listID, contactID)
}

// RemoveFromList removes a contact from a list.
func (s *Service) RemoveFromList(ctx context.Context, userID, listID, contactID string) error {
	if _, err := s.repo.GetList(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.RemoveFromList(ctx, listID, contactID)
}

// ListMembers returns the contacts in a list.
func (s *Service) ListMembers(ctx context.Context, userID, listID string, f ListFilter) ([]domain.Contact, int, error) {
	if _, err := s.repo.GetList(ctx, userID, listID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListMembers(ctx, listID, f)
}

// UnsubscribeByEmail marks the contact with the given email unsubscribed.
// Returns false without mutating anything when the email is unknown.
//
// With a campaign id the lookup is scoped to the account that owns the
// campaign, so shared addresses in other accounts are left untouched; an
// unknown campaign id mutates nothing. Without a campaign id (or without a
// resolver) every contact carrying the address is unsubscribed and no event
// is recorded. Marking an already-unsubscribed contact again is harmless;
// on the scoped path an unsubscribed event is appended on every call.
func (s *Service) UnsubscribeByEmail(ctx context.Context, email, campaignID string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if campaignID != "" && s.campaigns != nil {
		ownerID, err := s.campaigns.Owner(ctx, campaignID)
		if errors.Is(err, campaign.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		c, err := s.repo.FindByEmail(ctx, ownerID, email)
		if err == ErrNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if err := s.repo.SetStatus(ctx, c.ID, domain.ContactUnsubscribed); err != nil {
			return false, err
		}
		s.recordUnsubscribe(ctx, campaignID, c.ID)
		return true, nil
	}

	contacts, err := s.repo.FindAllByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	for _, c := range contacts {
		if err := s.repo.SetStatus(ctx, c.ID, domain.ContactUnsubscribed); err != nil {
			return false, err
		}
	}
	return len(contacts) > 0, nil
}

// UnsubscribeByContact handles one-click unsubscribes from signed tokens.
func (s *Service) UnsubscribeByContact(ctx context.Context, contactID, campaignID string) error {
	if err := s.repo.SetStatus(ctx, contactID, domain.ContactUnsubscribed); err != nil {
		return err
	}
	s.recordUnsubscribe(ctx, campaignID, contactID)
	return nil
}

func (s *Service) recordUnsubscribe(ctx context.Context, campaignID, contactID string) {
	if s.events == nil || campaignID == "" {
		return
	}
	if err := s.events.RecordUnsubscribed(ctx, campaignID, contactID); err != nil {
		logger.Warn("record unsubscribe event failed",
			"campaign_id", campaignID, "contact_id", contactID, "error", err)
	}
}

// ValidEmail performs basic structural email validation.
func ValidEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	local, domainPart := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return false
	}
	if len(domainPart) == 0 || len(domainPart) > 253 {
		return false
	}
	return strings.Contains(domainPart, ".")
}
