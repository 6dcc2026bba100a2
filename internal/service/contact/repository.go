package contact

import (
	"context"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Repository defines the data access contract for contacts, lists, and
// list membership. Implementations must be safe for concurrent use.
type Repository interface {
	// GetContact returns a single contact. Returns ErrNotFound if absent.
	GetContact(ctx context.Context, userID, id string) (*domain.Contact, error)

	// FindByEmail looks a contact up by email within one user's account.
	// Returns ErrNotFound when that user has no contact with the address.
	FindByEmail(ctx context.Context, userID, email string) (*domain.Contact, error)

	// FindAllByEmail returns every contact with the address, across all
	// users, oldest first. An unknown address yields an empty slice.
	FindAllByEmail(ctx context.Context, email string) ([]domain.Contact, error)

	// ListContacts returns the user's contacts, newest first.
	ListContacts(ctx context.Context, userID string, f ListFilter) ([]domain.Contact, int, error)

	// CreateContact inserts a contact. Returns ErrDuplicateEmail when the
	// user already has a contact with that address.
	CreateContact(ctx context.Context, c *domain.Contact) (string, error)

	// UpdateContact applies non-nil fields.
	UpdateContact(ctx context.Context, userID, id string, u UpdateFields) error

	// DeleteContact removes a contact and its list memberships.
	DeleteContact(ctx context.Context, userID, id string) error

	// SetStatus updates a contact's status by id.
	SetStatus(ctx context.Context, id string, status domain.ContactStatus) error

	// GetList returns a single list. Returns ErrListNotFound if absent.
	GetList(ctx context.Context, userID, id string) (*domain.List, error)

	// ListLists returns the user's lists, newest first.
	ListLists(ctx context.Context, userID string, f ListFilter) ([]domain.List, int, error)

	// CreateList inserts a list and returns its ID.
	CreateList(ctx context.Context, l *domain.List) (string, error)

	// UpdateList applies non-nil name/description fields.
	UpdateList(ctx context.Context, userID, id string, name, description *string) error

	// DeleteList removes a list and its memberships. Contacts survive.
	DeleteList(ctx context.Context, userID, id string) error

	// AddToList adds a contact to a list. Adding twice is a no-op.
	AddToList(ctx context.Context, listID, contactID string) error

	// RemoveFromList removes a contact from a list.
	RemoveFromList(ctx context.Context, listID, contactID string) error

	// ListMembers returns the contacts in a list in membership order.
	ListMembers(ctx context.Context, listID string, f ListFilter) ([]domain.Contact, int, error)
}

// ListFilter controls pagination and filtering for contact/list queries.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a contact update.
// Nil fields are not applied.
type UpdateFields struct {
	Email  *string
	Name   *string
	Status *domain.ContactStatus
}
