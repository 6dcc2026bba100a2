package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
)

// ContactRepo implements contact.Repository against PostgreSQL, plus the
// dispatcher's recipient resolution.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) GetContact(ctx context.Context, userID, id string) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, COALESCE(name,''), status, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) FindByEmail(ctx context.Context, userID, email string) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, COALESCE(name,''), status, created_at, updated_at
		FROM contacts
		WHERE user_id = $1 AND email = $2
	`, userID, email).Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact by email: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) FindAllByEmail(ctx context.Context, email string) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, email, COALESCE(name,''), status, created_at, updated_at
		FROM contacts
		WHERE email = $1
		ORDER BY created_at
	`, email)
	if err != nil {
		return nil, fmt.Errorf("find contacts by email: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) ListContacts(ctx context.Context, userID string, f contact.ListFilter) ([]domain.Contact, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	idx := 2
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, user_id, email, COALESCE(name,''), status, created_at, updated_at
		FROM contacts %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ContactRepo) CreateContact(ctx context.Context, c *domain.Contact) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, email, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, c.ID, c.UserID, c.Email, c.Name, c.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", contact.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create contact: %w", err)
	}
	return c.ID, nil
}

func (r *ContactRepo) UpdateContact(ctx context.Context, userID, id string, u contact.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), idx, idx+1)
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return contact.ErrDuplicateEmail
		}
		return fmt.Errorf("update contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) DeleteContact(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM contacts WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) SetStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set contact status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) GetList(ctx context.Context, userID, id string) (*domain.List, error) {
	l := &domain.List{}
	err := r.db.QueryRowContext(ctx, `
		SELECT l.id, l.user_id, l.name, COALESCE(l.description,''),
		       (SELECT COUNT(*) FROM contact_list_members m WHERE m.list_id = l.id),
		       l.created_at, l.updated_at
		FROM contact_lists l
		WHERE l.id = $1 AND l.user_id = $2
	`, id, userID).Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.ContactCount, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, contact.ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (r *ContactRepo) ListLists(ctx context.Context, userID string, f contact.ListFilter) ([]domain.List, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_lists WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lists: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.name, COALESCE(l.description,''),
		       (SELECT COUNT(*) FROM contact_list_members m WHERE m.list_id = l.id),
		       l.created_at, l.updated_at
		FROM contact_lists l
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var out []domain.List
	for rows.Next() {
		var l domain.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.ContactCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan list: %w", err)
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *ContactRepo) CreateList(ctx context.Context, l *domain.List) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_lists (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, l.ID, l.UserID, l.Name, l.Description)
	if err != nil {
		return "", fmt.Errorf("create list: %w", err)
	}
	return l.ID, nil
}

func (r *ContactRepo) UpdateList(ctx context.Context, userID, id string, name, description *string) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	if name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *name)
		idx++
	}
	if description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", idx))
		args = append(args, *description)
		idx++
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE contact_lists SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), idx, idx+1)
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrListNotFound
	}
	return nil
}

func (r *ContactRepo) DeleteList(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM contact_lists WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrListNotFound
	}
	return nil
}

func (r *ContactRepo) AddToList(ctx context.Context, listID, contactID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_list_members (list_id, contact_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (list_id, contact_id) DO NOTHING
	`, listID, contactID)
	if err != nil {
		return fmt.Errorf("add to list: %w", err)
	}
	return nil
}

func (r *ContactRepo) RemoveFromList(ctx context.Context, listID, contactID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM contact_list_members WHERE list_id = $1 AND contact_id = $2
	`, listID, contactID)
	if err != nil {
		return fmt.Errorf("remove from list: %w", err)
	}
	return nil
}

func (r *ContactRepo) ListMembers(ctx context.Context, listID string, f contact.ListFilter) ([]domain.Contact, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_list_members WHERE list_id = $1`, listID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.email, COALESCE(c.name,''), c.status, c.created_at, c.updated_at
		FROM contact_list_members m
		JOIN contacts c ON c.id = m.contact_id
		WHERE m.list_id = $1
		ORDER BY m.created_at LIMIT $2 OFFSET $3
	`, listID, limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// ActiveMembers materializes a list's eligible recipients in membership
// order. Unsubscribed and bounced contacts are excluded here, not later.
func (r *ContactRepo) ActiveMembers(ctx context.Context, listID string) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.email, COALESCE(c.name,''), c.status, c.created_at, c.updated_at
		FROM contact_list_members m
		JOIN contacts c ON c.id = m.contact_id
		WHERE m.list_id = $1 AND c.status = 'active'
		ORDER BY m.created_at
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
