package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// ErrUserNotFound is returned when no user matches an API key.
var ErrUserNotFound = errors.New("user not found")

// UserRepo resolves API callers against PostgreSQL.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// FindByAPIKey returns the user owning the given API key.
func (r *UserRepo) FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, COALESCE(name,''), api_key, created_at
		FROM users
		WHERE api_key = $1
	`, apiKey).Scan(&u.ID, &u.Email, &u.Name, &u.APIKey, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by api key: %w", err)
	}
	return u, nil
}
