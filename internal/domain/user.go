package domain

import "time"

// User is an account holder. All contacts, lists, templates, and campaigns
// are scoped to a user; API requests resolve the user from the API key.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	APIKey    string    `json:"-" db:"api_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
