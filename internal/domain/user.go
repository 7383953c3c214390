package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns the name to show in emails, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserSummary is the public part of a user shown to other users, e.g. in invitee suggestions.
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// SearchByEmail returns up to limit users whose email contains query, case-insensitively,
	// ordered by email.
	SearchByEmail(ctx context.Context, query string, limit int) ([]*UserSummary, error)
}

// UserService covers what a signed-in user can look up or change about users.
type UserService interface {
	// SearchUsers suggests invitees by email. Queries shorter than two characters return nothing.
	SearchUsers(ctx context.Context, query string) ([]*UserSummary, error)
	// GetPreferences returns the stored preferences, or the defaults when none were saved.
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	// UpdatePreferences merges the non-empty fields of update into the current preferences and stores them.
	UpdatePreferences(ctx context.Context, userID string, update Preferences) (*Preferences, error)
}

// AuthService signs users up and logs them in.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
}
