// Package store defines the persisted User and Link records, the store
// contracts every backend implements, and the sqlx-backed implementation.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrTitleTaken is returned when the owner already has a link with the same title.
	ErrTitleTaken = errors.New("a link with this title already exists")
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Bio          string    `db:"bio"`
	Avatar       string    `db:"avatar"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Link is one entry on a user's page. UserID is the owner reference and is
// fixed at creation.
type Link struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	URL       string    `db:"url"`
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProfileUpdate holds the optional profile fields of PUT /users/me. A nil
// field is left unchanged.
type ProfileUpdate struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// LinkUpdate holds the optional link fields of PUT /links/{id}. A nil field
// is left unchanged.
type LinkUpdate struct {
	Title    *string
	URL      *string
	ImageURL *string
}

// Users exposes user data operations.
// Create enforces username and email uniqueness atomically in the backend.
type Users interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error)
}

// Links exposes link data operations. Every method that addresses an
// existing link takes the owner id and filters on it in the same statement,
// so foreign links behave exactly like missing ones.
type Links interface {
	Create(ctx context.Context, l *Link) (*Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Link, error)
	Update(ctx context.Context, id, ownerID string, p LinkUpdate) (*Link, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// isUniqueConstraintError reports whether err is a unique-index violation
// from any of the supported SQL drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
