package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// userColumns lists the users columns selected into User. A missing email is
// stored as NULL so the unique index ignores it.
const userColumns = `id, username, COALESCE(email, '') AS email, password_hash, name, bio, avatar, created_at, updated_at`

// UserStore is the sqlx-backed implementation of Users.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Ping checks the database connection.
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts u with a fresh id and timestamps. The unique indexes on
// username and email decide conflicts.
func (s *UserStore) Create(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	rec := *u
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	var email any
	if rec.Email != "" {
		email = rec.Email
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, username, email, password_hash, name, bio, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), rec.ID, rec.Username, email, rec.PasswordHash, rec.Name, rec.Bio, rec.Avatar, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, userConflict(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &rec, nil
}

// userConflict maps a unique violation to the sentinel for the offending
// index. SQLite names the column, PostgreSQL and MySQL name the index.
func userConflict(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "users.email") || strings.Contains(msg, "idx_users_email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// GetByID returns the user with id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername returns the user with the normalized username, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields of p in one statement and returns
// the updated record.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users SET
			name = COALESCE(?, name),
			bio = COALESCE(?, bio),
			avatar = COALESCE(?, avatar),
			updated_at = ?
		WHERE id = ?
	`), p.Name, p.Bio, p.Avatar, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}
