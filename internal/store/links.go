package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const linkColumns = `id, user_id, title, url, image_url, created_at, updated_at`

// LinkStore is the sqlx-backed implementation of Links.
type LinkStore struct {
	db *sqlx.DB
}

// NewLinkStore returns a LinkStore backed by db.
func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

func (s *LinkStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts l for l.UserID. A second link with the same title for the
// same owner fails with ErrTitleTaken.
func (s *LinkStore) Create(ctx context.Context, l *Link) (*Link, error) {
	now := time.Now().UTC()
	rec := *l
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO links (id, user_id, title, url, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), rec.ID, rec.UserID, rec.Title, rec.URL, rec.ImageURL, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return &rec, nil
}

// ListByOwner returns the owner's links, oldest first.
func (s *LinkStore) ListByOwner(ctx context.Context, ownerID string) ([]*Link, error) {
	links := []*Link{}
	err := s.db.SelectContext(ctx, &links, s.q(`
		SELECT `+linkColumns+` FROM links
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Update applies the non-nil fields of p to the link identified by id and
// ownerID. A missing link and a link owned by someone else both return
// ErrNotFound.
func (s *LinkStore) Update(ctx context.Context, id, ownerID string, p LinkUpdate) (*Link, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE links SET
			title = COALESCE(?, title),
			url = COALESCE(?, url),
			image_url = COALESCE(?, image_url),
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`), p.Title, p.URL, p.ImageURL, time.Now().UTC(), id, ownerID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("update link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var l Link
	err = s.db.GetContext(ctx, &l, s.q(`SELECT `+linkColumns+` FROM links WHERE id = ? AND user_id = ?`), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &l, nil
}

// Delete removes the link identified by id and ownerID.
func (s *LinkStore) Delete(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM links WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
