package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLinks, downCreateLinks)
}

func upCreateLinks(ctx context.Context, tx *sql.Tx) error {
	ts := timestampType()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS links (
    id         VARCHAR(36)   PRIMARY KEY,
    user_id    VARCHAR(36)   NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      VARCHAR(200)  NOT NULL,
    url        VARCHAR(2048) NOT NULL,
    image_url  VARCHAR(2048) NOT NULL DEFAULT '',
    created_at %[1]s NOT NULL,
    updated_at %[1]s NOT NULL
)`, ts),
		createIndex(true, "idx_links_user_title", "links", "user_id, title"),
		createIndex(false, "idx_links_user_created", "links", "user_id, created_at"),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create links table: %w", err)
		}
	}
	return nil
}

func downCreateLinks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS links`)
	return err
}
