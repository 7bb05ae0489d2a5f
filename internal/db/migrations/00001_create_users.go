package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	ts := timestampType()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
    id            VARCHAR(36)   PRIMARY KEY,
    username      VARCHAR(32)   NOT NULL,
    email         VARCHAR(255)  NULL,
    password_hash VARCHAR(255)  NOT NULL,
    name          VARCHAR(100)  NOT NULL DEFAULT '',
    bio           VARCHAR(500)  NOT NULL DEFAULT '',
    avatar        VARCHAR(2048) NOT NULL DEFAULT '',
    created_at    %[1]s NOT NULL,
    updated_at    %[1]s NOT NULL
)`, ts),
		createIndex(true, "idx_users_username", "users", "username"),
		// NULL emails are distinct in all three databases.
		createIndex(true, "idx_users_email", "users", "email"),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
	}
	return nil
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users`)
	return err
}
