// Package migrations contains the dialect-aware Go migrations for the SQL
// backends. Column types differ per database, so each migration builds its
// DDL from the active dialect.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

// timestampType is the column type used for created_at/updated_at.
func timestampType() string {
	if dialect == "mysql" {
		return "DATETIME(6)"
	}
	return "TIMESTAMP"
}

// createIndex returns a CREATE INDEX statement. MySQL has no IF NOT EXISTS
// for indexes; the surrounding CREATE TABLE already guards it.
func createIndex(unique bool, name, table, cols string) string {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	if dialect == "mysql" {
		return "CREATE " + kind + " " + name + " ON " + table + " (" + cols + ")"
	}
	return "CREATE " + kind + " IF NOT EXISTS " + name + " ON " + table + " (" + cols + ")"
}
