// Package entity provides SQLite-backed storage for organizer entities:
// index metadata, content payloads, and the editor scratchpad.
package entity

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const baseSchemaSQL = `
CREATE TABLE IF NOT EXISTS index_entries (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	container_id TEXT REFERENCES index_entries(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	emoji        TEXT,
	color        INTEGER NOT NULL DEFAULT 4285179647,
	"order"      INTEGER NOT NULL DEFAULT 0,
	opened_at    TEXT,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS list_contents (
	id           TEXT PRIMARY KEY REFERENCES index_entries(id) ON DELETE CASCADE,
	container_id TEXT REFERENCES index_entries(id) ON DELETE CASCADE,
	"order"      INTEGER NOT NULL DEFAULT 0,
	content_json TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_index_entries_updated_at ON index_entries(updated_at);
CREATE INDEX IF NOT EXISTS ix_index_entries_opened_at ON index_entries(opened_at);
CREATE INDEX IF NOT EXISTS ix_list_contents_updated_at ON list_contents(updated_at);
`

// reconcileSQL holds best-effort adjustments for databases created by older
// builds. Each statement runs independently; failures never block startup.
var reconcileSQL = []string{
	`ALTER TABLE index_entries ADD COLUMN "order" INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS ix_index_entries_order ON index_entries("order")`,
	`ALTER TABLE list_contents ADD COLUMN "order" INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS ix_list_contents_order ON list_contents("order")`,
	`CREATE TABLE IF NOT EXISTS editor_contents (
		location   TEXT PRIMARY KEY,
		content    TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_editor_contents_updated_at ON editor_contents(updated_at)`,
}

// DB wraps a sql.DB with organizer-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the base schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("entity: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("entity: ping: %w", err)
	}
	if _, err := conn.Exec(baseSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("entity: apply base schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Reconcile runs the best-effort schema adjustments. Individual failures are
// logged and swallowed so the service always boots, possibly degraded.
func (db *DB) Reconcile(logger *slog.Logger) {
	for _, stmt := range reconcileSQL {
		if _, err := db.conn.Exec(stmt); err != nil {
			// Columns added by the base schema trip the ALTERs on every
			// boot; only genuine failures are worth a warning.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			logger.Warn("schema reconcile statement failed",
				slog.String("error", err.Error()))
		}
	}
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
