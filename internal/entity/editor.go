package entity

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nstrand/binder/internal/apperr"
)

// GetEditorContent fetches the scratchpad row for a location.
func (db *DB) GetEditorContent(location string) (*EditorContent, error) {
	var ec EditorContent
	var updatedAt string
	err := db.conn.QueryRow(
		`SELECT location, content, updated_at FROM editor_contents WHERE location = ?`, location,
	).Scan(&ec.Location, &ec.Content, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("entity: get editor content: %w", err)
	}
	t, err := ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	ec.UpdatedAt = t
	return &ec, nil
}

// PutEditorContent upserts the scratchpad row for a location. An empty
// string is a valid stored value, distinct from an absent row.
func (db *DB) PutEditorContent(location, content string) (time.Time, error) {
	now := Now()
	_, err := db.conn.Exec(`
		INSERT INTO editor_contents (location, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(location) DO UPDATE SET
			content    = excluded.content,
			updated_at = excluded.updated_at
	`, location, content, FormatTime(now))
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: put editor content: %w", err)
	}
	return now, nil
}
