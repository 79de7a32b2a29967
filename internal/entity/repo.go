package entity

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nstrand/binder/internal/apperr"
)

// Create inserts an IndexEntry and its ListContent under one fresh id,
// atomically. When e.Order is nil the entity is appended to its sibling
// group. opened_at is stamped with the creation instant.
func (db *DB) Create(e NewEntity) (Created, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Created{}, fmt.Errorf("entity: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	order := 0
	if e.Order != nil {
		order = *e.Order
	} else {
		order, err = nextOrder(tx, e.ContainerID)
		if err != nil {
			return Created{}, err
		}
	}

	color := DefaultColor
	if e.Color != nil {
		color = *e.Color
	}

	content := e.ContentJSON
	if len(content) == 0 || string(content) == "null" {
		content = json.RawMessage(`{}`)
	}

	id := uuid.NewString()
	ts := FormatTime(Now())

	_, err = tx.Exec(`
		INSERT INTO index_entries (id, kind, container_id, name, emoji, color, "order", opened_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, e.Kind, e.ContainerID, e.Name, e.Emoji, color, order, ts, ts)
	if err != nil {
		return Created{}, fmt.Errorf("entity: insert index entry: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO list_contents (id, container_id, "order", content_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, e.ContainerID, order, string(content), ts)
	if err != nil {
		return Created{}, fmt.Errorf("entity: insert content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Created{}, fmt.Errorf("entity: commit create: %w", err)
	}
	return Created{ID: id, Kind: e.Kind, ContainerID: e.ContainerID, Order: order}, nil
}

// Delete removes an entity, its content row, and one level of children
// (index and content rows both). Deleting an unknown id is a silent no-op.
func (db *DB) Delete(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("entity: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Explicit child deletes keep the cascade intact even when the
	// reconcile pass could not install the foreign keys (degraded mode).
	// An unknown id deletes zero rows, which is not an error.
	stmts := []string{
		`DELETE FROM list_contents WHERE container_id = ?`,
		`DELETE FROM index_entries WHERE container_id = ?`,
		`DELETE FROM list_contents WHERE id = ?`,
		`DELETE FROM index_entries WHERE id = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("entity: delete cascade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("entity: commit delete: %w", err)
	}
	return nil
}

// UpdateMetadata applies the provided fields to the index row and always
// bumps updated_at. A new order is mirrored to the content row inside the
// same transaction. Returns apperr.ErrNotFound when no row matched.
func (db *DB) UpdateMetadata(id string, p MetadataPatch) (time.Time, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := Now()
	ts := FormatTime(now)

	var sets []string
	var args []any
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Emoji != nil {
		sets = append(sets, "emoji = ?")
		args = append(args, *p.Emoji)
	} else if p.ClearEmoji {
		sets = append(sets, "emoji = NULL")
	}
	if p.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *p.Color)
	}
	if p.MarkOpened {
		sets = append(sets, "opened_at = ?")
		args = append(args, ts)
	}
	if p.Order != nil {
		sets = append(sets, `"order" = ?`)
		args = append(args, *p.Order)
		if _, err := tx.Exec(
			`UPDATE list_contents SET "order" = ?, updated_at = ? WHERE id = ?`,
			*p.Order, ts, id,
		); err != nil {
			return time.Time{}, fmt.Errorf("entity: mirror order to content: %w", err)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, ts, id)

	res, err := tx.Exec(
		`UPDATE index_entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: update metadata: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return time.Time{}, apperr.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("entity: commit metadata update: %w", err)
	}
	return now, nil
}

// UpdateOrder writes order and a bumped updated_at to both tables. Returns
// apperr.ErrNotFound when the index row is missing; the content side is
// best-effort and not separately checked.
func (db *DB) UpdateOrder(id string, order int) (time.Time, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := Now()
	ts := FormatTime(now)

	res, err := tx.Exec(
		`UPDATE index_entries SET "order" = ?, updated_at = ? WHERE id = ?`,
		order, ts, id,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return time.Time{}, apperr.ErrNotFound
	}
	_, _ = tx.Exec(
		`UPDATE list_contents SET "order" = ?, updated_at = ? WHERE id = ?`,
		order, ts, id,
	)

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("entity: commit order update: %w", err)
	}
	return now, nil
}

// ListIndex returns metadata rows, optionally filtered to updated_at
// strictly greater than since. SortByOrder groups siblings by container and
// orders within each group, breaking ties by recency; the default
// SortByUpdatedAt is pure recency.
func (db *DB) ListIndex(since *time.Time, sortMode string) ([]IndexEntry, error) {
	q := `SELECT id, kind, container_id, name, emoji, color, "order", opened_at, updated_at FROM index_entries`
	var args []any
	if since != nil {
		q += ` WHERE updated_at > ?`
		args = append(args, FormatTime(*since))
	}
	if sortMode == SortByOrder {
		q += ` ORDER BY container_id ASC, "order" ASC, updated_at DESC`
	} else {
		q += ` ORDER BY updated_at DESC`
	}

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("entity: list index: %w", err)
	}
	defer rows.Close()

	var out []IndexEntry
	for rows.Next() {
		e, err := scanIndexEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetContent fetches the content row for any entity.
func (db *DB) GetContent(id string) (*ListContent, error) {
	row := db.conn.QueryRow(
		`SELECT id, container_id, "order", content_json, updated_at FROM list_contents WHERE id = ?`, id,
	)
	c, err := scanListContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// UpdateContent overwrites content_json and stamps both tables with the same
// instant, so content edits are visible in the metadata change feed. A
// non-nil order is mirrored to the index row as well. Returns
// apperr.ErrNotFound when no content row exists for id.
func (db *DB) UpdateContent(id string, content json.RawMessage, order *int) (time.Time, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := Now()
	ts := FormatTime(now)

	var res sql.Result
	if order != nil {
		res, err = tx.Exec(
			`UPDATE list_contents SET content_json = ?, "order" = ?, updated_at = ? WHERE id = ?`,
			string(content), *order, ts, id,
		)
	} else {
		res, err = tx.Exec(
			`UPDATE list_contents SET content_json = ?, updated_at = ? WHERE id = ?`,
			string(content), ts, id,
		)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: update content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return time.Time{}, apperr.ErrNotFound
	}

	if order != nil {
		_, err = tx.Exec(
			`UPDATE index_entries SET "order" = ?, updated_at = ? WHERE id = ?`,
			*order, ts, id,
		)
	} else {
		_, err = tx.Exec(`UPDATE index_entries SET updated_at = ? WHERE id = ?`, ts, id)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("entity: bump index entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("entity: commit content update: %w", err)
	}
	return now, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIndexEntry(s scanner) (IndexEntry, error) {
	var e IndexEntry
	var containerID, emoji, openedAt sql.NullString
	var updatedAt string
	if err := s.Scan(&e.ID, &e.Kind, &containerID, &e.Name, &emoji, &e.Color, &e.Order, &openedAt, &updatedAt); err != nil {
		return IndexEntry{}, fmt.Errorf("entity: scan index entry: %w", err)
	}
	if containerID.Valid {
		v := containerID.String
		e.ContainerID = &v
	}
	if emoji.Valid {
		v := emoji.String
		e.Emoji = &v
	}
	if openedAt.Valid {
		t, err := ParseTime(openedAt.String)
		if err != nil {
			return IndexEntry{}, err
		}
		e.OpenedAt = &t
	}
	t, err := ParseTime(updatedAt)
	if err != nil {
		return IndexEntry{}, err
	}
	e.UpdatedAt = t
	return e, nil
}

func scanListContent(s scanner) (*ListContent, error) {
	var c ListContent
	var containerID sql.NullString
	var content, updatedAt string
	if err := s.Scan(&c.ID, &containerID, &c.Order, &content, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("entity: scan content: %w", err)
	}
	if containerID.Valid {
		v := containerID.String
		c.ContainerID = &v
	}
	c.ContentJSON = json.RawMessage(content)
	t, err := ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt = t
	return &c, nil
}
