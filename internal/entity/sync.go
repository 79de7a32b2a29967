package entity

import (
	"fmt"
	"time"
)

// ChangeSet is one full incremental snapshot for a sync client: every row
// mutated strictly after the watermark, plus the server time the client
// should use as its next watermark. No pagination.
type ChangeSet struct {
	Lists      []IndexEntry
	Items      []ListContent
	ServerTime time.Time
}

// ChangesSince computes the change feed for a watermark.
func (db *DB) ChangesSince(since time.Time) (*ChangeSet, error) {
	cs := &ChangeSet{ServerTime: Now()}
	watermark := FormatTime(since)

	rows, err := db.conn.Query(
		`SELECT id, kind, container_id, name, emoji, color, "order", opened_at, updated_at
		 FROM index_entries WHERE updated_at > ? ORDER BY updated_at ASC`, watermark,
	)
	if err != nil {
		return nil, fmt.Errorf("entity: sync index entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanIndexEntry(rows)
		if err != nil {
			return nil, err
		}
		cs.Lists = append(cs.Lists, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.conn.Query(
		`SELECT id, container_id, "order", content_json, updated_at
		 FROM list_contents WHERE updated_at > ? ORDER BY updated_at ASC`, watermark,
	)
	if err != nil {
		return nil, fmt.Errorf("entity: sync contents: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		c, err := scanListContent(crows)
		if err != nil {
			return nil, err
		}
		cs.Items = append(cs.Items, *c)
	}
	return cs, crows.Err()
}
