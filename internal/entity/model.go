package entity

import (
	"encoding/json"
	"time"
)

// Entity kinds. Projects and processes are containers; lists carry items and
// may be nested under a container or live at the top level ("general" lists).
const (
	KindProject = "project"
	KindProcess = "process"
	KindList    = "list"
)

// DefaultColor is the packed ARGB value assigned when a client omits one.
const DefaultColor int64 = 0xFF6AA6FF

// ValidKind reports whether k is a recognized entity kind.
func ValidKind(k string) bool {
	return k == KindProject || k == KindProcess || k == KindList
}

// Sort modes for ListIndex.
const (
	SortByOrder     = "order"
	SortByUpdatedAt = "updated_at"
)

// IndexEntry is one metadata row per entity.
type IndexEntry struct {
	ID          string
	Kind        string
	ContainerID *string
	Name        string
	Emoji       *string
	Color       int64
	Order       int
	OpenedAt    *time.Time
	UpdatedAt   time.Time
}

// ListContent is the content payload, 1:1 with IndexEntry by id.
// ContainerID and Order are denormalized copies of the index row's fields;
// every mutation path keeps the two tables equal.
type ListContent struct {
	ID          string
	ContainerID *string
	Order       int
	ContentJSON json.RawMessage
	UpdatedAt   time.Time
}

// EditorContent is a free-text scratchpad row keyed by a caller-chosen
// location string, independent of the entity tables.
type EditorContent struct {
	Location  string
	Content   string
	UpdatedAt time.Time
}

// NewEntity carries the fields for Create. Nil optional fields take their
// defaults; a nil Order means append to the sibling group.
type NewEntity struct {
	Kind        string
	Name        string
	Emoji       *string
	Color       *int64
	ContainerID *string
	ContentJSON json.RawMessage
	Order       *int
}

// Created is the result of a successful Create.
type Created struct {
	ID          string
	Kind        string
	ContainerID *string
	Order       int
}

// MetadataPatch is a partial metadata update; nil fields are left untouched.
// ClearEmoji sets emoji to NULL; it is ignored when Emoji is non-nil.
type MetadataPatch struct {
	Name       *string
	Emoji      *string
	ClearEmoji bool
	Color      *int64
	MarkOpened bool
	Order      *int
}
