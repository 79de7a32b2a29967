package entity

import (
	"encoding/json"
	"time"
)

// Store defines the storage operations the service layers depend on.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type Store interface {
	Create(e NewEntity) (Created, error)
	Delete(id string) error
	UpdateMetadata(id string, p MetadataPatch) (time.Time, error)
	UpdateOrder(id string, order int) (time.Time, error)
	ListIndex(since *time.Time, sortMode string) ([]IndexEntry, error)
	GetContent(id string) (*ListContent, error)
	UpdateContent(id string, content json.RawMessage, order *int) (time.Time, error)
	GetEditorContent(location string) (*EditorContent, error)
	PutEditorContent(location, content string) (time.Time, error)
	ChangesSince(since time.Time) (*ChangeSet, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
