package api

import (
	"encoding/json"

	"github.com/nstrand/binder/internal/entity"
)

// CreateEntityRequest is the request body for POST /entities.
type CreateEntityRequest struct {
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Emoji       *string         `json:"emoji"`
	Color       *int64          `json:"color"`
	Order       *int            `json:"order"`
	ContentJSON json.RawMessage `json:"content_json"`
	ContainerID *string         `json:"container_id"`
}

// UpdateMetadataRequest is the request body for PUT /entities/{id}.
// Nil fields are left untouched. Emoji is kept raw so an explicit
// `"emoji": null` (clear the field) can be told apart from an absent key.
type UpdateMetadataRequest struct {
	Name       *string         `json:"name"`
	Emoji      json.RawMessage `json:"emoji"`
	Color      *int64          `json:"color"`
	MarkOpened bool            `json:"mark_opened"`
	Order      *int            `json:"order"`
}

// UpdateContentRequest is the request body for PUT /content/{id}.
type UpdateContentRequest struct {
	ContentJSON json.RawMessage `json:"content_json"`
	Order       *int            `json:"order"`
}

// UpdateOrderRequest is the request body for PUT /entities/{id}/order.
type UpdateOrderRequest struct {
	Order *int `json:"order"`
}

// PutEditorContentRequest is the request body for PUT /editor_content/{location}.
// A pointer distinguishes an absent content field from an empty string.
type PutEditorContentRequest struct {
	Content *string `json:"content"`
}

// IndexEntryJSON is the wire form of one metadata row.
type IndexEntryJSON struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	ContainerID *string `json:"container_id"`
	Name        string  `json:"name"`
	Emoji       *string `json:"emoji"`
	Color       int64   `json:"color"`
	Order       int     `json:"order"`
	OpenedAt    *string `json:"opened_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ContentJSONRow is the wire form of one content row.
type ContentJSONRow struct {
	ID          string          `json:"id"`
	ContainerID *string         `json:"container_id"`
	Order       int             `json:"order"`
	ContentJSON json.RawMessage `json:"content_json"`
	UpdatedAt   string          `json:"updated_at"`
}

// SyncResponse is the incremental change feed payload.
type SyncResponse struct {
	Lists      []IndexEntryJSON `json:"lists"`
	Items      []ContentJSONRow `json:"items"`
	ServerTime string           `json:"server_time"`
}

func toIndexEntryJSON(e entity.IndexEntry) IndexEntryJSON {
	out := IndexEntryJSON{
		ID:          e.ID,
		Kind:        e.Kind,
		ContainerID: e.ContainerID,
		Name:        e.Name,
		Emoji:       e.Emoji,
		Color:       e.Color,
		Order:       e.Order,
		UpdatedAt:   entity.FormatTime(e.UpdatedAt),
	}
	if e.OpenedAt != nil {
		s := entity.FormatTime(*e.OpenedAt)
		out.OpenedAt = &s
	}
	return out
}

func toContentJSONRow(c entity.ListContent) ContentJSONRow {
	return ContentJSONRow{
		ID:          c.ID,
		ContainerID: c.ContainerID,
		Order:       c.Order,
		ContentJSON: c.ContentJSON,
		UpdatedAt:   entity.FormatTime(c.UpdatedAt),
	}
}
