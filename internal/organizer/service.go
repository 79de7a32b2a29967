// Package organizer implements the domain service between the HTTP and MCP
// surfaces and the entity store: input validation and error mapping live
// here, SQL lives in the entity package.
package organizer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nstrand/binder/internal/apperr"
	"github.com/nstrand/binder/internal/entity"
)

// Service coordinates entity store operations.
type Service struct {
	db entity.Store
}

// NewService creates a new organizer service.
func NewService(db entity.Store) *Service {
	return &Service{db: db}
}

// CreateEntity validates and creates a project, process, or list.
func (s *Service) CreateEntity(_ context.Context, e entity.NewEntity) (entity.Created, error) {
	if !entity.ValidKind(e.Kind) {
		return entity.Created{}, fmt.Errorf("%w: kind must be 'project' | 'process' | 'list'", apperr.ErrInvalidArgument)
	}
	if e.Name == "" {
		return entity.Created{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	}
	if (e.Kind == entity.KindProject || e.Kind == entity.KindProcess) && e.ContainerID != nil {
		return entity.Created{}, fmt.Errorf("%w: containers cannot have container_id", apperr.ErrInvalidArgument)
	}
	if err := validColor(e.Color); err != nil {
		return entity.Created{}, err
	}
	return s.db.Create(e)
}

// DeleteEntity deletes an entity and its children. Unknown ids are a no-op.
func (s *Service) DeleteEntity(_ context.Context, id string) error {
	return s.db.Delete(id)
}

// UpdateMetadata applies a partial metadata update.
func (s *Service) UpdateMetadata(_ context.Context, id string, p entity.MetadataPatch) (time.Time, error) {
	if err := validColor(p.Color); err != nil {
		return time.Time{}, err
	}
	return s.db.UpdateMetadata(id, p)
}

// UpdateOrder rewrites the sibling position on both tables.
func (s *Service) UpdateOrder(_ context.Context, id string, order int) (time.Time, error) {
	return s.db.UpdateOrder(id, order)
}

// ListIndex returns the metadata rows for the front menu.
func (s *Service) ListIndex(_ context.Context, since *time.Time, sortMode string) ([]entity.IndexEntry, error) {
	return s.db.ListIndex(since, sortMode)
}

// GetContent fetches content_json for any entity.
func (s *Service) GetContent(_ context.Context, id string) (*entity.ListContent, error) {
	return s.db.GetContent(id)
}

// UpdateContent overwrites the payload; the document is opaque to the
// server, only its presence is checked.
func (s *Service) UpdateContent(_ context.Context, id string, content json.RawMessage, order *int) (time.Time, error) {
	if len(content) == 0 || string(content) == "null" {
		return time.Time{}, fmt.Errorf("%w: content_json required", apperr.ErrInvalidArgument)
	}
	return s.db.UpdateContent(id, content, order)
}

// GetEditorContent fetches the scratchpad for a location.
func (s *Service) GetEditorContent(_ context.Context, location string) (*entity.EditorContent, error) {
	return s.db.GetEditorContent(location)
}

// PutEditorContent upserts the scratchpad for a location.
func (s *Service) PutEditorContent(_ context.Context, location, content string) (time.Time, error) {
	return s.db.PutEditorContent(location, content)
}

// Sync returns the incremental change feed after the watermark.
func (s *Service) Sync(_ context.Context, since time.Time) (*entity.ChangeSet, error) {
	return s.db.ChangesSince(since)
}

func validColor(c *int64) error {
	if c != nil && (*c < 0 || *c > math.MaxUint32) {
		return fmt.Errorf("%w: color must fit an unsigned 32-bit value", apperr.ErrInvalidArgument)
	}
	return nil
}
