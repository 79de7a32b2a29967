package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nstrand/binder/internal/apperr"
	"github.com/nstrand/binder/internal/entity"
	"github.com/nstrand/binder/internal/organizer"
)

// Handler holds API route handlers.
type Handler struct {
	svc *organizer.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *organizer.Service) *Handler {
	return &Handler{svc: svc}
}

// Ping handles GET /ping.
func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": entity.FormatTime(entity.Now()),
	})
}

// GetIndex handles GET /index?updated_since=&sort=.
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var since *time.Time
	if raw := q.Get("updated_since"); raw != "" {
		t, err := entity.ParseTime(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid updated_since"))
			return
		}
		since = &t
	}

	sortMode := q.Get("sort")
	if sortMode == "" {
		sortMode = entity.SortByUpdatedAt
	}

	rows, err := h.svc.ListIndex(r.Context(), since, sortMode)
	if err != nil {
		slog.Error("list index failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	out := make([]IndexEntryJSON, len(rows))
	for i, e := range rows {
		out[i] = toIndexEntryJSON(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateEntity handles POST /entities.
func (h *Handler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	created, err := h.svc.CreateEntity(r.Context(), entity.NewEntity{
		Kind:        req.Kind,
		Name:        req.Name,
		Emoji:       req.Emoji,
		Color:       req.Color,
		ContainerID: req.ContainerID,
		ContentJSON: req.ContentJSON,
		Order:       req.Order,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("create entity failed", slog.String("kind", req.Kind), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           created.ID,
		"kind":         created.Kind,
		"container_id": created.ContainerID,
		"order":        created.Order,
	})
}

// DeleteEntity handles DELETE /entities/{id}. Deleting an unknown id is a
// silent success.
func (h *Handler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteEntity(r.Context(), id); err != nil {
		slog.Error("delete entity failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// UpdateEntityMeta handles PUT /entities/{id}.
func (h *Handler) UpdateEntityMeta(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	patch := entity.MetadataPatch{
		Name:       req.Name,
		Color:      req.Color,
		MarkOpened: req.MarkOpened,
		Order:      req.Order,
	}
	if len(req.Emoji) > 0 {
		if string(req.Emoji) == "null" {
			patch.ClearEmoji = true
		} else {
			var s string
			if err := json.Unmarshal(req.Emoji, &s); err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody("emoji must be a string or null"))
				return
			}
			patch.Emoji = &s
		}
	}

	updatedAt, err := h.svc.UpdateMetadata(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("update metadata failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"updated_at": entity.FormatTime(updatedAt),
	})
}

// UpdateEntityOrder handles PUT /entities/{id}/order.
func (h *Handler) UpdateEntityOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Order == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("order required"))
		return
	}

	updatedAt, err := h.svc.UpdateOrder(r.Context(), id, *req.Order)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update order failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"updated_at": entity.FormatTime(updatedAt),
		"order":      *req.Order,
	})
}

// GetContent handles GET /content/{id}.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	row, err := h.svc.GetContent(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get content failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, toContentJSONRow(*row))
}

// UpdateContent handles PUT /content/{id}.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")
	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	updatedAt, err := h.svc.UpdateContent(r.Context(), id, req.ContentJSON, req.Order)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("update content failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"updated_at": entity.FormatTime(updatedAt),
	})
}

// GetEditorContent handles GET /editor_content/{location}.
func (h *Handler) GetEditorContent(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	row, err := h.svc.GetEditorContent(r.Context(), location)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get editor content failed", slog.String("location", location), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"location":   row.Location,
		"content":    row.Content,
		"updated_at": entity.FormatTime(row.UpdatedAt),
	})
}

// PutEditorContent handles PUT /editor_content/{location}.
func (h *Handler) PutEditorContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	location := chi.URLParam(r, "location")
	var req PutEditorContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("content (string) required"))
		return
	}

	updatedAt, err := h.svc.PutEditorContent(r.Context(), location, *req.Content)
	if err != nil {
		slog.Error("put editor content failed", slog.String("location", location), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"location":   location,
		"updated_at": entity.FormatTime(updatedAt),
	})
}

// Sync handles GET /sync?updated_since=. The watermark is required.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("updated_since")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("updated_since required"))
		return
	}
	since, err := entity.ParseTime(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid updated_since"))
		return
	}

	cs, err := h.svc.Sync(r.Context(), since)
	if err != nil {
		slog.Error("sync failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	resp := SyncResponse{
		Lists:      make([]IndexEntryJSON, len(cs.Lists)),
		Items:      make([]ContentJSONRow, len(cs.Items)),
		ServerTime: entity.FormatTime(cs.ServerTime),
	}
	for i, e := range cs.Lists {
		resp.Lists[i] = toIndexEntryJSON(e)
	}
	for i, c := range cs.Items {
		resp.Items[i] = toContentJSONRow(c)
	}
	writeJSON(w, http.StatusOK, resp)
}
