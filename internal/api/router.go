package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nstrand/binder/internal/organizer"
)

// NewRouter creates a chi router with all API routes mounted. apiKey is the
// static shared secret for the X-Key check; empty disables auth.
func NewRouter(svc *organizer.Service, apiKey string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Probes stay outside the keyed group.
	r.Get("/ping", h.Ping)
	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(apiKey))

		r.Get("/index", h.GetIndex)

		r.Post("/entities", h.CreateEntity)
		r.Delete("/entities/{id}", h.DeleteEntity)
		r.Put("/entities/{id}", h.UpdateEntityMeta)
		r.Put("/entities/{id}/order", h.UpdateEntityOrder)

		r.Get("/content/{id}", h.GetContent)
		r.Put("/content/{id}", h.UpdateContent)

		r.Get("/editor_content/{location}", h.GetEditorContent)
		r.Put("/editor_content/{location}", h.PutEditorContent)

		r.Get("/sync", h.Sync)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
