package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Post("/task", h.HandleTask)
	r.Post("/revise", h.HandleRevise)
	r.Get("/ping", h.HandlePing)
	r.Get("/health", h.HandleHealth)
	r.Get("/tasks", h.HandleListTasks)
	r.Get("/tasks/{id}", h.HandleGetTask)
}
