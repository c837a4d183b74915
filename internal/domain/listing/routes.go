package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns listing router
func (h *Handler) Routes(authMiddleware, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public browse
	r.Get("/", h.List)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/my", h.My)
		r.Patch("/{id}/status", h.UpdateStatus)
	})

	// Detail last so /my doesn't match as an ID
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/{id}", h.Get)
	})

	return r
}
