package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazario/bazario-api/internal/middleware"
)

// Routes returns the transactions router. Completion and failure marking
// stand in for the absent gateway callback, so they sit behind the admin
// role.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/my", h.My)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/{id}/complete", h.Complete)
		r.Post("/{id}/fail", h.Fail)
	})

	return r
}
