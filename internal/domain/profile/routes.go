package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns profile router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", h.Me)
		r.Post("/me/refresh", h.RefreshMe)
		r.Patch("/me", h.UpdateMe)
	})

	return r
}
