package pack

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns pack router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}
