package pack

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/pkg/response"
)

// Handler handles pack storefront HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates pack handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /packs — the public storefront.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	packs, err := h.repo.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("pack storefront fetch failed")
		response.InternalError(w)
		return
	}

	response.OK(w, packs)
}
