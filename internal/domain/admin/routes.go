package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazario/bazario-api/internal/middleware"
)

// Routes returns the console router. Listing moderation is open to
// moderators; everything touching money, roles or bans is admin only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	// Moderator surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireModerator())
		r.Get("/listings", h.ListListings)
		r.Patch("/listings/{id}/status", h.ModerateListing)
	})

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())

		r.Get("/users", h.ListUsers)
		r.Patch("/users/{id}/ban", h.SetBanned)
		r.Patch("/users/{id}/role", h.SetRole)
		r.Get("/users/{id}/credits", h.GetCredits)
		r.Post("/users/{id}/credits/grant", h.AdjustCredits)

		r.Get("/transactions", h.ListTransactions)

		r.Get("/packs", h.ListPacks)
		r.Post("/packs", h.CreatePack)
		r.Put("/packs/{id}", h.UpdatePack)
		r.Patch("/packs/{id}/active", h.SetPackActive)
	})

	return r
}
