package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/domain/credit"
	"github.com/bazario/bazario-api/internal/domain/listing"
	"github.com/bazario/bazario-api/internal/domain/pack"
	"github.com/bazario/bazario-api/internal/domain/payment"
	"github.com/bazario/bazario-api/internal/domain/profile"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/middleware"
	"github.com/bazario/bazario-api/internal/pkg/response"
	"github.com/bazario/bazario-api/internal/pkg/validator"
)

// Handler bundles the console operations: user administration, credit
// adjustments, listing moderation, purchase oversight and pack management.
type Handler struct {
	users    user.Repository
	profiles *profile.Service
	credits  credit.Service
	listings *listing.Service
	payments *payment.Service
	packs    pack.Repository
}

// NewHandler creates admin handler
func NewHandler(
	users user.Repository,
	profiles *profile.Service,
	credits credit.Service,
	listings *listing.Service,
	payments *payment.Service,
	packs pack.Repository,
) *Handler {
	return &Handler{
		users:    users,
		profiles: profiles,
		credits:  credits,
		listings: listings,
		payments: payments,
		packs:    packs,
	}
}

// --- users ---

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	profiles, total, err := h.profiles.List(r.Context(), r.URL.Query().Get("search"), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("admin user list failed")
		response.InternalError(w)
		return
	}

	out := make([]*profile.CachedProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ToCached())
	}

	response.WithMeta(w, out, paginationMeta(total, page, limit))
}

// SetBanned handles PATCH /admin/users/{id}/ban
func (h *Handler) SetBanned(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.users.SetBanned(r.Context(), id, req.Banned); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("ban update failed")
		response.InternalError(w)
		return
	}

	log.Info().
		Str("user_id", id.String()).
		Str("admin_id", middleware.GetUserID(r.Context()).String()).
		Bool("banned", req.Banned).
		Msg("user ban status changed")

	response.OK(w, map[string]interface{}{"user_id": id, "banned": req.Banned})
}

// SetRole handles PATCH /admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.users.UpdateRole(r.Context(), id, user.Role(req.Role)); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("role update failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"user_id": id, "role": req.Role})
}

// --- credits ---

// GetCredits handles GET /admin/users/{id}/credits — balance plus recent
// ledger history.
func (h *Handler) GetCredits(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	balance, err := h.credits.GetBalance(r.Context(), id)
	if err != nil {
		if errors.Is(err, credit.ErrProfileNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("balance fetch failed")
		response.InternalError(w)
		return
	}

	history, err := h.credits.ListTransactions(r.Context(), id, 50, 0)
	if err != nil {
		log.Error().Err(err).Msg("ledger fetch failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"user_id": id,
		"balance": balance,
		"history": history,
	})
}

// AdjustCredits handles POST /admin/users/{id}/credits/grant. A revoke that
// would overdraw the balance is rejected rather than clamped.
func (h *Handler) AdjustCredits(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req AdjustCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := middleware.GetUserID(r.Context())
	meta := credit.TransactionMeta{
		Description: req.Description,
		AdminID:     &adminID,
	}

	if err := h.credits.Adjust(r.Context(), id, req.Delta, meta); err != nil {
		switch {
		case errors.Is(err, credit.ErrNegativeBalance):
			response.Conflict(w, "Adjustment would make the balance negative")
		case errors.Is(err, credit.ErrProfileNotFound):
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Msg("credit adjustment failed")
			response.InternalError(w)
		}
		return
	}

	h.profiles.Invalidate(r.Context(), id)

	balance, err := h.credits.GetBalance(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("balance re-read failed")
		response.InternalError(w)
		return
	}

	log.Info().
		Str("user_id", id.String()).
		Str("admin_id", adminID.String()).
		Int("delta", req.Delta).
		Msg("credits adjusted")

	response.OK(w, map[string]interface{}{"user_id": id, "balance": balance})
}

// --- listings moderation ---

// ListListings handles GET /admin/listings — every status, filterable.
func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	filters := listing.ListFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		if validator.ValidateVar(s, "listing_status") != nil {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		status := listing.Status(s)
		filters.Status = &status
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filters.Category = &c
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.Query = &q
	}
	if u := r.URL.Query().Get("user_id"); u != "" {
		if _, err := uuid.Parse(u); err != nil {
			response.BadRequest(w, "Invalid user_id filter")
			return
		}
		filters.UserID = &u
	}

	page, limit := parsePagination(r)
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	listings, total, err := h.listings.List(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("admin listing list failed")
		response.InternalError(w)
		return
	}

	out := make([]*listing.Response, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ToResponse(h.listings.PublicURL))
	}

	response.WithMeta(w, out, paginationMeta(total, page, limit))
}

// ModerateListing handles PATCH /admin/listings/{id}/status. Same lifecycle
// rules as the owner path; the moderator role carries the permission.
func (h *Handler) ModerateListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req listing.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	role := middleware.GetRole(r.Context())

	l, err := h.listings.UpdateStatus(r.Context(), actorID, role, id, listing.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, listing.ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, listing.ErrInvalidTransition):
			response.Conflict(w, "Listing cannot move to that status")
		default:
			log.Error().Err(err).Msg("moderation failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, l.ToResponse(h.listings.PublicURL))
}

// --- transactions ---

// ListTransactions handles GET /admin/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var status *payment.Status
	if s := r.URL.Query().Get("status"); s != "" {
		if validator.ValidateVar(s, "payment_status") != nil {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		ps := payment.Status(s)
		status = &ps
	}

	page, limit := parsePagination(r)

	txs, total, err := h.payments.List(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("admin transaction list failed")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, txs, paginationMeta(total, page, limit))
}

// --- packs ---

// ListPacks handles GET /admin/packs — includes retired packs.
func (h *Handler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.packs.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin pack list failed")
		response.InternalError(w)
		return
	}
	response.OK(w, packs)
}

// CreatePack handles POST /admin/packs
func (h *Handler) CreatePack(w http.ResponseWriter, r *http.Request) {
	var req PackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p := &pack.Pack{
		ID:           uuid.New(),
		Name:         req.Name,
		Credits:      req.Credits,
		PricePaise:   req.PricePaise,
		DisplayPrice: req.DisplayPrice,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	}

	if err := h.packs.Create(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("pack creation failed")
		response.InternalError(w)
		return
	}

	response.Created(w, p)
}

// UpdatePack handles PUT /admin/packs/{id}
func (h *Handler) UpdatePack(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid pack ID")
		return
	}

	var req PackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p := &pack.Pack{
		ID:           id,
		Name:         req.Name,
		Credits:      req.Credits,
		PricePaise:   req.PricePaise,
		DisplayPrice: req.DisplayPrice,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	}

	if err := h.packs.Update(r.Context(), p); err != nil {
		if errors.Is(err, pack.ErrPackNotFound) {
			response.NotFound(w, "Pack not found")
			return
		}
		log.Error().Err(err).Msg("pack update failed")
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// SetPackActive handles PATCH /admin/packs/{id}/active
func (h *Handler) SetPackActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid pack ID")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.packs.SetActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, pack.ErrPackNotFound) {
			response.NotFound(w, "Pack not found")
			return
		}
		log.Error().Err(err).Msg("pack activation update failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"pack_id": id, "active": req.Active})
}

func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(total, page, limit int) response.Meta {
	pages := (total + limit - 1) / limit
	return response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
