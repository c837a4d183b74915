package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/domain/pack"
	"github.com/bazario/bazario-api/internal/middleware"
	"github.com/bazario/bazario-api/internal/pkg/response"
	"github.com/bazario/bazario-api/internal/pkg/validator"
)

// Handler handles purchase HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CompleteRequest is the POST /transactions/{id}/complete body
type CompleteRequest struct {
	GatewayRef string `json:"gateway_ref" validate:"omitempty,max=255"`
}

// Purchase handles POST /packs/{id}/purchase
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	packID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid pack ID")
		return
	}

	userID := middleware.GetUserID(r.Context())

	t, err := h.service.Initiate(r.Context(), userID, packID)
	if err != nil {
		switch {
		case errors.Is(err, pack.ErrPackNotFound):
			response.NotFound(w, "Pack not found")
		case errors.Is(err, pack.ErrPackInactive):
			response.Conflict(w, "Pack is no longer for sale")
		default:
			log.Error().Err(err).Msg("purchase initiation failed")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, t)
}

// My handles GET /transactions/my
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	txs, total, err := h.service.ListByUser(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("purchase history fetch failed")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, txs, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Complete handles POST /transactions/{id}/complete. Admin-only stand-in
// for the payment gateway callback: marks the purchase successful and
// grants its credits exactly once.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var ref *string
	if req.GatewayRef != "" {
		ref = &req.GatewayRef
	}

	t, err := h.service.Complete(r.Context(), id, ref)
	if err != nil {
		switch {
		case errors.Is(err, ErrTransactionNotFound):
			response.NotFound(w, "Transaction not found")
		case errors.Is(err, ErrAlreadyFinal):
			response.Conflict(w, "Transaction is already finalized")
		default:
			log.Error().Err(err).Msg("transaction completion failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, t)
}

// Fail handles POST /transactions/{id}/fail
func (h *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	t, err := h.service.Fail(r.Context(), id, nil)
	if err != nil {
		switch {
		case errors.Is(err, ErrTransactionNotFound):
			response.NotFound(w, "Transaction not found")
		case errors.Is(err, ErrAlreadyFinal):
			response.Conflict(w, "Transaction is already finalized")
		default:
			log.Error().Err(err).Msg("transaction fail-mark failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, t)
}
