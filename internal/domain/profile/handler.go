package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bazario/bazario-api/internal/middleware"
	"github.com/bazario/bazario-api/internal/pkg/response"
	"github.com/bazario/bazario-api/internal/pkg/validator"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpdateProfileRequest is the PATCH /profiles/me body
type UpdateProfileRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=15"`
}

// Me handles GET /profiles/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.GetCurrent(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// RefreshMe handles POST /profiles/me/refresh
// Explicit re-read after a client-visible mutation (e.g. posting a listing).
func (h *Handler) RefreshMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.Refresh(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// UpdateMe handles PATCH /profiles/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	userID := middleware.GetUserID(r.Context())

	p, err := h.service.Update(r.Context(), userID, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}
