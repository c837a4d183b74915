package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/domain/credit"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/middleware"
	"github.com/bazario/bazario-api/internal/pkg/imaging"
	"github.com/bazario/bazario-api/internal/pkg/response"
	"github.com/bazario/bazario-api/internal/pkg/validator"
)

// maxUploadBytes bounds the whole multipart request body.
const maxUploadBytes = 64 << 20

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings (multipart/form-data)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid price")
		return
	}

	req := CreateListingRequest{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Price:         price,
		Category:      r.FormValue("category"),
		Location:      r.FormValue("location"),
		ContactNumber: r.FormValue("contact_number"),
		ClientToken:   r.FormValue("client_token"),
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var images []ImageUpload
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			if fh.Size > imaging.MaxFileSize {
				response.BadRequest(w, "Image exceeds the 10MB size limit: "+fh.Filename)
				return
			}
			f, err := fh.Open()
			if err != nil {
				log.Warn().Err(err).Str("filename", fh.Filename).Msg("failed to open uploaded file")
				continue
			}
			defer f.Close()
			images = append(images, ImageUpload{Filename: fh.Filename, Reader: f})
		}
	}

	userID := middleware.GetUserID(r.Context())

	l, err := h.service.Create(r.Context(), userID, req, images)
	if err != nil {
		switch {
		case errors.Is(err, credit.ErrInsufficientCredits):
			response.PaymentRequired(w, "Not enough listing credits to publish")
		case errors.Is(err, ErrTooManyImages):
			response.BadRequest(w, "Too many images")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("listing creation failed")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, l.ToResponse(h.service.PublicURL))
}

// List handles GET /listings — public browse, active listings only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := StatusActive
	filters := ListFilters{Status: &status}

	if c := r.URL.Query().Get("category"); c != "" {
		filters.Category = &c
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.Query = &q
	}

	page, limit := parsePagination(r)
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	listings, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("listing browse failed")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, h.toResponses(listings), paginationMeta(total, page, limit))
}

// Get handles GET /listings/{id}. Active listings are public; sold and
// removed ones are visible only to the owner and moderators (the route
// carries OptionalAuth so anonymous requests simply have no claims).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		response.InternalError(w)
		return
	}

	if l.Status != StatusActive {
		viewerID := middleware.GetUserID(r.Context())
		if viewerID != l.UserID && !user.CanModerate(middleware.GetRole(r.Context())) {
			response.NotFound(w, "Listing not found")
			return
		}
	}

	response.OK(w, l.ToResponse(h.service.PublicURL))
}

// My handles GET /listings/my — the caller's listings in every state.
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	uid := userID.String()

	filters := ListFilters{UserID: &uid}
	if s := r.URL.Query().Get("status"); s != "" {
		if validator.ValidateVar(s, "listing_status") != nil {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		status := Status(s)
		filters.Status = &status
	}

	page, limit := parsePagination(r)
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	listings, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("my listings fetch failed")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, h.toResponses(listings), paginationMeta(total, page, limit))
}

// UpdateStatus handles PATCH /listings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req UpdateStatusRequest
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

	l, err := h.service.UpdateStatus(r.Context(), actorID, role, id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrNotListingOwner):
			response.Forbidden(w, "You can only update your own listings")
		case errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, "Listing cannot move to that status")
		default:
			log.Error().Err(err).Str("listing_id", id.String()).Msg("status update failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, l.ToResponse(h.service.PublicURL))
}

func (h *Handler) toResponses(listings []*Listing) []*Response {
	out := make([]*Response, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ToResponse(h.service.PublicURL))
	}
	return out
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
