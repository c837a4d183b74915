package listing

// CreateListingRequest is the multipart field set for POST /listings.
// Images arrive as separate multipart file parts.
type CreateListingRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=100"`
	Description   string `json:"description" validate:"omitempty,max=1000"`
	Price         int64  `json:"price" validate:"gte=0,lte=1000000000"`
	Category      string `json:"category" validate:"required,category"`
	Location      string `json:"location" validate:"required,max=50"`
	ContactNumber string `json:"contact_number" validate:"required,max=15"`
	ClientToken   string `json:"client_token" validate:"omitempty,uuid4"`
}

// UpdateStatusRequest is the PATCH /listings/{id}/status body
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,listing_status"`
}

// ListFilters narrows the browse query
type ListFilters struct {
	Status   *Status
	Category *string
	Query    *string
	UserID   *string
	Limit    int
	Offset   int
}
