package admin

// BanRequest is the PATCH /admin/users/{id}/ban body
type BanRequest struct {
	Banned bool `json:"banned"`
}

// RoleRequest is the PATCH /admin/users/{id}/role body
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// AdjustCreditsRequest is the POST /admin/users/{id}/credits/grant body.
// Delta is signed: positive grants, negative revokes.
type AdjustCreditsRequest struct {
	Delta       int    `json:"delta" validate:"required,ne=0,gte=-1000,lte=1000"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// PackRequest is the POST/PUT /admin/packs body
type PackRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Credits      int    `json:"credits" validate:"required,gte=1,lte=1000"`
	PricePaise   int64  `json:"price_paise" validate:"required,gte=100"`
	DisplayPrice string `json:"display_price" validate:"required,max=32"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order" validate:"gte=0"`
}

// SetActiveRequest is the PATCH /admin/packs/{id}/active body
type SetActiveRequest struct {
	Active bool `json:"active"`
}
