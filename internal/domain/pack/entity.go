package pack

import (
	"time"

	"github.com/google/uuid"
)

// Pack represents a purchasable bundle of listing credits (matches
// listing_packs table). PricePaise is the charge amount in the smallest
// currency unit; DisplayPrice is the human-readable string shown in the
// storefront.
type Pack struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Credits      int       `db:"credits" json:"credits"`
	PricePaise   int64     `db:"price_paise" json:"price_paise"`
	DisplayPrice string    `db:"display_price" json:"display_price"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
