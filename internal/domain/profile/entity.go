package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile represents a user profile (matches profiles table).
// listing_credits is the consumable balance entitling the holder to publish
// listings; it is only ever written through the credit ledger.
type Profile struct {
	ID             uuid.UUID      `db:"id"`
	UserID         uuid.UUID      `db:"user_id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Phone          sql.NullString `db:"phone"`
	ListingCredits int            `db:"listing_credits"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// CachedProfile is the JSON shape stored in the session cache and returned
// to clients.
type CachedProfile struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	ListingCredits int       `json:"listing_credits"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToCached converts a DB profile to its cacheable form
func (p *Profile) ToCached() *CachedProfile {
	cached := &CachedProfile{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Email:          p.Email,
		ListingCredits: p.ListingCredits,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Phone.Valid {
		cached.Phone = p.Phone.String
	}
	return cached
}
