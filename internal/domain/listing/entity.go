package listing

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents listing lifecycle state (matches listing_status enum)
type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusRemoved Status = "removed"
)

// CanTransitionTo reports whether a lifecycle move is allowed. The lattice
// only moves forward: active can become sold or removed, sold can become
// removed, removed is terminal. A same-state transition is allowed as a
// no-op so retried requests don't fail.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	switch s {
	case StatusActive:
		return target == StatusSold || target == StatusRemoved
	case StatusSold:
		return target == StatusRemoved
	default:
		return false
	}
}

// Listing represents a classified ad (matches listings table).
// Images holds storage keys, not URLs; the public URL is derived at
// response time so the storage backend can move without a data migration.
type Listing struct {
	ID            uuid.UUID      `db:"id"`
	UserID        uuid.UUID      `db:"user_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Price         int64          `db:"price"`
	Category      string         `db:"category"`
	Location      string         `db:"location"`
	ContactNumber string         `db:"contact_number"`
	Images        pq.StringArray `db:"images"`
	Status        Status         `db:"status"`
	ClientToken   sql.NullString `db:"client_token"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// Response is the JSON shape returned to clients. ContactTel and
// ContactWhatsApp are deep links derived from the contact number so clients
// can render call/chat buttons directly.
type Response struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           int64     `json:"price"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	ContactNumber   string    `json:"contact_number"`
	ContactTel      string    `json:"contact_tel"`
	ContactWhatsApp string    `json:"contact_whatsapp"`
	Images          []string  `json:"images"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts a listing to its API shape, resolving image keys to
// public URLs through the given resolver.
func (l *Listing) ToResponse(publicURL func(key string) string) *Response {
	images := make([]string, 0, len(l.Images))
	for _, key := range l.Images {
		images = append(images, publicURL(key))
	}
	tel, whatsapp := contactLinks(l.ContactNumber)
	return &Response{
		ID:              l.ID,
		UserID:          l.UserID,
		Title:           l.Title,
		Description:     l.Description,
		Price:           l.Price,
		Category:        l.Category,
		Location:        l.Location,
		ContactNumber:   l.ContactNumber,
		ContactTel:      tel,
		ContactWhatsApp: whatsapp,
		Images:          images,
		Status:          l.Status,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// contactLinks builds call and WhatsApp deep links from a contact number.
// Bare 10-digit numbers get the Indian country code prefixed.
func contactLinks(number string) (tel, whatsapp string) {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 10 {
		d = "91" + d
	}
	return "tel:+" + d, "https://wa.me/" + d
}
