package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents payment lifecycle state (matches payment_status enum)
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Transaction represents a credit pack purchase (matches transactions
// table). The row is created pending at initiation; completion marks it
// success and grants the credits in the same database transaction.
type Transaction struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	PackID        uuid.UUID      `db:"pack_id" json:"pack_id"`
	AmountPaise   int64          `db:"amount_paise" json:"amount_paise"`
	CreditsAdded  int            `db:"credits_added" json:"credits_added"`
	PaymentStatus Status         `db:"payment_status" json:"payment_status"`
	GatewayRef    sql.NullString `db:"gateway_ref" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
