package credit

import "time"

// TxType classifies ledger rows. Deductions come from publishing listings,
// purchases from completed pack payments, admin grants from the console.
type TxType string

const (
	TxTypeDeduction  TxType = "deduction"
	TxTypeRefund     TxType = "refund"
	TxTypePurchase   TxType = "purchase"
	TxTypeAdminGrant TxType = "admin_grant"
)

// TxMeta is the audit context written alongside a balance change. AdminID is
// set only for console adjustments so the ledger records who moved the
// balance.
type TxMeta struct {
	RelatedEntityType *string
	RelatedEntityID   *string
	AdminID           *string
	Description       string
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// SearchFilters narrows ledger queries for the admin console and for
// purchase idempotency lookups.
type SearchFilters struct {
	UserID            *string
	TxType            *string
	DateFrom          *time.Time
	DateTo            *time.Time
	RelatedEntityType *string
	RelatedEntityID   *string
	Limit             int
	Offset            int
}

// CreditTransaction is one row of the append-only listing-credit ledger
// (matches credit_transactions table). Rows are never updated or deleted;
// the profile balance is the sum of AmountDelta.
type CreditTransaction struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	AmountDelta       int       `db:"amount_delta" json:"amount_delta"`
	TxType            string    `db:"tx_type" json:"tx_type"`
	RelatedEntityType *string   `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *string   `db:"related_entity_id" json:"related_entity_id,omitempty"`
	AdminID           *string   `db:"admin_id" json:"admin_id,omitempty"`
	Description       string    `db:"description" json:"description"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
