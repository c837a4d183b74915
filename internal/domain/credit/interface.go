package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TransactionType represents the type of credit transaction
type TransactionType string

const (
	TransactionTypeDeduction  TransactionType = "deduction"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeAdminGrant TransactionType = "admin_grant"
)

// TransactionMeta contains metadata for credit transactions
type TransactionMeta struct {
	RelatedEntityType string
	RelatedEntityID   uuid.UUID
	Description       string
	AdminID           *uuid.UUID // For admin adjustments
}

// Service interface defines the credit service operations
type Service interface {
	// Deduct atomically deducts credits from a profile.
	// Returns ErrInsufficientCredits if the balance is insufficient.
	Deduct(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error

	// DeductTx deducts credits within an external transaction (FOR UPDATE row lock).
	// Used when the deduction must be atomic with another write (e.g. publishing a listing).
	DeductTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, meta TransactionMeta) error

	// Add atomically adds credits to a profile
	Add(ctx context.Context, userID uuid.UUID, amount int, txType TransactionType, meta TransactionMeta) error

	// AddTx adds credits within an external transaction; the caller commits
	AddTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TransactionType, meta TransactionMeta) error

	// Adjust applies a signed delta (admin operation). Positive deltas grant,
	// negative deltas revoke through the guarded decrement; a revoke that
	// would drive the balance negative fails with ErrNegativeBalance.
	Adjust(ctx context.Context, userID uuid.UUID, delta int, meta TransactionMeta) error

	// GetBalance returns the current credit balance for a profile
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)

	// HasGrant checks whether a purchase/refund ledger row already exists for
	// the given related entity. Used for idempotency when completing a
	// purchase transaction.
	HasGrant(ctx context.Context, txType TransactionType, entityType string, entityID uuid.UUID) (bool, error)

	// ListTransactions returns paginated ledger history for a profile
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CreditTransaction, error)

	// SearchTransactions returns filtered ledger rows (for admin use)
	SearchTransactions(ctx context.Context, filters SearchFilters) ([]CreditTransaction, error)
}
