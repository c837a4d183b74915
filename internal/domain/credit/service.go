package credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// service implements the Service interface
type service struct {
	repo *CreditRepository
}

// NewService creates a new credit service
func NewService(db *sqlx.DB) Service {
	return &service{
		repo: NewRepository(db),
	}
}

func (s *service) Deduct(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.Deduct(ctx, userID.String(), amount, toTxMeta(meta))
}

func (s *service) DeductTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.DeductTx(ctx, tx, userID.String(), amount, toTxMeta(meta))
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, amount int, txType TransactionType, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.Add(ctx, userID.String(), amount, string(txType), toTxMeta(meta))
}

func (s *service) AddTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TransactionType, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.AddTx(ctx, tx, userID.String(), amount, string(txType), toTxMeta(meta))
}

// Adjust applies a signed delta. The revoke path reuses the guarded
// decrement, so a delta that would overdraw the balance is rejected with
// ErrNegativeBalance instead of written through.
func (s *service) Adjust(ctx context.Context, userID uuid.UUID, delta int, meta TransactionMeta) error {
	switch {
	case delta > 0:
		return s.repo.Add(ctx, userID.String(), delta, string(TransactionTypeAdminGrant), toTxMeta(meta))
	case delta < 0:
		err := s.repo.Deduct(ctx, userID.String(), -delta, toTxMeta(meta))
		if errors.Is(err, ErrInsufficientCredits) {
			return ErrNegativeBalance
		}
		return err
	default:
		return ErrInvalidAmount
	}
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID.String())
}

func (s *service) HasGrant(ctx context.Context, txType TransactionType, entityType string, entityID uuid.UUID) (bool, error) {
	entityIDStr := entityID.String()
	typeStr := string(txType)

	filters := SearchFilters{
		TxType:            &typeStr,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &entityIDStr,
		Limit:             1,
		Offset:            0,
	}

	transactions, err := s.repo.SearchTransactions(ctx, filters)
	if err != nil {
		return false, fmt.Errorf("failed to check grant existence: %w", err)
	}

	return len(transactions) > 0, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CreditTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	pagination := Pagination{
		Limit:  limit,
		Offset: offset,
	}

	return s.repo.ListTransactions(ctx, userID.String(), pagination)
}

func (s *service) SearchTransactions(ctx context.Context, filters SearchFilters) ([]CreditTransaction, error) {
	return s.repo.SearchTransactions(ctx, filters)
}

func toTxMeta(meta TransactionMeta) TxMeta {
	txMeta := TxMeta{
		Description: meta.Description,
	}

	if meta.RelatedEntityType != "" {
		txMeta.RelatedEntityType = &meta.RelatedEntityType
	}

	if meta.RelatedEntityID != uuid.Nil {
		entityIDStr := meta.RelatedEntityID.String()
		txMeta.RelatedEntityID = &entityIDStr
	}

	if meta.AdminID != nil {
		adminIDStr := meta.AdminID.String()
		txMeta.AdminID = &adminIDStr
	}

	return txMeta
}
