package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/domain/credit"
	"github.com/bazario/bazario-api/internal/domain/pack"
)

// ProfileInvalidator drops a cached profile after its balance changes.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service handles credit pack purchases. No payment gateway is wired yet;
// Initiate records a pending transaction with the pack's price snapshot, and
// Complete finalizes it, granting the credits exactly once.
type Service struct {
	db    *sqlx.DB
	repo  Repository
	packs pack.Repository
	creds credit.Service
	cache ProfileInvalidator
}

// NewService creates payment service
func NewService(db *sqlx.DB, repo Repository, packs pack.Repository, creds credit.Service, cache ProfileInvalidator) *Service {
	return &Service{db: db, repo: repo, packs: packs, creds: creds, cache: cache}
}

// Initiate records a pending purchase for an active pack. Price and credit
// count are snapshotted onto the transaction so a later pack edit can't
// change what the buyer agreed to.
func (s *Service) Initiate(ctx context.Context, userID, packID uuid.UUID) (*Transaction, error) {
	p, err := s.packs.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, pack.ErrPackInactive
	}

	t := &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		PackID:        p.ID,
		AmountPaise:   p.PricePaise,
		CreditsAdded:  p.Credits,
		PaymentStatus: StatusPending,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	log.Info().
		Str("transaction_id", t.ID.String()).
		Str("user_id", userID.String()).
		Str("pack_id", packID.String()).
		Msg("purchase initiated")

	return t, nil
}

// Complete finalizes a pending transaction as successful and grants its
// credits. Idempotent two ways: the status update only fires while the row
// is still pending, and the grant is skipped if a purchase ledger row for
// this transaction already exists.
func (s *Service) Complete(ctx context.Context, transactionID uuid.UUID, gatewayRef *string) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if t.PaymentStatus != StatusPending {
		return nil, ErrAlreadyFinal
	}

	granted, err := s.creds.HasGrant(ctx, credit.TransactionTypePurchase, "transaction", t.ID)
	if err != nil {
		return nil, err
	}
	if granted {
		// The grant committed but the status update didn't. Repair the
		// status without granting again.
		log.Warn().Str("transaction_id", t.ID.String()).Msg("grant already recorded, repairing transaction status")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.UpdateStatusTx(ctx, tx, t.ID, StatusSuccess, gatewayRef); err != nil {
		return nil, err
	}

	if !granted {
		meta := credit.TransactionMeta{
			RelatedEntityType: "transaction",
			RelatedEntityID:   t.ID,
			Description:       fmt.Sprintf("purchase of %d listing credits", t.CreditsAdded),
		}
		if err := s.creds.AddTx(ctx, tx, t.UserID, t.CreditsAdded, credit.TransactionTypePurchase, meta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.cache.Invalidate(ctx, t.UserID)

	t.PaymentStatus = StatusSuccess

	log.Info().
		Str("transaction_id", t.ID.String()).
		Str("user_id", t.UserID.String()).
		Int("credits", t.CreditsAdded).
		Msg("purchase completed")

	return t, nil
}

// Fail finalizes a pending transaction as failed. No credits move.
func (s *Service) Fail(ctx context.Context, transactionID uuid.UUID, gatewayRef *string) (*Transaction, error) {
	if err := s.repo.MarkFailed(ctx, transactionID, gatewayRef); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, transactionID)
}

// ListByUser returns the caller's purchase history.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// List returns purchases across all users (admin view).
func (s *Service) List(ctx context.Context, status *Status, limit, offset int) ([]*Transaction, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}
