package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines transaction data access interface
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status, gatewayRef *string) error
	MarkFailed(ctx context.Context, id uuid.UUID, gatewayRef *string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Transaction, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new transaction repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const txSelectColumns = `id, user_id, pack_id, amount_paise, credits_added, payment_status, gateway_ref, created_at, updated_at`

func (r *repository) Create(ctx context.Context, t *Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, pack_id, amount_paise, credits_added, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.PackID, t.AmountPaise, t.CreditsAdded, t.PaymentStatus,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `SELECT ` + txSelectColumns + ` FROM transactions WHERE id = $1`

	var t Transaction
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatusTx finalizes a pending transaction inside an external database
// transaction. The pending guard means a transaction can only be finalized
// once; a second completion attempt affects zero rows.
func (r *repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status, gatewayRef *string) error {
	query := `
		UPDATE transactions
		SET payment_status = $2, gateway_ref = COALESCE($3, gateway_ref), updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`
	result, err := tx.ExecContext(ctx, query, id, status, gatewayRef)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyFinal
	}
	return nil
}

// MarkFailed finalizes a pending transaction as failed outside any grant.
func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, gatewayRef *string) error {
	query := `
		UPDATE transactions
		SET payment_status = 'failed', gateway_ref = COALESCE($2, gateway_ref), updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, id, gatewayRef)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyFinal
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + txSelectColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var txs []*Transaction
	if err := r.db.SelectContext(ctx, &txs, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// List returns transactions across all users, optionally filtered by status
// (admin view).
func (r *repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Transaction, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argIndex))
		args = append(args, *status)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where), args...); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, txSelectColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	var txs []*Transaction
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}
