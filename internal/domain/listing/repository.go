package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines listing data access interface
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetByClientToken(ctx context.Context, userID uuid.UUID, token string) (*Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	List(ctx context.Context, filters ListFilters) ([]*Listing, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new listing repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const listingSelectColumns = `id, user_id, title, description, price, category, location, contact_number, images, status, client_token, created_at, updated_at`

// CreateTx inserts a listing within an external transaction so the insert
// and the credit debit commit together. A client_token collision maps to
// ErrDuplicateToken so the caller can return the earlier winner.
func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, l *Listing) error {
	query := `
		INSERT INTO listings (id, user_id, title, description, price, category, location, contact_number, images, status, client_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query,
		l.ID, l.UserID, l.Title, l.Description, l.Price, l.Category,
		l.Location, l.ContactNumber, l.Images, l.Status, l.ClientToken,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %w", ErrDuplicateToken, err)
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT ` + listingSelectColumns + ` FROM listings WHERE id = $1`

	var l Listing
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetByClientToken looks up a prior submission by the same user with the
// same idempotency token.
func (r *repository) GetByClientToken(ctx context.Context, userID uuid.UUID, token string) (*Listing, error) {
	query := `SELECT ` + listingSelectColumns + ` FROM listings WHERE user_id = $1 AND client_token = $2`

	var l Listing
	if err := r.db.GetContext(ctx, &l, query, userID, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}

// List returns listings matching the filters with a total count for
// pagination. Text search is a case-insensitive substring over the title.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]*Listing, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filters.Status)
		argIndex++
	}
	if filters.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filters.Category)
		argIndex++
	}
	if filters.Query != nil && *filters.Query != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+*filters.Query+"%")
		argIndex++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filters.UserID)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, listingSelectColumns, where, argIndex, argIndex+1)
	args = append(args, limit, filters.Offset)

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}
