package pack

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines pack data access interface
type Repository interface {
	ListActive(ctx context.Context) ([]*Pack, error)
	ListAll(ctx context.Context) ([]*Pack, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Pack, error)
	Create(ctx context.Context, p *Pack) error
	Update(ctx context.Context, p *Pack) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new pack repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const packSelectColumns = `id, name, credits, price_paise, display_price, is_active, sort_order, created_at, updated_at`

// ListActive returns packs shown in the storefront, in display order.
func (r *repository) ListActive(ctx context.Context) ([]*Pack, error) {
	query := `SELECT ` + packSelectColumns + ` FROM listing_packs WHERE is_active = true ORDER BY sort_order, created_at`

	var packs []*Pack
	if err := r.db.SelectContext(ctx, &packs, query); err != nil {
		return nil, err
	}
	return packs, nil
}

// ListAll returns every pack including retired ones (admin view).
func (r *repository) ListAll(ctx context.Context) ([]*Pack, error) {
	query := `SELECT ` + packSelectColumns + ` FROM listing_packs ORDER BY sort_order, created_at`

	var packs []*Pack
	if err := r.db.SelectContext(ctx, &packs, query); err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Pack, error) {
	query := `SELECT ` + packSelectColumns + ` FROM listing_packs WHERE id = $1`

	var p Pack
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Pack) error {
	query := `
		INSERT INTO listing_packs (id, name, credits, price_paise, display_price, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Credits, p.PricePaise, p.DisplayPrice, p.IsActive, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, p *Pack) error {
	query := `
		UPDATE listing_packs
		SET name = $2, credits = $3, price_paise = $4, display_price = $5,
		    is_active = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Credits, p.PricePaise, p.DisplayPrice, p.IsActive, p.SortOrder)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPackNotFound
	}
	return nil
}

// SetActive retires or restores a pack without touching its pricing.
func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE listing_packs SET is_active = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPackNotFound
	}
	return nil
}
