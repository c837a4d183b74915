package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access interface
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userSelectColumns = `id, email, password_hash, role, is_banned, created_at, updated_at`

// CreateTx inserts a user within an external transaction so the account and
// its profile row commit together.
func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, u *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, is_banned)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Role, u.IsBanned)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %w", ErrEmailTaken, err)
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE id = $1`

	var u User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE email = $1`

	var u User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	query := `UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, banned)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
