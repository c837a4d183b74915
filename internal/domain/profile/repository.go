package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines profile data access interface
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, p *Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, name string, phone *string) error
	List(ctx context.Context, search string, limit, offset int) ([]*Profile, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const profileSelectColumns = `id, user_id, name, email, phone, listing_credits, created_at, updated_at`

// CreateTx inserts a profile within an external transaction (registration
// creates the account and profile together).
func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, p *Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, name, email, phone, listing_credits)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, p.ID, p.UserID, p.Name, p.Email, p.Phone, p.ListingCredits)
	return err
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileSelectColumns + ` FROM profiles WHERE user_id = $1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, userID uuid.UUID, name string, phone *string) error {
	query := `
		UPDATE profiles
		SET name = $2, phone = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, name, phone)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// List returns profiles for the admin users view, optionally filtered by a
// case-insensitive substring on name or email.
func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]*Profile, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+search+"%")
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM profiles %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM profiles
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, profileSelectColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
