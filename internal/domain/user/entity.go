package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User represents an account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	IsBanned     bool      `db:"is_banned"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CanModerate reports whether a role string carries moderation rights.
// Role lives in the JWT claims, so handlers usually check the string form.
func CanModerate(role string) bool {
	return role == string(RoleAdmin) || role == string(RoleModerator)
}
