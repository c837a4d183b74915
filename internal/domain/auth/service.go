package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazario/bazario-api/internal/domain/profile"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/pkg/jwt"
)

// Service handles registration, login and token refresh.
type Service struct {
	db              *sqlx.DB
	users           user.Repository
	profiles        profile.Repository
	jwt             *jwt.Service
	startingCredits int
}

// NewService creates auth service
func NewService(db *sqlx.DB, users user.Repository, profiles profile.Repository, jwtService *jwt.Service, startingCredits int) *Service {
	return &Service{
		db:              db,
		users:           users,
		profiles:        profiles,
		jwt:             jwtService,
		startingCredits: startingCredits,
	}
}

// Register creates the account and its profile in one transaction. The
// profile starts with the configured free credit allowance; no ledger row is
// written for the starting balance.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		IsBanned:     false,
	}

	p := &profile.Profile{
		ID:             uuid.New(),
		UserID:         u.ID,
		Name:           req.Name,
		Email:          req.Email,
		ListingCredits: s.startingCredits,
	}
	if req.Phone != "" {
		p.Phone = sql.NullString{String: req.Phone, Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.users.CreateTx(ctx, tx, u); err != nil {
		return nil, err
	}
	if err := s.profiles.CreateTx(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.issueTokens(u)
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.issueTokens(u)
}

// Refresh validates a refresh token, re-reads the account (role and ban
// status may have changed since issuance) and issues a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *user.User) (*AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role), u.IsBanned)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &AuthResponse{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
		Tokens: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.jwt.GetAccessTTL().Seconds()),
		},
	}, nil
}
