package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazario/bazario-api/internal/domain/profile"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*user.User),
		byID:    make(map[uuid.UUID]*user.User),
	}
}

func (f *fakeUserRepo) add(u *user.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, u *user.User) error {
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	return nil
}

func (f *fakeUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return nil
}

type fakeProfileRepo struct{}

func (fakeProfileRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, p *profile.Profile) error {
	return nil
}
func (fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return nil, profile.ErrProfileNotFound
}
func (fakeProfileRepo) Update(ctx context.Context, userID uuid.UUID, name string, phone *string) error {
	return nil
}
func (fakeProfileRepo) List(ctx context.Context, search string, limit, offset int) ([]*profile.Profile, int, error) {
	return nil, 0, nil
}

func newTestService(users user.Repository) *Service {
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, time.Hour)
	return NewService(nil, users, fakeProfileRepo{}, jwtSvc, 3)
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, banned bool) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		IsBanned:     banned,
	}
	repo.add(u)
	return u
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "seller@example.com", "password123", false)
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seller@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.UserID != u.ID.String() {
		t.Errorf("user ID mismatch: %s", resp.UserID)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected token pair")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "seller@example.com", "password123", false)
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seller@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBannedUser(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "banned@example.com", "password123", true)
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "banned@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "seller@example.com", "password123", false)
	svc := newTestService(repo)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seller@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshed.UserID != login.UserID {
		t.Errorf("user ID changed across refresh")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "seller@example.com", "password123", false)
	svc := newTestService(repo)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seller@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), login.Tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshBannedSinceIssuance(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "seller@example.com", "password123", false)
	svc := newTestService(repo)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seller@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	u.IsBanned = true

	if _, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}
