package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "moderator", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID mismatch: %s != %s", claims.UserID, userID)
	}
	if claims.Role != "moderator" {
		t.Errorf("role mismatch: %s", claims.Role)
	}
	if claims.IsBanned {
		t.Error("expected not banned")
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, time.Hour)

	refresh, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not validate as access token")
	}
}

func TestExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "user", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestWrongSecret(t *testing.T) {
	svc := NewService("secret-a", 15*time.Minute, time.Hour)
	other := NewService("secret-b", 15*time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "user", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
