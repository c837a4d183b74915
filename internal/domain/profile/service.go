package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Service is the session context for the current principal: it serves the
// cached profile and re-reads it on demand. Any mutation that changes the
// profile (credit debit, grant, profile edit) must call Invalidate or
// Refresh afterwards — handlers never rely on the cache staying fresh
// across writes.
type Service struct {
	repo     Repository
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewService creates profile service
func NewService(repo Repository, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

// GetCurrent returns the profile for the principal, from cache when possible.
// The cached balance is advisory only — the guarded decrement in the credit
// ledger is the correctness guarantee, not this value.
func (s *Service) GetCurrent(ctx context.Context, userID uuid.UUID) (*CachedProfile, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, cacheKey(userID)).Bytes()
		if err == nil {
			var cached CachedProfile
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile cache read failed")
		}
	}

	return s.Refresh(ctx, userID)
}

// Refresh re-reads the profile from the database and repopulates the cache.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (*CachedProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := p.ToCached()

	if s.redis != nil {
		raw, err := json.Marshal(cached)
		if err == nil {
			if err := s.redis.Set(ctx, cacheKey(userID), raw, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile cache write failed")
			}
		}
	}

	return cached, nil
}

// Invalidate drops the cached profile so the next read hits the database.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile cache invalidation failed")
	}
}

// Update edits the mutable profile fields and refreshes the cache.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, name string, phone *string) (*CachedProfile, error) {
	if err := s.repo.Update(ctx, userID, name, phone); err != nil {
		return nil, err
	}
	return s.Refresh(ctx, userID)
}

// List returns profiles for the admin users view.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Profile, int, error) {
	return s.repo.List(ctx, search, limit, offset)
}
