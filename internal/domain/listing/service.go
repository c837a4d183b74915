package listing

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/domain/credit"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/pkg/imaging"
	"github.com/bazario/bazario-api/internal/pkg/storage"
)

// listingCost is the number of credits one publication consumes.
const listingCost = 1

// cleanupTimeout bounds best-effort object deletes after a failed publish.
const cleanupTimeout = 10 * time.Second

// ImageUpload is one raw image part from the multipart request
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// ProfileInvalidator drops a cached profile after its balance changes.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service implements the publication workflow: credit check, image
// processing and upload, then a single transaction covering the listing
// insert and the credit debit so neither can exist without the other.
type Service struct {
	db        *sqlx.DB
	repo      Repository
	credits   credit.Service
	store     storage.Storage
	processor *imaging.Processor
	cache     ProfileInvalidator
	maxImages int
}

// NewService creates listing service
func NewService(db *sqlx.DB, repo Repository, credits credit.Service, store storage.Storage, processor *imaging.Processor, cache ProfileInvalidator, maxImages int) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		credits:   credits,
		store:     store,
		processor: processor,
		cache:     cache,
		maxImages: maxImages,
	}
}

// Create publishes a listing. The order of operations matters:
//
//  1. idempotency lookup — a repeated client_token returns the earlier
//     listing without spending anything
//  2. advisory balance check — fail fast before any upload work; the
//     authoritative check is the guarded decrement inside the transaction
//  3. process and upload images — individual failures are skipped, not fatal
//  4. one transaction: insert the listing and debit one credit with a row
//     lock; if either fails, both roll back
//  5. on rollback, uploaded objects are deleted best-effort
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateListingRequest, images []ImageUpload) (*Listing, error) {
	if len(images) > s.maxImages {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyImages, len(images), s.maxImages)
	}

	if req.ClientToken != "" {
		existing, err := s.repo.GetByClientToken(ctx, userID, req.ClientToken)
		if err == nil {
			log.Info().
				Str("listing_id", existing.ID.String()).
				Str("client_token", req.ClientToken).
				Msg("duplicate submission, returning existing listing")
			return existing, nil
		}
		if !errors.Is(err, ErrListingNotFound) {
			return nil, err
		}
	}

	balance, err := s.credits.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < listingCost {
		return nil, credit.ErrInsufficientCredits
	}

	// Best effort: a listing with fewer photos than submitted is still a
	// listing. All-failed means it publishes with none.
	keys := s.uploadImages(ctx, userID, images)

	l := &Listing{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Location:      req.Location,
		ContactNumber: req.ContactNumber,
		Images:        keys,
		Status:        StatusActive,
	}
	if req.ClientToken != "" {
		l.ClientToken = sql.NullString{String: req.ClientToken, Valid: true}
	}

	if err := s.publishTx(ctx, l); err != nil {
		s.cleanupObjects(ctx, keys)

		// Lost the idempotency race: another request with the same token
		// committed first. Its listing is the result.
		if errors.Is(err, ErrDuplicateToken) && req.ClientToken != "" {
			winner, lookupErr := s.repo.GetByClientToken(ctx, userID, req.ClientToken)
			if lookupErr == nil {
				return winner, nil
			}
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)

	log.Info().
		Str("listing_id", l.ID.String()).
		Str("user_id", userID.String()).
		Int("images", len(keys)).
		Msg("listing published")

	return l, nil
}

// publishTx runs the insert and the guarded debit in one transaction.
func (s *Service) publishTx(ctx context.Context, l *Listing) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.CreateTx(ctx, tx, l); err != nil {
		return err
	}

	meta := credit.TransactionMeta{
		RelatedEntityType: "listing",
		RelatedEntityID:   l.ID,
		Description:       "listing publication",
	}
	if err := s.credits.DeductTx(ctx, tx, l.UserID, listingCost, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// uploadImages processes and uploads each image, skipping failures. A photo
// that won't decode or won't upload costs the lister that photo, not the
// whole submission.
func (s *Service) uploadImages(ctx context.Context, userID uuid.UUID, images []ImageUpload) []string {
	keys := make([]string, 0, len(images))

	for _, img := range images {
		if !imaging.ValidateType(img.Filename) {
			log.Warn().Str("filename", img.Filename).Msg("unsupported image type, skipping")
			continue
		}

		processed, err := s.processor.Process(img.Reader)
		if err != nil {
			log.Warn().Err(err).Str("filename", img.Filename).Msg("image processing failed, skipping")
			continue
		}

		key := imageKey(userID, processed.Ext)
		if err := s.store.Put(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("image upload failed, skipping")
			continue
		}

		keys = append(keys, key)
	}

	return keys
}

// cleanupObjects deletes uploaded objects after a failed publish. Best
// effort: a leaked object costs storage, a failed publish that keeps its
// debit would cost the user.
func (s *Service) cleanupObjects(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		if err := s.store.Delete(cleanupCtx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("compensating delete failed, object orphaned")
		}
	}
}

func imageKey(userID uuid.UUID, ext string) string {
	return fmt.Sprintf("listings/%s/%d-%s%s", userID, time.Now().UnixNano(), uuid.New().String()[:8], ext)
}

// Get returns a single listing by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns listings matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]*Listing, int, error) {
	return s.repo.List(ctx, filters)
}

// UpdateStatus moves a listing through its lifecycle. The owner can mark
// their own listing, moderators and admins can mark anyone's. Equal states
// are a no-op so retries succeed.
func (s *Service) UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, listingID uuid.UUID, target Status) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if l.UserID != actorID && !user.CanModerate(role) {
		return nil, ErrNotListingOwner
	}

	if l.Status == target {
		return l, nil
	}

	if !l.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, listingID, target); err != nil {
		return nil, err
	}

	l.Status = target

	log.Info().
		Str("listing_id", listingID.String()).
		Str("actor_id", actorID.String()).
		Str("status", string(target)).
		Msg("listing status updated")

	return l, nil
}

// PublicURL resolves a stored image key to its public URL.
func (s *Service) PublicURL(key string) string {
	return s.store.PublicURL(key)
}
