package listing

import "errors"

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrNotListingOwner   = errors.New("not the listing owner")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTooManyImages     = errors.New("too many images")
	ErrDuplicateToken    = errors.New("duplicate client token")
)
