package credit

import "errors"

var (
	// ErrInsufficientCredits is returned when a guarded deduction finds no balance
	ErrInsufficientCredits = errors.New("insufficient listing credits")

	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrProfileNotFound is returned when the target profile doesn't exist
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNegativeBalance is returned when an adjustment would drive the balance below zero
	ErrNegativeBalance = errors.New("adjustment would make balance negative")

	ErrInternal = errors.New("internal error")
)
