package payment

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyFinal        = errors.New("transaction already finalized")
)
