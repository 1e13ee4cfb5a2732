package deposit

import "errors"

// Validation errors. These reject the request before any ledger row exists.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
