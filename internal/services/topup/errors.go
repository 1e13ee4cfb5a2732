package topup

import "errors"

// Validation errors. These reject the request before any ledger row exists.
var (
	ErrItemNotFound        = errors.New("catalog item not found or inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTarget       = errors.New("invalid target identifier")
)
