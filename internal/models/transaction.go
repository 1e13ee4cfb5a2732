package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindTopUp      TransactionKind = "topup"
	KindWithdrawal TransactionKind = "withdrawal"
)

// Transaction statuses. Pending is the only non-terminal status; a
// transaction is created pending and finalized exactly once.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Payment methods
type PaymentMethod string

const (
	MethodWallet          PaymentMethod = "wallet"
	MethodExternalGateway PaymentMethod = "external_gateway"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Terminal reports whether the status is final.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransition reports whether moving from s to the given status is legal.
// Only pending transactions may move, and only to a terminal status.
func (s TransactionStatus) CanTransition(to TransactionStatus) bool {
	return s == StatusPending && to.Terminal()
}

// Transaction is the ledger record for deposits, top-ups and withdrawals.
type Transaction struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	UserID        uint              `gorm:"index;not null" json:"user_id"`
	Kind          TransactionKind   `gorm:"type:varchar(16);not null" json:"kind"`
	Amount        decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status        TransactionStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(24);not null" json:"payment_method"`

	// GatewayReference is the provider's reference for a top-up fulfilment,
	// recorded whatever the outcome so support can trace the call.
	GatewayReference string `gorm:"default:''" json:"gateway_reference,omitempty"`

	// ExternalPaymentReference identifies the external charge for
	// gateway-paid deposits.
	ExternalPaymentReference string `gorm:"default:''" json:"external_payment_reference,omitempty"`

	// TargetIdentifier is the top-up destination, e.g. a phone number.
	TargetIdentifier string `json:"target_identifier,omitempty"`
	CatalogItemID    *uint  `gorm:"index" json:"catalog_item_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finalize moves the transaction to a terminal status, rejecting any move
// the state machine does not allow.
func (t *Transaction) Finalize(to TransactionStatus) error {
	if !t.Status.CanTransition(to) {
		return ErrInvalidTransition
	}
	t.Status = to
	return nil
}
