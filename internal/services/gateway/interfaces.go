// Package gateway defines the external collaborator contracts: the top-up
// provider that fulfils purchases and the payment gateway that charges
// external payment methods. Both are injectable so processors can be tested
// with deterministic doubles.
package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fulfilment is the provider's answer to a top-up request. Success is a
// business outcome, not an error; Reference is recorded for support
// diagnosis whatever the outcome.
type Fulfilment struct {
	Success   bool
	Reference string
}

// ProviderGateway fulfils top-up purchases. Implementations may be slow or
// unreliable; callers bound the wait with a context deadline.
type ProviderGateway interface {
	Fulfil(ctx context.Context, transactionID, itemID uint, targetIdentifier string) (Fulfilment, error)
}

// Charge is the payment gateway's answer to an external charge.
type Charge struct {
	Success   bool
	Reference string
}

// PaymentMethodGateway charges an external payment method for deposits.
type PaymentMethodGateway interface {
	Charge(ctx context.Context, userID uint, amount decimal.Decimal) (Charge, error)
}

// RefGenerator produces unique reference strings. Injected so tests can
// assert exact values.
type RefGenerator func() string

// UUIDRefs returns the default reference generator.
func UUIDRefs() RefGenerator {
	return uuid.NewString
}
