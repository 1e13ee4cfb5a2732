package gateway

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// StripeGateway charges external payment methods through Stripe. A card
// decline is a business outcome (Success=false), not an error; transport
// failures are returned as errors and treated as declines by the caller.
type StripeGateway struct {
	currency string
	source   string
}

func NewStripeGateway(apiKey, currency, source string) *StripeGateway {
	stripe.Key = apiKey
	if currency == "" {
		currency = "usd"
	}
	if source == "" {
		source = "tok_visa"
	}
	return &StripeGateway{currency: currency, source: source}
}

func (g *StripeGateway) Charge(ctx context.Context, userID uint, amount decimal.Decimal) (Charge, error) {
	if err := ctx.Err(); err != nil {
		return Charge{}, err
	}

	// Stripe amounts are in the smallest currency unit.
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(g.currency),
	}
	params.Context = ctx
	if err := params.SetSource(g.source); err != nil {
		return Charge{}, err
	}

	ch, err := charge.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Type == stripe.ErrorTypeCard {
			log.Printf("stripe charge declined for user %d: %v", userID, stripeErr.Msg)
			return Charge{Success: false}, nil
		}
		return Charge{}, err
	}

	return Charge{Success: ch.Paid, Reference: ch.ID}, nil
}
