package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service is the wallet balance manager. Credit and Debit return the new
// balance; both are atomic per user with respect to concurrent calls.
type Service interface {
	Credit(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error)
	Balance(ctx context.Context, userID uint) (decimal.Decimal, error)
	ValidateBalance(ctx context.Context, userID uint, amount decimal.Decimal) error
}

// MetricsCollector receives wallet operation metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordBalanceChange(userID uint, oldBalance, newBalance decimal.Decimal)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration)              {}
func (n *NoopMetricsCollector) RecordBalanceChange(uint, decimal.Decimal, decimal.Decimal) {}
func (n *NoopMetricsCollector) RecordError(string, string)                                 {}
