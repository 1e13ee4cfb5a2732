// Package metrics exposes Prometheus collectors for wallet operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulsa_wallet_operation_duration_seconds",
			Help:    "Duration of wallet balance operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	operationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsa_wallet_operation_errors_total",
			Help: "Total number of failed wallet operations",
		},
		[]string{"operation", "type"},
	)

	balanceMutations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulsa_wallet_balance_mutations_total",
			Help: "Total number of balance mutations",
		},
	)
)

// Collector implements the wallet service's MetricsCollector on top of
// Prometheus.
type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordBalanceChange(_ uint, _, _ decimal.Decimal) {
	balanceMutations.Inc()
}

func (c *Collector) RecordError(operation, errType string) {
	operationErrors.WithLabelValues(operation, errType).Inc()
}
