package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CacheRepository abstracts the Redis cache used for balances and catalog
// lookups. A cache miss is reported as an error by the implementation.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetDecimal(ctx context.Context, key string) (decimal.Decimal, error)
	SetDecimal(ctx context.Context, key string, value decimal.Decimal, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, pattern string) error
}
