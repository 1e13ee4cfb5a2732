package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulsa/internal/repositories"

	"github.com/shopspring/decimal"
)

// Config holds wallet service configuration.
type Config struct {
	CacheTTL time.Duration
	Now      func() time.Time
}

const (
	DefaultCacheTTL    = 5 * time.Minute
	balanceCachePrefix = "wallet:balance:"
)

type service struct {
	repo    repositories.UserRepository
	cache   repositories.CacheRepository
	config  Config
	metrics MetricsCollector
	locks   *userLocks
}

// NewService creates a new wallet service.
func NewService(
	repo repositories.UserRepository,
	cache repositories.CacheRepository,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
		locks:   newUserLocks(),
	}
}

func (s *service) Credit(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		s.metrics.RecordError("credit", "invalid_amount")
		return decimal.Zero, ErrInvalidAmount
	}

	mu := s.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	start := s.config.Now()
	var newBalance decimal.Decimal
	err := s.repo.ExecuteInTransaction(func(tx repositories.UserRepository) error {
		user, err := tx.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		newBalance = user.Balance.Add(amount)
		if err := tx.UpdateBalance(userID, newBalance, s.config.Now()); err != nil {
			return err
		}
		s.metrics.RecordBalanceChange(userID, user.Balance, newBalance)
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		s.metrics.RecordError("credit", "storage")
		return decimal.Zero, fmt.Errorf("credit failed: %w", err)
	}

	s.invalidateBalance(ctx, userID)
	s.metrics.RecordOperationDuration("credit", time.Since(start))
	return newBalance, nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		s.metrics.RecordError("debit", "invalid_amount")
		return decimal.Zero, ErrInvalidAmount
	}

	mu := s.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	start := s.config.Now()
	var newBalance decimal.Decimal
	err := s.repo.ExecuteInTransaction(func(tx repositories.UserRepository) error {
		user, err := tx.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		newBalance = user.Balance.Sub(amount)
		if err := tx.UpdateBalance(userID, newBalance, s.config.Now()); err != nil {
			return err
		}
		s.metrics.RecordBalanceChange(userID, user.Balance, newBalance)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return decimal.Zero, ErrUserNotFound
		case errors.Is(err, ErrInsufficientBalance):
			s.metrics.RecordError("debit", "insufficient_balance")
			return decimal.Zero, ErrInsufficientBalance
		default:
			s.metrics.RecordError("debit", "storage")
			return decimal.Zero, fmt.Errorf("debit failed: %w", err)
		}
	}

	s.invalidateBalance(ctx, userID)
	s.metrics.RecordOperationDuration("debit", time.Since(start))
	return newBalance, nil
}

func (s *service) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	key := balanceCacheKey(userID)
	if balance, err := s.cache.GetDecimal(ctx, key); err == nil {
		return balance, nil
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	if err := s.cache.SetDecimal(ctx, key, user.Balance, s.config.CacheTTL); err != nil {
		s.metrics.RecordError("balance", "cache")
	}
	return user.Balance, nil
}

func (s *service) ValidateBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to validate balance: %w", err)
	}

	if user.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

func (s *service) invalidateBalance(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, balanceCacheKey(userID)); err != nil {
		s.metrics.RecordError("cache_invalidate", "cache")
	}
}

func balanceCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", balanceCachePrefix, userID)
}
