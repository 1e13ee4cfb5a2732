// Package topup processes catalog purchases fulfilled by the external
// provider. A top-up snapshots the item price into a pending ledger row,
// calls the provider, reconciles the wallet with the outcome and finalizes
// the row to completed or failed; the wallet is authoritative over the
// gateway when the two disagree.
package topup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pulsa/internal/models"
	"pulsa/internal/repositories"
	"pulsa/internal/services/gateway"
	"pulsa/internal/services/wallet"
)

// Service processes top-up purchases. A gateway decline or timeout is a
// business outcome returned as a failed transaction; errors are reserved
// for validation and persistence failures.
type Service interface {
	TopUp(ctx context.Context, userID, itemID uint, targetIdentifier string, method models.PaymentMethod) (*models.Transaction, error)
}

// Config holds top-up processor configuration.
type Config struct {
	GatewayTimeout time.Duration
	Refs           gateway.RefGenerator
	ItemCacheTTL   time.Duration
}

const (
	DefaultGatewayTimeout = 30 * time.Second
	DefaultItemCacheTTL   = 5 * time.Minute
	itemCachePrefix       = "catalog:item:"
)

type service struct {
	users    repositories.UserRepository
	catalog  repositories.CatalogRepository
	ledger   repositories.TransactionRepository
	cache    repositories.CacheRepository
	wallet   wallet.Service
	provider gateway.ProviderGateway
	config   Config
}

// NewService creates a new top-up service.
func NewService(
	users repositories.UserRepository,
	catalog repositories.CatalogRepository,
	ledger repositories.TransactionRepository,
	cache repositories.CacheRepository,
	walletSvc wallet.Service,
	provider gateway.ProviderGateway,
	config Config,
) Service {
	if users == nil {
		panic("user repository is required")
	}
	if catalog == nil {
		panic("catalog repository is required")
	}
	if ledger == nil {
		panic("transaction repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	if provider == nil {
		panic("provider gateway is required")
	}
	if config.GatewayTimeout == 0 {
		config.GatewayTimeout = DefaultGatewayTimeout
	}
	if config.Refs == nil {
		config.Refs = gateway.UUIDRefs()
	}
	if config.ItemCacheTTL == 0 {
		config.ItemCacheTTL = DefaultItemCacheTTL
	}

	return &service{
		users:    users,
		catalog:  catalog,
		ledger:   ledger,
		cache:    cache,
		wallet:   walletSvc,
		provider: provider,
		config:   config,
	}
}

func (s *service) TopUp(ctx context.Context, userID, itemID uint, targetIdentifier string, method models.PaymentMethod) (*models.Transaction, error) {
	// The item's price and active flag are evaluated here, once. Concurrent
	// catalog changes do not affect a transaction past this point.
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, ErrItemNotFound
	}

	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Fail fast on obviously unfunded wallet purchases so no ledger row is
	// created. The authoritative check happens again inside the debit.
	if method == models.MethodWallet {
		if err := s.wallet.ValidateBalance(ctx, userID, item.Price); err != nil {
			if errors.Is(err, wallet.ErrInsufficientBalance) {
				return nil, ErrInsufficientBalance
			}
			return nil, err
		}
	}

	itemRef := item.ID
	tx := &models.Transaction{
		UserID:           userID,
		Kind:             models.KindTopUp,
		Amount:           item.Price,
		Status:           models.StatusPending,
		PaymentMethod:    method,
		TargetIdentifier: targetIdentifier,
		CatalogItemID:    &itemRef,
	}
	if method == models.MethodExternalGateway {
		tx.ExternalPaymentReference = s.config.Refs()
	}
	if err := s.ledger.Create(tx); err != nil {
		return nil, err
	}

	fulfilCtx, cancel := context.WithTimeout(ctx, s.config.GatewayTimeout)
	result, err := s.provider.Fulfil(fulfilCtx, tx.ID, item.ID, targetIdentifier)
	cancel()

	success := err == nil && result.Success
	if err != nil {
		log.Printf("topup %d: provider gateway error: %v", tx.ID, err)
	}
	tx.GatewayReference = result.Reference

	if success && method == models.MethodWallet {
		if _, err := s.wallet.Debit(ctx, userID, tx.Amount); err != nil {
			// The provider already recorded success on its side but the
			// wallet could not cover the purchase. The wallet wins; flag
			// the mismatch for reconciliation.
			log.Printf("ANOMALY: topup %d fulfilled (ref %s) but wallet debit failed: %v", tx.ID, result.Reference, err)
			success = false
		}
	}

	if success {
		return tx, s.finalize(tx, models.StatusCompleted)
	}
	return tx, s.finalize(tx, models.StatusFailed)
}

// getItem resolves a catalog item, cache first.
func (s *service) getItem(ctx context.Context, itemID uint) (*models.CatalogItem, error) {
	key := fmt.Sprintf("%s%d", itemCachePrefix, itemID)

	var cached models.CatalogItem
	if err := s.cache.Get(ctx, key, &cached); err == nil && cached.ID == itemID {
		return &cached, nil
	}

	item, err := s.catalog.GetItem(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to look up catalog item: %w", err)
	}

	if err := s.cache.Set(ctx, key, item, s.config.ItemCacheTTL); err != nil {
		log.Printf("failed to cache catalog item %d: %v", itemID, err)
	}
	return item, nil
}

// finalize moves the transaction to a terminal status and persists it. A
// persistence failure here is a hard error: the caller must not treat the
// outcome as recorded.
func (s *service) finalize(tx *models.Transaction, to models.TransactionStatus) error {
	if err := tx.Finalize(to); err != nil {
		return err
	}
	if err := s.ledger.Update(tx); err != nil {
		return fmt.Errorf("failed to finalize transaction %d: %w", tx.ID, err)
	}
	return nil
}
