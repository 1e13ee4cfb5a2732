// Package deposit moves money between external payment methods and the
// wallet: deposits charge an external method and credit the wallet,
// withdrawals debit the wallet. Each operation drives one ledger row from
// pending to a terminal status.
package deposit

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

	"github.com/shopspring/decimal"
)

// Service processes deposits and withdrawals. A declined or failed charge
// is a business outcome: the call returns a failed transaction, not an
// error. Errors are reserved for validation and persistence failures.
type Service interface {
	Deposit(ctx context.Context, userID uint, amount decimal.Decimal, method models.PaymentMethod) (*models.Transaction, error)
	Withdraw(ctx context.Context, userID uint, amount decimal.Decimal, method models.PaymentMethod) (*models.Transaction, error)
}

// Config holds deposit processor configuration.
type Config struct {
	GatewayTimeout time.Duration
	Refs           gateway.RefGenerator
}

const DefaultGatewayTimeout = 30 * time.Second

type service struct {
	users    repositories.UserRepository
	ledger   repositories.TransactionRepository
	wallet   wallet.Service
	payments gateway.PaymentMethodGateway
	config   Config
}

// NewService creates a new deposit service.
func NewService(
	users repositories.UserRepository,
	ledger repositories.TransactionRepository,
	walletSvc wallet.Service,
	payments gateway.PaymentMethodGateway,
	config Config,
) Service {
	if users == nil {
		panic("user repository is required")
	}
	if ledger == nil {
		panic("transaction repository is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	if payments == nil {
		panic("payment gateway is required")
	}
	if config.GatewayTimeout == 0 {
		config.GatewayTimeout = DefaultGatewayTimeout
	}
	if config.Refs == nil {
		config.Refs = gateway.UUIDRefs()
	}

	return &service{
		users:    users,
		ledger:   ledger,
		wallet:   walletSvc,
		payments: payments,
		config:   config,
	}
}

func (s *service) Deposit(ctx context.Context, userID uint, amount decimal.Decimal, method models.PaymentMethod) (*models.Transaction, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	tx := &models.Transaction{
		UserID:                   userID,
		Kind:                     models.KindDeposit,
		Amount:                   amount,
		Status:                   models.StatusPending,
		PaymentMethod:            method,
		ExternalPaymentReference: s.config.Refs(),
	}
	if err := s.ledger.Create(tx); err != nil {
		return nil, err
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.config.GatewayTimeout)
	charge, err := s.payments.Charge(chargeCtx, userID, amount)
	cancel()
	if err != nil {
		log.Printf("deposit %d: payment gateway error: %v", tx.ID, err)
		return tx, s.finalize(tx, models.StatusFailed)
	}
	if !charge.Success {
		return tx, s.finalize(tx, models.StatusFailed)
	}
	if charge.Reference != "" {
		tx.GatewayReference = charge.Reference
	}

	if _, err := s.wallet.Credit(ctx, userID, amount); err != nil {
		// The charge went through but the wallet could not be credited.
		// Surface the anomaly for reconciliation; the ledger row records
		// the failure.
		log.Printf("ANOMALY: deposit %d charged (ref %s) but credit failed: %v", tx.ID, charge.Reference, err)
		return tx, s.finalize(tx, models.StatusFailed)
	}

	return tx, s.finalize(tx, models.StatusCompleted)
}

func (s *service) Withdraw(ctx context.Context, userID uint, amount decimal.Decimal, method models.PaymentMethod) (*models.Transaction, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.wallet.ValidateBalance(ctx, userID, amount); err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	tx := &models.Transaction{
		UserID:                   userID,
		Kind:                     models.KindWithdrawal,
		Amount:                   amount,
		Status:                   models.StatusPending,
		PaymentMethod:            method,
		ExternalPaymentReference: s.config.Refs(),
	}
	if err := s.ledger.Create(tx); err != nil {
		return nil, err
	}

	if _, err := s.wallet.Debit(ctx, userID, amount); err != nil {
		// Balance changed between the fail-fast check and the debit.
		return tx, s.finalize(tx, models.StatusFailed)
	}

	return tx, s.finalize(tx, models.StatusCompleted)
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
