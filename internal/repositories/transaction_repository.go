package repositories

import (
	"context"
	"errors"

	"pulsa/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository is the ledger store. Rows are created pending and
// updated exactly once when the owning processor finalizes them.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	Update(tx *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}
