package repositories

import (
	"errors"
	"time"

	"pulsa/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository is the data access contract for users and their balances.
//
// GetByIDForUpdate takes a row lock and is only meaningful inside
// ExecuteInTransaction; the wallet service relies on it to make its
// check-and-mutate sequence atomic per user.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDForUpdate(id uint) (*models.User, error)
	UpdateBalance(id uint, balance decimal.Decimal, at time.Time) error
	ExecuteInTransaction(fn func(tx UserRepository) error) error
}
