package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Phone    string `gorm:"uniqueIndex;not null" json:"phone"`
	Role     string `gorm:"default:'user'" json:"role"`

	// Balance is the prepaid wallet balance. It is mutated only by the
	// wallet service and never goes negative.
	Balance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
