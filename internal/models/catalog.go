package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogItem is a purchasable top-up product. The core reads it but never
// writes it; price and the active flag are evaluated once per purchase.
type CatalogItem struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	CategoryID uint            `gorm:"index;not null" json:"category_id"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Active     bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
