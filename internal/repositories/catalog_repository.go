package repositories

import (
	"errors"

	"pulsa/internal/models"
)

var ErrItemNotFound = errors.New("catalog item not found")

// CatalogRepository provides read access to the top-up catalog, plus the
// inserts the seed command needs. The transaction core only reads.
type CatalogRepository interface {
	GetItem(id uint) (*models.CatalogItem, error)
	ListItems(categoryID uint) ([]models.CatalogItem, error)
	ListCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
	CreateItem(item *models.CatalogItem) error
}
