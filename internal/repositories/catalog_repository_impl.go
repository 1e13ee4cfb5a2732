package repositories

import (
	"errors"
	"fmt"

	"pulsa/internal/models"

	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetItem(id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}
	return &item, nil
}

func (r *catalogRepository) ListItems(categoryID uint) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	query := r.db.Where("active = ?", true)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}

func (r *catalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *catalogRepository) CreateCategory(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *catalogRepository) CreateItem(item *models.CatalogItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}
	return nil
}
