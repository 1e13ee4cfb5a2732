package handlers

import (
	"pulsa/internal/repositories"
	"pulsa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog repositories.CatalogRepository
}

func NewCatalogHandler(catalog repositories.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		return utils.InternalError(c, "failed to list categories")
	}
	return utils.Success(c, fiber.Map{"categories": categories})
}

func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	categoryID := uint(c.QueryInt("category_id", 0))
	items, err := h.catalog.ListItems(categoryID)
	if err != nil {
		return utils.InternalError(c, "failed to list catalog items")
	}
	return utils.Success(c, fiber.Map{"items": items})
}
