package handlers

import (
	"errors"

	"pulsa/internal/models"
	"pulsa/internal/services/topup"
	"pulsa/internal/utils"
	"pulsa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TopUpHandler struct {
	topupService topup.Service
}

func NewTopUpHandler(topupService topup.Service) *TopUpHandler {
	return &TopUpHandler{topupService: topupService}
}

func (h *TopUpHandler) TopUp(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		CatalogItemID    uint   `json:"catalog_item_id"`
		TargetIdentifier string `json:"target_identifier"`
		PaymentMethod    string `json:"payment_method"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if !validation.ValidTargetIdentifier(input.TargetIdentifier) {
		return utils.BadRequest(c, "invalid target identifier")
	}

	method := models.PaymentMethod(input.PaymentMethod)
	if method != models.MethodWallet && method != models.MethodExternalGateway {
		return utils.BadRequest(c, "payment_method must be wallet or external_gateway")
	}

	tx, err := h.topupService.TopUp(c.Context(), claims.UserID, input.CatalogItemID, input.TargetIdentifier, method)
	if err != nil {
		switch {
		case errors.Is(err, topup.ErrItemNotFound):
			return utils.NotFound(c, "catalog item not found")
		case errors.Is(err, topup.ErrUserNotFound):
			return utils.NotFound(c, "user not found")
		case errors.Is(err, topup.ErrInsufficientBalance):
			return utils.UnprocessableEntity(c, "insufficient balance")
		default:
			return utils.InternalError(c, "failed to process top-up")
		}
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}
