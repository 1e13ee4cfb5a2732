package handlers

import (
	"pulsa/internal/repositories"
	"pulsa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	ledger repositories.TransactionRepository
}

func NewTransactionHandler(ledger repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// List returns the caller's transactions, newest first.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit, offset := utils.Pagination(c)
	txs, err := h.ledger.ListByUser(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"limit":        limit,
		"offset":       offset,
	})
}
