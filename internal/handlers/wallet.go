package handlers

import (
	"errors"

	"pulsa/internal/models"
	"pulsa/internal/services/deposit"
	"pulsa/internal/services/wallet"
	"pulsa/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService  wallet.Service
	depositService deposit.Service
}

func NewWalletHandler(walletService wallet.Service, depositService deposit.Service) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		depositService: depositService,
	}
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.walletService.Balance(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to get balance")
	}

	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.depositService.Deposit(c.Context(), claims.UserID, input.Amount, models.MethodExternalGateway)
	if err != nil {
		switch {
		case errors.Is(err, deposit.ErrInvalidAmount):
			return utils.BadRequest(c, "amount must be greater than 0")
		case errors.Is(err, deposit.ErrUserNotFound):
			return utils.NotFound(c, "user not found")
		default:
			return utils.InternalError(c, "failed to process deposit")
		}
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.depositService.Withdraw(c.Context(), claims.UserID, input.Amount, models.MethodExternalGateway)
	if err != nil {
		switch {
		case errors.Is(err, deposit.ErrInvalidAmount):
			return utils.BadRequest(c, "amount must be greater than 0")
		case errors.Is(err, deposit.ErrInsufficientBalance):
			return utils.UnprocessableEntity(c, "insufficient balance")
		case errors.Is(err, deposit.ErrUserNotFound):
			return utils.NotFound(c, "user not found")
		default:
			return utils.InternalError(c, "failed to process withdrawal")
		}
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}
