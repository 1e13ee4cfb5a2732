package handlers

import (
	"errors"

	"pulsa/internal/models"
	"pulsa/internal/services/auth"
	"pulsa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// extractUserClaims is shared by the authenticated handlers.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Email == "" || input.Password == "" || input.Name == "" || input.Phone == "" {
		return utils.BadRequest(c, "email, password, name and phone are required")
	}

	user, err := h.authService.Register(auth.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Phone:    input.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	token, user, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, err.Error())
		}
		return utils.InternalError(c, "failed to log in")
	}

	return utils.Success(c, fiber.Map{"token": token, "user": user})
}
