package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/api/dto"
	"github.com/spec-kit/fleet-maintenance/internal/service"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// AuthHandler exposes employee login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.EmployeeID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: dto.UserResponse{
			ID:   result.User.ID,
			Name: result.User.Name,
			Role: result.User.Role,
		},
	}})
}
