package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eden-labs/trading-gateway/internal/api/dto"
	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/service"
	apperrors "github.com/eden-labs/trading-gateway/pkg/util"
)

// AuthHandler exposes the login and token-test endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login/access-token. The credentials arrive
// form-encoded with OAuth2 password-flow field names.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	_, token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.NewUnauthorized("Incorrect email or password")
		case errors.Is(err, service.ErrInactiveUser):
			return apperrors.NewValidationError("Inactive user", nil)
		default:
			return apperrors.NewInternalError(err)
		}
	}

	return c.JSON(dto.NewSuccess(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, reqID(c)))
}

// TestToken handles POST /auth/test-token, echoing the verified identity.
func (h *AuthHandler) TestToken(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(dto.NewSuccess(dto.IdentityResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     string(identity.Role),
		IsActive: identity.Active,
	}, reqID(c)))
}
