package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eden-labs/trading-gateway/internal/domain"
	apperrors "github.com/eden-labs/trading-gateway/pkg/util"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens and stores the verified identity in
// the request context. Identity comes straight from the token claims, so
// no storage lookup happens here.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware constructs middleware around the token service.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// RequireRole returns a guard that runs after Handle and rejects callers
// below the required role. Failed role checks are 403, not 401.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if err := Authorize(identity, required); err != nil {
			return apperrors.NewForbidden("insufficient permissions for " + string(required) + " access")
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the verified identity, if any.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
