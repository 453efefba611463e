package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/config"
	"partsdepot/internal/core/domain"
	"partsdepot/internal/pkg/jwt"
	"partsdepot/internal/pkg/response"
)

// AuthMiddleware creates authentication middleware. After the signature
// check it re-fetches the user, so deactivating an account takes effect
// on the next request even while the access token is still unexpired.
func AuthMiddleware(cfg *config.Config, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token (signature and expiry only)
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Re-fetch the user: tokens must not outlive a deactivation
		user, err := users.GetByID(c.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			return response.Unauthorized(c, "Unauthorized")
		}

		// 6. Set user info in context
		c.Locals("userID", user.ID)
		c.Locals("email", user.Email)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// RequireRole creates role-based authorization middleware. Admin
// satisfies every required role.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !domain.Role(role).Satisfies(required) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
