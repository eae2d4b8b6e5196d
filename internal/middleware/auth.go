// Package middleware provides HTTP middleware for the API.
// It includes JWT authentication and permission checks for the
// fiber web framework.
package middleware

import (
	"log"
	"strings"

	"vigil/internal/models"
	"vigil/internal/utils"
	"vigil/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the Bearer token and stashes the claims in the request
// context under "claims".
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		_, claims, err := utils.ParseToken(tokenString)
		if err != nil {
			log.Printf("Token validation error: %v", err)
			return response.Error(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// RequirePermission rejects requests whose claims lack the permission.
// Must run after Auth.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c)
		}
		if !claims.HasPermission(permission) {
			return response.Forbidden(c)
		}
		return c.Next()
	}
}
