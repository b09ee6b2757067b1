package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Middleware for downstream handlers.
const (
	LocalUsuarioID = "usuario_id"
	LocalEmail     = "email"
)

// Middleware gates a route behind a bearer token. A missing credential is
// 401 and an invalid or expired one is 403: the client must be able to tell
// "log in" from "token expired, log in again".
func Middleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token ausente")
		}

		claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}

		c.Locals(LocalUsuarioID, claims.ID)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// UsuarioID extracts the authenticated owner id stored by Middleware.
func UsuarioID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalUsuarioID).(int64)
	return id, ok && id != 0
}
