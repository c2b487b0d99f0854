package middleware

import (
	"folio/internal/services"
	"folio/internal/sessions"

	"github.com/gofiber/fiber/v2"
)

// SessionRequired is a Fiber middleware that resolves the session cookie to an
// authenticated user ID. Requests without a valid, unexpired session get 401.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessions.CookieName)
		userID, err := authService.ResolveSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Store the user ID in Fiber context for subsequent handlers
		c.Locals("user_id", userID)

		return c.Next()
	}
}
