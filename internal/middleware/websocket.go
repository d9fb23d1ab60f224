package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to websocket endpoints are real
// upgrade attempts carrying a player ID and every named route parameter.
func WebSocketUpgrade(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		for _, param := range required {
			if c.Params(param) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": param + " is required",
				})
			}
		}
		if PlayerID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}
		return c.Next()
	}
}
