package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	PlayerIDHeader = "X-Player-ID"
	PlayerIDLocal  = "playerID"
)

// EnsurePlayerID resolves the caller's player ID from the X-Player-ID header
// or the playerId query parameter. Callers without one get a fresh ID, echoed
// back in the response header so they can reuse it on reconnect.
func EnsurePlayerID(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDLocal) != nil {
			return c.Next()
		}

		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			playerID = uuid.New().String()
			log.Debug().Str("player", playerID).Str("path", c.Path()).Msg("assigned player ID")
		}

		c.Set(PlayerIDHeader, playerID)
		c.Locals(PlayerIDLocal, playerID)
		return c.Next()
	}
}

// PlayerID returns the ID stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDLocal).(string)
	return id
}
