package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/middleware"
	"github.com/benbeisheim/relaychess/internal/relay"
)

type RoomController struct {
	hub *relay.Hub
	log zerolog.Logger
}

func NewRoomController(hub *relay.Hub, log zerolog.Logger) *RoomController {
	return &RoomController{hub: hub, log: log}
}

func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	room := rc.hub.CreateRoom()
	rc.log.Info().Str("room", room.ID).Str("player", middleware.PlayerID(c)).Msg("room requested")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created",
		"roomId":  room.ID,
	})
}

func (rc *RoomController) GetRoomState(c *fiber.Ctx) error {
	room, err := rc.hub.Room(c.Params("roomId"))
	if err != nil {
		if errors.Is(err, relay.ErrRoomNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		rc.log.Error().Err(err).Str("room", c.Params("roomId")).Msg("get room")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch room state",
		})
	}
	return c.JSON(room.State())
}

func (rc *RoomController) LeaveMatchmaking(c *fiber.Ctx) error {
	rc.hub.LeaveMatchmaking(middleware.PlayerID(c))
	return c.JSON(fiber.Map{
		"status": "left",
	})
}
