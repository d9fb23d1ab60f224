package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/middleware"
	"github.com/benbeisheim/relaychess/internal/relay"
)

// Mount registers the REST and websocket routes on app.
func Mount(app *fiber.App, hub *relay.Hub, origins []string, log zerolog.Logger) {
	roomController := NewRoomController(hub, log)
	wsController := NewWebSocketController(hub, log)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}
	ws := app.Group("/ws", middleware.EnsurePlayerID(log))
	ws.Get("/room/:roomId", middleware.WebSocketUpgrade("roomId"), websocket.New(wsController.HandleRoom, wsConfig))
	ws.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID(log))
	rooms := api.Group("/room")
	rooms.Post("/create", roomController.CreateRoom)
	rooms.Get("/:roomId", roomController.GetRoomState)
	api.Post("/matchmaking/leave", roomController.LeaveMatchmaking)
}
