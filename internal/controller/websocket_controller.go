package controller

import (
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/middleware"
	"github.com/benbeisheim/relaychess/internal/relay"
)

type WebSocketController struct {
	hub *relay.Hub
	log zerolog.Logger
}

func NewWebSocketController(hub *relay.Hub, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, log: log}
}

// connPeer adapts a websocket connection to relay.Peer. Writes are
// serialized because the room may broadcast from several reader goroutines.
type connPeer struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *connPeer) ID() string { return p.id }

func (p *connPeer) Send(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, []byte(token))
}

// HandleRoom attaches the connection to a room and relays every text frame
// until the connection closes.
func (wsc *WebSocketController) HandleRoom(c *websocket.Conn) {
	roomID := c.Params("roomId")
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	log := wsc.log.With().Str("room", roomID).Str("player", playerID).Logger()

	room, err := wsc.hub.Room(roomID)
	if err != nil {
		log.Warn().Err(err).Msg("connect to room")
		wsc.closeWith(c, websocket.ClosePolicyViolation, err.Error())
		return
	}
	peer := &connPeer{id: playerID, conn: c}
	if _, err := room.Join(peer); err != nil {
		log.Warn().Err(err).Msg("join room")
		wsc.closeWith(c, websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer func() {
		room.Leave(playerID)
		if room.State().Reason != "" && wsc.hub.RemoveRoom(roomID) {
			log.Debug().Msg("finished room dropped")
		}
	}()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("read")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		// Rejections are answered with an error token inside Relay.
		if err := room.Relay(playerID, string(message)); errors.Is(err, relay.ErrNotConnected) {
			return
		}
	}
}

// HandleMatchmaking queues the player and writes the Match as JSON once a
// partner is found. Closing the connection leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	log := wsc.log.With().Str("player", playerID).Logger()

	matches, err := wsc.hub.JoinMatchmaking(playerID)
	if err != nil {
		wsc.closeWith(c, websocket.ClosePolicyViolation, err.Error())
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case m, ok := <-matches:
		if !ok {
			return
		}
		if err := c.WriteJSON(m); err != nil {
			log.Error().Err(err).Msg("send match")
			return
		}
		wsc.closeWith(c, websocket.CloseNormalClosure, "matched")
		<-gone
	case <-gone:
		wsc.hub.LeaveMatchmaking(playerID)
		log.Info().Msg("left matchmaking")
	}
}

func (wsc *WebSocketController) closeWith(c *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := c.WriteMessage(websocket.CloseMessage, msg); err != nil {
		wsc.log.Debug().Err(err).Msg("write close")
	}
}
