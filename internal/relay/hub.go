// Package relay forwards peer tokens between the participants of a room.
package relay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/protocol"
)

// Match tells a queued player which room and seat they were paired into.
type Match struct {
	RoomID string        `json:"roomId"`
	Side   protocol.Side `json:"side"`
}

type Hub struct {
	rooms            map[string]*Room
	queue            *Queue
	matchingChannels map[string]chan Match
	mu               sync.RWMutex
	openings         opening.Lookup
	idleTimeout      time.Duration
	log              zerolog.Logger
}

type Option func(*Hub)

// WithIdleTimeout sets how long a room may stay empty before Run drops it.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idleTimeout = d }
}

// WithOpenings names the opening of every room's game.
func WithOpenings(l opening.Lookup) Option {
	return func(h *Hub) { h.openings = l }
}

func NewHub(log zerolog.Logger, opts ...Option) *Hub {
	h := &Hub{
		rooms:            make(map[string]*Room),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan Match),
		idleTimeout:      10 * time.Minute,
		log:              log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) CreateRoom() *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.createRoom()
}

func (h *Hub) createRoom() *Room {
	id := uuid.New().String()
	room := NewRoom(id, h.openings, h.log)
	h.rooms[id] = room
	h.log.Info().Str("room", id).Msg("room created")
	return room
}

func (h *Hub) Room(id string) (*Room, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// RemoveRoom drops a room once nobody is connected to it.
func (h *Hub) RemoveRoom(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[id]
	if !ok || !room.Empty() {
		return false
	}
	delete(h.rooms, id)
	h.log.Info().Str("room", id).Msg("room removed")
	return true
}

// sweep removes rooms that have been empty for the idle timeout. Matched
// rooms count from creation, so a pair that never connects is dropped too.
func (h *Hub) sweep(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for id, room := range h.rooms {
		if room.idle(now, h.idleTimeout) {
			delete(h.rooms, id)
			removed++
			h.log.Info().Str("room", id).Msg("idle room removed")
		}
	}
	return removed
}

// JoinMatchmaking queues a player. The returned channel receives one Match
// and is then closed; it is closed without a value if the player leaves the
// queue first.
func (h *Hub) JoinMatchmaking(playerID string) (<-chan Match, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.queue.Add(playerID); err != nil {
		h.log.Warn().Err(err).Str("player", playerID).Msg("join matchmaking")
		return nil, err
	}
	ch := make(chan Match, 1)
	h.matchingChannels[playerID] = ch
	h.log.Info().Str("player", playerID).Int("queued", h.queue.Size()).Msg("player queued")
	return ch, nil
}

func (h *Hub) LeaveMatchmaking(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.queue.Remove(playerID)
	if ch, ok := h.matchingChannels[playerID]; ok {
		delete(h.matchingChannels, playerID)
		close(ch)
	}
}

// Run pairs queued players and drops idle rooms every interval until ctx is
// done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.matchPending()
			h.sweep(now)
		}
	}
}

// matchPending seats every waiting pair in a fresh room. The player who
// waited longest plays white.
func (h *Hub) matchPending() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := 0
	for {
		white, black, ok := h.queue.NextPair()
		if !ok {
			return matched
		}
		room := h.createRoom()
		room.Reserve(white.ID, protocol.SideWhite)
		room.Reserve(black.ID, protocol.SideBlack)
		h.notifyMatch(white.ID, Match{RoomID: room.ID, Side: protocol.SideWhite})
		h.notifyMatch(black.ID, Match{RoomID: room.ID, Side: protocol.SideBlack})
		h.log.Info().Str("room", room.ID).Str("white", white.ID).Str("black", black.ID).Msg("match found")
		matched++
	}
}

func (h *Hub) notifyMatch(playerID string, m Match) {
	ch, ok := h.matchingChannels[playerID]
	if !ok {
		return
	}
	ch <- m
	delete(h.matchingChannels, playerID)
	close(ch)
}
