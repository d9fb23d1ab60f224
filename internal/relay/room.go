package relay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/engine"
	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/protocol"
)

// Peer is one connection attached to a room. ID is the player ID, which
// survives reconnects.
type Peer interface {
	ID() string
	Send(token string) error
}

// Room relays tokens between the two seated players and any spectators.
// A referee game rejects illegal tokens before they are forwarded.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	referee *engine.Game
	seats   [2]string
	peers   map[string]Peer
	tokens  []protocol.Token
	started bool

	// emptySince is when the last peer left; zero while anyone is connected.
	emptySince time.Time

	// openings is optional; opening keeps the last name it matched.
	openings opening.Lookup
	opening  string

	log zerolog.Logger
}

type RoomState struct {
	ID         string       `json:"roomId"`
	FEN        string       `json:"fen"`
	Turn       engine.Color `json:"turn"`
	Status     string       `json:"status"`
	Winner     string       `json:"winner,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	Moves      []string     `json:"moves"`
	Opening    string       `json:"opening"`
	White      string       `json:"white"`
	Black      string       `json:"black"`
	Spectators int          `json:"spectators"`
	Started    bool         `json:"started"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func NewRoom(id string, openings opening.Lookup, log zerolog.Logger) *Room {
	r := &Room{
		ID:        id,
		CreatedAt: time.Now(),
		referee:   engine.NewGame(),
		peers:     make(map[string]Peer),
		openings:  openings,
		opening:   opening.StartingPosition,
		log:       log.With().Str("room", id).Logger(),
	}
	r.emptySince = r.CreatedAt
	return r
}

// Reserve holds a seat for a matched player before they connect.
func (r *Room) Reserve(playerID string, side protocol.Side) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := side.Color(); ok && r.seats[c] == "" {
		r.seats[c] = playerID
	}
}

// Join attaches a peer, sends it the init handshake with every prior token,
// and starts the game once both seats are connected.
func (r *Room) Join(p Peer) (protocol.Side, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[p.ID()]; ok {
		return protocol.Spectator, ErrAlreadyConnected
	}
	side := r.seatFor(p.ID())
	r.peers[p.ID()] = p
	r.emptySince = time.Time{}

	hello := protocol.Handshake{
		Side:     side,
		Reserved: r.ID,
		Moves:    append([]protocol.Token(nil), r.tokens...),
	}
	r.sendTo(p, protocol.FormatInit(hello))
	r.log.Info().Str("player", p.ID()).Str("side", side.String()).Int("replayed", len(r.tokens)).Msg("peer joined")

	if !r.started && r.seatsConnected() {
		r.started = true
		r.broadcast("", protocol.Start)
		r.log.Info().Msg("game started")
	} else if r.started {
		r.sendTo(p, protocol.Start)
	}
	return side, nil
}

func (r *Room) seatFor(playerID string) protocol.Side {
	for c, id := range r.seats {
		if id == playerID {
			return protocol.Side(c)
		}
	}
	for c, id := range r.seats {
		if id == "" {
			r.seats[c] = playerID
			return protocol.Side(c)
		}
	}
	return protocol.Spectator
}

func (r *Room) seatsConnected() bool {
	for _, id := range r.seats {
		if _, ok := r.peers[id]; id == "" || !ok {
			return false
		}
	}
	return true
}

// Leave detaches a peer. A seated player leaving pauses the game; the seat
// stays reserved for a reconnect.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[playerID]; !ok {
		return
	}
	delete(r.peers, playerID)
	if len(r.peers) == 0 {
		r.emptySince = time.Now()
	}
	side := r.sideOf(playerID)
	r.log.Info().Str("player", playerID).Str("side", side.String()).Msg("peer left")
	if side != protocol.Spectator && r.started {
		r.started = false
		r.broadcast("", protocol.Stop)
		r.log.Info().Msg("game stopped")
	}
}

func (r *Room) sideOf(playerID string) protocol.Side {
	for c, id := range r.seats {
		if id == playerID {
			return protocol.Side(c)
		}
	}
	return protocol.Spectator
}

// Relay validates one token from a peer and forwards it to everyone else in
// the room. Rejected tokens are answered with an error token to the sender.
func (r *Room) Relay(playerID, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.peers[playerID]
	if !ok {
		return fmt.Errorf("relay from %s: %w", playerID, ErrNotConnected)
	}
	tok, err := r.judge(playerID, raw)
	if err != nil {
		r.log.Warn().Err(err).Str("player", playerID).Str("token", raw).Msg("rejected token")
		r.sendTo(sender, protocol.FormatError(err.Error()))
		return err
	}
	if tok.Kind == protocol.KindError {
		r.log.Warn().Str("player", playerID).Str("reason", tok.Reason).Msg("peer reported an error")
		return nil
	}
	r.tokens = append(r.tokens, tok)
	r.broadcast(playerID, tok.String())
	return nil
}

// judge parses a token and applies it to the referee game.
func (r *Room) judge(playerID, raw string) (protocol.Token, error) {
	tok, err := protocol.Parse(raw)
	if err != nil {
		return tok, err
	}
	switch tok.Kind {
	case protocol.KindMove, protocol.KindPromotion:
	case protocol.KindError:
		return tok, nil
	default:
		return tok, fmt.Errorf("%w: %s", ErrUnexpectedToken, tok.Kind)
	}

	mine, seated := r.sideOf(playerID).Color()
	switch {
	case !seated:
		return tok, ErrNotSeated
	case !r.started:
		return tok, ErrNotStarted
	}

	var out engine.Outcome
	if tok.Kind == protocol.KindMove {
		if r.referee.Turn() != mine {
			return tok, ErrNotYourTurn
		}
		out, err = r.referee.Move(tok.Move)
	} else {
		if st := r.referee.Status(); st.Kind == engine.AwaitingPromotion && st.Color != mine {
			return tok, ErrNotYourTurn
		}
		out, err = r.referee.Promote(tok.Promotion)
	}
	if err != nil {
		return tok, err
	}
	if out.Record != nil {
		r.log.Debug().Str("move", out.Record.Notation).Str("status", out.Status.String()).Msg("move relayed")
		r.lookupOpening()
	}
	if out.Status.Terminal() {
		winner, reason, _ := out.Status.Result()
		r.log.Info().Str("winner", winner).Str("reason", reason).Msg("game over")
	}
	return tok, nil
}

func (r *Room) lookupOpening() {
	if r.openings == nil {
		return
	}
	name, err := r.openings.Name(r.referee.Notations())
	switch {
	case err == nil:
		r.opening = name
	case !errors.Is(err, opening.ErrUnknownOpening):
		r.log.Error().Err(err).Msg("opening lookup")
	}
}

func (r *Room) broadcast(except, token string) {
	for id, p := range r.peers {
		if id == except {
			continue
		}
		r.sendTo(p, token)
	}
}

func (r *Room) sendTo(p Peer, token string) {
	if err := p.Send(token); err != nil {
		r.log.Error().Err(err).Str("player", p.ID()).Str("token", token).Msg("send token")
	}
}

func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := RoomState{
		ID:        r.ID,
		FEN:       r.referee.FEN(),
		Turn:      r.referee.Turn(),
		Status:    r.referee.Status().String(),
		Moves:     opening.Numbered(r.referee.Notations()),
		Opening:   r.opening,
		White:     r.seats[engine.White],
		Black:     r.seats[engine.Black],
		Started:   r.started,
		CreatedAt: r.CreatedAt,
	}
	st.Winner, st.Reason, _ = r.referee.Status().Result()
	for id := range r.peers {
		if r.sideOf(id) == protocol.Spectator {
			st.Spectators++
		}
	}
	return st
}

// Empty reports whether no peer is connected.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers) == 0
}

// idle reports whether the room has had nobody connected for at least d.
func (r *Room) idle(now time.Time, d time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers) == 0 && !r.emptySince.IsZero() && now.Sub(r.emptySince) >= d
}
