// Package session drives one engine.Game for a peer. Local input and tokens
// from the relay are serialized through a single lock, so the engine only
// ever sees one mutator.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/clock"
	"github.com/benbeisheim/relaychess/internal/engine"
	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/protocol"
)

// Sender delivers tokens to the relay.
type Sender interface {
	Send(token string) error
}

type Config struct {
	Time      time.Duration
	Increment time.Duration
	// Sender is nil for a hotseat game where one terminal plays both sides.
	Sender   Sender
	Openings opening.Lookup
	Logger   zerolog.Logger
	// OnChange is called after every state change, outside the session lock.
	OnChange func(Snapshot)
}

type Session struct {
	mu      sync.Mutex
	cfg     Config
	game    *engine.Game
	side    protocol.Side
	hotseat bool
	started bool
	clocks  *clock.Pair
	opening string
	log     zerolog.Logger
}

func New(cfg Config) *Session {
	s := &Session{
		cfg:     cfg,
		hotseat: cfg.Sender == nil,
		side:    protocol.Spectator,
		log:     cfg.Logger,
	}
	if s.hotseat {
		s.side = protocol.SideWhite
		s.started = true
	}
	s.reset()
	return s
}

// reset starts a fresh game. Callers hold s.mu or own s exclusively.
func (s *Session) reset() {
	if s.clocks != nil {
		s.clocks.Stop()
	}
	s.game = engine.NewGame()
	s.opening = opening.StartingPosition
	var p *clock.Pair
	p = clock.NewPair(s.cfg.Time, s.cfg.Increment, func(loser engine.Color) {
		s.expire(p, loser)
	}, clock.WithLogger(s.log))
	s.clocks = p
}

// Receive applies one token from the relay. Unparseable tokens are logged
// and discarded.
func (s *Session) Receive(raw string) error {
	tok, err := protocol.Parse(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("token", raw).Msg("discarding token")
		return err
	}

	s.mu.Lock()
	err = s.receive(tok)
	snap := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("token", raw).Msg("rejected remote token")
		return err
	}
	s.notify(snap)
	return nil
}

func (s *Session) receive(tok protocol.Token) error {
	switch tok.Kind {
	case protocol.KindInit:
		return s.handshake(tok.Init)
	case protocol.KindStart:
		s.started = true
		if len(s.game.History()) > 0 && !s.game.Status().Terminal() {
			s.clocks.Resume(s.game.Turn())
		}
		s.log.Info().Str("side", s.side.String()).Msg("game started")
	case protocol.KindStop:
		s.started = false
		s.clocks.Stop()
		s.log.Info().Msg("game stopped")
	case protocol.KindMove:
		if mine, ok := s.side.Color(); ok && s.game.Turn() == mine {
			return fmt.Errorf("%w: remote move %s on our turn", engine.ErrWrongTurn, tok)
		}
		out, err := s.game.Move(tok.Move)
		if err != nil {
			return err
		}
		s.completed(out)
	case protocol.KindPromotion:
		if mine, ok := s.side.Color(); ok && s.game.Status() == (engine.Status{Kind: engine.AwaitingPromotion, Color: mine}) {
			return fmt.Errorf("%w: remote promotion of our pawn", engine.ErrIllegalMove)
		}
		out, err := s.game.Promote(tok.Promotion)
		if err != nil {
			return err
		}
		s.completed(out)
	case protocol.KindError:
		s.log.Warn().Str("reason", tok.Reason).Msg("relay reported an error")
	}
	return nil
}

// handshake resets the game and replays the prior move list without
// sending anything back.
func (s *Session) handshake(h protocol.Handshake) error {
	s.reset()
	s.side = h.Side
	s.started = false
	for i, tok := range h.Moves {
		var err error
		switch tok.Kind {
		case protocol.KindMove:
			_, err = s.game.Move(tok.Move)
		case protocol.KindPromotion:
			_, err = s.game.Promote(tok.Promotion)
		}
		if err != nil {
			return fmt.Errorf("replay token %d (%s): %w", i, tok, err)
		}
	}
	s.refreshOpening()
	s.log.Info().
		Str("side", h.Side.String()).
		Str("room", h.Reserved).
		Int("replayed", len(h.Moves)).
		Msg("joined game")
	return nil
}

// Play makes a local move and forwards it. A pawn reaching the last rank
// without a pre-decided promotion suspends until Promote.
func (s *Session) Play(req engine.MoveRequest) (engine.Outcome, error) {
	s.mu.Lock()
	out, err := s.play(req)
	snap := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		return out, err
	}
	s.notify(snap)
	return out, nil
}

func (s *Session) play(req engine.MoveRequest) (engine.Outcome, error) {
	if err := s.canAct(); err != nil {
		return engine.Outcome{}, err
	}
	out, err := s.game.Move(req)
	if err != nil {
		return out, err
	}
	if out.Pending {
		s.send(protocol.Token{Kind: protocol.KindMove, Move: engine.MoveRequest{From: req.From, To: req.To}})
		return out, nil
	}
	for _, tok := range protocol.MoveTokens(*out.Record) {
		s.send(tok)
	}
	s.completed(out)
	return out, nil
}

// PlayNotation resolves an algebraic move and plays it.
func (s *Session) PlayNotation(san string) (engine.Outcome, error) {
	s.mu.Lock()
	req, err := s.game.ResolveNotation(san)
	s.mu.Unlock()
	if err != nil {
		return engine.Outcome{}, err
	}
	return s.Play(req)
}

// Promote resolves a local pending promotion.
func (s *Session) Promote(kind engine.PieceKind) (engine.Outcome, error) {
	s.mu.Lock()
	out, err := s.promote(kind)
	snap := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		return out, err
	}
	s.notify(snap)
	return out, nil
}

func (s *Session) promote(kind engine.PieceKind) (engine.Outcome, error) {
	if !s.hotseat {
		if s.side == protocol.Spectator {
			return engine.Outcome{}, ErrSpectator
		}
		mine, _ := s.side.Color()
		if st := s.game.Status(); st.Kind == engine.AwaitingPromotion && st.Color != mine {
			return engine.Outcome{}, ErrNotYourPromotion
		}
	}
	out, err := s.game.Promote(kind)
	if err != nil {
		return out, err
	}
	s.send(protocol.Token{Kind: protocol.KindPromotion, Promotion: kind})
	s.completed(out)
	return out, nil
}

func (s *Session) canAct() error {
	if !s.started {
		return ErrNotStarted
	}
	if s.hotseat {
		return nil
	}
	mine, ok := s.side.Color()
	if !ok {
		return ErrSpectator
	}
	if s.game.Turn() != mine {
		return ErrNotYourTurn
	}
	return nil
}

// completed runs the bookkeeping after a move finishes.
func (s *Session) completed(out engine.Outcome) {
	if out.Pending || out.Record == nil {
		return
	}
	rec := out.Record
	s.refreshOpening()
	if out.Status.Terminal() {
		s.clocks.Stop()
		winner, reason, _ := out.Status.Result()
		s.log.Info().Str("winner", winner).Str("reason", reason).Msg("game over")
	} else if s.started {
		s.clocks.Switch(rec.Color)
	}
	s.log.Debug().
		Str("move", rec.Notation).
		Str("color", rec.Color.String()).
		Str("status", out.Status.String()).
		Msg("move completed")
}

func (s *Session) refreshOpening() {
	if s.cfg.Openings == nil {
		return
	}
	name, err := s.cfg.Openings.Name(s.game.Notations())
	switch {
	case err == nil:
		s.opening = name
	case !errors.Is(err, opening.ErrUnknownOpening):
		s.log.Error().Err(err).Msg("opening lookup")
	}
}

func (s *Session) send(tok protocol.Token) {
	if s.cfg.Sender == nil {
		return
	}
	if err := s.cfg.Sender.Send(tok.String()); err != nil {
		s.log.Error().Err(err).Str("token", tok.String()).Msg("send token")
	}
}

// expire is the clock callback. Callbacks from a pair replaced by a later
// handshake are ignored.
func (s *Session) expire(p *clock.Pair, loser engine.Color) {
	s.mu.Lock()
	if s.clocks != p {
		s.mu.Unlock()
		return
	}
	err := s.game.EndGame(loser)
	snap := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		s.log.Debug().Err(err).Msg("timeout after game end")
		return
	}
	s.notify(snap)
}

func (s *Session) notify(snap Snapshot) {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(snap)
	}
}

// LegalMoves lists the destinations of the piece on from, for highlighting.
func (s *Session) LegalMoves(from engine.Square) []engine.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(from)
}

// Close stops the clocks.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clocks.Stop()
}
