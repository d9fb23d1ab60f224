package session

import (
	"time"

	"github.com/benbeisheim/relaychess/internal/engine"
	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/protocol"
)

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	Side      protocol.Side         `json:"side"`
	Started   bool                  `json:"started"`
	FEN       string                `json:"fen"`
	Board     string                `json:"board"`
	Turn      engine.Color          `json:"turn"`
	Status    engine.Status         `json:"status"`
	Winner    string                `json:"winner,omitempty"`
	Reason    string                `json:"reason,omitempty"`
	Moves     []string              `json:"moves"`
	Opening   string                `json:"opening"`
	WhiteTime time.Duration         `json:"whiteTime"`
	BlackTime time.Duration         `json:"blackTime"`
	Captured  [2][]engine.PieceKind `json:"captured"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Side:      s.side,
		Started:   s.started,
		FEN:       s.game.FEN(),
		Board:     s.game.String(),
		Turn:      s.game.Turn(),
		Status:    s.game.Status(),
		Moves:     opening.Numbered(s.game.Notations()),
		Opening:   s.opening,
		WhiteTime: s.clocks.Remaining(engine.White),
		BlackTime: s.clocks.Remaining(engine.Black),
		Captured:  [2][]engine.PieceKind{s.game.Captured(engine.White), s.game.Captured(engine.Black)},
	}
	snap.Winner, snap.Reason, _ = snap.Status.Result()
	return snap
}
