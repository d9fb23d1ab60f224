package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/relaychess/internal/engine"
	"github.com/benbeisheim/relaychess/internal/session"
)

// printer serializes terminal output from the input loop, the relay reader
// and the clock.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

func (p *printer) snapshot(s session.Snapshot) {
	var b strings.Builder
	b.WriteString(s.Board)
	b.WriteString("\n")
	fmt.Fprintf(&b, "White %s | Black %s\n", clockText(s.WhiteTime), clockText(s.BlackTime))
	fmt.Fprintf(&b, "Opening: %s\n", s.Opening)
	if len(s.Moves) > 0 {
		fmt.Fprintf(&b, "Moves: %s\n", strings.Join(s.Moves, " "))
	}
	if taken := pieceList(s.Captured[engine.White]); taken != "" {
		fmt.Fprintf(&b, "White captured: %s\n", taken)
	}
	if taken := pieceList(s.Captured[engine.Black]); taken != "" {
		fmt.Fprintf(&b, "Black captured: %s\n", taken)
	}
	switch {
	case s.Reason != "":
		fmt.Fprintf(&b, "Game over: %s (winner: %s)\n", s.Reason, s.Winner)
	case !s.Started:
		fmt.Fprintf(&b, "Playing %s, waiting for the game to start\n", s.Side)
	default:
		fmt.Fprintf(&b, "%s to move (%s)\n", s.Turn, s.Status)
	}
	p.line(b.String())
}

func clockText(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func pieceList(kinds []engine.PieceKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " ")
}
