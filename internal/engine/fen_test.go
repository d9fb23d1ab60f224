package engine

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/KPp4r/8/8/8/7k w - c6 0 1",
	} {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Errorf("FEN round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestFENAfterMoves(t *testing.T) {
	g := NewGame()
	if g.FEN() != StartFEN {
		t.Fatalf("start FEN = %s", g.FEN())
	}
	play(t, g, "e2e4")
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; g.FEN() != want {
		t.Fatalf("FEN = %s, want %s", g.FEN(), want)
	}
	play(t, g, "c7c5", "g1f3")
	if want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"; g.FEN() != want {
		t.Fatalf("FEN = %s, want %s", g.FEN(), want)
	}
}

func TestFENShortForm(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 b - -")
	if g.Turn() != Black || g.HalfmoveClock() != 0 || g.FullmoveNumber() != 1 {
		t.Fatalf("turn %s clock %d move %d", g.Turn(), g.HalfmoveClock(), g.FullmoveNumber())
	}
}

func TestInvalidFEN(t *testing.T) {
	for name, fen := range map[string]string{
		"empty":            "",
		"no kings":         "8/8/8/8/8/8/8/8 w - - 0 1",
		"two white kings":  "4k3/8/8/8/8/8/8/3KK3 w - - 0 1",
		"seven ranks":      "8/8/8/8/8/8/4K2k w - - 0 1",
		"long rank":        "4k3/8/8/8/8/8/8/4K3p w - - 0 1",
		"bad piece":        "4k3/8/8/8/8/8/8/4K2x w - - 0 1",
		"bad side":         "4k3/8/8/8/8/8/8/4K3 x - - 0 1",
		"castling no rook": "4k3/8/8/8/8/8/8/4K3 w K - 0 1",
		"en passant empty": "4k3/8/8/8/8/8/8/4K3 w - e6 0 1",
		"en passant rank":  "4k3/8/8/8/8/8/4p3/4K3 w - e3 0 1",
		"en passant taken": "4k3/8/4n3/4p3/8/8/8/4K3 w - e6 0 1",
		"en passant start": "4k3/4n3/8/4p3/8/8/8/4K3 w - e6 0 1",
		"bad clock":        "4k3/8/8/8/8/8/8/4K3 w - - x 1",
		"zero fullmove":    "4k3/8/8/8/8/8/8/4K3 w - - 0 0",
	} {
		if _, err := NewGameFromFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("%s: err = %v, want ErrInvalidFEN", name, err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4")
	c := g.Clone()
	play(t, c, "e7e5", "g1f3")
	if g.FEN() != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Fatalf("original changed: %s", g.FEN())
	}
	if len(g.History()) != 1 || len(c.History()) != 3 {
		t.Fatalf("history lengths %d and %d", len(g.History()), len(c.History()))
	}
}
