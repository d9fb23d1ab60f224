package engine

import (
	"sort"
	"strings"
	"testing"
)

func sq(s string) Square {
	q, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return q
}

func mustFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

// uciRequest parses coordinate moves such as "e2e4" or "e7e8q".
func uciRequest(t *testing.T, move string) MoveRequest {
	t.Helper()
	if len(move) != 4 && len(move) != 5 {
		t.Fatalf("bad move %q", move)
	}
	req := MoveRequest{From: sq(move[:2]), To: sq(move[2:4])}
	if len(move) == 5 {
		kind, err := ParsePieceKind(strings.ToUpper(move[4:]))
		if err != nil {
			t.Fatalf("bad promotion in %q: %v", move, err)
		}
		req.Promotion = kind
	}
	return req
}

func uci(req MoveRequest) string {
	return req.From.String() + req.To.String() + strings.ToLower(req.Promotion.Letter())
}

func play(t *testing.T, g *Game, moves ...string) Outcome {
	t.Helper()
	var out Outcome
	for i, m := range moves {
		var err error
		out, err = g.Move(uciRequest(t, m))
		if err != nil {
			t.Fatalf("move %d (%s): %v\n%s", i, m, err, g)
		}
	}
	return out
}

func squareNames(squares []Square) []string {
	names := make([]string, len(squares))
	for i, s := range squares {
		names[i] = s.String()
	}
	sort.Strings(names)
	return names
}

func uciMoves(moves []MoveRequest) []string {
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = uci(m)
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
