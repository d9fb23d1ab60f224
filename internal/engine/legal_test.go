package engine

import (
	"errors"
	"testing"
)

func TestPseudoMoves(t *testing.T) {
	b := StandardBoard()
	tests := []struct {
		from string
		want []string
	}{
		{"e2", []string{"e3", "e4"}},
		{"g1", []string{"f3", "h3"}},
		{"a1", nil},
		{"d1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got := squareNames(pseudoMoves(b, b.PieceAt(sq(tt.from))))
			if !equalStrings(got, tt.want) {
				t.Fatalf("pseudoMoves(%s) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}

func TestPseudoMovesNeverTargetKing(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/8/8/8/4RK2 w - - 0 1")
	rook := g.board.PieceAt(sq("e1"))
	for _, to := range pseudoMoves(g.board, rook) {
		if to == sq("e8") {
			t.Fatal("rook pseudo-move lands on the enemy king")
		}
	}
}

func TestLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{
			name: "opponent piece has none",
			fen:  StartFEN,
			from: "e7",
			want: nil,
		},
		{
			name: "bishop pinned on file",
			fen:  "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
			from: "e2",
			want: nil,
		},
		{
			name: "rook pinned on file slides along it",
			fen:  "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
			from: "e2",
			want: []string{"e3", "e4", "e5", "e6", "e7"},
		},
		{
			name: "king cannot retreat along checking ray",
			fen:  "4k3/8/8/8/8/8/8/r3K3 w - - 0 1",
			from: "e1",
			want: []string{"d2", "e2", "f2"},
		},
		{
			name: "knight check answered by capture",
			fen:  "4k3/8/8/8/8/5n2/6B1/3RK2R w K - 0 1",
			from: "g2",
			want: []string{"f3"},
		},
		{
			name: "knight check cannot be blocked",
			fen:  "4k3/8/8/8/8/5n2/6B1/3RK2R w K - 0 1",
			from: "d1",
			want: nil,
		},
		{
			name: "king evades knight check",
			fen:  "4k3/8/8/8/8/5n2/6B1/3RK2R w K - 0 1",
			from: "e1",
			want: []string{"e2", "f1", "f2"},
		},
		{
			name: "pawn check answered by knight",
			fen:  "4k3/8/8/8/8/8/3p4/1N2K3 w - - 0 1",
			from: "b1",
			want: []string{"d2"},
		},
		{
			name: "double check allows only king moves",
			fen:  "4k3/8/8/8/8/5n2/6B1/4K2r w - - 0 1",
			from: "g2",
			want: nil,
		},
		{
			name: "king in double check",
			fen:  "4k3/8/8/8/8/5n2/6B1/4K2r w - - 0 1",
			from: "e1",
			want: []string{"e2", "f2"},
		},
		{
			name: "slider check blocked",
			fen:  "4k3/4r3/8/8/R7/8/8/4K3 w - - 0 1",
			from: "a4",
			want: []string{"e4"},
		},
		{
			name: "en passant exposing king on rank",
			fen:  "8/8/8/KPp4r/8/8/8/7k w - c6 0 1",
			from: "b5",
			want: []string{"b6"},
		},
		{
			name: "en passant removes checking pawn",
			fen:  "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
			from: "e4",
			want: []string{"d3"},
		},
		{
			name: "king may not capture defended piece",
			fen:  "4k3/8/8/8/8/3r4/3r4/4K3 w - - 0 1",
			from: "e1",
			want: []string{"f1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			got := squareNames(g.LegalMoves(sq(tt.from)))
			if !equalStrings(got, tt.want) {
				t.Fatalf("LegalMoves(%s) = %v, want %v\n%s", tt.from, got, tt.want, g)
			}
		})
	}
}

func TestPinMap(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	v, ok := g.PinMap().Pinned(sq("d2"))
	if !ok || v.DF == 0 || v.DR == 0 {
		t.Fatalf("d2 pin = %v, %v; want a diagonal pin", v, ok)
	}
	if _, ok := g.PinMap().Pinned(sq("e1")); ok {
		t.Fatal("king reported as pinned")
	}
	if got := g.LegalMoves(sq("d2")); len(got) != 0 {
		t.Fatalf("pinned knight has moves %v", squareNames(got))
	}
}

func TestThreatMapPassesThroughKing(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	threats := g.ThreatMap()
	for _, s := range []string{"b1", "d1", "e1", "f1", "h1", "a8"} {
		if !threats.Attacked(sq(s)) {
			t.Errorf("%s not attacked", s)
		}
	}
	if threats.Attacked(sq("e2")) {
		t.Error("e2 attacked")
	}
	if !g.InCheck() || g.Status() != (Status{Kind: Check, Color: White}) {
		t.Fatalf("status = %v, want Check(White)", g.Status())
	}
}

func TestMoveErrors(t *testing.T) {
	g := NewGame()
	tests := []struct {
		name string
		req  MoveRequest
		want error
	}{
		{"off board", MoveRequest{From: Square{4, 1}, To: Square{4, 8}}, ErrOutOfRange},
		{"empty source", MoveRequest{From: sq("e4"), To: sq("e5")}, ErrNoPiece},
		{"wrong side", MoveRequest{From: sq("e7"), To: sq("e5")}, ErrWrongTurn},
		{"illegal destination", MoveRequest{From: sq("e2"), To: sq("e5")}, ErrIllegalMove},
		{"promotion off last rank", MoveRequest{From: sq("e2"), To: sq("e4"), Promotion: Queen}, ErrInvalidPromotion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Move(tt.req)
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("Move(%v) err = %v, want %v", tt.req, err, tt.want)
			}
		})
	}
	if g.FEN() != StartFEN {
		t.Fatalf("rejected moves changed the board: %s", g.FEN())
	}
}

// Every legal move leaves the mover's own king unattacked.
func TestLegalMovesKeepKingSafe(t *testing.T) {
	for _, fen := range perftPositions {
		g := mustFEN(t, fen.fen)
		for ply := 0; ply < 24 && !g.Status().Terminal(); ply++ {
			moves := g.AllLegalMoves()
			mover := g.Turn()
			for _, m := range moves {
				c := g.Clone()
				if _, err := c.Move(m); err != nil {
					t.Fatalf("%s: legal move %s rejected: %v", fen.name, uci(m), err)
				}
				if attackedBy(c.board, mover.Opposite(), c.board.King(mover).Square) {
					t.Fatalf("%s: %s leaves the %s king attacked\n%s", fen.name, uci(m), mover, c)
				}
			}
			if len(moves) == 0 {
				break
			}
			if _, err := g.Move(moves[(ply*7)%len(moves)]); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestMapsAsValues(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	var pins PinMap = g.PinMap()
	var threats ThreatMap = g.ThreatMap()
	if _, ok := pins.Pinned(sq("d2")); !ok {
		t.Fatal("d2 not pinned")
	}
	if !threats.Attacked(sq("c3")) || threats.Attacked(sq("h8")) {
		t.Fatal("threat map does not follow the bishop's diagonals")
	}
	if _, ok := g.PinMap().Pinned(Square{File: 9, Rank: 9}); ok {
		t.Fatal("off-board square reported as pinned")
	}
}
