package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"a1", Square{0, 0}, false},
		{"e4", Square{4, 3}, false},
		{"h8", Square{7, 7}, false},
		{"i1", Square{}, true},
		{"a9", Square{}, true},
		{"e", Square{}, true},
		{"", Square{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("ParseSquare(%q) err = %v, want ErrOutOfRange", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseSquare(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			if got.String() != tt.in {
				t.Fatalf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestParsePieceKind(t *testing.T) {
	for in, want := range map[string]PieceKind{
		"Queen":  Queen,
		"queen":  Queen,
		"Knight": Knight,
		"N":      Knight,
		"R":      Rook,
		"Bishop": Bishop,
	} {
		got, err := ParsePieceKind(in)
		if err != nil || got != want {
			t.Errorf("ParsePieceKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePieceKind("Wizard"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("ParsePieceKind(Wizard) err = %v, want ErrInvalidRequest", err)
	}
}

func TestStandardBoard(t *testing.T) {
	b := StandardBoard()
	for _, c := range []Color{White, Black} {
		pieces := b.Pieces(c)
		if len(pieces) != 16 {
			t.Fatalf("%s has %d pieces, want 16", c, len(pieces))
		}
		for i := 1; i < len(pieces); i++ {
			prev, cur := pieces[i-1].Square, pieces[i].Square
			if prev.Rank > cur.Rank || (prev.Rank == cur.Rank && prev.File >= cur.File) {
				t.Fatalf("pieces out of board order: %v before %v", prev, cur)
			}
		}
	}
	if k := b.King(Black); k.Square != sq("e8") {
		t.Fatalf("black king on %v, want e8", k.Square)
	}
	for _, p := range b.Pieces(White) {
		if b.PieceAt(p.Square) != p {
			t.Fatalf("piece on %v is not stored in its slot", p.Square)
		}
	}
	if !strings.HasPrefix(b.String(), "8  r n b q k b n r") {
		t.Fatalf("unexpected diagram:\n%s", b)
	}
}

func TestBoardPlaceOccupiedPanics(t *testing.T) {
	b := StandardBoard()
	defer func() {
		r := recover()
		if _, ok := r.(InvariantViolation); !ok {
			t.Fatalf("recovered %v, want InvariantViolation", r)
		}
	}()
	b.Place(&Piece{Kind: Queen, Color: White}, sq("e2"))
}

func TestBoardMissingKingPanics(t *testing.T) {
	b := NewBoard()
	b.Place(&Piece{Kind: King, Color: White}, sq("e1"))
	defer func() {
		if _, ok := recover().(InvariantViolation); !ok {
			t.Fatal("expected InvariantViolation for a missing king")
		}
	}()
	b.King(Black)
}

func TestBoardRemoveAndRelocate(t *testing.T) {
	b := StandardBoard()
	if p := b.Remove(sq("e4")); p != nil {
		t.Fatalf("Remove(empty) = %v, want nil", p)
	}
	p := b.relocate(sq("e2"), sq("e4"))
	if p.Square != sq("e4") || b.PieceAt(sq("e2")) != nil || b.PieceAt(sq("e4")) != p {
		t.Fatalf("relocate left board out of sync: piece on %v", p.Square)
	}
}
