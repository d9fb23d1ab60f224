package engine

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// backRank is the rank a color's pieces start on.
func (c Color) backRank() int {
	if c == White {
		return 0
	}
	return 7
}

// promotionRank is the farthest rank from c's point of view.
func (c Color) promotionRank() int {
	return c.Opposite().backRank()
}

func (c Color) pawnStartRank() int {
	if c == White {
		return 1
	}
	return 6
}

func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "",
	Pawn:   "Pawn",
	Knight: "Knight",
	Bishop: "Bishop",
	Rook:   "Rook",
	Queen:  "Queen",
	King:   "King",
}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("PieceKind(%d)", k)
}

// Letter returns the notation letter for k. Pawns have none.
func (k PieceKind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// Promotable reports whether a pawn may be promoted to k.
func (k PieceKind) Promotable() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// ParsePieceKind accepts a kind name such as "Queen" (case-insensitive) or
// its notation letter.
func ParsePieceKind(s string) (PieceKind, error) {
	for k := Pawn; k <= King; k++ {
		if strings.EqualFold(s, k.String()) || (k != Pawn && s == k.Letter()) {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("%w: unknown piece kind %q", ErrInvalidRequest, s)
}

// Square addresses the board by file (0 = a) and rank (0 = white's back rank).
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

func (s Square) Add(v Vector) Square {
	return Square{File: s.File + v.DF, Rank: s.Rank + v.DR}
}

func (s Square) fileLetter() string {
	return string(rune('a' + s.File))
}

func (s Square) rankDigit() string {
	return string(rune('1' + s.Rank))
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return s.fileLetter() + s.rankDigit()
}

// ParseSquare parses algebraic coordinates like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	sq := Square{File: int(s[0]) - 'a', Rank: int(s[1]) - '1'}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return sq, nil
}

type Piece struct {
	Kind   PieceKind `json:"kind"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
	// HasMoved is tracked for kings and rooks only.
	HasMoved bool `json:"hasMoved"`
	// EnPassantEligible is set on a pawn for the single ply after its double step.
	EnPassantEligible bool `json:"enPassantEligible"`
}

// Board is square-addressable piece storage with no knowledge of legality.
type Board struct {
	squares [8][8]*Piece // [rank][file]
}

func NewBoard() *Board {
	return &Board{}
}

// StandardBoard returns the initial setup.
func StandardBoard() *Board {
	b := NewBoard()
	backRow := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for _, c := range []Color{White, Black} {
		for file := 0; file < 8; file++ {
			b.Place(&Piece{Kind: backRow[file], Color: c}, Square{File: file, Rank: c.backRank()})
			b.Place(&Piece{Kind: Pawn, Color: c}, Square{File: file, Rank: c.pawnStartRank()})
		}
	}
	return b
}

func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.squares[sq.Rank][sq.File]
}

// Place puts p on an empty square. Callers must clear the destination first.
func (b *Board) Place(p *Piece, sq Square) {
	if !sq.Valid() {
		panic(InvariantViolation{Reason: fmt.Sprintf("place on invalid square %v", sq)})
	}
	if occupant := b.squares[sq.Rank][sq.File]; occupant != nil {
		panic(InvariantViolation{Reason: fmt.Sprintf("two pieces resolved to %s", sq)})
	}
	p.Square = sq
	b.squares[sq.Rank][sq.File] = p
}

// Remove clears sq and returns the piece that was there, if any.
func (b *Board) Remove(sq Square) *Piece {
	p := b.PieceAt(sq)
	if p != nil {
		b.squares[sq.Rank][sq.File] = nil
	}
	return p
}

// relocate moves the piece on from to the empty square to.
func (b *Board) relocate(from, to Square) *Piece {
	p := b.Remove(from)
	if p == nil {
		panic(InvariantViolation{Reason: fmt.Sprintf("no piece to move on %s", from)})
	}
	b.Place(p, to)
	return p
}

// Pieces returns c's pieces ordered by rank, then file.
func (b *Board) Pieces(c Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if p := b.squares[rank][file]; p != nil && p.Color == c {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

// King returns c's king and panics when it is missing.
func (b *Board) King(c Color) *Piece {
	for _, p := range b.Pieces(c) {
		if p.Kind == King {
			return p
		}
	}
	panic(InvariantViolation{Reason: fmt.Sprintf("missing %s king", c)})
}

func (b *Board) clearEnPassant() {
	for rank := range b.squares {
		for _, p := range b.squares[rank] {
			if p != nil {
				p.EnPassantEligible = false
			}
		}
	}
}

func (b *Board) clone() *Board {
	c := NewBoard()
	for rank := range b.squares {
		for file, p := range b.squares[rank] {
			if p != nil {
				cp := *p
				c.squares[rank][file] = &cp
			}
		}
	}
	return c
}

// String draws the board from white's side, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(Square{Rank: rank}.rankDigit())
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteByte(fenChar(b.squares[rank][file]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}
