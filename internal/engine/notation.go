package engine

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// MoveRecord is one entry of the append-only move history.
type MoveRecord struct {
	Notation    string    `json:"notation"`
	Color       Color     `json:"color"`
	Kind        PieceKind `json:"kind"`
	From        Square    `json:"from"`
	To          Square    `json:"to"`
	Captured    PieceKind `json:"captured,omitempty"`
	Promotion   PieceKind `json:"promotion,omitempty"`
	IsCapture   bool      `json:"isCapture"`
	IsCheck     bool      `json:"isCheck"`
	IsCheckmate bool      `json:"isCheckmate"`
}

// describe builds the notation body for p moving to to in the current
// position: everything except the promotion and check suffixes.
func (g *Game) describe(p *Piece, to Square) (body string, capture bool) {
	if isCastle(p, to) {
		return castleFor(to).notation, false
	}
	from := p.Square
	capture = g.board.PieceAt(to) != nil || isEnPassantMove(g.board, p, to)

	var sb strings.Builder
	if p.Kind == Pawn {
		if capture {
			sb.WriteString(from.fileLetter())
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		return sb.String(), capture
	}
	sb.WriteString(p.Kind.Letter())
	sb.WriteString(g.disambiguation(p, to))
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	return sb.String(), capture
}

// disambiguation names the source file and/or rank when another piece of
// the same kind and color could legally reach to.
func (g *Game) disambiguation(p *Piece, to Square) string {
	var sameFile, sameRank, rivals bool
	for _, other := range g.board.Pieces(p.Color) {
		if other == p || other.Kind != p.Kind || !slices.Contains(g.legal[other.Square], to) {
			continue
		}
		rivals = true
		if other.Square.File == p.Square.File {
			sameFile = true
		}
		if other.Square.Rank == p.Square.Rank {
			sameRank = true
		}
	}
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return p.Square.fileLetter()
	case !sameRank:
		return p.Square.rankDigit()
	default:
		return p.Square.String()
	}
}

func promotionSuffix(kind PieceKind) string {
	if kind == NoKind {
		return ""
	}
	return "=" + kind.Letter()
}

func checkSuffix(rec *MoveRecord) string {
	switch {
	case rec.IsCheckmate:
		return "#"
	case rec.IsCheck:
		return "+"
	}
	return ""
}

// ResolveNotation finds the legal move written as san in the current
// position. A promotion written without "=X" resolves to a request that
// suspends for the promotion decision.
func (g *Game) ResolveNotation(san string) (MoveRequest, error) {
	if g.status.blocksMoves() {
		return MoveRequest{}, g.blockedErr()
	}
	clean := strings.TrimRight(strings.TrimSpace(san), "+#!?")
	clean = strings.ReplaceAll(clean, "0", "O")
	for _, req := range g.AllLegalMoves() {
		body, _ := g.describe(g.board.PieceAt(req.From), req.To)
		if clean == body+promotionSuffix(req.Promotion) {
			return req, nil
		}
		if req.Promotion == Queen && clean == body {
			req.Promotion = NoKind
			return req, nil
		}
	}
	return MoveRequest{}, fmt.Errorf("%w: %q", ErrUnknownNotation, san)
}

// MoveNotation plays the move written as san.
func (g *Game) MoveNotation(san string) (Outcome, error) {
	req, err := g.ResolveNotation(san)
	if err != nil {
		return Outcome{}, err
	}
	return g.Move(req)
}
