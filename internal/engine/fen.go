package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const fenLetters = "PNBRQK"

func fenChar(p *Piece) byte {
	if p == nil {
		return '.'
	}
	ch := fenLetters[p.Kind-Pawn]
	if p.Color == Black {
		ch += 'a' - 'A'
	}
	return ch
}

type fenPosition struct {
	board    *Board
	turn     Color
	halfmove int
	fullmove int
}

func parseFEN(fen string) (*fenPosition, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}
	pos := &fenPosition{board: NewBoard(), fullmove: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	kings := [2]int{}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			idx := strings.IndexRune(fenLetters, unicode.ToUpper(ch))
			if idx < 0 || file > 7 {
				return nil, fmt.Errorf("%w: bad piece %q on rank %d", ErrInvalidFEN, ch, rank+1)
			}
			p := &Piece{Kind: Pawn + PieceKind(idx), Color: White}
			if ch >= 'a' {
				p.Color = Black
			}
			if p.Kind == King {
				kings[p.Color]++
			}
			if p.Kind == King || p.Kind == Rook {
				p.HasMoved = true
			}
			pos.board.Place(p, Square{File: file, Rank: rank})
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		pos.turn = White
	case "b":
		pos.turn = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			c, side := White, kingside
			switch ch {
			case 'K':
			case 'Q':
				side = queenside
			case 'k':
				c = Black
			case 'q':
				c, side = Black, queenside
			default:
				return nil, fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, fields[2])
			}
			king := pos.board.PieceAt(Square{File: kingHomeFile, Rank: c.backRank()})
			rook := pos.board.PieceAt(Square{File: side.rookFrom, Rank: c.backRank()})
			if king == nil || king.Kind != King || king.Color != c || rook == nil || rook.Kind != Rook || rook.Color != c {
				return nil, fmt.Errorf("%w: castling right %q without king and rook at home", ErrInvalidFEN, ch)
			}
			king.HasMoved = false
			rook.HasMoved = false
		}
	}

	if fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, fields[3])
		}
		mover := pos.turn.Opposite()
		if target.Rank != mover.pawnStartRank()+mover.forward() {
			return nil, fmt.Errorf("%w: en passant square %s is not behind a double step", ErrInvalidFEN, target)
		}
		if pos.board.PieceAt(target) != nil || pos.board.PieceAt(target.Add(Vector{DR: -mover.forward()})) != nil {
			return nil, fmt.Errorf("%w: en passant square %s or its origin is occupied", ErrInvalidFEN, target)
		}
		pawn := pos.board.PieceAt(target.Add(Vector{DR: mover.forward()}))
		if pawn == nil || pawn.Kind != Pawn || pawn.Color != mover {
			return nil, fmt.Errorf("%w: no pawn behind en passant square %s", ErrInvalidFEN, target)
		}
		pawn.EnPassantEligible = true
	}

	if len(fields) >= 6 {
		var err error
		if pos.halfmove, err = strconv.Atoi(fields[4]); err != nil || pos.halfmove < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		if pos.fullmove, err = strconv.Atoi(fields[5]); err != nil || pos.fullmove < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
	}
	return pos, nil
}

// FEN renders the current position.
func (g *Game) FEN() string {
	var sb strings.Builder
	sb.WriteString(boardFEN(g.board))

	sb.WriteByte(' ')
	if g.turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	rights := castlingRights(g.board)
	wrote := false
	for i, ok := range rights {
		if ok {
			sb.WriteByte("KQkq"[i])
			wrote = true
		}
	}
	if !wrote {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(g.enPassantTarget())
	fmt.Fprintf(&sb, " %d %d", g.halfmoveClock, g.fullmove)
	return sb.String()
}

func boardFEN(b *Board) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.PieceAt(Square{File: file, Rank: rank})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenChar(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func (g *Game) enPassantTarget() string {
	for _, p := range g.board.Pieces(g.turn.Opposite()) {
		if p.Kind == Pawn && p.EnPassantEligible {
			return p.Square.Add(Vector{DR: -p.Color.forward()}).String()
		}
	}
	return "-"
}
