package engine

type castleSide struct {
	rookFrom, rookTo int
	kingTo           int
	notation         string
}

var (
	kingside  = castleSide{rookFrom: 7, rookTo: 5, kingTo: 6, notation: "O-O"}
	queenside = castleSide{rookFrom: 0, rookTo: 3, kingTo: 2, notation: "O-O-O"}
	castles   = []castleSide{kingside, queenside}
)

const kingHomeFile = 4

// castlingTargets returns the castling destinations open to king. The king
// and rook must be unmoved, the squares between them empty, and neither the
// king's square, its transit square nor its destination attacked.
func castlingTargets(b *Board, king *Piece, a *analysis) []Square {
	home := Square{File: kingHomeFile, Rank: king.Color.backRank()}
	if king.HasMoved || king.Square != home || a.inCheck() {
		return nil
	}
	var targets []Square
	for _, side := range castles {
		if !castleRookReady(b, king.Color, side) {
			continue
		}
		if !emptyBetween(b, home.File, side.rookFrom, home.Rank) {
			continue
		}
		if transitAttacked(a, home.File, side.kingTo, home.Rank) {
			continue
		}
		targets = append(targets, Square{File: side.kingTo, Rank: home.Rank})
	}
	return targets
}

func castleRookReady(b *Board, c Color, side castleSide) bool {
	rook := b.PieceAt(Square{File: side.rookFrom, Rank: c.backRank()})
	return rook != nil && rook.Kind == Rook && rook.Color == c && !rook.HasMoved
}

func emptyBetween(b *Board, fileA, fileB, rank int) bool {
	lo, hi := min(fileA, fileB), max(fileA, fileB)
	for file := lo + 1; file < hi; file++ {
		if b.PieceAt(Square{File: file, Rank: rank}) != nil {
			return false
		}
	}
	return true
}

func transitAttacked(a *analysis, fromFile, toFile, rank int) bool {
	lo, hi := min(fromFile, toFile), max(fromFile, toFile)
	for file := lo; file <= hi; file++ {
		if a.threats.Attacked(Square{File: file, Rank: rank}) {
			return true
		}
	}
	return false
}

// castlingRights reports, in K Q k q order, which castles remain possible by
// the unmoved-king and unmoved-rook rule, ignoring attacks and obstruction.
func castlingRights(b *Board) [4]bool {
	var rights [4]bool
	for i, c := range []Color{White, Black} {
		king := b.PieceAt(Square{File: kingHomeFile, Rank: c.backRank()})
		if king == nil || king.Kind != King || king.Color != c || king.HasMoved {
			continue
		}
		rights[2*i] = castleRookReady(b, c, kingside)
		rights[2*i+1] = castleRookReady(b, c, queenside)
	}
	return rights
}

func isCastle(p *Piece, to Square) bool {
	return p.Kind == King && abs(to.File-p.Square.File) == 2
}

func castleFor(to Square) castleSide {
	if to.File == kingside.kingTo {
		return kingside
	}
	return queenside
}

// execute applies the board side effects of moving p to to and returns the
// captured piece, if any. En passant eligibility is cleared board-wide first
// so that it lives for exactly one ply.
func execute(b *Board, p *Piece, to Square) *Piece {
	from := p.Square
	enPassant := isEnPassantMove(b, p, to)
	b.clearEnPassant()

	var captured *Piece
	switch {
	case enPassant:
		captured = b.Remove(Square{File: to.File, Rank: from.Rank})
	case b.PieceAt(to) != nil:
		captured = b.Remove(to)
	}
	if isCastle(p, to) {
		side := castleFor(to)
		rook := b.relocate(Square{File: side.rookFrom, Rank: from.Rank}, Square{File: side.rookTo, Rank: from.Rank})
		rook.HasMoved = true
	}
	b.relocate(from, to)
	if p.Kind == King || p.Kind == Rook {
		p.HasMoved = true
	}
	if p.Kind == Pawn && abs(to.Rank-from.Rank) == 2 {
		p.EnPassantEligible = true
	}
	return captured
}

// promote replaces the pawn on sq with a new piece of kind.
func promote(b *Board, sq Square, kind PieceKind) {
	pawn := b.Remove(sq)
	if pawn == nil || pawn.Kind != Pawn {
		panic(InvariantViolation{Reason: "promotion without a pawn on " + sq.String()})
	}
	b.Place(&Piece{Kind: kind, Color: pawn.Color, HasMoved: true}, sq)
}

func needsPromotion(p *Piece) bool {
	return p.Kind == Pawn && p.Square.Rank == p.Color.promotionRank()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
