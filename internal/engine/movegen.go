package engine

// Vector is a file/rank step.
type Vector struct {
	DF int `json:"df"`
	DR int `json:"dr"`
}

func (v Vector) Reverse() Vector {
	return Vector{DF: -v.DF, DR: -v.DR}
}

func (v Vector) zero() bool {
	return v.DF == 0 && v.DR == 0
}

var (
	rookDirs   = []Vector{{DF: 1, DR: 0}, {DF: -1, DR: 0}, {DF: 0, DR: 1}, {DF: 0, DR: -1}}
	bishopDirs = []Vector{{DF: 1, DR: 1}, {DF: 1, DR: -1}, {DF: -1, DR: 1}, {DF: -1, DR: -1}}
	knightDirs = []Vector{{DF: 2, DR: 1}, {DF: 2, DR: -1}, {DF: -2, DR: 1}, {DF: -2, DR: -1}, {DF: 1, DR: 2}, {DF: 1, DR: -2}, {DF: -1, DR: 2}, {DF: -1, DR: -2}}
	kingDirs   = append(append([]Vector{}, rookDirs...), bishopDirs...)
)

// moveVectors is indexed by PieceKind. Pawns are handled separately.
var moveVectors = [...][]Vector{
	Knight: knightDirs,
	Bishop: bishopDirs,
	Rook:   rookDirs,
	Queen:  kingDirs,
	King:   kingDirs,
}

func sliding(k PieceKind) bool {
	return k == Bishop || k == Rook || k == Queen
}

// pawnAttackDirs are the capture diagonals, distinct from the push direction.
func pawnAttackDirs(c Color) []Vector {
	return []Vector{{DF: -1, DR: c.forward()}, {DF: 1, DR: c.forward()}}
}

// pseudoMoves returns the pseudo-legal destinations of p, castling excluded.
// The order is stable for a given position.
func pseudoMoves(b *Board, p *Piece) []Square {
	switch {
	case p.Kind == Pawn:
		return pawnMoves(b, p)
	case sliding(p.Kind):
		return slideMoves(b, p)
	default:
		return stepMoves(b, p)
	}
}

func slideMoves(b *Board, p *Piece) []Square {
	var moves []Square
	for _, dir := range moveVectors[p.Kind] {
		target := p.Square.Add(dir)
		for target.Valid() {
			occupant := b.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != p.Color && occupant.Kind != King {
					moves = append(moves, target)
				}
				break
			}
			target = target.Add(dir)
		}
	}
	return moves
}

func stepMoves(b *Board, p *Piece) []Square {
	var moves []Square
	for _, dir := range moveVectors[p.Kind] {
		target := p.Square.Add(dir)
		if !target.Valid() {
			continue
		}
		if occupant := b.PieceAt(target); occupant == nil || (occupant.Color != p.Color && occupant.Kind != King) {
			moves = append(moves, target)
		}
	}
	return moves
}

func pawnMoves(b *Board, p *Piece) []Square {
	var moves []Square
	step := Vector{DR: p.Color.forward()}
	one := p.Square.Add(step)
	if one.Valid() && b.PieceAt(one) == nil {
		moves = append(moves, one)
		two := one.Add(step)
		if p.Square.Rank == p.Color.pawnStartRank() && b.PieceAt(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dir := range pawnAttackDirs(p.Color) {
		target := p.Square.Add(dir)
		if !target.Valid() {
			continue
		}
		if occupant := b.PieceAt(target); occupant != nil {
			if occupant.Color != p.Color && occupant.Kind != King {
				moves = append(moves, target)
			}
			continue
		}
		if isEnPassantTarget(b, p, target) {
			moves = append(moves, target)
		}
	}
	return moves
}

// isEnPassantTarget reports whether the empty diagonal square target can be
// reached by capturing an eligible pawn beside p.
func isEnPassantTarget(b *Board, p *Piece, target Square) bool {
	side := b.PieceAt(Square{File: target.File, Rank: p.Square.Rank})
	return side != nil && side.Kind == Pawn && side.Color != p.Color && side.EnPassantEligible
}

func isEnPassantMove(b *Board, p *Piece, to Square) bool {
	return p.Kind == Pawn && to.File != p.Square.File && b.PieceAt(to) == nil
}
