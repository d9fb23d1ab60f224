package engine

// Zobrist keys for position hashing, drawn from a fixed-seed PRNG so every
// instance hashes identically.
var (
	zobristPiece      [2][7][8][8]uint64 // [Color][PieceKind][rank][file]
	zobristCastling   [4]uint64          // K Q k q
	zobristEnPassant  [8]uint64          // one per file
	zobristSideToMove uint64             // XOR when black to move
)

func init() {
	rng := &prng{state: 0x98F107A2BEEF1234}
	for c := range zobristPiece {
		for k := Pawn; k <= King; k++ {
			for rank := 0; rank < 8; rank++ {
				for file := 0; file < 8; file++ {
					zobristPiece[c][k][rank][file] = rng.next()
				}
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

type prng struct {
	state uint64
}

// xorshift64*
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// positionKey hashes the board, side to move, castling rights and the en
// passant file when a capture there is available.
func (g *Game) positionKey() uint64 {
	var key uint64
	for _, c := range []Color{White, Black} {
		for _, p := range g.board.Pieces(c) {
			key ^= zobristPiece[c][p.Kind][p.Square.Rank][p.Square.File]
		}
	}
	if g.turn == Black {
		key ^= zobristSideToMove
	}
	for i, ok := range castlingRights(g.board) {
		if ok {
			key ^= zobristCastling[i]
		}
	}
	if file, ok := g.enPassantFile(); ok {
		key ^= zobristEnPassant[file]
	}
	return key
}

// enPassantFile returns the file of an en passant capture the side to move
// can legally make. Requires g.legal to be current.
func (g *Game) enPassantFile() (int, bool) {
	for from, dests := range g.legal {
		p := g.board.PieceAt(from)
		for _, to := range dests {
			if isEnPassantMove(g.board, p, to) {
				return to.File, true
			}
		}
	}
	return 0, false
}

// Repetitions counts how often the current position has occurred.
func (g *Game) Repetitions() int {
	return g.positions[g.positionKey()]
}
