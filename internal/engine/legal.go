package engine

// legalFor filters the pseudo-legal moves of p, a piece of the side to move,
// against the current pins, checks and threats. Turn and status gating
// happens at the public entry points.
func (g *Game) legalFor(p *Piece) []Square {
	a := g.analysis
	var moves []Square
	if p.Kind == King {
		for _, to := range pseudoMoves(g.board, p) {
			if !a.threats.Attacked(to) {
				moves = append(moves, to)
			}
		}
		return append(moves, castlingTargets(g.board, p, a)...)
	}
	// Only the king can answer a double check.
	if len(a.checkers) > 1 {
		return nil
	}
	pin, pinned := a.pins.Pinned(p.Square)
	for _, to := range pseudoMoves(g.board, p) {
		if isEnPassantMove(g.board, p, to) {
			// The captured pawn leaves a square the pin and check masks
			// know nothing about, so play it out instead.
			if !exposesKing(g.board, p, to) {
				moves = append(moves, to)
			}
			continue
		}
		if pinned && !colinear(p.Square, to, pin) {
			continue
		}
		if a.inCheck() && !a.evades(to) {
			continue
		}
		moves = append(moves, to)
	}
	return moves
}

func colinear(from, to Square, dir Vector) bool {
	df, dr := to.File-from.File, to.Rank-from.Rank
	return df*dir.DR-dr*dir.DF == 0
}

// exposesKing simulates the en passant capture of p onto to and reports
// whether its own king would be attacked afterwards.
func exposesKing(b *Board, p *Piece, to Square) bool {
	from := p.Square
	victimSq := Square{File: to.File, Rank: from.Rank}
	victim := b.Remove(victimSq)
	b.relocate(from, to)
	exposed := attackedBy(b, p.Color.Opposite(), b.King(p.Color).Square)
	b.relocate(to, from)
	if victim != nil {
		b.Place(victim, victimSq)
	}
	return exposed
}

// refresh rebuilds the analysis and legal move sets for the side to move.
func (g *Game) refresh() {
	g.analysis = analyze(g.board, g.turn)
	g.legal = make(map[Square][]Square)
	g.legalCount = 0
	for _, p := range g.board.Pieces(g.turn) {
		if moves := g.legalFor(p); len(moves) > 0 {
			g.legal[p.Square] = moves
			g.legalCount += len(moves)
		}
	}
}
