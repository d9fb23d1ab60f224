package engine

// ThreatMap flags squares attacked by the side not to move.
type ThreatMap [8][8]bool

func (m ThreatMap) Attacked(sq Square) bool {
	return sq.Valid() && m[sq.Rank][sq.File]
}

func (m *ThreatMap) mark(sq Square) {
	m[sq.Rank][sq.File] = true
}

// PinMap holds, for each pinned piece of the side to move, the axis it is
// pinned along. Empty entries are the zero Vector.
type PinMap [8][8]Vector

func (m PinMap) Pinned(sq Square) (Vector, bool) {
	if !sq.Valid() {
		return Vector{}, false
	}
	v := m[sq.Rank][sq.File]
	return v, !v.zero()
}

// analysis is derived from scratch for every position.
type analysis struct {
	threats  ThreatMap
	pins     PinMap
	checkers []Square
	// evasions marks the squares a non-king piece may move to in order to
	// resolve a single check: the checker itself and any square between it
	// and the king.
	evasions [8][8]bool
}

func (a *analysis) inCheck() bool {
	return len(a.checkers) > 0
}

func (a *analysis) evades(sq Square) bool {
	return a.evasions[sq.Rank][sq.File]
}

// analyze computes threats, pins and checks against side.
func analyze(b *Board, side Color) *analysis {
	a := &analysis{}
	king := b.King(side)
	for _, attacker := range b.Pieces(side.Opposite()) {
		castThreats(b, attacker, king, a)
		if sliding(attacker.Kind) {
			castPins(b, attacker, king, a)
		}
	}
	return a
}

// castThreats marks every square attacker reaches. Rays pass through the
// defending king so it cannot step back along the line of attack.
func castThreats(b *Board, attacker, king *Piece, a *analysis) {
	if attacker.Kind == Pawn {
		for _, dir := range pawnAttackDirs(attacker.Color) {
			target := attacker.Square.Add(dir)
			if !target.Valid() {
				continue
			}
			a.threats.mark(target)
			if target == king.Square {
				a.addChecker(attacker.Square)
			}
		}
		return
	}
	for _, dir := range moveVectors[attacker.Kind] {
		target := attacker.Square.Add(dir)
		for target.Valid() {
			a.threats.mark(target)
			if !sliding(attacker.Kind) {
				if target == king.Square && attacker.Kind != King {
					a.addChecker(attacker.Square)
				}
				break
			}
			if occupant := b.PieceAt(target); occupant != nil && occupant != king {
				break
			}
			target = target.Add(dir)
		}
	}
}

// castPins walks each ray of a sliding attacker toward the defending king.
// An unobstructed ray is a check; a ray with exactly one defending piece
// before the king pins that piece.
func castPins(b *Board, attacker, king *Piece, a *analysis) {
	for _, dir := range moveVectors[attacker.Kind] {
		var (
			ray     []Square
			blocker *Piece
		)
		target := attacker.Square.Add(dir)
		for target.Valid() {
			occupant := b.PieceAt(target)
			if occupant == nil {
				ray = append(ray, target)
				target = target.Add(dir)
				continue
			}
			if occupant == king {
				if blocker == nil {
					a.addChecker(attacker.Square)
					for _, sq := range ray {
						a.evasions[sq.Rank][sq.File] = true
					}
				} else {
					a.pins[blocker.Square.Rank][blocker.Square.File] = dir
				}
				break
			}
			if occupant.Color == attacker.Color || blocker != nil {
				break
			}
			blocker = occupant
			target = target.Add(dir)
		}
	}
}

func (a *analysis) addChecker(sq Square) {
	for _, existing := range a.checkers {
		if existing == sq {
			return
		}
	}
	a.checkers = append(a.checkers, sq)
	a.evasions[sq.Rank][sq.File] = true
}

// attackedBy reports whether any piece of color attacks target. It is used
// for one-off verification after a simulated move.
func attackedBy(b *Board, color Color, target Square) bool {
	for _, dir := range rookDirs {
		if p := firstOnRay(b, target, dir); p != nil && p.Color == color && (p.Kind == Rook || p.Kind == Queen) {
			return true
		}
	}
	for _, dir := range bishopDirs {
		if p := firstOnRay(b, target, dir); p != nil && p.Color == color && (p.Kind == Bishop || p.Kind == Queen) {
			return true
		}
	}
	for _, dir := range knightDirs {
		if p := b.PieceAt(target.Add(dir)); p != nil && p.Color == color && p.Kind == Knight {
			return true
		}
	}
	for _, dir := range kingDirs {
		if p := b.PieceAt(target.Add(dir)); p != nil && p.Color == color && p.Kind == King {
			return true
		}
	}
	for _, dir := range pawnAttackDirs(color) {
		if p := b.PieceAt(target.Add(dir.Reverse())); p != nil && p.Color == color && p.Kind == Pawn {
			return true
		}
	}
	return false
}

func firstOnRay(b *Board, from Square, dir Vector) *Piece {
	for sq := from.Add(dir); sq.Valid(); sq = sq.Add(dir) {
		if p := b.PieceAt(sq); p != nil {
			return p
		}
	}
	return nil
}
